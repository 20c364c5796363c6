// Package payment bridges the API to the external card processor.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrNotConfigured is returned when no processor secret key was supplied.
var ErrNotConfigured = errors.New("payment processor is not configured")

// Gateway creates payment intents with an external processor.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error)
}

// ToMinorUnits converts a major-unit price (dollars) into cents.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// StripeGateway creates card-only PaymentIntents.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway builds a gateway bound to secretKey. backends may be nil to use
// the default Stripe endpoints.
func NewStripeGateway(secretKey string, backends *stripe.Backends) *StripeGateway {
	if secretKey == "" {
		return &StripeGateway{}
	}
	return &StripeGateway{api: client.New(secretKey, backends)}
}

// CreateIntent creates a PaymentIntent and returns its client secret.
func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	if g == nil || g.api == nil {
		return "", ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
