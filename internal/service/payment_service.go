package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/export"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/payment"
)

type paymentRepository interface {
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	Record(ctx context.Context, payment *models.Payment) (models.PaymentRecorded, error)
}

type receiptRenderer interface {
	RenderFields(title string, fields []export.Field, footer string) ([]byte, error)
}

// PaymentIntentRequest asks the processor to authorise a card payment of Price.
type PaymentIntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

// RecordPaymentRequest stores a payment the client confirmed with the processor.
type RecordPaymentRequest struct {
	Email           string     `json:"email" validate:"omitempty,email"`
	Amount          float64    `json:"amount" validate:"gte=0"`
	TransactionID   string     `json:"transactionId" validate:"required"`
	SelectedClassID string     `json:"selectedClassId" validate:"omitempty,uuid"`
	ClassID         string     `json:"classId" validate:"omitempty,uuid"`
	ClassName       string     `json:"className"`
	Date            *time.Time `json:"date"`
}

// PaymentService creates processor intents and records completed payments.
type PaymentService struct {
	repo      paymentRepository
	gateway   payment.Gateway
	currency  string
	receipts  receiptRenderer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService charging in currency.
func NewPaymentService(repo paymentRepository, gateway payment.Gateway, currency string, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		repo:      repo,
		gateway:   gateway,
		currency:  strings.ToLower(currency),
		receipts:  export.NewPDFExporter(),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// CreateIntent opens a card-only payment intent for the price in minor units.
func (s *PaymentService) CreateIntent(ctx context.Context, req PaymentIntentRequest) (*models.PaymentIntent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid payment intent payload")
	}

	amount := payment.ToMinorUnits(req.Price)
	secret, err := s.gateway.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		s.metrics.RecordPaymentIntent("failed")
		s.logger.Error("payment intent failed", zap.Int64("amount", amount), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrPaymentFailed.Code, appErrors.ErrPaymentFailed.Status, appErrors.ErrPaymentFailed.Message)
	}
	s.metrics.RecordPaymentIntent("created")
	return &models.PaymentIntent{ClientSecret: secret}, nil
}

// Record stores the payment of payerEmail and removes the staged enrollment it settles.
func (s *PaymentService) Record(ctx context.Context, payerEmail string, req RecordPaymentRequest) (models.PaymentRecorded, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.PaymentRecorded{}, appErrors.Validation(err, "invalid payment payload")
	}
	if req.Email != "" && !strings.EqualFold(req.Email, payerEmail) {
		return models.PaymentRecorded{}, appErrors.ErrForbidden
	}

	p := &models.Payment{
		Email:           payerEmail,
		Amount:          req.Amount,
		TransactionID:   req.TransactionID,
		SelectedClassID: optional(req.SelectedClassID),
		ClassID:         optional(req.ClassID),
		ClassName:       req.ClassName,
	}
	if req.Date != nil {
		p.Date = req.Date.UTC()
	}

	result, err := s.repo.Record(ctx, p)
	if err != nil {
		return models.PaymentRecorded{}, appErrors.Internal(err, "failed to record payment")
	}
	s.logger.Info("payment recorded", zap.String("payment_id", p.ID), zap.String("transaction_id", p.TransactionID))
	return result, nil
}

// ListByEmail returns the payment history of email, newest first.
func (s *PaymentService) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	payments, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list payments")
	}
	return payments, nil
}

// Receipt renders a PDF receipt for a payment owned by requesterEmail.
func (s *PaymentService) Receipt(ctx context.Context, id, requesterEmail string) (*ExportFile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Internal(err, "failed to load payment")
	}
	if !strings.EqualFold(p.Email, requesterEmail) {
		return nil, appErrors.ErrForbidden
	}

	fields := []export.Field{
		{Label: "Receipt", Value: p.ID},
		{Label: "Class", Value: p.ClassName},
		{Label: "Student", Value: p.Email},
		{Label: "Amount", Value: fmt.Sprintf("%.2f %s", p.Amount, strings.ToUpper(s.currency))},
		{Label: "Transaction", Value: p.TransactionID},
		{Label: "Date", Value: p.Date.UTC().Format("2006-01-02 15:04 MST")},
	}
	payload, err := s.receipts.RenderFields("RhythmVerse Payment Receipt", fields, "Thank you for dancing with RhythmVerse.")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render receipt")
	}
	return &ExportFile{Filename: "receipt-" + p.ID + ".pdf", ContentType: "application/pdf", Data: payload}, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
