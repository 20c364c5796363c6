package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
)

func TestTokenServiceIssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", nil, nil)

	resp, err := svc.Issue(models.TokenRequest{Email: "stu@example.com", Name: "Stu"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "stu@example.com", claims.Email)
	assert.Equal(t, "Stu", claims.Name)
	assert.WithinDuration(t, claims.IssuedAt.Add(TokenLifetime), claims.ExpiresAt.Time, time.Second)
}

func TestTokenServiceSignsOnlyEmailAndName(t *testing.T) {
	svc := NewTokenService("secret", nil, nil)

	resp, err := svc.Issue(models.TokenRequest{Email: "stu@example.com", Name: "Stu"})
	require.NoError(t, err)

	payload := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(resp.Token, payload)
	require.NoError(t, err)
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"email", "name", "sub", "iat", "nbf", "exp"}, keys)
}

func TestTokenServiceIssueRejectsInvalidEmail(t *testing.T) {
	svc := NewTokenService("secret", nil, nil)

	_, err := svc.Issue(models.TokenRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTokenServiceVerifyExpired(t *testing.T) {
	svc := NewTokenService("secret", nil, nil)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	resp, err := svc.Issue(models.TokenRequest{Email: "stu@example.com"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(resp.Token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "Unauthorized Access", appErr.Message)
}

func TestTokenServiceVerifyRejectsForeignTokens(t *testing.T) {
	svc := NewTokenService("secret", nil, nil)
	other := NewTokenService("other-secret", nil, nil)

	foreign, err := other.Issue(models.TokenRequest{Email: "stu@example.com"})
	require.NoError(t, err)

	claims := &models.JWTClaims{Email: "stu@example.com", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":      "",
		"garbage":    "not.a.token",
		"wrong key":  foreign.Token,
		"wrong algo": hs512,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(token)
			assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
		})
	}
}
