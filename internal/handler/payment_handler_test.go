package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
)

type paymentServiceMock struct {
	intent       *models.PaymentIntent
	intentErr    error
	recorded     models.PaymentRecorded
	payments     []models.Payment
	receipt      *service.ExportFile
	receiptErr   error
	lastPrice    float64
	lastPayer    string
	lastRecord   service.RecordPaymentRequest
	lastEmail    string
	lastReceipt  string
	recordCalled bool
}

func (m *paymentServiceMock) CreateIntent(ctx context.Context, req service.PaymentIntentRequest) (*models.PaymentIntent, error) {
	m.lastPrice = req.Price
	return m.intent, m.intentErr
}

func (m *paymentServiceMock) Record(ctx context.Context, payerEmail string, req service.RecordPaymentRequest) (models.PaymentRecorded, error) {
	m.recordCalled = true
	m.lastPayer = payerEmail
	m.lastRecord = req
	return m.recorded, nil
}

func (m *paymentServiceMock) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	m.lastEmail = email
	return m.payments, nil
}

func (m *paymentServiceMock) Receipt(ctx context.Context, id, requesterEmail string) (*service.ExportFile, error) {
	m.lastReceipt = id
	return m.receipt, m.receiptErr
}

func TestPaymentHandlerCreateIntent(t *testing.T) {
	mockSvc := &paymentServiceMock{intent: &models.PaymentIntent{ClientSecret: "pi_secret"}}
	handler := NewPaymentHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/create-payment-intent", `{"price":19.99}`, &models.JWTClaims{Email: "stu@example.com"})
	handler.CreateIntent(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 19.99, mockSvc.lastPrice, 0.0001)
	assert.JSONEq(t, `{"clientSecret":"pi_secret"}`, w.Body.String())
}

func TestPaymentHandlerCreateIntentGatewayFailure(t *testing.T) {
	mockSvc := &paymentServiceMock{intentErr: appErrors.ErrPaymentFailed}
	handler := NewPaymentHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/create-payment-intent", `{"price":10}`, &models.JWTClaims{Email: "stu@example.com"})
	handler.CreateIntent(c)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Len(t, c.Errors, 1)
}

func TestPaymentHandlerList(t *testing.T) {
	mockSvc := &paymentServiceMock{payments: []models.Payment{{ID: "p1", Email: "stu@example.com", Amount: 10}}}
	handler := NewPaymentHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/payment", "", &models.JWTClaims{Email: "stu@example.com"})
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu@example.com", mockSvc.lastEmail)
	var body []models.Payment
	decodeBody(t, w, &body)
	require.Len(t, body, 1)
}

func TestPaymentHandlerRecordUsesTokenEmail(t *testing.T) {
	mockSvc := &paymentServiceMock{recorded: models.PaymentRecorded{
		InsertResult: models.InsertResult{Acknowledged: true, InsertedID: "p1"},
		DeleteResult: models.DeleteResult{Acknowledged: true, DeletedCount: 1},
	}}
	handler := NewPaymentHandler(mockSvc)

	payload := `{"transactionId":"pi_1","amount":25,"selectedClassId":"` + testClassID + `","className":"Salsa"}`
	c, w := newTestContext(http.MethodPost, "/payments", payload, &models.JWTClaims{Email: "stu@example.com"})
	handler.Record(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu@example.com", mockSvc.lastPayer)
	assert.Equal(t, "pi_1", mockSvc.lastRecord.TransactionID)
	assert.JSONEq(t, `{"insertResult":{"acknowledged":true,"insertedId":"p1"},"deleteResult":{"acknowledged":true,"deletedCount":1}}`, w.Body.String())
}

func TestPaymentHandlerRecordWithoutClaims(t *testing.T) {
	mockSvc := &paymentServiceMock{}
	handler := NewPaymentHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/payments", `{"transactionId":"pi_1"}`, nil)
	handler.Record(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, mockSvc.recordCalled)
}

func TestPaymentHandlerReceipt(t *testing.T) {
	mockSvc := &paymentServiceMock{receipt: &service.ExportFile{
		Filename:    "receipt.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.3"),
	}}
	handler := NewPaymentHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/payments/"+testClassID+"/receipt", "", &models.JWTClaims{Email: "stu@example.com"},
		gin.Param{Key: "id", Value: testClassID})
	handler.Receipt(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testClassID, mockSvc.lastReceipt)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt.pdf")
}

func TestPaymentHandlerReceiptForbidden(t *testing.T) {
	mockSvc := &paymentServiceMock{receiptErr: appErrors.ErrForbidden}
	handler := NewPaymentHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/payments/"+testClassID+"/receipt", "", &models.JWTClaims{Email: "x@example.com"},
		gin.Param{Key: "id", Value: testClassID})
	handler.Receipt(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}
