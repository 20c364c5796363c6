package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/response"
)

type paymentService interface {
	CreateIntent(ctx context.Context, req service.PaymentIntentRequest) (*models.PaymentIntent, error)
	Record(ctx context.Context, payerEmail string, req service.RecordPaymentRequest) (models.PaymentRecorded, error)
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
	Receipt(ctx context.Context, id, requesterEmail string) (*service.ExportFile, error)
}

// PaymentHandler bridges checkout to the processor and records the outcome.
type PaymentHandler struct {
	service paymentService
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(svc paymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// CreateIntent godoc
// @Summary Create a card payment intent
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.PaymentIntentRequest true "Price in major units"
// @Success 200 {object} models.PaymentIntent
// @Failure 400 {object} response.ErrorBody
// @Failure 502 {object} response.ErrorBody
// @Router /create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req service.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	intent, err := h.service.CreateIntent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, intent)
}

// List godoc
// @Summary Payment history of the caller
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param email query string false "Student email, must match the token"
// @Success 200 {array} models.Payment
// @Failure 403 {object} response.ErrorBody
// @Router /payment [get]
func (h *PaymentHandler) List(c *gin.Context) {
	email, err := ownEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payments, err := h.service.ListByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, payments)
}

// Record godoc
// @Summary Record a completed payment
// @Description Stores the payment and removes the staged class it settles in one transaction
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.RecordPaymentRequest true "Payment"
// @Success 200 {object} models.PaymentRecorded
// @Failure 400 {object} response.ErrorBody
// @Router /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.Record(c.Request.Context(), claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Receipt godoc
// @Summary Download a payment receipt
// @Tags Payments
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {file} file
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/{id}/receipt [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Receipt(c.Request.Context(), id, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Binary(c, file.ContentType, file.Filename, file.Data)
}
