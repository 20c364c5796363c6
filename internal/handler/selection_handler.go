package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/response"
)

// AlreadyExists is the body returned when a class is staged twice.
const AlreadyExists = "Already Exists"

type selectionService interface {
	ListByEmail(ctx context.Context, email string) ([]models.Selected, error)
	Get(ctx context.Context, id string) (*models.Selected, error)
	Add(ctx context.Context, req service.SelectClassRequest) (models.InsertResult, bool, error)
	Remove(ctx context.Context, id string) (models.DeleteResult, error)
}

// SelectionHandler serves the staged-enrollment cart.
type SelectionHandler struct {
	service selectionService
}

// NewSelectionHandler constructs a selection handler.
func NewSelectionHandler(svc selectionService) *SelectionHandler {
	return &SelectionHandler{service: svc}
}

// List godoc
// @Summary Staged classes of the caller
// @Tags Selected
// @Produce json
// @Security BearerAuth
// @Param email query string false "Student email, must match the token"
// @Success 200 {array} models.Selected
// @Failure 403 {object} response.ErrorBody
// @Router /selected [get]
func (h *SelectionHandler) List(c *gin.Context) {
	email, err := ownEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.ListByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get godoc
// @Summary One staged class
// @Description Responds null when the record does not exist
// @Tags Selected
// @Produce json
// @Security BearerAuth
// @Param id path string true "Selected ID"
// @Success 200 {object} models.Selected
// @Router /selected/{id} [get]
func (h *SelectionHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Create godoc
// @Summary Stage a class
// @Description Returns the string "Already Exists" when the class is already staged for the email
// @Tags Selected
// @Accept json
// @Produce json
// @Param payload body service.SelectClassRequest true "Selection"
// @Success 200 {object} models.InsertResult
// @Failure 400 {object} response.ErrorBody
// @Router /selected [post]
func (h *SelectionHandler) Create(c *gin.Context) {
	var req service.SelectClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, created, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !created {
		response.OK(c, AlreadyExists)
		return
	}
	response.OK(c, result)
}

// Delete godoc
// @Summary Remove a staged class
// @Tags Selected
// @Produce json
// @Security BearerAuth
// @Param id path string true "Selected ID"
// @Success 200 {object} models.DeleteResult
// @Router /selected/{id} [delete]
func (h *SelectionHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Remove(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
