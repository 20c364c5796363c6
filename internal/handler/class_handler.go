package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/response"
)

type classService interface {
	Get(ctx context.Context, id string) (*models.Class, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]models.Class, error)
	ListPopular(ctx context.Context, limit int) ([]models.Class, error)
	ListPending(ctx context.Context) ([]models.Class, error)
	ListByInstructor(ctx context.Context, email string) ([]models.Class, error)
	ListUpdates(ctx context.Context) ([]models.ClassUpdate, error)
	Create(ctx context.Context, req service.CreateClassRequest) (models.InsertResult, error)
	UpdateListing(ctx context.Context, id, ownerEmail string, req service.UpdateClassListingRequest) (models.UpdateResult, error)
	DeleteOwned(ctx context.Context, id, ownerEmail string) (models.DeleteResult, error)
	Enroll(ctx context.Context, id string) (models.UpdateResult, error)
	SetStatus(ctx context.Context, id string, req service.UpdateClassStatusRequest) (models.UpdateResult, error)
	SetFeedback(ctx context.Context, id string, req service.ClassFeedbackRequest) (models.UpdateResult, error)
}

// ClassHandler serves the class catalogue, instructor dashboards and moderation.
type ClassHandler struct {
	service classService
}

// NewClassHandler creates a class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes
// @Description Classes in a status (approved by default), most enrolled first
// @Tags Classes
// @Produce json
// @Param status query string false "Status filter"
// @Param limit query int false "Maximum number of classes, 0 for all"
// @Success 200 {array} models.Class
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.ListByStatus(c.Request.Context(), c.Query("status"), queryLimit(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// Popular godoc
// @Summary Popular classes
// @Description All classes ordered by enrollment
// @Tags Classes
// @Produce json
// @Param limit query int false "Maximum number of classes, 0 for all"
// @Success 200 {array} models.Class
// @Router /popular-classes [get]
func (h *ClassHandler) Popular(c *gin.Context) {
	classes, err := h.service.ListPopular(c.Request.Context(), queryLimit(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// Get godoc
// @Summary Get a class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} models.Class
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, class)
}

// Mine godoc
// @Summary Instructor classes
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param email query string false "Instructor email, must match the token"
// @Success 200 {array} models.Class
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /myClasses [get]
func (h *ClassHandler) Mine(c *gin.Context) {
	email, err := ownEmail(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	classes, err := h.service.ListByInstructor(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// Pending godoc
// @Summary Moderation queue
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Class
// @Failure 403 {object} response.ErrorBody
// @Router /manageClasses [get]
func (h *ClassHandler) Pending(c *gin.Context) {
	classes, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// Updates godoc
// @Summary Moderation log
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ClassUpdate
// @Failure 403 {object} response.ErrorBody
// @Router /updatedClasses [get]
func (h *ClassHandler) Updates(c *gin.Context) {
	updates, err := h.service.ListUpdates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, updates)
}

// SetStatus godoc
// @Summary Approve or deny a class
// @Tags Moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body service.UpdateClassStatusRequest true "Decision"
// @Success 200 {object} models.UpdateResult
// @Failure 400 {object} response.ErrorBody
// @Router /manageClasses/{id} [patch]
func (h *ClassHandler) SetStatus(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateClassStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SetFeedback godoc
// @Summary Send feedback to the instructor
// @Tags Moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body service.ClassFeedbackRequest true "Feedback"
// @Success 200 {object} models.UpdateResult
// @Failure 400 {object} response.ErrorBody
// @Router /updateFeedback/{id} [put]
func (h *ClassHandler) SetFeedback(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ClassFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.SetFeedback(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateMine godoc
// @Summary Change seats and price of an own class
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body service.UpdateClassListingRequest true "Listing"
// @Success 200 {object} models.UpdateResult
// @Router /myClasses/{id} [patch]
func (h *ClassHandler) UpdateMine(c *gin.Context) {
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
	var req service.UpdateClassListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.UpdateListing(c.Request.Context(), id, claims.Email, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteMine godoc
// @Summary Delete an own class
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} models.DeleteResult
// @Router /myClasses/{id} [delete]
func (h *ClassHandler) DeleteMine(c *gin.Context) {
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
	result, err := h.service.DeleteOwned(c.Request.Context(), id, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Create godoc
// @Summary Submit a class
// @Description New classes start pending with no students
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class"
// @Success 200 {object} models.InsertResult
// @Failure 400 {object} response.ErrorBody
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Enroll godoc
// @Summary Count one enrollment
// @Description Adds one student while seats remain
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} models.UpdateResult
// @Router /classes/{id} [patch]
func (h *ClassHandler) Enroll(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Enroll(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
