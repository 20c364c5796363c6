package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/response"
)

type userService interface {
	List(ctx context.Context) ([]models.User, error)
	Upsert(ctx context.Context, req service.UpsertUserRequest) (models.UpdateResult, error)
	SetRole(ctx context.Context, id string, req service.UpdateRoleRequest) (models.UpdateResult, error)
	HasRole(ctx context.Context, email string, role models.UserRole) (bool, error)
	Export(ctx context.Context, format string) (*service.ExportFile, error)
}

// UserHandler handles account endpoints and the role checks.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} response.ErrorBody
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Upsert godoc
// @Summary Save profile
// @Description Creates the user on first sign-in, refreshes name and image afterwards
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.UpsertUserRequest true "Profile"
// @Success 200 {object} models.UpdateResult
// @Failure 400 {object} response.ErrorBody
// @Router /users [put]
func (h *UserHandler) Upsert(c *gin.Context) {
	var req service.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SetRole godoc
// @Summary Change a user's role
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateRoleRequest true "Role"
// @Success 200 {object} models.UpdateResult
// @Failure 400 {object} response.ErrorBody
// @Router /user/{id} [patch]
func (h *UserHandler) SetRole(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.service.SetRole(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// IsAdmin godoc
// @Summary Admin role check
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} models.RoleCheck
// @Router /users/admin/{email} [get]
func (h *UserHandler) IsAdmin(c *gin.Context) {
	ok, err := h.ownRole(c, models.RoleAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, models.RoleCheck{Admin: &ok})
}

// IsInstructor godoc
// @Summary Instructor role check
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} models.RoleCheck
// @Router /users/instructor/{email} [get]
func (h *UserHandler) IsInstructor(c *gin.Context) {
	ok, err := h.ownRole(c, models.RoleInstructor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, models.RoleCheck{Instructor: &ok})
}

// Export godoc
// @Summary Export the user roster
// @Tags Users
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "xlsx (default) or csv"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /users/export [get]
func (h *UserHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Binary(c, file.ContentType, file.Filename, file.Data)
}

// ownRole answers false without a lookup when the path email is not the caller's. The lookup
// uses the token email.
func (h *UserHandler) ownRole(c *gin.Context, role models.UserRole) (bool, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return false, appErrors.ErrUnauthorized
	}
	if !strings.EqualFold(c.Param("email"), claims.Email) {
		return false, nil
	}
	return h.service.HasRole(c.Request.Context(), claims.Email, role)
}
