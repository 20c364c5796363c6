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

type userServiceMock struct {
	users       []models.User
	upsertResp  models.UpdateResult
	roleResp    models.UpdateResult
	hasRole     bool
	hasRoleErr  error
	exportFile  *service.ExportFile
	exportErr   error
	lastUpsert  service.UpsertUserRequest
	lastRole    models.UserRole
	lastID      string
	lastFormat  string
	lookedUp    bool
	lastEmail   string
}

func (m *userServiceMock) List(ctx context.Context) ([]models.User, error) {
	return m.users, nil
}

func (m *userServiceMock) Upsert(ctx context.Context, req service.UpsertUserRequest) (models.UpdateResult, error) {
	m.lastUpsert = req
	return m.upsertResp, nil
}

func (m *userServiceMock) SetRole(ctx context.Context, id string, req service.UpdateRoleRequest) (models.UpdateResult, error) {
	m.lastID = id
	return m.roleResp, nil
}

func (m *userServiceMock) HasRole(ctx context.Context, email string, role models.UserRole) (bool, error) {
	m.lookedUp = true
	m.lastEmail = email
	m.lastRole = role
	return m.hasRole, m.hasRoleErr
}

func (m *userServiceMock) Export(ctx context.Context, format string) (*service.ExportFile, error) {
	m.lastFormat = format
	return m.exportFile, m.exportErr
}

func TestUserHandlerList(t *testing.T) {
	mockSvc := &userServiceMock{users: []models.User{{ID: "u1", Email: "a@example.com", Role: models.RoleAdmin}}}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/users", "", &models.JWTClaims{Email: "a@example.com"})
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body []models.User
	decodeBody(t, w, &body)
	require.Len(t, body, 1)
	assert.Equal(t, models.RoleAdmin, body[0].Role)
}

func TestUserHandlerUpsert(t *testing.T) {
	id := "c0a80101-0000-4000-8000-000000000001"
	mockSvc := &userServiceMock{upsertResp: models.Upserted(id, true)}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodPut, "/users", `{"email":"new@example.com","name":"New"}`, nil)
	handler.Upsert(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new@example.com", mockSvc.lastUpsert.Email)
	var body models.UpdateResult
	decodeBody(t, w, &body)
	assert.EqualValues(t, 1, body.UpsertedCount)
	require.NotNil(t, body.UpsertedID)
	assert.Equal(t, id, *body.UpsertedID)
}

func TestUserHandlerSetRoleInvalidID(t *testing.T) {
	mockSvc := &userServiceMock{}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodPatch, "/user/42", `{"role":"admin"}`, nil, gin.Param{Key: "id", Value: "42"})
	handler.SetRole(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockSvc.lastID)
}

func TestUserHandlerSetRole(t *testing.T) {
	mockSvc := &userServiceMock{roleResp: models.Updated(1)}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodPatch, "/user/"+testClassID, `{"role":"instructor"}`, nil, gin.Param{Key: "id", Value: testClassID})
	handler.SetRole(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testClassID, mockSvc.lastID)
}

func TestUserHandlerIsAdmin(t *testing.T) {
	mockSvc := &userServiceMock{hasRole: true}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/users/admin/a@example.com", "", &models.JWTClaims{Email: "a@example.com"},
		gin.Param{Key: "email", Value: "a@example.com"})
	handler.IsAdmin(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleAdmin, mockSvc.lastRole)
	assert.JSONEq(t, `{"admin":true}`, w.Body.String())
}

func TestUserHandlerIsInstructorMismatchedEmail(t *testing.T) {
	mockSvc := &userServiceMock{hasRole: true}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/users/instructor/other@example.com", "", &models.JWTClaims{Email: "me@example.com"},
		gin.Param{Key: "email", Value: "other@example.com"})
	handler.IsInstructor(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mockSvc.lookedUp)
	assert.JSONEq(t, `{"instructor":false}`, w.Body.String())
}

func TestUserHandlerRoleCheckUsesTokenEmail(t *testing.T) {
	mockSvc := &userServiceMock{hasRole: true}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/users/admin/Boss@Example.com", "", &models.JWTClaims{Email: "boss@example.com"},
		gin.Param{Key: "email", Value: "Boss@Example.com"})
	handler.IsAdmin(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.lookedUp)
	assert.Equal(t, "boss@example.com", mockSvc.lastEmail)
	assert.Equal(t, models.RoleAdmin, mockSvc.lastRole)
	assert.JSONEq(t, `{"admin":true}`, w.Body.String())
}

func TestUserHandlerRoleCheckStoreFailure(t *testing.T) {
	mockSvc := &userServiceMock{hasRoleErr: appErrors.ErrInternal}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/users/instructor/me@example.com", "", &models.JWTClaims{Email: "me@example.com"},
		gin.Param{Key: "email", Value: "me@example.com"})
	handler.IsInstructor(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUserHandlerExport(t *testing.T) {
	mockSvc := &userServiceMock{exportFile: &service.ExportFile{
		Filename:    "users.csv",
		ContentType: "text/csv",
		Data:        []byte("ID,Name\n"),
	}}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/users/export?format=csv", "", &models.JWTClaims{Email: "a@example.com"})
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mockSvc.lastFormat)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "users.csv")
	assert.Equal(t, "ID,Name\n", w.Body.String())
}

func TestUserHandlerExportUnsupportedFormat(t *testing.T) {
	mockSvc := &userServiceMock{exportErr: appErrors.Clone(appErrors.ErrValidation, "unsupported export format")}
	handler := NewUserHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/users/export?format=doc", "", &models.JWTClaims{Email: "a@example.com"})
	handler.Export(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
