package router

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/handler"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/repository"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/service"
)

type gatewayStub struct{}

func (gatewayStub) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	return "pi_test_secret", nil
}

type testApp struct {
	engine *gin.Engine
	mock   sqlmock.Sqlmock
	tokens *service.TokenService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.NewStore(sqlx.NewDb(db, "sqlmock"))
	validate := validator.New()
	metrics := service.NewMetricsService()
	tokens := service.NewTokenService("test-secret", validate, nil)
	users := service.NewUserService(store.Users, validate, nil)
	classes := service.NewClassService(store.Classes, store.ClassUpdates, nil, metrics, validate, nil)
	selections := service.NewSelectionService(store.Selected, metrics, validate, nil)
	payments := service.NewPaymentService(store.Payments, gatewayStub{}, "usd", metrics, validate, nil)

	engine := New(Handlers{
		Token:     handler.NewTokenHandler(tokens),
		Class:     handler.NewClassHandler(classes),
		User:      handler.NewUserHandler(users),
		Selection: handler.NewSelectionHandler(selections),
		Payment:   handler.NewPaymentHandler(payments),
		System:    handler.NewSystemHandler(store, metrics),
	}, Options{
		Metrics: metrics,
		Tokens:  tokens,
		Users:   users,
	})
	return &testApp{engine: engine, mock: mock, tokens: tokens}
}

func (a *testApp) bearer(t *testing.T, email string) string {
	t.Helper()
	resp, err := a.tokens.Issue(models.TokenRequest{Email: email, Name: "Test"})
	require.NoError(t, err)
	return "Bearer " + resp.Token
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func userRow(email string, role models.UserRole) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "email", "name", "image", "role", "created_at", "updated_at"}).
		AddRow("4b1a0c3e-5d6f-4a7b-8c9d-0e1f2a3b4c5d", email, "Test", "", string(role), now, now)
}

func TestRootBanner(t *testing.T) {
	app := newTestApp(t)

	w := app.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RhythmVerse is running...", w.Body.String())
}

func TestGuardedRouteWithoutToken(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/myClasses", "/selected", "/payment", "/users", "/manageClasses"} {
		w := app.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.JSONEq(t, `{"error":true,"message":"Unauthorized Access"}`, w.Body.String(), path)
	}
}

func TestAdminRouteForbiddenForStudent(t *testing.T) {
	app := newTestApp(t)
	app.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("stu@example.com").
		WillReturnRows(userRow("stu@example.com", models.RoleStudent))

	req := httptest.NewRequest(http.MethodGet, "/manageClasses", nil)
	req.Header.Set("Authorization", app.bearer(t, "stu@example.com"))
	w := app.do(req)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":true,"message":"Forbidden Access"}`, w.Body.String())
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestAdminCheckForOtherEmailSkipsLookup(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/users/admin/boss@example.com", nil)
	req.Header.Set("Authorization", app.bearer(t, "stu@example.com"))
	w := app.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":false}`, w.Body.String())
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestPublicClassListing(t *testing.T) {
	app := newTestApp(t)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "image", "instructor_name", "instructor_email", "seats", "price", "students", "status", "feedback", "created_at", "updated_at"}).
		AddRow("c1", "Salsa", "", "Ana", "ana@example.com", 20, 30.0, 12, "approved", "", now, now).
		AddRow("c2", "Tango", "", "Leo", "leo@example.com", 20, 25.0, 9, "approved", "", now, now)
	app.mock.ExpectQuery(`SELECT .+ FROM classes WHERE 1=1 AND LOWER\(status\) = \$1 ORDER BY students DESC, created_at DESC LIMIT 2`).
		WithArgs("approved").
		WillReturnRows(rows)

	w := app.do(httptest.NewRequest(http.MethodGet, "/classes?limit=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Salsa"`)
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestClassByIDRoute(t *testing.T) {
	app := newTestApp(t)
	now := time.Now()
	const id = "0f8fad5b-d9cb-469f-a165-70867728950e"
	rows := sqlmock.NewRows([]string{"id", "name", "image", "instructor_name", "instructor_email", "seats", "price", "students", "status", "feedback", "created_at", "updated_at"}).
		AddRow(id, "Salsa", "", "Ana", "ana@example.com", 20, 30.0, 12, "approved", "", now, now)
	app.mock.ExpectQuery(`SELECT .+ FROM classes WHERE id = \$1`).WithArgs(id).WillReturnRows(rows)
	app.mock.ExpectQuery(`SELECT .+ FROM classes WHERE id = \$1`).WithArgs(id).WillReturnError(sql.ErrNoRows)

	w := app.do(httptest.NewRequest(http.MethodGet, "/classes/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Salsa"`)

	w = app.do(httptest.NewRequest(http.MethodGet, "/classes/"+id, nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":true,"message":"class not found"}`, w.Body.String())
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	w := app.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}
