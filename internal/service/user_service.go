package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/export"
)

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertProfile(ctx context.Context, user *models.User, keepRole bool) (models.UpdateResult, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) (models.UpdateResult, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// UpsertUserRequest is the profile sent by the client after sign-in.
type UpsertUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// UpdateRoleRequest promotes or demotes a user.
type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,oneof=student instructor admin"`
}

// Export formats supported by the roster export.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// ExportFile is a rendered document ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UserService handles account workflows.
type UserService struct {
	repo         userRepository
	csv          csvRenderer
	xlsx         xlsxRenderer
	validator    *validator.Validate
	logger       *zap.Logger
	preserveRole bool
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, csv: export.NewCSVExporter(), xlsx: export.NewXLSXExporter(), validator: validate, logger: logger}
}

// PreserveRoles makes Upsert keep the role of existing accounts instead of resetting it
// to student.
func (s *UserService) PreserveRoles(enabled bool) *UserService {
	s.preserveRole = enabled
	return s
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	return users, nil
}

// Upsert creates the account on first sign-in and refreshes the profile afterwards. The
// stored role is set to student on every call unless roles are preserved.
func (s *UserService) Upsert(ctx context.Context, req UpsertUserRequest) (models.UpdateResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return models.UpdateResult{}, appErrors.Validation(err, "invalid user payload")
	}

	user := &models.User{Email: req.Email, Name: req.Name, Image: req.Image, Role: models.RoleStudent}
	result, err := s.repo.UpsertProfile(ctx, user, s.preserveRole)
	if err != nil {
		return models.UpdateResult{}, appErrors.Internal(err, "failed to save user")
	}
	return result, nil
}

// SetRole changes the role of the user identified by id.
func (s *UserService) SetRole(ctx context.Context, id string, req UpdateRoleRequest) (models.UpdateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.UpdateResult{}, appErrors.Validation(err, "invalid role payload")
	}
	result, err := s.repo.UpdateRole(ctx, id, req.Role)
	if err != nil {
		return models.UpdateResult{}, appErrors.Internal(err, "failed to update role")
	}
	s.logger.Info("user role changed", zap.String("user_id", id), zap.String("role", string(req.Role)))
	return result, nil
}

// HasRole reports whether the stored user with email holds role. Unknown users hold none.
func (s *UserService) HasRole(ctx context.Context, email string, role models.UserRole) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Internal(err, "failed to load user")
	}
	return user.Role == role, nil
}

// Export renders the user roster as a spreadsheet (xlsx) or csv.
func (s *UserService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be xlsx or csv")
	}

	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: []string{"ID", "Name", "Email", "Role", "Joined"}}
	for _, u := range users {
		data.Rows = append(data.Rows, map[string]string{
			"ID":     u.ID,
			"Name":   u.Name,
			"Email":  u.Email,
			"Role":   string(u.Role),
			"Joined": u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	if format == ExportFormatCSV {
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render csv")
		}
		return &ExportFile{Filename: "users-" + stamp + ".csv", ContentType: "text/csv", Data: payload}, nil
	}

	payload, err := s.xlsx.Render(data, "Users")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render spreadsheet")
	}
	return &ExportFile{
		Filename:    "users-" + stamp + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        payload,
	}, nil
}
