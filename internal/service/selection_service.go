package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
)

type selectedRepository interface {
	ListByEmail(ctx context.Context, email string) ([]models.Selected, error)
	FindByID(ctx context.Context, id string) (*models.Selected, error)
	InsertIfAbsent(ctx context.Context, item *models.Selected) (models.InsertResult, bool, error)
	Delete(ctx context.Context, id string) (models.DeleteResult, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (models.DeleteResult, error)
}

// SelectClassRequest stages a class for later payment. Name is the class name.
type SelectClassRequest struct {
	ClassID        string  `json:"classId" validate:"omitempty,uuid"`
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Price          float64 `json:"price" validate:"gte=0"`
	Image          string  `json:"image"`
	InstructorName string  `json:"instructorName"`
}

// SelectionService manages staged enrollments.
type SelectionService struct {
	repo      selectedRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSelectionService constructs a SelectionService.
func NewSelectionService(repo selectedRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SelectionService{repo: repo, metrics: metrics, validator: validate, logger: logger}
}

// ListByEmail returns the staged enrollments of email.
func (s *SelectionService) ListByEmail(ctx context.Context, email string) ([]models.Selected, error) {
	items, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list selected classes")
	}
	return items, nil
}

// Get returns the staged enrollment or nil when absent.
func (s *SelectionService) Get(ctx context.Context, id string) (*models.Selected, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load selected class")
	}
	return item, nil
}

// Add stages a class unless the same class name is already staged for the email.
// created is false when the existing record blocked the insert.
func (s *SelectionService) Add(ctx context.Context, req SelectClassRequest) (result models.InsertResult, created bool, err error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return models.InsertResult{}, false, appErrors.Validation(err, "invalid selection payload")
	}

	item := &models.Selected{
		Name:           req.Name,
		Email:          req.Email,
		Price:          req.Price,
		Image:          req.Image,
		InstructorName: req.InstructorName,
	}
	if req.ClassID != "" {
		classID := req.ClassID
		item.ClassID = &classID
	}

	result, created, err = s.repo.InsertIfAbsent(ctx, item)
	if err != nil {
		if errors.Is(err, appErrors.ErrValidation) {
			return models.InsertResult{}, false, err
		}
		return models.InsertResult{}, false, appErrors.Internal(err, "failed to select class")
	}
	return result, created, nil
}

// Remove deletes a staged enrollment.
func (s *SelectionService) Remove(ctx context.Context, id string) (models.DeleteResult, error) {
	result, err := s.repo.Delete(ctx, id)
	if err != nil {
		return models.DeleteResult{}, appErrors.Internal(err, "failed to remove selected class")
	}
	return result, nil
}

// PurgeStale removes staged enrollments older than ttl and returns how many were dropped.
func (s *SelectionService) PurgeStale(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	result, err := s.repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-ttl))
	if err != nil {
		return 0, appErrors.Internal(err, "failed to purge selected classes")
	}
	s.metrics.AddSelectionsPurged(result.DeletedCount)
	return result.DeletedCount, nil
}
