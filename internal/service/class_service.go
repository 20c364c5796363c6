package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) (models.InsertResult, error)
	UpdateListing(ctx context.Context, id, ownerEmail string, seats int, price float64) (models.UpdateResult, error)
	DeleteOwned(ctx context.Context, id, ownerEmail string) (models.DeleteResult, error)
	IncrementStudents(ctx context.Context, id string) (models.UpdateResult, error)
	UpdateStatus(ctx context.Context, id string, status models.ClassStatus) (models.UpdateResult, error)
	UpdateFeedback(ctx context.Context, id, feedback string) (models.UpdateResult, error)
}

type classUpdateRepository interface {
	List(ctx context.Context) ([]models.ClassUpdate, error)
}

// CreateClassRequest is the payload instructors submit for a new class.
type CreateClassRequest struct {
	Name            string  `json:"name" validate:"required"`
	Image           string  `json:"image"`
	InstructorName  string  `json:"instructorName"`
	InstructorEmail string  `json:"instructorEmail" validate:"required,email"`
	Seats           int     `json:"seats" validate:"required,gt=0"`
	Price           float64 `json:"price" validate:"gte=0"`
}

// UpdateClassListingRequest changes the commercial terms of a class.
type UpdateClassListingRequest struct {
	Seats int     `json:"seats" validate:"gte=0"`
	Price float64 `json:"price" validate:"gte=0"`
}

// UpdateClassStatusRequest carries a moderation decision.
type UpdateClassStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ClassFeedbackRequest carries moderator feedback for the instructor.
type ClassFeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// ClassService implements the class catalogue and its approval workflow.
type ClassService struct {
	classes   classRepository
	updates   classUpdateRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService. cache and metrics may be nil.
func NewClassService(classes classRepository, updates classUpdateRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{classes: classes, updates: updates, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// ListByStatus returns classes in status (approved when empty), most enrolled first.
func (s *ClassService) ListByStatus(ctx context.Context, status string, limit int) ([]models.Class, error) {
	normalized := models.NormalizeStatus(status)
	if normalized == "" {
		normalized = models.ClassApproved
	}
	return s.cachedList(ctx, ClassListKey("status", string(normalized), clampLimit(limit)), models.ClassFilter{Status: normalized, Limit: clampLimit(limit)})
}

// ListPopular returns classes of any status ordered by enrollment.
func (s *ClassService) ListPopular(ctx context.Context, limit int) ([]models.Class, error) {
	return s.cachedList(ctx, ClassListKey("popular", "all", clampLimit(limit)), models.ClassFilter{Limit: clampLimit(limit)})
}

// ListPending returns the moderation queue.
func (s *ClassService) ListPending(ctx context.Context) ([]models.Class, error) {
	return s.list(ctx, models.ClassFilter{Status: models.ClassPending})
}

// ListByInstructor returns the classes an instructor created.
func (s *ClassService) ListByInstructor(ctx context.Context, email string) ([]models.Class, error) {
	return s.list(ctx, models.ClassFilter{InstructorEmail: email})
}

// ListUpdates returns the moderation log, newest first.
func (s *ClassService) ListUpdates(ctx context.Context) ([]models.ClassUpdate, error) {
	updates, err := s.updates.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list class updates")
	}
	return updates, nil
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return class, nil
}

// Create stores a new class awaiting approval.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (models.InsertResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.InsertResult{}, appErrors.Validation(err, "invalid class payload")
	}

	class := &models.Class{
		Name:            strings.TrimSpace(req.Name),
		Image:           req.Image,
		InstructorName:  req.InstructorName,
		InstructorEmail: req.InstructorEmail,
		Seats:           req.Seats,
		Price:           req.Price,
		Students:        0,
		Status:          models.ClassPending,
	}
	result, err := s.classes.Create(ctx, class)
	if err != nil {
		return models.InsertResult{}, appErrors.Internal(err, "failed to create class")
	}
	s.invalidate(ctx)
	return result, nil
}

// UpdateListing changes seats and price of a class owned by ownerEmail.
func (s *ClassService) UpdateListing(ctx context.Context, id, ownerEmail string, req UpdateClassListingRequest) (models.UpdateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.UpdateResult{}, appErrors.Validation(err, "invalid class update payload")
	}
	result, err := s.classes.UpdateListing(ctx, id, ownerEmail, req.Seats, req.Price)
	if err != nil {
		return models.UpdateResult{}, appErrors.Internal(err, "failed to update class")
	}
	s.invalidate(ctx)
	return result, nil
}

// DeleteOwned removes a class owned by ownerEmail.
func (s *ClassService) DeleteOwned(ctx context.Context, id, ownerEmail string) (models.DeleteResult, error) {
	result, err := s.classes.DeleteOwned(ctx, id, ownerEmail)
	if err != nil {
		return models.DeleteResult{}, appErrors.Internal(err, "failed to delete class")
	}
	s.invalidate(ctx)
	return result, nil
}

// Enroll adds one student to the class while seats remain. A full or unknown class
// yields a zero matched count.
func (s *ClassService) Enroll(ctx context.Context, id string) (models.UpdateResult, error) {
	result, err := s.classes.IncrementStudents(ctx, id)
	if err != nil {
		return models.UpdateResult{}, appErrors.Internal(err, "failed to enroll student")
	}
	if result.MatchedCount == 0 {
		s.metrics.RecordEnrollment("full")
		s.logger.Info("enrollment rejected", zap.String("class_id", id))
		return result, nil
	}
	s.metrics.RecordEnrollment("enrolled")
	s.invalidate(ctx)
	return result, nil
}

// SetStatus records a moderation decision.
func (s *ClassService) SetStatus(ctx context.Context, id string, req UpdateClassStatusRequest) (models.UpdateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.UpdateResult{}, appErrors.Validation(err, "invalid status payload")
	}
	status := models.NormalizeStatus(req.Status)
	if !status.Valid() {
		return models.UpdateResult{}, appErrors.Clone(appErrors.ErrValidation, "status must be pending, approved or denied")
	}

	result, err := s.classes.UpdateStatus(ctx, id, status)
	if err != nil {
		return models.UpdateResult{}, appErrors.Internal(err, "failed to update class status")
	}
	s.invalidate(ctx)
	return result, nil
}

// SetFeedback attaches moderator feedback to the class and its latest update record.
func (s *ClassService) SetFeedback(ctx context.Context, id string, req ClassFeedbackRequest) (models.UpdateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.UpdateResult{}, appErrors.Validation(err, "invalid feedback payload")
	}
	result, err := s.classes.UpdateFeedback(ctx, id, req.Feedback)
	if err != nil {
		return models.UpdateResult{}, appErrors.Internal(err, "failed to store feedback")
	}
	s.invalidate(ctx)
	return result, nil
}

func (s *ClassService) cachedList(ctx context.Context, key string, filter models.ClassFilter) ([]models.Class, error) {
	var cached []models.Class
	if hit, _ := s.cache.Get(ctx, key, &cached); hit && cached != nil {
		return cached, nil
	}

	classes, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, classes, 0)
	return classes, nil
}

func (s *ClassService) list(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	classes, err := s.classes.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	return classes, nil
}

func (s *ClassService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, ClassCachePattern)
}

func clampLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	return limit
}
