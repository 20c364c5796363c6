package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
)

const pqForeignKeyViolation = "23503"

const selectedColumns = `id, class_id, name, email, price, image, instructor_name, created_at`

// SelectedRepository stores staged enrollments.
type SelectedRepository struct {
	db *sqlx.DB
}

// NewSelectedRepository constructs a selected repository.
func NewSelectedRepository(db *sqlx.DB) *SelectedRepository {
	return &SelectedRepository{db: db}
}

// ListByEmail returns the staged enrollments of a student.
func (r *SelectedRepository) ListByEmail(ctx context.Context, email string) ([]models.Selected, error) {
	items := []models.Selected{}
	query := "SELECT " + selectedColumns + " FROM selected WHERE email = $1 ORDER BY created_at ASC"
	if err := r.db.SelectContext(ctx, &items, query, email); err != nil {
		return nil, fmt.Errorf("list selected: %w", err)
	}
	return items, nil
}

// FindByID returns the staged enrollment or nil when it does not exist.
func (r *SelectedRepository) FindByID(ctx context.Context, id string) (*models.Selected, error) {
	var item models.Selected
	if err := r.db.GetContext(ctx, &item, "SELECT "+selectedColumns+" FROM selected WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find selected: %w", err)
	}
	return &item, nil
}

// InsertIfAbsent stores item unless the same class name is already staged for the email.
// The boolean is false when an existing record blocked the insert. A class ID that
// references no class yields a validation error.
func (r *SelectedRepository) InsertIfAbsent(ctx context.Context, item *models.Selected) (models.InsertResult, bool, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO selected (` + selectedColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (name, email) DO NOTHING
RETURNING id`

	var id string
	err := r.db.GetContext(ctx, &id, query, item.ID, item.ClassID, item.Name, item.Email, item.Price, item.Image, item.InstructorName, item.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.InsertResult{}, false, nil
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return models.InsertResult{}, false, appErrors.Validation(err, "classId does not reference an existing class")
		}
		return models.InsertResult{}, false, fmt.Errorf("insert selected: %w", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, true, nil
}

// Delete removes a staged enrollment.
func (r *SelectedRepository) Delete(ctx context.Context, id string) (models.DeleteResult, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM selected WHERE id = $1`, id)
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete selected: %w", err)
	}
	return deleteResult(res)
}

// DeleteOlderThan purges staged enrollments created before cutoff.
func (r *SelectedRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (models.DeleteResult, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM selected WHERE created_at < $1`, cutoff)
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("purge selected: %w", err)
	}
	return deleteResult(res)
}
