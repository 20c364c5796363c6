package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
)

const classColumns = `id, name, image, instructor_name, instructor_email, seats, price, students, status, feedback, created_at, updated_at`

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filter ordered by enrollment, most popular first.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	query := "SELECT " + classColumns + " FROM classes WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(status) = $%d", len(args)+1))
		args = append(args, string(models.NormalizeStatus(string(filter.Status))))
	}
	if filter.InstructorEmail != "" {
		conditions = append(conditions, fmt.Sprintf("instructor_email = $%d", len(args)+1))
		args = append(args, filter.InstructorEmail)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY students DESC, created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	classes := []models.Class{}
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	if err := r.db.GetContext(ctx, &class, "SELECT "+classColumns+" FROM classes WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// Create persists a class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) (models.InsertResult, error) {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (` + classColumns + `) VALUES (:id, :name, :image, :instructor_name, :instructor_email, :seats, :price, :students, :status, :feedback, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return models.InsertResult{}, fmt.Errorf("create class: %w", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: class.ID}, nil
}

// UpdateListing changes seats and price of a class owned by ownerEmail.
func (r *ClassRepository) UpdateListing(ctx context.Context, id, ownerEmail string, seats int, price float64) (models.UpdateResult, error) {
	const query = `UPDATE classes SET seats = $3, price = $4, updated_at = $5 WHERE id = $1 AND instructor_email = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerEmail, seats, price, time.Now().UTC())
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update class listing: %w", err)
	}
	return updateResult(res)
}

// DeleteOwned removes a class owned by ownerEmail.
func (r *ClassRepository) DeleteOwned(ctx context.Context, id, ownerEmail string) (models.DeleteResult, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1 AND instructor_email = $2`, id, ownerEmail)
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete class: %w", err)
	}
	return deleteResult(res)
}

// IncrementStudents atomically adds one enrollment while seats remain.
func (r *ClassRepository) IncrementStudents(ctx context.Context, id string) (models.UpdateResult, error) {
	const query = `UPDATE classes SET students = students + 1, updated_at = $2 WHERE id = $1 AND students < seats`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("increment class students: %w", err)
	}
	return updateResult(res)
}

// UpdateStatus sets the approval status and appends a class update record in one transaction.
func (r *ClassRepository) UpdateStatus(ctx context.Context, id string, status models.ClassStatus) (result models.UpdateResult, err error) {
	err = withTx(ctx, r.db, "class status", func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		var name string
		const updateQuery = `UPDATE classes SET status = $2, updated_at = $3 WHERE id = $1 RETURNING name`
		if err := tx.GetContext(ctx, &name, updateQuery, id, status, now); err != nil {
			if err == sql.ErrNoRows {
				result = models.Updated(0)
				return nil
			}
			return fmt.Errorf("update class status: %w", err)
		}

		if err := appendClassUpdate(ctx, tx, &models.ClassUpdate{ClassID: id, ClassName: name, Status: status, CreatedAt: now}); err != nil {
			return err
		}
		result = models.Updated(1)
		return nil
	})
	return result, err
}

// UpdateFeedback stores moderator feedback on the class and on its latest class update,
// creating the update record if the class has none yet.
func (r *ClassRepository) UpdateFeedback(ctx context.Context, id, feedback string) (result models.UpdateResult, err error) {
	err = withTx(ctx, r.db, "class feedback", func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		var current struct {
			Name   string             `db:"name"`
			Status models.ClassStatus `db:"status"`
		}
		const updateQuery = `UPDATE classes SET feedback = $2, updated_at = $3 WHERE id = $1 RETURNING name, status`
		if err := tx.GetContext(ctx, &current, updateQuery, id, feedback, now); err != nil {
			if err == sql.ErrNoRows {
				result = models.Updated(0)
				return nil
			}
			return fmt.Errorf("update class feedback: %w", err)
		}

		if err := upsertClassFeedback(ctx, tx, &models.ClassUpdate{ClassID: id, ClassName: current.Name, Status: current.Status, Feedback: feedback, CreatedAt: now}); err != nil {
			return err
		}
		result = models.Updated(1)
		return nil
	})
	return result, err
}

func updateResult(res sql.Result) (models.UpdateResult, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("rows affected: %w", err)
	}
	return models.Updated(n), nil
}

func deleteResult(res sql.Result) (models.DeleteResult, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("rows affected: %w", err)
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}
