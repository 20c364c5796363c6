package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
)

const classUpdateColumns = `id, class_id, class_name, status, feedback, created_at, updated_at`

// ClassUpdateRepository reads the moderation log of classes.
type ClassUpdateRepository struct {
	db *sqlx.DB
}

// NewClassUpdateRepository constructs a class update repository.
func NewClassUpdateRepository(db *sqlx.DB) *ClassUpdateRepository {
	return &ClassUpdateRepository{db: db}
}

// List returns every class update, most recently changed first.
func (r *ClassUpdateRepository) List(ctx context.Context) ([]models.ClassUpdate, error) {
	updates := []models.ClassUpdate{}
	query := "SELECT " + classUpdateColumns + " FROM class_updates ORDER BY updated_at DESC"
	if err := r.db.SelectContext(ctx, &updates, query); err != nil {
		return nil, fmt.Errorf("list class updates: %w", err)
	}
	return updates, nil
}

func appendClassUpdate(ctx context.Context, tx *sqlx.Tx, update *models.ClassUpdate) error {
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	update.UpdatedAt = update.CreatedAt
	const query = `INSERT INTO class_updates (` + classUpdateColumns + `) VALUES (:id, :class_id, :class_name, :status, :feedback, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, update); err != nil {
		return fmt.Errorf("append class update: %w", err)
	}
	return nil
}

func upsertClassFeedback(ctx context.Context, tx *sqlx.Tx, update *models.ClassUpdate) error {
	const updateQuery = `UPDATE class_updates SET feedback = $2, updated_at = $3
WHERE id = (SELECT id FROM class_updates WHERE class_id = $1 ORDER BY created_at DESC LIMIT 1)`
	res, err := tx.ExecContext(ctx, updateQuery, update.ClassID, update.Feedback, update.CreatedAt)
	if err != nil {
		return fmt.Errorf("update class update feedback: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n > 0 {
		return nil
	}
	return appendClassUpdate(ctx, tx, update)
}
