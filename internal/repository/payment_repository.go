package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
)

const paymentColumns = `id, email, amount, transaction_id, selected_class_id, class_id, class_name, date`

// PaymentRepository persists completed payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a payment repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByEmail returns the payments of a student, newest first.
func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := "SELECT " + paymentColumns + " FROM payments WHERE email = $1 ORDER BY date DESC"
	if err := r.db.SelectContext(ctx, &payments, query, email); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// FindByID returns a payment by identifier.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, "SELECT "+paymentColumns+" FROM payments WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &payment, nil
}

// Record inserts the payment and removes the staged enrollment it settles in one transaction.
func (r *PaymentRepository) Record(ctx context.Context, payment *models.Payment) (result models.PaymentRecorded, err error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC()
	}

	err = withTx(ctx, r.db, "payment", func(tx *sqlx.Tx) error {
		const insertQuery = `INSERT INTO payments (` + paymentColumns + `) VALUES (:id, :email, :amount, :transaction_id, :selected_class_id, :class_id, :class_name, :date)`
		if _, err := tx.NamedExecContext(ctx, insertQuery, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		result.InsertResult = models.InsertResult{Acknowledged: true, InsertedID: payment.ID}

		result.DeleteResult = models.DeleteResult{Acknowledged: true}
		if payment.SelectedClassID == nil || *payment.SelectedClassID == "" {
			return nil
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM selected WHERE id = $1`, *payment.SelectedClassID)
		if err != nil {
			return fmt.Errorf("delete settled selection: %w", err)
		}
		deleted, err := deleteResult(res)
		if err != nil {
			return err
		}
		result.DeleteResult = deleted
		return nil
	})
	if err != nil {
		return models.PaymentRecorded{}, err
	}
	return result, nil
}
