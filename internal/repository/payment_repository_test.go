package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
)

func TestPaymentRepositoryListByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "amount", "transaction_id", "selected_class_id", "class_id", "class_name", "date"}).
		AddRow("p-2", "stu@example.com", 39.5, "pi_2", nil, "c-2", "Tango", now).
		AddRow("p-1", "stu@example.com", 49.99, "pi_1", "s-1", "c-1", "Salsa", now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + paymentColumns + " FROM payments WHERE email = $1 ORDER BY date DESC")).
		WithArgs("stu@example.com").
		WillReturnRows(rows)

	payments, err := repo.ListByEmail(context.Background(), "stu@example.com")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Nil(t, payments[0].SelectedClassID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryRecordRemovesSelection(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	selectedID := "s-1"
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected WHERE id = $1")).WithArgs(selectedID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment := &models.Payment{Email: "stu@example.com", Amount: 49.99, TransactionID: "pi_1", SelectedClassID: &selectedID}
	result, err := repo.Record(context.Background(), payment)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, result.InsertResult.InsertedID)
	assert.Equal(t, int64(1), result.DeleteResult.DeletedCount)
	assert.False(t, payment.Date.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryRecordWithoutSelection(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result, err := repo.Record(context.Background(), &models.Payment{Email: "stu@example.com", Amount: 10})
	require.NoError(t, err)
	assert.True(t, result.DeleteResult.Acknowledged)
	assert.Equal(t, int64(0), result.DeleteResult.DeletedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryRecordRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	selectedID := "s-1"
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM selected").WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err := repo.Record(context.Background(), &models.Payment{Email: "stu@example.com", SelectedClassID: &selectedID})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
