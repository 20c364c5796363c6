package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
)

var selectedRowColumns = []string{"id", "class_id", "name", "email", "price", "image", "instructor_name", "created_at"}

func TestSelectedRepositoryListByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectedRepository(db)

	rows := sqlmock.NewRows(selectedRowColumns).
		AddRow("s-1", "c-1", "Salsa", "stu@example.com", 49.99, "", "Ana", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + selectedColumns + " FROM selected WHERE email = $1 ORDER BY created_at ASC")).
		WithArgs("stu@example.com").
		WillReturnRows(rows)

	items, err := repo.ListByEmail(context.Background(), "stu@example.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ClassID)
	assert.Equal(t, "c-1", *items[0].ClassID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectedRepositoryFindByIDMissingReturnsNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectedRepository(db)

	mock.ExpectQuery("FROM selected WHERE id").WithArgs("s-9").WillReturnRows(sqlmock.NewRows(selectedRowColumns))

	item, err := repo.FindByID(context.Background(), "s-9")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectedRepositoryInsertIfAbsent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectedRepository(db)

	mock.ExpectQuery("INSERT INTO selected (.+) ON CONFLICT \\(name, email\\) DO NOTHING").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s-1"))
	mock.ExpectQuery("INSERT INTO selected (.+) ON CONFLICT \\(name, email\\) DO NOTHING").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	first, inserted, err := repo.InsertIfAbsent(context.Background(), &models.Selected{ID: "s-1", Name: "Salsa", Email: "stu@example.com"})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "s-1", first.InsertedID)

	_, inserted, err = repo.InsertIfAbsent(context.Background(), &models.Selected{Name: "Salsa", Email: "stu@example.com"})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectedRepositoryInsertUnknownClassIsValidationError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectedRepository(db)

	classID := "0f8fad5b-d9cb-469f-a165-70867728950e"
	mock.ExpectQuery("INSERT INTO selected (.+) ON CONFLICT \\(name, email\\) DO NOTHING").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "selected_class_id_fkey"})
	mock.ExpectQuery("INSERT INTO selected (.+) ON CONFLICT \\(name, email\\) DO NOTHING").
		WillReturnError(&pq.Error{Code: "57014"})

	_, inserted, err := repo.InsertIfAbsent(context.Background(), &models.Selected{ClassID: &classID, Name: "Salsa", Email: "stu@example.com"})
	require.Error(t, err)
	assert.False(t, inserted)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, _, err = repo.InsertIfAbsent(context.Background(), &models.Selected{ClassID: &classID, Name: "Salsa", Email: "stu@example.com"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectedRepositoryDeletes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectedRepository(db)

	cutoff := time.Now().Add(-24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected WHERE id = $1")).WithArgs("s-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected WHERE created_at < $1")).WithArgs(cutoff).WillReturnResult(sqlmock.NewResult(0, 3))

	result, err := repo.Delete(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedCount)

	purged, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged.DeletedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
