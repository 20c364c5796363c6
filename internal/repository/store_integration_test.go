//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/models"
	appErrors "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/errors"
	"github.com/kamrulislam2/rhythmverse-dance-school-server/internal/testutil/testdb"
)

func TestStoreAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	defer h.Close()

	store := NewStore(h.DB)
	require.NoError(t, store.Ping(ctx))

	t.Run("user upsert keeps one row", func(t *testing.T) {
		first, err := store.Users.UpsertProfile(ctx, &models.User{Email: "ana@example.com", Name: "Ana"}, false)
		require.NoError(t, err)
		require.NotNil(t, first.UpsertedID)

		_, err = store.Users.UpdateRole(ctx, *first.UpsertedID, models.RoleInstructor)
		require.NoError(t, err)

		second, err := store.Users.UpsertProfile(ctx, &models.User{Email: "ana@example.com", Name: "Ana B", Role: models.RoleStudent}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), second.MatchedCount)

		users, err := store.Users.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Ana B", users[0].Name)
		assert.Equal(t, models.RoleInstructor, users[0].Role)

		_, err = store.Users.UpsertProfile(ctx, &models.User{Email: "ana@example.com", Name: "Ana B", Role: models.RoleStudent}, false)
		require.NoError(t, err)
		found, err := store.Users.FindByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, models.RoleStudent, found.Role)

		_, err = store.Users.UpdateRole(ctx, found.ID, models.RoleInstructor)
		require.NoError(t, err)
	})

	var classID string
	t.Run("enrollment never exceeds seats", func(t *testing.T) {
		class := &models.Class{Name: "Salsa", InstructorEmail: "ana@example.com", Seats: 5, Status: models.ClassApproved}
		res, err := store.Classes.Create(ctx, class)
		require.NoError(t, err)
		classID = res.InsertedID

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = store.Classes.IncrementStudents(ctx, classID)
			}()
		}
		wg.Wait()

		got, err := store.Classes.FindByID(ctx, classID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Students)
	})

	t.Run("sequential enrollments add one each", func(t *testing.T) {
		res, err := store.Classes.Create(ctx, &models.Class{Name: "Bachata", InstructorEmail: "ana@example.com", Seats: 30, Students: 10, Status: models.ClassApproved})
		require.NoError(t, err)

		for _, want := range []int{11, 12} {
			updated, err := store.Classes.IncrementStudents(ctx, res.InsertedID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), updated.ModifiedCount)

			got, err := store.Classes.FindByID(ctx, res.InsertedID)
			require.NoError(t, err)
			assert.Equal(t, want, got.Students)
		}
	})

	t.Run("status and feedback share the class update log", func(t *testing.T) {
		_, err := store.Classes.UpdateStatus(ctx, classID, models.ClassDenied)
		require.NoError(t, err)
		_, err = store.Classes.UpdateFeedback(ctx, classID, "add a description")
		require.NoError(t, err)

		updates, err := store.ClassUpdates.List(ctx)
		require.NoError(t, err)
		require.Len(t, updates, 1)
		assert.Equal(t, models.ClassDenied, updates[0].Status)
		assert.Equal(t, "add a description", updates[0].Feedback)
	})

	t.Run("class update log outlives the class", func(t *testing.T) {
		res, err := store.Classes.Create(ctx, &models.Class{Name: "Waltz", InstructorEmail: "leo@example.com", Seats: 8, Status: models.ClassPending})
		require.NoError(t, err)
		_, err = store.Classes.UpdateStatus(ctx, res.InsertedID, models.ClassApproved)
		require.NoError(t, err)

		deleted, err := store.Classes.DeleteOwned(ctx, res.InsertedID, "leo@example.com")
		require.NoError(t, err)
		require.Equal(t, int64(1), deleted.DeletedCount)

		updates, err := store.ClassUpdates.List(ctx)
		require.NoError(t, err)
		var kept []models.ClassUpdate
		for _, u := range updates {
			if u.ClassID == res.InsertedID {
				kept = append(kept, u)
			}
		}
		require.Len(t, kept, 1)
		assert.Equal(t, models.ClassApproved, kept[0].Status)
		assert.Equal(t, "Waltz", kept[0].ClassName)
	})

	t.Run("selection of an unknown class is rejected", func(t *testing.T) {
		missing := uuid.NewString()
		_, inserted, err := store.Selected.InsertIfAbsent(ctx, &models.Selected{ClassID: &missing, Name: "Ghost", Email: "stu@example.com"})
		require.Error(t, err)
		assert.False(t, inserted)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
	})

	t.Run("selection is unique and settled by payment", func(t *testing.T) {
		item := &models.Selected{ClassID: &classID, Name: "Salsa", Email: "stu@example.com", Price: 49.99}
		first, inserted, err := store.Selected.InsertIfAbsent(ctx, item)
		require.NoError(t, err)
		require.True(t, inserted)

		_, inserted, err = store.Selected.InsertIfAbsent(ctx, &models.Selected{Name: "Salsa", Email: "stu@example.com"})
		require.NoError(t, err)
		assert.False(t, inserted)

		selectedID := first.InsertedID
		recorded, err := store.Payments.Record(ctx, &models.Payment{Email: "stu@example.com", Amount: 49.99, TransactionID: "pi_1", SelectedClassID: &selectedID, ClassID: &classID, ClassName: "Salsa"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), recorded.DeleteResult.DeletedCount)

		staged, err := store.Selected.FindByID(ctx, selectedID)
		require.NoError(t, err)
		assert.Nil(t, staged)

		payments, err := store.Payments.ListByEmail(ctx, "stu@example.com")
		require.NoError(t, err)
		assert.Len(t, payments, 1)
	})

	t.Run("stale selections are purged", func(t *testing.T) {
		_, _, err := store.Selected.InsertIfAbsent(ctx, &models.Selected{Name: "Tango", Email: "stu@example.com", CreatedAt: time.Now().Add(-48 * time.Hour)})
		require.NoError(t, err)

		res, err := store.Selected.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.DeletedCount)
	})
}
