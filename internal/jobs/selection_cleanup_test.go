package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjobs "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/jobs"
)

type purgerMock struct {
	removed int64
	err     error
	lastTTL time.Duration
	calls   int
}

func (m *purgerMock) PurgeStale(ctx context.Context, ttl time.Duration) (int64, error) {
	m.calls++
	m.lastTTL = ttl
	return m.removed, m.err
}

func TestSelectionCleanupHandle(t *testing.T) {
	purger := &purgerMock{removed: 4}
	job := NewSelectionCleanup(purger, 48*time.Hour, nil)

	err := job.Handle(context.Background(), pkgjobs.Job{ID: "j1", Type: SelectionCleanupJob})
	require.NoError(t, err)
	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, 48*time.Hour, purger.lastTTL)
}

func TestSelectionCleanupHandlePropagatesError(t *testing.T) {
	purger := &purgerMock{err: errors.New("db down")}
	job := NewSelectionCleanup(purger, time.Hour, nil)

	err := job.Handle(context.Background(), pkgjobs.Job{Type: SelectionCleanupJob})
	assert.EqualError(t, err, "db down")
}

func TestSelectionCleanupIgnoresOtherJobs(t *testing.T) {
	purger := &purgerMock{}
	job := NewSelectionCleanup(purger, time.Hour, nil)

	require.NoError(t, job.Handle(context.Background(), pkgjobs.Job{Type: "other"}))
	assert.Zero(t, purger.calls)
}

func TestScheduleRejectsInvalidSpec(t *testing.T) {
	job := NewSelectionCleanup(&purgerMock{}, time.Hour, nil)

	scheduler, err := Schedule(context.Background(), job, "every tuesday", nil)
	require.Error(t, err)
	assert.Nil(t, scheduler)
}
