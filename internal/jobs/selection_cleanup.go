package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	pkgjobs "github.com/kamrulislam2/rhythmverse-dance-school-server/pkg/jobs"
)

// SelectionCleanupJob is the job type that purges abandoned staged enrollments.
const SelectionCleanupJob = "selection_cleanup"

type selectionPurger interface {
	PurgeStale(ctx context.Context, ttl time.Duration) (int64, error)
}

// SelectionCleanup removes selected records older than TTL.
type SelectionCleanup struct {
	purger selectionPurger
	ttl    time.Duration
	logger *zap.Logger
}

// NewSelectionCleanup builds the cleanup job.
func NewSelectionCleanup(purger selectionPurger, ttl time.Duration, logger *zap.Logger) *SelectionCleanup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionCleanup{purger: purger, ttl: ttl, logger: logger}
}

// Handle runs one purge. It satisfies pkgjobs.Handler.
func (j *SelectionCleanup) Handle(ctx context.Context, job pkgjobs.Job) error {
	if job.Type != SelectionCleanupJob {
		j.logger.Warn("unexpected job type", zap.String("type", job.Type))
		return nil
	}
	removed, err := j.purger.PurgeStale(ctx, j.ttl)
	if err != nil {
		return err
	}
	j.logger.Info("stale selections purged", zap.Int64("removed", removed), zap.Duration("ttl", j.ttl), zap.String("job_id", job.ID))
	return nil
}

// Schedule wires the cleanup onto a cron spec and returns the running scheduler.
func Schedule(ctx context.Context, cleanup *SelectionCleanup, spec string, logger *zap.Logger) (*pkgjobs.Scheduler, error) {
	queue := pkgjobs.NewQueue(SelectionCleanupJob, cleanup.Handle, pkgjobs.QueueConfig{
		Workers:    1,
		MaxRetries: 3,
		RetryDelay: 30 * time.Second,
		Logger:     logger,
	})
	scheduler := pkgjobs.NewScheduler(queue, logger)
	if err := scheduler.Every(spec, SelectionCleanupJob); err != nil {
		return nil, err
	}
	scheduler.Start(ctx)
	return scheduler, nil
}
