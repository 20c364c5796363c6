package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler turns cron specs into jobs on a Queue.
type Scheduler struct {
	cron   *cron.Cron
	queue  *Queue
	logger *zap.Logger
}

// NewScheduler creates a scheduler feeding queue.
func NewScheduler(queue *Queue, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cron: cron.New(), queue: queue, logger: logger}
}

// Every enqueues a job of jobType each time spec fires. spec accepts the standard five
// field syntax and descriptors such as @hourly or @every 30m.
func (s *Scheduler) Every(spec, jobType string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.queue.Enqueue(Job{Type: jobType}); err != nil {
			s.logger.Warn("failed to enqueue scheduled job", zap.String("type", jobType), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", jobType, spec, err)
	}
	return nil
}

// Start runs the queue workers and the cron clock.
func (s *Scheduler) Start(ctx context.Context) {
	s.queue.Start(ctx)
	s.cron.Start()
}

// Stop halts the clock, waits for in-flight triggers, then drains the workers.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.queue.Stop()
}
