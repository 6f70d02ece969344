package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"sharewardrobe-backend/internal/jobs"
	"sharewardrobe-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
	log  *slog.Logger
}

// NewScheduler registers every job on a UTC cron with a seconds field. A bad
// expression is a startup error.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
		log:  logger.WithService("scheduler"),
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	entries := []struct {
		name string
		spec string
		fn   func()
	}{
		{"ExpireNegotiationHolds", cfg.ExpireNegotiationHolds, s.jobs.ExpireNegotiationHolds},
		{"SendRentalReminders", cfg.SendRentalReminders, s.jobs.SendRentalReminders},
		{"RetryPendingPayments", cfg.RetryPendingPayments, s.jobs.RetryPendingPayments},
	}

	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.fn); err != nil {
			return fmt.Errorf("register %s job (%q): %w", e.name, e.spec, err)
		}
		s.log.Debug("Registered cron job", "job", e.name, "schedule", e.spec)
	}

	s.log.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.log.Info("Starting cron scheduler...")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.log.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
