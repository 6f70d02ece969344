package jobs

import (
	"context"
	"time"

	"sharewardrobe-backend/internal/config"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/service"
)

// jobTimeout bounds a single run so a stuck query cannot pile up runs.
const jobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Negotiations service.NegotiationService
	Rentals      service.RentalService
	Orders       service.OrderService
}

func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	log := logger.WithMethod("JobRunner." + jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	log.Info("Starting job", "job", jobName)
	if err := jobFunc(ctx); err != nil {
		log.Error("Job failed", "job", jobName, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	log.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// Run executes one job by name. It reports false for unknown names.
func (jr *JobRunner) Run(name string) bool {
	switch name {
	case "expire-negotiation-holds":
		jr.ExpireNegotiationHolds()
	case "send-rental-reminders":
		jr.SendRentalReminders()
	case "retry-pending-payments":
		jr.RetryPendingPayments()
	default:
		return false
	}
	return true
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ExpireNegotiationHolds()
	jr.SendRentalReminders()
	jr.RetryPendingPayments()
}
