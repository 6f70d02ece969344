package scheduler

import (
	"testing"

	"sharewardrobe-backend/internal/config"
	"sharewardrobe-backend/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schedulerConfig() *config.Config {
	return &config.Config{Scheduler: config.SchedulerConfig{
		ExpireNegotiationHolds: "0 */5 * * * *",
		SendRentalReminders:    "0 0 9 * * *",
		RetryPendingPayments:   "0 */10 * * * *",
	}}
}

func TestNewScheduler_RegistersAllJobs(t *testing.T) {
	s, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, schedulerConfig()))

	require.NoError(t, err)
	assert.Equal(t, 3, s.Entries())
}

func TestNewScheduler_RejectsBadExpression(t *testing.T) {
	cfg := schedulerConfig()
	// five fields, but the cron is built with seconds
	cfg.Scheduler.SendRentalReminders = "0 9 * * *"

	_, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SendRentalReminders")
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, schedulerConfig()))
	require.NoError(t, err)

	s.Start()
	s.Stop()
}
