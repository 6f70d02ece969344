package jobs

import (
	"context"
	"time"

	"sharewardrobe-backend/internal/logger"
)

const reminderWindow = 24 * time.Hour

// SendRentalReminders notifies renters whose rental ends within a day.
func (jr *JobRunner) SendRentalReminders() {
	jr.runWithRecovery("SendRentalReminders", func(ctx context.Context) error {
		sent, err := jr.services.Rentals.SendDueReminders(ctx, reminderWindow)
		if err != nil {
			return err
		}
		logger.Info("Sent rental due reminders", "count", sent)
		return nil
	})
}
