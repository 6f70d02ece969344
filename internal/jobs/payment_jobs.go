package jobs

import (
	"context"

	"sharewardrobe-backend/internal/logger"
)

// RetryPendingPayments re-attempts capture for online orders still unpaid.
func (jr *JobRunner) RetryPendingPayments() {
	jr.runWithRecovery("RetryPendingPayments", func(ctx context.Context) error {
		paid, err := jr.services.Orders.RetryPendingPayments(ctx)
		if err != nil {
			return err
		}
		logger.Info("Retried pending payments", "paid", paid)
		return nil
	})
}
