package jobs

import (
	"context"

	"sharewardrobe-backend/internal/logger"
)

// ExpireNegotiationHolds drops negotiated prices whose hold has lapsed from
// carts, so those lines fall back to the catalog price.
func (jr *JobRunner) ExpireNegotiationHolds() {
	jr.runWithRecovery("ExpireNegotiationHolds", func(ctx context.Context) error {
		cleared, err := jr.services.Negotiations.ExpireNegotiationHolds(ctx)
		if err != nil {
			return err
		}
		logger.Info("Cleared expired negotiation holds", "count", cleared)
		return nil
	})
}
