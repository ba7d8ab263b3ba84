// Package fund holds the event handlers that react to fund changes.
package fund

import (
	"context"
	"log/slog"

	"github.com/amirasaad/donation/pkg/domain/events"
	"github.com/amirasaad/donation/pkg/eventbus"
)

// HandleCompleted records that a fund reached its target. Completed funds stop
// accepting donations until an administrator activates the next one.
func HandleCompleted(logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With(
			"handler", "fund.HandleCompleted",
			"event_type", e.Type(),
		)
		fc, ok := e.(*events.FundCompleted)
		if !ok {
			log.Error("Skipping unexpected event type", "event", e)
			return nil
		}
		log.Info("fund reached its target",
			"fund_id", fc.FundID,
			"fund_name", fc.FundName,
			"current_amount", fc.CurrentAmount,
			"target_amount", fc.TargetAmount,
			"transaction_id", fc.TransactionID,
		)
		return nil
	}
}
