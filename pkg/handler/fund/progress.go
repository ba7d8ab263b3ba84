package fund

import (
	"context"
	"log/slog"

	"github.com/amirasaad/donation/pkg/domain/events"
	"github.com/amirasaad/donation/pkg/eventbus"
)

// ProgressInvalidator drops the cached progress of the active fund.
type ProgressInvalidator interface {
	InvalidateProgress(ctx context.Context)
}

// HandleInvalidateProgress clears the cached progress whenever a donation
// settles or a different fund becomes active.
func HandleInvalidateProgress(inv ProgressInvalidator, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		switch e.(type) {
		case *events.DonationSettled, *events.FundActivated:
		default:
			logger.Error("Skipping unexpected event type",
				"handler", "fund.HandleInvalidateProgress",
				"event_type", e.Type(),
			)
			return nil
		}
		inv.InvalidateProgress(ctx)
		logger.Debug("fund progress invalidated",
			"handler", "fund.HandleInvalidateProgress",
			"event_type", e.Type(),
		)
		return nil
	}
}
