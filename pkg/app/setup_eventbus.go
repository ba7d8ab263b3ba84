package app

import (
	"time"

	"github.com/amirasaad/donation/pkg/domain/events"
	handlercommon "github.com/amirasaad/donation/pkg/handler/common"
	fundhandler "github.com/amirasaad/donation/pkg/handler/fund"
	receipthandler "github.com/amirasaad/donation/pkg/handler/receipt"
)

const defaultProgressTTL = 30 * time.Second

// setupEventBus registers the handlers that react to settlements.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	logger := a.Deps.Logger

	invalidate := fundhandler.HandleInvalidateProgress(a.FundService, logger)
	bus.Register(events.EventTypeDonationSettled, invalidate)
	bus.Register(events.EventTypeFundActivated, invalidate)

	bus.Register(
		events.EventTypeFundCompleted,
		handlercommon.WithIdempotency(
			fundhandler.HandleCompleted(logger),
			handlercommon.NewIdempotencyTracker(),
			handlercommon.EventID,
			"fund.HandleCompleted",
			logger,
		),
	)

	if a.Deps.Receipts != nil {
		bus.Register(
			events.EventTypeDonationSettled,
			handlercommon.WithIdempotency(
				receipthandler.HandleArchive(a.Deps.Receipts, logger),
				handlercommon.NewIdempotencyTracker(),
				handlercommon.EventID,
				"receipt.HandleArchive",
				logger,
			),
		)
	}
}
