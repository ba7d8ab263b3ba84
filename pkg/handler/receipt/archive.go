// Package receipt holds the event handler that archives donation receipts.
package receipt

import (
	"context"
	"log/slog"

	"github.com/amirasaad/donation/pkg/domain/events"
	"github.com/amirasaad/donation/pkg/eventbus"
	"github.com/amirasaad/donation/pkg/receipt"
)

// HandleArchive writes a receipt for every settled donation. Errors are
// returned so the remote buses redeliver or dead-letter the event.
func HandleArchive(archiver receipt.Archiver, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With(
			"handler", "receipt.HandleArchive",
			"event_type", e.Type(),
		)
		ds, ok := e.(*events.DonationSettled)
		if !ok {
			log.Error("Skipping unexpected event type", "event", e)
			return nil
		}
		log = log.With("transaction_id", ds.TransactionID)
		loc, err := archiver.Archive(ctx, receipt.FromSettled(ds))
		if err != nil {
			log.Error("failed to archive receipt", "error", err)
			return err
		}
		log.Info("receipt archived", "location", loc)
		return nil
	}
}
