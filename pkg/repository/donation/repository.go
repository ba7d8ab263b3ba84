package donation

import (
	"context"

	"github.com/amirasaad/donation/pkg/domain/donation"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines data access for donation records. Donations are append-only.
type Repository interface {
	// Create inserts a donation. It returns domain.ErrAlreadyExists when the
	// transaction identifier is already taken.
	Create(ctx context.Context, d *donation.Donation) error

	// GetByTransactionID returns domain.ErrNotFound when no donation matches.
	GetByTransactionID(ctx context.Context, transactionID string) (*donation.Donation, error)

	// List returns a page of donations newest first and the total match count.
	List(ctx context.Context, filter dto.DonationFilter) ([]*donation.Donation, int64, error)

	// SumByFund totals completed donations per fund.
	SumByFund(ctx context.Context) (map[uuid.UUID]float64, error)
}
