package fund

import (
	"context"

	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/google/uuid"
)

// Repository defines data access for funds.
type Repository interface {
	Create(ctx context.Context, f *fund.Fund) error

	// Get returns domain.ErrNotFound when the fund does not exist.
	Get(ctx context.Context, id uuid.UUID) (*fund.Fund, error)

	// GetActive returns domain.ErrNoActiveFund when no fund is active.
	GetActive(ctx context.Context) (*fund.Fund, error)

	List(ctx context.Context) ([]*fund.Fund, error)

	// Update persists the administrative fields of f. Status and
	// CurrentAmount are never written by Update.
	Update(ctx context.Context, f *fund.Fund) error

	// UpdateStatus moves the fund from one status to another. It returns
	// domain.ErrConflict when the stored status is no longer from, and
	// domain.ErrNotFound when the fund does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to fund.Status) error

	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementActive atomically adds amount to the active fund, completing it
	// when the target is reached, and returns the updated fund. Concurrent
	// calls never lose an increment. It returns domain.ErrNoActiveFund when no
	// fund is active.
	IncrementActive(ctx context.Context, amount float64) (*fund.Fund, error)
}
