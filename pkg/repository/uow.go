package repository

import (
	"context"

	"github.com/amirasaad/donation/pkg/repository/donation"
	"github.com/amirasaad/donation/pkg/repository/fund"
	"github.com/amirasaad/donation/pkg/repository/payment"
	"github.com/amirasaad/donation/pkg/repository/user"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Do runs the given function in a transaction boundary, providing a UnitOfWork for repository access.
// Every repository obtained from the UnitOfWork passed to fn shares that transaction, so
// either all of their writes commit or none do.
//
// GetRepository resolves a repository from a typed nil interface pointer:
//
//	repoAny, err := uow.GetRepository((*payment.Repository)(nil))
//	repo := repoAny.(payment.Repository)
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested type, bound to the current transaction/session.
	GetRepository(repoType any) (any, error)

	// Type-safe repository access methods (convenience methods)
	PaymentRepository() (payment.Repository, error)
	DonationRepository() (donation.Repository, error)
	FundRepository() (fund.Repository, error)
	UserRepository() (user.Repository, error)
}
