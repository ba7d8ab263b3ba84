package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/donation/infra/repository/donation"
	"github.com/amirasaad/donation/infra/repository/fund"
	"github.com/amirasaad/donation/infra/repository/payment"
	"github.com/amirasaad/donation/infra/repository/user"
	"github.com/amirasaad/donation/pkg/repository"
	repodonation "github.com/amirasaad/donation/pkg/repository/donation"
	repofund "github.com/amirasaad/donation/pkg/repository/fund"
	repopayment "github.com/amirasaad/donation/pkg/repository/payment"
	repouser "github.com/amirasaad/donation/pkg/repository/user"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do are bound to the transaction; outside Do
// they run on the plain connection pool.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repopayment.Repository)(nil)).Elem():  func(db *gorm.DB) any { return payment.New(db) },
			reflect.TypeOf((*repodonation.Repository)(nil)).Elem(): func(db *gorm.DB) any { return donation.New(db) },
			reflect.TypeOf((*repofund.Repository)(nil)).Elem():     func(db *gorm.DB) any { return fund.New(db) },
			reflect.TypeOf((*repouser.Repository)(nil)).Elem():     func(db *gorm.DB) any { return user.New(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW with repository access.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// GetRepository resolves a repository from a typed nil interface pointer such
// as (*payment.Repository)(nil). The repository shares the current session.
func (u *UoW) GetRepository(repoType any) (any, error) {
	t := reflect.TypeOf(repoType)
	if t == nil {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	constructor, ok := u.repoRegistry[t]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", t)
	}
	return constructor(u.session()), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// PaymentRepository returns the payment repository bound to the current session.
func (u *UoW) PaymentRepository() (repopayment.Repository, error) {
	return getTyped[repopayment.Repository](u)
}

// DonationRepository returns the donation repository bound to the current session.
func (u *UoW) DonationRepository() (repodonation.Repository, error) {
	return getTyped[repodonation.Repository](u)
}

// FundRepository returns the fund repository bound to the current session.
func (u *UoW) FundRepository() (repofund.Repository, error) {
	return getTyped[repofund.Repository](u)
}

// UserRepository returns the user repository bound to the current session.
func (u *UoW) UserRepository() (repouser.Repository, error) {
	return getTyped[repouser.Repository](u)
}

func getTyped[T any](u *UoW) (T, error) {
	var zero T
	repoAny, err := u.GetRepository((*T)(nil))
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("invalid repository type: %T", repoAny)
	}
	return repo, nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
