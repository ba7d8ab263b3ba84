// Package memstore is an in-memory UnitOfWork for tests. Transactions are
// serialized and run against a copy of the committed state, which replaces
// the committed state only when the transaction function succeeds.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/amirasaad/donation/pkg/domain/donation"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/domain/payment"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/pkg/repository"
	repodonation "github.com/amirasaad/donation/pkg/repository/donation"
	repofund "github.com/amirasaad/donation/pkg/repository/fund"
	repopayment "github.com/amirasaad/donation/pkg/repository/payment"
	repouser "github.com/amirasaad/donation/pkg/repository/user"
	"github.com/google/uuid"
)

type state struct {
	payments  []payment.Payment
	donations []donation.Donation
	funds     []fund.Fund
	users     []dto.UserRead
}

func (s *state) clone() *state {
	return &state{
		payments:  append([]payment.Payment(nil), s.payments...),
		donations: append([]donation.Donation(nil), s.donations...),
		funds:     append([]fund.Fund(nil), s.funds...),
		users:     append([]dto.UserRead(nil), s.users...),
	}
}

// Store owns the committed state.
type Store struct {
	mu        sync.Mutex
	committed *state
	failures  map[string]error
}

// New returns an empty store.
func New() *Store {
	return &Store{committed: &state{}, failures: make(map[string]error)}
}

// FailOn makes every subsequent call of op ("payment.Create",
// "donation.Create", "fund.IncrementActive", ...) return err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// UoW returns a UnitOfWork bound to the store.
func (s *Store) UoW() *UoW {
	return &UoW{store: s}
}

// Payments returns a snapshot of committed payments.
func (s *Store) Payments() []payment.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]payment.Payment(nil), s.committed.payments...)
}

// Donations returns a snapshot of committed donations.
func (s *Store) Donations() []donation.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]donation.Donation(nil), s.committed.donations...)
}

// Fund returns the committed fund with id, if any.
func (s *Store) Fund(id uuid.UUID) (fund.Fund, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.committed.funds {
		if f.ID == id {
			return f, true
		}
	}
	return fund.Fund{}, false
}

// SeedFund stores f directly in the committed state.
func (s *Store) SeedFund(f *fund.Fund) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.funds = append(s.committed.funds, *f)
}

// UoW implements repository.UnitOfWork. Outside Do every repository call runs
// as its own transaction.
type UoW struct {
	store *Store
	tx    *state
}

// Do runs fn against a private copy of the state and commits it when fn
// returns nil. Nested calls join the enclosing transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	tx := u.store.committed.clone()
	if err := fn(&UoW{store: u.store, tx: tx}); err != nil {
		return err
	}
	u.store.committed = tx
	return nil
}

// GetRepository resolves a repository from a typed nil interface pointer.
func (u *UoW) GetRepository(repoType any) (any, error) {
	t := reflect.TypeOf(repoType)
	if t == nil {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case reflect.TypeOf((*repopayment.Repository)(nil)).Elem():
		return &paymentRepo{u}, nil
	case reflect.TypeOf((*repodonation.Repository)(nil)).Elem():
		return &donationRepo{u}, nil
	case reflect.TypeOf((*repofund.Repository)(nil)).Elem():
		return &fundRepo{u}, nil
	case reflect.TypeOf((*repouser.Repository)(nil)).Elem():
		return &userRepo{u}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", t)
}

func (u *UoW) PaymentRepository() (repopayment.Repository, error)   { return &paymentRepo{u}, nil }
func (u *UoW) DonationRepository() (repodonation.Repository, error) { return &donationRepo{u}, nil }
func (u *UoW) FundRepository() (repofund.Repository, error)         { return &fundRepo{u}, nil }
func (u *UoW) UserRepository() (repouser.Repository, error)         { return &userRepo{u}, nil }

// run executes f against the transaction state, or against the committed
// state under the store lock, after checking injected failures for op.
func (u *UoW) run(op string, f func(s *state) error) error {
	if u.tx != nil {
		if err := u.store.failures[op]; err != nil {
			return err
		}
		return f(u.tx)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if err := u.store.failures[op]; err != nil {
		return err
	}
	next := u.store.committed.clone()
	if err := f(next); err != nil {
		return err
	}
	u.store.committed = next
	return nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
