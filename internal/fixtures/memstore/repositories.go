package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/donation"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/domain/payment"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/google/uuid"
)

type paymentRepo struct{ u *UoW }

func (r *paymentRepo) Create(_ context.Context, p *payment.Payment) error {
	return r.u.run("payment.Create", func(s *state) error {
		for _, existing := range s.payments {
			if existing.TransactionID == p.TransactionID {
				return domain.ErrAlreadyExists
			}
		}
		s.payments = append(s.payments, *p)
		return nil
	})
}

func (r *paymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*payment.Payment, error) {
	var out *payment.Payment
	err := r.u.run("payment.GetByTransactionID", func(s *state) error {
		for i := range s.payments {
			if s.payments[i].TransactionID == transactionID {
				p := s.payments[i]
				out = &p
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *paymentRepo) List(_ context.Context, page, pageSize int) ([]*payment.Payment, error) {
	var out []*payment.Payment
	err := r.u.run("payment.List", func(s *state) error {
		for i := len(s.payments) - 1; i >= 0; i-- {
			p := s.payments[i]
			out = append(out, &p)
		}
		return nil
	})
	return paginate(out, page, pageSize), err
}

type donationRepo struct{ u *UoW }

func (r *donationRepo) Create(_ context.Context, d *donation.Donation) error {
	return r.u.run("donation.Create", func(s *state) error {
		for _, existing := range s.donations {
			if existing.TransactionID == d.TransactionID {
				return domain.ErrAlreadyExists
			}
		}
		s.donations = append(s.donations, *d)
		return nil
	})
}

func (r *donationRepo) GetByTransactionID(_ context.Context, transactionID string) (*donation.Donation, error) {
	var out *donation.Donation
	err := r.u.run("donation.GetByTransactionID", func(s *state) error {
		for i := range s.donations {
			if s.donations[i].TransactionID == transactionID {
				d := s.donations[i]
				out = &d
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *donationRepo) List(_ context.Context, filter dto.DonationFilter) ([]*donation.Donation, int64, error) {
	filter = filter.Normalize()
	var matched []*donation.Donation
	err := r.u.run("donation.List", func(s *state) error {
		for i := len(s.donations) - 1; i >= 0; i-- {
			d := s.donations[i]
			if filter.FundID != nil && (d.FundID == nil || *d.FundID != *filter.FundID) {
				continue
			}
			if filter.Purpose != "" && !strings.EqualFold(d.Purpose, filter.Purpose) {
				continue
			}
			matched = append(matched, &d)
		}
		return nil
	})
	return paginate(matched, filter.Page, filter.PageSize), int64(len(matched)), err
}

func (r *donationRepo) SumByFund(_ context.Context) (map[uuid.UUID]float64, error) {
	totals := make(map[uuid.UUID]float64)
	err := r.u.run("donation.SumByFund", func(s *state) error {
		for _, d := range s.donations {
			if d.FundID != nil && d.Status == payment.StatusCompleted {
				totals[*d.FundID] += d.Amount
			}
		}
		return nil
	})
	return totals, err
}

type fundRepo struct{ u *UoW }

func (r *fundRepo) Create(_ context.Context, f *fund.Fund) error {
	return r.u.run("fund.Create", func(s *state) error {
		for _, existing := range s.funds {
			if existing.ID == f.ID {
				return domain.ErrAlreadyExists
			}
			if f.Status == fund.StatusActive && existing.Status == fund.StatusActive {
				return domain.ErrAlreadyExists
			}
		}
		s.funds = append(s.funds, *f)
		return nil
	})
}

func (r *fundRepo) Get(_ context.Context, id uuid.UUID) (*fund.Fund, error) {
	var out *fund.Fund
	err := r.u.run("fund.Get", func(s *state) error {
		for i := range s.funds {
			if s.funds[i].ID == id {
				f := s.funds[i]
				out = &f
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *fundRepo) GetActive(_ context.Context) (*fund.Fund, error) {
	var out *fund.Fund
	err := r.u.run("fund.GetActive", func(s *state) error {
		i := activeIndex(s)
		if i < 0 {
			return domain.ErrNoActiveFund
		}
		f := s.funds[i]
		out = &f
		return nil
	})
	return out, err
}

func (r *fundRepo) List(_ context.Context) ([]*fund.Fund, error) {
	var out []*fund.Fund
	err := r.u.run("fund.List", func(s *state) error {
		for i := range s.funds {
			f := s.funds[i]
			out = append(out, &f)
		}
		sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
		return nil
	})
	return out, err
}

func (r *fundRepo) Update(_ context.Context, f *fund.Fund) error {
	return r.u.run("fund.Update", func(s *state) error {
		i := fundIndex(s, f.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		stored := &s.funds[i]
		stored.Name = f.Name
		stored.Description = f.Description
		stored.TargetAmount = f.TargetAmount
		stored.StartDate = f.StartDate
		stored.EndDate = f.EndDate
		stored.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *fundRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to fund.Status) error {
	return r.u.run("fund.UpdateStatus", func(s *state) error {
		i := fundIndex(s, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		if s.funds[i].Status != from {
			return fmt.Errorf("%w: fund %s is no longer %s", domain.ErrConflict, id, from)
		}
		if to == fund.StatusActive {
			if j := activeIndex(s); j >= 0 && j != i {
				return domain.ErrAlreadyExists
			}
		}
		s.funds[i].Status = to
		s.funds[i].UpdatedAt = time.Now().UTC()
		return nil
	})
}

func fundIndex(s *state, id uuid.UUID) int {
	for i := range s.funds {
		if s.funds[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *fundRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.u.run("fund.Delete", func(s *state) error {
		for i := range s.funds {
			if s.funds[i].ID == id {
				s.funds = append(s.funds[:i:i], s.funds[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *fundRepo) IncrementActive(_ context.Context, amount float64) (*fund.Fund, error) {
	var out *fund.Fund
	err := r.u.run("fund.IncrementActive", func(s *state) error {
		i := activeIndex(s)
		if i < 0 {
			return domain.ErrNoActiveFund
		}
		if err := s.funds[i].ApplyDonation(amount); err != nil {
			return err
		}
		f := s.funds[i]
		out = &f
		return nil
	})
	return out, err
}

func activeIndex(s *state) int {
	for i := range s.funds {
		if s.funds[i].Status == fund.StatusActive {
			return i
		}
	}
	return -1
}

type userRepo struct{ u *UoW }

func (r *userRepo) Create(_ context.Context, create *dto.UserCreate) error {
	return r.u.run("user.Create", func(s *state) error {
		for _, existing := range s.users {
			if existing.ID == create.ID || existing.Email == create.Email || existing.Username == create.Username {
				return domain.ErrAlreadyExists
			}
		}
		now := time.Now().UTC()
		s.users = append(s.users, dto.UserRead{
			ID:             create.ID,
			Username:       create.Username,
			Email:          create.Email,
			HashedPassword: create.Password,
			Names:          create.Names,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		return nil
	})
}

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (*dto.UserRead, error) {
	return r.find(func(u dto.UserRead) bool { return u.ID == id })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*dto.UserRead, error) {
	return r.find(func(u dto.UserRead) bool { return u.Email == email })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*dto.UserRead, error) {
	return r.find(func(u dto.UserRead) bool { return u.Username == username })
}

func (r *userRepo) find(match func(dto.UserRead) bool) (*dto.UserRead, error) {
	var out *dto.UserRead
	err := r.u.run("user.Get", func(s *state) error {
		for i := range s.users {
			if match(s.users[i]) {
				u := s.users[i]
				out = &u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return items
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
