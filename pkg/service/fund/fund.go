// Package fund provides the administrative operations on funds.
package fund

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/amirasaad/donation/pkg/cache"
	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/events"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/pkg/eventbus"
	"github.com/amirasaad/donation/pkg/repository"
	"github.com/google/uuid"
)

// Service manages the fund lifecycle.
type Service struct {
	uow      repository.UnitOfWork
	bus      eventbus.Bus
	progress cache.FundProgressCache
	ttl      time.Duration
	logger   *slog.Logger

	// generation counts invalidations; a read-through write is skipped when
	// one happened after its database read.
	generation atomic.Uint64
}

// New creates a fund Service. bus and progress may be nil.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	progress cache.FundProgressCache,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:      uow,
		bus:      bus,
		progress: progress,
		ttl:      ttl,
		logger:   logger.With("service", "fund"),
	}
}

// Create opens a pending fund.
func (s *Service) Create(ctx context.Context, in dto.FundCreate) (*fund.Fund, error) {
	f, err := fund.New(in.Name, in.Description, in.TargetAmount, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	repo, err := s.uow.FundRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, f); err != nil {
		s.logger.Error("failed to create fund", "error", err)
		return nil, err
	}
	s.logger.Info("fund created", "fund_id", f.ID, "target_amount", f.TargetAmount)
	return f, nil
}

// Get returns a fund by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	repo, err := s.uow.FundRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// List returns all funds newest first.
func (s *Service) List(ctx context.Context) ([]*fund.Fund, error) {
	repo, err := s.uow.FundRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// Update applies the whitelisted fields of in. The running total and the
// status cannot be changed here.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in dto.FundUpdate) (*fund.Fund, error) {
	if in.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}
	var updated *fund.Fund
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.FundRepository()
		if err != nil {
			return err
		}
		f, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			if *in.Name == "" {
				return fmt.Errorf("%w: fund name is required", domain.ErrInvalidInput)
			}
			f.Name = *in.Name
		}
		if in.Description != nil {
			f.Description = *in.Description
		}
		if in.TargetAmount != nil {
			if err := f.SetTarget(*in.TargetAmount); err != nil {
				return err
			}
		}
		if in.StartDate != nil {
			f.StartDate = *in.StartDate
		}
		if in.EndDate != nil {
			f.EndDate = in.EndDate
		}
		if f.EndDate != nil && f.EndDate.Before(f.StartDate) {
			return fmt.Errorf("%w: end date precedes start date", domain.ErrInvalidInput)
		}
		if err := repo.Update(ctx, f); err != nil {
			return err
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("fund updated", "fund_id", id)
	return updated, nil
}

// Activate makes id the only active fund, returning the previously active
// fund to pending. Completed funds cannot be activated. Status writes are
// conditional on the status read here, so a fund completed by a concurrent
// settlement stays completed.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	var (
		activated  *fund.Fund
		previousID *uuid.UUID
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.FundRepository()
		if err != nil {
			return err
		}
		target, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if target.Status == fund.StatusActive {
			activated = target
			return nil
		}
		from := target.Status
		if err := target.Activate(); err != nil {
			return err
		}

		current, err := repo.GetActive(ctx)
		switch {
		case err == nil:
			if err := current.Suspend(); err != nil {
				return err
			}
			err = repo.UpdateStatus(ctx, current.ID, fund.StatusActive, fund.StatusPending)
			switch {
			case err == nil:
				previousID = &current.ID
			case errors.Is(err, domain.ErrConflict):
				s.logger.Info("active fund completed before it could be suspended", "fund_id", current.ID)
			default:
				return err
			}
		case errors.Is(err, domain.ErrNoActiveFund):
		default:
			return err
		}

		if err := repo.UpdateStatus(ctx, target.ID, from, fund.StatusActive); err != nil {
			return err
		}
		activated = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("fund activated", "fund_id", id, "previous_fund_id", previousID)
	if s.bus != nil {
		evt := &events.FundActivated{
			ID:          uuid.New(),
			FundID:      id,
			PreviousID:  previousID,
			ActivatedAt: time.Now().UTC(),
		}
		if err := s.bus.Emit(ctx, evt); err != nil {
			s.logger.Error("failed to emit event", "type", evt.Type(), "error", err)
		}
	}
	return activated, nil
}

// Delete removes a fund that never received money.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.FundRepository()
		if err != nil {
			return err
		}
		f, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := f.CanDelete(); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("fund deleted", "fund_id", id)
	return nil
}

// Active returns the progress of the active fund, served from the cache when
// possible. It returns domain.ErrNoActiveFund when no fund is active.
func (s *Service) Active(ctx context.Context) (*fund.Progress, error) {
	if s.progress != nil {
		cached, err := s.progress.Get(ctx, cache.ActiveFundKey)
		if err != nil {
			s.logger.Warn("fund progress cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	gen := s.generation.Load()
	repo, err := s.uow.FundRepository()
	if err != nil {
		return nil, err
	}
	f, err := repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	p := f.Progress()
	if s.progress != nil && s.generation.Load() == gen {
		if err := s.progress.Set(ctx, cache.ActiveFundKey, &p, s.ttl); err != nil {
			s.logger.Warn("fund progress cache write failed", "error", err)
		}
	}
	return &p, nil
}

// InvalidateProgress drops the cached active fund progress.
func (s *Service) InvalidateProgress(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	s.generation.Add(1)
	if s.progress == nil {
		return
	}
	if err := s.progress.Delete(ctx, cache.ActiveFundKey); err != nil {
		s.logger.Warn("fund progress cache invalidation failed", "error", err)
	}
}
