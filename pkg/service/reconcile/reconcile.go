// Package reconcile checks every fund's running total against the sum of the
// donations credited to it.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/amirasaad/donation/pkg/repository"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Drift is a fund whose running total disagrees with its donations.
type Drift struct {
	FundID        uuid.UUID `json:"fundId"`
	FundName      string    `json:"fundName"`
	CurrentAmount float64   `json:"currentAmount"`
	DonatedAmount float64   `json:"donatedAmount"`
	Difference    float64   `json:"difference"`
}

// Service compares fund totals with donation sums. It never writes.
type Service struct {
	uow       repository.UnitOfWork
	tolerance float64
	logger    *slog.Logger
}

// New creates a reconcile Service. Differences within tolerance are ignored.
func New(uow repository.UnitOfWork, tolerance float64, logger *slog.Logger) *Service {
	return &Service{uow: uow, tolerance: tolerance, logger: logger.With("service", "reconcile")}
}

// Run returns every fund whose current amount differs from its donations.
func (s *Service) Run(ctx context.Context) ([]Drift, error) {
	var drifts []Drift
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		funds, err := uow.FundRepository()
		if err != nil {
			return err
		}
		donations, err := uow.DonationRepository()
		if err != nil {
			return err
		}
		all, err := funds.List(ctx)
		if err != nil {
			return fmt.Errorf("list funds: %w", err)
		}
		totals, err := donations.SumByFund(ctx)
		if err != nil {
			return fmt.Errorf("sum donations: %w", err)
		}
		for _, f := range all {
			donated := totals[f.ID]
			diff := f.CurrentAmount - donated
			if math.Abs(diff) <= s.tolerance {
				continue
			}
			drifts = append(drifts, Drift{
				FundID:        f.ID,
				FundName:      f.Name,
				CurrentAmount: f.CurrentAmount,
				DonatedAmount: donated,
				Difference:    diff,
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("reconciliation failed", "error", err)
		return nil, err
	}
	for _, d := range drifts {
		s.logger.Warn("fund ledger drift",
			"fund_id", d.FundID,
			"current_amount", d.CurrentAmount,
			"donated_amount", d.DonatedAmount,
			"difference", d.Difference,
		)
	}
	s.logger.Info("reconciliation finished", "drifts", len(drifts))
	return drifts, nil
}

// Schedule registers Run on c using a cron spec such as "@every 10m".
func (s *Service) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			s.logger.Error("scheduled reconciliation failed", "error", err)
		}
	})
}

// NewCron returns a scheduler that skips a run while the previous one is
// still in progress.
func NewCron() *cron.Cron {
	return cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
}
