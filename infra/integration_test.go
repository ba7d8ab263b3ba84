//go:build integration

package infra_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/donation/infra"
	infrarepository "github.com/amirasaad/donation/infra/repository"
	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/pkg/repository"
	fundsvc "github.com/amirasaad/donation/pkg/service/fund"
	"github.com/amirasaad/donation/pkg/service/reconcile"
	"github.com/amirasaad/donation/pkg/service/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type PostgresSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	uow       *infrarepository.UoW
	logger    *slog.Logger
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("donation"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.db, err = infra.NewDBConnection(&config.DB{Url: dsn}, "test")
	s.Require().NoError(err)
	s.Require().NoError(infra.MigrateUp(s.db))

	s.uow = infrarepository.NewUoW(s.db)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *PostgresSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE donations, payments, funds, users CASCADE").Error)
}

func (s *PostgresSuite) settlement() *settlement.Service {
	return settlement.New(s.uow, nil, settlement.Config{}, s.logger)
}

func (s *PostgresSuite) activeFund(target float64) *fund.Fund {
	svc := fundsvc.New(s.uow, nil, nil, 0, s.logger)
	f, err := svc.Create(context.Background(), dto.FundCreate{Name: "Integration fund", TargetAmount: target})
	s.Require().NoError(err)
	f, err = svc.Activate(context.Background(), f.ID)
	s.Require().NoError(err)
	return f
}

func (s *PostgresSuite) count(table string) int64 {
	var n int64
	s.Require().NoError(s.db.Table(table).Count(&n).Error)
	return n
}

func (s *PostgresSuite) TestConcurrentDonorsAreAllCounted() {
	f := s.activeFund(100000)
	svc := s.settlement()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Settle(context.Background(), settlement.Request{
				Amount:        10,
				TransactionID: fmt.Sprintf("donor-%02d", i),
			})
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	repo, err := s.uow.FundRepository()
	s.Require().NoError(err)
	got, err := repo.Get(context.Background(), f.ID)
	s.Require().NoError(err)
	s.Equal(500.0, got.CurrentAmount)
	s.Equal(int64(50), s.count("payments"))
	s.Equal(int64(50), s.count("donations"))
}

func (s *PostgresSuite) TestConcurrentDuplicatesSettleOnce() {
	f := s.activeFund(100000)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fresh int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Separate services so the database constraint, not in-process
			// coalescing, decides the winner.
			res, err := s.settlement().Settle(context.Background(), settlement.Request{
				Amount:        25,
				TransactionID: "same-tx",
			})
			if assert.NoError(s.T(), err) && !res.Replayed {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, fresh)
	s.Equal(int64(1), s.count("payments"))
	s.Equal(int64(1), s.count("donations"))
	repo, err := s.uow.FundRepository()
	s.Require().NoError(err)
	got, err := repo.Get(context.Background(), f.ID)
	s.Require().NoError(err)
	s.Equal(25.0, got.CurrentAmount)
}

func (s *PostgresSuite) TestThresholds() {
	ctx := context.Background()
	svc := s.settlement()

	s.Run("crossing the target completes the fund", func() {
		s.SetupTest()
		s.activeFund(1000)
		_, err := svc.Settle(ctx, settlement.Request{Amount: 900, TransactionID: "t-900"})
		s.Require().NoError(err)
		res, err := svc.Settle(ctx, settlement.Request{Amount: 150, TransactionID: "t-150"})
		s.Require().NoError(err)
		s.Equal(1050.0, res.Fund.CurrentAmount)
		s.Equal(fund.StatusCompleted, res.Fund.Status)

		_, err = svc.Settle(ctx, settlement.Request{Amount: 1, TransactionID: "t-after"})
		s.ErrorIs(err, domain.ErrNoActiveFund)
	})

	s.Run("staying below the target keeps it active", func() {
		s.SetupTest()
		s.activeFund(1000)
		_, err := svc.Settle(ctx, settlement.Request{Amount: 900, TransactionID: "b-900"})
		s.Require().NoError(err)
		res, err := svc.Settle(ctx, settlement.Request{Amount: 50, TransactionID: "b-50"})
		s.Require().NoError(err)
		s.Equal(950.0, res.Fund.CurrentAmount)
		s.Equal(fund.StatusActive, res.Fund.Status)
	})
}

func (s *PostgresSuite) TestNoActiveFundLeavesNothingBehind() {
	_, err := s.settlement().Settle(context.Background(), settlement.Request{Amount: 10, TransactionID: "orphan"})
	s.ErrorIs(err, domain.ErrNoActiveFund)
	s.Equal(int64(0), s.count("payments"))
	s.Equal(int64(0), s.count("donations"))
}

func (s *PostgresSuite) TestReplayReturnsStoredRecords() {
	s.activeFund(1000)
	svc := s.settlement()
	first, err := svc.Settle(context.Background(), settlement.Request{Amount: 40, TransactionID: "replay", DonorName: "Ravi"})
	s.Require().NoError(err)

	again, err := svc.Settle(context.Background(), settlement.Request{Amount: 40, TransactionID: "replay"})
	s.Require().NoError(err)
	s.True(again.Replayed)
	s.Equal(first.Payment.ID, again.Payment.ID)
	s.Equal(first.Donation.ID, again.Donation.ID)
	s.Equal("Ravi", again.Donation.Donor.Name)
	s.Equal(40.0, again.Fund.CurrentAmount)
}

func (s *PostgresSuite) TestSingleActiveFund() {
	ctx := context.Background()
	first := s.activeFund(1000)
	second := s.activeFund(2000)

	repo, err := s.uow.FundRepository()
	s.Require().NoError(err)
	active, err := repo.GetActive(ctx)
	s.Require().NoError(err)
	s.Equal(second.ID, active.ID)

	demoted, err := repo.Get(ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(fund.StatusPending, demoted.Status)

	// The partial unique index rejects a second active row.
	err = repo.UpdateStatus(ctx, demoted.ID, fund.StatusPending, fund.StatusActive)
	s.ErrorIs(err, domain.ErrAlreadyExists)
}

func (s *PostgresSuite) TestAdminWritesNeverRevertCompletion() {
	ctx := context.Background()
	funds := fundsvc.New(s.uow, nil, nil, 0, s.logger)
	next, err := funds.Create(ctx, dto.FundCreate{Name: "Next fund", TargetAmount: 500})
	s.Require().NoError(err)
	f := s.activeFund(100)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.FundRepository()
		if err != nil {
			return err
		}
		stale, err := repo.Get(ctx, f.ID)
		if err != nil {
			return err
		}
		s.Equal(fund.StatusActive, stale.Status)

		// A settlement in its own transaction completes the fund after the read.
		res, err := s.settlement().Settle(ctx, settlement.Request{Amount: 100, TransactionID: "completes"})
		s.Require().NoError(err)
		s.Equal(fund.StatusCompleted, res.Fund.Status)

		stale.Name = "Renamed"
		if err := repo.Update(ctx, stale); err != nil {
			return err
		}
		err = repo.UpdateStatus(ctx, stale.ID, fund.StatusActive, fund.StatusPending)
		s.ErrorIs(err, domain.ErrConflict)
		return nil
	})
	s.Require().NoError(err)

	repo, err := s.uow.FundRepository()
	s.Require().NoError(err)
	got, err := repo.Get(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", got.Name)
	s.Equal(fund.StatusCompleted, got.Status)
	s.Equal(100.0, got.CurrentAmount)

	_, err = s.settlement().Settle(ctx, settlement.Request{Amount: 1, TransactionID: "after-completion"})
	s.ErrorIs(err, domain.ErrNoActiveFund)

	activated, err := funds.Activate(ctx, next.ID)
	s.Require().NoError(err)
	s.Equal(fund.StatusActive, activated.Status)
	got, err = repo.Get(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal(fund.StatusCompleted, got.Status)
}

func (s *PostgresSuite) TestCentPrecision() {
	ctx := context.Background()
	f := s.activeFund(1000)
	svc := s.settlement()

	_, err := svc.Settle(ctx, settlement.Request{Amount: 999.99, TransactionID: "c-1"})
	s.Require().NoError(err)

	for _, amount := range []float64{0.004, 0.006, 1e13} {
		_, err = svc.Settle(ctx, settlement.Request{Amount: amount, TransactionID: fmt.Sprintf("bad-%v", amount)})
		s.ErrorIs(err, domain.ErrInvalidInput, "amount %v", amount)
	}
	s.Equal(int64(1), s.count("payments"))

	res, err := svc.Settle(ctx, settlement.Request{Amount: 0.01, TransactionID: "c-2"})
	s.Require().NoError(err)
	s.Equal(f.ID, res.Fund.ID)
	s.Equal(1000.0, res.Fund.CurrentAmount)
	s.Equal(fund.StatusCompleted, res.Fund.Status)
}

func (s *PostgresSuite) TestReconcileAfterSettlements() {
	s.activeFund(10000)
	svc := s.settlement()
	for i := range 5 {
		_, err := svc.Settle(context.Background(), settlement.Request{Amount: 19.99, TransactionID: fmt.Sprintf("r-%d", i)})
		s.Require().NoError(err)
	}
	drifts, err := reconcile.New(s.uow, 0.005, s.logger).Run(context.Background())
	s.Require().NoError(err)
	s.Empty(drifts)
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}
