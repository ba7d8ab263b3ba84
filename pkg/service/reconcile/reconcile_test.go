package reconcile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/donation/internal/fixtures/memstore"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/service/reconcile"
	"github.com/amirasaad/donation/pkg/service/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_ConsistentLedgerHasNoDrift(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	f, err := fund.New("Flood relief", "", 1000, time.Time{}, nil)
	require.NoError(t, err)
	require.NoError(t, f.Activate())
	store.SeedFund(f)

	settle := settlement.New(store.UoW(), nil, settlement.Config{}, discard())
	for _, tx := range []string{"a", "b", "c"} {
		_, err := settle.Settle(context.Background(), settlement.Request{Amount: 33.33, TransactionID: tx})
		require.NoError(t, err)
	}

	drifts, err := reconcile.New(store.UoW(), 0.005, discard()).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestRun_ReportsDrift(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	f, err := fund.New("Seeded", "", 1000, time.Time{}, nil)
	require.NoError(t, err)
	f.CurrentAmount = 120
	store.SeedFund(f)

	drifts, err := reconcile.New(store.UoW(), 0.005, discard()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, f.ID, drifts[0].FundID)
	assert.Equal(t, 120.0, drifts[0].Difference)
}

func TestRun_StorageFailure(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	store.FailOn("donation.SumByFund", errors.New("timeout"))

	_, err := reconcile.New(store.UoW(), 0, discard()).Run(context.Background())
	assert.Error(t, err)
}

func TestSchedule(t *testing.T) {
	t.Parallel()
	svc := reconcile.New(memstore.New().UoW(), 0, discard())
	c := reconcile.NewCron()

	_, err := svc.Schedule(c, "@every 1m")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = svc.Schedule(c, "not a schedule")
	assert.Error(t, err)
}
