package fund_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	infracache "github.com/amirasaad/donation/infra/cache"
	infraeventbus "github.com/amirasaad/donation/infra/eventbus"
	"github.com/amirasaad/donation/internal/fixtures/memstore"
	"github.com/amirasaad/donation/pkg/cache"
	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/events"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/pkg/repository"
	repofund "github.com/amirasaad/donation/pkg/repository/fund"
	fundsvc "github.com/amirasaad/donation/pkg/service/fund"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memstore.Store
	cache *infracache.MemoryCache
	bus   *infraeventbus.MemoryEventBus
	svc   *fundsvc.Service
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	c := infracache.NewMemoryCache()
	bus := infraeventbus.NewWithMemory(logger)
	return &fixture{
		store: store,
		cache: c,
		bus:   bus,
		svc:   fundsvc.New(store.UoW(), bus, c, time.Minute, logger),
	}
}

func (fx *fixture) create(t *testing.T, name string, target float64) *fund.Fund {
	t.Helper()
	f, err := fx.svc.Create(context.Background(), dto.FundCreate{Name: name, TargetAmount: target})
	require.NoError(t, err)
	return f
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	f := fx.create(t, "Flood relief", 1000)

	assert.Equal(t, fund.StatusPending, f.Status)
	got, err := fx.svc.Get(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	_, err = fx.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.svc.Create(context.Background(), dto.FundCreate{Name: "Bad", TargetAmount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActivate_DemotesPreviousActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	first := fx.create(t, "First", 1000)
	second := fx.create(t, "Second", 500)

	_, err := fx.svc.Activate(ctx, first.ID)
	require.NoError(t, err)
	activated, err := fx.svc.Activate(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, fund.StatusActive, activated.Status)

	prev, _ := fx.store.Fund(first.ID)
	assert.Equal(t, fund.StatusPending, prev.Status)

	active := 0
	funds, err := fx.svc.List(ctx)
	require.NoError(t, err)
	for _, f := range funds {
		if f.Status == fund.StatusActive {
			active++
		}
	}
	assert.Equal(t, 1, active)

	published := fx.bus.Published()
	require.Len(t, published, 2)
	last := published[1].(*events.FundActivated)
	assert.Equal(t, second.ID, last.FundID)
	assert.Equal(t, &first.ID, last.PreviousID)
}

func TestActivate_CompletedFundRefused(t *testing.T) {
	t.Parallel()
	fx := newFixture()
	f, err := fund.New("Done", "", 100, time.Time{}, nil)
	require.NoError(t, err)
	f.Status = fund.StatusCompleted
	f.CurrentAmount = 100
	fx.store.SeedFund(f)

	_, err = fx.svc.Activate(context.Background(), f.ID)
	assert.ErrorIs(t, err, fund.ErrInvalidTransition)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestUpdate_WhitelistsFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	f := fx.create(t, "Old", 1000)

	name := "New"
	target := 2000.0
	updated, err := fx.svc.Update(ctx, f.ID, dto.FundUpdate{Name: &name, TargetAmount: &target})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, 2000.0, updated.TargetAmount)
	assert.Equal(t, fund.StatusPending, updated.Status)

	zero := 0.0
	_, err = fx.svc.Update(ctx, f.ID, dto.FundUpdate{TargetAmount: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.svc.Update(ctx, f.ID, dto.FundUpdate{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	empty := fx.create(t, "Empty", 100)
	require.NoError(t, fx.svc.Delete(ctx, empty.ID))
	_, ok := fx.store.Fund(empty.ID)
	assert.False(t, ok)

	funded, err := fund.New("Funded", "", 100, time.Time{}, nil)
	require.NoError(t, err)
	funded.CurrentAmount = 10
	fx.store.SeedFund(funded)

	err = fx.svc.Delete(ctx, funded.ID)
	assert.ErrorIs(t, err, fund.ErrFundHasDonations)
	_, ok = fx.store.Fund(funded.ID)
	assert.True(t, ok)
}

func TestActive_UsesCacheAndInvalidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()

	_, err := fx.svc.Active(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveFund)

	f := fx.create(t, "Flood relief", 1000)
	_, err = fx.svc.Activate(ctx, f.ID)
	require.NoError(t, err)

	p, err := fx.svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.ID, p.FundID)

	cached, err := fx.cache.Get(ctx, cache.ActiveFundKey)
	require.NoError(t, err)
	require.NotNil(t, cached)

	fx.svc.InvalidateProgress(ctx)
	cached, err = fx.cache.Get(ctx, cache.ActiveFundKey)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

// hookedUoW runs afterRead once the active fund has been loaded.
type hookedUoW struct {
	repository.UnitOfWork
	afterRead func()
}

func (h *hookedUoW) FundRepository() (repofund.Repository, error) {
	repo, err := h.UnitOfWork.FundRepository()
	if err != nil {
		return nil, err
	}
	return &hookedFundRepo{Repository: repo, afterRead: h.afterRead}, nil
}

type hookedFundRepo struct {
	repofund.Repository
	afterRead func()
}

func (r *hookedFundRepo) GetActive(ctx context.Context) (*fund.Fund, error) {
	f, err := r.Repository.GetActive(ctx)
	if r.afterRead != nil {
		r.afterRead()
	}
	return f, err
}

func TestActive_InvalidationDuringReadIsNotOverwritten(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	f, err := fund.New("Flood relief", "", 1000, time.Time{}, nil)
	require.NoError(t, err)
	require.NoError(t, f.Activate())
	store.SeedFund(f)

	c := infracache.NewMemoryCache()
	uow := &hookedUoW{UnitOfWork: store.UoW()}
	svc := fundsvc.New(uow, nil, c, time.Minute, logger)
	// A settlement commits and invalidates between the read and the cache write.
	uow.afterRead = func() { svc.InvalidateProgress(ctx) }

	p, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.ID, p.FundID)

	cached, err := c.Get(ctx, cache.ActiveFundKey)
	require.NoError(t, err)
	assert.Nil(t, cached)

	uow.afterRead = nil
	_, err = svc.Active(ctx)
	require.NoError(t, err)
	cached, err = c.Get(ctx, cache.ActiveFundKey)
	require.NoError(t, err)
	assert.NotNil(t, cached)
}

func TestUpdate_KeepsCompletedStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fx := newFixture()
	f, err := fund.New("Done", "", 100, time.Time{}, nil)
	require.NoError(t, err)
	f.Status = fund.StatusCompleted
	f.CurrentAmount = 100
	fx.store.SeedFund(f)

	name := "Done and dusted"
	updated, err := fx.svc.Update(ctx, f.ID, dto.FundUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	stored, ok := fx.store.Fund(f.ID)
	require.True(t, ok)
	assert.Equal(t, fund.StatusCompleted, stored.Status)
	assert.Equal(t, 100.0, stored.CurrentAmount)
}
