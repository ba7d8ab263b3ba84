package fund_test

import (
	"testing"
	"time"

	"github.com/amirasaad/donation/pkg/domain"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveFund(t *testing.T, target, current float64) *fund.Fund {
	t.Helper()
	f, err := fund.New("Flood relief", "", target, time.Time{}, nil)
	require.NoError(t, err)
	require.NoError(t, f.Activate())
	f.CurrentAmount = current
	return f
}

func TestNew(t *testing.T) {
	t.Parallel()
	f, err := fund.New("  Flood relief ", "desc", 1000, time.Time{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Flood relief", f.Name)
	assert.Equal(t, fund.StatusPending, f.Status)
	assert.Zero(t, f.CurrentAmount)
	assert.False(t, f.StartDate.IsZero())

	_, err = fund.New("", "", 1000, time.Time{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fund.New("x", "", 0, time.Time{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = fund.New("x", "", 10, start, &end)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyDonation_Threshold(t *testing.T) {
	t.Parallel()

	f := newActiveFund(t, 1000, 900)
	require.NoError(t, f.ApplyDonation(150))
	assert.Equal(t, 1050.0, f.CurrentAmount)
	assert.Equal(t, fund.StatusCompleted, f.Status)

	g := newActiveFund(t, 1000, 900)
	require.NoError(t, g.ApplyDonation(50))
	assert.Equal(t, 950.0, g.CurrentAmount)
	assert.Equal(t, fund.StatusActive, g.Status)

	h := newActiveFund(t, 1000, 900)
	require.NoError(t, h.ApplyDonation(100))
	assert.Equal(t, fund.StatusCompleted, h.Status, "reaching the target exactly completes the fund")
}

func TestApplyDonation_Rejections(t *testing.T) {
	t.Parallel()

	f := newActiveFund(t, 1000, 0)
	assert.ErrorIs(t, f.ApplyDonation(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.ApplyDonation(-5), domain.ErrInvalidInput)
	assert.Zero(t, f.CurrentAmount)

	pending, err := fund.New("Pending", "", 100, time.Time{}, nil)
	require.NoError(t, err)
	err = pending.ApplyDonation(10)
	assert.ErrorIs(t, err, fund.ErrFundNotActive)
	assert.Equal(t, domain.KindNoActiveFund, domain.KindOf(err))
}

func TestLifecycleTransitions(t *testing.T) {
	t.Parallel()

	f := newActiveFund(t, 100, 0)
	require.NoError(t, f.Activate(), "activating an active fund is a no-op")
	require.NoError(t, f.ApplyDonation(100))
	require.Equal(t, fund.StatusCompleted, f.Status)

	assert.ErrorIs(t, f.Activate(), fund.ErrInvalidTransition)
	assert.ErrorIs(t, f.Suspend(), fund.ErrInvalidTransition)
	assert.Equal(t, fund.StatusCompleted, f.Status)
}

func TestSetTargetDoesNotComplete(t *testing.T) {
	t.Parallel()
	f := newActiveFund(t, 1000, 500)
	require.NoError(t, f.SetTarget(400))
	assert.Equal(t, fund.StatusActive, f.Status)
	assert.ErrorIs(t, f.SetTarget(0), domain.ErrInvalidInput)
}

func TestCanDelete(t *testing.T) {
	t.Parallel()
	f := newActiveFund(t, 1000, 0)
	assert.NoError(t, f.CanDelete())
	f.CurrentAmount = 1
	assert.ErrorIs(t, f.CanDelete(), fund.ErrFundHasDonations)
}

func TestProgress(t *testing.T) {
	t.Parallel()
	f := newActiveFund(t, 1000, 250)
	p := f.Progress()
	assert.Equal(t, 750.0, p.Remaining)
	assert.InDelta(t, 25.0, p.Percent, 0.0001)

	f.CurrentAmount = 1200
	assert.Zero(t, f.Progress().Remaining)
}
