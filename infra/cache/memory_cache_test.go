package cache

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	got, err := c.Get(ctx, "active")
	require.NoError(t, err)
	assert.Nil(t, got)

	p := &fund.Progress{FundID: uuid.New(), CurrentAmount: 500, TargetAmount: 1000}
	require.NoError(t, c.Set(ctx, "active", p, time.Minute))

	got, err = c.Get(ctx, "active")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.FundID, got.FundID)

	// stored values are copies
	got.CurrentAmount = 0
	again, _ := c.Get(ctx, "active")
	assert.Equal(t, 500.0, again.CurrentAmount)

	require.NoError(t, c.Delete(ctx, "active"))
	got, err = c.Get(ctx, "active")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "active", &fund.Progress{}, time.Second))
	got, _ := c.Get(ctx, "active")
	assert.NotNil(t, got)

	now = now.Add(2 * time.Second)
	got, err := c.Get(ctx, "active")
	require.NoError(t, err)
	assert.Nil(t, got)
}
