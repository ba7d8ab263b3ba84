package cache

import (
	"context"
	"time"

	"github.com/amirasaad/donation/pkg/domain/fund"
)

// ActiveFundKey is the cache key holding the progress of the active fund.
const ActiveFundKey = "active"

// FundProgressCache stores fund progress snapshots. Get returns (nil, nil) on a miss.
type FundProgressCache interface {
	Get(ctx context.Context, key string) (*fund.Progress, error)
	Set(ctx context.Context, key string, progress *fund.Progress, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
