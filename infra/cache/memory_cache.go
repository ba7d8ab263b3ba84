package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/donation/pkg/cache"
	"github.com/amirasaad/donation/pkg/domain/fund"
)

// MemoryCache implements FundProgressCache using in-memory storage.
// Expired entries are dropped lazily on read.
type MemoryCache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

type cacheEntry struct {
	progress  fund.Progress
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get retrieves a progress snapshot from cache
func (c *MemoryCache) Get(_ context.Context, key string) (*fund.Progress, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()
	if !exists {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	p := entry.progress
	return &p, nil
}

// Set stores a copy of progress with TTL
func (c *MemoryCache) Set(_ context.Context, key string, progress *fund.Progress, ttl time.Duration) error {
	if progress == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{progress: *progress, expiresAt: c.now().Add(ttl)}
	return nil
}

// Delete removes a key from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

var _ cache.FundProgressCache = (*MemoryCache)(nil)
