package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// Loader fetches the backing table when the cache is cold.
type Loader func(ctx context.Context) (*domain.SalesTable, error)

// TableSource is what read paths depend on; TableCache implements it.
type TableSource interface {
	Get(ctx context.Context) (*domain.SalesTable, error)
}

// Invalidator is what write paths (ingestion) depend on.
type Invalidator interface {
	Invalidate()
}

// TableCache memoizes one full-table snapshot behind a mutex. The snapshot
// is shared by every session: an ingestion by one user invalidates it for
// all of them, so everyone sees the latest data on their next read. A zero
// TTL keeps the snapshot until it is explicitly invalidated.
type TableCache struct {
	mu        sync.Mutex
	loader    Loader
	ttl       time.Duration
	table     *domain.SalesTable
	fetchedAt time.Time
}

func NewTableCache(loader Loader, ttl time.Duration) *TableCache {
	return &TableCache{
		loader: loader,
		ttl:    ttl,
	}
}

// Get returns the cached snapshot, loading it first if the cache is cold or
// the TTL has lapsed. Load failures are not cached: the next Get retries.
func (c *TableCache) Get(ctx context.Context) (*domain.SalesTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table != nil && !c.expired() {
		return c.table, nil
	}

	table, err := c.loader(ctx)
	if err != nil {
		return nil, err
	}

	c.table = table
	c.fetchedAt = time.Now()

	log.ForContext(ctx).WithFields(log.Fields{
		"rows": len(table.Records),
	}).Debug("cache: sales table snapshot refreshed")

	return c.table, nil
}

// Invalidate drops the snapshot so the next Get re-queries the store.
func (c *TableCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.table = nil
	c.fetchedAt = time.Time{}
}

// Warm loads the snapshot eagerly; used by the refresh scheduler.
func (c *TableCache) Warm(ctx context.Context) error {
	c.Invalidate()
	_, err := c.Get(ctx)
	return err
}

func (c *TableCache) expired() bool {
	if c.ttl <= 0 {
		return false
	}
	return time.Since(c.fetchedAt) > c.ttl
}
