package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func salesTable(products ...string) *domain.SalesTable {
	table := &domain.SalesTable{
		Columns: []string{"sale_day", "shipping_region", "product_title", "net_sales", "quantity_order"},
	}
	for _, p := range products {
		table.Records = append(table.Records, &domain.SalesRecord{ProductTitle: p})
	}
	return table
}

func TestTableCache_GetMemoizes(t *testing.T) {
	calls := 0
	c := NewTableCache(func(ctx context.Context) (*domain.SalesTable, error) {
		calls++
		return salesTable("A"), nil
	}, 0)

	first, err := c.Get(context.Background())
	assert.NoError(t, err)
	second, err := c.Get(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 1, calls, "repeated Get must not re-query")
	assert.Same(t, first, second)
}

func TestTableCache_InvalidateForcesReload(t *testing.T) {
	// The loader's view of the store changes between calls, the way an
	// ingestion append changes the backing table.
	tables := []*domain.SalesTable{salesTable("A"), salesTable("A", "B")}
	calls := 0
	c := NewTableCache(func(ctx context.Context) (*domain.SalesTable, error) {
		table := tables[calls]
		calls++
		return table, nil
	}, 0)

	before, err := c.Get(context.Background())
	assert.NoError(t, err)
	assert.Len(t, before.Records, 1)

	c.Invalidate()

	after, err := c.Get(context.Background())
	assert.NoError(t, err)
	assert.Len(t, after.Records, 2, "fetch after invalidation must reflect newly written rows")
	assert.Equal(t, 2, calls)
}

func TestTableCache_LoadErrorNotCached(t *testing.T) {
	calls := 0
	c := NewTableCache(func(ctx context.Context) (*domain.SalesTable, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("store unreachable")
		}
		return salesTable("A"), nil
	}, 0)

	_, err := c.Get(context.Background())
	assert.Error(t, err)

	table, err := c.Get(context.Background())
	assert.NoError(t, err)
	assert.Len(t, table.Records, 1)
}

func TestTableCache_TTLExpiry(t *testing.T) {
	calls := 0
	c := NewTableCache(func(ctx context.Context) (*domain.SalesTable, error) {
		calls++
		return salesTable("A"), nil
	}, 10*time.Millisecond)

	_, err := c.Get(context.Background())
	assert.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, err = c.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, calls, "Get after TTL expiry must re-query")
}

func TestTableCache_WarmLoadsEagerly(t *testing.T) {
	calls := 0
	c := NewTableCache(func(ctx context.Context) (*domain.SalesTable, error) {
		calls++
		return salesTable("A"), nil
	}, 0)

	assert.NoError(t, c.Warm(context.Background()))
	assert.Equal(t, 1, calls)

	_, err := c.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, calls, "Get after Warm must hit the snapshot")
}
