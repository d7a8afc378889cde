package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

type staticSource struct {
	table *domain.SalesTable
	err   error
}

func (s *staticSource) Get(ctx context.Context) (*domain.SalesTable, error) {
	return s.table, s.err
}

func day(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(value string) *time.Time {
	t := day(value)
	return &t
}

func record(saleDay, region, product string, netSales float64, quantity int) *domain.SalesRecord {
	return &domain.SalesRecord{
		SaleDay:        day(saleDay),
		ShippingRegion: region,
		ProductTitle:   product,
		NetSales:       netSales,
		QuantityOrder:  quantity,
		Values:         []string{saleDay, region, product},
	}
}

func testTable(records ...*domain.SalesRecord) *domain.SalesTable {
	return &domain.SalesTable{
		Columns: []string{"sale_day", "shipping_region", "product_title"},
		Records: records,
	}
}

func TestFilterTable_DateRange(t *testing.T) {
	table := testTable(
		record("2024-01-10", "North", "Widget", 100, 1),
		record("2024-01-15", "South", "Widget", 200, 2),
		record("2024-01-20", "North", "Gadget", 300, 3),
	)

	tests := []struct {
		name     string
		filters  *domain.ReportFilters
		expected int
	}{
		{
			name:     "nil filters keep everything",
			filters:  nil,
			expected: 3,
		},
		{
			name: "inclusive boundaries",
			filters: &domain.ReportFilters{
				StartDate: dayPtr("2024-01-10"),
				EndDate:   dayPtr("2024-01-20"),
			},
			expected: 3,
		},
		{
			name: "inner range",
			filters: &domain.ReportFilters{
				StartDate: dayPtr("2024-01-11"),
				EndDate:   dayPtr("2024-01-19"),
			},
			expected: 1,
		},
		{
			name: "reversed range matches nothing",
			filters: &domain.ReportFilters{
				StartDate: dayPtr("2024-01-20"),
				EndDate:   dayPtr("2024-01-10"),
			},
			expected: 0,
		},
		{
			name: "open start",
			filters: &domain.ReportFilters{
				EndDate: dayPtr("2024-01-15"),
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterTable(table, tt.filters)
			assert.Len(t, filtered.Records, tt.expected)
		})
	}
}

func TestFilterTable_RegionAndProductSets(t *testing.T) {
	table := testTable(
		record("2024-01-10", "North", "Widget", 100, 1),
		record("2024-01-15", "South", "Widget", 200, 2),
		record("2024-01-20", "North", "Gadget", 300, 3),
	)

	// Selecting the full observed set is idempotent.
	full := FilterTable(table, &domain.ReportFilters{
		Regions:  []string{"North", "South"},
		Products: []string{"Widget", "Gadget"},
	})
	assert.Len(t, full.Records, 3)

	// An explicitly empty set matches nothing.
	none := FilterTable(table, &domain.ReportFilters{Regions: []string{}})
	assert.Len(t, none.Records, 0)

	north := FilterTable(table, &domain.ReportFilters{Regions: []string{"North"}})
	assert.Len(t, north.Records, 2)

	widgetSouth := FilterTable(table, &domain.ReportFilters{
		Regions:  []string{"South"},
		Products: []string{"Widget"},
	})
	require.Len(t, widgetSouth.Records, 1)
	assert.Equal(t, 200.0, widgetSouth.Records[0].NetSales)
}

func TestSummary_Totals(t *testing.T) {
	service := NewService(&staticSource{table: testTable(
		record("2024-01-10", "North", "Widget", 100.5, 1),
		record("2024-01-15", "South", "Widget", 200.25, 2),
		record("2024-01-20", "North", "Gadget", 300, 3),
	)})

	summary, err := service.Summary(context.Background(), &domain.ReportFilters{})
	require.NoError(t, err)

	assert.Equal(t, 600.75, summary.TotalRevenue)
	assert.Equal(t, 6, summary.TotalOrders)
	assert.Equal(t, 3, summary.RowCount)

	require.Len(t, summary.RegionBreakdown, 2)
	assert.Equal(t, "North", summary.RegionBreakdown[0].Region)
	assert.Equal(t, 400.5, summary.RegionBreakdown[0].NetSales)
	assert.Equal(t, "South", summary.RegionBreakdown[1].Region)
	assert.Equal(t, 200.25, summary.RegionBreakdown[1].NetSales)
}

func TestSummary_EmptySelection(t *testing.T) {
	service := NewService(&staticSource{table: testTable(
		record("2024-01-10", "North", "Widget", 100, 1),
	)})

	summary, err := service.Summary(context.Background(), &domain.ReportFilters{
		StartDate: dayPtr("2025-01-01"),
		EndDate:   dayPtr("2025-12-31"),
	})
	require.NoError(t, err)

	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.TotalOrders)
	assert.Zero(t, summary.RowCount)
	assert.Nil(t, summary.RegionBreakdown, "charts are skipped on an empty selection")
	assert.Nil(t, summary.TopProducts)
}

func TestSummary_TopProductsTieBreak(t *testing.T) {
	// Quantities {A:10 B:10 C:9 D:8 E:7 F:6}: exactly five entries survive,
	// totaling 44, with the A/B tie broken by title.
	service := NewService(&staticSource{table: testTable(
		record("2024-01-10", "North", "A", 1, 10),
		record("2024-01-10", "North", "B", 1, 10),
		record("2024-01-10", "North", "C", 1, 9),
		record("2024-01-10", "North", "D", 1, 8),
		record("2024-01-10", "North", "E", 1, 7),
		record("2024-01-10", "North", "F", 1, 6),
	)})

	summary, err := service.Summary(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, summary.TopProducts, 5)

	total := 0
	titles := make([]string, 0, 5)
	for _, p := range summary.TopProducts {
		total += p.QuantityOrder
		titles = append(titles, p.ProductTitle)
	}

	assert.Equal(t, 44, total)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, titles)
	assert.Equal(t, 0.23, summary.TopProducts[0].Share) // 10/44 rounded
}

func TestFilterOptions_FromUnfilteredTable(t *testing.T) {
	service := NewService(&staticSource{table: testTable(
		record("2024-01-15", "South", "Widget", 200, 2),
		record("2024-01-10", "North", "Widget", 100, 1),
		record("2024-01-20", "North", "Gadget", 300, 3),
	)})

	options, err := service.FilterOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, day("2024-01-10"), *options.MinDate)
	assert.Equal(t, day("2024-01-20"), *options.MaxDate)
	assert.Equal(t, []string{"North", "South"}, options.Regions)
	assert.Equal(t, []string{"Gadget", "Widget"}, options.Products)
}

func TestFilteredTable_KeepsAllColumns(t *testing.T) {
	table := testTable(
		record("2024-01-10", "North", "Widget", 100, 1),
		record("2024-01-15", "South", "Widget", 200, 2),
	)
	service := NewService(&staticSource{table: table})

	filtered, err := service.FilteredTable(context.Background(), &domain.ReportFilters{
		Regions: []string{"North"},
	})
	require.NoError(t, err)

	assert.Equal(t, table.Columns, filtered.Columns)
	require.Len(t, filtered.Records, 1)
	assert.Equal(t, []string{"2024-01-10", "North", "Widget"}, filtered.Records[0].Values)
}

func TestFilterTable_TimestampSaleDayOnEndBoundary(t *testing.T) {
	// The store scans sale_day through a string, so the parsed value may come
	// from a timestamp layout. The range is over calendar days: a row dated
	// on the end date must match no matter what time-of-day it carried.
	saleDay, err := utils.ParseSaleDay("2024-01-15 10:30:00")
	require.NoError(t, err)

	table := testTable(&domain.SalesRecord{
		SaleDay:        saleDay,
		ShippingRegion: "North",
		ProductTitle:   "Widget",
		NetSales:       100,
		QuantityOrder:  1,
		Values:         []string{"2024-01-15 10:30:00", "North", "Widget"},
	})

	filtered := FilterTable(table, &domain.ReportFilters{
		StartDate: dayPtr("2024-01-15"),
		EndDate:   dayPtr("2024-01-15"),
	})

	require.Len(t, filtered.Records, 1)
	assert.Equal(t, "Widget", filtered.Records[0].ProductTitle)
}
