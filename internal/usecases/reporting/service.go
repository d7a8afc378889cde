package reporting

import (
	"context"
	"sort"

	"github.com/vfg2006/sales-dashboard-api/internal/cache"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// topProductCount is how many products the share pie shows.
const topProductCount = 5

// Reporter computes the dashboard view over the cached sales table.
type Reporter interface {
	Summary(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardSummary, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
	FilteredTable(ctx context.Context, filters *domain.ReportFilters) (*domain.SalesTable, error)
}

type Service struct {
	source cache.TableSource
}

func NewService(source cache.TableSource) Reporter {
	return &Service{
		source: source,
	}
}

// Summary applies the filter selection and computes the headline metrics and
// both grouped aggregations. On an empty filtered table the metrics are zero
// and the chart slices stay nil so the frontend skips the charts.
func (s *Service) Summary(ctx context.Context, filters *domain.ReportFilters) (*domain.DashboardSummary, error) {
	table, err := s.source.Get(ctx)
	if err != nil {
		return nil, err
	}

	filtered := FilterTable(table, filters)

	summary := &domain.DashboardSummary{
		Filters:  filters,
		RowCount: len(filtered.Records),
	}

	for _, rec := range filtered.Records {
		summary.TotalRevenue += rec.NetSales
		summary.TotalOrders += rec.QuantityOrder
	}
	summary.TotalRevenue = utils.RoundWithTwoDecimalPlace(summary.TotalRevenue)

	if filtered.IsEmpty() {
		log.ForContext(ctx).Debug("reporting: filter selection matched no rows, skipping charts")
		return summary, nil
	}

	summary.RegionBreakdown = regionBreakdown(filtered)
	summary.TopProducts = topProducts(filtered)

	return summary, nil
}

// FilterOptions returns the default option lists, computed from the
// unfiltered table so the lists never shrink based on a prior selection.
func (s *Service) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	table, err := s.source.Get(ctx)
	if err != nil {
		return nil, err
	}

	options := &domain.FilterOptions{
		Regions:  make([]string, 0),
		Products: make([]string, 0),
	}

	regionSeen := make(map[string]bool)
	productSeen := make(map[string]bool)

	for _, rec := range table.Records {
		if options.MinDate == nil || rec.SaleDay.Before(*options.MinDate) {
			day := rec.SaleDay
			options.MinDate = &day
		}
		if options.MaxDate == nil || rec.SaleDay.After(*options.MaxDate) {
			day := rec.SaleDay
			options.MaxDate = &day
		}

		if !regionSeen[rec.ShippingRegion] {
			regionSeen[rec.ShippingRegion] = true
			options.Regions = append(options.Regions, rec.ShippingRegion)
		}
		if !productSeen[rec.ProductTitle] {
			productSeen[rec.ProductTitle] = true
			options.Products = append(options.Products, rec.ProductTitle)
		}
	}

	sort.Strings(options.Regions)
	sort.Strings(options.Products)

	return options, nil
}

// FilteredTable returns the filtered rows with every original column, for
// the CSV download.
func (s *Service) FilteredTable(ctx context.Context, filters *domain.ReportFilters) (*domain.SalesTable, error) {
	table, err := s.source.Get(ctx)
	if err != nil {
		return nil, err
	}

	return FilterTable(table, filters), nil
}

// FilterTable keeps the rows whose sale day falls inside the inclusive date
// range and whose region and product are in the selected sets. A nil set
// selects everything; an empty non-nil set selects nothing. A reversed date
// range matches no rows.
func FilterTable(table *domain.SalesTable, filters *domain.ReportFilters) *domain.SalesTable {
	filtered := &domain.SalesTable{
		Columns: table.Columns,
		Records: make([]*domain.SalesRecord, 0, len(table.Records)),
	}

	if filters == nil {
		filtered.Records = append(filtered.Records, table.Records...)
		return filtered
	}

	regions := toSet(filters.Regions)
	products := toSet(filters.Products)

	for _, rec := range table.Records {
		if filters.StartDate != nil && rec.SaleDay.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && rec.SaleDay.After(*filters.EndDate) {
			continue
		}
		if regions != nil && !regions[rec.ShippingRegion] {
			continue
		}
		if products != nil && !products[rec.ProductTitle] {
			continue
		}
		filtered.Records = append(filtered.Records, rec)
	}

	return filtered
}

func toSet(values []string) map[string]bool {
	if values == nil {
		return nil
	}

	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// regionBreakdown sums net sales per shipping region, one bar per region,
// ordered by region name.
func regionBreakdown(table *domain.SalesTable) []*domain.RegionSales {
	totals := make(map[string]float64)
	for _, rec := range table.Records {
		totals[rec.ShippingRegion] += rec.NetSales
	}

	breakdown := make([]*domain.RegionSales, 0, len(totals))
	for region, netSales := range totals {
		breakdown = append(breakdown, &domain.RegionSales{
			Region:   region,
			NetSales: utils.RoundWithTwoDecimalPlace(netSales),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Region < breakdown[j].Region
	})

	return breakdown
}

// topProducts sums quantity ordered per product and keeps the top five.
// Ties are broken by product title ascending, so the result is deterministic.
// Share is each product's fraction of the quantity across the kept entries.
func topProducts(table *domain.SalesTable) []*domain.ProductShare {
	totals := make(map[string]int)
	for _, rec := range table.Records {
		totals[rec.ProductTitle] += rec.QuantityOrder
	}

	products := make([]*domain.ProductShare, 0, len(totals))
	for title, quantity := range totals {
		products = append(products, &domain.ProductShare{
			ProductTitle:  title,
			QuantityOrder: quantity,
		})
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].QuantityOrder != products[j].QuantityOrder {
			return products[i].QuantityOrder > products[j].QuantityOrder
		}
		return products[i].ProductTitle < products[j].ProductTitle
	})

	if len(products) > topProductCount {
		products = products[:topProductCount]
	}

	total := 0
	for _, p := range products {
		total += p.QuantityOrder
	}
	if total > 0 {
		for _, p := range products {
			p.Share = utils.RoundWithTwoDecimalPlace(float64(p.QuantityOrder) / float64(total))
		}
	}

	return products
}
