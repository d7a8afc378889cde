package domain

import "time"

// ReportFilters is the session-scoped filter selection applied to the sales
// table. A nil date leaves that side of the range open; a nil Regions or
// Products slice means "all observed values", while an empty non-nil slice
// matches nothing (the user deselected everything).
type ReportFilters struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Regions   []string   `json:"regions,omitempty"`
	Products  []string   `json:"products,omitempty"`
}

// RegionSales is one bar of the sales-by-region chart.
type RegionSales struct {
	Region   string  `json:"region"`
	NetSales float64 `json:"net_sales"`
}

// ProductShare is one slice of the top-products pie. Share is the product's
// fraction of the quantity sold across the returned entries.
type ProductShare struct {
	ProductTitle  string  `json:"product_title"`
	QuantityOrder int     `json:"quantity_order"`
	Share         float64 `json:"share"`
}

// DashboardSummary carries the two headline metrics and the two grouped
// aggregations for the current filter selection. The chart slices are nil
// when the filtered table is empty; the frontend skips rendering them.
type DashboardSummary struct {
	Filters         *ReportFilters  `json:"filters"`
	RowCount        int             `json:"row_count"`
	TotalRevenue    float64         `json:"total_revenue"`
	TotalOrders     int             `json:"total_orders"`
	RegionBreakdown []*RegionSales  `json:"region_breakdown,omitempty"`
	TopProducts     []*ProductShare `json:"top_products,omitempty"`
}

// FilterOptions lists the defaults offered to the user: the full date span
// and every distinct region and product observed in the unfiltered table.
type FilterOptions struct {
	MinDate  *time.Time `json:"min_date,omitempty"`
	MaxDate  *time.Time `json:"max_date,omitempty"`
	Regions  []string   `json:"regions"`
	Products []string   `json:"products"`
}
