package domain

import "time"

// Table names accepted by ingestion and the admin inspector. Anything else
// is rejected before a query is built.
const (
	TableMonthlySales = "monthly_sales"
	TableAmazonAds    = "amazon_ads"
)

// KnownTable reports whether name is one of the tables this API manages.
func KnownTable(name string) bool {
	return name == TableMonthlySales || name == TableAmazonAds
}

// SalesRecord is one row of the monthly_sales table. The typed fields cover
// the columns the dashboard aggregates over; Values preserves every original
// cell (aligned with SalesTable.Columns) so exports keep columns we don't
// model explicitly.
type SalesRecord struct {
	SaleDay        time.Time
	ShippingRegion string
	ProductTitle   string
	NetSales       float64
	QuantityOrder  int

	Values []string
}

// SalesTable is the fully materialized monthly_sales table.
type SalesTable struct {
	Columns []string
	Records []*SalesRecord
}

// IsEmpty reports whether the table holds no rows.
func (t *SalesTable) IsEmpty() bool {
	return t == nil || len(t.Records) == 0
}
