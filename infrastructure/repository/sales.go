package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Columns of monthly_sales the dashboard aggregates over. The table may
// carry more; those travel along untyped in SalesRecord.Values.
const (
	colSaleDay        = "sale_day"
	colShippingRegion = "shipping_region"
	colProductTitle   = "product_title"
	colNetSales       = "net_sales"
	colQuantityOrder  = "quantity_order"
)

type SalesRepository interface {
	FetchAll(ctx context.Context) (*domain.SalesTable, error)
}

type salesRepository struct {
	conn *postgres.Connection
}

func NewSalesRepository(conn *postgres.Connection) SalesRepository {
	return &salesRepository{
		conn: conn,
	}
}

// FetchAll materializes the entire monthly_sales table and parses sale_day
// into a calendar date. A single unparseable date fails the whole fetch, as
// does a missing required column. There is no pagination: the table is a
// reporting dataset assumed to stay small enough to pull in one query.
func (r *salesRepository) FetchAll(ctx context.Context) (*domain.SalesTable, error) {
	query, args, err := squirrel.
		Select("*").
		From(domain.TableMonthlySales).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", domain.TableMonthlySales, err)
	}
	defer rows.Close()

	ds, err := scanDataset(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning %s rows: %w", domain.TableMonthlySales, err)
	}

	return buildSalesTable(ds)
}

// buildSalesTable parses the typed dashboard columns out of the raw dataset.
func buildSalesTable(ds *domain.Dataset) (*domain.SalesTable, error) {
	idx := make(map[string]int, len(ds.Headers))
	for i, name := range ds.Headers {
		idx[name] = i
	}

	for _, required := range []string{colSaleDay, colShippingRegion, colProductTitle, colNetSales, colQuantityOrder} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%s is missing required column %q", domain.TableMonthlySales, required)
		}
	}

	table := &domain.SalesTable{
		Columns: ds.Headers,
		Records: make([]*domain.SalesRecord, 0, len(ds.Rows)),
	}

	for i, row := range ds.Rows {
		saleDay, err := utils.ParseSaleDay(row[idx[colSaleDay]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		// net_sales and quantity_order are not validated beyond a best-effort
		// parse; the store's schema keeps them numeric in practice.
		netSales, _ := strconv.ParseFloat(row[idx[colNetSales]], 64)
		quantity, _ := strconv.Atoi(row[idx[colQuantityOrder]])

		table.Records = append(table.Records, &domain.SalesRecord{
			SaleDay:        saleDay,
			ShippingRegion: row[idx[colShippingRegion]],
			ProductTitle:   row[idx[colProductTitle]],
			NetSales:       netSales,
			QuantityOrder:  quantity,
			Values:         row,
		})
	}

	return table, nil
}
