package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// identifierPattern is what we accept for column names that end up verbatim
// in a statement. Upload headers are caller-controlled input, so anything
// outside this pattern is rejected before a query is built.
var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ErrUnknownTable is returned when the target table isn't managed by this API.
var ErrUnknownTable = fmt.Errorf("unknown table")

// TableRepository covers the generic operations shared by both managed
// tables: append-only bulk inserts for ingestion and capped reads for the
// admin inspector.
type TableRepository interface {
	Append(ctx context.Context, table string, ds *domain.Dataset) (int64, error)
	FetchRows(ctx context.Context, table string, limit uint64) (*domain.Dataset, error)
}

type tableRepository struct {
	conn *postgres.Connection
}

func NewTableRepository(conn *postgres.Connection) TableRepository {
	return &tableRepository{
		conn: conn,
	}
}

// Append writes every dataset row to the target table in one multi-row
// INSERT. Existing rows are never touched and nothing deduplicates: the
// statement is atomic as a batch, but re-uploading the same file appends the
// same rows again.
func (r *tableRepository) Append(ctx context.Context, table string, ds *domain.Dataset) (int64, error) {
	if !domain.KnownTable(table) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	for _, col := range ds.Headers {
		if !identifierPattern.MatchString(col) {
			return 0, fmt.Errorf("invalid column name %q for table %s", col, table)
		}
	}

	if len(ds.Rows) == 0 {
		return 0, nil
	}

	builder := squirrel.StatementBuilder.
		Insert(table).
		Columns(ds.Headers...).
		PlaceholderFormat(squirrel.Dollar)

	for _, row := range ds.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cell
		}
		builder = builder.Values(values...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building insert: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, fmt.Errorf("database error on %s: %w (code: %s)", table, pqErr, pqErr.Code)
		}
		return 0, fmt.Errorf("executing insert on %s: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected row count: %w", err)
	}

	return rowsAffected, nil
}

// FetchRows reads up to limit rows of the given table for the inspector view.
func (r *tableRepository) FetchRows(ctx context.Context, table string, limit uint64) (*domain.Dataset, error) {
	if !domain.KnownTable(table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	query, args, err := squirrel.
		Select("*").
		From(table).
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	ds, err := scanDataset(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning %s rows: %w", table, err)
	}

	return ds, nil
}

// scanDataset materializes a generic result set into a Dataset. Every value
// is scanned through sql.NullString; the driver renders numerics and dates
// as text, which is what the CSV-facing layers want anyway.
func scanDataset(rows *sql.Rows) (*domain.Dataset, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	ds := &domain.Dataset{
		Headers: columns,
		Rows:    make([][]string, 0),
	}

	for rows.Next() {
		raw := make([]interface{}, len(columns))
		for i := range raw {
			raw[i] = new(sql.NullString)
		}

		if err := rows.Scan(raw...); err != nil {
			return nil, err
		}

		row := make([]string, len(columns))
		for i := range raw {
			if ns := raw[i].(*sql.NullString); ns.Valid {
				row[i] = ns.String
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ds, nil
}
