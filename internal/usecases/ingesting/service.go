package ingesting

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/cache"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Ingester parses an uploaded delimited file, normalizes its columns for the
// target table and appends the rows to the store.
type Ingester interface {
	Ingest(ctx context.Context, table string, file io.Reader) (*domain.IngestionResult, error)
}

type Service struct {
	tables repository.TableRepository
	cache  cache.Invalidator
}

func NewService(tables repository.TableRepository, cache cache.Invalidator) Ingester {
	return &Service{
		tables: tables,
		cache:  cache,
	}
}

// Ingest runs the normalize-then-append pipeline: parse the CSV, apply the
// target table's schema mapping, bulk-append, then invalidate the sales
// snapshot so the next dashboard read sees the new rows. Nothing is written
// when any step before the append fails.
func (s *Service) Ingest(ctx context.Context, table string, file io.Reader) (*domain.IngestionResult, error) {
	logger := log.ForContext(ctx).WithField("table", table)

	if !domain.KnownTable(table) {
		return nil, NewIngestionError(ErrUnknownTable, apiErrors.ErrUnknownTable, table)
	}

	ds, err := parseCSV(file)
	if err != nil {
		logger.WithError(err).Warn("ingestion: failed to parse uploaded file")
		return nil, NewIngestionError(err, apiErrors.ErrFileParse, "uploaded file is not valid CSV")
	}

	if len(ds.Rows) == 0 {
		return nil, NewIngestionError(ErrEmptyUpload, apiErrors.ErrEmptyUpload, "")
	}

	normalized := mappingFor(table).Normalize(ds)
	if len(normalized.Headers) == 0 {
		return nil, NewIngestionError(ErrNoMappedColumns, apiErrors.ErrSchemaMismatch, "none of the upload's columns map onto the target table")
	}

	rowsWritten, err := s.tables.Append(ctx, table, normalized)
	if err != nil {
		logger.WithError(err).Error("ingestion: append failed")
		return nil, NewIngestionError(err, apiErrors.ErrDatabaseOperation, "failed to write rows")
	}

	// The snapshot is stale the moment the append commits, for every session.
	s.cache.Invalidate()

	batchID, err := utils.GenerateID()
	if err != nil {
		batchID = ""
	}

	logger.WithFields(log.Fields{
		"batch_id":     batchID,
		"rows_written": rowsWritten,
		"columns":      len(normalized.Headers),
	}).Info("ingestion: batch appended")

	return &domain.IngestionResult{
		BatchID:     batchID,
		Table:       table,
		RowsWritten: rowsWritten,
	}, nil
}

// parseCSV reads the whole upload into memory. The first record is the
// header row; the csv package enforces a consistent field count per row.
func parseCSV(file io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &domain.Dataset{}, nil
	}

	return &domain.Dataset{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}
