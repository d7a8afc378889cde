package inspecting

import (
	"context"
	"errors"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// MaxRows caps the inspector view; the admin panel is a spot-check tool,
// not a data browser.
const MaxRows = 500

var ErrUnknownTable = errors.New("unknown table")

// Inspector exposes the read-only table view of the admin panel.
type Inspector interface {
	Rows(ctx context.Context, table string, limit uint64) (*domain.Dataset, error)
}

type Service struct {
	tables repository.TableRepository
}

func NewService(tables repository.TableRepository) Inspector {
	return &Service{
		tables: tables,
	}
}

// Rows returns up to limit rows of the given table, clamped to MaxRows.
// A zero limit means "as much as the inspector allows".
func (s *Service) Rows(ctx context.Context, table string, limit uint64) (*domain.Dataset, error) {
	if !domain.KnownTable(table) {
		return nil, ErrUnknownTable
	}

	if limit == 0 || limit > MaxRows {
		limit = MaxRows
	}

	return s.tables.FetchRows(ctx, table, limit)
}
