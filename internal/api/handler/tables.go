package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/inspecting"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

type TableRowsResponse struct {
	Table   string     `json:"table"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// GetTableRows is the admin inspector: up to 500 rows of either managed
// table, read-only.
func GetTableRows(service inspecting.Inspector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		table := httprouter.ParamsFromContext(r.Context()).ByName("table")

		limit, err := parseLimitParam(r.URL.Query().Get("limit"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit must be a non-negative integer", nil)
			return
		}

		ds, err := service.Rows(r.Context(), table, limit)
		if err != nil {
			if errors.Is(err, inspecting.ErrUnknownTable) {
				apiErrors.WriteError(w, apiErrors.ErrUnknownTable, "Unknown table: "+table, nil)
				return
			}
			logger.WithError(err).Error("inspector: failed to read table rows")
			apiErrors.WriteError(w, storeErrorCode(err), "Failed to read table", nil)
			return
		}

		logger.WithFields(log.Fields{
			"table": table,
			"rows":  len(ds.Rows),
		}).Info("inspector: table rows served")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(TableRowsResponse{
			Table:   table,
			Columns: ds.Headers,
			Rows:    ds.Rows,
		}); err != nil {
			logger.WithError(err).Error("inspector: failed to encode response")
		}
	})
}

// ExportTableRows downloads the inspector view as CSV.
func ExportTableRows(service inspecting.Inspector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		table := httprouter.ParamsFromContext(r.Context()).ByName("table")

		ds, err := service.Rows(r.Context(), table, 0)
		if err != nil {
			if errors.Is(err, inspecting.ErrUnknownTable) {
				apiErrors.WriteError(w, apiErrors.ErrUnknownTable, "Unknown table: "+table, nil)
				return
			}
			logger.WithError(err).Error("inspector: failed to read table rows")
			apiErrors.WriteError(w, storeErrorCode(err), "Failed to read table", nil)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+table+`.csv"`)

		writer := csv.NewWriter(w)
		if err := writer.Write(ds.Headers); err != nil {
			logger.WithError(err).Error("inspector: failed to write export header")
			return
		}
		for _, row := range ds.Rows {
			if err := writer.Write(row); err != nil {
				logger.WithError(err).Error("inspector: failed to write export row")
				return
			}
		}
		writer.Flush()
	})
}

func parseLimitParam(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
