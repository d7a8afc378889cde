package handler

import (
	"encoding/csv"
	"net"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// exportFilename is fixed; the download always reflects the current filter
// state, so the name carries no variable parts.
const exportFilename = "filtered_sales.csv"

// GetDashboardSummary returns the metrics and chart data for the current
// filter selection.
func GetDashboardSummary(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters, err := parseReportFilters(r.URL.Query())
		if err != nil {
			logger.WithError(err).Warn("dashboard: invalid filter parameters")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		summary, err := service.Summary(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("dashboard: failed to compute summary")
			apiErrors.WriteError(w, storeErrorCode(err), "Failed to load sales data", nil)
			return
		}

		logger.WithFields(log.Fields{
			"rows":          summary.RowCount,
			"total_revenue": summary.TotalRevenue,
			"total_orders":  summary.TotalOrders,
		}).Info("dashboard: summary computed")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logger.WithError(err).Error("dashboard: failed to encode response")
		}
	})
}

// GetFilterOptions returns the default option lists computed from the
// unfiltered table.
func GetFilterOptions(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		options, err := service.FilterOptions(r.Context())
		if err != nil {
			logger.WithError(err).Error("dashboard: failed to compute filter options")
			apiErrors.WriteError(w, storeErrorCode(err), "Failed to load sales data", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(options); err != nil {
			logger.WithError(err).Error("dashboard: failed to encode response")
		}
	})
}

// ExportFilteredSales streams the filtered table as a CSV download, with
// every original column.
func ExportFilteredSales(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters, err := parseReportFilters(r.URL.Query())
		if err != nil {
			logger.WithError(err).Warn("dashboard: invalid filter parameters")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		table, err := service.FilteredTable(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("dashboard: failed to load filtered table")
			apiErrors.WriteError(w, storeErrorCode(err), "Failed to load sales data", nil)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)

		writer := csv.NewWriter(w)
		if err := writer.Write(table.Columns); err != nil {
			logger.WithError(err).Error("dashboard: failed to write export header")
			return
		}
		for _, rec := range table.Records {
			if err := writer.Write(rec.Values); err != nil {
				logger.WithError(err).Error("dashboard: failed to write export row")
				return
			}
		}
		writer.Flush()

		logger.WithField("rows", len(table.Records)).Info("dashboard: filtered table exported")
	})
}

// parseReportFilters builds the filter selection from query parameters.
// regions/products are comma-separated lists; an absent parameter selects
// everything, while an explicitly empty one selects nothing.
func parseReportFilters(query url.Values) (*domain.ReportFilters, error) {
	startDate, err := utils.ParseDate(query.Get("start_date"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid start_date")
	}

	endDate, err := utils.ParseDate(query.Get("end_date"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid end_date")
	}

	return &domain.ReportFilters{
		StartDate: startDate,
		EndDate:   endDate,
		Regions:   parseListParam(query, "regions"),
		Products:  parseListParam(query, "products"),
	}, nil
}

func parseListParam(query url.Values, name string) []string {
	if _, ok := query[name]; !ok {
		return nil
	}

	raw := query.Get(name)
	if raw == "" {
		return []string{}
	}

	return splitAndTrim(raw)
}

// storeErrorCode maps a data-access failure onto the error taxonomy:
// unreachable store vs. failed query. Anything that isn't clearly a network
// problem counts as a query/fetch error.
func storeErrorCode(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return apiErrors.ErrStoreUnavailable
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return apiErrors.ErrStoreUnavailable
	}

	return apiErrors.ErrDatabaseOperation
}
