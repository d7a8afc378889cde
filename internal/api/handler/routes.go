package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/inspecting"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
	}
}

func Dashboard(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard/summary",
			Method:      http.MethodGet,
			Handler:     GetDashboardSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
		{
			Path:        "/v1/dashboard/filters",
			Method:      http.MethodGet,
			Handler:     GetFilterOptions(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
		{
			Path:        "/v1/dashboard/export",
			Method:      http.MethodGet,
			Handler:     ExportFilteredSales(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
	}
}

func Ingestion(service ingesting.Ingester, maxUploadBytes int64) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/tables/:table/ingestions",
			Method:      http.MethodPost,
			Handler:     IngestUpload(service, maxUploadBytes),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func TableInspector(service inspecting.Inspector) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/tables/:table/rows",
			Method:      http.MethodGet,
			Handler:     GetTableRows(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/tables/:table/export",
			Method:      http.MethodGet,
			Handler:     ExportTableRows(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
