package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

// defaultMaxUploadBytes bounds the multipart body when no cap is configured.
const defaultMaxUploadBytes = 32 << 20

// IngestUpload accepts one CSV file per request and appends its rows to the
// target table. Errors are reported to the caller and never crash the
// session; nothing is written unless the whole batch can be. Bodies larger
// than maxUploadBytes are rejected before any parsing.
func IngestUpload(service ingesting.Ingester, maxUploadBytes int64) http.Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		table := httprouter.ParamsFromContext(r.Context()).ByName("table")
		logger.WithField("table", table).Info("ingestion: upload received")

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			logger.WithError(err).Warn("ingestion: invalid multipart request")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Expected a multipart upload with a 'file' field", nil)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			logger.WithError(err).Warn("ingestion: missing file field")
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "No file provided", nil)
			return
		}
		defer file.Close()

		logger.WithFields(log.Fields{
			"table":    table,
			"filename": header.Filename,
			"size":     header.Size,
		}).Debug("ingestion: parsing upload")

		result, err := service.Ingest(r.Context(), table, file)
		if err != nil {
			handleIngestionError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("ingestion: failed to encode response")
		}
	})
}

// handleIngestionError maps ingestion failures onto the API error codes
func handleIngestionError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context())

	var ingErr *ingesting.IngestionError
	if errors.As(err, &ingErr) {
		logger.WithField("code", ingErr.Code).Warn("ingestion: rejected: ", ingErr.Error())
		apiErrors.WriteError(w, ingErr.Code, ingErr.Error(), nil)
		return
	}

	logger.WithError(err).Error("ingestion: unexpected failure")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Ingestion failed", nil)
}
