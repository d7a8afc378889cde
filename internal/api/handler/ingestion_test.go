package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

type stubIngester struct {
	result *domain.IngestionResult
	err    error
}

func (s *stubIngester) Ingest(_ context.Context, table string, _ io.Reader) (*domain.IngestionResult, error) {
	return s.result, s.err
}

func multipartUpload(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestIngestUpload_Success(t *testing.T) {
	service := &stubIngester{
		result: &domain.IngestionResult{BatchID: "abc12345", Table: domain.TableMonthlySales, RowsWritten: 1},
	}

	body, contentType := multipartUpload(t, "sale_day,net_sales\n2024-01-10,100\n")
	req := httptest.NewRequest("POST", "/v1/tables/monthly_sales/ingestions", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	IngestUpload(service, 0).ServeHTTP(rec, req)

	require.Equal(t, 201, rec.Code)

	var result domain.IngestionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(1), result.RowsWritten)
}

func TestIngestUpload_BodyOverConfiguredCap(t *testing.T) {
	body, contentType := multipartUpload(t, strings.Repeat("x", 2048))
	req := httptest.NewRequest("POST", "/v1/tables/monthly_sales/ingestions", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	IngestUpload(&stubIngester{}, 1024).ServeHTTP(rec, req)

	require.Equal(t, 400, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "VAL_001", payload["code"])
}

func TestIngestUpload_MissingFileField(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/v1/tables/monthly_sales/ingestions", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	IngestUpload(&stubIngester{}, 0).ServeHTTP(rec, req)

	require.Equal(t, 400, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "VAL_002", payload["code"])
}
