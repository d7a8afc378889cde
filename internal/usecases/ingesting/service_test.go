package ingesting

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

type spyInvalidator struct {
	calls int
}

func (s *spyInvalidator) Invalidate() {
	s.calls++
}

func TestIngest_AdUploadMappedAndProjected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTables := mocks.NewMockTableRepository(ctrl)
	invalidator := &spyInvalidator{}
	service := NewService(mockTables, invalidator)

	// Partial ad schema: only three mapped headers plus one unknown column.
	upload := strings.NewReader(
		"Products,Sales(INR),ROAS,Mystery\n" +
			"Widget,100,2.5,x\n" +
			"Gadget,250,1.1,y\n",
	)

	var written *domain.Dataset
	mockTables.EXPECT().
		Append(gomock.Any(), domain.TableAmazonAds, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ds *domain.Dataset) (int64, error) {
			written = ds
			return int64(len(ds.Rows)), nil
		})

	result, err := service.Ingest(context.Background(), domain.TableAmazonAds, upload)
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.RowsWritten)
	assert.Equal(t, domain.TableAmazonAds, result.Table)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 1, invalidator.calls, "successful append must invalidate the cache")

	// Absent canonical columns are absent from the write, not null-filled,
	// and the unmapped column is dropped.
	require.NotNil(t, written)
	assert.Equal(t, []string{"products", "sales_inr", "roas"}, written.Headers)
	assert.Equal(t, [][]string{
		{"Widget", "100", "2.5"},
		{"Gadget", "250", "1.1"},
	}, written.Rows)
}

func TestIngest_MonthlySalesPassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTables := mocks.NewMockTableRepository(ctrl)
	service := NewService(mockTables, &spyInvalidator{})

	upload := strings.NewReader(
		"sale_day,shipping_region,product_title,net_sales,quantity_order\n" +
			"2024-01-10,North,Widget,100,1\n",
	)

	var written *domain.Dataset
	mockTables.EXPECT().
		Append(gomock.Any(), domain.TableMonthlySales, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ds *domain.Dataset) (int64, error) {
			written = ds
			return 1, nil
		})

	result, err := service.Ingest(context.Background(), domain.TableMonthlySales, upload)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RowsWritten)

	// No renaming for monthly_sales; headers are assumed canonical.
	require.NotNil(t, written)
	assert.Equal(t, []string{"sale_day", "shipping_region", "product_title", "net_sales", "quantity_order"}, written.Headers)
}

func TestIngest_Failures(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		upload   string
		wantCode string
	}{
		{
			name:     "unknown table",
			table:    "users",
			upload:   "a,b\n1,2\n",
			wantCode: apiErrors.ErrUnknownTable,
		},
		{
			name:     "malformed CSV",
			table:    domain.TableMonthlySales,
			upload:   "a,b\n\"unterminated,1\n",
			wantCode: apiErrors.ErrFileParse,
		},
		{
			name:     "header only",
			table:    domain.TableMonthlySales,
			upload:   "sale_day,net_sales\n",
			wantCode: apiErrors.ErrEmptyUpload,
		},
		{
			name:     "no mapped columns",
			table:    domain.TableAmazonAds,
			upload:   "Foo,Bar\n1,2\n",
			wantCode: apiErrors.ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockTables := mocks.NewMockTableRepository(ctrl)
			invalidator := &spyInvalidator{}
			service := NewService(mockTables, invalidator)

			_, err := service.Ingest(context.Background(), tt.table, strings.NewReader(tt.upload))
			require.Error(t, err)

			var ingErr *IngestionError
			require.True(t, errors.As(err, &ingErr))
			assert.Equal(t, tt.wantCode, ingErr.Code)
			assert.Zero(t, invalidator.calls, "failed ingestion must not invalidate the cache")
		})
	}
}

func TestIngest_AppendFailureKeepsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTables := mocks.NewMockTableRepository(ctrl)
	invalidator := &spyInvalidator{}
	service := NewService(mockTables, invalidator)

	mockTables.EXPECT().
		Append(gomock.Any(), domain.TableMonthlySales, gomock.Any()).
		Return(int64(0), errors.New("schema error"))

	upload := strings.NewReader("sale_day,net_sales\n2024-01-10,100\n")
	_, err := service.Ingest(context.Background(), domain.TableMonthlySales, upload)
	require.Error(t, err)

	var ingErr *IngestionError
	require.True(t, errors.As(err, &ingErr))
	assert.Equal(t, apiErrors.ErrDatabaseOperation, ingErr.Code)
	assert.Zero(t, invalidator.calls)
}
