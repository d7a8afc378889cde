package domain

// Dataset is an untyped in-memory table: uploaded CSV content after parsing,
// or rows read back by the admin inspector. Rows are aligned with Headers.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// IngestionResult reports a successful append.
type IngestionResult struct {
	BatchID     string `json:"batch_id"`
	Table       string `json:"table"`
	RowsWritten int64  `json:"rows_written"`
}
