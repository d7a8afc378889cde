package ingesting

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTable    = errors.New("unknown target table")
	ErrEmptyUpload     = errors.New("uploaded file has no data rows")
	ErrNoMappedColumns = errors.New("no recognized columns in upload")
)

// IngestionError wraps an ingestion failure with the API error code, so the
// handler can report it without inspecting error strings.
type IngestionError struct {
	Err     error
	Code    string
	Details string
}

func (e *IngestionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

func NewIngestionError(baseErr error, code string, details string) *IngestionError {
	return &IngestionError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}
