package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Error codes returned to the frontend. The code is stable; the message is
// presentation only.
const (
	// Authentication errors
	ErrInvalidCredentials    = "AUTH_001" // Credential mismatch
	ErrInvalidToken          = "AUTH_002" // Missing or malformed session token
	ErrExpiredToken          = "AUTH_003" // Session token expired
	ErrInsufficientPrivilege = "AUTH_004" // Route requires the admin role
	ErrMissingCredentials    = "AUTH_005" // Username or password not provided

	// Validation errors
	ErrInvalidRequest      = "VAL_001" // Malformed request body or parameters
	ErrMissingRequiredData = "VAL_002" // Required data absent
	ErrInvalidFormat       = "VAL_003" // Badly formatted parameter value
	ErrUnknownTable        = "VAL_004" // Target table is not managed by this API

	// Ingestion errors
	ErrFileParse      = "ING_001" // Uploaded file is not valid delimited text
	ErrSchemaMismatch = "ING_002" // Columns don't fit the target table schema
	ErrEmptyUpload    = "ING_003" // File has no data rows

	// Server errors
	ErrInternalServer    = "SRV_001" // Unexpected internal failure
	ErrDatabaseOperation = "SRV_002" // Query failed or schema rejected the write
	ErrStoreUnavailable  = "SRV_003" // Relational store unreachable
)

var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrMissingCredentials:    http.StatusBadRequest,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrUnknownTable:          http.StatusNotFound,
	ErrFileParse:             http.StatusBadRequest,
	ErrSchemaMismatch:        http.StatusUnprocessableEntity,
	ErrEmptyUpload:           http.StatusBadRequest,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrStoreUnavailable:      http.StatusServiceUnavailable,
}

// APIError is the standard error payload
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error payload to the HTTP response
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error in an API error payload
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "unknown error",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
