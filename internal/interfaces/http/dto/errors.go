package dto

import (
	"net/http"

	"github.com/repairshop/backend/internal/domain/shared"
)

// Error codes returned in the response envelope. Domain codes pass through
// unchanged so clients see the same code the service raised.
const (
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeBadRequest        = shared.CodeBadRequest
	ErrCodeInsufficientStock = shared.CodeInsufficientStock
	ErrCodeInvalidState      = shared.CodeInvalidState
	ErrCodeAlreadyExists     = shared.CodeAlreadyExists

	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeTenant      = "INVALID_TENANT"
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTooLarge    = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Business-rule violations are client errors (400), not 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeAlreadyExists:     http.StatusConflict,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInsufficientStock: http.StatusBadRequest,
	ErrCodeInvalidState:      http.StatusBadRequest,
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	ErrCodeTenant:            http.StatusBadRequest,
	ErrCodeInternal:          http.StatusInternalServerError,
	ErrCodeUnavailable:       http.StatusServiceUnavailable,
	ErrCodeTooLarge:          http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are server errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// legacyErrorCodes maps spellings used by older clients and stored event
// payloads onto the current codes
var legacyErrorCodes = map[string]string{
	"ERR_NOT_FOUND":          ErrCodeNotFound,
	"ERR_ALREADY_EXISTS":     ErrCodeAlreadyExists,
	"ERR_BAD_REQUEST":        ErrCodeBadRequest,
	"ERR_INVALID_INPUT":      ErrCodeBadRequest,
	"INVALID_INPUT":          ErrCodeBadRequest,
	"ERR_INVALID_STATE":      ErrCodeInvalidState,
	"ERR_INSUFFICIENT_STOCK": ErrCodeInsufficientStock,
	"ERR_VALIDATION":         ErrCodeValidation,
	"ERR_INTERNAL":           ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the current spelling.
// Current and unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if current, ok := legacyErrorCodes[code]; ok {
		return current
	}
	return code
}
