// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Persistence errors
	CodeStorageFailure Code = "STORAGE_FAILURE"
	CodeNotFound       Code = "NOT_FOUND"

	// Font errors
	CodeFontDecodeFailure Code = "FONT_DECODE_FAILURE"
	CodeFontRepairFailure Code = "FONT_REPAIR_FAILURE"

	// Configuration errors
	CodeDanglingReference Code = "DANGLING_REFERENCE"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"

	// Lifecycle errors
	CodeNotReady Code = "NOT_READY"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeFontDecodeFailure, CodeFontRepairFailure:
		return http.StatusUnprocessableEntity
	case CodeNotFound, CodeDanglingReference:
		return http.StatusNotFound
	case CodeNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
