package dto

import "net/http"

// Error code constants, format ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeBusinessRule       = "ERR_BUSINESS_RULE"
	ErrCodeCommitConflict     = "ERR_COMMIT_CONFLICT"
	ErrCodeInvariantViolation = "ERR_INVARIANT_VIOLATION"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeFileTooLarge = "ERR_FILE_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeCommitConflict:     http.StatusUnprocessableEntity,
	ErrCodeInvariantViolation: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeFileTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code,
// defaulting to 500 for unmapped codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// legacyErrorCodeMapping maps domain error codes to transport-level codes
var legacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":   ErrCodeConcurrencyConflict,
	"COMMIT_CONFLICT":        ErrCodeCommitConflict,
	"INVARIANT_VIOLATION":    ErrCodeInvariantViolation,
	"INVALID_IMPORT_TYPE":    ErrCodeInvalidInput,
	"INVALID_CODE":           ErrCodeValidation,
	"INVALID_PART_TYPE":      ErrCodeValidation,
	"INVALID_BAND":           ErrCodeValidation,
	"INVALID_ASSIGNMENT_SET": ErrCodeValidation,
	"INVALID_ENTITLEMENT":    ErrCodeValidation,
	"INVALID_ACCOUNT":        ErrCodeValidation,
	"INVALID_STATUS":         ErrCodeValidation,
	"ACCOUNT_NOT_ACTIVE":     ErrCodeBusinessRule,
}

// NormalizeErrorCode converts a domain error code to its transport code.
// Unmapped domain codes fall back to the generic business rule code.
func NormalizeErrorCode(code string) string {
	if mapped, ok := legacyErrorCodeMapping[code]; ok {
		return mapped
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeBusinessRule
}
