package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// Import error codes
const (
	ErrCodeInvalidFile    = "ERR_IMPORT_INVALID_FILE"
	ErrCodeEmptyFile      = "ERR_IMPORT_EMPTY_FILE"
	ErrCodeEncoding       = "ERR_IMPORT_INVALID_ENCODING"
	ErrCodeMissingHeader  = "ERR_IMPORT_MISSING_HEADER"
	ErrCodeMissingColumns = "ERR_IMPORT_MISSING_COLUMNS"
	ErrCodeMalformedRow   = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeValidation     = "ERR_IMPORT_VALIDATION"
	ErrCodeRequiredField  = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidType    = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeInvalidEnum    = "ERR_IMPORT_INVALID_ENUM"
	ErrCodeNegativeValue  = "ERR_IMPORT_NEGATIVE_VALUE"
	ErrCodeUnknownKey     = "ERR_IMPORT_UNKNOWN_KEY"
)

// Structural upload errors. These abort batch creation before any row is
// staged; no ImportBatch row is ever written for them.
var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
	ErrMissingHeader   = errors.New("file is missing a header row")
	ErrNoDataRows      = errors.New("file contains no data rows")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
)

// MissingColumnsError reports required columns absent from the header
type MissingColumnsError struct {
	Columns []string
}

// Error implements the error interface
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// RowError represents one rule violation on one row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// NewRowErrorWithValue creates a new RowError carrying the offending value
func NewRowErrorWithValue(row int, column, code, message, value string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message, Value: value}
}

// ErrorCollection accumulates row errors for a batch with a hard cap
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection with a maximum retained-error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 1000
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddAll adds every error in the slice
func (ec *ErrorCollection) AddAll(errs []RowError) {
	for _, e := range errs {
		ec.Add(e)
	}
}

// Errors returns the retained errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the total number of errors including dropped ones
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if any error was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were dropped on the cap
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}
