package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeIngest ErrorType = "INGEST"
	ErrTypeSchema ErrorType = "SCHEMA"
	ErrTypeConfig ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewIngestError reports a source that cannot be opened, decoded or parsed as a table.
func NewIngestError(source, message string, cause error) *AppError {
	return NewAppError(ErrTypeIngest, message, cause).WithContext("source", source)
}

// NewSchemaError reports the expected columns absent from a loaded table.
// The names are sorted so the diagnostic is stable.
func NewSchemaError(missing []string) *AppError {
	cols := append([]string(nil), missing...)
	sort.Strings(cols)
	return NewAppError(ErrTypeSchema,
		fmt.Sprintf("missing required columns: %s", strings.Join(cols, ", ")), nil).
		WithContext("missing_columns", cols)
}

// NewConfigError reports a configuration value that cannot be used.
func NewConfigError(key, message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause).WithContext("key", key)
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsIngestError reports whether err is an ingest failure.
func IsIngestError(err error) bool {
	return IsType(err, ErrTypeIngest)
}

// IsSchemaError reports whether err is a schema failure.
func IsSchemaError(err error) bool {
	return IsType(err, ErrTypeSchema)
}

// IsConfigError reports whether err is a configuration failure.
func IsConfigError(err error) bool {
	return IsType(err, ErrTypeConfig)
}
