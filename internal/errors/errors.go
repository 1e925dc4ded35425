package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error the transport layer knows how to answer. Each error
// code maps to one problem type.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// WithDetails returns a copy of e carrying details
func (e *APIError) WithDetails(details interface{}) *APIError {
	out := *e
	out.Details = details
	return &out
}

// problemTypes maps error codes to RFC 7807 problem types
var problemTypes = map[string]string{
	"VALIDATION_FAILED":   TypeValidation,
	"INVALID_REQUEST":     TypeValidation,
	"INVALID_QUERY":       TypeInvalidQuery,
	"NOT_FOUND":           TypeNotFound,
	"RATE_LIMIT_EXCEEDED": TypeRateLimit,
	"DATASET_UNAVAILABLE": TypeDatasetUnavailable,
	"EXPORT_FAILED":       TypeExportFailed,
}

// Problem converts e to Problem Details for the given request path. The error
// code and any details become extensions.
func (e *APIError) Problem(instance string) *ProblemDetails {
	problemType, ok := problemTypes[e.ErrorCode]
	if !ok {
		problemType = TypeInternal
	}

	problem := NewProblemDetails(
		e.StatusCode,
		problemType,
		http.StatusText(e.StatusCode),
		e.Message,
		instance,
	).WithExtension("error_code", e.ErrorCode)

	if e.Details != nil {
		problem.WithExtension("details", e.Details)
	}
	return problem
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed")
	ErrInvalidQuery     = New(http.StatusBadRequest, "INVALID_QUERY", "Query arguments are invalid")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, "NOT_FOUND", "The requested resource was not found")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred while processing your request")
	ErrExportFailed   = New(http.StatusInternalServerError, "EXPORT_FAILED", "Dataset export failed")

	// 503 Service Unavailable
	ErrDatasetUnavailable = New(http.StatusServiceUnavailable, "DATASET_UNAVAILABLE", "Dataset is not loaded")
)

// InvalidRequestWithError reports a request the validator could not process
func InvalidRequestWithError(err error) *APIError {
	return ErrInvalidRequest.WithDetails(err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return ErrValidationFailed.WithDetails(ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return ErrValidationFailed.WithDetails(ValidationErrors{Errors: errors})
}

// InvalidQueryWithError wraps a query contract violation (unknown field, negative limit...)
func InvalidQueryWithError(err error) *APIError {
	return ErrInvalidQuery.WithDetails(err.Error())
}

// NotFoundError names the missing resource
func NotFoundError(resource string) *APIError {
	out := ErrNotFound.WithDetails(resource)
	out.Message = fmt.Sprintf("%s not found", resource)
	return out
}
