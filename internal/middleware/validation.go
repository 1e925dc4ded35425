package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ytstats/internal/dataprocessing"
	apierrors "ytstats/internal/errors"
	"ytstats/internal/infrastructure"
)

// Validator checks decoded query requests against their struct tags
type Validator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewValidator creates a validator with the dataset specific tags registered
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())

	// "field" accepts any column name spelling dataprocessing.LookupField knows
	if err := v.RegisterValidation("field", isKnownField); err != nil {
		panic(fmt.Sprintf("register field validator: %v", err))
	}

	// Use query tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{
		validator: v,
		logger:    infrastructure.WithComponent(logger, "validation"),
	}
}

// ValidateStruct validates v and returns a 400 APIError listing every
// offending parameter
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}

	m.logger.Debug("request validation failed", slog.Int("errors", len(validationErrors)))
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s value(s)", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "numeric":
		return fmt.Sprintf("%s must be a number, got %q", field, err.Value())
	case "field":
		return fmt.Sprintf("%s: unknown column %q", field, err.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isKnownField(fl validator.FieldLevel) bool {
	_, ok := dataprocessing.LookupField(fl.Field().String())
	return ok
}
