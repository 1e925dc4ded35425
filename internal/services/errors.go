package services

import (
	"errors"
	"fmt"

	"ytstats/internal/dataprocessing"
)

// Query service errors
var (
	// ErrInvalidQuery wraps every caller error: unknown or non-numeric
	// fields, negative or oversized limits, unknown reducers
	ErrInvalidQuery = errors.New("invalid query")

	// ErrDatasetUnavailable is returned when no dataset has been loaded
	ErrDatasetUnavailable = errors.New("dataset not loaded")
)

// invalidQuery marks err as a caller error while keeping the original
// sentinel reachable through errors.Is
func invalidQuery(err error) error {
	if err == nil || errors.Is(err, ErrInvalidQuery) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
}

// isContractViolation reports whether err is one of the query contract
// errors raised by dataprocessing
func isContractViolation(err error) bool {
	return errors.Is(err, dataprocessing.ErrUnknownField) ||
		errors.Is(err, dataprocessing.ErrNonNumericField) ||
		errors.Is(err, dataprocessing.ErrNegativeLimit) ||
		errors.Is(err, dataprocessing.ErrUnknownReducer)
}

// classify wraps contract violations as ErrInvalidQuery and passes anything
// else through
func classify(err error) error {
	if isContractViolation(err) {
		return invalidQuery(err)
	}
	return err
}
