package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrValidation       = errors.New("validation failed")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Numerical errors
	ErrComputation = errors.New("computation failed")

	// Lookup errors
	ErrNotFound       = errors.New("resource not found")
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, reason)
}

func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

func NewComputationError(operation string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrComputation, operation, reason)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrComputation)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
