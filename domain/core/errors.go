package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrValidationFailed = errors.New("table failed validation")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownColumn    = fmt.Errorf("%w: unknown column", ErrInvalidInput)

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// NewInsufficientDataError reports how many observations were available against the minimum.
func NewInsufficientDataError(have, need int) error {
	return fmt.Errorf("%w: have %d data points, need at least %d", ErrInsufficientData, have, need)
}

// NewUnknownColumnError names the column that could not be found.
func NewUnknownColumnError(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownColumn, name)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
