package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors: reported to the caller at fit/query time,
	// never silently clamped.
	ErrInvalidThreshold  = errors.New("threshold out of range (0, 1]")
	ErrInvalidSupport    = fmt.Errorf("%w: min support", ErrInvalidThreshold)
	ErrInvalidConfidence = fmt.Errorf("%w: min confidence", ErrInvalidThreshold)
	ErrInvalidCount      = errors.New("count must be positive")
	ErrInvalidWeight     = errors.New("weight must be non-negative")

	// Lifecycle errors
	ErrNotFitted   = errors.New("engine not fitted")
	ErrModelAbsent = errors.New("factor model absent")

	// Data errors (adapter boundary only - queries on fitted engines
	// resolve unknown ids to empty results instead)
	ErrNoTransactions  = errors.New("no transactions available")
	ErrColumnMismatch  = errors.New("vector length does not match product domain")
	ErrSourceExhausted = errors.New("transaction source exhausted")
)

// Error constructors with context
func NewConfigError(option string, err error) error {
	return fmt.Errorf("%w (option %s)", err, option)
}

func NewExportError(path string, err error) error {
	return fmt.Errorf("export to %s failed: %w", path, err)
}

// Error checking helpers
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidThreshold) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrInvalidWeight)
}

func IsLifecycleError(err error) bool {
	return errors.Is(err, ErrNotFitted) ||
		errors.Is(err, ErrModelAbsent)
}
