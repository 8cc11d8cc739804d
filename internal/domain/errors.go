package domain

import (
	"errors"
	"fmt"
)

// Common domain errors surfaced by suite validation and the runner.
var (
	// ErrEmptySuiteName indicates a suite was constructed without a name.
	ErrEmptySuiteName = errors.New("suite name cannot be empty")

	// ErrNilCase indicates a suite contains a case with an empty input.
	ErrNilCase = errors.New("case input cannot be empty")

	// ErrDuplicateCaseID indicates two cases in one suite share an ID.
	ErrDuplicateCaseID = errors.New("duplicate case ID in suite")

	// ErrNilMetric indicates a nil metric was added to a suite.
	ErrNilMetric = errors.New("metric cannot be nil")

	// ErrInvalidConcurrency indicates a concurrency limit below one.
	ErrInvalidConcurrency = errors.New("concurrency limit must be at least 1")
)

// ConfigurationError reports an invalid suite or runner configuration.
// It is the only error class allowed to escape the runner's public API:
// per-case and per-metric failures are captured in result structures
// instead. Configuration errors surface before any execution starts.
type ConfigurationError struct {
	// Entity names what failed validation (suite name, parameter name).
	Entity string

	// Err is the underlying validation failure.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError creates a ConfigurationError for the given entity.
func NewConfigurationError(entity string, err error) *ConfigurationError {
	return &ConfigurationError{Entity: entity, Err: err}
}
