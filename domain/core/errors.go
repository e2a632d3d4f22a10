package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors: bad options or malformed inputs, detected
	// before any matrix computation starts
	ErrConfiguration = errors.New("invalid configuration")

	// Feature errors
	ErrUnsupportedFeature = errors.New("unsupported feature")
	ErrPermutationTest    = fmt.Errorf("%w: permutation testing is disabled in this version", ErrUnsupportedFeature)

	// Degeneracy errors: inputs that make a statistic undefined
	ErrDegenerateGroup = errors.New("degenerate gene set")
	ErrDegenerateInput = errors.New("degenerate input")

	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)
)

// Error constructors with context
func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

func NewDegenerateGroupError(group string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrDegenerateGroup, group, reason)
}

func NewDegenerateInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, reason)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsUnsupportedFeatureError(err error) bool {
	return errors.Is(err, ErrUnsupportedFeature)
}

func IsDegeneracyError(err error) bool {
	return errors.Is(err, ErrDegenerateGroup) || errors.Is(err, ErrDegenerateInput)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
