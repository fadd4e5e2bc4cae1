package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrPrecondition marks malformed statistics or parameters
	ErrPrecondition = errors.New("precondition violated")

	// ErrShapeMismatch marks vectors or stage lists of the wrong length
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrConfiguration marks an experiment that was assembled incorrectly
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNonConvergence marks a numerical routine that missed its tolerance
	ErrNonConvergence = errors.New("numerical routine did not converge")

	// ErrNotFound is returned by repositories
	ErrNotFound           = errors.New("resource not found")
	ErrExperimentNotFound = fmt.Errorf("%w: experiment", ErrNotFound)
)

// Error constructors with context
func NewPreconditionError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrPrecondition, field, reason)
}

func NewShapeMismatchError(what string, want, got int) error {
	return fmt.Errorf("%w: %s: expected %d, got %d", ErrShapeMismatch, what, want, got)
}

func NewConfigurationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, reason)
}

func NewNonConvergenceError(routine string, estimate, errEstimate float64) error {
	return fmt.Errorf("%w: %s stopped at %g (error estimate %g)", ErrNonConvergence, routine, estimate, errEstimate)
}

func NewExperimentNotFoundError(id string) error {
	return fmt.Errorf("%w with id %s", ErrExperimentNotFound, id)
}

// Error checking helpers
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

func IsShapeMismatchError(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsNonConvergenceError(err error) bool {
	return errors.Is(err, ErrNonConvergence)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
