package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrParameterUnset indicates a required physical parameter was never set.
	ErrParameterUnset = errors.New("dynamo: required parameter not set")

	// ErrInvalidArgument indicates a parameter value of an unsupported type or unit.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrInvalidState indicates a configuration containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates arrays whose shapes do not agree.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// ConfigurationError reports a required parameter that was read before being set.
type ConfigurationError struct {
	Parameter string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ConfigurationError: %s not set", e.Parameter)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrParameterUnset
}

// SimulationError wraps an error with the step it happened on.
// Step is -1 for errors raised before the first step.
type SimulationError struct {
	Step    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Step < 0 {
		return e.Wrapped.Error()
	}
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
