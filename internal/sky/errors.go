package sky

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCalculation is matched by every CalculationError.
	ErrCalculation = errors.New("calculation failed")
)

// InvalidInputError rejects a malformed query. It is the only error the
// query API returns to callers.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// CalculationError reports a failed transform or magnitude computation for
// one body. The body is skipped.
type CalculationError struct {
	Body  string
	Stage string // position, horizontal, equatorial, magnitude
	Err   error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Body, e.Stage, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCalculation) true.
func (e *CalculationError) Is(target error) bool {
	return target == ErrCalculation
}
