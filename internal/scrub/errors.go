package scrub

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/salescrub/internal/table"
)

var (
	// ErrInvalidInput matches any *InvalidInputError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNonNumericColumn matches any *NonNumericColumnError via errors.Is.
	ErrNonNumericColumn = errors.New("non-numeric column")
)

// InvalidInputError indicates a dataset or column reference that cannot be used.
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InvalidInputError) Unwrap() error { return e.Err }

// NonNumericColumnError is returned when fences are requested for a column
// whose values cannot all be read as numbers.
type NonNumericColumnError struct {
	Column string
	Kind   table.Kind
}

func (e *NonNumericColumnError) Error() string {
	return fmt.Sprintf("column %q is not numeric (inferred %s)", e.Column, e.Kind)
}

func (e *NonNumericColumnError) Is(target error) bool { return target == ErrNonNumericColumn }
