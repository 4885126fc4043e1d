package event

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("event: validation failed")
	// ErrUnsupported matches every *UnsupportedOperationError via errors.Is.
	ErrUnsupported = errors.New("event: unsupported operation")
)

// ValidationError is returned when a construction or mutation would break
// one of the event invariants. Nothing is modified when it is returned.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("event: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("event: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UnsupportedOperationError is returned when an event is ordered against a
// value that is not an event.
type UnsupportedOperationError struct {
	Op      string
	Operand any
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("event: %s not supported between *event.Event and %T", e.Op, e.Operand)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}
