package lensz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Query errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPredicatePanic  = errors.New("predicate panicked")
)

// Error provides rich context about a connector failure.
// It wraps the underlying error with the path of connectors that were
// running, the item being evaluated, and whether the failure was caused
// by context cancellation.
type Error[T any] struct {
	Timestamp time.Time
	InputData T
	Err       error
	Path      []Name
	Index     int
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed error message.
func (e *Error[T]) Error() string {
	location := fmt.Sprintf("%s (item %d)", strings.Join(e.Path, " -> "), e.Index)

	if e.Timeout {
		return fmt.Sprintf("%s timed out: %v", location, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled: %v", location, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", location, e.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (e *Error[T]) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error[T]) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error[T]) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

func contextError[T any](err error, name Name, index int, item T, at time.Time) *Error[T] {
	return &Error[T]{
		Timestamp: at,
		InputData: item,
		Err:       err,
		Path:      []Name{name},
		Index:     index,
		Timeout:   errors.Is(err, context.DeadlineExceeded),
		Canceled:  errors.Is(err, context.Canceled),
	}
}

// safeTest evaluates pred, converting a panic into ErrPredicatePanic.
func safeTest[T any](pred Predicate[T], v T) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("%w: %v", ErrPredicatePanic, r)
		}
	}()
	return pred(v), nil
}
