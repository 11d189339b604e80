package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/graphcalc/internal/pool"
)

// RuntimeError represents an error detected while reducing a tree.
//
// Mathematically invalid input never produces a RuntimeError; the laws turn
// it into the Undefined or Infinity terminals. Runtime errors cover the
// resource limits:
//   - Quota exceeded: the reduction took more than the max steps
//   - Out of capacity: the arena could not hold an intermediate tree
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Node names the variant being reduced when the error happened.
	Node string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeQuotaExceeded indicates the reduction exceeded max steps.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeOutOfCapacity indicates the arena is full.
	ErrCodeOutOfCapacity RuntimeErrorCode = "OUT_OF_CAPACITY"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error { return e.Err }

// IsQuotaError returns true if the error is a quota exceeded error.
// Matches both RuntimeError with ErrCodeQuotaExceeded and StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) && re.Code == ErrCodeQuotaExceeded {
		return true
	}
	var se *StepsExceededError
	return errors.As(err, &se)
}

// IsCapacityError returns true if the reduction ran out of arena capacity.
func IsCapacityError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) && re.Code == ErrCodeOutOfCapacity {
		return true
	}
	return pool.IsCapacityError(err)
}

// NewQuotaError creates a RuntimeError for quota exceeded.
func NewQuotaError(cause *StepsExceededError) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("reduction exceeded max steps (%d > %d)", cause.Steps, cause.Limit),
		Node:    cause.Node,
		Details: map[string]string{
			"steps":     fmt.Sprintf("%d", cause.Steps),
			"max_steps": fmt.Sprintf("%d", cause.Limit),
		},
		Err: cause,
	}
}

// NewCapacityError creates a RuntimeError for arena exhaustion.
func NewCapacityError(node string, cause error) *RuntimeError {
	re := &RuntimeError{
		Code:    ErrCodeOutOfCapacity,
		Message: "arena capacity exhausted",
		Node:    node,
		Err:     cause,
	}
	var ce *pool.CapacityError
	if errors.As(cause, &ce) {
		re.Details = map[string]string{
			"requested": fmt.Sprintf("%d", ce.Requested),
			"available": fmt.Sprintf("%d", ce.Available),
		}
	}
	return re
}
