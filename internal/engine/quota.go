package engine

import (
	"errors"
	"fmt"
)

// QuotaEnforcer counts law applications during one reduction and enforces a
// maximum.
//
// Cycle detection catches circular symbol definitions (x → y → x). The quota
// catches everything else that would run away, such as a chain of thousands
// of distinct definitions. Together they guarantee that Reduce returns.
type QuotaEnforcer struct {
	maxSteps int
	current  int
}

// NewQuotaEnforcer creates a new quota enforcer with the given limit.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check increments the step counter and validates against the limit.
// node names the variant about to be reduced, for the error message.
func (q *QuotaEnforcer) Check(node string) error {
	q.current++
	if q.current > q.maxSteps {
		return &StepsExceededError{
			Node:  node,
			Steps: q.current,
			Limit: q.maxSteps,
		}
	}
	return nil
}

// Reset resets the step counter to 0.
func (q *QuotaEnforcer) Reset() {
	q.current = 0
}

// Current returns the current step count.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the maximum steps limit.
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}

// StepsExceededError is returned when a reduction exceeds the step quota.
type StepsExceededError struct {
	Node  string // Variant being reduced when the quota ran out
	Steps int    // Number of steps taken
	Limit int    // Maximum allowed steps
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("reduction exceeded max steps quota at %s: %d steps > %d limit",
		e.Node, e.Steps, e.Limit)
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
