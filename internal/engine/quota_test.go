package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQuotaEnforcer_WithinLimit tests normal operation within quota.
func TestQuotaEnforcer_WithinLimit(t *testing.T) {
	q := NewQuotaEnforcer(10)

	for i := 0; i < 10; i++ {
		err := q.Check("Addition")
		assert.NoError(t, err, "step %d should be allowed", i+1)
	}

	assert.Equal(t, 10, q.Current())
	assert.Equal(t, 10, q.MaxSteps())
}

// TestQuotaEnforcer_ExceedsLimit tests quota exceeded error.
func TestQuotaEnforcer_ExceedsLimit(t *testing.T) {
	q := NewQuotaEnforcer(5)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Check("Rational"))
	}

	err := q.Check("Power")
	require.Error(t, err)

	var stepsErr *StepsExceededError
	require.ErrorAs(t, err, &stepsErr)
	assert.Equal(t, "Power", stepsErr.Node)
	assert.Equal(t, 6, stepsErr.Steps)
	assert.Equal(t, 5, stepsErr.Limit)
	assert.True(t, IsStepsExceededError(err))
	assert.True(t, IsQuotaError(err))
}

// TestQuotaEnforcer_Reset tests resetting the counter.
func TestQuotaEnforcer_Reset(t *testing.T) {
	q := NewQuotaEnforcer(5)
	for i := 0; i < 5; i++ {
		_ = q.Check("Symbol")
	}
	assert.Equal(t, 5, q.Current())

	q.Reset()
	assert.Equal(t, 0, q.Current())
	assert.NoError(t, q.Check("Symbol"))
}

// TestStepsExceededError_Error tests error message formatting.
func TestStepsExceededError_Error(t *testing.T) {
	err := &StepsExceededError{Node: "Multiplication", Steps: 10001, Limit: 10000}

	msg := err.Error()
	assert.Contains(t, msg, "Multiplication")
	assert.Contains(t, msg, "10001")
	assert.Contains(t, msg, "10000")
}

// TestIsStepsExceededError_Wrapped tests detection through wrapping.
func TestIsStepsExceededError_Wrapped(t *testing.T) {
	inner := &StepsExceededError{Node: "Addition", Steps: 3, Limit: 2}
	wrapped := fmt.Errorf("reduce: %w", NewQuotaError(inner))

	assert.True(t, IsStepsExceededError(wrapped))
	assert.True(t, IsQuotaError(wrapped))
	assert.False(t, IsCapacityError(wrapped))
	assert.False(t, IsStepsExceededError(fmt.Errorf("other")))
}
