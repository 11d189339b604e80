package exact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRational_SignLivesInNumerator tests denominator positivity.
func TestRational_SignLivesInNumerator(t *testing.T) {
	r := Frac(3, -4)
	assert.True(t, r.IsNegative())
	assert.False(t, r.IntegerDenominator().IsNegative())
	assert.Equal(t, "-3/4", r.String())
}

// TestRational_ZeroDenominatorPanics tests the constructor precondition.
func TestRational_ZeroDenominatorPanics(t *testing.T) {
	assert.Panics(t, func() { Frac(1, 0) })
	assert.Panics(t, func() { Frac(1, 2).Div(Frac(0, 3)) })
}

// TestRational_Arithmetic tests exact results across the four operations.
func TestRational_Arithmetic(t *testing.T) {
	a := Frac(1, 6)
	b := Frac(1, 3)

	assert.Equal(t, "1/2", a.Add(b).String())
	assert.Equal(t, "-1/6", a.Sub(b).String())
	assert.Equal(t, "1/18", a.Mul(b).String())
	assert.Equal(t, "1/2", a.Div(b).String())
	assert.True(t, a.Add(a).Equal(b))
}

// TestRational_NormalizeDeferred tests that arithmetic defers normalization.
func TestRational_NormalizeDeferred(t *testing.T) {
	r := Frac(1, 6).Add(Frac(1, 3))
	assert.Equal(t, "18", r.IntegerDenominator().String(), "sum keeps the product denominator")

	n := r.Normalize()
	assert.Equal(t, "1", n.SignedIntegerNumerator().String())
	assert.Equal(t, "2", n.IntegerDenominator().String())

	// Equal denominators are added directly and still not reduced.
	q := Frac(1, 4).Add(Frac(1, 4))
	assert.Equal(t, "4", q.IntegerDenominator().String())
	assert.Equal(t, "1/2", q.String())
}

// TestRational_IsInteger tests integer detection after normalization.
func TestRational_IsInteger(t *testing.T) {
	assert.True(t, Frac(6, 3).IsInteger())
	assert.False(t, Frac(3, 2).IsInteger())
	assert.True(t, Rational{}.IsInteger())
}

// TestRational_FloorCeil tests rounding toward the infinities.
func TestRational_FloorCeil(t *testing.T) {
	assert.Equal(t, "1", Frac(3, 2).Floor().String())
	assert.Equal(t, "2", Frac(3, 2).Ceil().String())
	assert.Equal(t, "-2", Frac(-3, 2).Floor().String())
	assert.Equal(t, "-1", Frac(-3, 2).Ceil().String())
	assert.Equal(t, "4", Frac(8, 2).Ceil().String())
}

// TestRational_Pow tests integer exponents, including negative ones.
func TestRational_Pow(t *testing.T) {
	assert.Equal(t, "8/27", Frac(2, 3).Pow(3).String())
	assert.Equal(t, "9/4", Frac(2, 3).Pow(-2).String())
	assert.Equal(t, "1", Frac(5, 7).Pow(0).String())
}

// TestParseRational tests text parsing.
func TestParseRational(t *testing.T) {
	r, err := ParseRational("-6/4")
	require.NoError(t, err)
	assert.Equal(t, "-3/2", r.String())

	_, err = ParseRational("1/0")
	assert.Error(t, err)
}

// TestRational_Float64 tests conversion to floating point.
func TestRational_Float64(t *testing.T) {
	assert.InDelta(t, 0.3333333333, Frac(1, 3).Float64(), 1e-9)
	assert.Equal(t, -2.5, Frac(-5, 2).Float64())
}

// TestRational_Float64_OverflowSign tests that an overflowed numerator keeps its sign.
func TestRational_Float64_OverflowSign(t *testing.T) {
	assert.True(t, math.IsInf(IntegerRational(Overflow()).Float64(), 1))
	assert.True(t, math.IsInf(IntegerRational(NegativeOverflow()).Float64(), -1))
	assert.True(t, math.IsInf(IntegerRational(Overflow()).Neg().Float64(), -1))
	assert.True(t, IntegerRational(NegativeOverflow()).IsNegative())
}
