package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/graphcalc/internal/prefs"
)

type lawCase struct {
	name string
	tree func(b *Builder) Expression
	want string
}

func runLaws(t *testing.T, rc ReductionContext, tests []lawCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder(t)
			e := build(t, b, tt.tree)
			assert.Equal(t, tt.want, reduceShallow(t, e, rc))
		})
	}
}

// TestAddition_ShallowReduce tests folding, flattening and infinities.
func TestAddition_ShallowReduce(t *testing.T) {
	runLaws(t, radians, []lawCase{
		{"rationals", func(b *Builder) Expression { return b.Add(b.Integer(1), b.Fraction(1, 2)) }, "3/2"},
		{"fold into first slot", func(b *Builder) Expression {
			return b.Add(b.Integer(1), b.Symbol("x"), b.Integer(2))
		}, "3+x"},
		{"drop zero", func(b *Builder) Expression { return b.Add(b.Symbol("x"), b.Integer(0)) }, "x"},
		{"cancel to zero", func(b *Builder) Expression {
			return b.Add(b.Integer(2), b.Symbol("x"), b.Integer(-2))
		}, "x"},
		{"flatten", func(b *Builder) Expression {
			return b.Add(b.Add(b.Symbol("x"), b.Symbol("y")), b.Symbol("z"))
		}, "x+y+z"},
		{"single rational kept", func(b *Builder) Expression { return b.Add(b.Integer(2), b.Symbol("x")) }, "2+x"},
		{"infinity absorbs", func(b *Builder) Expression { return b.Add(b.Infinity(false), b.Integer(5)) }, "inf"},
		{"opposite infinities", func(b *Builder) Expression {
			return b.Add(b.Infinity(false), b.Infinity(true))
		}, "undef"},
		{"infinity with symbol", func(b *Builder) Expression {
			return b.Add(b.Symbol("x"), b.Infinity(false))
		}, "x+inf"},
		{"undefined", func(b *Builder) Expression { return b.Add(b.Symbol("x"), b.Undefined()) }, "undef"},
	})
}

// TestSubtraction_ShallowReduce tests differences.
func TestSubtraction_ShallowReduce(t *testing.T) {
	runLaws(t, radians, []lawCase{
		{"rationals", func(b *Builder) Expression { return b.Subtract(b.Integer(5), b.Integer(7)) }, "-2"},
		{"equal operands", func(b *Builder) Expression { return b.Subtract(b.Symbol("x"), b.Symbol("x")) }, "0"},
		{"minus zero", func(b *Builder) Expression { return b.Subtract(b.Symbol("x"), b.Integer(0)) }, "x"},
		{"zero minus", func(b *Builder) Expression { return b.Subtract(b.Integer(0), b.Symbol("x")) }, "-x"},
		{"zero minus rational", func(b *Builder) Expression { return b.Subtract(b.Integer(0), b.Integer(4)) }, "-4"},
		{"infinities", func(b *Builder) Expression {
			return b.Subtract(b.Infinity(false), b.Infinity(false))
		}, "undef"},
		{"finite minus infinity", func(b *Builder) Expression {
			return b.Subtract(b.Integer(1), b.Infinity(false))
		}, "-inf"},
		{"symbolic", func(b *Builder) Expression { return b.Subtract(b.Symbol("x"), b.Symbol("y")) }, "x-y"},
	})
}

// TestMultiplication_ShallowReduce tests products.
func TestMultiplication_ShallowReduce(t *testing.T) {
	runLaws(t, radians, []lawCase{
		{"fold", func(b *Builder) Expression {
			return b.Multiply(b.Integer(2), b.Symbol("x"), b.Integer(3))
		}, "6*x"},
		{"drop one", func(b *Builder) Expression { return b.Multiply(b.Symbol("x"), b.Integer(1)) }, "x"},
		{"zero", func(b *Builder) Expression { return b.Multiply(b.Integer(0), b.Symbol("x")) }, "0"},
		{"zero times infinity", func(b *Builder) Expression {
			return b.Multiply(b.Integer(0), b.Infinity(false))
		}, "undef"},
		{"signed infinity", func(b *Builder) Expression {
			return b.Multiply(b.Integer(-2), b.Infinity(false))
		}, "-inf"},
		{"fractions", func(b *Builder) Expression {
			return b.Multiply(b.Fraction(2, 3), b.Fraction(3, 4))
		}, "1/2"},
		{"flatten", func(b *Builder) Expression {
			return b.Multiply(b.Symbol("x"), b.Multiply(b.Symbol("y"), b.Symbol("z")))
		}, "x*y*z"},
	})
}

// TestDivision_ShallowReduce tests quotients and division by zero.
func TestDivision_ShallowReduce(t *testing.T) {
	runLaws(t, radians, []lawCase{
		{"rationals", func(b *Builder) Expression { return b.Divide(b.Integer(6), b.Integer(4)) }, "3/2"},
		{"by one", func(b *Builder) Expression { return b.Divide(b.Symbol("x"), b.Integer(1)) }, "x"},
		{"by zero", func(b *Builder) Expression { return b.Divide(b.Integer(1), b.Integer(0)) }, "inf"},
		{"negative by zero", func(b *Builder) Expression { return b.Divide(b.Integer(-1), b.Integer(0)) }, "-inf"},
		{"zero by zero", func(b *Builder) Expression { return b.Divide(b.Integer(0), b.Integer(0)) }, "undef"},
		{"symbol by zero", func(b *Builder) Expression { return b.Divide(b.Symbol("x"), b.Integer(0)) }, "x/0"},
		{"by infinity", func(b *Builder) Expression { return b.Divide(b.Integer(3), b.Infinity(true)) }, "0"},
		{"infinity by negative", func(b *Builder) Expression {
			return b.Divide(b.Infinity(false), b.Integer(-2))
		}, "-inf"},
	})
}

// TestOpposite_ShallowReduce tests negation.
func TestOpposite_ShallowReduce(t *testing.T) {
	runLaws(t, radians, []lawCase{
		{"rational", func(b *Builder) Expression { return b.Opposite(b.Fraction(1, 2)) }, "-1/2"},
		{"infinity", func(b *Builder) Expression { return b.Opposite(b.Infinity(true)) }, "inf"},
		{"double", func(b *Builder) Expression { return b.Opposite(b.Opposite(b.Symbol("x"))) }, "x"},
		{"symbol", func(b *Builder) Expression { return b.Opposite(b.Symbol("x")) }, "-x"},
	})
}

// TestPower_ShallowReduce tests exact powers.
func TestPower_ShallowReduce(t *testing.T) {
	runLaws(t, radians, []lawCase{
		{"integer", func(b *Builder) Expression { return b.Power(b.Integer(2), b.Integer(10)) }, "1024"},
		{"negative exponent", func(b *Builder) Expression { return b.Power(b.Integer(2), b.Integer(-2)) }, "1/4"},
		{"zero to zero", func(b *Builder) Expression { return b.Power(b.Integer(0), b.Integer(0)) }, "undef"},
		{"zero to negative", func(b *Builder) Expression { return b.Power(b.Integer(0), b.Integer(-1)) }, "undef"},
		{"minus one odd", func(b *Builder) Expression { return b.Power(b.Integer(-1), b.Integer(1001)) }, "-1"},
		{"exponent one", func(b *Builder) Expression { return b.Power(b.Symbol("x"), b.Integer(1)) }, "x"},
		{"exponent zero", func(b *Builder) Expression { return b.Power(b.Symbol("x"), b.Integer(0)) }, "1"},
		{"fractional exponent", func(b *Builder) Expression {
			return b.Power(b.Integer(2), b.Fraction(1, 2))
		}, "2^(1/2)"},
		{"too large", func(b *Builder) Expression { return b.Power(b.Integer(2), b.Integer(2000)) }, "2^2000"},
		{"overflow", func(b *Builder) Expression { return b.Power(b.Integer(3), b.Integer(1000)) }, "3^1000"},
		{"infinity squared", func(b *Builder) Expression { return b.Power(b.Infinity(true), b.Integer(2)) }, "inf"},
	})
}

// TestFunctions_ShallowReduce tests abs, floor and ceil.
func TestFunctions_ShallowReduce(t *testing.T) {
	runLaws(t, radians, []lawCase{
		{"abs", func(b *Builder) Expression { return b.Abs(b.Fraction(-3, 2)) }, "3/2"},
		{"abs infinity", func(b *Builder) Expression { return b.Abs(b.Infinity(true)) }, "inf"},
		{"abs opposite", func(b *Builder) Expression { return b.Abs(b.Opposite(b.Symbol("x"))) }, "abs(x)"},
		{"abs abs", func(b *Builder) Expression { return b.Abs(b.Abs(b.Symbol("x"))) }, "abs(x)"},
		{"floor", func(b *Builder) Expression { return b.Floor(b.Fraction(-3, 2)) }, "-2"},
		{"ceil", func(b *Builder) Expression { return b.Ceiling(b.Fraction(-3, 2)) }, "-1"},
		{"floor of ceil", func(b *Builder) Expression { return b.Floor(b.Ceiling(b.Symbol("x"))) }, "ceil(x)"},
		{"floor infinity", func(b *Builder) Expression { return b.Floor(b.Infinity(false)) }, "inf"},
	})
}

// TestTrigonometry_ShallowReduce tests exact values at quarter turns.
func TestTrigonometry_ShallowReduce(t *testing.T) {
	degrees := ReductionContext{Context: EmptyContext{}, AngleUnit: prefs.Degree}
	gradians := ReductionContext{Context: EmptyContext{}, AngleUnit: prefs.Gradian}

	runLaws(t, degrees, []lawCase{
		{"sin 90", func(b *Builder) Expression { return b.Sine(b.Integer(90)) }, "1"},
		{"sin -90", func(b *Builder) Expression { return b.Sine(b.Integer(-90)) }, "-1"},
		{"cos 180", func(b *Builder) Expression { return b.Cosine(b.Integer(180)) }, "-1"},
		{"cos 450", func(b *Builder) Expression { return b.Cosine(b.Integer(450)) }, "0"},
		{"sin 30", func(b *Builder) Expression { return b.Sine(b.Integer(30)) }, "sin(30)"},
		{"sin infinity", func(b *Builder) Expression { return b.Sine(b.Infinity(false)) }, "undef"},
	})
	runLaws(t, gradians, []lawCase{
		{"sin 100", func(b *Builder) Expression { return b.Sine(b.Integer(100)) }, "1"},
	})
	runLaws(t, radians, []lawCase{
		{"cos 0", func(b *Builder) Expression { return b.Cosine(b.Integer(0)) }, "1"},
		{"sin 1", func(b *Builder) Expression { return b.Sine(b.Integer(1)) }, "sin(1)"},
	})
}

// TestDecimal_ShallowReduce tests exact conversion of decimal literals.
func TestDecimal_ShallowReduce(t *testing.T) {
	runLaws(t, radians, []lawCase{
		{"fraction", decimal("1.5"), "3/2"},
		{"exponent", decimal("1E3"), "1000"},
		{"negative", decimal("-0.25"), "-1/4"},
		{"huge", decimal("1E400"), "undef"},
	})
}

// TestShallowReduce_Idempotent tests that reducing a reduced node changes nothing.
func TestShallowReduce_Idempotent(t *testing.T) {
	trees := []func(b *Builder) Expression{
		func(b *Builder) Expression { return b.Add(b.Integer(1), b.Symbol("x"), b.Integer(2)) },
		func(b *Builder) Expression { return b.Multiply(b.Integer(2), b.Symbol("x"), b.Integer(3)) },
		func(b *Builder) Expression { return b.Remainder(b.Symbol("x"), b.Integer(3)) },
		func(b *Builder) Expression { return b.Power(b.Integer(2), b.Fraction(1, 2)) },
		func(b *Builder) Expression { return b.Add(b.Symbol("x"), b.Infinity(false)) },
	}
	for _, tree := range trees {
		b := newTestBuilder(t)
		once, err := ShallowReduce(build(t, b, tree), radians)
		if !assert.NoError(t, err) {
			continue
		}
		want, err := once.Clone()
		if !assert.NoError(t, err) {
			continue
		}
		twice, err := ShallowReduce(once, radians)
		assert.NoError(t, err)
		assert.True(t, twice.Equal(want), "%s reduced again to %s", want, twice)
	}
}
