package parser

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/expr"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBuilder(t *testing.T) *expr.Builder {
	t.Helper()
	return expr.NewBuilder(pool.New(pool.DefaultCapacity, pool.WithLogger(discardLogger())))
}

func mustParse(t *testing.T, b *expr.Builder, input string) expr.Expression {
	t.Helper()
	e, err := Parse(b, input)
	require.NoError(t, err, "parse %q", input)
	return e
}

// TestParse_Structure tests that literals fold and operator runs share one node.
func TestParse_Structure(t *testing.T) {
	tests := []struct {
		input    string
		kind     expr.Kind
		children int
	}{
		{"-3", expr.KindRational, 0},
		{"3/4", expr.KindRational, 0},
		{"-3/4", expr.KindRational, 0},
		{"(3)/4", expr.KindDivision, 2},
		{"3/x", expr.KindDivision, 2},
		{"-2^2", expr.KindOpposite, 1},
		{"-(2)", expr.KindOpposite, 1},
		{"-inf", expr.KindInfinity, 0},
		{"1.5E3", expr.KindDecimal, 0},
		{"a+b+c", expr.KindAddition, 3},
		{"(a+b)+c", expr.KindAddition, 2},
		{"a*b*c*d", expr.KindMultiplication, 4},
		{"a-b-c", expr.KindSubtraction, 2},
		{"x^y^z", expr.KindPower, 2},
		{"rem(7,3)", expr.KindDivisionRemainder, 2},
		{"quo(7,3)", expr.KindDivisionQuotient, 2},
		{"[[1,2][3,4][5,6]]", expr.KindMatrix, 6},
		{"θ", expr.KindSymbol, 0},
		{"undef", expr.KindUndefined, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b := newTestBuilder(t)
			e := mustParse(t, b, tt.input)
			assert.Equal(t, tt.kind, e.Kind())
			assert.Equal(t, tt.children, e.NumberOfChildren())
		})
	}
}

// TestParse_Values tests literal payloads.
func TestParse_Values(t *testing.T) {
	b := newTestBuilder(t)

	r, ok := mustParse(t, b, "-6/4").Rational()
	require.True(t, ok)
	assert.Equal(t, "-3/2", r.String())

	assert.True(t, mustParse(t, b, "-inf").IsNegativeInfinity())

	d, ok := mustParse(t, b, "-2.50").Decimal()
	require.True(t, ok)
	assert.True(t, d.Negative)

	rows, cols := mustParse(t, b, "[[1,2,3][4,5,6]]").MatrixDimensions()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)

	assert.Equal(t, "x*y", mustParse(t, b, "x × y").String())
	assert.Equal(t, "x-1", mustParse(t, b, " x   - 1 ").String())
}

// TestParse_Precedence tests grouping against the printed form.
func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1+2*3", "1+2*3"},
		{"(1+2)*3", "(1+2)*3"},
		{"2*3^2", "2*3^2"},
		{"-x^2", "-x^2"},
		{"(-x)^2", "(-x)^2"},
		{"x/y/z", "x/y/z"},
		{"x/(y/z)", "x/(y/z)"},
		{"x-(y-z)", "x-(y-z)"},
		{"2^-1", "2^(-1)"},
		{"sin(x+1)*2", "sin(x+1)*2"},
		{"--x", "-(-x)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b := newTestBuilder(t)
			assert.Equal(t, tt.want, mustParse(t, b, tt.input).String())
		})
	}
}

// TestParse_Errors tests syntax error codes and positions.
func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		code  string
		pos   int
	}{
		{"1+", ErrUnexpectedEnd, 2},
		{"(1+2", ErrUnexpectedEnd, 4},
		{"1 2", ErrUnexpectedToken, 2},
		{"1 $ 2", ErrUnexpectedCharacter, 2},
		{"foo(1)", ErrUnknownFunction, 0},
		{"rem(1)", ErrArgumentCount, 0},
		{"abs(1,2)", ErrArgumentCount, 0},
		{"[[1,2][3]]", ErrRaggedMatrix, 0},
		{"1E", ErrInvalidNumber, 0},
		{"sin+1", ErrReservedName, 0},
		{"*2", ErrUnexpectedToken, 0},
		{"", ErrUnexpectedEnd, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b := newTestBuilder(t)
			_, err := Parse(b, tt.input)
			require.Error(t, err)

			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.code, perr.Code, perr.Message)
			assert.Equal(t, tt.pos, perr.Position)
			assert.Equal(t, 0, b.Arena().Used(), "a syntax error must not allocate")
		})
	}
}

// TestParse_OutOfCapacity tests that allocation failures surface.
func TestParse_OutOfCapacity(t *testing.T) {
	b := expr.NewBuilder(pool.New(64, pool.WithLogger(discardLogger())))
	_, err := Parse(b, "1+2+3+4+5+6+7+8")
	require.Error(t, err)
	assert.True(t, pool.IsCapacityError(err))
}

// TestParse_RoundTrip tests parse(serialize(t)) == t for built trees.
func TestParse_RoundTrip(t *testing.T) {
	x := func(b *expr.Builder) expr.Expression { return b.Symbol("x") }
	y := func(b *expr.Builder) expr.Expression { return b.Symbol("y") }

	trees := map[string]func(b *expr.Builder) expr.Expression{
		"negative term":   func(b *expr.Builder) expr.Expression { return b.Add(x(b), b.Opposite(y(b))) },
		"leading literal": func(b *expr.Builder) expr.Expression { return b.Add(b.Integer(-3), x(b)) },
		"nested sum":      func(b *expr.Builder) expr.Expression { return b.Add(b.Add(x(b), y(b)), b.Integer(1)) },
		"fraction factor": func(b *expr.Builder) expr.Expression { return b.Multiply(x(b), b.Fraction(1, 2)) },
		"leading fraction": func(b *expr.Builder) expr.Expression {
			return b.Multiply(b.Fraction(-1, 2), x(b))
		},
		"negative base": func(b *expr.Builder) expr.Expression { return b.Power(b.Integer(-2), x(b)) },
		"fraction base": func(b *expr.Builder) expr.Expression { return b.Power(b.Fraction(1, 3), x(b)) },
		"opposite power": func(b *expr.Builder) expr.Expression {
			return b.Opposite(b.Power(x(b), b.Integer(2)))
		},
		"negative exponent": func(b *expr.Builder) expr.Expression { return b.Power(x(b), b.Integer(-1)) },
		"infinity factor": func(b *expr.Builder) expr.Expression {
			return b.Multiply(x(b), b.Infinity(true))
		},
		"division chain": func(b *expr.Builder) expr.Expression {
			return b.Divide(b.Divide(x(b), y(b)), b.Integer(2))
		},
		"functions": func(b *expr.Builder) expr.Expression {
			return b.Add(b.Sine(x(b)), b.Remainder(y(b), b.Integer(-3)), b.Ceiling(b.Fraction(7, 2)))
		},
		"matrix": func(b *expr.Builder) expr.Expression {
			return b.Matrix(2, 2, b.Integer(1), b.Fraction(-1, 2), x(b), b.Opposite(y(b)))
		},
	}

	for name, fn := range trees {
		t.Run(name, func(t *testing.T) {
			b := newTestBuilder(t)
			want := fn(b)
			require.NoError(t, b.Err())

			text := want.String()
			got := mustParse(t, b, text)
			assert.True(t, want.Equal(got), "%q parsed back as %q", text, got.String())
		})
	}
}

// TestParse_ReducedRoundTrip tests the round trip through the reducer.
func TestParse_ReducedRoundTrip(t *testing.T) {
	inputs := []string{
		"a+(b-b)",
		"2*x+3*x",
		"x^2/4",
		"rem(-7,3)+y",
		"(1/2)^x",
		"-(x*y)+inf",
		"3-x*0",
		"-x/2",
		"1/(x-1)",
		"abs(-x)*floor(7/2)",
		"quo(n,4)-(-1/3)",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			b := newTestBuilder(t)
			r := engine.New(b.Arena(), engine.WithLogger(discardLogger()))

			reduced, err := r.Reduce(mustParse(t, b, input), nil, prefs.Default())
			require.NoError(t, err)

			text := reduced.String()
			again := mustParse(t, b, text)
			assert.True(t, reduced.Equal(again), "%q → %q parsed back as %q", input, text, again.String())
		})
	}
}
