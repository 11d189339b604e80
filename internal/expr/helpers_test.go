package expr

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/graphcalc/internal/numfmt"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	a := pool.New(pool.DefaultCapacity, pool.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return NewBuilder(a)
}

// build constructs a tree and fails the test on allocation errors.
func build(t *testing.T, b *Builder, fn func(b *Builder) Expression) Expression {
	t.Helper()
	e := fn(b)
	require.NoError(t, b.Err())
	return e
}

var radians = ReductionContext{Context: EmptyContext{}, AngleUnit: prefs.Radian}

// reduceShallow runs the node's own law and returns its text.
func reduceShallow(t *testing.T, e Expression, rc ReductionContext) string {
	t.Helper()
	got, err := ShallowReduce(e, rc)
	require.NoError(t, err)
	return got.String()
}

func decimal(s string) func(b *Builder) Expression {
	return func(b *Builder) Expression {
		d, err := numfmt.ParseDecimal(s)
		if err != nil {
			panic(err)
		}
		return b.Decimal(d)
	}
}
