package calculation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/expr"
	"github.com/roach88/graphcalc/internal/ir"
	"github.com/roach88/graphcalc/internal/parser"
	"github.com/roach88/graphcalc/internal/prefs"
	"github.com/roach88/graphcalc/internal/store"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input       string
		exact       string
		approximate string
		undefined   bool
	}{
		{"rem(10,3)", "1", "1", false},
		{"rem(-7,3)", "2", "2", false},
		{"rem(3/2,2)", "undef", "undef", true},
		{"1/3", "1/3", "0.3333333", false},
		{"a+(b-b)", "a", "undef", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := newTestCalculator(t)
			res, err := c.Evaluate(context.Background(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.exact, res.Exact)
			assert.Equal(t, tt.approximate, res.Approximate)
			assert.Equal(t, tt.undefined, res.Undefined)
			assert.Equal(t, tt.input, res.Input)
			assert.Equal(t, 0, c.Arena().Used(), "trees are released after evaluation")
		})
	}
}

func TestEvaluate_Identity(t *testing.T) {
	c := newTestCalculator(t)
	ctx := context.Background()

	first, err := c.Evaluate(ctx, "2+3")
	require.NoError(t, err)
	second, err := c.Evaluate(ctx, "2+3")
	require.NoError(t, err)

	assert.Equal(t, "session-1", first.SessionID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, ir.MustCalculationID("session-1", "2+3", 1), first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.TraceHash, second.TraceHash, "same input, same rewrites")
	assert.Equal(t, ir.EngineVersion, first.EngineVersion)
	assert.Equal(t, ir.IRVersion, first.IRVersion)
}

func TestEvaluate_Trace(t *testing.T) {
	c := newTestCalculator(t)
	res, err := c.Evaluate(context.Background(), "a+(b-b)")
	require.NoError(t, err)

	require.Len(t, res.Steps, 2)
	assert.Equal(t, engine.Step{Seq: 1, Kind: expr.KindSubtraction, Before: "b-b", After: "0"}, res.Steps[0])
	assert.Equal(t, engine.Step{Seq: 2, Kind: expr.KindAddition, Before: "a+0", After: "a"}, res.Steps[1])

	hash, err := ir.TraceHash(TraceRecords(res.Steps))
	require.NoError(t, err)
	assert.Equal(t, hash, res.TraceHash)
	assert.Equal(t, "Symbol", res.Tree.String("kind"))
}

func TestEvaluate_Deterministic(t *testing.T) {
	inputs := []string{"rem(10,3)", "abs(-3/4)+floor(5/2)", "[[1,2][3,4]]", "cos(0)*x"}

	run := func() []Result {
		c := newTestCalculator(t)
		var out []Result
		for _, in := range inputs {
			res, err := c.Evaluate(context.Background(), in)
			require.NoError(t, err)
			out = append(out, res)
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestEvaluate_Bindings(t *testing.T) {
	c := newTestCalculator(t)
	require.NoError(t, c.Bind("x", "2+3"))
	assert.Equal(t, []string{"x"}, c.Bindings())

	res, err := c.Evaluate(context.Background(), "x*4")
	require.NoError(t, err)
	assert.Equal(t, "20", res.Exact)
	assert.Equal(t, "20", res.Approximate)

	c.Unbind("x")
	res, err = c.Evaluate(context.Background(), "x*4")
	require.NoError(t, err)
	assert.True(t, res.Undefined)
	assert.Equal(t, 0, c.Arena().Used())
}

func TestEvaluate_Preferences(t *testing.T) {
	c := newTestCalculator(t, WithPreferences(prefs.Default().WithFloatMode(prefs.Scientific)))
	res, err := c.Evaluate(context.Background(), "1500")
	require.NoError(t, err)
	assert.Equal(t, "1.5E3", res.Approximate)
}

func TestEvaluate_ParseError(t *testing.T) {
	c := newTestCalculator(t)
	_, err := c.Evaluate(context.Background(), "1+")
	require.Error(t, err)

	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.ErrUnexpectedEnd, perr.Code)
	assert.Equal(t, 0, c.Arena().Used())

	res, err := c.Evaluate(context.Background(), "1+1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Seq, "a failed line takes no position")
}

func TestEvaluate_QuotaExceeded(t *testing.T) {
	c := newTestCalculator(t, WithMaxSteps(1))
	_, err := c.Evaluate(context.Background(), "1+2+3")
	require.Error(t, err)
	assert.True(t, engine.IsQuotaError(err))
	assert.Equal(t, 0, c.Arena().Used())
}

func TestEvaluate_Store(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	c := newTestCalculator(t, WithStore(s), WithSessionLabel("homework"))
	for _, in := range []string{"rem(10,3)", "1/3"} {
		_, err := c.Evaluate(ctx, in)
		require.NoError(t, err)
	}

	sess, err := s.ReadSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "homework", sess.Label)
	assert.Equal(t, PreferencesRecord(prefs.Default()), sess.Preferences)

	calcs, err := s.ListCalculations(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, calcs, 2)
	assert.Equal(t, "rem(10,3)", calcs[0].Input)
	assert.Equal(t, "1/3", calcs[1].Exact)
	assert.Equal(t, int64(2), calcs[1].Seq)

	// A second calculator on the same session continues numbering.
	next := newTestCalculator(t, WithStore(s), WithSession("session-1"))
	res, err := next.Evaluate(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Seq)
}
