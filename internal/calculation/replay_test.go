package calculation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphcalc/internal/ir"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
	"github.com/roach88/graphcalc/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReplay_Reproduces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := prefs.Default().WithAngleUnit(prefs.Degree)
	c := newTestCalculator(t, WithStore(s), WithPreferences(p))
	for _, in := range []string{"cos(180)", "rem(-7,3)", "sin(30)*2", "[[1,2]]"} {
		_, err := c.Evaluate(ctx, in)
		require.NoError(t, err)
	}

	report, err := Replay(ctx, s, "session-1", pool.DefaultCapacity, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.True(t, report.OK(), "mismatches: %+v", report.Mismatches)
	assert.Equal(t, 4, report.Checked)
	assert.Equal(t, "session-1", report.Session)
}

func TestReplay_DetectsTampering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := newTestCalculator(t, WithStore(s))
	good, err := c.Evaluate(ctx, "1+1")
	require.NoError(t, err)

	bad := good.Calculation
	bad.Seq = 2
	bad.ID = ir.MustCalculationID(bad.SessionID, bad.Input, bad.Seq)
	bad.Exact = "3"
	require.NoError(t, s.WriteCalculation(ctx, bad))

	report, err := Replay(ctx, s, "session-1", pool.DefaultCapacity, WithLogger(discardLogger()))
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, 2, report.Checked)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, Mismatch{Seq: 2, Input: "1+1", Field: "exact", Want: "3", Got: "2"}, report.Mismatches[0])
}

func TestReplay_UnknownSession(t *testing.T) {
	s := openTestStore(t)
	_, err := Replay(context.Background(), s, "missing", pool.DefaultCapacity)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
