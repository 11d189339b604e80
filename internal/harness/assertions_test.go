package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTrace = []TraceEvent{
	{Seq: 1, Step: 0, Kind: "Subtraction", Before: "b-b", After: "0"},
	{Seq: 2, Step: 0, Kind: "Addition", Before: "a+0", After: "a"},
	{Seq: 3, Step: 1, Kind: "Symbol", Before: "x", After: "2+3"},
	{Seq: 4, Step: 1, Kind: "Addition", Before: "2+3", After: "5"},
}

func TestAssertTraceContains(t *testing.T) {
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Kind: "Symbol"}))
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Kind: "Addition", Before: "2+3"}))
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Kind: "Addition", After: "a"}))

	err := assertTraceContains(sampleTrace, Assertion{Kind: "Addition", Before: "1+1"})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Contains(t, err.Error(), "[4] Addition: 2+3 -> 5")
}

func TestAssertTraceOrder(t *testing.T) {
	assert.NoError(t, assertTraceOrder(sampleTrace, Assertion{Kinds: []string{"Subtraction", "Addition", "Symbol"}}))

	err := assertTraceOrder(sampleTrace, Assertion{Kinds: []string{"Symbol", "Subtraction"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Symbol (pos 3) should be before Subtraction (pos 1)")

	err = assertTraceOrder(sampleTrace, Assertion{Kinds: []string{"Power"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing kind: Power")
}

func TestAssertTraceCount(t *testing.T) {
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Kind: "Addition", Count: 2}))
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Kind: "Power", Count: 0}))
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Kind: "Addition", After: "5", Count: 1}))

	err := assertTraceCount(sampleTrace, Assertion{Kind: "Addition", Count: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 occurrences")
}

func TestBuildWhereClause(t *testing.T) {
	sql, args, err := buildWhereClause(map[string]any{"seq": 1, "input": "1+1"})
	require.NoError(t, err)
	assert.Equal(t, "input = ? AND seq = ?", sql)
	assert.Equal(t, []any{"1+1", 1}, args)

	_, _, err = buildWhereClause(map[string]any{"seq; DROP TABLE calculations": 1})
	assert.Error(t, err)
}

func TestStateValuesEqual(t *testing.T) {
	assert.True(t, stateValuesEqual("1", "1"))
	assert.True(t, stateValuesEqual("1", []byte("1")))
	assert.True(t, stateValuesEqual(1, int64(1)))
	assert.True(t, stateValuesEqual(true, int64(1)))
	assert.False(t, stateValuesEqual(1, "1"))
	assert.False(t, stateValuesEqual("a", nil))
}

func TestFinalState(t *testing.T) {
	base := Scenario{
		Name:        "final_state",
		Description: "recorded calculations",
		Session:     "s-1",
		Steps:       []Step{{Input: "rem(10,3)"}, {Input: "2*3"}},
	}

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"match", Assertion{Table: "calculations", Where: map[string]any{"seq": 2}, Expect: map[string]any{"exact": "6", "session_id": "s-1"}}, ""},
		{"session row", Assertion{Table: "sessions", Where: map[string]any{"id": "s-1"}, Expect: map[string]any{"label": "final_state"}}, ""},
		{"mismatch", Assertion{Table: "calculations", Where: map[string]any{"seq": 1}, Expect: map[string]any{"exact": "2"}}, `field "exact"`},
		{"missing row", Assertion{Table: "calculations", Where: map[string]any{"seq": 9}, Expect: map[string]any{"exact": "1"}}, "row not found"},
		{"ambiguous", Assertion{Table: "calculations", Expect: map[string]any{"exact": "1"}}, "multiple rows"},
		{"missing column", Assertion{Table: "calculations", Where: map[string]any{"seq": 1}, Expect: map[string]any{"result": "1"}}, "not present"},
		{"bad table", Assertion{Table: "calculations;", Expect: map[string]any{"exact": "1"}}, "invalid table name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := base
			a := tt.assertion
			a.Type = AssertFinalState
			scenario.Assertions = []Assertion{a}

			result, err := Run(&scenario)
			require.NoError(t, err)
			if tt.wantErr == "" {
				assert.True(t, result.Pass, "errors: %v", result.Errors)
				return
			}
			assert.False(t, result.Pass)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], tt.wantErr)
		})
	}
}

func TestEvaluateAssertions_NoStore(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: AssertFinalState, Table: "calculations"}}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "requires database context")
}
