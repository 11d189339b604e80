package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/graphcalc/internal/calculation"
	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/parser"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
	"github.com/roach88/graphcalc/internal/store"
	"github.com/roach88/graphcalc/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and session ID.
type Harness struct {
	store  *store.Store
	calc   *calculation.Calculator
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs on a fresh arena and a fresh in-memory database, so
// scenarios are isolated from each other and every run of the same scenario
// produces the same trace.
//
// Execution flow:
// 1. Create fresh in-memory database and arena
// 2. Bind the scenario bindings in name order
// 3. Evaluate each step and compare it with its expect clause
// 4. Evaluate assertions against the trace and the recorded calculations
func Run(scenario *Scenario) (*Result, error) {
	p, err := scenarioPreferences(scenario.Preferences)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	capacity := scenario.PoolSize
	if capacity == 0 {
		capacity = pool.DefaultCapacity
	}
	logger := testutil.DiscardLogger()
	arena := pool.New(capacity, pool.WithLogger(logger))

	h := &Harness{
		store: st,
		calc: calculation.New(arena,
			calculation.WithStore(st),
			calculation.WithPreferences(p),
			calculation.WithLogger(logger),
			calculation.WithSessionGenerator(testutil.NewFixedSessionGenerator(scenario.Session)),
			calculation.WithSessionLabel(scenario.Name),
		),
		clock:  testutil.NewDeterministicClock(),
		logger: logger,
	}
	defer h.calc.Close()

	if err := h.bind(scenario.Bindings); err != nil {
		return nil, err
	}

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}
	return result, nil
}

// scenarioPreferences validates the preferences mapping exactly like a
// preferences file.
func scenarioPreferences(raw map[string]any) (prefs.Preferences, error) {
	if len(raw) == 0 {
		return prefs.Default(), nil
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return prefs.Preferences{}, fmt.Errorf("preferences: %w", err)
	}
	p, err := prefs.Parse(data)
	if err != nil {
		return prefs.Preferences{}, fmt.Errorf("preferences: %w", err)
	}
	return p, nil
}

// bind binds in name order so a failing binding is reported the same way
// on every run.
func (h *Harness) bind(bindings map[string]string) error {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.calc.Bind(name, bindings[name]); err != nil {
			return fmt.Errorf("bindings: %w", err)
		}
	}
	return nil
}

// executeStep evaluates one step, records its trace and checks its expect
// clause.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) {
	res, err := h.calc.Evaluate(ctx, step.Input)
	if err != nil {
		code := errorCode(err)
		result.Steps = append(result.Steps, StepResult{Input: step.Input, Error: code})
		h.logger.Info("step failed", "step", i, "input", step.Input, "error", err)

		switch {
		case step.Expect == nil || step.Expect.Error == "":
			result.AddError(fmt.Sprintf("steps[%d] %q: unexpected error: %v", i, step.Input, err))
		case step.Expect.Error != code:
			result.AddError(fmt.Sprintf("steps[%d] %q: error = %s, want %s", i, step.Input, code, step.Expect.Error))
		}
		return
	}

	for _, s := range h.clock.Stamp(res.Steps) {
		result.AddTrace(TraceEvent{
			Seq:    s.Seq,
			Step:   i,
			Kind:   s.Kind.String(),
			Before: s.Before,
			After:  s.After,
		})
	}
	result.Steps = append(result.Steps, StepResult{
		Input:       step.Input,
		Exact:       res.Exact,
		Approximate: res.Approximate,
		Undefined:   res.Undefined,
	})
	h.logger.Info("step completed",
		"step", i,
		"input", step.Input,
		"exact", res.Exact,
		"calculation_id", res.ID,
	)

	e := step.Expect
	if e == nil {
		return
	}
	if e.Error != "" {
		result.AddError(fmt.Sprintf("steps[%d] %q: succeeded with %s, want error %s", i, step.Input, res.Exact, e.Error))
		return
	}
	if e.Exact != "" && e.Exact != res.Exact {
		result.AddError(fmt.Sprintf("steps[%d] %q: exact = %q, want %q", i, step.Input, res.Exact, e.Exact))
	}
	if e.Approximate != "" && e.Approximate != res.Approximate {
		result.AddError(fmt.Sprintf("steps[%d] %q: approximate = %q, want %q", i, step.Input, res.Approximate, e.Approximate))
	}
	if e.Undefined != nil && *e.Undefined != res.Undefined {
		result.AddError(fmt.Sprintf("steps[%d] %q: undefined = %t, want %t", i, step.Input, res.Undefined, *e.Undefined))
	}
}

// errorCode returns the stable code of a calculation error.
func errorCode(err error) string {
	var pe *parser.Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	if pool.IsCapacityError(err) {
		return string(engine.ErrCodeOutOfCapacity)
	}
	return err.Error()
}
