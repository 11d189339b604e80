package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/graphcalc/internal/ir"
)

// Snapshot returns the canonical form of a scenario run: the outcome of
// every step and the full rewrite trace.
func Snapshot(scenarioName string, result *Result) ir.IRObject {
	steps := make(ir.IRArray, len(result.Steps))
	for i, s := range result.Steps {
		obj := ir.IRObject{
			"input":     ir.IRString(s.Input),
			"undefined": ir.IRBool(s.Undefined),
		}
		if s.Error != "" {
			obj["error"] = ir.IRString(s.Error)
		} else {
			obj["exact"] = ir.IRString(s.Exact)
			obj["approximate"] = ir.IRString(s.Approximate)
		}
		steps[i] = obj
	}

	trace := make(ir.IRArray, len(result.Trace))
	for i, e := range result.Trace {
		trace[i] = ir.IRObject{
			"seq":    ir.IRInt(e.Seq),
			"step":   ir.IRInt(e.Step),
			"kind":   ir.IRString(e.Kind),
			"before": ir.IRString(e.Before),
			"after":  ir.IRString(e.After),
		}
	}

	return ir.IRObject{
		"scenario_name": ir.IRString(scenarioName),
		"steps":         steps,
		"trace":         trace,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := ir.MarshalCanonical(Snapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)
	return nil
}
