// Package harness provides conformance testing for the calculator.
//
// The harness runs scenarios: input lines evaluated in order on a fresh
// arena and a fresh in-memory store, with expectations on each result and
// assertions on the reduction trace and the recorded calculations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	preferences:
//	  angle_unit: degree
//	bindings:
//	  x: "2+3"
//	steps:
//	  - input: "rem(10,3)"
//	    expect:
//	      exact: "1"
//	      approximate: "1"
//	      undefined: false
//	  - input: "1+"
//	    expect:
//	      error: E202
//	assertions:
//	  - type: trace_contains
//	    kind: DivisionRemainder
//	    before: "rem(10,3)"
//	    after: "1"
//	  - type: final_state
//	    table: calculations
//	    where: { seq: 1 }
//	    expect: { exact: "1" }
//
// # Assertion Types
//
//   - trace_contains: A rewrite of kind appears, optionally with exact texts
//   - trace_order: The first rewrites of the listed kinds appear in order
//   - trace_count: A rewrite of kind appears exactly count times
//   - final_state: A recorded row has the expected column values
//
// # Deterministic Testing
//
// Every run uses a fixed session ID (scenario.session or
// "test-session-default") and renumbers rewrites on a deterministic clock,
// so the same scenario always produces the same snapshot. RunWithGolden
// compares the canonical JSON snapshot with testdata/golden/{name}.golden.
package harness
