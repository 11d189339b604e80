package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/graphcalc/internal/expr"
)

// Scenario defines a conformance test scenario.
// Scenarios evaluate input lines in order and assert on the results, the
// reduction trace and the recorded calculations.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Preferences override the defaults. Keys are those of the preferences
	// file and are validated the same way.
	Preferences map[string]any `yaml:"preferences,omitempty"`

	// Bindings are bound before the first step. Values are input lines.
	Bindings map[string]string `yaml:"bindings,omitempty"`

	// Steps are evaluated in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and recorded state.
	// Supported types: trace_contains, trace_order, trace_count, final_state
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Session is an optional fixed session ID.
	// If empty, defaults to "test-session-default".
	Session string `yaml:"session,omitempty"`

	// PoolSize is the arena capacity in bytes. Zero means the default.
	PoolSize int `yaml:"pool_size,omitempty"`
}

// Step is one input line.
type Step struct {
	// Input is the line to evaluate.
	Input string `yaml:"input"`

	// Expect specifies the expected outcome.
	// If nil, the step only has to evaluate without error.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected results. Empty fields are not checked.
type ExpectClause struct {
	// Exact is the expected exact form.
	Exact string `yaml:"exact,omitempty"`

	// Approximate is the expected approximate form.
	Approximate string `yaml:"approximate,omitempty"`

	// Undefined is whether the approximate value is undefined.
	Undefined *bool `yaml:"undefined,omitempty"`

	// Error is the expected error code (e.g. "E202", "QUOTA_EXCEEDED").
	// When set, the step must fail.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": Check a rewrite of Kind appears, optionally with Before/After
	// - "trace_order": Check rewrites of Kinds appear in order
	// - "trace_count": Check rewrites of Kind appear exactly Count times
	// - "final_state": Query table and verify expected values
	Type string `yaml:"type"`

	// Kind is the variant whose law fired (e.g. "DivisionRemainder").
	Kind string `yaml:"kind,omitempty"`

	// Before and After are the rewritten subtree, matched exactly when set.
	Before string `yaml:"before,omitempty"`
	After  string `yaml:"after,omitempty"`

	// Table is the state table name (used by final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (used by final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect contains expected column values (used by final_state).
	// Subset match - only specified columns are validated.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Kinds is the expected rewrite order (used by trace_order).
	Kinds []string `yaml:"kinds,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ScenarioFiles returns the .yaml and .yml files in dir, sorted by name.
func ScenarioFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if s.PoolSize < 0 {
		return fmt.Errorf("pool_size must be non-negative")
	}

	for name, value := range s.Bindings {
		if name == "" {
			return fmt.Errorf("bindings: empty name")
		}
		if value == "" {
			return fmt.Errorf("bindings[%s]: value is required", name)
		}
	}

	for i, step := range s.Steps {
		if step.Input == "" {
			return fmt.Errorf("steps[%d]: input is required", i)
		}
		if e := step.Expect; e != nil && e.Error != "" {
			if e.Exact != "" || e.Approximate != "" || e.Undefined != nil {
				return fmt.Errorf("steps[%d].expect: error cannot be combined with results", i)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if err := validateKind(index, a.Kind); err != nil {
			return err
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
		for _, k := range a.Kinds {
			if err := validateKind(index, k); err != nil {
				return err
			}
		}
	case AssertTraceCount:
		if err := validateKind(index, a.Kind); err != nil {
			return err
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func validateKind(index int, kind string) error {
	if kind == "" {
		return fmt.Errorf("assertions[%d]: kind is required", index)
	}
	if _, ok := expr.ParseKind(kind); !ok {
		return fmt.Errorf("assertions[%d]: unknown kind %q", index, kind)
	}
	return nil
}
