package harness

// TraceEvent is one rewrite performed while running a scenario.
type TraceEvent struct {
	Seq    int64  `json:"seq"`    // Position in the whole scenario, from 1
	Step   int    `json:"step"`   // Index of the step that performed it
	Kind   string `json:"kind"`   // Variant whose law fired
	Before string `json:"before"` // Rewritten subtree before the law
	After  string `json:"after"`  // Rewritten subtree after the law
}

// StepResult is the observed outcome of one step.
type StepResult struct {
	Input       string `json:"input"`
	Exact       string `json:"exact,omitempty"`
	Approximate string `json:"approximate,omitempty"`
	Undefined   bool   `json:"undefined"`
	Error       string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Steps holds the outcome of each step in order.
	Steps []StepResult `json:"steps"`

	// Trace contains every rewrite in order.
	// Used for trace assertions and golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a rewrite to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
