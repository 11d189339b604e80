package ir

// Session groups the calculations entered in one run of the calculator.
type Session struct {
	ID          string   `json:"id"`          // UUIDv7, sortable by creation time
	Label       string   `json:"label"`       // Free-form, may be empty
	Preferences IRObject `json:"preferences"` // Preferences the session was started with
}

// Calculation is one evaluated input line.
//
// Exact and Approximate are the displayed texts; Tree is the exported
// reduced expression. TraceHash identifies the sequence of rewrites, so a
// replay is deterministic exactly when it reproduces the same hash.
type Calculation struct {
	ID            string   `json:"id"`
	SessionID     string   `json:"session_id"`
	Seq           int64    `json:"seq"`
	Input         string   `json:"input"`
	Exact         string   `json:"exact"`
	Approximate   string   `json:"approximate"`
	Tree          IRObject `json:"tree"`
	TraceHash     string   `json:"trace_hash"`
	EngineVersion string   `json:"engine_version"`
	IRVersion     string   `json:"ir_version"`
}

// Record returns the canonical form of c. The store checksum is computed
// over these records.
func (c Calculation) Record() IRObject {
	return IRObject{
		"id":             IRString(c.ID),
		"session_id":     IRString(c.SessionID),
		"seq":            IRInt(c.Seq),
		"input":          IRString(c.Input),
		"exact":          IRString(c.Exact),
		"approximate":    IRString(c.Approximate),
		"tree":           c.Tree,
		"trace_hash":     IRString(c.TraceHash),
		"engine_version": IRString(c.EngineVersion),
		"ir_version":     IRString(c.IRVersion),
	}
}
