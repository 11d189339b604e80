// Package calculation runs the calculator pipeline on one input line:
//
//	[Input] → [Parse] → [Reduce] → [Approximate] → [Serialize]
//	                       ↓
//	                    [Trace] → TraceHash
//
// Every line is parsed into the calculator's arena, reduced with the session
// preferences, approximated in double precision and printed twice: the exact
// form and the approximate form. The tree is released before Evaluate
// returns, so the arena only holds variable bindings between calls.
//
// # Replay and Determinism
//
// Determinism is STRUCTURAL. A calculation is identified by its session,
// input and position:
//
//	id := ir.CalculationID(session, input, seq)
//
// and the rewrites it performed are summarized by the trace hash:
//
//	hash := ir.TraceHash(TraceRecords(steps))
//
// Each calculation runs on a fresh logical clock, so the trace hash depends
// only on the input, the bindings and the preferences. Replay re-runs the
// stored inputs of a session with the stored preferences and reports every
// calculation whose exact text, approximate text or trace hash differs.
//
// Writes are idempotent: evaluating the same input at the same position
// again produces the same ID and the store ignores the duplicate.
package calculation
