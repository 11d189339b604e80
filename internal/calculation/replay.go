package calculation

import (
	"context"
	"fmt"

	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/store"
)

// Mismatch is a stored calculation that a replay did not reproduce.
type Mismatch struct {
	Seq   int64
	Input string
	Field string // "exact", "approximate", "trace_hash" or "error"
	Want  string
	Got   string
}

// ReplayReport summarizes a replay of one session.
type ReplayReport struct {
	Session    string
	Checked    int
	Mismatches []Mismatch
}

// OK reports whether every calculation was reproduced.
func (r ReplayReport) OK() bool { return len(r.Mismatches) == 0 }

// Replay re-runs every stored calculation of session with the session's
// stored preferences in a fresh arena of the given capacity, and compares
// the results with the stored ones. Nothing is written.
//
// opts configure the replaying calculator; the session and preferences
// always come from the store.
func Replay(ctx context.Context, s *store.Store, session string, capacity int, opts ...Option) (ReplayReport, error) {
	sess, err := s.ReadSession(ctx, session)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay %s: %w", session, err)
	}
	p, err := PreferencesFromRecord(sess.Preferences)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay %s: %w", session, err)
	}
	calcs, err := s.ListCalculations(ctx, session)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay %s: %w", session, err)
	}

	opts = append(opts, WithSession(session), WithPreferences(p))
	c := New(pool.New(capacity), opts...)
	defer c.Close()

	report := ReplayReport{Session: session}
	for _, want := range calcs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++

		got, err := c.evaluateAt(want.Input, want.Seq)
		if err != nil {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Seq: want.Seq, Input: want.Input, Field: "error", Want: want.Exact, Got: err.Error(),
			})
			continue
		}
		compare := []struct{ field, want, got string }{
			{"exact", want.Exact, got.Exact},
			{"approximate", want.Approximate, got.Approximate},
			{"trace_hash", want.TraceHash, got.TraceHash},
		}
		for _, f := range compare {
			if f.want != f.got {
				report.Mismatches = append(report.Mismatches, Mismatch{
					Seq: want.Seq, Input: want.Input, Field: f.field, Want: f.want, Got: f.got,
				})
			}
		}
	}
	return report, nil
}
