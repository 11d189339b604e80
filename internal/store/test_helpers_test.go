package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/graphcalc/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession inserts a session with default preferences.
func createTestSession(t *testing.T, s *Store, id string) {
	t.Helper()
	err := s.CreateSession(context.Background(), ir.Session{
		ID:          id,
		Preferences: ir.IRObject{"angle_unit": ir.IRString("radian")},
	})
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
}

// createTestCalculation creates a calculation with minimal required fields.
func createTestCalculation(session, input string, seq int64) ir.Calculation {
	return ir.Calculation{
		ID:            ir.MustCalculationID(session, input, seq),
		SessionID:     session,
		Seq:           seq,
		Input:         input,
		Exact:         "1",
		Approximate:   "1",
		Tree:          ir.IRObject{"kind": ir.IRString("Rational"), "value": ir.IRString("1")},
		TraceHash:     "trace",
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}
