package store

import (
	"context"
	"fmt"

	"github.com/roach88/graphcalc/internal/ir"
)

// CreateSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - reopening a session is
// not an error.
func (s *Store) CreateSession(ctx context.Context, sess ir.Session) error {
	prefsJSON, err := marshalObject("preferences", sess.Preferences)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label, preferences)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, sess.Label, prefsJSON)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// WriteCalculation inserts a calculation record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - IDs are content-addressed,
// so a replayed calculation maps to the row it reproduces.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
// Note: A different calculation at an occupied (session, seq) position is an
// error.
func (s *Store) WriteCalculation(ctx context.Context, calc ir.Calculation) error {
	treeJSON, err := marshalObject("tree", calc.Tree)
	if err != nil {
		return fmt.Errorf("write calculation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculations
		(id, session_id, seq, input, exact, approximate, tree, trace_hash, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		calc.ID,
		calc.SessionID,
		calc.Seq,
		calc.Input,
		calc.Exact,
		calc.Approximate,
		treeJSON,
		calc.TraceHash,
		calc.EngineVersion,
		calc.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write calculation: %w", err)
	}
	return nil
}

// DeleteCalculation removes one calculation. Returns false if it did not
// exist.
func (s *Store) DeleteCalculation(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete calculation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete calculation: %w", err)
	}
	return n > 0, nil
}

// ClearSession removes every calculation of a session and keeps the session
// itself. Returns the number of calculations removed.
func (s *Store) ClearSession(ctx context.Context, sessionID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM calculations WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("clear session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear session: %w", err)
	}
	return n, nil
}

// DeleteSession removes a session and, through the foreign key cascade, its
// calculations.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete session %s: %w", sessionID, ErrNotFound)
	}
	return nil
}
