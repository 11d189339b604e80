package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/roach88/graphcalc/internal/ir"
)

// ReadSession returns one session. Missing sessions yield ErrNotFound.
func (s *Store) ReadSession(ctx context.Context, id string) (ir.Session, error) {
	var sess ir.Session
	var prefsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, label, preferences FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Label, &prefsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Session{}, fmt.Errorf("read session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.Session{}, fmt.Errorf("read session: %w", err)
	}

	sess.Preferences, err = unmarshalObject("preferences", prefsJSON)
	if err != nil {
		return ir.Session{}, fmt.Errorf("read session: %w", err)
	}
	return sess, nil
}

// ListSessions returns all sessions, oldest first. UUIDv7 IDs sort by
// creation time, so binary order on the ID is creation order.
//
// Returns an empty slice (not nil) if there are no sessions.
func (s *Store) ListSessions(ctx context.Context) ([]ir.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, preferences
		FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []ir.Session{}
	for rows.Next() {
		var sess ir.Session
		var prefsJSON string
		if err := rows.Scan(&sess.ID, &sess.Label, &prefsJSON); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if sess.Preferences, err = unmarshalObject("preferences", prefsJSON); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ListCalculations returns the calculations of a session in entry order.
// Ordering is deterministic: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the session has no calculations.
func (s *Store) ListCalculations(ctx context.Context, sessionID string) ([]ir.Calculation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, input, exact, approximate, tree, trace_hash, engine_version, ir_version
		FROM calculations
		WHERE session_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	calcs := []ir.Calculation{}
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return calcs, nil
}

// ReadCalculation returns one calculation by ID.
func (s *Store) ReadCalculation(ctx context.Context, id string) (ir.Calculation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, seq, input, exact, approximate, tree, trace_hash, engine_version, ir_version
		FROM calculations
		WHERE id = ?
	`, id)
	calc, err := scanCalculation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Calculation{}, fmt.Errorf("read calculation %s: %w", id, ErrNotFound)
	}
	return calc, err
}

// NextSeq returns the seq for the next calculation of a session: one past
// the highest stored seq, or 1 for an empty session.
func (s *Store) NextSeq(ctx context.Context, sessionID string) (int64, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM calculations WHERE session_id = ?
	`, sessionID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return max.Int64 + 1, nil
}

// Checksum returns a CRC-32 over the canonical records of a session, in
// order. An empty session has checksum 0.
func (s *Store) Checksum(ctx context.Context, sessionID string) (uint32, error) {
	calcs, err := s.ListCalculations(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("checksum: %w", err)
	}

	h := crc32.NewIEEE()
	for _, calc := range calcs {
		data, err := ir.MarshalCanonical(calc.Record())
		if err != nil {
			return 0, fmt.Errorf("checksum: %w", err)
		}
		h.Write(data)
	}
	return h.Sum32(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row scanner) (ir.Calculation, error) {
	var calc ir.Calculation
	var treeJSON string
	err := row.Scan(
		&calc.ID,
		&calc.SessionID,
		&calc.Seq,
		&calc.Input,
		&calc.Exact,
		&calc.Approximate,
		&treeJSON,
		&calc.TraceHash,
		&calc.EngineVersion,
		&calc.IRVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return calc, err
		}
		return calc, fmt.Errorf("scan calculation: %w", err)
	}

	calc.Tree, err = unmarshalObject("tree", treeJSON)
	if err != nil {
		return calc, err
	}
	return calc, nil
}
