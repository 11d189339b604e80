package testutil

import (
	"io"
	"log/slog"
)

// DefaultSession is the session ID used when a scenario names none.
const DefaultSession = "test-session-default"

// FixedSessionGenerator generates the same session ID every time.
//
// Unlike calculation.FixedGenerator, which returns IDs in sequence, this
// generator never runs out, so a scenario run twice records byte-identical
// calculations.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	token string
}

// NewFixedSessionGenerator creates a generator returning token. If token is
// empty, Generate() returns DefaultSession.
func NewFixedSessionGenerator(token string) *FixedSessionGenerator {
	if token == "" {
		token = DefaultSession
	}
	return &FixedSessionGenerator{token: token}
}

// Generate returns the fixed session ID.
//
// Implements calculation.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.token
}

// DiscardLogger returns a logger that writes nothing.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
