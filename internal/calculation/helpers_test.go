package calculation

import (
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/graphcalc/internal/pool"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCalculator(t *testing.T, opts ...Option) *Calculator {
	t.Helper()
	a := pool.New(pool.DefaultCapacity, pool.WithLogger(discardLogger()))
	opts = append([]Option{
		WithLogger(discardLogger()),
		WithSessionGenerator(NewFixedGenerator("session-1")),
	}, opts...)
	c := New(a, opts...)
	t.Cleanup(c.Close)
	return c
}
