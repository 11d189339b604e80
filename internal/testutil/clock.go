// Package testutil provides deterministic helpers for scenario runs and
// tests: a resettable logical clock, a fixed session generator and a
// discarding logger.
package testutil

import (
	"sync"

	"github.com/roach88/graphcalc/internal/engine"
)

// DeterministicClock is a resettable monotonic logical clock.
//
// Each calculation stamps its rewrites from 1 on its own clock. A
// DeterministicClock renumbers them so a whole scenario shares one sequence.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a new deterministic clock starting at 0.
//
// The first call to Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset resets the clock to 0.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// Stamp returns a copy of steps renumbered from the clock, in order.
func (c *DeterministicClock) Stamp(steps []engine.Step) []engine.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]engine.Step, len(steps))
	for i, s := range steps {
		c.seq++
		s.Seq = c.seq
		out[i] = s
	}
	return out
}
