package expr

import (
	"fmt"
	"sort"

	"github.com/roach88/graphcalc/internal/pool"
)

// Context resolves symbols to their bound expressions. The returned tree is
// owned by the context and must be cloned before it is spliced anywhere.
type Context interface {
	Resolve(name string) (Expression, bool)
}

// EmptyContext binds nothing.
type EmptyContext struct{}

// Resolve implements Context.
func (EmptyContext) Resolve(string) (Expression, bool) { return Expression{}, false }

// VariableContext holds bindings as trees it owns in an arena.
type VariableContext struct {
	arena    *pool.Arena
	bindings map[string]pool.Handle
}

// NewVariableContext returns an empty context storing bindings in a.
func NewVariableContext(a *pool.Arena) *VariableContext {
	return &VariableContext{arena: a, bindings: make(map[string]pool.Handle)}
}

// Set binds name to a copy of value, replacing any previous binding. The
// caller keeps ownership of value.
func (c *VariableContext) Set(name string, value Expression) error {
	if value.arena != c.arena {
		panic("expr: binding lives in a different arena")
	}
	name = NormalizeName(name)
	copied, err := value.Clone()
	if err != nil {
		return fmt.Errorf("bind %q: %w", name, err)
	}
	c.Unset(name)
	c.bindings[name] = copied.h
	return nil
}

// Unset removes the binding for name, if any.
func (c *VariableContext) Unset(name string) {
	name = NormalizeName(name)
	if h, ok := c.bindings[name]; ok {
		c.arena.Release(h)
		delete(c.bindings, name)
	}
}

// Resolve implements Context.
func (c *VariableContext) Resolve(name string) (Expression, bool) {
	h, ok := c.bindings[NormalizeName(name)]
	if !ok {
		return Expression{}, false
	}
	return Expression{arena: c.arena, h: h}, true
}

// Names returns the bound names in sorted order.
func (c *VariableContext) Names() []string {
	names := make([]string, 0, len(c.bindings))
	for n := range c.bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Release frees every binding.
func (c *VariableContext) Release() {
	for name, h := range c.bindings {
		c.arena.Release(h)
		delete(c.bindings, name)
	}
}
