package engine

// CycleDetector tracks the symbols being expanded on the current reduction
// path.
//
// Example cycle, with x bound to y + 1 and y bound to 2*x:
//
//	x → y + 1 → 2*x + 1 → x is already being expanded ← CYCLE DETECTED
//
// Enter is called before a symbol is replaced by its binding and Leave once
// the binding has been reduced. Sibling occurrences of the same symbol are
// not cycles: x + x expands x twice, one after the other.
type CycleDetector struct {
	expanding map[string]int
	depth     int
	maxDepth  int
}

// NewCycleDetector creates a new cycle detector.
func NewCycleDetector() *CycleDetector {
	return &CycleDetector{expanding: make(map[string]int)}
}

// Enter marks name as being expanded. It returns false, and records nothing,
// if name is already being expanded on the current path.
func (c *CycleDetector) Enter(name string) bool {
	if c.expanding[name] > 0 {
		return false
	}
	c.expanding[name]++
	c.depth++
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
	return true
}

// Leave ends the expansion of name.
func (c *CycleDetector) Leave(name string) {
	if c.expanding[name] == 0 {
		panic("engine: Leave without Enter for " + name)
	}
	c.expanding[name]--
	if c.expanding[name] == 0 {
		delete(c.expanding, name)
	}
	c.depth--
}

// Expanding reports whether name is on the current path.
func (c *CycleDetector) Expanding(name string) bool {
	return c.expanding[name] > 0
}

// Depth returns the number of nested expansions on the current path.
func (c *CycleDetector) Depth() int {
	return c.depth
}

// MaxDepth returns the deepest nesting seen. Used for logging.
func (c *CycleDetector) MaxDepth() int {
	return c.maxDepth
}
