// Package engine drives reduction of whole expression trees.
//
// The per-variant simplification laws live in package expr. The Reducer
// walks a tree in post-order: every child is reduced first, then the node's
// own shallow reduce runs. A law may splice a different subtree into the
// node's position; the Reducer then continues with the replacement and does
// not descend into it again, since a law only produces reduced subtrees. The
// parent's own law runs afterwards, which gives chained simplification:
//
//	a + (b - b)  →  a + 0  →  a
//
// Symbols are resolved here rather than in the laws. A bound symbol is
// replaced by a copy of its binding, which is then reduced in turn. The
// CycleDetector tracks the symbols being expanded on the current path; a
// symbol that reaches itself is a circular definition and becomes Undefined.
//
// TERMINATION:
//   - every law either returns its node unchanged or makes the tree strictly
//     simpler, except symbol expansion
//   - symbol expansion is bounded by the CycleDetector
//   - the QuotaEnforcer caps the number of law applications as a backstop
//
// Reduction is single-threaded and synchronous. A Reducer must not be used
// from two goroutines at once, and neither may the arena it works in.
//
// FAILURE:
// Running out of arena capacity fails the reduction with a *RuntimeError.
// The tree is left in the partially reduced state it had reached and must be
// treated as unusable.
package engine
