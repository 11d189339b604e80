// Package pool implements the fixed-capacity node arena that holds every
// expression tree.
//
// The arena is a table of slots addressed by Handle. A handle carries the
// slot index and the generation the slot had when the node was allocated;
// releasing a node bumps the generation so any handle that outlived its node
// is detected instead of silently reading a recycled slot.
//
// Capacity is counted in bytes: each node costs a fixed header, one handle
// per child slot, and the payload size declared at allocation. Allocation
// that would exceed the capacity fails with ErrOutOfCapacity and leaves the
// arena unchanged. The arena never grows.
//
// Trees are strict: every node has at most one parent and a child slot holds
// at most one node. The only sanctioned way to rewrite a position in a tree
// is ReplaceInPlace. Attach and AppendChild exist for construction and
// in-place resizing.
//
// The arena has no internal locking. All mutations must come from a single
// goroutine.
package pool
