package pool

import (
	"fmt"
	"log/slog"
)

// Byte costs charged against the arena capacity.
const (
	HeaderSize = 16 // Per node: tag, generation, parent link
	SlotSize   = 8  // Per child slot
)

// DefaultCapacity is the arena size used by the firmware build (32 KiB).
const DefaultCapacity = 32 * 1024

// Tag is the variant discriminant stored with each node. The arena does not
// interpret it.
type Tag uint8

// Handle refers to a node in an Arena. The zero Handle is Nil.
type Handle struct {
	index uint32
	gen   uint32
}

// Nil is the empty handle. It never refers to a node.
var Nil Handle

// IsNil reports whether h is the empty handle.
func (h Handle) IsNil() bool { return h.gen == 0 }

// String formats the handle for logs and test failures.
func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}

type node struct {
	tag         Tag
	gen         uint32
	live        bool
	parent      Handle
	children    []Handle
	payload     any
	payloadSize int
}

// Arena is a fixed-capacity store of tree nodes.
//
// INVARIANTS:
//   - used <= capacity at all times
//   - a live node's parent, if any, lists it in exactly one child slot
//   - a released slot's generation differs from every handle issued for it
type Arena struct {
	capacity int
	used     int
	peak     int
	live     int
	nodes    []node
	free     []uint32
	logger   *slog.Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithLogger sets the logger used to report allocation failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		a.logger = l
	}
}

// New creates an arena holding at most capacity bytes of nodes.
func New(capacity int, opts ...Option) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	a := &Arena{
		capacity: capacity,
		nodes:    make([]node, 0, min(capacity/HeaderSize, 1024)),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() int { return a.capacity }

// Used returns the bytes held by live nodes.
func (a *Arena) Used() int { return a.used }

// Available returns the bytes left for allocation.
func (a *Arena) Available() int { return a.capacity - a.used }

// Peak returns the highest Used value observed.
func (a *Arena) Peak() int { return a.peak }

// Live returns the number of live nodes.
func (a *Arena) Live() int { return a.live }

func nodeCost(childCount, payloadSize int) int {
	return HeaderSize + childCount*SlotSize + payloadSize
}

// reserve charges n bytes or fails without side effects.
func (a *Arena) reserve(n int) error {
	if a.used+n > a.capacity {
		err := &CapacityError{Requested: n, Available: a.capacity - a.used}
		a.logger.Warn("pool allocation failed",
			"requested", n,
			"used", a.used,
			"capacity", a.capacity,
		)
		return err
	}
	a.used += n
	if a.used > a.peak {
		a.peak = a.used
	}
	return nil
}

// Allocate creates a parentless node with childCount empty child slots.
// Returns a *CapacityError wrapping ErrOutOfCapacity if it does not fit.
func (a *Arena) Allocate(tag Tag, childCount, payloadSize int, payload any) (Handle, error) {
	if childCount < 0 || payloadSize < 0 {
		panic(fmt.Sprintf("pool: invalid allocation (children=%d, payload=%d)", childCount, payloadSize))
	}
	if err := a.reserve(nodeCost(childCount, payloadSize)); err != nil {
		return Nil, err
	}

	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, node{})
		index = uint32(len(a.nodes) - 1)
	}

	slot := &a.nodes[index]
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1 // Generation 0 is reserved for Nil
	}
	slot.tag = tag
	slot.live = true
	slot.parent = Nil
	slot.children = make([]Handle, childCount)
	slot.payload = payload
	slot.payloadSize = payloadSize
	a.live++

	return Handle{index: index, gen: slot.gen}, nil
}

// Valid reports whether h refers to a live node.
func (a *Arena) Valid(h Handle) bool {
	if h.IsNil() || int(h.index) >= len(a.nodes) {
		return false
	}
	n := &a.nodes[h.index]
	return n.live && n.gen == h.gen
}

func (a *Arena) get(h Handle) *node {
	if !a.Valid(h) {
		panic(fmt.Errorf("%w: %s", ErrStaleHandle, h))
	}
	return &a.nodes[h.index]
}

// Tag returns the node's variant tag.
func (a *Arena) Tag(h Handle) Tag { return a.get(h).tag }

// Payload returns the node's payload.
func (a *Arena) Payload(h Handle) any { return a.get(h).payload }

// NumChildren returns the number of child slots.
func (a *Arena) NumChildren(h Handle) int { return len(a.get(h).children) }

// Child returns the handle in child slot i. Empty slots return Nil.
func (a *Arena) Child(h Handle, i int) Handle {
	n := a.get(h)
	if i < 0 || i >= len(n.children) {
		panic(fmt.Sprintf("pool: child index %d out of range [0,%d)", i, len(n.children)))
	}
	return n.children[i]
}

// Parent returns the node's parent, or Nil for a root.
func (a *Arena) Parent(h Handle) Handle { return a.get(h).parent }

// IndexInParent returns the slot index h occupies in its parent, or -1.
func (a *Arena) IndexInParent(h Handle) int {
	p := a.get(h).parent
	if p.IsNil() {
		return -1
	}
	for i, c := range a.get(p).children {
		if c == h {
			return i
		}
	}
	panic(fmt.Sprintf("pool: %s missing from parent %s", h, p))
}

// isAncestor reports whether anc lies on the parent chain of h (or is h).
func (a *Arena) isAncestor(anc, h Handle) bool {
	for cur := h; !cur.IsNil(); cur = a.get(cur).parent {
		if cur == anc {
			return true
		}
	}
	return false
}

// Attach places a parentless child into the empty slot i of parent.
func (a *Arena) Attach(parent Handle, i int, child Handle) {
	p := a.get(parent)
	c := a.get(child)
	switch {
	case i < 0 || i >= len(p.children):
		panic(fmt.Sprintf("pool: attach index %d out of range [0,%d)", i, len(p.children)))
	case !p.children[i].IsNil():
		panic(fmt.Sprintf("pool: slot %d of %s is occupied", i, parent))
	case !c.parent.IsNil():
		panic(fmt.Sprintf("pool: %s already has a parent", child))
	case a.isAncestor(child, parent):
		panic(fmt.Sprintf("pool: attaching %s under %s would create a cycle", child, parent))
	}
	p.children[i] = child
	c.parent = parent
}

// Detach empties the slot holding h. Roots are left unchanged.
func (a *Arena) Detach(h Handle) {
	n := a.get(h)
	if n.parent.IsNil() {
		return
	}
	i := a.IndexInParent(h)
	a.get(n.parent).children[i] = Nil
	n.parent = Nil
}

// AppendChild adds a new last slot to parent holding child.
func (a *Arena) AppendChild(parent, child Handle) error {
	c := a.get(child)
	if !c.parent.IsNil() {
		panic(fmt.Sprintf("pool: %s already has a parent", child))
	}
	if a.isAncestor(child, parent) {
		panic(fmt.Sprintf("pool: appending %s under %s would create a cycle", child, parent))
	}
	if err := a.reserve(SlotSize); err != nil {
		return err
	}
	p := a.get(parent)
	p.children = append(p.children, child)
	c.parent = parent
	return nil
}

// InsertChild adds a new slot at index i of parent holding child. Later
// slots shift right.
func (a *Arena) InsertChild(parent Handle, i int, child Handle) error {
	p := a.get(parent)
	if i < 0 || i > len(p.children) {
		panic(fmt.Sprintf("pool: insert index %d out of range [0,%d]", i, len(p.children)))
	}
	if i == len(p.children) {
		return a.AppendChild(parent, child)
	}
	c := a.get(child)
	if !c.parent.IsNil() {
		panic(fmt.Sprintf("pool: %s already has a parent", child))
	}
	if a.isAncestor(child, parent) {
		panic(fmt.Sprintf("pool: inserting %s under %s would create a cycle", child, parent))
	}
	if err := a.reserve(SlotSize); err != nil {
		return err
	}
	p = a.get(parent)
	p.children = append(p.children, Nil)
	copy(p.children[i+1:], p.children[i:])
	p.children[i] = child
	c.parent = parent
	return nil
}

// RemoveChildAt removes slot i from parent and returns its former occupant
// as a root (Nil if the slot was empty). The caller owns the returned tree.
func (a *Arena) RemoveChildAt(parent Handle, i int) Handle {
	p := a.get(parent)
	if i < 0 || i >= len(p.children) {
		panic(fmt.Sprintf("pool: child index %d out of range [0,%d)", i, len(p.children)))
	}
	child := p.children[i]
	p.children = append(p.children[:i], p.children[i+1:]...)
	a.used -= SlotSize
	if !child.IsNil() {
		a.get(child).parent = Nil
	}
	return child
}

// Release frees the subtree rooted at h. If h is attached, its parent slot is
// left empty.
func (a *Arena) Release(h Handle) {
	a.Detach(h)
	stack := []Handle{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := a.get(cur)
		for _, c := range n.children {
			if !c.IsNil() {
				stack = append(stack, c)
			}
		}
		a.used -= nodeCost(len(n.children), n.payloadSize)
		a.live--
		*n = node{gen: n.gen + 1}
		if n.gen == 0 {
			n.gen = 1
		}
		a.free = append(a.free, cur.index)
	}
}

// ReplaceInPlace puts replacement in the tree position held by old and
// releases old's former subtree. replacement may currently sit anywhere,
// including inside old's subtree; it is detached first. If old was a root,
// replacement becomes a root. Returns replacement.
//
// Handles into old's subtree (other than replacement's subtree) are stale
// afterwards.
func (a *Arena) ReplaceInPlace(old, replacement Handle) Handle {
	if old == replacement {
		return replacement
	}
	if a.isAncestor(replacement, old) {
		panic(fmt.Sprintf("pool: cannot replace %s with its ancestor %s", old, replacement))
	}
	a.Detach(replacement)

	o := a.get(old)
	if parent := o.parent; !parent.IsNil() {
		i := a.IndexInParent(old)
		a.get(parent).children[i] = replacement
		a.get(replacement).parent = parent
		o.parent = Nil
	}
	a.Release(old)
	return replacement
}

// SubtreeSize returns the bytes held by the subtree rooted at h.
func (a *Arena) SubtreeSize(h Handle) int {
	total := 0
	a.Walk(h, func(cur Handle, _ int) bool {
		n := a.get(cur)
		total += nodeCost(len(n.children), n.payloadSize)
		return true
	})
	return total
}

// Clone deep-copies the subtree rooted at h into a new parentless tree.
// The copy is all-or-nothing: on failure nothing is allocated.
// Payloads are shared, so they must be immutable values.
func (a *Arena) Clone(h Handle) (Handle, error) {
	if need := a.SubtreeSize(h); need > a.Available() {
		a.logger.Warn("pool clone failed", "requested", need, "available", a.Available())
		return Nil, &CapacityError{Requested: need, Available: a.Available()}
	}
	return a.cloneNode(h)
}

func (a *Arena) cloneNode(h Handle) (Handle, error) {
	src := a.get(h)
	tag, payload, payloadSize := src.tag, src.payload, src.payloadSize
	children := append([]Handle(nil), src.children...)

	dst, err := a.Allocate(tag, len(children), payloadSize, payload)
	if err != nil {
		return Nil, err
	}
	for i, c := range children {
		if c.IsNil() {
			continue
		}
		cc, err := a.cloneNode(c)
		if err != nil {
			a.Release(dst)
			return Nil, err
		}
		a.Attach(dst, i, cc)
	}
	return dst, nil
}

// Walk visits the subtree rooted at h in pre-order. Returning false from fn
// skips the node's children.
func (a *Arena) Walk(h Handle, fn func(h Handle, depth int) bool) {
	a.walk(h, 0, fn)
}

func (a *Arena) walk(h Handle, depth int, fn func(Handle, int) bool) {
	if !fn(h, depth) {
		return
	}
	for _, c := range a.get(h).children {
		if !c.IsNil() {
			a.walk(c, depth+1, fn)
		}
	}
}
