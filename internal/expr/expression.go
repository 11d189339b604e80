package expr

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/graphcalc/internal/exact"
	"github.com/roach88/graphcalc/internal/pool"
)

// Expression is a non-owning view of a node in an arena. The zero value
// refers to nothing.
type Expression struct {
	arena *pool.Arena
	h     pool.Handle
}

type matrixShape struct {
	rows, cols int
}

// View returns the expression stored at h.
func View(a *pool.Arena, h pool.Handle) Expression {
	return Expression{arena: a, h: h}
}

// IsNil reports whether e refers to nothing.
func (e Expression) IsNil() bool { return e.arena == nil || e.h.IsNil() }

// Valid reports whether e refers to a live node.
func (e Expression) Valid() bool { return !e.IsNil() && e.arena.Valid(e.h) }

// Arena returns the arena holding e.
func (e Expression) Arena() *pool.Arena { return e.arena }

// Handle returns the node handle.
func (e Expression) Handle() pool.Handle { return e.h }

// Kind returns the node's variant.
func (e Expression) Kind() Kind { return Kind(e.arena.Tag(e.h)) }

// NumberOfChildren returns the child count.
func (e Expression) NumberOfChildren() int { return e.arena.NumChildren(e.h) }

// ChildAt returns child i.
func (e Expression) ChildAt(i int) Expression {
	return Expression{arena: e.arena, h: e.arena.Child(e.h, i)}
}

// Children returns views of all children in order.
func (e Expression) Children() []Expression {
	n := e.NumberOfChildren()
	out := make([]Expression, n)
	for i := range out {
		out[i] = e.ChildAt(i)
	}
	return out
}

// Parent returns e's parent, if any.
func (e Expression) Parent() (Expression, bool) {
	p := e.arena.Parent(e.h)
	if p.IsNil() {
		return Expression{}, false
	}
	return Expression{arena: e.arena, h: p}, true
}

// IndexInParent returns e's slot in its parent, or -1 for a root.
func (e Expression) IndexInParent() int { return e.arena.IndexInParent(e.h) }

// Is reports whether e and o are the same node.
func (e Expression) Is(o Expression) bool { return e.arena == o.arena && e.h == o.h }

// IsUndefined reports whether e is the Undefined terminal.
func (e Expression) IsUndefined() bool { return e.Kind() == KindUndefined }

// Rational returns the value of a Rational node.
func (e Expression) Rational() (exact.Rational, bool) {
	if e.Kind() != KindRational {
		return exact.Rational{}, false
	}
	return e.arena.Payload(e.h).(exact.Rational), true
}

// IsRationalZero reports whether e is the rational 0.
func (e Expression) IsRationalZero() bool {
	r, ok := e.Rational()
	return ok && r.IsZero()
}

// IsRationalOne reports whether e is the rational 1.
func (e Expression) IsRationalOne() bool {
	r, ok := e.Rational()
	return ok && r.IsOne()
}

// Decimal returns the value of a Decimal node. The result must not be
// modified.
func (e Expression) Decimal() (*apd.Decimal, bool) {
	if e.Kind() != KindDecimal {
		return nil, false
	}
	return e.arena.Payload(e.h).(*apd.Decimal), true
}

// SymbolName returns the normalized name of a Symbol node.
func (e Expression) SymbolName() string {
	if e.Kind() != KindSymbol {
		panic(fmt.Sprintf("expr: SymbolName on %s", e.Kind()))
	}
	return e.arena.Payload(e.h).(string)
}

// IsNegativeInfinity reports whether e is -inf.
func (e Expression) IsNegativeInfinity() bool {
	return e.Kind() == KindInfinity && e.arena.Payload(e.h).(bool)
}

// MatrixDimensions returns the shape of a Matrix node.
func (e Expression) MatrixDimensions() (rows, cols int) {
	if e.Kind() != KindMatrix {
		panic(fmt.Sprintf("expr: MatrixDimensions on %s", e.Kind()))
	}
	s := e.arena.Payload(e.h).(matrixShape)
	return s.rows, s.cols
}

// ReplaceWithInPlace splices replacement into the position e holds and
// releases e's former subtree. replacement may be a descendant of e. If e was
// a root, replacement becomes a root. Returns replacement.
//
// Views into e's old subtree are stale afterwards.
func (e Expression) ReplaceWithInPlace(replacement Expression) Expression {
	if replacement.arena != e.arena {
		panic("expr: replacement lives in a different arena")
	}
	return Expression{arena: e.arena, h: e.arena.ReplaceInPlace(e.h, replacement.h)}
}

// Clone deep-copies e into a new root. On failure nothing is allocated.
func (e Expression) Clone() (Expression, error) {
	h, err := e.arena.Clone(e.h)
	if err != nil {
		return Expression{}, err
	}
	return Expression{arena: e.arena, h: h}, nil
}

// Release frees e's subtree.
func (e Expression) Release() {
	if e.Valid() {
		e.arena.Release(e.h)
	}
}

// Detach turns e into a root, emptying its parent slot.
func (e Expression) Detach() { e.arena.Detach(e.h) }

// Equal reports whether e and o are structurally identical: same kinds,
// payloads and children in order. Rationals compare by value.
func (e Expression) Equal(o Expression) bool {
	if e.IsNil() || o.IsNil() {
		return e.IsNil() && o.IsNil()
	}
	k := e.Kind()
	if k != o.Kind() {
		return false
	}
	switch k {
	case KindInfinity:
		if e.IsNegativeInfinity() != o.IsNegativeInfinity() {
			return false
		}
	case KindRational:
		a, _ := e.Rational()
		b, _ := o.Rational()
		if !a.Equal(b) {
			return false
		}
	case KindDecimal:
		a, _ := e.Decimal()
		b, _ := o.Decimal()
		if a.Cmp(b) != 0 {
			return false
		}
	case KindSymbol:
		if e.SymbolName() != o.SymbolName() {
			return false
		}
	case KindMatrix:
		er, ec := e.MatrixDimensions()
		or, oc := o.MatrixDimensions()
		if er != or || ec != oc {
			return false
		}
	}
	n := e.NumberOfChildren()
	if n != o.NumberOfChildren() {
		return false
	}
	for i := 0; i < n; i++ {
		if !e.ChildAt(i).Equal(o.ChildAt(i)) {
			return false
		}
	}
	return true
}

// Contains reports whether any node of e's subtree satisfies fn.
func (e Expression) Contains(fn func(Expression) bool) bool {
	found := false
	e.arena.Walk(e.h, func(h pool.Handle, _ int) bool {
		if found {
			return false
		}
		if fn(Expression{arena: e.arena, h: h}) {
			found = true
		}
		return !found
	})
	return found
}

// String returns the serialized form with default display preferences.
func (e Expression) String() string {
	if !e.Valid() {
		return "<nil>"
	}
	return text(e, defaultFormat)
}
