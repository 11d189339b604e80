package expr

import (
	"github.com/roach88/graphcalc/internal/exact"
	"github.com/roach88/graphcalc/internal/layout"
	"github.com/roach88/graphcalc/internal/prefs"
)

// ReductionContext carries the read-only inputs of a reduction.
type ReductionContext struct {
	Context   Context
	AngleUnit prefs.AngleUnit

	// MatrixExactReducing makes scalar-only operations on a matrix operand
	// reduce to Undefined instead of staying unreduced.
	MatrixExactReducing bool
}

// variant is the per-kind behavior table entry. Approximation is generic
// over the scalar type and lives in Approximate.
type variant interface {
	shallowReduce(e Expression, rc ReductionContext) (Expression, error)
	serialize(s *sink, e Expression, f format)
	layout(e Expression, f format) *layout.Node
}

var variants = [...]variant{
	KindUndefined:         undefinedNode{},
	KindInfinity:          infinityNode{},
	KindRational:          rationalNode{},
	KindDecimal:           decimalNode{},
	KindSymbol:            symbolNode{},
	KindMatrix:            matrixNode{},
	KindAddition:          additionNode{infixForm{op: "+"}},
	KindSubtraction:       subtractionNode{infixForm{op: "-"}},
	KindMultiplication:    multiplicationNode{infixForm{op: "*"}},
	KindDivision:          divisionNode{},
	KindOpposite:          oppositeNode{},
	KindPower:             powerNode{},
	KindDivisionRemainder: divisionRemainderNode{prefixForm{}},
	KindDivisionQuotient:  divisionQuotientNode{prefixForm{}},
	KindAbsoluteValue:     absoluteValueNode{},
	KindFloor:             floorNode{prefixForm{}},
	KindCeiling:           ceilingNode{prefixForm{}},
	KindSine:              sineNode{prefixForm{}},
	KindCosine:            cosineNode{prefixForm{}},
}

func behavior(k Kind) variant {
	if int(k) >= len(variants) || variants[k] == nil {
		panic("expr: unknown kind " + k.String())
	}
	return variants[k]
}

// ShallowReduce applies e's own simplification law, assuming its children
// are reduced. It returns e, or the expression now standing in e's position.
// A non-nil error means the arena ran out of room; the tree is then left as
// it was before the failing allocation.
func ShallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	return behavior(e.Kind()).shallowReduce(e, rc)
}

// defaultShallowReduce turns e into Undefined when a child is Undefined, or
// when e is scalar-only and a child is a matrix under exact matrix reducing.
// done reports whether e was replaced.
func defaultShallowReduce(e Expression, rc ReductionContext) (result Expression, done bool, err error) {
	n := e.NumberOfChildren()
	for i := 0; i < n; i++ {
		c := e.ChildAt(i)
		if c.IsUndefined() || (rc.MatrixExactReducing && e.Kind().scalarOnly() && c.Kind() == KindMatrix) {
			r, err := replaceWithUndefined(e)
			return r, err == nil, err
		}
	}
	return e, false, nil
}

func replaceWithUndefined(e Expression) (Expression, error) {
	b := NewBuilder(e.arena)
	u := b.Undefined()
	if err := b.Err(); err != nil {
		return e, err
	}
	return e.ReplaceWithInPlace(u), nil
}

func replaceWithInfinity(e Expression, negative bool) (Expression, error) {
	b := NewBuilder(e.arena)
	inf := b.Infinity(negative)
	if err := b.Err(); err != nil {
		return e, err
	}
	return e.ReplaceWithInPlace(inf), nil
}

// replaceWithRational splices in an exact number. Overflow becomes Undefined.
func replaceWithRational(e Expression, r exact.Rational) (Expression, error) {
	b := NewBuilder(e.arena)
	n := b.Rational(r)
	if err := b.Err(); err != nil {
		return e, err
	}
	return e.ReplaceWithInPlace(n), nil
}

func replaceWithInteger(e Expression, i exact.Integer) (Expression, error) {
	return replaceWithRational(e, exact.IntegerRational(i))
}

// wrap moves child under a new unary node of kind and returns that node as a
// root. The new node is allocated before child moves, so a failure leaves the
// tree untouched.
func wrap(kind Kind, child Expression) (Expression, error) {
	h, err := child.arena.Allocate(kind.tag(), 1, 0, nil)
	if err != nil {
		return Expression{}, err
	}
	child.Detach()
	child.arena.Attach(h, 0, child.h)
	return Expression{arena: child.arena, h: h}, nil
}

// hasChildOfKind reports whether a direct child of e is of kind k.
func hasChildOfKind(e Expression, k Kind) bool {
	n := e.NumberOfChildren()
	for i := 0; i < n; i++ {
		if e.ChildAt(i).Kind() == k {
			return true
		}
	}
	return false
}

// flatten hoists the operands of same-kind children into e, keeping order.
func flatten(e Expression) error {
	a := e.arena
	for i := 0; i < e.NumberOfChildren(); {
		c := e.ChildAt(i)
		if c.Kind() != e.Kind() {
			i++
			continue
		}
		a.RemoveChildAt(e.h, i)
		n := c.NumberOfChildren()
		for j := 0; j < n; j++ {
			g := a.RemoveChildAt(c.h, 0)
			if err := a.InsertChild(e.h, i+j, g); err != nil {
				a.Release(g)
				a.Release(c.h)
				return err
			}
		}
		a.Release(c.h)
		i += n
	}
	return nil
}

// foldRationals combines the Rational operands of the n-ary node e with op
// into the slot of the first one, dropping the result if it is the identity.
// A single non-identity Rational is left where it is.
func foldRationals(e Expression, op func(x, y exact.Rational) exact.Rational, identity exact.Rational) (Expression, error) {
	var idx []int
	var acc exact.Rational
	n := e.NumberOfChildren()
	for i := 0; i < n; i++ {
		r, ok := e.ChildAt(i).Rational()
		if !ok {
			continue
		}
		if len(idx) == 0 {
			acc = r
		} else {
			acc = op(acc, r)
		}
		idx = append(idx, i)
	}
	if len(idx) == 0 || (len(idx) == 1 && !acc.Equal(identity)) {
		return e, nil
	}
	if acc.IsOverflow() {
		return replaceWithUndefined(e)
	}

	a := e.arena
	for k := len(idx) - 1; k > 0; k-- {
		a.Release(a.RemoveChildAt(e.h, idx[k]))
	}
	first := e.ChildAt(idx[0])
	if acc.Equal(identity) {
		a.Release(a.RemoveChildAt(e.h, idx[0]))
		return e, nil
	}
	if _, err := replaceWithRational(first, acc); err != nil {
		return e, err
	}
	return e, nil
}

// collapse replaces an n-ary node left with fewer than two operands by its
// only operand, or by identity when it has none.
func collapse(e Expression, identity int64) (Expression, error) {
	switch e.NumberOfChildren() {
	case 0:
		return replaceWithRational(e, exact.IntegerRational(exact.NewInteger(identity)))
	case 1:
		return e.ReplaceWithInPlace(e.ChildAt(0)), nil
	}
	return e, nil
}

// ReplaceSymbol splices a copy of value in place of the symbol e.
func ReplaceSymbol(e, value Expression) (Expression, error) {
	if e.Kind() != KindSymbol {
		panic("expr: ReplaceSymbol on " + e.Kind().String())
	}
	copied, err := value.Clone()
	if err != nil {
		return e, err
	}
	return e.ReplaceWithInPlace(copied), nil
}

// ReplaceWithUndefined splices the Undefined terminal in place of e.
func ReplaceWithUndefined(e Expression) (Expression, error) { return replaceWithUndefined(e) }
