package expr

import (
	"github.com/roach88/graphcalc/internal/exact"
	"github.com/roach88/graphcalc/internal/layout"
)

var (
	rationalZero = exact.IntegerRational(exact.NewInteger(0))
	rationalOne  = exact.IntegerRational(exact.NewInteger(1))
)

// Largest exponent magnitude computed exactly. Larger powers stay symbolic
// and are left to approximation.
const maxExactExponent = 1000

// infinityCensus counts the Infinity and Rational operands of an n-ary node.
type infinityCensus struct {
	positive, negative int
	rationals          int
	negativeRationals  int
	zero               bool
}

func census(e Expression) infinityCensus {
	var c infinityCensus
	n := e.NumberOfChildren()
	for i := 0; i < n; i++ {
		child := e.ChildAt(i)
		switch child.Kind() {
		case KindInfinity:
			if child.IsNegativeInfinity() {
				c.negative++
			} else {
				c.positive++
			}
		case KindRational:
			r, _ := child.Rational()
			c.rationals++
			if r.IsNegative() {
				c.negativeRationals++
			}
			if r.IsZero() {
				c.zero = true
			}
		}
	}
	return c
}

func (c infinityCensus) infinities() int { return c.positive + c.negative }

type additionNode struct{ infixForm }

func (additionNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	if err := flatten(e); err != nil {
		return e, err
	}
	if hasChildOfKind(e, KindMatrix) {
		return e, nil
	}

	c := census(e)
	if c.positive > 0 && c.negative > 0 {
		return replaceWithUndefined(e)
	}
	if c.infinities() > 0 {
		// Finite numbers are absorbed; symbolic terms could still be
		// infinite themselves.
		if c.infinities()+c.rationals == e.NumberOfChildren() {
			return replaceWithInfinity(e, c.negative > 0)
		}
		return e, nil
	}

	e, err := foldRationals(e, exact.Rational.Add, rationalZero)
	if err != nil || e.Kind() != KindAddition {
		return e, err
	}
	return collapse(e, 0)
}

type subtractionNode struct{ infixForm }

func (subtractionNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	x, y := e.ChildAt(0), e.ChildAt(1)
	if x.Kind() == KindMatrix || y.Kind() == KindMatrix {
		return e, nil
	}
	rx, okx := x.Rational()
	ry, oky := y.Rational()
	infX, infY := x.Kind() == KindInfinity, y.Kind() == KindInfinity

	switch {
	case okx && oky:
		return replaceWithRational(e, rx.Sub(ry))
	case infX && infY:
		if x.IsNegativeInfinity() == y.IsNegativeInfinity() {
			return replaceWithUndefined(e)
		}
		return e.ReplaceWithInPlace(x), nil
	case infX && oky:
		return e.ReplaceWithInPlace(x), nil
	case okx && infY:
		return replaceWithInfinity(e, !y.IsNegativeInfinity())
	case oky && ry.IsZero():
		return e.ReplaceWithInPlace(x), nil
	case x.Equal(y) && !x.Contains(isInfinity):
		return replaceWithRational(e, rationalZero)
	case okx && rx.IsZero():
		opp, err := wrap(KindOpposite, y)
		if err != nil {
			return e, err
		}
		opp = e.ReplaceWithInPlace(opp)
		return ShallowReduce(opp, rc)
	}
	return e, nil
}

func isInfinity(e Expression) bool { return e.Kind() == KindInfinity }

type multiplicationNode struct{ infixForm }

func (multiplicationNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	if err := flatten(e); err != nil {
		return e, err
	}
	if hasChildOfKind(e, KindMatrix) {
		return e, nil
	}

	c := census(e)
	if c.zero {
		if c.infinities() > 0 {
			return replaceWithUndefined(e)
		}
		return replaceWithRational(e, rationalZero)
	}
	if c.infinities() > 0 {
		if c.infinities()+c.rationals == e.NumberOfChildren() {
			return replaceWithInfinity(e, (c.negative+c.negativeRationals)%2 == 1)
		}
		return e, nil
	}

	e, err := foldRationals(e, exact.Rational.Mul, rationalOne)
	if err != nil || e.Kind() != KindMultiplication {
		return e, err
	}
	return collapse(e, 1)
}

type divisionNode struct{}

func (divisionNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	x, y := e.ChildAt(0), e.ChildAt(1)
	if x.Kind() == KindMatrix || y.Kind() == KindMatrix {
		return e, nil
	}
	rx, okx := x.Rational()
	ry, oky := y.Rational()
	infX, infY := x.Kind() == KindInfinity, y.Kind() == KindInfinity

	switch {
	case infX && infY:
		return replaceWithUndefined(e)
	case oky && ry.IsZero():
		switch {
		case okx && rx.IsZero(), infX:
			return replaceWithUndefined(e)
		case okx:
			return replaceWithInfinity(e, rx.IsNegative())
		}
		return e, nil
	case okx && oky:
		return replaceWithRational(e, rx.Div(ry))
	case infX && oky:
		return replaceWithInfinity(e, x.IsNegativeInfinity() != ry.IsNegative())
	case okx && infY:
		return replaceWithRational(e, rationalZero)
	case oky && ry.IsOne():
		return e.ReplaceWithInPlace(x), nil
	}
	return e, nil
}

func (divisionNode) serialize(s *sink, e Expression, f format) {
	infixForm{op: "/"}.serialize(s, e, f)
}

// Fractions stack, so operands never need parentheses.
func (divisionNode) layout(e Expression, f format) *layout.Node {
	return layout.Fraction(layoutOf(e.ChildAt(0), f), layoutOf(e.ChildAt(1), f))
}

type oppositeNode struct{}

func (oppositeNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	x := e.ChildAt(0)
	switch x.Kind() {
	case KindRational:
		r, _ := x.Rational()
		return replaceWithRational(e, r.Neg())
	case KindInfinity:
		return replaceWithInfinity(e, !x.IsNegativeInfinity())
	case KindOpposite:
		return e.ReplaceWithInPlace(x.ChildAt(0)), nil
	}
	return e, nil
}

func (oppositeNode) serialize(s *sink, e Expression, f format) {
	s.WriteString("-")
	writeOperand(s, e, 0, f)
}

func (oppositeNode) layout(e Expression, f format) *layout.Node {
	return layout.Horizontal(layout.Text("-"), layoutOperand(e, 0, f))
}

type powerNode struct{}

func (powerNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	base, exponent := e.ChildAt(0), e.ChildAt(1)
	rx, ok := exponent.Rational()
	if !ok || !rx.IsInteger() {
		return e, nil
	}
	n := rx.SignedIntegerNumerator()
	odd := n.Abs().Big().Bit(0) == 1

	if rb, ok := base.Rational(); ok {
		switch {
		case rb.IsZero():
			if n.Sign() > 0 {
				return replaceWithRational(e, rationalZero)
			}
			return replaceWithUndefined(e)
		case rb.IsOne():
			return replaceWithRational(e, rationalOne)
		case rb.IsMinusOne():
			if odd {
				return replaceWithRational(e, rationalOne.Neg())
			}
			return replaceWithRational(e, rationalOne)
		}
		if k, fits := n.Int64(); fits && k >= -maxExactExponent && k <= maxExactExponent {
			// Past the exact range the power stays symbolic and approximates.
			if p := rb.Pow(k); !p.IsOverflow() {
				return replaceWithRational(e, p)
			}
		}
		return e, nil
	}

	if base.Kind() == KindInfinity {
		switch n.Sign() {
		case 1:
			return replaceWithInfinity(e, base.IsNegativeInfinity() && odd)
		case -1:
			return replaceWithRational(e, rationalZero)
		}
		return replaceWithUndefined(e)
	}

	switch {
	case n.IsOne():
		return e.ReplaceWithInPlace(base), nil
	case n.IsZero() && base.Kind() == KindSymbol:
		return replaceWithRational(e, rationalOne)
	}
	return e, nil
}

func (powerNode) serialize(s *sink, e Expression, f format) {
	writeOperand(s, e, 0, f)
	s.WriteString("^")
	writeOperand(s, e, 1, f)
}

// A raised exponent is already grouped.
func (powerNode) layout(e Expression, f format) *layout.Node {
	return layout.Superscript(layoutOperand(e, 0, f), layoutOf(e.ChildAt(1), f))
}
