package expr

import (
	"github.com/roach88/graphcalc/internal/exact"
)

type divisionRemainderNode struct{ prefixForm }

// rem(a, b) = a - b*floor(a/b), over integers only.
func (divisionRemainderNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	return reduceIntegerDivision(e, rc, func(d exact.Division) exact.Integer { return d.Remainder })
}

type divisionQuotientNode struct{ prefixForm }

// quo(a, b) = floor(a/b), over integers only.
func (divisionQuotientNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	return reduceIntegerDivision(e, rc, func(d exact.Division) exact.Integer { return d.Quotient })
}

// reduceIntegerDivision is the law shared by rem and quo:
//
//   - an operand that is a non-integer rational makes the result Undefined
//   - an operand that is not a rational leaves the node unreduced
//   - a zero divisor gives Infinity signed like the dividend, and 0 by 0 is
//     Undefined
//   - otherwise pick selects from the floored division of the integers
func reduceIntegerDivision(e Expression, rc ReductionContext, pick func(exact.Division) exact.Integer) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	dividend, divisor := e.ChildAt(0), e.ChildAt(1)
	a, okA := dividend.Rational()
	b, okB := divisor.Rational()
	if (okA && !a.IsInteger()) || (okB && !b.IsInteger()) {
		return replaceWithUndefined(e)
	}
	if !okA || !okB {
		return e, nil
	}
	if b.IsZero() {
		if a.IsZero() {
			return replaceWithUndefined(e)
		}
		return replaceWithInfinity(e, a.IsNegative())
	}
	d := a.SignedIntegerNumerator().DivMod(b.SignedIntegerNumerator())
	return replaceWithInteger(e, pick(d))
}
