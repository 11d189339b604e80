package expr

import (
	"github.com/roach88/graphcalc/internal/exact"
	"github.com/roach88/graphcalc/internal/layout"
	"github.com/roach88/graphcalc/internal/prefs"
)

type absoluteValueNode struct{}

func (absoluteValueNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	x := e.ChildAt(0)
	switch x.Kind() {
	case KindRational:
		r, _ := x.Rational()
		return replaceWithRational(e, r.Abs())
	case KindInfinity:
		return replaceWithInfinity(e, false)
	case KindAbsoluteValue:
		return e.ReplaceWithInPlace(x), nil
	case KindOpposite:
		x.ReplaceWithInPlace(x.ChildAt(0))
		return absoluteValueNode{}.shallowReduce(e, rc)
	}
	return e, nil
}

func (absoluteValueNode) serialize(s *sink, e Expression, f format) {
	prefixForm{}.serialize(s, e, f)
}

func (absoluteValueNode) layout(e Expression, f format) *layout.Node {
	return layout.Bars(layoutOf(e.ChildAt(0), f))
}

type floorNode struct{ prefixForm }

func (floorNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	return reduceRounding(e, rc, exact.Rational.Floor)
}

type ceilingNode struct{ prefixForm }

func (ceilingNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	return reduceRounding(e, rc, exact.Rational.Ceil)
}

// reduceRounding is the law shared by floor and ceil. Rounding an already
// integer-valued floor or ceil is a no-op.
func reduceRounding(e Expression, rc ReductionContext, round func(exact.Rational) exact.Integer) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	x := e.ChildAt(0)
	switch x.Kind() {
	case KindRational:
		r, _ := x.Rational()
		return replaceWithInteger(e, round(r))
	case KindInfinity, KindFloor, KindCeiling:
		return e.ReplaceWithInPlace(x), nil
	}
	return e, nil
}

type sineNode struct{ prefixForm }

var (
	sineOfQuarterTurns   = [4]int64{0, 1, 0, -1}
	cosineOfQuarterTurns = [4]int64{1, 0, -1, 0}
)

func (sineNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	return reduceTrigonometry(e, rc, sineOfQuarterTurns)
}

type cosineNode struct{ prefixForm }

func (cosineNode) shallowReduce(e Expression, rc ReductionContext) (Expression, error) {
	return reduceTrigonometry(e, rc, cosineOfQuarterTurns)
}

// quarterTurn returns a right angle in unit, when it is rational.
func quarterTurn(unit prefs.AngleUnit) (exact.Rational, bool) {
	switch unit {
	case prefs.Degree:
		return exact.Frac(90, 1), true
	case prefs.Gradian:
		return exact.Frac(100, 1), true
	}
	return exact.Rational{}, false
}

// reduceTrigonometry evaluates exactly at multiples of a quarter turn.
func reduceTrigonometry(e Expression, rc ReductionContext, values [4]int64) (Expression, error) {
	if r, done, err := defaultShallowReduce(e, rc); done || err != nil {
		return r, err
	}
	x := e.ChildAt(0)
	if x.Kind() == KindInfinity {
		return replaceWithUndefined(e)
	}
	angle, ok := x.Rational()
	if !ok {
		return e, nil
	}
	var turns exact.Rational
	if angle.IsZero() {
		turns = rationalZero
	} else {
		quarter, ok := quarterTurn(rc.AngleUnit)
		if !ok {
			return e, nil
		}
		turns = angle.Div(quarter).Normalize()
		if !turns.IsInteger() {
			return e, nil
		}
	}
	k, _ := turns.SignedIntegerNumerator().DivMod(exact.NewInteger(4)).Remainder.Int64()
	return replaceWithRational(e, exact.Frac(values[k], 1))
}
