package expr

import (
	"math"
	"math/cmplx"

	"github.com/roach88/graphcalc/internal/numfmt"
	"github.com/roach88/graphcalc/internal/prefs"
)

// Approximate evaluates e numerically at precision T, whether or not e was
// reduced. Symbols are looked up in ctx; unbound or circular symbols are NaN.
// A NaN operand makes every ancestor NaN.
func Approximate[T numfmt.Float](e Expression, ctx Context, unit prefs.AngleUnit) Evaluation[T] {
	if ctx == nil {
		ctx = EmptyContext{}
	}
	a := &approximator[T]{ctx: ctx, unit: unit, expanding: map[string]bool{}}
	return a.eval(e)
}

type approximator[T numfmt.Float] struct {
	ctx       Context
	unit      prefs.AngleUnit
	expanding map[string]bool
}

func (a *approximator[T]) eval(e Expression) Evaluation[T] {
	switch e.Kind() {
	case KindUndefined:
		return undefinedEvaluation[T]()
	case KindInfinity:
		sign := 1
		if e.IsNegativeInfinity() {
			sign = -1
		}
		return Scalar(Real(T(math.Inf(sign))))
	case KindRational:
		r, _ := e.Rational()
		return Scalar(Real(T(r.Float64())))
	case KindDecimal:
		d, _ := e.Decimal()
		f, err := d.Float64()
		if err != nil {
			return undefinedEvaluation[T]()
		}
		return Scalar(Real(T(f)))
	case KindSymbol:
		return a.symbol(e.SymbolName())
	case KindMatrix:
		rows, cols := e.MatrixDimensions()
		entries := make([]Complex[T], rows*cols)
		for i := range entries {
			entries[i] = a.eval(e.ChildAt(i)).Complex()
		}
		return MatrixEvaluation(rows, cols, entries)
	}

	args := make([]Complex[T], e.NumberOfChildren())
	for i := range args {
		v := a.eval(e.ChildAt(i))
		if v.IsMatrix() || v.IsUndefined() {
			return undefinedEvaluation[T]()
		}
		args[i] = v.scalar
	}
	return Scalar(a.compute(e.Kind(), args))
}

func (a *approximator[T]) symbol(name string) Evaluation[T] {
	if a.expanding[name] {
		return undefinedEvaluation[T]()
	}
	bound, ok := a.ctx.Resolve(name)
	if !ok {
		return undefinedEvaluation[T]()
	}
	a.expanding[name] = true
	defer delete(a.expanding, name)
	return a.eval(bound)
}

func (a *approximator[T]) compute(kind Kind, args []Complex[T]) Complex[T] {
	switch kind {
	case KindAddition:
		acc := args[0]
		for _, x := range args[1:] {
			acc = acc.add(x)
		}
		return acc
	case KindSubtraction:
		return args[0].sub(args[1])
	case KindMultiplication:
		acc := args[0]
		for _, x := range args[1:] {
			acc = acc.mul(x)
		}
		return acc
	case KindDivision:
		return args[0].div(args[1])
	case KindOpposite:
		return args[0].neg()
	case KindPower:
		return power(args[0], args[1])
	case KindDivisionRemainder:
		return integerDivision(args[0], args[1], func(x, y float64) float64 {
			return math.Round(x - y*math.Floor(x/y))
		})
	case KindDivisionQuotient:
		return integerDivision(args[0], args[1], func(x, y float64) float64 {
			return math.Floor(x / y)
		})
	case KindAbsoluteValue:
		if args[0].IsReal() {
			return Real(T(math.Abs(float64(args[0].Re))))
		}
		return Real(T(cmplx.Abs(args[0].complex128())))
	case KindFloor:
		return Real(T(math.Floor(float64(args[0].ToScalar()))))
	case KindCeiling:
		return Real(T(math.Ceil(float64(args[0].ToScalar()))))
	case KindSine:
		return trigonometry(args[0], a.unit, math.Sin, cmplx.Sin)
	case KindCosine:
		return trigonometry(args[0], a.unit, math.Cos, cmplx.Cos)
	}
	panic("expr: no approximation for " + kind.String())
}

func power[T numfmt.Float](base, exponent Complex[T]) Complex[T] {
	if base.IsReal() && exponent.IsReal() {
		b, x := float64(base.Re), float64(exponent.Re)
		if b >= 0 || x == math.Trunc(x) {
			return Real(T(math.Pow(b, x)))
		}
	}
	return snap[T](cmplx.Pow(base.complex128(), exponent.complex128()))
}

// integerDivision applies fn when both operands are real integers, NaN
// otherwise.
func integerDivision[T numfmt.Float](x, y Complex[T], fn func(x, y float64) float64) Complex[T] {
	a, b := float64(x.ToScalar()), float64(y.ToScalar())
	if !isInteger(a) || !isInteger(b) {
		return NaN[T]()
	}
	return Real(T(fn(a, b)))
}

func isInteger(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}

// trigonometry converts the angle to radians and snaps results within
// rounding noise of zero, so that sin(180°) prints 0.
func trigonometry[T numfmt.Float](x Complex[T], unit prefs.AngleUnit, realFn func(float64) float64, complexFn func(complex128) complex128) Complex[T] {
	toRadians := math.Pi / unit.HalfTurn()
	if !x.IsReal() {
		return snap[T](complexFn(x.complex128() * complex(toRadians, 0)))
	}
	rad := float64(x.Re) * toRadians
	if math.IsInf(rad, 0) {
		return NaN[T]()
	}
	r := realFn(rad)
	if math.Abs(r) < 4*epsilon[T]()*math.Max(1, math.Abs(rad)) {
		r = 0
	}
	return Real(T(r))
}

// snap zeroes a part of z that is rounding noise next to the other part, so
// that (-1)^(1/2) prints i.
func snap[T numfmt.Float](z complex128) Complex[T] {
	tol := 4 * epsilon[T]() * cmplx.Abs(z)
	re, im := real(z), imag(z)
	if math.Abs(re) < tol {
		re = 0
	}
	if math.Abs(im) < tol {
		im = 0
	}
	return fromComplex128[T](complex(re, im))
}

func epsilon[T numfmt.Float]() float64 {
	if _, single := any(T(0)).(float32); single {
		return 0x1p-23
	}
	return 0x1p-52
}
