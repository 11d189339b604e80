package expr

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/graphcalc/internal/exact"
	"github.com/roach88/graphcalc/internal/layout"
	"github.com/roach88/graphcalc/internal/numfmt"
)

type undefinedNode struct{}

func (undefinedNode) shallowReduce(e Expression, _ ReductionContext) (Expression, error) {
	return e, nil
}

func (undefinedNode) serialize(s *sink, _ Expression, _ format) { s.WriteString(numfmt.Undefined) }

func (undefinedNode) layout(Expression, format) *layout.Node { return layout.Text(numfmt.Undefined) }

type infinityNode struct{}

func (infinityNode) shallowReduce(e Expression, _ ReductionContext) (Expression, error) {
	return e, nil
}

func infinityText(e Expression) string {
	if e.IsNegativeInfinity() {
		return numfmt.NegativeInfinity
	}
	return numfmt.Infinity
}

func (infinityNode) serialize(s *sink, e Expression, _ format) { s.WriteString(infinityText(e)) }

func (infinityNode) layout(e Expression, _ format) *layout.Node { return layout.Text(infinityText(e)) }

type rationalNode struct{}

// Rationals are normalized when built.
func (rationalNode) shallowReduce(e Expression, _ ReductionContext) (Expression, error) {
	return e, nil
}

func (rationalNode) serialize(s *sink, e Expression, _ format) {
	r, _ := e.Rational()
	s.WriteString(r.String())
}

func (rationalNode) layout(e Expression, _ format) *layout.Node {
	r, _ := e.Rational()
	if r.IsInteger() {
		return layout.Text(r.String())
	}
	frac := layout.Fraction(
		layout.Text(r.SignedIntegerNumerator().Abs().String()),
		layout.Text(r.IntegerDenominator().String()),
	)
	if r.IsNegative() {
		return layout.Horizontal(layout.Text("-"), frac)
	}
	return frac
}

type decimalNode struct{}

// A decimal literal reduces to the exact rational it denotes.
func (decimalNode) shallowReduce(e Expression, _ ReductionContext) (Expression, error) {
	d, _ := e.Decimal()
	return replaceWithRational(e, decimalToRational(d))
}

func decimalToRational(d *apd.Decimal) exact.Rational {
	coeff, err := exact.ParseInteger(d.Coeff.String())
	if err != nil {
		return exact.IntegerRational(exact.Overflow())
	}
	if d.Negative {
		coeff = coeff.Neg()
	}
	ten := exact.NewInteger(10)
	if d.Exponent >= 0 {
		return exact.IntegerRational(coeff.Mul(ten.Pow(uint(d.Exponent))))
	}
	return exact.NewRational(coeff, ten.Pow(uint(-int64(d.Exponent))))
}

func (decimalNode) serialize(s *sink, e Expression, f format) {
	d, _ := e.Decimal()
	s.WriteString(numfmt.FormatDecimal(d, f.mode, f.digits))
}

func (decimalNode) layout(e Expression, f format) *layout.Node {
	d, _ := e.Decimal()
	return layout.Text(numfmt.FormatDecimal(d, f.mode, f.digits))
}

// Symbols are resolved by the reduction driver, which can detect circular
// definitions across the whole traversal.
type symbolNode struct{}

func (symbolNode) shallowReduce(e Expression, _ ReductionContext) (Expression, error) {
	return e, nil
}

func (symbolNode) serialize(s *sink, e Expression, _ format) { s.WriteString(e.SymbolName()) }

func (symbolNode) layout(e Expression, _ format) *layout.Node { return layout.Text(e.SymbolName()) }

type matrixNode struct{}

func (matrixNode) shallowReduce(e Expression, _ ReductionContext) (Expression, error) {
	return e, nil
}

func (matrixNode) serialize(s *sink, e Expression, f format) {
	rows, cols := e.MatrixDimensions()
	s.WriteString("[")
	for r := 0; r < rows; r++ {
		s.WriteString("[")
		for c := 0; c < cols; c++ {
			if c > 0 {
				s.WriteString(",")
			}
			write(s, e.ChildAt(r*cols+c), f)
		}
		s.WriteString("]")
	}
	s.WriteString("]")
}

func (matrixNode) layout(e Expression, f format) *layout.Node {
	rows, cols := e.MatrixDimensions()
	cells := make([]*layout.Node, rows*cols)
	for i := range cells {
		cells[i] = layoutOf(e.ChildAt(i), f)
	}
	return layout.Grid(rows, cols, cells...)
}
