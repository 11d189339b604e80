package regression

import (
	"fmt"

	"github.com/roach88/graphcalc/internal/expr"
	"github.com/roach88/graphcalc/internal/layout"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
)

// CubicModel is y = a·x³ + b·x² + c·x + d, coefficients in that order.
type CubicModel struct{}

// NumberOfCoefficients returns 4.
func (CubicModel) NumberOfCoefficients() int { return 4 }

// Evaluate returns the model at x.
func (CubicModel) Evaluate(coeffs []float64, x float64) float64 {
	a, b, c, d := coeffs[0], coeffs[1], coeffs[2], coeffs[3]
	return ((a*x+b)*x+c)*x + d
}

// PartialDerivative returns x³, x², x or 1 for coefficient 0 to 3. It does
// not depend on the coefficients.
func (CubicModel) PartialDerivative(_ []float64, i int, x float64) float64 {
	switch i {
	case 0:
		return x * x * x
	case 1:
		return x * x
	case 2:
		return x
	case 3:
		return 1
	}
	panic(fmt.Sprintf("regression: cubic coefficient index %d out of range", i))
}

// Layout builds a×x^3+b×x^2+c×x+d in a and returns its display layout. The
// tree is released before returning.
func (CubicModel) Layout(a *pool.Arena, p prefs.Preferences) (*layout.Node, error) {
	b := expr.NewBuilder(a)
	e := b.Add(
		b.Multiply(b.Symbol("a"), b.Power(b.Symbol("x"), b.Integer(3))),
		b.Multiply(b.Symbol("b"), b.Power(b.Symbol("x"), b.Integer(2))),
		b.Multiply(b.Symbol("c"), b.Symbol("x")),
		b.Symbol("d"),
	)
	if err := b.Err(); err != nil {
		return nil, fmt.Errorf("cubic layout: %w", err)
	}
	defer e.Release()
	return expr.CreateLayout(e, p.FloatMode, p.SignificantDigits), nil
}
