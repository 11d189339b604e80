package regression

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/graphcalc/internal/layout"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
)

// Fit limits.
const (
	maxIterations = 100
	tolerance     = 1e-12
)

var (
	// ErrTooFewPoints is returned when there are fewer points than coefficients.
	ErrTooFewPoints = errors.New("not enough data points")

	// ErrSingular is returned when the points do not determine the coefficients,
	// for example when every point has the same x.
	ErrSingular = errors.New("data points do not determine the model")
)

// Model is a regression model y = f(coefficients, x).
type Model interface {
	// NumberOfCoefficients is the length of every coefficient slice.
	NumberOfCoefficients() int
	Evaluate(coeffs []float64, x float64) float64
	// PartialDerivative is the derivative of Evaluate with respect to
	// coefficient i at x.
	PartialDerivative(coeffs []float64, i int, x float64) float64
	// Layout returns the display form of the model with symbolic coefficients.
	Layout(a *pool.Arena, p prefs.Preferences) (*layout.Node, error)
}

// Point is one data point.
type Point struct {
	X, Y float64
}

// Fit returns the coefficients of m that best fit points.
func Fit(m Model, points []Point) ([]float64, error) {
	k := m.NumberOfCoefficients()
	if len(points) < k {
		return nil, fmt.Errorf("fit %d coefficients to %d points: %w", k, len(points), ErrTooFewPoints)
	}

	coeffs := make([]float64, k)
	normal := make([][]float64, k)
	for i := range normal {
		normal[i] = make([]float64, k+1)
	}
	gradient := make([]float64, k)

	for iter := 0; iter < maxIterations; iter++ {
		for i := range normal {
			clear(normal[i])
		}
		for _, pt := range points {
			residual := pt.Y - m.Evaluate(coeffs, pt.X)
			for i := 0; i < k; i++ {
				gradient[i] = m.PartialDerivative(coeffs, i, pt.X)
			}
			for i := 0; i < k; i++ {
				for j := 0; j < k; j++ {
					normal[i][j] += gradient[i] * gradient[j]
				}
				normal[i][k] += gradient[i] * residual
			}
		}

		step, err := solve(normal)
		if err != nil {
			return nil, err
		}
		converged := true
		for i, d := range step {
			coeffs[i] += d
			if math.Abs(d) > tolerance*(1+math.Abs(coeffs[i])) {
				converged = false
			}
		}
		if converged {
			break
		}
	}
	return coeffs, nil
}

// solve reduces the augmented k×(k+1) system in place by Gaussian
// elimination with partial pivoting.
func solve(m [][]float64) ([]float64, error) {
	k := len(m)
	scale := 0.0
	for i := range m {
		scale = math.Max(scale, math.Abs(m[i][i]))
	}
	for col := 0; col < k; col++ {
		pivot := col
		for row := col + 1; row < k; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) <= 1e-12*scale {
			return nil, ErrSingular
		}
		m[col], m[pivot] = m[pivot], m[col]
		for row := col + 1; row < k; row++ {
			f := m[row][col] / m[col][col]
			for j := col; j <= k; j++ {
				m[row][j] -= f * m[col][j]
			}
		}
	}

	x := make([]float64, k)
	for row := k - 1; row >= 0; row-- {
		sum := m[row][k]
		for j := row + 1; j < k; j++ {
			sum -= m[row][j] * x[j]
		}
		x[row] = sum / m[row][row]
	}
	return x, nil
}
