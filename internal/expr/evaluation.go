package expr

import (
	"math"
	"strings"

	"github.com/roach88/graphcalc/internal/numfmt"
	"github.com/roach88/graphcalc/internal/prefs"
)

// Complex is a complex scalar over precision T.
type Complex[T numfmt.Float] struct {
	Re, Im T
}

// Real returns x + 0i.
func Real[T numfmt.Float](x T) Complex[T] { return Complex[T]{Re: x} }

// NaN returns the undefined scalar.
func NaN[T numfmt.Float]() Complex[T] {
	nan := T(math.NaN())
	return Complex[T]{Re: nan, Im: nan}
}

// IsNaN reports whether either part is not-a-number.
func (c Complex[T]) IsNaN() bool {
	return math.IsNaN(float64(c.Re)) || math.IsNaN(float64(c.Im))
}

// IsReal reports whether the imaginary part is zero.
func (c Complex[T]) IsReal() bool { return c.Im == 0 }

// ToScalar projects c onto the reals: the real part when the imaginary part
// is zero, NaN otherwise.
func (c Complex[T]) ToScalar() T {
	if c.IsNaN() || c.Im != 0 {
		return T(math.NaN())
	}
	return c.Re
}

func (c Complex[T]) complex128() complex128 {
	return complex(float64(c.Re), float64(c.Im))
}

func fromComplex128[T numfmt.Float](z complex128) Complex[T] {
	return Complex[T]{Re: T(real(z)), Im: T(imag(z))}
}

func (c Complex[T]) add(d Complex[T]) Complex[T] {
	return Complex[T]{Re: c.Re + d.Re, Im: c.Im + d.Im}
}

func (c Complex[T]) sub(d Complex[T]) Complex[T] {
	return Complex[T]{Re: c.Re - d.Re, Im: c.Im - d.Im}
}

func (c Complex[T]) mul(d Complex[T]) Complex[T] {
	if c.Im == 0 && d.Im == 0 {
		return Real(c.Re * d.Re)
	}
	return Complex[T]{Re: c.Re*d.Re - c.Im*d.Im, Im: c.Re*d.Im + c.Im*d.Re}
}

// div keeps IEEE semantics for real operands, so 1/0 is +Inf.
func (c Complex[T]) div(d Complex[T]) Complex[T] {
	if c.Im == 0 && d.Im == 0 {
		return Real(c.Re / d.Re)
	}
	den := d.Re*d.Re + d.Im*d.Im
	return Complex[T]{
		Re: (c.Re*d.Re + c.Im*d.Im) / den,
		Im: (c.Im*d.Re - c.Re*d.Im) / den,
	}
}

func (c Complex[T]) neg() Complex[T] { return Complex[T]{Re: -c.Re, Im: -c.Im} }

// Format prints c with the display preferences.
func (c Complex[T]) Format(p prefs.Preferences) string {
	return numfmt.FormatComplex(c.Re, c.Im, p.FloatMode, p.SignificantDigits)
}

// Evaluation is the result of approximating an expression: a complex scalar
// or a matrix of complex scalars.
type Evaluation[T numfmt.Float] struct {
	scalar     Complex[T]
	rows, cols int
	entries    []Complex[T]
}

// Scalar returns an Evaluation holding c.
func Scalar[T numfmt.Float](c Complex[T]) Evaluation[T] {
	return Evaluation[T]{scalar: c}
}

func undefinedEvaluation[T numfmt.Float]() Evaluation[T] {
	return Scalar(NaN[T]())
}

// MatrixEvaluation returns a rows×cols matrix of entries in row-major order.
func MatrixEvaluation[T numfmt.Float](rows, cols int, entries []Complex[T]) Evaluation[T] {
	if len(entries) != rows*cols {
		panic("expr: matrix evaluation shape mismatch")
	}
	return Evaluation[T]{rows: rows, cols: cols, entries: entries}
}

// IsMatrix reports whether v is a matrix.
func (v Evaluation[T]) IsMatrix() bool { return v.rows > 0 }

// Dimensions returns the matrix shape, or 0, 0 for a scalar.
func (v Evaluation[T]) Dimensions() (rows, cols int) { return v.rows, v.cols }

// Entries returns the matrix entries in row-major order.
func (v Evaluation[T]) Entries() []Complex[T] { return v.entries }

// Complex returns the scalar value. Matrices yield NaN.
func (v Evaluation[T]) Complex() Complex[T] {
	if v.IsMatrix() {
		return NaN[T]()
	}
	return v.scalar
}

// ToScalar returns the real scalar value, or NaN when v is a matrix or has a
// non-zero imaginary part.
func (v Evaluation[T]) ToScalar() T { return v.Complex().ToScalar() }

// IsUndefined reports whether v is NaN, or a matrix with a NaN entry.
func (v Evaluation[T]) IsUndefined() bool {
	if !v.IsMatrix() {
		return v.scalar.IsNaN()
	}
	for _, c := range v.entries {
		if c.IsNaN() {
			return true
		}
	}
	return false
}

// Format prints v with the display preferences.
func (v Evaluation[T]) Format(p prefs.Preferences) string {
	if !v.IsMatrix() {
		return v.scalar.Format(p)
	}
	var b strings.Builder
	b.WriteString("[")
	for r := 0; r < v.rows; r++ {
		b.WriteString("[")
		for c := 0; c < v.cols; c++ {
			if c > 0 {
				b.WriteString(",")
			}
			b.WriteString(v.entries[r*v.cols+c].Format(p))
		}
		b.WriteString("]")
	}
	b.WriteString("]")
	return b.String()
}
