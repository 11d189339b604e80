package exact

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Rational is an immutable fraction with a strictly positive denominator.
// The zero value is 0/1.
type Rational struct {
	num Integer
	den Integer
}

// NewRational returns num/den. It panics if den is zero.
func NewRational(num, den Integer) Rational {
	if den.IsZero() {
		panic("exact: zero denominator")
	}
	if den.IsNegative() {
		num, den = num.Neg(), den.Neg()
	}
	return Rational{num: num, den: den}
}

// IntegerRational returns n/1.
func IntegerRational(n Integer) Rational {
	return Rational{num: n, den: NewInteger(1)}
}

// Frac returns p/q for machine integers.
func Frac(p, q int64) Rational {
	return NewRational(NewInteger(p), NewInteger(q))
}

// ParseRational parses "p" or "p/q".
func ParseRational(s string) (Rational, error) {
	numStr, denStr, hasDen := strings.Cut(s, "/")
	num, err := ParseInteger(numStr)
	if err != nil {
		return Rational{}, err
	}
	if !hasDen {
		return IntegerRational(num), nil
	}
	den, err := ParseInteger(denStr)
	if err != nil {
		return Rational{}, err
	}
	if den.IsZero() {
		return Rational{}, fmt.Errorf("zero denominator in %q", s)
	}
	return NewRational(num, den), nil
}

func (r Rational) denominator() Integer {
	if r.den.v == nil && !r.den.overflow {
		return NewInteger(1)
	}
	return r.den
}

// SignedIntegerNumerator returns the numerator with its sign.
func (r Rational) SignedIntegerNumerator() Integer { return r.num }

// IntegerDenominator returns the positive denominator.
func (r Rational) IntegerDenominator() Integer { return r.denominator() }

// IsOverflow reports whether either part overflowed.
func (r Rational) IsOverflow() bool { return r.num.overflow || r.denominator().overflow }

// IsZero reports whether r is 0.
func (r Rational) IsZero() bool { return r.num.IsZero() }

// IsOne reports whether r is 1.
func (r Rational) IsOne() bool { return !r.IsOverflow() && r.num.Equal(r.denominator()) }

// IsMinusOne reports whether r is -1.
func (r Rational) IsMinusOne() bool { return !r.IsOverflow() && r.num.Neg().Equal(r.denominator()) }

// IsNegative reports whether r is strictly negative.
func (r Rational) IsNegative() bool { return r.num.IsNegative() }

// Sign returns -1, 0 or +1.
func (r Rational) Sign() int { return r.num.Sign() }

// IsInteger reports whether the normalized denominator is 1.
func (r Rational) IsInteger() bool {
	if r.IsOverflow() {
		return false
	}
	return r.Normalize().denominator().IsOne()
}

// Normalize returns r in lowest terms.
func (r Rational) Normalize() Rational {
	den := r.denominator()
	if r.IsOverflow() || den.IsOne() {
		return Rational{num: r.num, den: den}
	}
	if r.num.IsZero() {
		return Rational{num: NewInteger(0), den: NewInteger(1)}
	}
	g := GCD(r.num, den)
	if g.IsOne() {
		return Rational{num: r.num, den: den}
	}
	return Rational{
		num: r.num.DivMod(g).Quotient,
		den: den.DivMod(g).Quotient,
	}
}

// Add returns r+s.
func (r Rational) Add(s Rational) Rational {
	rd, sd := r.denominator(), s.denominator()
	if rd.Equal(sd) {
		return Rational{num: r.num.Add(s.num), den: rd}
	}
	return Rational{
		num: r.num.Mul(sd).Add(s.num.Mul(rd)),
		den: rd.Mul(sd),
	}
}

// Sub returns r-s.
func (r Rational) Sub(s Rational) Rational { return r.Add(s.Neg()) }

// Mul returns r*s.
func (r Rational) Mul(s Rational) Rational {
	return Rational{num: r.num.Mul(s.num), den: r.denominator().Mul(s.denominator())}
}

// Div returns r/s. It panics if s is zero.
func (r Rational) Div(s Rational) Rational {
	if s.IsZero() {
		panic("exact: rational division by zero")
	}
	return NewRational(r.num.Mul(s.denominator()), r.denominator().Mul(s.num))
}

// Neg returns -r.
func (r Rational) Neg() Rational { return Rational{num: r.num.Neg(), den: r.denominator()} }

// Abs returns |r|.
func (r Rational) Abs() Rational { return Rational{num: r.num.Abs(), den: r.denominator()} }

// Inverse returns 1/r. It panics if r is zero.
func (r Rational) Inverse() Rational { return IntegerRational(NewInteger(1)).Div(r) }

// Pow returns r raised to an integer exponent. It panics for 0 and a
// negative exponent.
func (r Rational) Pow(exp int64) Rational {
	if exp < 0 {
		return r.Inverse().Pow(-exp)
	}
	return Rational{num: r.num.Pow(uint(exp)), den: r.denominator().Pow(uint(exp))}
}

// Floor returns the greatest integer not above r.
func (r Rational) Floor() Integer {
	return r.num.DivMod(r.denominator()).Quotient
}

// Ceil returns the least integer not below r.
func (r Rational) Ceil() Integer {
	d := r.num.DivMod(r.denominator())
	if d.Remainder.IsZero() {
		return d.Quotient
	}
	return d.Quotient.Add(NewInteger(1))
}

// Compare returns -1, 0 or +1.
func (r Rational) Compare(s Rational) int {
	return r.num.Mul(s.denominator()).Compare(s.num.Mul(r.denominator()))
}

// Equal reports whether r and s denote the same number.
func (r Rational) Equal(s Rational) bool { return r.Compare(s) == 0 }

// Float64 returns the nearest float64.
func (r Rational) Float64() float64 {
	if r.IsOverflow() {
		if r.num.overflow && !r.denominator().overflow {
			return math.Inf(r.num.Sign())
		}
		return math.NaN()
	}
	f, _ := new(big.Rat).SetFrac(r.num.big(), r.denominator().big()).Float64()
	return f
}

// String prints the normalized form "p" or "p/q".
func (r Rational) String() string {
	n := r.Normalize()
	if n.denominator().IsOne() {
		return n.num.String()
	}
	return n.num.String() + "/" + n.denominator().String()
}
