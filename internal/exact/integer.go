package exact

import (
	"fmt"
	"math"
	"math/big"
)

// MaxBits bounds the magnitude of an Integer.
const MaxBits = 1024

// Integer is an immutable signed integer of at most MaxBits bits.
// The zero value is 0. An overflowed Integer keeps only its sign.
type Integer struct {
	v        *big.Int
	overflow bool
	negative bool // overflow only
}

var bigZero = new(big.Int)

// NewInteger creates an Integer from an int64.
func NewInteger(n int64) Integer {
	return Integer{v: big.NewInt(n)}
}

// Overflow returns the positive overflow integer.
func Overflow() Integer {
	return Integer{overflow: true}
}

// NegativeOverflow returns the negative overflow integer.
func NegativeOverflow() Integer {
	return Integer{overflow: true, negative: true}
}

func overflowWithSign(negative bool) Integer {
	return Integer{overflow: true, negative: negative}
}

// ParseInteger parses a base-10 integer with an optional leading sign.
func ParseInteger(s string) (Integer, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Integer{}, fmt.Errorf("invalid integer %q", s)
	}
	return fromBig(v), nil
}

// FromBig copies v into an Integer.
func FromBig(v *big.Int) Integer {
	return fromBig(new(big.Int).Set(v))
}

// fromBig takes ownership of v.
func fromBig(v *big.Int) Integer {
	if v.BitLen() > MaxBits {
		return overflowWithSign(v.Sign() < 0)
	}
	return Integer{v: v}
}

func (i Integer) big() *big.Int {
	if i.v == nil {
		return bigZero
	}
	return i.v
}

// Big returns a copy of the magnitude and sign. The overflow integer yields nil.
func (i Integer) Big() *big.Int {
	if i.overflow {
		return nil
	}
	return new(big.Int).Set(i.big())
}

// IsOverflow reports whether i is the overflow integer.
func (i Integer) IsOverflow() bool { return i.overflow }

// IsZero reports whether i is 0.
func (i Integer) IsZero() bool { return !i.overflow && i.big().Sign() == 0 }

// IsOne reports whether i is 1.
func (i Integer) IsOne() bool { return !i.overflow && i.big().IsInt64() && i.big().Int64() == 1 }

// IsMinusOne reports whether i is -1.
func (i Integer) IsMinusOne() bool { return !i.overflow && i.big().IsInt64() && i.big().Int64() == -1 }

// IsNegative reports whether i is strictly negative.
func (i Integer) IsNegative() bool { return i.Sign() < 0 }

// Sign returns -1, 0 or +1. Overflow is never 0.
func (i Integer) Sign() int {
	if i.overflow {
		if i.negative {
			return -1
		}
		return 1
	}
	return i.big().Sign()
}

// BitLen returns the length of the magnitude in bits. Overflow reports
// MaxBits+1.
func (i Integer) BitLen() int {
	if i.overflow {
		return MaxBits + 1
	}
	return i.big().BitLen()
}

// Int64 returns i as an int64 and whether it fits.
func (i Integer) Int64() (int64, bool) {
	if i.overflow || !i.big().IsInt64() {
		return 0, false
	}
	return i.big().Int64(), true
}

// Float64 returns the nearest float64. Overflow is an infinity of its sign.
func (i Integer) Float64() float64 {
	if i.overflow {
		return math.Inf(i.Sign())
	}
	f, _ := new(big.Float).SetInt(i.big()).Float64()
	return f
}

// overflowSum is the overflow result of a sum with an overflowed operand.
// The overflowed operand dominates; two of them keep the first one's sign.
func overflowSum(i, j Integer) Integer {
	if i.overflow {
		return i
	}
	return j
}

// Add returns i+j.
func (i Integer) Add(j Integer) Integer {
	if i.overflow || j.overflow {
		return overflowSum(i, j)
	}
	return fromBig(new(big.Int).Add(i.big(), j.big()))
}

// Sub returns i-j.
func (i Integer) Sub(j Integer) Integer {
	if i.overflow || j.overflow {
		return overflowSum(i, j.Neg())
	}
	return fromBig(new(big.Int).Sub(i.big(), j.big()))
}

// Mul returns i*j. An overflowed factor times zero is still overflow.
func (i Integer) Mul(j Integer) Integer {
	if i.overflow || j.overflow {
		return overflowWithSign(i.IsNegative() != j.IsNegative())
	}
	return fromBig(new(big.Int).Mul(i.big(), j.big()))
}

// Neg returns -i.
func (i Integer) Neg() Integer {
	if i.overflow {
		return overflowWithSign(!i.negative)
	}
	return Integer{v: new(big.Int).Neg(i.big())}
}

// Abs returns |i|.
func (i Integer) Abs() Integer {
	if i.overflow {
		return Overflow()
	}
	return Integer{v: new(big.Int).Abs(i.big())}
}

// Pow returns i raised to exp.
func (i Integer) Pow(exp uint) Integer {
	negative := i.IsNegative() && exp%2 == 1
	if i.overflow {
		if exp == 0 {
			return NewInteger(1)
		}
		return overflowWithSign(negative)
	}
	b := i.big()
	// Cheap size estimate before doing the work.
	if b.BitLen() > 1 && uint64(b.BitLen()-1)*uint64(exp) > MaxBits {
		return overflowWithSign(negative)
	}
	return fromBig(new(big.Int).Exp(b, big.NewInt(int64(exp)), nil))
}

// Division is the result of a floored integer division.
type Division struct {
	Quotient  Integer
	Remainder Integer
}

// DivMod divides i by j with the floored convention: the remainder has the
// sign of the divisor and i == j*Quotient + Remainder.
// It panics if j is zero.
func (i Integer) DivMod(j Integer) Division {
	if i.overflow || j.overflow {
		q := overflowWithSign(i.IsNegative() != j.IsNegative())
		return Division{Quotient: q, Remainder: q}
	}
	if j.IsZero() {
		panic("exact: integer division by zero")
	}
	q, r := new(big.Int).QuoRem(i.big(), j.big(), new(big.Int))
	if r.Sign() != 0 && r.Sign() != j.big().Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, j.big())
	}
	return Division{Quotient: fromBig(q), Remainder: fromBig(r)}
}

// Compare returns -1, 0 or +1. Positive overflow compares greater than
// every finite integer and negative overflow less; overflows of the same
// sign compare equal.
func (i Integer) Compare(j Integer) int {
	switch {
	case i.overflow && j.overflow:
		if i.negative == j.negative {
			return 0
		}
		return i.Sign()
	case i.overflow:
		return i.Sign()
	case j.overflow:
		return -j.Sign()
	}
	return i.big().Cmp(j.big())
}

// Equal reports whether i and j are the same integer.
func (i Integer) Equal(j Integer) bool { return i.Compare(j) == 0 }

// GCD returns the non-negative greatest common divisor of i and j.
func GCD(i, j Integer) Integer {
	if i.overflow || j.overflow {
		return Overflow()
	}
	a := new(big.Int).Abs(i.big())
	b := new(big.Int).Abs(j.big())
	return Integer{v: new(big.Int).GCD(nil, nil, a, b)}
}

// String returns the base-10 representation. Overflow prints as "inf" or
// "-inf".
func (i Integer) String() string {
	if i.overflow {
		if i.negative {
			return "-inf"
		}
		return "inf"
	}
	return i.big().String()
}
