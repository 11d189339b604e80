package expr

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/graphcalc/internal/exact"
	"github.com/roach88/graphcalc/internal/pool"
)

// Payload sizes charged against the arena, in bytes.
const (
	infinityPayloadSize = 1
	matrixPayloadSize   = 8
	numberPayloadBase   = 8
)

// NormalizeName returns the NFC form of a symbol name. Symbols are compared
// and bound by their normalized name.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

func rationalPayloadSize(r exact.Rational) int {
	bits := r.SignedIntegerNumerator().BitLen() + r.IntegerDenominator().BitLen()
	return numberPayloadBase + (bits+7)/8
}

func decimalPayloadSize(d *apd.Decimal) int {
	return numberPayloadBase + int(d.NumDigits()+1)/2
}

// Builder constructs trees in an arena. The first allocation failure is
// sticky: later calls return the nil Expression, and every subtree passed to
// a failing call is released so nothing leaks.
//
//	b := expr.NewBuilder(arena)
//	e := b.Remainder(b.Integer(10), b.Integer(3))
//	if err := b.Err(); err != nil {
//		return err
//	}
type Builder struct {
	arena *pool.Arena
	err   error
}

// NewBuilder returns a builder allocating in a.
func NewBuilder(a *pool.Arena) *Builder {
	return &Builder{arena: a}
}

// Arena returns the arena the builder allocates in.
func (b *Builder) Arena() *pool.Arena { return b.arena }

// Err returns the first allocation failure.
func (b *Builder) Err() error { return b.err }

// Reset clears a recorded failure.
func (b *Builder) Reset() { b.err = nil }

func (b *Builder) discard(children []Expression) {
	for _, c := range children {
		if c.Valid() {
			if _, ok := c.Parent(); !ok {
				c.Release()
			}
		}
	}
}

func (b *Builder) node(kind Kind, payloadSize int, payload any, children ...Expression) Expression {
	if b.err == nil {
		for _, c := range children {
			if c.IsNil() {
				b.err = fmt.Errorf("build %s: missing operand", kind)
				break
			}
		}
	}
	if b.err != nil {
		b.discard(children)
		return Expression{}
	}
	h, err := b.arena.Allocate(kind.tag(), len(children), payloadSize, payload)
	if err != nil {
		b.err = fmt.Errorf("build %s: %w", kind, err)
		b.discard(children)
		return Expression{}
	}
	for i, c := range children {
		if c.arena != b.arena {
			panic("expr: operand lives in a different arena")
		}
		b.arena.Attach(h, i, c.h)
	}
	return Expression{arena: b.arena, h: h}
}

// Undefined returns the undefined terminal.
func (b *Builder) Undefined() Expression { return b.node(KindUndefined, 0, nil) }

// Infinity returns +inf, or -inf when negative is set.
func (b *Builder) Infinity(negative bool) Expression {
	return b.node(KindInfinity, infinityPayloadSize, negative)
}

// Rational returns an exact number. It is stored normalized; an overflowed
// value yields Undefined.
func (b *Builder) Rational(r exact.Rational) Expression {
	if r.IsOverflow() {
		return b.Undefined()
	}
	r = r.Normalize()
	return b.node(KindRational, rationalPayloadSize(r), r)
}

// Integer returns the rational n.
func (b *Builder) Integer(n int64) Expression {
	return b.Rational(exact.IntegerRational(exact.NewInteger(n)))
}

// Fraction returns the rational p/q. It panics if q is zero.
func (b *Builder) Fraction(p, q int64) Expression {
	return b.Rational(exact.Frac(p, q))
}

// Decimal returns a decimal literal. d must not be modified afterwards.
func (b *Builder) Decimal(d *apd.Decimal) Expression {
	if d.Form != apd.Finite {
		panic("expr: decimal literal must be finite")
	}
	return b.node(KindDecimal, decimalPayloadSize(d), d)
}

// Symbol returns a named variable.
func (b *Builder) Symbol(name string) Expression {
	name = NormalizeName(name)
	if name == "" {
		panic("expr: empty symbol name")
	}
	return b.node(KindSymbol, len(name)+1, name)
}

// Matrix returns a rows×cols matrix with entries in row-major order.
func (b *Builder) Matrix(rows, cols int, entries ...Expression) Expression {
	if rows <= 0 || cols <= 0 || len(entries) != rows*cols {
		panic(fmt.Sprintf("expr: %d entries for a %dx%d matrix", len(entries), rows, cols))
	}
	return b.node(KindMatrix, matrixPayloadSize, matrixShape{rows: rows, cols: cols}, entries...)
}

func (b *Builder) nary(kind Kind, operands []Expression) Expression {
	if len(operands) < 2 {
		panic(fmt.Sprintf("expr: %s needs at least two operands, got %d", kind, len(operands)))
	}
	return b.node(kind, 0, nil, operands...)
}

// Add returns the sum of two or more terms.
func (b *Builder) Add(terms ...Expression) Expression { return b.nary(KindAddition, terms) }

// Multiply returns the product of two or more factors.
func (b *Builder) Multiply(factors ...Expression) Expression {
	return b.nary(KindMultiplication, factors)
}

// Subtract returns x - y.
func (b *Builder) Subtract(x, y Expression) Expression { return b.node(KindSubtraction, 0, nil, x, y) }

// Divide returns x / y.
func (b *Builder) Divide(x, y Expression) Expression { return b.node(KindDivision, 0, nil, x, y) }

// Opposite returns -x.
func (b *Builder) Opposite(x Expression) Expression { return b.node(KindOpposite, 0, nil, x) }

// Power returns base^exponent.
func (b *Builder) Power(base, exponent Expression) Expression {
	return b.node(KindPower, 0, nil, base, exponent)
}

// Remainder returns rem(dividend, divisor).
func (b *Builder) Remainder(dividend, divisor Expression) Expression {
	return b.node(KindDivisionRemainder, 0, nil, dividend, divisor)
}

// Quotient returns quo(dividend, divisor).
func (b *Builder) Quotient(dividend, divisor Expression) Expression {
	return b.node(KindDivisionQuotient, 0, nil, dividend, divisor)
}

// Abs returns abs(x).
func (b *Builder) Abs(x Expression) Expression { return b.node(KindAbsoluteValue, 0, nil, x) }

// Floor returns floor(x).
func (b *Builder) Floor(x Expression) Expression { return b.node(KindFloor, 0, nil, x) }

// Ceiling returns ceil(x).
func (b *Builder) Ceiling(x Expression) Expression { return b.node(KindCeiling, 0, nil, x) }

// Sine returns sin(x).
func (b *Builder) Sine(x Expression) Expression { return b.node(KindSine, 0, nil, x) }

// Cosine returns cos(x).
func (b *Builder) Cosine(x Expression) Expression { return b.node(KindCosine, 0, nil, x) }

// Function builds a prefix-notation kind from its arguments.
func (b *Builder) Function(kind Kind, args ...Expression) Expression {
	if _, ok := kind.FunctionName(); !ok {
		panic(fmt.Sprintf("expr: %s is not a function", kind))
	}
	if len(args) != kind.arity() {
		panic(fmt.Sprintf("expr: %s takes %d arguments, got %d", kind, kind.arity(), len(args)))
	}
	return b.node(kind, 0, nil, args...)
}
