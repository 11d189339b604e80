package expr

import (
	"fmt"

	"github.com/roach88/graphcalc/internal/pool"
)

// Kind identifies an expression variant. It is stored as the node's pool.Tag.
type Kind uint8

const (
	KindUndefined Kind = iota + 1
	KindInfinity
	KindRational
	KindDecimal
	KindSymbol
	KindMatrix
	KindAddition
	KindSubtraction
	KindMultiplication
	KindDivision
	KindOpposite
	KindPower
	KindDivisionRemainder
	KindDivisionQuotient
	KindAbsoluteValue
	KindFloor
	KindCeiling
	KindSine
	KindCosine
)

var kindNames = [...]string{
	KindUndefined:         "Undefined",
	KindInfinity:          "Infinity",
	KindRational:          "Rational",
	KindDecimal:           "Decimal",
	KindSymbol:            "Symbol",
	KindMatrix:            "Matrix",
	KindAddition:          "Addition",
	KindSubtraction:       "Subtraction",
	KindMultiplication:    "Multiplication",
	KindDivision:          "Division",
	KindOpposite:          "Opposite",
	KindPower:             "Power",
	KindDivisionRemainder: "DivisionRemainder",
	KindDivisionQuotient:  "DivisionQuotient",
	KindAbsoluteValue:     "AbsoluteValue",
	KindFloor:             "Floor",
	KindCeiling:           "Ceiling",
	KindSine:              "Sine",
	KindCosine:            "Cosine",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

func (k Kind) tag() pool.Tag { return pool.Tag(k) }

// ParseKind returns the Kind named s, as printed by Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name != "" && name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsLeaf reports whether nodes of this kind never have children.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindUndefined, KindInfinity, KindRational, KindDecimal, KindSymbol:
		return true
	}
	return false
}

// IsNAry reports whether the kind takes two or more operands.
func (k Kind) IsNAry() bool { return k == KindAddition || k == KindMultiplication }

// arity returns the fixed child count, or -1 for n-ary and matrix kinds.
func (k Kind) arity() int {
	switch k {
	case KindUndefined, KindInfinity, KindRational, KindDecimal, KindSymbol:
		return 0
	case KindOpposite, KindAbsoluteValue, KindFloor, KindCeiling, KindSine, KindCosine:
		return 1
	case KindSubtraction, KindDivision, KindPower, KindDivisionRemainder, KindDivisionQuotient:
		return 2
	}
	return -1
}

// scalarOnly reports whether the variant is undefined over matrices.
func (k Kind) scalarOnly() bool {
	switch k {
	case KindDivisionRemainder, KindDivisionQuotient, KindAbsoluteValue,
		KindFloor, KindCeiling, KindSine, KindCosine:
		return true
	}
	return false
}

// FunctionName returns the call name of prefix-notation kinds.
func (k Kind) FunctionName() (string, bool) {
	switch k {
	case KindDivisionRemainder:
		return "rem", true
	case KindDivisionQuotient:
		return "quo", true
	case KindAbsoluteValue:
		return "abs", true
	case KindFloor:
		return "floor", true
	case KindCeiling:
		return "ceil", true
	case KindSine:
		return "sin", true
	case KindCosine:
		return "cos", true
	}
	return "", false
}

// FunctionKind is the inverse of FunctionName.
func FunctionKind(name string) (Kind, bool) {
	for k := KindDivisionRemainder; k <= KindCosine; k++ {
		if n, ok := k.FunctionName(); ok && n == name {
			return k, true
		}
	}
	return 0, false
}

// FunctionArity returns the argument count of a prefix-notation kind.
func (k Kind) FunctionArity() int { return k.arity() }
