// Package numfmt prints approximate values and decimal literals the way the
// calculator displays them: rounded to a number of significant digits, in
// decimal or scientific notation, with "undef" and "inf" for the non-finite
// outcomes.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/graphcalc/internal/prefs"
)

// Float is the set of scalar precisions the evaluator is instantiated for.
type Float interface {
	~float32 | ~float64
}

// Display strings for non-finite outcomes.
const (
	Undefined        = "undef"
	Infinity         = "inf"
	NegativeInfinity = "-inf"
)

// float32 carries about 7 reliable decimal digits.
const float32Digits = 7

// smallestPlainExponent is the smallest decimal exponent printed without
// switching to scientific notation in decimal mode.
const smallestPlainExponent = -4

func roundingContext(digits int) *apd.Context {
	if digits < prefs.MinSignificantDigits {
		digits = prefs.MinSignificantDigits
	}
	return &apd.Context{
		Precision:   uint32(digits),
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Rounding:    apd.RoundHalfEven,
		Traps:       apd.DefaultTraps,
	}
}

// ParseDecimal parses a decimal literal such as "1.25" or "3E-2" exactly.
func ParseDecimal(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// FormatDecimal rounds d to digits significant digits and prints it.
func FormatDecimal(d *apd.Decimal, mode prefs.FloatMode, digits int) string {
	switch d.Form {
	case apd.NaN, apd.NaNSignaling:
		return Undefined
	case apd.Infinite:
		if d.Negative {
			return NegativeInfinity
		}
		return Infinity
	}

	r := new(apd.Decimal)
	if _, err := roundingContext(digits).Round(r, d); err != nil {
		return Undefined
	}

	coeff := r.Coeff.String()
	exp := int(r.Exponent)
	for len(coeff) > 1 && coeff[len(coeff)-1] == '0' {
		coeff = coeff[:len(coeff)-1]
		exp++
	}
	if coeff == "0" {
		return "0"
	}

	sign := ""
	if r.Negative {
		sign = "-"
	}
	sciExp := exp + len(coeff) - 1
	if mode == prefs.Scientific || sciExp >= digits || sciExp < smallestPlainExponent {
		mantissa := coeff[:1]
		if len(coeff) > 1 {
			mantissa += "." + coeff[1:]
		}
		return sign + mantissa + "E" + strconv.Itoa(sciExp)
	}
	return sign + plain(coeff, exp)
}

// plain prints coeff×10^exp without an exponent.
func plain(coeff string, exp int) string {
	if exp >= 0 {
		return coeff + strings.Repeat("0", exp)
	}
	point := len(coeff) + exp
	if point > 0 {
		return coeff[:point] + "." + coeff[point:]
	}
	return "0." + strings.Repeat("0", -point) + coeff
}

// FormatFloat prints an approximate scalar.
func FormatFloat[T Float](f T, mode prefs.FloatMode, digits int) string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return Undefined
	case math.IsInf(v, 1):
		return Infinity
	case math.IsInf(v, -1):
		return NegativeInfinity
	}
	if _, single := any(f).(float32); single && digits > float32Digits {
		digits = float32Digits
	}
	d := new(apd.Decimal)
	if _, err := d.SetFloat64(v); err != nil {
		return Undefined
	}
	return FormatDecimal(d, mode, digits)
}

// FormatComplex prints re+im*i, dropping a zero part.
func FormatComplex[T Float](re, im T, mode prefs.FloatMode, digits int) string {
	if math.IsNaN(float64(re)) || math.IsNaN(float64(im)) {
		return Undefined
	}
	if im == 0 {
		return FormatFloat(re, mode, digits)
	}

	imag := "i"
	if abs := math.Abs(float64(im)); abs != 1 {
		imag = FormatFloat(T(abs), mode, digits) + "*i"
	}
	if re == 0 {
		if im < 0 {
			return "-" + imag
		}
		return imag
	}
	sep := "+"
	if im < 0 {
		sep = "-"
	}
	return FormatFloat(re, mode, digits) + sep + imag
}
