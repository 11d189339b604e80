package expr

import (
	"strings"
	"unicode/utf8"

	"github.com/roach88/graphcalc/internal/layout"
	"github.com/roach88/graphcalc/internal/prefs"
)

// format is the display configuration shared by serialization and layout.
type format struct {
	mode   prefs.FloatMode
	digits int
}

var defaultFormat = format{mode: prefs.Decimal, digits: prefs.DefaultSignificantDigits}

// sink accumulates serialized text, either into a bounded buffer or, when sb
// is set, without limit.
type sink struct {
	buf       []byte
	limit     int
	n         int
	truncated bool
	sb        *strings.Builder
}

func (s *sink) WriteString(str string) {
	if s.sb != nil {
		s.sb.WriteString(str)
		return
	}
	if s.truncated {
		return
	}
	room := s.limit - s.n
	if len(str) > room {
		// Never split a multi-byte rune.
		cut := room
		for cut > 0 && !utf8.RuneStart(str[cut]) {
			cut--
		}
		s.n += copy(s.buf[s.n:], str[:cut])
		s.truncated = true
		return
	}
	s.n += copy(s.buf[s.n:], str)
}

// Serialize writes the textual form of e into buf followed by a NUL byte and
// returns the number of bytes written before the NUL. Output that does not
// fit is cut at a rune boundary; an empty buf receives nothing.
func Serialize(e Expression, buf []byte, mode prefs.FloatMode, digits int) int {
	if len(buf) == 0 {
		return 0
	}
	s := &sink{buf: buf, limit: len(buf) - 1}
	write(s, e, format{mode: mode, digits: digits})
	buf[s.n] = 0
	return s.n
}

// SerializeString returns the full textual form of e.
func SerializeString(e Expression, mode prefs.FloatMode, digits int) string {
	return text(e, format{mode: mode, digits: digits})
}

// text returns the full textual form of e in format f.
func text(e Expression, f format) string {
	var sb strings.Builder
	write(&sink{sb: &sb}, e, f)
	return sb.String()
}

// CreateLayout returns the display layout of e.
func CreateLayout(e Expression, mode prefs.FloatMode, digits int) *layout.Node {
	return layoutOf(e, format{mode: mode, digits: digits})
}

func write(s *sink, e Expression, f format) {
	behavior(e.Kind()).serialize(s, e, f)
}

func layoutOf(e Expression, f format) *layout.Node {
	return behavior(e.Kind()).layout(e, f)
}

// Binding strength of the printed forms, loosest first.
const (
	precAdditive = iota + 1
	precMultiplicative
	precPrefix
	precPower
	precAtom
)

func precedence(e Expression) int {
	switch e.Kind() {
	case KindAddition, KindSubtraction:
		return precAdditive
	case KindMultiplication, KindDivision:
		return precMultiplicative
	case KindOpposite:
		return precPrefix
	case KindPower:
		return precPower
	case KindRational:
		r, _ := e.Rational()
		switch {
		case !r.IsInteger():
			return precMultiplicative
		case r.IsNegative():
			return precPrefix
		}
	case KindInfinity:
		if e.IsNegativeInfinity() {
			return precPrefix
		}
	case KindDecimal:
		if d, _ := e.Decimal(); d.Negative && !d.IsZero() {
			return precPrefix
		}
	}
	return precAtom
}

// leadingMinus reports whether the printed form of e starts with '-'.
func leadingMinus(e Expression) bool {
	switch e.Kind() {
	case KindRational:
		r, _ := e.Rational()
		return r.IsNegative()
	case KindInfinity:
		return e.IsNegativeInfinity()
	case KindDecimal:
		d, _ := e.Decimal()
		return d.Negative && !d.IsZero()
	case KindOpposite:
		return true
	case KindAddition, KindSubtraction, KindMultiplication, KindDivision:
		c := e.ChildAt(0)
		return !needsParens(e, 0, c) && leadingMinus(c)
	}
	return false
}

// needsParens reports whether child i of parent must be parenthesized for
// the text to parse back into the same tree.
func needsParens(parent Expression, i int, child Expression) bool {
	cp := precedence(child)
	switch parent.Kind() {
	case KindAddition:
		return child.Kind() == KindAddition || (i > 0 && (cp <= precAdditive || leadingMinus(child)))
	case KindSubtraction:
		return i > 0 && (cp <= precAdditive || leadingMinus(child))
	case KindMultiplication:
		if child.Kind() == KindMultiplication {
			return true
		}
		if i == 0 {
			return cp < precMultiplicative
		}
		return cp <= precMultiplicative || leadingMinus(child)
	case KindDivision:
		if i == 0 {
			return cp < precMultiplicative
		}
		return cp <= precMultiplicative || leadingMinus(child)
	case KindOpposite:
		return cp < precPrefix || leadingMinus(child)
	case KindPower:
		if i == 0 {
			return cp <= precPower
		}
		return cp < precPower || leadingMinus(child)
	}
	return false
}

func writeOperand(s *sink, parent Expression, i int, f format) {
	c := parent.ChildAt(i)
	if needsParens(parent, i, c) {
		s.WriteString("(")
		write(s, c, f)
		s.WriteString(")")
		return
	}
	write(s, c, f)
}

func layoutOperand(parent Expression, i int, f format) *layout.Node {
	c := parent.ChildAt(i)
	if needsParens(parent, i, c) {
		return layout.Parenthesis(layoutOf(c, f))
	}
	return layoutOf(c, f)
}

// infixForm prints operands joined by an operator.
type infixForm struct {
	op string
}

func (v infixForm) serialize(s *sink, e Expression, f format) {
	n := e.NumberOfChildren()
	for i := 0; i < n; i++ {
		if i > 0 {
			s.WriteString(v.op)
		}
		writeOperand(s, e, i, f)
	}
}

func (v infixForm) layout(e Expression, f format) *layout.Node {
	n := e.NumberOfChildren()
	operands := make([]*layout.Node, n)
	for i := range operands {
		operands[i] = layoutOperand(e, i, f)
	}
	op := v.op
	if op == "*" {
		op = "×"
	}
	return layout.Infix(op, operands...)
}

// prefixForm prints name(arg,...).
type prefixForm struct{}

func (prefixForm) serialize(s *sink, e Expression, f format) {
	name, _ := e.Kind().FunctionName()
	s.WriteString(name)
	s.WriteString("(")
	n := e.NumberOfChildren()
	for i := 0; i < n; i++ {
		if i > 0 {
			s.WriteString(",")
		}
		write(s, e.ChildAt(i), f)
	}
	s.WriteString(")")
}

func (prefixForm) layout(e Expression, f format) *layout.Node {
	name, _ := e.Kind().FunctionName()
	args := make([]*layout.Node, e.NumberOfChildren())
	for i := range args {
		args[i] = layoutOf(e.ChildAt(i), f)
	}
	return layout.Prefix(name, args...)
}
