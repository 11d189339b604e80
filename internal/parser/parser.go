package parser

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/graphcalc/internal/exact"
	"github.com/roach88/graphcalc/internal/expr"
	"github.com/roach88/graphcalc/internal/numfmt"
)

// Binding powers. A left-associative operator parses its right operand one
// level tighter; "^" parses it at its own level.
const (
	bpNone = iota
	bpAdditive
	bpMultiplicative
	bpPrefix
	bpPower
)

// node is the parse tree. It is built in full before anything is allocated
// in the arena, so a syntax error never leaves garbage behind.
type node struct {
	kind     expr.Kind
	pos      int
	args     []*node
	rational exact.Rational
	decimal  *apd.Decimal
	negative bool   // Infinity sign
	name     string // Symbol name
	rows     int    // Matrix shape
	cols     int

	direct  bool // Number or inf written as a single token
	integer bool // Integer literal, possibly with a folded sign
	paren   bool // Written in parentheses
}

type parser struct {
	toks []token
	i    int
}

// Parse reads input and builds the expression with b. Syntax errors are
// returned as *Error; allocation failures as the builder's error.
func Parse(b *expr.Builder, input string) (expr.Expression, error) {
	n, err := parseTree(input)
	if err != nil {
		return expr.Expression{}, err
	}
	e := build(b, n)
	if err := b.Err(); err != nil {
		return expr.Expression{}, err
	}
	return e, nil
}

func parseTree(input string) (*node, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expression(bpAdditive)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, errorf(ErrUnexpectedToken, t.pos, "unexpected %s after expression", t.kind)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, unexpected(t, "expected "+kind.String())
	}
	return t, nil
}

func unexpected(t token, context string) *Error {
	if t.kind == tokEOF {
		return errorf(ErrUnexpectedEnd, t.pos, "unexpected end of input, %s", context)
	}
	return errorf(ErrUnexpectedToken, t.pos, "unexpected %s %q, %s", t.kind, t.text, context)
}

func infix(k tokenKind) (kind expr.Kind, lbp int) {
	switch k {
	case tokPlus:
		return expr.KindAddition, bpAdditive
	case tokMinus:
		return expr.KindSubtraction, bpAdditive
	case tokStar:
		return expr.KindMultiplication, bpMultiplicative
	case tokSlash:
		return expr.KindDivision, bpMultiplicative
	case tokCaret:
		return expr.KindPower, bpPower
	}
	return 0, bpNone
}

// expression parses operators binding at least as tightly as minBP.
func (p *parser) expression(minBP int) (*node, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		kind, lbp := infix(op.kind)
		if lbp == bpNone || lbp < minBP {
			return left, nil
		}
		p.next()

		rbp := lbp + 1
		if kind == expr.KindPower {
			rbp = bpPower
		}
		right, err := p.expression(rbp)
		if err != nil {
			return nil, err
		}
		left = combine(kind, op.pos, left, right)
	}
}

func combine(kind expr.Kind, pos int, left, right *node) *node {
	switch kind {
	case expr.KindAddition, expr.KindMultiplication:
		if left.kind == kind && !left.paren {
			left.args = append(left.args, right)
			return left
		}
	case expr.KindDivision:
		if fraction, ok := foldFraction(left, right); ok {
			return fraction
		}
	}
	return &node{kind: kind, pos: pos, args: []*node{left, right}}
}

// foldFraction turns INT/INT into a rational literal.
func foldFraction(num, den *node) (*node, bool) {
	if !num.integer || num.paren || !den.direct || !den.integer || den.paren {
		return nil, false
	}
	if den.rational.IsZero() {
		return nil, false
	}
	return &node{
		kind:     expr.KindRational,
		pos:      num.pos,
		rational: num.rational.Div(den.rational),
	}, true
}

func (p *parser) prefix() (*node, error) {
	t := p.peek()
	if t.kind != tokMinus {
		return p.atom()
	}
	p.next()
	operand, err := p.expression(bpPrefix)
	if err != nil {
		return nil, err
	}
	if operand.direct && !operand.paren {
		return negate(operand), nil
	}
	return &node{kind: expr.KindOpposite, pos: t.pos, args: []*node{operand}}, nil
}

// negate folds a sign into a literal token.
func negate(n *node) *node {
	n.direct = false
	switch n.kind {
	case expr.KindRational:
		n.rational = n.rational.Neg()
	case expr.KindDecimal:
		n.decimal = new(apd.Decimal).Neg(n.decimal)
	case expr.KindInfinity:
		n.negative = !n.negative
	}
	return n
}

func (p *parser) atom() (*node, error) {
	t := p.next()
	switch t.kind {
	case tokInteger:
		i, err := exact.ParseInteger(t.text)
		if err != nil {
			return nil, errorf(ErrInvalidNumber, t.pos, "%v", err)
		}
		return &node{
			kind:     expr.KindRational,
			pos:      t.pos,
			rational: exact.IntegerRational(i),
			direct:   true,
			integer:  true,
		}, nil

	case tokDecimal:
		d, err := numfmt.ParseDecimal(t.text)
		if err != nil {
			return nil, errorf(ErrInvalidNumber, t.pos, "%v", err)
		}
		return &node{kind: expr.KindDecimal, pos: t.pos, decimal: d, direct: true}, nil

	case tokName:
		return p.name(t)

	case tokLParen:
		inner, err := p.expression(bpAdditive)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		inner.paren = true
		return inner, nil

	case tokLBracket:
		return p.matrix(t)
	}
	return nil, unexpected(t, "expected an operand")
}

func (p *parser) name(t token) (*node, error) {
	switch t.text {
	case numfmt.Infinity:
		return &node{kind: expr.KindInfinity, pos: t.pos, direct: true}, nil
	case numfmt.Undefined:
		return &node{kind: expr.KindUndefined, pos: t.pos}, nil
	}

	kind, isFunction := expr.FunctionKind(t.text)
	if p.peek().kind != tokLParen {
		if isFunction {
			return nil, errorf(ErrReservedName, t.pos, "function %s used without arguments", t.text)
		}
		return &node{kind: expr.KindSymbol, pos: t.pos, name: t.text}, nil
	}
	if !isFunction {
		return nil, errorf(ErrUnknownFunction, t.pos, "unknown function %q", t.text)
	}

	p.next()
	args, err := p.list(tokRParen)
	if err != nil {
		return nil, err
	}
	if want := kind.FunctionArity(); len(args) != want {
		return nil, errorf(ErrArgumentCount, t.pos, "%s takes %d argument(s), got %d", t.text, want, len(args))
	}
	return &node{kind: kind, pos: t.pos, args: args}, nil
}

// list parses comma-separated expressions up to and including end.
func (p *parser) list(end tokenKind) ([]*node, error) {
	var items []*node
	for {
		item, err := p.expression(bpAdditive)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		t := p.next()
		switch t.kind {
		case tokComma:
			continue
		case end:
			return items, nil
		}
		return nil, unexpected(t, "expected \",\" or "+end.String())
	}
}

func (p *parser) matrix(open token) (*node, error) {
	m := &node{kind: expr.KindMatrix, pos: open.pos}
	for {
		if _, err := p.expect(tokLBracket); err != nil {
			return nil, err
		}
		row, err := p.list(tokRBracket)
		if err != nil {
			return nil, err
		}
		if m.rows > 0 && len(row) != m.cols {
			return nil, errorf(ErrRaggedMatrix, open.pos, "row %d has %d entries, expected %d", m.rows+1, len(row), m.cols)
		}
		m.cols = len(row)
		m.rows++
		m.args = append(m.args, row...)

		if p.peek().kind == tokComma {
			p.next()
		}
		if p.peek().kind == tokRBracket {
			p.next()
			return m, nil
		}
	}
}

// build allocates the parse tree bottom-up. The builder's sticky error
// makes every call after a failed allocation a no-op.
func build(b *expr.Builder, n *node) expr.Expression {
	switch n.kind {
	case expr.KindUndefined:
		return b.Undefined()
	case expr.KindInfinity:
		return b.Infinity(n.negative)
	case expr.KindRational:
		return b.Rational(n.rational)
	case expr.KindDecimal:
		return b.Decimal(n.decimal)
	case expr.KindSymbol:
		return b.Symbol(n.name)
	}

	args := make([]expr.Expression, len(n.args))
	for i, a := range n.args {
		args[i] = build(b, a)
	}
	switch n.kind {
	case expr.KindMatrix:
		return b.Matrix(n.rows, n.cols, args...)
	case expr.KindAddition:
		return b.Add(args...)
	case expr.KindSubtraction:
		return b.Subtract(args[0], args[1])
	case expr.KindMultiplication:
		return b.Multiply(args...)
	case expr.KindDivision:
		return b.Divide(args[0], args[1])
	case expr.KindOpposite:
		return b.Opposite(args[0])
	case expr.KindPower:
		return b.Power(args[0], args[1])
	}
	return b.Function(n.kind, args...)
}
