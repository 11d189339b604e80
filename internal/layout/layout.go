// Package layout builds display-layout trees for expressions.
//
// A layout tree describes structure (fractions, exponents, brackets, grids)
// without pixel geometry. Linear flattens it to one line of text and Render
// draws a small monospace block; real pixel rendering belongs to the display
// pipeline.
package layout

import "strings"

// Kind identifies a layout node variant.
type Kind int

const (
	KindText Kind = iota
	KindHorizontal
	KindFraction
	KindSuperscript
	KindParenthesis
	KindBars
	KindGrid
)

// Node is an immutable layout tree node.
type Node struct {
	Kind     Kind
	Text     string  // KindText only
	Children []*Node // Operands, in reading order
	Rows     int     // KindGrid only
	Cols     int     // KindGrid only
}

// Text returns a leaf displaying s.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Horizontal lays children side by side on a shared baseline.
func Horizontal(children ...*Node) *Node {
	return &Node{Kind: KindHorizontal, Children: children}
}

// Fraction stacks num over den.
func Fraction(num, den *Node) *Node {
	return &Node{Kind: KindFraction, Children: []*Node{num, den}}
}

// Superscript raises exp after base.
func Superscript(base, exp *Node) *Node {
	return &Node{Kind: KindSuperscript, Children: []*Node{base, exp}}
}

// Parenthesis wraps inner in round brackets.
func Parenthesis(inner *Node) *Node {
	return &Node{Kind: KindParenthesis, Children: []*Node{inner}}
}

// Bars wraps inner in absolute-value bars.
func Bars(inner *Node) *Node {
	return &Node{Kind: KindBars, Children: []*Node{inner}}
}

// Grid lays cells out row-major in rows×cols.
func Grid(rows, cols int, cells ...*Node) *Node {
	if len(cells) != rows*cols {
		panic("layout: grid cell count does not match dimensions")
	}
	return &Node{Kind: KindGrid, Children: cells, Rows: rows, Cols: cols}
}

// Prefix lays out a function call: name(arg1,arg2,...).
func Prefix(name string, args ...*Node) *Node {
	return Horizontal(Text(name), Parenthesis(joined(",", args)))
}

// Infix joins operands with an operator.
func Infix(op string, operands ...*Node) *Node {
	return joined(op, operands)
}

func joined(sep string, nodes []*Node) *Node {
	children := make([]*Node, 0, 2*len(nodes))
	for i, n := range nodes {
		if i > 0 {
			children = append(children, Text(sep))
		}
		children = append(children, n)
	}
	return Horizontal(children...)
}

// Linear flattens n into a single line.
func Linear(n *Node) string {
	var b strings.Builder
	writeLinear(&b, n)
	return b.String()
}

func writeLinear(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindText:
		b.WriteString(n.Text)
	case KindHorizontal:
		for _, c := range n.Children {
			writeLinear(b, c)
		}
	case KindFraction:
		writeLinearGrouped(b, n.Children[0])
		b.WriteByte('/')
		writeLinearGrouped(b, n.Children[1])
	case KindSuperscript:
		writeLinearGrouped(b, n.Children[0])
		b.WriteByte('^')
		writeLinearGrouped(b, n.Children[1])
	case KindParenthesis:
		b.WriteByte('(')
		writeLinear(b, n.Children[0])
		b.WriteByte(')')
	case KindBars:
		b.WriteString("abs(")
		writeLinear(b, n.Children[0])
		b.WriteByte(')')
	case KindGrid:
		b.WriteByte('[')
		for r := 0; r < n.Rows; r++ {
			b.WriteByte('[')
			for c := 0; c < n.Cols; c++ {
				if c > 0 {
					b.WriteByte(',')
				}
				writeLinear(b, n.Children[r*n.Cols+c])
			}
			b.WriteByte(']')
		}
		b.WriteByte(']')
	}
}

// writeLinearGrouped adds parentheses around compound operands.
func writeLinearGrouped(b *strings.Builder, n *Node) {
	if n.Kind == KindText || n.Kind == KindParenthesis || n.Kind == KindGrid {
		writeLinear(b, n)
		return
	}
	b.WriteByte('(')
	writeLinear(b, n)
	b.WriteByte(')')
}
