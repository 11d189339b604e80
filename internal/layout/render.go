package layout

import (
	"strings"

	"golang.org/x/text/width"
)

// box is a rendered block of equal-width lines with a baseline row.
type box struct {
	lines    []string
	width    int
	baseline int
}

// Render draws n as monospace text lines.
func Render(n *Node) []string {
	return render(n).lines
}

// RenderString draws n and joins the lines with newlines.
func RenderString(n *Node) string {
	return strings.Join(Render(n), "\n")
}

// DisplayWidth returns the number of terminal cells s occupies. Wide and
// fullwidth East Asian runes take two cells.
func DisplayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func pad(s string, w int) string {
	if d := w - DisplayWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func center(s string, w int) string {
	d := w - DisplayWidth(s)
	if d <= 0 {
		return s
	}
	left := d / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", d-left)
}

func render(n *Node) box {
	switch n.Kind {
	case KindText:
		return box{lines: []string{n.Text}, width: DisplayWidth(n.Text)}
	case KindHorizontal:
		boxes := make([]box, len(n.Children))
		for i, c := range n.Children {
			boxes[i] = render(c)
		}
		return hjoin(boxes...)
	case KindFraction:
		num, den := render(n.Children[0]), render(n.Children[1])
		w := max(num.width, den.width) + 2
		lines := make([]string, 0, len(num.lines)+len(den.lines)+1)
		for _, l := range num.lines {
			lines = append(lines, center(l, w))
		}
		lines = append(lines, strings.Repeat("-", w))
		for _, l := range den.lines {
			lines = append(lines, center(l, w))
		}
		return box{lines: lines, width: w, baseline: len(num.lines)}
	case KindSuperscript:
		base, exp := render(n.Children[0]), render(n.Children[1])
		w := base.width + exp.width
		lines := make([]string, 0, len(exp.lines)+len(base.lines))
		for _, l := range exp.lines {
			lines = append(lines, strings.Repeat(" ", base.width)+pad(l, exp.width))
		}
		for _, l := range base.lines {
			lines = append(lines, pad(l, base.width)+strings.Repeat(" ", exp.width))
		}
		return box{lines: lines, width: w, baseline: len(exp.lines) + base.baseline}
	case KindParenthesis:
		return wrap(render(n.Children[0]), "(", ")")
	case KindBars:
		return wrap(render(n.Children[0]), "|", "|")
	case KindGrid:
		return renderGrid(n)
	}
	return box{}
}

// hjoin aligns boxes on their baselines.
func hjoin(boxes ...box) box {
	above, below := 0, 0
	for _, b := range boxes {
		above = max(above, b.baseline)
		below = max(below, len(b.lines)-b.baseline-1)
	}
	height := above + below + 1
	rows := make([]strings.Builder, height)
	total := 0
	for _, b := range boxes {
		top := above - b.baseline
		for r := 0; r < height; r++ {
			line := ""
			if i := r - top; i >= 0 && i < len(b.lines) {
				line = b.lines[i]
			}
			rows[r].WriteString(pad(line, b.width))
		}
		total += b.width
	}
	lines := make([]string, height)
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return box{lines: lines, width: total, baseline: above}
}

func wrap(inner box, left, right string) box {
	lines := make([]string, len(inner.lines))
	for i, l := range inner.lines {
		lines[i] = left + pad(l, inner.width) + right
	}
	return box{lines: lines, width: inner.width + DisplayWidth(left) + DisplayWidth(right), baseline: inner.baseline}
}

func renderGrid(n *Node) box {
	cells := make([]box, len(n.Children))
	colWidth := make([]int, n.Cols)
	for i, c := range n.Children {
		cells[i] = render(c)
		colWidth[i%n.Cols] = max(colWidth[i%n.Cols], cells[i].width)
	}

	var lines []string
	for r := 0; r < n.Rows; r++ {
		row := make([]box, 0, 2*n.Cols)
		for c := 0; c < n.Cols; c++ {
			if c > 0 {
				row = append(row, box{lines: []string{" "}, width: 1})
			}
			cell := cells[r*n.Cols+c]
			cell.width = colWidth[c]
			row = append(row, cell)
		}
		lines = append(lines, hjoin(row...).lines...)
	}
	w := 0
	for _, cw := range colWidth {
		w += cw
	}
	w += max(n.Cols-1, 0)
	return wrap(box{lines: lines, width: w, baseline: (len(lines) - 1) / 2}, "[", "]")
}
