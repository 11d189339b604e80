package expr

import (
	"github.com/roach88/graphcalc/internal/ir"
)

// Export converts e to an IR object for canonical hashing and traces.
// Numbers are exported as exact strings.
func Export(e Expression) ir.IRObject {
	obj := ir.IRObject{"kind": ir.IRString(e.Kind().String())}
	switch e.Kind() {
	case KindInfinity:
		obj["negative"] = ir.IRBool(e.IsNegativeInfinity())
	case KindRational:
		r, _ := e.Rational()
		obj["value"] = ir.IRString(r.String())
	case KindDecimal:
		d, _ := e.Decimal()
		obj["value"] = ir.IRString(d.String())
	case KindSymbol:
		obj["name"] = ir.IRString(e.SymbolName())
	case KindMatrix:
		rows, cols := e.MatrixDimensions()
		obj["rows"] = ir.IRInt(rows)
		obj["cols"] = ir.IRInt(cols)
	}
	if n := e.NumberOfChildren(); n > 0 {
		children := make(ir.IRArray, n)
		for i := range children {
			children[i] = Export(e.ChildAt(i))
		}
		obj["children"] = children
	}
	return obj
}
