package calculation

import (
	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/ir"
)

// TraceRecords converts reduction steps to their canonical form.
func TraceRecords(steps []engine.Step) ir.IRArray {
	records := make(ir.IRArray, len(steps))
	for i, s := range steps {
		records[i] = ir.IRObject{
			"seq":    ir.IRInt(s.Seq),
			"kind":   ir.IRString(s.Kind.String()),
			"before": ir.IRString(s.Before),
			"after":  ir.IRString(s.After),
		}
	}
	return records
}
