package sequence

import (
	"fmt"

	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/expr"
	"github.com/roach88/graphcalc/internal/parser"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
)

// IndexSymbol is the name bound to the term index.
const IndexSymbol = "n"

// Term is one evaluated term of a sequence.
type Term struct {
	N     int64
	Exact string
	Value float64
}

// Term evaluates s at index n in arena a. The arena is left as it was.
func (s Sequence) Term(a *pool.Arena, n int64, p prefs.Preferences, opts ...engine.Option) (Term, error) {
	if !s.IsDefined() {
		return Term{}, fmt.Errorf("%s(%d): sequence is not defined", s.Name, n)
	}

	b := expr.NewBuilder(a)
	vars := expr.NewVariableContext(a)
	defer vars.Release()

	index := b.Integer(n)
	if err := b.Err(); err != nil {
		return Term{}, fmt.Errorf("%s(%d): %w", s.Name, n, err)
	}
	err := vars.Set(IndexSymbol, index)
	index.Release()
	if err != nil {
		return Term{}, fmt.Errorf("%s(%d): %w", s.Name, n, err)
	}

	root, err := parser.Parse(b, s.Definition)
	if err != nil {
		return Term{}, fmt.Errorf("%s(%d): %w", s.Name, n, err)
	}
	reduced, err := engine.New(a, opts...).Reduce(root, vars, p)
	if err != nil {
		if reduced.Valid() {
			reduced.Release()
		} else {
			root.Release()
		}
		return Term{}, fmt.Errorf("%s(%d): %w", s.Name, n, err)
	}
	defer reduced.Release()

	return Term{
		N:     n,
		Exact: expr.SerializeString(reduced, p.FloatMode, p.SignificantDigits),
		Value: engine.Approximate[float64](reduced, vars, p).ToScalar(),
	}, nil
}

// Terms evaluates s for every index in [from, to].
func (s Sequence) Terms(a *pool.Arena, from, to int64, p prefs.Preferences, opts ...engine.Option) ([]Term, error) {
	if to < from {
		return nil, nil
	}
	terms := make([]Term, 0, to-from+1)
	for n := from; n <= to; n++ {
		t, err := s.Term(a, n, p, opts...)
		if err != nil {
			return terms, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}
