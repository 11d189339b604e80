package engine

import (
	"errors"
	"log/slog"

	"github.com/roach88/graphcalc/internal/expr"
	"github.com/roach88/graphcalc/internal/numfmt"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
)

// DefaultMaxSteps is the default maximum number of law applications per
// reduction. It prevents runaway symbol chains from consuming unbounded time.
const DefaultMaxSteps = 10000

// Step records one rewrite performed during a reduction.
type Step struct {
	Seq    int64     // Logical time from the reducer's Clock
	Kind   expr.Kind // Variant whose law fired
	Before string    // Subtree before the law, in the linear syntax
	After  string    // Subtree after the law
}

// Reducer reduces whole trees living in one arena.
//
// INVARIANTS:
//   - Children are reduced before their parent (post-order)
//   - A subtree produced by a law is never descended into again
//   - The same tree, context and preferences always produce the same result
//     and, when tracing, the same sequence of steps
type Reducer struct {
	arena      *pool.Arena
	logger     *slog.Logger
	clock      *Clock
	maxSteps   int
	matrixMode bool
	trace      func(Step)
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithMaxSteps sets the step quota for each call to Reduce.
func WithMaxSteps(n int) Option {
	return func(r *Reducer) {
		r.maxSteps = n
	}
}

// WithLogger sets the logger. Rewrites are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reducer) {
		r.logger = l
	}
}

// WithMatrixExactReducing makes scalar-only operations on matrices reduce to
// Undefined instead of staying unreduced.
func WithMatrixExactReducing(enabled bool) Option {
	return func(r *Reducer) {
		r.matrixMode = enabled
	}
}

// WithClock sets the clock that stamps trace steps. Sharing a clock across
// reducers keeps step numbers increasing over a whole session.
func WithClock(c *Clock) Option {
	return func(r *Reducer) {
		r.clock = c
	}
}

// WithTrace registers fn to receive every rewrite. Tracing serializes the
// rewritten subtree before and after each law, so it is off by default.
func WithTrace(fn func(Step)) Option {
	return func(r *Reducer) {
		r.trace = fn
	}
}

// New creates a Reducer working in arena a.
func New(a *pool.Arena, opts ...Option) *Reducer {
	r := &Reducer{
		arena:    a,
		logger:   slog.Default(),
		clock:    NewClock(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clock returns the reducer's logical clock.
func (r *Reducer) Clock() *Clock {
	return r.clock
}

// run holds the per-call state of one reduction.
type run struct {
	*Reducer
	rc     expr.ReductionContext
	quota  *QuotaEnforcer
	cycles *CycleDetector
}

// Reduce reduces the tree rooted at root and returns the expression now
// standing at root's position. root is usually parentless; if it has a
// parent, the result is spliced into the same slot.
//
// ctx resolves symbols; nil binds nothing. On error the tree is partially
// reduced and must be released by the caller without further use.
func (r *Reducer) Reduce(root expr.Expression, ctx expr.Context, p prefs.Preferences) (expr.Expression, error) {
	if root.Arena() != r.arena {
		panic("engine: expression lives in a different arena")
	}
	if ctx == nil {
		ctx = expr.EmptyContext{}
	}
	st := &run{
		Reducer: r,
		rc: expr.ReductionContext{
			Context:             ctx,
			AngleUnit:           p.AngleUnit,
			MatrixExactReducing: r.matrixMode,
		},
		quota:  NewQuotaEnforcer(r.maxSteps),
		cycles: NewCycleDetector(),
	}

	result, err := st.reduce(root)
	if err != nil {
		r.logger.Warn("reduction failed",
			"error", err,
			"steps", st.quota.Current(),
		)
		return result, err
	}

	r.logger.Debug("reduction complete",
		"steps", st.quota.Current(),
		"expansion_depth", st.cycles.MaxDepth(),
		"used", r.arena.Used(),
	)
	return result, nil
}

func (st *run) reduce(e expr.Expression) (expr.Expression, error) {
	if e.Kind() == expr.KindSymbol {
		return st.expand(e)
	}
	// A child's law only rewrites the child's own slot, so e stays valid
	// and keeps its arity while its children are reduced.
	for i := 0; i < e.NumberOfChildren(); i++ {
		if _, err := st.reduce(e.ChildAt(i)); err != nil {
			return e, err
		}
	}
	return st.apply(e)
}

// expand replaces a bound symbol by a copy of its binding and reduces the
// copy. Unbound symbols are left as they are.
func (st *run) expand(e expr.Expression) (expr.Expression, error) {
	name := e.SymbolName()
	value, ok := st.rc.Context.Resolve(name)
	if !ok {
		return st.apply(e)
	}
	if err := st.quota.Check(e.Kind().String()); err != nil {
		return e, quotaExceeded(err)
	}

	if !st.cycles.Enter(name) {
		st.logger.Debug("circular definition", "symbol", name)
		before := st.describe(e)
		result, err := expr.ReplaceWithUndefined(e)
		if err != nil {
			return e, NewCapacityError(expr.KindSymbol.String(), err)
		}
		st.record(expr.KindSymbol, before, result)
		return result, nil
	}
	defer st.cycles.Leave(name)

	before := st.describe(e)
	copied, err := expr.ReplaceSymbol(e, value)
	if err != nil {
		return e, NewCapacityError(expr.KindSymbol.String(), err)
	}
	st.record(expr.KindSymbol, before, copied)
	return st.reduce(copied)
}

func quotaExceeded(err error) error {
	var se *StepsExceededError
	if errors.As(err, &se) {
		return NewQuotaError(se)
	}
	return err
}

// apply runs e's own law once its children are reduced.
func (st *run) apply(e expr.Expression) (expr.Expression, error) {
	kind := e.Kind()
	if err := st.quota.Check(kind.String()); err != nil {
		return e, quotaExceeded(err)
	}

	before := st.describe(e)
	result, err := expr.ShallowReduce(e, st.rc)
	if err != nil {
		return result, NewCapacityError(kind.String(), err)
	}
	st.record(kind, before, result)
	return result, nil
}

// describe serializes e for the trace. Returns "" when tracing is off.
func (st *run) describe(e expr.Expression) string {
	if st.trace == nil {
		return ""
	}
	return e.String()
}

func (st *run) record(kind expr.Kind, before string, after expr.Expression) {
	if st.trace == nil {
		return
	}
	a := after.String()
	if a == before {
		return
	}
	step := Step{
		Seq:    st.clock.Next(),
		Kind:   kind,
		Before: before,
		After:  a,
	}
	st.logger.Debug("rewrite",
		"seq", step.Seq,
		"kind", kind.String(),
		"before", step.Before,
		"after", step.After,
	)
	st.trace(step)
}

// Approximate evaluates root with the angle unit from p. It does not reduce
// or modify the tree.
func Approximate[T numfmt.Float](root expr.Expression, ctx expr.Context, p prefs.Preferences) expr.Evaluation[T] {
	return expr.Approximate[T](root, ctx, p.AngleUnit)
}
