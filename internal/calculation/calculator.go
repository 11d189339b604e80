package calculation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/graphcalc/internal/engine"
	"github.com/roach88/graphcalc/internal/expr"
	"github.com/roach88/graphcalc/internal/ir"
	"github.com/roach88/graphcalc/internal/parser"
	"github.com/roach88/graphcalc/internal/pool"
	"github.com/roach88/graphcalc/internal/prefs"
	"github.com/roach88/graphcalc/internal/store"
)

// Result is one evaluated input line.
type Result struct {
	ir.Calculation

	// Undefined reports that the approximate value is not a number.
	Undefined bool

	// Steps are the rewrites performed by the reduction, in order.
	Steps []engine.Step
}

// Calculator evaluates input lines within one session.
//
// A Calculator is not safe for concurrent use: it owns its arena.
type Calculator struct {
	arena      *pool.Arena
	builder    *expr.Builder
	vars       *expr.VariableContext
	prefs      prefs.Preferences
	logger     *slog.Logger
	store      *store.Store
	generator  SessionGenerator
	session    string
	label      string
	maxSteps   int
	matrixMode bool

	seq     int64
	created bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithPreferences sets the preferences used for every calculation.
func WithPreferences(p prefs.Preferences) Option {
	return func(c *Calculator) {
		c.prefs = p
	}
}

// WithLogger sets the logger passed to the reducer.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = l
	}
}

// WithStore records every calculation in s.
func WithStore(s *store.Store) Option {
	return func(c *Calculator) {
		c.store = s
	}
}

// WithSession continues the session id instead of starting a new one.
func WithSession(id string) Option {
	return func(c *Calculator) {
		c.session = id
	}
}

// WithSessionLabel sets the label stored with a new session.
func WithSessionLabel(label string) Option {
	return func(c *Calculator) {
		c.label = label
	}
}

// WithSessionGenerator sets the generator used when no session is given.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(c *Calculator) {
		c.generator = g
	}
}

// WithMaxSteps sets the reduction step quota.
func WithMaxSteps(n int) Option {
	return func(c *Calculator) {
		c.maxSteps = n
	}
}

// WithMatrixExactReducing makes scalar-only operations on matrices undefined.
func WithMatrixExactReducing(enabled bool) Option {
	return func(c *Calculator) {
		c.matrixMode = enabled
	}
}

// New creates a Calculator whose trees and bindings live in a.
func New(a *pool.Arena, opts ...Option) *Calculator {
	c := &Calculator{
		arena:     a,
		builder:   expr.NewBuilder(a),
		vars:      expr.NewVariableContext(a),
		prefs:     prefs.Default(),
		logger:    slog.Default(),
		generator: UUIDv7Generator{},
		maxSteps:  engine.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == "" {
		c.session = c.generator.Generate()
	}
	return c
}

// Session returns the session ID.
func (c *Calculator) Session() string { return c.session }

// Preferences returns the preferences in use.
func (c *Calculator) Preferences() prefs.Preferences { return c.prefs }

// Arena returns the calculator's arena.
func (c *Calculator) Arena() *pool.Arena { return c.arena }

// Bind parses input and binds its tree to name. The binding is stored as
// entered and expanded each time name is reduced.
func (c *Calculator) Bind(name, input string) error {
	c.builder.Reset()
	value, err := parser.Parse(c.builder, input)
	if err != nil {
		return fmt.Errorf("bind %s: %w", name, err)
	}
	defer value.Release()
	return c.vars.Set(name, value)
}

// Unbind removes the binding for name.
func (c *Calculator) Unbind(name string) { c.vars.Unset(name) }

// Bindings returns the bound names in sorted order.
func (c *Calculator) Bindings() []string { return c.vars.Names() }

// Close releases every binding.
func (c *Calculator) Close() { c.vars.Release() }

// Evaluate runs one input line at the next position of the session and
// records it when a store is configured.
func (c *Calculator) Evaluate(ctx context.Context, input string) (Result, error) {
	seq, err := c.nextSeq(ctx)
	if err != nil {
		return Result{}, err
	}

	res, err := c.evaluateAt(input, seq)
	if err != nil {
		return Result{}, err
	}
	c.seq = seq

	if c.store != nil {
		if err := c.store.WriteCalculation(ctx, res.Calculation); err != nil {
			return Result{}, fmt.Errorf("record calculation: %w", err)
		}
	}
	return res, nil
}

func (c *Calculator) nextSeq(ctx context.Context) (int64, error) {
	if c.store == nil {
		return c.seq + 1, nil
	}
	if !c.created {
		err := c.store.CreateSession(ctx, ir.Session{
			ID:          c.session,
			Label:       c.label,
			Preferences: PreferencesRecord(c.prefs),
		})
		if err != nil {
			return 0, fmt.Errorf("create session: %w", err)
		}
		c.created = true
	}
	return c.store.NextSeq(ctx, c.session)
}

// evaluateAt runs the pipeline for input at position seq. The arena holds
// only the bindings when it returns.
func (c *Calculator) evaluateAt(input string, seq int64) (Result, error) {
	id, err := ir.CalculationID(c.session, input, seq)
	if err != nil {
		return Result{}, err
	}

	c.builder.Reset()
	root, err := parser.Parse(c.builder, input)
	if err != nil {
		return Result{}, err
	}

	var steps []engine.Step
	reducer := engine.New(c.arena,
		engine.WithLogger(c.logger),
		engine.WithMaxSteps(c.maxSteps),
		engine.WithMatrixExactReducing(c.matrixMode),
		engine.WithTrace(func(s engine.Step) { steps = append(steps, s) }),
	)
	reduced, err := reducer.Reduce(root, c.vars, c.prefs)
	if err != nil {
		releaseRoot(reduced, root)
		return Result{}, fmt.Errorf("reduce %q: %w", input, err)
	}
	defer reduced.Release()

	approx := engine.Approximate[float64](reduced, c.vars, c.prefs)
	traceHash, err := ir.TraceHash(TraceRecords(steps))
	if err != nil {
		return Result{}, err
	}

	return Result{
		Calculation: ir.Calculation{
			ID:            id,
			SessionID:     c.session,
			Seq:           seq,
			Input:         input,
			Exact:         expr.SerializeString(reduced, c.prefs.FloatMode, c.prefs.SignificantDigits),
			Approximate:   approx.Format(c.prefs),
			Tree:          expr.Export(reduced),
			TraceHash:     traceHash,
			EngineVersion: ir.EngineVersion,
			IRVersion:     ir.IRVersion,
		},
		Undefined: approx.IsUndefined(),
		Steps:     steps,
	}, nil
}

// releaseRoot frees the tree left behind by a failed reduction. The tree is
// parentless, so the first live parentless candidate is its root.
func releaseRoot(candidates ...expr.Expression) {
	for _, e := range candidates {
		if e.IsNil() || !e.Valid() {
			continue
		}
		if _, ok := e.Parent(); ok {
			continue
		}
		e.Release()
		return
	}
}
