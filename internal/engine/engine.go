package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/sieve/internal/expr"
	"github.com/roach88/sieve/internal/rule"
)

// DefaultMaxSteps is the default maximum number of adopted rewrites per run.
const DefaultMaxSteps = 1000

// Engine runs rule sets to a fixpoint over expression trees.
//
// An Engine holds configuration only; every run keeps its own state, so
// one Engine may serve concurrent runs as long as its Tracer is safe for
// concurrent use.
type Engine struct {
	factory  *expr.Factory
	logger   *slog.Logger
	tracer   Tracer
	clock    Sequencer
	runIDs   RunIDGenerator
	maxSteps int
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithMaxSteps sets the maximum number of adopted rewrites per run.
//
// Default: 1000 steps (DefaultMaxSteps)
// Use WithMaxSteps(10) for testing quota enforcement.
func WithMaxSteps(maxSteps int) Option {
	return func(e *Engine) {
		e.maxSteps = maxSteps
	}
}

// WithLogger sets the structured logger. Rewrites are logged at debug level.
// Without it the engine logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithTracer registers a tracer for adopted rewrites.
func WithTracer(t Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithClock sets the sequencer that stamps trace events.
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRunIDs sets the generator for run ids.
func WithRunIDs(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// New creates an Engine that builds nodes with f.
func New(f *expr.Factory, opts ...Option) *Engine {
	e := &Engine{
		factory:  f,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:    NewClock(),
		runIDs:   UUIDv7Generator{},
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Factory returns the factory the engine builds nodes with.
func (e *Engine) Factory() *expr.Factory { return e.factory }

// Simplify rewrites root with rs until no rule changes any node, and
// returns the final tree. aliases and constants are passed through to
// every rule call.
func (e *Engine) Simplify(
	ctx context.Context,
	root expr.Expr,
	aliases expr.AliasMap,
	constants expr.AliasSet,
	rs *rule.RuleSet[*rule.SimplificationCall],
) (expr.Expr, error) {
	p := &pass[*rule.SimplificationCall, expr.Expr]{
		engine: e,
		ctx:    ctx,
		runID:  e.runIDs.Generate(),
		env:    rule.Env{Factory: e.factory, Aliases: aliases, Constants: constants},
		rules:  rs,
		quota:  NewQuotaEnforcer(e.maxSteps),
		yields: func(c *rule.SimplificationCall) []expr.Expr { return c.Yields() },
		adopt: func(current expr.Expr, y expr.Expr) expr.Expr {
			if y == nil {
				return current
			}
			return y
		},
	}
	p.newCall = func(name string, current expr.Expr, isRoot bool, b rule.Bindings) *rule.SimplificationCall {
		return rule.NewSimplificationCall(p.env, name, root, current, isRoot, b)
	}
	return p.run(root)
}

// Compute runs a computation rule set over root. Alongside rewriting, it
// records the auxiliary result yielded for each node identity; the last
// yield for a node wins. It returns the final tree and the result recorded
// for it. ok is false when no rule yielded a result for the final root.
func Compute[A, R any](
	ctx context.Context,
	e *Engine,
	root expr.Expr,
	arg A,
	aliases expr.AliasMap,
	constants expr.AliasSet,
	rs *rule.RuleSet[*rule.ComputationCall[A, R]],
) (result rule.Result[R], ok bool, err error) {
	results := make(map[expr.NodeID]R)
	lookup := func(n expr.Expr) (R, bool) {
		r, found := results[n.ID()]
		return r, found
	}

	p := &pass[*rule.ComputationCall[A, R], rule.Result[R]]{
		engine: e,
		ctx:    ctx,
		runID:  e.runIDs.Generate(),
		env:    rule.Env{Factory: e.factory, Aliases: aliases, Constants: constants},
		rules:  rs,
		quota:  NewQuotaEnforcer(e.maxSteps),
		yields: func(c *rule.ComputationCall[A, R]) []rule.Result[R] { return c.Yields() },
		adopt: func(current expr.Expr, y rule.Result[R]) expr.Expr {
			next := y.Expr
			if next == nil {
				next = current
			}
			results[next.ID()] = y.Value
			return next
		},
	}
	p.newCall = func(name string, current expr.Expr, isRoot bool, b rule.Bindings) *rule.ComputationCall[A, R] {
		return rule.NewComputationCall(p.env, name, root, current, isRoot, b, arg, lookup)
	}

	final, err := p.run(root)
	if err != nil {
		return rule.Result[R]{}, false, err
	}
	v, ok := results[final.ID()]
	return rule.Result[R]{Expr: final, Value: v}, ok, nil
}
