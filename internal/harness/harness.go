package harness

import (
	"context"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/compiler"
	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/expr"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/match"
	"github.com/roach88/sieve/internal/rule"
	"github.com/roach88/sieve/internal/rules"
	"github.com/roach88/sieve/internal/store"
)

// DefaultRuleSet names the built-in rule order.
const DefaultRuleSet = "default"

// Harness runs scenarios. Every run gets a fresh factory and engine with
// a deterministic clock, so traces are reproducible.
type Harness struct {
	ruleSets map[string]*compiler.RuleSetSpec
	store    *store.Store
	logger   *slog.Logger
	runIDs   engine.RunIDGenerator
	seq      int64
}

// Option configures a Harness.
type Option func(*Harness)

// WithRuleSets makes compiled rule sets available to scenarios by name.
// A rule set named "default" replaces the built-in order.
func WithRuleSets(specs []*compiler.RuleSetSpec) Option {
	return func(h *Harness) {
		for _, s := range specs {
			h.ruleSets[s.Name] = s
		}
	}
}

// WithStore records every run and its rule firings in st.
func WithStore(st *store.Store) Option {
	return func(h *Harness) {
		h.store = st
	}
}

// WithLogger sets the logger handed to the engine.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithRunIDs sets the generator for run ids. By default a run is
// identified by its scenario name.
func WithRunIDs(g engine.RunIDGenerator) Option {
	return func(h *Harness) {
		h.runIDs = g
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		ruleSets: make(map[string]*compiler.RuleSetSpec),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a new Harness.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	return New(opts...).Run(context.Background(), scenario)
}

// run is the state of one scenario execution.
type run struct {
	h        *Harness
	sc       *Scenario
	f        *expr.Factory
	rec      *engine.Recorder
	aliases  expr.AliasMap
	consts   expr.AliasSet
	ruleSet  string
	ruleList []string
	input    string
	result   *Result
}

// Run executes one scenario. Failed expectations are reported in the
// Result; the error is for scenarios that cannot run at all (bad
// expressions, unknown rules, store failures).
func (h *Harness) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	runID := sc.Name
	if h.runIDs != nil {
		runID = h.runIDs.Generate()
	}

	r := &run{
		h:       h,
		sc:      sc,
		f:       expr.NewFactory(),
		aliases: aliasMap(sc.Aliases),
		consts:  aliasSet(sc.ConstantAliases),
		result:  NewResult(runID),
	}

	var err error
	switch sc.Kind {
	case KindSimplify:
		err = r.simplify(ctx)
	case KindMatch:
		err = r.match()
	case KindCompute:
		err = r.compute(ctx)
	default:
		err = errors.Newf("unknown scenario kind %q", sc.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", sc.Name)
	}

	if r.rec != nil {
		r.result.Trace = traceOf(r.rec.Events())
		if r.result.Steps == 0 {
			r.result.Steps = len(r.result.Trace)
		}
	}
	for _, e := range CheckExpectations(sc.Expect, r.result) {
		r.result.AddError(e.Error())
	}

	if h.store != nil {
		if err := r.record(ctx); err != nil {
			return nil, errors.Wrapf(err, "scenario %s", sc.Name)
		}
	}
	return r.result, nil
}

// newEngine returns an engine for one run. A fresh clock per run numbers
// the trace from 1.
func (r *run) newEngine(maxSteps int) *engine.Engine {
	r.rec = &engine.Recorder{}
	opts := []engine.Option{
		engine.WithLogger(r.h.logger),
		engine.WithClock(engine.NewClock()),
		engine.WithRunIDs(engine.NewFixedGenerator(r.result.RunID)),
		engine.WithTracer(r.rec),
	}
	if maxSteps > 0 {
		opts = append(opts, engine.WithMaxSteps(maxSteps))
	}
	return engine.New(r.f, opts...)
}

func (r *run) simplify(ctx context.Context) error {
	root, err := r.sc.Predicate.Predicate(r.f)
	if err != nil {
		return errors.Wrap(err, "predicate")
	}
	r.input = root.String()

	rs, maxSteps, err := r.h.resolveRules(r.sc)
	if err != nil {
		return err
	}
	r.ruleSet, r.ruleList = r.sc.ruleSetName(), rs.Names()

	out, runErr := r.newEngine(maxSteps).Simplify(ctx, root, r.aliases, r.consts, rs)
	if ok, err := r.runtimeError(runErr); ok || err != nil {
		return err
	}
	r.result.Simplified = out.String()

	if !r.sc.evaluates() {
		return nil
	}
	p, ok := out.(expr.Predicate)
	if !ok {
		return errors.AssertionFailedf("simplify returned a %s, not a predicate", out.Kind())
	}
	return r.evaluate(root, p)
}

// evaluate checks that simplification kept the truth value over the
// scenario's bindings and records it.
func (r *run) evaluate(before, after expr.Predicate) error {
	ctx, err := r.sc.evalContext()
	if err != nil {
		return err
	}
	want, err := expr.Eval(before, ctx)
	if err != nil {
		return errors.Wrap(err, "evaluate input")
	}
	got, err := expr.Eval(after, ctx)
	if err != nil {
		return errors.Wrap(err, "evaluate result")
	}
	if got != want {
		r.result.AddError((&AssertionError{
			Field:    "truth preserved",
			Expected: want.String(),
			Actual:   got.String(),
			Trace:    traceOf(r.rec.Events()),
		}).Error())
	}
	r.result.Eval = got.String()
	return nil
}

func (r *run) match() error {
	p, err := r.sc.Predicate.Predicate(r.f)
	if err != nil {
		return errors.Wrap(err, "predicate")
	}
	c, err := r.sc.Candidate.Predicate(r.f)
	if err != nil {
		return errors.Wrap(err, "candidate")
	}
	r.input = p.String() + " => " + c.String()

	m, ok := match.ImpliesCandidate(r.f, p, r.aliases, c)
	if !ok {
		r.result.Outcome = match.NoMatch.String()
		return nil
	}
	r.result.Outcome = m.Outcome.String()
	if x, ok := m.Residual(match.Reapply{Factory: r.f}, r.aliases); ok {
		r.result.Compensation = x.String()
	}

	if r.sc.evaluates() {
		ctx, err := r.sc.evalContext()
		if err != nil {
			return err
		}
		v, err := expr.Eval(p, ctx)
		if err != nil {
			return errors.Wrap(err, "evaluate predicate")
		}
		r.result.Eval = v.String()
	}
	return nil
}

func (r *run) compute(ctx context.Context) error {
	root, err := r.sc.Predicate.Predicate(r.f)
	if err != nil {
		return errors.Wrap(err, "predicate")
	}
	r.input = root.String()
	r.ruleSet = "correlations"
	r.ruleList = rules.CorrelationRules().Names()

	c, runErr := rules.ComputeCorrelations(ctx, r.newEngine(r.sc.MaxSteps), root, aliasSet(r.sc.Available), r.consts)
	if ok, err := r.runtimeError(runErr); ok || err != nil {
		return err
	}
	r.result.Fields = c.Fields
	if r.result.Fields == nil {
		r.result.Fields = []string{}
	}
	covered := c.Covered
	r.result.Covered = &covered
	return nil
}

// runtimeError records err on the result when it is an engine runtime
// error and reports whether it did. Any other error is returned.
func (r *run) runtimeError(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	var re *engine.RuntimeError
	if !errors.As(err, &re) {
		return false, err
	}
	r.result.ErrorCode = string(re.Code)
	r.result.ErrorMessage = err.Error()
	var se *engine.StepsExceededError
	if errors.As(err, &se) {
		r.result.Steps = se.Steps
	}
	return true, nil
}

func (r *run) record(ctx context.Context) error {
	h := r.h
	h.seq++
	res := r.result

	status, output := store.StatusOK, res.Simplified
	switch r.sc.Kind {
	case KindMatch:
		output = res.Outcome
		if res.Compensation != "" {
			output += ": " + res.Compensation
		}
	case KindCompute:
		output = ir.Format(stringArray(res.Fields))
	}
	if res.ErrorCode != "" {
		status, output = store.StatusError, ""
	}

	var events []engine.Event
	if r.rec != nil {
		events = r.rec.Events()
	}
	return h.store.RecordRun(ctx, store.Run{
		ID:      res.RunID,
		Kind:    r.sc.Kind,
		RuleSet: r.ruleSet,
		Rules:   r.ruleList,
		Input:   r.input,
		Output:  output,
		Status:  status,
		Error:   res.ErrorCode,
		Steps:   res.Steps,
		Seq:     h.seq,
	}, events)
}

// resolveRules returns the simplification rule set and step quota of a
// scenario.
func (h *Harness) resolveRules(sc *Scenario) (*rule.RuleSet[*rule.SimplificationCall], int, error) {
	if len(sc.Rules) > 0 {
		rs, err := rules.Build(sc.Rules)
		return rs, sc.MaxSteps, err
	}
	name := sc.ruleSetName()
	if spec, ok := h.ruleSets[name]; ok {
		rs, err := rules.Build(spec.Rules)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "rule set %s", name)
		}
		maxSteps := sc.MaxSteps
		if maxSteps == 0 {
			maxSteps = spec.MaxSteps
		}
		return rs, maxSteps, nil
	}
	if name == DefaultRuleSet {
		return rules.Default(), sc.MaxSteps, nil
	}
	return nil, 0, errors.Newf("unknown rule set %q", name)
}

func (s *Scenario) ruleSetName() string {
	switch {
	case len(s.Rules) > 0:
		return "inline"
	case s.RuleSet == "":
		return DefaultRuleSet
	default:
		return s.RuleSet
	}
}

func (s *Scenario) evalContext() (expr.MapContext, error) {
	ctx := expr.MapContext{Rows: make(map[expr.CorrelationID]ir.IRObject, len(s.Rows))}
	for alias, row := range s.Rows {
		obj := make(ir.IRObject, len(row))
		for k, v := range row {
			iv, err := ir.FromAny(v)
			if err != nil {
				return expr.MapContext{}, errors.Wrapf(err, "rows.%s.%s", alias, k)
			}
			obj[k] = iv
		}
		ctx.Rows[expr.CorrelationID(alias)] = obj
	}
	ctx.Params = make(ir.IRObject, len(s.Params))
	for k, v := range s.Params {
		iv, err := ir.FromAny(v)
		if err != nil {
			return expr.MapContext{}, errors.Wrapf(err, "params.%s", k)
		}
		ctx.Params[k] = iv
	}
	return ctx, nil
}

func aliasMap(m map[string]string) expr.AliasMap {
	pairs := make(map[expr.CorrelationID]expr.CorrelationID, len(m))
	for from, to := range m {
		pairs[expr.CorrelationID(from)] = expr.CorrelationID(to)
	}
	return expr.NewAliasMap(pairs)
}

func aliasSet(ids []string) expr.AliasSet {
	out := make([]expr.CorrelationID, len(ids))
	for i, id := range ids {
		out[i] = expr.CorrelationID(id)
	}
	return expr.NewAliasSet(out...)
}

func stringArray(ss []string) ir.IRArray {
	arr := make(ir.IRArray, len(ss))
	for i, s := range ss {
		arr[i] = ir.IRString(s)
	}
	return arr
}
