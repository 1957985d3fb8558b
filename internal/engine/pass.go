package engine

import (
	"context"

	"github.com/roach88/sieve/internal/expr"
	"github.com/roach88/sieve/internal/rule"
)

// fixpointState is the outcome of offering rules to a node.
type fixpointState int

const (
	// stateNoChange: the invocation left the current node in place.
	stateNoChange fixpointState = iota
	// stateChangedRestart: a new node was adopted; rescan from the first rule.
	stateChangedRestart
	// stateExhausted: every rule and match was offered without change.
	stateExhausted
)

// pass is the state of one run. C is the call type and Y what its rules
// yield.
type pass[C any, Y any] struct {
	engine *Engine
	ctx    context.Context
	runID  string
	env    rule.Env
	rules  *rule.RuleSet[C]
	quota  *QuotaEnforcer

	newCall func(name string, current expr.Expr, isRoot bool, b rule.Bindings) C
	yields  func(C) []Y
	// adopt records y and returns the expression it denotes.
	adopt func(current expr.Expr, y Y) expr.Expr
}

func (p *pass[C, Y]) run(root expr.Expr) (expr.Expr, error) {
	log := p.engine.logger.With("run_id", p.runID)
	log.Debug("rewrite started", "root_kind", root.Kind().String(), "rules", p.rules.Len())

	out, err := p.visit(root, true)
	if err != nil {
		log.Error("rewrite failed", "error", err, "steps", p.quota.Current())
		return nil, err
	}
	log.Debug("rewrite finished", "steps", p.quota.Current(), "changed", !expr.Same(root, out))
	return out, nil
}

// visit rewrites the children of e, rebuilds e over them and then drives
// the rebuilt node to its fixpoint.
func (p *pass[C, Y]) visit(e expr.Expr, isRoot bool) (expr.Expr, error) {
	current := e
	if n := e.ChildCount(); n > 0 {
		children := make([]expr.Expr, n)
		for i := range children {
			c, err := p.visit(e.Child(i), false)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		rebuilt, err := p.rebuild(e, children)
		if err != nil {
			return nil, err
		}
		current = rebuilt
	}
	return p.fixpoint(current, isRoot)
}

func (p *pass[C, Y]) rebuild(e expr.Expr, children []expr.Expr) (out expr.Expr, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, newChildFamilyError(p.runID, e, rec)
		}
	}()
	return p.env.Factory.WithChildren(e, children), nil
}

func (p *pass[C, Y]) fixpoint(current expr.Expr, isRoot bool) (expr.Expr, error) {
	for {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}
		next, state, err := p.scan(current, isRoot)
		if err != nil {
			return nil, err
		}
		if state == stateExhausted {
			return current, nil
		}
		current = next
	}
}

// scan offers every applicable rule and match to current, stopping at the
// first invocation that adopts a different node.
func (p *pass[C, Y]) scan(current expr.Expr, isRoot bool) (expr.Expr, fixpointState, error) {
	for _, r := range p.rules.Rules(current) {
		for _, b := range r.Pattern().BindMatches(rule.EmptyBindings, current) {
			next, state, err := p.invoke(r, current, isRoot, b)
			if err != nil {
				return nil, stateExhausted, err
			}
			if state == stateChangedRestart {
				return next, stateChangedRestart, nil
			}
		}
	}
	return current, stateExhausted, nil
}

func (p *pass[C, Y]) invoke(r rule.Rule[C], current expr.Expr, isRoot bool, b rule.Bindings) (expr.Expr, fixpointState, error) {
	call := p.newCall(r.Name(), current, isRoot, b)
	if err := p.callRule(r, call, current); err != nil {
		return nil, stateNoChange, err
	}

	ys := p.yields(call)
	switch len(ys) {
	case 0:
		return current, stateNoChange, nil
	case 1:
	default:
		return nil, stateNoChange, newMultipleResultsError(p.runID, r.Name(), current, len(ys))
	}

	next := p.adopt(current, ys[0])
	if expr.Same(next, current) {
		return current, stateNoChange, nil
	}
	if err := p.quota.Check(p.runID); err != nil {
		p.engine.logger.Warn("step quota exceeded",
			"run_id", p.runID, "rule", r.Name(), "limit", p.quota.MaxSteps())
		return nil, stateNoChange, &RuntimeError{
			Code:    ErrCodeQuotaExceeded,
			Message: "rewrite did not reach a fixpoint",
			RunID:   p.runID,
			Rule:    r.Name(),
			Node:    current.ID(),
			Cause:   err,
		}
	}
	p.record(r.Name(), current, next, isRoot)
	return next, stateChangedRestart, nil
}

func (p *pass[C, Y]) callRule(r rule.Rule[C], call C, current expr.Expr) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = newRuleFailure(p.runID, r.Name(), current, rec)
		}
	}()
	r.OnMatch(call)
	return nil
}

func (p *pass[C, Y]) record(ruleName string, before, after expr.Expr, isRoot bool) {
	e := p.engine
	e.logger.Debug("rule applied",
		"run_id", p.runID,
		"rule", ruleName,
		"kind", before.Kind().String(),
		"before_id", uint64(before.ID()),
		"after_id", uint64(after.ID()),
		"root", isRoot,
	)
	if e.tracer == nil {
		return
	}
	e.tracer.OnRewrite(Event{
		RunID:  p.runID,
		Seq:    e.clock.Next(),
		Rule:   ruleName,
		Kind:   before.Kind(),
		Before: before.String(),
		After:  after.String(),
		Root:   isRoot,
	})
}
