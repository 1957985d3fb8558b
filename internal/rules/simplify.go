package rules

import (
	"github.com/roach88/sieve/internal/expr"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/ranges"
	"github.com/roach88/sieve/internal/rule"
	"github.com/roach88/sieve/internal/tri"
)

// SimplificationRule is a rule run by engine.Simplify.
type SimplificationRule = rule.Rule[*rule.SimplificationCall]

type call = *rule.SimplificationCall

var notNot = rule.New("not_not",
	rule.OfKind(expr.KindNot, rule.OfKind(expr.KindNot, rule.Bind("p", rule.Any()))),
	func(c call) {
		c.Yield(c.Bindings().Expr("p"))
	})

var notConstant = rule.New("not_constant",
	rule.OfKind(expr.KindNot, rule.Bind("k", rule.OfKind(expr.KindConstant))),
	func(c call) {
		k := c.Bindings().Expr("k").(*expr.Constant)
		c.Yield(c.Factory().Constant(tri.Not(k.Truth())))
	})

var foldArith = rule.New("fold_arith",
	rule.OfKind(expr.KindArith, rule.OfKind(expr.KindConst), rule.OfKind(expr.KindConst)),
	func(c call) {
		a := c.Current().(*expr.Arith)
		l, r := a.Left().(*expr.Const), a.Right().(*expr.Const)
		v, ok, err := ir.Arith(a.Op(), l.Value(), r.Value())
		if err != nil || !ok {
			// Left for evaluation to report.
			return
		}
		c.Yield(c.Factory().Const(v))
	})

var foldCompare = rule.New("fold_compare",
	rule.Where(rule.OfKind(expr.KindCompare), allConst),
	func(c call) {
		cmp := c.Current().(*expr.Compare)
		var r ir.IRValue
		if cmp.Right() != nil {
			r = cmp.Right().(*expr.Const).Value()
		}
		c.Yield(c.Factory().Constant(ranges.EvalCompare(cmp.Op(), cmp.Left().(*expr.Const).Value(), r)))
	})

func allConst(e expr.Expr) bool {
	for i := 0; i < e.ChildCount(); i++ {
		if e.Child(i).Kind() != expr.KindConst {
			return false
		}
	}
	return true
}

var normalizeCompare = rule.New("normalize_compare",
	rule.OfKind(expr.KindCompare, rule.Bind("l", rule.Any()), rule.Bind("r", rule.Any())),
	func(c call) {
		l, r := c.Bindings().Value("l"), c.Bindings().Value("r")
		if !pinned(c, l) || pinned(c, r) {
			return
		}
		op, ok := c.Current().(*expr.Compare).Op().Commute()
		if !ok {
			return
		}
		c.Yield(c.Factory().Compare(op, r, l))
	})

// pinned reports whether v does not vary within a run: literals,
// parameters and expressions over constant correlations.
func pinned(c call, v expr.Value) bool {
	if v.Kind() == expr.KindParam {
		return true
	}
	return c.IsConstant(v)
}

var flattenOr = rule.New("flatten_or",
	rule.Where(rule.OfKind(expr.KindOr), hasChildOfKind(expr.KindOr)),
	func(c call) {
		c.Yield(c.Factory().Or(splice(c.Current(), expr.KindOr)...))
	})

var flattenAnd = rule.New("flatten_and",
	rule.Where(rule.OfKind(expr.KindAnd), hasChildOfKind(expr.KindAnd)),
	func(c call) {
		c.Yield(c.Factory().And(splice(c.Current(), expr.KindAnd)...))
	})

func hasChildOfKind(k expr.Kind) func(expr.Expr) bool {
	return func(e expr.Expr) bool {
		for i := 0; i < e.ChildCount(); i++ {
			if e.Child(i).Kind() == k {
				return true
			}
		}
		return false
	}
}

// splice returns the children of e with every child of kind k replaced by
// its own children.
func splice(e expr.Expr, k expr.Kind) []expr.Predicate {
	var out []expr.Predicate
	for _, child := range expr.Children(e) {
		if child.Kind() == k {
			out = append(out, splice(child, k)...)
			continue
		}
		out = append(out, child.(expr.Predicate))
	}
	return out
}

var orTrue = rule.New("or_true",
	rule.Where(rule.OfKind(expr.KindOr), hasConstantChild(tri.True)),
	func(c call) {
		c.Yield(c.Factory().True())
	})

var orDropFalse = rule.New("or_drop_false",
	rule.Where(rule.OfKind(expr.KindOr), hasConstantChild(tri.False)),
	func(c call) {
		keep := without(c.Current(), tri.False)
		if len(keep) == 0 {
			c.Yield(c.Factory().False())
			return
		}
		c.Yield(c.Factory().Or(keep...))
	})

var andFalse = rule.New("and_false",
	rule.Where(rule.OfKind(expr.KindAnd), hasConstantChild(tri.False)),
	func(c call) {
		c.Yield(c.Factory().False())
	})

var andDropTrue = rule.New("and_drop_true",
	rule.Where(rule.OfKind(expr.KindAnd), hasConstantChild(tri.True)),
	func(c call) {
		c.Yield(c.Factory().And(without(c.Current(), tri.True)...))
	})

func hasConstantChild(t tri.Value) func(expr.Expr) bool {
	return func(e expr.Expr) bool {
		for i := 0; i < e.ChildCount(); i++ {
			if k, ok := e.Child(i).(*expr.Constant); ok && k.Truth() == t {
				return true
			}
		}
		return false
	}
}

func without(e expr.Expr, t tri.Value) []expr.Predicate {
	var out []expr.Predicate
	for _, child := range expr.Children(e) {
		if k, ok := child.(*expr.Constant); ok && k.Truth() == t {
			continue
		}
		out = append(out, child.(expr.Predicate))
	}
	return out
}

var orToRange = rule.New("or_to_range",
	rule.OfKind(expr.KindOr),
	func(c call) {
		view, ok := c.Current().(*expr.Or).RangeView()
		if !ok {
			return
		}
		c.Yield(c.Factory().RangeConstraint(view.Value, view.Ranges...))
	})
