package rule

import (
	"github.com/roach88/sieve/internal/expr"
)

// Env is the per-run context shared by every call.
type Env struct {
	Factory *expr.Factory
	// Aliases records correlations known to stand for one another.
	Aliases expr.AliasMap
	// Constants are correlations whose fields are fixed for the run.
	Constants expr.AliasSet
}

// Call is the callback context for one match of one rule. Y is the type of
// output the rule yields.
type Call[Y any] struct {
	env      Env
	rule     string
	root     expr.Expr
	current  expr.Expr
	isRoot   bool
	bindings Bindings
	yields   []Y
}

func newCall[Y any](env Env, rule string, root, current expr.Expr, isRoot bool, b Bindings) Call[Y] {
	if isRoot {
		root = current
	}
	return Call[Y]{env: env, rule: rule, root: root, current: current, isRoot: isRoot, bindings: b}
}

// Rule returns the name of the rule being invoked.
func (c *Call[Y]) Rule() string { return c.rule }

// Root returns the root of the tree being rewritten. When the current node
// is the root, Root returns the current node, including any children
// rewritten earlier in this pass.
func (c *Call[Y]) Root() expr.Expr { return c.root }

// Current returns the node the rule matched.
func (c *Call[Y]) Current() expr.Expr { return c.current }

// IsRoot reports whether the current node is the root of the tree.
func (c *Call[Y]) IsRoot() bool { return c.isRoot }

// Bindings returns the pattern bindings of this match.
func (c *Call[Y]) Bindings() Bindings { return c.bindings }

// Factory returns the factory new nodes must be built with.
func (c *Call[Y]) Factory() *expr.Factory { return c.env.Factory }

// Aliases returns the equivalent correlations of the run.
func (c *Call[Y]) Aliases() expr.AliasMap { return c.env.Aliases }

// Constants returns the constant correlations of the run.
func (c *Call[Y]) Constants() expr.AliasSet { return c.env.Constants }

// IsConstant reports whether e references only constant correlations and
// no parameters, so its value cannot change during the run.
func (c *Call[Y]) IsConstant(e expr.Expr) bool {
	constant := true
	var walk func(expr.Expr)
	walk = func(n expr.Expr) {
		switch n := n.(type) {
		case *expr.Param:
			constant = false
		case *expr.Field:
			if !c.env.Constants.Contains(n.Alias()) {
				constant = false
			}
		}
		for i := 0; constant && i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(e)
	return constant
}

// Yield records the rule's output for this match.
func (c *Call[Y]) Yield(y Y) { c.yields = append(c.yields, y) }

// Yields returns everything yielded so far, in order.
func (c *Call[Y]) Yields() []Y { return c.yields }

// SimplificationCall is the call type of simplification rules; they yield
// replacement expressions.
type SimplificationCall struct {
	Call[expr.Expr]
}

// NewSimplificationCall prepares a call for one match.
func NewSimplificationCall(env Env, rule string, root, current expr.Expr, isRoot bool, b Bindings) *SimplificationCall {
	return &SimplificationCall{Call: newCall[expr.Expr](env, rule, root, current, isRoot, b)}
}

// Result pairs an expression with the auxiliary value computed for it.
type Result[R any] struct {
	Expr  expr.Expr
	Value R
}

// ComputationCall is the call type of computation rules. A is the argument
// of the computation and R the type of the auxiliary result.
type ComputationCall[A, R any] struct {
	Call[Result[R]]
	arg    A
	lookup func(expr.Expr) (R, bool)
}

// NewComputationCall prepares a call for one match. lookup returns results
// already recorded for other nodes.
func NewComputationCall[A, R any](
	env Env, rule string, root, current expr.Expr, isRoot bool, b Bindings,
	arg A, lookup func(expr.Expr) (R, bool),
) *ComputationCall[A, R] {
	return &ComputationCall[A, R]{
		Call:   newCall[Result[R]](env, rule, root, current, isRoot, b),
		arg:    arg,
		lookup: lookup,
	}
}

// Argument returns the argument the computation was started with.
func (c *ComputationCall[A, R]) Argument() A { return c.arg }

// ResultOf returns the result recorded for e, typically a child of the
// current node.
func (c *ComputationCall[A, R]) ResultOf(e expr.Expr) (R, bool) {
	return c.lookup(e)
}

// YieldResult is shorthand for Yield(Result[R]{Expr: e, Value: v}).
func (c *ComputationCall[A, R]) YieldResult(e expr.Expr, v R) {
	c.Yield(Result[R]{Expr: e, Value: v})
}
