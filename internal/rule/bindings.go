package rule

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/expr"
)

// Bindings maps pattern names to the nodes they matched. It is an immutable
// value; With returns an extended copy.
type Bindings struct {
	m map[string]expr.Expr
}

// EmptyBindings has no entries.
var EmptyBindings = Bindings{}

// With returns a copy of b in which name is bound to e.
func (b Bindings) With(name string, e expr.Expr) Bindings {
	m := make(map[string]expr.Expr, len(b.m)+1)
	for k, v := range b.m {
		m[k] = v
	}
	m[name] = e
	return Bindings{m: m}
}

// Get returns the node bound to name.
func (b Bindings) Get(name string) (expr.Expr, bool) {
	e, ok := b.m[name]
	return e, ok
}

// Names returns the bound names in sorted order.
func (b Bindings) Names() []string {
	out := make([]string, 0, len(b.m))
	for k := range b.m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Expr returns the node bound to name. It panics if name is unbound; a rule
// asking for a name its own pattern does not bind is a bug.
func (b Bindings) Expr(name string) expr.Expr {
	e, ok := b.m[name]
	if !ok {
		panic(errors.AssertionFailedf("binding %q not found", name))
	}
	return e
}

// Predicate is like Expr but also asserts that the node is a predicate.
func (b Bindings) Predicate(name string) expr.Predicate {
	e := b.Expr(name)
	p, ok := e.(expr.Predicate)
	if !ok {
		panic(errors.AssertionFailedf("binding %q is a %s, not a predicate", name, e.Kind()))
	}
	return p
}

// Value is like Expr but also asserts that the node is a value.
func (b Bindings) Value(name string) expr.Value {
	e := b.Expr(name)
	v, ok := e.(expr.Value)
	if !ok {
		panic(errors.AssertionFailedf("binding %q is a %s, not a value", name, e.Kind()))
	}
	return v
}
