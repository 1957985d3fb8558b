// Package expr defines the immutable expression trees that the rewrite
// engine operates on.
//
// NODES:
//
// Every node is allocated by a Factory, which stamps it with a NodeID that
// is unique for the lifetime of the factory. Two nodes are the same node
// only if they are the same allocation; Same compares identity, never
// structure. Rewrites that produce a structurally equal but freshly built
// node therefore count as a change.
//
// Nodes fall into two families:
//
//	Value      Field, Const, Param, Arith
//	Predicate  Constant, Compare, RangeConstraint, And, Or, Not
//
// Both Value and Predicate are sealed interfaces: only types in this
// package implement them, so switches over Kind are exhaustive.
//
// CHILDREN:
//
// Children are ordered. Rebuilding a node through Factory.WithChildren
// returns the original node when every supplied child is the same node as
// before, and otherwise a new node of the same kind with the same payload.
// Supplying a different number of children is a programming error and
// panics with an assertion failure.
//
// PREDICATES:
//
// Predicates evaluate to a three-valued truth value (see package tri).
// Or evaluates its children in order and stops at the first true child;
// And stops at the first false child. Unknown never short-circuits.
//
// RANGE VIEW:
//
// A disjunction whose children all constrain the same value can be viewed
// as that value together with a list of ranges (ValueWithRanges). The view
// is computed at most once per Or node and cached.
//
// Example:
//
//	f := expr.NewFactory()
//	a := f.Field("q", "a")
//	p := f.Or(
//	    f.And(f.Compare(ranges.OpGT, a, f.Int(3)), f.Compare(ranges.OpLT, a, f.Int(10))),
//	    f.Compare(ranges.OpEQ, a, f.Int(50)),
//	)
//	view, ok := expr.RangeView(p) // q.a IN {(3, 10), [50]}
package expr
