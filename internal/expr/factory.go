package expr

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/ranges"
	"github.com/roach88/sieve/internal/tri"
)

// Factory is the arena nodes are allocated in. Each node is stamped with
// its index in the arena plus one, so NodeIDs start at 1 and never repeat
// within a factory. A Factory is safe for concurrent use.
type Factory struct {
	mu    sync.Mutex
	nodes []Expr
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{}
}

// allocate stamps a fresh id, builds the node and records it in the arena.
func allocate[T Expr](f *Factory, build func(node) T) T {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := build(node{id: NodeID(len(f.nodes) + 1)})
	f.nodes = append(f.nodes, e)
	return e
}

// Node resolves an id to the node allocated under it.
func (f *Factory) Node(id NodeID) (Expr, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == 0 || uint64(id) > uint64(len(f.nodes)) {
		return nil, false
	}
	return f.nodes[id-1], true
}

// Allocated returns the number of nodes allocated so far.
func (f *Factory) Allocated() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.nodes))
}

func childOutOfRange(i, n int) error {
	return errors.AssertionFailedf("child index %d out of range [0, %d)", i, n)
}

// Field returns a new column reference alias.name.
func (f *Factory) Field(alias CorrelationID, name string) *Field {
	return allocate(f, func(n node) *Field { return &Field{node: n, alias: alias, name: name} })
}

// Const returns a new literal node.
func (f *Factory) Const(v ir.IRValue) *Const {
	if v == nil {
		v = ir.IRNull{}
	}
	return allocate(f, func(n node) *Const { return &Const{node: n, val: v} })
}

// Int is shorthand for Const(ir.IRInt(n)).
func (f *Factory) Int(n int64) *Const { return f.Const(ir.IRInt(n)) }

// Str is shorthand for Const(ir.IRString(s)).
func (f *Factory) Str(s string) *Const { return f.Const(ir.IRString(s)) }

// Null is shorthand for Const(ir.IRNull{}).
func (f *Factory) Null() *Const { return f.Const(ir.IRNull{}) }

// Param returns a new parameter reference.
func (f *Factory) Param(name string) *Param {
	return allocate(f, func(n node) *Param { return &Param{node: n, name: name} })
}

// Arith returns left op right.
func (f *Factory) Arith(op ir.ArithOp, left, right Value) *Arith {
	return allocate(f, func(n node) *Arith { return &Arith{node: n, op: op, left: left, right: right} })
}

// Constant returns a predicate with a fixed truth value.
func (f *Factory) Constant(t tri.Value) *Constant {
	return allocate(f, func(n node) *Constant { return &Constant{node: n, truth: t} })
}

// True is shorthand for Constant(tri.True).
func (f *Factory) True() *Constant { return f.Constant(tri.True) }

// False is shorthand for Constant(tri.False).
func (f *Factory) False() *Constant { return f.Constant(tri.False) }

// Compare returns left op right. Right must be nil exactly when op is unary.
func (f *Factory) Compare(op ranges.CompareOp, left, right Value) *Compare {
	if op.Unary() != (right == nil) {
		panic(errors.AssertionFailedf("operator %s with right operand %v", op, right))
	}
	return allocate(f, func(n node) *Compare { return &Compare{node: n, op: op, left: left, right: right} })
}

// IsNull returns "v IS NULL".
func (f *Factory) IsNull(v Value) *Compare { return f.Compare(ranges.OpIsNull, v, nil) }

// RangeConstraint returns "v IN rs". At least one range is required.
func (f *Factory) RangeConstraint(v Value, rs ...ranges.Range) *RangeConstraint {
	if len(rs) == 0 {
		panic(errors.AssertionFailedf("range constraint on %s without ranges", v))
	}
	return allocate(f, func(n node) *RangeConstraint { return &RangeConstraint{node: n, operand: v, ranges: append([]ranges.Range(nil), rs...)} })
}

// And returns the conjunction of ps. An empty conjunction is TRUE and a
// single conjunct is returned unchanged.
func (f *Factory) And(ps ...Predicate) Predicate {
	switch len(ps) {
	case 0:
		return f.True()
	case 1:
		return ps[0]
	}
	return f.NewAnd(ps...)
}

// NewAnd always builds an And node, even for a single conjunct.
func (f *Factory) NewAnd(ps ...Predicate) *And {
	return allocate(f, func(n node) *And { return &And{node: n, conjuncts: append([]Predicate(nil), ps...)} })
}

// Or returns the disjunction of ps. A single disjunct is returned
// unchanged. It panics when ps is empty: an empty disjunction has no
// meaning here and indicates a bug in the caller.
func (f *Factory) Or(ps ...Predicate) Predicate {
	switch len(ps) {
	case 0:
		panic(errors.AssertionFailedf("disjunction without children"))
	case 1:
		return ps[0]
	}
	return f.NewOr(ps...)
}

// NewOr always builds an Or node, even for a single disjunct.
func (f *Factory) NewOr(ps ...Predicate) *Or {
	if len(ps) == 0 {
		panic(errors.AssertionFailedf("disjunction without children"))
	}
	return allocate(f, func(n node) *Or { return &Or{node: n, disjuncts: append([]Predicate(nil), ps...)} })
}

// Not returns the negation of p.
func (f *Factory) Not(p Predicate) *Not {
	return allocate(f, func(n node) *Not { return &Not{node: n, operand: p} })
}

// WithChildren returns e rebuilt over children. If every child is the same
// node as e's current child at that position, e itself is returned.
// It panics when the number of children differs from e.ChildCount() or
// when a child has the wrong family for its position.
func (f *Factory) WithChildren(e Expr, children []Expr) Expr {
	if len(children) != e.ChildCount() {
		panic(errors.AssertionFailedf(
			"%s node %d rebuilt with %d children, want %d", e.Kind(), e.ID(), len(children), e.ChildCount()))
	}
	unchanged := true
	for i, c := range children {
		if !Same(c, e.Child(i)) {
			unchanged = false
			break
		}
	}
	if unchanged {
		return e
	}

	switch e := e.(type) {
	case *Field, *Const, *Param, *Constant:
		// Leaves have no children, so they are always unchanged.
		return e
	case *Arith:
		return f.Arith(e.op, asValue(children[0]), asValue(children[1]))
	case *Compare:
		var right Value
		if len(children) == 2 {
			right = asValue(children[1])
		}
		return f.Compare(e.op, asValue(children[0]), right)
	case *RangeConstraint:
		return f.RangeConstraint(asValue(children[0]), e.ranges...)
	case *And:
		return f.NewAnd(asPredicates(children)...)
	case *Or:
		return f.NewOr(asPredicates(children)...)
	case *Not:
		return f.Not(asPredicate(children[0]))
	default:
		panic(errors.AssertionFailedf("unhandled node type %T", e))
	}
}

func asValue(e Expr) Value {
	v, ok := e.(Value)
	if !ok {
		panic(errors.AssertionFailedf("%s node %d is not a value", e.Kind(), e.ID()))
	}
	return v
}

func asPredicate(e Expr) Predicate {
	p, ok := e.(Predicate)
	if !ok {
		panic(errors.AssertionFailedf("%s node %d is not a predicate", e.Kind(), e.ID()))
	}
	return p
}

func asPredicates(es []Expr) []Predicate {
	out := make([]Predicate, len(es))
	for i, e := range es {
		out[i] = asPredicate(e)
	}
	return out
}

// Rewrite rebuilds e bottom-up, replacing each node n with fn(n) after its
// children have been rewritten. Nodes for which fn returns its argument and
// whose children are unchanged are kept as is.
func (f *Factory) Rewrite(e Expr, fn func(Expr) Expr) Expr {
	n := e.ChildCount()
	if n > 0 {
		children := make([]Expr, n)
		for i := range children {
			children[i] = f.Rewrite(e.Child(i), fn)
		}
		e = f.WithChildren(e, children)
	}
	return fn(e)
}
