package expr

import (
	"sync"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/ranges"
	"github.com/roach88/sieve/internal/tri"
)

// NodeID identifies a node within its Factory.
type NodeID uint64

// Expr is any node in an expression tree.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	ID() NodeID
	Kind() Kind
	ChildCount() int
	Child(i int) Expr
	String() string
	exprNode()
}

// Value is an expression that produces a literal when evaluated.
type Value interface {
	Expr
	valueNode()
}

// Predicate is an expression that produces a truth value when evaluated.
type Predicate interface {
	Expr
	predicateNode()
}

// Same reports whether a and b are the same node.
func Same(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}

// Children returns the children of e in order.
func Children(e Expr) []Expr {
	out := make([]Expr, e.ChildCount())
	for i := range out {
		out[i] = e.Child(i)
	}
	return out
}

type node struct {
	id NodeID
}

func (n *node) ID() NodeID { return n.id }
func (*node) exprNode()    {}

// leaf provides the child accessors for nodes without children.
type leaf struct{}

func (leaf) ChildCount() int { return 0 }
func (leaf) Child(i int) Expr {
	panic(childOutOfRange(i, 0))
}

// Field references a column of a correlated input, e.g. q.a.
type Field struct {
	node
	leaf
	alias CorrelationID
	name  string
}

func (*Field) Kind() Kind { return KindField }
func (*Field) valueNode() {}

// Alias returns the correlation the field belongs to.
func (e *Field) Alias() CorrelationID { return e.alias }

// Name returns the column name.
func (e *Field) Name() string { return e.name }

// Const is a literal value.
type Const struct {
	node
	leaf
	val ir.IRValue
}

func (*Const) Kind() Kind { return KindConst }
func (*Const) valueNode() {}

// Value returns the literal.
func (e *Const) Value() ir.IRValue { return e.val }

// Literal implements ranges.Operand.
func (e *Const) Literal() (ir.IRValue, bool) { return e.val, true }

// Param is a named parameter bound only at execution time.
type Param struct {
	node
	leaf
	name string
}

func (*Param) Kind() Kind { return KindParam }
func (*Param) valueNode() {}

// Name returns the parameter name without the leading '$'.
func (e *Param) Name() string { return e.name }

// Literal implements ranges.Operand. Parameters are never compile-time
// constants.
func (e *Param) Literal() (ir.IRValue, bool) { return nil, false }

// Arith is a binary arithmetic expression.
type Arith struct {
	node
	op          ir.ArithOp
	left, right Value
}

func (*Arith) Kind() Kind     { return KindArith }
func (*Arith) valueNode()      {}
func (*Arith) ChildCount() int { return 2 }
func (e *Arith) Child(i int) Expr {
	switch i {
	case 0:
		return e.left
	case 1:
		return e.right
	}
	panic(childOutOfRange(i, 2))
}

// Op returns the operator.
func (e *Arith) Op() ir.ArithOp { return e.op }

// Left returns the left operand.
func (e *Arith) Left() Value { return e.left }

// Right returns the right operand.
func (e *Arith) Right() Value { return e.right }

// Constant is a predicate with a fixed truth value.
type Constant struct {
	node
	leaf
	truth tri.Value
}

func (*Constant) Kind() Kind     { return KindConstant }
func (*Constant) predicateNode() {}

// Truth returns the fixed value.
func (e *Constant) Truth() tri.Value { return e.truth }

// Compare is "left op right". Right is nil for IS [NOT] NULL.
type Compare struct {
	node
	op          ranges.CompareOp
	left, right Value
}

func (*Compare) Kind() Kind     { return KindCompare }
func (*Compare) predicateNode() {}
func (e *Compare) ChildCount() int {
	if e.right == nil {
		return 1
	}
	return 2
}
func (e *Compare) Child(i int) Expr {
	switch {
	case i == 0:
		return e.left
	case i == 1 && e.right != nil:
		return e.right
	}
	panic(childOutOfRange(i, e.ChildCount()))
}

// Op returns the comparison operator.
func (e *Compare) Op() ranges.CompareOp { return e.op }

// Left returns the compared value.
func (e *Compare) Left() Value { return e.left }

// Right returns the operand, or nil for unary operators.
func (e *Compare) Right() Value { return e.right }

// RangeConstraint is "value IN r1 OR ... OR rn". The ranges' operands are
// payload, not children.
type RangeConstraint struct {
	node
	operand Value
	ranges  []ranges.Range
}

func (*RangeConstraint) Kind() Kind     { return KindRangeConstraint }
func (*RangeConstraint) predicateNode() {}
func (*RangeConstraint) ChildCount() int {
	return 1
}
func (e *RangeConstraint) Child(i int) Expr {
	if i == 0 {
		return e.operand
	}
	panic(childOutOfRange(i, 1))
}

// Operand returns the constrained value.
func (e *RangeConstraint) Operand() Value { return e.operand }

// Ranges returns a copy of the disjoint-or-not list of ranges.
func (e *RangeConstraint) Ranges() []ranges.Range {
	return append([]ranges.Range(nil), e.ranges...)
}

// And is the conjunction of its children.
type And struct {
	node
	conjuncts []Predicate
}

func (*And) Kind() Kind              { return KindAnd }
func (*And) predicateNode()          {}
func (e *And) ChildCount() int       { return len(e.conjuncts) }
func (e *And) Child(i int) Expr      { return e.conjuncts[i] }
func (e *And) Conjuncts() []Predicate { return append([]Predicate(nil), e.conjuncts...) }

// Or is the disjunction of one or more children.
//
// Semantics:
//
//	child_1 OR child_2 OR ... OR child_n
//
// Evaluation walks children in order and returns true at the first true
// child. Otherwise the result is unknown if any child was unknown, else
// false.
//
// The range view (see RangeView) is computed on first use and cached for
// the lifetime of the node.
type Or struct {
	node
	disjuncts []Predicate

	viewOnce sync.Once
	view     ValueWithRanges
	viewOK   bool
}

func (*Or) Kind() Kind               { return KindOr }
func (*Or) predicateNode()           {}
func (e *Or) ChildCount() int        { return len(e.disjuncts) }
func (e *Or) Child(i int) Expr       { return e.disjuncts[i] }
func (e *Or) Disjuncts() []Predicate { return append([]Predicate(nil), e.disjuncts...) }

// Not negates its child.
type Not struct {
	node
	operand Predicate
}

func (*Not) Kind() Kind     { return KindNot }
func (*Not) predicateNode() {}
func (*Not) ChildCount() int {
	return 1
}
func (e *Not) Child(i int) Expr {
	if i == 0 {
		return e.operand
	}
	panic(childOutOfRange(i, 1))
}

// Operand returns the negated predicate.
func (e *Not) Operand() Predicate { return e.operand }

var (
	_ Value     = (*Field)(nil)
	_ Value     = (*Const)(nil)
	_ Value     = (*Param)(nil)
	_ Value     = (*Arith)(nil)
	_ Predicate = (*Constant)(nil)
	_ Predicate = (*Compare)(nil)
	_ Predicate = (*RangeConstraint)(nil)
	_ Predicate = (*And)(nil)
	_ Predicate = (*Or)(nil)
	_ Predicate = (*Not)(nil)

	_ ranges.Operand = (*Const)(nil)
	_ ranges.Operand = (*Param)(nil)
)
