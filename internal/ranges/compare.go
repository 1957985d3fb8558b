package ranges

import (
	"strconv"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/tri"
)

// CompareOp identifies a comparison operator.
type CompareOp int

const (
	OpEQ CompareOp = iota + 1
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpIsNull
	OpIsNotNull
)

var opSymbols = map[CompareOp]string{
	OpEQ:        "=",
	OpNE:        "!=",
	OpLT:        "<",
	OpLE:        "<=",
	OpGT:        ">",
	OpGE:        ">=",
	OpIsNull:    "IS NULL",
	OpIsNotNull: "IS NOT NULL",
}

// String returns the operator symbol.
func (op CompareOp) String() string {
	if s, ok := opSymbols[op]; ok {
		return s
	}
	return "?" + strconv.Itoa(int(op))
}

// ParseCompareOp parses an operator symbol.
func ParseCompareOp(s string) (CompareOp, bool) {
	for op, sym := range opSymbols {
		if sym == s {
			return op, true
		}
	}
	if s == "<>" {
		return OpNE, true
	}
	return 0, false
}

// Unary reports whether op takes no operand.
func (op CompareOp) Unary() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// Sargable reports whether op can be folded into range bounds.
func (op CompareOp) Sargable() bool {
	switch op {
	case OpEQ, OpLT, OpLE, OpGT, OpGE:
		return true
	default:
		return false
	}
}

// Commute returns the operator with its arguments swapped, so that
// "c < x" can be written as "x > c". ok is false for unary operators.
func (op CompareOp) Commute() (CompareOp, bool) {
	switch op {
	case OpEQ, OpNE:
		return op, true
	case OpLT:
		return OpGT, true
	case OpLE:
		return OpGE, true
	case OpGT:
		return OpLT, true
	case OpGE:
		return OpLE, true
	default:
		return 0, false
	}
}

// Negate returns the operator for NOT (x op y), valid under two-valued
// logic on non-null operands.
func (op CompareOp) Negate() CompareOp {
	switch op {
	case OpEQ:
		return OpNE
	case OpNE:
		return OpEQ
	case OpLT:
		return OpGE
	case OpLE:
		return OpGT
	case OpGT:
		return OpLE
	case OpGE:
		return OpLT
	case OpIsNull:
		return OpIsNotNull
	default:
		return OpIsNull
	}
}

// EvalCompare applies op to two literals. Comparisons involving null are
// unknown, except the IS [NOT] NULL tests. rhs is ignored for unary ops.
func EvalCompare(op CompareOp, lhs, rhs ir.IRValue) tri.Value {
	_, lhsNull := lhs.(ir.IRNull)
	switch op {
	case OpIsNull:
		return tri.Of(lhsNull)
	case OpIsNotNull:
		return tri.Of(!lhsNull)
	}
	if _, rhsNull := rhs.(ir.IRNull); lhsNull || rhsNull {
		return tri.Unknown
	}

	c, ok := ir.Compare(lhs, rhs)
	if !ok {
		if op == OpEQ || op == OpNE {
			if ir.TypeName(lhs) == ir.TypeName(rhs) {
				eq := tri.Of(ir.Equal(lhs, rhs))
				if op == OpNE {
					return tri.Not(eq)
				}
				return eq
			}
		}
		return tri.Unknown
	}
	switch op {
	case OpEQ:
		return tri.Of(c == 0)
	case OpNE:
		return tri.Of(c != 0)
	case OpLT:
		return tri.Of(c < 0)
	case OpLE:
		return tri.Of(c <= 0)
	case OpGT:
		return tri.Of(c > 0)
	case OpGE:
		return tri.Of(c >= 0)
	default:
		return tri.Unknown
	}
}
