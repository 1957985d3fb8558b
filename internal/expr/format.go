package expr

import (
	"strings"

	"github.com/roach88/sieve/internal/ir"
)

func (e *Field) String() string { return string(e.alias) + "." + e.name }
func (e *Const) String() string { return ir.Format(e.val) }
func (e *Param) String() string { return "$" + e.name }

func (e *Arith) String() string {
	return "(" + e.left.String() + " " + e.op.String() + " " + e.right.String() + ")"
}

func (e *Constant) String() string { return strings.ToUpper(e.truth.String()) }

func (e *Compare) String() string {
	if e.right == nil {
		return e.left.String() + " " + e.op.String()
	}
	return e.left.String() + " " + e.op.String() + " " + e.right.String()
}

func (e *RangeConstraint) String() string {
	parts := make([]string, len(e.ranges))
	for i, r := range e.ranges {
		parts[i] = r.String()
	}
	return e.operand.String() + " IN {" + strings.Join(parts, ", ") + "}"
}

func (e *And) String() string { return joinChildren(e, " and ") }
func (e *Or) String() string  { return joinChildren(e, " or ") }
func (e *Not) String() string { return "not (" + e.operand.String() + ")" }

func joinChildren(e Expr, sep string) string {
	parts := make([]string, e.ChildCount())
	for i := range parts {
		parts[i] = "(" + e.Child(i).String() + ")"
	}
	return strings.Join(parts, sep)
}
