package expr

import (
	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/ranges"
	"github.com/roach88/sieve/internal/tri"
)

// EvalContext supplies the runtime inputs of an expression.
type EvalContext interface {
	Field(alias CorrelationID, name string) (ir.IRValue, error)
	Param(name string) (ir.IRValue, error)
}

// MapContext is an EvalContext backed by in-memory rows.
// A missing column evaluates to null; a missing correlation or parameter
// is an error.
type MapContext struct {
	Rows   map[CorrelationID]ir.IRObject
	Params ir.IRObject
}

// Field implements EvalContext.
func (c MapContext) Field(alias CorrelationID, name string) (ir.IRValue, error) {
	row, ok := c.Rows[alias]
	if !ok {
		return nil, errors.Newf("no row bound for correlation %q", alias)
	}
	v, ok := row[name]
	if !ok {
		return ir.IRNull{}, nil
	}
	return v, nil
}

// Param implements EvalContext.
func (c MapContext) Param(name string) (ir.IRValue, error) {
	v, ok := c.Params[name]
	if !ok {
		return nil, errors.Newf("parameter $%s is not bound", name)
	}
	return v, nil
}

// EvalValue computes the literal v denotes.
func EvalValue(v Value, ctx EvalContext) (ir.IRValue, error) {
	switch v := v.(type) {
	case *Field:
		return ctx.Field(v.alias, v.name)
	case *Const:
		return v.val, nil
	case *Param:
		return ctx.Param(v.name)
	case *Arith:
		l, err := EvalValue(v.left, ctx)
		if err != nil {
			return nil, err
		}
		r, err := EvalValue(v.right, ctx)
		if err != nil {
			return nil, err
		}
		out, ok, err := ir.Arith(v.op, l, r)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Newf("cannot apply %s to %s and %s", v.op, ir.TypeName(l), ir.TypeName(r))
		}
		return out, nil
	default:
		return nil, errors.AssertionFailedf("unhandled value type %T", v)
	}
}

// Eval computes the truth value of p.
func Eval(p Predicate, ctx EvalContext) (tri.Value, error) {
	switch p := p.(type) {
	case *Constant:
		return p.truth, nil

	case *Compare:
		l, err := EvalValue(p.left, ctx)
		if err != nil {
			return tri.Unknown, err
		}
		var r ir.IRValue
		if p.right != nil {
			if r, err = EvalValue(p.right, ctx); err != nil {
				return tri.Unknown, err
			}
		}
		return ranges.EvalCompare(p.op, l, r), nil

	case *RangeConstraint:
		v, err := EvalValue(p.operand, ctx)
		if err != nil {
			return tri.Unknown, err
		}
		res := tri.False
		for _, rg := range p.ranges {
			in, err := evalRange(rg, v, ctx)
			if err != nil {
				return tri.Unknown, err
			}
			if in == tri.True {
				return tri.True, nil
			}
			res = tri.Or(res, in)
		}
		return res, nil

	case *And:
		res := tri.True
		for _, c := range p.conjuncts {
			v, err := Eval(c, ctx)
			if err != nil {
				return tri.Unknown, err
			}
			if v == tri.False {
				return tri.False, nil
			}
			res = tri.And(res, v)
		}
		return res, nil

	case *Or:
		res := tri.False
		for _, c := range p.disjuncts {
			v, err := Eval(c, ctx)
			if err != nil {
				return tri.Unknown, err
			}
			switch v {
			case tri.True:
				return tri.True, nil
			case tri.Unknown:
				res = tri.Unknown
			}
		}
		return res, nil

	case *Not:
		v, err := Eval(p.operand, ctx)
		if err != nil {
			return tri.Unknown, err
		}
		return tri.Not(v), nil

	default:
		return tri.Unknown, errors.AssertionFailedf("unhandled predicate type %T", p)
	}
}

// evalRange checks v against every comparison the range was built from.
func evalRange(rg ranges.Range, v ir.IRValue, ctx EvalContext) (tri.Value, error) {
	res := tri.True
	for _, c := range rg.Comparisons() {
		operand, err := evalOperand(c.Operand, ctx)
		if err != nil {
			return tri.Unknown, err
		}
		res = tri.And(res, ranges.EvalCompare(c.Op, v, operand))
		if res == tri.False {
			return tri.False, nil
		}
	}
	return res, nil
}

func evalOperand(op ranges.Operand, ctx EvalContext) (ir.IRValue, error) {
	if v, ok := op.(Value); ok {
		return EvalValue(v, ctx)
	}
	if lit, ok := op.Literal(); ok {
		return lit, nil
	}
	return nil, errors.AssertionFailedf("operand %s has no value", op)
}
