package expr

import (
	"strings"

	"github.com/roach88/sieve/internal/ranges"
)

// ValueWithRanges is a value constrained to lie in one of several ranges.
type ValueWithRanges struct {
	Value  Value
	Ranges []ranges.Range
}

// String renders the view like a RangeConstraint.
func (v ValueWithRanges) String() string {
	parts := make([]string, len(v.Ranges))
	for i, r := range v.Ranges {
		parts[i] = r.String()
	}
	return v.Value.String() + " IN {" + strings.Join(parts, ", ") + "}"
}

// RangeView returns p as a value constrained by ranges, when p has that
// shape:
//
//	x op c                       one range
//	x IN {r1, ..., rn}           the constraint's ranges
//	(x op c) and (x op d) ...    one range, the conjunction folded
//	p1 or p2 ...                 the union, if every pi has a view on x
//
// Operands must be constants or parameters. Views of Or nodes are cached.
func RangeView(p Predicate) (ValueWithRanges, bool) {
	switch p := p.(type) {
	case *Compare:
		subject, c, ok := sargable(p)
		if !ok {
			return ValueWithRanges{}, false
		}
		r, ok := ranges.Build(c)
		if !ok {
			return ValueWithRanges{}, false
		}
		return ValueWithRanges{Value: subject, Ranges: []ranges.Range{r}}, true

	case *RangeConstraint:
		return ValueWithRanges{Value: p.operand, Ranges: p.Ranges()}, true

	case *And:
		return conjunctionView(p)

	case *Or:
		return p.RangeView()

	default:
		return ValueWithRanges{}, false
	}
}

// RangeView returns the cached range view of the disjunction. It is
// computed on first call.
func (e *Or) RangeView() (ValueWithRanges, bool) {
	e.viewOnce.Do(func() {
		e.view, e.viewOK = e.computeRangeView()
	})
	return e.view, e.viewOK
}

func (e *Or) computeRangeView() (ValueWithRanges, bool) {
	var out ValueWithRanges
	for _, child := range e.disjuncts {
		v, ok := RangeView(child)
		if !ok {
			return ValueWithRanges{}, false
		}
		if out.Value == nil {
			out.Value = v.Value
		} else if !SemanticEquals(out.Value, v.Value, AliasMap{}) {
			return ValueWithRanges{}, false
		}
		out.Ranges = append(out.Ranges, v.Ranges...)
	}
	return out, true
}

func conjunctionView(p *And) (ValueWithRanges, bool) {
	var subject Value
	b := ranges.NewBuilder()
	for _, c := range p.conjuncts {
		var s Value
		var cs []ranges.Comparison
		switch c := c.(type) {
		case *Compare:
			var cmp ranges.Comparison
			var ok bool
			if s, cmp, ok = sargable(c); !ok {
				return ValueWithRanges{}, false
			}
			cs = []ranges.Comparison{cmp}
		case *RangeConstraint:
			if len(c.ranges) != 1 {
				return ValueWithRanges{}, false
			}
			s, cs = c.operand, c.ranges[0].Comparisons()
		default:
			return ValueWithRanges{}, false
		}
		if subject == nil {
			subject = s
		} else if !SemanticEquals(subject, s, AliasMap{}) {
			return ValueWithRanges{}, false
		}
		for _, cmp := range cs {
			if !b.Add(cmp) {
				return ValueWithRanges{}, false
			}
		}
	}
	r, ok := b.Build()
	if !ok || subject == nil {
		return ValueWithRanges{}, false
	}
	return ValueWithRanges{Value: subject, Ranges: []ranges.Range{r}}, true
}

// sargable returns the subject and comparison of a compare node whose
// operand is a constant or parameter. "c < x" is commuted to "x > c".
func sargable(p *Compare) (Value, ranges.Comparison, bool) {
	if !p.op.Sargable() || p.right == nil {
		return nil, ranges.Comparison{}, false
	}
	if isOperand(p.right) && !isOperand(p.left) {
		return p.left, ranges.Comparison{Op: p.op, Operand: p.right.(ranges.Operand)}, true
	}
	if isOperand(p.left) && !isOperand(p.right) {
		op, _ := p.op.Commute()
		return p.right, ranges.Comparison{Op: op, Operand: p.left.(ranges.Operand)}, true
	}
	return nil, ranges.Comparison{}, false
}

func isOperand(v Value) bool {
	switch v.(type) {
	case *Const, *Param:
		return true
	default:
		return false
	}
}
