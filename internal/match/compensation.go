package match

import (
	"strings"

	"github.com/roach88/sieve/internal/expr"
)

// Expansion is the residual produced by a compensation: predicates to
// apply on top of the candidate and the correlations they read.
type Expansion struct {
	Predicates  []expr.Predicate
	Quantifiers expr.AliasSet
}

// AsAnd returns the conjunction of the expansion's predicates. An empty
// expansion is TRUE.
func (x Expansion) AsAnd(f *expr.Factory) expr.Predicate {
	return f.And(x.Predicates...)
}

// String renders the predicates joined by " and ".
func (x Expansion) String() string {
	parts := make([]string, len(x.Predicates))
	for i, p := range x.Predicates {
		parts[i] = p.String()
	}
	return strings.Join(parts, " and ")
}

// ExpandFunc builds a residual once the alias map that rebinds query
// correlations to the candidate's is known.
type ExpandFunc func(expr.AliasMap) Expansion

// CompensateFunc turns a partial match into an ExpandFunc. ok is false
// when nothing needs to be reapplied.
type CompensateFunc func(PartialMatch) (ExpandFunc, bool)

// PartialMatch supplies the compensation of an individual leaf predicate.
// Implementations decide how a leaf that was only partially covered by a
// match is re-expressed on the candidate side.
type PartialMatch interface {
	Compensate(p expr.Predicate) (ExpandFunc, bool)
}

// PartialMatchFunc adapts a function to PartialMatch.
type PartialMatchFunc func(expr.Predicate) (ExpandFunc, bool)

// Compensate implements PartialMatch.
func (fn PartialMatchFunc) Compensate(p expr.Predicate) (ExpandFunc, bool) { return fn(p) }

// Reapply is the PartialMatch that compensates every leaf by reapplying
// it, rebound to the candidate's correlations.
type Reapply struct {
	Factory *expr.Factory
}

// Compensate implements PartialMatch.
func (r Reapply) Compensate(p expr.Predicate) (ExpandFunc, bool) {
	return func(t expr.AliasMap) Expansion {
		q := r.Factory.Translate(p, t).(expr.Predicate)
		return Expansion{Predicates: []expr.Predicate{q}, Quantifiers: expr.Correlations(q)}
	}, true
}

// FoldCompensation builds the compensation of p bottom-up. Leaves ask pm;
// an And concatenates its children's expansions; an Or becomes the Or of
// the Ands of its children's expansions. Children without compensation are
// skipped, and a connective none of whose children compensates has no
// compensation either.
func FoldCompensation(f *expr.Factory, p expr.Predicate, pm PartialMatch) (ExpandFunc, bool) {
	switch p := p.(type) {
	case *expr.Or:
		fns := foldChildren(f, p.Disjuncts(), pm)
		if len(fns) == 0 {
			return nil, false
		}
		return func(t expr.AliasMap) Expansion {
			var out Expansion
			legs := make([]expr.Predicate, len(fns))
			for i, fn := range fns {
				x := fn(t)
				legs[i] = x.AsAnd(f)
				out.Quantifiers = out.Quantifiers.Union(x.Quantifiers)
			}
			out.Predicates = []expr.Predicate{f.Or(legs...)}
			return out
		}, true

	case *expr.And:
		fns := foldChildren(f, p.Conjuncts(), pm)
		if len(fns) == 0 {
			return nil, false
		}
		return func(t expr.AliasMap) Expansion {
			var out Expansion
			for _, fn := range fns {
				x := fn(t)
				out.Predicates = append(out.Predicates, x.Predicates...)
				out.Quantifiers = out.Quantifiers.Union(x.Quantifiers)
			}
			return out
		}, true

	default:
		return pm.Compensate(p)
	}
}

func foldChildren(f *expr.Factory, children []expr.Predicate, pm PartialMatch) []ExpandFunc {
	var fns []ExpandFunc
	for _, c := range children {
		if fn, ok := FoldCompensation(f, c, pm); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
