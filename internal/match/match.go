package match

import (
	"github.com/roach88/sieve/internal/expr"
)

// PredicateMapping records that Query implies Candidate. Compensation is
// nil for exact matches.
type PredicateMapping struct {
	Query     expr.Predicate
	Candidate expr.Predicate
	Outcome   Outcome
	// Compensation builds the residual filter for compensated matches.
	Compensation CompensateFunc
}

// NeedsCompensation reports whether the mapping carries a compensation.
func (m PredicateMapping) NeedsCompensation() bool { return m.Compensation != nil }

// Residual expands the mapping's compensation with pm and rebinds it
// through t. ok is false when the mapping needs no compensation or when no
// leaf of the query compensates.
func (m PredicateMapping) Residual(pm PartialMatch, t expr.AliasMap) (Expansion, bool) {
	if m.Compensation == nil {
		return Expansion{}, false
	}
	fn, ok := m.Compensation(pm)
	if !ok {
		return Expansion{}, false
	}
	return fn(t), true
}

// ImpliesCandidate decides whether query p implies candidate. aliases maps
// the query's correlations to the candidate's.
//
// A disjunction whose range view is over the same value as the candidate's
// view is decided by MatchRanges. Everything else goes through the generic
// rules, in order:
//
//	p and candidate are semantically equal         exact
//	candidate is TRUE                              compensated
//	both have range views over the same value      MatchRanges
//
// ok is false when there is no mapping.
func ImpliesCandidate(f *expr.Factory, p expr.Predicate, aliases expr.AliasMap, candidate expr.Predicate) (PredicateMapping, bool) {
	if or, ok := p.(*expr.Or); ok {
		if m, ok := disjunctionFastPath(f, or, aliases, candidate); ok {
			return m, m.Outcome.Matched()
		}
	}
	return impliesGeneric(f, p, aliases, candidate)
}

// disjunctionFastPath reports ok=false when the fast path does not apply,
// in which case the mapping must come from the generic rules.
func disjunctionFastPath(f *expr.Factory, p *expr.Or, aliases expr.AliasMap, candidate expr.Predicate) (PredicateMapping, bool) {
	left, ok := p.RangeView()
	if !ok {
		return PredicateMapping{}, false
	}
	right, ok := expr.RangeView(candidate)
	if !ok || !expr.SemanticEquals(left.Value, right.Value, aliases) {
		return PredicateMapping{}, false
	}
	return mappingFor(f, p, candidate, MatchRanges(left.Ranges, right.Ranges)), true
}

func impliesGeneric(f *expr.Factory, p expr.Predicate, aliases expr.AliasMap, candidate expr.Predicate) (PredicateMapping, bool) {
	if expr.SemanticEquals(p, candidate, aliases) {
		return mappingFor(f, p, candidate, ExactMatch), true
	}
	if c, ok := candidate.(*expr.Constant); ok && c.Truth().IsTrue() {
		return mappingFor(f, p, candidate, MatchWithCompensation), true
	}
	left, ok := expr.RangeView(p)
	if !ok {
		return PredicateMapping{}, false
	}
	right, ok := expr.RangeView(candidate)
	if !ok || !expr.SemanticEquals(left.Value, right.Value, aliases) {
		return PredicateMapping{}, false
	}
	m := mappingFor(f, p, candidate, MatchRanges(left.Ranges, right.Ranges))
	return m, m.Outcome.Matched()
}

func mappingFor(f *expr.Factory, p, candidate expr.Predicate, o Outcome) PredicateMapping {
	m := PredicateMapping{Query: p, Candidate: candidate, Outcome: o}
	if o == MatchWithCompensation {
		m.Compensation = func(pm PartialMatch) (ExpandFunc, bool) {
			return FoldCompensation(f, p, pm)
		}
	}
	return m
}
