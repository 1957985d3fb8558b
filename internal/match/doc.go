// Package match decides whether a query predicate implies a candidate
// predicate, such as the filter of a materialized view or an index, and
// what residual filter must be reapplied when it only partially does.
//
// OUTCOMES:
//
//	NoMatch                some query range has no enclosing candidate range
//	ExactMatch             every query range has an equal candidate range
//	MatchWithCompensation  every query range is enclosed, some strictly
//
// Enclosure is three-valued. Unknown counts as "does not enclose", so a
// match is reported only when it is certain.
//
// COMPENSATION:
//
// A compensated match obliges the caller to reapply the whole query
// predicate on top of the candidate, not just the uncovered remainder. The
// residual is built lazily: a PredicateMapping carries a CompensateFunc,
// which is handed a PartialMatch once the caller knows how children
// compensate, and returns an ExpandFunc, which is handed the alias map that
// rebinds query correlations to the candidate's.
//
// The residual keeps the shape of the query predicate. An Or of Ands
// compensates as an Or of the Ands of its children's expansions; children
// without a compensation drop out, and when none has one there is no
// compensation at all.
package match
