// Package harness runs YAML test scenarios against the rewrite engine and
// the disjunction matcher.
//
// # Scenario Format
//
//	name: range_disjunction
//	description: "Two comparisons over one column collapse into a range set"
//	kind: simplify            # simplify | match | compute
//	predicate:
//	  or:
//	    - {">": [{field: q.a}, 5]}
//	    - {"<": [{field: q.a}, 2]}
//	ruleset: default          # or rules: [flatten_or, or_to_range]
//	rows: {q: {a: 7}}
//	expect:
//	  simplified: "q.a IN {(5, +inf), (-inf, 2)}"
//	  eval: "true"
//
// Match scenarios add a candidate and aliases from query to candidate
// correlations, and expect an outcome (no_match, exact, compensated) and
// the rendered compensation. Compute scenarios list the available
// correlations and expect the referenced fields and whether they are
// covered. Any scenario may expect a runtime error code instead.
//
// See ExprSpec for the expression syntax.
//
// # Deterministic Testing
//
// Every run uses a fresh expression factory, a fresh logical clock and a
// fixed run id, so identical scenarios produce identical traces. RunWithGolden snapshots them with goldie.
package harness
