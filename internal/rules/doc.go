// Package rules provides the concrete rule sets run by the engine.
//
// SIMPLIFICATION:
//
// Each rule is registered under a stable name so that rule sets can be
// assembled from configuration. DefaultOrder lists every rule in the order
// Default uses:
//
//	not_not            not (not (p))                => p
//	not_constant       not (TRUE)                   => FALSE
//	fold_arith         1 + 2                        => 3
//	fold_compare       3 > 2                        => TRUE
//	normalize_compare  5 < q.a                      => q.a > 5
//	flatten_or         (a) or ((b) or (c))          => (a) or (b) or (c)
//	flatten_and        (a) and ((b) and (c))        => (a) and (b) and (c)
//	or_true            (a) or (TRUE)                => TRUE
//	or_drop_false      (a) or (FALSE)               => a
//	and_false          (a) and (FALSE)              => FALSE
//	and_drop_true      (a) and (TRUE)               => a
//	or_to_range        (q.a < 3) or (q.a > 9)       => q.a IN {(-inf, 3), (9, +inf)}
//
// Every rule is tri-valued sound: a rewrite never changes what a predicate
// evaluates to, including Unknown.
//
// Rules only yield when they change something. A rule that yields an
// equal but freshly built node on every call never reaches a fixpoint and
// trips the engine's step quota.
//
// COMPUTATION:
//
// CorrelationRules computes, for a predicate, the fields it references and
// whether all of them are available from a given set of correlations.
package rules
