package rules

import (
	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/rule"
)

var defaultRules = []SimplificationRule{
	notNot,
	notConstant,
	foldArith,
	foldCompare,
	normalizeCompare,
	flattenOr,
	flattenAnd,
	orTrue,
	orDropFalse,
	andFalse,
	andDropTrue,
	orToRange,
}

var registry = func() map[string]SimplificationRule {
	m := make(map[string]SimplificationRule, len(defaultRules))
	for _, r := range defaultRules {
		m[r.Name()] = r
	}
	return m
}()

// DefaultOrder returns the names of every simplification rule in default
// order.
func DefaultOrder() []string {
	out := make([]string, len(defaultRules))
	for i, r := range defaultRules {
		out[i] = r.Name()
	}
	return out
}

// Known reports whether name is a registered simplification rule.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Lookup returns the simplification rule registered under name.
func Lookup(name string) (SimplificationRule, bool) {
	r, ok := registry[name]
	return r, ok
}

// Build assembles a rule set from rule names, keeping their order. Unknown
// and repeated names are errors.
func Build(names []string) (*rule.RuleSet[*rule.SimplificationCall], error) {
	if len(names) == 0 {
		return nil, errors.New("rule set has no rules")
	}
	rs := make([]SimplificationRule, 0, len(names))
	for _, name := range names {
		r, ok := registry[name]
		if !ok {
			return nil, errors.Newf("unknown rule %q", name)
		}
		rs = append(rs, r)
	}
	return rule.NewRuleSet(rs...)
}

// Default returns the rule set of every simplification rule in default
// order.
func Default() *rule.RuleSet[*rule.SimplificationCall] {
	return rule.MustRuleSet(defaultRules...)
}
