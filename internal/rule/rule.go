package rule

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/expr"
)

// Rule is a pattern plus the callback invoked for each of its matches.
// C is the call type: *SimplificationCall or *ComputationCall[A, R].
type Rule[C any] interface {
	Name() string
	Pattern() Matcher
	OnMatch(call C)
}

type funcRule[C any] struct {
	name    string
	pattern Matcher
	fn      func(C)
}

// New returns a rule that invokes fn for every match of pattern.
func New[C any](name string, pattern Matcher, fn func(C)) Rule[C] {
	return funcRule[C]{name: name, pattern: pattern, fn: fn}
}

func (r funcRule[C]) Name() string     { return r.name }
func (r funcRule[C]) Pattern() Matcher { return r.pattern }
func (r funcRule[C]) OnMatch(call C)   { r.fn(call) }

// RuleSet is an ordered collection of rules indexed by the node kinds they
// can match. Rules are always offered in declaration order.
type RuleSet[C any] struct {
	rules  []Rule[C]
	byKind map[expr.Kind][]Rule[C]
}

// NewRuleSet indexes rules. Rule names must be unique.
func NewRuleSet[C any](rules ...Rule[C]) (*RuleSet[C], error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.Name()] {
			return nil, errors.Newf("duplicate rule %q", r.Name())
		}
		seen[r.Name()] = true
	}

	rs := &RuleSet[C]{
		rules:  slices.Clone(rules),
		byKind: make(map[expr.Kind][]Rule[C]),
	}
	for _, k := range expr.AllKinds() {
		for _, r := range rs.rules {
			kinds := r.Pattern().Kinds()
			if kinds == nil || slices.Contains(kinds, k) {
				rs.byKind[k] = append(rs.byKind[k], r)
			}
		}
	}
	return rs, nil
}

// MustRuleSet is like NewRuleSet but panics on error.
func MustRuleSet[C any](rules ...Rule[C]) *RuleSet[C] {
	rs, err := NewRuleSet(rules...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Rules returns the rules that may match e, in declaration order.
func (rs *RuleSet[C]) Rules(e expr.Expr) []Rule[C] {
	return rs.byKind[e.Kind()]
}

// Names returns the rule names in declaration order.
func (rs *RuleSet[C]) Names() []string {
	out := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.Name()
	}
	return out
}

// Len returns the number of rules.
func (rs *RuleSet[C]) Len() int { return len(rs.rules) }
