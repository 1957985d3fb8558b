package rule

import (
	"slices"

	"github.com/roach88/sieve/internal/expr"
)

// Matcher binds a pattern against a node. BindMatches returns one Bindings
// per way the pattern matches, each extending b; an empty result means no
// match.
type Matcher interface {
	// Kinds lists the node kinds the matcher can match at its root, or nil
	// if it can match any kind.
	Kinds() []expr.Kind
	BindMatches(b Bindings, e expr.Expr) []Bindings
}

type anyMatcher struct{}

// Any matches every node once.
func Any() Matcher { return anyMatcher{} }

func (anyMatcher) Kinds() []expr.Kind { return nil }
func (anyMatcher) BindMatches(b Bindings, _ expr.Expr) []Bindings {
	return []Bindings{b}
}

type kindMatcher struct {
	kinds    []expr.Kind
	children []Matcher
}

// OfKind matches nodes of kind k. With no child matchers the children are
// not inspected. Otherwise the node must have exactly len(children)
// children and child i must match children[i]; the result is the cross
// product of the children's matches.
func OfKind(k expr.Kind, children ...Matcher) Matcher {
	return kindMatcher{kinds: []expr.Kind{k}, children: children}
}

// OneOf matches nodes of any of the given kinds without inspecting children.
func OneOf(kinds ...expr.Kind) Matcher {
	return kindMatcher{kinds: slices.Clone(kinds)}
}

func (m kindMatcher) Kinds() []expr.Kind { return m.kinds }

func (m kindMatcher) BindMatches(b Bindings, e expr.Expr) []Bindings {
	if !slices.Contains(m.kinds, e.Kind()) {
		return nil
	}
	if len(m.children) == 0 {
		return []Bindings{b}
	}
	if e.ChildCount() != len(m.children) {
		return nil
	}
	acc := []Bindings{b}
	for i, cm := range m.children {
		var next []Bindings
		for _, partial := range acc {
			next = append(next, cm.BindMatches(partial, e.Child(i))...)
		}
		if len(next) == 0 {
			return nil
		}
		acc = next
	}
	return acc
}

type anyChildMatcher struct {
	kind  expr.Kind
	child Matcher
}

// AnyChild matches nodes of kind k once for every child that matches m, in
// child order.
func AnyChild(k expr.Kind, m Matcher) Matcher {
	return anyChildMatcher{kind: k, child: m}
}

func (m anyChildMatcher) Kinds() []expr.Kind { return []expr.Kind{m.kind} }

func (m anyChildMatcher) BindMatches(b Bindings, e expr.Expr) []Bindings {
	if e.Kind() != m.kind {
		return nil
	}
	var out []Bindings
	for i := 0; i < e.ChildCount(); i++ {
		out = append(out, m.child.BindMatches(b, e.Child(i))...)
	}
	return out
}

type bindMatcher struct {
	name  string
	inner Matcher
}

// Bind matches like m and additionally binds the matched node under name.
func Bind(name string, m Matcher) Matcher {
	return bindMatcher{name: name, inner: m}
}

func (m bindMatcher) Kinds() []expr.Kind { return m.inner.Kinds() }

func (m bindMatcher) BindMatches(b Bindings, e expr.Expr) []Bindings {
	return m.inner.BindMatches(b.With(m.name, e), e)
}

type whereMatcher struct {
	inner Matcher
	pred  func(expr.Expr) bool
}

// Where matches like m, but only nodes for which pred holds.
func Where(m Matcher, pred func(expr.Expr) bool) Matcher {
	return whereMatcher{inner: m, pred: pred}
}

func (m whereMatcher) Kinds() []expr.Kind { return m.inner.Kinds() }

func (m whereMatcher) BindMatches(b Bindings, e expr.Expr) []Bindings {
	if !m.pred(e) {
		return nil
	}
	return m.inner.BindMatches(b, e)
}
