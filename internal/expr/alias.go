package expr

import (
	"slices"
	"strings"

	"github.com/roach88/sieve/internal/ir"
)

// CorrelationID names an input a field can reference, e.g. the "q" in q.a.
type CorrelationID string

// AliasMap records that one correlation may stand for another. It is an
// immutable value; With returns a modified copy.
type AliasMap struct {
	m map[CorrelationID]CorrelationID
}

// NewAliasMap builds an alias map from from->to pairs.
func NewAliasMap(pairs map[CorrelationID]CorrelationID) AliasMap {
	var a AliasMap
	for from, to := range pairs {
		a = a.With(from, to)
	}
	return a
}

// With returns a copy of a in which from maps to to.
func (a AliasMap) With(from, to CorrelationID) AliasMap {
	m := make(map[CorrelationID]CorrelationID, len(a.m)+1)
	for k, v := range a.m {
		m[k] = v
	}
	m[from] = to
	return AliasMap{m: m}
}

// Target returns the correlation id maps to, or id itself.
func (a AliasMap) Target(id CorrelationID) CorrelationID {
	if to, ok := a.m[id]; ok {
		return to
	}
	return id
}

// Len returns the number of explicit mappings.
func (a AliasMap) Len() int { return len(a.m) }

// Sources returns the mapped correlations in sorted order.
func (a AliasMap) Sources() []CorrelationID {
	out := make([]CorrelationID, 0, len(a.m))
	for k := range a.m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// String renders the mappings as "p->q, r->s".
func (a AliasMap) String() string {
	parts := make([]string, 0, len(a.m))
	for _, k := range a.Sources() {
		parts = append(parts, string(k)+"->"+string(a.m[k]))
	}
	return strings.Join(parts, ", ")
}

// AliasSet is an immutable sorted set of correlations.
type AliasSet struct {
	ids []CorrelationID
}

// NewAliasSet returns the set of ids.
func NewAliasSet(ids ...CorrelationID) AliasSet {
	out := append([]CorrelationID(nil), ids...)
	slices.Sort(out)
	return AliasSet{ids: slices.Compact(out)}
}

// Contains reports membership.
func (s AliasSet) Contains(id CorrelationID) bool {
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

// ContainsAll reports whether every member of o is in s.
func (s AliasSet) ContainsAll(o AliasSet) bool {
	for _, id := range o.ids {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

// Union returns s ∪ o.
func (s AliasSet) Union(o AliasSet) AliasSet {
	return NewAliasSet(append(append([]CorrelationID(nil), s.ids...), o.ids...)...)
}

// Len returns the number of members.
func (s AliasSet) Len() int { return len(s.ids) }

// IDs returns the members in sorted order.
func (s AliasSet) IDs() []CorrelationID { return append([]CorrelationID(nil), s.ids...) }

// String renders the set as "{p, q}".
func (s AliasSet) String() string {
	parts := make([]string, len(s.ids))
	for i, id := range s.ids {
		parts[i] = string(id)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Correlations returns the set of correlations referenced by fields in e.
func Correlations(e Expr) AliasSet {
	var ids []CorrelationID
	var walk func(Expr)
	walk = func(n Expr) {
		if fld, ok := n.(*Field); ok {
			ids = append(ids, fld.alias)
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(e)
	return NewAliasSet(ids...)
}

// Translate rebinds every field of e through t. Subtrees without affected
// fields are returned unchanged.
func (f *Factory) Translate(e Expr, t AliasMap) Expr {
	if t.Len() == 0 {
		return e
	}
	return f.Rewrite(e, func(n Expr) Expr {
		fld, ok := n.(*Field)
		if !ok {
			return n
		}
		if to := t.Target(fld.alias); to != fld.alias {
			return f.Field(to, fld.name)
		}
		return n
	})
}

// SemanticEquals reports whether a and b denote the same expression once
// a's correlations are mapped through aliases. And and Or compare their
// children as multisets.
func SemanticEquals(a, b Expr, aliases AliasMap) bool {
	if Same(a, b) {
		return true
	}
	if a.Kind() != b.Kind() || a.ChildCount() != b.ChildCount() {
		return false
	}
	if !payloadEquals(a, b, aliases) {
		return false
	}
	switch a.Kind() {
	case KindAnd, KindOr:
		return unorderedChildrenEqual(a, b, aliases)
	}
	for i := 0; i < a.ChildCount(); i++ {
		if !SemanticEquals(a.Child(i), b.Child(i), aliases) {
			return false
		}
	}
	return true
}

func payloadEquals(a, b Expr, aliases AliasMap) bool {
	switch x := a.(type) {
	case *Field:
		y := b.(*Field)
		return aliases.Target(x.alias) == y.alias && x.name == y.name
	case *Const:
		return ir.Equal(x.val, b.(*Const).val)
	case *Param:
		return x.name == b.(*Param).name
	case *Arith:
		return x.op == b.(*Arith).op
	case *Constant:
		return x.truth == b.(*Constant).truth
	case *Compare:
		return x.op == b.(*Compare).op
	case *RangeConstraint:
		y := b.(*RangeConstraint)
		if len(x.ranges) != len(y.ranges) {
			return false
		}
		for i := range x.ranges {
			if !x.ranges[i].Equal(y.ranges[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func unorderedChildrenEqual(a, b Expr, aliases AliasMap) bool {
	used := make([]bool, b.ChildCount())
	for i := 0; i < a.ChildCount(); i++ {
		found := false
		for j := 0; j < b.ChildCount(); j++ {
			if used[j] {
				continue
			}
			if SemanticEquals(a.Child(i), b.Child(j), aliases) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
