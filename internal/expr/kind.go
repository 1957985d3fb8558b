package expr

import "strconv"

// Kind is the closed set of node variants.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindField
	KindConst
	KindParam
	KindArith
	KindConstant
	KindCompare
	KindRangeConstraint
	KindAnd
	KindOr
	KindNot

	numKinds
)

var kindNames = [numKinds]string{
	KindUnknown:         "unknown",
	KindField:           "field",
	KindConst:           "const",
	KindParam:           "param",
	KindArith:           "arith",
	KindConstant:        "constant",
	KindCompare:         "compare",
	KindRangeConstraint: "range",
	KindAnd:             "and",
	KindOr:              "or",
	KindNot:             "not",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, bool) {
	for k := KindField; k < numKinds; k++ {
		if kindNames[k] == s {
			return k, true
		}
	}
	return KindUnknown, false
}

// AllKinds lists every valid kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := KindField; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// IsPredicate reports whether nodes of kind k are predicates.
func (k Kind) IsPredicate() bool {
	switch k {
	case KindConstant, KindCompare, KindRangeConstraint, KindAnd, KindOr, KindNot:
		return true
	default:
		return false
	}
}
