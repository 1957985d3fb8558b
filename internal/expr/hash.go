package expr

import (
	"encoding/binary"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/ir"
)

// HashKind selects what a plan hash is sensitive to.
type HashKind int

const (
	// HashLegacy covers structure and literals.
	HashLegacy HashKind = iota + 1
	// HashForContinuation covers structure and literals and is stable
	// across releases for resuming work.
	HashForContinuation
	// HashStructuralWithoutLiterals ignores literal values, so queries
	// that differ only in constants share a hash.
	HashStructuralWithoutLiterals
	// HashOrdered is sensitive to child order. Disjunctions have no
	// canonical child order and reject it.
	HashOrdered
)

// String returns the kind name.
func (k HashKind) String() string {
	switch k {
	case HashLegacy:
		return "legacy"
	case HashForContinuation:
		return "for_continuation"
	case HashStructuralWithoutLiterals:
		return "structural_without_literals"
	case HashOrdered:
		return "ordered"
	default:
		return "hash_kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseHashKind is the inverse of String.
func ParseHashKind(s string) (HashKind, bool) {
	for k := HashLegacy; k <= HashOrdered; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// ErrUnsupportedHashKind is returned for hash kinds a node cannot honor.
var ErrUnsupportedHashKind = errors.New("unsupported plan hash kind")

// PlanHash returns a stable hash of e. Conjunctions and disjunctions hash
// their children as an unordered collection, so "x OR y" and "y OR x" hash
// identically. Disjunctions fail for HashOrdered and for unknown kinds.
func PlanHash(e Expr, kind HashKind) (uint64, error) {
	if kind < HashLegacy || kind > HashOrdered {
		return 0, errors.Wrapf(ErrUnsupportedHashKind, "%s", kind)
	}
	return planHash(e, kind)
}

// MustPlanHash is like PlanHash but panics on error.
func MustPlanHash(e Expr, kind HashKind) uint64 {
	h, err := PlanHash(e, kind)
	if err != nil {
		panic(err)
	}
	return h
}

func planHash(e Expr, kind HashKind) (uint64, error) {
	childHashes := make([]uint64, e.ChildCount())
	for i := range childHashes {
		h, err := planHash(e.Child(i), kind)
		if err != nil {
			return 0, err
		}
		childHashes[i] = h
	}

	unordered := false
	switch e.Kind() {
	case KindOr:
		if kind == HashOrdered {
			return 0, errors.Wrapf(ErrUnsupportedHashKind, "%s for disjunction", kind)
		}
		unordered = true
	case KindAnd:
		unordered = kind != HashOrdered
	}
	if unordered {
		slices.Sort(childHashes)
	}

	buf := []byte(e.Kind().String())
	buf = append(buf, 0, byte(kind), 0)
	buf = append(buf, payloadKey(e, kind)...)
	for _, h := range childHashes {
		buf = binary.BigEndian.AppendUint64(buf, h)
	}
	return ir.Hash64(ir.DomainPlan, buf), nil
}

func payloadKey(e Expr, kind HashKind) []byte {
	withLiterals := kind != HashStructuralWithoutLiterals
	switch e := e.(type) {
	case *Field:
		return []byte(string(e.alias) + "." + e.name)
	case *Const:
		if !withLiterals {
			return nil
		}
		return binary.BigEndian.AppendUint64(nil, ir.LiteralHash(e.val))
	case *Param:
		return []byte(e.name)
	case *Arith:
		return []byte(e.op.String())
	case *Constant:
		return []byte(e.truth.String())
	case *Compare:
		return []byte(e.op.String())
	case *RangeConstraint:
		if !withLiterals {
			return []byte(strconv.Itoa(len(e.ranges)))
		}
		var key []byte
		for _, r := range e.ranges {
			key = append(key, r.String()...)
			key = append(key, 0)
		}
		return key
	default:
		return nil
	}
}
