package ir

import (
	"slices"
	"unicode/utf16"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

// IRValue is a sealed interface representing literal values.
// Only IRNull, IRString, IRInt, IRBool, IRDecimal, IRArray and IRObject
// implement it.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull is the SQL-style null literal.
type IRNull struct{}

func (IRNull) irValue() {}

// IRString represents a string value.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value. Always int64.
type IRInt int64

func (IRInt) irValue() {}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRDecimal is an exact decimal. The wrapped value is never mutated after
// construction.
type IRDecimal struct {
	d *apd.Decimal
}

func (IRDecimal) irValue() {}

// IRArray represents an array of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a map of string keys to IRValue elements.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// NewIRDecimal parses an exact decimal from its textual form.
func NewIRDecimal(s string) (IRDecimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return IRDecimal{}, errors.Wrapf(err, "invalid decimal %q", s)
	}
	return IRDecimal{d: d}, nil
}

// MustIRDecimal is like NewIRDecimal but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustIRDecimal(s string) IRDecimal {
	d, err := NewIRDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// decimalOf takes ownership of d.
func decimalOf(d *apd.Decimal) IRDecimal {
	return IRDecimal{d: d}
}

// Decimal returns a copy of the underlying apd value.
func (v IRDecimal) Decimal() *apd.Decimal {
	var out apd.Decimal
	if v.d != nil {
		out.Set(v.d)
	}
	return &out
}

// String returns the reduced plain-notation form, e.g. "3.5" for "3.50".
func (v IRDecimal) String() string {
	if v.d == nil {
		return "0"
	}
	var r apd.Decimal
	r.Reduce(v.d)
	return r.Text('f')
}

// IRPair represents a key-value pair for typed IRObject construction.
type IRPair struct {
	Key   string
	Value IRValue
}

// O is a shorthand for IRPair for ergonomic construction.
// Example: NewIRObjectFromPairs(O("rule", IRString("not_not")), O("seq", IRInt(5)))
func O(key string, value IRValue) IRPair {
	return IRPair{Key: key, Value: value}
}

// NewIRObjectFromPairs creates an IRObject from typed key-value pairs.
func NewIRObjectFromPairs(pairs ...IRPair) IRObject {
	obj := make(IRObject, len(pairs))
	for _, p := range pairs {
		obj[p.Key] = p.Value
	}
	return obj
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 which produces a different order.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// TypeName returns the family name of v, used in diagnostics and hashes.
func TypeName(v IRValue) string {
	switch v.(type) {
	case IRNull:
		return "null"
	case IRString:
		return "string"
	case IRInt:
		return "int"
	case IRBool:
		return "bool"
	case IRDecimal:
		return "decimal"
	case IRArray:
		return "array"
	case IRObject:
		return "object"
	default:
		return "unknown"
	}
}
