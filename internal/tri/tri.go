// Package tri implements three-valued logic: true, false and unknown.
package tri

import "github.com/cockroachdb/errors"

// Value is a three-valued truth value. The zero value is Unknown.
type Value uint8

const (
	Unknown Value = iota
	False
	True
)

// Of lifts a boolean.
func Of(b bool) Value {
	if b {
		return True
	}
	return False
}

// String returns "true", "false" or "unknown".
func (v Value) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Parse is the inverse of String.
func Parse(s string) (Value, error) {
	switch s {
	case "true", "TRUE":
		return True, nil
	case "false", "FALSE":
		return False, nil
	case "unknown", "UNKNOWN", "null":
		return Unknown, nil
	default:
		return Unknown, errors.Newf("invalid truth value %q", s)
	}
}

// IsTrue reports whether v is definitely true.
func (v Value) IsTrue() bool { return v == True }

// IsFalse reports whether v is definitely false.
func (v Value) IsFalse() bool { return v == False }

// Not negates v; unknown stays unknown.
func Not(v Value) Value {
	switch v {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// And is Kleene conjunction: false dominates, then unknown.
func And(a, b Value) Value {
	switch {
	case a == False || b == False:
		return False
	case a == Unknown || b == Unknown:
		return Unknown
	default:
		return True
	}
}

// Or is Kleene disjunction: true dominates, then unknown.
func Or(a, b Value) Value {
	switch {
	case a == True || b == True:
		return True
	case a == Unknown || b == Unknown:
		return Unknown
	default:
		return False
	}
}
