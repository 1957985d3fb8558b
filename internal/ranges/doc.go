// Package ranges implements the range algebra used by predicate matching.
//
// A Range is the conjunction of comparisons against a single value, folded
// into a tightest lower and upper bound. Comparisons whose operand is not a
// compile-time constant cannot be folded; they are kept on the range as
// opaque comparisons and make enclosure questions unknown instead of wrong.
//
// Bounds keep the inclusivity they were written with. A column typed
// integer may still hold 9.5 at runtime, so "> 3" and ">= 4" are
// different ranges.
package ranges
