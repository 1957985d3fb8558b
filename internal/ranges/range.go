package ranges

import (
	"strings"

	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/tri"
)

// Operand is the right-hand side of a comparison. Literal reports the
// compile-time constant value, if there is one.
type Operand interface {
	Literal() (ir.IRValue, bool)
	String() string
}

type literal struct{ v ir.IRValue }

func (l literal) Literal() (ir.IRValue, bool) { return l.v, true }
func (l literal) String() string              { return ir.Format(l.v) }

// Lit wraps a literal as an Operand.
func Lit(v ir.IRValue) Operand { return literal{v: v} }

// Comparison is one conjunct "value op operand" of a range.
type Comparison struct {
	Op      CompareOp
	Operand Operand
}

// String renders the comparison without its left-hand side, e.g. "> 3".
func (c Comparison) String() string {
	if c.Op.Unary() || c.Operand == nil {
		return c.Op.String()
	}
	return c.Op.String() + " " + c.Operand.String()
}

// endpoint is one side of a range. A nil value is unbounded.
type endpoint struct {
	value     ir.IRValue
	inclusive bool
}

func (e endpoint) bounded() bool { return e.value != nil }

// Range is an immutable conjunction of comparisons against one value.
// The zero Range is unconstrained.
type Range struct {
	low, high   endpoint
	comparisons []Comparison
	opaque      []Comparison
}

// Unbounded returns the range that admits every non-null value.
func Unbounded() Range { return Range{} }

// Build folds comparisons into a range. ok is false when a comparison is not
// sargable or when the comparisons are contradictory.
func Build(cs ...Comparison) (Range, bool) {
	b := NewBuilder()
	for _, c := range cs {
		if !b.Add(c) {
			return Range{}, false
		}
	}
	return b.Build()
}

// MustBuild is like Build but panics when the range is not representable.
// Use only in tests or when inputs are known to be valid.
func MustBuild(cs ...Comparison) Range {
	r, ok := Build(cs...)
	if !ok {
		panic("ranges: comparisons do not form a range")
	}
	return r
}

// Builder accumulates comparisons into a Range.
type Builder struct {
	r     Range
	empty bool
}

// NewBuilder returns a builder for an unconstrained range.
func NewBuilder() *Builder { return &Builder{} }

// Add folds c into the range. It returns false, leaving the builder
// unchanged, when c's operator cannot be expressed as a bound.
func (b *Builder) Add(c Comparison) bool {
	if !c.Op.Sargable() || c.Operand == nil {
		return false
	}
	b.r.comparisons = append(b.r.comparisons, c)

	v, isConst := c.Operand.Literal()
	if !isConst {
		b.r.opaque = append(b.r.opaque, c)
		return true
	}
	if _, isNull := v.(ir.IRNull); isNull {
		// Nothing compares true against null.
		b.empty = true
		return true
	}

	var folded bool
	switch c.Op {
	case OpEQ:
		folded = b.lower(v, true) && b.upper(v, true)
	case OpGE:
		folded = b.lower(v, true)
	case OpGT:
		folded = b.lower(v, false)
	case OpLE:
		folded = b.upper(v, true)
	case OpLT:
		folded = b.upper(v, false)
	}
	if !folded {
		b.r.opaque = append(b.r.opaque, c)
	}
	return true
}

// lower tightens the lower bound. It returns false when v cannot be
// ordered against the current bound.
func (b *Builder) lower(v ir.IRValue, inclusive bool) bool {
	cur := b.r.low
	if !cur.bounded() {
		b.r.low = endpoint{value: v, inclusive: inclusive}
		return true
	}
	c, ok := ir.Compare(v, cur.value)
	if !ok {
		return false
	}
	switch {
	case c > 0:
		b.r.low = endpoint{value: v, inclusive: inclusive}
	case c == 0:
		b.r.low.inclusive = cur.inclusive && inclusive
	}
	return true
}

func (b *Builder) upper(v ir.IRValue, inclusive bool) bool {
	cur := b.r.high
	if !cur.bounded() {
		b.r.high = endpoint{value: v, inclusive: inclusive}
		return true
	}
	c, ok := ir.Compare(v, cur.value)
	if !ok {
		return false
	}
	switch {
	case c < 0:
		b.r.high = endpoint{value: v, inclusive: inclusive}
	case c == 0:
		b.r.high.inclusive = cur.inclusive && inclusive
	}
	return true
}

// Build returns the range. ok is false when the bounds are contradictory.
func (b *Builder) Build() (Range, bool) {
	if b.empty {
		return Range{}, false
	}
	r := b.r
	if r.low.bounded() && r.high.bounded() {
		if c, ok := ir.Compare(r.low.value, r.high.value); ok {
			if c > 0 || (c == 0 && !(r.low.inclusive && r.high.inclusive)) {
				return Range{}, false
			}
		}
	}
	r.comparisons = append([]Comparison(nil), r.comparisons...)
	r.opaque = append([]Comparison(nil), r.opaque...)
	return r, true
}

// Comparisons returns the comparisons the range was built from, in order.
func (r Range) Comparisons() []Comparison {
	return append([]Comparison(nil), r.comparisons...)
}

// Low returns the folded lower bound.
func (r Range) Low() (v ir.IRValue, inclusive, ok bool) {
	return r.low.value, r.low.inclusive, r.low.bounded()
}

// High returns the folded upper bound.
func (r Range) High() (v ir.IRValue, inclusive, ok bool) {
	return r.high.value, r.high.inclusive, r.high.bounded()
}

// IsUnbounded reports whether r admits every non-null value.
func (r Range) IsUnbounded() bool {
	return !r.low.bounded() && !r.high.bounded() && len(r.opaque) == 0
}

// IsPoint reports whether r admits exactly one value.
func (r Range) IsPoint() bool {
	if !r.low.bounded() || !r.high.bounded() || len(r.opaque) > 0 {
		return false
	}
	c, ok := ir.Compare(r.low.value, r.high.value)
	return ok && c == 0 && r.low.inclusive && r.high.inclusive
}

// HasOpaque reports whether some comparison could not be folded.
func (r Range) HasOpaque() bool { return len(r.opaque) > 0 }

// Encloses reports whether every value admitted by o is admitted by r.
// The answer is unknown when bounds are incomparable or when r carries
// comparisons against non-constant operands.
func (r Range) Encloses(o Range) tri.Value {
	if len(r.opaque) > 0 {
		return tri.Unknown
	}
	res := tri.And(lowerCovers(r.low, o.low), upperCovers(r.high, o.high))
	if res != tri.True && len(o.opaque) > 0 {
		// o's opaque comparisons may narrow it into r.
		return tri.Unknown
	}
	return res
}

func lowerCovers(outer, inner endpoint) tri.Value {
	if !outer.bounded() {
		return tri.True
	}
	if !inner.bounded() {
		return tri.False
	}
	c, ok := ir.Compare(outer.value, inner.value)
	switch {
	case !ok:
		return tri.Unknown
	case c < 0:
		return tri.True
	case c > 0:
		return tri.False
	default:
		return tri.Of(outer.inclusive || !inner.inclusive)
	}
}

func upperCovers(outer, inner endpoint) tri.Value {
	if !outer.bounded() {
		return tri.True
	}
	if !inner.bounded() {
		return tri.False
	}
	c, ok := ir.Compare(outer.value, inner.value)
	switch {
	case !ok:
		return tri.Unknown
	case c > 0:
		return tri.True
	case c < 0:
		return tri.False
	default:
		return tri.Of(outer.inclusive || !inner.inclusive)
	}
}

// Contains reports whether v lies within the folded bounds. Null is never
// contained; opaque comparisons make an in-bounds answer unknown.
func (r Range) Contains(v ir.IRValue) tri.Value {
	if _, isNull := v.(ir.IRNull); isNull {
		return tri.Unknown
	}
	res := tri.True
	if r.low.bounded() {
		op := OpGE
		if !r.low.inclusive {
			op = OpGT
		}
		res = tri.And(res, EvalCompare(op, v, r.low.value))
	}
	if r.high.bounded() {
		op := OpLE
		if !r.high.inclusive {
			op = OpLT
		}
		res = tri.And(res, EvalCompare(op, v, r.high.value))
	}
	if res == tri.True && len(r.opaque) > 0 {
		return tri.Unknown
	}
	return res
}

// Equal reports whether r and o have the same folded bounds and the same
// opaque comparisons.
func (r Range) Equal(o Range) bool {
	if !endpointsEqual(r.low, o.low) || !endpointsEqual(r.high, o.high) {
		return false
	}
	if len(r.opaque) != len(o.opaque) {
		return false
	}
	for i := range r.opaque {
		if r.opaque[i].String() != o.opaque[i].String() {
			return false
		}
	}
	return true
}

func endpointsEqual(a, b endpoint) bool {
	if a.bounded() != b.bounded() {
		return false
	}
	if !a.bounded() {
		return true
	}
	return a.inclusive == b.inclusive && ir.Equal(a.value, b.value)
}

// String renders the folded interval, e.g. "(3, 10)" or "(-inf, 2.5]", with
// opaque comparisons appended.
func (r Range) String() string {
	var sb strings.Builder
	if r.IsPoint() {
		sb.WriteString("[" + ir.Format(r.low.value) + "]")
	} else {
		if r.low.bounded() {
			if r.low.inclusive {
				sb.WriteByte('[')
			} else {
				sb.WriteByte('(')
			}
			sb.WriteString(ir.Format(r.low.value))
		} else {
			sb.WriteString("(-inf")
		}
		sb.WriteString(", ")
		if r.high.bounded() {
			sb.WriteString(ir.Format(r.high.value))
			if r.high.inclusive {
				sb.WriteByte(']')
			} else {
				sb.WriteByte(')')
			}
		} else {
			sb.WriteString("+inf)")
		}
	}
	for _, c := range r.opaque {
		sb.WriteString(" & ")
		sb.WriteString(c.String())
	}
	return sb.String()
}
