package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/expr"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/ranges"
	"github.com/roach88/sieve/internal/tri"
)

var toCandidate = expr.NewAliasMap(map[expr.CorrelationID]expr.CorrelationID{"q": "c"})

// open returns lo < v < hi.
func open(f *expr.Factory, v expr.Value, lo, hi int64) expr.Predicate {
	return f.And(f.Compare(ranges.OpGT, v, f.Int(lo)), f.Compare(ranges.OpLT, v, f.Int(hi)))
}

// closed returns lo <= v <= hi.
func closed(f *expr.Factory, v expr.Value, lo, hi int64) expr.Predicate {
	return f.And(f.Compare(ranges.OpGE, v, f.Int(lo)), f.Compare(ranges.OpLE, v, f.Int(hi)))
}

func TestImpliesCandidateCompensated(t *testing.T) {
	f := expr.NewFactory()
	qx, cx := f.Field("q", "x"), f.Field("c", "x")

	query := f.Or(open(f, qx, 3, 10), open(f, qx, 15, 20), open(f, qx, 50, 60))
	candidate := f.Or(closed(f, cx, 0, 50), closed(f, cx, 50, 200))

	m, ok := ImpliesCandidate(f, query, toCandidate, candidate)
	require.True(t, ok)
	assert.Equal(t, MatchWithCompensation, m.Outcome)
	require.True(t, m.NeedsCompensation())
	assert.Same(t, query, m.Query)
	assert.Same(t, candidate, m.Candidate)

	residual, ok := m.Residual(Reapply{Factory: f}, toCandidate)
	require.True(t, ok)
	require.Len(t, residual.Predicates, 1)
	assert.Equal(t,
		"((c.x > 3) and (c.x < 10)) or ((c.x > 15) and (c.x < 20)) or ((c.x > 50) and (c.x < 60))",
		residual.String())
	assert.Equal(t, expr.NewAliasSet("c"), residual.Quantifiers)
}

func TestImpliesCandidateExactRegardlessOfOrder(t *testing.T) {
	f := expr.NewFactory()
	qx, cx := f.Field("q", "x"), f.Field("c", "x")

	query := f.Or(open(f, qx, 3, 10), open(f, qx, 15, 20))
	candidate := f.Or(open(f, cx, 15, 20), open(f, cx, 3, 10))

	m, ok := ImpliesCandidate(f, query, toCandidate, candidate)
	require.True(t, ok)
	assert.Equal(t, ExactMatch, m.Outcome)
	assert.False(t, m.NeedsCompensation())

	_, ok = m.Residual(Reapply{Factory: f}, toCandidate)
	assert.False(t, ok)
}

func TestImpliesCandidateNoMatch(t *testing.T) {
	f := expr.NewFactory()
	qx, cx := f.Field("q", "x"), f.Field("c", "x")

	query := f.Or(open(f, qx, 3, 10), open(f, qx, 15, 20))
	candidate := open(f, cx, 3, 17)

	_, ok := ImpliesCandidate(f, query, toCandidate, candidate)
	assert.False(t, ok)
}

func TestImpliesCandidateDifferentValues(t *testing.T) {
	f := expr.NewFactory()
	qx := f.Field("q", "x")

	query := f.Or(open(f, qx, 3, 10), open(f, qx, 15, 20))
	candidate := f.Or(open(f, f.Field("c", "y"), 0, 100), open(f, f.Field("c", "y"), 200, 300))

	_, ok := ImpliesCandidate(f, query, toCandidate, candidate)
	assert.False(t, ok)
}

func TestImpliesCandidateUnknownEnclosureIsNoMatch(t *testing.T) {
	f := expr.NewFactory()
	qx, cx := f.Field("q", "x"), f.Field("c", "x")

	query := f.Or(f.Compare(ranges.OpEQ, qx, f.Int(1)), f.Compare(ranges.OpEQ, qx, f.Int(2)))
	candidate := f.Or(f.Compare(ranges.OpLE, cx, f.Param("limit")), f.Compare(ranges.OpGE, cx, f.Int(100)))

	_, ok := ImpliesCandidate(f, query, toCandidate, candidate)
	assert.False(t, ok)
}

func TestImpliesCandidateFallbackSemanticEquality(t *testing.T) {
	f := expr.NewFactory()

	// No range view: IS NULL is not sargable.
	query := f.Or(f.IsNull(f.Field("q", "x")), f.Compare(ranges.OpEQ, f.Field("q", "y"), f.Int(1)))
	candidate := f.Or(f.Compare(ranges.OpEQ, f.Field("c", "y"), f.Int(1)), f.IsNull(f.Field("c", "x")))

	m, ok := ImpliesCandidate(f, query, toCandidate, candidate)
	require.True(t, ok)
	assert.Equal(t, ExactMatch, m.Outcome)
}

func TestImpliesCandidateFallbackTrueCandidate(t *testing.T) {
	f := expr.NewFactory()
	query := f.Or(f.IsNull(f.Field("q", "x")), f.IsNull(f.Field("q", "y")))

	m, ok := ImpliesCandidate(f, query, toCandidate, f.True())
	require.True(t, ok)
	assert.Equal(t, MatchWithCompensation, m.Outcome)

	residual, ok := m.Residual(Reapply{Factory: f}, toCandidate)
	require.True(t, ok)
	assert.Equal(t, "(c.x IS NULL) or (c.y IS NULL)", residual.String())
}

func TestImpliesCandidateLeafRanges(t *testing.T) {
	f := expr.NewFactory()
	query := f.Compare(ranges.OpGT, f.Field("q", "x"), f.Int(5))

	m, ok := ImpliesCandidate(f, query, toCandidate, f.Compare(ranges.OpGE, f.Field("c", "x"), f.Int(3)))
	require.True(t, ok)
	assert.Equal(t, MatchWithCompensation, m.Outcome)

	m, ok = ImpliesCandidate(f, query, toCandidate, f.Compare(ranges.OpGT, f.Field("c", "x"), f.Int(5)))
	require.True(t, ok)
	assert.Equal(t, ExactMatch, m.Outcome)

	// 5.5 passes the query but not x >= 6.
	_, ok = ImpliesCandidate(f, query, toCandidate, f.Compare(ranges.OpGE, f.Field("c", "x"), f.Int(6)))
	assert.False(t, ok)

	_, ok = ImpliesCandidate(f, query, toCandidate, f.Compare(ranges.OpGT, f.Field("c", "x"), f.Int(7)))
	assert.False(t, ok)
}

func TestImpliesCandidateExclusiveBoundIsNotExact(t *testing.T) {
	f := expr.NewFactory()
	qx, cx := f.Field("q", "x"), f.Field("c", "x")

	query := f.Or(f.Compare(ranges.OpLE, qx, f.Int(9)), f.Compare(ranges.OpEQ, qx, f.Int(20)))
	candidate := f.Or(f.Compare(ranges.OpLT, cx, f.Int(10)), f.Compare(ranges.OpEQ, cx, f.Int(20)))

	m, ok := ImpliesCandidate(f, query, toCandidate, candidate)
	require.True(t, ok)
	assert.Equal(t, MatchWithCompensation, m.Outcome)

	row := ir.IRObject{"x": ir.MustIRDecimal("9.5")}
	got, err := expr.Eval(query, expr.MapContext{Rows: map[expr.CorrelationID]ir.IRObject{"q": row}})
	require.NoError(t, err)
	assert.Equal(t, tri.False, got)
	got, err = expr.Eval(candidate, expr.MapContext{Rows: map[expr.CorrelationID]ir.IRObject{"c": row}})
	require.NoError(t, err)
	assert.Equal(t, tri.True, got, "the candidate keeps rows the query drops")

	residual, ok := m.Residual(Reapply{Factory: f}, toCandidate)
	require.True(t, ok)
	assert.Equal(t, "(c.x <= 9) or (c.x = 20)", residual.String())
}

func TestImpliesCandidateUnrelated(t *testing.T) {
	f := expr.NewFactory()
	query := f.IsNull(f.Field("q", "x"))
	_, ok := ImpliesCandidate(f, query, toCandidate, f.IsNull(f.Field("c", "y")))
	assert.False(t, ok)
}

func TestFoldCompensationSkipsChildrenWithout(t *testing.T) {
	f := expr.NewFactory()
	a := f.IsNull(f.Field("q", "a"))
	b := f.IsNull(f.Field("q", "b"))
	c := f.IsNull(f.Field("q", "c"))
	p := f.Or(a, f.And(b, c))

	onlyB := PartialMatchFunc(func(leaf expr.Predicate) (ExpandFunc, bool) {
		if !expr.Same(leaf, b) {
			return nil, false
		}
		return Reapply{Factory: f}.Compensate(leaf)
	})

	fn, ok := FoldCompensation(f, p, onlyB)
	require.True(t, ok)
	x := fn(toCandidate)
	assert.Equal(t, "c.b IS NULL", x.String())
}

func TestFoldCompensationNone(t *testing.T) {
	f := expr.NewFactory()
	p := f.Or(f.IsNull(f.Field("q", "a")), f.IsNull(f.Field("q", "b")))

	none := PartialMatchFunc(func(expr.Predicate) (ExpandFunc, bool) { return nil, false })
	_, ok := FoldCompensation(f, p, none)
	assert.False(t, ok)
}

func TestFoldCompensationAndConcatenates(t *testing.T) {
	f := expr.NewFactory()
	p := f.And(f.IsNull(f.Field("q", "a")), f.IsNull(f.Field("r", "b")))

	fn, ok := FoldCompensation(f, p, Reapply{Factory: f})
	require.True(t, ok)
	x := fn(toCandidate)
	require.Len(t, x.Predicates, 2)
	assert.Equal(t, "c.a IS NULL and r.b IS NULL", x.String())
	assert.Equal(t, expr.NewAliasSet("c", "r"), x.Quantifiers)
	assert.Equal(t, "(c.a IS NULL) and (r.b IS NULL)", x.AsAnd(f).String())
}

func TestExpansionAsAndEmptyIsTrue(t *testing.T) {
	f := expr.NewFactory()
	assert.Equal(t, "TRUE", Expansion{}.AsAnd(f).String())
}
