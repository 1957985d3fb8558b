package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ranges"
)

func TestPlanHashOrIsCommutative(t *testing.T) {
	f := NewFactory()
	x := f.Compare(ranges.OpEQ, f.Field("q", "a"), f.Int(1))
	y := f.Compare(ranges.OpGT, f.Field("q", "b"), f.Int(2))

	for _, kind := range []HashKind{HashLegacy, HashForContinuation, HashStructuralWithoutLiterals} {
		t.Run(kind.String(), func(t *testing.T) {
			xy := MustPlanHash(f.Or(x, y), kind)
			yx := MustPlanHash(f.Or(y, x), kind)
			assert.Equal(t, xy, yx)
		})
	}
}

func TestPlanHashOrRejectsOrderedKind(t *testing.T) {
	f := NewFactory()
	x := f.Compare(ranges.OpEQ, f.Field("q", "a"), f.Int(1))
	y := f.IsNull(f.Field("q", "b"))

	for name, p := range map[string]Predicate{"x or y": f.Or(x, y), "y or x": f.Or(y, x)} {
		t.Run(name, func(t *testing.T) {
			_, err := PlanHash(p, HashOrdered)
			require.ErrorIs(t, err, ErrUnsupportedHashKind)

			_, err = PlanHash(p, HashKind(99))
			require.ErrorIs(t, err, ErrUnsupportedHashKind)

			assert.Panics(t, func() { MustPlanHash(p, HashOrdered) })
		})
	}
}

func TestPlanHashOrderedAnd(t *testing.T) {
	f := NewFactory()
	x := f.Compare(ranges.OpEQ, f.Field("q", "a"), f.Int(1))
	y := f.Compare(ranges.OpGT, f.Field("q", "b"), f.Int(2))

	assert.NotEqual(t, MustPlanHash(f.And(x, y), HashOrdered), MustPlanHash(f.And(y, x), HashOrdered))
	assert.Equal(t, MustPlanHash(f.And(x, y), HashLegacy), MustPlanHash(f.And(y, x), HashLegacy))
}

func TestPlanHashLiterals(t *testing.T) {
	f := NewFactory()
	one := f.Or(f.Compare(ranges.OpEQ, f.Field("q", "a"), f.Int(1)), f.True())
	two := f.Or(f.Compare(ranges.OpEQ, f.Field("q", "a"), f.Int(2)), f.True())

	assert.NotEqual(t, MustPlanHash(one, HashLegacy), MustPlanHash(two, HashLegacy))
	assert.Equal(t,
		MustPlanHash(one, HashStructuralWithoutLiterals),
		MustPlanHash(two, HashStructuralWithoutLiterals))
}

func TestPlanHashDistinguishesKinds(t *testing.T) {
	f := NewFactory()
	x := f.Compare(ranges.OpEQ, f.Field("q", "a"), f.Int(1))
	y := f.Compare(ranges.OpGT, f.Field("q", "b"), f.Int(2))

	assert.NotEqual(t, MustPlanHash(f.Or(x, y), HashLegacy), MustPlanHash(f.And(x, y), HashLegacy))
	assert.NotEqual(t, MustPlanHash(f.Or(x, y), HashLegacy), MustPlanHash(f.Or(x, y), HashForContinuation))
}

func TestPlanHashStableAcrossFactories(t *testing.T) {
	build := func(f *Factory) Expr {
		return f.Or(
			f.Compare(ranges.OpEQ, f.Field("q", "a"), f.Int(1)),
			f.IsNull(f.Field("q", "b")),
		)
	}
	f1, f2 := NewFactory(), NewFactory()
	f2.Int(0) // shift ids

	assert.Equal(t, MustPlanHash(build(f1), HashLegacy), MustPlanHash(build(f2), HashLegacy))
}

func TestParseHashKind(t *testing.T) {
	for k := HashLegacy; k <= HashOrdered; k++ {
		parsed, ok := ParseHashKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, parsed)
	}
}
