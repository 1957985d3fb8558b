package tri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsUnknown(t *testing.T) {
	var v Value
	assert.Equal(t, Unknown, v)
}

func TestOrTruthTable(t *testing.T) {
	vals := []Value{True, False, Unknown}
	want := map[[2]Value]Value{
		{True, True}: True, {True, False}: True, {True, Unknown}: True,
		{False, True}: True, {False, False}: False, {False, Unknown}: Unknown,
		{Unknown, True}: True, {Unknown, False}: Unknown, {Unknown, Unknown}: Unknown,
	}
	for _, a := range vals {
		for _, b := range vals {
			assert.Equal(t, want[[2]Value{a, b}], Or(a, b), "%s OR %s", a, b)
		}
	}
}

func TestAndTruthTable(t *testing.T) {
	vals := []Value{True, False, Unknown}
	want := map[[2]Value]Value{
		{True, True}: True, {True, False}: False, {True, Unknown}: Unknown,
		{False, True}: False, {False, False}: False, {False, Unknown}: False,
		{Unknown, True}: Unknown, {Unknown, False}: False, {Unknown, Unknown}: Unknown,
	}
	for _, a := range vals {
		for _, b := range vals {
			assert.Equal(t, want[[2]Value{a, b}], And(a, b), "%s AND %s", a, b)
		}
	}
}

func TestNot(t *testing.T) {
	assert.Equal(t, False, Not(True))
	assert.Equal(t, True, Not(False))
	assert.Equal(t, Unknown, Not(Unknown))
}

func TestParseRoundTrip(t *testing.T) {
	for _, v := range []Value{True, False, Unknown} {
		parsed, err := Parse(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	_, err := Parse("maybe")
	require.Error(t, err)
}
