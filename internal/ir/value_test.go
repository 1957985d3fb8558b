package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	var _ IRValue = IRNull{}
	var _ IRValue = IRString("test")
	var _ IRValue = IRInt(42)
	var _ IRValue = IRBool(true)
	var _ IRValue = MustIRDecimal("1.5")
	var _ IRValue = IRArray{IRString("a"), IRInt(1)}
	var _ IRValue = IRObject{"key": IRString("value")}
}

func TestIRObjectSortedKeysRFC8785Order(t *testing.T) {
	obj := IRObject{
		"a":  IRInt(1),
		"A":  IRInt(2),
		"aa": IRInt(3),
		"aA": IRInt(4),
		"Aa": IRInt(5),
		"AA": IRInt(6),
	}

	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aA", "aa"}, obj.SortedKeys())
}

func TestDecimalString(t *testing.T) {
	assert.Equal(t, "3.5", MustIRDecimal("3.50").String())
	assert.Equal(t, "100", MustIRDecimal("1E2").String())

	_, err := NewIRDecimal("not-a-number")
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b IRValue
		want int
		ok   bool
	}{
		{"int less", IRInt(1), IRInt(2), -1, true},
		{"int equal", IRInt(7), IRInt(7), 0, true},
		{"int vs decimal", IRInt(2), MustIRDecimal("1.5"), 1, true},
		{"decimal vs int equal", MustIRDecimal("2.0"), IRInt(2), 0, true},
		{"string", IRString("apple"), IRString("banana"), -1, true},
		{"bool", IRBool(false), IRBool(true), -1, true},
		{"string vs int", IRString("1"), IRInt(1), 0, false},
		{"null", IRNull{}, IRInt(1), 0, false},
		{"null vs null", IRNull{}, IRNull{}, 0, false},
		{"arrays", IRArray{}, IRArray{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(IRNull{}, IRNull{}))
	assert.True(t, Equal(IRInt(2), MustIRDecimal("2.00")))
	assert.True(t, Equal(IRArray{IRInt(1), IRString("x")}, IRArray{IRInt(1), IRString("x")}))
	assert.True(t, Equal(IRObject{"a": IRBool(true)}, IRObject{"a": IRBool(true)}))

	assert.False(t, Equal(IRNull{}, IRInt(0)))
	assert.False(t, Equal(IRString("1"), IRInt(1)))
	assert.False(t, Equal(IRArray{IRInt(1)}, IRArray{IRInt(1), IRInt(2)}))
	assert.False(t, Equal(IRObject{"a": IRInt(1)}, IRObject{"b": IRInt(1)}))
}

func TestArith(t *testing.T) {
	tests := []struct {
		name string
		op   ArithOp
		a, b IRValue
		want string
	}{
		{"add ints", OpAdd, IRInt(2), IRInt(3), "5"},
		{"sub ints", OpSub, IRInt(2), IRInt(3), "-1"},
		{"mul ints", OpMul, IRInt(4), IRInt(3), "12"},
		{"int division truncates", OpDiv, IRInt(7), IRInt(2), "3"},
		{"decimal add", OpAdd, MustIRDecimal("1.25"), IRInt(1), "2.25"},
		{"decimal div", OpDiv, MustIRDecimal("7"), IRInt(2), "3.5"},
		{"null propagates", OpAdd, IRNull{}, IRInt(1), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Arith(tt.op, tt.a, tt.b)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, Format(got))
		})
	}
}

func TestArithIntResultStaysInt(t *testing.T) {
	got, ok, err := Arith(OpMul, IRInt(6), IRInt(7))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, IRInt(42), got)
}

func TestArithRejectsNonNumeric(t *testing.T) {
	_, ok, err := Arith(OpAdd, IRString("a"), IRInt(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArithDivisionByZero(t *testing.T) {
	_, _, err := Arith(OpDiv, IRInt(1), IRInt(0))
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestParseArithOp(t *testing.T) {
	for _, op := range []ArithOp{OpAdd, OpSub, OpMul, OpDiv} {
		parsed, ok := ParseArithOp(op.String())
		require.True(t, ok)
		assert.Equal(t, op, parsed)
	}
	_, ok := ParseArithOp("%")
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "null", Format(IRNull{}))
	assert.Equal(t, "'it''s'", Format(IRString("it's")))
	assert.Equal(t, "-4", Format(IRInt(-4)))
	assert.Equal(t, "true", Format(IRBool(true)))
	assert.Equal(t, "[1, 'a']", Format(IRArray{IRInt(1), IRString("a")}))
	assert.Equal(t, "{a: 1, b: 2}", Format(IRObject{"b": IRInt(2), "a": IRInt(1)}))
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want IRValue
	}{
		{"nil", nil, IRNull{}},
		{"bool", true, IRBool(true)},
		{"string", "x", IRString("x")},
		{"int", 5, IRInt(5)},
		{"whole float", float64(3), IRInt(3)},
		{"array", []any{1, "a"}, IRArray{IRInt(1), IRString("a")}},
		{"object", map[string]any{"k": 2}, IRObject{"k": IRInt(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %s", Format(got))
		})
	}

	dec, err := FromAny(0.1)
	require.NoError(t, err)
	assert.Equal(t, "0.1", Format(dec))

	_, err = FromAny(struct{}{})
	require.Error(t, err)
}
