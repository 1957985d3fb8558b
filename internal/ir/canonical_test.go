package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalKeyOrder(t *testing.T) {
	out, err := MarshalCanonical(IRObject{
		"zebra": IRInt(1),
		"apple": IRString("a"),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"apple":"a","zebra":1}`, string(out))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	out, err := MarshalCanonical(IRString("a<b && c>d"))
	require.NoError(t, err)
	assert.Equal(t, `"a<b && c>d"`, string(out))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	out, err := MarshalCanonical(IRString("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(out))

	// A literal backslash followed by u2028 text stays escaped.
	out, err = MarshalCanonical(IRString(`\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(out))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	decomposed, err := MarshalCanonical(IRString("e\u0301"))
	require.NoError(t, err)
	composed, err := MarshalCanonical(IRString("\u00e9"))
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonicalScalars(t *testing.T) {
	out, err := MarshalCanonical(IRArray{IRNull{}, IRBool(false), IRInt(-3), MustIRDecimal("2.50")})
	require.NoError(t, err)
	assert.Equal(t, `[null,false,-3,2.5]`, string(out))
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": struct{}{}})
	require.Error(t, err)

	_, err = MarshalCanonical(1.5)
	require.Error(t, err)
}
