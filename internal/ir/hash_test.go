package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestDeterminism(t *testing.T) {
	obj := IRObject{"rule": IRString("not_not"), "seq": IRInt(1)}

	d1, err := Digest(DomainRun, obj)
	require.NoError(t, err)
	d2, err := Digest(DomainRun, obj)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64, "SHA-256 hex is 64 characters")
}

func TestDigestDomainSeparation(t *testing.T) {
	obj := IRObject{"x": IRInt(1)}
	assert.NotEqual(t, MustDigest(DomainRun, obj), MustDigest(DomainPlan, obj))
}

func TestHash64DomainSeparation(t *testing.T) {
	data := []byte("payload")
	assert.NotEqual(t, Hash64(DomainPlan, data), Hash64(DomainRun, data))
	assert.Equal(t, Hash64(DomainPlan, data), Hash64(DomainPlan, data))
}

func TestLiteralHashFamilies(t *testing.T) {
	assert.NotEqual(t, LiteralHash(IRString("1")), LiteralHash(IRInt(1)))
	assert.Equal(t, LiteralHash(IRInt(2)), LiteralHash(MustIRDecimal("2.0")))
	assert.NotEqual(t, LiteralHash(IRInt(2)), LiteralHash(MustIRDecimal("2.5")))
}
