package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/cockroachdb/errors"
)

// Domain prefixes for content-addressed digests.
// Version suffix enables future algorithm migration.
const (
	DomainPlan    = "sieve/plan/v1"
	DomainRun     = "sieve/run/v1"
	DomainLiteral = "sieve/literal/v1"
)

// sumWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func sumWithDomain(domain string, data []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash64 folds a domain-separated SHA-256 digest to its first eight bytes.
func Hash64(domain string, data []byte) uint64 {
	sum := sumWithDomain(domain, data)
	return binary.BigEndian.Uint64(sum[:8])
}

// Digest returns the hex SHA-256 of the canonical form of obj.
func Digest(domain string, obj IRObject) (string, error) {
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", errors.Wrapf(err, "digest %s", domain)
	}
	sum := sumWithDomain(domain, canonical)
	return hex.EncodeToString(sum[:]), nil
}

// MustDigest is like Digest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDigest(domain string, obj IRObject) string {
	d, err := Digest(domain, obj)
	if err != nil {
		panic(err)
	}
	return d
}

// LiteralHash hashes a literal together with its family, so that the string
// "1" and the integer 1 never share a hash. Literals that are Equal hash
// identically.
func LiteralHash(v IRValue) uint64 {
	if d, isDec := v.(IRDecimal); isDec {
		// Keep 2.0 and 2 on the same hash, matching Equal.
		if n, err := d.Decimal().Int64(); err == nil {
			v = IRInt(n)
		}
	}
	canonical, err := MarshalCanonical(v)
	if err != nil {
		panic(errors.WithAssertionFailure(err))
	}
	data := append([]byte(TypeName(v)+":"), canonical...)
	return Hash64(DomainLiteral, data)
}
