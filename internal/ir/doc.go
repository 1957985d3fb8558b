// Package ir provides the literal value layer shared by every expression.
//
// Values are a sealed set: IRNull, IRString, IRInt, IRBool, IRDecimal,
// IRArray and IRObject. There is no float type; fractional numbers are exact
// decimals backed by apd. All other internal packages import ir; ir imports
// nothing internal.
//
// Key design constraints:
//   - Comparison is defined only within a family (numbers, strings, bools)
//   - Canonical JSON (RFC 8785 key order, NFC strings) is the only encoding
//     used for content hashes
//   - Hashes are domain separated so digests from different uses never collide
package ir
