// Package oid defines the fixed-length binary object identifier used
// throughout the engine to key every per-category table.
package oid

import (
	"bytes"
	"encoding/hex"
	"errors"
)

// Size is the length, in bytes, of an object identifier. The engine
// only ever deals in 20-byte (SHA-1-shaped) identifiers; the embedder
// is responsible for whatever hashing scheme its object database uses.
const Size = 20

// OID is the 20-byte opaque identifier of an object. It is always
// handled as a fixed-length binary value, never as a hex string, so
// that it can be used directly as a map key without per-lookup
// conversion.
type OID [Size]byte

// Zero is the all-zero OID, used as a sentinel for "no object" (e.g.
// an engine error that is not tied to a specific object).
var Zero OID

// IsZero reports whether oid is the all-zero sentinel.
func (o OID) IsZero() bool {
	return o == Zero
}

// FromBytes converts a byte slice holding a binary object ID into an
// OID. The slice must be exactly Size bytes long.
func FromBytes(b []byte) (OID, error) {
	var o OID
	if len(b) != Size {
		return o, errors.New("oid: wrong byte length")
	}
	copy(o[:], b)
	return o, nil
}

// FromHex converts a hex-encoded object ID (as a human would read or
// write it) into an OID. It exists purely for tests and diagnostics;
// the engine itself never parses hex.
func FromHex(s string) (OID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return OID{}, err
	}
	return FromBytes(b)
}

// Bytes returns a byte-slice view of o.
func (o OID) Bytes() []byte {
	return o[:]
}

// String formats o as a lowercase hex string, for logging only.
func (o OID) String() string {
	return hex.EncodeToString(o[:])
}

// MarshalJSON expresses o as a quoted hex string.
func (o OID) MarshalJSON() ([]byte, error) {
	dst := make([]byte, hex.EncodedLen(Size)+2)
	dst[0] = '"'
	dst[len(dst)-1] = '"'
	hex.Encode(dst[1:len(dst)-1], o[:])
	return dst, nil
}

// Equal reports whether a and b name the same object. Defined mainly
// for readability at call sites; OID is directly comparable with ==.
func Equal(a, b OID) bool {
	return bytes.Equal(a[:], b[:])
}
