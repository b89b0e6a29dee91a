// Package digest provides payload fingerprints for invocation records.
// All functions are pure and deterministic.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"
)

// SHA256Hex returns the hex-encoded SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Short returns a 16-character fingerprint suitable for log lines and
// metric labels. Not collision-resistant; use SHA256Hex when identity
// matters.
func Short(data []byte) string {
	h := fnv.New64a()
	h.Write(data) // never errors
	var buf [8]byte
	sum := h.Sum(buf[:0])
	return hex.EncodeToString(sum)
}

// Equal reports whether two payloads share a SHA-256 digest.
func Equal(a, b []byte) bool {
	return SHA256Hex(a) == SHA256Hex(b)
}
