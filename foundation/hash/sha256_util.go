package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// Hex returns the lowercase hex SHA-256 digest of value.
func Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether value hashes to digest. Comparison is constant time.
func Matches(value, digest string) bool {
	got := Hex(value)
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(digest))) == 1
}

// Fingerprint hashes parts with length prefixes so that no choice of part
// boundaries can collide.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		_, _ = h.Write(size[:])
		_, _ = h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
