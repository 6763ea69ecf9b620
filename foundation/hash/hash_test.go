package hash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vortex-fintech/go-profile/foundation/hash"
)

func TestHex(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		hash.Hex(""))
	assert.Len(t, hash.Hex("user@example.com"), 64)
}

func TestMatches(t *testing.T) {
	digest := hash.Hex("+60123456789")
	assert.True(t, hash.Matches("+60123456789", digest))
	assert.False(t, hash.Matches("+60123456780", digest))
}

func TestFingerprint_NoBoundaryAmbiguity(t *testing.T) {
	assert.Equal(t, hash.Fingerprint("user", "42"), hash.Fingerprint("user", "42"))
	assert.NotEqual(t, hash.Fingerprint("ab", "c"), hash.Fingerprint("a", "bc"))
	assert.NotEqual(t, hash.Fingerprint("a", "b"), hash.Fingerprint("b", "a"))
	assert.Len(t, hash.Fingerprint(), 64)
}
