// Package fieldcrypt encrypts individual contact fields at rest with
// AES-256-GCM.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/hash"
)

// Prefix marks values produced by Encrypt. The version lets a later key or
// cipher change coexist with stored data.
const Prefix = "enc:v1:"

const keySize = 32

var (
	ErrKeyRequired = errors.New("fieldcrypt: encryption key is required")
	ErrKeyInvalid  = errors.New("fieldcrypt: key must be 32 bytes, hex encoded")
)

var _ contact.FieldCodec = (*Codec)(nil)

type Codec struct {
	aead cipher.AEAD
}

// New builds a Codec from a 64 character hex key.
func New(hexKey string) (*Codec, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, ErrKeyRequired
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyInvalid, err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrKeyInvalid, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: create GCM: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// GenerateKey returns a random key in the form New accepts.
func GenerateKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("fieldcrypt: generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Encrypt returns Prefix followed by base64(nonce || ciphertext). Empty and
// already encrypted values are returned unchanged.
func (c *Codec) Encrypt(plain string) (string, error) {
	if plain == "" || IsEncrypted(plain) {
		return plain, nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("fieldcrypt: generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return Prefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Values without the prefix, or that fail to
// decode or authenticate, are returned as they are so plaintext rows
// written before encryption was enabled stay readable.
func (c *Codec) Decrypt(stored string) string {
	plain, err := c.Open(stored)
	if err != nil {
		return stored
	}
	return plain
}

// Open is Decrypt with the failure reported.
func (c *Codec) Open(stored string) (string, error) {
	if !IsEncrypted(stored) {
		return stored, nil
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(stored, Prefix))
	if err != nil {
		return "", fmt.Errorf("fieldcrypt: decode: %w", err)
	}
	n := c.aead.NonceSize()
	if len(raw) < n+c.aead.Overhead() {
		return "", errors.New("fieldcrypt: ciphertext too short")
	}
	plain, err := c.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", fmt.Errorf("fieldcrypt: decrypt: %w", err)
	}
	return string(plain), nil
}

func IsEncrypted(v string) bool { return strings.HasPrefix(v, Prefix) }

// Hash is a deterministic digest for equality lookups on encrypted columns.
func Hash(v string) string { return hash.Hex(v) }

func VerifyHash(v, digest string) bool { return hash.Matches(v, digest) }
