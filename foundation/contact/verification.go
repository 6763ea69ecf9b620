package contact

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

const (
	// TokenLength is the length of an e-mail verification token.
	TokenLength = 64
	// CodeLength is the number of digits in a phone verification code.
	CodeLength = 6

	DefaultTokenTTL = 60 * time.Minute
	DefaultCodeTTL  = 10 * time.Minute
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomToken(n int) (string, error) {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		k, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("contact: generate token: %w", err)
		}
		out[i] = tokenAlphabet[k.Int64()]
	}
	return string(out), nil
}

func randomCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	k, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("contact: generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, k.Int64()), nil
}

// secretMatches compares in constant time and rejects empty secrets.
func secretMatches(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
