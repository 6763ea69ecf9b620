package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/email"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

// Email is an e-mail address record.
type Email struct {
	ID                uuid.UUID
	Owner             Owner
	Address           string
	IsDefault         bool
	VerifiedAt        *time.Time
	VerificationToken string
	TokenExpiresAt    *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (e Email) Verified() bool { return e.VerifiedAt != nil }

// Canonical is the mailbox identity used for duplicate detection.
func (e Email) Canonical() string { return email.Canonical(e.Address) }

// Normalize trims and lower-cases Address and reports whether it was well
// formed.
func (e *Email) Normalize() bool {
	res := email.NormalizeChecked(e.Address)
	e.Address = res.Value
	return res.WellFormed
}

// IssueToken stores and returns a fresh verification token valid for ttl
// (DefaultTokenTTL when ttl <= 0).
func (e *Email) IssueToken(c timeutil.Clock, ttl time.Duration) (string, error) {
	token, err := randomToken(TokenLength)
	if err != nil {
		return "", err
	}
	e.VerificationToken = token
	e.TokenExpiresAt = timeutil.Deadline(c, ttl, DefaultTokenTTL)
	return token, nil
}

// Verify marks the address verified when token matches the unexpired
// stored token. The token is consumed on success.
func (e *Email) Verify(c timeutil.Clock, token string) bool {
	if !secretMatches(e.VerificationToken, token) || timeutil.Expired(c, e.TokenExpiresAt) {
		return false
	}
	e.MarkVerified(c)
	return true
}

// MarkVerified sets VerifiedAt and clears any pending token.
func (e *Email) MarkVerified(c timeutil.Clock) {
	e.VerifiedAt = timeutil.Stamp(c)
	e.VerificationToken = ""
	e.TokenExpiresAt = nil
}
