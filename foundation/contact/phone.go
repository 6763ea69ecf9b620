package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/phone"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

// PhoneType classifies a number.
type PhoneType string

const (
	PhoneHome   PhoneType = "home"
	PhoneMobile PhoneType = "mobile"
	PhoneOffice PhoneType = "office"
	PhoneFax    PhoneType = "fax"
	PhoneOther  PhoneType = "other"
)

var phoneTypeLabels = map[PhoneType]string{
	PhoneHome:   "Home",
	PhoneMobile: "Mobile",
	PhoneOffice: "Office",
	PhoneFax:    "Fax",
	PhoneOther:  "Other",
}

// PhoneTypes lists the known types in display order.
func PhoneTypes() []PhoneType {
	return []PhoneType{PhoneHome, PhoneMobile, PhoneOffice, PhoneFax, PhoneOther}
}

// ParsePhoneType accepts a type or its label in any case.
func ParsePhoneType(s string) (PhoneType, bool) {
	t := PhoneType(strings.ToLower(strings.TrimSpace(s)))
	_, ok := phoneTypeLabels[t]
	return t, ok
}

func (t PhoneType) Label() string {
	if l, ok := phoneTypeLabels[t]; ok {
		return l
	}
	return phoneTypeLabels[PhoneOther]
}

// Phone is a phone number record.
type Phone struct {
	ID               uuid.UUID
	Owner            Owner
	Number           string
	Type             PhoneType
	IsDefault        bool
	VerifiedAt       *time.Time
	VerificationCode string
	CodeExpiresAt    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p Phone) Verified() bool { return p.VerifiedAt != nil }

// Standardize rewrites Number in E.164 and reports whether it looks valid
// for the resolved calling code.
func (p *Phone) Standardize(f *phone.Formatter, callingCode string) bool {
	res := f.StandardizeChecked(p.Number, callingCode)
	p.Number = res.E164
	return res.WellFormed
}

// IssueCode stores and returns a fresh numeric verification code valid for
// ttl (DefaultCodeTTL when ttl <= 0).
func (p *Phone) IssueCode(c timeutil.Clock, ttl time.Duration) (string, error) {
	code, err := randomCode(CodeLength)
	if err != nil {
		return "", err
	}
	p.VerificationCode = code
	p.CodeExpiresAt = timeutil.Deadline(c, ttl, DefaultCodeTTL)
	return code, nil
}

// Verify marks the number verified when code matches the unexpired stored
// code. The code is consumed on success.
func (p *Phone) Verify(c timeutil.Clock, code string) bool {
	if !secretMatches(p.VerificationCode, code) || timeutil.Expired(c, p.CodeExpiresAt) {
		return false
	}
	p.MarkVerified(c)
	return true
}

func (p *Phone) MarkVerified(c timeutil.Clock) {
	p.VerifiedAt = timeutil.Stamp(c)
	p.VerificationCode = ""
	p.CodeExpiresAt = nil
}
