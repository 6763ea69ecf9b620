// Package email normalizes and classifies e-mail addresses.
//
// Nothing here returns an error: malformed input is passed through after
// trimming and lower-casing, and the *Checked variants report whether the
// input had the local@domain shape.
package email

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/vortex-fintech/go-profile/foundation/validator"
)

type options struct {
	removeDots bool
	removePlus bool
}

type Option func(*options)

// WithoutDots drops dots from the local part on Gmail domains, where they
// are ignored for delivery.
func WithoutDots() Option { return func(o *options) { o.removeDots = true } }

// WithoutPlusTag drops "+tag" sub-addressing from the local part on every
// domain. Gmail domains always lose the tag.
func WithoutPlusTag() Option { return func(o *options) { o.removePlus = true } }

// Result is a normalized address plus whether the input was well formed.
type Result struct {
	Value      string
	WellFormed bool
}

// Normalize trims and lower-cases the address and applies opts.
func Normalize(email string, opts ...Option) string {
	return NormalizeChecked(email, opts...).Value
}

// NormalizeChecked is Normalize with the well-formedness flag. An address
// is well formed when it splits on '@' into exactly two parts.
func NormalizeChecked(email string, opts ...Option) Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := split(email)
	if !ok {
		return Result{Value: email}
	}

	if o.removePlus {
		local = cutPlus(local)
	}
	if _, gmail := gmailDomains[domain]; gmail {
		if o.removeDots {
			local = strings.ReplaceAll(local, ".", "")
		}
		local = cutPlus(local)
	}

	return Result{Value: local + "@" + domain, WellFormed: true}
}

// Canonical is the form used to decide whether two addresses reach the same
// mailbox: no plus tags anywhere, no dots on Gmail. It is idempotent.
func Canonical(email string) string {
	return Normalize(email, WithoutDots(), WithoutPlusTag())
}

// Equivalent reports whether a and b share a canonical form.
func Equivalent(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// Domain returns the lower-cased domain. The input is not trimmed.
func Domain(email string) (string, bool) {
	_, domain, ok := split(strings.ToLower(email))
	return domain, ok
}

// LocalPart returns the lower-cased local part. The input is not trimmed.
func LocalPart(email string) (string, bool) {
	local, _, ok := split(strings.ToLower(email))
	return local, ok
}

// IsValid checks RFC 5322 address syntax.
func IsValid(email string) bool {
	return validator.Var(email, "required,email")
}

func IsDisposable(email string) bool {
	domain, ok := Domain(email)
	if !ok {
		return false
	}
	_, found := disposableDomains[domain]
	return found
}

// IsBusiness reports whether the address is on a domain that is not a free
// mail provider. Malformed addresses are not business addresses.
func IsBusiness(email string) bool {
	domain, ok := Domain(email)
	if !ok || domain == "" {
		return false
	}
	_, free := freeProviderDomains[domain]
	return !free
}

// Provider names the mailbox provider, ProviderOther for unlisted domains,
// or "" when the address has no domain part.
func Provider(email string) string {
	domain, ok := Domain(email)
	if !ok || domain == "" {
		return ""
	}
	if name, found := providerNames[domain]; found {
		return name
	}
	return ProviderOther
}

// SuggestCorrection returns the address with a misspelled provider domain
// fixed, or false when there is nothing to suggest.
func SuggestCorrection(email string) (string, bool) {
	local, domain, ok := split(strings.ToLower(email))
	if !ok {
		return "", false
	}
	fixed, found := domainTypos[domain]
	if !found {
		return "", false
	}
	return local + "@" + fixed, true
}

// OrganizationDomain returns the registrable domain (eTLD+1) of the
// address, so "a@mail.corp.example.co.uk" yields "example.co.uk".
func OrganizationDomain(email string) (string, bool) {
	domain, ok := Domain(strings.TrimSpace(email))
	if !ok || domain == "" {
		return "", false
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return "", false
	}
	return etld1, true
}

// SameOrganization reports whether both addresses sit under the same
// registrable domain.
func SameOrganization(a, b string) bool {
	da, ok := OrganizationDomain(a)
	if !ok {
		return false
	}
	db, ok := OrganizationDomain(b)
	return ok && da == db
}

func split(email string) (local, domain string, ok bool) {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func cutPlus(local string) string {
	before, _, _ := strings.Cut(local, "+")
	return before
}
