package dedupe

import (
	"fmt"
	"strings"
	"time"

	"github.com/vortex-fintech/go-profile/foundation/contact"
)

// PrimaryPolicy decides which record of a duplicate cluster survives an
// automatic merge.
type PrimaryPolicy int

const (
	// PrimaryFirstSeen keeps the record the store listed first.
	PrimaryFirstSeen PrimaryPolicy = iota
	// PrimaryOldest keeps the record with the earliest CreatedAt.
	PrimaryOldest
	// PrimaryMostVerified keeps a verified (or validated) record, oldest
	// first among equals.
	PrimaryMostVerified
)

func (p PrimaryPolicy) String() string {
	switch p {
	case PrimaryOldest:
		return "oldest"
	case PrimaryMostVerified:
		return "most_verified"
	default:
		return "first_seen"
	}
}

// ParsePrimaryPolicy accepts the String forms; empty means first_seen.
func ParsePrimaryPolicy(s string) (PrimaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first_seen":
		return PrimaryFirstSeen, nil
	case "oldest":
		return PrimaryOldest, nil
	case "most_verified":
		return PrimaryMostVerified, nil
	default:
		return 0, fmt.Errorf("dedupe: unknown primary policy %q", s)
	}
}

// pick returns the index of the surviving member. Members are in storage
// order, so every policy falls back to the earliest index on ties.
func pick[T any](p PrimaryPolicy, members []T, created func(T) time.Time, trusted func(T) bool) int {
	best := 0
	for i := 1; i < len(members); i++ {
		if better(p, members[i], members[best], created, trusted) {
			best = i
		}
	}
	return best
}

func better[T any](p PrimaryPolicy, x, y T, created func(T) time.Time, trusted func(T) bool) bool {
	switch p {
	case PrimaryOldest:
		return created(x).Before(created(y))
	case PrimaryMostVerified:
		tx, ty := trusted(x), trusted(y)
		if tx != ty {
			return tx
		}
		return created(x).Before(created(y))
	default:
		return false
	}
}

func emailCreated(e contact.Email) time.Time     { return e.CreatedAt }
func phoneCreated(p contact.Phone) time.Time     { return p.CreatedAt }
func addressCreated(a contact.Address) time.Time { return a.CreatedAt }

func emailTrusted(e contact.Email) bool     { return e.Verified() }
func phoneTrusted(p contact.Phone) bool     { return p.Verified() }
func addressTrusted(a contact.Address) bool { return !a.Pending() }
