package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/address"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

// ValidationStatus records the outcome of an external address check.
type ValidationStatus string

const (
	StatusPending ValidationStatus = "pending"
	StatusValid   ValidationStatus = "valid"
	StatusInvalid ValidationStatus = "invalid"
	StatusPartial ValidationStatus = "partial"
)

func (s ValidationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusValid, StatusInvalid, StatusPartial:
		return true
	}
	return false
}

// Address is a postal address record. CountryID references the host's
// country table; CountryCode selects the formatting rules.
type Address struct {
	ID               uuid.UUID
	Owner            Owner
	CountryID        int64
	CountryCode      string
	Primary          string
	Secondary        string
	City             string
	State            string
	Postcode         string
	Latitude         *float64
	Longitude        *float64
	ValidationStatus ValidationStatus
	ValidatedAt      *time.Time
	IsDefault        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (a Address) HasCoordinates() bool { return a.Latitude != nil && a.Longitude != nil }

func (a *Address) SetCoordinates(lat, lng float64) {
	a.Latitude = &lat
	a.Longitude = &lng
}

// Pending treats an empty status as pending.
func (a Address) Pending() bool {
	return a.ValidationStatus == "" || a.ValidationStatus == StatusPending
}

func (a *Address) MarkValid(c timeutil.Clock)   { a.mark(c, StatusValid) }
func (a *Address) MarkInvalid(c timeutil.Clock) { a.mark(c, StatusInvalid) }
func (a *Address) MarkPartial(c timeutil.Clock) { a.mark(c, StatusPartial) }

// ResetValidation returns the address to pending and clears ValidatedAt.
func (a *Address) ResetValidation() {
	a.ValidationStatus = StatusPending
	a.ValidatedAt = nil
}

func (a *Address) mark(c timeutil.Clock, s ValidationStatus) {
	a.ValidationStatus = s
	a.ValidatedAt = timeutil.Stamp(c)
}

func (a Address) Components() address.Components {
	return address.Components{
		Primary:     a.Primary,
		Secondary:   a.Secondary,
		City:        a.City,
		State:       a.State,
		Postcode:    a.Postcode,
		CountryCode: a.CountryCode,
	}
}

// Standardize rewrites the text fields with the rules of CountryCode (or
// the registry fallback) and reports whether a country formatter was used.
func (a *Address) Standardize(r *address.Registry) bool {
	res := r.StandardizeAddress(a.Components())
	a.Primary = res.Primary
	a.Secondary = res.Secondary
	a.City = res.City
	a.State = res.State
	a.Postcode = res.Postcode
	return res.KnownCountry
}

// FullAddress joins the non-empty parts with ", ", ending with countryName
// when given.
func (a Address) FullAddress(countryName string) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Primary, a.Secondary, a.City, a.State, a.Postcode, countryName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
