package address

import (
	"regexp"
	"strings"

	"github.com/vortex-fintech/go-profile/foundation/validator"
)

// Components is an address split into the parts the formatters work on.
// Every field is optional.
type Components struct {
	Primary     string `json:"primary,omitempty" yaml:"primary"`
	Secondary   string `json:"secondary,omitempty" yaml:"secondary"`
	City        string `json:"city,omitempty" yaml:"city"`
	State       string `json:"state,omitempty" yaml:"state"`
	Postcode    string `json:"postcode,omitempty" yaml:"postcode"`
	CountryCode string `json:"country_code,omitempty" yaml:"country_code"`
}

// Standardized is the result of Registry.StandardizeAddress.
type Standardized struct {
	Components
	// Country is the canonical code whose rules were applied.
	Country string
	// KnownCountry is false when the generic rules were used.
	KnownCountry bool
}

// Field names a component for validation.
type Field string

const (
	FieldPrimary   Field = "primary"
	FieldSecondary Field = "secondary"
	FieldCity      Field = "city"
	FieldState     Field = "state"
	FieldPostcode  Field = "postcode"
	FieldCountry   Field = "country_code"
	FieldLatitude  Field = "latitude"
	FieldLongitude Field = "longitude"
)

// Input is what ValidateInput checks: the components plus optional
// coordinates.
type Input struct {
	Components
	Latitude  *float64
	Longitude *float64
}

type rules struct {
	required    []Field
	coordinates bool
}

type ValidateOption func(*rules)

// RequireFields marks fields that must be non-blank.
func RequireFields(fields ...Field) ValidateOption {
	return func(r *rules) { r.required = append(r.required, fields...) }
}

// RequireComplete requires primary line, city, state and postcode.
func RequireComplete() ValidateOption {
	return RequireFields(FieldPrimary, FieldCity, FieldState, FieldPostcode)
}

// RequireCoordinates requires both latitude and longitude.
func RequireCoordinates() ValidateOption {
	return func(r *rules) { r.coordinates = true }
}

var genericPostcode = regexp.MustCompile(`(?i)^[A-Z0-9\s\-]{3,10}$`)

// ValidatePostcodeFor checks a postcode with the rules of country, or with
// a loose 3 to 10 character shape for unregistered countries.
func (r *Registry) ValidatePostcodeFor(postcode, country string) bool {
	if f, ok := r.Lookup(country); ok {
		return f.ValidatePostcode(r.prepare(postcode))
	}
	return genericPostcode.MatchString(strings.TrimSpace(r.prepare(postcode)))
}

// ValidateInput returns field -> problem code, or nil when in passes.
// Codes match foundation/validator: required, invalid_postcode,
// invalid_latitude, invalid_longitude.
func (r *Registry) ValidateInput(in Input, opts ...ValidateOption) map[string]string {
	var rs rules
	for _, opt := range opts {
		opt(&rs)
	}

	out := make(map[string]string)
	for _, f := range rs.required {
		if strings.TrimSpace(in.value(f)) == "" {
			out[string(f)] = "required"
		}
	}

	if in.Postcode != "" && out[string(FieldPostcode)] == "" {
		country := in.CountryCode
		if strings.TrimSpace(country) == "" {
			country = r.fallback
		}
		if !r.ValidatePostcodeFor(in.Postcode, country) {
			out[string(FieldPostcode)] = "invalid_postcode"
		}
	}

	checkCoordinate(out, FieldLatitude, in.Latitude, "latitude", rs.coordinates)
	checkCoordinate(out, FieldLongitude, in.Longitude, "longitude", rs.coordinates)

	if len(out) == 0 {
		return nil
	}
	return out
}

func checkCoordinate(out map[string]string, f Field, v *float64, tag string, required bool) {
	switch {
	case v == nil && required:
		out[string(f)] = "required"
	case v != nil && !validator.Var(*v, tag):
		out[string(f)] = "invalid_" + tag
	}
}

func (in Input) value(f Field) string {
	switch f {
	case FieldPrimary:
		return in.Primary
	case FieldSecondary:
		return in.Secondary
	case FieldCity:
		return in.City
	case FieldState:
		return in.State
	case FieldPostcode:
		return in.Postcode
	case FieldCountry:
		return in.CountryCode
	case FieldLatitude:
		if in.Latitude != nil {
			return "set"
		}
	case FieldLongitude:
		if in.Longitude != nil {
			return "set"
		}
	}
	return ""
}
