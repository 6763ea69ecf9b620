package phone

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/vortex-fintech/go-profile/foundation/geo"
)

var ErrInvalidNumber = errors.New("phone: invalid number")

// CallingCodeForRegion maps an ISO 3166 region ("MY", "GB") to its calling
// code. "UK" is accepted for Great Britain.
func CallingCodeForRegion(region string) (string, bool) {
	code := phonenumbers.GetCountryCodeForRegion(libRegion(region))
	if code == 0 {
		return "", false
	}
	return strconv.Itoa(code), true
}

// RegionsForCallingCode lists the regions sharing a calling code, main
// region first.
func RegionsForCallingCode(callingCode string) []string {
	n, err := strconv.Atoi(callingCode)
	if err != nil || n <= 0 {
		return nil
	}
	return phonenumbers.GetRegionCodesForCountryCode(n)
}

// ParseStrict validates raw against the numbering plan of region and
// returns its E.164 form. It is stricter than IsValid and meant for input
// forms; standardization does not use it.
func ParseStrict(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), libRegion(region))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidNumber, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// libRegion undoes the GB -> UK aliasing used by the address formatters.
func libRegion(region string) string {
	r := geo.Canonical(region)
	if r == "UK" {
		return "GB"
	}
	return r
}

var inputSeparators = regexp.MustCompile(`[\s\-().]`)

var (
	internationalInput = regexp.MustCompile(`^\+\d{7,15}$`)
	localInput         = regexp.MustCompile(`^\d{7,15}$`)
)

// ValidateInput checks user-entered text: separators (spaces, dashes,
// parentheses, dots) are ignored, then either '+' and 7-15 digits or 7-15
// digits must remain. A non-nil pattern must also match the stripped value.
func ValidateInput(value string, pattern *regexp.Regexp) bool {
	v := inputSeparators.ReplaceAllString(value, "")
	shape := localInput
	if strings.HasPrefix(v, "+") {
		shape = internationalInput
	}
	if !shape.MatchString(v) {
		return false
	}
	return pattern == nil || pattern.MatchString(v)
}
