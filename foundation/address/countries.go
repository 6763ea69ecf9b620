package address

import (
	"regexp"
	"strings"

	"github.com/vortex-fintech/go-profile/foundation/textutil"
)

var (
	myPostcode = regexp.MustCompile(`^\d{5}$`)
	sgPostcode = regexp.MustCompile(`^\d{6}$`)
	usZip      = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	ukPostcode = regexp.MustCompile(`(?i)^[A-Z]{1,2}\d{1,2}[A-Z]?\s?\d[A-Z]{2}$`)
	caPostcode = regexp.MustCompile(`(?i)^[A-Z]\d[A-Z]\s?\d[A-Z]\d$`)
)

// Malaysia formats five digit postcodes.
type Malaysia struct{ Base }

func NewMalaysia() Malaysia { return Malaysia{Base{Code: "MY"}} }

func (Malaysia) FormatPostcode(postcode string) string {
	return fixedDigits(postcode, 5)
}

func (Malaysia) ValidatePostcode(postcode string) bool {
	return myPostcode.MatchString(textutil.StripSpace(postcode))
}

// Singapore formats six digit postcodes.
type Singapore struct{ Base }

func NewSingapore() Singapore { return Singapore{Base{Code: "SG"}} }

func (Singapore) FormatPostcode(postcode string) string {
	return fixedDigits(postcode, 6)
}

func (Singapore) ValidatePostcode(postcode string) bool {
	return sgPostcode.MatchString(textutil.StripSpace(postcode))
}

// UnitedStates formats ZIP and ZIP+4 codes and knows the 50 states.
type UnitedStates struct{ Base }

func NewUnitedStates() UnitedStates { return UnitedStates{Base{Code: "US"}} }

func (UnitedStates) FormatPostcode(postcode string) string {
	digits := textutil.Digits(postcode)
	if len(digits) == 9 {
		return digits[:5] + "-" + digits[5:]
	}
	return digits
}

func (UnitedStates) ValidatePostcode(postcode string) bool {
	return usZip.MatchString(textutil.StripSpace(postcode))
}

// StateAbbreviation matches the title-cased full name exactly.
func (UnitedStates) StateAbbreviation(state string) (string, bool) {
	abbr, ok := usStateCodes[textutil.TitleWords(state)]
	return abbr, ok
}

// StateFullName matches the uppercased code exactly; surrounding spaces are
// not forgiven.
func (UnitedStates) StateFullName(abbreviation string) (string, bool) {
	name, ok := usStateNames[strings.ToUpper(abbreviation)]
	return name, ok
}

// UnitedKingdom formats outward and inward codes separated by one space.
type UnitedKingdom struct{ Base }

func NewUnitedKingdom() UnitedKingdom { return UnitedKingdom{Base{Code: "UK"}} }

func (UnitedKingdom) FormatPostcode(postcode string) string {
	compact := []rune(strings.ToUpper(textutil.StripSpace(postcode)))
	if len(compact) < 5 || len(compact) > 7 {
		return string(compact)
	}
	return spaceBefore(compact, len(compact)-3)
}

func (UnitedKingdom) ValidatePostcode(postcode string) bool {
	return ukPostcode.MatchString(strings.ToUpper(textutil.StripSpace(postcode)))
}

// Canada formats "A1A 1A1" codes.
type Canada struct{ Base }

func NewCanada() Canada { return Canada{Base{Code: "CA"}} }

func (Canada) FormatPostcode(postcode string) string {
	compact := []rune(strings.ToUpper(textutil.StripSpace(postcode)))
	if len(compact) == 6 {
		return spaceBefore(compact, 3)
	}
	return string(compact)
}

func (Canada) ValidatePostcode(postcode string) bool {
	return caPostcode.MatchString(textutil.StripSpace(postcode))
}

// spaceBefore joins r with a space at rune index i.
func spaceBefore(r []rune, i int) string {
	return string(r[:i]) + " " + string(r[i:])
}

// fixedDigits keeps digits, left-pads with zeros up to n and truncates to
// the first n.
func fixedDigits(s string, n int) string {
	digits := textutil.Digits(s)
	switch {
	case len(digits) < n:
		return strings.Repeat("0", n-len(digits)) + digits
	case len(digits) > n:
		return digits[:n]
	default:
		return digits
	}
}
