package address

import "github.com/vortex-fintech/go-profile/foundation/textutil"

// Formatter holds the postcode and text rules of one country.
type Formatter interface {
	CountryCode() string
	FormatPostcode(postcode string) string
	ValidatePostcode(postcode string) bool
	StandardizeAddressLine(line string) string
	StandardizeCity(city string) string
	StandardizeState(state string) string
	// StateAbbreviation maps a full state name to its short code.
	StateAbbreviation(state string) (string, bool)
	// StateFullName maps a short state code to its full name.
	StateFullName(abbreviation string) (string, bool)
}

// Base supplies the text rules shared by every country: whitespace collapsed,
// trimmed, each word title-cased. It has no state table.
// Country formatters embed it and add postcode rules.
type Base struct {
	Code string
}

func (b Base) CountryCode() string { return b.Code }

func (Base) StandardizeAddressLine(line string) string { return textutil.TitleWords(line) }
func (Base) StandardizeCity(city string) string        { return textutil.TitleWords(city) }
func (Base) StandardizeState(state string) string      { return textutil.TitleWords(state) }

func (Base) StateAbbreviation(string) (string, bool) { return "", false }
func (Base) StateFullName(string) (string, bool)     { return "", false }

// generic is used for countries without a registered formatter.
type generic struct {
	Base
}

func (generic) FormatPostcode(postcode string) string {
	return textutil.UpperAlnum(postcode)
}

func (generic) ValidatePostcode(postcode string) bool {
	return textutil.CollapseSpace(postcode) != ""
}
