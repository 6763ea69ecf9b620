package address

import (
	"sort"
	"sync"

	"github.com/vortex-fintech/go-profile/foundation/geo"
	"github.com/vortex-fintech/go-profile/foundation/textutil"
)

// DefaultCountry is used by StandardizeAddress when components carry no
// country code.
const DefaultCountry = "MY"

// Registry resolves country codes to formatters. Unknown countries get the
// generic rules. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	fallback   string
	nfkc       bool
}

type Option func(*Registry)

// WithFallbackCountry sets the country assumed for components without one.
func WithFallbackCountry(code string) Option {
	return func(r *Registry) {
		if c := geo.Canonical(code); c != "" {
			r.fallback = c
		}
	}
}

// WithFormatters registers formatters at construction.
func WithFormatters(fs ...Formatter) Option {
	return func(r *Registry) {
		for _, f := range fs {
			r.put(f)
		}
	}
}

// WithUnicodeNormalization applies NFKC to every input before formatting,
// so full-width digits and letters are treated as ASCII.
func WithUnicodeNormalization() Option {
	return func(r *Registry) { r.nfkc = true }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		formatters: make(map[string]Formatter),
		fallback:   DefaultCountry,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry returns a registry with the MY, SG, US, UK and CA
// formatters. Later options may replace any of them.
func NewDefaultRegistry(opts ...Option) *Registry {
	base := []Option{WithFormatters(
		NewMalaysia(),
		NewSingapore(),
		NewUnitedStates(),
		NewUnitedKingdom(),
		NewCanada(),
	)}
	return NewRegistry(append(base, opts...)...)
}

// Register adds f, replacing any formatter already registered for its code.
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	r.put(f)
	r.mu.Unlock()
}

func (r *Registry) put(f Formatter) {
	if f == nil {
		return
	}
	code := geo.Canonical(f.CountryCode())
	if code == "" {
		return
	}
	r.formatters[code] = f
}

// Countries lists registered country codes in ascending order.
func (r *Registry) Countries() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.formatters))
	for code := range r.formatters {
		out = append(out, code)
	}
	r.mu.RUnlock()

	sort.Strings(out)
	return out
}

// FallbackCountry is the country assumed for components without one.
func (r *Registry) FallbackCountry() string { return r.fallback }

// Lookup returns the formatter registered for country.
func (r *Registry) Lookup(country string) (Formatter, bool) {
	code := geo.Canonical(country)
	r.mu.RLock()
	f, ok := r.formatters[code]
	r.mu.RUnlock()
	return f, ok
}

// formatter never returns nil: unknown countries get the generic rules.
func (r *Registry) formatter(country string) (Formatter, bool) {
	if f, ok := r.Lookup(country); ok {
		return f, true
	}
	return generic{Base{Code: geo.Canonical(country)}}, false
}

func (r *Registry) prepare(s string) string {
	if r.nfkc {
		return textutil.NFKC(s)
	}
	return s
}

func (r *Registry) StandardizePostcode(postcode, country string) string {
	f, _ := r.formatter(country)
	return f.FormatPostcode(r.prepare(postcode))
}

func (r *Registry) IsValidPostcode(postcode, country string) bool {
	f, _ := r.formatter(country)
	return f.ValidatePostcode(r.prepare(postcode))
}

// StandardizeAddressLine applies the rules of country; an empty country
// means the generic rules.
func (r *Registry) StandardizeAddressLine(line, country string) string {
	f, _ := r.formatter(country)
	return f.StandardizeAddressLine(r.prepare(line))
}

func (r *Registry) StandardizeCity(city, country string) string {
	f, _ := r.formatter(country)
	return f.StandardizeCity(r.prepare(city))
}

func (r *Registry) StandardizeState(state, country string) string {
	f, _ := r.formatter(country)
	return f.StandardizeState(r.prepare(state))
}

// StateAbbreviation reports false for unknown states and for countries
// without a state table.
func (r *Registry) StateAbbreviation(state, country string) (string, bool) {
	f, ok := r.Lookup(country)
	if !ok {
		return "", false
	}
	return f.StateAbbreviation(r.prepare(state))
}

func (r *Registry) StateFullName(abbreviation, country string) (string, bool) {
	f, ok := r.Lookup(country)
	if !ok {
		return "", false
	}
	return f.StateFullName(r.prepare(abbreviation))
}

// StandardizeAddress standardizes every non-empty field of c using the
// rules of its country, or of the fallback country when c has none.
func (r *Registry) StandardizeAddress(c Components) Standardized {
	country := geo.Canonical(c.CountryCode)
	if country == "" {
		country = r.fallback
	}
	f, known := r.formatter(country)

	out := c
	if c.Primary != "" {
		out.Primary = f.StandardizeAddressLine(r.prepare(c.Primary))
	}
	if c.Secondary != "" {
		out.Secondary = f.StandardizeAddressLine(r.prepare(c.Secondary))
	}
	if c.City != "" {
		out.City = f.StandardizeCity(r.prepare(c.City))
	}
	if c.State != "" {
		out.State = f.StandardizeState(r.prepare(c.State))
	}
	if c.Postcode != "" {
		out.Postcode = f.FormatPostcode(r.prepare(c.Postcode))
	}

	return Standardized{
		Components:   out,
		Country:      country,
		KnownCountry: known,
	}
}
