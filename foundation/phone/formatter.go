package phone

import "github.com/vortex-fintech/go-profile/foundation/validator"

// DefaultCallingCode is Malaysia's.
const DefaultCallingCode = "60"

// Formatter standardizes numbers, falling back to a configured calling code
// when none is given and none can be detected.
type Formatter struct {
	fallback string
}

type Option func(*Formatter)

// WithFallbackCallingCode ignores values that are not calling codes.
func WithFallbackCallingCode(code string) Option {
	return func(f *Formatter) {
		if validator.IsCallingCode(code) {
			f.fallback = code
		}
	}
}

func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{fallback: DefaultCallingCode}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Formatter) FallbackCallingCode() string { return f.fallback }

// Standardized is the result of StandardizeChecked.
type Standardized struct {
	E164        string
	CallingCode string
	// Detected is true when the calling code came from DetectCallingCode.
	Detected bool
	// WellFormed reports IsValid for the chosen calling code.
	WellFormed bool
}

// Standardize returns the E.164 form using callingCode, else a detected
// code, else the fallback.
func (f *Formatter) Standardize(raw, callingCode string) string {
	return f.StandardizeChecked(raw, callingCode).E164
}

func (f *Formatter) StandardizeChecked(raw, callingCode string) Standardized {
	code, detected := f.resolve(raw, callingCode)
	e164 := ToE164(raw, code)
	return Standardized{
		E164:        e164,
		CallingCode: code,
		Detected:    detected,
		WellFormed:  IsValid(e164, code),
	}
}

// E164 formats with callingCode, or the fallback when it is empty. Unlike
// Standardize it never detects; duplicate lookups rely on that.
func (f *Formatter) E164(raw, callingCode string) string {
	if callingCode == "" {
		callingCode = f.fallback
	}
	return ToE164(raw, callingCode)
}

// Forms renders every form, resolving the calling code like Standardize.
func (f *Formatter) Forms(raw, callingCode string) Forms {
	code, _ := f.resolve(raw, callingCode)
	return FormsOf(raw, code)
}

func (f *Formatter) resolve(raw, callingCode string) (string, bool) {
	if callingCode != "" {
		return callingCode, false
	}
	if code, ok := DetectCallingCode(raw); ok {
		return code, true
	}
	return f.fallback, false
}
