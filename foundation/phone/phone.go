// Package phone formats phone numbers around their E.164 form.
//
// The functions take a calling code ("60", "1", "44") and never fail: bad
// input yields a best-effort value. Formatter adds a configured fallback
// calling code and detection on top.
package phone

import (
	"strings"

	"github.com/vortex-fintech/go-profile/foundation/textutil"
)

const (
	minDigits = 7
	maxDigits = 15
)

// detectable lists the calling codes DetectCallingCode recognizes with the
// total digit count that identifies them. Order matters: "1" is tried first.
var detectable = []struct {
	code   string
	length int
}{
	{"1", 11},
	{"44", 12},
	{"60", 11},
	{"60", 12},
	{"65", 10},
	{"86", 13},
	{"91", 12},
}

// Forms holds every rendering of one number.
type Forms struct {
	E164          string
	National      string
	International string
	Readable      string
}

// Clean keeps digits and a leading '+'.
func Clean(raw string) string {
	raw = strings.TrimSpace(raw)
	d := textutil.Digits(raw)
	if strings.HasPrefix(raw, "+") {
		return "+" + d
	}
	return d
}

// ToE164 strips everything but digits, drops one leading trunk '0' and
// prepends callingCode unless the digits already start with it.
func ToE164(raw, callingCode string) string {
	d := textutil.Digits(raw)
	d = strings.TrimPrefix(d, "0")
	if !strings.HasPrefix(d, callingCode) {
		d = callingCode + d
	}
	return "+" + d
}

// ToNational renders the number with the trunk '0' instead of the calling
// code: "+60123456789" becomes "0123456789".
func ToNational(raw, callingCode string) string {
	d := strings.TrimPrefix(ToE164(raw, callingCode), "+")
	return "0" + strings.TrimPrefix(d, callingCode)
}

// ToInternational is the E.164 form without the '+'.
func ToInternational(raw, callingCode string) string {
	return strings.TrimPrefix(ToE164(raw, callingCode), "+")
}

// ToReadable groups digits for display. Malaysian (+60 XX XXX XXXX) and
// NANP (+1 (XXX) XXX-XXXX) numbers of 11 digits get local grouping; others
// get "+<code> <rest>".
func ToReadable(raw, callingCode string) string {
	e164 := ToE164(raw, callingCode)
	d := e164[1:]

	switch {
	case callingCode == "60" && len(d) == 11:
		return "+60 " + d[2:4] + " " + d[4:7] + " " + d[7:]
	case callingCode == "1" && len(d) == 11:
		return "+1 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	case callingCode == "":
		return e164
	default:
		return "+" + callingCode + " " + d[len(callingCode):]
	}
}

// FormsOf renders all forms from the same digits.
func FormsOf(raw, callingCode string) Forms {
	return Forms{
		E164:          ToE164(raw, callingCode),
		National:      ToNational(raw, callingCode),
		International: ToInternational(raw, callingCode),
		Readable:      ToReadable(raw, callingCode),
	}
}

// IsValid checks the digit count is within E.164 bounds and, for "60" and
// "1", that the subscriber number has the local length. An empty
// callingCode checks only the bounds.
func IsValid(raw, callingCode string) bool {
	d := textutil.Digits(raw)
	if len(d) < minDigits || len(d) > maxDigits {
		return false
	}

	switch callingCode {
	case "60":
		var subscriber string
		if rest, ok := strings.CutPrefix(d, "60"); ok {
			subscriber = rest
		} else {
			subscriber = strings.TrimLeft(d, "0")
		}
		return len(subscriber) >= 9 && len(subscriber) <= 10
	case "1":
		return len(strings.TrimPrefix(d, "1")) == 10
	default:
		return true
	}
}

// DetectCallingCode guesses the calling code from a known prefix combined
// with the total digit count.
func DetectCallingCode(raw string) (string, bool) {
	d := textutil.Digits(raw)
	for _, c := range detectable {
		if len(d) == c.length && strings.HasPrefix(d, c.code) {
			return c.code, true
		}
	}
	return "", false
}
