package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CollapseSpace replaces every run of Unicode whitespace with a single ASCII
// space and trims both ends.
func CollapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TitleWords collapses whitespace and upper-cases the first letter of every
// word, lower-casing the rest.
//
// A cases.Caser keeps state between calls, so a fresh one is built each time.
func TitleWords(s string) string {
	s = CollapseSpace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.Und).String(s)
}

// NFKC applies compatibility composition (full-width digits, ligatures, etc).
func NFKC(s string) string {
	return norm.NFKC.String(s)
}

// KeepFunc returns s with only the runes for which keep reports true.
func KeepFunc(s string, keep func(r rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Digits keeps ASCII digits only.
func Digits(s string) string {
	return KeepFunc(s, isASCIIDigit)
}

// UpperAlnum upper-cases s and keeps ASCII letters and digits only.
func UpperAlnum(s string) string {
	return KeepFunc(strings.ToUpper(s), func(r rune) bool {
		return isASCIIDigit(r) || (r >= 'A' && r <= 'Z')
	})
}

// StripSpace removes every whitespace rune.
func StripSpace(s string) string {
	return KeepFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
