package piiutil

import (
	"strings"
	"unicode"
)

// MaskEmail hides the local part of an e-mail, keeping its first and last
// rune and the whole domain.
//
//	"john.doe@example.com" -> "j******e@example.com"
//	"ab@example.com"       -> "a*@example.com"
//	"weird"                -> "w***d"
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return keepEnds(email)
	}
	return keepEnds(email[:at]) + email[at:]
}

// MaskPhone masks digits while keeping separators and the last 4 digits
// (only the last one when there are 4 digits or fewer).
//
//	"+60 12-345 6789" -> "+** **-*** 6789"
func MaskPhone(phone string) string {
	return maskTail(strings.TrimSpace(phone), unicode.IsDigit, 4)
}

// MaskPostcode keeps the first two significant characters, which is enough
// to tell the region apart in logs.
//
//	"SW1A 1AA" -> "SW** ***"
//	"50450"    -> "50***"
func MaskPostcode(postcode string) string {
	runes := []rune(strings.TrimSpace(postcode))
	seen := 0
	for i, r := range runes {
		if !isSignificant(r) {
			continue
		}
		seen++
		if seen > 2 {
			runes[i] = '*'
		}
	}
	return string(runes)
}

func keepEnds(s string) string {
	runes := []rune(s)
	switch n := len(runes); {
	case n < 2:
		return s
	case n == 2:
		return string(runes[0]) + "*"
	default:
		return string(runes[0]) + strings.Repeat("*", n-2) + string(runes[n-1])
	}
}

// maskTail masks runes matching class except the last keep of them.
func maskTail(s string, class func(rune) bool, keep int) string {
	runes := []rune(s)
	total := 0
	for _, r := range runes {
		if class(r) {
			total++
		}
	}
	if total == 0 {
		return keepEnds(s)
	}
	if total <= keep {
		keep = 1
	}

	seen := 0
	for i := len(runes) - 1; i >= 0; i-- {
		if !class(runes[i]) {
			continue
		}
		seen++
		if seen > keep {
			runes[i] = '*'
		}
	}
	return string(runes)
}

func isSignificant(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
