package errx

import (
	"fmt"
	"strings"
)

// Merge wraps a failure that happened while folding a duplicate into its
// primary record.
func Merge(base error, msg string) error {
	return wrap("merge", base, msg)
}

// Store wraps a failure reported by a contact store.
func Store(base error, msg string) error {
	return wrap("store", base, msg)
}

// Config wraps a configuration problem.
func Config(base error, msg string) error {
	return wrap("config", base, msg)
}

func wrap(kind string, base error, msg string) error {
	msg = strings.TrimSpace(msg)
	switch {
	case base == nil && msg == "":
		return fmt.Errorf("%s error", kind)
	case base == nil:
		return fmt.Errorf("%s: %s", kind, msg)
	case msg == "":
		return fmt.Errorf("%s: %w", kind, base)
	default:
		return fmt.Errorf("%s: %w: %s", kind, base, msg)
	}
}
