package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/go-profile/foundation/geo"
)

var v *validator.Validate

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	mustRegister("iso2", func(fl validator.FieldLevel) bool {
		return geo.IsValidISO2(fl.Field().String())
	})
	mustRegister("calling_code", func(fl validator.FieldLevel) bool {
		return IsCallingCode(fl.Field().String())
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func Instance() *validator.Validate {
	return v
}

// Validate checks struct tags and returns field -> code, or nil when valid.
func Validate(i any) map[string]string {
	if err := v.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			out := make(map[string]string, len(errs))
			for _, e := range errs {
				out[fieldPath(e)] = mapTagToCode(e.Tag())
			}
			return out
		}
		return map[string]string{"_error": "validation_failed"}
	}
	return nil
}

// Var reports whether a single value satisfies tag.
func Var(value any, tag string) bool {
	return v.Var(value, tag) == nil
}

// IsCallingCode reports whether s is an ITU calling code: 1-3 digits without
// a leading zero.
func IsCallingCode(s string) bool {
	if len(s) == 0 || len(s) > 3 || s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}
