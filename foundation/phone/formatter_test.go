package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vortex-fintech/go-profile/foundation/phone"
)

func TestFormatter_Standardize(t *testing.T) {
	t.Parallel()

	f := phone.NewFormatter()
	assert.Equal(t, phone.DefaultCallingCode, f.FallbackCallingCode())

	assert.Equal(t, "+14155552671", f.Standardize("4155552671", "1"))
	assert.Equal(t, "+6591234567", f.Standardize("6591234567", ""))
	assert.Equal(t, "+60123456789", f.Standardize("012-345 6789", ""))
}

func TestFormatter_StandardizeChecked(t *testing.T) {
	t.Parallel()

	f := phone.NewFormatter(phone.WithFallbackCallingCode("65"))

	assert.Equal(t, phone.Standardized{
		E164: "+14155552671", CallingCode: "1", Detected: true, WellFormed: true,
	}, f.StandardizeChecked("+1 (415) 555-2671", ""))

	assert.Equal(t, phone.Standardized{
		E164: "+6591234567", CallingCode: "65", WellFormed: true,
	}, f.StandardizeChecked("91234567", ""))

	got := f.StandardizeChecked("12", "60")
	assert.Equal(t, "+6012", got.E164)
	assert.False(t, got.WellFormed)
}

func TestFormatter_FallbackOptionIgnoresGarbage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "60", phone.NewFormatter(phone.WithFallbackCallingCode("abc")).FallbackCallingCode())
	assert.Equal(t, "60", phone.NewFormatter(phone.WithFallbackCallingCode("")).FallbackCallingCode())
	assert.Equal(t, "44", phone.NewFormatter(phone.WithFallbackCallingCode("44")).FallbackCallingCode())
}

func TestFormatter_E164NeverDetects(t *testing.T) {
	t.Parallel()

	f := phone.NewFormatter()
	assert.Equal(t, "+6014155552671", f.E164("14155552671", ""))
	assert.Equal(t, "+14155552671", f.E164("14155552671", "1"))
}

func TestFormatter_Forms(t *testing.T) {
	t.Parallel()

	forms := phone.NewFormatter().Forms("+1 415 555 2671", "")
	assert.Equal(t, "+1 (415) 555-2671", forms.Readable)
	assert.Equal(t, "04155552671", forms.National)
}
