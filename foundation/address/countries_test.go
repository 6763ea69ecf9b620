package address

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatPostcode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    Formatter
		in   string
		want string
	}{
		{name: "MY as is", f: NewMalaysia(), in: "50450", want: "50450"},
		{name: "MY pads short", f: NewMalaysia(), in: "1234", want: "01234"},
		{name: "MY truncates long", f: NewMalaysia(), in: "123456", want: "12345"},
		{name: "MY strips non digits", f: NewMalaysia(), in: " 50-450 ", want: "50450"},
		{name: "SG pads short", f: NewSingapore(), in: "18956", want: "018956"},
		{name: "SG truncates long", f: NewSingapore(), in: "0189561", want: "018956"},
		{name: "US five", f: NewUnitedStates(), in: "90210", want: "90210"},
		{name: "US nine", f: NewUnitedStates(), in: "123456789", want: "12345-6789"},
		{name: "US nine with dash", f: NewUnitedStates(), in: "12345-6789", want: "12345-6789"},
		{name: "US other length kept", f: NewUnitedStates(), in: "1234", want: "1234"},
		{name: "UK inserts space", f: NewUnitedKingdom(), in: "SW1A1AA", want: "SW1A 1AA"},
		{name: "UK lower with spaces", f: NewUnitedKingdom(), in: " m1  1ae ", want: "M1 1AE"},
		{name: "UK too short", f: NewUnitedKingdom(), in: "ab1", want: "AB1"},
		{name: "UK too long", f: NewUnitedKingdom(), in: "ab12cd345", want: "AB12CD345"},
		{name: "CA six", f: NewCanada(), in: "k1a0b1", want: "K1A 0B1"},
		{name: "CA other length", f: NewCanada(), in: "k1a0b", want: "K1A0B"},
		{name: "UK multibyte", f: NewUnitedKingdom(), in: "AAéAA", want: "AA ÉAA"},
		{name: "UK multibyte long", f: NewUnitedKingdom(), in: "ñw1a1aa", want: "ÑW1A 1AA"},
		{name: "CA multibyte", f: NewCanada(), in: "k1é0b1", want: "K1É 0B1"},
		{name: "generic", f: generic{}, in: "ab 12", want: "AB12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.f.FormatPostcode(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, got, tt.f.FormatPostcode(got), "format must be a fixed point")
		})
	}
}

func TestValidatePostcode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    Formatter
		in   string
		want bool
	}{
		{name: "MY ok", f: NewMalaysia(), in: "50450", want: true},
		{name: "MY spaces ignored", f: NewMalaysia(), in: " 504 50 ", want: true},
		{name: "MY short", f: NewMalaysia(), in: "5045", want: false},
		{name: "MY letters", f: NewMalaysia(), in: "5045a", want: false},
		{name: "SG ok", f: NewSingapore(), in: "018956", want: true},
		{name: "SG short", f: NewSingapore(), in: "18956", want: false},
		{name: "US zip", f: NewUnitedStates(), in: "90210", want: true},
		{name: "US zip4", f: NewUnitedStates(), in: "90210-1234", want: true},
		{name: "US bad", f: NewUnitedStates(), in: "9021", want: false},
		{name: "UK spaced", f: NewUnitedKingdom(), in: "SW1A 1AA", want: true},
		{name: "UK compact lower", f: NewUnitedKingdom(), in: "ec1a1bb", want: true},
		{name: "UK bad", f: NewUnitedKingdom(), in: "12345", want: false},
		{name: "CA ok", f: NewCanada(), in: "K1A 0B1", want: true},
		{name: "CA lower", f: NewCanada(), in: "k1a0b1", want: true},
		{name: "CA bad", f: NewCanada(), in: "K1A 0B", want: false},
		{name: "generic non empty", f: generic{}, in: "x", want: true},
		{name: "generic blank", f: generic{}, in: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.f.ValidatePostcode(tt.in))
		})
	}
}

func TestUnitedStatesStates(t *testing.T) {
	t.Parallel()

	us := NewUnitedStates()

	abbr, ok := us.StateAbbreviation("  new   york ")
	assert.True(t, ok)
	assert.Equal(t, "NY", abbr)

	_, ok = us.StateAbbreviation("Ontario")
	assert.False(t, ok)

	name, ok := us.StateFullName("ca")
	assert.True(t, ok)
	assert.Equal(t, "California", name)

	_, ok = us.StateFullName(" CA")
	assert.False(t, ok)

	assert.Len(t, usStateCodes, 50)
	assert.Len(t, usStateNames, 50)
	for name, code := range usStateCodes {
		back, ok := us.StateFullName(code)
		assert.True(t, ok)
		assert.Equal(t, name, back)
	}
}

func TestBaseHasNoStateTable(t *testing.T) {
	t.Parallel()

	_, ok := NewMalaysia().StateAbbreviation("Selangor")
	assert.False(t, ok)
	_, ok = NewMalaysia().StateFullName("SGR")
	assert.False(t, ok)
	assert.Equal(t, "Jalan Sultan Ismail", NewMalaysia().StandardizeAddressLine("jalan  SULTAN ismail"))
}
