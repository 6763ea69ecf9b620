package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vortex-fintech/go-profile/foundation/address"
)

func ptr(v float64) *float64 { return &v }

func TestValidatePostcodeFor(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()

	assert.True(t, r.ValidatePostcodeFor("50450", "MY"))
	assert.False(t, r.ValidatePostcodeFor("5045", "MY"))
	assert.True(t, r.ValidatePostcodeFor("EC1A 1BB", "GB"))
	assert.True(t, r.ValidatePostcodeFor("1010-AB", "NL"))
	assert.False(t, r.ValidatePostcodeFor("12", "NL"))
	assert.False(t, r.ValidatePostcodeFor("12345678901", "NL"))
	assert.False(t, r.ValidatePostcodeFor("12#45", "NL"))
}

func TestValidateInput(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()

	tests := []struct {
		name string
		in   address.Input
		opts []address.ValidateOption
		want map[string]string
	}{
		{
			name: "empty input without rules",
			in:   address.Input{},
		},
		{
			name: "complete malaysian address",
			in: address.Input{Components: address.Components{
				Primary: "Jalan Ampang", City: "Kuala Lumpur", State: "WP", Postcode: "50450",
			}},
			opts: []address.ValidateOption{address.RequireComplete()},
		},
		{
			name: "missing required fields",
			in:   address.Input{Components: address.Components{Primary: "  "}},
			opts: []address.ValidateOption{address.RequireComplete()},
			want: map[string]string{
				"primary": "required", "city": "required", "state": "required", "postcode": "required",
			},
		},
		{
			name: "postcode checked against fallback country",
			in:   address.Input{Components: address.Components{Postcode: "504"}},
			want: map[string]string{"postcode": "invalid_postcode"},
		},
		{
			name: "postcode checked against given country",
			in:   address.Input{Components: address.Components{Postcode: "90210", CountryCode: "US"}},
		},
		{
			name: "coordinates required",
			in:   address.Input{Latitude: ptr(3.15)},
			opts: []address.ValidateOption{address.RequireCoordinates()},
			want: map[string]string{"longitude": "required"},
		},
		{
			name: "coordinates out of range",
			in:   address.Input{Latitude: ptr(91), Longitude: ptr(-180.5)},
			want: map[string]string{"latitude": "invalid_latitude", "longitude": "invalid_longitude"},
		},
		{
			name: "coordinates in range",
			in:   address.Input{Latitude: ptr(-90), Longitude: ptr(180)},
			opts: []address.ValidateOption{address.RequireCoordinates(), address.RequireFields(address.FieldLatitude)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.ValidateInput(tt.in, tt.opts...))
		})
	}
}
