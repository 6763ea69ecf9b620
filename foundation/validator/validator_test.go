package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vortex-fintech/go-profile/foundation/validator"
)

type settings struct {
	Country     string  `validate:"required,iso2"`
	CallingCode string  `validate:"required,calling_code"`
	Threshold   float64 `validate:"gt=0,lte=1"`
}

type location struct {
	Point struct {
		Lat float64 `validate:"latitude"`
		Lng float64 `validate:"longitude"`
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	res := validator.Validate(settings{Country: "my", CallingCode: "60", Threshold: 0.8})
	assert.Nil(t, res)
}

func TestValidate_Codes(t *testing.T) {
	t.Parallel()

	res := validator.Validate(settings{Country: "M1", CallingCode: "060", Threshold: 2})
	assert.Equal(t, "invalid_country", res["Country"])
	assert.Equal(t, "invalid_calling_code", res["CallingCode"])
	assert.Equal(t, "too_large_or_equal", res["Threshold"])
}

func TestValidate_Required(t *testing.T) {
	t.Parallel()

	res := validator.Validate(settings{Threshold: 0.5})
	assert.Equal(t, "required", res["Country"])
	assert.Equal(t, "required", res["CallingCode"])
}

func TestValidate_NestedFieldPath(t *testing.T) {
	t.Parallel()

	var l location
	l.Point.Lat = 91
	l.Point.Lng = -181
	res := validator.Validate(l)
	assert.Equal(t, "invalid_latitude", res["Point.Lat"])
	assert.Equal(t, "invalid_longitude", res["Point.Lng"])
}

func TestValidate_NonStruct(t *testing.T) {
	t.Parallel()

	res := validator.Validate(123)
	assert.Equal(t, "validation_failed", res["_error"])
}

func TestVar(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.Var("user@example.com", "email"))
	assert.False(t, validator.Var("not-an-email", "email"))
	assert.NotNil(t, validator.Instance())
}

func TestIsCallingCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"60", true},
		{"852", true},
		{"", false},
		{"0", false},
		{"1234", false},
		{"6a", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validator.IsCallingCode(tt.in), tt.in)
	}
}
