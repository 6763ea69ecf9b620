package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "Jalan Ampang", b: "Jalan Ampang", want: 1},
		{name: "case and space", a: " JALAN ampang ", b: "jalan AMPANG", want: 1},
		{name: "both empty", a: " ", b: "", want: 1},
		{name: "one edit in four", a: "abcd", b: "abcf", want: 0.75},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "one empty", a: "abc", b: "", want: 0},
		{name: "runes not bytes", a: "café", b: "cafe", want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
			assert.InDelta(t, Ratio(tt.a, tt.b), Ratio(tt.b, tt.a), 1e-9)
		})
	}
}

func TestExact(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Exact("sw1a 1aa", " SW1A 1AA"))
	assert.Equal(t, 0.0, Exact("50450", "50451"))
}

func TestMean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.5, Mean([]float64{1, 0, 0.5}), 1e-9)
}
