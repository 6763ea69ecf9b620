package address_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-profile/foundation/address"
)

type fixedFormatter struct {
	address.Base
	out string
}

func (f fixedFormatter) FormatPostcode(string) string { return f.out }
func (fixedFormatter) ValidatePostcode(string) bool   { return true }

func TestRegistry_Countries(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()
	assert.Equal(t, []string{"CA", "MY", "SG", "UK", "US"}, r.Countries())
	assert.Empty(t, address.NewRegistry().Countries())
}

func TestRegistry_LookupIsCaseInsensitiveAndAliased(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()
	assert.Equal(t, "01234", r.StandardizePostcode("1234", "my"))
	assert.Equal(t, "SW1A 1AA", r.StandardizePostcode("sw1a1aa", "gb"))
	assert.True(t, r.IsValidPostcode("SW1A 1AA", " GB "))
}

func TestRegistry_UnknownCountryFallsBack(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()
	assert.Equal(t, "AB12", r.StandardizePostcode("ab 12", "ZZ"))
	assert.True(t, r.IsValidPostcode(" x ", "ZZ"))
	assert.False(t, r.IsValidPostcode("  ", "ZZ"))
	assert.Equal(t, "Rue De Rivoli", r.StandardizeAddressLine("  rue  de RIVOLI ", "FR"))
	assert.Equal(t, "Paris", r.StandardizeCity("paris", "FR"))
	assert.Equal(t, "Ile De France", r.StandardizeState("ile de france", ""))

	_, ok := r.StateAbbreviation("California", "ZZ")
	assert.False(t, ok)
}

func TestRegistry_StateLookups(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()

	abbr, ok := r.StateAbbreviation("texas", "us")
	require.True(t, ok)
	assert.Equal(t, "TX", abbr)

	name, ok := r.StateFullName("tx", "US")
	require.True(t, ok)
	assert.Equal(t, "Texas", name)

	_, ok = r.StateAbbreviation("Selangor", "MY")
	assert.False(t, ok)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()
	r.Register(fixedFormatter{Base: address.Base{Code: "my"}, out: "first"})
	r.Register(fixedFormatter{Base: address.Base{Code: "MY"}, out: "second"})

	assert.Equal(t, "second", r.StandardizePostcode("50450", "MY"))
	assert.Len(t, r.Countries(), 5)

	r.Register(nil)
	r.Register(fixedFormatter{Base: address.Base{Code: "  "}})
	assert.Len(t, r.Countries(), 5)
}

func TestRegistry_StandardizeAddress(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()

	got := r.StandardizeAddress(address.Components{
		Primary:  "  no 1,  jalan AMPANG ",
		City:     "kuala   lumpur",
		Postcode: "5045",
	})

	assert.Equal(t, "MY", got.Country)
	assert.True(t, got.KnownCountry)
	assert.Equal(t, "No 1, Jalan Ampang", got.Primary)
	assert.Empty(t, got.Secondary)
	assert.Equal(t, "Kuala Lumpur", got.City)
	assert.Empty(t, got.State)
	assert.Equal(t, "05045", got.Postcode)
	assert.Empty(t, got.CountryCode)
}

func TestRegistry_StandardizeAddressUnknownCountry(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()
	got := r.StandardizeAddress(address.Components{
		State:       "bavaria",
		Postcode:    "80-331 x",
		CountryCode: "de",
	})

	assert.Equal(t, "DE", got.Country)
	assert.False(t, got.KnownCountry)
	assert.Equal(t, "Bavaria", got.State)
	assert.Equal(t, "80331X", got.Postcode)
	assert.Equal(t, "de", got.CountryCode)
}

func TestRegistry_FallbackCountryOption(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry(address.WithFallbackCountry("sg"))
	assert.Equal(t, "SG", r.FallbackCountry())
	got := r.StandardizeAddress(address.Components{Postcode: "18956"})
	assert.Equal(t, "018956", got.Postcode)

	assert.Equal(t, address.DefaultCountry, address.NewRegistry(address.WithFallbackCountry(" ")).FallbackCountry())
}

func TestRegistry_UnicodeNormalization(t *testing.T) {
	t.Parallel()

	plain := address.NewDefaultRegistry()
	nfkc := address.NewDefaultRegistry(address.WithUnicodeNormalization())

	assert.Equal(t, "00000", plain.StandardizePostcode("５０４５０", "MY"))
	assert.Equal(t, "50450", nfkc.StandardizePostcode("５０４５０", "MY"))
}

func TestRegistry_ConcurrentRegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Register(fixedFormatter{Base: address.Base{Code: fmt.Sprintf("X%c", 'A'+i)}, out: "x"})
		}(i)
		go func() {
			defer wg.Done()
			_ = r.StandardizePostcode("1234", "MY")
			_ = r.Countries()
		}()
	}
	wg.Wait()

	assert.Len(t, r.Countries(), 25)
}
