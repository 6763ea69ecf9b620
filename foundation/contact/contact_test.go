package contact_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-profile/foundation/address"
	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/phone"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestOwner(t *testing.T) {
	t.Parallel()

	o := contact.Owner{Type: "user", ID: "42"}
	assert.Equal(t, "user:42", o.String())
	assert.False(t, o.IsZero())
	assert.True(t, contact.Owner{}.IsZero())

	back, ok := contact.ParseOwner(" user:42 ")
	require.True(t, ok)
	assert.Equal(t, o, back)

	for _, bad := range []string{"", "user", ":42", "user:"} {
		_, ok := contact.ParseOwner(bad)
		assert.False(t, ok, bad)
	}
}

func TestEmailVerificationFlow(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewFrozenClock(t0)
	e := contact.Email{Address: "a@example.com"}

	token, err := e.IssueToken(clock, 0)
	require.NoError(t, err)
	assert.Len(t, token, contact.TokenLength)
	require.NotNil(t, e.TokenExpiresAt)
	assert.Equal(t, t0.Add(contact.DefaultTokenTTL), *e.TokenExpiresAt)

	assert.False(t, e.Verify(clock, "wrong"))
	assert.False(t, e.Verify(clock, ""))
	assert.False(t, e.Verified())

	clock.Advance(30 * time.Minute)
	assert.True(t, e.Verify(clock, token))
	assert.True(t, e.Verified())
	assert.Equal(t, t0.Add(30*time.Minute), *e.VerifiedAt)
	assert.Empty(t, e.VerificationToken)
	assert.Nil(t, e.TokenExpiresAt)

	assert.False(t, e.Verify(clock, token), "token is single use")
}

func TestEmailTokenExpires(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewFrozenClock(t0)
	e := contact.Email{}
	token, err := e.IssueToken(clock, time.Minute)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	assert.False(t, e.Verify(clock, token))
	assert.False(t, e.Verified())
}

func TestEmailNormalizeAndCanonical(t *testing.T) {
	t.Parallel()

	e := contact.Email{Address: "  John.Doe+x@Gmail.com "}
	assert.True(t, e.Normalize())
	assert.Equal(t, "john.doe@gmail.com", e.Address)
	assert.Equal(t, "johndoe@gmail.com", e.Canonical())

	bad := contact.Email{Address: "Nope"}
	assert.False(t, bad.Normalize())
	assert.Equal(t, "nope", bad.Address)
}

func TestPhoneVerificationFlow(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewFrozenClock(t0)
	p := contact.Phone{Number: "+60123456789"}

	code, err := p.IssueCode(clock, 0)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)
	assert.Equal(t, t0.Add(contact.DefaultCodeTTL), *p.CodeExpiresAt)

	clock.Advance(11 * time.Minute)
	assert.False(t, p.Verify(clock, code))

	code, err = p.IssueCode(clock, 0)
	require.NoError(t, err)
	assert.True(t, p.Verify(clock, code))
	assert.True(t, p.Verified())
	assert.Empty(t, p.VerificationCode)
}

func TestPhoneStandardize(t *testing.T) {
	t.Parallel()

	p := contact.Phone{Number: "012-345 6789"}
	assert.True(t, p.Standardize(phone.NewFormatter(), ""))
	assert.Equal(t, "+60123456789", p.Number)
}

func TestPhoneTypes(t *testing.T) {
	t.Parallel()

	typ, ok := contact.ParsePhoneType(" Mobile ")
	require.True(t, ok)
	assert.Equal(t, contact.PhoneMobile, typ)
	assert.Equal(t, "Mobile", typ.Label())

	_, ok = contact.ParsePhoneType("pager")
	assert.False(t, ok)
	assert.Equal(t, "Other", contact.PhoneType("pager").Label())
	assert.Len(t, contact.PhoneTypes(), 5)
}

func TestAddressValidationTransitions(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewFrozenClock(t0)
	a := contact.Address{}
	assert.True(t, a.Pending())

	a.MarkValid(clock)
	assert.Equal(t, contact.StatusValid, a.ValidationStatus)
	assert.Equal(t, t0, *a.ValidatedAt)
	assert.False(t, a.Pending())

	a.MarkInvalid(clock)
	assert.Equal(t, contact.StatusInvalid, a.ValidationStatus)
	a.MarkPartial(clock)
	assert.Equal(t, contact.StatusPartial, a.ValidationStatus)

	a.ResetValidation()
	assert.Equal(t, contact.StatusPending, a.ValidationStatus)
	assert.Nil(t, a.ValidatedAt)

	assert.True(t, contact.StatusPartial.IsValid())
	assert.False(t, contact.ValidationStatus("done").IsValid())
}

func TestAddressCoordinatesAndFullAddress(t *testing.T) {
	t.Parallel()

	a := contact.Address{Primary: "Jalan Ampang", City: "Kuala Lumpur", Postcode: "50450"}
	assert.False(t, a.HasCoordinates())
	a.SetCoordinates(3.15, 101.7)
	assert.True(t, a.HasCoordinates())

	assert.Equal(t, "Jalan Ampang, Kuala Lumpur, 50450, Malaysia", a.FullAddress("Malaysia"))
	assert.Equal(t, "Jalan Ampang, Kuala Lumpur, 50450", a.FullAddress(""))
}

func TestAddressStandardize(t *testing.T) {
	t.Parallel()

	r := address.NewDefaultRegistry()

	a := contact.Address{Primary: "jalan  ampang", Postcode: "5045"}
	assert.True(t, a.Standardize(r))
	assert.Equal(t, "Jalan Ampang", a.Primary)
	assert.Equal(t, "05045", a.Postcode)

	b := contact.Address{City: "berlin", Postcode: "10 115", CountryCode: "DE"}
	assert.False(t, b.Standardize(r))
	assert.Equal(t, "Berlin", b.City)
	assert.Equal(t, "10115", b.Postcode)
}

type listStore struct {
	contact.Store
	emails []contact.Email
}

func (s listStore) ListEmailsByOwner(_ context.Context, o contact.Owner) ([]contact.Email, error) {
	var out []contact.Email
	for _, e := range s.emails {
		if e.Owner == o {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestBind(t *testing.T) {
	t.Parallel()

	owner := contact.Owner{Type: "user", ID: "1"}
	s := listStore{emails: []contact.Email{
		{ID: uuid.New(), Owner: owner},
		{ID: uuid.New(), Owner: contact.Owner{Type: "user", ID: "2"}},
	}}

	co := contact.Bind(owner, s)
	assert.Equal(t, owner, co.OwnerRef())
	got, err := co.Emails(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPlainCodecAndNewID(t *testing.T) {
	t.Parallel()

	var c contact.FieldCodec = contact.PlainCodec{}
	enc, err := c.Encrypt("x")
	require.NoError(t, err)
	assert.Equal(t, "x", c.Decrypt(enc))

	id, err := contact.NewID()
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}
