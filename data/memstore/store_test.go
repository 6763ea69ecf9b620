package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-profile/data/memstore"
	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

var (
	alice = contact.Owner{Type: "user", ID: "alice"}
	bob   = contact.Owner{Type: "user", ID: "bob"}
)

func newStore() (*memstore.Store, *timeutil.FrozenClock) {
	clock := timeutil.NewFrozenClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	return memstore.New(clock), clock
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	t.Parallel()

	s, clock := newStore()
	ctx := context.Background()

	e := contact.Email{Owner: alice, Address: "a@example.com"}
	require.NoError(t, s.CreateEmail(ctx, &e))
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, clock.Now(), e.CreatedAt)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	got, err := s.GetEmail(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	a := contact.Address{Owner: alice, Primary: "1 Main St"}
	require.NoError(t, s.CreateAddress(ctx, &a))
	assert.Equal(t, contact.StatusPending, a.ValidationStatus)

	_, err = s.GetPhone(ctx, uuid.New())
	assert.ErrorIs(t, err, contact.ErrNotFound)
}

func TestListOrderAndFilters(t *testing.T) {
	t.Parallel()

	s, clock := newStore()
	ctx := context.Background()

	var ids []uuid.UUID
	for i, o := range []contact.Owner{alice, bob, alice} {
		p := contact.Phone{Owner: o, Number: "+6012345678" + string(rune('0'+i))}
		require.NoError(t, s.CreatePhone(ctx, &p))
		ids = append(ids, p.ID)
		clock.Advance(time.Second)
	}

	all, err := s.ListPhonesExcept(ctx, ids[1])
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ids[0], all[0].ID)
	assert.Equal(t, ids[2], all[1].ID)

	mine, err := s.ListPhonesByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, ids[0], mine[0].ID)

	owners, err := s.ListOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []contact.Owner{alice, bob}, owners)
}

func TestListAddressesByCountry(t *testing.T) {
	t.Parallel()

	s, _ := newStore()
	ctx := context.Background()

	my := contact.Address{Owner: alice, CountryID: 1}
	sg := contact.Address{Owner: alice, CountryID: 2}
	other := contact.Address{Owner: bob, CountryID: 1}
	for _, a := range []*contact.Address{&my, &sg, &other} {
		require.NoError(t, s.CreateAddress(ctx, a))
	}

	got, err := s.ListAddressesExcept(ctx, my.ID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, other.ID, got[0].ID)

	got, err = s.ListAddressesExcept(ctx, my.ID, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	s, _ := newStore()
	ctx := context.Background()

	e := contact.Email{Owner: alice, Address: "a@example.com"}
	require.NoError(t, s.CreateEmail(ctx, &e))

	e.IsDefault = true
	require.NoError(t, s.UpdateEmail(ctx, e))
	got, err := s.GetEmail(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)

	require.NoError(t, s.DeleteEmail(ctx, e.ID))
	assert.ErrorIs(t, s.DeleteEmail(ctx, e.ID), contact.ErrNotFound)
	assert.ErrorIs(t, s.UpdateEmail(ctx, e), contact.ErrNotFound)
}

func TestWithinTxRollsBack(t *testing.T) {
	t.Parallel()

	s, _ := newStore()
	ctx := context.Background()

	keep := contact.Email{Owner: alice, Address: "keep@example.com"}
	require.NoError(t, s.CreateEmail(ctx, &keep))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.DeleteEmail(ctx, keep.ID))
		extra := contact.Email{Owner: alice, Address: "extra@example.com"}
		require.NoError(t, s.CreateEmail(ctx, &extra))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	emails, _, _ := s.Len()
	assert.Equal(t, 1, emails)
	_, err = s.GetEmail(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	t.Parallel()

	s, _ := newStore()
	ctx := context.Background()

	p := contact.Phone{Owner: alice, Number: "+60123456789"}
	require.NoError(t, s.CreatePhone(ctx, &p))

	assert.Panics(t, func() {
		_ = s.WithinTx(ctx, func(ctx context.Context) error {
			_ = s.DeletePhone(ctx, p.ID)
			panic("kaboom")
		})
	})

	_, phones, _ := s.Len()
	assert.Equal(t, 1, phones)
}

func TestFailOnIsOneShot(t *testing.T) {
	t.Parallel()

	s, _ := newStore()
	ctx := context.Background()
	boom := errors.New("boom")

	s.FailOn("ListOwners", boom)
	_, err := s.ListOwners(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = s.ListOwners(ctx)
	assert.NoError(t, err)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	s, _ := newStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListEmailsByOwner(ctx, alice)
	assert.ErrorIs(t, err, context.Canceled)
}
