//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-profile/data/postgres"
	"github.com/vortex-fintech/go-profile/dedupe"
	"github.com/vortex-fintech/go-profile/foundation/contact"
)

func openIntegrationClient(t *testing.T) *postgres.Client {
	t.Helper()
	dsn := os.Getenv("PROFILE_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("PROFILE_TEST_POSTGRES_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := postgres.Open(ctx, postgres.Config{URL: dsn})
	require.NoError(t, err)
	require.NoError(t, c.Migrate(ctx))
	return c
}

func TestStoreRoundTrip_Integration(t *testing.T) {
	c := openIntegrationClient(t)
	defer c.Close()
	ctx := context.Background()
	s := postgres.NewStore(c)

	owner := contact.Owner{Type: "it", ID: time.Now().Format(time.RFC3339Nano)}
	e := contact.Email{Owner: owner, Address: "it@example.com"}
	require.NoError(t, s.CreateEmail(ctx, &e))

	got, err := s.GetEmail(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, e.Address, got.Address)

	require.NoError(t, s.DeleteEmail(ctx, e.ID))
	_, err = s.GetEmail(ctx, e.ID)
	require.ErrorIs(t, err, contact.ErrNotFound)
}

func TestMergeRollback_Integration(t *testing.T) {
	c := openIntegrationClient(t)
	defer c.Close()
	ctx := context.Background()
	s := postgres.NewStore(c)

	owner := contact.Owner{Type: "it", ID: time.Now().Format(time.RFC3339Nano)}
	primary := contact.Email{Owner: owner, Address: "p@example.com"}
	require.NoError(t, s.CreateEmail(ctx, &primary))

	boom := errors.New("force rollback")
	err := c.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.DeleteEmail(ctx, primary.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetEmail(ctx, primary.ID)
	require.NoError(t, err)

	dup := contact.Email{Owner: owner, Address: "P+x@example.com"}
	require.NoError(t, s.CreateEmail(ctx, &dup))

	counts, err := dedupe.New(s, c).AutoMerge(ctx, contact.Bind(owner, s))
	require.NoError(t, err)
	require.Equal(t, 1, counts.Emails)
}
