package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

var testOwner = contact.Owner{Type: "user", ID: "42"}

// prefixCodec marks values so tests can see what reached the database.
type prefixCodec struct{}

func (prefixCodec) Encrypt(plain string) (string, error) { return "enc:" + plain, nil }
func (prefixCodec) Decrypt(stored string) string         { return strings.TrimPrefix(stored, "enc:") }

func newTestStore(r Runner) (*Store, context.Context) {
	clock := timeutil.NewFrozenClock(time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC))
	s := NewStore(nil, WithFieldCodec(prefixCodec{}), WithClock(clock))
	return s, ContextWithRunner(context.Background(), r)
}

func TestStore_CreateEmailSealsAndStamps(t *testing.T) {
	t.Parallel()

	r := &runnerStub{}
	s, ctx := newTestStore(r)

	e := contact.Email{Owner: testOwner, Address: "a@example.com"}
	require.NoError(t, s.CreateEmail(ctx, &e))

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC), e.CreatedAt)
	assert.Equal(t, "a@example.com", e.Address, "caller copy stays plain")

	require.Len(t, r.execArgs, 1)
	args := r.execArgs[0]
	assert.Equal(t, e.ID, args[0])
	assert.Equal(t, "enc:a@example.com", args[3])
	assert.Equal(t, "", args[6], "empty token is not sealed")
	assert.Contains(t, r.execSQL[0], "INSERT INTO contact_emails")
}

func TestStore_GetEmail(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &runnerStub{rows: []pgx.Row{rowStub{scanFn: func(dest ...any) error {
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*string) = "user"
		*dest[2].(*string) = "42"
		*dest[3].(*string) = "enc:a@example.com"
		*dest[4].(*bool) = true
		*dest[5].(**time.Time) = &now
		*dest[6].(*string) = ""
		*dest[8].(*time.Time) = now
		*dest[9].(*time.Time) = now
		return nil
	}}}}
	s, ctx := newTestStore(r)

	e, err := s.GetEmail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)
	assert.Equal(t, testOwner, e.Owner)
	assert.Equal(t, "a@example.com", e.Address)
	assert.True(t, e.IsDefault)
	assert.True(t, e.Verified())
}

func TestStore_GetNotFound(t *testing.T) {
	t.Parallel()

	r := &runnerStub{rows: []pgx.Row{
		rowStub{err: pgx.ErrNoRows},
		rowStub{err: sql.ErrNoRows},
		rowStub{err: errors.New("conn reset")},
	}}
	s, ctx := newTestStore(r)

	_, err := s.GetPhone(ctx, uuid.New())
	assert.ErrorIs(t, err, contact.ErrNotFound)

	_, err = s.GetAddress(ctx, uuid.New())
	assert.ErrorIs(t, err, contact.ErrNotFound)

	_, err = s.GetEmail(ctx, uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, contact.ErrNotFound)
}

func TestStore_UpdateAndDeleteMapMissingRows(t *testing.T) {
	t.Parallel()

	r := &runnerStub{execResults: []execResult{
		{tag: pgconn.NewCommandTag("UPDATE 0")},
		{tag: pgconn.NewCommandTag("UPDATE 1")},
		{tag: pgconn.NewCommandTag("DELETE 0")},
		{err: errors.New("boom")},
	}}
	s, ctx := newTestStore(r)

	assert.ErrorIs(t, s.UpdatePhone(ctx, contact.Phone{ID: uuid.New(), Number: "+60123456789"}), contact.ErrNotFound)
	assert.NoError(t, s.UpdateAddress(ctx, contact.Address{ID: uuid.New(), Primary: "1 Main St"}))
	assert.ErrorIs(t, s.DeleteEmail(ctx, uuid.New()), contact.ErrNotFound)

	err := s.DeleteAddress(ctx, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete address")

	assert.Equal(t, "enc:+60123456789", r.execArgs[0][1])
	assert.Equal(t, "enc:1 Main St", r.execArgs[1][3])
}

func TestStore_ListAddressesExceptFiltersCountry(t *testing.T) {
	t.Parallel()

	r := &runnerStub{}
	s, ctx := newTestStore(r)

	_, err := s.ListAddressesExcept(ctx, uuid.New(), 0)
	require.NoError(t, err)
	_, err = s.ListAddressesExcept(ctx, uuid.New(), 7)
	require.NoError(t, err)

	require.Len(t, r.querySQL, 2)
	assert.NotContains(t, r.querySQL[0], "country_id =")
	assert.Contains(t, r.querySQL[1], "country_id = $2")
	assert.Equal(t, int64(7), r.queryArgs[1][1])
}

func TestStore_ListEmailsByOwner(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	r := &runnerStub{queryRows: &rowsStub{scans: []func(dest ...any) error{
		func(dest ...any) error {
			*dest[0].(*uuid.UUID) = ids[0]
			*dest[3].(*string) = "enc:first@example.com"
			return nil
		},
		func(dest ...any) error {
			*dest[0].(*uuid.UUID) = ids[1]
			*dest[3].(*string) = "second@example.com"
			return nil
		},
	}}}
	s, ctx := newTestStore(r)

	got, err := s.ListEmailsByOwner(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first@example.com", got[0].Address)
	assert.Equal(t, "second@example.com", got[1].Address)
	assert.Equal(t, []any{"user", "42"}, r.queryArgs[0])
	assert.True(t, r.queryRows.closed)
}

func TestStore_ListPropagatesRowsErr(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := &runnerStub{queryRows: &rowsStub{err: boom}}
	s, ctx := newTestStore(r)

	_, err := s.ListPhonesByOwner(ctx, testOwner)
	assert.ErrorIs(t, err, boom)
}

func TestStore_NoRunner(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	_, err := s.ListOwners(context.Background())
	assert.ErrorIs(t, err, ErrNoRunner)
}

type execResult struct {
	tag pgconn.CommandTag
	err error
}

type runnerStub struct {
	rows      []pgx.Row
	queryRows *rowsStub

	execResults []execResult
	execCalls   int
	execSQL     []string
	execArgs    [][]any

	querySQL  []string
	queryArgs [][]any
}

func (r *runnerStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.execSQL = append(r.execSQL, sql)
	r.execArgs = append(r.execArgs, args)
	if r.execCalls >= len(r.execResults) {
		r.execCalls++
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	res := r.execResults[r.execCalls]
	r.execCalls++
	return res.tag, res.err
}

func (r *runnerStub) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	r.querySQL = append(r.querySQL, sql)
	r.queryArgs = append(r.queryArgs, args)
	if r.queryRows == nil {
		return &rowsStub{}, nil
	}
	return r.queryRows, nil
}

func (r *runnerStub) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if len(r.rows) == 0 {
		return rowStub{err: pgx.ErrNoRows}
	}
	row := r.rows[0]
	r.rows = r.rows[1:]
	return row
}

type rowStub struct {
	scanFn func(dest ...any) error
	err    error
}

func (r rowStub) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.scanFn == nil {
		return nil
	}
	return r.scanFn(dest...)
}

type rowsStub struct {
	scans  []func(dest ...any) error
	pos    int
	err    error
	closed bool
}

func (r *rowsStub) Close()                                       { r.closed = true }
func (r *rowsStub) Err() error                                   { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rowsStub) Values() ([]any, error)                       { return nil, nil }
func (r *rowsStub) RawValues() [][]byte                          { return nil }
func (r *rowsStub) Conn() *pgx.Conn                              { return nil }

func (r *rowsStub) Next() bool {
	if r.err != nil || r.pos >= len(r.scans) {
		return false
	}
	r.pos++
	return true
}

func (r *rowsStub) Scan(dest ...any) error {
	return r.scans[r.pos-1](dest...)
}
