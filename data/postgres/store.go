package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/errx"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

// ErrNoRunner is returned when the store has no client and ctx carries no
// transaction.
var ErrNoRunner = errors.New("postgres: no runner in context and no client")

var (
	_ contact.Store       = (*Store)(nil)
	_ contact.OwnerLister = (*Store)(nil)
)

// Store reads and writes contact records through the Runner in ctx, or the
// client's pool outside a transaction. E-mail addresses, phone numbers,
// verification secrets and free-text address fields pass through the
// FieldCodec.
type Store struct {
	client *Client
	codec  contact.FieldCodec
	clock  timeutil.Clock
}

type StoreOption func(*Store)

func WithFieldCodec(c contact.FieldCodec) StoreOption {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

func WithClock(c timeutil.Clock) StoreOption {
	return func(s *Store) { s.clock = timeutil.Or(c) }
}

func NewStore(c *Client, opts ...StoreOption) *Store {
	s := &Store{client: c, codec: contact.PlainCodec{}, clock: timeutil.UTCClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) run(ctx context.Context) (Runner, error) {
	if r := RunnerFromContext(ctx, s.client); r != nil {
		return r, nil
	}
	return nil, ErrNoRunner
}

type scanner interface {
	Scan(dest ...any) error
}

// stamp fills in a new record's id and timestamps.
func (s *Store) stamp(id *uuid.UUID, created, updated *time.Time) error {
	if *id == uuid.Nil {
		v, err := contact.NewID()
		if err != nil {
			return err
		}
		*id = v
	}
	if created.IsZero() {
		*created = s.clock.Now()
	}
	if updated.IsZero() {
		*updated = *created
	}
	return nil
}

func (s *Store) seal(vals ...*string) error {
	for _, v := range vals {
		if *v == "" {
			continue
		}
		enc, err := s.codec.Encrypt(*v)
		if err != nil {
			return err
		}
		*v = enc
	}
	return nil
}

func (s *Store) open(vals ...*string) {
	for _, v := range vals {
		*v = s.codec.Decrypt(*v)
	}
}

// one maps a missing row to contact.ErrNotFound.
func one(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return contact.ErrNotFound
	}
	return errx.Store(err, msg)
}

// affected maps an update or delete that touched no row to
// contact.ErrNotFound.
func affected(tag pgconn.CommandTag, err error, msg string) error {
	if err != nil {
		return errx.Store(err, msg)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

// ListOwners returns every owner with at least one record, sorted.
func (s *Store) ListOwners(ctx context.Context) ([]contact.Owner, error) {
	run, err := s.run(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := run.Query(ctx, `
		SELECT owner_type, owner_id FROM contact_emails
		UNION
		SELECT owner_type, owner_id FROM contact_phones
		UNION
		SELECT owner_type, owner_id FROM contact_addresses
		ORDER BY 1, 2
	`)
	if err != nil {
		return nil, errx.Store(err, "postgres: list owners")
	}
	defer rows.Close()

	var out []contact.Owner
	for rows.Next() {
		var o contact.Owner
		if err := rows.Scan(&o.Type, &o.ID); err != nil {
			return nil, errx.Store(err, "postgres: scan owner")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Store(err, "postgres: list owners")
	}
	return out, nil
}
