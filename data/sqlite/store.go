package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/errx"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

var (
	_ contact.Store       = (*Store)(nil)
	_ contact.OwnerLister = (*Store)(nil)
)

// Store reads and writes contact records through the transaction in ctx,
// or the pool outside one. Sensitive fields pass through the FieldCodec.
type Store struct {
	db    *DB
	codec contact.FieldCodec
	clock timeutil.Clock
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

func NewStore(d *DB, opts ...StoreOption) *Store {
	s := &Store{db: d, codec: contact.PlainCodec{}, clock: timeutil.UTCClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) exec(ctx context.Context) Executor { return UseExecutor(ctx, s.db.db) }

type scanner interface {
	Scan(dest ...any) error
}

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

func nanos(t time.Time) int64 { return t.UTC().UnixNano() }

func nullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: nanos(*t), Valid: true}
}

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func fromNull(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

// one maps a missing row to contact.ErrNotFound.
func one(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return contact.ErrNotFound
	}
	return errx.Store(err, msg)
}

// affected maps an update or delete that touched no row to
// contact.ErrNotFound.
func affected(res sql.Result, err error, msg string) error {
	if err != nil {
		return errx.Store(err, msg)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errx.Store(err, msg)
	}
	if n == 0 {
		return contact.ErrNotFound
	}
	return nil
}

// ListOwners returns every owner with at least one record, sorted.
func (s *Store) ListOwners(ctx context.Context) ([]contact.Owner, error) {
	rows, err := s.exec(ctx).QueryContext(ctx, `
		SELECT owner_type, owner_id FROM contact_emails
		UNION
		SELECT owner_type, owner_id FROM contact_phones
		UNION
		SELECT owner_type, owner_id FROM contact_addresses
		ORDER BY 1, 2
	`)
	if err != nil {
		return nil, errx.Store(err, "sqlite: list owners")
	}
	defer rows.Close()

	var out []contact.Owner
	for rows.Next() {
		var o contact.Owner
		if err := rows.Scan(&o.Type, &o.ID); err != nil {
			return nil, errx.Store(err, "sqlite: scan owner")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Store(err, "sqlite: list owners")
	}
	return out, nil
}

// list runs q and decodes each row with scan.
func list[T any](ctx context.Context, s *Store, what string, scan func(scanner) (T, error), q string, args ...any) ([]T, error) {
	rows, err := s.exec(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errx.Store(err, "sqlite: list "+what)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, errx.Store(err, "sqlite: scan "+what)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.Store(err, "sqlite: list "+what)
	}
	return out, nil
}
