// Package memstore is an in-memory contact.Store for tests, dry runs and
// the command line tool.
package memstore

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-profile/foundation/contact"
	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

var (
	_ contact.Store       = (*Store)(nil)
	_ contact.TxManager   = (*Store)(nil)
	_ contact.OwnerLister = (*Store)(nil)
)

// Store keeps records in maps guarded by a mutex. WithinTx serializes
// transactions and restores a snapshot when fn fails; writes made outside a
// transaction while one is running are lost on rollback.
type Store struct {
	mu        sync.Mutex
	emails    map[uuid.UUID]contact.Email
	phones    map[uuid.UUID]contact.Phone
	addresses map[uuid.UUID]contact.Address

	txMu  sync.Mutex
	clock timeutil.Clock
	fail  map[string]error
}

func New(c timeutil.Clock) *Store {
	return &Store{
		emails:    make(map[uuid.UUID]contact.Email),
		phones:    make(map[uuid.UUID]contact.Phone),
		addresses: make(map[uuid.UUID]contact.Address),
		clock:     timeutil.Or(c),
		fail:      make(map[string]error),
	}
}

// FailOn makes the next call to op (a method name such as "DeleteEmail")
// return err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *Store) injected(op string) error {
	if err, ok := s.fail[op]; ok {
		delete(s.fail, op)
		return err
	}
	return nil
}

type snapshot struct {
	emails    map[uuid.UUID]contact.Email
	phones    map[uuid.UUID]contact.Phone
	addresses map[uuid.UUID]contact.Address
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		emails:    maps.Clone(s.emails),
		phones:    maps.Clone(s.phones),
		addresses: maps.Clone(s.addresses),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = snap.emails
	s.phones = snap.phones
	s.addresses = snap.addresses
}

// WithinTx runs fn and rolls every change back if it returns an error or
// panics. The panic is re-raised after the rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(ctx)
}

// ListOwners returns every owner with at least one record, sorted.
func (s *Store) ListOwners(ctx context.Context) ([]contact.Owner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListOwners"); err != nil {
		return nil, err
	}

	set := make(map[contact.Owner]struct{})
	for _, e := range s.emails {
		set[e.Owner] = struct{}{}
	}
	for _, p := range s.phones {
		set[p.Owner] = struct{}{}
	}
	for _, a := range s.addresses {
		set[a.Owner] = struct{}{}
	}

	out := slices.Collect(maps.Keys(set))
	slices.SortFunc(out, func(a, b contact.Owner) int {
		if c := cmp.Compare(a.Type, b.Type); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// assign fills in a new record's id and timestamps.
func (s *Store) assign(id *uuid.UUID, created, updated *time.Time) error {
	if *id == uuid.Nil {
		v, err := contact.NewID()
		if err != nil {
			return fmt.Errorf("memstore: new id: %w", err)
		}
		*id = v
	}
	now := s.clock.Now()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
	return nil
}

// sorted orders records by creation time, then id.
func sorted[T any](items []T, id func(T) uuid.UUID, created func(T) time.Time) []T {
	slices.SortFunc(items, func(a, b T) int {
		if c := created(a).Compare(created(b)); c != 0 {
			return c
		}
		ia, ib := id(a), id(b)
		return bytes.Compare(ia[:], ib[:])
	})
	return items
}
