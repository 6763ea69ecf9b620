package dedupe

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrLocked is returned by Acquire when the key is already held.
	ErrLocked = errors.New("dedupe: owner is locked")
	// ErrLeaseLost is returned by Extend and Release once the lease expired
	// and the key is gone or held by someone else.
	ErrLeaseLost = errors.New("dedupe: owner lease lost")
)

// Locker hands out exclusive leases on a key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

type Lease interface {
	// Extend pushes the expiry to ttl from now.
	Extend(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}

// LocalLocker is an in-process Locker. Leases expire after their ttl even if
// never released.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time), clock: time.Now}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, ErrLocked
	}
	until := now.Add(ttl)
	l.held[key] = until
	return &localLease{l: l, key: key, until: until}, nil
}

type localLease struct {
	l     *LocalLocker
	key   string
	until time.Time
	once  sync.Once
}

func (ll *localLease) Extend(_ context.Context, ttl time.Duration) error {
	ll.l.mu.Lock()
	defer ll.l.mu.Unlock()

	now := ll.l.clock()
	if !ll.l.held[ll.key].Equal(ll.until) || !now.Before(ll.until) {
		return ErrLeaseLost
	}
	ll.until = now.Add(ttl)
	ll.l.held[ll.key] = ll.until
	return nil
}

func (ll *localLease) Release(context.Context) error {
	ll.once.Do(func() {
		ll.l.mu.Lock()
		defer ll.l.mu.Unlock()
		// a later lease on the same key has its own deadline
		if ll.l.held[ll.key].Equal(ll.until) {
			delete(ll.l.held, ll.key)
		}
	})
	return nil
}
