package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/go-profile/dedupe"
	"github.com/vortex-fintech/go-profile/foundation/retry"
)

var _ dedupe.Locker = (*Locker)(nil)

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// extendScript resets the expiry only while the key still holds our token.
const extendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

// ErrLeaseLost is returned by Extend and Release when the lease expired and
// the key was taken by someone else or vanished.
var ErrLeaseLost = dedupe.ErrLeaseLost

type lockClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// Locker is a dedupe.Locker on SET NX PX with token checked release.
type Locker struct {
	rdb    lockClient
	prefix string
	wait   *retry.Policy
}

type LockerOption func(*Locker)

// WithWait keeps trying a held key under p instead of failing at once.
func WithWait(p retry.Policy) LockerOption {
	return func(l *Locker) { l.wait = &p }
}

// WithKeyPrefix namespaces keys, e.g. per environment.
func WithKeyPrefix(prefix string) LockerOption {
	return func(l *Locker) { l.prefix = prefix }
}

func NewLocker(rdb lockClient, opts ...LockerOption) *Locker {
	l := &Locker{rdb: rdb}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire returns dedupe.ErrLocked when the key is held elsewhere.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (dedupe.Lease, error) {
	if ttl <= 0 {
		ttl = dedupe.DefaultLockTTL
	}
	key = l.prefix + key
	token := uuid.NewString()

	try := func(ctx context.Context) error {
		ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return retry.Permanent(fmt.Errorf("redis: acquire %s: %w", key, err))
		}
		if !ok {
			return dedupe.ErrLocked
		}
		return nil
	}

	var err error
	if l.wait == nil {
		err = try(ctx)
	} else {
		err = retry.Do(ctx, *l.wait, try)
	}
	if err != nil {
		return nil, err
	}
	return &lease{rdb: l.rdb, key: key, token: token}, nil
}

type lease struct {
	rdb   lockClient
	key   string
	token string
}

func (le *lease) Extend(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = dedupe.DefaultLockTTL
	}
	n, err := le.rdb.Eval(ctx, extendScript, []string{le.key}, le.token, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("redis: extend %s: %w", le.key, err)
	}
	if n == 0 {
		return ErrLeaseLost
	}
	return nil
}

func (le *lease) Release(ctx context.Context) error {
	n, err := le.rdb.Eval(ctx, releaseScript, []string{le.key}, le.token).Int64()
	if err != nil {
		return fmt.Errorf("redis: release %s: %w", le.key, err)
	}
	if n == 0 {
		return ErrLeaseLost
	}
	return nil
}
