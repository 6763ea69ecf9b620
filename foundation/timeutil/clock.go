package timeutil

import (
	"sync"
	"time"
)

// Clock abstracts the time source used for verification expiry and
// validation timestamps.
type Clock interface {
	Now() time.Time
}

// UTCClock uses system time in UTC.
type UTCClock struct{}

func (UTCClock) Now() time.Time { return time.Now().UTC() }

// Or returns c, or UTCClock when c is nil.
func Or(c Clock) Clock {
	if c == nil {
		return UTCClock{}
	}
	return c
}

// Expired reports whether deadline is set and not after now.
func Expired(c Clock, deadline *time.Time) bool {
	if deadline == nil {
		return true
	}
	return !Or(c).Now().Before(*deadline)
}

// Stamp returns the current time of c as a pointer, for optional
// timestamp fields.
func Stamp(c Clock) *time.Time {
	t := Or(c).Now()
	return &t
}

// Deadline returns now plus ttl, using fallback when ttl is not positive.
func Deadline(c Clock, ttl, fallback time.Duration) *time.Time {
	if ttl <= 0 {
		ttl = fallback
	}
	t := Or(c).Now().Add(ttl)
	return &t
}

// FrozenClock keeps fixed time with manual advancement.
type FrozenClock struct {
	mu sync.RWMutex
	t  time.Time
}

func NewFrozenClock(t time.Time) *FrozenClock { return &FrozenClock{t: t.UTC()} }

func (c *FrozenClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

func (c *FrozenClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t.UTC()
	c.mu.Unlock()
}

func (c *FrozenClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
