package timeutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vortex-fintech/go-profile/foundation/timeutil"
)

func TestUTCClock_NowIsUTC(t *testing.T) {
	var c timeutil.UTCClock
	assert.Equal(t, time.UTC, c.Now().Location())
}

func TestOr(t *testing.T) {
	assert.IsType(t, timeutil.UTCClock{}, timeutil.Or(nil))

	frozen := timeutil.NewFrozenClock(time.Unix(0, 0))
	assert.Same(t, frozen, timeutil.Or(frozen))
}

func TestFrozenClock_SetAndAdvance(t *testing.T) {
	start := time.Date(2025, 12, 13, 10, 0, 0, 0, time.FixedZone("MYT", 8*3600))
	c := timeutil.NewFrozenClock(start)
	assert.Equal(t, start.UTC(), c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, start.UTC().Add(90*time.Second), c.Now())

	next := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Set(next)
	assert.Equal(t, next, c.Now())
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := timeutil.NewFrozenClock(now)

	before := now.Add(-time.Second)
	after := now.Add(time.Second)

	assert.True(t, timeutil.Expired(c, nil))
	assert.True(t, timeutil.Expired(c, &before))
	assert.True(t, timeutil.Expired(c, &now))
	assert.False(t, timeutil.Expired(c, &after))
}

func TestDeadline(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := timeutil.NewFrozenClock(now)

	assert.Equal(t, now.Add(time.Minute), *timeutil.Deadline(c, time.Minute, time.Hour))
	assert.Equal(t, now.Add(time.Hour), *timeutil.Deadline(c, 0, time.Hour))
	assert.Equal(t, now, *timeutil.Stamp(c))
}
