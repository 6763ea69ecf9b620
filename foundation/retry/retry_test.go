package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"

	"github.com/vortex-fintech/go-profile/foundation/retry"
)

func fastPolicy(tries uint) retry.Policy {
	return retry.Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.5,
		MaxElapsed:      time.Second,
		MaxTries:        tries,
	}
}

func TestPermanentNilReturnsNil(t *testing.T) {
	assert.NoError(t, retry.Permanent(nil))
}

func TestPermanentIdempotent(t *testing.T) {
	base := errors.New("invalid")
	first := retry.Permanent(base)
	second := retry.Permanent(first)

	assert.Equal(t, first, second)
	assert.True(t, retry.IsPermanent(second))
	assert.ErrorIs(t, second, base)
}

func TestIsPermanent_Wrapped(t *testing.T) {
	base := errors.New("bad input")
	assert.True(t, retry.IsPermanent(fmt.Errorf("ctx: %w", retry.Permanent(base))))
	assert.True(t, retry.IsPermanent(backoff.Permanent(base)))
	assert.False(t, retry.IsPermanent(base))
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(5), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("busy")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsAtMaxTries(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return errors.New("busy")
	})
	assert.EqualError(t, err, "busy")
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	base := errors.New("constraint")
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(5), func(context.Context) error {
		calls++
		return retry.Permanent(base)
	})
	assert.ErrorIs(t, err, base)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextAlreadyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry.Do(ctx, fastPolicy(5), func(context.Context) error {
		calls++
		return nil
	})
	assert.Error(t, err)
	assert.Zero(t, calls)
}

func TestPolicies(t *testing.T) {
	assert.Equal(t, uint(5), retry.Short().MaxTries)
	assert.Equal(t, 20*time.Second, retry.Startup().MaxElapsed)
}
