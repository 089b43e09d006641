package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/veloworks/user-service/internal/observability"
)

type fakeCounterStore struct {
	counts  map[string]int64
	expires map[string]time.Duration
	down    bool
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{
		counts:  make(map[string]int64),
		expires: make(map[string]time.Duration),
	}
}

func (f *fakeCounterStore) Incr(ctx context.Context, key string) (int64, error) {
	if f.down {
		return 0, errors.New("store unreachable")
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounterStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if f.down {
		return errors.New("store unreachable")
	}
	f.expires[key] = ttl
	return nil
}

// Simulates TTL expiry: the key vanishes and a new window begins.
func (f *fakeCounterStore) expireNow(key string) {
	delete(f.counts, key)
	delete(f.expires, key)
}

func newThrottle(store CounterStore) *LoginThrottle {
	return NewLoginThrottle(store, observability.NewLogger(), 5, 60*time.Second)
}

func TestSixthAttemptRejected(t *testing.T) {
	store := newFakeCounterStore()
	throttle := newThrottle(store)

	for i := 0; i < 5; i++ {
		assert.True(t, throttle.Allow(context.Background(), "ada@example.com"), "attempt %d", i+1)
	}
	assert.False(t, throttle.Allow(context.Background(), "ada@example.com"))
	// The counter is not reset by a rejection.
	assert.False(t, throttle.Allow(context.Background(), "ada@example.com"))
}

func TestWindowStartsOnFirstIncrement(t *testing.T) {
	store := newFakeCounterStore()
	throttle := newThrottle(store)

	throttle.Allow(context.Background(), "ada@example.com")
	throttle.Allow(context.Background(), "ada@example.com")

	assert.Equal(t, 60*time.Second, store.expires["login_attempts:ada@example.com"])
}

func TestNewWindowAfterExpiry(t *testing.T) {
	store := newFakeCounterStore()
	throttle := newThrottle(store)

	for i := 0; i < 6; i++ {
		throttle.Allow(context.Background(), "ada@example.com")
	}

	store.expireNow("login_attempts:ada@example.com")

	assert.True(t, throttle.Allow(context.Background(), "ada@example.com"))
}

func TestEmailsAreThrottledIndependently(t *testing.T) {
	store := newFakeCounterStore()
	throttle := newThrottle(store)

	for i := 0; i < 6; i++ {
		throttle.Allow(context.Background(), "ada@example.com")
	}

	assert.True(t, throttle.Allow(context.Background(), "grace@example.com"))
}

func TestFailsOpenWhenStoreDown(t *testing.T) {
	store := newFakeCounterStore()
	store.down = true
	throttle := newThrottle(store)

	for i := 0; i < 10; i++ {
		assert.True(t, throttle.Allow(context.Background(), "ada@example.com"))
	}
}
