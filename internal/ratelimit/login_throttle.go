package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/veloworks/user-service/internal/observability"
	"github.com/veloworks/user-service/internal/storage"
)

// CounterStore is the slice of the volatile store the throttle needs.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// LoginThrottle counts login attempts per email in a fixed window. The
// window starts at the first attempt: the key's TTL is set only when
// the post-increment value is 1, so expiry implicitly opens a new window.
type LoginThrottle struct {
	store  CounterStore
	logger *observability.Logger
	limit  int
	window time.Duration
}

func NewLoginThrottle(store CounterStore, logger *observability.Logger, limit int, window time.Duration) *LoginThrottle {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 60 * time.Second
	}
	return &LoginThrottle{store: store, logger: logger, limit: limit, window: window}
}

// Allow records one attempt for the email and reports whether it may
// proceed. When the store is unreachable the throttle fails open:
// login availability wins over throttling.
func (t *LoginThrottle) Allow(ctx context.Context, email string) bool {
	key := fmt.Sprintf("login_attempts:%s", email)

	count, err := t.store.Incr(ctx, key)
	if err != nil {
		t.logger.Warn("login_throttle_store_unavailable", map[string]any{
			"error": err.Error(),
		})
		return true
	}

	if count == 1 {
		if err := t.store.Expire(ctx, key, t.window); err != nil {
			t.logger.Warn("login_throttle_expire_failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	return count <= int64(t.limit)
}

var _ CounterStore = (*storage.RedisClient)(nil)
