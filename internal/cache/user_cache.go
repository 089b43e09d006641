package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/veloworks/user-service/internal/models"
	"github.com/veloworks/user-service/internal/storage"
)

// ErrMiss is returned when no usable entry exists, whether the key is
// absent, expired, unreadable, caching is disabled or the store is down.
// Callers fall through to the system of record in every one of those cases.
var ErrMiss = errors.New("cache miss")

// Store is the slice of the volatile store the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// UserCache holds non-authoritative user projections keyed by user id.
type UserCache struct {
	store   Store
	ttl     time.Duration
	enabled bool
}

func NewUserCache(store Store, ttl time.Duration, enabled bool) *UserCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &UserCache{store: store, ttl: ttl, enabled: enabled && store != nil}
}

func (c *UserCache) Get(ctx context.Context, userID string) (*models.Projection, error) {
	if !c.enabled {
		return nil, ErrMiss
	}

	raw, err := c.store.Get(ctx, userKey(userID))
	if err != nil {
		// Absent key and unreachable store look the same to callers.
		return nil, ErrMiss
	}

	var projection models.Projection
	if err := json.Unmarshal([]byte(raw), &projection); err != nil {
		return nil, ErrMiss
	}

	return &projection, nil
}

// Set writes a projection back with the configured TTL. Errors are
// returned for logging only; the read path never fails on them.
func (c *UserCache) Set(ctx context.Context, projection *models.Projection) error {
	if !c.enabled {
		return nil
	}

	raw, err := json.Marshal(projection)
	if err != nil {
		return err
	}

	return c.store.Set(ctx, userKey(projection.ID.String()), string(raw), c.ttl)
}

func userKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

var _ Store = (*storage.RedisClient)(nil)
