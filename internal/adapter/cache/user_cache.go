package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "users-api/internal/domain/user"
	"users-api/pkg/metrics"
)

// UserCache defines the interface for user caching operations.
type UserCache interface {
	// Get retrieves a user from cache by ID.
	// Returns nil if user is not found in cache.
	Get(ctx context.Context, id string) (*domain.User, error)

	// Set stores a user in cache with the configured TTL. It reports false
	// when the key is already held, by an entry or by a tombstone.
	Set(ctx context.Context, user *domain.User) (bool, error)

	// Invalidate replaces any entry for id with a short-lived tombstone so
	// that a read which started before the write cannot refill it.
	Invalidate(ctx context.Context, id string) error
}

// TombstoneTTL bounds how long a fill is refused after an invalidation.
const TombstoneTTL = 10 * time.Second

// tombstone is stored in place of an invalidated entry. It is never valid JSON.
const tombstone = "-"

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cachedUser is the JSON shape stored in Redis.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the Redis key for a user ID.
func Key(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.UserCacheRequests.WithLabelValues("miss").Inc()
		c.log.Debug("cache miss", zap.String("user_id", id))
		return nil, nil
	}
	if err != nil {
		metrics.UserCacheRequests.WithLabelValues("error").Inc()
		c.log.Error("failed to get from cache", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	if string(data) == tombstone {
		metrics.UserCacheRequests.WithLabelValues("miss").Inc()
		c.log.Debug("cache miss, invalidated", zap.String("user_id", id))
		return nil, nil
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		metrics.UserCacheRequests.WithLabelValues("error").Inc()
		c.log.Error("failed to unmarshal cached user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	metrics.UserCacheRequests.WithLabelValues("hit").Inc()
	c.log.Debug("cache hit", zap.String("user_id", id))
	return &domain.User{
		ID:        cu.ID,
		Name:      cu.Name,
		Email:     cu.Email,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, nil
}

// Set stores a user in Redis cache with TTL unless the key is held.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) (bool, error) {
	if user == nil {
		return false, errors.New("cannot cache nil user")
	}

	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.String("user_id", user.ID), zap.Error(err))
		return false, err
	}

	stored, err := c.client.SetNX(ctx, Key(user.ID), data, c.ttl).Result()
	if err != nil {
		c.log.Error("failed to set cache", zap.String("user_id", user.ID), zap.Error(err))
		return false, err
	}
	if !stored {
		c.log.Debug("cache fill skipped, key held", zap.String("user_id", user.ID))
		return false, nil
	}

	c.log.Debug("cached user", zap.String("user_id", user.ID), zap.Duration("ttl", c.ttl))
	return true, nil
}

// Invalidate overwrites the user's entry with a tombstone.
func (c *RedisUserCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Set(ctx, Key(id), tombstone, TombstoneTTL).Err(); err != nil {
		c.log.Error("failed to invalidate cache", zap.String("user_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("invalidated cache", zap.String("user_id", id))
	return nil
}
