package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "brlb:session-teams:"
	defaultTTL = 7 * 24 * time.Hour
)

// RedisCache shares session team counts between runs and processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache builds a Redis-backed cache. A zero ttl uses one week.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisCacheFromURL parses a redis:// URL and connects lazily.
func NewRedisCacheFromURL(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisCache(redis.NewClient(opts), ttl), nil
}

func (c *RedisCache) Get(ctx context.Context, sessionID string) (int, bool, error) {
	n, err := c.client.Get(ctx, cacheKey(sessionID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get %s: %w", sessionID, err)
	}
	return n, true, nil
}

func (c *RedisCache) Set(ctx context.Context, sessionID string, n int) error {
	if err := c.client.Set(ctx, cacheKey(sessionID), n, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", sessionID, err)
	}
	return nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func cacheKey(sessionID string) string {
	return keyPrefix + sessionID
}
