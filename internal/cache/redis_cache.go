package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisNameCache caches resolved names in Redis.
type RedisNameCache struct {
	client *redis.Client
}

// NewRedisNameCache connects a name cache to Redis.
func NewRedisNameCache(addr, password string, db int) *RedisNameCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisNameCache{client: client}
}

// Ping checks connectivity.
func (c *RedisNameCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisNameCache) Close() error {
	return c.client.Close()
}

// Get returns the cached name map for key, if present.
func (c *RedisNameCache) Get(ctx context.Context, key string) (map[string]string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var names map[string]string
	if err := json.Unmarshal([]byte(val), &names); err != nil {
		return nil, false, err
	}
	return names, true, nil
}

// Set stores the name map under key with a TTL.
func (c *RedisNameCache) Set(ctx context.Context, key string, names map[string]string, ttl time.Duration) error {
	if len(names) == 0 {
		return nil
	}
	payload, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
