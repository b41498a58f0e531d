// Package cache provides a small JSON cache for report payloads backed by
// Redis. When no Redis address is configured the cache degrades to a no-op
// so offline deployments need no extra service.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent or caching is disabled.
var ErrMiss = errors.New("cache: miss")

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. An empty addr returns a disabled cache
// whose every Get misses and every Set is discarded.
func New(addr, password string, db int, ttl time.Duration) (*Cache, error) {
	if addr == "" {
		return &Cache{ttl: ttl}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Enabled() bool { return c != nil && c.client != nil }

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// Get unmarshals the cached JSON at key into dest. Transport errors are
// reported as misses so callers always fall back to the database.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if !c.Enabled() {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return ErrMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrMiss
	}
	return nil
}

// Set stores value as JSON under key with the configured TTL. Failures are
// swallowed: a report that cannot be cached is still a valid report.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

// Invalidate removes keys matching pattern, e.g. "report:*". Used after a
// new submission lands so stale statistics are not served.
func (c *Cache) Invalidate(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
