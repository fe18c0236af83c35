// Package cache provides a thin Redis layer for short-lived lookups: URL
// reachability verdicts and recently discovered postings. The cache is
// strictly optional; a nil *Cache disables it without changing behavior.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default TTLs. Reachability flips often enough that verdicts go stale fast;
// discovery payloads only need to survive a page refresh.
const (
	ReachabilityTTL = 6 * time.Hour
	DiscoveryTTL    = 15 * time.Minute
)

// Cache wraps a Redis client
type Cache struct {
	client *redis.Client
}

// Connect parses redisURL and verifies connectivity.
func Connect(ctx context.Context, redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the underlying client
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func reachabilityKey(url string) string {
	return "reach:" + url
}

// GetReachability returns a cached verdict for the URL. The second return
// value is false on cache miss (or when the cache is disabled).
func (c *Cache) GetReachability(ctx context.Context, url string) (bool, bool) {
	if c == nil || c.client == nil {
		return false, false
	}
	val, err := c.client.Get(ctx, reachabilityKey(url)).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

// SetReachability stores a verdict for the URL. Errors are swallowed; a cache
// write failure must never fail a discovery run.
func (c *Cache) SetReachability(ctx context.Context, url string, reachable bool) {
	if c == nil || c.client == nil {
		return
	}
	val := "0"
	if reachable {
		val = "1"
	}
	_ = c.client.Set(ctx, reachabilityKey(url), val, ReachabilityTTL).Err()
}

// GetJSON loads a cached JSON value into dest. Returns false on miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores a JSON-encoded value under key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, data, ttl).Err()
}
