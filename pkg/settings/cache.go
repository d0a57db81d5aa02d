// Package settings keeps process-wide operator settings behind an explicit
// get/set/invalidate cache instead of relying on implicit framework caching.
package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key has no value in either cache tier.
var ErrNotFound = errors.New("setting not found")

const keyPrefix = "settings:"

// Cache is a write-through settings cache: Set updates Redis and the local
// map in one step, so reads never serve a value older than the last write
// from this process. Without a Redis client it degrades to local-only.
type Cache struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.RWMutex
	local map[string]string
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		local:  make(map[string]string),
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	value, ok := c.local[key]
	c.mu.RUnlock()
	if ok {
		return value, nil
	}
	if c.client == nil {
		return "", ErrNotFound
	}
	value, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.local[key] = value
	c.mu.Unlock()
	return value, nil
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	if c.client != nil {
		if err := c.client.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.local[key] = value
	c.mu.Unlock()
	return nil
}

// Invalidate drops every cached setting from both tiers.
func (c *Cache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.local = make(map[string]string)
	c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
