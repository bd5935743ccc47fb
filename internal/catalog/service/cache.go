package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"quote_portal_backend/internal/catalog/repository"
	"quote_portal_backend/platform/cache"

	"github.com/redis/go-redis/v9"
)

// activeKey is versioned so a payload shape change never reads stale entries.
var activeKey = cache.Key("catalog", "active", "v1")

// Cache stores the active offering list.
type Cache interface {
	Get(ctx context.Context) ([]repository.Offering, bool, error)
	Set(ctx context.Context, offerings []repository.Offering) error
	Invalidate(ctx context.Context) error
}

// RedisCache keeps the active list in Redis so every API instance shares it.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed catalog cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) ([]repository.Offering, bool, error) {
	raw, err := c.client.Get(ctx, activeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read catalog cache: %w", err)
	}

	var offerings []repository.Offering
	if err := json.Unmarshal(raw, &offerings); err != nil {
		return nil, false, fmt.Errorf("decode catalog cache: %w", err)
	}
	return offerings, true, nil
}

func (c *RedisCache) Set(ctx context.Context, offerings []repository.Offering) error {
	raw, err := json.Marshal(offerings)
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	if err := c.client.Set(ctx, activeKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, activeKey).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

// MemoryCache keeps the active list in process memory. Used when Redis is not configured.
type MemoryCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	offerings []repository.Offering
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryCache creates an in-process catalog cache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(context.Context) ([]repository.Offering, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.offerings == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return slices.Clone(c.offerings), true, nil
}

func (c *MemoryCache) Set(_ context.Context, offerings []repository.Offering) error {
	if offerings == nil {
		offerings = []repository.Offering{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offerings = offerings
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offerings = nil
	return nil
}

// NoopCache always misses.
type NoopCache struct{}

func (NoopCache) Get(context.Context) ([]repository.Offering, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, []repository.Offering) error         { return nil }
func (NoopCache) Invalidate(context.Context) error                         { return nil }
