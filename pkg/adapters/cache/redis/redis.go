package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aescanero/gistproxy/pkg/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "gistproxy:cache:"

// Cache implements ports.Cache using Redis with JSON serialization.
// Expiry is delegated to Redis via key TTLs, so Stats never observes
// expired entries.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewCache creates a new Redis cache
func NewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Get returns the cached page for key if present
func (c *Cache) Get(ctx context.Context, key string) (*domain.GistsPage, bool, error) {
	data, err := c.client.Get(ctx, getCacheKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var page domain.GistsPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	return &page, true, nil
}

// Set stores a page under key with the configured TTL
func (c *Cache) Set(ctx context.Context, key string, page *domain.GistsPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, getCacheKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	c.logger.Debug("cache entry stored",
		zap.String("key", key),
		zap.Duration("ttl", c.ttl))

	return nil
}

// Remove drops a single key
func (c *Cache) Remove(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, getCacheKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// Clear drops all entries under the cache prefix and reports how many
// were removed
func (c *Cache) Clear(ctx context.Context) (int, error) {
	keys, err := c.scanKeys(ctx)
	if err != nil {
		return 0, err
	}

	if len(keys) == 0 {
		return 0, nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	c.logger.Debug("cache cleared", zap.Int("entries", len(keys)))

	return len(keys), nil
}

// Stats reports entry counts and the configured TTL
func (c *Cache) Stats(ctx context.Context) (*domain.CacheStats, error) {
	keys, err := c.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	// Redis drops expired keys itself, every surviving key is valid
	return &domain.CacheStats{
		TotalEntries:   len(keys),
		ValidEntries:   len(keys),
		ExpiredEntries: 0,
		TTLSeconds:     int(c.ttl.Seconds()),
	}, nil
}

// scanKeys returns all keys under the cache prefix
func (c *Cache) scanKeys(ctx context.Context) ([]string, error) {
	pattern := keyPrefix + "*"

	var cursor uint64
	var keys []string

	for {
		var batch []string
		var err error

		batch, cursor, err = c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// getCacheKey returns the Redis key for a cache entry
func getCacheKey(key string) string {
	return keyPrefix + key
}
