package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"home-services-backend/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const categoryCacheKey = "categories:active"

// CategoryCache implements ports.CategoryCache using Redis. Lookups that miss
// or fail fall through to PostgreSQL, so staleness only costs a query.
type CategoryCache struct {
	client *goredis.Client
}

// NewCategoryCache creates a new Redis-backed category cache.
func NewCategoryCache(client *goredis.Client) *CategoryCache {
	return &CategoryCache{client: client}
}

// Get retrieves the cached active category list.
// Returns nil, nil on cache miss.
func (c *CategoryCache) Get(ctx context.Context) ([]domain.ServiceCategory, error) {
	val, err := c.client.Get(ctx, categoryCacheKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis category get: %w", err)
	}

	var categories []domain.ServiceCategory
	if err := json.Unmarshal(val, &categories); err != nil {
		return nil, fmt.Errorf("redis category decode: %w", err)
	}
	return categories, nil
}

// Set stores the active category list with TTL.
func (c *CategoryCache) Set(ctx context.Context, categories []domain.ServiceCategory, ttl time.Duration) error {
	val, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("redis category encode: %w", err)
	}
	if err := c.client.Set(ctx, categoryCacheKey, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis category set: %w", err)
	}
	return nil
}

// Invalidate drops the cached list after a category mutation.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, categoryCacheKey).Err(); err != nil {
		return fmt.Errorf("redis category invalidate: %w", err)
	}
	return nil
}
