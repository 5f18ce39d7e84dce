package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streetbites/streetbites/internal/domain"
	apperrors "github.com/streetbites/streetbites/pkg/errors"
)

const keyPrefix = "recommend:"

// RecommendationCache implements repository.RecommendationCache using Redis.
type RecommendationCache struct {
	client *redis.Client
}

// NewRecommendationCache creates a new Redis-backed recommendation cache.
func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{client: client}
}

func cacheKey(userID, category string) string {
	return keyPrefix + userID + ":" + category
}

// Get retrieves cached recommendations for a user and category.
func (c *RecommendationCache) Get(ctx context.Context, userID, category string) ([]domain.Vendor, error) {
	data, err := c.client.Get(ctx, cacheKey(userID, category)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("recommendations", userID)
		}
		return nil, fmt.Errorf("redis get recommendations: %w", err)
	}

	var vendors []domain.Vendor
	if err := json.Unmarshal(data, &vendors); err != nil {
		return nil, fmt.Errorf("unmarshal recommendations: %w", err)
	}

	return vendors, nil
}

// Set stores recommendations with the given TTL.
func (c *RecommendationCache) Set(ctx context.Context, userID, category string, vendors []domain.Vendor, ttl time.Duration) error {
	data, err := json.Marshal(vendors)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(userID, category), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set recommendations: %w", err)
	}

	return nil
}

// Invalidate drops all cached recommendations for a user.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID string) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+userID+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan recommendations: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del recommendations: %w", err)
	}

	return nil
}
