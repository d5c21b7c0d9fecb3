// Package cache keeps public product lookups in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finprodb/shop-api/internal/domains/products/domain"
	"github.com/finprodb/shop-api/internal/domains/products/ports"
)

var _ ports.Cache = (*RedisCache)(nil)

// RedisCache stores products as JSON with a jittered TTL.
type RedisCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

func NewRedisCache(client redis.UniversalClient, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 10 * time.Minute
	}
	return &RedisCache{client: client, baseTTL: baseTTL}
}

func (r *RedisCache) Get(ctx context.Context, id int64) (*domain.Product, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &product, nil
}

func (r *RedisCache) Set(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return nil
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}
	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := r.client.Set(ctx, cacheKey(product.ID), payload, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, id int64) error {
	if err := r.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}
