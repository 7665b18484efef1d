package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// RedisCache keeps receipts as JSON under receipt:<id> for ttl
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (r RedisCache) Get(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	key := cacheKey(receiptID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var receipt domain.Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, fmt.Errorf("unmarshal receipt failed: %w", err)
	}

	return &receipt, nil
}

func (r RedisCache) Set(ctx context.Context, receipt *domain.Receipt) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal receipt failed: %w", err)
	}

	if err := r.client.Set(ctx, cacheKey(receipt.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, receiptID string) error {
	if err := r.client.Del(ctx, cacheKey(receiptID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func cacheKey(receiptID string) string {
	return fmt.Sprintf("receipt:%s", receiptID)
}
