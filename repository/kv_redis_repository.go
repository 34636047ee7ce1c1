package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL matches the lifetime of the storefront's session cookie
const DefaultSessionTTL = 30 * 24 * time.Hour

// KVRedisRepository stores each scope as one Redis hash that expires with the session
type KVRedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKVRedisRepository creates a new KVRedisRepository
func NewKVRedisRepository(client *redis.Client, ttl time.Duration) *KVRedisRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &KVRedisRepository{client: client, ttl: ttl}
}

// Ensure KVRedisRepository implements KeyValueRepositoryInterface
var _ KeyValueRepositoryInterface = (*KVRedisRepository)(nil)

func scopeKey(scope string) string {
	return "storefront:session:" + scope
}

// Get returns the value stored under name, or ErrNotFound
func (r *KVRedisRepository) Get(ctx context.Context, scope, name string) (string, error) {
	value, err := r.client.HGet(ctx, scopeKey(scope), name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", name, err)
	}
	return value, nil
}

// Set stores value under name and refreshes the scope expiry
func (r *KVRedisRepository) Set(ctx context.Context, scope, name, value string) error {
	key := scopeKey(scope)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, name, value)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set %s: %w", name, err)
	}
	return nil
}

// Delete removes name
func (r *KVRedisRepository) Delete(ctx context.Context, scope, name string) error {
	if err := r.client.HDel(ctx, scopeKey(scope), name).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
