package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/danidan902/tullu-dimtu-school-backend/pkg/errors"
)

// CacheRepository is a thin JSON cache over Redis.
type CacheRepository struct {
	client *redis.Client
	prefix string
}

// NewCacheRepository constructs a CacheRepository with a key prefix.
func NewCacheRepository(client *redis.Client, prefix string) *CacheRepository {
	return &CacheRepository{client: client, prefix: prefix}
}

func (r *CacheRepository) key(k string) string {
	return r.prefix + ":" + k
}

// Get unmarshals the cached value for key into dest. Returns ErrCacheMiss
// when the key is absent.
func (r *CacheRepository) Get(ctx context.Context, k string, dest interface{}) error {
	raw, err := r.client.Get(ctx, r.key(k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrCacheMiss
		}
		return fmt.Errorf("cache get %q: %w", k, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("cache decode %q: %w", k, err)
	}
	return nil
}

// Set marshals value as JSON and stores it with the given TTL.
func (r *CacheRepository) Set(ctx context.Context, k string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", k, err)
	}
	if err := r.client.Set(ctx, r.key(k), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", k, err)
	}
	return nil
}

// Delete drops one or more keys.
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// InvalidatePrefix removes every key under the repository prefix matching
// the pattern. Uses SCAN so it is safe on a live instance.
func (r *CacheRepository) InvalidatePrefix(ctx context.Context, pattern string) error {
	match := r.key(pattern)
	iter := r.client.Scan(ctx, 0, match, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %q: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate %q: %w", pattern, err)
	}
	return nil
}
