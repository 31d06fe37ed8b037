package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService is a JSON cache-aside helper with a default TTL.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// SetWithTTL stores value as JSON. A zero ttl uses the service default.
func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if ttl == 0 {
		ttl = s.ttl
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the cached value into dest. found is false on a cache miss.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// DeleteMany removes every key matching pattern.
func (s *CacheService) DeleteMany(ctx context.Context, pattern string) error {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return s.client.Del(ctx, keys...).Err()
	}
	return nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}

// GetStats reports the connection pool counters of the shared client.
func (s *CacheService) GetStats() *redis.PoolStats {
	return s.client.PoolStats()
}
