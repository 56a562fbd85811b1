package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	backendRedis           = "redis"
	redisConnectionTimeout = 5 * time.Second
)

// RedisStore keeps records as fields of a single Redis hash.
type RedisStore struct {
	client *redis.Client
	hash   string
}

// NewRedisStore connects to the redis:// URL and stores records in hash.
func NewRedisStore(ctx context.Context, url, hash string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, storeError(backendRedis, "open", fmt.Errorf("invalid redis url: %w", err))
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisConnectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, unavailableError(backendRedis, "open", fmt.Errorf("redis ping failed: %w", err))
	}
	return &RedisStore{client: client, hash: hash}, nil
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.HGet(ctx, s.hash, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeError(backendRedis, "get", err)
	}
	return value, true, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return storeError(backendRedis, "put", err)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.hash, key).Err(); err != nil {
		return storeError(backendRedis, "delete", err)
	}
	return nil
}

// Keys implements Store.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.HKeys(ctx, s.hash).Result()
	if err != nil {
		return nil, storeError(backendRedis, "keys", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Backend implements Store.
func (s *RedisStore) Backend() string { return backendRedis }

// Close implements Store.
func (s *RedisStore) Close() error { return s.client.Close() }
