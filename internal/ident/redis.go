package ident

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps the identifier table in a pair of Redis hashes per
// platform. HSETNX gives the atomic first-writer-wins claim; a lost claim
// surfaces as ErrConflict so the resolver redraws.
type RedisStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisStore connects to Redis using a URL (redis://...).
func NewRedisStore(url string, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("Redis connected")
	return &RedisStore{rdb: rdb, logger: logger}, nil
}

func sourceKey(platform string) string { return "crossgate:ids:" + platform + ":by_source" }
func numberKey(platform string) string { return "crossgate:ids:" + platform + ":by_number" }

func (s *RedisStore) BySource(ctx context.Context, platform, source string) (int64, bool, error) {
	val, err := s.rdb.HGet(ctx, sourceKey(platform), source).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis lookup by source: %w", err)
	}
	num, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt surrogate %q: %w", val, err)
	}
	return num, true, nil
}

func (s *RedisStore) ByNumber(ctx context.Context, platform string, num int64) (string, bool, error) {
	val, err := s.rdb.HGet(ctx, numberKey(platform), strconv.FormatInt(num, 10)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis lookup by number: %w", err)
	}
	return val, true, nil
}

func (s *RedisStore) Insert(ctx context.Context, platform, source string, num int64) error {
	numStr := strconv.FormatInt(num, 10)

	// Claim the surrogate first; it is the key the random draw can lose.
	claimed, err := s.rdb.HSetNX(ctx, numberKey(platform), numStr, source).Result()
	if err != nil {
		return fmt.Errorf("redis claim surrogate: %w", err)
	}
	if !claimed {
		return ErrConflict
	}
	ok, err := s.rdb.HSetNX(ctx, sourceKey(platform), source, numStr).Result()
	if err != nil {
		return fmt.Errorf("redis claim source: %w", err)
	}
	if !ok {
		// Source was claimed concurrently; release the surrogate.
		s.rdb.HDel(ctx, numberKey(platform), numStr)
		return ErrConflict
	}
	return nil
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
