// Package cache provides a Redis-backed store for fused verification
// results. Every operation is best effort: a missing or unhealthy Redis
// degrades to cache misses and the pipeline proceeds without it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/models"
)

const keyPrefix = "advisor-verify:result:"

// ResultStore caches verification results with a fixed TTL.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// New creates a Redis client and verifies connectivity. Callers that get an
// error back should run without a cache rather than fail startup.
func New(addr string, ttl time.Duration, log logger.Logger) (*ResultStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &ResultStore{client: client, ttl: ttl, log: log}, nil
}

// Get returns a cached result, or (nil, false) on miss or any Redis error.
func (s *ResultStore) Get(ctx context.Context, key string) (*models.VerificationResult, bool) {
	payload, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result models.VerificationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		s.log.Warn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		s.client.Del(ctx, keyPrefix+key)
		return nil, false
	}
	return &result, true
}

// Set stores a result. Failures are logged and swallowed.
func (s *ResultStore) Set(ctx context.Context, key string, result *models.VerificationResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, keyPrefix+key, payload, s.ttl).Err(); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping reports Redis health for the health endpoint.
func (s *ResultStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (s *ResultStore) Close() error {
	return s.client.Close()
}
