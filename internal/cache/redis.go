package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
	"go.uber.org/zap"

	"github.com/dealpulse/pkg/models"
)

// Config represents Redis cache configuration
type Config struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// RedisCache caches computed analyses across service instances. Cache
// failures are logged and degrade to recompute; they never fail a request.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache creates a Redis-backed analysis cache
func NewRedisCache(config Config, logger *zap.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,

		PoolSize:     100,
		MinIdleConns: 10,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ttl := config.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = "dealpulse"
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// GetAnalysis retrieves a cached analysis by deal and input fingerprint
func (rc *RedisCache) GetAnalysis(ctx context.Context, dealID, fingerprint string) (*models.DealHealthAnalysis, bool) {
	key := rc.key(dealID, fingerprint)
	data, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		rc.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var analysis models.DealHealthAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		rc.logger.Warn("failed to unmarshal cached analysis", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return &analysis, true
}

// SetAnalysis stores an analysis by deal and input fingerprint
func (rc *RedisCache) SetAnalysis(ctx context.Context, dealID, fingerprint string, analysis *models.DealHealthAnalysis) {
	key := rc.key(dealID, fingerprint)
	data, err := json.Marshal(analysis)
	if err != nil {
		rc.logger.Warn("failed to marshal analysis for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := rc.client.Set(ctx, key, data, rc.ttl).Err(); err != nil {
		rc.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateDeal removes every cached analysis for a deal
func (rc *RedisCache) InvalidateDeal(ctx context.Context, dealID string) {
	pattern := fmt.Sprintf("%s:analysis:%s:*", rc.prefix, dealID)
	keys, err := rc.client.Keys(ctx, pattern).Result()
	if err != nil {
		rc.logger.Warn("redis keys scan failed", zap.String("deal_id", dealID), zap.Error(err))
		return
	}
	for _, key := range keys {
		rc.client.Del(ctx, key)
	}
}

// Ping checks Redis connectivity
func (rc *RedisCache) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

func (rc *RedisCache) key(dealID, fingerprint string) string {
	return fmt.Sprintf("%s:analysis:%s:%s", rc.prefix, dealID, fingerprint)
}
