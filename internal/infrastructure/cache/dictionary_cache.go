// Package cache provides the marketplace dictionary cache backends.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appmarketplace "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/config"
)

const dictionaryKeyPrefix = "dict:"

// RedisDictionaryCache caches marketplace reference values in Redis so
// repeated dictionary lookups do not hit marketplace rate limits. It is
// suitable for distributed deployments where multiple instances share
// cache state.
type RedisDictionaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ appmarketplace.DictionaryCache = (*RedisDictionaryCache)(nil)

// NewRedisDictionaryCache creates a Redis-backed dictionary cache and
// verifies the connection.
func NewRedisDictionaryCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisDictionaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisDictionaryCacheWithClient(client, cfg.DictionaryTTL, logger), nil
}

// NewRedisDictionaryCacheWithClient creates a cache over an existing
// Redis client. Useful for testing or when sharing a client across
// components.
func NewRedisDictionaryCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisDictionaryCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &RedisDictionaryCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("dictionary_cache"),
	}
}

// Get returns cached values for the query key, false on miss. Redis
// failures degrade to a miss so lookups fall through to the provider.
func (c *RedisDictionaryCache) Get(ctx context.Context, code marketplace.Code, query marketplace.DictionaryQuery) ([]marketplace.DictionaryValue, bool) {
	payload, err := c.client.Get(ctx, dictionaryKey(code, query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("dictionary cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var values []marketplace.DictionaryValue
	if err := json.Unmarshal(payload, &values); err != nil {
		c.logger.Warn("dictionary cache entry corrupted", zap.Error(err))
		return nil, false
	}
	return values, true
}

// Put stores values for the query key. Best effort: write failures are
// logged, never surfaced.
func (c *RedisDictionaryCache) Put(ctx context.Context, code marketplace.Code, query marketplace.DictionaryQuery, values []marketplace.DictionaryValue) {
	payload, err := json.Marshal(values)
	if err != nil {
		c.logger.Warn("dictionary cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, dictionaryKey(code, query), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("dictionary cache write failed", zap.Error(err))
	}
}

// dictionaryKey builds the cache key of one query.
func dictionaryKey(code marketplace.Code, query marketplace.DictionaryQuery) string {
	return dictionaryKeyPrefix + strings.Join([]string{
		string(code),
		query.DictionaryID,
		query.CategoryExternalID,
		query.Search,
		strconv.Itoa(query.Limit),
	}, ":")
}
