package cache

import (
	"go.uber.org/zap"

	appmarketplace "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/infrastructure/config"
)

// NewDictionaryCache creates the Redis dictionary cache, falling back
// to the in-memory cache when Redis is unreachable. Reference data is
// refetchable, so a degraded cache beats a failed startup.
func NewDictionaryCache(cfg config.RedisConfig, logger *zap.Logger) appmarketplace.DictionaryCache {
	cache, err := NewRedisDictionaryCache(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory dictionary cache", zap.Error(err))
		return NewInMemoryDictionaryCache(cfg.DictionaryTTL)
	}
	return cache
}
