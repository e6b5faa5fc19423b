package cache

import (
	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewAssignmentCache creates a band assignment cache based on configuration.
// When Redis is disabled or unreachable it falls back to the in-memory cache
// so price resolution keeps working on a single instance.
func NewAssignmentCache(cfg config.RedisConfig, logger *zap.Logger) dealer.AssignmentCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		logger.Info("using in-memory band assignment cache")
		return NewInMemoryAssignmentCache(
			WithInMemoryLogger(logger),
			WithInMemoryTTL(cfg.TTL),
		)
	}

	redisCache, err := NewRedisAssignmentCache(cfg, WithCacheLogger(logger))
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory band assignment cache. "+
			"Cached assignments will not be shared across instances.",
			zap.Error(err),
		)
		return NewInMemoryAssignmentCache(
			WithInMemoryLogger(logger),
			WithInMemoryTTL(cfg.TTL),
		)
	}

	logger.Info("using Redis band assignment cache", zap.String("addr", cfg.Addr()))
	return redisCache
}
