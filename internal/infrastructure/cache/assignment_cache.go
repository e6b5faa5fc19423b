package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisAssignmentCache implements dealer.AssignmentCache using Redis
type RedisAssignmentCache struct {
	client     *redis.Client
	ownsClient bool
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisAssignmentCacheOption is a functional option for configuring the cache
type RedisAssignmentCacheOption func(*RedisAssignmentCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisAssignmentCacheOption {
	return func(c *RedisAssignmentCache) {
		c.logger = logger
	}
}

// WithDefaultTTL sets the TTL used when callers pass zero
func WithDefaultTTL(ttl time.Duration) RedisAssignmentCacheOption {
	return func(c *RedisAssignmentCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// NewRedisAssignmentCache creates a Redis-backed band assignment cache
func NewRedisAssignmentCache(cfg config.RedisConfig, opts ...RedisAssignmentCacheOption) (*RedisAssignmentCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisAssignmentCache{
		client:     client,
		ownsClient: true,
		defaultTTL: dealer.DefaultAssignmentTTL,
		logger:     zap.NewNop(),
	}
	if cfg.TTL > 0 {
		cache.defaultTTL = cfg.TTL
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisAssignmentCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisAssignmentCacheWithClient(client *redis.Client, opts ...RedisAssignmentCacheOption) *RedisAssignmentCache {
	cache := &RedisAssignmentCache{
		client:     client,
		ownsClient: false,
		defaultTTL: dealer.DefaultAssignmentTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// assignmentCacheKey generates the cache key for a dealer's assignment set
func (c *RedisAssignmentCache) assignmentCacheKey(dealerAccountID uuid.UUID) string {
	return fmt.Sprintf("band_assignments:%s", dealerAccountID.String())
}

// Get retrieves a dealer's band assignments from cache
func (c *RedisAssignmentCache) Get(ctx context.Context, dealerAccountID uuid.UUID) ([]dealer.BandAssignment, error) {
	cacheKey := c.assignmentCacheKey(dealerAccountID)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for band assignments",
			zap.String("dealer_account_id", dealerAccountID.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get band assignments from cache",
			zap.String("dealer_account_id", dealerAccountID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get assignments from cache: %w", err)
	}

	var assignments []dealer.BandAssignment
	if err := json.Unmarshal(data, &assignments); err != nil {
		c.logger.Error("Failed to unmarshal band assignments",
			zap.String("dealer_account_id", dealerAccountID.String()),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal assignments: %w", err)
	}

	c.logger.Debug("Cache hit for band assignments",
		zap.String("dealer_account_id", dealerAccountID.String()))
	return assignments, nil
}

// Set stores a dealer's band assignments in cache
func (c *RedisAssignmentCache) Set(ctx context.Context, dealerAccountID uuid.UUID, assignments []dealer.BandAssignment, ttl time.Duration) error {
	if len(assignments) == 0 {
		return nil
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	cacheKey := c.assignmentCacheKey(dealerAccountID)

	data, err := json.Marshal(assignments)
	if err != nil {
		c.logger.Error("Failed to marshal band assignments",
			zap.String("dealer_account_id", dealerAccountID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal assignments: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set band assignments in cache",
			zap.String("dealer_account_id", dealerAccountID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to set assignments in cache: %w", err)
	}

	c.logger.Debug("Cached band assignments",
		zap.String("dealer_account_id", dealerAccountID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a dealer's band assignments from cache
func (c *RedisAssignmentCache) Delete(ctx context.Context, dealerAccountID uuid.UUID) error {
	cacheKey := c.assignmentCacheKey(dealerAccountID)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete band assignments from cache",
			zap.String("dealer_account_id", dealerAccountID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete assignments from cache: %w", err)
	}

	c.logger.Debug("Deleted band assignments from cache",
		zap.String("dealer_account_id", dealerAccountID.String()))
	return nil
}

// Close releases the Redis client when owned by the cache
func (c *RedisAssignmentCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisAssignmentCache implements AssignmentCache
var _ dealer.AssignmentCache = (*RedisAssignmentCache)(nil)
