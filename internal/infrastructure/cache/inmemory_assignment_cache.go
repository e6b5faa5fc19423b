package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryAssignmentCache implements dealer.AssignmentCache with process-local
// storage. Used when Redis is disabled, typically in development and tests.
type InMemoryAssignmentCache struct {
	entries    sync.Map // map[uuid.UUID]*assignmentEntry
	defaultTTL time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	stopped    int32

	hits   int64
	misses int64
}

type assignmentEntry struct {
	assignments []dealer.BandAssignment
	expiresAt   time.Time
}

func (e *assignmentEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryAssignmentCacheOption is a functional option for configuring the cache
type InMemoryAssignmentCacheOption func(*InMemoryAssignmentCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryAssignmentCacheOption {
	return func(c *InMemoryAssignmentCache) {
		c.logger = logger
	}
}

// WithInMemoryTTL sets the TTL used when callers pass zero
func WithInMemoryTTL(ttl time.Duration) InMemoryAssignmentCacheOption {
	return func(c *InMemoryAssignmentCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// NewInMemoryAssignmentCache creates an in-memory band assignment cache
func NewInMemoryAssignmentCache(opts ...InMemoryAssignmentCacheOption) *InMemoryAssignmentCache {
	cache := &InMemoryAssignmentCache{
		defaultTTL: dealer.DefaultAssignmentTTL,
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a dealer's band assignments from cache
func (c *InMemoryAssignmentCache) Get(ctx context.Context, dealerAccountID uuid.UUID) ([]dealer.BandAssignment, error) {
	if value, ok := c.entries.Load(dealerAccountID); ok {
		entry := value.(*assignmentEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.assignments, nil
		}
		c.entries.Delete(dealerAccountID)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores a dealer's band assignments in cache
func (c *InMemoryAssignmentCache) Set(ctx context.Context, dealerAccountID uuid.UUID, assignments []dealer.BandAssignment, ttl time.Duration) error {
	if len(assignments) == 0 {
		return nil
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.entries.Store(dealerAccountID, &assignmentEntry{
		assignments: assignments,
		expiresAt:   time.Now().Add(ttl),
	})
	return nil
}

// Delete removes a dealer's band assignments from cache
func (c *InMemoryAssignmentCache) Delete(ctx context.Context, dealerAccountID uuid.UUID) error {
	c.entries.Delete(dealerAccountID)
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryAssignmentCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache hit and miss counters
func (c *InMemoryAssignmentCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryAssignmentCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*assignmentEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

// Ensure InMemoryAssignmentCache implements AssignmentCache
var _ dealer.AssignmentCache = (*InMemoryAssignmentCache)(nil)
