package dealer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssignmentCache caches a dealer's band assignments. Price resolution
// reads the assignment set on every request, so implementations sit in
// front of the repository and are invalidated whenever the set is replaced.
type AssignmentCache interface {
	// Get returns the cached assignment set, or nil on a miss.
	Get(ctx context.Context, dealerAccountID uuid.UUID) ([]BandAssignment, error)

	// Set stores the assignment set. A ttl of zero uses the implementation default.
	Set(ctx context.Context, dealerAccountID uuid.UUID, assignments []BandAssignment, ttl time.Duration) error

	// Delete drops the cached set for one dealer.
	Delete(ctx context.Context, dealerAccountID uuid.UUID) error

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultAssignmentTTL bounds staleness between a band import committing
// and price resolution picking up the new bands.
const DefaultAssignmentTTL = 5 * time.Minute
