package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/dealer"
)

func testAssignments(dealerID uuid.UUID) []dealer.BandAssignment {
	return []dealer.BandAssignment{
		{DealerAccountID: dealerID, PartType: catalog.PartTypeGenuine, BandCode: catalog.Band1},
		{DealerAccountID: dealerID, PartType: catalog.PartTypeAftermarket, BandCode: catalog.Band3},
		{DealerAccountID: dealerID, PartType: catalog.PartTypeBranded, BandCode: catalog.Band2},
	}
}

func TestInMemoryAssignmentCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryAssignmentCache()
		defer c.Close()

		dealerID := uuid.New()
		require.NoError(t, c.Set(ctx, dealerID, testAssignments(dealerID), time.Minute))

		got, err := c.Get(ctx, dealerID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, catalog.Band1, got[0].BandCode)
	})

	t.Run("miss returns nil without error", func(t *testing.T) {
		c := NewInMemoryAssignmentCache()
		defer c.Close()

		got, err := c.Get(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expired entries are treated as misses", func(t *testing.T) {
		c := NewInMemoryAssignmentCache()
		defer c.Close()

		dealerID := uuid.New()
		require.NoError(t, c.Set(ctx, dealerID, testAssignments(dealerID), time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		got, err := c.Get(ctx, dealerID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("zero ttl falls back to the default", func(t *testing.T) {
		c := NewInMemoryAssignmentCache(WithInMemoryTTL(time.Hour))
		defer c.Close()

		dealerID := uuid.New()
		require.NoError(t, c.Set(ctx, dealerID, testAssignments(dealerID), 0))

		got, err := c.Get(ctx, dealerID)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("empty assignment set is not stored", func(t *testing.T) {
		c := NewInMemoryAssignmentCache()
		defer c.Close()

		dealerID := uuid.New()
		require.NoError(t, c.Set(ctx, dealerID, nil, time.Minute))

		got, err := c.Get(ctx, dealerID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		c := NewInMemoryAssignmentCache()
		defer c.Close()

		dealerID := uuid.New()
		require.NoError(t, c.Set(ctx, dealerID, testAssignments(dealerID), time.Minute))
		require.NoError(t, c.Delete(ctx, dealerID))

		got, err := c.Get(ctx, dealerID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("tracks hit and miss counters", func(t *testing.T) {
		c := NewInMemoryAssignmentCache()
		defer c.Close()

		dealerID := uuid.New()
		require.NoError(t, c.Set(ctx, dealerID, testAssignments(dealerID), time.Minute))

		_, _ = c.Get(ctx, dealerID)
		_, _ = c.Get(ctx, dealerID)
		_, _ = c.Get(ctx, uuid.New())

		hits, misses := c.GetStats()
		assert.Equal(t, int64(2), hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewInMemoryAssignmentCache()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
	})
}
