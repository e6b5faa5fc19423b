package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDealerOrder(t *testing.T) {
	dealerID := uuid.New()

	t.Run("creates pending order with uppercased number", func(t *testing.T) {
		order, err := NewDealerOrder(" so-1042 ", dealerID)
		require.NoError(t, err)

		assert.Equal(t, "SO-1042", order.OrderNumber)
		assert.Equal(t, dealerID, order.DealerAccountID)
		assert.Equal(t, FulfillmentPending, order.Fulfillment)
		assert.Nil(t, order.ShippedAt)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewDealerOrder("  ", dealerID)
		require.Error(t, err)
	})
}

func TestUpdateFulfillment(t *testing.T) {
	dealerID := uuid.New()

	t.Run("applies status, shipped date and carrier", func(t *testing.T) {
		order, err := NewDealerOrder("SO-1042", dealerID)
		require.NoError(t, err)

		shipped := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		require.NoError(t, order.UpdateFulfillment(FulfillmentShipped, &shipped, "DHL-9913"))

		assert.Equal(t, FulfillmentShipped, order.Fulfillment)
		require.NotNil(t, order.ShippedAt)
		assert.True(t, order.ShippedAt.Equal(shipped))
		assert.Equal(t, "DHL-9913", order.CarrierReference)
	})

	t.Run("keeps previous optional fields when omitted", func(t *testing.T) {
		order, err := NewDealerOrder("SO-1042", dealerID)
		require.NoError(t, err)

		shipped := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		require.NoError(t, order.UpdateFulfillment(FulfillmentShipped, &shipped, "DHL-9913"))
		require.NoError(t, order.UpdateFulfillment(FulfillmentCancelled, nil, ""))

		assert.Equal(t, FulfillmentCancelled, order.Fulfillment)
		require.NotNil(t, order.ShippedAt)
		assert.Equal(t, "DHL-9913", order.CarrierReference)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		order, err := NewDealerOrder("SO-1042", dealerID)
		require.NoError(t, err)

		require.Error(t, order.UpdateFulfillment(FulfillmentStatus("LOST"), nil, ""))
		assert.Equal(t, FulfillmentPending, order.Fulfillment)
	})
}
