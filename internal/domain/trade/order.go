package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FulfillmentStatus tracks an order through the supplier's fulfilment flow
type FulfillmentStatus string

const (
	FulfillmentPending     FulfillmentStatus = "PENDING"
	FulfillmentPicked      FulfillmentStatus = "PICKED"
	FulfillmentShipped     FulfillmentStatus = "SHIPPED"
	FulfillmentBackordered FulfillmentStatus = "BACKORDERED"
	FulfillmentCancelled   FulfillmentStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s FulfillmentStatus) IsValid() bool {
	switch s {
	case FulfillmentPending, FulfillmentPicked, FulfillmentShipped,
		FulfillmentBackordered, FulfillmentCancelled:
		return true
	}
	return false
}

// DealerOrder is the target of fulfillment-status imports. Order capture
// itself lives outside this subsystem; imports only update the keyed fields.
type DealerOrder struct {
	shared.BaseAggregateRoot
	OrderNumber      string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	DealerAccountID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Fulfillment      FulfillmentStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ShippedAt        *time.Time
	CarrierReference string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (DealerOrder) TableName() string {
	return "dealer_orders"
}

// NewDealerOrder creates an order shell for fulfilment tracking
func NewDealerOrder(orderNumber string, dealerAccountID uuid.UUID) (*DealerOrder, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}

	return &DealerOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       strings.ToUpper(orderNumber),
		DealerAccountID:   dealerAccountID,
		Fulfillment:       FulfillmentPending,
	}, nil
}

// UpdateFulfillment applies the targeted field updates of a status import
func (o *DealerOrder) UpdateFulfillment(status FulfillmentStatus, shippedAt *time.Time, carrierRef string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid fulfillment status: %s", status))
	}

	o.Fulfillment = status
	if shippedAt != nil {
		o.ShippedAt = shippedAt
	}
	if carrierRef != "" {
		o.CarrierReference = carrierRef
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}
