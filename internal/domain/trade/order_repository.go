package trade

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the persistence interface for dealer orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DealerOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*DealerOrder, error)
	FindByOrderNumbers(ctx context.Context, orderNumbers []string) ([]DealerOrder, error)
	Save(ctx context.Context, order *DealerOrder) error
}
