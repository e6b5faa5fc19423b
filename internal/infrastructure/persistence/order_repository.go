package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/dealerportal/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds a dealer order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.DealerOrder, error) {
	var order trade.DealerOrder
	if err := dbFor(ctx, r.db).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a dealer order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.DealerOrder, error) {
	var order trade.DealerOrder
	if err := dbFor(ctx, r.db).
		Where("order_number = ?", strings.ToUpper(orderNumber)).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumbers finds all orders matching the given order numbers
func (r *GormOrderRepository) FindByOrderNumbers(ctx context.Context, orderNumbers []string) ([]trade.DealerOrder, error) {
	if len(orderNumbers) == 0 {
		return []trade.DealerOrder{}, nil
	}
	upper := make([]string, len(orderNumbers))
	for i, n := range orderNumbers {
		upper[i] = strings.ToUpper(n)
	}

	var orders []trade.DealerOrder
	if err := dbFor(ctx, r.db).
		Where("order_number IN ?", upper).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a dealer order
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.DealerOrder) error {
	return dbFor(ctx, r.db).Save(order).Error
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
