package catalog

import (
	"context"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence interface for products and
// their owned stock, reference price, price band and alias rows
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindByCodes(ctx context.Context, codes []string) ([]Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error

	// Owned rows. Upserts are keyed on product id (stock, reference price)
	// or product id + band code (price bands).
	UpsertStock(ctx context.Context, stock *ProductStock) error
	UpsertPriceReference(ctx context.Context, ref *ProductPriceReference) error
	UpsertPriceBand(ctx context.Context, band *ProductPriceBand) error
	UpsertAlias(ctx context.Context, alias *ProductAlias) error

	// Batched reads for the pricing engine
	FindPriceBands(ctx context.Context, productIDs []uuid.UUID) ([]ProductPriceBand, error)
	FindPriceReferences(ctx context.Context, productIDs []uuid.UUID) ([]ProductPriceReference, error)
	FindStock(ctx context.Context, productIDs []uuid.UUID) ([]ProductStock, error)
}
