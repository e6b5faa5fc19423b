package catalog

import (
	"time"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BandCode identifies one of the four pricing tiers
type BandCode string

const (
	Band1 BandCode = "1"
	Band2 BandCode = "2"
	Band3 BandCode = "3"
	Band4 BandCode = "4"
)

// IsValid checks if the band code is one of the four tiers
func (b BandCode) IsValid() bool {
	switch b {
	case Band1, Band2, Band3, Band4:
		return true
	}
	return false
}

// AllBandCodes returns every valid band code
func AllBandCodes() []BandCode {
	return []BandCode{Band1, Band2, Band3, Band4}
}

// ProductPriceBand holds the tiered price for one product at one band level.
// Unique on product+band so a re-import overwrites rather than duplicates.
type ProductPriceBand struct {
	shared.BaseEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_band_product_code,priority:1"`
	BandCode  BandCode        `gorm:"type:varchar(2);not null;uniqueIndex:idx_band_product_code,priority:2"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ProductPriceBand) TableName() string {
	return "product_price_bands"
}

// NewProductPriceBand creates a band price row for a product
func NewProductPriceBand(productID uuid.UUID, band BandCode, price decimal.Decimal) (*ProductPriceBand, error) {
	if !band.IsValid() {
		return nil, shared.NewDomainError("INVALID_BAND", "Band code must be one of 1-4")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Band price cannot be negative")
	}
	return &ProductPriceBand{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		BandCode:   band,
		Price:      price,
	}, nil
}

// Replace overwrites the band price
func (b *ProductPriceBand) Replace(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Band price cannot be negative")
	}
	b.Price = price
	b.UpdatedAt = time.Now()
	return nil
}
