package catalog

import (
	"strings"
	"time"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartType classifies a product within the catalog
type PartType string

const (
	PartTypeGenuine     PartType = "GENUINE"
	PartTypeAftermarket PartType = "AFTERMARKET"
	PartTypeBranded     PartType = "BRANDED"
)

// IsValid checks if the part type is one of the declared set
func (t PartType) IsValid() bool {
	switch t {
	case PartTypeGenuine, PartTypeAftermarket, PartTypeBranded:
		return true
	}
	return false
}

// AllPartTypes returns every declared part type
func AllPartTypes() []PartType {
	return []PartType{PartTypeGenuine, PartTypeAftermarket, PartTypeBranded}
}

// Product represents one part number in the live catalog.
// It is the aggregate root for stock, reference prices, price bands and aliases.
type Product struct {
	shared.BaseAggregateRoot
	Code         string   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description  string   `gorm:"type:varchar(200)"`
	PartType     PartType `gorm:"type:varchar(20);not null;index"`
	Active       bool     `gorm:"not null;default:true"`
	SupersededBy string   `gorm:"type:varchar(50)"` // replacement product code, set by supersession imports
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, description string, partType PartType) (*Product, error) {
	if err := ValidateProductCode(code); err != nil {
		return nil, err
	}
	if !partType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PART_TYPE", "Part type must be GENUINE, AFTERMARKET or BRANDED")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Description:       description,
		PartType:          partType,
		Active:            true,
	}, nil
}

// Update replaces description, part type and active flag from an import row
func (p *Product) Update(description string, partType PartType, active bool) error {
	if !partType.IsValid() {
		return shared.NewDomainError("INVALID_PART_TYPE", "Part type must be GENUINE, AFTERMARKET or BRANDED")
	}

	p.Description = description
	p.PartType = partType
	p.Active = active
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Supersede records the replacement code and deactivates the product
func (p *Product) Supersede(replacementCode string) error {
	if err := ValidateProductCode(replacementCode); err != nil {
		return err
	}
	replacementCode = strings.ToUpper(replacementCode)
	if replacementCode == p.Code {
		return shared.NewDomainError("INVALID_SUPERSESSION", "Product cannot supersede itself")
	}

	p.SupersededBy = replacementCode
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate marks the product as not sellable. Products are never hard-deleted.
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsSuperseded returns true if a replacement code has been recorded
func (p *Product) IsSuperseded() bool {
	return p.SupersededBy != ""
}

// ValidateProductCode validates a part number
func ValidateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.' || r == '/') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers and _-./")
		}
	}
	return nil
}

// ProductStock holds the free-stock quantity for one product
type ProductStock struct {
	shared.BaseEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	FreeStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductStock) TableName() string {
	return "product_stock"
}

// NewProductStock creates a stock row for a product
func NewProductStock(productID uuid.UUID, freeStock decimal.Decimal) (*ProductStock, error) {
	if freeStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_STOCK", "Free stock cannot be negative")
	}
	return &ProductStock{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		FreeStock:  freeStock,
	}, nil
}

// Replace overwrites the free-stock quantity
func (s *ProductStock) Replace(freeStock decimal.Decimal) error {
	if freeStock.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Free stock cannot be negative")
	}
	s.FreeStock = freeStock
	s.UpdatedAt = time.Now()
	return nil
}

// ProductPriceReference holds the fallback reference prices for one product
type ProductPriceReference struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4)"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(18,4)"`
	TradePrice  decimal.Decimal `gorm:"type:decimal(18,4)"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (ProductPriceReference) TableName() string {
	return "product_price_references"
}

// NewProductPriceReference creates a reference-price row for a product
func NewProductPriceReference(productID uuid.UUID, cost, retail, trade, list decimal.Decimal) (*ProductPriceReference, error) {
	ref := &ProductPriceReference{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
	}
	if err := ref.Replace(cost, retail, trade, list); err != nil {
		return nil, err
	}
	return ref, nil
}

// Replace overwrites all reference price fields
func (r *ProductPriceReference) Replace(cost, retail, trade, list decimal.Decimal) error {
	for _, p := range []decimal.Decimal{cost, retail, trade, list} {
		if p.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Reference prices cannot be negative")
		}
	}
	r.CostPrice = cost
	r.RetailPrice = retail
	r.TradePrice = trade
	r.ListPrice = list
	r.UpdatedAt = time.Now()
	return nil
}

// HasFallback returns true when a usable fallback price exists
func (r *ProductPriceReference) HasFallback() bool {
	return r.TradePrice.IsPositive() || r.RetailPrice.IsPositive()
}

// FallbackPrice returns the price used when no band price matches.
// Trade price wins over retail price.
func (r *ProductPriceReference) FallbackPrice() decimal.Decimal {
	if r.TradePrice.IsPositive() {
		return r.TradePrice
	}
	return r.RetailPrice
}

// ProductAlias maps an alternate part number to a product
type ProductAlias struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Alias     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_alias_product,priority:1"`
}

// TableName returns the table name for GORM
func (ProductAlias) TableName() string {
	return "product_aliases"
}

// NewProductAlias creates an alias for a product
func NewProductAlias(productID uuid.UUID, alias string) (*ProductAlias, error) {
	if err := ValidateProductCode(alias); err != nil {
		return nil, err
	}
	return &ProductAlias{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Alias:      strings.ToUpper(alias),
	}, nil
}
