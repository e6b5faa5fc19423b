package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := dbFor(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByCode finds a product by its code
func (r *GormProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	var product catalog.Product
	if err := dbFor(ctx, r.db).
		Where("code = ?", strings.ToUpper(code)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByCodes finds multiple products by their codes
func (r *GormProductRepository) FindByCodes(ctx context.Context, codes []string) ([]catalog.Product, error) {
	if len(codes) == 0 {
		return []catalog.Product{}, nil
	}

	upperCodes := make([]string, len(codes))
	for i, code := range codes {
		upperCodes[i] = strings.ToUpper(code)
	}

	var products []catalog.Product
	if err := dbFor(ctx, r.db).
		Where("code IN ?", upperCodes).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := dbFor(ctx, r.db).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(dbFor(ctx, r.db).Model(&catalog.Product{}), filter, true)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFor(ctx, r.db).Model(&catalog.Product{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return dbFor(ctx, r.db).Save(product).Error
}

// UpsertStock replaces the stock row for the product, keyed on product id
func (r *GormProductRepository) UpsertStock(ctx context.Context, stock *catalog.ProductStock) error {
	return dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"free_stock", "updated_at"}),
	}).Create(stock).Error
}

// UpsertPriceReference replaces the reference-price row for the product
func (r *GormProductRepository) UpsertPriceReference(ctx context.Context, ref *catalog.ProductPriceReference) error {
	return dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"cost_price", "retail_price", "trade_price", "list_price", "updated_at"}),
	}).Create(ref).Error
}

// UpsertPriceBand writes one band price, unique on product+band so repeated
// bands in one batch overwrite rather than duplicate
func (r *GormProductRepository) UpsertPriceBand(ctx context.Context, band *catalog.ProductPriceBand) error {
	return dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "band_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(band).Error
}

// UpsertAlias records an alternate part number, unique on the alias itself
func (r *GormProductRepository) UpsertAlias(ctx context.Context, alias *catalog.ProductAlias) error {
	return dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}},
		DoUpdates: clause.AssignmentColumns([]string{"product_id", "updated_at"}),
	}).Create(alias).Error
}

// FindPriceBands returns every band row for the requested products in one query
func (r *GormProductRepository) FindPriceBands(ctx context.Context, productIDs []uuid.UUID) ([]catalog.ProductPriceBand, error) {
	if len(productIDs) == 0 {
		return []catalog.ProductPriceBand{}, nil
	}

	var bands []catalog.ProductPriceBand
	if err := dbFor(ctx, r.db).
		Where("product_id IN ?", productIDs).
		Find(&bands).Error; err != nil {
		return nil, err
	}
	return bands, nil
}

// FindPriceReferences returns reference-price rows for the requested products in one query
func (r *GormProductRepository) FindPriceReferences(ctx context.Context, productIDs []uuid.UUID) ([]catalog.ProductPriceReference, error) {
	if len(productIDs) == 0 {
		return []catalog.ProductPriceReference{}, nil
	}

	var refs []catalog.ProductPriceReference
	if err := dbFor(ctx, r.db).
		Where("product_id IN ?", productIDs).
		Find(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// FindStock returns stock rows for the requested products in one query
func (r *GormProductRepository) FindStock(ctx context.Context, productIDs []uuid.UUID) ([]catalog.ProductStock, error) {
	if len(productIDs) == 0 {
		return []catalog.ProductStock{}, nil
	}

	var stock []catalog.ProductStock
	if err := dbFor(ctx, r.db).
		Where("product_id IN ?", productIDs).
		Find(&stock).Error; err != nil {
		return nil, err
	}
	return stock, nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToUpper(filter.Search) + "%"
		query = query.Where("code LIKE ? OR UPPER(description) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "part_type":
			query = query.Where("part_type = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	if !paginate {
		return query
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" && productSortFields[filter.OrderBy] {
		dir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("code ASC")
	}

	return query
}

// productSortFields contains allowed sort fields for products
var productSortFields = map[string]bool{
	"code":       true,
	"part_type":  true,
	"created_at": true,
	"updated_at": true,
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
