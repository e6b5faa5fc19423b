package persistence

import (
	"context"
	"errors"

	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stagingBatchSize bounds the number of rows per INSERT statement so large
// files stay within driver parameter limits.
const stagingBatchSize = 500

// GormBatchRepository implements imports.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds an import batch by ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*imports.ImportBatch, error) {
	var batch imports.ImportBatch
	if err := dbFor(ctx, r.db).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAll lists batches newest first, optionally narrowed by type and status
func (r *GormBatchRepository) FindAll(ctx context.Context, filter imports.BatchFilter, page, pageSize int) (*imports.BatchListResult, error) {
	query := dbFor(ctx, r.db).Model(&imports.ImportBatch{})
	if filter.ImportType != nil {
		query = query.Where("import_type = ?", *filter.ImportType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var batches []*imports.ImportBatch
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&batches).Error; err != nil {
		return nil, err
	}

	return &imports.BatchListResult{
		Batches:    batches,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Save creates or updates an import batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *imports.ImportBatch) error {
	return dbFor(ctx, r.db).Save(batch).Error
}

// SaveProductRows persists product staging rows in batches
func (r *GormBatchRepository) SaveProductRows(ctx context.Context, rows []*imports.ProductStagingRow) error {
	if len(rows) == 0 {
		return nil
	}
	return dbFor(ctx, r.db).CreateInBatches(rows, stagingBatchSize).Error
}

// SaveBackorderRows persists backorder staging rows in batches
func (r *GormBatchRepository) SaveBackorderRows(ctx context.Context, rows []*imports.BackorderStagingRow) error {
	if len(rows) == 0 {
		return nil
	}
	return dbFor(ctx, r.db).CreateInBatches(rows, stagingBatchSize).Error
}

// SaveSupersessionRows persists supersession staging rows in batches
func (r *GormBatchRepository) SaveSupersessionRows(ctx context.Context, rows []*imports.SupersessionStagingRow) error {
	if len(rows) == 0 {
		return nil
	}
	return dbFor(ctx, r.db).CreateInBatches(rows, stagingBatchSize).Error
}

// SaveFulfillmentRows persists fulfillment staging rows in batches
func (r *GormBatchRepository) SaveFulfillmentRows(ctx context.Context, rows []*imports.FulfillmentStagingRow) error {
	if len(rows) == 0 {
		return nil
	}
	return dbFor(ctx, r.db).CreateInBatches(rows, stagingBatchSize).Error
}

// FindProductRows returns a batch's product staging rows in file order
func (r *GormBatchRepository) FindProductRows(ctx context.Context, batchID uuid.UUID) ([]*imports.ProductStagingRow, error) {
	var rows []*imports.ProductStagingRow
	if err := dbFor(ctx, r.db).
		Where("batch_id = ?", batchID).
		Order("row_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBackorderRows returns a batch's backorder staging rows in file order
func (r *GormBatchRepository) FindBackorderRows(ctx context.Context, batchID uuid.UUID) ([]*imports.BackorderStagingRow, error) {
	var rows []*imports.BackorderStagingRow
	if err := dbFor(ctx, r.db).
		Where("batch_id = ?", batchID).
		Order("row_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindSupersessionRows returns a batch's supersession staging rows in file order
func (r *GormBatchRepository) FindSupersessionRows(ctx context.Context, batchID uuid.UUID) ([]*imports.SupersessionStagingRow, error) {
	var rows []*imports.SupersessionStagingRow
	if err := dbFor(ctx, r.db).
		Where("batch_id = ?", batchID).
		Order("row_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindFulfillmentRows returns a batch's fulfillment staging rows in file order
func (r *GormBatchRepository) FindFulfillmentRows(ctx context.Context, batchID uuid.UUID) ([]*imports.FulfillmentStagingRow, error) {
	var rows []*imports.FulfillmentStagingRow
	if err := dbFor(ctx, r.db).
		Where("batch_id = ?", batchID).
		Order("row_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveErrors persists import error records in batches
func (r *GormBatchRepository) SaveErrors(ctx context.Context, errs []*imports.ImportError) error {
	if len(errs) == 0 {
		return nil
	}
	return dbFor(ctx, r.db).CreateInBatches(errs, stagingBatchSize).Error
}

// FindErrors returns one page of a batch's errors in row order
func (r *GormBatchRepository) FindErrors(ctx context.Context, batchID uuid.UUID, page, pageSize int) ([]*imports.ImportError, int64, error) {
	query := dbFor(ctx, r.db).Model(&imports.ImportError{}).Where("batch_id = ?", batchID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	var errs []*imports.ImportError
	if err := query.
		Order("row_number ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&errs).Error; err != nil {
		return nil, 0, err
	}
	return errs, total, nil
}

// FindAllErrors returns every error for a batch in row order
func (r *GormBatchRepository) FindAllErrors(ctx context.Context, batchID uuid.UUID) ([]*imports.ImportError, error) {
	var errs []*imports.ImportError
	if err := dbFor(ctx, r.db).
		Where("batch_id = ?", batchID).
		Order("row_number ASC").
		Find(&errs).Error; err != nil {
		return nil, err
	}
	return errs, nil
}

// Ensure GormBatchRepository implements BatchRepository
var _ imports.BatchRepository = (*GormBatchRepository)(nil)
