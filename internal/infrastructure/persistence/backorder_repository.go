package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/dealerportal/backend/internal/domain/backorder"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBackorderRepository implements backorder.Repository using GORM
type GormBackorderRepository struct {
	db *gorm.DB
}

// NewGormBackorderRepository creates a new GormBackorderRepository
func NewGormBackorderRepository(db *gorm.DB) *GormBackorderRepository {
	return &GormBackorderRepository{db: db}
}

// FindCurrent returns the currently visible backorder snapshot
func (r *GormBackorderRepository) FindCurrent(ctx context.Context) (*backorder.Dataset, error) {
	var dataset backorder.Dataset
	if err := dbFor(ctx, r.db).Where("current = ?", true).First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &dataset, nil
}

// FindByID finds a backorder dataset by ID
func (r *GormBackorderRepository) FindByID(ctx context.Context, id uuid.UUID) (*backorder.Dataset, error) {
	var dataset backorder.Dataset
	if err := dbFor(ctx, r.db).First(&dataset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &dataset, nil
}

// SwapCurrent supersedes the previously current dataset and installs the new
// one with its lines in a single transaction.
func (r *GormBackorderRepository) SwapCurrent(ctx context.Context, dataset *backorder.Dataset, lines []*backorder.Line) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var prior backorder.Dataset
		err := tx.Where("current = ?", true).First(&prior).Error
		switch {
		case err == nil:
			prior.Supersede()
			if err := tx.Save(&prior).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first import, nothing to supersede
		default:
			return err
		}

		dataset.MakeCurrent(len(lines))
		if err := tx.Save(dataset).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.CreateInBatches(lines, stagingBatchSize).Error
	})
}

// FindLines returns all lines of one dataset
func (r *GormBackorderRepository) FindLines(ctx context.Context, datasetID uuid.UUID) ([]*backorder.Line, error) {
	var lines []*backorder.Line
	if err := dbFor(ctx, r.db).
		Where("dataset_id = ?", datasetID).
		Order("account_number ASC, product_code ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindLinesForAccount returns the current snapshot's lines for one dealer account
func (r *GormBackorderRepository) FindLinesForAccount(ctx context.Context, accountNumber string) ([]*backorder.Line, error) {
	db := dbFor(ctx, r.db)

	var dataset backorder.Dataset
	if err := db.Where("current = ?", true).First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*backorder.Line{}, nil
		}
		return nil, err
	}

	var lines []*backorder.Line
	if err := db.
		Where("dataset_id = ? AND account_number = ?", dataset.ID, strings.ToUpper(accountNumber)).
		Order("product_code ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Ensure GormBackorderRepository implements Repository
var _ backorder.Repository = (*GormBackorderRepository)(nil)
