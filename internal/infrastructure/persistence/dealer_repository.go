package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDealerRepository implements dealer.AccountRepository using GORM
type GormDealerRepository struct {
	db *gorm.DB
}

// NewGormDealerRepository creates a new GormDealerRepository
func NewGormDealerRepository(db *gorm.DB) *GormDealerRepository {
	return &GormDealerRepository{db: db}
}

// FindByID finds a dealer account by ID
func (r *GormDealerRepository) FindByID(ctx context.Context, id uuid.UUID) (*dealer.DealerAccount, error) {
	var account dealer.DealerAccount
	if err := dbFor(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByAccountNumber finds a dealer account by its account number
func (r *GormDealerRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*dealer.DealerAccount, error) {
	var account dealer.DealerAccount
	if err := dbFor(ctx, r.db).
		Where("account_number = ?", strings.ToUpper(accountNumber)).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll finds dealer accounts matching the filter
func (r *GormDealerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dealer.DealerAccount, error) {
	query := dbFor(ctx, r.db).Model(&dealer.DealerAccount{})

	if filter.Search != "" {
		pattern := "%" + strings.ToUpper(filter.Search) + "%"
		query = query.Where("account_number LIKE ? OR UPPER(name) LIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var accounts []dealer.DealerAccount
	if err := query.Order("account_number ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates a dealer account
func (r *GormDealerRepository) Save(ctx context.Context, account *dealer.DealerAccount) error {
	return dbFor(ctx, r.db).Save(account).Error
}

// FindBandAssignments returns the dealer's band assignments
func (r *GormDealerRepository) FindBandAssignments(ctx context.Context, dealerAccountID uuid.UUID) ([]dealer.BandAssignment, error) {
	var assignments []dealer.BandAssignment
	if err := dbFor(ctx, r.db).
		Where("dealer_account_id = ?", dealerAccountID).
		Order("part_type ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// ReplaceBandAssignments atomically replaces all assignments for the dealer
// with a delete-then-insert inside one transaction, so no reader ever
// observes a partial set.
func (r *GormDealerRepository) ReplaceBandAssignments(ctx context.Context, dealerAccountID uuid.UUID, assignments []dealer.BandAssignment) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("dealer_account_id = ?", dealerAccountID).
			Delete(&dealer.BandAssignment{}).Error; err != nil {
			return err
		}
		return tx.Create(&assignments).Error
	})
}

// Ensure GormDealerRepository implements AccountRepository
var _ dealer.AccountRepository = (*GormDealerRepository)(nil)
