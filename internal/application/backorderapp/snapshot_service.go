package backorderapp

import (
	"context"

	"github.com/dealerportal/backend/internal/domain/backorder"
	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/domain/shared"
)

// SnapshotService serves read access to the current backorder snapshot
type SnapshotService struct {
	backorderRepo backorder.Repository
	dealerRepo    dealer.AccountRepository
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(backorderRepo backorder.Repository, dealerRepo dealer.AccountRepository) *SnapshotService {
	return &SnapshotService{
		backorderRepo: backorderRepo,
		dealerRepo:    dealerRepo,
	}
}

// GetCurrent returns the currently visible snapshot, or ErrNotFound before
// the first backorder import has committed
func (s *SnapshotService) GetCurrent(ctx context.Context) (*backorder.Dataset, error) {
	return s.backorderRepo.FindCurrent(ctx)
}

// GetLines returns all lines of the current snapshot
func (s *SnapshotService) GetLines(ctx context.Context) ([]*backorder.Line, error) {
	dataset, err := s.backorderRepo.FindCurrent(ctx)
	if err != nil {
		if err == shared.ErrNotFound {
			return []*backorder.Line{}, nil
		}
		return nil, err
	}
	return s.backorderRepo.FindLines(ctx, dataset.ID)
}

// GetLinesForAccount returns the current snapshot's lines for one dealer.
// The account must exist; an empty snapshot is an empty result, not an error.
func (s *SnapshotService) GetLinesForAccount(ctx context.Context, accountNumber string) ([]*backorder.Line, error) {
	account, err := s.dealerRepo.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.backorderRepo.FindLinesForAccount(ctx, account.AccountNumber)
}
