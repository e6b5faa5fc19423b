package dealerapp

import (
	"context"
	"fmt"

	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BandService manages dealer accounts and their band assignments.
// Assignment replacement is atomic and invalidates the assignment cache so
// the next price resolution sees the new set.
type BandService struct {
	dealerRepo dealer.AccountRepository
	cache      dealer.AssignmentCache
	logger     *zap.Logger
}

// NewBandService creates a new BandService
func NewBandService(dealerRepo dealer.AccountRepository, cache dealer.AssignmentCache, logger *zap.Logger) *BandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BandService{
		dealerRepo: dealerRepo,
		cache:      cache,
		logger:     logger,
	}
}

// CreateAccount creates a dealer account with the given entitlement
func (s *BandService) CreateAccount(ctx context.Context, accountNumber, name string, entitlement dealer.Entitlement) (*dealer.DealerAccount, error) {
	existing, err := s.dealerRepo.FindByAccountNumber(ctx, accountNumber)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	account, err := dealer.NewDealerAccount(accountNumber, name, entitlement)
	if err != nil {
		return nil, err
	}
	if err := s.dealerRepo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save dealer account: %w", err)
	}
	return account, nil
}

// GetAccount retrieves a dealer account by ID
func (s *BandService) GetAccount(ctx context.Context, id uuid.UUID) (*dealer.DealerAccount, error) {
	return s.dealerRepo.FindByID(ctx, id)
}

// GetAccountByNumber retrieves a dealer account by its account number
func (s *BandService) GetAccountByNumber(ctx context.Context, accountNumber string) (*dealer.DealerAccount, error) {
	return s.dealerRepo.FindByAccountNumber(ctx, accountNumber)
}

// ListAccounts retrieves dealer accounts matching the filter
func (s *BandService) ListAccounts(ctx context.Context, filter shared.Filter) ([]dealer.DealerAccount, error) {
	return s.dealerRepo.FindAll(ctx, filter)
}

// SetEntitlement changes a dealer's visibility entitlement
func (s *BandService) SetEntitlement(ctx context.Context, dealerAccountID uuid.UUID, entitlement dealer.Entitlement) error {
	account, err := s.dealerRepo.FindByID(ctx, dealerAccountID)
	if err != nil {
		return err
	}
	if err := account.SetEntitlement(entitlement); err != nil {
		return err
	}
	return s.dealerRepo.Save(ctx, account)
}

// SetStatus changes a dealer's trading status
func (s *BandService) SetStatus(ctx context.Context, dealerAccountID uuid.UUID, status dealer.AccountStatus) error {
	account, err := s.dealerRepo.FindByID(ctx, dealerAccountID)
	if err != nil {
		return err
	}
	if err := account.SetStatus(status); err != nil {
		return err
	}
	return s.dealerRepo.Save(ctx, account)
}

// AssignBands replaces a dealer's full assignment set. The input must carry
// exactly one band per part type; partial sets are rejected whole and the
// previous assignments stay untouched.
func (s *BandService) AssignBands(ctx context.Context, dealerAccountID uuid.UUID, inputs []dealer.AssignmentInput) ([]dealer.BandAssignment, error) {
	account, err := s.dealerRepo.FindByID(ctx, dealerAccountID)
	if err != nil {
		return nil, err
	}

	assignments, err := dealer.NewAssignmentSet(account.ID, inputs)
	if err != nil {
		return nil, err
	}

	if err := s.dealerRepo.ReplaceBandAssignments(ctx, account.ID, assignments); err != nil {
		return nil, fmt.Errorf("failed to replace band assignments: %w", err)
	}

	if err := s.cache.Delete(ctx, account.ID); err != nil {
		// Stale cache entries expire on TTL; the replace itself succeeded
		s.logger.Warn("failed to invalidate assignment cache",
			zap.String("dealer_account_id", account.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("band assignments replaced",
		zap.String("dealer_account_id", account.ID.String()),
		zap.String("account_number", account.AccountNumber))

	return assignments, nil
}

// GetAssignments returns the dealer's current assignment set
func (s *BandService) GetAssignments(ctx context.Context, dealerAccountID uuid.UUID) ([]dealer.BandAssignment, error) {
	if _, err := s.dealerRepo.FindByID(ctx, dealerAccountID); err != nil {
		return nil, err
	}
	return s.dealerRepo.FindBandAssignments(ctx, dealerAccountID)
}
