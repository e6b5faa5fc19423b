package dealer

import (
	"context"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountRepository defines the persistence interface for dealer accounts
// and their band assignments
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DealerAccount, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*DealerAccount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]DealerAccount, error)
	Save(ctx context.Context, account *DealerAccount) error

	// FindBandAssignments returns the dealer's assignments. For an active
	// dealer this is always exactly three rows with distinct part types.
	FindBandAssignments(ctx context.Context, dealerAccountID uuid.UUID) ([]BandAssignment, error)

	// ReplaceBandAssignments atomically replaces all assignments for the
	// dealer. Readers never observe fewer or more than three rows.
	ReplaceBandAssignments(ctx context.Context, dealerAccountID uuid.UUID, assignments []BandAssignment) error
}
