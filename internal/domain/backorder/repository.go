package backorder

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for backorder snapshots
type Repository interface {
	FindCurrent(ctx context.Context) (*Dataset, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Dataset, error)

	// SwapCurrent persists the dataset with its lines, marks it current and
	// supersedes the previously current dataset in the same transaction.
	// There is no window in which neither or both datasets are current.
	SwapCurrent(ctx context.Context, dataset *Dataset, lines []*Line) error

	FindLines(ctx context.Context, datasetID uuid.UUID) ([]*Line, error)
	FindLinesForAccount(ctx context.Context, accountNumber string) ([]*Line, error)
}
