package imports

import (
	"context"

	"github.com/google/uuid"
)

// BatchFilter narrows batch listings
type BatchFilter struct {
	ImportType *ImportType
	Status     *BatchStatus
}

// BatchListResult is one page of batches
type BatchListResult struct {
	Batches    []*ImportBatch
	TotalCount int64
	Page       int
	PageSize   int
}

// BatchRepository defines the persistence interface for import batches,
// their staging rows and their error records
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ImportBatch, error)
	FindAll(ctx context.Context, filter BatchFilter, page, pageSize int) (*BatchListResult, error)
	Save(ctx context.Context, batch *ImportBatch) error

	SaveProductRows(ctx context.Context, rows []*ProductStagingRow) error
	SaveBackorderRows(ctx context.Context, rows []*BackorderStagingRow) error
	SaveSupersessionRows(ctx context.Context, rows []*SupersessionStagingRow) error
	SaveFulfillmentRows(ctx context.Context, rows []*FulfillmentStagingRow) error

	FindProductRows(ctx context.Context, batchID uuid.UUID) ([]*ProductStagingRow, error)
	FindBackorderRows(ctx context.Context, batchID uuid.UUID) ([]*BackorderStagingRow, error)
	FindSupersessionRows(ctx context.Context, batchID uuid.UUID) ([]*SupersessionStagingRow, error)
	FindFulfillmentRows(ctx context.Context, batchID uuid.UUID) ([]*FulfillmentStagingRow, error)

	SaveErrors(ctx context.Context, errs []*ImportError) error
	FindErrors(ctx context.Context, batchID uuid.UUID, page, pageSize int) ([]*ImportError, int64, error)
	FindAllErrors(ctx context.Context, batchID uuid.UUID) ([]*ImportError, error)
}
