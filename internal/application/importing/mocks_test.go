package importing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dealerportal/backend/internal/domain/backorder"
	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/dealerportal/backend/internal/domain/trade"
)

// mockBatchRepository is a mock implementation of imports.BatchRepository
type mockBatchRepository struct {
	mock.Mock
}

func (m *mockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*imports.ImportBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imports.ImportBatch), args.Error(1)
}

func (m *mockBatchRepository) FindAll(ctx context.Context, filter imports.BatchFilter, page, pageSize int) (*imports.BatchListResult, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imports.BatchListResult), args.Error(1)
}

func (m *mockBatchRepository) Save(ctx context.Context, batch *imports.ImportBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *mockBatchRepository) SaveProductRows(ctx context.Context, rows []*imports.ProductStagingRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *mockBatchRepository) SaveBackorderRows(ctx context.Context, rows []*imports.BackorderStagingRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *mockBatchRepository) SaveSupersessionRows(ctx context.Context, rows []*imports.SupersessionStagingRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *mockBatchRepository) SaveFulfillmentRows(ctx context.Context, rows []*imports.FulfillmentStagingRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *mockBatchRepository) FindProductRows(ctx context.Context, batchID uuid.UUID) ([]*imports.ProductStagingRow, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*imports.ProductStagingRow), args.Error(1)
}

func (m *mockBatchRepository) FindBackorderRows(ctx context.Context, batchID uuid.UUID) ([]*imports.BackorderStagingRow, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*imports.BackorderStagingRow), args.Error(1)
}

func (m *mockBatchRepository) FindSupersessionRows(ctx context.Context, batchID uuid.UUID) ([]*imports.SupersessionStagingRow, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*imports.SupersessionStagingRow), args.Error(1)
}

func (m *mockBatchRepository) FindFulfillmentRows(ctx context.Context, batchID uuid.UUID) ([]*imports.FulfillmentStagingRow, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*imports.FulfillmentStagingRow), args.Error(1)
}

func (m *mockBatchRepository) SaveErrors(ctx context.Context, errs []*imports.ImportError) error {
	args := m.Called(ctx, errs)
	return args.Error(0)
}

func (m *mockBatchRepository) FindErrors(ctx context.Context, batchID uuid.UUID, page, pageSize int) ([]*imports.ImportError, int64, error) {
	args := m.Called(ctx, batchID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*imports.ImportError), args.Get(1).(int64), args.Error(2)
}

func (m *mockBatchRepository) FindAllErrors(ctx context.Context, batchID uuid.UUID) ([]*imports.ImportError, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*imports.ImportError), args.Error(1)
}

// mockProductRepository is a mock implementation of catalog.ProductRepository
type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) FindByCodes(ctx context.Context, codes []string) ([]catalog.Product, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) UpsertStock(ctx context.Context, stock *catalog.ProductStock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *mockProductRepository) UpsertPriceReference(ctx context.Context, ref *catalog.ProductPriceReference) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *mockProductRepository) UpsertPriceBand(ctx context.Context, band *catalog.ProductPriceBand) error {
	args := m.Called(ctx, band)
	return args.Error(0)
}

func (m *mockProductRepository) UpsertAlias(ctx context.Context, alias *catalog.ProductAlias) error {
	args := m.Called(ctx, alias)
	return args.Error(0)
}

func (m *mockProductRepository) FindPriceBands(ctx context.Context, productIDs []uuid.UUID) ([]catalog.ProductPriceBand, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductPriceBand), args.Error(1)
}

func (m *mockProductRepository) FindPriceReferences(ctx context.Context, productIDs []uuid.UUID) ([]catalog.ProductPriceReference, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductPriceReference), args.Error(1)
}

func (m *mockProductRepository) FindStock(ctx context.Context, productIDs []uuid.UUID) ([]catalog.ProductStock, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductStock), args.Error(1)
}

// mockBackorderRepository is a mock implementation of backorder.Repository
type mockBackorderRepository struct {
	mock.Mock
}

func (m *mockBackorderRepository) FindCurrent(ctx context.Context) (*backorder.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backorder.Dataset), args.Error(1)
}

func (m *mockBackorderRepository) FindByID(ctx context.Context, id uuid.UUID) (*backorder.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backorder.Dataset), args.Error(1)
}

func (m *mockBackorderRepository) SwapCurrent(ctx context.Context, dataset *backorder.Dataset, lines []*backorder.Line) error {
	args := m.Called(ctx, dataset, lines)
	return args.Error(0)
}

func (m *mockBackorderRepository) FindLines(ctx context.Context, datasetID uuid.UUID) ([]*backorder.Line, error) {
	args := m.Called(ctx, datasetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*backorder.Line), args.Error(1)
}

func (m *mockBackorderRepository) FindLinesForAccount(ctx context.Context, accountNumber string) ([]*backorder.Line, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*backorder.Line), args.Error(1)
}

// mockOrderRepository is a mock implementation of trade.OrderRepository
type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.DealerOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.DealerOrder), args.Error(1)
}

func (m *mockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.DealerOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.DealerOrder), args.Error(1)
}

func (m *mockOrderRepository) FindByOrderNumbers(ctx context.Context, orderNumbers []string) ([]trade.DealerOrder, error) {
	args := m.Called(ctx, orderNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.DealerOrder), args.Error(1)
}

func (m *mockOrderRepository) Save(ctx context.Context, order *trade.DealerOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// fakeUnitOfWork runs the callback directly, counting invocations
type fakeUnitOfWork struct {
	calls int
	err   error
}

func (u *fakeUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	if u.err != nil {
		return u.err
	}
	return fn(ctx)
}

var (
	_ imports.BatchRepository   = (*mockBatchRepository)(nil)
	_ catalog.ProductRepository = (*mockProductRepository)(nil)
	_ backorder.Repository      = (*mockBackorderRepository)(nil)
	_ trade.OrderRepository     = (*mockOrderRepository)(nil)
	_ shared.UnitOfWork         = (*fakeUnitOfWork)(nil)
)
