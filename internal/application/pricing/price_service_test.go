package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/domain/shared"
)

// mockAccountRepository is a mock implementation of dealer.AccountRepository
type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*dealer.DealerAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.DealerAccount), args.Error(1)
}

func (m *mockAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*dealer.DealerAccount, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dealer.DealerAccount), args.Error(1)
}

func (m *mockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]dealer.DealerAccount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dealer.DealerAccount), args.Error(1)
}

func (m *mockAccountRepository) Save(ctx context.Context, account *dealer.DealerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) FindBandAssignments(ctx context.Context, dealerAccountID uuid.UUID) ([]dealer.BandAssignment, error) {
	args := m.Called(ctx, dealerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dealer.BandAssignment), args.Error(1)
}

func (m *mockAccountRepository) ReplaceBandAssignments(ctx context.Context, dealerAccountID uuid.UUID, assignments []dealer.BandAssignment) error {
	args := m.Called(ctx, dealerAccountID, assignments)
	return args.Error(0)
}

// mockAssignmentCache is a mock implementation of dealer.AssignmentCache
type mockAssignmentCache struct {
	mock.Mock
}

func (m *mockAssignmentCache) Get(ctx context.Context, dealerAccountID uuid.UUID) ([]dealer.BandAssignment, error) {
	args := m.Called(ctx, dealerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dealer.BandAssignment), args.Error(1)
}

func (m *mockAssignmentCache) Set(ctx context.Context, dealerAccountID uuid.UUID, assignments []dealer.BandAssignment, ttl time.Duration) error {
	args := m.Called(ctx, dealerAccountID, assignments, ttl)
	return args.Error(0)
}

func (m *mockAssignmentCache) Delete(ctx context.Context, dealerAccountID uuid.UUID) error {
	args := m.Called(ctx, dealerAccountID)
	return args.Error(0)
}

func (m *mockAssignmentCache) Close() error {
	args := m.Called()
	return args.Error(0)
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

var (
	_ dealer.AccountRepository  = (*mockAccountRepository)(nil)
	_ dealer.AssignmentCache    = (*mockAssignmentCache)(nil)
	_ catalog.ProductRepository = (*mockProductRepository)(nil)
)

type priceFixture struct {
	dealerRepo  *mockAccountRepository
	productRepo *mockProductRepository
	cache       *mockAssignmentCache
	service     *PriceService

	account     *dealer.DealerAccount
	assignments []dealer.BandAssignment
}

func newPriceFixture(t *testing.T, entitlement dealer.Entitlement) *priceFixture {
	t.Helper()

	account, err := dealer.NewDealerAccount("D100", "Test Motors", entitlement)
	require.NoError(t, err)

	assignments, err := dealer.NewAssignmentSet(account.ID, []dealer.AssignmentInput{
		{PartType: catalog.PartTypeGenuine, BandCode: catalog.Band2},
		{PartType: catalog.PartTypeAftermarket, BandCode: catalog.Band3},
		{PartType: catalog.PartTypeBranded, BandCode: catalog.Band1},
	})
	require.NoError(t, err)

	f := &priceFixture{
		dealerRepo:  new(mockAccountRepository),
		productRepo: new(mockProductRepository),
		cache:       new(mockAssignmentCache),
		account:     account,
		assignments: assignments,
	}
	f.service = NewPriceService(f.dealerRepo, f.productRepo, f.cache, nil)
	return f
}

func (f *priceFixture) expectColdCache() {
	f.cache.On("Get", mock.Anything, f.account.ID).Return(nil, nil)
	f.dealerRepo.On("FindBandAssignments", mock.Anything, f.account.ID).Return(f.assignments, nil)
	f.cache.On("Set", mock.Anything, f.account.ID, f.assignments, time.Duration(0)).Return(nil)
}

func mustProduct(t *testing.T, code string, partType catalog.PartType) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, "test product", partType)
	require.NoError(t, err)
	return *p
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestResolvePrices(t *testing.T) {
	ctx := context.Background()

	t.Run("band price wins for the dealer's assigned band", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)
		product := mustProduct(t, "BRK-1", catalog.PartTypeGenuine)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.expectColdCache()
		f.productRepo.On("FindByCodes", mock.Anything, []string{"BRK-1"}).Return([]catalog.Product{product}, nil)
		f.productRepo.On("FindPriceBands", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.ProductPriceBand{
			{ProductID: product.ID, BandCode: catalog.Band2, Price: price("45.50")},
			{ProductID: product.ID, BandCode: catalog.Band3, Price: price("48.00")},
		}, nil)
		f.productRepo.On("FindPriceReferences", mock.Anything, []uuid.UUID{product.ID}).Return(nil, nil)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"brk-1"})
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, PriceSourceBand, results[0].Source)
		assert.Equal(t, catalog.Band2, results[0].BandCode)
		assert.True(t, results[0].Price.Equal(price("45.50")))
		assert.True(t, results[0].Resolved())
	})

	t.Run("reference trade price is the fallback over retail", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)
		product := mustProduct(t, "FLT-2", catalog.PartTypeAftermarket)

		ref, err := catalog.NewProductPriceReference(product.ID,
			price("20.00"), price("50.00"), price("40.00"), price("60.00"))
		require.NoError(t, err)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.expectColdCache()
		f.productRepo.On("FindByCodes", mock.Anything, []string{"FLT-2"}).Return([]catalog.Product{product}, nil)
		f.productRepo.On("FindPriceBands", mock.Anything, []uuid.UUID{product.ID}).Return(nil, nil)
		f.productRepo.On("FindPriceReferences", mock.Anything, []uuid.UUID{product.ID}).
			Return([]catalog.ProductPriceReference{*ref}, nil)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"FLT-2"})
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, PriceSourceReference, results[0].Source)
		assert.Empty(t, results[0].BandCode)
		assert.True(t, results[0].Price.Equal(price("40.00")))
	})

	t.Run("no band and no fallback comes back unresolved", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)
		product := mustProduct(t, "NPF-9", catalog.PartTypeGenuine)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.expectColdCache()
		f.productRepo.On("FindByCodes", mock.Anything, []string{"NPF-9"}).Return([]catalog.Product{product}, nil)
		f.productRepo.On("FindPriceBands", mock.Anything, []uuid.UUID{product.ID}).Return(nil, nil)
		f.productRepo.On("FindPriceReferences", mock.Anything, []uuid.UUID{product.ID}).Return(nil, nil)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"NPF-9"})
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, PriceSourceUnresolved, results[0].Source)
		assert.False(t, results[0].Resolved())
		assert.True(t, results[0].Price.IsZero())
	})

	t.Run("unknown product codes come back unresolved", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.expectColdCache()
		f.productRepo.On("FindByCodes", mock.Anything, []string{"XXX-404"}).Return(nil, nil)
		f.productRepo.On("FindPriceBands", mock.Anything, mock.Anything).Return(nil, nil)
		f.productRepo.On("FindPriceReferences", mock.Anything, mock.Anything).Return(nil, nil)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"XXX-404"})
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, "XXX-404", results[0].ProductCode)
		assert.Equal(t, PriceSourceUnresolved, results[0].Source)
	})

	t.Run("products hidden by the entitlement are omitted", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementGenuineOnly)
		genuine := mustProduct(t, "BRK-1", catalog.PartTypeGenuine)
		aftermarket := mustProduct(t, "FLT-2", catalog.PartTypeAftermarket)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.expectColdCache()
		f.productRepo.On("FindByCodes", mock.Anything, []string{"BRK-1", "FLT-2"}).
			Return([]catalog.Product{genuine, aftermarket}, nil)
		f.productRepo.On("FindPriceBands", mock.Anything, mock.Anything).Return([]catalog.ProductPriceBand{
			{ProductID: genuine.ID, BandCode: catalog.Band2, Price: price("45.50")},
			{ProductID: aftermarket.ID, BandCode: catalog.Band3, Price: price("12.00")},
		}, nil)
		f.productRepo.On("FindPriceReferences", mock.Anything, mock.Anything).Return(nil, nil)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"BRK-1", "FLT-2"})
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, "BRK-1", results[0].ProductCode)
	})

	t.Run("inactive account cannot resolve prices", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)
		require.NoError(t, f.account.SetStatus(dealer.AccountStatusSuspended))

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)

		_, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"BRK-1"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_NOT_ACTIVE", domainErr.Code)
	})

	t.Run("empty input short-circuits", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
		f.dealerRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("duplicate and unnormalized codes collapse to one result", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)
		product := mustProduct(t, "BRK-1", catalog.PartTypeGenuine)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.expectColdCache()
		f.productRepo.On("FindByCodes", mock.Anything, []string{"BRK-1", "BRK-1"}).
			Return([]catalog.Product{product}, nil)
		f.productRepo.On("FindPriceBands", mock.Anything, mock.Anything).Return([]catalog.ProductPriceBand{
			{ProductID: product.ID, BandCode: catalog.Band2, Price: price("45.50")},
		}, nil)
		f.productRepo.On("FindPriceReferences", mock.Anything, mock.Anything).Return(nil, nil)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, []string{" brk-1 ", "BRK-1"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestResolvePricesCache(t *testing.T) {
	ctx := context.Background()

	t.Run("warm cache skips the assignment read", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)
		product := mustProduct(t, "BRK-1", catalog.PartTypeGenuine)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.cache.On("Get", mock.Anything, f.account.ID).Return(f.assignments, nil)
		f.productRepo.On("FindByCodes", mock.Anything, mock.Anything).Return([]catalog.Product{product}, nil)
		f.productRepo.On("FindPriceBands", mock.Anything, mock.Anything).Return([]catalog.ProductPriceBand{
			{ProductID: product.ID, BandCode: catalog.Band2, Price: price("45.50")},
		}, nil)
		f.productRepo.On("FindPriceReferences", mock.Anything, mock.Anything).Return(nil, nil)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"BRK-1"})
		require.NoError(t, err)
		require.Len(t, results, 1)

		f.dealerRepo.AssertNotCalled(t, "FindBandAssignments", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache failure degrades to the repository", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)
		product := mustProduct(t, "BRK-1", catalog.PartTypeGenuine)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.cache.On("Get", mock.Anything, f.account.ID).Return(nil, assert.AnError)
		f.dealerRepo.On("FindBandAssignments", mock.Anything, f.account.ID).Return(f.assignments, nil)
		f.cache.On("Set", mock.Anything, f.account.ID, f.assignments, time.Duration(0)).Return(nil)
		f.productRepo.On("FindByCodes", mock.Anything, mock.Anything).Return([]catalog.Product{product}, nil)
		f.productRepo.On("FindPriceBands", mock.Anything, mock.Anything).Return([]catalog.ProductPriceBand{
			{ProductID: product.ID, BandCode: catalog.Band2, Price: price("45.50")},
		}, nil)
		f.productRepo.On("FindPriceReferences", mock.Anything, mock.Anything).Return(nil, nil)

		results, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"BRK-1"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, PriceSourceBand, results[0].Source)
	})

	t.Run("broken assignment set fails resolution", func(t *testing.T) {
		f := newPriceFixture(t, dealer.EntitlementShowAll)

		f.dealerRepo.On("FindByID", mock.Anything, f.account.ID).Return(f.account, nil)
		f.cache.On("Get", mock.Anything, f.account.ID).Return(nil, nil)
		f.dealerRepo.On("FindBandAssignments", mock.Anything, f.account.ID).Return(f.assignments[:2], nil)
		f.cache.On("Set", mock.Anything, f.account.ID, mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.ResolvePrices(ctx, f.account.ID, []string{"BRK-1"})
		assert.ErrorIs(t, err, shared.ErrInvariantViolation)
	})
}
