package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceSource names where a resolved price came from
type PriceSource string

const (
	// PriceSourceBand means the dealer's assigned band had a price for the product
	PriceSourceBand PriceSource = "BAND"
	// PriceSourceReference means no band price existed and a reference price was used
	PriceSourceReference PriceSource = "REFERENCE"
	// PriceSourceUnresolved means no usable price exists at all
	PriceSourceUnresolved PriceSource = "UNRESOLVED"
)

// ResolvedPrice is the pricing outcome for one product. A product with no
// band and no fallback price is returned unresolved, never silently priced
// at zero.
type ResolvedPrice struct {
	ProductCode string           `json:"product_code"`
	Description string           `json:"description"`
	PartType    catalog.PartType `json:"part_type"`
	BandCode    catalog.BandCode `json:"band_code,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Source      PriceSource      `json:"source"`
}

// Resolved reports whether a usable price was found
func (r ResolvedPrice) Resolved() bool {
	return r.Source != PriceSourceUnresolved
}

// PriceService resolves dealer-specific prices. Lookups are batched: one
// assignment read and three catalog reads per request regardless of how
// many products are asked for.
type PriceService struct {
	dealerRepo  dealer.AccountRepository
	productRepo catalog.ProductRepository
	cache       dealer.AssignmentCache
	logger      *zap.Logger
}

// NewPriceService creates a new PriceService
func NewPriceService(
	dealerRepo dealer.AccountRepository,
	productRepo catalog.ProductRepository,
	cache dealer.AssignmentCache,
	logger *zap.Logger,
) *PriceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceService{
		dealerRepo:  dealerRepo,
		productRepo: productRepo,
		cache:       cache,
		logger:      logger,
	}
}

// ResolvePrices resolves prices for the given product codes as seen by one
// dealer. Products hidden by the dealer's entitlement are omitted; requested
// codes that do not exist come back unresolved.
func (s *PriceService) ResolvePrices(ctx context.Context, dealerAccountID uuid.UUID, productCodes []string) ([]ResolvedPrice, error) {
	if len(productCodes) == 0 {
		return []ResolvedPrice{}, nil
	}

	account, err := s.dealerRepo.FindByID(ctx, dealerAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_NOT_ACTIVE",
			fmt.Sprintf("Dealer account %s is not active", account.AccountNumber))
	}

	bandLookup, err := s.bandLookup(ctx, dealerAccountID)
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(productCodes))
	for i, c := range productCodes {
		codes[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	products, err := s.productRepo.FindByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byCode := make(map[string]*catalog.Product, len(products))
	productIDs := make([]uuid.UUID, 0, len(products))
	for i := range products {
		byCode[products[i].Code] = &products[i]
		productIDs = append(productIDs, products[i].ID)
	}

	bands, err := s.productRepo.FindPriceBands(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load band prices: %w", err)
	}
	bandPrices := make(map[uuid.UUID]map[catalog.BandCode]decimal.Decimal, len(productIDs))
	for _, b := range bands {
		if bandPrices[b.ProductID] == nil {
			bandPrices[b.ProductID] = make(map[catalog.BandCode]decimal.Decimal, len(catalog.AllBandCodes()))
		}
		bandPrices[b.ProductID][b.BandCode] = b.Price
	}

	refs, err := s.productRepo.FindPriceReferences(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference prices: %w", err)
	}
	references := make(map[uuid.UUID]*catalog.ProductPriceReference, len(refs))
	for i := range refs {
		references[refs[i].ProductID] = &refs[i]
	}

	results := make([]ResolvedPrice, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		product, ok := byCode[code]
		if !ok {
			results = append(results, ResolvedPrice{
				ProductCode: code,
				Source:      PriceSourceUnresolved,
			})
			continue
		}
		if !account.Entitlement.AllowsPartType(product.PartType) {
			continue
		}

		results = append(results, s.resolveOne(product, bandLookup, bandPrices[product.ID], references[product.ID]))
	}

	return results, nil
}

// resolveOne applies the band-then-reference fallback for a single product
func (s *PriceService) resolveOne(
	product *catalog.Product,
	bandLookup map[catalog.PartType]catalog.BandCode,
	bands map[catalog.BandCode]decimal.Decimal,
	ref *catalog.ProductPriceReference,
) ResolvedPrice {
	resolved := ResolvedPrice{
		ProductCode: product.Code,
		Description: product.Description,
		PartType:    product.PartType,
	}

	bandCode := bandLookup[product.PartType]
	if price, ok := bands[bandCode]; ok {
		resolved.BandCode = bandCode
		resolved.Price = price
		resolved.Source = PriceSourceBand
		return resolved
	}

	if ref != nil && ref.HasFallback() {
		resolved.Price = ref.FallbackPrice()
		resolved.Source = PriceSourceReference
		return resolved
	}

	resolved.Source = PriceSourceUnresolved
	return resolved
}

// bandLookup returns the dealer's partType to bandCode map, served from the
// assignment cache when warm
func (s *PriceService) bandLookup(ctx context.Context, dealerAccountID uuid.UUID) (map[catalog.PartType]catalog.BandCode, error) {
	assignments, err := s.cache.Get(ctx, dealerAccountID)
	if err != nil {
		// Cache failures degrade to a repository read
		s.logger.Warn("assignment cache read failed",
			zap.String("dealer_account_id", dealerAccountID.String()),
			zap.Error(err))
		assignments = nil
	}

	if assignments == nil {
		assignments, err = s.dealerRepo.FindBandAssignments(ctx, dealerAccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to load band assignments: %w", err)
		}
		if err := s.cache.Set(ctx, dealerAccountID, assignments, 0); err != nil {
			s.logger.Warn("assignment cache write failed",
				zap.String("dealer_account_id", dealerAccountID.String()),
				zap.Error(err))
		}
	}

	return dealer.BandLookup(assignments)
}
