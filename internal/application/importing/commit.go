package importing

import (
	"context"
	"fmt"
	"time"

	"github.com/dealerportal/backend/internal/domain/backorder"
	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/dealerportal/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

const importDateFormat = "2006-01-02"

// commit applies every valid staging row of a batch to the live tables.
// It always runs inside one transaction: any error rolls the whole batch
// back and no partial data ever reaches readers.
func (s *ImportService) commit(ctx context.Context, importType imports.ImportType, batch *imports.ImportBatch, staged *stagedBatch) error {
	switch importType {
	case imports.ImportTypeGenuineProducts, imports.ImportTypeAftermarketProducts:
		return s.commitProducts(ctx, staged.product)
	case imports.ImportTypeBackorders:
		return s.commitBackorders(ctx, batch, staged.backorder)
	case imports.ImportTypeSupersessions:
		return s.commitSupersessions(ctx, staged.supersession)
	case imports.ImportTypeFulfillmentStatus:
		return s.commitFulfillments(ctx, staged.fulfillment)
	default:
		return shared.NewDomainError("INVALID_IMPORT_TYPE", fmt.Sprintf("No commit handler for import type %s", importType))
	}
}

// commitProducts upserts catalog rows keyed on product code. Stock, reference
// prices and band prices are replaced only when the row carries them.
func (s *ImportService) commitProducts(ctx context.Context, rows []*imports.ProductStagingRow) error {
	for _, row := range rows {
		if !row.IsValid {
			continue
		}

		partType := catalog.PartType(row.PartType)

		product, err := s.productRepo.FindByCode(ctx, row.ProductCode)
		switch err {
		case nil:
			if err := product.Update(row.Description, partType, true); err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
		case shared.ErrNotFound:
			product, err = catalog.NewProduct(row.ProductCode, row.Description, partType)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
		default:
			return fmt.Errorf("row %d: failed to look up product: %w", row.RowNumber, err)
		}

		if err := s.productRepo.Save(ctx, product); err != nil {
			return fmt.Errorf("row %d: failed to save product: %w", row.RowNumber, err)
		}

		if row.FreeStock != "" {
			qty, err := decimal.NewFromString(row.FreeStock)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			stock, err := catalog.NewProductStock(product.ID, qty)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			if err := s.productRepo.UpsertStock(ctx, stock); err != nil {
				return fmt.Errorf("row %d: failed to upsert stock: %w", row.RowNumber, err)
			}
		}

		if row.CostPrice != "" || row.RetailPrice != "" || row.TradePrice != "" || row.ListPrice != "" {
			cost, err := parsePrice(row.CostPrice)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			retail, err := parsePrice(row.RetailPrice)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			tradePrice, err := parsePrice(row.TradePrice)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			list, err := parsePrice(row.ListPrice)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}

			ref, err := catalog.NewProductPriceReference(product.ID, cost, retail, tradePrice, list)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			if err := s.productRepo.UpsertPriceReference(ctx, ref); err != nil {
				return fmt.Errorf("row %d: failed to upsert reference prices: %w", row.RowNumber, err)
			}
		}

		if row.BandLevel != "" && row.BandPrice != "" {
			price, err := parsePrice(row.BandPrice)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			band, err := catalog.NewProductPriceBand(product.ID, catalog.BandCode(row.BandLevel), price)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			if err := s.productRepo.UpsertPriceBand(ctx, band); err != nil {
				return fmt.Errorf("row %d: failed to upsert band price: %w", row.RowNumber, err)
			}
		}
	}
	return nil
}

// commitBackorders swaps in a fresh snapshot. The previous dataset is
// superseded in the same transaction, never deleted.
func (s *ImportService) commitBackorders(ctx context.Context, batch *imports.ImportBatch, rows []*imports.BackorderStagingRow) error {
	dataset := backorder.NewDataset(batch.ID)

	lines := make([]*backorder.Line, 0, len(rows))
	for _, row := range rows {
		if !row.IsValid {
			continue
		}

		qty, err := decimal.NewFromString(row.Quantity)
		if err != nil {
			return fmt.Errorf("row %d: %w", row.RowNumber, err)
		}

		var expected *time.Time
		if row.ExpectedDate != "" {
			d, err := time.Parse(importDateFormat, row.ExpectedDate)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			expected = &d
		}

		line, err := backorder.NewLine(dataset.ID, row.AccountNumber, row.ProductCode, row.OrderNumber, qty, expected)
		if err != nil {
			return fmt.Errorf("row %d: %w", row.RowNumber, err)
		}
		lines = append(lines, line)
	}

	return s.backorderRepo.SwapCurrent(ctx, dataset, lines)
}

// commitSupersessions records replacement codes on the superseded products
// and keeps the old part numbers resolvable through aliases
func (s *ImportService) commitSupersessions(ctx context.Context, rows []*imports.SupersessionStagingRow) error {
	var codes []string
	for _, row := range rows {
		if !row.IsValid {
			continue
		}
		codes = append(codes, row.ProductCode, row.SupersededBy)
	}
	if len(codes) == 0 {
		return nil
	}

	products, err := s.productRepo.FindByCodes(ctx, codes)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	byCode := make(map[string]*catalog.Product, len(products))
	for i := range products {
		byCode[products[i].Code] = &products[i]
	}

	for _, row := range rows {
		if !row.IsValid {
			continue
		}

		product, ok := byCode[row.ProductCode]
		if !ok {
			// Validated against the catalog before commit; a miss here means
			// the catalog changed underneath the batch
			return fmt.Errorf("row %d: product %s disappeared during commit", row.RowNumber, row.ProductCode)
		}

		if err := product.Supersede(row.SupersededBy); err != nil {
			return fmt.Errorf("row %d: %w", row.RowNumber, err)
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			return fmt.Errorf("row %d: failed to save product: %w", row.RowNumber, err)
		}

		if replacement, ok := byCode[row.SupersededBy]; ok {
			alias, err := catalog.NewProductAlias(replacement.ID, row.ProductCode)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			if err := s.productRepo.UpsertAlias(ctx, alias); err != nil {
				return fmt.Errorf("row %d: failed to upsert alias: %w", row.RowNumber, err)
			}
		}
	}
	return nil
}

// commitFulfillments applies targeted status updates to existing orders
func (s *ImportService) commitFulfillments(ctx context.Context, rows []*imports.FulfillmentStagingRow) error {
	var orderNumbers []string
	for _, row := range rows {
		if !row.IsValid {
			continue
		}
		orderNumbers = append(orderNumbers, row.OrderNumber)
	}
	if len(orderNumbers) == 0 {
		return nil
	}

	orders, err := s.orderRepo.FindByOrderNumbers(ctx, orderNumbers)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	byNumber := make(map[string]*trade.DealerOrder, len(orders))
	for i := range orders {
		byNumber[orders[i].OrderNumber] = &orders[i]
	}

	for _, row := range rows {
		if !row.IsValid {
			continue
		}

		order, ok := byNumber[row.OrderNumber]
		if !ok {
			return fmt.Errorf("row %d: order %s disappeared during commit", row.RowNumber, row.OrderNumber)
		}

		var shippedAt *time.Time
		if row.ShippedDate != "" {
			d, err := time.Parse(importDateFormat, row.ShippedDate)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.RowNumber, err)
			}
			shippedAt = &d
		}

		if err := order.UpdateFulfillment(trade.FulfillmentStatus(row.Status), shippedAt, row.CarrierReference); err != nil {
			return fmt.Errorf("row %d: %w", row.RowNumber, err)
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return fmt.Errorf("row %d: failed to save order: %w", row.RowNumber, err)
		}
	}
	return nil
}

// parsePrice parses an optional price column, treating empty as zero
func parsePrice(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}
