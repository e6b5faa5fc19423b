package importing

import (
	"fmt"

	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/domain/trade"
	"github.com/dealerportal/backend/internal/infrastructure/csvimport"
)

// Column names shared by the product import types
const (
	colProductCode  = "product_code"
	colDescription  = "description"
	colPartType     = "part_type"
	colFreeStock    = "free_stock"
	colCostPrice    = "cost_price"
	colRetailPrice  = "retail_price"
	colTradePrice   = "trade_price"
	colListPrice    = "list_price"
	colBandLevel    = "band_level"
	colBandPrice    = "band_price"
	colAccountNum   = "account_number"
	colOrderNumber  = "order_number"
	colQuantity     = "quantity"
	colExpectedDate = "expected_date"
	colSupersededBy = "superseded_by"
	colStatus       = "status"
	colShippedDate  = "shipped_date"
	colCarrierRef   = "carrier_reference"
)

// RequiredColumns returns the header columns that must be present for an
// import type. A missing column is a structural error that aborts the upload
// before any batch is created.
func RequiredColumns(importType imports.ImportType) []string {
	switch importType {
	case imports.ImportTypeGenuineProducts, imports.ImportTypeAftermarketProducts:
		return []string{colProductCode, colPartType}
	case imports.ImportTypeBackorders:
		return []string{colAccountNum, colProductCode, colQuantity}
	case imports.ImportTypeSupersessions:
		return []string{colProductCode, colSupersededBy}
	case imports.ImportTypeFulfillmentStatus:
		return []string{colOrderNumber, colStatus}
	default:
		return nil
	}
}

// ValidationRules returns the rule list applied to every data row of an
// import type. Adding an import type means adding a rule list and a commit
// handler; the validator itself never changes.
func ValidationRules(importType imports.ImportType) []csvimport.FieldRule {
	switch importType {
	case imports.ImportTypeGenuineProducts, imports.ImportTypeAftermarketProducts:
		return productRules()
	case imports.ImportTypeBackorders:
		return backorderRules()
	case imports.ImportTypeSupersessions:
		return supersessionRules()
	case imports.ImportTypeFulfillmentStatus:
		return fulfillmentRules()
	default:
		return nil
	}
}

func productRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field(colProductCode).Required().MaxLength(50).Custom(validateProductCode).Build(),
		csvimport.Field(colDescription).MaxLength(200).Build(),
		csvimport.Field(colPartType).Required().OneOf(
			string(catalog.PartTypeGenuine),
			string(catalog.PartTypeAftermarket),
			string(catalog.PartTypeBranded),
		).Build(),
		csvimport.Field(colFreeStock).NonNegative().Build(),
		csvimport.Field(colCostPrice).NonNegative().Build(),
		csvimport.Field(colRetailPrice).NonNegative().Build(),
		csvimport.Field(colTradePrice).NonNegative().Build(),
		csvimport.Field(colListPrice).NonNegative().Build(),
		// Band columns travel as a pair: one without the other fails the row
		csvimport.Field(colBandLevel).OneOf(bandCodes()...).RequiresAll(colBandPrice).Build(),
		csvimport.Field(colBandPrice).NonNegative().RequiresAll(colBandLevel).Build(),
	}
}

func backorderRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field(colAccountNum).Required().MaxLength(20).Build(),
		csvimport.Field(colProductCode).Required().MaxLength(50).Custom(validateProductCode).Build(),
		csvimport.Field(colOrderNumber).MaxLength(50).Build(),
		csvimport.Field(colQuantity).Required().NonNegative().Build(),
		csvimport.Field(colExpectedDate).Date().Build(),
	}
}

func supersessionRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field(colProductCode).Required().MaxLength(50).Custom(validateProductCode).Build(),
		csvimport.Field(colSupersededBy).Required().MaxLength(50).Custom(validateProductCode).Build(),
	}
}

func fulfillmentRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field(colOrderNumber).Required().MaxLength(50).Build(),
		csvimport.Field(colStatus).Required().OneOf(
			string(trade.FulfillmentPending),
			string(trade.FulfillmentPicked),
			string(trade.FulfillmentShipped),
			string(trade.FulfillmentBackordered),
			string(trade.FulfillmentCancelled),
		).Build(),
		csvimport.Field(colShippedDate).Date().Build(),
		csvimport.Field(colCarrierRef).MaxLength(100).Build(),
	}
}

func bandCodes() []string {
	codes := catalog.AllBandCodes()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}

func validateProductCode(value string) error {
	if err := catalog.ValidateProductCode(value); err != nil {
		return fmt.Errorf("invalid product code: %s", err.Error())
	}
	return nil
}
