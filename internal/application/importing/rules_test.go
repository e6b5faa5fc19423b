package importing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/infrastructure/csvimport"
)

func TestRequiredColumns(t *testing.T) {
	tests := []struct {
		importType imports.ImportType
		want       []string
	}{
		{imports.ImportTypeGenuineProducts, []string{"product_code", "part_type"}},
		{imports.ImportTypeAftermarketProducts, []string{"product_code", "part_type"}},
		{imports.ImportTypeBackorders, []string{"account_number", "product_code", "quantity"}},
		{imports.ImportTypeSupersessions, []string{"product_code", "superseded_by"}},
		{imports.ImportTypeFulfillmentStatus, []string{"order_number", "status"}},
		{imports.ImportType("unknown"), nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RequiredColumns(tt.importType), string(tt.importType))
	}
}

func TestValidationRules(t *testing.T) {
	t.Run("every known import type has a rule list", func(t *testing.T) {
		for _, importType := range []imports.ImportType{
			imports.ImportTypeGenuineProducts,
			imports.ImportTypeAftermarketProducts,
			imports.ImportTypeBackorders,
			imports.ImportTypeSupersessions,
			imports.ImportTypeFulfillmentStatus,
		} {
			assert.NotEmpty(t, ValidationRules(importType), string(importType))
		}
		assert.Nil(t, ValidationRules(imports.ImportType("unknown")))
	})

	t.Run("product rules reject malformed part numbers", func(t *testing.T) {
		validator := csvimport.NewRowValidator(ValidationRules(imports.ImportTypeGenuineProducts))

		errs := validator.ValidateRow(&csvimport.Row{
			LineNumber: 2,
			Data: map[string]string{
				"product_code": "BRK 1",
				"part_type":    "GENUINE",
			},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "product_code", errs[0].Column)
		assert.Contains(t, errs[0].Message, "invalid product code")
	})

	t.Run("band level outside the declared codes is rejected", func(t *testing.T) {
		validator := csvimport.NewRowValidator(ValidationRules(imports.ImportTypeGenuineProducts))

		errs := validator.ValidateRow(&csvimport.Row{
			LineNumber: 2,
			Data: map[string]string{
				"product_code": "BRK-1",
				"part_type":    "GENUINE",
				"band_level":   "7",
				"band_price":   "10.00",
			},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, csvimport.ErrCodeInvalidEnum, errs[0].Code)
		assert.Equal(t, "must be one of: 1, 2, 3, 4", errs[0].Message)
	})

	t.Run("fulfillment status must be a declared value", func(t *testing.T) {
		validator := csvimport.NewRowValidator(ValidationRules(imports.ImportTypeFulfillmentStatus))

		errs := validator.ValidateRow(&csvimport.Row{
			LineNumber: 2,
			Data: map[string]string{
				"order_number": "SO-1",
				"status":       "LOST",
			},
		})
		require.Len(t, errs, 1)
		assert.Equal(t, csvimport.ErrCodeInvalidEnum, errs[0].Code)
	})
}
