package imports

import (
	"strings"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StagingFields carries the provenance and validity state shared by every
// staging row shape. Rows are created by the staging loader, mutated once by
// the row validator and then read-only; they survive the commit for audit.
type StagingFields struct {
	shared.BaseEntity
	BatchID          uuid.UUID `gorm:"type:uuid;not null;index"`
	RowNumber        int       `gorm:"not null"`
	IsValid          bool      `gorm:"not null;default:false"`
	ValidationErrors string    `gorm:"type:text"` // newline-joined, ordered
}

// NewStagingFields creates the common staging state for a parsed row
func NewStagingFields(batchID uuid.UUID, rowNumber int) StagingFields {
	return StagingFields{
		BaseEntity: shared.NewBaseEntity(),
		BatchID:    batchID,
		RowNumber:  rowNumber,
	}
}

// RecordVerdict stores the validator's verdict. Multiple violations on one
// row accumulate into one ordered list rather than short-circuiting.
func (f *StagingFields) RecordVerdict(errors []string) {
	f.IsValid = len(errors) == 0
	f.ValidationErrors = strings.Join(errors, "\n")
}

// ErrorList returns the recorded validation errors in order
func (f *StagingFields) ErrorList() []string {
	if f.ValidationErrors == "" {
		return nil
	}
	return strings.Split(f.ValidationErrors, "\n")
}

// ProductStagingRow is one parsed line of a genuine or aftermarket product
// import. All fields are kept raw; typing happens at commit time on rows the
// validator has already accepted.
type ProductStagingRow struct {
	StagingFields
	ProductCode string `gorm:"type:varchar(100)"`
	Description string `gorm:"type:varchar(500)"`
	PartType    string `gorm:"type:varchar(50)"`
	FreeStock   string `gorm:"type:varchar(50)"`
	CostPrice   string `gorm:"type:varchar(50)"`
	RetailPrice string `gorm:"type:varchar(50)"`
	TradePrice  string `gorm:"type:varchar(50)"`
	ListPrice   string `gorm:"type:varchar(50)"`
	BandLevel   string `gorm:"type:varchar(10)"`
	BandPrice   string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ProductStagingRow) TableName() string {
	return "staging_product_rows"
}

// BackorderStagingRow is one parsed line of a backorder snapshot import
type BackorderStagingRow struct {
	StagingFields
	AccountNumber string `gorm:"type:varchar(50)"`
	ProductCode   string `gorm:"type:varchar(100)"`
	OrderNumber   string `gorm:"type:varchar(50)"`
	Quantity      string `gorm:"type:varchar(50)"`
	ExpectedDate  string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (BackorderStagingRow) TableName() string {
	return "staging_backorder_rows"
}

// SupersessionStagingRow is one parsed line of a supersession mapping import
type SupersessionStagingRow struct {
	StagingFields
	ProductCode  string `gorm:"type:varchar(100)"`
	SupersededBy string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (SupersessionStagingRow) TableName() string {
	return "staging_supersession_rows"
}

// FulfillmentStagingRow is one parsed line of a fulfillment-status import
type FulfillmentStagingRow struct {
	StagingFields
	OrderNumber      string `gorm:"type:varchar(50)"`
	Status           string `gorm:"type:varchar(50)"`
	ShippedDate      string `gorm:"type:varchar(50)"`
	CarrierReference string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (FulfillmentStagingRow) TableName() string {
	return "staging_fulfillment_rows"
}
