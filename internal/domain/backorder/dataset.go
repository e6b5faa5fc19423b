package backorder

import (
	"strings"
	"time"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dataset is one backorder snapshot produced by a backorder import.
// At most one dataset is current at a time; replacing a dataset supersedes
// the prior one atomically with the commit of the new lines.
type Dataset struct {
	shared.BaseAggregateRoot
	BatchID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Current      bool      `gorm:"not null;default:false;index"`
	LineCount    int       `gorm:"not null;default:0"`
	SupersededAt *time.Time
}

// TableName returns the table name for GORM
func (Dataset) TableName() string {
	return "backorder_datasets"
}

// NewDataset creates a dataset for one backorder import batch
func NewDataset(batchID uuid.UUID) *Dataset {
	return &Dataset{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batchID,
	}
}

// MakeCurrent marks this dataset as the one snapshot readers see
func (d *Dataset) MakeCurrent(lineCount int) {
	d.Current = true
	d.LineCount = lineCount
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// Supersede retires this dataset in favour of a newer one
func (d *Dataset) Supersede() {
	now := time.Now()
	d.Current = false
	d.SupersededAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()
}

// Line is one open backorder position within a dataset
type Line struct {
	shared.BaseEntity
	DatasetID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountNumber string          `gorm:"type:varchar(20);not null;index"`
	ProductCode   string          `gorm:"type:varchar(50);not null"`
	OrderNumber   string          `gorm:"type:varchar(50)"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpectedDate  *time.Time
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "backorder_lines"
}

// NewLine creates one backorder line
func NewLine(datasetID uuid.UUID, accountNumber, productCode, orderNumber string, quantity decimal.Decimal, expectedDate *time.Time) (*Line, error) {
	if accountNumber == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account number cannot be empty")
	}
	if productCode == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Backorder quantity cannot be negative")
	}

	return &Line{
		BaseEntity:    shared.NewBaseEntity(),
		DatasetID:     datasetID,
		AccountNumber: strings.ToUpper(accountNumber),
		ProductCode:   strings.ToUpper(productCode),
		OrderNumber:   orderNumber,
		Quantity:      quantity,
		ExpectedDate:  expectedDate,
	}, nil
}
