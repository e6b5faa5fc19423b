package imports

import (
	"fmt"
	"time"

	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportType represents the kind of file being imported
type ImportType string

const (
	ImportTypeGenuineProducts     ImportType = "genuine-products"
	ImportTypeAftermarketProducts ImportType = "aftermarket-products"
	ImportTypeBackorders          ImportType = "backorders"
	ImportTypeSupersessions       ImportType = "supersessions"
	ImportTypeFulfillmentStatus   ImportType = "fulfillment-status"
)

// IsValid checks if the import type is valid
func (t ImportType) IsValid() bool {
	switch t {
	case ImportTypeGenuineProducts, ImportTypeAftermarketProducts,
		ImportTypeBackorders, ImportTypeSupersessions, ImportTypeFulfillmentStatus:
		return true
	}
	return false
}

// IsProductImport returns true for the two catalog price/stock import types
func (t ImportType) IsProductImport() bool {
	return t == ImportTypeGenuineProducts || t == ImportTypeAftermarketProducts
}

// BatchStatus represents the lifecycle state of an import batch
type BatchStatus string

const (
	BatchStatusProcessing          BatchStatus = "PROCESSING"
	BatchStatusSucceeded           BatchStatus = "SUCCEEDED"
	BatchStatusSucceededWithErrors BatchStatus = "SUCCEEDED_WITH_ERRORS"
	BatchStatusFailed              BatchStatus = "FAILED"
)

// IsTerminal returns true if this is a terminal state
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusSucceeded || s == BatchStatusSucceededWithErrors || s == BatchStatusFailed
}

// ResolveStatus computes the terminal batch status as a pure function of the
// row counters and the commit outcome. It is evaluated exactly once, after
// validation and commit have both completed.
func ResolveStatus(validRows, invalidRows int, commitSucceeded bool) BatchStatus {
	switch {
	case !commitSucceeded:
		return BatchStatusFailed
	case validRows == 0:
		return BatchStatusFailed
	case invalidRows > 0:
		return BatchStatusSucceededWithErrors
	default:
		return BatchStatusSucceeded
	}
}

// ImportBatch tracks one uploaded file through staging, validation and commit.
// Batches are retained forever for audit; only the state machine mutates them.
type ImportBatch struct {
	shared.BaseAggregateRoot
	ImportType  ImportType  `gorm:"type:varchar(30);not null;index"`
	FileName    string      `gorm:"type:varchar(255);not null"`
	FileSize    int64       `gorm:"not null"`
	Status      BatchStatus `gorm:"type:varchar(30);not null;index"`
	TotalRows   int         `gorm:"not null;default:0"`
	ValidRows   int         `gorm:"not null;default:0"`
	InvalidRows int         `gorm:"not null;default:0"`
	UploadedBy  string      `gorm:"type:varchar(100)"`
	FinishedAt  *time.Time
}

// TableName returns the table name for GORM
func (ImportBatch) TableName() string {
	return "import_batches"
}

// NewImportBatch creates a batch in PROCESSING state
func NewImportBatch(importType ImportType, fileName string, fileSize int64, uploadedBy string) (*ImportBatch, error) {
	if !importType.IsValid() {
		return nil, shared.NewDomainError("INVALID_IMPORT_TYPE", fmt.Sprintf("Invalid import type: %s", importType))
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	return &ImportBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ImportType:        importType,
		FileName:          fileName,
		FileSize:          fileSize,
		Status:            BatchStatusProcessing,
		UploadedBy:        uploadedBy,
	}, nil
}

// SetRowCounts fixes the row counters. Counters are set before the terminal
// transition and never revised afterward.
func (b *ImportBatch) SetRowCounts(validRows, invalidRows int) error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot revise counters in terminal state %s", b.Status))
	}
	if validRows < 0 || invalidRows < 0 {
		return shared.NewDomainError("INVALID_ROW_COUNT", "Row counts cannot be negative")
	}

	b.ValidRows = validRows
	b.InvalidRows = invalidRows
	b.TotalRows = validRows + invalidRows
	b.UpdatedAt = time.Now()
	return nil
}

// Finish applies the terminal transition from the commit outcome
func (b *ImportBatch) Finish(commitSucceeded bool) error {
	if b.Status != BatchStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finish batch in state %s", b.Status))
	}

	b.Status = ResolveStatus(b.ValidRows, b.InvalidRows, commitSucceeded)
	now := time.Now()
	b.FinishedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()
	return nil
}

// Abandon marks a batch that never reached commit as FAILED
func (b *ImportBatch) Abandon() error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot abandon batch in terminal state %s", b.Status))
	}

	b.Status = BatchStatusFailed
	now := time.Now()
	b.FinishedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()
	return nil
}

// SuccessRate returns the share of valid rows as a percentage (0-100)
func (b *ImportBatch) SuccessRate() float64 {
	if b.TotalRows == 0 {
		return 0
	}
	return float64(b.ValidRows) / float64(b.TotalRows) * 100
}

// Duration returns the time between batch creation and the terminal transition
func (b *ImportBatch) Duration() time.Duration {
	if b.FinishedAt == nil {
		return time.Since(b.CreatedAt)
	}
	return b.FinishedAt.Sub(b.CreatedAt)
}

// ImportError records one validation failure. Created by the row validator,
// immutable thereafter, retained with the batch for audit.
type ImportError struct {
	shared.BaseEntity
	BatchID   uuid.UUID `gorm:"type:uuid;not null;index"`
	RowNumber int       `gorm:"not null"`
	Column    string    `gorm:"type:varchar(50)"`
	Message   string    `gorm:"type:varchar(500);not null"`
	RawRow    string    `gorm:"type:text"` // JSON snapshot of the parsed row
}

// TableName returns the table name for GORM
func (ImportError) TableName() string {
	return "import_errors"
}

// NewImportError creates an error record for a failed row
func NewImportError(batchID uuid.UUID, rowNumber int, column, message, rawRow string) *ImportError {
	return &ImportError{
		BaseEntity: shared.NewBaseEntity(),
		BatchID:    batchID,
		RowNumber:  rowNumber,
		Column:     column,
		Message:    message,
		RawRow:     rawRow,
	}
}
