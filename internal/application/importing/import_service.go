package importing

import (
	"context"
	"fmt"
	"strings"

	"github.com/dealerportal/backend/internal/domain/backorder"
	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/dealerportal/backend/internal/domain/trade"
	"github.com/dealerportal/backend/internal/infrastructure/csvimport"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Limits bounds one upload. Zero values fall back to the built-in defaults.
type Limits struct {
	MaxFileSize int64
	MaxRows     int
	MaxErrors   int
}

// DefaultLimits returns the limits used when none are configured
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize: 20 * 1024 * 1024,
		MaxRows:     200000,
		MaxErrors:   1000,
	}
}

// ImportResult summarizes one processed batch
type ImportResult struct {
	BatchID     uuid.UUID            `json:"batch_id"`
	Status      imports.BatchStatus  `json:"status"`
	TotalRows   int                  `json:"total_rows"`
	ValidRows   int                  `json:"valid_rows"`
	InvalidRows int                  `json:"invalid_rows"`
	Errors      []csvimport.RowError `json:"errors,omitempty"`
	TotalErrors int                  `json:"total_errors,omitempty"`
	IsTruncated bool                 `json:"is_truncated,omitempty"`
}

// ImportService runs one upload through staging, validation and commit.
// Structural file problems abort before a batch exists; everything after
// batch creation ends in exactly one terminal batch status.
type ImportService struct {
	batchRepo     imports.BatchRepository
	productRepo   catalog.ProductRepository
	backorderRepo backorder.Repository
	orderRepo     trade.OrderRepository
	uow           shared.UnitOfWork
	limits        Limits
	logger        *zap.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	batchRepo imports.BatchRepository,
	productRepo catalog.ProductRepository,
	backorderRepo backorder.Repository,
	orderRepo trade.OrderRepository,
	uow shared.UnitOfWork,
	limits Limits,
	logger *zap.Logger,
) *ImportService {
	defaults := DefaultLimits()
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = defaults.MaxFileSize
	}
	if limits.MaxRows <= 0 {
		limits.MaxRows = defaults.MaxRows
	}
	if limits.MaxErrors <= 0 {
		limits.MaxErrors = defaults.MaxErrors
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ImportService{
		batchRepo:     batchRepo,
		productRepo:   productRepo,
		backorderRepo: backorderRepo,
		orderRepo:     orderRepo,
		uow:           uow,
		limits:        limits,
		logger:        logger,
	}
}

// ProcessUpload stages, validates and commits one uploaded file.
// Returns a structural error when the file itself is unusable; otherwise a
// batch record exists and the returned result carries its terminal status.
func (s *ImportService) ProcessUpload(
	ctx context.Context,
	importType imports.ImportType,
	fileName string,
	data []byte,
	uploadedBy string,
) (*ImportResult, error) {
	if !importType.IsValid() {
		return nil, shared.NewDomainError("INVALID_IMPORT_TYPE", fmt.Sprintf("Invalid import type: %s", importType))
	}
	if int64(len(data)) > s.limits.MaxFileSize {
		return nil, csvimport.ErrFileTooLarge
	}

	parser, err := csvimport.ParseFromBytes(data)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if err := parser.RequireColumns(RequiredColumns(importType)); err != nil {
		return nil, err
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, csvimport.ErrNoDataRows
	}
	if len(rows) > s.limits.MaxRows {
		return nil, fmt.Errorf("%w: %d rows exceeds the limit of %d", csvimport.ErrFileTooLarge, len(rows), s.limits.MaxRows)
	}

	batch, err := imports.NewImportBatch(importType, fileName, int64(len(data)), uploadedBy)
	if err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create import batch: %w", err)
	}

	s.logger.Info("import batch started",
		zap.String("batch_id", batch.ID.String()),
		zap.String("import_type", string(importType)),
		zap.String("file_name", fileName),
		zap.Int("rows", len(rows)))

	staged, err := s.stage(ctx, batch, importType, rows)
	if err != nil {
		// Could not even record verdicts; the batch never reached commit
		s.abandonBatch(ctx, batch, err)
		return nil, err
	}

	if err := s.persistStaging(ctx, importType, staged); err != nil {
		s.abandonBatch(ctx, batch, err)
		return nil, err
	}

	if err := batch.SetRowCounts(staged.validRows, staged.invalidRows); err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save row counts: %w", err)
	}

	commitSucceeded := true
	if staged.validRows > 0 {
		if err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
			return s.commit(txCtx, importType, batch, staged)
		}); err != nil {
			commitSucceeded = false
			s.logger.Error("import commit rolled back",
				zap.String("batch_id", batch.ID.String()),
				zap.String("import_type", string(importType)),
				zap.Error(err))
		}
	}

	if err := batch.Finish(commitSucceeded); err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save batch status: %w", err)
	}

	s.logger.Info("import batch finished",
		zap.String("batch_id", batch.ID.String()),
		zap.String("status", string(batch.Status)),
		zap.Int("total_rows", batch.TotalRows),
		zap.Int("valid_rows", batch.ValidRows),
		zap.Int("invalid_rows", batch.InvalidRows))

	return &ImportResult{
		BatchID:     batch.ID,
		Status:      batch.Status,
		TotalRows:   batch.TotalRows,
		ValidRows:   batch.ValidRows,
		InvalidRows: batch.InvalidRows,
		Errors:      staged.errors.Errors(),
		TotalErrors: staged.errors.TotalCount(),
		IsTruncated: staged.errors.IsTruncated(),
	}, nil
}

// abandonBatch marks a batch that never reached commit as FAILED
func (s *ImportService) abandonBatch(ctx context.Context, batch *imports.ImportBatch, cause error) {
	s.logger.Error("import batch abandoned",
		zap.String("batch_id", batch.ID.String()),
		zap.Error(cause))
	if err := batch.Abandon(); err != nil {
		return
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		s.logger.Error("failed to persist abandoned batch",
			zap.String("batch_id", batch.ID.String()),
			zap.Error(err))
	}
}

// stagedBatch carries the per-type staging rows and the validation outcome
type stagedBatch struct {
	product      []*imports.ProductStagingRow
	backorder    []*imports.BackorderStagingRow
	supersession []*imports.SupersessionStagingRow
	fulfillment  []*imports.FulfillmentStagingRow

	validRows    int
	invalidRows  int
	errors       *csvimport.ErrorCollection
	errorRecords []*imports.ImportError
}

// stage validates every parsed row and builds the typed staging rows.
// Every row is staged with its verdict; invalid rows are never dropped.
func (s *ImportService) stage(
	ctx context.Context,
	batch *imports.ImportBatch,
	importType imports.ImportType,
	rows []*csvimport.Row,
) (*stagedBatch, error) {
	validator := csvimport.NewRowValidator(ValidationRules(importType))

	rowErrors := make([][]csvimport.RowError, len(rows))
	for i, row := range rows {
		rowErrors[i] = validator.ValidateRow(row)
	}

	// Referential checks run after format checks so lookups only see
	// well-formed keys
	switch importType {
	case imports.ImportTypeSupersessions:
		if err := s.checkSupersessionReferences(ctx, rows, rowErrors); err != nil {
			return nil, err
		}
	case imports.ImportTypeFulfillmentStatus:
		if err := s.checkFulfillmentReferences(ctx, rows, rowErrors); err != nil {
			return nil, err
		}
	}

	staged := &stagedBatch{
		errors: csvimport.NewErrorCollection(s.limits.MaxErrors),
	}

	for i, row := range rows {
		errs := rowErrors[i]
		verdict := make([]string, len(errs))
		for j, e := range errs {
			verdict[j] = e.Error()
		}

		if len(errs) == 0 {
			staged.validRows++
		} else {
			staged.invalidRows++
			for _, e := range errs {
				staged.errors.Add(e)
				if len(staged.errorRecords) < s.limits.MaxErrors {
					staged.errorRecords = append(staged.errorRecords,
						imports.NewImportError(batch.ID, e.Row, e.Column, e.Message, row.Snapshot()))
				}
			}
		}

		fields := imports.NewStagingFields(batch.ID, row.LineNumber)
		fields.RecordVerdict(verdict)

		switch importType {
		case imports.ImportTypeGenuineProducts, imports.ImportTypeAftermarketProducts:
			staged.product = append(staged.product, &imports.ProductStagingRow{
				StagingFields: fields,
				ProductCode:   strings.ToUpper(row.Get(colProductCode)),
				Description:   row.Get(colDescription),
				PartType:      row.Get(colPartType),
				FreeStock:     row.Get(colFreeStock),
				CostPrice:     row.Get(colCostPrice),
				RetailPrice:   row.Get(colRetailPrice),
				TradePrice:    row.Get(colTradePrice),
				ListPrice:     row.Get(colListPrice),
				BandLevel:     row.Get(colBandLevel),
				BandPrice:     row.Get(colBandPrice),
			})
		case imports.ImportTypeBackorders:
			staged.backorder = append(staged.backorder, &imports.BackorderStagingRow{
				StagingFields: fields,
				AccountNumber: strings.ToUpper(row.Get(colAccountNum)),
				ProductCode:   strings.ToUpper(row.Get(colProductCode)),
				OrderNumber:   strings.ToUpper(row.Get(colOrderNumber)),
				Quantity:      row.Get(colQuantity),
				ExpectedDate:  row.Get(colExpectedDate),
			})
		case imports.ImportTypeSupersessions:
			staged.supersession = append(staged.supersession, &imports.SupersessionStagingRow{
				StagingFields: fields,
				ProductCode:   strings.ToUpper(row.Get(colProductCode)),
				SupersededBy:  strings.ToUpper(row.Get(colSupersededBy)),
			})
		case imports.ImportTypeFulfillmentStatus:
			staged.fulfillment = append(staged.fulfillment, &imports.FulfillmentStagingRow{
				StagingFields:    fields,
				OrderNumber:      strings.ToUpper(row.Get(colOrderNumber)),
				Status:           row.Get(colStatus),
				ShippedDate:      row.Get(colShippedDate),
				CarrierReference: row.Get(colCarrierRef),
			})
		}
	}

	return staged, nil
}

// checkSupersessionReferences marks rows whose product code does not exist in
// the catalog, and rows that would supersede a product with itself
func (s *ImportService) checkSupersessionReferences(
	ctx context.Context,
	rows []*csvimport.Row,
	rowErrors [][]csvimport.RowError,
) error {
	var codes []string
	for i, row := range rows {
		if len(rowErrors[i]) > 0 {
			continue
		}
		codes = append(codes, strings.ToUpper(row.Get(colProductCode)))
	}
	if len(codes) == 0 {
		return nil
	}

	products, err := s.productRepo.FindByCodes(ctx, codes)
	if err != nil {
		return fmt.Errorf("failed to resolve product codes: %w", err)
	}
	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.Code] = true
	}

	for i, row := range rows {
		if len(rowErrors[i]) > 0 {
			continue
		}
		code := strings.ToUpper(row.Get(colProductCode))
		replacement := strings.ToUpper(row.Get(colSupersededBy))

		if !known[code] {
			rowErrors[i] = append(rowErrors[i], csvimport.NewRowErrorWithValue(
				row.LineNumber, colProductCode, csvimport.ErrCodeUnknownKey,
				"product code not found in catalog", code))
		}
		if code == replacement {
			rowErrors[i] = append(rowErrors[i], csvimport.NewRowErrorWithValue(
				row.LineNumber, colSupersededBy, csvimport.ErrCodeValidation,
				"product cannot supersede itself", replacement))
		}
	}
	return nil
}

// checkFulfillmentReferences marks rows whose order number is unknown
func (s *ImportService) checkFulfillmentReferences(
	ctx context.Context,
	rows []*csvimport.Row,
	rowErrors [][]csvimport.RowError,
) error {
	var orderNumbers []string
	for i, row := range rows {
		if len(rowErrors[i]) > 0 {
			continue
		}
		orderNumbers = append(orderNumbers, strings.ToUpper(row.Get(colOrderNumber)))
	}
	if len(orderNumbers) == 0 {
		return nil
	}

	orders, err := s.orderRepo.FindByOrderNumbers(ctx, orderNumbers)
	if err != nil {
		return fmt.Errorf("failed to resolve order numbers: %w", err)
	}
	known := make(map[string]bool, len(orders))
	for _, o := range orders {
		known[o.OrderNumber] = true
	}

	for i, row := range rows {
		if len(rowErrors[i]) > 0 {
			continue
		}
		number := strings.ToUpper(row.Get(colOrderNumber))
		if !known[number] {
			rowErrors[i] = append(rowErrors[i], csvimport.NewRowErrorWithValue(
				row.LineNumber, colOrderNumber, csvimport.ErrCodeUnknownKey,
				"order number not found", number))
		}
	}
	return nil
}

// persistStaging writes the staging rows and retained error records.
// This happens before commit and outside its transaction, so staging data
// survives a rolled-back commit for audit.
func (s *ImportService) persistStaging(ctx context.Context, importType imports.ImportType, staged *stagedBatch) error {
	var err error
	switch importType {
	case imports.ImportTypeGenuineProducts, imports.ImportTypeAftermarketProducts:
		err = s.batchRepo.SaveProductRows(ctx, staged.product)
	case imports.ImportTypeBackorders:
		err = s.batchRepo.SaveBackorderRows(ctx, staged.backorder)
	case imports.ImportTypeSupersessions:
		err = s.batchRepo.SaveSupersessionRows(ctx, staged.supersession)
	case imports.ImportTypeFulfillmentStatus:
		err = s.batchRepo.SaveFulfillmentRows(ctx, staged.fulfillment)
	}
	if err != nil {
		return fmt.Errorf("failed to persist staging rows: %w", err)
	}

	if err := s.batchRepo.SaveErrors(ctx, staged.errorRecords); err != nil {
		return fmt.Errorf("failed to persist import errors: %w", err)
	}
	return nil
}
