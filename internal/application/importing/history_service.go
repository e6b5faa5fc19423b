package importing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HistoryService serves the audit side of the import pipeline: batch
// listings, per-batch error pages and error exports
type HistoryService struct {
	batchRepo imports.BatchRepository
	logger    *zap.Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(batchRepo imports.BatchRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		batchRepo: batchRepo,
		logger:    logger,
	}
}

// GetBatch retrieves one batch by ID
func (s *HistoryService) GetBatch(ctx context.Context, batchID uuid.UUID) (*imports.ImportBatch, error) {
	return s.batchRepo.FindByID(ctx, batchID)
}

// ListFilter narrows batch listings. Unknown values are ignored rather
// than rejected so stale UI filters degrade to an unfiltered list.
type ListFilter struct {
	ImportType string
	Status     string
}

// ListBatches retrieves batches newest first with pagination
func (s *HistoryService) ListBatches(ctx context.Context, filter ListFilter, page, pageSize int) (*imports.BatchListResult, error) {
	repoFilter := imports.BatchFilter{}

	if filter.ImportType != "" {
		importType := imports.ImportType(filter.ImportType)
		if importType.IsValid() {
			repoFilter.ImportType = &importType
		}
	}
	if filter.Status != "" {
		status := imports.BatchStatus(filter.Status)
		switch status {
		case imports.BatchStatusProcessing, imports.BatchStatusSucceeded,
			imports.BatchStatusSucceededWithErrors, imports.BatchStatusFailed:
			repoFilter.Status = &status
		}
	}

	return s.batchRepo.FindAll(ctx, repoFilter, page, pageSize)
}

// GetErrors retrieves one page of a batch's error records
func (s *HistoryService) GetErrors(ctx context.Context, batchID uuid.UUID, page, pageSize int) ([]*imports.ImportError, int64, error) {
	if _, err := s.batchRepo.FindByID(ctx, batchID); err != nil {
		return nil, 0, err
	}
	return s.batchRepo.FindErrors(ctx, batchID, page, pageSize)
}

// ExportErrorsCSV renders every retained error of a batch as CSV for
// download, returning the content and a suggested file name
func (s *HistoryService) ExportErrorsCSV(ctx context.Context, batchID uuid.UUID) (string, string, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return "", "", err
	}

	errs, err := s.batchRepo.FindAllErrors(ctx, batchID)
	if err != nil {
		return "", "", err
	}
	if len(errs) == 0 {
		return "", "", shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Batch %s has no errors to export", batchID))
	}

	var sb strings.Builder
	sb.WriteString("row,column,message,raw_row\n")
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s\n",
			e.RowNumber,
			escapeCSV(e.Column),
			escapeCSV(e.Message),
			escapeCSV(e.RawRow),
		))
	}

	fileName := fmt.Sprintf("import_errors_%s_%s.csv", batch.ImportType, batch.ID.String()[:8])
	return sb.String(), fileName, nil
}

// AbandonStale fails PROCESSING batches older than the cutoff. Covers
// crashes between batch creation and the terminal transition.
func (s *HistoryService) AbandonStale(ctx context.Context, olderThan time.Duration) (int, error) {
	const pageSize = 500
	status := imports.BatchStatusProcessing
	cutoff := time.Now().Add(-olderThan)
	abandoned := 0
	page := 1
	for {
		result, err := s.batchRepo.FindAll(ctx, imports.BatchFilter{Status: &status}, page, pageSize)
		if err != nil {
			return abandoned, err
		}

		changed := 0
		for _, batch := range result.Batches {
			if batch.CreatedAt.After(cutoff) {
				continue
			}
			if err := batch.Abandon(); err != nil {
				continue
			}
			if err := s.batchRepo.Save(ctx, batch); err != nil {
				return abandoned, fmt.Errorf("failed to abandon batch %s: %w", batch.ID, err)
			}
			s.logger.Warn("abandoned stale import batch",
				zap.String("batch_id", batch.ID.String()),
				zap.Time("created_at", batch.CreatedAt))
			changed++
			abandoned++
		}

		if len(result.Batches) < pageSize {
			return abandoned, nil
		}
		// Abandoned batches leave the PROCESSING set, shifting later pages
		// back; re-read the same page unless nothing on it changed.
		if changed == 0 {
			page++
		}
	}
}

// escapeCSV escapes a value for CSV output
func escapeCSV(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, ",\"\n\r") {
		escaped := strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + escaped + "\""
	}
	return s
}
