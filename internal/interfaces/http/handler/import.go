package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dealerportal/backend/internal/application/importing"
	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/infrastructure/csvimport"
	"github.com/dealerportal/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImportHandler exposes the import pipeline over HTTP
type ImportHandler struct {
	BaseHandler
	importService  *importing.ImportService
	historyService *importing.HistoryService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *importing.ImportService, historyService *importing.HistoryService) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		historyService: historyService,
	}
}

// RegisterRoutes registers the import pipeline routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/imports")
	{
		imports.POST("/:type", h.Upload)
		imports.GET("", h.ListBatches)
		imports.GET("/:id", h.GetBatch)
		imports.GET("/:id/errors", h.GetErrors)
		imports.GET("/:id/errors/export", h.ExportErrors)
	}
}

// BatchResponse is the external shape of one import batch
type BatchResponse struct {
	ID          uuid.UUID  `json:"id"`
	ImportType  string     `json:"import_type"`
	FileName    string     `json:"file_name"`
	FileSize    int64      `json:"file_size"`
	Status      string     `json:"status"`
	TotalRows   int        `json:"total_rows"`
	ValidRows   int        `json:"valid_rows"`
	InvalidRows int        `json:"invalid_rows"`
	SuccessRate float64    `json:"success_rate"`
	UploadedBy  string     `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

func toBatchResponse(b *imports.ImportBatch) BatchResponse {
	return BatchResponse{
		ID:          b.ID,
		ImportType:  string(b.ImportType),
		FileName:    b.FileName,
		FileSize:    b.FileSize,
		Status:      string(b.Status),
		TotalRows:   b.TotalRows,
		ValidRows:   b.ValidRows,
		InvalidRows: b.InvalidRows,
		SuccessRate: b.SuccessRate(),
		UploadedBy:  b.UploadedBy,
		CreatedAt:   b.CreatedAt,
		FinishedAt:  b.FinishedAt,
	}
}

// Upload accepts a multipart file and runs it through the full pipeline.
// POST /api/v1/imports/:type
func (h *ImportHandler) Upload(c *gin.Context) {
	importType := imports.ImportType(c.Param("type"))
	if !importType.IsValid() {
		h.BadRequest(c, "unknown import type: "+c.Param("type"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "failed to read uploaded file")
		return
	}

	uploadedBy := c.GetHeader("X-User-Name")

	result, err := h.importService.ProcessUpload(c.Request.Context(), importType, fileHeader.Filename, data, uploadedBy)
	if err != nil {
		h.handleStructuralError(c, err)
		return
	}

	h.Success(c, result)
}

// handleStructuralError maps file-level errors to HTTP responses
func (h *ImportHandler) handleStructuralError(c *gin.Context, err error) {
	var missingCols *csvimport.MissingColumnsError
	switch {
	case errors.As(err, &missingCols):
		h.Error(c, http.StatusBadRequest, csvimport.ErrCodeMissingColumns, missingCols.Error())
	case errors.Is(err, csvimport.ErrEmptyFile):
		h.Error(c, http.StatusBadRequest, csvimport.ErrCodeEmptyFile, err.Error())
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		h.Error(c, http.StatusBadRequest, csvimport.ErrCodeEncoding, err.Error())
	case errors.Is(err, csvimport.ErrMissingHeader), errors.Is(err, csvimport.ErrNoDataRows):
		h.Error(c, http.StatusBadRequest, csvimport.ErrCodeInvalidFile, err.Error())
	case errors.Is(err, csvimport.ErrFileTooLarge):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeFileTooLarge, err.Error())
	default:
		h.HandleError(c, err)
	}
}

// GetBatch returns one batch's status and counters.
// GET /api/v1/imports/:id
func (h *ImportHandler) GetBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return
	}

	batch, err := h.historyService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBatchResponse(batch))
}

// ListBatches returns batches newest first.
// GET /api/v1/imports
func (h *ImportHandler) ListBatches(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	filter := importing.ListFilter{
		ImportType: c.Query("import_type"),
		Status:     c.Query("status"),
	}

	result, err := h.historyService.ListBatches(c.Request.Context(), filter, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	batches := make([]BatchResponse, len(result.Batches))
	for i, b := range result.Batches {
		batches[i] = toBatchResponse(b)
	}

	h.SuccessWithMeta(c, batches, result.TotalCount, result.Page, result.PageSize)
}

// ErrorResponseItem is the external shape of one import error
type ErrorResponseItem struct {
	RowNumber int    `json:"row_number"`
	Column    string `json:"column,omitempty"`
	Message   string `json:"message"`
	RawRow    string `json:"raw_row,omitempty"`
}

// GetErrors returns one page of a batch's error records.
// GET /api/v1/imports/:id/errors
func (h *ImportHandler) GetErrors(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	errs, total, err := h.historyService.GetErrors(c.Request.Context(), batchID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ErrorResponseItem, len(errs))
	for i, e := range errs {
		items[i] = ErrorResponseItem{
			RowNumber: e.RowNumber,
			Column:    e.Column,
			Message:   e.Message,
			RawRow:    e.RawRow,
		}
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// ExportErrors streams a batch's errors as a CSV download.
// GET /api/v1/imports/:id/errors/export
func (h *ImportHandler) ExportErrors(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return
	}

	content, fileName, err := h.historyService.ExportErrorsCSV(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", []byte(content))
}
