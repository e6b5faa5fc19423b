package handler

import (
	"time"

	"github.com/dealerportal/backend/internal/application/backorderapp"
	"github.com/dealerportal/backend/internal/domain/backorder"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BackorderHandler exposes the current backorder snapshot over HTTP
type BackorderHandler struct {
	BaseHandler
	snapshotService *backorderapp.SnapshotService
}

// NewBackorderHandler creates a new BackorderHandler
func NewBackorderHandler(snapshotService *backorderapp.SnapshotService) *BackorderHandler {
	return &BackorderHandler{snapshotService: snapshotService}
}

// RegisterRoutes registers the backorder snapshot routes
func (h *BackorderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backorders := rg.Group("/backorders")
	{
		backorders.GET("/current", h.GetCurrent)
		backorders.GET("/accounts/:accountNumber", h.GetLinesForAccount)
	}
}

// SnapshotResponse is the external shape of one backorder dataset
type SnapshotResponse struct {
	ID        uuid.UUID `json:"id"`
	BatchID   uuid.UUID `json:"batch_id"`
	LineCount int       `json:"line_count"`
	CreatedAt time.Time `json:"created_at"`
}

// LineResponse is the external shape of one backorder line
type LineResponse struct {
	AccountNumber string          `json:"account_number"`
	ProductCode   string          `json:"product_code"`
	OrderNumber   string          `json:"order_number,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	ExpectedDate  *time.Time      `json:"expected_date,omitempty"`
}

func toLineResponses(lines []*backorder.Line) []LineResponse {
	items := make([]LineResponse, len(lines))
	for i, l := range lines {
		items[i] = LineResponse{
			AccountNumber: l.AccountNumber,
			ProductCode:   l.ProductCode,
			OrderNumber:   l.OrderNumber,
			Quantity:      l.Quantity,
			ExpectedDate:  l.ExpectedDate,
		}
	}
	return items
}

// GetCurrent returns the currently visible snapshot.
// GET /api/v1/backorders/current
func (h *BackorderHandler) GetCurrent(c *gin.Context) {
	dataset, err := h.snapshotService.GetCurrent(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SnapshotResponse{
		ID:        dataset.ID,
		BatchID:   dataset.BatchID,
		LineCount: dataset.LineCount,
		CreatedAt: dataset.CreatedAt,
	})
}

// GetLinesForAccount returns the current snapshot's lines for one dealer.
// GET /api/v1/backorders/accounts/:accountNumber
func (h *BackorderHandler) GetLinesForAccount(c *gin.Context) {
	accountNumber := c.Param("accountNumber")
	if accountNumber == "" {
		h.BadRequest(c, "account number is required")
		return
	}

	lines, err := h.snapshotService.GetLinesForAccount(c.Request.Context(), accountNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLineResponses(lines))
}
