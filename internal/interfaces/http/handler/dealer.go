package handler

import (
	"github.com/dealerportal/backend/internal/application/dealerapp"
	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/domain/shared"
	"github.com/dealerportal/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DealerHandler exposes dealer accounts and band assignments over HTTP
type DealerHandler struct {
	BaseHandler
	bandService *dealerapp.BandService
}

// NewDealerHandler creates a new DealerHandler
func NewDealerHandler(bandService *dealerapp.BandService) *DealerHandler {
	return &DealerHandler{bandService: bandService}
}

// RegisterRoutes registers the dealer account routes
func (h *DealerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dealers := rg.Group("/dealers")
	{
		dealers.POST("", h.CreateAccount)
		dealers.GET("", h.ListAccounts)
		dealers.GET("/:id", h.GetAccount)
		dealers.PUT("/:id/bands", h.AssignBands)
		dealers.GET("/:id/bands", h.GetBands)
	}
}

// CreateAccountRequest carries the fields for a new dealer account
type CreateAccountRequest struct {
	AccountNumber string `json:"account_number" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Entitlement   string `json:"entitlement" binding:"required"`
}

// AccountResponse is the external shape of one dealer account
type AccountResponse struct {
	ID            uuid.UUID `json:"id"`
	AccountNumber string    `json:"account_number"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	Entitlement   string    `json:"entitlement"`
}

func toAccountResponse(a *dealer.DealerAccount) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		Status:        string(a.Status),
		Entitlement:   string(a.Entitlement),
	}
}

// CreateAccount creates a dealer account.
// POST /api/v1/dealers
func (h *DealerHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "account_number, name and entitlement are required")
		return
	}

	account, err := h.bandService.CreateAccount(c.Request.Context(), req.AccountNumber, req.Name, dealer.Entitlement(req.Entitlement))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAccountResponse(account))
}

// GetAccount retrieves one dealer account.
// GET /api/v1/dealers/:id
func (h *DealerHandler) GetAccount(c *gin.Context) {
	dealerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid dealer account ID")
		return
	}

	account, err := h.bandService.GetAccount(c.Request.Context(), dealerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAccountResponse(account))
}

// ListAccounts lists dealer accounts.
// GET /api/v1/dealers
func (h *DealerHandler) ListAccounts(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	req.Normalize()

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	accounts, err := h.bandService.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]AccountResponse, len(accounts))
	for i := range accounts {
		items[i] = toAccountResponse(&accounts[i])
	}

	h.Success(c, items)
}

// AssignBandsRequest carries the full replacement assignment set
type AssignBandsRequest struct {
	Assignments []dealer.AssignmentInput `json:"assignments" binding:"required"`
}

// AssignmentResponse is the external shape of one band assignment
type AssignmentResponse struct {
	PartType string `json:"part_type"`
	BandCode string `json:"band_code"`
}

// AssignBands replaces a dealer's band assignment set.
// PUT /api/v1/dealers/:id/bands
func (h *DealerHandler) AssignBands(c *gin.Context) {
	dealerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid dealer account ID")
		return
	}

	var req AssignBandsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "assignments is required")
		return
	}

	assignments, err := h.bandService.AssignBands(c.Request.Context(), dealerID, req.Assignments)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAssignmentResponses(assignments))
}

// GetBands returns a dealer's current assignment set.
// GET /api/v1/dealers/:id/bands
func (h *DealerHandler) GetBands(c *gin.Context) {
	dealerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid dealer account ID")
		return
	}

	assignments, err := h.bandService.GetAssignments(c.Request.Context(), dealerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAssignmentResponses(assignments))
}

func toAssignmentResponses(assignments []dealer.BandAssignment) []AssignmentResponse {
	items := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		items[i] = AssignmentResponse{
			PartType: string(a.PartType),
			BandCode: string(a.BandCode),
		}
	}
	return items
}
