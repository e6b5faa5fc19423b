package handler

import (
	"github.com/dealerportal/backend/internal/application/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricingHandler exposes dealer price resolution over HTTP
type PricingHandler struct {
	BaseHandler
	priceService *pricing.PriceService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(priceService *pricing.PriceService) *PricingHandler {
	return &PricingHandler{priceService: priceService}
}

// RegisterRoutes registers the pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/dealers/:id/prices", h.ResolvePrices)
}

// ResolvePricesRequest carries the product codes to price
type ResolvePricesRequest struct {
	ProductCodes []string `json:"product_codes" binding:"required,min=1,max=500"`
}

// ResolvePrices resolves prices for one dealer.
// POST /api/v1/dealers/:id/prices
func (h *PricingHandler) ResolvePrices(c *gin.Context) {
	dealerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid dealer account ID")
		return
	}

	var req ResolvePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "product_codes is required and limited to 500 codes")
		return
	}

	prices, err := h.priceService.ResolvePrices(c.Request.Context(), dealerID, req.ProductCodes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, prices)
}
