package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/ledger"
	"github.com/mamadbah2/farmflow/internal/service/costs"
)

// CostItemRequest is the JSON body for a new cost item.
type CostItemRequest struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Cost        float64  `json:"cost"`
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit"`
}

// CostUpdateRequest is the JSON body for changing an item's cost.
type CostUpdateRequest struct {
	Cost *float64 `json:"cost" binding:"required"`
}

// CostHandler serves crop cost breakdowns.
type CostHandler struct {
	svc    *costs.Service
	logger *zap.Logger
}

// NewCostHandler constructs the cost item HTTP adapter.
func NewCostHandler(svc *costs.Service, logger *zap.Logger) *CostHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostHandler{svc: svc, logger: logger}
}

// List returns the breakdown and totals.
func (h *CostHandler) List(c *gin.Context) {
	breakdown, err := h.svc.List(c.Request.Context(), c.Param("cropID"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// Add creates a cost item.
func (h *CostHandler) Add(c *gin.Context) {
	var req CostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	item, err := h.svc.AddItem(c.Request.Context(), c.Param("cropID"), ledger.NewCostItem{
		Category:    req.Category,
		Description: req.Description,
		Cost:        req.Cost,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateCost changes an item's cost.
func (h *CostHandler) UpdateCost(c *gin.Context) {
	var req CostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	item, err := h.svc.UpdateCost(c.Request.Context(), c.Param("cropID"), c.Param("itemID"), *req.Cost)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Remove deletes an item.
func (h *CostHandler) Remove(c *gin.Context) {
	if err := h.svc.RemoveItem(c.Request.Context(), c.Param("cropID"), c.Param("itemID")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
