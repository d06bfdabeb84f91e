package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	catalogapp "github.com/sellerhub/backend/internal/application/catalog"
	"github.com/sellerhub/backend/internal/application/reconcile"
)

// PriceListHandler serves the price list endpoints.
type PriceListHandler struct {
	BaseHandler
	priceLists *catalogapp.PriceListService
}

// NewPriceListHandler creates a new PriceListHandler
func NewPriceListHandler(priceLists *catalogapp.PriceListService, logger *zap.Logger) *PriceListHandler {
	return &PriceListHandler{
		BaseHandler: NewBaseHandler(logger),
		priceLists:  priceLists,
	}
}

// AttachProductsRequest is the body of the attach/detach endpoints.
type AttachProductsRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" binding:"required,min=1"`
}

// BatchPricesRequest is the body of the batch price endpoint.
type BatchPricesRequest struct {
	Prices []reconcile.PriceRecordInput `json:"prices" binding:"required"`
}

// List handles GET /api/v1/price-lists
func (h *PriceListHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	resp, err := h.priceLists.List(c.Request.Context(), tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /api/v1/price-lists
func (h *PriceListHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var req catalogapp.CreatePriceListRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.priceLists.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// Delete handles DELETE /api/v1/price-lists/:id
func (h *PriceListHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.priceLists.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// AttachProducts handles POST /api/v1/price-lists/:id/products
func (h *PriceListHandler) AttachProducts(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req AttachProductsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.priceLists.AttachProducts(c.Request.Context(), tenantID, id, req.ProductIDs); err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "products attached", nil)
}

// DetachProducts handles POST /api/v1/price-lists/:id/products/detach
func (h *PriceListHandler) DetachProducts(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req AttachProductsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.priceLists.DetachProducts(c.Request.Context(), tenantID, id, req.ProductIDs); err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "products detached", nil)
}

// BatchUpsertPrices handles POST /api/v1/prices/batch
func (h *PriceListHandler) BatchUpsertPrices(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var req BatchPricesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.priceLists.BatchUpsertPrices(c.Request.Context(), tenantID, req.Prices)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "prices processed", result)
}
