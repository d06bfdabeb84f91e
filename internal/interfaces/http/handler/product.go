package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/sellerhub/backend/internal/application/catalog"
	"github.com/sellerhub/backend/internal/application/reconcile"
)

// ProductHandler serves the catalog product endpoints.
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: NewBaseHandler(logger),
		products:    products,
	}
}

// BatchProductsRequest is the body of the batch upsert endpoint.
// Record-level validation happens inside the reconciliation engine so
// one bad record never rejects the whole batch.
type BatchProductsRequest struct {
	Products []reconcile.ProductRecord `json:"products" binding:"required"`
}

// BatchDeleteRequest is the body of the batch delete endpoint.
type BatchDeleteRequest struct {
	Products []reconcile.DeleteRecord `json:"products" binding:"required"`
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var query catalogapp.ListProductsQuery
	if !h.BindQuery(c, &query) {
		return
	}

	resp, err := h.products.List(c.Request.Context(), tenantID, query)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.products.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// BatchUpsert handles POST /api/v1/products/batch
func (h *ProductHandler) BatchUpsert(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var req BatchProductsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.products.BatchUpsert(c.Request.Context(), tenantID, req.Products)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "products processed", result)
}

// BatchDelete handles POST /api/v1/products/batch-delete
func (h *ProductHandler) BatchDelete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var req BatchDeleteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.products.BatchDelete(c.Request.Context(), tenantID, req.Products)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "products deleted", result)
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
