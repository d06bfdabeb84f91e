package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/sellerhub/backend/internal/application/catalog"
	"github.com/sellerhub/backend/internal/application/reconcile"
)

// CategoryHandler serves the catalog category endpoints.
type CategoryHandler struct {
	BaseHandler
	categories *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *catalogapp.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler: NewBaseHandler(logger),
		categories:  categories,
	}
}

// BatchCategoriesRequest is the body of the category batch endpoint.
type BatchCategoriesRequest struct {
	Categories []reconcile.CategoryRecord `json:"categories" binding:"required"`
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	resp, err := h.categories.List(c.Request.Context(), tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var req catalogapp.CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.categories.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.categories.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// BatchUpsert handles POST /api/v1/categories/batch
func (h *CategoryHandler) BatchUpsert(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var req BatchCategoriesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.categories.BatchUpsert(c.Request.Context(), tenantID, req.Categories)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "categories processed", result)
}
