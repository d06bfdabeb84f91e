package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	marketplaceapp "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/catalog"
	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// IntegrationHandler serves the marketplace integration endpoints:
// settings, publication and the import/export operations scoped to a
// single marketplace.
type IntegrationHandler struct {
	BaseHandler
	integrations *marketplaceapp.IntegrationService
	exports      *marketplaceapp.ExportService
	imports      *marketplaceapp.ImportService
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(
	integrations *marketplaceapp.IntegrationService,
	exports *marketplaceapp.ExportService,
	imports *marketplaceapp.ImportService,
	logger *zap.Logger,
) *IntegrationHandler {
	return &IntegrationHandler{
		BaseHandler:  NewBaseHandler(logger),
		integrations: integrations,
		exports:      exports,
		imports:      imports,
	}
}

// ExportProductsRequest selects the products to push. An empty list
// exports every exportable product of the tenant.
type ExportProductsRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}

// VisibilityRequest hides or shows listings on the marketplace.
type VisibilityRequest struct {
	Type    string      `json:"type" binding:"required,oneof=product variation"`
	IDs     []uuid.UUID `json:"ids" binding:"required,min=1"`
	Visible *bool       `json:"visible" binding:"required"`
}

// List handles GET /api/v1/integrations
func (h *IntegrationHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	resp, err := h.integrations.List(c.Request.Context(), tenantID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /api/v1/integrations/:marketplace
func (h *IntegrationHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	code, ok := h.MarketplaceParam(c)
	if !ok {
		return
	}

	resp, err := h.integrations.Get(c.Request.Context(), tenantID, code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSettings handles PUT /api/v1/integrations/:marketplace
func (h *IntegrationHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	code, ok := h.MarketplaceParam(c)
	if !ok {
		return
	}

	var req marketplaceapp.UpdateSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.integrations.UpdateSettings(c.Request.Context(), tenantID, code, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "settings updated", resp)
}

// Publish handles POST /api/v1/integrations/:marketplace/publish
func (h *IntegrationHandler) Publish(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	code, ok := h.MarketplaceParam(c)
	if !ok {
		return
	}

	resp, err := h.integrations.Publish(c.Request.Context(), tenantID, code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "integration published", resp)
}

// Unpublish handles POST /api/v1/integrations/:marketplace/unpublish
func (h *IntegrationHandler) Unpublish(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	code, ok := h.MarketplaceParam(c)
	if !ok {
		return
	}

	resp, err := h.integrations.Unpublish(c.Request.Context(), tenantID, code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "integration unpublished", resp)
}

// CheckConnection handles POST /api/v1/integrations/:marketplace/check-connection
func (h *IntegrationHandler) CheckConnection(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	code, ok := h.MarketplaceParam(c)
	if !ok {
		return
	}

	resp, err := h.integrations.CheckConnection(c.Request.Context(), tenantID, code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// ExportProducts handles POST /api/v1/integrations/:marketplace/export
func (h *IntegrationHandler) ExportProducts(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	var req ExportProductsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.exports.ExportProducts(c.Request.Context(), creds, req.ProductIDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "export accepted", result)
}

// ExportStatus handles GET /api/v1/integrations/:marketplace/export/:taskID
func (h *IntegrationHandler) ExportStatus(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	info, err := h.exports.PollExportStatus(c.Request.Context(), creds, c.Param("taskID"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, info)
}

// SetVisibility handles POST /api/v1/integrations/:marketplace/visibility
func (h *IntegrationHandler) SetVisibility(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	var req VisibilityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.exports.SetVisibility(c.Request.Context(), creds,
		catalog.OwnerType(req.Type), req.IDs, *req.Visible)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "visibility updated", result)
}

// PushPricesAndStocks handles POST /api/v1/integrations/:marketplace/push-prices-stocks
func (h *IntegrationHandler) PushPricesAndStocks(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	result, err := h.exports.PushPricesAndStocks(c.Request.Context(), creds)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "prices and stocks pushed", result)
}

// ExportImages handles POST /api/v1/integrations/:marketplace/export-images
func (h *IntegrationHandler) ExportImages(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	var req ExportProductsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.exports.ExportImages(c.Request.Context(), creds, req.ProductIDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "images pushed", result)
}

// ImportProducts handles POST /api/v1/integrations/:marketplace/import
func (h *IntegrationHandler) ImportProducts(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	result, err := h.imports.ImportProducts(c.Request.Context(), creds)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "import finished", result)
}

// credentials resolves marketplace credentials for the request tenant.
func (h *IntegrationHandler) credentials(c *gin.Context) (marketplace.Credentials, bool) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return marketplace.Credentials{}, false
	}
	code, ok := h.MarketplaceParam(c)
	if !ok {
		return marketplace.Credentials{}, false
	}
	creds, err := h.integrations.Credentials(c.Request.Context(), tenantID, code)
	if err != nil {
		h.Error(c, err)
		return marketplace.Credentials{}, false
	}
	return creds, true
}
