package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	marketplaceapp "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// SupplyHandler serves the supply (shipment batch) endpoints.
type SupplyHandler struct {
	BaseHandler
	supplies     *marketplaceapp.SupplyService
	integrations *marketplaceapp.IntegrationService
}

// NewSupplyHandler creates a new SupplyHandler
func NewSupplyHandler(
	supplies *marketplaceapp.SupplyService,
	integrations *marketplaceapp.IntegrationService,
	logger *zap.Logger,
) *SupplyHandler {
	return &SupplyHandler{
		BaseHandler:  NewBaseHandler(logger),
		supplies:     supplies,
		integrations: integrations,
	}
}

// OpenSupplyRequest opens (or returns) the active supply for the
// fulfillment model.
type OpenSupplyRequest struct {
	OrderType string `json:"order_type" binding:"required,oneof=fbs fbo"`
}

// AttachOrderRequest attaches one order to an open supply.
type AttachOrderRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// List handles GET /api/v1/integrations/:marketplace/supplies
func (h *SupplyHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	code, ok := h.MarketplaceParam(c)
	if !ok {
		return
	}

	resp, err := h.supplies.List(c.Request.Context(), tenantID, code)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Open handles POST /api/v1/integrations/:marketplace/supplies
func (h *SupplyHandler) Open(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	var req OpenSupplyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.supplies.Open(c.Request.Context(), creds, marketplace.OrderType(req.OrderType))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, resp)
}

// Close handles POST /api/v1/integrations/:marketplace/supplies/:id/close
func (h *SupplyHandler) Close(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.supplies.Close(c.Request.Context(), creds, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "supply closed", resp)
}

// AttachOrder handles POST /api/v1/integrations/:marketplace/supplies/:id/orders
func (h *SupplyHandler) AttachOrder(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	var req AttachOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.supplies.AttachOrder(c.Request.Context(), tenantID, id, req.OrderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "order attached", resp)
}

// Sync handles POST /api/v1/integrations/:marketplace/supplies/sync
func (h *SupplyHandler) Sync(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	report, err := h.supplies.Sync(c.Request.Context(), creds)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "supplies synchronized", report)
}

// credentials resolves marketplace credentials for the request tenant.
func (h *SupplyHandler) credentials(c *gin.Context) (marketplace.Credentials, bool) {
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
