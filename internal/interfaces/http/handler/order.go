package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	marketplaceapp "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// OrderHandler serves the mirrored order endpoints.
type OrderHandler struct {
	BaseHandler
	orders       *marketplaceapp.OrderService
	integrations *marketplaceapp.IntegrationService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(
	orders *marketplaceapp.OrderService,
	integrations *marketplaceapp.IntegrationService,
	logger *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		BaseHandler:  NewBaseHandler(logger),
		orders:       orders,
		integrations: integrations,
	}
}

// OrderListQuery holds the filter parameters of the order list.
type OrderListQuery struct {
	Marketplace string `form:"marketplace"`
	Status      string `form:"status"`
	OrderType   string `form:"order_type"`
	SupplyID    string `form:"supply_id"`
	Since       string `form:"since"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// PullOrdersRequest triggers an on-demand order pull.
type PullOrdersRequest struct {
	Marketplace string     `json:"marketplace" binding:"required"`
	Since       *time.Time `json:"since,omitempty"`
}

// OrderListResponse wraps the order page with its total.
type OrderListResponse struct {
	Items    []marketplaceapp.OrderResponse `json:"items"`
	Total    int64                          `json:"total"`
	Page     int                            `json:"page"`
	PageSize int                            `json:"page_size"`
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var query OrderListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	items, total, err := h.orders.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, OrderListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.orders.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /api/v1/orders/:id/cancel. The marketplace is
// asked first; local state only changes after the remote cancel
// succeeded.
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	creds, err := h.integrations.Credentials(c.Request.Context(), tenantID, marketplace.Code(order.Marketplace))
	if err != nil {
		h.Error(c, err)
		return
	}

	resp, err := h.orders.Cancel(c.Request.Context(), creds, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "order canceled", resp)
}

// Pull handles POST /api/v1/orders/pull
func (h *OrderHandler) Pull(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	var req PullOrdersRequest
	if !h.BindJSON(c, &req) {
		return
	}

	code := marketplace.Code(strings.ToUpper(req.Marketplace))
	if !code.IsValid() || code == marketplace.CodeNone {
		h.Error(c, shared.NewDomainError("INVALID_INPUT", "unknown marketplace "+req.Marketplace))
		return
	}

	creds, err := h.integrations.Credentials(c.Request.Context(), tenantID, code)
	if err != nil {
		h.Error(c, err)
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	if req.Since != nil {
		since = *req.Since
	}

	report, err := h.orders.Pull(c.Request.Context(), creds, since)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "orders pulled", report)
}

// toFilter converts the query to a domain filter, validating enums.
func (q OrderListQuery) toFilter() (marketplace.OrderFilter, error) {
	filter := marketplace.OrderFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	if q.Marketplace != "" {
		code := marketplace.Code(strings.ToUpper(q.Marketplace))
		if !code.IsValid() || code == marketplace.CodeNone {
			return filter, shared.NewDomainError("INVALID_INPUT", "unknown marketplace "+q.Marketplace)
		}
		filter.Marketplace = &code
	}
	if q.Status != "" {
		status := marketplace.OrderStatus(q.Status)
		if !status.IsValid() {
			return filter, shared.NewDomainError("INVALID_INPUT", "unknown order status "+q.Status)
		}
		filter.Status = &status
	}
	if q.OrderType != "" {
		orderType := marketplace.OrderType(q.OrderType)
		if !orderType.IsValid() {
			return filter, shared.NewDomainError("INVALID_INPUT", "unknown order type "+q.OrderType)
		}
		filter.OrderType = &orderType
	}
	if q.SupplyID != "" {
		supplyID, err := uuid.Parse(q.SupplyID)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_INPUT", "supply_id must be a valid UUID")
		}
		filter.SupplyID = &supplyID
	}
	if q.Since != "" {
		since, err := time.Parse(time.RFC3339, q.Since)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_INPUT", "since must be an RFC3339 timestamp")
		}
		filter.Since = &since
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 500 {
		filter.PageSize = 50
	}
	return filter, nil
}
