package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	marketplaceapp "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
)

// DictionaryHandler serves marketplace reference data: synced
// categories, attribute schemas and live dictionary value lookups.
type DictionaryHandler struct {
	BaseHandler
	dictionaries *marketplaceapp.DictionaryService
	integrations *marketplaceapp.IntegrationService
}

// NewDictionaryHandler creates a new DictionaryHandler
func NewDictionaryHandler(
	dictionaries *marketplaceapp.DictionaryService,
	integrations *marketplaceapp.IntegrationService,
	logger *zap.Logger,
) *DictionaryHandler {
	return &DictionaryHandler{
		BaseHandler:  NewBaseHandler(logger),
		dictionaries: dictionaries,
		integrations: integrations,
	}
}

// DictionaryValuesQuery holds the live value lookup parameters.
type DictionaryValuesQuery struct {
	DictionaryID       string `form:"dictionary_id"`
	CategoryExternalID string `form:"category_external_id"`
	Search             string `form:"search"`
	Limit              int    `form:"limit"`
}

// List handles GET /api/v1/integrations/:marketplace/dictionaries/:kind
func (h *DictionaryHandler) List(c *gin.Context) {
	code, ok := h.MarketplaceParam(c)
	if !ok {
		return
	}

	kind := marketplace.DictionaryKind(c.Param("kind"))
	if !kind.IsValid() {
		h.Error(c, shared.NewDomainError("INVALID_INPUT", "unknown dictionary kind "+c.Param("kind")))
		return
	}

	resp, err := h.dictionaries.List(c.Request.Context(), code, kind)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// Values handles GET /api/v1/integrations/:marketplace/dictionary-values.
// Lookups go to the marketplace with a cache in front, so results stay
// fresh without hammering the provider on every keystroke.
func (h *DictionaryHandler) Values(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	var query DictionaryValuesQuery
	if !h.BindQuery(c, &query) {
		return
	}

	values, err := h.dictionaries.Values(c.Request.Context(), creds, marketplace.DictionaryQuery{
		DictionaryID:       query.DictionaryID,
		CategoryExternalID: query.CategoryExternalID,
		Search:             query.Search,
		Limit:              query.Limit,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, values)
}

// SyncAttributes handles POST /api/v1/integrations/:marketplace/dictionaries/sync
func (h *DictionaryHandler) SyncAttributes(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	report, err := h.dictionaries.SyncAttributes(c.Request.Context(), creds)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "attributes synchronized", report)
}

// SyncWarehouses handles POST /api/v1/integrations/:marketplace/warehouses/sync
func (h *DictionaryHandler) SyncWarehouses(c *gin.Context) {
	creds, ok := h.credentials(c)
	if !ok {
		return
	}

	report, err := h.dictionaries.SyncWarehouses(c.Request.Context(), creds)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessMessage(c, "warehouses synchronized", report)
}

// credentials resolves marketplace credentials for the request tenant.
func (h *DictionaryHandler) credentials(c *gin.Context) (marketplace.Credentials, bool) {
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
