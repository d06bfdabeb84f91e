package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/domain/marketplace"
	"github.com/sellerhub/backend/internal/domain/shared"
	"github.com/sellerhub/backend/internal/interfaces/http/dto"
)

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	h := NewBaseHandler(zap.NewNop())
	h.Error(c, err)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestError_DomainErrorKeepsCode(t *testing.T) {
	w, resp := performError(t, shared.NewDomainError("NOT_FOUND", "product not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Equal(t, "product not found", resp.Message)
}

func TestError_UnknownDomainCodeIsBusinessError(t *testing.T) {
	w, resp := performError(t, shared.NewDomainError("SUPPLY_CLOSED", "supply is already closed"))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "SUPPLY_CLOSED", resp.Code)
}

func TestError_WrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("loading integration: %w", shared.ErrForbidden)
	w, resp := performError(t, wrapped)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Code)
}

func TestError_ProviderSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"token required", marketplace.ErrTokenRequired, http.StatusUnprocessableEntity, dto.CodeTokenRequired},
		{"rate limited", marketplace.ErrRateLimited, http.StatusTooManyRequests, dto.CodeRateLimited},
		{"order not found", marketplace.ErrOrderNotFound, http.StatusNotFound, dto.CodeNotFound},
		{"supply not found", marketplace.ErrSupplyNotFound, http.StatusNotFound, dto.CodeNotFound},
		{"unavailable", fmt.Errorf("ozon: %w", marketplace.ErrUnavailable), http.StatusBadGateway, dto.CodeConnectionError},
		{"request failed", marketplace.ErrRequestFailed, http.StatusBadGateway, dto.CodeConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := performError(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestError_UnknownErrorIsHidden(t *testing.T) {
	w, resp := performError(t, errors.New("pq: connection refused on 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.CodeSystem, resp.Code)
	// Internal details never leak to the client
	assert.NotContains(t, resp.Message, "10.0.0.3")
}

func TestUUIDParam_Malformed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h := NewBaseHandler(zap.NewNop())
	_, ok := h.UUIDParam(c, "id")

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarketplaceParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("valid lowercase", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
		c.Params = gin.Params{{Key: "marketplace", Value: "ozon"}}

		h := NewBaseHandler(zap.NewNop())
		code, ok := h.MarketplaceParam(c)

		assert.True(t, ok)
		assert.Equal(t, marketplace.CodeOzon, code)
	})

	t.Run("unknown", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
		c.Params = gin.Params{{Key: "marketplace", Value: "ebay"}}

		h := NewBaseHandler(zap.NewNop())
		_, ok := h.MarketplaceParam(c)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
