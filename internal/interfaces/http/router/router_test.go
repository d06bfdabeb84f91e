package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/infrastructure/config"
	"github.com/sellerhub/backend/internal/interfaces/http/handler"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"

	log := zap.NewNop()
	handlers := Handlers{
		System:       handler.NewSystemHandler(nil, "test", log),
		Products:     handler.NewProductHandler(nil, log),
		Categories:   handler.NewCategoryHandler(nil, log),
		PriceLists:   handler.NewPriceListHandler(nil, log),
		Integrations: handler.NewIntegrationHandler(nil, nil, nil, log),
		Orders:       handler.NewOrderHandler(nil, nil, log),
		Supplies:     handler.NewSupplyHandler(nil, nil, log),
		Dictionaries: handler.NewDictionaryHandler(nil, nil, log),
		Uploads:      handler.NewUploadHandler(nil, log),
	}
	return New(cfg, handlers, log)
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_Ready(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_TenantEnforced(t *testing.T) {
	r := newTestRouter(t)

	// Every /api/v1 route requires the tenant header
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_REQUIRED")
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "probe-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "probe-42", w.Header().Get("X-Request-ID"))
}
