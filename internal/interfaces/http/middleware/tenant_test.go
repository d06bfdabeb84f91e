package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenantRouter(cfg TenantConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TenantWithConfig(cfg))
	handler := func(c *gin.Context) {
		if id, ok := TenantFromContext(c); ok {
			c.String(http.StatusOK, id.String())
			return
		}
		c.String(http.StatusOK, "no-tenant")
	}
	r.GET("/api/v1/products", handler)
	r.GET("/health", handler)
	return r
}

func TestTenant_ValidHeader(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())
	tenantID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set(TenantHeaderKey, tenantID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID.String(), w.Body.String())
}

func TestTenant_MissingHeader(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_REQUIRED")
}

func TestTenant_MalformedHeader(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set(TenantHeaderKey, "not-a-uuid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenant_NilUUIDRejected(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set(TenantHeaderKey, uuid.Nil.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenant_SkipPath(t *testing.T) {
	r := newTenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-tenant", w.Body.String())
}

func TestTenant_OptionalMode(t *testing.T) {
	cfg := DefaultTenantConfig()
	cfg.Required = false
	r := newTenantRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-tenant", w.Body.String())
}
