package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sellerhub/backend/internal/infrastructure/config"
	"github.com/sellerhub/backend/internal/infrastructure/logger"
	"github.com/sellerhub/backend/internal/interfaces/http/handler"
	"github.com/sellerhub/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	System       *handler.SystemHandler
	Products     *handler.ProductHandler
	Categories   *handler.CategoryHandler
	PriceLists   *handler.PriceListHandler
	Integrations *handler.IntegrationHandler
	Orders       *handler.OrderHandler
	Supplies     *handler.SupplyHandler
	Dictionaries *handler.DictionaryHandler
	Uploads      *handler.UploadHandler
}

// defaultMaxBodySize caps request bodies when the config leaves the
// limit unset. Batch payloads are large but bounded.
const defaultMaxBodySize = 16 << 20

// New builds the gin engine with the full middleware chain and all
// API routes mounted.
func New(cfg *config.Config, handlers Handlers, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	maxBody := cfg.HTTP.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.Logger = log

	engine.Use(
		middleware.RequestID(),
		logger.RequestLog(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(maxBody),
		middleware.TenantWithConfig(tenantCfg),
	)

	engine.GET("/health", handlers.System.Health)
	engine.GET("/healthz", handlers.System.Health)
	engine.GET("/ready", handlers.System.Ready)

	api := engine.Group("/api/v1")

	products := api.Group("/products")
	{
		products.GET("", handlers.Products.List)
		products.GET("/:id", handlers.Products.Get)
		products.DELETE("/:id", handlers.Products.Delete)
		products.POST("/batch", handlers.Products.BatchUpsert)
		products.POST("/batch-delete", handlers.Products.BatchDelete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", handlers.Categories.List)
		categories.POST("", handlers.Categories.Create)
		categories.PUT("/:id", handlers.Categories.Update)
		categories.DELETE("/:id", handlers.Categories.Delete)
		categories.POST("/batch", handlers.Categories.BatchUpsert)
	}

	priceLists := api.Group("/price-lists")
	{
		priceLists.GET("", handlers.PriceLists.List)
		priceLists.POST("", handlers.PriceLists.Create)
		priceLists.DELETE("/:id", handlers.PriceLists.Delete)
		priceLists.POST("/:id/products", handlers.PriceLists.AttachProducts)
		priceLists.POST("/:id/products/detach", handlers.PriceLists.DetachProducts)
	}
	api.POST("/prices/batch", handlers.PriceLists.BatchUpsertPrices)

	integrations := api.Group("/integrations")
	{
		integrations.GET("", handlers.Integrations.List)
		integrations.GET("/:marketplace", handlers.Integrations.Get)
		integrations.PUT("/:marketplace", handlers.Integrations.UpdateSettings)
		integrations.POST("/:marketplace/publish", handlers.Integrations.Publish)
		integrations.POST("/:marketplace/unpublish", handlers.Integrations.Unpublish)
		integrations.POST("/:marketplace/check-connection", handlers.Integrations.CheckConnection)

		integrations.POST("/:marketplace/export", handlers.Integrations.ExportProducts)
		integrations.GET("/:marketplace/export/:taskID", handlers.Integrations.ExportStatus)
		integrations.POST("/:marketplace/visibility", handlers.Integrations.SetVisibility)
		integrations.POST("/:marketplace/push-prices-stocks", handlers.Integrations.PushPricesAndStocks)
		integrations.POST("/:marketplace/export-images", handlers.Integrations.ExportImages)
		integrations.POST("/:marketplace/import", handlers.Integrations.ImportProducts)

		integrations.GET("/:marketplace/supplies", handlers.Supplies.List)
		integrations.POST("/:marketplace/supplies", handlers.Supplies.Open)
		integrations.POST("/:marketplace/supplies/sync", handlers.Supplies.Sync)
		integrations.POST("/:marketplace/supplies/:id/close", handlers.Supplies.Close)
		integrations.POST("/:marketplace/supplies/:id/orders", handlers.Supplies.AttachOrder)

		integrations.GET("/:marketplace/dictionaries/:kind", handlers.Dictionaries.List)
		integrations.GET("/:marketplace/dictionary-values", handlers.Dictionaries.Values)
		integrations.POST("/:marketplace/dictionaries/sync", handlers.Dictionaries.SyncAttributes)
		integrations.POST("/:marketplace/warehouses/sync", handlers.Dictionaries.SyncWarehouses)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", handlers.Orders.List)
		orders.GET("/:id", handlers.Orders.Get)
		orders.POST("/:id/cancel", handlers.Orders.Cancel)
		orders.POST("/pull", handlers.Orders.Pull)
	}

	api.POST("/uploads", handlers.Uploads.Create)

	return engine
}
