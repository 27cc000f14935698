// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"tradereg/internal/domain/auth"
	"tradereg/internal/domain/catalogs/license"
	"tradereg/internal/domain/catalogs/licensetype"
	"tradereg/internal/domain/catalogs/shop"
	"tradereg/internal/domain/catalogs/user"
	"tradereg/internal/domain/export"
	"tradereg/internal/domain/records"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/cache"
	"tradereg/internal/infrastructure/http/v1/handlers"
	"tradereg/internal/infrastructure/http/v1/middleware"
	"tradereg/internal/infrastructure/storage/postgres"
	"tradereg/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	// Pool is the database pool (for health checks)
	Pool *postgres.Pool

	// CatalogCache backs the field-catalog stats endpoint
	CatalogCache *cache.CatalogCache

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Registry is the schema registry (fields + entity kinds)
	Registry *schema.Service

	// Catalog services
	Shops        *shop.Service
	Licenses     *license.Service
	LicenseTypes *licensetype.Service
	Users        *user.Service

	// Records is the generic-model record service
	Records *records.Service

	// Exports builds CSV/PDF tables
	Exports *export.Service

	// PDFRenderer is optional; the PDF route registers only when set
	PDFRenderer export.PDFRenderer
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.CatalogCache)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth: login is public, everything else sits behind the JWT.
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		publicAuth := v1.Group("/auth")
		protectedAuth := v1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerSchemaRoutes(protected, baseHandler, cfg)
		registerCatalogRoutes(protected, baseHandler, cfg)
		registerRecordRoutes(protected, baseHandler, cfg)
		registerExportRoutes(protected, baseHandler, cfg)
	}

	return router
}

// registerSchemaRoutes registers the field registry and entity kind routes.
// Schema mutations are admin-only; reads are open to any authenticated user.
func registerSchemaRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	fieldHandler := handlers.NewFieldHandler(base, cfg.Registry)
	kindHandler := handlers.NewKindHandler(base, cfg.Registry)

	schemaGroup := rg.Group("/schema")
	{
		schemaGroup.GET("/:kind/fields", fieldHandler.List)
		schemaGroup.GET("/fields/:id", fieldHandler.Get)

		admin := schemaGroup.Group("")
		admin.Use(middleware.RequireRole(string(user.RoleAdmin)))
		{
			admin.POST("/:kind/fields", fieldHandler.Define)
			admin.PATCH("/fields/:id", fieldHandler.Update)
			admin.POST("/fields/:id/deactivate", fieldHandler.Deactivate)
			admin.DELETE("/fields/:id", fieldHandler.Delete)
		}
	}

	kinds := rg.Group("/kinds")
	{
		kinds.GET("", kindHandler.List)
		kinds.GET("/:slug", kindHandler.Get)

		admin := kinds.Group("")
		admin.Use(middleware.RequireRole(string(user.RoleAdmin)))
		{
			admin.POST("", kindHandler.Create)
			admin.PATCH("/:slug", kindHandler.Update)
		}
	}
}

// registerCatalogRoutes registers the fixed-entity catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	// --- SHOPS ---
	{
		handler := handlers.NewShopHandler(base, cfg.Shops)
		handler.RegisterRoutes(rg.Group("/shops"))
	}

	// --- LICENSES ---
	{
		handler := handlers.NewLicenseHandler(base, cfg.Licenses)
		handler.RegisterRoutes(rg.Group("/licenses"))
	}

	// --- LICENSE TYPES ---
	{
		handler := handlers.NewLicenseTypeHandler(base, cfg.LicenseTypes)
		handler.RegisterRoutes(rg.Group("/license-types"))
	}

	// --- USERS (admin only) ---
	{
		handler := handlers.NewUserHandler(base, cfg.Users)
		users := rg.Group("/users")
		users.Use(middleware.RequireRole(string(user.RoleAdmin)))
		handler.RegisterRoutes(users)
	}
}

// registerRecordRoutes registers the generic-model record endpoints.
func registerRecordRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewRecordHandler(base, cfg.Records)
	handler.RegisterRoutes(rg.Group("/records"))
}

// registerExportRoutes registers the CSV/PDF export endpoints.
func registerExportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewExportHandler(base, cfg.Exports, cfg.PDFRenderer)
	handler.RegisterRoutes(rg.Group("/export"))
}
