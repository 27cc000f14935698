// Package main is the entry point for the tradereg API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradereg/internal/core/config"
	"tradereg/internal/domain"
	"tradereg/internal/domain/auth"
	"tradereg/internal/domain/catalogs/license"
	"tradereg/internal/domain/catalogs/licensetype"
	"tradereg/internal/domain/catalogs/shop"
	"tradereg/internal/domain/catalogs/user"
	"tradereg/internal/domain/export"
	"tradereg/internal/domain/records"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
	"tradereg/internal/infrastructure/cache"
	v1 "tradereg/internal/infrastructure/http/v1"
	"tradereg/internal/infrastructure/storage/postgres"
	"tradereg/internal/infrastructure/storage/postgres/catalog_repo"
	"tradereg/internal/infrastructure/storage/postgres/record_repo"
	"tradereg/internal/infrastructure/storage/postgres/schema_repo"
	"tradereg/internal/infrastructure/storage/postgres/value_repo"
	"tradereg/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to optional yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tradereg server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories and value stores ---
	fieldRepo := schema_repo.NewFieldRepo(txManager)
	kindRepo := schema_repo.NewKindRepo(txManager)

	legacyStore := value_repo.NewLegacyStore(txManager)
	typedStore := value_repo.NewTypedStore(txManager)

	// --- Field-catalog cache ---
	catalogCache := cache.NewCatalogCache(pool.Unwrap(), fieldRepo, cfg.CacheReadTimeout)
	if err := catalogCache.Start(ctx); err != nil {
		log.Fatalw("failed to start catalog cache", "error", err)
	}
	defer catalogCache.Stop()

	// --- Schema registry ---
	registry := schema.NewService(schema.ServiceConfig{
		Fields:      fieldRepo,
		Kinds:       kindRepo,
		TxManager:   txManager,
		Cascaders:   []schema.ValueCascader{legacyStore, typedStore},
		Invalidator: catalogCache,
	})

	// --- Value services: legacy text model for catalogs, typed columns for records ---
	legacyValues := values.NewService(legacyStore, catalogCache, txManager)
	typedValues := values.NewService(typedStore, catalogCache, txManager)

	// --- Catalog services ---
	shopRepo := catalog_repo.NewShopRepo(txManager)
	shopSvc := shop.NewService(shopRepo, txManager, legacyValues)

	typeRepo := catalog_repo.NewLicenseTypeRepo(txManager)
	typeSvc := licensetype.NewService(typeRepo, txManager, legacyValues)

	licenseRepo := catalog_repo.NewLicenseRepo(txManager)
	licenseSvc := license.NewService(licenseRepo, shopRepo, typeRepo, txManager, legacyValues)

	userRepo := catalog_repo.NewUserRepo(txManager)
	userSvc := user.NewService(userRepo, txManager, legacyValues)

	// --- Audit trail ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to init audit service", "error", err)
	}
	registerAudit(shopSvc.Hooks(), auditService, "shop")
	registerAudit(typeSvc.Hooks(), auditService, "license_type")
	registerAudit(licenseSvc.Hooks(), auditService, "license")
	registerAudit(userSvc.Hooks(), auditService, "user")

	// --- Generic record service ---
	recordRepo := record_repo.NewRecordRepo(txManager)
	recordSvc := records.NewService(recordRepo, typedValues, catalogCache, registry, txManager)

	// --- Exports ---
	exportSvc := export.NewService(catalogCache, legacyValues, recordSvc)
	exportSvc.RegisterSource(schema.KindShop, export.NewShopSource(shopSvc))
	exportSvc.RegisterSource(schema.KindLicense, export.NewLicenseSource(licenseSvc))
	exportSvc.RegisterSource(schema.KindLicenseType, export.NewLicenseTypeSource(typeSvc))
	exportSvc.RegisterSource(schema.KindUser, export.NewUserSource(userSvc))

	// --- Auth ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = cfg.JWTTTL
	jwtService := auth.NewJWTService(jwtConfig)
	authService := auth.NewService(userSvc, jwtService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		CatalogCache: catalogCache,
		Logger:       log,
		JWTValidator: jwtService,
		AuthService:  authService,
		Registry:     registry,
		Shops:        shopSvc,
		Licenses:     licenseSvc,
		LicenseTypes: typeSvc,
		Users:        userSvc,
		Records:      recordSvc,
		Exports:      exportSvc,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}

// registerAudit attaches an audit-trail hook to every mutation of a catalog
// service. Audit hooks run after commit; a failed write logs a warning and
// never fails the request.
func registerAudit[T domain.Validatable](hooks *domain.HookRegistry[T], audit *postgres.AuditService, entityType string) {
	logChange := func(action postgres.AuditAction) domain.Hook[T] {
		return func(ctx context.Context, entity T) error {
			return audit.LogChange(ctx, entityType, entity.GetID(), action, map[string]any{
				"entity": entity,
			})
		}
	}
	hooks.On(domain.AfterCreate, logChange(postgres.AuditActionCreate))
	hooks.On(domain.AfterUpdate, logChange(postgres.AuditActionUpdate))
	hooks.On(domain.AfterDelete, logChange(postgres.AuditActionDelete))
}
