package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	assetapp "github.com/itam/backend/internal/application/asset"
	identityapp "github.com/itam/backend/internal/application/identity"
	importexportapp "github.com/itam/backend/internal/application/importexport"
	orgapp "github.com/itam/backend/internal/application/org"
	"github.com/itam/backend/internal/infrastructure/auth"
	"github.com/itam/backend/internal/infrastructure/backup"
	"github.com/itam/backend/internal/infrastructure/config"
	"github.com/itam/backend/internal/infrastructure/logger"
	"github.com/itam/backend/internal/infrastructure/persistence"
	"github.com/itam/backend/internal/interfaces/http/handler"
	"github.com/itam/backend/internal/interfaces/http/middleware"
	"github.com/itam/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Inventory Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready", zap.String("path", cfg.Database.Path))

	// Repositories
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	subcategoryRepo := persistence.NewGormSubcategoryRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)

	// Application services
	assetService := assetapp.NewService(assetRepo, categoryRepo, locationRepo, settingRepo)
	categoryService := orgapp.NewCategoryService(categoryRepo, subcategoryRepo)
	locationService := orgapp.NewLocationService(locationRepo)
	vendorService := orgapp.NewVendorService(vendorRepo)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	userService := identityapp.NewUserService(userRepo)

	assetImportService := importexportapp.NewAssetImportService(
		assetRepo, categoryRepo, subcategoryRepo, locationRepo, vendorService,
		cfg.Import.MaxErrors, log,
	)
	categoryImportService := importexportapp.NewCategoryImportService(
		categoryRepo, subcategoryRepo, cfg.Import.MaxErrors, log,
	)
	exportService := importexportapp.NewExportService(
		assetRepo, categoryRepo, subcategoryRepo, locationRepo, vendorRepo,
	)

	backupManager := backup.NewManager(db.DB, cfg.Database.Path, cfg.Backup.Dir, cfg.Backup.Retention, log)

	// Gin engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewSystemHandler(db)).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewAssetHandler(assetService)).
		Register(handler.NewOrgHandler(categoryService, locationService, vendorService)).
		Register(handler.NewAdminHandler(userService, settingRepo)).
		Register(handler.NewImportExportHandler(
			assetImportService, categoryImportService, exportService, cfg.Import.MaxFileSize,
		)).
		Register(handler.NewBackupHandler(backupManager)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
