package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/filterdesk/backend/internal/application/catalog"
	identityapp "github.com/filterdesk/backend/internal/application/identity"
	importapp "github.com/filterdesk/backend/internal/application/import"
	partnerapp "github.com/filterdesk/backend/internal/application/partner"
	pricingapp "github.com/filterdesk/backend/internal/application/pricing"
	printapp "github.com/filterdesk/backend/internal/application/printing"
	regionapp "github.com/filterdesk/backend/internal/application/region"
	reportapp "github.com/filterdesk/backend/internal/application/report"
	tradeapp "github.com/filterdesk/backend/internal/application/trade"
	"github.com/filterdesk/backend/internal/domain/printing"
	"github.com/filterdesk/backend/internal/infrastructure/auth"
	"github.com/filterdesk/backend/internal/infrastructure/cache"
	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/filterdesk/backend/internal/infrastructure/logger"
	"github.com/filterdesk/backend/internal/infrastructure/persistence"
	infraprint "github.com/filterdesk/backend/internal/infrastructure/printing"
	"github.com/filterdesk/backend/internal/infrastructure/scheduler"
	"github.com/filterdesk/backend/internal/infrastructure/storage"
	"github.com/filterdesk/backend/internal/infrastructure/telemetry"
	"github.com/filterdesk/backend/internal/interfaces/http/handler"
	"github.com/filterdesk/backend/internal/interfaces/http/middleware"
	"github.com/filterdesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/filterdesk/backend/docs"
)

//	@title			FilterDesk Backend API
//	@version		1.0
//	@description	Order management API for the filter distributor: clients, catalog, discounts, orders, imports and dashboards.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						fd_session
//	@description				Session cookie set by POST /auth/login

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg.Log, cfg.App.Name))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FilterDesk backend",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry first so the database plugin can attach to the provider
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Log export: records keep going to stdout and are also shipped over OTLP
	lp, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = lp.Bridge(log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = lp.Shutdown(shutdownCtx)
	}()

	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mp.Shutdown(shutdownCtx)
	}()
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = profiler.Shutdown(shutdownCtx)
	}()
	if profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	var businessMetrics *telemetry.BusinessMetrics
	if mp.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(mp.Meter(telemetry.TracerName))
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
	}

	// Initialize database connection with the zap-backed GORM logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowQuery,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Cache store: Redis when configured, in-memory otherwise. Production
	// refuses to fall back because sessions must be shared between instances.
	store, redisClient, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	regionRepo := persistence.NewGormRegionRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	historyRepo := persistence.NewGormClientHistoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	importHistoryRepo := persistence.NewGormImportHistoryRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.Session)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, blacklist, cfg.Session.TTL, log)
	regionService := regionapp.NewRegionService(regionRepo, log)
	clientService := partnerapp.NewClientService(clientRepo, historyRepo, regionRepo, userRepo, log)
	productService := catalogapp.NewProductService(productRepo, log)
	discountService := pricingapp.NewDiscountService(discountRepo, log)
	quoteService := pricingapp.NewQuoteService(productRepo, discountRepo)
	dashboardService := reportapp.NewDashboardService(dashboardRepo, clientRepo, store, reportapp.DefaultCacheTTL, log)
	clientService.SetStatsInvalidator(dashboardService)
	orderService := tradeapp.NewOrderService(tradeapp.OrderServiceDeps{
		OrderRepo:    orderRepo,
		ClientRepo:   clientRepo,
		HistoryRepo:  historyRepo,
		ProductRepo:  productRepo,
		DiscountRepo: discountRepo,
		UserRepo:     userRepo,
		TxScope:      txScope,
		Stats:        dashboardService,
		Metrics:      businessMetrics,
		Logger:       log,
	})
	importService := importapp.NewImportService(txScope, importHistoryRepo, regionRepo, userRepo,
		cache.NewTypedCache[importapp.Session](store, "import:session:", cfg.Import.SessionTTL),
		cfg.Import, log)
	importService.SetMetrics(businessMetrics)
	importService.SetStatsInvalidator(dashboardService)

	// PDF engines. Chrome starts lazily on the first chromedp render.
	renderers := []infraprint.PDFRenderer{
		infraprint.NewGofpdfRenderer(log),
		infraprint.NewChromedpRenderer(infraprint.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			RemoteURL:      cfg.Printing.ChromeURL,
			NoSandbox:      cfg.Printing.ChromeNoSandbox,
			Logger:         log,
		}),
	}
	if profiler.IsEnabled() {
		for i, r := range renderers {
			renderers[i] = infraprint.WithProfilingLabels(r)
		}
	}
	var archive printapp.DocumentArchive
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3Storage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize document storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare document bucket", zap.Error(err), zap.String("bucket", s3.Bucket()))
		}
		archive = s3
		log.Info("PDF archive enabled", zap.String("bucket", s3.Bucket()))
	}
	printService := printapp.NewPrintService(printapp.PrintServiceConfig{
		Orders:        orderService,
		Renderers:     renderers,
		DefaultEngine: printing.Engine(cfg.Printing.DefaultEngine),
		Archive:       archive,
		Company: printing.Company{
			Name:    cfg.Printing.CompanyName,
			CNPJ:    cfg.Printing.CompanyCNPJ,
			Phone:   cfg.Printing.CompanyPhone,
			Email:   cfg.Printing.CompanyEmail,
			Address: cfg.Printing.CompanyAddress,
		},
		BaseURL:       cfg.App.BaseURL,
		RenderTimeout: cfg.Printing.RenderTimeout,
		Metrics:       businessMetrics,
		Logger:        log,
	})
	defer func() {
		if err := printService.Close(); err != nil {
			log.Error("Error closing PDF renderers", zap.Error(err))
		}
	}()

	// Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.NewScheduler(cfg.Scheduler.JobTimeout, log)
		if err := jobs.Register(cfg.Scheduler.StatsWarmupSchedule, scheduler.NewStatsWarmupJob(dashboardService)); err != nil {
			log.Fatal("Failed to register job", zap.String("job", scheduler.JobStatsWarmup), zap.Error(err))
		}
		if err := jobs.Register(cfg.Scheduler.StaleQuotationsSchedule,
			scheduler.NewStaleQuotationsJob(orderRepo, cfg.Scheduler.StaleQuotationDays, log)); err != nil {
			log.Fatal("Failed to register job", zap.String("job", scheduler.JobStaleQuotations), zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Validation messages and custom rules
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to setup validator", zap.Error(err))
	}

	engineCfg := router.EngineConfig{
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		},
		Security:  securityConfig(cfg),
		Profiling: profiler.IsEnabled(),
	}
	if mp.IsEnabled() {
		engineCfg.Meter = mp.Meter("http.server")
	}
	engine, stopLimiter := router.NewEngine(engineCfg, log)
	defer stopLimiter()

	var authLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		authLimit = middleware.LoginRateLimit(authLimiter)
	}

	cookie := middleware.NewSessionCookie(cfg.Cookie)
	router.RegisterAPI(router.NewRouter(engine), router.Handlers{
		Health:    handler.NewHealthHandler(db, version),
		Auth:      handler.NewAuthHandler(authService, cookie),
		User:      handler.NewUserHandler(userService),
		Region:    handler.NewRegionHandler(regionService),
		Client:    handler.NewClientHandler(clientService),
		Product:   handler.NewProductHandler(productService),
		Discount:  handler.NewDiscountHandler(discountService),
		Pricing:   handler.NewPricingHandler(quoteService),
		Order:     handler.NewOrderHandler(orderService, printService),
		Import:    handler.NewImportHandler(importService, cfg.HTTP.MaxUploadSize),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}, router.Guards{
		Session:   middleware.SessionAuth(authService, cookie, log),
		AuthLimit: authLimit,
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// securityConfig enables HSTS only where the cookie is marked Secure
func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	sec := middleware.DefaultSecurityConfig()
	sec.HSTSEnabled = cfg.Cookie.Secure
	return sec
}
