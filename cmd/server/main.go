package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nordvest/backend/internal/application/advisory"
	analyticsapp "github.com/nordvest/backend/internal/application/analytics"
	chatapp "github.com/nordvest/backend/internal/application/chat"
	filesapp "github.com/nordvest/backend/internal/application/files"
	projectapp "github.com/nordvest/backend/internal/application/project"
	"github.com/nordvest/backend/internal/application/readthrough"
	"github.com/nordvest/backend/internal/domain/files"
	"github.com/nordvest/backend/internal/infrastructure/ai"
	"github.com/nordvest/backend/internal/infrastructure/cache"
	"github.com/nordvest/backend/internal/infrastructure/config"
	"github.com/nordvest/backend/internal/infrastructure/logger"
	"github.com/nordvest/backend/internal/infrastructure/persistence"
	"github.com/nordvest/backend/internal/infrastructure/storage"
	"github.com/nordvest/backend/internal/infrastructure/telemetry"
	"github.com/nordvest/backend/internal/interfaces/http/handler"
	"github.com/nordvest/backend/internal/interfaces/http/middleware"
	"github.com/nordvest/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	otelCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}

	providers, err := telemetry.Setup(ctx, otelCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	// Ship logs through OTLP as well when telemetry is on
	if providers.LogsEnabled() {
		if log, err = logger.New(logCfg, providers.ZapCore(logger.ParseLevel(cfg.Log.Level))); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Nordvest backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	meter := providers.Meter("nordvest-backend")
	instruments, err := telemetry.NewInstruments(meter)
	if err != nil {
		log.Fatal("Failed to create instruments", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if _, err := telemetry.RegisterDBPoolMetrics(meter, db.Stats); err != nil {
		log.Warn("Failed to register database pool metrics", zap.Error(err))
	}

	// Cache: Redis when reachable, in-memory otherwise
	store, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	// AI model
	generator, err := ai.NewFromConfig(&cfg.AI,
		ai.WithLogger(log.Named("ai")),
		ai.WithInstruments(instruments),
	)
	if err != nil {
		log.Fatal("Failed to initialize AI model", zap.Error(err))
	}
	log.Info("AI model configured",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.AI.Model),
	)

	objectStore, err := newObjectStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Repositories
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	recommendationRepo := persistence.NewGormRecommendationRepository(db.DB)
	financingRepo := persistence.NewGormFinancingRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db.DB, cfg.Analytics.MaxQueryLimit)

	// Application services
	recorder := analyticsapp.NewRecorder(analyticsRepo, log.Named("analytics"),
		analyticsapp.WithEnabled(cfg.Analytics.Enabled),
		analyticsapp.WithWriteTimeout(cfg.Analytics.WriteTimeout),
		analyticsapp.WithInstruments(instruments),
	)
	loader := readthrough.New(store,
		readthrough.WithLogger(log.Named("cache")),
		readthrough.WithRecorder(instruments),
	)

	projectService := projectapp.NewService(projectRepo, loader, recorder, projectapp.CacheTTLs{
		Project: cfg.Cache.ProjectTTL,
		List:    cfg.Cache.ProjectListTTL,
	}, log)
	advisoryService := advisory.NewService(projectService, recommendationRepo, financingRepo,
		generator, loader, recorder, log.Named("advisory"),
		advisory.WithCacheTTLs(advisory.CacheTTLs{
			Advice:        cfg.Cache.AdviceTTL,
			Plan:          cfg.Cache.PlanTTL,
			AdHocAnalysis: cfg.Cache.AdHocAnalysisTTL,
			AdHocFinance:  cfg.Cache.AdHocFinancingTTL,
		}),
	)
	chatService := chatapp.NewService(conversationRepo, messageRepo, projectService, generator, recorder, log.Named("chat"))
	analyticsService := analyticsapp.NewService(analyticsRepo, cfg.Analytics.DefaultLimit, log)
	fileService := filesapp.NewService(objectStore, projectService, cfg.Storage.MaxUploadSize, log.Named("files"))

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var aiLimiter *middleware.RateLimiter
	if cfg.HTTP.AIRateLimitEnabled {
		aiLimiter = middleware.NewRateLimiter(cfg.HTTP.AIRateLimitRPS, cfg.HTTP.AIRateLimitBurst)
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	httpMeter := meter
	if !providers.MetricsEnabled() {
		httpMeter = nil
	}

	engine, err := router.New(router.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: providers.TracingEnabled(),
		Meter:          httpMeter,
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		MaxUploadSize:  cfg.Storage.MaxUploadSize,
		AIRateLimiter:  aiLimiter,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		Project:   handler.NewProjectHandler(projectService),
		Advisory:  handler.NewAdvisoryHandler(advisoryService),
		Chat:      handler.NewChatHandler(chatService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Health:    handler.NewHealthHandler(db, cache.RedisPinger(store), cfg.App.Version, cfg.App.Env, 0),
		Files:     handler.NewFileHandler(fileService),
	}, log)
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	// Create HTTP server with config
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := recorder.Drain(shutdownCtx); err != nil {
		log.Warn("Analytics events still pending at shutdown", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing cache", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3 storage when enabled. Outside production a
// disabled store falls back to process memory; in production it stays nil
// and the file endpoints answer 503.
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (files.ObjectStorage, error) {
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3Storage(ctx, &cfg.Storage, storage.WithLogger(log.Named("storage")))
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Info("Using S3 file storage", zap.String("bucket", cfg.Storage.Bucket))
		return s3, nil
	}
	if cfg.IsProduction() {
		log.Warn("File storage disabled; file endpoints will answer 503")
		return nil, nil
	}
	log.Info("File storage disabled, keeping uploads in memory")
	return storage.NewMemoryStorage(cfg.Storage.PublicBaseURL), nil
}
