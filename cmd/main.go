package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/KasumiMercury/primind-crowd-signage/internal/config"
	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/handler"
	"github.com/KasumiMercury/primind-crowd-signage/internal/health"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/catalog"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/decisionrecorder"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/weather"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/logging"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/metrics"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/middleware"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/aggregation"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/catalogsync"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/contexttag"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/display"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/pipeline"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/selection"
)

// Version is set via ldflags at build time
var Version = "dev"

const serviceModule = logging.Module("crowd-signage")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.Display.Validate(); err != nil {
		slog.Error("display queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	decisionMetrics, err := metrics.NewDecisionMetrics()
	if err != nil {
		slog.Error("failed to initialize decision metrics", slog.String("error", err.Error()))
		return 1
	}

	// Initialize decision recorder (InfluxDB for local, BigQuery for gcloud, sqlite when a path is set)
	decisionRecorder, err := decisionrecorder.NewRecorder(ctx, decisionrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize decision recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := decisionRecorder.Flush(flushCtx); err != nil {
			slog.Warn("failed to flush decision recorder", slog.String("error", err.Error()))
		}
		if err := decisionRecorder.Close(); err != nil {
			slog.Warn("failed to close decision recorder", slog.String("error", err.Error()))
		}
	}()

	displayQueue, cleanup, err := initDisplayQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize display queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("display queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	var redisClient *redis.Client
	if cfg.Catalog.Source == config.CatalogSourceRedis {
		redisClient, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Error("failed to connect redis",
				slog.String("event", "redis.connect.fail"),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		slog.Info("redis connected",
			slog.String("addr", cfg.Redis.Addr),
		)
	}

	catalogLoader, err := newCatalogLoader(cfg.Catalog, redisClient)
	if err != nil {
		slog.Error("failed to initialize catalog loader", slog.String("error", err.Error()))
		return 1
	}

	snapshot := selection.NewSnapshot(nil)
	reloader := catalogsync.NewReloader(catalogLoader, string(cfg.Catalog.Source), snapshot, decisionMetrics)

	// A failed initial load leaves an empty catalog published; selection answers "No Ad Found".
	if _, err := reloader.Reload(ctx); err != nil {
		slog.Error("initial catalog load failed, serving empty catalog",
			slog.String("event", "catalog.initial_load.fail"),
			slog.String("source", string(cfg.Catalog.Source)),
			slog.String("error", err.Error()),
		)
	}

	if cfg.Catalog.ReloadInterval > 0 {
		go reloader.Run(ctx, cfg.Catalog.ReloadInterval)
	}

	var weatherRepo weather.Repository
	if cfg.Context.WeatherEnabled() {
		weatherRepo = weather.NewClient(cfg.Context.WeatherAPIURL, cfg.Context.WeatherAPIKey, cfg.Context.WeatherTimeout)
	} else {
		slog.Warn("WEATHER_API_KEY not set, weather context disabled")
	}

	contextProvider := contexttag.NewProvider(weatherRepo, cfg.Context.WeatherCity,
		contexttag.WithLocation(cfg.Context.Location),
		contexttag.WithRefreshInterval(cfg.Context.RefreshInterval),
	)

	pipelineService := pipeline.NewService(
		aggregation.NewSyncWindow(cfg.Aggregation.WindowSize),
		selection.NewEngine(snapshot),
		contextProvider,
		display.NewTracker(),
		displayQueue,
		decisionRecorder,
		decisionMetrics,
	)

	signageHandler := handler.NewSignageHandler(pipelineService)
	catalogHandler := handler.NewCatalogHandler(snapshot, reloader)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(otelgin.Middleware(obs.ServiceName()))
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      serviceModule,
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, snapshot, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	grpcHealthPath, grpcHealthHandler := healthChecker.GRPCHandler()
	r.POST(grpcHealthPath+"*method", grpcHealthHandler)

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/observations", signageHandler.HandleObservations)
		v1.GET("/stats", signageHandler.HandleStats)
		v1.POST("/stream/reset", signageHandler.HandleReset)
		v1.POST("/select", signageHandler.HandleSelect)
		v1.GET("/context", signageHandler.HandleContext)
		v1.POST("/context/refresh", signageHandler.HandleRefreshContext)

		v1.GET("/catalog", catalogHandler.HandleGetCatalog)
		v1.POST("/catalog/reload", catalogHandler.HandleReload)
		v1.PUT("/catalog", catalogHandler.HandleReplace)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("window_size", cfg.Aggregation.WindowSize),
			slog.String("catalog_source", string(cfg.Catalog.Source)),
			slog.Int("catalog_size", snapshot.Current().Len()),
			slog.String("weather_city", cfg.Context.WeatherCity),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis metrics: %w", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func newCatalogLoader(cfg *config.CatalogConfig, redisClient *redis.Client) (domain.CatalogLoader, error) {
	switch cfg.Source {
	case config.CatalogSourceFile:
		return catalog.NewFileLoader(cfg.Path), nil
	case config.CatalogSourceHTTP:
		return catalog.NewHTTPLoader(cfg.URL), nil
	case config.CatalogSourceRedis:
		if redisClient == nil {
			return nil, errors.New("redis catalog source requires a redis client")
		}
		return catalog.NewRedisRepository(redisClient), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
