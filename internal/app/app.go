// Package app wires the catalog service together and owns its
// lifecycle: construct dependencies, run the HTTP server, shut
// everything down in order.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/housevarsha/catalog-service/internal/auth"
	"github.com/housevarsha/catalog-service/internal/cache"
	"github.com/housevarsha/catalog-service/internal/catalog"
	"github.com/housevarsha/catalog-service/internal/config"
	"github.com/housevarsha/catalog-service/internal/event"
	handler "github.com/housevarsha/catalog-service/internal/handler/http"
	"github.com/housevarsha/catalog-service/internal/imageurl"
	"github.com/housevarsha/catalog-service/internal/normalize"
	"github.com/housevarsha/catalog-service/internal/source"
	"github.com/housevarsha/catalog-service/pkg/health"
	"github.com/housevarsha/catalog-service/pkg/httpclient"
	pkgkafka "github.com/housevarsha/catalog-service/pkg/kafka"
	"github.com/housevarsha/catalog-service/pkg/tracing"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// Every ingestion source is optional; the service starts and serves the
// static fallback even with an empty environment.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "catalog-service",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.TracingEndpoint,
		SampleRate:   cfg.TracingSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	healthHandler := health.NewHandler()

	// Snapshot store: shared Redis when configured, otherwise an
	// in-process slot.
	var store cache.Store = cache.NewMemory()
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store = cache.NewRedis(rdb)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		logger.Info("using redis snapshot store", slog.String("addr", cfg.RedisAddr))
	}

	// Kafka producer, only when brokers are configured. Events are
	// best-effort either way.
	var producer *pkgkafka.Producer
	var events *event.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(producer, logger)
		healthHandler.Register("kafka", producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	productSources, settingSources, err := buildSources(cfg, logger)
	if err != nil {
		return nil, err
	}

	normalizer := normalize.New(imageurl.NewResolver(cfg.CloudinaryCloudName))

	catalogService := catalog.NewService(
		productSources, settingSources,
		normalizer,
		store,
		events,
		catalog.Config{TTL: cfg.CacheTTL(), FetchTimeout: cfg.FetchTimeout()},
		logger,
	)

	router := handler.NewRouter(catalogService, healthHandler, logger, handler.RouterConfig{
		Environment:        cfg.Environment,
		AllowedOrigins:     cfg.AllowedOrigins,
		RevalidationSecret: cfg.RevalidationSecret,
		RevalidateRPS:      cfg.RevalidateRPS,
		RevalidateBurst:    cfg.RevalidateBurst,
		CacheMaxAgeSeconds: cfg.CacheTTLSeconds,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// buildSources assembles the fallback chains in priority order. A
// source missing its configuration is left out entirely; the static
// dataset is appended implicitly by the orchestrator.
func buildSources(cfg *config.Config, logger *slog.Logger) (products, settings []source.RowSource, err error) {
	if cfg.SheetsConfigured() {
		signer, err := auth.NewSigner(cfg.ServiceAccountEmail, cfg.ServiceAccountKey, cfg.SheetsScope, cfg.TokenURL)
		if err != nil {
			return nil, nil, fmt.Errorf("build assertion signer: %w", err)
		}

		client := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("sheets"),
			logger,
		)
		tokens := auth.NewTokenSource(signer, client, cfg.TokenURL)

		products = append(products, source.NewSheetsSource(tokens, client, cfg.SheetsBaseURL, cfg.SheetID, cfg.ProductsRange))
		settings = append(settings, source.NewSheetsSource(tokens, client, cfg.SheetsBaseURL, cfg.SheetID, cfg.SettingsRange))
		logger.Info("authenticated sheet source configured", slog.String("sheet_id", cfg.SheetID))
	}

	if cfg.ProductsFeedURL != "" || cfg.SettingsFeedURL != "" {
		client := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("feed"),
			logger,
		)
		if cfg.ProductsFeedURL != "" {
			products = append(products, source.NewFeedSource("sheets-csv", client, cfg.ProductsFeedURL))
		}
		if cfg.SettingsFeedURL != "" {
			settings = append(settings, source.NewFeedSource("sheets-csv", client, cfg.SettingsFeedURL))
		}
		logger.Info("public feed source configured")
	}

	if len(products) == 0 {
		logger.Warn("no catalog sources configured, serving bundled static dataset only")
	}

	return products, settings, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
