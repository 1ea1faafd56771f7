package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	trackerserver "github.com/Apurer/order-tracker/go"

	ordersmemory "github.com/Apurer/order-tracker/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/order-tracker/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/order-tracker/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/order-tracker/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/order-tracker/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/order-tracker/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-tracker/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/order-tracker/internal/platform/observability"
	platformpostgres "github.com/Apurer/order-tracker/internal/platform/postgres"
	platformtemporal "github.com/Apurer/order-tracker/internal/platform/temporal"
)

const serviceName = "order-tracker-api"

// Run boots the order tracker HTTP API and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, durable, cleanupRepo := BuildRepository(ctx, cfg.PostgresDSN, logger)
	defer cleanupRepo()
	if err := repo.Reset(ctx, ordersdomain.SeedOrders(cfg.BaseURL)); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	orderService := NewOrderService(repo, cfg, instruments)

	progression, closeProgression := buildProgression(cfg, durable, orderService, instruments)
	defer closeProgression()

	handlers := trackerserver.ApiHandleFunctions{
		OrderAPI: trackerserver.NewOrderAPI(orderService, progression, logger),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := trackerserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{Addr: cfg.Addr(), Handler: router}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("order tracker API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("order tracker API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("order tracker API shutting down")
	return server.Shutdown(shutdownCtx)
}

// BuildRepository returns the PostgreSQL repository when dsn is usable and the
// in-memory one otherwise. durable reports which one was chosen.
func BuildRepository(ctx context.Context, dsn string, logger *slog.Logger) (repo ordersports.Repository, durable bool, cleanup func()) {
	db, cleanup := platformpostgres.ConnectAndMigrate(ctx, dsn, logger)
	if db == nil {
		return ordersmemory.NewRepository(), false, cleanup
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db), true, cleanup
}

// NewOrderService builds the instrumented order service.
func NewOrderService(repo ordersports.Repository, cfg Config, instruments *platformobservability.Instruments) ordersports.Service {
	core := ordersapp.NewService(
		repo,
		ordersapp.WithAdvanceGate(ordersapp.NewRandomGate(cfg.AdvanceThreshold, cfg.AdvanceThresholdStep)),
	)
	return ordersobs.New(
		core,
		ordersobs.WithLogger(instruments.Logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
}

// buildProgression picks the post-list sweep. Temporal is only used when the
// repository is shared with the worker, i.e. backed by postgres.
func buildProgression(cfg Config, durable bool, service ordersports.Service, instruments *platformobservability.Instruments) (ordersports.ProgressionOrchestrator, func()) {
	logger := instruments.Logger
	if !cfg.AdvanceOnList {
		logger.Info("order progression on listing disabled")
		return nil, func() {}
	}
	inline := ordersworkflows.NewInlineProgression(service)
	if !durable {
		logger.Info("order progression running inline with in-memory repository")
		return inline, func() {}
	}
	temporalClient, err := platformtemporal.Dial(platformtemporal.Settings{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments, "temporal-client")
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline order progression", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return ordersworkflows.NewTemporalProgression(temporalClient), temporalClient.Close
}
