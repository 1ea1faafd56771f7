package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/order-tracker/internal/app/api"
	platformobservability "github.com/Apurer/order-tracker/internal/platform/observability"
	platformtemporal "github.com/Apurer/order-tracker/internal/platform/temporal"
	orderactivities "github.com/Apurer/order-tracker/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/order-tracker/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "order-tracker-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, durable, cleanupRepo := api.BuildRepository(ctx, cfg.PostgresDSN, logger)
	defer cleanupRepo()
	if !durable {
		logger.Warn("worker sweeping an in-memory repository, progression will not reach the API")
	}
	orderActivities := orderactivities.NewActivities(api.NewOrderService(repo, cfg, instruments))

	temporalClient, err := platformtemporal.Dial(platformtemporal.Settings{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	}, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.ProgressionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.ProgressionWorkflow, workflow.RegisterOptions{Name: orderworkflows.ProgressionWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.SweepOrders, activity.RegisterOptions{Name: orderactivities.SweepOrdersActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.ProgressionTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
