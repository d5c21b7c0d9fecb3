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

	"github.com/finprodb/shop-api/internal/app/api"
	platformobservability "github.com/finprodb/shop-api/internal/platform/observability"
	orderactivities "github.com/finprodb/shop-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/finprodb/shop-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "shop-worker"
	cfg, err := api.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability.Settings(serviceName))
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

	if cfg.Postgres.DSN == "" {
		logger.Warn("worker running on in-memory repositories, orders it places are invisible to the API process")
	}
	services, cleanup, err := api.Build(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	checkoutActivities := orderactivities.NewActivities(services.Orders)

	temporalClient, err := api.DialTemporal(cfg.Temporal, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.CheckoutTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: orderworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(checkoutActivities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	w.RegisterActivityWithOptions(checkoutActivities.PublishOrderPlaced, activity.RegisterOptions{Name: orderactivities.PublishOrderPlacedActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.CheckoutTaskQueue), slog.String("namespace", cfg.Temporal.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
