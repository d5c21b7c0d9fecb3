package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/finprodb/shop-api/internal/app/api"
	platformobservability "github.com/finprodb/shop-api/internal/platform/observability"
)

// order-sweeper cancels PENDING_PAYMENT orders older than
// orders.unpaid_older_than once and exits. Meant for a cron-style scheduler.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Postgres.DSN == "" {
		log.Fatal("postgres.dsn (POSTGRES_DSN) not set; nothing to sweep")
	}
	cfg.Admin.BootstrapEnabled = false
	cfg.Redis.Addr = ""
	cfg.Kafka.Brokers = ""

	logger, err := platformobservability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	slog.SetDefault(logger)
	services, cleanup, err := api.Build(ctx, cfg, &platformobservability.Instruments{Logger: logger})
	if err != nil {
		log.Fatalf("failed to build services: %v", err)
	}
	defer cleanup()

	cancelled, err := services.Orders.SweepUnpaid(ctx, cfg.Orders.UnpaidOlderThan)
	if err != nil {
		log.Fatalf("failed to sweep unpaid orders: %v", err)
	}
	logger.Info("unpaid order sweep completed", slog.Int("cancelled", cancelled), slog.Duration("olderThan", cfg.Orders.UnpaidOlderThan))
}
