package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	shopserver "github.com/finprodb/shop-api/go"
	orderworkflows "github.com/finprodb/shop-api/internal/domains/orders/adapters/workflows"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
	"github.com/finprodb/shop-api/internal/jobs"
	"github.com/finprodb/shop-api/internal/platform/metrics"
	platformobservability "github.com/finprodb/shop-api/internal/platform/observability"
)

const serviceName = "shop-api"

// Run boots the shop HTTP API and blocks until ctx is cancelled or SIGINT/SIGTERM arrives.
func Run(ctx context.Context, configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability.Settings(serviceName))
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

	services, cleanup, err := Build(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	var checkout orderports.WorkflowOrchestrator = orderworkflows.NewInlineCheckout(services.Orders)
	if temporalClient, err := DialTemporal(cfg.Temporal, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		checkout = orderworkflows.NewTemporalCheckout(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.Temporal.Namespace))
	}

	serverMetrics := metrics.NewServerMetrics(serviceName)
	router := NewRouter(cfg, services, checkout, serverMetrics, logger)

	manager := jobs.NewJobManager(services.Orders, jobs.SweepConfig{
		Enabled:   cfg.Orders.SweepEnabled,
		Schedule:  cfg.Orders.SweepSchedule,
		OlderThan: cfg.Orders.UnpaidOlderThan,
	}, logger)
	if err := manager.StartAll(); err != nil {
		return fmt.Errorf("failed to start background jobs: %w", err)
	}
	defer manager.StopAll()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("shop API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("shop API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down shop API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// NewRouter assembles the gin engine: engine-wide middleware first, then the
// API routes, then health, uploads and metrics.
func NewRouter(cfg Config, services *Container, checkout orderports.WorkflowOrchestrator, serverMetrics *metrics.ServerMetrics, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		shopserver.RequestID(),
		shopserver.CORS(corsConfig(cfg.CORS)),
	)
	if serverMetrics != nil {
		router.Use(serverMetrics.Middleware())
	}

	var throttle gin.HandlerFunc
	if cfg.Limits.Enabled {
		throttle = shopserver.NewRateLimiter(cfg.Limits.Rate, cfg.Limits.Burst, cfg.Limits.MaxClients, cfg.Limits.ClientTTL).Middleware(logger)
	}
	shopserver.NewRouterWithGinEngine(router, shopserver.ApiHandleFunctions{
		AuthAPI:     shopserver.NewAuthAPI(services.Users),
		MeAPI:       shopserver.NewMeAPI(services.Users),
		CategoryAPI: shopserver.NewCategoryAPI(services.Categories),
		ProductAPI:  shopserver.NewProductAPI(services.Products),
		CartAPI:     shopserver.NewCartAPI(services.Carts),
		AddressAPI:  shopserver.NewAddressAPI(services.Addresses),
		OrderAPI:    shopserver.NewOrderAPI(services.Orders, checkout),
		PaymentAPI:  shopserver.NewPaymentAPI(services.Payments),
		AdminAPI:    shopserver.NewAdminAPI(services.Admin, services.Users),
		Guard:       shopserver.NewGuard(services.Users, logger),
		Throttle:    throttle,
	})

	var metricsHandler http.Handler
	if serverMetrics != nil {
		metricsHandler = serverMetrics.Handler()
	}
	return shopserver.NewSupportRoutes(router, cfg.Uploads.Dir, metricsHandler)
}

func corsConfig(cfg CORSConfig) shopserver.CORSConfig {
	out := shopserver.DefaultCORSConfig()
	if len(cfg.AllowOrigins) > 0 {
		out.AllowOrigins = cfg.AllowOrigins
	}
	if len(cfg.AllowMethods) > 0 {
		out.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		out.AllowHeaders = cfg.AllowHeaders
	}
	if cfg.MaxAge > 0 {
		out.MaxAge = cfg.MaxAge
	}
	out.AllowCredentials = cfg.AllowCredentials
	return out
}
