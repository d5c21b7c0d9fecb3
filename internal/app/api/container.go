package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	addressmemory "github.com/finprodb/shop-api/internal/domains/addresses/adapters/memory"
	addressobs "github.com/finprodb/shop-api/internal/domains/addresses/adapters/observability"
	addresspostgres "github.com/finprodb/shop-api/internal/domains/addresses/adapters/persistence/postgres"
	addressapp "github.com/finprodb/shop-api/internal/domains/addresses/application"
	addressports "github.com/finprodb/shop-api/internal/domains/addresses/ports"
	cartmemory "github.com/finprodb/shop-api/internal/domains/carts/adapters/memory"
	cartobs "github.com/finprodb/shop-api/internal/domains/carts/adapters/observability"
	cartpostgres "github.com/finprodb/shop-api/internal/domains/carts/adapters/persistence/postgres"
	cartapp "github.com/finprodb/shop-api/internal/domains/carts/application"
	cartports "github.com/finprodb/shop-api/internal/domains/carts/ports"
	categorymemory "github.com/finprodb/shop-api/internal/domains/categories/adapters/memory"
	categoryobs "github.com/finprodb/shop-api/internal/domains/categories/adapters/observability"
	categorypostgres "github.com/finprodb/shop-api/internal/domains/categories/adapters/persistence/postgres"
	categoryapp "github.com/finprodb/shop-api/internal/domains/categories/application"
	categoryports "github.com/finprodb/shop-api/internal/domains/categories/ports"
	ordermemory "github.com/finprodb/shop-api/internal/domains/orders/adapters/memory"
	ordermessaging "github.com/finprodb/shop-api/internal/domains/orders/adapters/messaging"
	orderobs "github.com/finprodb/shop-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/finprodb/shop-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/finprodb/shop-api/internal/domains/orders/application"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
	paymentmemory "github.com/finprodb/shop-api/internal/domains/payments/adapters/memory"
	paymentobs "github.com/finprodb/shop-api/internal/domains/payments/adapters/observability"
	paymentpostgres "github.com/finprodb/shop-api/internal/domains/payments/adapters/persistence/postgres"
	paymentapp "github.com/finprodb/shop-api/internal/domains/payments/application"
	paymentports "github.com/finprodb/shop-api/internal/domains/payments/ports"
	productcache "github.com/finprodb/shop-api/internal/domains/products/adapters/cache"
	productmemory "github.com/finprodb/shop-api/internal/domains/products/adapters/memory"
	productobs "github.com/finprodb/shop-api/internal/domains/products/adapters/observability"
	productpostgres "github.com/finprodb/shop-api/internal/domains/products/adapters/persistence/postgres"
	productapp "github.com/finprodb/shop-api/internal/domains/products/application"
	productports "github.com/finprodb/shop-api/internal/domains/products/ports"
	usermemory "github.com/finprodb/shop-api/internal/domains/users/adapters/memory"
	userobs "github.com/finprodb/shop-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/finprodb/shop-api/internal/domains/users/adapters/persistence/postgres"
	"github.com/finprodb/shop-api/internal/domains/users/adapters/security"
	userapp "github.com/finprodb/shop-api/internal/domains/users/application"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"

	"github.com/finprodb/shop-api/internal/clients/http/midtrans"
	platformkafka "github.com/finprodb/shop-api/internal/platform/kafka"
	"github.com/finprodb/shop-api/internal/platform/migrations"
	platformobservability "github.com/finprodb/shop-api/internal/platform/observability"
	platformpostgres "github.com/finprodb/shop-api/internal/platform/postgres"
	"github.com/finprodb/shop-api/internal/platform/storage"
)

// Container holds the decorated services shared by the API, worker and sweeper.
type Container struct {
	Users      userports.Service
	Categories categoryports.Service
	Products   productports.Service
	Carts      cartports.Service
	Addresses  addressports.Service
	Orders     orderports.Service
	Admin      orderports.AdminService
	Payments   paymentports.Service

	Images *storage.LocalImageStore
}

type repositories struct {
	users      userports.Repository
	categories categoryports.Repository
	products   productports.Repository
	carts      cartports.Repository
	addresses  addressports.Repository
	orders     orderports.Repository
	payments   paymentports.Repository
}

// Build wires repositories, adapters and services from configuration. The
// returned cleanup closes every connection Build opened.
func Build(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Container, func(), error) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.Postgres.DSN, platformpostgres.Pool{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}, logger)
	cleanups = append(cleanups, closeDB)
	repos, err := buildRepositories(db)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	issuer, err := security.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.TTL())
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to configure token issuer: %w", err)
	}
	users := userobs.New(
		userapp.NewService(repos.users, security.NewBcryptHasher(bcrypt.DefaultCost), issuer),
		platformobservability.WithInstruments(instruments, "internal.users.application"),
	)

	images := storage.NewLocalImageStore(cfg.Uploads.Dir, "/uploads")
	categories := categoryobs.New(
		categoryapp.NewService(repos.categories, images),
		platformobservability.WithInstruments(instruments, "internal.categories.application"),
	)

	productOpts := []productapp.Option{productapp.WithLogger(logger)}
	if rdb := connectRedis(ctx, cfg.Redis, logger); rdb != nil {
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		productOpts = append(productOpts, productapp.WithCache(productcache.NewRedisCache(rdb, cfg.Redis.ProductCacheTTL)))
	}
	products := productobs.New(
		productapp.NewService(repos.products, categories, images, productOpts...),
		platformobservability.WithInstruments(instruments, "internal.products.application"),
	)

	carts := cartobs.New(
		cartapp.NewService(repos.carts, products),
		platformobservability.WithInstruments(instruments, "internal.carts.application"),
	)
	addresses := addressobs.New(
		addressapp.NewService(repos.addresses),
		platformobservability.WithInstruments(instruments, "internal.addresses.application"),
	)

	orderOpts := []orderapp.Option{orderapp.WithLogger(logger)}
	if brokers := platformkafka.NewClient(cfg.Kafka.Brokers); brokers.Enabled() {
		writer := brokers.NewWriter(cfg.Kafka.OrderTopic)
		cleanups = append(cleanups, func() { _ = writer.Close() })
		orderOpts = append(orderOpts, orderapp.WithEventPublisher(ordermessaging.NewKafkaPublisher(writer)))
		logger.Info("order events publishing to kafka", slog.String("topic", cfg.Kafka.OrderTopic))
	} else {
		logger.Warn("kafka brokers not set, order events are not published")
	}
	coreOrders := orderapp.NewService(repos.orders, carts, addresses, products, orderOpts...)
	orders := orderobs.New(coreOrders, platformobservability.WithInstruments(instruments, "internal.orders.application"))

	snap, err := midtrans.NewClient(midtrans.Config{
		ServerKey:  cfg.Midtrans.ServerKey,
		Production: cfg.Midtrans.IsProduction,
		BaseURL:    cfg.Midtrans.BaseURL,
	}, &http.Client{
		Timeout:   cfg.Midtrans.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, midtrans.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to configure midtrans client: %w", err)
	}
	if cfg.Midtrans.ServerKey == "" {
		logger.Warn("midtrans server key not set, snap checkouts and notifications will be rejected")
	}
	payments := paymentobs.New(
		paymentapp.NewService(repos.payments, orders, users, snap, paymentapp.Config{
			ServerKey:       cfg.Midtrans.ServerKey,
			FrontendBaseURL: cfg.App.FrontendBaseURL,
		}, paymentapp.WithLogger(logger)),
		platformobservability.WithInstruments(instruments, "internal.payments.application"),
	)
	admin := orderobs.NewAdmin(
		orderapp.NewAdminService(coreOrders, users, orderapp.WithPaymentStatus(payments)),
		platformobservability.WithInstruments(instruments, "internal.orders.application.admin"),
	)

	if _, err := users.EnsureAdmin(ctx, userports.BootstrapAdmin{
		Enabled:  cfg.Admin.BootstrapEnabled,
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Name:     cfg.Admin.Name,
		Password: cfg.Admin.Password,
	}); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	return &Container{
		Users:      users,
		Categories: categories,
		Products:   products,
		Carts:      carts,
		Addresses:  addresses,
		Orders:     orders,
		Admin:      admin,
		Payments:   payments,
		Images:     images,
	}, cleanup, nil
}

func buildRepositories(db *gorm.DB) (repositories, error) {
	if db == nil {
		return repositories{
			users:      usermemory.NewRepository(),
			categories: categorymemory.NewRepository(),
			products:   productmemory.NewRepository(),
			carts:      cartmemory.NewRepository(),
			addresses:  addressmemory.NewRepository(),
			orders:     ordermemory.NewRepository(),
			payments:   paymentmemory.NewRepository(),
		}, nil
	}
	if err := migrations.Run(db); err != nil {
		return repositories{}, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return repositories{
		users:      userpostgres.NewRepository(db),
		categories: categorypostgres.NewRepository(db),
		products:   productpostgres.NewRepository(db),
		carts:      cartpostgres.NewRepository(db),
		addresses:  addresspostgres.NewRepository(db),
		orders:     orderpostgres.NewRepository(db),
		payments:   paymentpostgres.NewRepository(db),
	}, nil
}

// connectRedis returns nil when the cache is disabled or unreachable.
func connectRedis(ctx context.Context, cfg RedisConfig, logger *slog.Logger) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("redis address not set, product cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, product cache disabled", slog.String("addr", cfg.Addr), slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil
	}
	logger.Info("product cache configured with redis", slog.String("addr", cfg.Addr))
	return rdb
}
