package api

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	platformobservability "github.com/finprodb/shop-api/internal/platform/observability"
)

// Config carries the settings of the API, worker and sweeper processes.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Midtrans MidtransConfig `mapstructure:"midtrans"`
	App      AppConfig      `mapstructure:"app"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Temporal TemporalConfig `mapstructure:"temporal"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Limits   RateLimit      `mapstructure:"rate_limit"`
	Orders   OrdersConfig   `mapstructure:"orders"`

	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PostgresConfig leaves DSN blank to run on in-memory repositories.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	ExpirationMinutes int    `mapstructure:"expiration_minutes"`
}

// TTL is the token lifetime.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type AdminConfig struct {
	BootstrapEnabled bool   `mapstructure:"bootstrap_enabled"`
	Username         string `mapstructure:"username"`
	Email            string `mapstructure:"email"`
	Name             string `mapstructure:"name"`
	Password         string `mapstructure:"password"`
}

type MidtransConfig struct {
	ServerKey    string        `mapstructure:"server_key"`
	IsProduction bool          `mapstructure:"is_production"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type AppConfig struct {
	FrontendBaseURL string `mapstructure:"frontend_base_url"`
}

type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// RedisConfig leaves Addr blank to disable the product cache.
type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	ProductCacheTTL time.Duration `mapstructure:"product_cache_ttl"`
}

// KafkaConfig leaves Brokers blank to drop order events.
type KafkaConfig struct {
	Brokers    string `mapstructure:"brokers"`
	OrderTopic string `mapstructure:"order_topic"`
}

type TemporalConfig struct {
	Address   string `mapstructure:"address"`
	Namespace string `mapstructure:"namespace"`
	Disabled  bool   `mapstructure:"disabled"`
}

type CORSConfig struct {
	AllowOrigins     []string      `mapstructure:"allow_origins"`
	AllowMethods     []string      `mapstructure:"allow_methods"`
	AllowHeaders     []string      `mapstructure:"allow_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

type RateLimit struct {
	Enabled    bool          `mapstructure:"enabled"`
	Rate       float64       `mapstructure:"rate"`
	Burst      int           `mapstructure:"burst"`
	MaxClients int           `mapstructure:"max_clients"`
	ClientTTL  time.Duration `mapstructure:"client_ttl"`
}

type OrdersConfig struct {
	SweepEnabled    bool          `mapstructure:"sweep_enabled"`
	SweepSchedule   string        `mapstructure:"sweep_schedule"`
	UnpaidOlderThan time.Duration `mapstructure:"unpaid_older_than"`
}

type ObservabilityConfig struct {
	Environment   string `mapstructure:"environment"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	TraceExporter string `mapstructure:"trace_exporter"`
	OTLPEndpoint  string `mapstructure:"otlp_endpoint"`
	OTLPInsecure  bool   `mapstructure:"otlp_insecure"`
}

// Settings names the process for telemetry.
func (o ObservabilityConfig) Settings(serviceName string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:   serviceName,
		Environment:   o.Environment,
		LogLevel:      o.LogLevel,
		LogFormat:     o.LogFormat,
		TraceExporter: o.TraceExporter,
		OTLPEndpoint:  o.OTLPEndpoint,
		OTLPInsecure:  o.OTLPInsecure,
	}
}

// LoadConfig reads .env, then config.yaml (optional), then the environment.
// Keys map to variables by upper-casing and replacing dots, e.g.
// midtrans.server_key -> MIDTRANS_SERVER_KEY.
func LoadConfig(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Postgres.DSN = strings.TrimSpace(cfg.Postgres.DSN)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the constraints the processes rely on.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("jwt.secret (JWT_SECRET) is required"))
	}
	if c.JWT.ExpirationMinutes <= 0 {
		errs = append(errs, errors.New("jwt.expiration_minutes must be positive"))
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Limits.Enabled && (c.Limits.Rate <= 0 || c.Limits.Burst <= 0) {
		errs = append(errs, errors.New("rate_limit.rate and rate_limit.burst must be positive"))
	}
	for _, origin := range c.CORS.AllowOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("cors.allow_origins: %q must be * or an http(s) origin", origin))
		}
	}
	if c.Orders.SweepEnabled && c.Orders.UnpaidOlderThan <= 0 {
		errs = append(errs, errors.New("orders.unpaid_older_than must be positive when the sweep is enabled"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8081")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", "5m")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_minutes", 1440)

	v.SetDefault("admin.bootstrap_enabled", false)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "admin@mail.com")
	v.SetDefault("admin.name", "Admin")
	v.SetDefault("admin.password", "admin12345")

	v.SetDefault("midtrans.server_key", "")
	v.SetDefault("midtrans.is_production", false)
	v.SetDefault("midtrans.base_url", "")
	v.SetDefault("midtrans.timeout", "15s")

	v.SetDefault("app.frontend_base_url", "http://localhost:3000")
	v.SetDefault("uploads.dir", "uploads")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.product_cache_ttl", "5m")

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.order_topic", "shop.orders")

	v.SetDefault("temporal.address", client.DefaultHostPort)
	v.SetDefault("temporal.namespace", client.DefaultNamespace)
	v.SetDefault("temporal.disabled", false)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", time.Hour)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rate", 5)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.max_clients", 10000)
	v.SetDefault("rate_limit.client_ttl", 10*time.Minute)

	v.SetDefault("observability.environment", "local")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.trace_exporter", platformobservability.ExporterOTLP)
	v.SetDefault("observability.otlp_endpoint", "")
	v.SetDefault("observability.otlp_insecure", true)

	v.SetDefault("orders.sweep_enabled", false)
	v.SetDefault("orders.sweep_schedule", "0 */5 * * * *")
	v.SetDefault("orders.unpaid_older_than", "24h")
}
