package config

import (
	"fmt"

	pkgconfig "github.com/Anupmor1998/foodApp/pkg/config"
)

// Config holds all configuration for the tour booking service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"tours"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"tours_secret"`
	PostgresDB   string `env:"TOURS_DB_NAME" envDefault:"tours_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (webhook session dedup)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka. An empty broker list disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Payments
	PaymentProvider       string `env:"PAYMENT_PROVIDER" envDefault:"stripe"`
	StripeSecretKey       string `env:"STRIPE_SECRET_KEY" envDefault:""`
	StripeWebhookSecret   string `env:"STRIPE_WEBHOOK_SECRET" envDefault:""`
	StripeAllowUnverified bool   `env:"STRIPE_ALLOW_UNVERIFIED_WEBHOOKS" envDefault:"false"`
	CheckoutSuccessURL    string `env:"CHECKOUT_SUCCESS_URL" envDefault:"http://localhost:3000/"`
	CheckoutCancelURL     string `env:"CHECKOUT_CANCEL_URL" envDefault:"http://localhost:3000/tours"`
	CheckoutCurrency      string `env:"CHECKOUT_CURRENCY" envDefault:"usd"`

	// JWT
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load tours config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// In non-development environments, require an explicitly set, strong JWT
	// secret and refuse to trust unsigned webhooks.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == "change-this-to-a-secure-secret" {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
		if cfg.StripeAllowUnverified {
			return nil, fmt.Errorf("STRIPE_ALLOW_UNVERIFIED_WEBHOOKS must not be enabled in %q mode", cfg.Environment)
		}
		if cfg.PaymentProvider == "stripe" && cfg.StripeWebhookSecret == "" {
			return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET must be set in %q mode", cfg.Environment)
		}
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
