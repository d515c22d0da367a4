package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Anupmor1998/foodApp/internal/config"
	"github.com/Anupmor1998/foodApp/internal/event"
	handler "github.com/Anupmor1998/foodApp/internal/handler/http"
	"github.com/Anupmor1998/foodApp/internal/provider"
	"github.com/Anupmor1998/foodApp/internal/provider/mock"
	"github.com/Anupmor1998/foodApp/internal/provider/stripe"
	"github.com/Anupmor1998/foodApp/internal/repository/postgres"
	redisrepo "github.com/Anupmor1998/foodApp/internal/repository/redis"
	"github.com/Anupmor1998/foodApp/internal/service"
	"github.com/Anupmor1998/foodApp/pkg/database"
	"github.com/Anupmor1998/foodApp/pkg/health"
	pkgkafka "github.com/Anupmor1998/foodApp/pkg/kafka"
	"github.com/Anupmor1998/foodApp/pkg/middleware"
)

// App wires together all dependencies and runs the tour booking service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *goredis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Initialize Redis for webhook session dedup.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort)))

	// Initialize Kafka producer, unless brokers are disabled.
	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewKafkaPublisher(producer)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		publisher = event.NewNoopPublisher(logger)
		logger.Warn("no kafka brokers configured, events disabled")
	}

	// Payment provider.
	payments := newPaymentProvider(cfg, logger)

	// Build the dependency graph.
	tourRepo := postgres.NewTourRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	dedup := redisrepo.NewSessionDedup(redisClient)

	aggregator := service.NewRatingAggregator(reviewRepo, tourRepo, publisher, logger)
	tourService := service.NewTourService(tourRepo, reviewRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, tourRepo, aggregator, publisher, logger)
	bookingService := service.NewBookingService(
		bookingRepo, tourRepo, userRepo, dedup, payments,
		service.CheckoutURLs{
			SuccessURL: cfg.CheckoutSuccessURL,
			CancelURL:  cfg.CheckoutCancelURL,
			Currency:   cfg.CheckoutCurrency,
		},
		publisher, logger,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(
		tourService, reviewService, bookingService, payments, healthHandler,
		handler.RouterConfig{
			CORS: middleware.CORSConfig{
				AllowedOrigins: cfg.CORSAllowedOrigins,
				Environment:    cfg.Environment,
			},
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			ValidateToken:  middleware.JWTValidator(cfg.JWTSecret),
		},
		logger,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// newPaymentProvider selects the payment provider implementation. Anything
// other than "stripe" yields the mock provider for local development.
func newPaymentProvider(cfg *config.Config, logger *slog.Logger) provider.Provider {
	if cfg.PaymentProvider == "stripe" {
		return stripe.New(stripe.Config{
			SecretKey:       cfg.StripeSecretKey,
			WebhookSecret:   cfg.StripeWebhookSecret,
			AllowUnverified: cfg.StripeAllowUnverified,
		})
	}
	logger.Warn("using mock payment provider", slog.String("provider", cfg.PaymentProvider))
	return mock.New()
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

	// Graceful HTTP server shutdown with a 10-second deadline.
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

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
