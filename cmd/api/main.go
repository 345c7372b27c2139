package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/user/storefront/internal/adapter/api"
	"github.com/user/storefront/internal/adapter/gateway"
	"github.com/user/storefront/internal/adapter/mailer"
	"github.com/user/storefront/internal/adapter/metrics"
	"github.com/user/storefront/internal/adapter/repository/postgres"
	"github.com/user/storefront/internal/adapter/repository/rediscache"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/pkg/config"
	"github.com/user/storefront/internal/pkg/logger"
	"github.com/user/storefront/internal/pkg/token"
	"github.com/user/storefront/internal/usecase"

	_ "github.com/lib/pq" // Keep for postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewStoreMetrics()

	// --- Start Metrics Server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("postgres not reachable", "error", err)
		os.Exit(1)
	}

	// --- Initialize Repositories ---
	userRepo := postgres.NewUserRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	var itemRepo domain.ItemRepository = postgres.NewItemRepository(db)

	// Redis is an optional read-through cache for the catalog; the store runs
	// fine without it.
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("could not connect to redis, item cache disabled", "error", err)
		} else {
			itemRepo = rediscache.NewItemCache(itemRepo, redisClient, logger, m, cfg.ItemCacheTTL)
		}
	}

	// --- External Adapters ---
	paymentClient := gateway.NewPaymentClient(cfg.PaymentURL, cfg.PaymentSecretKey, cfg.PaymentTimeout, logger)

	var mail domain.Mailer
	if cfg.SMTPAddr != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		logger.Warn("SMTP_ADDR not set, reset mail goes to the log")
		mail = mailer.NewStdoutMailer(logger)
	}

	signer := token.NewSigner(cfg.JWTSecret, cfg.SessionMaxAge)

	// --- Initialize Use Cases ---
	authService := usecase.NewAuthService(userRepo, signer, mail, logger, m,
		cfg.ResetTokenTTL, cfg.FrontendURL, cfg.SigninRatePerMin, cfg.SigninRateBurst)
	itemService := usecase.NewItemService(itemRepo, logger)
	cartService := usecase.NewCartService(cartRepo, itemRepo, logger)
	checkoutService := usecase.NewCheckoutService(cartRepo, orderRepo, paymentClient, logger, m)
	userService := usecase.NewUserService(userRepo, orderRepo, logger)

	// --- Initialize API Server ---
	router := api.NewRouter(cfg, logger, signer, userRepo,
		authService, itemService, cartService, checkoutService, userService)
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting store api server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
