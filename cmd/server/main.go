package main

import (
	"context"   // Shutdown and Redis contexts
	"errors"    // Server closed detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Server timeouts

	"finance_tracker/internal/api"     // HTTP handlers and router
	"finance_tracker/internal/config"  // Configuration
	"finance_tracker/internal/db"      // Database connection and store
	"finance_tracker/internal/events"  // Ledger event publisher
	"finance_tracker/internal/service" // Business logic
	"finance_tracker/internal/utils"   // Hashing, tokens and cache

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal JSON format
	"github.com/sirupsen/logrus"    // Logrus for structured logging
	"golang.org/x/sync/errgroup"    // Server lifecycle
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Amounts and balances are JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	store := db.NewStore(gdb)

	// Redis is optional, it backs the listing cache and the event stream
	var cache api.PageCache
	var publisher service.EventPublisher
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = utils.NewCache(redisClient, cfg.CacheTTL)
		publisher = events.NewPublisher(redisClient)
	} else {
		logrus.Warn("REDIS_ADDR not set, caching and events disabled")
	}

	// Build services
	hasher := utils.NewHasher(utils.DefaultHashParams())
	issuer := utils.NewTokenIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	authService := service.NewAuthService(store, hasher, issuer)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(api.Deps{
		Auth:           authService,
		Tokens:         authService,
		Users:          service.NewUserService(store),
		Banks:          service.NewBankService(store),
		Categories:     service.NewCategoryService(store),
		Transactions:   service.NewTransactionService(store, store, store, store, store, publisher),
		Statistics:     service.NewStatisticsService(store, store),
		Cache:          cache,
		WebhookSecret:  cfg.WebhookSecret,
		TrustedProxies: []string{"127.0.0.1"},
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done() // Signal received or server failed
		logrus.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
	logrus.Info("Server stopped gracefully")
}

// setupLogger applies format and level from the configuration
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
