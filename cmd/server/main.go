package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "sharewardrobe-backend/internal/api/http"
	"sharewardrobe-backend/internal/cache"
	"sharewardrobe-backend/internal/config"
	"sharewardrobe-backend/internal/gateway"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/pricing"
	"sharewardrobe-backend/internal/repository/postgres"
	"sharewardrobe-backend/internal/security"
	"sharewardrobe-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	migrate := flag.Bool("migrate", false, "Apply pending SQL migrations before serving")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ShareWardrobe backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx := context.Background()

	db, err := postgres.Connect(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	if *migrate {
		if err := store.Migrate(ctx, cfg.Database.MigrationsDir); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	var configCache cache.Cache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rc.Close()
		configCache = rc
		logger.Info("Using redis config cache", "addr", cfg.Redis.Addr)
	} else {
		configCache = cache.NewMemoryCache()
		logger.Info("Using in-memory config cache")
	}
	resolver := pricing.NewResolver(store.AdminConfigs(), configCache, cfg.ConfigCacheTTL())

	var payments gateway.PaymentGateway
	switch cfg.Payment.Provider {
	case "http":
		payments = gateway.NewHTTPPaymentGateway(cfg.Payment.Endpoint, cfg.Payment.APIKey, cfg.PaymentTimeout())
	default:
		payments = gateway.NewMockPaymentGateway(cfg.Payment.BaseURL)
	}
	delivery := gateway.NewMockDeliveryGateway()

	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, notification emails are disabled")
	}

	noteSvc := service.NewNotificationService(store.Notifications(), store.Users(), emailSvc)
	svcs := httpapi.Services{
		Cart:          service.NewCartService(store),
		Orders:        service.NewOrderService(store, resolver, payments, noteSvc),
		Negotiations:  service.NewNegotiationService(store, resolver, noteSvc),
		Rentals:       service.NewRentalService(store, resolver, delivery, noteSvc),
		Deliveries:    service.NewDeliveryService(store, delivery),
		Ledger:        service.NewLedgerService(store, noteSvc),
		Notifications: noteSvc,
		Admin:         service.NewAdminService(store, resolver),
	}

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	auth := httpapi.NewAuthMiddleware(tokenManager, store.Users())

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      httpapi.NewRouter(svcs, auth, db),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
