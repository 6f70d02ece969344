package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"sharewardrobe-backend/internal/cache"
	"sharewardrobe-backend/internal/config"
	"sharewardrobe-backend/internal/gateway"
	"sharewardrobe-backend/internal/jobs"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/pricing"
	"sharewardrobe-backend/internal/repository/postgres"
	"sharewardrobe-backend/internal/scheduler"
	"sharewardrobe-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-negotiation-holds', 'all')")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ShareWardrobe cronjob runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Connect(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	// Sharing redis with the API lets config edits reach the jobs without
	// waiting out the TTL.
	var configCache cache.Cache = cache.NewMemoryCache()
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
	}
	resolver := pricing.NewResolver(store.AdminConfigs(), configCache, cfg.ConfigCacheTTL())

	var payments gateway.PaymentGateway = gateway.NewMockPaymentGateway(cfg.Payment.BaseURL)
	if cfg.Payment.Provider == "http" {
		payments = gateway.NewHTTPPaymentGateway(cfg.Payment.Endpoint, cfg.Payment.APIKey, cfg.PaymentTimeout())
	}

	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}
	noteSvc := service.NewNotificationService(store.Notifications(), store.Users(), emailSvc)

	jobServices := &jobs.Services{
		Negotiations: service.NewNegotiationService(store, resolver, noteSvc),
		Rentals:      service.NewRentalService(store, resolver, gateway.NewMockDeliveryGateway(), noteSvc),
		Orders:       service.NewOrderService(store, resolver, payments, noteSvc),
	}
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if *runOnce == "all" {
			jobRunner.RunAll()
		} else if !jobRunner.Run(*runOnce) {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			fmt.Printf("  - expire-negotiation-holds\n")
			fmt.Printf("  - send-rental-reminders\n")
			fmt.Printf("  - retry-pending-payments\n")
			fmt.Printf("  - all\n")
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
