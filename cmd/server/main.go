package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "labkit-backend/internal/api/http"
	"labkit-backend/internal/config"
	"labkit-backend/internal/logger"
	"labkit-backend/internal/repository/postgres"
	"labkit-backend/internal/security"
	"labkit-backend/internal/service"
	"labkit-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LabKit Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	repos := store.Repos()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Storage Service
	var storageService storage.StorageInterface
	if cfg.Storage.Type == "" || cfg.Storage.Type == "mock" {
		logger.Info("Using mock storage (local filesystem)", "upload_dir", cfg.Storage.UploadDir)
		mockStorage, err := storage.NewMockStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize mock storage", "error", err)
			log.Fatalf("Failed to initialize mock storage: %v", err)
		}
		storageService = mockStorage
	} else {
		logger.Error("Unsupported storage type", "type", cfg.Storage.Type)
		log.Fatalf("Storage type '%s' not yet implemented", cfg.Storage.Type)
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Initialize Push Sender
	pushSender := service.NewNoopPushSender()
	if cfg.Firebase.Enabled {
		sender, err := service.NewFCMPushSender(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM, push notifications disabled", "error", err)
		} else {
			pushSender = sender
			logger.Info("FCM push sender initialized")
		}
	}

	// Initialize Services
	noteSvc := service.NewNotificationService(repos.Notifications, repos.Accounts, emailSvc, pushSender)
	authSvc := service.NewAuthService(store, tokenManager)
	borrowSvc := service.NewBorrowService(store, noteSvc)
	walletSvc := service.NewWalletService(repos.Wallets)
	penaltySvc := service.NewPenaltyService(repos.Penalties)
	catalogSvc := service.NewCatalogService(repos.Kits, repos.Policies)
	evidenceSvc := service.NewEvidenceService(repos.Evidence, storageService)

	// Initialize HTTP handlers and router
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc),
		Borrow:       httpapi.NewBorrowHandler(borrowSvc),
		Wallet:       httpapi.NewWalletHandler(walletSvc),
		Penalty:      httpapi.NewPenaltyHandler(penaltySvc),
		Catalog:      httpapi.NewCatalogHandler(catalogSvc),
		Notification: httpapi.NewNotificationHandler(noteSvc),
		Evidence:     httpapi.NewEvidenceHandler(evidenceSvc, storageService),
	}, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
