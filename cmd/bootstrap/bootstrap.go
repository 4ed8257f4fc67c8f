package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"personal-health-record/config"
	deliveryHttp "personal-health-record/internal/delivery/http"
	"personal-health-record/internal/delivery/http/handler"
	"personal-health-record/internal/delivery/http/middleware"
	"personal-health-record/internal/infrastructure/cache"
	"personal-health-record/internal/infrastructure/database"
	"personal-health-record/internal/infrastructure/storage"
	"personal-health-record/internal/repository"
	"personal-health-record/internal/service"
	"personal-health-record/internal/usecase"
	"personal-health-record/pkg/jwt"
	"personal-health-record/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config         *config.Config
	DB             *gorm.DB
	RedisClient    *redis.Client
	Storage        storage.ObjectStorage
	Reconciliation *service.ReconciliationService
	Server         *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize object storage
	objectStorage, err := storage.NewS3Storage(context.Background(), cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to configure object storage: %w", err)
	}
	app.Storage = objectStorage

	// Initialize all layers
	app.initializeServer(cfg, db, redisClient, objectStorage)

	return app, nil
}

// Migrate connects to the database, applies pending migrations and closes the connection.
func Migrate() error {
	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	return database.RunMigrations(db)
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires repositories, services, usecases and handlers into the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, objectStorage storage.ObjectStorage) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	profileRepo := repository.NewProfileRepository()
	vitalRepo := repository.NewVitalRecordRepository()
	documentRepo := repository.NewMedicalDocumentRepository()
	reconRepo := repository.NewStorageReconciliationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	sessionStore := service.NewRedisSessionStore(redisClient)
	auditService := service.NewAuditService(db, log, auditLogRepo)
	transferService := service.NewFileTransferService(objectStorage, &http.Client{Timeout: 30 * time.Second}, log, cfg.Storage)
	app.Reconciliation = service.NewReconciliationService(db, log, reconRepo, documentRepo, transferService, cfg.App.ReconcileInterval)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, profileRepo, jwtService, sessionStore, auditService)
	profileUsecase := usecase.NewProfileUsecase(db, log, userRepo, profileRepo, auditService)
	vitalUsecase := usecase.NewVitalUsecase(db, log, vitalRepo, auditService)
	documentUsecase := usecase.NewDocumentUsecase(db, log, documentRepo, reconRepo, transferService, auditService, cfg.Upload.MaxSize, cfg.Storage.DownloadURLExpiry)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, profileUsecase, vitalRepo, documentRepo)
	activityUsecase := usecase.NewActivityUsecase(db, log, auditLogRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigins...)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService, authMiddleware)
	profileHandler := handler.NewProfileHandler(profileUsecase, customValidator)
	vitalHandler := handler.NewVitalHandler(vitalUsecase)
	documentHandler := handler.NewDocumentHandler(documentUsecase, customValidator, cfg.Upload.MaxSize)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase)
	activityHandler := handler.NewActivityHandler(activityUsecase)

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, profileHandler, vitalHandler, documentHandler, dashboardHandler, activityHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Reconciliation.Start()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background work and closes all connections
func (app *App) Close() {
	if app.Reconciliation != nil {
		app.Reconciliation.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
