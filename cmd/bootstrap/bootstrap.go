package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telehealth-directory/config"
	deliveryHttp "telehealth-directory/internal/delivery/http"
	"telehealth-directory/internal/delivery/http/handler"
	"telehealth-directory/internal/delivery/http/middleware"
	"telehealth-directory/internal/domain/entity"
	"telehealth-directory/internal/infrastructure/cache"
	"telehealth-directory/internal/infrastructure/classifier"
	"telehealth-directory/internal/infrastructure/database"
	"telehealth-directory/internal/infrastructure/directory"
	"telehealth-directory/internal/infrastructure/identity"
	"telehealth-directory/internal/infrastructure/upstream"
	"telehealth-directory/internal/infrastructure/videocall"
	"telehealth-directory/internal/repository"
	"telehealth-directory/internal/service"
	"telehealth-directory/internal/usecase"
	"telehealth-directory/pkg/jwt"
	"telehealth-directory/pkg/metrics"
	"telehealth-directory/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.Env)
	logrus.Info("Configuration loaded successfully")

	if cfg.Directory.URL == "" || cfg.Classifier.URL == "" {
		return nil, fmt.Errorf("DIRECTORY_URL and CLASSIFIER_URL must be set")
	}

	// Audit persistence is optional; without a database audit entries are dropped
	if cfg.DB.Host != "" {
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db
		logrus.Info("Database connected successfully")
	} else {
		logrus.Warn("DB_HOST not set, audit logging disabled")
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, app.DB, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(env string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	if env == "development" {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.NewMetrics(registry, "telehealth", "api")

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize upstream clients
	httpClient := &http.Client{}
	directoryClient := directory.NewClient(
		cfg.Directory.URL,
		upstream.NewClient(metrics.ServiceDirectory, cfg.Directory, httpClient, log, appMetrics),
		log,
	)
	classifierClient := classifier.NewClient(
		cfg.Classifier.URL,
		upstream.NewClient(metrics.ServiceClassifier, cfg.Classifier, httpClient, log, appMetrics),
		log,
	)
	identityProvider := identity.NewGoogleProvider(
		cfg.Identity.TokenInfoURL,
		cfg.Identity.ClientID,
		upstream.NewClient(metrics.ServiceIdentity, config.UpstreamConfig{
			URL:        cfg.Identity.TokenInfoURL,
			Timeout:    cfg.Identity.Timeout,
			MaxRetries: 1,
		}, httpClient, log, appMetrics),
		log,
	)
	videoProvider := videocall.New(cfg.Video, log)
	logrus.Infof("Video call provider: %s", videoProvider.Name())

	// Initialize repositories and services
	auditService := service.NewNoopAuditService()
	var auditLogHandler *handler.AuditLogHandler
	if db != nil {
		auditLogRepo := repository.NewAuditLogRepository()
		auditService = service.NewAuditService(db, auditLogRepo)
		auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
		auditLogHandler = handler.NewAuditLogHandler(auditLogUsecase, customValidator)
	}

	allowList := entity.AdminAllowList(cfg.Admin.AllowedEmails)
	if len(allowList) == 0 {
		logrus.Warn("ADMIN_ALLOWED_EMAILS is empty, admin login disabled")
	}

	// Initialize usecases
	directoryUsecase := usecase.NewDirectorySessionUsecase(
		log, directoryClient, classifierClient, auditService, appMetrics,
		cfg.Session.TTL, cfg.Session.CleanupInterval,
	)
	authUsecase := usecase.NewAuthUsecase(log, identityProvider, allowList, jwtService, redisClient, auditService)
	callUsecase := usecase.NewCallUsecase(log, videoProvider, auditService, appMetrics)

	// Initialize handlers
	directoryHandler := handler.NewDirectoryHandler(directoryUsecase, customValidator)
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	callHandler := handler.NewCallHandler(callUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize router
	router := deliveryHttp.NewRouter(
		directoryHandler,
		authHandler,
		auditLogHandler,
		callHandler,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		rateLimitMiddleware,
		allowList,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
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

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
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
