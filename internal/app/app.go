package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"contacts_backend/internal/config"
	"contacts_backend/internal/database"
	"contacts_backend/internal/email"
	"contacts_backend/internal/handlers"
	"contacts_backend/internal/imageprocessor"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/middleware"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/routes"
	"contacts_backend/internal/services"
	"contacts_backend/internal/storage"
	"contacts_backend/internal/validator"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	shutdownTimeout     = 10 * time.Second
	limiterCleanupEvery = time.Minute
)

func Run() {
	cfg, err := config.Load("")
	if err != nil {
		logger.Init("development")
		logger.Fatal("Failed to load config", "error", err)
	}

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Env == "development")
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(ctx, cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Env)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(gormDB)

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	ginRouter, cleanup, err := SetupRouter(ctx, cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// SetupRouter собирает сервисы, хэндлеры и маршруты.
// cleanup освобождает фоновые ресурсы (очистка rate limiter, почта).
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, func(), error) {
	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// 1. Инициализируем сервисы
	serviceContainer, err := initializeServices(cfg, gormDB, storageInstance)
	if err != nil {
		return nil, nil, err
	}

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	stopCleanup := limiter.StartCleanup(limiterCleanupEvery)

	opts := routes.Options{
		AuthMiddleware: middleware.AuthMiddleware(serviceContainer.AccountService),
		RateLimit:      limiter.Limit(),
	}
	if local, ok := storageInstance.(*storage.LocalStorage); ok {
		opts.AvatarDir = filepath.Join(local.BasePath(), "avatars")
	}

	// 4. Регистрация маршрутов
	routes.RegisterRoutes(ginRouter, appHandlers, opts)

	cleanup := func() {
		stopCleanup()
		if err := serviceContainer.EmailService.Close(); err != nil {
			logger.Warn("Failed to close email provider", "error", err)
		}
	}
	return ginRouter, cleanup, nil
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage) (*services.ServiceContainer, error) {
	customValidator := validator.New(cfg.Validation.AllowedTLDs...)

	var emailService email.Provider
	if cfg.Email.Enabled {
		smtpCfg := email.DefaultConfig()
		smtpCfg.Host = cfg.Email.SMTPHost
		smtpCfg.Port = cfg.Email.SMTPPort
		smtpCfg.Username = cfg.Email.SMTPUsername
		smtpCfg.Password = cfg.Email.SMTPPassword
		smtpCfg.FromEmail = cfg.Email.FromEmail
		smtpCfg.FromName = cfg.Email.FromName

		provider, err := email.NewSMTPProvider(smtpCfg, email.NewTemplateManager())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize email provider: %w", err)
		}
		emailService = provider
	} else {
		logger.Warn("Email is disabled, using mock provider")
		emailService = &MockEmailProvider{}
	}

	// --- Инициализация репозиториев ---
	accountRepo := repositories.NewAccountRepository(gormDB)

	var contactRepo repositories.ContactRepository
	switch cfg.Contacts.Backend {
	case config.ContactsBackendFile:
		fileRepo, err := repositories.NewFileContactRepository(cfg.Contacts.File)
		if err != nil {
			return nil, err
		}
		contactRepo = fileRepo
		logger.Info("Contacts stored in file", "path", cfg.Contacts.File)
	default:
		contactRepo = repositories.NewContactRepository(gormDB)
	}

	// --- Инициализация сервисов ---
	contactService := services.NewContactService(contactRepo, customValidator)
	accountService := services.NewAccountService(accountRepo, contactService, emailService, customValidator, services.AccountConfig{
		JWTSecret:    []byte(cfg.JWT.Secret),
		TokenTTL:     time.Duration(cfg.JWT.TTLHours) * time.Hour,
		Verification: cfg.Email.Verification,
		BaseURL:      cfg.Email.BaseURL,
		AvatarSize:   cfg.Avatar.Size,
	})
	avatarService := services.NewAvatarService(accountRepo, storageInstance, imageprocessor.NewProcessor(85).WithMaxDimension(cfg.Avatar.MaxDimension), services.AvatarConfig{
		MaxSize: cfg.Upload.MaxSize,
		Size:    cfg.Avatar.Size,
	})

	return &services.ServiceContainer{
		ContactService: contactService,
		AccountService: accountService,
		AvatarService:  avatarService,
		EmailService:   emailService,
	}, nil
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler()

	return &handlers.AppHandlers{
		ContactHandler: handlers.NewContactHandler(baseHandler, services.ContactService),
		UserHandler:    handlers.NewUserHandler(baseHandler, services.AccountService, services.AvatarService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
