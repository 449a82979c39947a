package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/whoznexx/sports-portal/config"
	"github.com/whoznexx/sports-portal/db"
	"github.com/whoznexx/sports-portal/handlers"
	"github.com/whoznexx/sports-portal/middleware"
	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/observability"
	"github.com/whoznexx/sports-portal/realtime"
	"github.com/whoznexx/sports-portal/repositories"
	api "github.com/whoznexx/sports-portal/routes"
	"github.com/whoznexx/sports-portal/services"
	"github.com/whoznexx/sports-portal/storage"
)

// sessionVerifier адаптирует AuthService к контракту гейта: исчезнувший
// профиль — мёртвая сессия, остальные ошибки — недоступность хранилища.
type sessionVerifier struct {
	auth services.AuthService
}

func (v sessionVerifier) GetProfile(ctx context.Context, id int) (*models.Profile, error) {
	profile, err := v.auth.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return nil, middleware.ErrSessionDead
		}
		return nil, err
	}
	return profile, nil
}

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "sports-portal")
	if err != nil {
		logger.Error("failed to initialize Sentry", slog.Any("error", err))
		os.Exit(1)
	}
	defer flushSentry()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Загрузчик файлов (Cloudflare R2) опционален: без него экспорт
	// отдаётся напрямую, без публикации.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("Cloudflare R2 not configured, exports will be served inline")
	}

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	kidRepo := repositories.NewPostgresKidRepository(dbConn)
	coachSubmissionRepo := repositories.NewPostgresCoachSubmissionRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(profileRepo)
	emailService := services.NewEmailService(cfg)
	if emailService == nil {
		logger.Info("SMTP not configured, emails are disabled")
	}
	registrationService := services.NewRegistrationService(kidRepo, profileRepo)
	coachService := services.NewCoachService(coachSubmissionRepo, wsHub)
	adminService := services.NewAdminService(kidRepo, coachSubmissionRepo, uploader)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	pagesHandler, err := handlers.NewPagesHandler()
	if err != nil {
		logger.Error("failed to parse page templates", slog.Any("error", err))
		os.Exit(1)
	}
	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	coachHandler := handlers.NewCoachHandler(coachService)
	adminHandler := handlers.NewAdminHandler(adminService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, adminService)
	logger.Info("HTTP handlers initialized")

	gate := middleware.NewSessionGate(cfg.JWTSecretKey, sessionVerifier{auth: authService}, logger)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		gate,
		pagesHandler,
		authHandler,
		registrationHandler,
		coachHandler,
		adminHandler,
		webSocketHandler,
		dbConn,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
