package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/adapter/handler"
	"github.com/johnquangdev/meeting-notes/internal/adapter/repository"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-notes/internal/usecase/actionitem"
	aiuse "github.com/johnquangdev/meeting-notes/internal/usecase/ai"
	meetinguse "github.com/johnquangdev/meeting-notes/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-notes/pkg/ai"
	"github.com/johnquangdev/meeting-notes/pkg/config"
	"github.com/johnquangdev/meeting-notes/pkg/nylas"
	"github.com/johnquangdev/meeting-notes/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	switch {
	case cfg.AutoMigrate && cfg.IsProduction():
		logger.Warn("DB_AUTO_MIGRATE is refused in production, run cmd/migrate instead")
	case cfg.AutoMigrate:
		if err := database.RunMigrations(db, logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	default:
		logger.Info("startup migrations disabled")
	}

	// Redis is optional; without it the processing lock falls back to
	// an in-process lock that only protects a single instance.
	var locker cache.Locker
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		locker = cache.NewRedisLocker(redisClient)
		logger.Info("using redis processing lock", zap.String("addr", cfg.Redis.Addr))
	} else {
		locker = cache.NewMemoryLocker()
		logger.Warn("REDIS_ADDR not set, using in-process lock; run a single instance")
	}

	// Object storage is optional; transcripts are only archived when
	// it is configured.
	var archiver meetinguse.TranscriptArchiver
	if cfg.Storage.Enabled() {
		store, err := storage.NewTranscriptStore(cfg.Storage, logger)
		if err != nil {
			logger.Fatal("storage connection failed", zap.Error(err))
		}
		archiver = store
		logger.Info("transcript archiving enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		logger.Warn("STORAGE_ENDPOINT not set, transcript archiving disabled")
	}

	nylasClient := nylas.NewClient(cfg.Nylas.APIKey, cfg.Nylas.BaseURL, logger)
	if !nylasClient.Enabled() {
		logger.Warn("NYLAS_API_KEY not set, notetaker integration disabled")
	}
	if cfg.Nylas.WebhookSecret == "" {
		logger.Warn("NYLAS_WEBHOOK_SECRET not set, webhook signatures will not be verified")
	}

	meetingRepo := repository.NewMeetingRepository(db)
	itemRepo := repository.NewActionItemRepository(db)

	chatClient := ai.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	aiService := aiuse.NewService(chatClient, logger)

	meetingService := meetinguse.NewService(meetingRepo, itemRepo, aiService, nylasClient, locker, archiver, logger)
	itemService := actionitem.NewService(itemRepo, meetingRepo, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.NewCustomValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	handler.RegisterRoutes(e,
		handler.NewMeetingHandler(meetingService, logger),
		handler.NewActionItemHandler(itemService, logger),
		handler.NewWebhookHandler(meetingService, cfg.Nylas.WebhookSecret, logger),
	)

	if nylasClient.Enabled() && cfg.Nylas.WebhookBaseURL != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := nylasClient.SetupWebhooks(ctx, cfg.Nylas.WebhookBaseURL); err != nil {
				logger.Error("webhook registration failed", zap.Error(err))
			}
		}()
	} else if nylasClient.Enabled() {
		logger.Warn("WEBHOOK_BASE_URL not set, skipping webhook registration")
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.Int("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server exited")
}
