package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/lesson_bot/internal/app"
	"github.com/Freeeeeet/lesson_bot/internal/config"
	"github.com/Freeeeeet/lesson_bot/internal/controller"
	"github.com/Freeeeeet/lesson_bot/internal/controller/callbackdata"
	"github.com/Freeeeeet/lesson_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/lesson_bot/internal/controller/flow"
	"github.com/Freeeeeet/lesson_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_bot/internal/controller/telegram"
	"github.com/Freeeeeet/lesson_bot/internal/i18n"
	"github.com/Freeeeeet/lesson_bot/internal/repository"
	"github.com/Freeeeeet/lesson_bot/internal/service"
	"github.com/Freeeeeet/lesson_bot/internal/storage/redis"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting lesson bot",
		"environment", cfg.Environment,
		"timezone", cfg.Timezone,
		"working_hours", []int{cfg.StartHour, cfg.EndHour})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := app.Connect(ctx, cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	catalog, err := i18n.Load()
	if err != nil {
		return err
	}

	lessonService := service.NewLessonService(repository.NewLessonRepository(pool), logger)
	userService := service.NewUserService(repository.NewUserRepository(pool), logger)

	var dedup callbacks.Deduplicator
	if cfg.RedisEnabled() {
		redisDedup := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.DedupTTL)
		defer redisDedup.Close()

		if err := redisDedup.Ping(ctx); err != nil {
			logger.Warn("Redis is unavailable, duplicate callbacks will not be filtered", zap.Error(err))
		}
		dedup = redisDedup
	}

	botInstance, err := bot.New(cfg.TelegramToken, bot.WithMiddlewares(controller.RecoverMiddleware(logger)))
	if err != nil {
		return err
	}

	transport := telegram.NewTransport(botInstance, cfg.SendRate, cfg.SendBurst, logger)
	registry := callbackdata.Default
	dispatcher := flow.NewDispatcher(
		lessonService,
		userService,
		transport,
		keyboard.NewSteps(registry, catalog, cfg.DateWindow, cfg.PageSize),
		registry,
		catalog,
		flow.Config{
			StartHour:       cfg.StartHour,
			EndHour:         cfg.EndHour,
			Location:        cfg.Location,
			DefaultLocale:   cfg.Locale(),
			AccessorTimeout: cfg.AccessorTimeout,
		},
		logger,
	)

	botController := controller.NewBotController(botInstance, dispatcher, transport, dedup, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	janitor := app.NewJanitor(lessonService, cfg.DraftTTL, cfg.JanitorInterval, logger)
	janitor.Start(ctx)
	defer janitor.Stop()

	return botController.Start(ctx)
}
