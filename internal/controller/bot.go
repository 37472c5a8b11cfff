package controller

import (
	"context"

	"github.com/Freeeeeet/lesson_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/lesson_bot/internal/controller/flow"
	"github.com/Freeeeeet/lesson_bot/internal/controller/handlers"
	"github.com/Freeeeeet/lesson_bot/internal/controller/telegram"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	dispatcher      *flow.Dispatcher
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	dispatcher *flow.Dispatcher,
	transport *telegram.Transport,
	dedup callbacks.Deduplicator,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:             botInstance,
		dispatcher:      dispatcher,
		handlers:        handlers.NewHandlers(dispatcher, logger),
		callbackHandler: callbacks.NewHandler(dispatcher, transport, dedup, logger),
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды разбирает диспетчер, обычный текст он игнорирует
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, c.handlers.HandleCommand)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота на каждом языке
func (c *BotController) setCommands(ctx context.Context) error {
	if err := c.dispatcher.SetupCommands(ctx); err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
