package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/controller/flow"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const dedupTimeout = time.Second

// CallbackDispatcher обработка нажатий, реализуется flow.Dispatcher
type CallbackDispatcher interface {
	HandleCallback(ctx context.Context, ev flow.CallbackEvent)
}

// Answerer подтверждает получение callback query
type Answerer interface {
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Deduplicator отсекает повторную доставку одного нажатия
type Deduplicator interface {
	FirstSeen(ctx context.Context, callbackID string) (bool, error)
}

// Handler обработчик нажатий на inline кнопки
type Handler struct {
	dispatcher CallbackDispatcher
	answerer   Answerer
	dedup      Deduplicator
	logger     *zap.Logger
}

// NewHandler создаёт новый обработчик callbacks. dedup может быть nil.
func NewHandler(dispatcher CallbackDispatcher, answerer Answerer, dedup Deduplicator, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		answerer:   answerer,
		dedup:      dedup,
		logger:     logger,
	}
}

// HandleCallbackQuery подтверждает нажатие и передаёт его в диалог
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	h.logger.Debug("Callback query received",
		zap.String("callback_id", callback.ID),
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	if err := h.answerer.AnswerCallback(ctx, callback.ID); err != nil {
		h.logger.Warn("Failed to answer callback", zap.String("callback_id", callback.ID), zap.Error(err))
	}

	if !h.firstSeen(ctx, callback.ID) {
		h.logger.Info("Duplicate callback ignored", zap.String("callback_id", callback.ID))
		return
	}

	ev, ok := EventFromCallback(callback)
	if !ok {
		h.logger.Warn("Callback without message ignored", zap.String("callback_id", callback.ID))
		return
	}

	h.dispatcher.HandleCallback(ctx, ev)
}

// firstSeen при недоступном Redis событие обрабатывается: повтор безопаснее потери
func (h *Handler) firstSeen(ctx context.Context, callbackID string) bool {
	if h.dedup == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, dedupTimeout)
	defer cancel()

	seen, err := h.dedup.FirstSeen(ctx, callbackID)
	if err != nil {
		h.logger.Warn("Callback deduplication unavailable", zap.String("callback_id", callbackID), zap.Error(err))
		return true
	}
	return seen
}

// EventFromCallback переводит callback query в событие диалога.
// Для сообщений старше 48 часов Telegram присылает только чат и ID сообщения.
func EventFromCallback(callback *models.CallbackQuery) (flow.CallbackEvent, bool) {
	ev := flow.CallbackEvent{
		ID:           callback.ID,
		UserID:       callback.From.ID,
		LanguageCode: callback.From.LanguageCode,
		Token:        callback.Data,
	}

	switch {
	case callback.Message.Message != nil:
		ev.ChatID = callback.Message.Message.Chat.ID
		ev.MessageID = callback.Message.Message.ID
	case callback.Message.InaccessibleMessage != nil:
		ev.ChatID = callback.Message.InaccessibleMessage.Chat.ID
		ev.MessageID = callback.Message.InaccessibleMessage.MessageID
	default:
		return flow.CallbackEvent{}, false
	}

	return ev, true
}
