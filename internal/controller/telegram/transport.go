// Package telegram отправляет сообщения диалога через Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/controller/flow"
	"github.com/Freeeeeet/lesson_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxRetries = 3

// API методы Bot API, которыми пользуется транспорт. Реализуется *bot.Bot.
type API interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Transport реализует flow.Transport поверх Bot API.
// Все вызовы проходят через общий ограничитель частоты и повторяются
// при временных ошибках.
type Transport struct {
	api     API
	limiter *rate.Limiter
	logger  *zap.Logger
	// newBackOff политика повторов для одного вызова
	newBackOff func() backoff.BackOff
}

var _ flow.Transport = (*Transport)(nil)

func NewTransport(api API, perSecond float64, burst int, logger *zap.Logger) *Transport {
	return &Transport{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
		newBackOff: func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = 300 * time.Millisecond
			policy.MaxInterval = 5 * time.Second
			policy.MaxElapsedTime = 30 * time.Second
			return backoff.WithMaxRetries(policy, maxRetries)
		},
	}
}

// InlineKeyboard переводит клавиатуру шага в разметку Telegram.
// Пустая клавиатура даёт nil, чтобы сообщение ушло без разметки.
func InlineKeyboard(kb keyboard.Keyboard) models.ReplyMarkup {
	if len(kb) == 0 {
		return nil
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         b.Label,
				CallbackData: b.Token,
			})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// SendMessage отправляет сообщение с клавиатурой
func (t *Transport) SendMessage(ctx context.Context, chatID int64, text string, kb keyboard.Keyboard) error {
	return t.do(ctx, "sendMessage", func(ctx context.Context) error {
		_, err := t.api.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ReplyMarkup: InlineKeyboard(kb),
		})
		return err
	})
}

// DeleteMessage удаляет сообщение с нажатой клавиатурой
func (t *Transport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return t.do(ctx, "deleteMessage", func(ctx context.Context) error {
		_, err := t.api.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    chatID,
			MessageID: messageID,
		})
		return err
	})
}

// SetCommands устанавливает меню команд для языка. Пустой locale задаёт меню по умолчанию.
func (t *Transport) SetCommands(ctx context.Context, locale model.Locale, commands []flow.Command) error {
	botCommands := make([]models.BotCommand, 0, len(commands))
	for _, c := range commands {
		botCommands = append(botCommands, models.BotCommand{
			Command:     c.Name,
			Description: c.Description,
		})
	}

	return t.do(ctx, "setMyCommands", func(ctx context.Context) error {
		_, err := t.api.SetMyCommands(ctx, &bot.SetMyCommandsParams{
			Commands:     botCommands,
			LanguageCode: string(locale),
		})
		return err
	})
}

// AnswerCallback убирает индикатор загрузки на нажатой кнопке
func (t *Transport) AnswerCallback(ctx context.Context, callbackID string) error {
	return t.do(ctx, "answerCallbackQuery", func(ctx context.Context) error {
		_, err := t.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
		})
		return err
	})
}

// do выполняет вызов API с ограничением частоты и повторами.
// Ошибки запроса (400, 401, 403, 404) не повторяются.
func (t *Transport) do(ctx context.Context, method string, call func(ctx context.Context) error) error {
	operation := func() error {
		if err := t.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		err := call(ctx)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}

		var tooMany *bot.TooManyRequestsError
		if errors.As(err, &tooMany) && tooMany.RetryAfter > 0 {
			select {
			case <-time.After(time.Duration(tooMany.RetryAfter) * time.Second):
			case <-ctx.Done():
				return backoff.Permanent(ctx.Err())
			}
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		t.logger.Warn("Telegram call failed, retrying",
			zap.String("method", method),
			zap.Duration("next_attempt_in", next),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(t.newBackOff(), ctx), notify); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func isPermanent(err error) bool {
	return errors.Is(err, bot.ErrorBadRequest) ||
		errors.Is(err, bot.ErrorUnauthorized) ||
		errors.Is(err, bot.ErrorForbidden) ||
		errors.Is(err, bot.ErrorNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
