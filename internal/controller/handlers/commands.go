package handlers

import (
	"context"

	"github.com/Freeeeeet/lesson_bot/internal/controller/flow"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCommand обрабатывает команды бота (/start, /appointment, /events ...)
func (h *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if update.Message.From == nil {
		h.logger.Debug("Message without sender ignored", zap.Int64("chat_id", update.Message.Chat.ID))
		return
	}

	h.dispatcher.HandleMessage(ctx, MessageFromUpdate(update.Message))
}

// MessageFromUpdate переводит сообщение Telegram в событие диалога
func MessageFromUpdate(m *models.Message) flow.Message {
	user := m.From
	return flow.Message{
		ChatID:       m.Chat.ID,
		UserID:       user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Text:         m.Text,
		LanguageCode: user.LanguageCode,
	}
}
