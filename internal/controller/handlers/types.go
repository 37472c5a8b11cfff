package handlers

import (
	"context"

	"github.com/Freeeeeet/lesson_bot/internal/controller/flow"
	"go.uber.org/zap"
)

// MessageDispatcher обработка текстовых сообщений, реализуется flow.Dispatcher
type MessageDispatcher interface {
	HandleMessage(ctx context.Context, msg flow.Message)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	dispatcher MessageDispatcher
	logger     *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(dispatcher MessageDispatcher, logger *zap.Logger) *Handlers {
	return &Handlers{
		dispatcher: dispatcher,
		logger:     logger,
	}
}
