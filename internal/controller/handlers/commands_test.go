package handlers

import (
	"context"
	"testing"

	"github.com/Freeeeeet/lesson_bot/internal/controller/flow"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDispatcher struct {
	messages []flow.Message
}

func (r *recordingDispatcher) HandleMessage(_ context.Context, msg flow.Message) {
	r.messages = append(r.messages, msg)
}

func TestHandleCommand(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHandlers(d, zap.NewNop())

	h.HandleCommand(context.Background(), nil, &models.Update{
		Message: &models.Message{
			Text: "/appointment",
			Chat: models.Chat{ID: 100},
			From: &models.User{ID: 42, Username: "anna", FirstName: "Anna", LastName: "K", LanguageCode: "en"},
		},
	})

	require.Len(t, d.messages, 1)
	assert.Equal(t, flow.Message{
		ChatID:       100,
		UserID:       42,
		Username:     "anna",
		FirstName:    "Anna",
		LastName:     "K",
		Text:         "/appointment",
		LanguageCode: "en",
	}, d.messages[0])
}

func TestHandleCommandSkipsUpdatesWithoutSender(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHandlers(d, zap.NewNop())

	h.HandleCommand(context.Background(), nil, &models.Update{})
	h.HandleCommand(context.Background(), nil, &models.Update{
		Message: &models.Message{Text: "/start", Chat: models.Chat{ID: 100}},
	})

	assert.Empty(t, d.messages)
}
