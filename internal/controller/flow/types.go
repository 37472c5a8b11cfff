package flow

import (
	"context"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
)

// Message входящее текстовое сообщение
type Message struct {
	ChatID       int64
	UserID       int64
	Username     string
	FirstName    string
	LastName     string
	Text         string
	LanguageCode string
}

// CallbackEvent нажатие inline-кнопки
type CallbackEvent struct {
	ID           string
	ChatID       int64
	MessageID    int
	UserID       int64
	LanguageCode string
	Token        string
}

// Command команда для меню бота
type Command struct {
	Name        string
	Description string
}

// Reply ответ пользователю: текст и, возможно, клавиатура следующего шага
type Reply struct {
	Text     string
	Keyboard keyboard.Keyboard
}

// Transport отправка сообщений в мессенджер
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, kb keyboard.Keyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SetCommands(ctx context.Context, locale model.Locale, commands []Command) error
}

// LessonAccessor доступ к записям о занятиях
type LessonAccessor interface {
	CreateDraft(ctx context.Context, name string, userID int64, contact string) (uuid.UUID, error)
	UpdateDraft(ctx context.Context, userID int64, upd model.DraftUpdate) (*model.Lesson, error)
	GetDraft(ctx context.Context, userID int64) (*model.Lesson, error)
	DiscardDraft(ctx context.Context, userID int64) error
	GetBusyHours(ctx context.Context, date time.Time) ([]int, error)
	ListRecords(ctx context.Context, userID int64) ([]*model.Lesson, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*model.Lesson, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
	ReopenRecord(ctx context.Context, id uuid.UUID, userID int64) (*model.Lesson, error)
}

// UserAccessor доступ к настройкам пользователя
type UserAccessor interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error)
	SetLocale(ctx context.Context, telegramID int64, locale model.Locale) error
	GetLocale(ctx context.Context, telegramID int64) (model.Locale, error)
}
