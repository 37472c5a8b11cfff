package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
)

// LessonStore хранилище занятий, реализуется repository.LessonRepository
type LessonStore interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error)
	GetDraft(ctx context.Context, userID int64) (*model.Lesson, error)
	UpdateDraft(ctx context.Context, lesson *model.Lesson) error
	Schedule(ctx context.Context, lesson *model.Lesson) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteDrafts(ctx context.Context, userID int64) (int64, error)
	DeleteDraftsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ListScheduled(ctx context.Context, userID int64) ([]*model.Lesson, error)
	ListScheduledUntil(ctx context.Context, day time.Time) ([]*model.Lesson, error)
}

// UserStore хранилище пользователей, реализуется repository.UserRepository
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpsertLocale(ctx context.Context, telegramID int64, locale model.Locale) error
}
