package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LessonService struct {
	store  LessonStore
	logger *zap.Logger
	now    func() time.Time
}

func NewLessonService(store LessonStore, logger *zap.Logger) *LessonService {
	return &LessonService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateDraft начинает новую запись. Прежний черновик пользователя удаляется.
func (s *LessonService) CreateDraft(ctx context.Context, name string, userID int64, contact string) (uuid.UUID, error) {
	if _, err := s.store.DeleteDrafts(ctx, userID); err != nil {
		return uuid.Nil, fmt.Errorf("delete previous drafts: %w", err)
	}

	lesson := &model.Lesson{
		ID:      uuid.New(),
		UserID:  userID,
		Name:    name,
		Contact: contact,
		Status:  model.LessonStatusDraft,
	}
	if err := s.store.Create(ctx, lesson); err != nil {
		return uuid.Nil, fmt.Errorf("create draft: %w", err)
	}

	s.logger.Info("Draft created",
		zap.String("lesson_id", lesson.ID.String()),
		zap.Int64("user_id", userID),
	)

	return lesson.ID, nil
}

// UpdateDraft заполняет поля черновика. Новая дата сбрасывает выбранные ранее
// время и период. С Finalize черновик подтверждается.
func (s *LessonService) UpdateDraft(ctx context.Context, userID int64, upd model.DraftUpdate) (*model.Lesson, error) {
	draft, err := s.store.GetDraft(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	if upd.Date != nil {
		date := model.TruncateDay(*upd.Date)
		draft.Date = &date
		draft.Hour = nil
		draft.Period = nil
	}
	if upd.Hour != nil {
		hour := *upd.Hour
		draft.Hour = &hour
	}
	if upd.Period != nil {
		period := *upd.Period
		draft.Period = &period
	}

	if !upd.Finalize {
		if err := s.store.UpdateDraft(ctx, draft); err != nil {
			return nil, fmt.Errorf("update draft: %w", err)
		}
		return draft, nil
	}

	if !draft.HasSlot() || draft.Period == nil {
		return nil, model.ErrIncomplete
	}
	rescheduled := draft.Reschedules != nil
	if err := s.store.Schedule(ctx, draft); err != nil {
		return nil, fmt.Errorf("schedule lesson: %w", err)
	}

	s.logger.Info("Lesson scheduled",
		zap.String("lesson_id", draft.ID.String()),
		zap.Bool("rescheduled", rescheduled),
		zap.Int64("user_id", userID),
		zap.String("date", model.FormatDate(*draft.Date)),
		zap.Int("hour", *draft.Hour),
		zap.String("period", string(*draft.Period)),
	)

	return draft, nil
}

// GetDraft получает черновик пользователя
func (s *LessonService) GetDraft(ctx context.Context, userID int64) (*model.Lesson, error) {
	return s.store.GetDraft(ctx, userID)
}

// DiscardDraft удаляет черновик пользователя
func (s *LessonService) DiscardDraft(ctx context.Context, userID int64) error {
	deleted, err := s.store.DeleteDrafts(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("draft of user %d: %w", userID, model.ErrNotFound)
	}
	return nil
}

// GetBusyHours часы даты, занятые подтверждёнными занятиями, включая повторения
func (s *LessonService) GetBusyHours(ctx context.Context, date time.Time) ([]int, error) {
	lessons, err := s.store.ListScheduledUntil(ctx, model.TruncateDay(date))
	if err != nil {
		return nil, err
	}

	var busy []int
	for _, l := range lessons {
		if l.Occupies(date) && !slices.Contains(busy, *l.Hour) {
			busy = append(busy, *l.Hour)
		}
	}
	slices.Sort(busy)
	return busy, nil
}

// ListRecords подтверждённые занятия пользователя
func (s *LessonService) ListRecords(ctx context.Context, userID int64) ([]*model.Lesson, error) {
	return s.store.ListScheduled(ctx, userID)
}

// GetRecord получает занятие по ID
func (s *LessonService) GetRecord(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	return s.store.GetByID(ctx, id)
}

// DeleteRecord удаляет занятие
func (s *LessonService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Lesson deleted", zap.String("lesson_id", id.String()))
	return nil
}

// ReopenRecord начинает перенос подтверждённого занятия: создаёт черновик,
// который заменит занятие только после подтверждения нового времени.
// До этого занятие остаётся в расписании. Чужое занятие считается ненайденным.
func (s *LessonService) ReopenRecord(ctx context.Context, id uuid.UUID, userID int64) (*model.Lesson, error) {
	lesson, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lesson.UserID != userID || lesson.IsDraft() {
		return nil, fmt.Errorf("lesson %s of user %d: %w", id, userID, model.ErrNotFound)
	}

	// у пользователя может быть только один черновик
	if _, err := s.store.DeleteDrafts(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete previous drafts: %w", err)
	}

	draft := &model.Lesson{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        lesson.Name,
		Contact:     lesson.Contact,
		Status:      model.LessonStatusDraft,
		Reschedules: &lesson.ID,
	}
	if err := s.store.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("create reschedule draft: %w", err)
	}

	s.logger.Info("Lesson reschedule started",
		zap.String("lesson_id", id.String()),
		zap.String("draft_id", draft.ID.String()),
		zap.Int64("user_id", userID),
	)
	return draft, nil
}

// DeleteStaleDrafts удаляет черновики, брошенные дольше ttl назад
func (s *LessonService) DeleteStaleDrafts(ctx context.Context, ttl time.Duration) (int64, error) {
	deleted, err := s.store.DeleteDraftsBefore(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("Stale drafts deleted", zap.Int64("count", deleted))
	}
	return deleted, nil
}
