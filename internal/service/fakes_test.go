package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
)

type memLessonStore struct {
	mu      sync.Mutex
	lessons map[uuid.UUID]*model.Lesson
	cutoff  time.Time
}

func newMemLessonStore(lessons ...*model.Lesson) *memLessonStore {
	s := &memLessonStore{lessons: make(map[uuid.UUID]*model.Lesson)}
	for _, l := range lessons {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		s.lessons[l.ID] = l
	}
	return s
}

func (s *memLessonStore) Create(_ context.Context, lesson *model.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *lesson
	s.lessons[lesson.ID] = &copied
	return nil
}

func (s *memLessonStore) GetByID(_ context.Context, id uuid.UUID) (*model.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lessons[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *memLessonStore) GetDraft(_ context.Context, userID int64) (*model.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lessons {
		if l.UserID == userID && l.IsDraft() {
			copied := *l
			return &copied, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *memLessonStore) UpdateDraft(_ context.Context, lesson *model.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.lessons[lesson.ID]; !ok || !stored.IsDraft() {
		return model.ErrNotFound
	}
	copied := *lesson
	s.lessons[lesson.ID] = &copied
	return nil
}

func (s *memLessonStore) Schedule(_ context.Context, lesson *model.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.lessons[lesson.ID]; !ok || !stored.IsDraft() {
		return model.ErrNotFound
	}
	for id, other := range s.lessons {
		if id == lesson.ID || (lesson.Reschedules != nil && id == *lesson.Reschedules) {
			continue
		}
		if other.Hour != nil && *other.Hour == *lesson.Hour && other.Occupies(*lesson.Date) {
			return model.ErrSlotBusy
		}
	}
	if lesson.Reschedules != nil {
		if original, ok := s.lessons[*lesson.Reschedules]; ok && original.UserID == lesson.UserID && !original.IsDraft() {
			delete(s.lessons, original.ID)
		}
	}
	lesson.Status = model.LessonStatusScheduled
	lesson.Reschedules = nil
	copied := *lesson
	s.lessons[lesson.ID] = &copied
	return nil
}

func (s *memLessonStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.lessons, id)
	return nil
}

func (s *memLessonStore) DeleteDrafts(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, l := range s.lessons {
		if l.UserID == userID && l.IsDraft() {
			delete(s.lessons, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memLessonStore) DeleteDraftsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoff = cutoff
	var deleted int64
	for id, l := range s.lessons {
		if l.IsDraft() && l.UpdatedAt.Before(cutoff) {
			delete(s.lessons, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memLessonStore) ListScheduled(_ context.Context, userID int64) ([]*model.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lessons []*model.Lesson
	for _, l := range s.lessons {
		if l.UserID == userID && !l.IsDraft() {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

func (s *memLessonStore) ListScheduledUntil(_ context.Context, day time.Time) ([]*model.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lessons []*model.Lesson
	for _, l := range s.lessons {
		if !l.IsDraft() && l.Date != nil && !l.Date.After(day) {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

func (s *memLessonStore) draftOf(userID int64) *model.Lesson {
	l, err := s.GetDraft(context.Background(), userID)
	if err != nil {
		return nil
	}
	return l
}

type memUserStore struct {
	mu    sync.Mutex
	users map[int64]*model.User
	seq   int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*model.User)}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	user.ID = s.seq
	copied := *user
	s.users[user.TelegramID] = &copied
	return nil
}

func (s *memUserStore) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) Update(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.TelegramID]
	if !ok {
		return model.ErrNotFound
	}
	locale := existing.Locale
	copied := *user
	copied.Locale = locale
	s.users[user.TelegramID] = &copied
	return nil
}

func (s *memUserStore) UpsertLocale(_ context.Context, telegramID int64, locale model.Locale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		s.seq++
		u = &model.User{ID: s.seq, TelegramID: telegramID}
		s.users[telegramID] = u
	}
	u.Locale = locale
	return nil
}
