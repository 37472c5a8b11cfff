package flow

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
)

type fakeLessons struct {
	mu      sync.Mutex
	lessons map[uuid.UUID]*model.Lesson
	busy    map[string][]int
	err     error
	calls   int
}

func newFakeLessons() *fakeLessons {
	return &fakeLessons{
		lessons: make(map[uuid.UUID]*model.Lesson),
		busy:    make(map[string][]int),
	}
}

func (f *fakeLessons) begin() error {
	f.calls++
	return f.err
}

func (f *fakeLessons) findDraft(userID int64) *model.Lesson {
	for _, l := range f.lessons {
		if l.UserID == userID && l.IsDraft() {
			return l
		}
	}
	return nil
}

func (f *fakeLessons) add(l *model.Lesson) *model.Lesson {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	f.lessons[l.ID] = l
	return l
}

func (f *fakeLessons) get(id uuid.UUID) *model.Lesson {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lessons[id]
}

func (f *fakeLessons) draftOf(userID int64) *model.Lesson {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findDraft(userID)
}

func (f *fakeLessons) CreateDraft(_ context.Context, name string, userID int64, contact string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return uuid.Nil, err
	}
	for id, l := range f.lessons {
		if l.UserID == userID && l.IsDraft() {
			delete(f.lessons, id)
		}
	}
	l := &model.Lesson{ID: uuid.New(), UserID: userID, Name: name, Contact: contact, Status: model.LessonStatusDraft}
	f.lessons[l.ID] = l
	return l.ID, nil
}

func (f *fakeLessons) UpdateDraft(_ context.Context, userID int64, upd model.DraftUpdate) (*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	l := f.findDraft(userID)
	if l == nil {
		return nil, model.ErrNotFound
	}
	if upd.Date != nil {
		date := *upd.Date
		l.Date = &date
	}
	if upd.Hour != nil {
		hour := *upd.Hour
		l.Hour = &hour
	}
	if upd.Period != nil {
		period := *upd.Period
		l.Period = &period
	}
	if upd.Finalize {
		if !l.HasSlot() || l.Period == nil {
			return nil, model.ErrIncomplete
		}
		if l.Reschedules != nil {
			delete(f.lessons, *l.Reschedules)
			l.Reschedules = nil
		}
		l.Status = model.LessonStatusScheduled
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLessons) GetDraft(_ context.Context, userID int64) (*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	l := f.findDraft(userID)
	if l == nil {
		return nil, model.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLessons) DiscardDraft(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return err
	}
	l := f.findDraft(userID)
	if l == nil {
		return model.ErrNotFound
	}
	delete(f.lessons, l.ID)
	return nil
}

func (f *fakeLessons) GetBusyHours(_ context.Context, date time.Time) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	busy := slices.Clone(f.busy[model.FormatDate(date)])
	for _, l := range f.lessons {
		if l.Occupies(date) {
			busy = append(busy, *l.Hour)
		}
	}
	return busy, nil
}

func (f *fakeLessons) ListRecords(_ context.Context, userID int64) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	var lessons []*model.Lesson
	for _, l := range f.lessons {
		if l.UserID == userID && !l.IsDraft() {
			lessons = append(lessons, l)
		}
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].Date.Before(*lessons[j].Date)
	})
	return lessons, nil
}

func (f *fakeLessons) GetRecord(_ context.Context, id uuid.UUID) (*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	l, ok := f.lessons[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLessons) DeleteRecord(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return err
	}
	if _, ok := f.lessons[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.lessons, id)
	return nil
}

func (f *fakeLessons) ReopenRecord(_ context.Context, id uuid.UUID, userID int64) (*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	l, ok := f.lessons[id]
	if !ok || l.UserID != userID || l.IsDraft() {
		return nil, model.ErrNotFound
	}
	if prev := f.findDraft(userID); prev != nil {
		delete(f.lessons, prev.ID)
	}
	draft := &model.Lesson{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        l.Name,
		Contact:     l.Contact,
		Status:      model.LessonStatusDraft,
		Reschedules: &l.ID,
	}
	f.lessons[draft.ID] = draft
	copied := *draft
	return &copied, nil
}

type fakeUsers struct {
	mu         sync.Mutex
	locales    map[int64]model.Locale
	registered map[int64]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		locales:    make(map[int64]model.Locale),
		registered: make(map[int64]string),
	}
}

func (f *fakeUsers) RegisterUser(_ context.Context, telegramID int64, username, firstName, _, _ string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered[telegramID] = username
	return &model.User{TelegramID: telegramID, Username: username, FirstName: firstName}, nil
}

func (f *fakeUsers) SetLocale(_ context.Context, telegramID int64, locale model.Locale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locales[telegramID] = locale
	return nil
}

func (f *fakeUsers) GetLocale(_ context.Context, telegramID int64) (model.Locale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	locale, ok := f.locales[telegramID]
	if !ok {
		return "", model.ErrNotFound
	}
	return locale, nil
}

type sentMessage struct {
	ChatID   int64
	Text     string
	Keyboard keyboard.Keyboard
}

type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	deleted  []int
	commands map[model.Locale][]Command
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{commands: make(map[model.Locale][]Command)}
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string, kb keyboard.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, Keyboard: kb})
	return nil
}

func (f *fakeTransport) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTransport) SetCommands(_ context.Context, locale model.Locale, commands []Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands[locale] = commands
	return nil
}

func (f *fakeTransport) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}
