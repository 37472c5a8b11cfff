package model

import (
	"time"

	"github.com/google/uuid"
)

type LessonStatus string

const (
	LessonStatusDraft     LessonStatus = "draft"     // Заполняется пользователем
	LessonStatusScheduled LessonStatus = "scheduled" // Подтверждено
)

// DateLayout формат даты в callback data и в БД-представлениях.
// Лексикографический порядок совпадает с хронологическим.
const DateLayout = "2006-01-02"

type Lesson struct {
	ID          uuid.UUID    `json:"id"`
	UserID      int64        `json:"user_id"`
	Name        string       `json:"name"`
	Contact     string       `json:"contact"`
	Date        *time.Time   `json:"date"`   // nil пока дата не выбрана
	Hour        *int         `json:"hour"`   // nil пока время не выбрано
	Period      *Period      `json:"period"` // nil пока период не выбран
	Status      LessonStatus `json:"status"`
	Reschedules *uuid.UUID   `json:"reschedules,omitempty"` // занятие, которое заменит черновик после подтверждения
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsDraft возвращает true если занятие ещё не подтверждено
func (l *Lesson) IsDraft() bool {
	return l.Status == LessonStatusDraft
}

// HasSlot возвращает true если у занятия выбраны и дата, и время
func (l *Lesson) HasSlot() bool {
	return l.Date != nil && l.Hour != nil
}

// Occupies проверяет, занимает ли подтверждённое занятие указанный день с учётом периодичности
func (l *Lesson) Occupies(day time.Time) bool {
	if l.Status != LessonStatusScheduled || !l.HasSlot() || l.Period == nil {
		return false
	}

	start := TruncateDay(*l.Date)
	day = TruncateDay(day)
	if day.Before(start) {
		return false
	}

	switch *l.Period {
	case PeriodOnce:
		return day.Equal(start)
	case PeriodWeekly:
		return daysBetween(start, day)%7 == 0
	case PeriodBiweekly:
		return daysBetween(start, day)%14 == 0
	case PeriodMonthly:
		return day.Day() == start.Day()
	default:
		return false
	}
}

// DraftUpdate частичное обновление черновика. Заполненные поля перезаписываются.
type DraftUpdate struct {
	Date     *time.Time
	Hour     *int
	Period   *Period
	Finalize bool
}

// TruncateDay приводит момент времени к полуночи UTC той же календарной даты
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату в формате DateLayout
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate форматирует дату в DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
