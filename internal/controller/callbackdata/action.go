package callbackdata

import (
	"strconv"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
)

// Action действие, привязанное к кнопке. Набор реализаций закрыт:
// каждой Kind соответствует ровно один тип ниже.
type Action interface {
	Kind() Kind
	// values возвращает значения полей в порядке схемы
	values() []string
}

// SelectDate выбор даты занятия
type SelectDate struct {
	Date time.Time
}

// NextDates переход к следующему окну дат. Date - первая дата текущего окна.
type NextDates struct {
	Date time.Time
}

// PreviousDates переход к предыдущему окну дат. Date - первая дата текущего окна.
type PreviousDates struct {
	Date time.Time
}

// SelectTime выбор часа занятия
type SelectTime struct {
	Hour int
}

// SelectPeriod выбор периодичности
type SelectPeriod struct {
	Period model.Period
}

// SelectLocale смена языка интерфейса
type SelectLocale struct {
	Locale model.Locale
}

// OpenLesson открытие карточки занятия
type OpenLesson struct {
	ID uuid.UUID
}

// ApplyAction действие над занятием
type ApplyAction struct {
	Action model.LessonAction
	ID     uuid.UUID
}

// LessonsPage страница списка занятий
type LessonsPage struct {
	Page int
}

func (SelectDate) Kind() Kind    { return KindCreateDate }
func (NextDates) Kind() Kind     { return KindNextDates }
func (PreviousDates) Kind() Kind { return KindPreviousDates }
func (SelectTime) Kind() Kind    { return KindTime }
func (SelectPeriod) Kind() Kind  { return KindPeriod }
func (SelectLocale) Kind() Kind  { return KindLocale }
func (OpenLesson) Kind() Kind    { return KindLessonID }
func (ApplyAction) Kind() Kind   { return KindLessonAction }
func (LessonsPage) Kind() Kind   { return KindLessonsPage }

func (a SelectDate) values() []string    { return []string{model.FormatDate(a.Date)} }
func (a NextDates) values() []string     { return []string{model.FormatDate(a.Date)} }
func (a PreviousDates) values() []string { return []string{model.FormatDate(a.Date)} }
func (a SelectTime) values() []string    { return []string{strconv.Itoa(a.Hour)} }
func (a SelectPeriod) values() []string  { return []string{string(a.Period)} }
func (a SelectLocale) values() []string  { return []string{string(a.Locale)} }
func (a OpenLesson) values() []string    { return []string{a.ID.String()} }
func (a ApplyAction) values() []string   { return []string{string(a.Action), a.ID.String()} }
func (a LessonsPage) values() []string   { return []string{strconv.Itoa(a.Page)} }
