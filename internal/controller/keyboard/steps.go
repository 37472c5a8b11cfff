package keyboard

import (
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/controller/callbackdata"
	"github.com/Freeeeeet/lesson_bot/internal/i18n"
	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
)

const (
	DefaultDateWindow = 7
	DefaultPageSize   = 5
)

// Steps строит клавиатуры для каждого шага диалога.
// Результат зависит только от аргументов, поэтому повторная отрисовка
// даёт тот же набор callback data.
type Steps struct {
	registry *callbackdata.Registry
	tr       i18n.Translator
	window   int
	pageSize int
}

// NewSteps создаёт набор построителей клавиатур.
// window - сколько дат показывать за раз, pageSize - сколько занятий на странице списка.
func NewSteps(registry *callbackdata.Registry, tr i18n.Translator, window, pageSize int) *Steps {
	if window <= 0 {
		window = DefaultDateWindow
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Steps{
		registry: registry,
		tr:       tr,
		window:   window,
		pageSize: pageSize,
	}
}

// Window размер окна дат
func (s *Steps) Window() int {
	return s.window
}

func (s *Steps) button(label string, a callbackdata.Action) (Button, error) {
	token, err := s.registry.Encode(a)
	if err != nil {
		return Button{}, fmt.Errorf("button %q: %w", label, err)
	}
	return Button{Label: label, Token: token}, nil
}

// DateWindow возвращает n дней подряд начиная с pivot
func DateWindow(pivot time.Time, n int) []time.Time {
	pivot = model.TruncateDay(pivot)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = pivot.AddDate(0, 0, i)
	}
	return dates
}

// Dates клавиатура выбора даты. Кнопка "назад" есть только когда окно
// начинается позже сегодняшнего дня.
func (s *Steps) Dates(pivot, today time.Time, locale model.Locale) (Keyboard, error) {
	pivot = model.TruncateDay(pivot)
	today = model.TruncateDay(today)

	b := NewBuilder()
	for _, date := range DateWindow(pivot, s.window) {
		btn, err := s.button("📅 "+i18n.FormatDate(s.tr, locale, date), callbackdata.SelectDate{Date: date})
		if err != nil {
			return nil, err
		}
		b.Row(btn)
	}

	next, err := s.button(s.tr.Translate(locale, "button.next", nil), callbackdata.NextDates{Date: pivot})
	if err != nil {
		return nil, err
	}

	if !pivot.After(today) {
		return b.Row(next).Build(), nil
	}

	prev, err := s.button(s.tr.Translate(locale, "button.prev", nil), callbackdata.PreviousDates{Date: pivot})
	if err != nil {
		return nil, err
	}
	return b.Row(prev, next).Build(), nil
}

// AvailableHours часы из полуинтервала [start, end), не занятые busy, по возрастанию
func AvailableHours(start, end int, busy []int) []int {
	var hours []int
	for h := start; h < end; h++ {
		if !slices.Contains(busy, h) {
			hours = append(hours, h)
		}
	}
	return hours
}

// Times клавиатура выбора времени
func (s *Steps) Times(start, end int, busy []int) (Keyboard, error) {
	b := NewBuilder()
	for _, hour := range AvailableHours(start, end, busy) {
		btn, err := s.button("🕘 "+i18n.FormatHour(hour), callbackdata.SelectTime{Hour: hour})
		if err != nil {
			return nil, err
		}
		b.Row(btn)
	}
	return b.Build(), nil
}

// Periods клавиатура выбора периодичности
func (s *Steps) Periods(locale model.Locale, periods []model.Period) (Keyboard, error) {
	b := NewBuilder()
	for _, p := range periods {
		btn, err := s.button(i18n.PeriodLabel(s.tr, locale, p), callbackdata.SelectPeriod{Period: p})
		if err != nil {
			return nil, err
		}
		b.Row(btn)
	}
	return b.Build(), nil
}

// Locales клавиатура выбора языка. Название каждого языка берётся из его собственного словаря.
func (s *Steps) Locales() (Keyboard, error) {
	b := NewBuilder()
	for _, locale := range model.Locales() {
		btn, err := s.button(s.tr.Translate(locale, "locale.name", nil), callbackdata.SelectLocale{Locale: locale})
		if err != nil {
			return nil, err
		}
		b.Row(btn)
	}
	return b.Build(), nil
}

// LessonLabel краткое описание занятия для кнопки списка
func LessonLabel(tr i18n.Translator, locale model.Locale, l *model.Lesson) string {
	period := model.PeriodOnce
	if l.Period != nil {
		period = *l.Period
	}
	params := i18n.Params{"period": i18n.PeriodLabel(tr, locale, period)}
	if l.Date != nil {
		params["day"] = i18n.WeekdayTitle(tr, locale, *l.Date)
		params["date"] = i18n.FormatDate(tr, locale, *l.Date)
	}
	if l.Hour != nil {
		params["time"] = i18n.FormatHour(*l.Hour)
	}
	return tr.Translate(locale, "message.event_short_info_"+string(period), params)
}

// PageCount количество страниц для списка из total элементов.
// Страницы после callbackdata.MaxPage не показываются.
func (s *Steps) PageCount(total int) int {
	if total == 0 {
		return 1
	}
	return min((total+s.pageSize-1)/s.pageSize, callbackdata.MaxPage+1)
}

// ClampPage приводит номер страницы к допустимому диапазону
func (s *Steps) ClampPage(page, total int) int {
	if page < 0 {
		return 0
	}
	if last := s.PageCount(total) - 1; page > last {
		return last
	}
	return page
}

// Lessons клавиатура списка занятий с пагинацией
func (s *Steps) Lessons(lessons []*model.Lesson, locale model.Locale, page int) (Keyboard, error) {
	page = s.ClampPage(page, len(lessons))
	from := page * s.pageSize
	to := min(from+s.pageSize, len(lessons))

	b := NewBuilder()
	for _, l := range lessons[from:to] {
		btn, err := s.button(LessonLabel(s.tr, locale, l), callbackdata.OpenLesson{ID: l.ID})
		if err != nil {
			return nil, err
		}
		b.Row(btn)
	}

	pagination, err := s.pagination(locale, page, s.PageCount(len(lessons)))
	if err != nil {
		return nil, err
	}
	return b.Row(pagination...).Build(), nil
}

// pagination ряд кнопок пагинации. Индикатор страницы перерисовывает текущую страницу.
func (s *Steps) pagination(locale model.Locale, page, total int) ([]Button, error) {
	if total <= 1 {
		return nil, nil
	}

	var buttons []Button
	if page > 0 {
		btn, err := s.button(s.tr.Translate(locale, "button.prev", nil), callbackdata.LessonsPage{Page: page - 1})
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, btn)
	}

	indicator, err := s.button(s.tr.Translate(locale, "button.page", i18n.Params{
		"page":  fmt.Sprint(page + 1),
		"total": fmt.Sprint(total),
	}), callbackdata.LessonsPage{Page: page})
	if err != nil {
		return nil, err
	}
	buttons = append(buttons, indicator)

	if page < total-1 {
		btn, err := s.button(s.tr.Translate(locale, "button.next", nil), callbackdata.LessonsPage{Page: page + 1})
		if err != nil {
			return nil, err
		}
		buttons = append(buttons, btn)
	}

	return buttons, nil
}

// LessonActions клавиатура действий над занятием
func (s *Steps) LessonActions(id uuid.UUID, locale model.Locale) (Keyboard, error) {
	b := NewBuilder()
	for _, a := range model.LessonActions() {
		btn, err := s.button(s.tr.Translate(locale, "actions."+string(a)+".title", nil), callbackdata.ApplyAction{Action: a, ID: id})
		if err != nil {
			return nil, err
		}
		b.Row(btn)
	}
	return b.Build(), nil
}
