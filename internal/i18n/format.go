package i18n

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"golang.org/x/text/cases"
)

// FormatDate форматирует дату по шаблону format.date языка
func FormatDate(tr Translator, locale model.Locale, t time.Time) string {
	return t.Format(tr.Translate(locale, "format.date", nil))
}

// FormatHour форматирует час занятия
func FormatHour(hour int) string {
	return fmt.Sprintf("%d:00", hour)
}

// Weekday возвращает название дня недели на языке пользователя
func Weekday(tr Translator, locale model.Locale, t time.Time) string {
	return tr.Translate(locale, "weekday."+strings.ToLower(t.Weekday().String()), nil)
}

// WeekdayTitle название дня недели с заглавной буквы
func WeekdayTitle(tr Translator, locale model.Locale, t time.Time) string {
	return cases.Title(Tag(locale)).String(Weekday(tr, locale, t))
}

// PeriodLabel возвращает подпись периодичности
func PeriodLabel(tr Translator, locale model.Locale, p model.Period) string {
	return tr.Translate(locale, "period."+string(p), nil)
}
