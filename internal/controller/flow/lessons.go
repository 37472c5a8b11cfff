package flow

import (
	"context"
	"errors"

	"github.com/Freeeeeet/lesson_bot/internal/controller/callbackdata"
	"github.com/Freeeeeet/lesson_bot/internal/i18n"
	"github.com/Freeeeeet/lesson_bot/internal/model"
)

// events список занятий пользователя, страница page
func (d *Dispatcher) events(ctx context.Context, userID int64, locale model.Locale, page int) (Reply, error) {
	lessons, err := call(ctx, d.cfg.AccessorTimeout, "list records", func(ctx context.Context) ([]*model.Lesson, error) {
		return d.lessons.ListRecords(ctx, userID)
	})
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return Reply{}, err
	}
	if len(lessons) == 0 {
		return d.text(locale, "message.no_events", nil), nil
	}

	kb, err := d.steps.Lessons(lessons, locale, page)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: d.tr.Translate(locale, "message.events", nil), Keyboard: kb}, nil
}

// record занятие пользователя. Чужие занятия и черновики считаются отсутствующими.
func (d *Dispatcher) record(ctx context.Context, userID int64, a callbackdata.OpenLesson) (*model.Lesson, error) {
	lesson, err := call(ctx, d.cfg.AccessorTimeout, "get record", func(ctx context.Context) (*model.Lesson, error) {
		return d.lessons.GetRecord(ctx, a.ID)
	})
	if errors.Is(err, model.ErrNotFound) {
		return nil, stale(StepLessons, "lesson "+a.ID.String()+" not found")
	}
	if err != nil {
		return nil, err
	}
	if lesson.UserID != userID || lesson.IsDraft() || !lesson.HasSlot() {
		return nil, stale(StepLessons, "lesson "+a.ID.String()+" is not available")
	}
	return lesson, nil
}

func (d *Dispatcher) openLesson(ctx context.Context, userID int64, a callbackdata.OpenLesson, locale model.Locale) (Reply, error) {
	lesson, err := d.record(ctx, userID, a)
	if err != nil {
		return Reply{}, err
	}

	kb, err := d.steps.LessonActions(lesson.ID, locale)
	if err != nil {
		return Reply{}, err
	}

	period := model.PeriodOnce
	if lesson.Period != nil {
		period = *lesson.Period
	}
	text := d.tr.Translate(locale, "message.event_info", i18n.Params{
		"day":    i18n.WeekdayTitle(d.tr, locale, *lesson.Date),
		"date":   i18n.FormatDate(d.tr, locale, *lesson.Date),
		"time":   i18n.FormatHour(*lesson.Hour),
		"period": i18n.PeriodLabel(d.tr, locale, period),
	})
	return Reply{Text: text, Keyboard: kb}, nil
}

// applyAction отмена или перенос занятия. Перенос начинает выбор даты заново,
// а занятие остаётся в расписании до подтверждения нового времени.
func (d *Dispatcher) applyAction(ctx context.Context, userID int64, a callbackdata.ApplyAction, locale model.Locale) (Reply, error) {
	lesson, err := d.record(ctx, userID, callbackdata.OpenLesson{ID: a.ID})
	if err != nil {
		return Reply{}, err
	}

	switch a.Action {
	case model.LessonActionCancel:
		err = exec(ctx, d.cfg.AccessorTimeout, "delete record", func(ctx context.Context) error {
			return d.lessons.DeleteRecord(ctx, lesson.ID)
		})
		if errors.Is(err, model.ErrNotFound) {
			return Reply{}, stale(StepLessons, "lesson "+a.ID.String()+" already deleted")
		}
		if err != nil {
			return Reply{}, err
		}
		return d.text(locale, "message.canceled", nil), nil

	case model.LessonActionReschedule:
		_, err = call(ctx, d.cfg.AccessorTimeout, "reopen record", func(ctx context.Context) (*model.Lesson, error) {
			return d.lessons.ReopenRecord(ctx, lesson.ID, userID)
		})
		if errors.Is(err, model.ErrNotFound) {
			return Reply{}, stale(StepLessons, "lesson "+a.ID.String()+" already deleted")
		}
		if err != nil {
			return Reply{}, err
		}
		return d.dates(d.today(), locale)

	default:
		return Reply{}, stale(StepLessons, "unsupported action "+string(a.Action))
	}
}
