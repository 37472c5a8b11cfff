package flow

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/lesson_bot/internal/i18n"
	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/google/uuid"
)

// appointment начинает запись: создаёт черновик и показывает даты с сегодняшнего дня
func (d *Dispatcher) appointment(ctx context.Context, msg Message, locale model.Locale) (Reply, error) {
	contact := ""
	if msg.Username != "" {
		contact = "@" + msg.Username
	}

	_, err := call(ctx, d.cfg.AccessorTimeout, "create draft", func(ctx context.Context) (uuid.UUID, error) {
		return d.lessons.CreateDraft(ctx, msg.FirstName, msg.UserID, contact)
	})
	if err != nil {
		return Reply{}, err
	}

	return d.dates(d.today(), locale)
}

// dates шаг выбора даты. Окно не может начинаться раньше сегодняшнего дня.
func (d *Dispatcher) dates(pivot time.Time, locale model.Locale) (Reply, error) {
	today := d.today()
	pivot = model.TruncateDay(pivot)
	if pivot.Before(today) {
		pivot = today
	}

	kb, err := d.steps.Dates(pivot, today, locale)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: d.tr.Translate(locale, "message.choose_date", nil), Keyboard: kb}, nil
}

func (d *Dispatcher) selectDate(ctx context.Context, userID int64, date time.Time, locale model.Locale) (Reply, error) {
	if date.Before(d.today()) {
		return Reply{}, stale(StepDate, "date "+model.FormatDate(date)+" has passed")
	}

	_, err := call(ctx, d.cfg.AccessorTimeout, "update draft", func(ctx context.Context) (*model.Lesson, error) {
		return d.lessons.UpdateDraft(ctx, userID, model.DraftUpdate{Date: &date})
	})
	if errors.Is(err, model.ErrNotFound) {
		return Reply{}, stale(StepMenu, "no draft")
	}
	if err != nil {
		return Reply{}, err
	}

	return d.times(ctx, date, locale)
}

// times шаг выбора времени для даты. Если свободных часов нет,
// пользователь возвращается к выбору даты.
func (d *Dispatcher) times(ctx context.Context, date time.Time, locale model.Locale) (Reply, error) {
	free, err := d.freeHours(ctx, date)
	if err != nil {
		return Reply{}, err
	}

	params := i18n.Params{"date": i18n.FormatDate(d.tr, locale, date)}
	if len(free) == 0 {
		reply, err := d.dates(date, locale)
		if err != nil {
			return Reply{}, err
		}
		reply.Text = d.tr.Translate(locale, "message.no_time", params)
		return reply, nil
	}

	kb, err := d.steps.Times(d.cfg.StartHour, d.cfg.EndHour, d.unavailable(free))
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: d.tr.Translate(locale, "message.choose_time", params), Keyboard: kb}, nil
}

// freeHours свободные часы рабочего дня с учётом занятий и уже прошедших часов
func (d *Dispatcher) freeHours(ctx context.Context, date time.Time) ([]int, error) {
	busy, err := call(ctx, d.cfg.AccessorTimeout, "get busy hours", func(ctx context.Context) ([]int, error) {
		return d.lessons.GetBusyHours(ctx, date)
	})
	if err != nil {
		return nil, err
	}

	if model.TruncateDay(date).Equal(d.today()) {
		now := d.cfg.Now().In(d.cfg.Location)
		for h := d.cfg.StartHour; h <= now.Hour() && h < d.cfg.EndHour; h++ {
			busy = append(busy, h)
		}
	}
	return keyboard.AvailableHours(d.cfg.StartHour, d.cfg.EndHour, busy), nil
}

// unavailable все часы рабочего дня, кроме свободных
func (d *Dispatcher) unavailable(free []int) []int {
	var busy []int
	for h := d.cfg.StartHour; h < d.cfg.EndHour; h++ {
		if !slices.Contains(free, h) {
			busy = append(busy, h)
		}
	}
	return busy
}

func (d *Dispatcher) draft(ctx context.Context, userID int64) (*model.Lesson, error) {
	draft, err := call(ctx, d.cfg.AccessorTimeout, "get draft", func(ctx context.Context) (*model.Lesson, error) {
		return d.lessons.GetDraft(ctx, userID)
	})
	if errors.Is(err, model.ErrNotFound) {
		return nil, stale(StepMenu, "no draft")
	}
	if err != nil {
		return nil, err
	}
	if draft.Date == nil {
		return nil, stale(StepDate, "draft has no date")
	}
	return draft, nil
}

// selectTime проверяет, что час всё ещё свободен, и переходит к выбору периодичности
func (d *Dispatcher) selectTime(ctx context.Context, userID int64, hour int, locale model.Locale) (Reply, error) {
	draft, err := d.draft(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	free, err := d.freeHours(ctx, *draft.Date)
	if err != nil {
		return Reply{}, err
	}
	if !slices.Contains(free, hour) {
		return Reply{}, staleTime(*draft.Date, i18n.FormatHour(hour)+" is not available")
	}

	_, err = call(ctx, d.cfg.AccessorTimeout, "update draft", func(ctx context.Context) (*model.Lesson, error) {
		return d.lessons.UpdateDraft(ctx, userID, model.DraftUpdate{Hour: &hour})
	})
	if errors.Is(err, model.ErrNotFound) {
		return Reply{}, stale(StepMenu, "no draft")
	}
	if err != nil {
		return Reply{}, err
	}

	kb, err := d.steps.Periods(locale, model.Periods())
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: d.tr.Translate(locale, "message.choose_period", nil), Keyboard: kb}, nil
}

// selectPeriod завершает запись. Час проверяется ещё раз: его могли занять,
// пока пользователь выбирал периодичность.
func (d *Dispatcher) selectPeriod(ctx context.Context, userID int64, period model.Period, locale model.Locale) (Reply, error) {
	draft, err := d.draft(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if draft.Hour == nil {
		return Reply{}, staleTime(*draft.Date, "draft has no hour")
	}

	free, err := d.freeHours(ctx, *draft.Date)
	if err != nil {
		return Reply{}, err
	}
	if !slices.Contains(free, *draft.Hour) {
		return Reply{}, staleTime(*draft.Date, i18n.FormatHour(*draft.Hour)+" was taken")
	}

	lesson, err := call(ctx, d.cfg.AccessorTimeout, "finalize draft", func(ctx context.Context) (*model.Lesson, error) {
		return d.lessons.UpdateDraft(ctx, userID, model.DraftUpdate{Period: &period, Finalize: true})
	})
	switch {
	case errors.Is(err, model.ErrNotFound):
		return Reply{}, stale(StepMenu, "no draft")
	case errors.Is(err, model.ErrSlotBusy):
		return Reply{}, staleTime(*draft.Date, i18n.FormatHour(*draft.Hour)+" was taken")
	case err != nil:
		return Reply{}, err
	}

	return d.text(locale, "message.result", i18n.Params{
		"name":   lesson.Name,
		"date":   i18n.FormatDate(d.tr, locale, *lesson.Date),
		"time":   i18n.FormatHour(*lesson.Hour),
		"period": i18n.PeriodLabel(d.tr, locale, period),
	}), nil
}

// cancelDraft удаляет незавершённую запись
func (d *Dispatcher) cancelDraft(ctx context.Context, userID int64, locale model.Locale) (Reply, error) {
	err := exec(ctx, d.cfg.AccessorTimeout, "discard draft", func(ctx context.Context) error {
		return d.lessons.DiscardDraft(ctx, userID)
	})
	if errors.Is(err, model.ErrNotFound) {
		return d.text(locale, "message.nothing_to_cancel", nil), nil
	}
	if err != nil {
		return Reply{}, err
	}
	return d.text(locale, "message.draft_canceled", nil), nil
}
