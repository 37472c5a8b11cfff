package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
)

// Step шаг диалога, который нужно перерисовать после устаревшего нажатия
type Step string

const (
	StepMenu    Step = "menu"
	StepDate    Step = "date"
	StepTime    Step = "time"
	StepLessons Step = "lessons"
)

// StaleStateError кнопка разобрана, но больше не соответствует данным
// (час заняли, черновик удалён, занятие отменено)
type StaleStateError struct {
	Step   Step
	Date   time.Time // для StepTime - дата, для которой перерисовать время
	Reason string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("stale %s step: %s", e.Step, e.Reason)
}

func stale(step Step, reason string) error {
	return &StaleStateError{Step: step, Reason: reason}
}

func staleTime(date time.Time, reason string) error {
	return &StaleStateError{Step: StepTime, Date: date, Reason: reason}
}

// AccessorError ошибка хранилища занятий или пользователей
type AccessorError struct {
	Op  string
	Err error
}

func (e *AccessorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AccessorError) Unwrap() error {
	return e.Err
}

// call выполняет обращение к хранилищу с таймаутом.
// ErrNotFound и ErrSlotBusy возвращаются как есть: их обрабатывает сам шаг.
func call[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	v, err := fn(ctx)
	if err != nil && !errors.Is(err, model.ErrNotFound) && !errors.Is(err, model.ErrSlotBusy) {
		return v, &AccessorError{Op: op, Err: err}
	}
	return v, err
}

// exec как call, для операций без результата
func exec(ctx context.Context, timeout time.Duration, op string, fn func(context.Context) error) error {
	_, err := call(ctx, timeout, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
