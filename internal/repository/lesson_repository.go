package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/Freeeeeet/lesson_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// scheduleLockKey ключ advisory-блокировки, под которой подтверждаются занятия
const scheduleLockKey = 7_240_310

const lessonColumns = `id, user_id, name, contact, date, hour, period, status, reschedules_id, created_at, updated_at`

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт черновик занятия
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (id, user_id, name, contact, date, hour, period, status, reschedules_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		lesson.ID,
		lesson.UserID,
		lesson.Name,
		lesson.Contact,
		lesson.Date,
		lesson.Hour,
		periodArg(lesson.Period),
		string(lesson.Status),
		lesson.Reschedules,
	).Scan(&lesson.CreatedAt, &lesson.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID получает занятие по ID
func (r *LessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("lesson %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return lesson, nil
}

// GetDraft получает черновик пользователя
func (r *LessonRepository) GetDraft(ctx context.Context, userID int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE user_id = $1 AND status = 'draft'`

	lesson, err := scanLesson(r.QueryRow(ctx, query, userID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("draft of user %d: %w", userID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	return lesson, nil
}

// UpdateDraft сохраняет дату, время и период черновика.
// Уже подтверждённое занятие не меняется: для него возвращается model.ErrNotFound.
func (r *LessonRepository) UpdateDraft(ctx context.Context, lesson *model.Lesson) error {
	query := `
		UPDATE lessons
		SET date = $1, hour = $2, period = $3, updated_at = now()
		WHERE id = $4 AND status = 'draft'
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, lesson.Date, lesson.Hour, periodArg(lesson.Period), lesson.ID).Scan(&lesson.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("draft %s: %w", lesson.ID, model.ErrNotFound)
		}
		return fmt.Errorf("update draft: %w", err)
	}

	return nil
}

// Schedule подтверждает черновик. Под блокировкой проверяется, что ни одно
// подтверждённое занятие (с учётом повторений) не занимает тот же час в ту же дату.
// Черновик переноса в той же транзакции заменяет исходное занятие.
func (r *LessonRepository) Schedule(ctx context.Context, lesson *model.Lesson) error {
	if !lesson.HasSlot() || lesson.Period == nil {
		return model.ErrIncomplete
	}

	return r.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, scheduleLockKey); err != nil {
			return fmt.Errorf("lock schedule: %w", err)
		}

		// исходное занятие могли уже отменить, тогда перенос становится новой записью
		if lesson.Reschedules != nil {
			_, err := tx.Exec(ctx, `
				DELETE FROM lessons
				WHERE id = $1 AND user_id = $2 AND status = 'scheduled'
			`, *lesson.Reschedules, lesson.UserID)
			if err != nil {
				return fmt.Errorf("delete rescheduled lesson: %w", err)
			}
		}

		rows, err := tx.Query(ctx, `
			SELECT `+lessonColumns+`
			FROM lessons
			WHERE status = 'scheduled' AND hour = $1 AND date <= $2 AND id <> $3
		`, *lesson.Hour, *lesson.Date, lesson.ID)
		if err != nil {
			return fmt.Errorf("get conflicting lessons: %w", err)
		}
		others, err := collectLessons(rows)
		if err != nil {
			return fmt.Errorf("get conflicting lessons: %w", err)
		}
		for _, other := range others {
			if other.Occupies(*lesson.Date) {
				return model.ErrSlotBusy
			}
		}

		err = tx.QueryRow(ctx, `
			UPDATE lessons
			SET date = $1, hour = $2, period = $3, status = 'scheduled', reschedules_id = NULL, updated_at = now()
			WHERE id = $4 AND status = 'draft'
			RETURNING updated_at
		`, lesson.Date, lesson.Hour, periodArg(lesson.Period), lesson.ID).Scan(&lesson.UpdatedAt)
		if err != nil {
			if base.IsNotFound(err) {
				return fmt.Errorf("draft %s: %w", lesson.ID, model.ErrNotFound)
			}
			return fmt.Errorf("schedule lesson: %w", err)
		}

		lesson.Status = model.LessonStatusScheduled
		lesson.Reschedules = nil
		return nil
	})
}

// Delete удаляет занятие
func (r *LessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("lesson %s: %w", id, model.ErrNotFound)
	}

	return nil
}

// DeleteDrafts удаляет черновики пользователя
func (r *LessonRepository) DeleteDrafts(ctx context.Context, userID int64) (int64, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM lessons WHERE user_id = $1 AND status = 'draft'`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete drafts: %w", err)
	}
	return affected, nil
}

// DeleteDraftsBefore удаляет черновики, которые не менялись с момента cutoff
func (r *LessonRepository) DeleteDraftsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM lessons WHERE status = 'draft' AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale drafts: %w", err)
	}
	return affected, nil
}

// ListScheduled подтверждённые занятия пользователя по возрастанию даты и времени
func (r *LessonRepository) ListScheduled(ctx context.Context, userID int64) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE user_id = $1 AND status = 'scheduled'
		ORDER BY date, hour
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list scheduled lessons: %w", err)
	}

	lessons, err := collectLessons(rows)
	if err != nil {
		return nil, fmt.Errorf("list scheduled lessons: %w", err)
	}
	return lessons, nil
}

// ListScheduledUntil подтверждённые занятия, начинающиеся не позже day.
// Повторяющиеся занятия из этого списка могут занимать day.
func (r *LessonRepository) ListScheduledUntil(ctx context.Context, day time.Time) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE status = 'scheduled' AND date <= $1
		ORDER BY hour
	`

	rows, err := r.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("list scheduled lessons until %s: %w", model.FormatDate(day), err)
	}

	lessons, err := collectLessons(rows)
	if err != nil {
		return nil, fmt.Errorf("list scheduled lessons until %s: %w", model.FormatDate(day), err)
	}
	return lessons, nil
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var (
		lesson      model.Lesson
		hour        *int16
		period      *string
		status      string
		reschedules pgtype.UUID
	)

	err := row.Scan(
		&lesson.ID,
		&lesson.UserID,
		&lesson.Name,
		&lesson.Contact,
		&lesson.Date,
		&hour,
		&period,
		&status,
		&reschedules,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if hour != nil {
		h := int(*hour)
		lesson.Hour = &h
	}
	if period != nil {
		p := model.Period(*period)
		lesson.Period = &p
	}
	lesson.Status = model.LessonStatus(status)
	if reschedules.Valid {
		id := uuid.UUID(reschedules.Bytes)
		lesson.Reschedules = &id
	}

	return &lesson, nil
}

func collectLessons(rows pgx.Rows) ([]*model.Lesson, error) {
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

func periodArg(p *model.Period) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}
