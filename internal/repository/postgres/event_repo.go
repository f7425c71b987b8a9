package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calendarApp/internal/logger"
	"calendarApp/internal/models/event"
	repo "calendarApp/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const eventColumns = `id, title, category, date, start_time, end_time, task_id, created_at, updated_at`

type EventRepo struct {
	pool *pgxpool.Pool
}

func (r *EventRepo) HealthCheck(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (r *EventRepo) Create(ctx context.Context, eventToCreate *event.Event) error {
	start := time.Now()

	query := `INSERT INTO events
				(id, title, category, date, start_time, end_time, task_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
				RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		eventToCreate.ID,
		eventToCreate.Title,
		eventToCreate.Category,
		eventToCreate.Date,
		eventToCreate.StartTime,
		eventToCreate.EndTime,
		eventToCreate.TaskID,
	).Scan(&eventToCreate.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить событие", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление события: %w", err)
	}

	warnIfSlow(start, slowQuery/2, "events.create")
	return nil
}

func (r *EventRepo) Update(ctx context.Context, eventToUpdate *event.Event) error {
	start := time.Now()

	query := `UPDATE events
			SET title = $1,
				category = $2,
				date = $3,
				start_time = $4,
				end_time = $5,
				task_id = $6,
				updated_at = NOW()
			WHERE id = $7
			RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		eventToUpdate.Title,
		eventToUpdate.Category,
		eventToUpdate.Date,
		eventToUpdate.StartTime,
		eventToUpdate.EndTime,
		eventToUpdate.TaskID,
		eventToUpdate.ID,
	).Scan(&eventToUpdate.CreatedAt, &eventToUpdate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить событие", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление события: %w", err)
	}

	warnIfSlow(start, slowQuery, "events.update")
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	start := time.Now()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	found, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить событие", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение события: %w", err)
	}

	warnIfSlow(start, slowQuery, "events.get")
	return found, nil
}

func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить событие", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление события: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, slowQuery, "events.delete")
	return nil
}

// List события по возрастанию start_time; rng == nil - без фильтра по дате
func (r *EventRepo) List(ctx context.Context, rng *event.Range) ([]*event.Event, error) {
	start := time.Now()

	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	if rng != nil {
		query += ` WHERE date >= $1 AND date <= $2`
		args = append(args, rng.From, rng.To)
	}
	query += ` ORDER BY start_time ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить события", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение событий: %w", err)
	}
	defer rows.Close()

	events := []*event.Event{}
	for rows.Next() {
		found, err := scanEvent(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования события", zap.Error(err))
			continue
		}
		events = append(events, found)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, slowQuery, "events.list")
	return events, nil
}

func scanEvent(row pgx.Row) (*event.Event, error) {
	found := &event.Event{}
	err := row.Scan(
		&found.ID,
		&found.Title,
		&found.Category,
		&found.Date,
		&found.StartTime,
		&found.EndTime,
		&found.TaskID,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	found.Date = event.DayOf(found.Date)
	found.StartTime = found.StartTime.UTC()
	found.EndTime = found.EndTime.UTC()
	return found, nil
}
