package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calendarApp/internal/logger"
	"calendarApp/internal/models/goal"
	repo "calendarApp/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type GoalRepo struct {
	pool *pgxpool.Pool
}

func (r *GoalRepo) Create(ctx context.Context, goalToCreate *goal.Goal) error {
	start := time.Now()

	query := `INSERT INTO goals (id, title, color, user_id, created_at)
				VALUES ($1, $2, $3, $4, NOW())
				RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		goalToCreate.ID,
		goalToCreate.Title,
		goalToCreate.Color,
		goalToCreate.UserID,
	).Scan(&goalToCreate.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить цель", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление цели: %w", err)
	}

	warnIfSlow(start, slowQuery/2, "goals.create")
	return nil
}

func (r *GoalRepo) Update(ctx context.Context, goalToUpdate *goal.Goal) error {
	start := time.Now()

	query := `UPDATE goals
			SET title = $1,
				color = $2,
				updated_at = NOW()
			WHERE id = $3
			RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		goalToUpdate.Title,
		goalToUpdate.Color,
		goalToUpdate.ID,
	).Scan(&goalToUpdate.CreatedAt, &goalToUpdate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить цель", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление цели: %w", err)
	}

	warnIfSlow(start, slowQuery, "goals.update")
	return nil
}

func (r *GoalRepo) GetByID(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	start := time.Now()

	query := `SELECT id, title, color, user_id, created_at, updated_at FROM goals WHERE id = $1`

	found := &goal.Goal{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&found.ID,
		&found.Title,
		&found.Color,
		&found.UserID,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить цель", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение цели: %w", err)
	}

	warnIfSlow(start, slowQuery, "goals.get")
	return found, nil
}

func (r *GoalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить цель", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление цели: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, slowQuery, "goals.delete")
	return nil
}

// List от новых к старым
func (r *GoalRepo) List(ctx context.Context) ([]*goal.Goal, error) {
	start := time.Now()

	query := `SELECT id, title, color, user_id, created_at, updated_at
				FROM goals
				ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить цели", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение целей: %w", err)
	}
	defer rows.Close()

	goals := []*goal.Goal{}
	for rows.Next() {
		found := &goal.Goal{}
		err := rows.Scan(
			&found.ID,
			&found.Title,
			&found.Color,
			&found.UserID,
			&found.CreatedAt,
			&found.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования цели", zap.Error(err))
			continue
		}
		goals = append(goals, found)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, slowQuery, "goals.list")
	return goals, nil
}
