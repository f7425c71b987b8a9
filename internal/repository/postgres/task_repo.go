package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"calendarApp/internal/logger"
	"calendarApp/internal/models/task"
	repo "calendarApp/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const taskColumns = `id, title, goal_id, completed, due_date, priority, created_at, updated_at`

type TaskRepo struct {
	pool *pgxpool.Pool
}

func (r *TaskRepo) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, title, goal_id, completed, due_date, priority, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, NOW())
				RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.Title,
		taskToCreate.GoalID,
		taskToCreate.Completed,
		taskToCreate.DueDate,
		taskToCreate.Priority,
	).Scan(&taskToCreate.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start, slowQuery/2, "tasks.create")
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				goal_id = $2,
				completed = $3,
				due_date = $4,
				priority = $5,
				updated_at = NOW()
			WHERE id = $6
			RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.GoalID,
		taskToUpdate.Completed,
		taskToUpdate.DueDate,
		taskToUpdate.Priority,
		taskToUpdate.ID,
	).Scan(&taskToUpdate.CreatedAt, &taskToUpdate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	warnIfSlow(start, slowQuery, "tasks.update")
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	found, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start, slowQuery, "tasks.get")
	return found, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, slowQuery, "tasks.delete")
	return nil
}

func (r *TaskRepo) DeleteByGoal(ctx context.Context, goalID uuid.UUID) (int, error) {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE goal_id = $1`, goalID)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачи цели", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("удаление задач цели: %w", err)
	}

	warnIfSlow(start, slowQuery, "tasks.delete_by_goal")
	return int(tag.RowsAffected()), nil
}

// List от новых к старым с необязательными фильтрами
func (r *TaskRepo) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE TRUE`
	args := []any{}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += ` AND completed = $` + strconv.Itoa(len(args))
	}
	if filter.GoalID != nil {
		args = append(args, *filter.GoalID)
		query += ` AND goal_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		found, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, found)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, slowQuery, "tasks.list")
	return tasks, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	found := &task.Task{}
	err := row.Scan(
		&found.ID,
		&found.Title,
		&found.GoalID,
		&found.Completed,
		&found.DueDate,
		&found.Priority,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return found, nil
}
