package service

import (
	"context"
	"errors"
	"fmt"

	"calendarApp/internal/logger"
	"calendarApp/internal/models/task"
	rep "calendarApp/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskService struct {
	tasks TaskRepository
	goals GoalRepository
}

func NewTaskService(tasks TaskRepository, goals GoalRepository) *TaskService {
	return &TaskService{
		tasks: tasks,
		goals: goals,
	}
}

func (s *TaskService) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	found, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(ResourceTask, id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

func (s *TaskService) CreateTask(ctx context.Context, newTask *task.Task) (*task.Task, error) {
	newTask.Normalize()
	if problems := newTask.Validate(); len(problems) > 0 {
		return nil, NewValidationError(problems)
	}

	if err := s.requireGoal(ctx, newTask.GoalID); err != nil {
		return nil, err
	}

	newTask.ID = uuid.New()
	if err := s.tasks.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.ID.String()),
		zap.String("goal_id", newTask.GoalID.String()))
	return newTask, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	found, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	previousGoal := found.GoalID
	found.Apply(options...)
	found.Normalize()
	if problems := found.Validate(); len(problems) > 0 {
		return nil, NewValidationError(problems)
	}

	if found.GoalID != previousGoal {
		if err := s.requireGoal(ctx, found.GoalID); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// ToggleTask инвертирует completed
func (s *TaskService) ToggleTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	found, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	found.Apply(task.WithCompleted(!found.Completed))
	if err := s.save(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound(ResourceTask, id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

func (s *TaskService) save(ctx context.Context, t *task.Task) error {
	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(ResourceTask, t.ID.String())
		}
		return fmt.Errorf("обновление задачи: %w", err)
	}
	return nil
}

func (s *TaskService) requireGoal(ctx context.Context, goalID uuid.UUID) error {
	if _, err := s.goals.GetByID(ctx, goalID); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Цель задачи не найдена", zap.String("goal_id", goalID.String()))
			return NewNotFound(ResourceGoal, goalID.String())
		}
		return fmt.Errorf("проверка цели: %w", err)
	}
	return nil
}
