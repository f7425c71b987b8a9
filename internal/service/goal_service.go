package service

import (
	"context"
	"errors"
	"fmt"

	"calendarApp/internal/logger"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"
	rep "calendarApp/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GoalService struct {
	goals GoalRepository
	tasks TaskRepository
}

func NewGoalService(goals GoalRepository, tasks TaskRepository) *GoalService {
	return &GoalService{
		goals: goals,
		tasks: tasks,
	}
}

func (s *GoalService) ListGoals(ctx context.Context) ([]*goal.Goal, error) {
	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение целей: %w", err)
	}
	return goals, nil
}

func (s *GoalService) GetGoal(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	found, err := s.goals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Цель не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(ResourceGoal, id.String())
		}
		return nil, fmt.Errorf("получение цели: %w", err)
	}
	return found, nil
}

// GoalTasks задачи цели; 404 если цели нет
func (s *GoalService) GoalTasks(ctx context.Context, id uuid.UUID) ([]*task.Task, error) {
	if _, err := s.GetGoal(ctx, id); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, task.Filter{GoalID: &id})
	if err != nil {
		return nil, fmt.Errorf("получение задач цели: %w", err)
	}
	return tasks, nil
}

func (s *GoalService) CreateGoal(ctx context.Context, newGoal *goal.Goal) (*goal.Goal, error) {
	newGoal.Normalize()
	if newGoal.Color == "" {
		newGoal.Color = goal.DefaultColor
	}
	if problems := newGoal.Validate(); len(problems) > 0 {
		return nil, NewValidationError(problems)
	}

	newGoal.ID = uuid.New()
	if err := s.goals.Create(ctx, newGoal); err != nil {
		return nil, fmt.Errorf("создание цели: %w", err)
	}

	logger.Info("Service: Цель создана", zap.String("goal_id", newGoal.ID.String()))
	return newGoal, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, id uuid.UUID, options ...goal.Option) (*goal.Goal, error) {
	found, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	found.Apply(options...)
	found.Normalize()
	if problems := found.Validate(); len(problems) > 0 {
		return nil, NewValidationError(problems)
	}

	if err := s.goals.Update(ctx, found); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(ResourceGoal, id.String())
		}
		return nil, fmt.Errorf("обновление цели: %w", err)
	}
	return found, nil
}

// DeleteGoal удаляет цель вместе со всеми её задачами
func (s *GoalService) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetGoal(ctx, id); err != nil {
		return err
	}

	removed, err := s.tasks.DeleteByGoal(ctx, id)
	if err != nil {
		return fmt.Errorf("удаление задач цели: %w", err)
	}

	if err := s.goals.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(ResourceGoal, id.String())
		}
		return fmt.Errorf("удаление цели: %w", err)
	}

	logger.Info("Service: Цель удалена",
		zap.String("goal_id", id.String()),
		zap.Int("tasks_removed", removed))
	return nil
}
