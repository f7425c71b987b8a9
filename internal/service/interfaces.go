package service

import (
	"context"

	"calendarApp/internal/models/event"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"

	"github.com/google/uuid"
)

type EventRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *event.Event) error
	Update(context.Context, *event.Event) error
	GetByID(context.Context, uuid.UUID) (*event.Event, error)
	Delete(context.Context, uuid.UUID) error
	List(context.Context, *event.Range) ([]*event.Event, error)
}

type GoalRepository interface {
	Create(context.Context, *goal.Goal) error
	Update(context.Context, *goal.Goal) error
	GetByID(context.Context, uuid.UUID) (*goal.Goal, error)
	Delete(context.Context, uuid.UUID) error
	List(context.Context) ([]*goal.Goal, error)
}

type TaskRepository interface {
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Delete(context.Context, uuid.UUID) error
	DeleteByGoal(context.Context, uuid.UUID) (int, error)
	List(context.Context, task.Filter) ([]*task.Task, error)
}
