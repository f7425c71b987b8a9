package handlers

import (
	"context"

	"calendarApp/internal/models/event"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"

	"github.com/google/uuid"
)

type EventService interface {
	HealthCheck(context.Context) error
	ListEvents(context.Context, *event.Range) ([]*event.Event, error)
	GetEvent(context.Context, uuid.UUID) (*event.Event, error)
	CreateEvent(context.Context, *event.Event) (*event.Event, error)
	UpdateEvent(context.Context, uuid.UUID, ...event.Option) (*event.Event, error)
	DeleteEvent(context.Context, uuid.UUID) error
}

type GoalService interface {
	ListGoals(context.Context) ([]*goal.Goal, error)
	GetGoal(context.Context, uuid.UUID) (*goal.Goal, error)
	GoalTasks(context.Context, uuid.UUID) ([]*task.Task, error)
	CreateGoal(context.Context, *goal.Goal) (*goal.Goal, error)
	UpdateGoal(context.Context, uuid.UUID, ...goal.Option) (*goal.Goal, error)
	DeleteGoal(context.Context, uuid.UUID) error
}

type TaskService interface {
	ListTasks(context.Context, task.Filter) ([]*task.Task, error)
	GetTask(context.Context, uuid.UUID) (*task.Task, error)
	CreateTask(context.Context, *task.Task) (*task.Task, error)
	UpdateTask(context.Context, uuid.UUID, ...task.TaskOption) (*task.Task, error)
	ToggleTask(context.Context, uuid.UUID) (*task.Task, error)
	DeleteTask(context.Context, uuid.UUID) error
}
