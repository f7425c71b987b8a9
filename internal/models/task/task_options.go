package task

import (
	"time"

	"github.com/google/uuid"
)

type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithGoalID(goalID uuid.UUID) TaskOption {
	return func(task *Task) {
		task.GoalID = goalID
	}
}

func WithCompleted(completed bool) TaskOption {
	return func(task *Task) {
		task.Completed = completed
	}
}

// WithDueDate нулевое время снимает дедлайн
func WithDueDate(dueDate time.Time) TaskOption {
	return func(task *Task) {
		if dueDate.IsZero() {
			task.DueDate = nil
			return
		}
		task.DueDate = &dueDate
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func (t *Task) Apply(options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}
