package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	GoalID    uuid.UUID  `json:"goalId" db:"goal_id"`
	Completed bool       `json:"completed" db:"completed"`
	DueDate   *time.Time `json:"dueDate" db:"due_date"`
	Priority  Priority   `json:"priority" db:"priority"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

type Priority string

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

const DefaultPriority = PriorityMedium

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
}

func (t *Task) Validate() []string {
	var problems []string
	if t.Title == "" {
		problems = append(problems, "Task title is required")
	}
	if t.GoalID == uuid.Nil {
		problems = append(problems, "Task must be associated with a goal")
	}
	if !t.Priority.Valid() {
		problems = append(problems, fmt.Sprintf("`%s` is not a valid priority", t.Priority))
	}
	return problems
}

// Filter параметры выборки задач; nil - без ограничения
type Filter struct {
	Completed *bool
	GoalID    *uuid.UUID
}

func (f Filter) Match(t *Task) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.GoalID != nil && t.GoalID != *f.GoalID {
		return false
	}
	return true
}
