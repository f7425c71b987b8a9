package calendar

import (
	"strings"
	"time"

	"calendarApp/internal/models/event"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"

	"github.com/google/uuid"
)

const (
	DefaultDraftDuration = time.Hour
	draftHour            = 9
)

var colorCategories = map[string]event.Category{
	"#3B82F6": event.CategoryWork,
	"#10B981": event.CategoryExercise,
	"#EF4444": event.CategoryFamily,
	"#F59E0B": event.CategoryEating,
	"#8B5CF6": event.CategoryRelax,
	"#EC4899": event.CategorySocial,
}

// CategoryForColor категория события по цвету цели из палитры
func CategoryForColor(color string) event.Category {
	if category, ok := colorCategories[strings.ToUpper(strings.TrimSpace(color))]; ok {
		return category
	}
	return event.DefaultCategory
}

// EventDraft заготовка события из задачи. Пользователь подтверждает её,
// и только после создания события задача отмечается выполненной.
type EventDraft struct {
	Title     string
	Category  event.Category
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time
	TaskID    uuid.UUID
}

func NewDraft(t *task.Task, g *goal.Goal, target SlotRef) EventDraft {
	start := target.Start()
	if !target.View.Timed() {
		start = start.Add(draftHour * time.Hour)
	}

	color := goal.DefaultColor
	if g != nil {
		color = g.Color
	}

	return EventDraft{
		Title:     t.Title,
		Category:  CategoryForColor(color),
		Date:      event.DayOf(start),
		StartTime: start,
		EndTime:   start.Add(DefaultDraftDuration),
		TaskID:    t.ID,
	}
}

func (d EventDraft) Event() *event.Event {
	taskID := d.TaskID
	return &event.Event{
		Title:     d.Title,
		Category:  d.Category,
		Date:      d.Date,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		TaskID:    &taskID,
	}
}
