package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"calendarApp/internal/models/event"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"

	"github.com/google/uuid"
)

// форматы без зоны читаются как UTC
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format %q", value)
}

// FlexTime время из JSON в одном из timeLayouts; пустая строка - нулевое время
type FlexTime struct {
	time.Time
}

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		f.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		f.Time = time.Time{}
		return nil
	}

	t, err := ParseTime(raw)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time)
}

func timeOf(f *FlexTime) time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.Time
}

type CreateEventRequest struct {
	Title     string         `json:"title"`
	Category  event.Category `json:"category"`
	Date      *FlexTime      `json:"date"`
	StartTime *FlexTime      `json:"startTime"`
	EndTime   *FlexTime      `json:"endTime"`
	TaskID    *uuid.UUID     `json:"taskId,omitempty"`
}

func (r CreateEventRequest) ToEvent() *event.Event {
	return &event.Event{
		Title:     r.Title,
		Category:  r.Category,
		Date:      timeOf(r.Date),
		StartTime: timeOf(r.StartTime),
		EndTime:   timeOf(r.EndTime),
		TaskID:    r.TaskID,
	}
}

type UpdateEventRequest struct {
	Title     *string         `json:"title,omitempty"`
	Category  *event.Category `json:"category,omitempty"`
	Date      *FlexTime       `json:"date,omitempty"`
	StartTime *FlexTime       `json:"startTime,omitempty"`
	EndTime   *FlexTime       `json:"endTime,omitempty"`
	TaskID    *uuid.UUID      `json:"taskId,omitempty"`
}

func (r UpdateEventRequest) Options() []event.Option {
	var opts []event.Option
	if r.Title != nil {
		opts = append(opts, event.WithTitle(*r.Title))
	}
	if r.Category != nil {
		opts = append(opts, event.WithCategory(*r.Category))
	}
	if r.Date != nil {
		opts = append(opts, event.WithDate(r.Date.Time))
	}
	if r.StartTime != nil {
		opts = append(opts, event.WithStartTime(r.StartTime.Time))
	}
	if r.EndTime != nil {
		opts = append(opts, event.WithEndTime(r.EndTime.Time))
	}
	if r.TaskID != nil {
		opts = append(opts, event.WithTaskID(*r.TaskID))
	}
	return opts
}

type CreateGoalRequest struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

func (r CreateGoalRequest) ToGoal() *goal.Goal {
	return &goal.Goal{Title: r.Title, Color: r.Color}
}

type UpdateGoalRequest struct {
	Title *string `json:"title,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (r UpdateGoalRequest) Options() []goal.Option {
	var opts []goal.Option
	if r.Title != nil {
		opts = append(opts, goal.WithTitle(*r.Title))
	}
	if r.Color != nil {
		opts = append(opts, goal.WithColor(*r.Color))
	}
	return opts
}

type CreateTaskRequest struct {
	Title     string        `json:"title"`
	GoalID    uuid.UUID     `json:"goalId"`
	Completed bool          `json:"completed"`
	DueDate   *FlexTime     `json:"dueDate,omitempty"`
	Priority  task.Priority `json:"priority"`
}

func (r CreateTaskRequest) ToTask() *task.Task {
	t := &task.Task{
		Title:     r.Title,
		GoalID:    r.GoalID,
		Completed: r.Completed,
		Priority:  r.Priority,
	}
	if due := timeOf(r.DueDate); !due.IsZero() {
		t.DueDate = &due
	}
	return t
}

type UpdateTaskRequest struct {
	Title     *string        `json:"title,omitempty"`
	GoalID    *uuid.UUID     `json:"goalId,omitempty"`
	Completed *bool          `json:"completed,omitempty"`
	DueDate   *FlexTime      `json:"dueDate,omitempty"`
	Priority  *task.Priority `json:"priority,omitempty"`
}

func (r UpdateTaskRequest) Options() []task.TaskOption {
	var opts []task.TaskOption
	if r.Title != nil {
		opts = append(opts, task.WithTitle(*r.Title))
	}
	if r.GoalID != nil {
		opts = append(opts, task.WithGoalID(*r.GoalID))
	}
	if r.Completed != nil {
		opts = append(opts, task.WithCompleted(*r.Completed))
	}
	if r.DueDate != nil {
		opts = append(opts, task.WithDueDate(r.DueDate.Time))
	}
	if r.Priority != nil {
		opts = append(opts, task.WithPriority(*r.Priority))
	}
	return opts
}

type SlotResponse struct {
	ID      string         `json:"id"`
	Start   time.Time      `json:"start"`
	Hour    int            `json:"hour"`
	Minute  int            `json:"minute"`
	Align   string         `json:"align"`
	InRange bool           `json:"inRange"`
	Events  []*event.Event `json:"events"`
}

type CalendarResponse struct {
	View   string         `json:"view"`
	Anchor string         `json:"anchor"`
	From   string         `json:"from"`
	To     string         `json:"to"`
	Count  int            `json:"count"`
	Slots  []SlotResponse `json:"slots"`
}
