package event

import (
	"time"

	"github.com/google/uuid"
)

type Option func(*Event)

func WithTitle(title string) Option {
	return func(e *Event) {
		e.Title = title
	}
}

func WithCategory(category Category) Option {
	return func(e *Event) {
		e.Category = category
	}
}

func WithDate(date time.Time) Option {
	return func(e *Event) {
		e.Date = date
	}
}

func WithStartTime(start time.Time) Option {
	return func(e *Event) {
		e.StartTime = start
	}
}

func WithEndTime(end time.Time) Option {
	return func(e *Event) {
		e.EndTime = end
	}
}

func WithTaskID(id uuid.UUID) Option {
	return func(e *Event) {
		e.TaskID = &id
	}
}

func (e *Event) Apply(options ...Option) {
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
}
