package goal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultColor синий из палитры целей
const DefaultColor = "#3B82F6"

type Goal struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Color     string     `json:"color" db:"color"`
	UserID    *uuid.UUID `json:"userId,omitempty" db:"user_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

func (g *Goal) Normalize() {
	g.Title = strings.TrimSpace(g.Title)
	g.Color = strings.TrimSpace(g.Color)
}

func (g *Goal) Validate() []string {
	var problems []string
	if g.Title == "" {
		problems = append(problems, "Goal title is required")
	}
	if g.Color == "" {
		problems = append(problems, "Goal color is required")
	}
	return problems
}

type Option func(*Goal)

func WithTitle(title string) Option {
	return func(g *Goal) {
		g.Title = title
	}
}

func WithColor(color string) Option {
	return func(g *Goal) {
		g.Color = color
	}
}

func (g *Goal) Apply(options ...Option) {
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
}
