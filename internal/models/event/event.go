package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	Category  Category   `json:"category" db:"category"`
	Date      time.Time  `json:"date" db:"date"`
	StartTime time.Time  `json:"startTime" db:"start_time"`
	EndTime   time.Time  `json:"endTime" db:"end_time"`
	TaskID    *uuid.UUID `json:"taskId,omitempty" db:"task_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

type Category string

const (
	CategoryExercise Category = "exercise"
	CategoryEating   Category = "eating"
	CategoryWork     Category = "work"
	CategoryRelax    Category = "relax"
	CategoryFamily   Category = "family"
	CategorySocial   Category = "social"
)

const DefaultCategory = CategoryWork

var categories = []Category{
	CategoryExercise,
	CategoryEating,
	CategoryWork,
	CategoryRelax,
	CategoryFamily,
	CategorySocial,
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func categoryList() string {
	names := make([]string, 0, len(categories))
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Duration длительность события; может быть отрицательной у невалидного события
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// Normalize приводит поля к хранимому виду: обрезает title, ставит категорию по умолчанию
// и отбрасывает время суток у date
func (e *Event) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	if e.Category == "" {
		e.Category = DefaultCategory
	}
	if !e.Date.IsZero() {
		e.Date = DayOf(e.Date)
	}
}

// Validate возвращает все нарушенные правила, пустой срез - событие валидно
func (e *Event) Validate() []string {
	var problems []string

	if e.Title == "" {
		problems = append(problems, "Title is required")
	}
	if e.Category == "" {
		problems = append(problems, "Category is required")
	} else if !e.Category.Valid() {
		problems = append(problems, fmt.Sprintf("`%s` is not a valid category, expected one of: %s",
			e.Category, categoryList()))
	}
	if e.Date.IsZero() {
		problems = append(problems, "Date is required")
	}
	if e.StartTime.IsZero() {
		problems = append(problems, "Start time is required")
	}
	if e.EndTime.IsZero() {
		problems = append(problems, "End time is required")
	}
	if !e.StartTime.IsZero() && !e.EndTime.IsZero() && !e.EndTime.After(e.StartTime) {
		problems = append(problems, "End time must be after start time")
	}

	return problems
}

// DayOf календарный день момента t как полночь UTC
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Range фильтр по полю date, обе границы включительно
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Contains(day time.Time) bool {
	return !day.Before(r.From) && !day.After(r.To)
}
