// Package calendar содержит модель календарной сетки: слоты, раскладку событий по слотам,
// геометрию отображения и контроллер жестов перетаскивания и растягивания.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownView = errors.New("неизвестный вид календаря")
	ErrInvalidSlot = errors.New("некорректный идентификатор слота")
)

type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
	ViewYear  View = "year"
)

func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewDay, ViewWeek, ViewMonth, ViewYear:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

// Timed виды с сеткой по 15 минут
func (v View) Timed() bool {
	return v == ViewDay || v == ViewWeek
}

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// SlotRef структурная ссылка на слот. Date всегда полночь UTC;
// для года - первое число месяца. Hour и Minute значимы только для day и week.
type SlotRef struct {
	View   View
	Date   time.Time
	Hour   int
	Minute int
}

func NewSlotRef(view View, t time.Time) SlotRef {
	t = t.UTC()
	ref := SlotRef{View: view, Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
	switch view {
	case ViewDay, ViewWeek:
		ref.Hour, ref.Minute = t.Hour(), t.Minute()
	case ViewYear:
		ref.Date = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return ref
}

// ID строковый идентификатор: day/2024-06-03/09:15, week/2024-06-03/09:15,
// month/2024-06-03, year/2024-06
func (r SlotRef) ID() string {
	switch r.View {
	case ViewDay, ViewWeek:
		return fmt.Sprintf("%s/%s/%02d:%02d", r.View, r.Date.Format(dayLayout), r.Hour, r.Minute)
	case ViewMonth:
		return fmt.Sprintf("%s/%s", r.View, r.Date.Format(dayLayout))
	case ViewYear:
		return fmt.Sprintf("%s/%s", r.View, r.Date.Format(monthLayout))
	default:
		return ""
	}
}

func (r SlotRef) String() string {
	return r.ID()
}

// Start момент начала слота
func (r SlotRef) Start() time.Time {
	if r.View.Timed() {
		return r.Date.Add(time.Duration(r.Hour)*time.Hour + time.Duration(r.Minute)*time.Minute)
	}
	return r.Date
}

// ParseSlotRef обратная к ID операция. Принимаются только канонические
// идентификаторы, поэтому ParseSlotRef(id).ID() == id.
func ParseSlotRef(id string) (SlotRef, error) {
	parts := strings.Split(id, "/")
	if len(parts) < 2 {
		return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
	}

	view, err := ParseView(parts[0])
	if err != nil {
		return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
	}

	var ref SlotRef
	switch view {
	case ViewDay, ViewWeek:
		if len(parts) != 3 {
			return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
		}
		date, err := time.ParseInLocation(dayLayout, parts[1], time.UTC)
		if err != nil {
			return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
		}
		clock, err := time.ParseInLocation("15:04", parts[2], time.UTC)
		if err != nil {
			return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
		}
		ref = SlotRef{View: view, Date: date, Hour: clock.Hour(), Minute: clock.Minute()}
	case ViewMonth:
		if len(parts) != 2 {
			return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
		}
		date, err := time.ParseInLocation(dayLayout, parts[1], time.UTC)
		if err != nil {
			return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
		}
		ref = SlotRef{View: view, Date: date}
	case ViewYear:
		if len(parts) != 2 {
			return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
		}
		date, err := time.ParseInLocation(monthLayout, parts[1], time.UTC)
		if err != nil {
			return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
		}
		ref = SlotRef{View: view, Date: date}
	}

	if ref.ID() != id {
		return SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
	}
	return ref, nil
}

type Alignment int

const (
	AlignNone Alignment = iota
	AlignQuarter
	AlignHalf
	AlignHour
)

func alignmentOf(minute int) Alignment {
	switch {
	case minute == 0:
		return AlignHour
	case minute == 30:
		return AlignHalf
	case minute%15 == 0:
		return AlignQuarter
	default:
		return AlignNone
	}
}

func (a Alignment) String() string {
	switch a {
	case AlignHour:
		return "hour"
	case AlignHalf:
		return "half"
	case AlignQuarter:
		return "quarter"
	default:
		return "none"
	}
}
