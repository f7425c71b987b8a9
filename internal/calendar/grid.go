package calendar

import (
	"time"

	"calendarApp/internal/models/event"
)

const (
	SlotMinutes  = 15
	slotsPerDay  = 24 * 60 / SlotMinutes
	monthCells   = 42
	monthsInYear = 12
)

type Slot struct {
	Ref     SlotRef
	Start   time.Time
	ID      string
	Align   Alignment
	InRange bool
}

type Grid struct {
	View   View
	Anchor time.Time
	Slots  []Slot

	// дни, покрытые сеткой, включительно
	From time.Time
	To   time.Time

	index map[string]int
}

type gridConfig struct {
	weekStart time.Weekday
}

type GridOption func(*gridConfig)

// WeekStart первый день недели для week и month; по умолчанию воскресенье
func WeekStart(day time.Weekday) GridOption {
	return func(cfg *gridConfig) {
		cfg.weekStart = day
	}
}

func NewGrid(view View, anchor time.Time, opts ...GridOption) (*Grid, error) {
	cfg := gridConfig{weekStart: time.Sunday}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	day := event.DayOf(anchor)
	g := &Grid{View: view, Anchor: day}

	switch view {
	case ViewDay:
		g.From, g.To = day, day
		g.addDay(day)
	case ViewWeek:
		g.From = startOfWeek(day, cfg.weekStart)
		g.To = g.From.AddDate(0, 0, 6)
		for i := 0; i < 7; i++ {
			g.addDay(g.From.AddDate(0, 0, i))
		}
	case ViewMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		g.From = startOfWeek(first, cfg.weekStart)
		g.To = g.From.AddDate(0, 0, monthCells-1)
		for i := 0; i < monthCells; i++ {
			cell := g.From.AddDate(0, 0, i)
			g.add(SlotRef{View: ViewMonth, Date: cell}, cell.Month() == first.Month())
		}
	case ViewYear:
		g.From = time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		g.To = time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		for m := 0; m < monthsInYear; m++ {
			g.add(SlotRef{View: ViewYear, Date: g.From.AddDate(0, m, 0)}, true)
		}
	default:
		return nil, ErrUnknownView
	}

	return g, nil
}

func (g *Grid) addDay(day time.Time) {
	for i := 0; i < slotsPerDay; i++ {
		minutes := i * SlotMinutes
		g.add(SlotRef{View: g.View, Date: day, Hour: minutes / 60, Minute: minutes % 60}, true)
	}
}

func (g *Grid) add(ref SlotRef, inRange bool) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	align := AlignNone
	if ref.View.Timed() {
		align = alignmentOf(ref.Minute)
	}
	slot := Slot{Ref: ref, Start: ref.Start(), ID: ref.ID(), Align: align, InRange: inRange}
	g.index[slot.ID] = len(g.Slots)
	g.Slots = append(g.Slots, slot)
}

// Range диапазон дней для выборки событий под сетку
func (g *Grid) Range() event.Range {
	return event.Range{From: g.From, To: g.To}
}

func (g *Grid) Lookup(id string) (Slot, bool) {
	i, ok := g.index[id]
	if !ok {
		return Slot{}, false
	}
	return g.Slots[i], true
}

func startOfWeek(day time.Time, weekStart time.Weekday) time.Time {
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
