package calendar

import (
	"calendarApp/internal/models/event"
)

// Matches событие попадает в слот только по точному началу:
// день и час:минута для day/week, день для month, месяц для year.
// Длительность на раскладку не влияет.
func (r SlotRef) Matches(e *event.Event) bool {
	day := event.DayOf(e.Date)
	switch r.View {
	case ViewDay, ViewWeek:
		start := e.StartTime.UTC()
		return day.Equal(r.Date) && start.Hour() == r.Hour && start.Minute() == r.Minute
	case ViewMonth:
		return day.Equal(r.Date)
	case ViewYear:
		return day.Year() == r.Date.Year() && day.Month() == r.Date.Month()
	default:
		return false
	}
}

func EventsInSlot(events []*event.Event, slot SlotRef) []*event.Event {
	var matched []*event.Event
	for _, e := range events {
		if slot.Matches(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Assign раскладывает события по слотам сетки, ключ - идентификатор слота.
// События вне сетки и события, начало которых не совпадает с границей слота, пропускаются.
func (g *Grid) Assign(events []*event.Event) map[string][]*event.Event {
	assigned := make(map[string][]*event.Event)
	for _, e := range events {
		ref := slotFor(g.View, e)
		if _, ok := g.index[ref.ID()]; !ok {
			continue
		}
		assigned[ref.ID()] = append(assigned[ref.ID()], e)
	}
	return assigned
}

func slotFor(view View, e *event.Event) SlotRef {
	day := event.DayOf(e.Date)
	if !view.Timed() {
		return NewSlotRef(view, day)
	}
	start := e.StartTime.UTC()
	return SlotRef{View: view, Date: day, Hour: start.Hour(), Minute: start.Minute()}
}
