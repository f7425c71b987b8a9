package calendar

import (
	"strings"

	"calendarApp/internal/models/event"
)

const searchTimeLayout = "2006-01-02 15:04"

// Search фильтр по подстроке без учёта регистра: title, category и начало события.
// Пустой запрос возвращает все события.
func Search(events []*event.Event, term string) []*event.Event {
	if strings.TrimSpace(term) == "" {
		return events
	}

	needle := strings.ToLower(term)
	filtered := []*event.Event{}
	for _, e := range events {
		if matchesTerm(e, needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func matchesTerm(e *event.Event, needle string) bool {
	return strings.Contains(strings.ToLower(e.Title), needle) ||
		strings.Contains(strings.ToLower(string(e.Category)), needle) ||
		strings.Contains(e.StartTime.UTC().Format(searchTimeLayout), needle)
}
