package handlers

import (
	"net/http"
	"time"

	"calendarApp/internal/calendar"
	"calendarApp/internal/handlers/dto"
	"calendarApp/internal/logger"
	"calendarApp/internal/models/event"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

const icsProductID = "-//calendarApp//Calendar Export//EN"

// CalendarHandler отдаёт сетку слотов с разложенными событиями и экспорт в iCalendar
type CalendarHandler struct {
	base
	EventService EventService
	weekStart    time.Weekday
}

func NewCalendarHandler(eventService EventService, weekStart time.Weekday, development bool) *CalendarHandler {
	return &CalendarHandler{
		base:         base{development: development},
		EventService: eventService,
		weekStart:    weekStart,
	}
}

// Grid GET /calendar?view=week&date=2024-06-03&q=standup
func (h *CalendarHandler) Grid(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query := r.URL.Query()

	viewParam := query.Get("view")
	if viewParam == "" {
		viewParam = string(calendar.ViewWeek)
	}
	view, err := calendar.ParseView(viewParam)
	if err != nil {
		responseWithErrors(w, http.StatusBadRequest, []string{"view must be one of day, week, month, year"})
		return
	}

	anchor := time.Now().UTC()
	if raw := query.Get("date"); raw != "" {
		anchor, err = dto.ParseTime(raw)
		if err != nil {
			responseWithErrors(w, http.StatusBadRequest, []string{"Invalid date: " + err.Error()})
			return
		}
	}

	grid, err := calendar.NewGrid(view, anchor, calendar.WeekStart(h.weekStart))
	if err != nil {
		h.fail(w, err, "Failed to build calendar grid")
		return
	}

	rng := grid.Range()
	events, err := h.EventService.ListEvents(r.Context(), &rng)
	if err != nil {
		h.fail(w, err, "Failed to fetch events")
		return
	}
	events = calendar.Search(events, query.Get("q"))
	assigned := grid.Assign(events)

	response := dto.CalendarResponse{
		View:   string(grid.View),
		Anchor: grid.Anchor.Format("2006-01-02"),
		From:   grid.From.Format("2006-01-02"),
		To:     grid.To.Format("2006-01-02"),
		Slots:  make([]dto.SlotResponse, 0, len(grid.Slots)),
	}
	for _, slot := range grid.Slots {
		inSlot := assigned[slot.ID]
		if inSlot == nil {
			inSlot = []*event.Event{}
		}
		response.Count += len(inSlot)
		response.Slots = append(response.Slots, dto.SlotResponse{
			ID:      slot.ID,
			Start:   slot.Start,
			Hour:    slot.Ref.Hour,
			Minute:  slot.Ref.Minute,
			Align:   slot.Align.String(),
			InRange: slot.InRange,
			Events:  inSlot,
		})
	}

	logger.Info("HTTP_OUT: Сетка календаря построена",
		zap.String("view", string(view)),
		zap.Int("slots", len(response.Slots)),
		zap.Int("events", response.Count),
		zap.Duration("ms", time.Since(start)))

	responseWithData(w, http.StatusOK, response)
}

// ExportICS GET /events/export.ics с тем же фильтром дат, что и список событий
func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	rng, ok := parseRange(w, r)
	if !ok {
		return
	}

	events, err := h.EventService.ListEvents(r.Context(), rng)
	if err != nil {
		h.fail(w, err, "Failed to fetch events")
		return
	}

	body := BuildICS(events)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Error("HTTP: Ошибка записи календаря", err)
		return
	}

	logger.Info("HTTP_OUT: Календарь экспортирован", zap.Int("events", len(events)))
}

func BuildICS(events []*event.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	stamp := time.Now().UTC()
	for _, e := range events {
		vevent := cal.AddEvent(e.ID.String() + "@calendarApp")
		vevent.SetDtStampTime(stamp)
		vevent.SetCreatedTime(e.CreatedAt)
		if e.UpdatedAt != nil {
			vevent.SetModifiedAt(*e.UpdatedAt)
		}
		vevent.SetStartAt(e.StartTime)
		vevent.SetEndAt(e.EndTime)
		vevent.SetSummary(e.Title)
		vevent.AddProperty(ical.ComponentPropertyCategories, string(e.Category))
	}

	return cal.Serialize()
}
