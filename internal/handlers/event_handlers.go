package handlers

import (
	"net/http"
	"time"

	"calendarApp/internal/handlers/dto"
	"calendarApp/internal/logger"
	"calendarApp/internal/models/event"

	"go.uber.org/zap"
)

type EventHandler struct {
	base
	EventService EventService
}

func NewEventHandler(eventService EventService, development bool) *EventHandler {
	return &EventHandler{
		base:         base{development: development},
		EventService: eventService,
	}
}

// parseRange читает startDate и endDate; если задана одна граница, нужны обе
func parseRange(w http.ResponseWriter, r *http.Request) (*event.Range, bool) {
	startParam := r.URL.Query().Get("startDate")
	endParam := r.URL.Query().Get("endDate")
	if startParam == "" && endParam == "" {
		return nil, true
	}

	if startParam == "" || endParam == "" {
		logger.Warn("HTTP: Неполный диапазон дат",
			zap.String("startDate", startParam),
			zap.String("endDate", endParam),
			zap.String("client_ip", r.RemoteAddr))
		responseWithErrors(w, http.StatusBadRequest, []string{"Both startDate and endDate are required"})
		return nil, false
	}

	from, err := dto.ParseTime(startParam)
	if err != nil {
		responseWithErrors(w, http.StatusBadRequest, []string{"Invalid startDate: " + err.Error()})
		return nil, false
	}
	to, err := dto.ParseTime(endParam)
	if err != nil {
		responseWithErrors(w, http.StatusBadRequest, []string{"Invalid endDate: " + err.Error()})
		return nil, false
	}

	return &event.Range{From: event.DayOf(from), To: event.DayOf(to)}, true
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
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

	logger.Info("HTTP_OUT: События получены",
		zap.Int("count", len(events)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithList(w, events)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "event")
	if !ok {
		return
	}

	found, err := h.EventService.GetEvent(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to fetch event")
		return
	}

	responseWithData(w, http.StatusOK, found)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateEventRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	logger.Info("HTTP: Вызов сервиса создания события")
	created, err := h.EventService.CreateEvent(r.Context(), request.ToEvent())
	if err != nil {
		h.fail(w, err, "Failed to create event")
		return
	}

	logger.Info("HTTP_OUT: Событие создано",
		zap.String("event_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithData(w, http.StatusCreated, created)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "event")
	if !ok {
		return
	}

	var request dto.UpdateEventRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.EventService.UpdateEvent(r.Context(), id, request.Options()...)
	if err != nil {
		h.fail(w, err, "Failed to update event")
		return
	}

	logger.Info("HTTP_OUT: Событие обновлено",
		zap.String("event_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, updated)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "event")
	if !ok {
		return
	}

	if err := h.EventService.DeleteEvent(r.Context(), id); err != nil {
		h.fail(w, err, "Failed to delete event")
		return
	}

	logger.Info("HTTP_OUT: Событие удалено", zap.String("event_id", id.String()))
	responseWithData(w, http.StatusOK, struct{}{})
}

func (h *EventHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.EventService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithError(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}
	responseWithData(w, http.StatusOK, map[string]string{"status": "ok"})
}
