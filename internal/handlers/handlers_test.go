package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"calendarApp/internal/handlers"
	"calendarApp/internal/models/event"
	"calendarApp/internal/repository/inmemory"
	"calendarApp/internal/service"

	ical "github.com/arran4/golang-ical"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventService - мок сервиса событий
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventService) ListEvents(ctx context.Context, r *event.Range) ([]*event.Event, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) CreateEvent(ctx context.Context, e *event.Event) (*event.Event, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, id uuid.UUID, options ...event.Option) (*event.Event, error) {
	args := m.Called(ctx, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.EventService = (*MockEventService)(nil)

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// withID симуляция параметра пути chi
func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sampleEvent() *event.Event {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	return &event.Event{
		ID:        uuid.New(),
		Title:     "Standup",
		Category:  event.CategoryWork,
		Date:      event.DayOf(start),
		StartTime: start,
		EndTime:   start.Add(15 * time.Minute),
		CreatedAt: start.Add(-time.Hour),
	}
}

// TestEventHandler_GetEvent тестирует получение события по ID
func TestEventHandler_GetEvent(t *testing.T) {
	ev := sampleEvent()

	tests := []struct {
		name           string
		eventID        string
		setupMock      func(*MockEventService)
		expectedStatus int
	}{
		{
			name:    "success - get event",
			eventID: ev.ID.String(),
			setupMock: func(m *MockEventService) {
				m.On("GetEvent", mock.Anything, ev.ID).Return(ev, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid UUID",
			eventID:        "invalid-uuid",
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "error - event not found",
			eventID: ev.ID.String(),
			setupMock: func(m *MockEventService) {
				m.On("GetEvent", mock.Anything, ev.ID).
					Return(nil, service.NewNotFound(service.ResourceEvent, ev.ID.String()))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:    "error - service error",
			eventID: ev.ID.String(),
			setupMock: func(m *MockEventService) {
				m.On("GetEvent", mock.Anything, ev.ID).Return(nil, errors.New("internal error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockEventService)
			tt.setupMock(mockService)

			handler := handlers.NewEventHandler(mockService, false)

			req := withID(httptest.NewRequest(http.MethodGet, "/events/"+tt.eventID, nil), tt.eventID)
			w := httptest.NewRecorder()

			handler.GetEvent(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, env.Success)
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.NotContains(t, string(env.Error), "internal error")
			}

			mockService.AssertExpectations(t)
		})
	}
}

// TestEventHandler_CreateEvent тестирует создание события
func TestEventHandler_CreateEvent(t *testing.T) {
	created := sampleEvent()

	tests := []struct {
		name           string
		body           string
		contentType    string
		setupMock      func(*MockEventService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "success - local time layout",
			body:        `{"title":"Standup","category":"work","date":"2024-06-03","startTime":"2024-06-03T09:00","endTime":"2024-06-03T09:15"}`,
			contentType: "application/json",
			setupMock: func(m *MockEventService) {
				m.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *event.Event) bool {
					return e.Title == "Standup" &&
						e.StartTime.Equal(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)) &&
						e.EndTime.Equal(time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC))
				})).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "success - RFC3339 with charset",
			body:        `{"title":"Standup","date":"2024-06-03T00:00:00Z","startTime":"2024-06-03T11:00:00+02:00","endTime":"2024-06-03T11:15:00+02:00"}`,
			contentType: "application/json; charset=utf-8",
			setupMock: func(m *MockEventService) {
				m.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *event.Event) bool {
					return e.StartTime.Equal(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
				})).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "error - validation",
			body:        `{"title":"","startTime":"2024-06-03T09:00","endTime":"2024-06-03T09:00"}`,
			contentType: "application/json",
			setupMock: func(m *MockEventService) {
				m.On("CreateEvent", mock.Anything, mock.Anything).
					Return(nil, service.NewValidationError([]string{"Title is required", "End time must be after start time"}))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  `["Title is required","End time must be after start time"]`,
		},
		{
			name:           "error - wrong content type",
			body:           `{"title":"Standup"}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			body:           `{"title":`,
			contentType:    "application/json",
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - unsupported time format",
			body:           `{"title":"Standup","startTime":"03/06/2024 09:00"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockEventService)
			tt.setupMock(mockService)

			handler := handlers.NewEventHandler(mockService, false)

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			handler.CreateEvent(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			if tt.expectedError != "" {
				assert.False(t, env.Success)
				assert.JSONEq(t, tt.expectedError, string(env.Error))
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestEventHandler_ListEvents_Range(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockEventService)
		expectedStatus int
	}{
		{
			name:  "no range",
			query: "",
			setupMock: func(m *MockEventService) {
				m.On("ListEvents", mock.Anything, (*event.Range)(nil)).Return([]*event.Event{sampleEvent()}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "both bounds",
			query: "?startDate=2024-06-03&endDate=2024-06-03",
			setupMock: func(m *MockEventService) {
				m.On("ListEvents", mock.Anything, &event.Range{From: day, To: day}).Return([]*event.Event{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "only start",
			query:          "?startDate=2024-06-03",
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad end",
			query:          "?startDate=2024-06-03&endDate=tomorrow",
			setupMock:      func(m *MockEventService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockEventService)
			tt.setupMock(mockService)

			handler := handlers.NewEventHandler(mockService, false)
			w := httptest.NewRecorder()
			handler.ListEvents(w, httptest.NewRequest(http.MethodGet, "/events"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				env := decodeEnvelope(t, w)
				require.NotNil(t, env.Count)
				assert.True(t, env.Success)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestEventHandler_HealthCheck(t *testing.T) {
	mockService := new(MockEventService)
	mockService.On("HealthCheck", mock.Anything).Return(errors.New("down")).Once()
	mockService.On("HealthCheck", mock.Anything).Return(nil).Once()

	handler := handlers.NewEventHandler(mockService, false)

	w := httptest.NewRecorder()
	handler.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	handler.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFail_DevelopmentDetail(t *testing.T) {
	ev := sampleEvent()
	mockService := new(MockEventService)
	mockService.On("GetEvent", mock.Anything, ev.ID).Return(nil, errors.New("pool exhausted"))

	handler := handlers.NewEventHandler(mockService, true)
	w := httptest.NewRecorder()
	handler.GetEvent(w, withID(httptest.NewRequest(http.MethodGet, "/", nil), ev.ID.String()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "pool exhausted")
}

// newRouter полный набор обработчиков поверх хранилищ в памяти
func newRouter() http.Handler {
	events := inmemory.NewEventStorage()
	goals := inmemory.NewGoalStorage()
	tasks := inmemory.NewTaskStorage()

	eventService := service.NewEventService(events)

	set := handlers.Set{
		Events:   handlers.NewEventHandler(eventService, false),
		Goals:    handlers.NewGoalHandler(service.NewGoalService(goals, tasks), false),
		Tasks:    handlers.NewTaskHandler(service.NewTaskService(tasks, goals), false),
		Calendar: handlers.NewCalendarHandler(eventService, time.Sunday, false),
	}

	r := chi.NewRouter()
	r.Route("/api", set.Mount)
	return r
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		return w, decodeEnvelope(t, w)
	}
	return w, envelope{}
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	return body.ID
}

func TestRouter_EventLifecycle(t *testing.T) {
	r := newRouter()

	w, env := do(t, r, jsonRequest(http.MethodPost, "/api/events",
		`{"title":"Standup","category":"work","date":"2024-06-03","startTime":"2024-06-03T09:00","endTime":"2024-06-03T09:15"}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := dataID(t, env)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/events?startDate=2024-06-03&endDate=2024-06-03", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	w, env = do(t, r, jsonRequest(http.MethodPut, "/api/events/"+id,
		`{"date":"2024-06-05","startTime":"2024-06-05T14:30","endTime":"2024-06-05T14:45"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var moved event.Event
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	assert.Equal(t, "Standup", moved.Title)
	assert.Equal(t, 15*time.Minute, moved.Duration())

	w, _ = do(t, r, jsonRequest(http.MethodPut, "/api/events/"+id, `{"endTime":"2024-06-05T14:00"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/calendar?view=week&date=2024-06-05", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var grid struct {
		Count int `json:"count"`
		Slots []struct {
			ID     string            `json:"id"`
			Events []json.RawMessage `json:"events"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &grid))
	assert.Len(t, grid.Slots, 672)
	assert.Equal(t, 1, grid.Count)
	for _, slot := range grid.Slots {
		if len(slot.Events) > 0 {
			assert.Equal(t, "week/2024-06-05/14:30", slot.ID)
		}
	}

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/events/export.ics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	cal, err := ical.ParseCalendar(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	assert.Equal(t, "Standup", cal.Events()[0].GetProperty(ical.ComponentPropertySummary).Value)

	w, env = do(t, r, httptest.NewRequest(http.MethodDelete, "/api/events/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, string(env.Data))

	w, env = do(t, r, httptest.NewRequest(http.MethodDelete, "/api/events/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `"Event not found"`, string(env.Error))
}

// удаление цели удаляет её задачи и только их
func TestRouter_GoalCascade(t *testing.T) {
	r := newRouter()

	w, env := do(t, r, jsonRequest(http.MethodPost, "/api/goals", `{"title":"Fitness"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	fitness := dataID(t, env)

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/goals", `{"title":"Reading","color":"#10B981"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	reading := dataID(t, env)

	for _, title := range []string{"Run", "Stretch"} {
		w, _ = do(t, r, jsonRequest(http.MethodPost, "/api/tasks", `{"title":"`+title+`","goalId":"`+fitness+`"}`))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/tasks", `{"title":"Novel","goalId":"`+reading+`","priority":"high"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	novel := dataID(t, env)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/goals/"+fitness+"/tasks", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, *env.Count)

	w, _ = do(t, r, httptest.NewRequest(http.MethodDelete, "/api/goals/"+fitness, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Count)
	assert.Contains(t, string(env.Data), novel)

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/tasks", `{"title":"Orphan","goalId":"`+fitness+`"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `"Goal not found"`, string(env.Error))
}

func TestRouter_TaskToggleAndFilters(t *testing.T) {
	r := newRouter()

	_, env := do(t, r, jsonRequest(http.MethodPost, "/api/goals", `{"title":"Fitness"}`))
	goalID := dataID(t, env)

	_, env = do(t, r, jsonRequest(http.MethodPost, "/api/tasks", `{"title":"Run","goalId":"`+goalID+`","dueDate":"2024-06-10"}`))
	taskID := dataID(t, env)

	w, env := do(t, r, httptest.NewRequest(http.MethodPatch, "/api/tasks/"+taskID+"/toggle", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"completed":true`)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/tasks?completed=true&goalId="+goalID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Count)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/tasks?completed=false", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/tasks?completed=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, jsonRequest(http.MethodPut, "/api/tasks/"+taskID, `{"priority":"urgent"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, "[\"`urgent` is not a valid priority\"]", string(env.Error))

	w, _ = do(t, r, httptest.NewRequest(http.MethodPatch, "/api/tasks/"+uuid.NewString()+"/toggle", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
