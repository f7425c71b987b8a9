package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"calendarApp/internal/calendar"
	"calendarApp/internal/client"
	"calendarApp/internal/handlers"
	"calendarApp/internal/handlers/dto"
	"calendarApp/internal/models/event"
	"calendarApp/internal/models/task"
	"calendarApp/internal/repository/inmemory"
	"calendarApp/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer API поверх хранилищ в памяти; down обрывает соединения
type testServer struct {
	*httptest.Server
	down atomic.Bool

	mtx   sync.Mutex
	calls []string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

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
	r.Get("/health", set.Events.HealthCheck)
	r.Route("/api", set.Mount)

	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if ts.down.Load() {
			panic(http.ErrAbortHandler)
		}
		ts.mtx.Lock()
		ts.calls = append(ts.calls, req.Method+" "+req.URL.Path)
		ts.mtx.Unlock()
		r.ServeHTTP(w, req)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) resetCalls() {
	ts.mtx.Lock()
	defer ts.mtx.Unlock()
	ts.calls = nil
}

func (ts *testServer) Calls() []string {
	ts.mtx.Lock()
	defer ts.mtx.Unlock()
	return append([]string(nil), ts.calls...)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, time.UTC)
}

func flex(t time.Time) *dto.FlexTime {
	return &dto.FlexTime{Time: t}
}

func eventRequest(title string, start time.Time, d time.Duration) dto.CreateEventRequest {
	return dto.CreateEventRequest{
		Title:     title,
		Category:  event.CategoryWork,
		Date:      flex(event.DayOf(start)),
		StartTime: flex(start),
		EndTime:   flex(start.Add(d)),
	}
}

func TestClient_Endpoints(t *testing.T) {
	ts := newTestServer(t)
	c := client.New(ts.URL)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	fitness, err := c.CreateGoal(ctx, dto.CreateGoalRequest{Title: "Fitness", Color: "#10B981"})
	require.NoError(t, err)

	run, err := c.CreateTask(ctx, dto.CreateTaskRequest{Title: "Run", GoalID: fitness.ID, DueDate: flex(at(10, 0, 0))})
	require.NoError(t, err)
	assert.Equal(t, task.PriorityMedium, run.Priority)
	require.NotNil(t, run.DueDate)

	standup, err := c.CreateEvent(ctx, eventRequest("Standup", at(3, 9, 0), 15*time.Minute))
	require.NoError(t, err)

	events, err := c.ListEvents(ctx, &event.Range{From: at(3, 0, 0), To: at(3, 0, 0)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, standup.ID, events[0].ID)

	grid, err := c.Calendar(ctx, "day", at(3, 0, 0), "stand")
	require.NoError(t, err)
	assert.Len(t, grid.Slots, 96)
	assert.Equal(t, 1, grid.Count)

	ics, err := c.ExportICS(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, string(ics), "SUMMARY:Standup")

	title := "Daily standup"
	renamed, err := c.UpdateEvent(ctx, standup.ID, dto.UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, renamed.Title)
	assert.True(t, renamed.StartTime.Equal(at(3, 9, 0)))

	toggled, err := c.ToggleTask(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	completed := true
	done, err := c.ListTasks(ctx, task.Filter{Completed: &completed, GoalID: &fitness.ID})
	require.NoError(t, err)
	assert.Len(t, done, 1)

	goalTasks, err := c.GoalTasks(ctx, fitness.ID)
	require.NoError(t, err)
	assert.Len(t, goalTasks, 1)

	require.NoError(t, c.DeleteGoal(ctx, fitness.ID))
	_, err = c.GetTask(ctx, run.ID)
	assert.True(t, client.IsNotFound(err))

	require.NoError(t, c.DeleteEvent(ctx, standup.ID))
	err = c.DeleteEvent(ctx, standup.ID)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, []string{"Event not found"}, apiErr.Messages)
}

func TestClient_ValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	c := client.New(ts.URL)

	_, err := c.CreateEvent(context.Background(), eventRequest("", at(3, 9, 0), 0))

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.GreaterOrEqual(t, len(apiErr.Messages), 2)
	assert.False(t, errors.Is(err, client.ErrUnavailable))
}

func TestClient_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "connection aborted",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic(http.ErrAbortHandler)
			},
		},
		{
			name: "gateway error page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := client.New(srv.URL, client.WithTimeout(50*time.Millisecond))
			_, err := c.ListGoals(context.Background())
			assert.ErrorIs(t, err, client.ErrUnavailable)
		})
	}
}

// API недоступно: пустой список, success=true, состояние offline
func TestStore_UnreachableReturnsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := client.NewStore(client.New(url, client.WithTimeout(time.Second)))

	var states []client.State
	store.Subscribe(func(s client.State) { states = append(states, s) })

	result, err := store.Events(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Offline)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)

	assert.Equal(t, client.StateOffline, store.State())
	assert.Equal(t, []client.State{client.StateOffline}, states)

	goals, err := store.Goals(context.Background())
	require.NoError(t, err)
	assert.True(t, goals.Success)
	assert.Empty(t, goals.Data)

	// повторный переход в то же состояние не уведомляет
	assert.Len(t, states, 1)
}

func TestStore_CacheServesLastKnownData(t *testing.T) {
	ts := newTestServer(t)
	store := client.NewStore(client.New(ts.URL))
	ctx := context.Background()

	week := &event.Range{From: at(2, 0, 0), To: at(8, 0, 0)}

	_, err := store.CreateEvent(ctx, eventRequest("Standup", at(3, 9, 0), 15*time.Minute))
	require.NoError(t, err)

	online, err := store.Events(ctx, week)
	require.NoError(t, err)
	require.Len(t, online.Data, 1)
	assert.False(t, online.Offline)

	// запись после чтения попадает в кэш
	_, err = store.CreateEvent(ctx, eventRequest("Lunch", at(4, 12, 0), time.Hour))
	require.NoError(t, err)
	_, err = store.CreateEvent(ctx, eventRequest("Next week", at(12, 12, 0), time.Hour))
	require.NoError(t, err)

	ts.down.Store(true)

	offline, err := store.Events(ctx, week)
	require.NoError(t, err)
	assert.True(t, offline.Success)
	assert.True(t, offline.Offline)
	require.Len(t, offline.Data, 2)
	assert.Equal(t, "Standup", offline.Data[0].Title)
	assert.Equal(t, "Lunch", offline.Data[1].Title)
	assert.Equal(t, client.StateOffline, store.State())

	// записи без API не подделываются
	_, err = store.CreateEvent(ctx, eventRequest("Ghost", at(5, 9, 0), time.Hour))
	assert.ErrorIs(t, err, client.ErrUnavailable)

	again, err := store.Events(ctx, week)
	require.NoError(t, err)
	assert.Len(t, again.Data, 2)

	ts.down.Store(false)
	back, err := store.Events(ctx, week)
	require.NoError(t, err)
	assert.False(t, back.Offline)
	assert.Equal(t, client.StateOnline, store.State())
}

func TestStore_ApplyIssuesSinglePut(t *testing.T) {
	ts := newTestServer(t)
	store := client.NewStore(client.New(ts.URL))
	ctx := context.Background()

	created, err := store.CreateEvent(ctx, eventRequest("Standup", at(3, 9, 0), 15*time.Minute))
	require.NoError(t, err)

	controller := calendar.NewController(calendar.DefaultGeometry())
	require.NoError(t, controller.PressEvent(created, false))

	target, err := calendar.ParseSlotRef("week/2024-06-05/14:30")
	require.NoError(t, err)
	outcome := controller.Release(&target)
	require.NotNil(t, outcome.Update)

	ts.resetCalls()
	moved, err := store.Apply(ctx, *outcome.Update)
	require.NoError(t, err)

	assert.Equal(t, []string{"PUT /api/events/" + created.ID.String()}, ts.Calls())
	assert.True(t, moved.StartTime.Equal(at(5, 14, 30)))
	assert.True(t, moved.EndTime.Equal(at(5, 14, 45)))
	assert.Equal(t, "Standup", moved.Title)
}

func TestStore_ConfirmDraft(t *testing.T) {
	ts := newTestServer(t)
	store := client.NewStore(client.New(ts.URL))
	ctx := context.Background()

	fitness, err := store.CreateGoal(ctx, dto.CreateGoalRequest{Title: "Fitness", Color: "#10B981"})
	require.NoError(t, err)
	run, err := store.CreateTask(ctx, dto.CreateTaskRequest{Title: "Run", GoalID: fitness.ID})
	require.NoError(t, err)

	target, err := calendar.ParseSlotRef("week/2024-06-05/07:00")
	require.NoError(t, err)
	draft := calendar.NewDraft(run, fitness, target)

	ts.resetCalls()
	created, done, err := store.ConfirmDraft(ctx, draft)
	require.NoError(t, err)

	assert.Equal(t, []string{"POST /api/events", "PUT /api/tasks/" + run.ID.String()}, ts.Calls())
	assert.Equal(t, event.CategoryExercise, created.Category)
	require.NotNil(t, created.TaskID)
	assert.Equal(t, run.ID, *created.TaskID)
	assert.True(t, done.Completed)
}

func TestStore_ConfirmDraftFailureKeepsTaskOpen(t *testing.T) {
	ts := newTestServer(t)
	store := client.NewStore(client.New(ts.URL))
	ctx := context.Background()

	fitness, err := store.CreateGoal(ctx, dto.CreateGoalRequest{Title: "Fitness"})
	require.NoError(t, err)
	run, err := store.CreateTask(ctx, dto.CreateTaskRequest{Title: "Run", GoalID: fitness.ID})
	require.NoError(t, err)

	target, err := calendar.ParseSlotRef("week/2024-06-05/07:00")
	require.NoError(t, err)
	draft := calendar.NewDraft(run, fitness, target)
	draft.EndTime = draft.StartTime

	_, _, err = store.ConfirmDraft(ctx, draft)
	require.Error(t, err)

	open := false
	tasks, err := store.Tasks(ctx, task.Filter{Completed: &open})
	require.NoError(t, err)
	require.Len(t, tasks.Data, 1)
	assert.Equal(t, run.ID, tasks.Data[0].ID)
}

func TestStore_DeleteGoalDropsCachedTasks(t *testing.T) {
	ts := newTestServer(t)
	store := client.NewStore(client.New(ts.URL))
	ctx := context.Background()

	fitness, err := store.CreateGoal(ctx, dto.CreateGoalRequest{Title: "Fitness"})
	require.NoError(t, err)
	reading, err := store.CreateGoal(ctx, dto.CreateGoalRequest{Title: "Reading"})
	require.NoError(t, err)

	for _, title := range []string{"Run", "Stretch"} {
		_, err := store.CreateTask(ctx, dto.CreateTaskRequest{Title: title, GoalID: fitness.ID})
		require.NoError(t, err)
	}
	_, err = store.CreateTask(ctx, dto.CreateTaskRequest{Title: "Novel", GoalID: reading.ID})
	require.NoError(t, err)

	_, err = store.Goals(ctx)
	require.NoError(t, err)
	all, err := store.Tasks(ctx, task.Filter{})
	require.NoError(t, err)
	require.Len(t, all.Data, 3)

	require.NoError(t, store.DeleteGoal(ctx, fitness.ID))

	ts.down.Store(true)

	goals, err := store.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals.Data, 1)
	assert.Equal(t, "Reading", goals.Data[0].Title)

	tasks, err := store.Tasks(ctx, task.Filter{})
	require.NoError(t, err)
	require.Len(t, tasks.Data, 1)
	assert.True(t, strings.EqualFold("Novel", tasks.Data[0].Title))
}
