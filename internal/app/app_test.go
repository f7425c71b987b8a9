package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"calendarApp/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: time.Second,
		},
		API:        config.APIConfig{Prefix: "/api"},
		CORS:       config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit:  config.RateLimitConfig{RPM: 1000},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		Calendar:   config.CalendarConfig{WeekStart: "monday"},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(testConfig()).Init(context.Background())
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func TestApp_HealthOutsidePrefix(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_PrefixedRoutes(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(`{"title":"Fitness"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/goals", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Count)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

// неделя начинается с настроенного дня
func TestApp_CalendarWeekStart(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar?view=week&date=2024-06-05", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2024-06-03", body.Data.From)
	assert.Equal(t, "2024-06-09", body.Data.To)
}

func TestApp_CORSPreflight(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "127.0.0.1"
	a, err := New(cfg).Init(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
