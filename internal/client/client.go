// Package client типизированный HTTP-клиент API календаря и кэширующее хранилище,
// которое отдаёт последние известные данные, пока API недоступно.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"calendarApp/internal/handlers/dto"
	"calendarApp/internal/logger"
	"calendarApp/internal/models/event"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultPrefix  = "/api"

	maxResponseBytes = 8 << 20
	dateLayout       = "2006-01-02"
)

// ErrUnavailable API не ответило: таймаут, отказ в соединении, DNS или шлюз без ответа
var ErrUnavailable = errors.New("api unavailable")

// APIError ответ API с success=false
type APIError struct {
	Status   int
	Messages []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, strings.Join(e.Messages, "; "))
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type Client struct {
	baseURL string
	prefix  string
	http    *http.Client
	timeout *time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout применяется к копии http.Client, переданный клиент не меняется
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = strings.TrimSuffix(prefix, "/")
	}
}

// New baseURL - адрес сервера без префикса API, например http://localhost:5000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		prefix:  DefaultPrefix,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeout != nil {
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}
	return c
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("кодирование запроса: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("Client: API недоступно",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

func decodeEnvelope(resp *http.Response, out any) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: чтение ответа: %v", ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// шлюз перед API отвечает не в формате конверта
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}
		return fmt.Errorf("разбор ответа (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(resp.StatusCode, env.Error)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("разбор данных ответа: %w", err)
		}
	}
	return nil
}

// newAPIError поле error бывает строкой или списком строк
func newAPIError(status int, raw json.RawMessage) *APIError {
	apiErr := &APIError{Status: status}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		apiErr.Messages = list
		return apiErr
	}

	var message string
	if err := json.Unmarshal(raw, &message); err == nil && message != "" {
		apiErr.Messages = []string{message}
		return apiErr
	}

	apiErr.Messages = []string{http.StatusText(status)}
	return apiErr
}

func (c *Client) api(path string) string {
	return c.prefix + path
}

func rangeQuery(r *event.Range) url.Values {
	if r == nil {
		return nil
	}
	return url.Values{
		"startDate": {r.From.Format(dateLayout)},
		"endDate":   {r.To.Format(dateLayout)},
	}
}

// Health GET /health вне префикса API
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) ListEvents(ctx context.Context, r *event.Range) ([]*event.Event, error) {
	var events []*event.Event
	if err := c.do(ctx, http.MethodGet, c.api("/events"), rangeQuery(r), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	var found event.Event
	if err := c.do(ctx, http.MethodGet, c.api("/events/"+id.String()), nil, nil, &found); err != nil {
		return nil, err
	}
	return &found, nil
}

func (c *Client) CreateEvent(ctx context.Context, request dto.CreateEventRequest) (*event.Event, error) {
	var created event.Event
	if err := c.do(ctx, http.MethodPost, c.api("/events"), nil, request, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id uuid.UUID, request dto.UpdateEventRequest) (*event.Event, error) {
	var updated event.Event
	if err := c.do(ctx, http.MethodPut, c.api("/events/"+id.String()), nil, request, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, c.api("/events/"+id.String()), nil, nil, nil)
}

// ExportICS тело text/calendar как есть
func (c *Client) ExportICS(ctx context.Context, r *event.Range) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, c.api("/events/export.ics"), rangeQuery(r), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeEnvelope(resp, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: чтение календаря: %v", ErrUnavailable, err)
	}
	return body, nil
}

func (c *Client) Calendar(ctx context.Context, view string, date time.Time, search string) (*dto.CalendarResponse, error) {
	query := url.Values{}
	if view != "" {
		query.Set("view", view)
	}
	if !date.IsZero() {
		query.Set("date", date.Format(dateLayout))
	}
	if search != "" {
		query.Set("q", search)
	}

	var grid dto.CalendarResponse
	if err := c.do(ctx, http.MethodGet, c.api("/calendar"), query, nil, &grid); err != nil {
		return nil, err
	}
	return &grid, nil
}

func (c *Client) ListGoals(ctx context.Context) ([]*goal.Goal, error) {
	var goals []*goal.Goal
	if err := c.do(ctx, http.MethodGet, c.api("/goals"), nil, nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) GetGoal(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	var found goal.Goal
	if err := c.do(ctx, http.MethodGet, c.api("/goals/"+id.String()), nil, nil, &found); err != nil {
		return nil, err
	}
	return &found, nil
}

func (c *Client) GoalTasks(ctx context.Context, id uuid.UUID) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := c.do(ctx, http.MethodGet, c.api("/goals/"+id.String()+"/tasks"), nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateGoal(ctx context.Context, request dto.CreateGoalRequest) (*goal.Goal, error) {
	var created goal.Goal
	if err := c.do(ctx, http.MethodPost, c.api("/goals"), nil, request, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateGoal(ctx context.Context, id uuid.UUID, request dto.UpdateGoalRequest) (*goal.Goal, error) {
	var updated goal.Goal
	if err := c.do(ctx, http.MethodPut, c.api("/goals/"+id.String()), nil, request, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, c.api("/goals/"+id.String()), nil, nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	query := url.Values{}
	if filter.Completed != nil {
		query.Set("completed", strconv.FormatBool(*filter.Completed))
	}
	if filter.GoalID != nil {
		query.Set("goalId", filter.GoalID.String())
	}

	var tasks []*task.Task
	if err := c.do(ctx, http.MethodGet, c.api("/tasks"), query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var found task.Task
	if err := c.do(ctx, http.MethodGet, c.api("/tasks/"+id.String()), nil, nil, &found); err != nil {
		return nil, err
	}
	return &found, nil
}

func (c *Client) CreateTask(ctx context.Context, request dto.CreateTaskRequest) (*task.Task, error) {
	var created task.Task
	if err := c.do(ctx, http.MethodPost, c.api("/tasks"), nil, request, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, request dto.UpdateTaskRequest) (*task.Task, error) {
	var updated task.Task
	if err := c.do(ctx, http.MethodPut, c.api("/tasks/"+id.String()), nil, request, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) ToggleTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var toggled task.Task
	if err := c.do(ctx, http.MethodPatch, c.api("/tasks/"+id.String()+"/toggle"), nil, nil, &toggled); err != nil {
		return nil, err
	}
	return &toggled, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, c.api("/tasks/"+id.String()), nil, nil, nil)
}
