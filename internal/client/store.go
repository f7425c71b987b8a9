package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"calendarApp/internal/calendar"
	"calendarApp/internal/handlers/dto"
	"calendarApp/internal/logger"
	"calendarApp/internal/models/event"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend операции API, которыми пользуется Store; *Client его реализует
type Backend interface {
	ListEvents(ctx context.Context, r *event.Range) ([]*event.Event, error)
	CreateEvent(ctx context.Context, request dto.CreateEventRequest) (*event.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, request dto.UpdateEventRequest) (*event.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	ListGoals(ctx context.Context) ([]*goal.Goal, error)
	CreateGoal(ctx context.Context, request dto.CreateGoalRequest) (*goal.Goal, error)
	UpdateGoal(ctx context.Context, id uuid.UUID, request dto.UpdateGoalRequest) (*goal.Goal, error)
	DeleteGoal(ctx context.Context, id uuid.UUID) error

	ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error)
	CreateTask(ctx context.Context, request dto.CreateTaskRequest) (*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, request dto.UpdateTaskRequest) (*task.Task, error)
	ToggleTask(ctx context.Context, id uuid.UUID) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

var _ Backend = (*Client)(nil)

type State int

const (
	StateOnline State = iota
	StateOffline
)

func (s State) String() string {
	if s == StateOffline {
		return "offline"
	}
	return "online"
}

// Result ответ чтения. Offline - данные из кэша (или пустые), API не ответило.
type Result[T any] struct {
	Success bool
	Offline bool
	Data    T
}

type eventsEntry struct {
	rng    *event.Range
	events []*event.Event
}

type tasksEntry struct {
	filter task.Filter
	tasks  []*task.Task
}

// Store кэш поверх API: чтения обновляют кэш, при недоступности API отдают
// последнее известное состояние. Записи не подделываются: без API они
// возвращают ErrUnavailable.
type Store struct {
	api Backend

	mtx         sync.RWMutex
	state       State
	events      map[string]*eventsEntry
	goals       []*goal.Goal
	goalsLoaded bool
	tasks       map[string]*tasksEntry

	subMtx      sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int
}

func NewStore(api Backend) *Store {
	return &Store{
		api:         api,
		state:       StateOnline,
		events:      make(map[string]*eventsEntry),
		tasks:       make(map[string]*tasksEntry),
		subscribers: make(map[int]func(State)),
	}
}

func (s *Store) State() State {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.state
}

// SetState подписчики уведомляются только о смене состояния
func (s *Store) SetState(state State) {
	s.mtx.Lock()
	changed := s.state != state
	s.state = state
	s.mtx.Unlock()

	if !changed {
		return
	}

	logger.Info("Store: Смена состояния соединения", zap.String("state", state.String()))

	s.subMtx.Lock()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMtx.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMtx.Lock()
	defer s.subMtx.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMtx.Lock()
		defer s.subMtx.Unlock()
		delete(s.subscribers, id)
	}
}

// observe переводит состояние по результату обращения к API
func (s *Store) observe(err error) {
	switch {
	case err == nil:
		s.SetState(StateOnline)
	case errors.Is(err, ErrUnavailable):
		s.SetState(StateOffline)
	default:
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			s.SetState(StateOnline)
		}
	}
}

func rangeKey(r *event.Range) string {
	if r == nil {
		return "*"
	}
	return r.From.Format(dateLayout) + "|" + r.To.Format(dateLayout)
}

func filterKey(f task.Filter) string {
	key := "completed="
	if f.Completed != nil {
		key += fmt.Sprint(*f.Completed)
	}
	key += "&goal="
	if f.GoalID != nil {
		key += f.GoalID.String()
	}
	return key
}

func cloneAll[T any](items []*T) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		c := *item
		out = append(out, &c)
	}
	return out
}

func inRange(r *event.Range, e *event.Event) bool {
	return r == nil || r.Contains(e.Date)
}

func compareEvents(a, b *event.Event) int {
	if c := a.StartTime.Compare(b.StartTime); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

func (s *Store) Events(ctx context.Context, r *event.Range) (Result[[]*event.Event], error) {
	events, err := s.api.ListEvents(ctx, r)
	s.observe(err)

	key := rangeKey(r)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			return Result[[]*event.Event]{}, err
		}

		s.mtx.RLock()
		defer s.mtx.RUnlock()
		cached := []*event.Event{}
		if entry, ok := s.events[key]; ok {
			cached = cloneAll(entry.events)
		}
		logger.Warn("Store: API недоступно, события из кэша", zap.Int("count", len(cached)))
		return Result[[]*event.Event]{Success: true, Offline: true, Data: cached}, nil
	}

	if events == nil {
		events = []*event.Event{}
	}

	var rng *event.Range
	if r != nil {
		copied := *r
		rng = &copied
	}

	s.mtx.Lock()
	s.events[key] = &eventsEntry{rng: rng, events: cloneAll(events)}
	s.mtx.Unlock()

	return Result[[]*event.Event]{Success: true, Data: events}, nil
}

func (s *Store) Goals(ctx context.Context) (Result[[]*goal.Goal], error) {
	goals, err := s.api.ListGoals(ctx)
	s.observe(err)

	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			return Result[[]*goal.Goal]{}, err
		}

		s.mtx.RLock()
		defer s.mtx.RUnlock()
		return Result[[]*goal.Goal]{Success: true, Offline: true, Data: cloneAll(s.goals)}, nil
	}

	if goals == nil {
		goals = []*goal.Goal{}
	}

	s.mtx.Lock()
	s.goals = cloneAll(goals)
	s.goalsLoaded = true
	s.mtx.Unlock()

	return Result[[]*goal.Goal]{Success: true, Data: goals}, nil
}

func (s *Store) Tasks(ctx context.Context, filter task.Filter) (Result[[]*task.Task], error) {
	tasks, err := s.api.ListTasks(ctx, filter)
	s.observe(err)

	key := filterKey(filter)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			return Result[[]*task.Task]{}, err
		}

		s.mtx.RLock()
		defer s.mtx.RUnlock()
		cached := []*task.Task{}
		if entry, ok := s.tasks[key]; ok {
			cached = cloneAll(entry.tasks)
		}
		return Result[[]*task.Task]{Success: true, Offline: true, Data: cached}, nil
	}

	if tasks == nil {
		tasks = []*task.Task{}
	}

	s.mtx.Lock()
	s.tasks[key] = &tasksEntry{filter: filter, tasks: cloneAll(tasks)}
	s.mtx.Unlock()

	return Result[[]*task.Task]{Success: true, Data: tasks}, nil
}

func (s *Store) CreateEvent(ctx context.Context, request dto.CreateEventRequest) (*event.Event, error) {
	created, err := s.api.CreateEvent(ctx, request)
	s.observe(err)
	if err != nil {
		return nil, err
	}
	s.upsertEvent(created)
	return created, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id uuid.UUID, request dto.UpdateEventRequest) (*event.Event, error) {
	updated, err := s.api.UpdateEvent(ctx, id, request)
	s.observe(err)
	if err != nil {
		return nil, err
	}
	s.upsertEvent(updated)
	return updated, nil
}

// Apply сохраняет результат перетаскивания или растягивания одним PUT
func (s *Store) Apply(ctx context.Context, update calendar.EventUpdate) (*event.Event, error) {
	return s.UpdateEvent(ctx, update.ID, dto.UpdateEventRequest{
		Date:      &dto.FlexTime{Time: update.Date},
		StartTime: &dto.FlexTime{Time: update.StartTime},
		EndTime:   &dto.FlexTime{Time: update.EndTime},
	})
}

// ConfirmDraft создаёт событие из заготовки и только после этого отмечает задачу выполненной
func (s *Store) ConfirmDraft(ctx context.Context, draft calendar.EventDraft) (*event.Event, *task.Task, error) {
	taskID := draft.TaskID
	created, err := s.CreateEvent(ctx, dto.CreateEventRequest{
		Title:     draft.Title,
		Category:  draft.Category,
		Date:      &dto.FlexTime{Time: draft.Date},
		StartTime: &dto.FlexTime{Time: draft.StartTime},
		EndTime:   &dto.FlexTime{Time: draft.EndTime},
		TaskID:    &taskID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("создание события из задачи: %w", err)
	}

	completed := true
	done, err := s.UpdateTask(ctx, taskID, dto.UpdateTaskRequest{Completed: &completed})
	if err != nil {
		logger.Warn("Store: Событие создано, задача не отмечена",
			zap.String("event_id", created.ID.String()),
			zap.String("task_id", taskID.String()),
			zap.Error(err))
		return created, nil, fmt.Errorf("отметка задачи выполненной: %w", err)
	}
	return created, done, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	err := s.api.DeleteEvent(ctx, id)
	s.observe(err)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	for _, entry := range s.events {
		entry.events = removeByID(entry.events, func(e *event.Event) bool { return e.ID == id })
	}
	return nil
}

func (s *Store) CreateGoal(ctx context.Context, request dto.CreateGoalRequest) (*goal.Goal, error) {
	created, err := s.api.CreateGoal(ctx, request)
	s.observe(err)
	if err != nil {
		return nil, err
	}
	s.upsertGoal(created)
	return created, nil
}

func (s *Store) UpdateGoal(ctx context.Context, id uuid.UUID, request dto.UpdateGoalRequest) (*goal.Goal, error) {
	updated, err := s.api.UpdateGoal(ctx, id, request)
	s.observe(err)
	if err != nil {
		return nil, err
	}
	s.upsertGoal(updated)
	return updated, nil
}

// DeleteGoal из кэша уходят цель и все её задачи
func (s *Store) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	err := s.api.DeleteGoal(ctx, id)
	s.observe(err)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.goals = removeByID(s.goals, func(g *goal.Goal) bool { return g.ID == id })
	for _, entry := range s.tasks {
		entry.tasks = removeByID(entry.tasks, func(t *task.Task) bool { return t.GoalID == id })
	}
	return nil
}

func (s *Store) CreateTask(ctx context.Context, request dto.CreateTaskRequest) (*task.Task, error) {
	created, err := s.api.CreateTask(ctx, request)
	s.observe(err)
	if err != nil {
		return nil, err
	}
	s.upsertTask(created)
	return created, nil
}

func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, request dto.UpdateTaskRequest) (*task.Task, error) {
	updated, err := s.api.UpdateTask(ctx, id, request)
	s.observe(err)
	if err != nil {
		return nil, err
	}
	s.upsertTask(updated)
	return updated, nil
}

func (s *Store) ToggleTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	toggled, err := s.api.ToggleTask(ctx, id)
	s.observe(err)
	if err != nil {
		return nil, err
	}
	s.upsertTask(toggled)
	return toggled, nil
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	err := s.api.DeleteTask(ctx, id)
	s.observe(err)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	for _, entry := range s.tasks {
		entry.tasks = removeByID(entry.tasks, func(t *task.Task) bool { return t.ID == id })
	}
	return nil
}

func removeByID[T any](items []*T, match func(*T) bool) []*T {
	return slices.DeleteFunc(items, match)
}

// upsertEvent событие попадает в каждый кэшированный диапазон, которому принадлежит его дата
func (s *Store) upsertEvent(e *event.Event) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, entry := range s.events {
		entry.events = removeByID(entry.events, func(cached *event.Event) bool { return cached.ID == e.ID })
		if inRange(entry.rng, e) {
			copied := *e
			entry.events = append(entry.events, &copied)
			slices.SortStableFunc(entry.events, compareEvents)
		}
	}
}

// upsertGoal новая цель встаёт первой, изменённая остаётся на месте
func (s *Store) upsertGoal(g *goal.Goal) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.goalsLoaded {
		return
	}

	copied := *g
	if i := slices.IndexFunc(s.goals, func(cached *goal.Goal) bool { return cached.ID == g.ID }); i >= 0 {
		s.goals[i] = &copied
		return
	}
	s.goals = append([]*goal.Goal{&copied}, s.goals...)
}

func (s *Store) upsertTask(t *task.Task) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, entry := range s.tasks {
		i := slices.IndexFunc(entry.tasks, func(cached *task.Task) bool { return cached.ID == t.ID })
		matches := entry.filter.Match(t)

		copied := *t
		switch {
		case i >= 0 && matches:
			entry.tasks[i] = &copied
		case i >= 0:
			entry.tasks = slices.Delete(entry.tasks, i, i+1)
		case matches:
			entry.tasks = append([]*task.Task{&copied}, entry.tasks...)
		}
	}
}
