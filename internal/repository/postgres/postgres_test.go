package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"calendarApp/internal/models/event"
	"calendarApp/internal/models/goal"
	"calendarApp/internal/models/task"
	"calendarApp/internal/repository"
	"calendarApp/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

// SetupSuite запускается один раз перед всеми тестами
func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	s.storage, err = postgres.New(s.ctx, s.connString, postgres.PoolConfig{})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.storage.Migrate(s.ctx))
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицы перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE events, tasks, goals")
	require.NoError(s.T(), err)
}

// TestPostgresTestSuite запускает suite
func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) TestMigrate_Idempotent() {
	assert.NoError(s.T(), s.storage.Migrate(s.ctx))
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

func (s *PostgresTestSuite) TestEvents_CRUD() {
	events := s.storage.Events()
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	ev := &event.Event{
		ID:        uuid.New(),
		Title:     "Standup",
		Category:  event.CategoryWork,
		Date:      event.DayOf(start),
		StartTime: start,
		EndTime:   start.Add(15 * time.Minute),
	}
	require.NoError(s.T(), events.Create(s.ctx, ev))
	assert.False(s.T(), ev.CreatedAt.IsZero())

	got, err := events.GetByID(s.ctx, ev.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Standup", got.Title)
	assert.True(s.T(), got.StartTime.Equal(start))
	assert.Equal(s.T(), event.DayOf(start), got.Date)
	assert.Nil(s.T(), got.TaskID)

	taskID := uuid.New()
	ev.Title = "Moved standup"
	ev.TaskID = &taskID
	require.NoError(s.T(), events.Update(s.ctx, ev))
	require.NotNil(s.T(), ev.UpdatedAt)

	got, err = events.GetByID(s.ctx, ev.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Moved standup", got.Title)
	require.NotNil(s.T(), got.TaskID)
	assert.Equal(s.T(), taskID, *got.TaskID)

	require.NoError(s.T(), events.Delete(s.ctx, ev.ID))
	_, err = events.GetByID(s.ctx, ev.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
	assert.ErrorIs(s.T(), events.Delete(s.ctx, ev.ID), repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestEvents_RejectsEndBeforeStart() {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	ev := &event.Event{
		ID:        uuid.New(),
		Title:     "Broken",
		Category:  event.CategoryWork,
		Date:      event.DayOf(start),
		StartTime: start,
		EndTime:   start,
	}
	assert.Error(s.T(), s.storage.Events().Create(s.ctx, ev))
}

func (s *PostgresTestSuite) TestEvents_ListRange() {
	events := s.storage.Events()
	mon := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{15 * time.Hour, 8 * time.Hour, 58 * time.Hour} {
		start := mon.Add(offset)
		require.NoError(s.T(), events.Create(s.ctx, &event.Event{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("event-%d", i),
			Category:  event.CategorySocial,
			Date:      event.DayOf(start),
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		}))
	}

	all, err := events.List(s.ctx, nil)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 3)
	assert.Equal(s.T(), "event-1", all[0].Title)
	assert.Equal(s.T(), "event-0", all[1].Title)
	assert.Equal(s.T(), "event-2", all[2].Title)

	monday, err := events.List(s.ctx, &event.Range{From: mon, To: mon})
	require.NoError(s.T(), err)
	assert.Len(s.T(), monday, 2)
}

func (s *PostgresTestSuite) TestGoalsAndTasks_Cascade() {
	goals := s.storage.Goals()
	tasks := s.storage.Tasks()

	g := &goal.Goal{ID: uuid.New(), Title: "Fitness", Color: goal.DefaultColor}
	require.NoError(s.T(), goals.Create(s.ctx, g))

	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	tk := &task.Task{ID: uuid.New(), Title: "Run 5k", GoalID: g.ID, Priority: task.PriorityHigh, DueDate: &due}
	require.NoError(s.T(), tasks.Create(s.ctx, tk))

	done := true
	tk.Completed = true
	require.NoError(s.T(), tasks.Update(s.ctx, tk))

	completed, err := tasks.List(s.ctx, task.Filter{Completed: &done, GoalID: &g.ID})
	require.NoError(s.T(), err)
	require.Len(s.T(), completed, 1)
	assert.Equal(s.T(), task.PriorityHigh, completed[0].Priority)
	require.NotNil(s.T(), completed[0].DueDate)
	assert.True(s.T(), completed[0].DueDate.Equal(due))

	require.NoError(s.T(), goals.Delete(s.ctx, g.ID))

	_, err = tasks.GetByID(s.ctx, tk.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestGoals_ListNewestFirst() {
	goals := s.storage.Goals()

	first := &goal.Goal{ID: uuid.New(), Title: "first", Color: goal.DefaultColor}
	require.NoError(s.T(), goals.Create(s.ctx, first))
	time.Sleep(10 * time.Millisecond)
	second := &goal.Goal{ID: uuid.New(), Title: "second", Color: "#10B981"}
	require.NoError(s.T(), goals.Create(s.ctx, second))

	list, err := goals.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)
	assert.Equal(s.T(), "second", list[0].Title)

	removed, err := s.storage.Tasks().DeleteByGoal(s.ctx, first.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, removed)
}
