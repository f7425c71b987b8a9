package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"calendarApp/internal/config"
	"calendarApp/internal/handlers"
	"calendarApp/internal/logger"
	"calendarApp/internal/middleware"
	"calendarApp/internal/repository/inmemory"
	"calendarApp/internal/repository/postgres"
	"calendarApp/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type repositories struct {
	events service.EventRepository
	goals  service.GoalRepository
	tasks  service.TaskRepository
}

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	repos     repositories
	handlers  handlers.Set
	shutdowns []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepositories(ctx); err != nil {
		a.Shutdown()
		return nil, err
	}

	weekStart, err := a.config.WeekStart()
	if err != nil {
		a.Shutdown()
		return nil, err
	}
	a.initHandlers(weekStart)
	a.initRouter()

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return a, nil
}

func (a *App) initRepositories(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		db := a.config.Database
		storage, err := postgres.New(ctx, db.URL, postgres.PoolConfig{
			MaxConns:        int32(db.MaxConnections),
			MinConns:        int32(db.MinConnections),
			MaxConnIdleTime: db.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		if err := storage.Migrate(ctx); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}

		a.repos = repositories{
			events: storage.Events(),
			goals:  storage.Goals(),
			tasks:  storage.Tasks(),
		}
	default:
		a.repos = repositories{
			events: inmemory.NewEventStorage(),
			goals:  inmemory.NewGoalStorage(),
			tasks:  inmemory.NewTaskStorage(),
		}
	}

	logger.Info("App: Хранилище готово", zap.String("type", a.config.Repository.Type))
	return nil
}

func (a *App) initHandlers(weekStart time.Weekday) {
	dev := a.config.Logging.Development

	eventService := service.NewEventService(a.repos.events)
	goalService := service.NewGoalService(a.repos.goals, a.repos.tasks)
	taskService := service.NewTaskService(a.repos.tasks, a.repos.goals)

	a.handlers = handlers.Set{
		Events:   handlers.NewEventHandler(eventService, dev),
		Goals:    handlers.NewGoalHandler(goalService, dev),
		Tasks:    handlers.NewTaskHandler(taskService, dev),
		Calendar: handlers.NewCalendarHandler(eventService, weekStart, dev),
	}
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.RateLimit.RPM))
	if a.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	}

	r.Get("/health", a.handlers.Events.HealthCheck)

	prefix := a.config.API.Prefix
	if prefix == "" || prefix == "/" {
		a.handlers.Mount(r)
	} else {
		r.Route(prefix, a.handlers.Mount)
	}

	a.router = r
}

// Router готовый обработчик со всеми middleware
func (a *App) Router() http.Handler {
	return a.router
}

// Run обслуживает запросы до SIGINT/SIGTERM или отмены ctx
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("запуск сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("HTTP: Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Shutdown()
	return err
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
