package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todoList/internal/config"
	"todoList/internal/handlers"
	"todoList/internal/logger"
	"todoList/internal/middleware"
	"todoList/internal/repository/task/inmemory"
	"todoList/internal/repository/task/postgres"
	"todoList/internal/repository/task/sqlite"
	"todoList/internal/service"
	"todoList/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Storage - хранилище задач, которым владеет приложение
type Storage interface {
	service.TaskRepository
	Close()
}

type App struct {
	config    *config.Config
	server    *http.Server
	storage   Storage
	service   *service.TaskService
	shutdowns []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init поднимает логгер, хранилище и сервис. logOutputs заменяет stderr для логов.
func (a *App) Init(ctx context.Context, logOutputs ...string) error {
	if err := logger.Init(a.config.Logging.Development, logOutputs...); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	storage, err := newStorage(ctx, a.config)
	if err != nil {
		a.Shutdown()
		return fmt.Errorf("инициализация хранилища: %w", err)
	}
	a.storage = storage

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Закрытие хранилища...")
		storage.Close()
	})

	a.service = service.NewTaskService(storage)

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type))
	return nil
}

func (a *App) Service() *service.TaskService {
	return a.service
}

// Handler собирает роутер HTTP API
func (a *App) Handler() http.Handler {
	taskHandler := handlers.NewTaskHandler(a.service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	taskHandler.Register(r)

	return otelhttp.NewHandler(r, "todo-api")
}

// Run обслуживает HTTP до отмены ctx, затем останавливает сервер
func (a *App) Run(ctx context.Context) error {
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.Handler(),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	overdue := worker.NewOverdueWorker(a.service, &a.config.Worker.OverdueInterval, &a.config.Worker.BatchSize)
	p.Go(func(ctx context.Context) error {
		overdue.Start(ctx)
		return nil
	})

	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return p.Wait()
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

func newStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Repository.Type {
	case config.RepositorySQLite:
		storage, err := sqlite.New(ctx, cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		if err := storage.Migrate(ctx); err != nil {
			storage.Close()
			return nil, err
		}
		return storage, nil

	case config.RepositoryPostgres:
		storage, err := postgres.New(ctx, cfg.Database.URL, postgres.PoolConfig{
			MaxConns:        int32(cfg.Database.MaxConnections),
			MinConns:        int32(cfg.Database.MinConnections),
			MaxConnIdleTime: cfg.Database.IdleTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.Migrate(ctx); err != nil {
			storage.Close()
			return nil, err
		}
		return storage, nil

	case config.RepositoryInMemory:
		return inmemory.NewTaskStorage(), nil

	default:
		return nil, fmt.Errorf("неизвестный тип репозитория: %q", cfg.Repository.Type)
	}
}
