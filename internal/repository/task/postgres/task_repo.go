package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoList/internal/logger"
	"todoList/internal/migrations"
	"todoList/internal/models/task"
	repo "todoList/internal/repository"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const selectAll = `SELECT
				id,
				task,
				priority,
				status,
				created_date,
				completed_date,
				deadline_date,
				deadline_time,
				notes
				FROM tasks`

// id выдаётся как MAX(id)+1: операции с sequence в PostgreSQL не откатываются
// вместе с транзакцией, а перенумерация должна быть атомарной
const insertTask = `INSERT INTO tasks
				(id, task, priority, status, created_date, completed_date, deadline_date, deadline_time, notes)
				VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM tasks), $1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id`

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = poolCfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connString: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	err := s.pool.QueryRow(ctx, insertTask,
		taskToCreate.Description,
		taskToCreate.Priority,
		taskToCreate.Status,
		taskToCreate.CreatedDate,
		taskToCreate.CompletedDate,
		taskToCreate.DeadlineDate,
		taskToCreate.DeadlineTime,
		taskToCreate.Notes,
	).Scan(&taskToCreate.ID)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnSlow(start, time.Millisecond*50)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int) (*task.Task, error) {
	start := time.Now()

	t, err := scanTask(s.pool.QueryRow(ctx, selectAll+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnSlow(start, time.Millisecond*100)
	return t, nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET task = $1,
				priority = $2,
				status = $3,
				completed_date = $4,
				deadline_date = $5,
				deadline_time = $6,
				notes = $7
			WHERE id = $8`

	tag, err := s.pool.Exec(ctx, query,
		taskToUpdate.Description,
		taskToUpdate.Priority,
		taskToUpdate.Status,
		taskToUpdate.CompletedDate,
		taskToUpdate.DeadlineDate,
		taskToUpdate.DeadlineTime,
		taskToUpdate.Notes,
		taskToUpdate.ID,
	)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		logger.Warn("Repository: Задача для обновления не найдена", zap.Int("task_id", taskToUpdate.ID))
		return repo.ErrNotFound
	}

	warnSlow(start, time.Millisecond*100)
	return nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	tasks, err := list(ctx, s.pool)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, err
	}

	warnSlow(start, time.Millisecond*50+time.Millisecond*time.Duration(len(tasks)))
	return tasks, nil
}

// Delete удаляет задачу и перенумеровывает оставшиеся в одной транзакции
func (s *Storage) Delete(ctx context.Context, id int) error {
	start := time.Now()

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("удаление задачи: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repo.ErrNotFound
		}
		return compact(ctx, tx)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Warn("Repository: Задача для удаления не найдена", zap.Int("task_id", id))
			return err
		}
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return err
	}

	warnSlow(start, time.Millisecond*200)
	return nil
}

// Clear удаляет все задачи; следующий id снова будет 1, так как берётся MAX(id)+1
func (s *Storage) Clear(ctx context.Context) error {
	start := time.Now()

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("очистка задач: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Repository: Не удалось очистить задачи", err, zap.Duration("ms", time.Since(start)))
		return err
	}

	warnSlow(start, time.Millisecond*100)
	return nil
}

func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: Применение миграций PostgreSQL")

	m, err := migrations.NewWithURL(migrations.DialectPostgres, migrateURL(s.connString))
	if err != nil {
		logger.Error("Repository: Ошибка подготовки миграций", err)
		return err
	}
	defer m.Close()

	if err := migrations.Up(m); err != nil {
		logger.Error("Repository: Ошибка применения миграций", err)
		return err
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Repository: Откат миграций PostgreSQL")

	m, err := migrations.NewWithURL(migrations.DialectPostgres, migrateURL(s.connString))
	if err != nil {
		logger.Error("Repository: Ошибка подготовки миграций", err)
		return err
	}
	defer m.Close()

	if err := migrations.Down(m); err != nil {
		logger.Error("Repository: Ошибка отката миграций", err)
		return err
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func list(ctx context.Context, q querier) ([]*task.Task, error) {
	rows, err := q.Query(ctx, selectAll+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return tasks, nil
}

// compact переписывает оставшиеся задачи с id 1..N в прежнем порядке
func compact(ctx context.Context, tx pgx.Tx) error {
	remaining, err := list(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("перенумерация: %w", err)
	}

	for i, t := range remaining {
		t.ID = i + 1
		_, err := tx.Exec(ctx, `INSERT INTO tasks
				(id, task, priority, status, created_date, completed_date, deadline_date, deadline_time, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID,
			t.Description,
			t.Priority,
			t.Status,
			t.CreatedDate,
			t.CompletedDate,
			t.DeadlineDate,
			t.DeadlineTime,
			t.Notes,
		)
		if err != nil {
			return fmt.Errorf("перенумерация: %w", err)
		}
	}

	logger.Info("Repository: Задачи перенумерованы", zap.Int("count", len(remaining)))
	return nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.Description,
		&t.Priority,
		&t.Status,
		&t.CreatedDate,
		&t.CompletedDate,
		&t.DeadlineDate,
		&t.DeadlineTime,
		&t.Notes,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// драйвер golang-migrate для pgx v5 регистрируется под схемой pgx5://
func migrateURL(connString string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(connString, prefix) {
			return "pgx5://" + strings.TrimPrefix(connString, prefix)
		}
	}
	return connString
}

func warnSlow(start time.Time, limit time.Duration) {
	if time.Since(start) > limit {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
}
