// Package sqlite хранит задачи в локальном файле SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todoList/internal/logger"
	"todoList/internal/migrations"
	"todoList/internal/models/task"
	repo "todoList/internal/repository"

	txStdLib "github.com/Thiht/transactor/stdlib"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const busyTimeout = 5000 // миллисекунды

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

type transactor interface {
	WithinTransaction(ctx context.Context, fn func(context.Context) error) error
}

type scannable interface {
	Scan(...any) error
}

type Storage struct {
	db         *sql.DB
	transactor transactor
	dbGetter   txStdLib.DBGetter
}

func New(ctx context.Context, path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, busyTimeout)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("Repository: Ошибка открытия SQLite", err, zap.String("path", path))
		return nil, fmt.Errorf("открытие sqlite: %w", err)
	}

	// одно соединение: SQLite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	transactor, dbGetter := txStdLib.NewTransactor(db, txStdLib.NestedTransactionsSavepoints)

	logger.Info("Repository: Успешное открытие SQLite", zap.String("path", path))
	return &Storage{
		db:         db,
		transactor: transactor,
		dbGetter:   dbGetter,
	}, nil
}

func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		logger.Error("Repository: Ошибка закрытия SQLite", err)
		return
	}
	logger.Info("Repository: Закрытие соединения SQLite")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Repository: Применение миграций SQLite")

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		logger.Error("Repository: Ошибка драйвера миграций", err)
		return fmt.Errorf("драйвер миграций: %w", err)
	}

	m, err := migrations.New(migrations.DialectSQLite, "sqlite", driver)
	if err != nil {
		logger.Error("Repository: Ошибка подготовки миграций", err)
		return err
	}

	if err := migrations.Up(m); err != nil {
		logger.Error("Repository: Ошибка применения миграций", err)
		return err
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(task, priority, status, created_date, completed_date, deadline_date, deadline_time, notes)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.dbGetter(ctx).ExecContext(ctx, query,
		taskToCreate.Description,
		taskToCreate.Priority,
		taskToCreate.Status,
		taskToCreate.CreatedDate,
		nullable(taskToCreate.CompletedDate),
		taskToCreate.DeadlineDate,
		taskToCreate.DeadlineTime,
		taskToCreate.Notes,
	)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		logger.Error("Repository: Не удалось получить id задачи", err)
		return fmt.Errorf("получение id: %w", err)
	}
	taskToCreate.ID = int(id)

	warnSlow(start, time.Millisecond*50)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int) (*task.Task, error) {
	start := time.Now()

	row := s.dbGetter(ctx).QueryRowContext(ctx, selectAll+` WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnSlow(start, time.Millisecond*50)
	return t, nil
}

// Update перезаписывает все поля кроме id и created_date
func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET task = ?,
				priority = ?,
				status = ?,
				completed_date = ?,
				deadline_date = ?,
				deadline_time = ?,
				notes = ?
			WHERE id = ?`

	res, err := s.dbGetter(ctx).ExecContext(ctx, query,
		taskToUpdate.Description,
		taskToUpdate.Priority,
		taskToUpdate.Status,
		nullable(taskToUpdate.CompletedDate),
		taskToUpdate.DeadlineDate,
		taskToUpdate.DeadlineTime,
		taskToUpdate.Notes,
		taskToUpdate.ID,
	)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("обновление задачи: %w", err)
	}
	if affected == 0 {
		logger.Warn("Repository: Задача для обновления не найдена", zap.Int("task_id", taskToUpdate.ID))
		return repo.ErrNotFound
	}

	warnSlow(start, time.Millisecond*100)
	return nil
}

// List возвращает все задачи в порядке id
func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	tasks, err := s.list(ctx)
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

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		res, err := s.dbGetter(ctx).ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("удаление задачи: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("удаление задачи: %w", err)
		}
		if affected == 0 {
			return repo.ErrNotFound
		}

		return s.compact(ctx)
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

// Clear удаляет все задачи и сбрасывает счётчик id
func (s *Storage) Clear(ctx context.Context) error {
	start := time.Now()

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.dbGetter(ctx).ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return fmt.Errorf("очистка задач: %w", err)
		}
		return s.resetSequence(ctx)
	})
	if err != nil {
		logger.Error("Repository: Не удалось очистить задачи", err, zap.Duration("ms", time.Since(start)))
		return err
	}

	warnSlow(start, time.Millisecond*100)
	return nil
}

// compact переписывает оставшиеся задачи с id 1..N в прежнем порядке.
// Вызывается только внутри транзакции.
func (s *Storage) compact(ctx context.Context) error {
	remaining, err := s.list(ctx)
	if err != nil {
		return err
	}

	db := s.dbGetter(ctx)
	if len(remaining) == 0 {
		return s.resetSequence(ctx)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("перенумерация: %w", err)
	}
	if err := s.resetSequence(ctx); err != nil {
		return err
	}

	for _, t := range remaining {
		if err := s.Create(ctx, t); err != nil {
			return fmt.Errorf("перенумерация: %w", err)
		}
	}

	logger.Info("Repository: Задачи перенумерованы", zap.Int("count", len(remaining)))
	return nil
}

func (s *Storage) resetSequence(ctx context.Context) error {
	if _, err := s.dbGetter(ctx).ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'tasks'`); err != nil {
		return fmt.Errorf("сброс счётчика id: %w", err)
	}
	return nil
}

func (s *Storage) list(ctx context.Context) ([]*task.Task, error) {
	rows, err := s.dbGetter(ctx).QueryContext(ctx, selectAll+` ORDER BY id`)
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

func scanTask(row scannable) (*task.Task, error) {
	t := &task.Task{}
	var completed sql.NullString

	err := row.Scan(
		&t.ID,
		&t.Description,
		&t.Priority,
		&t.Status,
		&t.CreatedDate,
		&completed,
		&t.DeadlineDate,
		&t.DeadlineTime,
		&t.Notes,
	)
	if err != nil {
		return nil, err
	}

	if completed.Valid {
		t.CompletedDate = &completed.String
	}
	return t, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func warnSlow(start time.Time, limit time.Duration) {
	if time.Since(start) > limit {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
}
