// Package migrations содержит схему таблицы tasks для каждого диалекта.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// New готовит мигратор поверх уже открытого драйвера БД.
// Migrate.Close не вызываем: драйвер закрыл бы соединение хранилища.
func New(dialect string, driverName string, driver database.Driver) (*migrate.Migrate, error) {
	src, err := iofs.New(files, dialect)
	if err != nil {
		return nil, fmt.Errorf("чтение миграций %s: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("создание мигратора: %w", err)
	}
	return m, nil
}

// NewWithURL готовит мигратор с собственным подключением (для postgres)
func NewWithURL(dialect string, databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(files, dialect)
	if err != nil {
		return nil, fmt.Errorf("чтение миграций %s: %w", dialect, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("создание мигратора: %w", err)
	}
	return m, nil
}

// Up применяет миграции, отсутствие изменений ошибкой не считается
func Up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("применение миграций: %w", err)
	}
	return nil
}

func Down(m *migrate.Migrate) error {
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("откат миграций: %w", err)
	}
	return nil
}
