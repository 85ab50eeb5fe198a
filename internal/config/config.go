// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config.yml"
	EnvPrefix   = "TODO"
)

const (
	RepositorySQLite   = "sqlite"
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository"`
	Worker     WorkerConfig     `yaml:"worker" mapstructure:"worker"`
}

type ServerConfig struct {
	Port         string        `yaml:"port" mapstructure:"port"`
	Host         string        `yaml:"host" mapstructure:"host"`
	RateLimit    int           `yaml:"rate_limit" mapstructure:"rate_limit"` // запросов в минуту с одного IP, 0 без лимита
	CORSOrigins  []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Path           string        `yaml:"path" mapstructure:"path"` // файл SQLite
	URL            string        `yaml:"url" mapstructure:"url"`   // строка подключения PostgreSQL
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinConnections int           `yaml:"min_connections" mapstructure:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool   `yaml:"development" mapstructure:"development"`
	File        string `yaml:"file" mapstructure:"file"`
}

type WorkerConfig struct {
	OverdueInterval time.Duration `yaml:"overdue_interval" mapstructure:"overdue_interval"` // 0 выключает проверку
	BatchSize       int           `yaml:"batch_size" mapstructure:"batch_size"`
}

type RepositoryConfig struct {
	Type string `yaml:"type" mapstructure:"type"` // "sqlite", "postgres" или "inmemory"
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			RateLimit:    100,
			CORSOrigins:  []string{"*"},
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:           "todo_list.db",
			MaxConnections: 10,
			MinConnections: 1,
			IdleTimeout:    5 * time.Minute,
		},
		Logging: LoggingConfig{
			Development: true,
			File:        "todo.log",
		},
		Repository: RepositoryConfig{
			Type: RepositorySQLite,
		},
		Worker: WorkerConfig{
			OverdueInterval: 5 * time.Minute,
			BatchSize:       100,
		},
	}
}

// Load читает .env, затем файл конфигурации и переменные TODO_*.
// Если файла нет, он создаётся со значениями по умолчанию.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := Save(path, Default()); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("не могу прочитать %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save пишет конфигурацию в YAML
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("не могу создать каталог %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("не могу создать %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", path, err)
	}
	return encoder.Close()
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositorySQLite:
		if c.Database.Path == "" {
			return errors.New("database.path не задан для sqlite")
		}
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url не задан для postgres")
		}
		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database.min_connections (%d) больше max_connections (%d)",
				c.Database.MinConnections, c.Database.MaxConnections)
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("неизвестный тип репозитория: %q", c.Repository.Type)
	}

	if c.Worker.OverdueInterval < 0 {
		return errors.New("worker.overdue_interval не может быть отрицательным")
	}
	if c.Worker.BatchSize < 1 {
		return fmt.Errorf("worker.batch_size должен быть больше 0, получено %d", c.Worker.BatchSize)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// без значений по умолчанию AutomaticEnv не видит ключи при Unmarshal
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.max_connections", d.Database.MaxConnections)
	v.SetDefault("database.min_connections", d.Database.MinConnections)
	v.SetDefault("database.idle_timeout", d.Database.IdleTimeout)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("repository.type", d.Repository.Type)
	v.SetDefault("worker.overdue_interval", d.Worker.OverdueInterval)
	v.SetDefault("worker.batch_size", d.Worker.BatchSize)
}
