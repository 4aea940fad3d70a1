// Пакет config читает конфигурацию сервисов из переменных окружения
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая конфигурация cmd/app и cmd/consumer
type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	DB             DB
	MigrationsPath string `env:"MIGRATIONS_PATH" env-default:"file://migrations"`

	RedisAddr string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisTTL  time.Duration `env:"REDIS_TTL" env-default:"1m"`

	NATSURL     string `env:"NATS_URL" env-default:"nats://localhost:4222"`
	NATSSubject string `env:"NATS_SUBJECT" env-default:"changes"`

	ClickHouseDSN string        `env:"CLICKHOUSE_DSN" env-default:"tcp://localhost:9000?database=default"`
	BatchSize     int           `env:"BATCH_SIZE" env-default:"10"`
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" env-default:"5s"`
	ConsumerPort  string        `env:"CONSUMER_PORT" env-default:"8081"`

	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	RateLimit   float64  `env:"RATE_LIMIT" env-default:"20"`
	RateBurst   int      `env:"RATE_BURST" env-default:"40"`
	TaskBoards  []string `env:"TASK_BOARDS" env-separator:"," env-default:"johan,dani,paco"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// DB параметры подключения к Postgres
type DB struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" env-default:"appdb"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

// DSN строка подключения для lib/pq
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Load читает .env (если файл есть) и переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad как Load, но завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return errors.New("RATE_LIMIT and RATE_BURST must be positive")
	}
	boards := c.TaskBoards[:0]
	for _, b := range c.TaskBoards {
		if b = strings.TrimSpace(b); b != "" {
			boards = append(boards, b)
		}
	}
	if len(boards) == 0 {
		return errors.New("TASK_BOARDS must list at least one board")
	}
	c.TaskBoards = boards
	return nil
}
