package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/service"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/joho/godotenv"
)

// Бэкенды истории записей
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	TelegramToken string
	Environment   string

	APIBaseURL   string
	APITimeout   time.Duration
	APIRateLimit float64

	SlotMode         slots.Mode
	ConfirmationMode service.ConfirmationMode

	HistoryBackend string
	HistoryDir     string
	DBDSN          string
	MigrationsDir  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	MetricsAddr    string
	UserRateLimit  float64
	StateIdleTTL   time.Duration
	SlotGridImages bool
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из функции чтения переменных и проверяет её
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		TelegramToken:  get("TELEGRAM_TOKEN", ""),
		Environment:    get("ENV", "development"),
		APIBaseURL:     get("API_BASE_URL", "http://localhost:8080"),
		HistoryBackend: strings.ToLower(get("HISTORY_BACKEND", BackendFile)),
		HistoryDir:     get("HISTORY_DIR", "data/history"),
		DBDSN:          get("DB_DSN", ""),
		MigrationsDir:  get("MIGRATIONS_DIR", "migrations"),
		RedisAddr:      get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		MetricsAddr:    get("METRICS_ADDR", ""),
	}

	var errs []error
	var err error

	if cfg.APITimeout, err = time.ParseDuration(get("API_TIMEOUT", "15s")); err != nil {
		errs = append(errs, fmt.Errorf("API_TIMEOUT: %w", err))
	}
	if cfg.APIRateLimit, err = strconv.ParseFloat(get("API_RATE_LIMIT", "10"), 64); err != nil {
		errs = append(errs, fmt.Errorf("API_RATE_LIMIT: %w", err))
	}
	if cfg.UserRateLimit, err = strconv.ParseFloat(get("USER_RATE_LIMIT", "2"), 64); err != nil {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT: %w", err))
	}
	if cfg.StateIdleTTL, err = time.ParseDuration(get("STATE_IDLE_TTL", "30m")); err != nil {
		errs = append(errs, fmt.Errorf("STATE_IDLE_TTL: %w", err))
	}
	if cfg.SlotGridImages, err = strconv.ParseBool(get("SLOT_GRID_IMAGES", "true")); err != nil {
		errs = append(errs, fmt.Errorf("SLOT_GRID_IMAGES: %w", err))
	}
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		errs = append(errs, fmt.Errorf("REDIS_DB: %w", err))
	}
	if cfg.SlotMode, err = slots.ParseMode(strings.ToLower(get("SLOT_MODE", ""))); err != nil {
		errs = append(errs, fmt.Errorf("SLOT_MODE: %w", err))
	}
	if cfg.ConfirmationMode, err = service.ParseConfirmationMode(strings.ToLower(get("CONFIRMATION_MODE", ""))); err != nil {
		errs = append(errs, fmt.Errorf("CONFIRMATION_MODE: %w", err))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля и сочетания настроек
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.APIRateLimit < 0 || c.UserRateLimit < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	if c.StateIdleTTL <= 0 {
		return fmt.Errorf("STATE_IDLE_TTL must be positive")
	}

	switch c.HistoryBackend {
	case BackendFile:
		if c.HistoryDir == "" {
			return fmt.Errorf("HISTORY_DIR is required for file backend")
		}
	case BackendPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.HistoryBackend)
	}

	// для создания записи на сервере нужен scheduleId, он есть только в режиме open
	if c.ConfirmationMode == service.ConfirmationServer && c.SlotMode != slots.ModeOpen {
		return fmt.Errorf("CONFIRMATION_MODE=server requires SLOT_MODE=open")
	}
	return nil
}

// IsProduction выбирает JSON-логгер вместо консольного
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
