package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Environment     string `env:"ENV" envDefault:"development"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	Storage         string `env:"STORAGE" envDefault:"postgres"`
	DBDSN           string `env:"DB_DSN"`
	HTTPAddr        string `env:"HTTP_ADDR" envDefault:":8080"`
	TelegramToken   string `env:"TELEGRAM_TOKEN"`
	DefaultTimezone string `env:"DEFAULT_TIMEZONE" envDefault:"Europe/Moscow"`

	// Окно просмотра назад при поиске пересечений, оно же максимальная длительность занятия.
	// Уменьшать можно только если все сохранённые занятия не длиннее нового значения.
	OverlapLookback time.Duration `env:"OVERLAP_LOOKBACK" envDefault:"24h"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	DBConnectTimeout      time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"30s"`
	RequestExpiryInterval time.Duration `env:"REQUEST_EXPIRY_INTERVAL" envDefault:"1h"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q, expected %s or %s", c.Storage, StoragePostgres, StorageMemory)
	}

	if c.OverlapLookback <= 0 {
		return fmt.Errorf("OVERLAP_LOOKBACK must be positive")
	}
	if c.RequestExpiryInterval <= 0 {
		return fmt.Errorf("REQUEST_EXPIRY_INTERVAL must be positive")
	}

	return nil
}
