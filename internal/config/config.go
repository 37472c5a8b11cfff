package config

import (
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/lesson_bot/internal/model"
	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	DBDSN          string `env:"DB_DSN,required,notEmpty"`
	Environment    string `env:"ENV" envDefault:"development"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	// Рабочий день: часы из полуинтервала [StartHour, EndHour)
	StartHour     int    `env:"START_HOUR" envDefault:"9"`
	EndHour       int    `env:"END_HOUR" envDefault:"20"`
	DateWindow    int    `env:"DATE_WINDOW" envDefault:"7"`
	PageSize      int    `env:"PAGE_SIZE" envDefault:"5"`
	Timezone      string `env:"TIMEZONE" envDefault:"Europe/Moscow"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"ru"`

	AccessorTimeout time.Duration `env:"ACCESSOR_TIMEOUT" envDefault:"10s"`
	DraftTTL        time.Duration `env:"DRAFT_TTL" envDefault:"24h"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"1h"`

	// Без REDIS_ADDR повторные callback не отсекаются
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	DedupTTL      time.Duration `env:"DEDUP_TTL" envDefault:"10m"`

	// Сообщений в секунду на отправку в Telegram
	SendRate  float64 `env:"SEND_RATE" envDefault:"25"`
	SendBurst int     `env:"SEND_BURST" envDefault:"5"`

	Location *time.Location `env:"-"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return Parse()
}

// Parse читает конфигурацию из переменных окружения
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.StartHour < 0 || c.StartHour >= c.EndHour || c.EndHour > 24 {
		return fmt.Errorf("invalid working hours: START_HOUR=%d END_HOUR=%d", c.StartHour, c.EndHour)
	}

	if c.DateWindow < 1 || c.DateWindow > 14 {
		return fmt.Errorf("DATE_WINDOW must be between 1 and 14, got %d", c.DateWindow)
	}

	if c.PageSize < 1 || c.PageSize > 20 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 20, got %d", c.PageSize)
	}

	if !model.Locale(c.DefaultLocale).IsValid() {
		return fmt.Errorf("unsupported DEFAULT_LOCALE %q", c.DefaultLocale)
	}

	if c.DraftTTL <= 0 {
		return fmt.Errorf("DRAFT_TTL must be positive, got %s", c.DraftTTL)
	}

	if c.JanitorInterval <= 0 {
		return fmt.Errorf("JANITOR_INTERVAL must be positive, got %s", c.JanitorInterval)
	}

	if c.SendRate <= 0 {
		return fmt.Errorf("SEND_RATE must be positive, got %v", c.SendRate)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc

	return nil
}

// Locale язык бота по умолчанию
func (c *Config) Locale() model.Locale {
	return model.Locale(c.DefaultLocale)
}

// RedisEnabled включена ли дедупликация через Redis
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
