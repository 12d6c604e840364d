package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"cafe-system/internal/models"
)

// Menu sources
const (
	MenuSourceBuiltin  = "builtin"
	MenuSourceConfig   = "config"
	MenuSourcePostgres = "postgres"
)

// Config holds all configuration for the cafe system
type Config struct {
	Cafe     CafeConfig         `yaml:"cafe"`
	Log      LogConfig          `yaml:"log"`
	Database DatabaseConfig     `yaml:"database"`
	RabbitMQ RabbitMQConfig     `yaml:"rabbitmq"`
	Menu     []models.SeedEntry `yaml:"menu"`
}

// CafeConfig holds order-taking limits and where the menu comes from
type CafeConfig struct {
	OrderCapacity  int    `yaml:"order_capacity" env:"CAFE_ORDER_CAPACITY" env-default:"10"`
	LedgerCapacity int    `yaml:"ledger_capacity" env:"CAFE_LEDGER_CAPACITY" env-default:"10"`
	MenuSource     string `yaml:"menu_source" env:"CAFE_MENU_SOURCE" env-default:"builtin"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Env   string `yaml:"env" env:"ENV" env-default:"local"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"cafe"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Database string `yaml:"database" env:"DB_NAME" env-default:"cafe"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled" env:"RABBITMQ_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"RABBITMQ_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"RABBITMQ_PORT" env-default:"5672"`
	User     string `yaml:"user" env:"RABBITMQ_USER" env-default:"guest"`
	Password string `yaml:"password" env:"RABBITMQ_PASSWORD" env-default:"guest"`
}

// Load reads configuration from a YAML file with environment overrides.
// A missing file is not an error: defaults and environment are used instead.
func Load(filename string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{}

	_, statErr := os.Stat(filename)
	switch {
	case filename != "" && statErr == nil:
		if err := cleanenv.ReadConfig(filename, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	case filename == "" || errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to open config file: %w", statErr)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv exports variables from an optional .env file
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Cafe.OrderCapacity <= 0 {
		return fmt.Errorf("cafe.order_capacity must be positive, got %d", c.Cafe.OrderCapacity)
	}
	if c.Cafe.LedgerCapacity <= 0 {
		return fmt.Errorf("cafe.ledger_capacity must be positive, got %d", c.Cafe.LedgerCapacity)
	}

	switch c.Cafe.MenuSource {
	case MenuSourceBuiltin, MenuSourcePostgres:
	case MenuSourceConfig:
		if len(c.Menu) == 0 {
			return fmt.Errorf("cafe.menu_source is %q but the menu section is empty", MenuSourceConfig)
		}
	default:
		return fmt.Errorf("unknown cafe.menu_source: %s", c.Cafe.MenuSource)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
