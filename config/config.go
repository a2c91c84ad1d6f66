package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8501"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	StoreDriver   string `env:"STORE_DRIVER" default:"memory"`
	StoreCapacity int    `env:"STORE_CAPACITY" default:"50"`
	SQLitePath    string `env:"SQLITE_PATH" default:"./output/runs.db"`

	PostgresHost     string `env:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" default:"listings"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" default:"listings123"`
	PostgresDB       string `env:"POSTGRES_DB" default:"listings_db"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" default:"disable"`

	MaxUploadMB     int `env:"MAX_UPLOAD_MB" default:"50"`
	LoadConcurrency int `env:"LOAD_CONCURRENCY" default:"3"`
	MaxRetries      int `env:"MAX_RETRIES" default:"3"`

	ChromeBin  string `env:"CHROME_BIN"`
	LinkCities string `env:"LINK_CITIES" default:"Vancouver,Surrey"`
}

// Load reads the .env file and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("config: STORE_DRIVER must be one of memory, sqlite, postgres, got %q", c.StoreDriver)
	}

	if c.StoreCapacity < 1 {
		return errors.New("config: STORE_CAPACITY must be positive")
	}
	if c.MaxUploadMB < 1 {
		return errors.New("config: MAX_UPLOAD_MB must be positive")
	}
	if c.LoadConcurrency < 1 {
		return errors.New("config: LOAD_CONCURRENCY must be positive")
	}
	if c.MaxRetries < 1 {
		return errors.New("config: MAX_RETRIES must be positive")
	}
	if len(c.Cities()) == 0 {
		return errors.New("config: LINK_CITIES must name at least one city")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Cities returns the city names that anchor MLS link generation.
func (c *Config) Cities() []string {
	var cities []string
	for _, city := range strings.Split(c.LinkCities, ",") {
		if city = strings.TrimSpace(city); city != "" {
			cities = append(cities, city)
		}
	}
	return cities
}

// MaxUploadBytes is the per-request body limit.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
