package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer  HTTPServer  `yaml:"http_server"`
	Storage     Storage     `yaml:"storage"`
	Redis       Redis       `yaml:"redis"`
	Reservation Reservation `yaml:"reservation"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type Storage struct {
	CatalogPath  string `yaml:"catalog_path" env:"CATALOG_PATH" env-default:"data.json"`
	BookingsPath string `yaml:"bookings_path" env:"BOOKINGS_PATH" env-default:"booking.json"`
	RequestsPath string `yaml:"requests_path" env:"REQUESTS_PATH" env-default:"request.json"`
	// PostgresDSN switches the ledger from json files to postgres when set.
	PostgresDSN string `yaml:"postgres_dsn" env:"LEDGER_POSTGRES_DSN"`
}

type Redis struct {
	// Addr enables the redis reservation lease when set, for replicas
	// sharing one catalog snapshot.
	Addr string `yaml:"addr" env:"REDIS_ADDR"`
}

type Reservation struct {
	LockTTL   time.Duration `yaml:"lock_ttl" env:"RESERVATION_LOCK_TTL" env-default:"10s"`
	LockRetry time.Duration `yaml:"lock_retry" env:"RESERVATION_LOCK_RETRY" env-default:"20ms"`
}

// MustLoad reads the config file named by the -config flag or CONFIG_PATH.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to read .env file: %v", err)
	}

	cfg, err := Load(fetchConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	return cfg
}

// Load reads path when it exists and falls back to environment variables only.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: read %s: %w", op, path, err)
		}
		return &cfg, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: read env: %w", op, err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = defaultConfigPath
	}

	return res
}
