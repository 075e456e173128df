// Package config loads client settings from .env, an optional YAML file and the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/soccermanager/go/clients/soccer_api_client"
	"github.com/mcdev12/soccermanager/go/internal/dbconfig"
	"github.com/mcdev12/soccermanager/go/internal/session"
)

// Session storage backends
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var ErrUnknownBackend = errors.New("unknown session backend")

type Config struct {
	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	Session struct {
		Backend string `yaml:"backend"`
		Profile string `yaml:"profile"`
		File    string `yaml:"file"`
		DSN     string `yaml:"dsn"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"session"`

	LogLevel string `yaml:"log_level"`
}

// Load reads .env, then the YAML file named by SOCCER_CONFIG, then environment overrides
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	cfg := Default()
	if path := os.Getenv("SOCCER_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = soccer_api_client.DefaultBaseURL
	cfg.Session.Backend = BackendFile
	cfg.Session.Profile = "default"
	cfg.Session.File = defaultSessionFile()
	cfg.Session.Redis.Addr = "localhost:6379"
	cfg.LogLevel = "info"
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.API.BaseURL = getEnv("API_BASE_URL", c.API.BaseURL)
	c.API.Timeout = getEnvAsDuration("HTTP_TIMEOUT", c.API.Timeout)
	c.Session.Backend = strings.ToLower(getEnv("SESSION_BACKEND", c.Session.Backend))
	c.Session.Profile = getEnv("SESSION_PROFILE", c.Session.Profile)
	c.Session.File = getEnv("SESSION_FILE", c.Session.File)
	c.Session.DSN = getEnv("SESSION_DSN", c.Session.DSN)
	c.Session.Redis.Addr = getEnv("REDIS_ADDR", c.Session.Redis.Addr)
	c.Session.Redis.Password = getEnv("REDIS_PASSWORD", c.Session.Redis.Password)
	c.Session.Redis.DB = getEnvAsInt("REDIS_DB", c.Session.Redis.DB)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Level parses LogLevel, falling back to info
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// OpenStorage builds the configured session backend. The returned close
// function releases connections and is never nil.
func (c *Config) OpenStorage(ctx context.Context) (session.Storage, func(), error) {
	noop := func() {}

	switch c.Session.Backend {
	case BackendFile, "":
		return session.NewFileStorage(c.Session.File), noop, nil
	case BackendMemory:
		return session.NewMemoryStorage(), noop, nil
	case BackendRedis:
		storage := session.NewRedisStorage(c.Session.Redis.Addr, c.Session.Redis.Password, c.Session.Redis.DB, c.Session.Profile)
		return storage, func() {
			if err := storage.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close redis session storage")
			}
		}, nil
	case BackendPostgres:
		dsn := c.Session.DSN
		if dsn == "" {
			dsn = dbconfig.NewConfigFromEnv().DSN()
		}
		storage, err := session.NewPostgresStorage(ctx, dsn, c.Session.Profile)
		if err != nil {
			return nil, noop, err
		}
		return storage, storage.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Session.Backend)
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "soccermanager", "session.yaml")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
