// Package dbconfig builds the postgres connection string of the shared
// session table from SESSION_DB_* variables.
package dbconfig

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// ApplicationName tags session connections in pg_stat_activity
const ApplicationName = "soccermanager-session"

// Config holds the connection settings of the session database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	// MaxConns caps the pgxpool; 0 keeps the pool default
	MaxConns int
}

// NewConfigFromEnv reads SESSION_DB_* environment variables (with defaults).
func NewConfigFromEnv() Config {
	return Config{
		Host:     getEnv("SESSION_DB_HOST", "localhost"),
		Port:     getEnvAsInt("SESSION_DB_PORT", 5432),
		User:     getEnv("SESSION_DB_USER", "postgres"),
		Password: getEnv("SESSION_DB_PASSWORD", "postgres"),
		Database: getEnv("SESSION_DB_NAME", "soccermanager"),
		SSLMode:  getEnv("SESSION_DB_SSLMODE", "disable"),
		MaxConns: getEnvAsInt("SESSION_DB_MAX_CONNS", 2),
	}
}

// DSN returns the connection URL understood by pgxpool.ParseConfig.
func (c Config) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("application_name", ApplicationName)
	if c.MaxConns > 0 {
		q.Set("pool_max_conns", strconv.Itoa(c.MaxConns))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
