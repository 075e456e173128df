package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/soccermanager/go/internal/session"
)

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soccer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://api.example.com
  timeout: 5s
session:
  backend: redis
  redis:
    addr: cache:6379
    db: 2
log_level: debug
`), 0o600))

	t.Setenv("SOCCER_CONFIG", path)
	t.Setenv("REDIS_DB", "4")
	t.Setenv("API_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Equal(t, "cache:6379", cfg.Session.Redis.Addr)
	assert.Equal(t, 4, cfg.Session.Redis.DB)
	assert.Equal(t, "default", cfg.Session.Profile)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("SOCCER_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"warn", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"chatty", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Config{LogLevel: tt.in}).Level())
		})
	}
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := Default()
		cfg.Session.Backend = BackendMemory
		storage, closeFn, err := cfg.OpenStorage(ctx)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &session.MemoryStorage{}, storage)
	})

	t.Run("file", func(t *testing.T) {
		cfg := Default()
		cfg.Session.File = filepath.Join(t.TempDir(), "session.yaml")
		storage, closeFn, err := cfg.OpenStorage(ctx)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &session.FileStorage{}, storage)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := Default()
		cfg.Session.Backend = "floppy"
		_, closeFn, err := cfg.OpenStorage(ctx)
		assert.ErrorIs(t, err, ErrUnknownBackend)
		assert.NotNil(t, closeFn)
	})
}
