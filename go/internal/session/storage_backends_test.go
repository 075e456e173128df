package session

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the store lifecycle against a live backend
func exerciseStorage(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()

	store := NewStore(storage)
	require.NoError(t, store.Set(ctx, alice))

	reloaded := NewStore(storage)
	require.NoError(t, reloaded.Restore(ctx))
	got, ok := reloaded.Current()
	require.True(t, ok)
	assert.Equal(t, alice, got)

	require.NoError(t, reloaded.Clear(ctx))
	values, err := storage.GetAll(ctx, Keys)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	storage := NewRedisStorage(addr, os.Getenv("REDIS_PASSWORD"), 0, "test-"+t.Name())
	defer storage.Close()

	exerciseStorage(t, storage)
}

func TestPostgresStorage(t *testing.T) {
	dsn := os.Getenv("SESSION_DSN")
	if dsn == "" {
		t.Skip("SESSION_DSN not set")
	}
	storage, err := NewPostgresStorage(context.Background(), dsn, "test-"+t.Name())
	require.NoError(t, err)
	defer storage.Close()

	exerciseStorage(t, storage)
}
