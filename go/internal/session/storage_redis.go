package session

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStorage keeps the session in redis under a per-profile prefix
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(addr, password string, db int, profile string) *RedisStorage {
	return NewRedisStorageWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), profile)
}

func NewRedisStorageWithClient(client *redis.Client, profile string) *RedisStorage {
	if profile == "" {
		profile = "default"
	}
	return &RedisStorage{
		client: client,
		prefix: "soccermanager:session:" + profile + ":",
	}
}

func (r *RedisStorage) GetAll(ctx context.Context, keys []string) (map[string]string, error) {
	values, err := r.client.MGet(ctx, r.fullKeys(keys)...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session from redis: %w", err)
	}
	out := make(map[string]string, len(keys))
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

// SetAll writes all keys in one MULTI/EXEC transaction
func (r *RedisStorage) SetAll(ctx context.Context, values map[string]string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write session to redis: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, r.fullKeys(keys)...).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}

func (r *RedisStorage) fullKeys(keys []string) []string {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return full
}
