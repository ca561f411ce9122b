package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage — хранилище сессии в Redis, общее для нескольких экземпляров портала.
// Ключи: prefix + имя ключа сессии.
type RedisStorage struct {
	rc     redis.Cmdable
	prefix string
}

// NewRedisStorage создаёт хранилище поверх клиента Redis.
func NewRedisStorage(rc redis.Cmdable, prefix string) *RedisStorage {
	return &RedisStorage{rc: rc, prefix: prefix}
}

func (r *RedisStorage) key(name string) string {
	return r.prefix + name
}

func (r *RedisStorage) Load(ctx context.Context) (map[string]string, error) {
	keys := make([]string, len(storageKeys))
	for i, k := range storageKeys {
		keys[i] = r.key(k)
	}

	vals, err := r.rc.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сессии из Redis: %w", err)
	}

	values := make(map[string]string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			values[storageKeys[i]] = s
		}
	}
	return values, nil
}

func (r *RedisStorage) Save(ctx context.Context, values map[string]string) error {
	_, err := r.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка записи сессии в Redis: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.rc.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("ошибка удаления сессии из Redis: %w", err)
	}
	return nil
}
