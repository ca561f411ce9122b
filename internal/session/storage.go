package session

import (
	"context"
	"maps"
	"sync"
)

// Ключи хранилища сессии.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
	KeyLanguage     = "language"
)

// storageKeys — все ключи, которые читает Store.
var storageKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyLanguage}

// authKeys — ключи, удаляемые при выходе.
var authKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// Storage — долговременное хранилище строковых значений сессии.
type Storage interface {
	// Load возвращает все сохранённые значения. Отсутствующие ключи в результат не попадают.
	Load(ctx context.Context) (map[string]string, error)
	// Save записывает значения одной операцией; остальные ключи не изменяются.
	Save(ctx context.Context, values map[string]string) error
	// Delete удаляет ключи. Отсутствующие ключи не считаются ошибкой.
	Delete(ctx context.Context, keys ...string) error
}

// MemoryStorage — хранилище в памяти процесса (тесты, одноразовые запуски).
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage создаёт хранилище с начальными значениями (может быть nil).
func NewMemoryStorage(initial map[string]string) *MemoryStorage {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &MemoryStorage{values: values}
}

func (m *MemoryStorage) Load(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values), nil
}

func (m *MemoryStorage) Save(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.values, values)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
