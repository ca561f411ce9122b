package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage — хранилище сессии в JSON-файле (объект строковых значений).
// Запись атомарная: temp файл → fsync → rename.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage создаёт файловое хранилище. Файл и каталог создаются при первой записи.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path возвращает путь к файлу сессии.
func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) Load(context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FileStorage) Save(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		// повреждённый файл перезаписывается новыми значениями
		current = make(map[string]string, len(values))
	}
	maps.Copy(current, values)
	return f.write(current)
}

func (f *FileStorage) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		current = map[string]string{}
	}
	for _, k := range keys {
		delete(current, k)
	}
	return f.write(current)
}

// read читает файл. Отсутствующий файл — пустая сессия.
func (f *FileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла сессии: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("ошибка десериализации файла сессии: %w", err)
	}
	return values, nil
}

func (f *FileStorage) write(values map[string]string) error {
	jsonData, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессии: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("ошибка создания каталога сессии: %w", err)
	}

	tmpPath := f.path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("ошибка создания temp файла сессии: %w", err)
	}

	if _, err := file.Write(jsonData); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи temp файла сессии: %w", err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ошибка fsync temp файла сессии: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия temp файла сессии: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ошибка rename файла сессии: %w", err)
	}
	return nil
}
