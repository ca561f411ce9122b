package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.BaseURL() != "http://localhost:8080/api/v1" {
		t.Errorf("BaseURL() = %q, ожидается http://localhost:8080/api/v1", cfg.BaseURL())
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("HTTPTimeout = %v, ожидается 0", cfg.HTTPTimeout)
	}
	if cfg.BreakerEnabled {
		t.Error("BreakerEnabled по умолчанию должен быть false")
	}
	if cfg.CacheStaleTime != 5*time.Minute {
		t.Errorf("CacheStaleTime = %v, ожидается 5m", cfg.CacheStaleTime)
	}
	if cfg.CacheRetry != 1 {
		t.Errorf("CacheRetry = %d, ожидается 1", cfg.CacheRetry)
	}
	if cfg.SessionStorage != SessionStorageFile {
		t.Errorf("SessionStorage = %q, ожидается file", cfg.SessionStorage)
	}
	if !strings.HasSuffix(cfg.SessionFile, "session.json") {
		t.Errorf("SessionFile = %q, ожидается путь к session.json", cfg.SessionFile)
	}
	if cfg.NotifyDuration != 2500*time.Millisecond {
		t.Errorf("NotifyDuration = %v, ожидается 2.5s", cfg.NotifyDuration)
	}
	if cfg.Port != 8090 {
		t.Errorf("Port = %d, ожидается 8090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setEnvs(t, map[string]string{
		"MRO_API_URL":          "https://mro.kmm.co.id/",
		"MRO_API_BASE_PATH":    "api/v2/",
		"MRO_USER_APPLICATION": "wallboard",
		"MRO_HTTP_TIMEOUT":     "10s",
		"MRO_BREAKER_ENABLED":  "true",
		"MRO_CACHE_STALE_TIME": "1m",
		"MRO_CACHE_TTL":        "10m",
		"MRO_SESSION_STORAGE":  "redis",
		"MRO_REDIS_ADDR":       "redis:6379",
		"MRO_REDIS_DB":         "2",
		"MRO_LOG_LEVEL":        "debug",
		"MRO_LOG_FORMAT":       "text",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.BaseURL() != "https://mro.kmm.co.id/api/v2" {
		t.Errorf("BaseURL() = %q", cfg.BaseURL())
	}
	if cfg.UserApplication != "wallboard" {
		t.Errorf("UserApplication = %q", cfg.UserApplication)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, ожидается 10s", cfg.HTTPTimeout)
	}
	if !cfg.BreakerEnabled {
		t.Error("BreakerEnabled должен быть true")
	}
	if cfg.SessionStorage != SessionStorageRedis || cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 2 {
		t.Errorf("Redis: %q %q %d", cfg.SessionStorage, cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидается Debug", cfg.LogLevel)
	}
}

func TestLoad_EmptyBasePath(t *testing.T) {
	setEnvs(t, map[string]string{"MRO_API_BASE_PATH": "/"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.BaseURL() != "http://localhost:8080" {
		t.Errorf("BaseURL() = %q, ожидается http://localhost:8080", cfg.BaseURL())
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"схема URL", "MRO_API_URL", "ftp://mro"},
		{"URL без хоста", "MRO_API_URL", "http://"},
		{"таймаут", "MRO_HTTP_TIMEOUT", "десять"},
		{"отрицательный таймаут", "MRO_HTTP_TIMEOUT", "-1s"},
		{"размер кэша", "MRO_CACHE_SIZE", "0"},
		{"TTL меньше stale", "MRO_CACHE_TTL", "1m"},
		{"хранилище", "MRO_SESSION_STORAGE", "sqlite"},
		{"порт", "MRO_PORT", "70000"},
		{"уровень логов", "MRO_LOG_LEVEL", "trace"},
		{"формат логов", "MRO_LOG_FORMAT", "xml"},
		{"breaker", "MRO_BREAKER_ENABLED", "да"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("ожидалась ошибка для %s=%q", tt.key, tt.val)
			} else if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("ошибка %q должна упоминать %s", err, tt.key)
			}
		})
	}
}

func TestRequireLogin(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireLogin(); err == nil {
		t.Error("ожидалась ошибка без MRO_LOGIN_EMAIL")
	}
	cfg.LoginEmail = "portal@kmm.co.id"
	if err := cfg.RequireLogin(); err == nil || !strings.Contains(err.Error(), "MRO_LOGIN_PASSWORD") {
		t.Errorf("ожидалась ошибка про MRO_LOGIN_PASSWORD, получено %v", err)
	}
	cfg.LoginPassword = "secret"
	if err := cfg.RequireLogin(); err != nil {
		t.Errorf("RequireLogin() = %v", err)
	}
}
