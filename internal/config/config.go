// Пакет config — загрузка и валидация конфигурации клиентского слоя
// KMM MRO и построенных на нём программ (mro-portal, mroctl)
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Типы хранилища сессии.
const (
	SessionStorageFile   = "file"
	SessionStorageMemory = "memory"
	SessionStorageRedis  = "redis"
)

// Config содержит все параметры конфигурации.
type Config struct {
	// --- Бэкенд MRO ---

	// Адрес бэкенда без базового пути (по умолчанию http://localhost:8080)
	APIURL string
	// Базовый путь REST API (по умолчанию /api/v1)
	APIBasePath string
	// Значение заголовка User-Application
	UserApplication string
	// Язык по умолчанию для User-Language, если в хранилище его нет
	Language string
	// Таймаут HTTP-запросов к бэкенду (0 — без таймаута)
	HTTPTimeout time.Duration
	// Включить circuit breaker для запросов к бэкенду
	BreakerEnabled bool
	// Количество подряд неудачных запросов до размыкания
	BreakerMaxFailures int
	// Время в разомкнутом состоянии до пробного запроса
	BreakerOpenTimeout time.Duration

	// --- Кэш запросов ---

	// Максимальное количество записей кэша
	CacheSize int
	// Окно свежести записи (по умолчанию 5m)
	CacheStaleTime time.Duration
	// Время жизни записи в кэше (по умолчанию 30m)
	CacheTTL time.Duration
	// Количество повторов загрузки при ошибке (по умолчанию 1)
	CacheRetry int

	// --- Сессия ---

	// Тип хранилища: file, memory, redis
	SessionStorage string
	// Путь к файлу сессии (для file)
	SessionFile string
	// Адрес Redis (для redis)
	RedisAddr string
	// Пароль Redis
	RedisPassword string
	// Номер БД Redis
	RedisDB int
	// Префикс ключей сессии в Redis
	RedisPrefix string

	// --- Уведомления ---

	// Время показа уведомления; повтор с тем же ID в этом окне подавляется
	NotifyDuration time.Duration

	// --- Портал ---

	// Порт HTTP-сервера портала
	Port int
	// Учётные данные сервисного аккаунта портала
	LoginEmail    string
	LoginPassword string //nolint:gosec // поле структуры, не содержит секрет напрямую
	// Запас до истечения access-токена, за который портал перелогинивается
	TokenRefreshAhead time.Duration
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// --- Мониторинг зависимостей ---

	// Группа сервиса для dephealth
	DephealthGroup string
	// Интервал проверки бэкенда
	DephealthCheckInterval time.Duration

	// --- Трассировка ---

	// Адрес OTLP-коллектора (пусто — трассировка выключена)
	OTelEndpoint string
	// Подключение к коллектору без TLS
	OTelInsecure bool

	// --- Graceful shutdown ---

	ShutdownTimeout time.Duration
}

// BaseURL возвращает полный базовый адрес API: APIURL + APIBasePath.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.APIURL, "/") + c.APIBasePath
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Бэкенд MRO ---

	// MRO_API_URL — адрес бэкенда (по умолчанию http://localhost:8080)
	cfg.APIURL = getEnvDefault("MRO_API_URL", "http://localhost:8080")
	if err := validateURL(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("MRO_API_URL: %w", err)
	}

	// MRO_API_BASE_PATH — базовый путь (по умолчанию /api/v1)
	cfg.APIBasePath = "/" + strings.Trim(getEnvDefault("MRO_API_BASE_PATH", "/api/v1"), "/")
	if cfg.APIBasePath == "/" {
		cfg.APIBasePath = ""
	}

	cfg.UserApplication = getEnvDefault("MRO_USER_APPLICATION", "kmm-mro-shared/"+Version)
	cfg.Language = getEnvDefault("MRO_LANGUAGE", "en")

	// MRO_HTTP_TIMEOUT — таймаут запросов (по умолчанию 0, без таймаута)
	cfg.HTTPTimeout, err = getEnvDuration("MRO_HTTP_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("MRO_HTTP_TIMEOUT: %w", err)
	}

	cfg.BreakerEnabled, err = getEnvBool("MRO_BREAKER_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("MRO_BREAKER_ENABLED: %w", err)
	}
	cfg.BreakerMaxFailures, err = getEnvInt("MRO_BREAKER_MAX_FAILURES", 5)
	if err != nil {
		return nil, fmt.Errorf("MRO_BREAKER_MAX_FAILURES: %w", err)
	}
	if cfg.BreakerMaxFailures < 1 {
		return nil, fmt.Errorf("MRO_BREAKER_MAX_FAILURES: значение должно быть >= 1")
	}
	cfg.BreakerOpenTimeout, err = getEnvDuration("MRO_BREAKER_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MRO_BREAKER_OPEN_TIMEOUT: %w", err)
	}

	// --- Кэш запросов ---

	cfg.CacheSize, err = getEnvInt("MRO_CACHE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("MRO_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("MRO_CACHE_SIZE: значение должно быть >= 1")
	}
	cfg.CacheStaleTime, err = getEnvDuration("MRO_CACHE_STALE_TIME", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("MRO_CACHE_STALE_TIME: %w", err)
	}
	cfg.CacheTTL, err = getEnvDuration("MRO_CACHE_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("MRO_CACHE_TTL: %w", err)
	}
	if cfg.CacheTTL < cfg.CacheStaleTime {
		return nil, fmt.Errorf("MRO_CACHE_TTL: значение %s меньше MRO_CACHE_STALE_TIME %s", cfg.CacheTTL, cfg.CacheStaleTime)
	}
	cfg.CacheRetry, err = getEnvInt("MRO_CACHE_RETRY", 1)
	if err != nil {
		return nil, fmt.Errorf("MRO_CACHE_RETRY: %w", err)
	}
	if cfg.CacheRetry < 0 {
		return nil, fmt.Errorf("MRO_CACHE_RETRY: значение должно быть >= 0")
	}

	// --- Сессия ---

	cfg.SessionStorage = getEnvDefault("MRO_SESSION_STORAGE", SessionStorageFile)
	switch cfg.SessionStorage {
	case SessionStorageFile, SessionStorageMemory, SessionStorageRedis:
	default:
		return nil, fmt.Errorf("MRO_SESSION_STORAGE: недопустимое значение %q, допустимые: file, memory, redis", cfg.SessionStorage)
	}
	cfg.SessionFile = getEnvDefault("MRO_SESSION_FILE", defaultSessionFile())
	cfg.RedisAddr = getEnvDefault("MRO_REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("MRO_REDIS_PASSWORD")
	cfg.RedisDB, err = getEnvInt("MRO_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("MRO_REDIS_DB: %w", err)
	}
	cfg.RedisPrefix = getEnvDefault("MRO_REDIS_PREFIX", "mro:session:")

	// --- Уведомления ---

	cfg.NotifyDuration, err = getEnvDuration("MRO_NOTIFY_DURATION", 2500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("MRO_NOTIFY_DURATION: %w", err)
	}

	// --- Портал ---

	cfg.Port, err = getEnvInt("MRO_PORT", 8090)
	if err != nil {
		return nil, fmt.Errorf("MRO_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("MRO_PORT: порт %d вне диапазона 1-65535", cfg.Port)
	}
	cfg.LoginEmail = os.Getenv("MRO_LOGIN_EMAIL")
	cfg.LoginPassword = os.Getenv("MRO_LOGIN_PASSWORD")
	cfg.TokenRefreshAhead, err = getEnvDuration("MRO_TOKEN_REFRESH_AHEAD", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("MRO_TOKEN_REFRESH_AHEAD: %w", err)
	}

	// MRO_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("MRO_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("MRO_LOG_LEVEL: %w", err)
	}

	// MRO_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("MRO_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("MRO_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("MRO_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MRO_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("MRO_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MRO_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("MRO_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MRO_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Мониторинг зависимостей ---

	cfg.DephealthGroup = getEnvDefault("MRO_DEPHEALTH_GROUP", "kmm-mro")
	cfg.DephealthCheckInterval, err = getEnvDuration("MRO_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MRO_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Трассировка ---

	cfg.OTelEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTelInsecure, err = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	if err != nil {
		return nil, fmt.Errorf("OTEL_EXPORTER_OTLP_INSECURE: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("MRO_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MRO_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// RequireLogin проверяет, что заданы учётные данные сервисного аккаунта.
// Нужны только порталу; CLI логинится интерактивно.
func (c *Config) RequireLogin() error {
	if c.LoginEmail == "" {
		return fmt.Errorf("MRO_LOGIN_EMAIL: обязательная переменная окружения не задана")
	}
	if c.LoginPassword == "" {
		return fmt.Errorf("MRO_LOGIN_PASSWORD: обязательная переменная окружения не задана")
	}
	return nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// defaultSessionFile — файл сессии в пользовательском каталоге конфигурации.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "kmm-mro", "session.json")
}

// validateURL проверяет, что адрес абсолютный и использует http или https.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("некорректный URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("некорректная схема %q, допустимые: http, https", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("в URL %q не указан хост", raw)
	}
	return nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	if d < 0 {
		return 0, fmt.Errorf("значение должно быть >= 0")
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
