// Пакет app — сборка клиентского слоя MRO из конфигурации:
// хранилище сессии, HTTP-клиент, API бэкенда, кэш запросов и hooks.
// Используется порталом и CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/config"
	"github.com/bambang-ap/kmm-mro-shared/internal/hooks"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/notify"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
	"github.com/bambang-ap/kmm-mro-shared/internal/session"
)

// redisDialTimeout — таймаут проверки подключения к Redis при старте.
const redisDialTimeout = 5 * time.Second

// OpenSession открывает хранилище сессии по MRO_SESSION_STORAGE и загружает сессию.
// Возвращаемая функция закрывает соединения хранилища.
func OpenSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session.Store, func() error, error) {
	storage, closeFn, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Хранилище сессии открыто", slog.String("storage", cfg.SessionStorage))
	return session.Open(ctx, storage, logger), closeFn, nil
}

func openStorage(ctx context.Context, cfg *config.Config) (session.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.SessionStorage {
	case config.SessionStorageMemory:
		return session.NewMemoryStorage(nil), noop, nil
	case config.SessionStorageRedis:
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		defer cancel()
		if err := rc.Ping(pingCtx).Err(); err != nil {
			_ = rc.Close()
			return nil, nil, fmt.Errorf("подключение к Redis %s: %w", cfg.RedisAddr, err)
		}
		return session.NewRedisStorage(rc, cfg.RedisPrefix), rc.Close, nil
	default:
		return session.NewFileStorage(cfg.SessionFile), noop, nil
	}
}

// Options — зависимости окружения: куда показывать уведомления
// и как выполнять переходы после 401.
type Options struct {
	Notifier  notify.Notifier
	Navigator httpclient.Navigator
	Route     httpclient.RouteFunc
}

// App — собранный клиентский слой.
type App struct {
	Session *session.Store
	HTTP    *httpclient.Client
	API     *backend.Client
	Cache   *querycache.Cache
	Hooks   *hooks.Hooks
}

// New собирает клиентский слой поверх открытой сессии.
func New(cfg *config.Config, store *session.Store, logger *slog.Logger, opts Options) *App {
	hc := httpclient.New(httpclient.Config{
		BaseURL:         cfg.BaseURL(),
		UserApplication: cfg.UserApplication,
		DefaultLanguage: cfg.Language,
		Timeout:         cfg.HTTPTimeout,
		Breaker:         BreakerSettings(cfg),
		Session:         store,
		Navigator:       opts.Navigator,
		Route:           opts.Route,
		Notifier:        opts.Notifier,
	}, logger)

	api := backend.New(hc, logger)
	cache := querycache.New(CacheOptions(cfg), logger)

	return &App{
		Session: store,
		HTTP:    hc,
		API:     api,
		Cache:   cache,
		Hooks: hooks.New(hooks.Config{
			Cache:     cache,
			API:       api,
			Session:   store,
			Notifier:  opts.Notifier,
			Navigator: opts.Navigator,
			Route:     opts.Route,
		}, logger),
	}
}

// CacheOptions переводит MRO_CACHE_* в параметры кэша.
// MRO_CACHE_RETRY=0 отключает повторы.
func CacheOptions(cfg *config.Config) querycache.Options {
	retry := cfg.CacheRetry
	if retry == 0 {
		retry = -1
	}
	return querycache.Options{
		Size:      cfg.CacheSize,
		StaleTime: cfg.CacheStaleTime,
		TTL:       cfg.CacheTTL,
		Retry:     retry,
	}
}

// BreakerSettings возвращает параметры circuit breaker или nil, если он выключен.
func BreakerSettings(cfg *config.Config) *httpclient.BreakerSettings {
	if !cfg.BreakerEnabled {
		return nil
	}
	return &httpclient.BreakerSettings{
		Name:        "mro-backend",
		MaxFailures: uint32(cfg.BreakerMaxFailures), //nolint:gosec // значение проверено в config.Load (>= 1)
		OpenTimeout: cfg.BreakerOpenTimeout,
	}
}
