// Точка входа MRO Portal — read-only HTTP API над клиентским слоем MRO:
// метрики дашборда и тикеты от имени сервисного аккаунта, с кэшем запросов.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bambang-ap/kmm-mro-shared/internal/api/handlers"
	"github.com/bambang-ap/kmm-mro-shared/internal/api/middleware"
	"github.com/bambang-ap/kmm-mro-shared/internal/app"
	"github.com/bambang-ap/kmm-mro-shared/internal/config"
	"github.com/bambang-ap/kmm-mro-shared/internal/notify"
	"github.com/bambang-ap/kmm-mro-shared/internal/server"
	"github.com/bambang-ap/kmm-mro-shared/internal/service"
	"github.com/bambang-ap/kmm-mro-shared/internal/telemetry"
)

// reloginCheckInterval — период проверки срока действия access-токена.
const reloginCheckInterval = 30 * time.Second

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireLogin(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("MRO Portal запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("api_url", cfg.BaseURL()),
		slog.String("session_storage", cfg.SessionStorage),
	)

	ctx := context.Background()

	// 1. Трассировка
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "mro-portal",
		Version:     config.Version,
		Endpoint:    cfg.OTelEndpoint,
		Insecure:    cfg.OTelInsecure,
	}, logger)
	if err != nil {
		logger.Error("Ошибка инициализации трассировки", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Сессия сервисного аккаунта
	store, closeStorage, err := app.OpenSession(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка открытия хранилища сессии", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Повторный вход: переход на /login после 401 запускает вход заново
	relogin := service.NewReloginService(store, cfg.LoginEmail, cfg.LoginPassword,
		cfg.TokenRefreshAhead, reloginCheckInterval, logger)

	// 4. Клиентский слой: httpclient → backend → кэш → hooks
	notifier := notify.NewCenter(cfg.NotifyDuration, notify.LogSink(logger))
	mro := app.New(cfg, store, logger, app.Options{
		Notifier:  notifier,
		Navigator: relogin.Navigator(),
	})

	// 5. Фоновые процессы
	relogin.Start(ctx, mro.Hooks)

	// topologymetrics — мониторинг бэкенда
	var backendChecker handlers.ReadinessChecker
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"mro-portal",
		cfg.DephealthGroup,
		cfg.APIURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		backendChecker = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("api_url", cfg.APIURL),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 6. Handlers
	healthHandler := handlers.NewHealthHandler(relogin, backendChecker)
	portalHandler := handlers.NewPortalHandler(mro.Hooks, logger)

	// 7. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, healthHandler, portalHandler,
		middleware.RequestLogger(logger),
		middleware.MetricsMiddleware(),
	)

	runErr := srv.Run(ctx)
	if runErr != nil {
		logger.Error("Ошибка сервера", slog.String("error", runErr.Error()))
	}

	// --- Graceful shutdown фоновых процессов ---
	logger.Info("Остановка фоновых процессов...")

	relogin.Stop()
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	if err := closeStorage(); err != nil {
		logger.Warn("Ошибка закрытия хранилища сессии", slog.String("error", err.Error()))
	}

	flushCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("Ошибка остановки трассировки", slog.String("error", err.Error()))
	}

	if runErr != nil {
		os.Exit(1) //nolint:gocritic // defer cancel не критичен при аварийном выходе
	}
	logger.Info("MRO Portal остановлен")
}
