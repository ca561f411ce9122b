// relogin.go — поддержание сессии сервисного аккаунта портала.
//
// Портал работает от имени одного аккаунта (MRO_LOGIN_EMAIL / MRO_LOGIN_PASSWORD).
// Сервис выполняет вход:
//  1. При старте, если сохранённой сессии нет
//  2. Заранее, когда до истечения access-токена остаётся меньше MRO_TOKEN_REFRESH_AHEAD
//  3. Немедленно после 401 от бэкенда (переход на /login от httpclient)
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/session"
)

// reloginTotal — количество попыток входа сервисного аккаунта.
var reloginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mro_portal_relogin_total",
	Help: "Общее количество попыток входа сервисного аккаунта",
}, []string{"reason", "result"})

// Причины входа.
const (
	reasonNoSession    = "no_session"
	reasonExpiring     = "expiring"
	reasonUnauthorized = "unauthorized"
)

// TokenSource — состояние сессии, по которому планируется вход.
type TokenSource interface {
	IsAuthenticated() bool
	AccessTokenExpiry() (time.Time, error)
}

// Authenticator выполняет вход и сохраняет сессию.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.User, error)
}

// ReloginService — фоновый сервис входа сервисного аккаунта.
type ReloginService struct {
	tokens       TokenSource
	email        string
	password     string
	refreshAhead time.Duration
	interval     time.Duration
	logger       *slog.Logger
	now          func() time.Time

	trigger chan struct{}

	mu     sync.Mutex // защита от параллельного входа
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReloginService создаёт сервис входа.
// interval — период проверки срока действия токена.
func NewReloginService(
	tokens TokenSource,
	email, password string,
	refreshAhead time.Duration,
	interval time.Duration,
	logger *slog.Logger,
) *ReloginService {
	return &ReloginService{
		tokens:       tokens,
		email:        email,
		password:     password,
		refreshAhead: refreshAhead,
		interval:     interval,
		logger:       logger.With(slog.String("component", "relogin")),
		now:          time.Now,
		trigger:      make(chan struct{}, 1),
	}
}

// Trigger запрашивает внеочередной вход. Не блокирует: повторные
// запросы до обработки первого объединяются.
func (rs *ReloginService) Trigger() {
	select {
	case rs.trigger <- struct{}{}:
	default:
	}
}

// Navigator возвращает обработчик переходов для httpclient:
// переход на /login после 401 запускает повторный вход.
func (rs *ReloginService) Navigator() httpclient.Navigator {
	return func(_ context.Context, route string) {
		if route == httpclient.LoginRoute {
			rs.logger.Warn("Сессия истекла, запрошен повторный вход")
			rs.Trigger()
		}
	}
}

// Start запускает фоновую горутину. Первая проверка выполняется сразу.
func (rs *ReloginService) Start(ctx context.Context, auth Authenticator) {
	runCtx, cancel := context.WithCancel(ctx)
	rs.cancel = cancel
	rs.done = make(chan struct{})

	go rs.run(runCtx, auth)

	rs.logger.Info("Сервис входа запущен",
		slog.String("interval", rs.interval.String()),
		slog.String("refresh_ahead", rs.refreshAhead.String()),
	)
}

// Stop останавливает фоновую горутину и ждёт её завершения.
func (rs *ReloginService) Stop() {
	if rs.cancel == nil {
		return
	}
	rs.cancel()
	<-rs.done
	rs.logger.Info("Сервис входа остановлен")
}

func (rs *ReloginService) run(ctx context.Context, auth Authenticator) {
	defer close(rs.done)

	_ = rs.login(ctx, auth, false)

	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-rs.trigger:
			_ = rs.login(ctx, auth, true)
		case <-ticker.C:
			_ = rs.login(ctx, auth, false)
		}
	}
}

// RunOnce выполняет вход, если он нужен. Возвращает ошибку входа.
func (rs *ReloginService) RunOnce(ctx context.Context, auth Authenticator) error {
	return rs.login(ctx, auth, false)
}

// login выполняет вход, если он нужен; triggered — запрос пришёл после 401.
func (rs *ReloginService) login(ctx context.Context, auth Authenticator, triggered bool) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	reason, ok := rs.reason(triggered)
	if !ok {
		return nil
	}

	user, err := auth.Login(ctx, rs.email, rs.password)
	if err != nil {
		reloginTotal.WithLabelValues(reason, "error").Inc()
		rs.logger.Error("Ошибка входа сервисного аккаунта",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		return err
	}

	reloginTotal.WithLabelValues(reason, "success").Inc()
	rs.logger.Info("Вход сервисного аккаунта выполнен",
		slog.String("reason", reason),
		slog.String("user_uuid", user.UUID),
	)
	return nil
}

// reason определяет, нужен ли вход и по какой причине.
func (rs *ReloginService) reason(triggered bool) (string, bool) {
	if !rs.tokens.IsAuthenticated() {
		if triggered {
			return reasonUnauthorized, true
		}
		return reasonNoSession, true
	}

	exp, err := rs.tokens.AccessTokenExpiry()
	if errors.Is(err, session.ErrNoExpiry) {
		return "", false
	}
	if err != nil {
		rs.logger.Warn("Не удалось определить срок действия токена", slog.String("error", err.Error()))
		return reasonExpiring, true
	}
	if !rs.now().Add(rs.refreshAhead).Before(exp) {
		return reasonExpiring, true
	}
	return "", false
}

// CheckReady — проверка готовности для /health/ready.
func (rs *ReloginService) CheckReady() (status, message string) {
	if rs.tokens.IsAuthenticated() {
		return "ok", ""
	}
	return "fail", "сервисный аккаунт не авторизован"
}
