// Пакет hooks — операции чтения и изменения данных поверх backend с кэшем
// запросов: чтения идут через querycache, изменения после успеха
// инвалидируют затронутые семейства ключей и показывают уведомления.
package hooks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/notify"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
)

// LoginRoute — маршрут экрана входа.
const LoginRoute = "/login"

// redirectDelay — задержка перехода на экран входа после отправки письма сброса пароля.
const redirectDelay = time.Second

// Session — состояние аутентификации, которое меняют хуки входа, выхода и профиля.
type Session interface {
	SetCredentials(ctx context.Context, user model.User, accessToken, refreshToken string) error
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, patch model.UserPatch) error
	User() (model.User, error)
}

// Config — зависимости Hooks. Notifier, Navigator и Route необязательны.
type Config struct {
	Cache     *querycache.Cache
	API       *backend.Client
	Session   Session
	Notifier  notify.Notifier
	Navigator httpclient.Navigator
	Route     httpclient.RouteFunc
}

// Hooks — операции над ресурсами бэкенда с кэшированием.
type Hooks struct {
	cache    *querycache.Cache
	api      *backend.Client
	session  Session
	notifier notify.Notifier
	navigate httpclient.Navigator
	route    httpclient.RouteFunc
	logger   *slog.Logger
	now      func() time.Time
	after    func(d time.Duration, fn func())

	Stores          *ResourceHooks[model.Store, model.StoreRequest]
	WorkCategories  *ResourceHooks[model.WorkCategory, model.WorkCategoryRequest]
	FloorAreas      *ResourceHooks[model.FloorArea, model.FloorAreaRequest]
	RoomAreas       *ResourceHooks[model.RoomArea, model.RoomAreaRequest]
	ReasonPendings  *ResourceHooks[model.ReasonPending, model.ReasonPendingRequest]
	ReasonTransfers *ResourceHooks[model.ReasonTransfer, model.ReasonTransferRequest]
	ReasonRejects   *ResourceHooks[model.ReasonReject, model.ReasonRejectRequest]
	Priorities      *ResourceHooks[model.TicketPriority, model.TicketPriorityRequest]
	Locations       *ResourceHooks[model.Location, model.LocationRequest]
}

// New создаёт Hooks.
func New(cfg Config, logger *slog.Logger) *Hooks {
	h := &Hooks{
		cache:    cfg.Cache,
		api:      cfg.API,
		session:  cfg.Session,
		notifier: cfg.Notifier,
		navigate: cfg.Navigator,
		route:    cfg.Route,
		logger:   logger.With(slog.String("component", "hooks")),
		now:      time.Now,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	if h.notifier == nil {
		h.notifier = notify.Discard{}
	}

	h.Stores = newResourceHooks(h, cfg.API.Stores, querycache.Stores)
	h.WorkCategories = newResourceHooks(h, cfg.API.WorkCategories, querycache.WorkCategories)
	h.FloorAreas = newResourceHooks(h, cfg.API.FloorAreas, querycache.FloorAreas)
	h.RoomAreas = newResourceHooks(h, cfg.API.RoomAreas, querycache.RoomAreas)
	h.ReasonPendings = newResourceHooks(h, cfg.API.ReasonPendings, querycache.ReasonPendings)
	h.ReasonTransfers = newResourceHooks(h, cfg.API.ReasonTransfers, querycache.ReasonTransfers)
	h.ReasonRejects = newResourceHooks(h, cfg.API.ReasonRejects, querycache.ReasonRejects)
	h.Priorities = newResourceHooks(h, cfg.API.TicketPriorities, querycache.TicketPriorities)
	h.Locations = newResourceHooks(h, cfg.API.Locations.Resource, querycache.Locations)
	return h
}

// Cache возвращает кэш запросов.
func (h *Hooks) Cache() *querycache.Cache { return h.cache }

// opt превращает незаданный строковый параметр в null-часть ключа.
func opt[S ~string](s S) any {
	if s == "" {
		return nil
	}
	return string(s)
}

// invalidate помечает устаревшими семейства ключей.
func (h *Hooks) invalidate(keys ...querycache.Key) {
	for _, k := range keys {
		n := h.cache.Invalidate(k)
		h.logger.Debug("Ключи инвалидированы",
			slog.String("prefix", k.String()),
			slog.Int("count", n),
		)
	}
}

// mutate выполняет изменение и при успехе инвалидирует семейства ключей.
func mutate[T any](h *Hooks, fn func() (T, error), keys ...querycache.Key) (T, error) {
	v, err := fn()
	if err != nil {
		return v, err
	}
	h.invalidate(keys...)
	return v, nil
}

// toast показывает результат операции: сообщение бэкенда либо запасной текст.
func (h *Hooks) toast(err error, message, success, failure string) {
	if err != nil {
		msg := failure
		if m := errorMessage(err); m != "" {
			msg = m
		}
		h.notifier.Notify(notify.Notification{Level: notify.LevelError, Message: msg})
		return
	}
	if message == "" {
		message = success
	}
	h.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Message: message})
}

// errorMessage возвращает текст ошибки для пользователя: сообщение бэкенда
// или текст ошибки целиком для прочих ошибок.
func errorMessage(err error) string {
	var herr *httpclient.Error
	if errors.As(err, &herr) {
		return herr.Message
	}
	return err.Error()
}

func (h *Hooks) currentRoute() string {
	if h.route == nil {
		return ""
	}
	return h.route()
}

func (h *Hooks) goTo(ctx context.Context, route string) {
	if h.navigate != nil {
		h.navigate(ctx, route)
	}
}
