// portal.go — read-only API портала поверх слоя hooks: метрики дашборда
// и тикеты из кэша запросов, а также ручная инвалидация кэша.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bambang-ap/kmm-mro-shared/internal/api/errors"
	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/hooks"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
)

// metricFunc загружает одну метрику дашборда по разобранным фильтрам.
type metricFunc func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error)

// metricHandlers — метрики дашборда по имени из URL.
var metricHandlers = map[string]metricFunc{
	backend.MetricTicketStatusPriority: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.TicketStatusPriority(ctx, q.filter())
	},
	backend.MetricWorkCategoryContribution: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.WorkCategoryContribution(ctx, q.filter())
	},
	backend.MetricTopStores: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.TopStores(ctx, model.TopStoresFilter{DashboardFilter: q.filter(), Limit: q.Limit})
	},
	backend.MetricFloorAreaDistribution: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.FloorAreaDistribution(ctx, q.filter())
	},
	backend.MetricStoreWorkCategory: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.StoreWorkCategoryDistribution(ctx, model.StoreCategoryFilter{DashboardFilter: q.filter(), Page: q.Page, Limit: q.Limit})
	},
	backend.MetricTrendTotalRequest: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.TrendTotalRequest(ctx, q.filter())
	},
	backend.MetricAverageMaintenanceDuration: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.AverageMaintenanceDuration(ctx, q.filter())
	},
	backend.MetricPreparationSLAAverage: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.PreparationSLAAverage(ctx, q.filter())
	},
	backend.MetricFixingSLAAverage: func(ctx context.Context, h *hooks.Hooks, q dashboardQuery) (any, error) {
		return h.FixingSLAAverage(ctx, q.filter())
	},
}

// PortalHandler — обработчик API портала.
type PortalHandler struct {
	hooks   *hooks.Hooks
	tickets *hooks.TicketHooks
	logger  *slog.Logger
}

// NewPortalHandler создаёт обработчик API портала.
func NewPortalHandler(h *hooks.Hooks, logger *slog.Logger) *PortalHandler {
	return &PortalHandler{
		hooks:   h,
		tickets: h.Tickets(backend.ScopeDefault),
		logger:  logger.With(slog.String("component", "portal_handler")),
	}
}

// GetDashboardMetric — нормализованная метрика дашборда.
// GET /api/v1/dashboard/{metric}
func (p *PortalHandler) GetDashboardMetric(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "metric")
	fetch, ok := metricHandlers[name]
	if !ok {
		apierrors.NotFound(w, "Неизвестная метрика: "+name)
		return
	}

	q, err := parseDashboardQuery(r.URL.Query())
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	data, err := fetch(r.Context(), p.hooks, q)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ListTickets — страница тикетов.
// GET /api/v1/tickets
func (p *PortalHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	params, err := parseTicketsQuery(r.URL.Query())
	if err != nil {
		apierrors.FromError(w, err)
		return
	}

	page, err := p.tickets.List(r.Context(), params)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// TicketStatusCount — счётчики тикетов по статусам.
// GET /api/v1/tickets/status-count
func (p *PortalHandler) TicketStatusCount(w http.ResponseWriter, r *http.Request) {
	counts, err := p.tickets.StatusCount(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		p.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// GetTicket — карточка тикета.
// GET /api/v1/tickets/{ticketNumber}
func (p *PortalHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	detail, err := p.tickets.Detail(r.Context(), chi.URLParam(r, "ticketNumber"))
	if err != nil {
		p.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// invalidateRequest — тело запроса инвалидации кэша.
type invalidateRequest struct {
	// Prefix — префикс ключа; пустой или пустое тело инвалидирует весь кэш
	Prefix []any `json:"prefix"`
}

type invalidateResponse struct {
	Invalidated int `json:"invalidated"`
}

// InvalidateCache помечает устаревшими записи кэша с указанным префиксом.
// POST /api/v1/cache/invalidate
func (p *PortalHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.ValidationError(w, "Некорректное тело запроса: "+err.Error())
		return
	}

	prefix := querycache.NewKey(req.Prefix...)
	n := p.hooks.Cache().Invalidate(prefix)
	p.logger.Info("Кэш инвалидирован вручную",
		slog.String("prefix", prefix.String()),
		slog.Int("count", n),
	)
	writeJSON(w, http.StatusOK, invalidateResponse{Invalidated: n})
}

// fail логирует ошибку загрузки и пишет ответ по её виду.
func (p *PortalHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Warn("Ошибка загрузки данных",
		slog.String("path", r.URL.Path),
		slog.String("request_id", httpclient.RequestIDFrom(r.Context())),
		slog.String("error", err.Error()),
	)
	apierrors.FromError(w, err)
}
