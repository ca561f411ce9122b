package hooks

import (
	"context"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/normalize"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
)

// metric читает агрегат дашборда и нормализует его.
// Ключ: [dashboard, metric, filter].
func metric[F, R, N any](ctx context.Context, h *Hooks, name string, filter F,
	fetch func(context.Context, F) (R, error), norm func(R) N,
) (N, error) {
	key := querycache.DashboardMetric(name).With(filter)
	return querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) (N, error) {
		resp, err := fetch(ctx, filter)
		if err != nil {
			var zero N
			return zero, err
		}
		return norm(resp), nil
	})
}

// TicketStatusPriority — тикеты по статусам с разбивкой по приоритетам.
func (h *Hooks) TicketStatusPriority(ctx context.Context, f model.DashboardFilter) (model.Envelope[[]normalize.StatusPriority], error) {
	return metric(ctx, h, backend.MetricTicketStatusPriority, f, h.api.Dashboard.TicketStatusPriority, normalize.TicketStatusPriority)
}

// WorkCategoryContribution — доли категорий работ.
func (h *Hooks) WorkCategoryContribution(ctx context.Context, f model.DashboardFilter) (model.Envelope[[]normalize.CategoryShare], error) {
	return metric(ctx, h, backend.MetricWorkCategoryContribution, f, h.api.Dashboard.WorkCategoryContribution, normalize.WorkCategoryContribution)
}

// TopStores — магазины с наибольшим числом тикетов.
func (h *Hooks) TopStores(ctx context.Context, f model.TopStoresFilter) (model.Envelope[[]normalize.StoreTotal], error) {
	return metric(ctx, h, backend.MetricTopStores, f, h.api.Dashboard.TopStores, normalize.TopStores)
}

// FloorAreaDistribution — распределение тикетов по зонам этажей.
func (h *Hooks) FloorAreaDistribution(ctx context.Context, f model.DashboardFilter) (model.Envelope[[]model.FloorAreaShareRow], error) {
	return metric(ctx, h, backend.MetricFloorAreaDistribution, f, h.api.Dashboard.FloorAreaDistribution, normalize.FloorAreaDistribution)
}

// StoreWorkCategoryDistribution — матрица магазин × категория работ.
func (h *Hooks) StoreWorkCategoryDistribution(ctx context.Context, f model.StoreCategoryFilter) (normalize.StoreCategoryResult, error) {
	return metric(ctx, h, backend.MetricStoreWorkCategory, f, h.api.Dashboard.StoreWorkCategoryDistribution, normalize.StoreWorkCategoryDistribution)
}

// TrendTotalRequest — динамика количества заявок.
func (h *Hooks) TrendTotalRequest(ctx context.Context, f model.DashboardFilter) (model.Envelope[[]normalize.TrendPoint], error) {
	return metric(ctx, h, backend.MetricTrendTotalRequest, f, h.api.Dashboard.TrendTotalRequest, normalize.TrendTotalRequest)
}

// AverageMaintenanceDuration — средняя длительность обслуживания по категориям.
func (h *Hooks) AverageMaintenanceDuration(ctx context.Context, f model.DashboardFilter) (model.Envelope[[]normalize.CategoryDuration], error) {
	return metric(ctx, h, backend.MetricAverageMaintenanceDuration, f, h.api.Dashboard.AverageMaintenanceDuration, normalize.AverageMaintenanceDuration)
}

// PreparationSLAAverage — среднее время подготовки.
func (h *Hooks) PreparationSLAAverage(ctx context.Context, f model.DashboardFilter) (model.Envelope[normalize.Average], error) {
	return metric(ctx, h, backend.MetricPreparationSLAAverage, f, h.api.Dashboard.PreparationSLAAverage, normalize.PreparationSLAAverage)
}

// FixingSLAAverage — среднее время устранения.
func (h *Hooks) FixingSLAAverage(ctx context.Context, f model.DashboardFilter) (model.Envelope[normalize.Average], error) {
	return metric(ctx, h, backend.MetricFixingSLAAverage, f, h.api.Dashboard.FixingSLAAverage, normalize.FixingSLAAverage)
}
