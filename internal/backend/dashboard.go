package backend

import (
	"context"
	"fmt"

	"github.com/google/go-querystring/query"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// DashboardService — агрегаты дашборда в исходной форме бэкенда.
// Нормализация выполняется пакетом normalize.
type DashboardService struct {
	*base
}

// Метрики дашборда (сегмент пути /dashboard/{metric}).
const (
	MetricTicketStatusPriority       = "ticket-status-priority"
	MetricWorkCategoryContribution   = "work-category-contribution"
	MetricTopStores                  = "top-stores"
	MetricFloorAreaDistribution      = "floor-area-distribution"
	MetricStoreWorkCategory          = "store-work-category-distribution"
	MetricTrendTotalRequest          = "trend-total-request"
	MetricAverageMaintenanceDuration = "average-maintenance-duration"
	MetricPreparationSLAAverage      = "preparation-sla-average"
	MetricFixingSLAAverage           = "fixing-sla-average"
)

// Metrics перечисляет все метрики дашборда.
var Metrics = []string{
	MetricTicketStatusPriority,
	MetricWorkCategoryContribution,
	MetricTopStores,
	MetricFloorAreaDistribution,
	MetricStoreWorkCategory,
	MetricTrendTotalRequest,
	MetricAverageMaintenanceDuration,
	MetricPreparationSLAAverage,
	MetricFixingSLAAverage,
}

// filterQuery кодирует фильтр в query string. Пустые поля пропускаются,
// ключи упорядочены по алфавиту.
func filterQuery(filter any) (string, error) {
	v, err := query.Values(filter)
	if err != nil {
		return "", fmt.Errorf("кодирование фильтра дашборда: %w", err)
	}
	if enc := v.Encode(); enc != "" {
		return "?" + enc, nil
	}
	return "", nil
}

// fetchMetric выполняет GET /dashboard/{metric} с фильтром.
func fetchMetric[T any](ctx context.Context, b *base, metric string, filter any) (T, error) {
	q, err := filterQuery(filter)
	if err != nil {
		var zero T
		return zero, err
	}
	return httpclient.Do[T](ctx, b.hc, "/dashboard/"+metric+q, httpclient.Request{})
}

// TicketStatusPriority — количество тикетов по статусу с разбивкой по приоритетам.
// GET /api/v1/dashboard/ticket-status-priority
func (s *DashboardService) TicketStatusPriority(ctx context.Context, f model.DashboardFilter) (model.StatusPriorityResponse, error) {
	return fetchMetric[model.StatusPriorityResponse](ctx, s.base, MetricTicketStatusPriority, f)
}

// WorkCategoryContribution — доли категорий работ.
// GET /api/v1/dashboard/work-category-contribution
func (s *DashboardService) WorkCategoryContribution(ctx context.Context, f model.DashboardFilter) (model.WorkCategoryShareResponse, error) {
	return fetchMetric[model.WorkCategoryShareResponse](ctx, s.base, MetricWorkCategoryContribution, f)
}

// TopStores — магазины с наибольшим числом тикетов.
// GET /api/v1/dashboard/top-stores
func (s *DashboardService) TopStores(ctx context.Context, f model.TopStoresFilter) (model.TopStoresResponse, error) {
	return fetchMetric[model.TopStoresResponse](ctx, s.base, MetricTopStores, f)
}

// FloorAreaDistribution — распределение тикетов по зонам этажей.
// GET /api/v1/dashboard/floor-area-distribution
func (s *DashboardService) FloorAreaDistribution(ctx context.Context, f model.DashboardFilter) (model.FloorAreaShareResponse, error) {
	return fetchMetric[model.FloorAreaShareResponse](ctx, s.base, MetricFloorAreaDistribution, f)
}

// StoreWorkCategoryDistribution — матрица магазин × категория работ (постранично).
// GET /api/v1/dashboard/store-work-category-distribution
func (s *DashboardService) StoreWorkCategoryDistribution(ctx context.Context, f model.StoreCategoryFilter) (model.StoreCategoryResponse, error) {
	return fetchMetric[model.StoreCategoryResponse](ctx, s.base, MetricStoreWorkCategory, f)
}

// TrendTotalRequest — динамика количества заявок по датам.
// GET /api/v1/dashboard/trend-total-request
func (s *DashboardService) TrendTotalRequest(ctx context.Context, f model.DashboardFilter) (model.TrendResponse, error) {
	return fetchMetric[model.TrendResponse](ctx, s.base, MetricTrendTotalRequest, f)
}

// AverageMaintenanceDuration — средняя длительность обслуживания по категориям (дни).
// GET /api/v1/dashboard/average-maintenance-duration
func (s *DashboardService) AverageMaintenanceDuration(ctx context.Context, f model.DashboardFilter) (model.MaintenanceDurationResponse, error) {
	return fetchMetric[model.MaintenanceDurationResponse](ctx, s.base, MetricAverageMaintenanceDuration, f)
}

// PreparationSLAAverage — среднее время подготовки по приоритетам (часы).
// GET /api/v1/dashboard/preparation-sla-average
func (s *DashboardService) PreparationSLAAverage(ctx context.Context, f model.DashboardFilter) (model.SLAResponse, error) {
	return fetchMetric[model.SLAResponse](ctx, s.base, MetricPreparationSLAAverage, f)
}

// FixingSLAAverage — среднее время устранения по приоритетам (часы).
// GET /api/v1/dashboard/fixing-sla-average
func (s *DashboardService) FixingSLAAverage(ctx context.Context, f model.DashboardFilter) (model.SLAResponse, error) {
	return fetchMetric[model.SLAResponse](ctx, s.base, MetricFixingSLAAverage, f)
}
