// Пакет normalize — перевод ответов /dashboard/* из формы бэкенда
// в плоскую форму для потребителей. Функции чистые и не выполняют I/O.
package normalize

import (
	"math"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
)

// Единицы средних значений.
const (
	UnitDays  = "days"
	UnitHours = "hours"
)

// PriorityCount — количество тикетов одного приоритета.
type PriorityCount struct {
	Priority string  `json:"priority"`
	Count    float64 `json:"count"`
}

// StatusPriority — тикеты по статусу с разбивкой по приоритетам.
type StatusPriority struct {
	Status            string          `json:"status"`
	Total             float64         `json:"total"`
	PriorityBreakdown []PriorityCount `json:"priority_breakdown"`
}

// CategoryShare — доля категории работ.
type CategoryShare struct {
	CategoryName string  `json:"category_name"`
	Count        float64 `json:"count"`
	Percentage   float64 `json:"percentage"`
}

// StoreTotal — количество тикетов магазина.
type StoreTotal struct {
	StoreName    string  `json:"store_name"`
	TotalTickets float64 `json:"total_tickets"`
}

// CategoryCount — количество тикетов категории в магазине.
type CategoryCount struct {
	CategoryName string  `json:"category_name"`
	Count        float64 `json:"count"`
}

// StoreCategories — распределение тикетов магазина по категориям.
type StoreCategories struct {
	StoreName  string          `json:"store_name"`
	Categories []CategoryCount `json:"categories"`
}

// Pagination — блок пагинации store × work-category (total_items → total).
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// StoreCategoryResult — нормализованный ответ store × work-category.
type StoreCategoryResult struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       []StoreCategories `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// TrendPoint — количество заявок за период.
type TrendPoint struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
}

// CategoryDuration — средняя длительность обслуживания категории.
type CategoryDuration struct {
	CategoryName    string  `json:"category_name"`
	AverageDuration float64 `json:"average_duration"`
	Unit            string  `json:"unit"`
}

// Average — общее среднее значение с единицей измерения.
type Average struct {
	Average float64 `json:"average"`
	Unit    string  `json:"unit"`
}

// Round2 округляет до двух знаков, половина — в сторону +∞.
func Round2(x float64) float64 {
	return roundHalfUp(x*100) / 100
}

// roundHalfUp — Math.round без промежуточного сложения v+0.5.
func roundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		f++
	}
	return f
}

// WeightedAverage возвращает Σ(avg·count) / Σcount или 0 при нулевой сумме count.
// Результат не округляется.
func WeightedAverage[T any](items []T, avg, count func(T) float64) float64 {
	var weighted, total float64
	for _, it := range items {
		c := count(it)
		weighted += avg(it) * c
		total += c
	}
	if total > 0 {
		return weighted / total
	}
	return 0
}

// mapSlice применяет fn к каждому элементу. nil на входе даёт пустой срез.
func mapSlice[S, D any](src []S, fn func(S) D) []D {
	out := make([]D, 0, len(src))
	for _, s := range src {
		out = append(out, fn(s))
	}
	return out
}

func envelope[S, D any](resp model.Envelope[S], data D) model.Envelope[D] {
	return model.Envelope[D]{Success: resp.Success, Message: resp.Message, Data: data}
}

// TicketStatusPriority: {status, total_request, priorities[{label,value}]}
// → {status, total, priority_breakdown[{priority,count}]}.
func TicketStatusPriority(resp model.StatusPriorityResponse) model.Envelope[[]StatusPriority] {
	return envelope(resp, mapSlice(resp.Data.Data, func(r model.StatusPriorityRow) StatusPriority {
		return StatusPriority{
			Status: r.Status,
			Total:  r.TotalRequest,
			PriorityBreakdown: mapSlice(r.Priorities, func(p model.LabelValue) PriorityCount {
				return PriorityCount{Priority: p.Label, Count: p.Value}
			}),
		}
	}))
}

// WorkCategoryContribution: work_category_name → category_name, count и percentage без изменений.
func WorkCategoryContribution(resp model.WorkCategoryShareResponse) model.Envelope[[]CategoryShare] {
	return envelope(resp, mapSlice(resp.Data.Data, func(r model.WorkCategoryShareRow) CategoryShare {
		return CategoryShare{CategoryName: r.WorkCategoryName, Count: r.Count, Percentage: r.Percentage}
	}))
}

// TopStores: {store_name, total_request} → {store_name, total_tickets}.
func TopStores(resp model.TopStoresResponse) model.Envelope[[]StoreTotal] {
	return envelope(resp, mapSlice(resp.Data.Data, func(r model.StoreTotalRow) StoreTotal {
		return StoreTotal{StoreName: r.StoreName, TotalTickets: r.TotalRequest}
	}))
}

// FloorAreaDistribution возвращает строки без изменений.
func FloorAreaDistribution(resp model.FloorAreaShareResponse) model.Envelope[[]model.FloorAreaShareRow] {
	rows := resp.Data.Data
	if rows == nil {
		rows = []model.FloorAreaShareRow{}
	}
	return envelope(resp, rows)
}

// StoreWorkCategoryDistribution: work_categories[{label,value}] → categories[{category_name,count}],
// pagination.total_items → pagination.total.
func StoreWorkCategoryDistribution(resp model.StoreCategoryResponse) StoreCategoryResult {
	p := resp.Data.Pagination
	return StoreCategoryResult{
		Success: resp.Success,
		Message: resp.Message,
		Data: mapSlice(resp.Data.Data, func(r model.StoreCategoryRow) StoreCategories {
			return StoreCategories{
				StoreName: r.StoreName,
				Categories: mapSlice(r.WorkCategories, func(c model.LabelValue) CategoryCount {
					return CategoryCount{CategoryName: c.Label, Count: c.Value}
				}),
			}
		}),
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: p.TotalItems, TotalPages: p.TotalPages},
	}
}

// TrendTotalRequest: {date, total_request} → {period, total}.
func TrendTotalRequest(resp model.TrendResponse) model.Envelope[[]TrendPoint] {
	return envelope(resp, mapSlice(resp.Data.Data, func(r model.TrendRow) TrendPoint {
		return TrendPoint{Period: r.Date, Total: r.TotalRequest}
	}))
}

// AverageMaintenanceDuration — взвешенное по ticket_count среднее average_days
// для каждой категории, округлённое до двух знаков, в днях.
func AverageMaintenanceDuration(resp model.MaintenanceDurationResponse) model.Envelope[[]CategoryDuration] {
	return envelope(resp, mapSlice(resp.Data.Data, func(r model.MaintenanceDurationRow) CategoryDuration {
		avg := WeightedAverage(r.Priorities,
			func(p model.DurationByPriority) float64 { return p.AverageDays },
			func(p model.DurationByPriority) float64 { return p.TicketCount },
		)
		return CategoryDuration{CategoryName: r.WorkCategoryName, AverageDuration: Round2(avg), Unit: UnitDays}
	}))
}

// SLAAverage — взвешенное по ticket_count среднее average_hours по всем приоритетам,
// округлённое до двух знаков, в часах.
func SLAAverage(resp model.SLAResponse) model.Envelope[Average] {
	avg := WeightedAverage(resp.Data.Data,
		func(p model.HoursByPriority) float64 { return p.AverageHours },
		func(p model.HoursByPriority) float64 { return p.TicketCount },
	)
	return envelope(resp, Average{Average: Round2(avg), Unit: UnitHours})
}

// PreparationSLAAverage нормализует /dashboard/preparation-sla-average.
func PreparationSLAAverage(resp model.SLAResponse) model.Envelope[Average] {
	return SLAAverage(resp)
}

// FixingSLAAverage нормализует /dashboard/fixing-sla-average.
func FixingSLAAverage(resp model.SLAResponse) model.Envelope[Average] {
	return SLAAverage(resp)
}

// TicketPriorities приводит страницу приоритетов к PriorityPage (null SLA → 0).
func TicketPriorities(page model.Page[model.TicketPriority]) model.PriorityPage {
	return model.PriorityPage{
		Data:       mapSlice(page.Data, model.TicketPriority.View),
		Pagination: model.PaginationOf(page),
	}
}
