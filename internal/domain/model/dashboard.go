package model

// Ответы /dashboard/* в исходной (verbose) форме бэкенда.
// Нормализованные формы — в пакете normalize.

// LabelValue — пара label/value внутри агрегатов.
type LabelValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type StatusPriorityRow struct {
	Status       string       `json:"status"`
	TotalRequest float64      `json:"total_request"`
	Priorities   []LabelValue `json:"priorities"`
}

type WorkCategoryShareRow struct {
	WorkCategoryName string  `json:"work_category_name"`
	Count            float64 `json:"count"`
	Percentage       float64 `json:"percentage"`
}

type StoreTotalRow struct {
	StoreName    string       `json:"store_name"`
	TotalRequest float64      `json:"total_request"`
	Priorities   []LabelValue `json:"priorities"`
}

type FloorAreaShareRow struct {
	FloorAreaName string  `json:"floor_area_name"`
	Count         float64 `json:"count"`
	Percentage    float64 `json:"percentage"`
}

type StoreCategoryRow struct {
	StoreName      string       `json:"store_name"`
	TotalRequest   float64      `json:"total_request"`
	WorkCategories []LabelValue `json:"work_categories"`
}

// DashboardPagination — блок пагинации агрегата store × work-category.
type DashboardPagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type TrendRow struct {
	Date         string       `json:"date"`
	TotalRequest float64      `json:"total_request"`
	Priorities   []LabelValue `json:"priorities"`
}

// DurationByPriority — средняя длительность (в днях) по приоритету.
type DurationByPriority struct {
	Label       string  `json:"label"`
	AverageDays float64 `json:"average_days"`
	TicketCount float64 `json:"ticket_count"`
}

type MaintenanceDurationRow struct {
	WorkCategoryName string               `json:"work_category_name"`
	Priorities       []DurationByPriority `json:"priorities"`
}

// HoursByPriority — среднее время (в часах) по приоритету.
type HoursByPriority struct {
	Label        string  `json:"label"`
	AverageHours float64 `json:"average_hours"`
	TicketCount  float64 `json:"ticket_count"`
}

// Тела data для каждого агрегата.

type RowsPayload[T any] struct {
	Total int `json:"total,omitempty"`
	Data  []T `json:"data"`
}

type StoreCategoryPayload struct {
	Data       []StoreCategoryRow  `json:"data"`
	Pagination DashboardPagination `json:"pagination"`
}

type SLAPayload struct {
	TotalTickets int               `json:"total_tickets"`
	Data         []HoursByPriority `json:"data"`
}

// Ответы целиком.
type (
	StatusPriorityResponse      = Envelope[RowsPayload[StatusPriorityRow]]
	WorkCategoryShareResponse   = Envelope[RowsPayload[WorkCategoryShareRow]]
	TopStoresResponse           = Envelope[RowsPayload[StoreTotalRow]]
	FloorAreaShareResponse      = Envelope[RowsPayload[FloorAreaShareRow]]
	StoreCategoryResponse       = Envelope[StoreCategoryPayload]
	TrendResponse               = Envelope[RowsPayload[TrendRow]]
	MaintenanceDurationResponse = Envelope[RowsPayload[MaintenanceDurationRow]]
	SLAResponse                 = Envelope[SLAPayload]
)

// DashboardFilter — общие фильтры агрегатов. Пустые поля не передаются.
type DashboardFilter struct {
	PriorityUUID    string         `url:"priority_uuid,omitempty" json:"priority_uuid,omitempty"`
	StoreUUID       string         `url:"store_uuid,omitempty" json:"store_uuid,omitempty"`
	MaintenanceType AssignType     `url:"maintenance_type,omitempty" json:"maintenance_type,omitempty"`
	StartDate       string         `url:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate         string         `url:"end_date,omitempty" json:"end_date,omitempty"`
	DateFilterType  DateFilterType `url:"date_filter_type,omitempty" json:"date_filter_type,omitempty"`
}

// StoreCategoryFilter — фильтры распределения store × work-category.
type StoreCategoryFilter struct {
	DashboardFilter
	Page  int `url:"page,omitempty" json:"page,omitempty"`
	Limit int `url:"limit,omitempty" json:"limit,omitempty"`
}

// TopStoresFilter — фильтры рейтинга магазинов.
type TopStoresFilter struct {
	DashboardFilter
	Limit int `url:"limit,omitempty" json:"limit,omitempty"`
}
