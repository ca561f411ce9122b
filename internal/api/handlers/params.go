package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/forms"
)

// Пагинация списка тикетов по умолчанию.
const (
	defaultPage     = 1
	defaultPageSize = 10
)

// dashboardQuery — query-параметры метрик дашборда.
type dashboardQuery struct {
	PriorityUUID    string `json:"priority_uuid" validate:"omitempty,uuid"`
	StoreUUID       string `json:"store_uuid" validate:"omitempty,uuid"`
	MaintenanceType string `json:"maintenance_type" validate:"omitempty,oneof=vendor internal"`
	StartDate       string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DateFilterType  string `json:"date_filter_type" validate:"omitempty,oneof=due_date created_at"`
	Page            int    `json:"page" validate:"gte=0"`
	Limit           int    `json:"limit" validate:"gte=0,lte=100"`
}

// ticketsQuery — query-параметры списка тикетов.
type ticketsQuery struct {
	Page           int    `json:"page" validate:"gte=1"`
	PageSize       int    `json:"page_size" validate:"gte=1,lte=100"`
	Search         string `json:"search"`
	Status         string `json:"status"`
	Sort           string `json:"sort"`
	Order          string `json:"order" validate:"omitempty,oneof=ASC DESC"`
	PriorityUUID   string `json:"priority_uuid" validate:"omitempty,uuid"`
	StartDate      string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DateFilterType string `json:"date_filter_type" validate:"omitempty,oneof=due_date created_at"`
}

// intParams разбирает целочисленные параметры; отсутствующий параметр
// получает значение по умолчанию.
type intParams struct {
	q    url.Values
	errs forms.ValidationErrors
}

func (p *intParams) get(name string, def int) int {
	raw := strings.TrimSpace(p.q.Get(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if p.errs == nil {
			p.errs = forms.ValidationErrors{}
		}
		p.errs[name] = fmt.Sprintf("Field '%s' must be an integer", name)
		return def
	}
	return n
}

func (p *intParams) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return p.errs
}

func parseDashboardQuery(q url.Values) (dashboardQuery, error) {
	ints := intParams{q: q}
	dq := dashboardQuery{
		PriorityUUID:    q.Get("priority_uuid"),
		StoreUUID:       q.Get("store_uuid"),
		MaintenanceType: q.Get("maintenance_type"),
		StartDate:       q.Get("start_date"),
		EndDate:         q.Get("end_date"),
		DateFilterType:  q.Get("date_filter_type"),
		Page:            ints.get("page", 0),
		Limit:           ints.get("limit", 0),
	}
	if err := ints.err(); err != nil {
		return dashboardQuery{}, err
	}
	if err := forms.Struct(dq); err != nil {
		return dashboardQuery{}, err
	}
	return dq, nil
}

func (dq dashboardQuery) filter() model.DashboardFilter {
	return model.DashboardFilter{
		PriorityUUID:    dq.PriorityUUID,
		StoreUUID:       dq.StoreUUID,
		MaintenanceType: model.AssignType(dq.MaintenanceType),
		StartDate:       dq.StartDate,
		EndDate:         dq.EndDate,
		DateFilterType:  model.DateFilterType(dq.DateFilterType),
	}
}

func parseTicketsQuery(q url.Values) (backend.TicketListParams, error) {
	ints := intParams{q: q}
	tq := ticketsQuery{
		Page:           ints.get("page", defaultPage),
		PageSize:       ints.get("page_size", defaultPageSize),
		Search:         strings.TrimSpace(q.Get("search")),
		Status:         q.Get("status"),
		Sort:           q.Get("sort"),
		Order:          strings.ToUpper(q.Get("order")),
		PriorityUUID:   q.Get("priority_uuid"),
		StartDate:      q.Get("start_date"),
		EndDate:        q.Get("end_date"),
		DateFilterType: q.Get("date_filter_type"),
	}
	if err := ints.err(); err != nil {
		return backend.TicketListParams{}, err
	}
	if err := forms.Struct(tq); err != nil {
		return backend.TicketListParams{}, err
	}
	return backend.TicketListParams{
		Page:           tq.Page,
		PageSize:       tq.PageSize,
		Search:         tq.Search,
		Sort:           tq.Sort,
		Order:          tq.Order,
		PriorityUUID:   tq.PriorityUUID,
		Status:         tq.Status,
		StartDate:      tq.StartDate,
		EndDate:        tq.EndDate,
		DateFilterType: model.DateFilterType(tq.DateFilterType),
	}, nil
}
