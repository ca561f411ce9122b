package hooks

import (
	"context"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
)

// TicketHooks — операции над тикетами в одном пространстве маршрутов.
type TicketHooks struct {
	h     *Hooks
	svc   *backend.TicketsService
	scope backend.Scope
}

// Tickets возвращает операции над тикетами в пространстве scope.
// ScopeDefault оставляет выбор пространства каждой операции.
func (h *Hooks) Tickets(scope backend.Scope) *TicketHooks {
	return &TicketHooks{h: h, svc: h.api.Tickets.WithScope(scope), scope: scope}
}

// ticketChanged — семейства, затронутые сменой статуса тикета.
var ticketChanged = []querycache.Key{
	querycache.Tickets,
	querycache.TicketDetail,
	querycache.TicketStatusCount,
}

// List возвращает страницу тикетов.
// Ключ: [tickets, scope, page, page_size, search, sort, order, priority_uuid,
// start_date, end_date, date_filter_type, ticket_status].
func (t *TicketHooks) List(ctx context.Context, p backend.TicketListParams) (model.Page[model.TicketListItem], error) {
	key := querycache.Tickets.With(
		opt(t.scope),
		p.Page,
		p.PageSize,
		opt(p.Search),
		opt(p.Sort),
		opt(p.Order),
		opt(p.PriorityUUID),
		opt(p.StartDate),
		opt(p.EndDate),
		opt(p.DateFilterType),
		opt(p.Status),
	)
	return querycache.Fetch(ctx, t.h.cache, key, func(ctx context.Context) (model.Page[model.TicketListItem], error) {
		return t.svc.List(ctx, p)
	})
}

// StatusCount возвращает количество тикетов по статусам.
// Ключ: [status-count, scope, search].
func (t *TicketHooks) StatusCount(ctx context.Context, search string) (model.StatusCount, error) {
	return querycache.Fetch(ctx, t.h.cache, querycache.TicketStatusCount.With(opt(t.scope), opt(search)), func(ctx context.Context) (model.StatusCount, error) {
		return t.svc.StatusCount(ctx, search)
	})
}

// Detail возвращает тикет. Пустой номер — ErrDisabled.
// Ключ: [detail, number, scope].
func (t *TicketHooks) Detail(ctx context.Context, number string) (model.Envelope[model.TicketDetail], error) {
	return querycache.Fetch(ctx, t.h.cache, querycache.TicketDetail.With(number, opt(t.scope)), func(ctx context.Context) (model.Envelope[model.TicketDetail], error) {
		return t.svc.Detail(ctx, number)
	}, querycache.Enabled(number != ""))
}

// Activities возвращает страницу активностей тикета. Пустой номер — ErrDisabled.
// Ключ: [activities, number, scope, page, page_size]; номер идёт первым,
// чтобы мутации активностей сбрасывали тикет во всех пространствах.
func (t *TicketHooks) Activities(ctx context.Context, number string, page, pageSize int) (model.Page[model.TicketActivity], error) {
	key := querycache.TicketActivities.With(number, opt(t.scope), page, pageSize)
	return querycache.Fetch(ctx, t.h.cache, key, func(ctx context.Context) (model.Page[model.TicketActivity], error) {
		return t.svc.Activities(ctx, number, page, pageSize)
	}, querycache.Enabled(number != ""))
}

// Histories возвращает страницу истории тикета. Пустой номер — ErrDisabled.
// Ключ: [histories, number, scope, page, page_size].
func (t *TicketHooks) Histories(ctx context.Context, number string, page, pageSize int) (model.Page[model.TicketHistory], error) {
	key := querycache.TicketHistories.With(number, opt(t.scope), page, pageSize)
	return querycache.Fetch(ctx, t.h.cache, key, func(ctx context.Context) (model.Page[model.TicketHistory], error) {
		return t.svc.Histories(ctx, number, page, pageSize)
	}, querycache.Enabled(number != ""))
}

// Create создаёт тикет из multipart-формы.
func (t *TicketHooks) Create(ctx context.Context, form *httpclient.Multipart) (model.Envelope[model.CreateTicketResult], error) {
	return mutate(t.h, func() (model.Envelope[model.CreateTicketResult], error) {
		return t.svc.Create(ctx, form)
	}, querycache.Tickets, querycache.TicketStatusCount)
}

// --- Активности ---

func activitiesOf(number string) querycache.Key {
	return querycache.TicketActivities.With(number)
}

// CreateActivity добавляет активность к тикету.
func (t *TicketHooks) CreateActivity(ctx context.Context, number string, req model.ActivityRequest) (model.Envelope[model.TicketActivity], error) {
	return mutate(t.h, func() (model.Envelope[model.TicketActivity], error) {
		return t.svc.CreateActivity(ctx, number, req)
	}, activitiesOf(number))
}

// UpdateActivity изменяет активность тикета.
func (t *TicketHooks) UpdateActivity(ctx context.Context, number, activityID string, req model.ActivityRequest) (model.Envelope[model.TicketActivity], error) {
	return mutate(t.h, func() (model.Envelope[model.TicketActivity], error) {
		return t.svc.UpdateActivity(ctx, number, activityID, req)
	}, activitiesOf(number))
}

// DeleteActivity удаляет активность тикета.
func (t *TicketHooks) DeleteActivity(ctx context.Context, number, activityID string) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.DeleteActivity(ctx, number, activityID)
	}, activitiesOf(number))
}

// CompleteActivity отмечает активность выполненной.
func (t *TicketHooks) CompleteActivity(ctx context.Context, number, activityID string) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.CompleteActivity(ctx, number, activityID)
	}, activitiesOf(number))
}

// --- Жизненный цикл ---

// Assign назначает исполнителя.
func (t *TicketHooks) Assign(ctx context.Context, number string, req model.AssignRequest) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.Assign(ctx, number, req)
	}, ticketChanged...)
}

// Reject отклоняет тикет.
func (t *TicketHooks) Reject(ctx context.Context, number string, d model.Decision) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.Reject(ctx, number, d)
	}, ticketChanged...)
}

// Pending переводит тикет в ожидание.
func (t *TicketHooks) Pending(ctx context.Context, number string, d model.Decision) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.Pending(ctx, number, d)
	}, ticketChanged...)
}

// Escalate эскалирует тикет.
func (t *TicketHooks) Escalate(ctx context.Context, number string) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.Escalate(ctx, number)
	}, ticketChanged...)
}

// Acknowledge подтверждает получение тикета.
func (t *TicketHooks) Acknowledge(ctx context.Context, number string) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.Acknowledge(ctx, number)
	}, querycache.Tickets, querycache.TicketDetail)
}

// Resume возобновляет работу по тикету.
func (t *TicketHooks) Resume(ctx context.Context, number string) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.Resume(ctx, number)
	}, querycache.Tickets, querycache.TicketDetail, querycache.TicketActivities)
}

// Resolve закрывает тикет с отчётом и фотографиями.
func (t *TicketHooks) Resolve(ctx context.Context, number string, form *httpclient.Multipart) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.Resolve(ctx, number, form)
	}, querycache.Tickets, querycache.TicketDetail)
}

// Transfer запрашивает передачу тикета.
func (t *TicketHooks) Transfer(ctx context.Context, number string, d model.Decision) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.Transfer(ctx, number, d)
	}, querycache.Tickets, querycache.TicketDetail)
}

// RejectTransfer отклоняет запрос на передачу.
func (t *TicketHooks) RejectTransfer(ctx context.Context, number string, d model.Decision) (model.Ack, error) {
	return mutate(t.h, func() (model.Ack, error) {
		return t.svc.RejectTransfer(ctx, number, d)
	}, ticketChanged...)
}

// --- Выгрузка ---

// ExportFile — файл выгрузки тикетов.
type ExportFile struct {
	Filename string
	Data     []byte
}

// Export выгружает тикеты в Excel. Имя файла содержит текущую дату.
func (h *Hooks) Export(ctx context.Context, p backend.ExportParams) (ExportFile, error) {
	data, err := h.api.Tickets.Export(ctx, p)
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{Filename: backend.ExportFilename(h.now()), Data: data}, nil
}
