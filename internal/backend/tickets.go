package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// Scope — пространство маршрутов тикетов: /admin/tickets или /tickets.
type Scope string

const (
	// ScopeDefault — пространство по умолчанию для операции.
	ScopeDefault Scope = ""
	ScopeAdmin   Scope = "admin"
	ScopeUser    Scope = "user"
)

// TicketListParams — фильтры списка тикетов.
type TicketListParams struct {
	Page           int
	PageSize       int
	Search         string
	Sort           string
	Order          string
	PriorityUUID   string
	Status         string
	StartDate      string
	EndDate        string
	DateFilterType model.DateFilterType
}

// ExportParams — фильтры выгрузки тикетов в Excel.
type ExportParams struct {
	PriorityUUID string
	StoreUUID    string
	StartDate    string
	EndDate      string
}

// TicketsService — тикеты и их жизненный цикл.
// Операции диспетчера по умолчанию идут через /admin, операции техника — без префикса.
type TicketsService struct {
	*base
	scope Scope
}

// WithScope возвращает копию сервиса с явным пространством маршрутов.
func (s *TicketsService) WithScope(scope Scope) *TicketsService {
	return &TicketsService{base: s.base, scope: scope}
}

// prefix возвращает "/admin" или "" с учётом пространства по умолчанию операции.
func (s *TicketsService) prefix(def Scope) string {
	scope := s.scope
	if scope == ScopeDefault {
		scope = def
	}
	if scope == ScopeAdmin {
		return "/admin"
	}
	return ""
}

func (s *TicketsService) ticketPath(def Scope, number string) (string, error) {
	if err := requireParam("ticket_number", number); err != nil {
		return "", err
	}
	return s.prefix(def) + "/tickets/" + pathEscape(number), nil
}

func (s *TicketsService) activityPath(def Scope, number, activityID string) (string, error) {
	p, err := s.ticketPath(def, number)
	if err != nil {
		return "", err
	}
	if err := requireParam("activity_id", activityID); err != nil {
		return "", err
	}
	return p + "/activities/" + pathEscape(activityID), nil
}

// TicketStatusParam переводит ключ вкладки статуса в значение ticket_status:
// request_to_transfer → "Request to Transfer", in_progress → "In Progress".
// "all" и пустая строка дают пустой результат (фильтр не передаётся).
func TicketStatusParam(status string) string {
	switch status {
	case "", "all":
		return ""
	case "request_to_transfer":
		return "Request to Transfer"
	}
	words := strings.Split(status, "_")
	for i, w := range words {
		if w != "" {
			r, size := utf8.DecodeRuneInString(w)
			words[i] = string(unicode.ToUpper(r)) + w[size:]
		}
	}
	return strings.Join(words, " ")
}

// listQuery строит query string списка тикетов в порядке:
// page, page_size, search, priority_uuid, ticket_status, sort+order,
// start_date, end_date, date_filter_type.
func (p TicketListParams) listQuery() string {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	size := p.PageSize
	if size <= 0 {
		size = defaultPageSize
	}

	q := &queryBuilder{}
	q.addInt("page", page).addInt("page_size", size)
	q.addIf("search", strings.TrimSpace(p.Search))
	q.addIf("priority_uuid", p.PriorityUUID)
	q.addIf("ticket_status", TicketStatusParam(p.Status))
	if p.Sort != "" && p.Order != "" {
		q.add("sort", p.Sort).add("order", p.Order)
	}
	q.addIf("start_date", p.StartDate)
	q.addIf("end_date", p.EndDate)
	q.addIf("date_filter_type", string(p.DateFilterType))
	return q.String()
}

// Create создаёт тикет. Форма содержит поля тикета и изображения.
// POST /api/v1/tickets (multipart/form-data)
func (s *TicketsService) Create(ctx context.Context, form *httpclient.Multipart) (model.Envelope[model.CreateTicketResult], error) {
	if form == nil || form.Len() == 0 {
		return model.Envelope[model.CreateTicketResult]{}, fmt.Errorf("форма тикета: %w", ErrEmptyParam)
	}
	return httpclient.Do[model.Envelope[model.CreateTicketResult]](ctx, s.hc, "/tickets", httpclient.Request{
		Method: http.MethodPost,
		Form:   form,
	})
}

// List возвращает страницу тикетов.
// GET /api/v1/admin/tickets?page=1&page_size=10&...
func (s *TicketsService) List(ctx context.Context, p TicketListParams) (model.Page[model.TicketListItem], error) {
	endpoint := s.prefix(ScopeAdmin) + "/tickets" + p.listQuery()
	return unwrap(httpclient.Do[model.Envelope[model.Page[model.TicketListItem]]](ctx, s.hc, endpoint, httpclient.Request{}))
}

// Detail возвращает карточку тикета.
// GET /api/v1/admin/tickets/:ticket_number
func (s *TicketsService) Detail(ctx context.Context, number string) (model.Envelope[model.TicketDetail], error) {
	p, err := s.ticketPath(ScopeAdmin, number)
	if err != nil {
		return model.Envelope[model.TicketDetail]{}, err
	}
	return httpclient.Do[model.Envelope[model.TicketDetail]](ctx, s.hc, p, httpclient.Request{})
}

// Activities возвращает страницу активностей тикета.
// GET /api/v1/admin/tickets/:ticket_number/activities?page=1&page_size=10
func (s *TicketsService) Activities(ctx context.Context, number string, page, pageSize int) (model.Page[model.TicketActivity], error) {
	p, err := s.ticketPath(ScopeAdmin, number)
	if err != nil {
		return model.Page[model.TicketActivity]{}, err
	}
	endpoint := p + "/activities" + pageQuery(page, pageSize)
	return unwrap(httpclient.Do[model.Envelope[model.Page[model.TicketActivity]]](ctx, s.hc, endpoint, httpclient.Request{}))
}

// Histories возвращает страницу истории тикета.
// GET /api/v1/admin/tickets/:ticket_number/histories?page=1&page_size=10
func (s *TicketsService) Histories(ctx context.Context, number string, page, pageSize int) (model.Page[model.TicketHistory], error) {
	p, err := s.ticketPath(ScopeAdmin, number)
	if err != nil {
		return model.Page[model.TicketHistory]{}, err
	}
	endpoint := p + "/histories" + pageQuery(page, pageSize)
	return unwrap(httpclient.Do[model.Envelope[model.Page[model.TicketHistory]]](ctx, s.hc, endpoint, httpclient.Request{}))
}

// StatusCount возвращает счётчики тикетов по статусам.
// GET /api/v1/admin/tickets/status-count?search=..
func (s *TicketsService) StatusCount(ctx context.Context, search string) (model.StatusCount, error) {
	q := (&queryBuilder{}).addIf("search", strings.TrimSpace(search))
	endpoint := s.prefix(ScopeAdmin) + "/tickets/status-count" + q.String()
	return unwrap(httpclient.Do[model.Envelope[model.StatusCount]](ctx, s.hc, endpoint, httpclient.Request{}))
}

// CreateActivity добавляет активность к тикету.
// POST /api/v1/admin/tickets/:ticket_number/activities
func (s *TicketsService) CreateActivity(ctx context.Context, number string, req model.ActivityRequest) (model.Envelope[model.TicketActivity], error) {
	p, err := s.ticketPath(ScopeAdmin, number)
	if err != nil {
		return model.Envelope[model.TicketActivity]{}, err
	}
	return httpclient.Do[model.Envelope[model.TicketActivity]](ctx, s.hc, p+"/activities", httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	})
}

// UpdateActivity изменяет активность.
// PUT /api/v1/admin/tickets/:ticket_number/activities/:activity_id
func (s *TicketsService) UpdateActivity(ctx context.Context, number, activityID string, req model.ActivityRequest) (model.Envelope[model.TicketActivity], error) {
	p, err := s.activityPath(ScopeAdmin, number, activityID)
	if err != nil {
		return model.Envelope[model.TicketActivity]{}, err
	}
	return httpclient.Do[model.Envelope[model.TicketActivity]](ctx, s.hc, p, httpclient.Request{
		Method: http.MethodPut,
		JSON:   req,
	})
}

// DeleteActivity удаляет активность.
// DELETE /api/v1/admin/tickets/:ticket_number/activities/:activity_id
func (s *TicketsService) DeleteActivity(ctx context.Context, number, activityID string) (model.Ack, error) {
	p, err := s.activityPath(ScopeAdmin, number, activityID)
	if err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, p, httpclient.Request{Method: http.MethodDelete})
}

// CompleteActivity отмечает активность выполненной.
// PUT /api/v1/tickets/:ticket_number/activities/:activity_id/complete
func (s *TicketsService) CompleteActivity(ctx context.Context, number, activityID string) (model.Ack, error) {
	p, err := s.activityPath(ScopeUser, number, activityID)
	if err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, p+"/complete", httpclient.Request{Method: http.MethodPut})
}

// Assign назначает исполнителя и приоритет.
// PUT /api/v1/admin/tickets/:ticket_number/assign
func (s *TicketsService) Assign(ctx context.Context, number string, req model.AssignRequest) (model.Ack, error) {
	if _, ok := model.ParseAssignType(string(req.AssignType)); !ok {
		return model.Ack{}, fmt.Errorf("assign type %q: %w", req.AssignType, ErrInvalidParam)
	}
	return s.put(ctx, ScopeAdmin, number, "/assign", req)
}

// Reject отклоняет тикет.
// PUT /api/v1/admin/tickets/:ticket_number/reject
func (s *TicketsService) Reject(ctx context.Context, number string, d model.Decision) (model.Ack, error) {
	return s.put(ctx, ScopeAdmin, number, "/reject", map[string]string{
		"remarks":            d.Remarks,
		"reason_reject_uuid": d.ReasonID,
	})
}

// Pending переводит тикет в ожидание.
// PUT /api/v1/admin/tickets/:ticket_number/pending
func (s *TicketsService) Pending(ctx context.Context, number string, d model.Decision) (model.Ack, error) {
	return s.put(ctx, ScopeAdmin, number, "/pending", map[string]string{
		"remarks":             d.Remarks,
		"reason_pending_uuid": d.ReasonID,
	})
}

// Escalate эскалирует тикет.
// POST /api/v1/admin/tickets/:ticket_number/escalate
func (s *TicketsService) Escalate(ctx context.Context, number string) (model.Ack, error) {
	p, err := s.ticketPath(ScopeAdmin, number)
	if err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, p+"/escalate", httpclient.Request{Method: http.MethodPost})
}

// Acknowledge принимает тикет в работу.
// PUT /api/v1/tickets/:ticket_number/start
func (s *TicketsService) Acknowledge(ctx context.Context, number string) (model.Ack, error) {
	return s.put(ctx, ScopeUser, number, "/start", nil)
}

// Resume возобновляет работу после ожидания.
// PUT /api/v1/tickets/:ticket_number/resume
func (s *TicketsService) Resume(ctx context.Context, number string) (model.Ack, error) {
	return s.put(ctx, ScopeUser, number, "/resume", nil)
}

// Resolve закрывает тикет с отчётом и фотографиями.
// PUT /api/v1/tickets/:ticket_number/resolve (multipart/form-data)
func (s *TicketsService) Resolve(ctx context.Context, number string, form *httpclient.Multipart) (model.Ack, error) {
	p, err := s.ticketPath(ScopeUser, number)
	if err != nil {
		return model.Ack{}, err
	}
	if form == nil {
		form = httpclient.NewMultipart()
	}
	return httpclient.Do[model.Ack](ctx, s.hc, p+"/resolve", httpclient.Request{
		Method: http.MethodPut,
		Form:   form,
	})
}

// Transfer запрашивает передачу тикета.
// PUT /api/v1/tickets/:ticket_number/request-transfer
func (s *TicketsService) Transfer(ctx context.Context, number string, d model.Decision) (model.Ack, error) {
	return s.put(ctx, ScopeUser, number, "/request-transfer", map[string]string{
		"reason_transfer_uuid": d.ReasonID,
		"remarks":              d.Remarks,
	})
}

// RejectTransfer отклоняет запрос на передачу.
// PUT /api/v1/admin/tickets/:ticket_number/reject-transfer
func (s *TicketsService) RejectTransfer(ctx context.Context, number string, d model.Decision) (model.Ack, error) {
	return s.put(ctx, ScopeAdmin, number, "/reject-transfer", map[string]string{
		"remarks":            d.Remarks,
		"reason_reject_uuid": d.ReasonID,
	})
}

// Export выгружает тикеты в Excel и возвращает содержимое файла.
// GET /api/v1/admin/tickets/export?priority_uuid=..&store_uuid=..&start_date=..&end_date=..
func (s *TicketsService) Export(ctx context.Context, p ExportParams) ([]byte, error) {
	q := &queryBuilder{}
	q.addIf("priority_uuid", p.PriorityUUID).
		addIf("store_uuid", p.StoreUUID).
		addIf("start_date", p.StartDate).
		addIf("end_date", p.EndDate)
	return s.hc.Raw(ctx, "/admin/tickets/export"+q.String())
}

// ExportFilename возвращает имя файла выгрузки за дату t.
func ExportFilename(t time.Time) string {
	return "tickets-export-" + t.Format("2006-01-02") + ".xlsx"
}

// put выполняет PUT на подресурс тикета с JSON-телом (nil — без тела).
func (s *TicketsService) put(ctx context.Context, def Scope, number, action string, body any) (model.Ack, error) {
	p, err := s.ticketPath(def, number)
	if err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, p+action, httpclient.Request{
		Method: http.MethodPut,
		JSON:   body,
	})
}

// pageQuery — "?page=N&page_size=M" с умолчаниями 1 и 10.
func pageQuery(page, pageSize int) string {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return (&queryBuilder{}).addInt("page", page).addInt("page_size", pageSize).String()
}
