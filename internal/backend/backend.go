// Пакет backend — типизированные модули ресурсов KMM MRO Backend.
// Каждый ресурс (магазины, категории работ, тикеты, дашборд и т.д.)
// собирает URL, проверяет параметры пути и вызывает httpclient.
package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// SystemActor — last_action_by для destructive-операций без явного актора.
const SystemActor = "administrator"

var (
	// ErrInvalidUUID — параметр пути не является UUID.
	ErrInvalidUUID = errors.New("некорректный UUID")
	// ErrEmptyParam — обязательный параметр пуст.
	ErrEmptyParam = errors.New("пустой обязательный параметр")
	// ErrInvalidParam — значение параметра вне допустимого набора.
	ErrInvalidParam = errors.New("недопустимое значение параметра")
)

// SortOrder — направление сортировки списков.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ListParams — параметры постраничного списка справочника.
// Page <= 0 заменяется 1, PageSize <= 0 — размером страницы ресурса.
type ListParams struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// Client — набор модулей ресурсов поверх одного httpclient.Client.
type Client struct {
	Auth             *AuthService
	Stores           *Resource[model.Store, model.StoreRequest]
	WorkCategories   *Resource[model.WorkCategory, model.WorkCategoryRequest]
	FloorAreas       *Resource[model.FloorArea, model.FloorAreaRequest]
	RoomAreas        *Resource[model.RoomArea, model.RoomAreaRequest]
	ReasonPendings   *Resource[model.ReasonPending, model.ReasonPendingRequest]
	ReasonTransfers  *Resource[model.ReasonTransfer, model.ReasonTransferRequest]
	ReasonRejects    *Resource[model.ReasonReject, model.ReasonRejectRequest]
	TicketPriorities *Resource[model.TicketPriority, model.TicketPriorityRequest]
	Roles            *RolesService
	Menus            *MenusService
	Locations        *LocationsService
	Users            *UsersService
	Assignees        *AssigneesService
	Profile          *ProfileService
	Tickets          *TicketsService
	Dashboard        *DashboardService
}

// New создаёт модули ресурсов.
func New(hc *httpclient.Client, logger *slog.Logger) *Client {
	b := &base{hc: hc, logger: logger.With(slog.String("component", "backend"))}

	return &Client{
		Auth: &AuthService{base: b},
		Stores: newResource[model.Store, model.StoreRequest](b, resourceSpec{
			path:         "/stores",
			searchParams: []string{"search"},
			unwrapped:    true,
		}),
		WorkCategories: newResource[model.WorkCategory, model.WorkCategoryRequest](b, resourceSpec{
			path:         "/work-categories",
			searchParams: []string{"category_name", "category_code"},
		}),
		FloorAreas: newResource[model.FloorArea, model.FloorAreaRequest](b, resourceSpec{
			path:         "/floor-areas",
			searchParams: []string{"floor_area_name"},
		}),
		RoomAreas: newResource[model.RoomArea, model.RoomAreaRequest](b, resourceSpec{
			path:         "/room-areas",
			searchParams: []string{"room_area_name"},
		}),
		ReasonPendings: newResource[model.ReasonPending, model.ReasonPendingRequest](b, resourceSpec{
			path:         "/reason-pendings",
			searchParams: []string{"search"},
		}),
		ReasonTransfers: newResource[model.ReasonTransfer, model.ReasonTransferRequest](b, resourceSpec{
			path:         "/reason-transfers",
			searchParams: []string{"reason_transfer_name"},
		}),
		ReasonRejects: newResource[model.ReasonReject, model.ReasonRejectRequest](b, resourceSpec{
			path:         "/reason-rejects",
			searchParams: []string{"reason_reject_name"},
		}),
		TicketPriorities: newResource[model.TicketPriority, model.TicketPriorityRequest](b, resourceSpec{
			path:         "/ticket-priorities",
			searchParams: []string{"search"},
		}),
		Roles: &RolesService{
			base: b,
			list: lister[model.Role]{base: b, spec: resourceSpec{
				path:         "/roles",
				searchParams: []string{"role_code", "role_name"},
				sort:         sortWhenBoth,
			}},
		},
		Menus: &MenusService{base: b},
		Locations: &LocationsService{
			Resource: newResource[model.Location, model.LocationRequest](b, resourceSpec{
				path:         "/locations",
				searchParams: []string{"location_name"},
				pageSize:     50,
			}),
		},
		Users: &UsersService{
			base: b,
			list: lister[model.User]{base: b, spec: resourceSpec{
				path:         "/users",
				searchParams: []string{"search"},
				sort:         sortWhenBoth,
				unwrapped:    true,
			}},
		},
		Assignees: &AssigneesService{base: b},
		Profile:   &ProfileService{base: b},
		Tickets:   &TicketsService{base: b},
		Dashboard: &DashboardService{base: b},
	}
}

// base — общие зависимости модулей.
type base struct {
	hc     *httpclient.Client
	logger *slog.Logger
}

// actorOr возвращает actor или SystemActor с предупреждением в лог.
func (b *base) actorOr(op, actor string) string {
	if strings.TrimSpace(actor) != "" {
		return actor
	}
	b.logger.Warn("last_action_by не задан, используется системный актор",
		slog.String("operation", op),
		slog.String("actor", SystemActor),
	)
	return SystemActor
}

// checkUUID проверяет, что параметр пути — UUID.
func checkUUID(name, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return fmt.Errorf("%s %q: %w", name, value, ErrInvalidUUID)
	}
	return nil
}

// requireParam проверяет, что параметр пути не пуст.
func requireParam(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s: %w", name, ErrEmptyParam)
	}
	return nil
}

// pathEscape экранирует сегмент пути (номер тикета, ID активности).
func pathEscape(s string) string {
	return url.PathEscape(s)
}

// queryEscape экранирует значение как encodeURIComponent (пробел → %20).
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// queryBuilder собирает query string в порядке добавления параметров.
type queryBuilder struct {
	parts []string
}

func (q *queryBuilder) add(key, value string) *queryBuilder {
	q.parts = append(q.parts, key+"="+queryEscape(value))
	return q
}

// addIf добавляет параметр только для непустого значения.
func (q *queryBuilder) addIf(key, value string) *queryBuilder {
	if value != "" {
		q.add(key, value)
	}
	return q
}

func (q *queryBuilder) addInt(key string, value int) *queryBuilder {
	return q.add(key, strconv.Itoa(value))
}

// String возвращает "?a=1&b=2" или пустую строку.
func (q *queryBuilder) String() string {
	if len(q.parts) == 0 {
		return ""
	}
	return "?" + strings.Join(q.parts, "&")
}

// unwrap извлекает data из Envelope.
func unwrap[T any](env model.Envelope[T], err error) (T, error) {
	return env.Data, err
}
