package hooks

import (
	"context"
	"errors"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/normalize"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
)

// optionsPageSize — размер выборки справочника для выпадающих списков.
const optionsPageSize = 100

// priorityPageSize — размер страницы приоритетов по умолчанию.
const priorityPageSize = 1000

// ErrInvalidData — бэкенд вернул ответ без ожидаемых данных.
var ErrInvalidData = errors.New("Invalid data format received from server") //nolint:staticcheck // сообщение для пользователя

// ResourceHooks — чтения и изменения справочника с инвалидацией его семейства.
type ResourceHooks[T, R any] struct {
	h      *Hooks
	res    *backend.Resource[T, R]
	family querycache.Key
}

func newResourceHooks[T, R any](h *Hooks, res *backend.Resource[T, R], family querycache.Key) *ResourceHooks[T, R] {
	return &ResourceHooks[T, R]{h: h, res: res, family: family}
}

// Family возвращает префикс ключей справочника.
func (r *ResourceHooks[T, R]) Family() querycache.Key { return r.family }

// List возвращает страницу справочника.
// Ключ: [семейство, list, page, page_size, search, sort_by, sort_order].
func (r *ResourceHooks[T, R]) List(ctx context.Context, p backend.ListParams) (model.Page[T], error) {
	key := r.family.With("list", p.Page, p.PageSize, opt(p.Search), opt(p.SortBy), opt(p.SortOrder))
	return querycache.Fetch(ctx, r.h.cache, key, func(ctx context.Context) (model.Page[T], error) {
		return r.res.List(ctx, p)
	})
}

// All возвращает первые записи справочника для выпадающих списков.
// Ключ: [семейство, sort_by, sort_order].
func (r *ResourceHooks[T, R]) All(ctx context.Context, sortBy string, order backend.SortOrder) ([]T, error) {
	if order == "" {
		order = backend.SortAsc
	}
	key := r.family.With(opt(sortBy), string(order))
	return querycache.Fetch(ctx, r.h.cache, key, func(ctx context.Context) ([]T, error) {
		page, err := r.res.List(ctx, backend.ListParams{
			Page:      1,
			PageSize:  optionsPageSize,
			SortBy:    sortBy,
			SortOrder: order,
		})
		if err != nil {
			return nil, err
		}
		return page.Data, nil
	})
}

// Get возвращает запись по UUID. Пустой UUID — запрос не выполняется (ErrDisabled).
func (r *ResourceHooks[T, R]) Get(ctx context.Context, id string) (model.Envelope[T], error) {
	key := r.family.With("detail", id)
	return querycache.Fetch(ctx, r.h.cache, key, func(ctx context.Context) (model.Envelope[T], error) {
		return r.res.Get(ctx, id)
	}, querycache.Enabled(id != ""))
}

// Create создаёт запись и инвалидирует семейство.
func (r *ResourceHooks[T, R]) Create(ctx context.Context, req R) (model.Envelope[T], error) {
	return mutate(r.h, func() (model.Envelope[T], error) {
		return r.res.Create(ctx, req)
	}, r.family)
}

// Update обновляет запись и инвалидирует семейство.
func (r *ResourceHooks[T, R]) Update(ctx context.Context, id string, req R) (model.Envelope[T], error) {
	return mutate(r.h, func() (model.Envelope[T], error) {
		return r.res.Update(ctx, id, req)
	}, r.family)
}

// Delete удаляет запись от имени actor и инвалидирует семейство.
func (r *ResourceHooks[T, R]) Delete(ctx context.Context, id, actor string) (model.Ack, error) {
	return mutate(r.h, func() (model.Ack, error) {
		return r.res.Delete(ctx, id, actor)
	}, r.family)
}

// --- Приоритеты ---

// priorityQuery — параметры запроса приоритетов в ключе.
type priorityQuery struct {
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
	Search    string `json:"search,omitempty"`
	SortBy    string `json:"sortBy,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"`
}

// TicketPriorities возвращает приоритеты в форме PriorityView.
// По умолчанию запрашивается одна страница из 1000 записей.
func (h *Hooks) TicketPriorities(ctx context.Context, p backend.ListParams) (model.PriorityPage, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = priorityPageSize
	}
	key := querycache.TicketPriorities.With(priorityQuery{
		Page:      p.Page,
		PageSize:  p.PageSize,
		Search:    p.Search,
		SortBy:    p.SortBy,
		SortOrder: string(p.SortOrder),
	})
	return querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) (model.PriorityPage, error) {
		page, err := h.api.TicketPriorities.List(ctx, p)
		if err != nil {
			return model.PriorityPage{}, err
		}
		if page.Data == nil {
			return model.PriorityPage{}, ErrInvalidData
		}
		return normalize.TicketPriorities(page), nil
	})
}

// --- Исполнители ---

// Assignees возвращает исполнителей указанного типа как пары label/value.
func (h *Hooks) Assignees(ctx context.Context, t model.AssignType) ([]model.Option, error) {
	key := querycache.Assignees.With(string(t))
	return querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) ([]model.Option, error) {
		list, err := h.api.Assignees.List(ctx, t)
		if err != nil {
			return nil, err
		}
		opts := make([]model.Option, 0, len(list.Data))
		for _, a := range list.Data {
			opts = append(opts, model.Option{Label: a.Name, Value: a.UUID})
		}
		return opts, nil
	}, querycache.Enabled(t != ""))
}

// --- Роли ---

// Roles возвращает страницу ролей.
func (h *Hooks) Roles(ctx context.Context, p backend.ListParams) (model.Page[model.Role], error) {
	key := querycache.RolesList.With(p.Page, p.PageSize, opt(p.Search), opt(p.SortBy), opt(p.SortOrder))
	return querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) (model.Page[model.Role], error) {
		return h.api.Roles.List(ctx, p)
	})
}

// ActiveRoles возвращает активные роли.
func (h *Hooks) ActiveRoles(ctx context.Context) (model.Page[model.Role], error) {
	return querycache.Fetch(ctx, h.cache, querycache.Roles, h.api.Roles.Active)
}

// Role возвращает роль с правами на меню. Пустой UUID — ErrDisabled.
func (h *Hooks) Role(ctx context.Context, id string) (model.Envelope[model.RoleDetail], error) {
	return querycache.Fetch(ctx, h.cache, querycache.RolesDetail.With(id), func(ctx context.Context) (model.Envelope[model.RoleDetail], error) {
		return h.api.Roles.Get(ctx, id)
	}, querycache.Enabled(id != ""))
}

// CreateRole создаёт роль.
func (h *Hooks) CreateRole(ctx context.Context, req model.RoleRequest) (model.Role, error) {
	return mutate(h, func() (model.Role, error) {
		return h.api.Roles.Create(ctx, req)
	}, querycache.Roles)
}

// UpdateRole обновляет роль.
func (h *Hooks) UpdateRole(ctx context.Context, id string, req model.RoleRequest) (model.Role, error) {
	return mutate(h, func() (model.Role, error) {
		return h.api.Roles.Update(ctx, id, req)
	}, querycache.Roles)
}

// DeleteRole удаляет роль.
func (h *Hooks) DeleteRole(ctx context.Context, id, actor string) (model.Ack, error) {
	return mutate(h, func() (model.Ack, error) {
		return h.api.Roles.Delete(ctx, id, actor)
	}, querycache.Roles)
}

// --- Меню ---

// Menus возвращает все пункты меню.
func (h *Hooks) Menus(ctx context.Context) (model.Collection[model.Menu], error) {
	return querycache.Fetch(ctx, h.cache, querycache.Menus, h.api.Menus.All)
}

// ActiveMenus возвращает активные пункты меню.
func (h *Hooks) ActiveMenus(ctx context.Context) (model.Collection[model.Menu], error) {
	return querycache.Fetch(ctx, h.cache, querycache.ActiveMenus, h.api.Menus.Active)
}

// MenuHierarchy возвращает дерево меню.
func (h *Hooks) MenuHierarchy(ctx context.Context) (model.Collection[model.MenuNode], error) {
	return querycache.Fetch(ctx, h.cache, querycache.Menus.With("hierarchy"), h.api.Menus.Hierarchy)
}

// CreateMenu создаёт пункт меню.
func (h *Hooks) CreateMenu(ctx context.Context, req model.MenuRequest) (model.Envelope[model.Menu], error) {
	return mutate(h, func() (model.Envelope[model.Menu], error) {
		return h.api.Menus.Create(ctx, req)
	}, querycache.Menus)
}

// UpdateMenu обновляет пункт меню.
func (h *Hooks) UpdateMenu(ctx context.Context, id string, req model.MenuRequest) (model.Envelope[model.Menu], error) {
	return mutate(h, func() (model.Envelope[model.Menu], error) {
		return h.api.Menus.Update(ctx, id, req)
	}, querycache.Menus)
}

// DeactivateMenu деактивирует пункт меню.
func (h *Hooks) DeactivateMenu(ctx context.Context, id, actor string) (model.Ack, error) {
	return mutate(h, func() (model.Ack, error) {
		return h.api.Menus.Deactivate(ctx, id, actor)
	}, querycache.Menus)
}

// --- Локации ---

// Countries возвращает локации верхнего уровня.
func (h *Hooks) Countries(ctx context.Context) (model.Collection[model.Location], error) {
	return querycache.Fetch(ctx, h.cache, querycache.Countries, h.api.Locations.Parents)
}

// SubLocations возвращает дочерние локации. Пустой parentID — ErrDisabled.
func (h *Hooks) SubLocations(ctx context.Context, parentID string) (model.Collection[model.Location], error) {
	key := querycache.SubLocations.With(parentID)
	return querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) (model.Collection[model.Location], error) {
		return h.api.Locations.SubLocations(ctx, parentID)
	}, querycache.Enabled(parentID != ""))
}

// LocationHierarchy возвращает цепочку родителей локации. Пустой UUID — ErrDisabled.
func (h *Hooks) LocationHierarchy(ctx context.Context, id string) (model.LocationHierarchy, error) {
	key := querycache.LocationHierarchies.With(id)
	return querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) (model.LocationHierarchy, error) {
		return h.api.Locations.Hierarchy(ctx, id)
	}, querycache.Enabled(id != ""))
}

// --- Пользователи ---

// Users возвращает страницу активных пользователей. storeID входит только
// в ключ: бэкенд не фильтрует список по магазину.
func (h *Hooks) Users(ctx context.Context, p backend.ListParams, storeID string) (model.Page[model.User], error) {
	key := querycache.UsersList.With(p.Page, p.PageSize, opt(p.Search), opt(p.SortBy), opt(p.SortOrder), opt(storeID))
	return querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) (model.Page[model.User], error) {
		return h.api.Users.List(ctx, p)
	})
}

// User возвращает пользователя по UUID. Пустой UUID — ErrDisabled.
func (h *Hooks) User(ctx context.Context, id string) (model.Envelope[model.User], error) {
	return querycache.Fetch(ctx, h.cache, querycache.UsersDetail.With(id), func(ctx context.Context) (model.Envelope[model.User], error) {
		return h.api.Users.Get(ctx, id)
	}, querycache.Enabled(id != ""))
}

// CreateUser создаёт пользователя и возвращает ссылку установки пароля.
func (h *Hooks) CreateUser(ctx context.Context, req model.UserRequest) (model.CreateUserResult, error) {
	return mutate(h, func() (model.CreateUserResult, error) {
		return h.api.Users.Create(ctx, req)
	}, querycache.Users)
}

// UpdateUser обновляет пользователя.
func (h *Hooks) UpdateUser(ctx context.Context, id string, req model.UserRequest) (model.User, error) {
	return mutate(h, func() (model.User, error) {
		return h.api.Users.Update(ctx, id, req)
	}, querycache.Users)
}

// DeleteUser удаляет пользователя.
func (h *Hooks) DeleteUser(ctx context.Context, id, actor string) error {
	_, err := mutate(h, func() (struct{}, error) {
		return struct{}{}, h.api.Users.Delete(ctx, id, actor)
	}, querycache.Users)
	return err
}
