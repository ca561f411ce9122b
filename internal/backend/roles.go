package backend

import (
	"context"
	"net/http"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// RolesService — роли и их права на меню.
// В отличие от справочников, создание и обновление возвращают роль без Envelope.
type RolesService struct {
	*base
	list lister[model.Role]
}

// List возвращает страницу активных ролей.
// Поиск передаётся в role_code и role_name, сортировка — только вместе с order.
// GET /api/v1/roles/active?page=1&page_size=10&sort=role_name&order=DESC&role_code=..&role_name=..
func (s *RolesService) List(ctx context.Context, p ListParams) (model.Page[model.Role], error) {
	return s.list.List(ctx, p)
}

// Active возвращает активные роли без параметров пагинации.
// GET /api/v1/roles/active
func (s *RolesService) Active(ctx context.Context) (model.Page[model.Role], error) {
	return unwrap(httpclient.Do[model.Envelope[model.Page[model.Role]]](ctx, s.hc, "/roles/active", httpclient.Request{}))
}

// Get возвращает роль с правами на меню.
// GET /api/v1/roles/:uuid
func (s *RolesService) Get(ctx context.Context, id string) (model.Envelope[model.RoleDetail], error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Envelope[model.RoleDetail]{}, err
	}
	return httpclient.Do[model.Envelope[model.RoleDetail]](ctx, s.hc, "/roles/"+id, httpclient.Request{})
}

// Create создаёт роль.
// POST /api/v1/roles
func (s *RolesService) Create(ctx context.Context, req model.RoleRequest) (model.Role, error) {
	return httpclient.Do[model.Role](ctx, s.hc, "/roles", httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	})
}

// Update обновляет роль и её права.
// PUT /api/v1/roles/:uuid
func (s *RolesService) Update(ctx context.Context, id string, req model.RoleRequest) (model.Role, error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Role{}, err
	}
	return httpclient.Do[model.Role](ctx, s.hc, "/roles/"+id, httpclient.Request{
		Method: http.MethodPut,
		JSON:   req,
	})
}

// Delete удаляет роль.
// DELETE /api/v1/roles/:uuid
func (s *RolesService) Delete(ctx context.Context, id, actor string) (model.Ack, error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, "/roles/"+id, httpclient.Request{
		Method: http.MethodDelete,
		JSON:   model.ActorRequest{LastActionBy: s.actorOr("DELETE /roles", actor)},
	})
}
