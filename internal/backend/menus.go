package backend

import (
	"context"
	"net/http"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// MenusService — пункты меню и их иерархия.
type MenusService struct {
	*base
}

// Create создаёт пункт меню.
// POST /api/v1/menus
func (s *MenusService) Create(ctx context.Context, req model.MenuRequest) (model.Envelope[model.Menu], error) {
	return httpclient.Do[model.Envelope[model.Menu]](ctx, s.hc, "/menus", httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	})
}

// All возвращает все пункты меню.
// GET /api/v1/menus
func (s *MenusService) All(ctx context.Context) (model.Collection[model.Menu], error) {
	return unwrap(httpclient.Do[model.Envelope[model.Collection[model.Menu]]](ctx, s.hc, "/menus", httpclient.Request{}))
}

// Active возвращает активные пункты меню.
// GET /api/v1/menus/active
func (s *MenusService) Active(ctx context.Context) (model.Collection[model.Menu], error) {
	return unwrap(httpclient.Do[model.Envelope[model.Collection[model.Menu]]](ctx, s.hc, "/menus/active", httpclient.Request{}))
}

// Parents возвращает пункты верхнего уровня.
// GET /api/v1/menus/parents
func (s *MenusService) Parents(ctx context.Context) (model.Collection[model.Menu], error) {
	return unwrap(httpclient.Do[model.Envelope[model.Collection[model.Menu]]](ctx, s.hc, "/menus/parents", httpclient.Request{}))
}

// Hierarchy возвращает дерево меню.
// GET /api/v1/menus/hierarchy
func (s *MenusService) Hierarchy(ctx context.Context) (model.Collection[model.MenuNode], error) {
	return unwrap(httpclient.Do[model.Envelope[model.Collection[model.MenuNode]]](ctx, s.hc, "/menus/hierarchy", httpclient.Request{}))
}

// Get возвращает пункт меню.
// GET /api/v1/menus/:uuid
func (s *MenusService) Get(ctx context.Context, id string) (model.Envelope[model.Menu], error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Envelope[model.Menu]{}, err
	}
	return httpclient.Do[model.Envelope[model.Menu]](ctx, s.hc, "/menus/"+id, httpclient.Request{})
}

// SubMenus возвращает подменю пункта.
// GET /api/v1/menus/:uuid/submenus
func (s *MenusService) SubMenus(ctx context.Context, id string) (model.Collection[model.Menu], error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Collection[model.Menu]{}, err
	}
	return unwrap(httpclient.Do[model.Envelope[model.Collection[model.Menu]]](ctx, s.hc, "/menus/"+id+"/submenus", httpclient.Request{}))
}

// Update обновляет пункт меню.
// PUT /api/v1/menus/:uuid
func (s *MenusService) Update(ctx context.Context, id string, req model.MenuRequest) (model.Envelope[model.Menu], error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Envelope[model.Menu]{}, err
	}
	return httpclient.Do[model.Envelope[model.Menu]](ctx, s.hc, "/menus/"+id, httpclient.Request{
		Method: http.MethodPut,
		JSON:   req,
	})
}

// Deactivate отключает пункт меню.
// PATCH /api/v1/menus/:uuid/deactivate
func (s *MenusService) Deactivate(ctx context.Context, id, actor string) (model.Ack, error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, "/menus/"+id+"/deactivate", httpclient.Request{
		Method: http.MethodPatch,
		JSON:   model.ActorRequest{LastActionBy: s.actorOr("PATCH /menus/deactivate", actor)},
	})
}
