package backend

import (
	"context"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// LocationsService — иерархия локаций (страна → ... → район).
// CRUD и список (page_size 50 по умолчанию, поиск по location_name) — через Resource.
type LocationsService struct {
	*Resource[model.Location, model.LocationRequest]
}

// Hierarchy возвращает локацию вместе с цепочкой родителей.
// GET /api/v1/locations/:uuid/hierarchy
func (s *LocationsService) Hierarchy(ctx context.Context, id string) (model.LocationHierarchy, error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.LocationHierarchy{}, err
	}
	return unwrap(httpclient.Do[model.Envelope[model.LocationHierarchy]](ctx, s.base.hc, "/locations/"+id+"/hierarchy", httpclient.Request{}))
}

// SubLocations возвращает дочерние локации.
// GET /api/v1/locations/sublocations/:parent_uuid
func (s *LocationsService) SubLocations(ctx context.Context, parentID string) (model.Collection[model.Location], error) {
	if err := checkUUID("parent_uuid", parentID); err != nil {
		return model.Collection[model.Location]{}, err
	}
	return unwrap(httpclient.Do[model.Envelope[model.Collection[model.Location]]](ctx, s.base.hc, "/locations/sublocations/"+parentID, httpclient.Request{}))
}

// Parents возвращает локации верхнего уровня (страны).
// GET /api/v1/locations/parents
func (s *LocationsService) Parents(ctx context.Context) (model.Collection[model.Location], error) {
	return unwrap(httpclient.Do[model.Envelope[model.Collection[model.Location]]](ctx, s.base.hc, "/locations/parents", httpclient.Request{}))
}
