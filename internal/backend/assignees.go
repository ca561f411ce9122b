package backend

import (
	"context"
	"fmt"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// AssigneesService — исполнители тикетов (вендоры и сотрудники).
type AssigneesService struct {
	*base
}

// List возвращает исполнителей указанного типа. data может прийти null.
// GET /api/v1/assignees?type=vendor|internal
func (s *AssigneesService) List(ctx context.Context, t model.AssignType) (model.Collection[model.Assignee], error) {
	if _, ok := model.ParseAssignType(string(t)); !ok {
		return model.Collection[model.Assignee]{}, fmt.Errorf("assign type %q: %w", t, ErrInvalidParam)
	}
	q := (&queryBuilder{}).add("type", string(t))
	return httpclient.Do[model.Collection[model.Assignee]](ctx, s.hc, "/assignees"+q.String(), httpclient.Request{})
}
