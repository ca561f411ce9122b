package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// defaultPageSize — размер страницы справочника по умолчанию.
const defaultPageSize = 10

// sortRule — условие добавления sort/order в query string.
type sortRule int

const (
	// sortWhenField — sort и order добавляются при заданном поле (order может быть пустым).
	sortWhenField sortRule = iota
	// sortWhenBoth — sort и order добавляются только вместе.
	sortWhenBoth
)

// resourceSpec описывает отличия справочников друг от друга.
type resourceSpec struct {
	path string
	// searchParams — имена параметров, в которые подставляется строка поиска
	searchParams []string
	sort         sortRule
	// pageSize — размер страницы по умолчанию (0 — defaultPageSize)
	pageSize int
	// unwrapped — список приходит без Envelope
	unwrapped bool
}

// listQuery строит query string списка:
// page, page_size, [sort, order], [параметры поиска].
func (s resourceSpec) listQuery(p ListParams) string {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	size := p.PageSize
	if size <= 0 {
		size = s.pageSize
	}
	if size <= 0 {
		size = defaultPageSize
	}

	q := &queryBuilder{}
	q.addInt("page", page).addInt("page_size", size)

	switch s.sort {
	case sortWhenField:
		if p.SortBy != "" {
			q.add("sort", p.SortBy).add("order", string(p.SortOrder))
		}
	case sortWhenBoth:
		if p.SortBy != "" && p.SortOrder != "" {
			q.add("sort", p.SortBy).add("order", string(p.SortOrder))
		}
	}

	if search := strings.TrimSpace(p.Search); search != "" {
		for _, name := range s.searchParams {
			q.add(name, search)
		}
	}
	return q.String()
}

// lister — постраничный список активных записей справочника.
type lister[T any] struct {
	base *base
	spec resourceSpec
}

// List возвращает страницу активных записей.
// GET {path}/active?page=..&page_size=..
func (l lister[T]) List(ctx context.Context, p ListParams) (model.Page[T], error) {
	endpoint := l.spec.path + "/active" + l.spec.listQuery(p)
	if l.spec.unwrapped {
		return httpclient.Do[model.Page[T]](ctx, l.base.hc, endpoint, httpclient.Request{})
	}
	return unwrap(httpclient.Do[model.Envelope[model.Page[T]]](ctx, l.base.hc, endpoint, httpclient.Request{}))
}

// Resource — CRUD справочника с UUID-идентификаторами.
// T — запись ответа, R — тело создания и обновления.
type Resource[T, R any] struct {
	lister[T]
}

func newResource[T, R any](b *base, spec resourceSpec) *Resource[T, R] {
	return &Resource[T, R]{lister: lister[T]{base: b, spec: spec}}
}

// Path возвращает базовый путь ресурса.
func (r *Resource[T, R]) Path() string { return r.spec.path }

// Get возвращает запись по UUID.
// GET {path}/:uuid
func (r *Resource[T, R]) Get(ctx context.Context, id string) (model.Envelope[T], error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Envelope[T]{}, err
	}
	return httpclient.Do[model.Envelope[T]](ctx, r.base.hc, r.spec.path+"/"+id, httpclient.Request{})
}

// Create создаёт запись.
// POST {path}
func (r *Resource[T, R]) Create(ctx context.Context, req R) (model.Envelope[T], error) {
	return httpclient.Do[model.Envelope[T]](ctx, r.base.hc, r.spec.path, httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	})
}

// Update обновляет запись.
// PUT {path}/:uuid
func (r *Resource[T, R]) Update(ctx context.Context, id string, req R) (model.Envelope[T], error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Envelope[T]{}, err
	}
	return httpclient.Do[model.Envelope[T]](ctx, r.base.hc, r.spec.path+"/"+id, httpclient.Request{
		Method: http.MethodPut,
		JSON:   req,
	})
}

// Delete удаляет запись от имени actor (пустой actor — SystemActor).
// DELETE {path}/:uuid с телом {last_action_by}
func (r *Resource[T, R]) Delete(ctx context.Context, id, actor string) (model.Ack, error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, r.base.hc, r.spec.path+"/"+id, httpclient.Request{
		Method: http.MethodDelete,
		JSON:   model.ActorRequest{LastActionBy: r.base.actorOr("DELETE "+r.spec.path, actor)},
	})
}
