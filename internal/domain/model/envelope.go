// Пакет model — типы данных контракта KMM MRO Backend (/api/v1).
// Слой только отражает и перекладывает структуры бэкенда, собственного
// авторитетного состояния здесь нет.
package model

// Envelope — стандартная обёртка ответа бэкенда: {success, message, data}.
// Бэкенд непоследователен в регистре ключа (Success / success);
// encoding/json сопоставляет имена полей без учёта регистра, поэтому
// одного тега достаточно для обоих вариантов.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Ack — ответ без полезной нагрузки: {success, message}.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Page — страница коллекции. Бэкенд возвращает её либо внутри Envelope
// (большинство справочников), либо без обёртки (магазины, пользователи).
type Page[T any] struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
	Data         []T  `json:"data"`
}

// Consistent проверяет инвариант пагинации:
// has_next ⇔ current_page < total_pages и has_prev ⇔ current_page > 1.
func (p Page[T]) Consistent() bool {
	return p.HasNext == (p.CurrentPage < p.TotalPages) &&
		p.HasPrev == (p.CurrentPage > 1)
}

// Pagination — блок пагинации без данных (для трансформированных списков).
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// PaginationOf извлекает блок пагинации из страницы.
func PaginationOf[T any](p Page[T]) Pagination {
	return Pagination{
		CurrentPage:  p.CurrentPage,
		PageSize:     p.PageSize,
		TotalPages:   p.TotalPages,
		TotalRecords: p.TotalRecords,
		HasNext:      p.HasNext,
		HasPrev:      p.HasPrev,
	}
}

// Collection — список без пагинации: {total, data}.
type Collection[T any] struct {
	Total int `json:"total"`
	Data  []T `json:"data"`
}

// ActorRequest — тело destructive-операций: {last_action_by}.
type ActorRequest struct {
	LastActionBy string `json:"last_action_by"`
}

// Option — пара label/value для выпадающих списков.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
