// Пакет querycache — кэш результатов запросов к бэкенду KMM MRO
// с объединением одновременных загрузок, окном свежести и инвалидацией по префиксу ключа.
// Обёртка над hashicorp/golang-lru/v2/expirable и x/sync/singleflight.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// ErrDisabled — запрос выключен (например, не задан обязательный UUID), загрузка не выполнялась.
var ErrDisabled = errors.New("запрос выключен")

// Значения по умолчанию.
const (
	DefaultSize       = 1000
	DefaultStaleTime  = 5 * time.Minute
	DefaultTTL        = 30 * time.Minute
	DefaultRetry      = 1
	DefaultRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mro_query_cache_hits_total",
		Help: "Количество попаданий в кэш запросов.",
	}, []string{"resource"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mro_query_cache_misses_total",
		Help: "Количество промахов кэша запросов.",
	}, []string{"resource"})
	cacheFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mro_query_cache_fetches_total",
		Help: "Количество обращений к бэкенду из кэша запросов (включая повторы).",
	}, []string{"resource"})
	cacheFetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mro_query_cache_fetch_errors_total",
		Help: "Количество неудачных загрузок кэша запросов.",
	}, []string{"resource"})
)

// Options — параметры кэша. Нулевые значения заменяются значениями по умолчанию.
type Options struct {
	Size      int
	StaleTime time.Duration
	TTL       time.Duration
	// Retry — количество повторов после неудачной загрузки; отрицательное значение — без повторов
	Retry      int
	RetryDelay time.Duration
}

// entry — результат загрузки. Поля кроме invalidated не изменяются после создания.
type entry struct {
	key         Key
	value       any
	fetchedAt   time.Time
	invalidated atomic.Bool
}

// Cache — кэш запросов.
type Cache struct {
	lru        *expirable.LRU[string, *entry]
	group      singleflight.Group
	staleTime  time.Duration
	retry      int
	retryDelay time.Duration
	now        func() time.Time
	logger     *slog.Logger

	// generation увеличивается при каждой инвалидации; загрузка, начатая
	// до инвалидации, сохраняет результат уже помеченным устаревшим
	generation atomic.Uint64
}

// New создаёт кэш запросов.
func New(opts Options, logger *slog.Logger) *Cache {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	} else if opts.Retry == 0 {
		opts.Retry = DefaultRetry
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}

	return &Cache{
		lru:        expirable.NewLRU[string, *entry](opts.Size, nil, opts.TTL),
		staleTime:  opts.StaleTime,
		retry:      opts.Retry,
		retryDelay: opts.RetryDelay,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "query_cache")),
	}
}

// FetchOption — параметр отдельного запроса.
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	enabled   bool
	staleTime time.Duration
}

// Enabled выключает запрос при false: Fetch возвращает ErrDisabled без загрузки.
func Enabled(enabled bool) FetchOption {
	return func(o *fetchOptions) { o.enabled = enabled }
}

// StaleTime задаёт окно свежести для запроса.
func StaleTime(d time.Duration) FetchOption {
	return func(o *fetchOptions) { o.staleTime = d }
}

// Fetch возвращает значение по ключу: свежее из кэша, устаревшее с фоновым обновлением
// или загруженное через fn. Одновременные загрузки одного ключа объединяются.
// Вызывающий, чей ctx завершился, получает ctx.Err(); общая загрузка продолжается.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error), opts ...FetchOption) (T, error) {
	o := fetchOptions{enabled: true, staleTime: c.staleTime}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	if !o.enabled {
		return zero, ErrDisabled
	}

	load := func(ctx context.Context) (any, error) { return fn(ctx) }
	id := key.String()
	resource := key.Resource()

	if e, ok := c.lru.Get(id); ok && !e.invalidated.Load() {
		if v, ok := e.value.(T); ok {
			cacheHitsTotal.WithLabelValues(resource).Inc()
			if c.now().Sub(e.fetchedAt) >= o.staleTime {
				c.refresh(key, id, load)
			}
			return v, nil
		}
	}
	cacheMissesTotal.WithLabelValues(resource).Inc()

	v, err := c.load(ctx, key, id, load)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("ключ %s: значение типа %T, ожидался %T", id, v, zero)
	}
	return out, nil
}

// Peek возвращает значение из кэша без загрузки и без учёта свежести.
func Peek[T any](c *Cache, key Key) (T, bool) {
	var zero T
	e, ok := c.lru.Peek(key.String())
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Set помещает значение в кэш как только что загруженное.
func (c *Cache) Set(key Key, value any) {
	c.lru.Add(key.String(), &entry{key: key.With(), value: value, fetchedAt: c.now()})
}

// Invalidate помечает устаревшими все записи, ключ которых начинается с prefix.
// Следующий Fetch такой записи загружает данные заново. Возвращает количество записей.
func (c *Cache) Invalidate(prefix Key) int {
	c.generation.Add(1)
	n := 0
	for _, id := range c.lru.Keys() {
		e, ok := c.lru.Peek(id)
		if !ok || !e.key.HasPrefix(prefix) {
			continue
		}
		e.invalidated.Store(true)
		c.group.Forget(id)
		n++
	}
	if n > 0 {
		c.logger.Debug("Записи кэша инвалидированы",
			slog.String("prefix", prefix.String()),
			slog.Int("count", n),
		)
	}
	return n
}

// Remove удаляет все записи, ключ которых начинается с prefix.
// Пустой prefix очищает кэш целиком. Возвращает количество удалённых записей.
func (c *Cache) Remove(prefix Key) int {
	c.generation.Add(1)
	if len(prefix) == 0 {
		n := c.lru.Len()
		c.lru.Purge()
		return n
	}
	n := 0
	for _, id := range c.lru.Keys() {
		e, ok := c.lru.Peek(id)
		if ok && e.key.HasPrefix(prefix) && c.lru.Remove(id) {
			c.group.Forget(id)
			n++
		}
	}
	return n
}

// Len возвращает количество записей в кэше.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// load выполняет общую для всех ожидающих загрузку ключа.
func (c *Cache) load(ctx context.Context, key Key, id string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(id, func() (any, error) {
		gen := c.generation.Load()
		v, err := c.fetchWithRetry(detached, key.Resource(), fn)
		if err != nil {
			return nil, err
		}
		e := &entry{key: key.With(), value: v, fetchedAt: c.now()}
		if c.generation.Load() != gen {
			e.invalidated.Store(true)
		}
		c.lru.Add(id, e)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// refresh обновляет устаревшую запись в фоне.
func (c *Cache) refresh(key Key, id string, fn func(context.Context) (any, error)) {
	go func() {
		if _, err := c.load(context.Background(), key, id, fn); err != nil {
			c.logger.Warn("Фоновое обновление записи кэша не удалось",
				slog.String("key", id),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// fetchWithRetry вызывает fn с повторами. Задержка удваивается после каждого
// повтора и ограничена maxRetryDelay.
func (c *Cache) fetchWithRetry(ctx context.Context, resource string, fn func(context.Context) (any, error)) (any, error) {
	delay := c.retryDelay
	var lastErr error
	for attempt := 0; attempt <= c.retry; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			delay = min(delay*2, maxRetryDelay)
		}

		cacheFetchesTotal.WithLabelValues(resource).Inc()
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		cacheFetchErrorsTotal.WithLabelValues(resource).Inc()
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return nil, lastErr
}

// retryable: 401, отмена контекста и выключенный запрос не повторяются.
func retryable(err error) bool {
	return !errors.Is(err, httpclient.ErrUnauthorized) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, ErrDisabled)
}
