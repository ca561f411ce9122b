// Пакет httpclient — HTTP-клиент KMM MRO Backend.
// Добавляет стандартные заголовки и bearer-токен сессии, декодирует JSON
// и обрабатывает 401: сброс сессии, уведомление, переход на /login.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bambang-ap/kmm-mro-shared/internal/notify"
)

const (
	// LoginEndpoint — единственный endpoint, вызываемый без Authorization.
	LoginEndpoint = "/auth/login"
	// LoginRoute — маршрут, на который выполняется переход после 401.
	LoginRoute = "/login"

	// unauthorizedID — ID уведомления об истёкшей сессии (дедупликация).
	unauthorizedID      = "Unauthorized"
	unauthorizedMessage = "Session expired. Please log in again."
)

// publicRoutes — маршруты, на которых 401 не приводит к переходу на /login.
var publicRoutes = map[string]bool{
	"/login":           true,
	"/forgot-password": true,
	"/create-password": true,
	"/register":        true,
}

// IsPublicRoute сообщает, относится ли маршрут к публичным.
func IsPublicRoute(route string) bool {
	return publicRoutes[route]
}

// Session — источник токена и языка, а также сброс сессии после 401.
type Session interface {
	AccessToken() string
	Language() string
	// Expire очищает сессию в памяти и в хранилище.
	Expire() error
}

// Navigator выполняет переход на маршрут (например, /login).
type Navigator func(ctx context.Context, route string)

// RouteFunc возвращает текущий маршрут потребителя.
type RouteFunc func() string

// Config — параметры клиента.
type Config struct {
	// BaseURL — полный базовый адрес API (например, http://host/api/v1)
	BaseURL string
	// UserApplication — значение заголовка User-Application
	UserApplication string
	// DefaultLanguage — User-Language, если сессия не задаёт язык
	DefaultLanguage string
	// Timeout — таймаут запроса (0 — без таймаута)
	Timeout time.Duration
	// Transport — базовый транспорт (по умолчанию http.DefaultTransport)
	Transport http.RoundTripper
	// Breaker — параметры circuit breaker (nil — выключен)
	Breaker *BreakerSettings

	Session   Session
	Navigator Navigator
	Route     RouteFunc
	Notifier  notify.Notifier
}

// Request — параметры одного запроса.
// JSON и Form взаимоисключающие; при Form заголовок Content-Type
// application/json не выставляется.
type Request struct {
	Method string
	JSON   any
	Form   *Multipart
	Header http.Header
}

// Client — HTTP-клиент бэкенда.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	userApplication string
	defaultLanguage string
	session         Session
	navigator       Navigator
	route           RouteFunc
	notifier        notify.Notifier
	logger          *slog.Logger
}

// New создаёт клиент. Трассировка запросов подключается через otelhttp.
func New(cfg Config, logger *slog.Logger) *Client {
	logger = logger.With(slog.String("component", "api_client"))

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if cfg.Breaker != nil {
		transport = newBreakerTransport(transport, *cfg.Breaker, func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker сменил состояние",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		})
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		userApplication: cfg.UserApplication,
		defaultLanguage: cfg.DefaultLanguage,
		session:         cfg.Session,
		navigator:       cfg.Navigator,
		route:           cfg.Route,
		notifier:        notifier,
		logger:          logger,
	}
}

// BaseURL возвращает базовый адрес API.
func (c *Client) BaseURL() string { return c.baseURL }

// Do выполняет запрос к endpoint (путь относительно BaseURL) и декодирует
// JSON-ответ 2xx в out (nil — тело игнорируется).
func (c *Client) Do(ctx context.Context, endpoint string, r Request, out any) error {
	err := c.do(ctx, endpoint, r, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("Ошибка запроса к API",
			slog.String("method", methodOf(r)),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
	}
	return err
}

// Get — сокращение для GET-запроса.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, endpoint, Request{}, out)
}

// Send — запрос с JSON-телом (body может быть nil).
func (c *Client) Send(ctx context.Context, method, endpoint string, body, out any) error {
	return c.Do(ctx, endpoint, Request{Method: method, JSON: body}, out)
}

func (c *Client) do(ctx context.Context, endpoint string, r Request, out any) error {
	req, err := c.newRequest(ctx, endpoint, r)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL из конфигурации
	if err != nil {
		return fmt.Errorf("запрос %s %s: %w", req.Method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeBody(resp.Body, out)
	}

	// 401 от /auth/login — неверные учётные данные, а не истёкшая сессия
	if resp.StatusCode == http.StatusUnauthorized && endpoint != LoginEndpoint && !IsPublicRoute(c.currentRoute()) {
		c.expireSession(ctx)
		return ErrUnauthorized
	}

	var errBody struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errBody)
	return newError(resp.StatusCode, errBody.Message)
}

// newRequest собирает запрос: URL, тело и заголовки.
// Заголовки вызывающего перекрывают стандартные.
func (c *Client) newRequest(ctx context.Context, endpoint string, r Request) (*http.Request, error) {
	method := methodOf(r)

	var body io.Reader = http.NoBody
	contentType := ""
	switch {
	case r.Form != nil:
		buf, ct, err := r.Form.encode()
		if err != nil {
			return nil, fmt.Errorf("кодирование формы %s: %w", endpoint, err)
		}
		body, contentType = buf, ct
	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("кодирование тела %s: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s %s: %w", method, endpoint, err)
	}

	if r.Form == nil {
		req.Header.Set("Content-Type", "application/json")
	} else {
		req.Header.Set("Content-Type", contentType)
	}
	c.setCommonHeaders(req, endpoint)
	if method != http.MethodGet {
		req.Header.Set("Cache-Control", "no-store")
	}

	for k, vals := range r.Header {
		req.Header.Del(k)
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

// setCommonHeaders выставляет User-Application, User-Language, Authorization
// и X-Request-ID из контекста запроса.
func (c *Client) setCommonHeaders(req *http.Request, endpoint string) {
	req.Header.Set("User-Application", c.userApplication)
	if id := RequestIDFrom(req.Context()); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	lang := c.defaultLanguage
	if c.session != nil {
		if l := c.session.Language(); l != "" {
			lang = l
		}
	}
	if lang != "" {
		req.Header.Set("User-Language", lang)
	}

	if c.session != nil && endpoint != LoginEndpoint {
		if token := c.session.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// expireSession — реакция на 401: очистка сессии, уведомление, переход на /login.
func (c *Client) expireSession(ctx context.Context) {
	if c.session != nil {
		if err := c.session.Expire(); err != nil {
			c.logger.Error("Не удалось очистить сессию после 401",
				slog.String("error", err.Error()),
			)
		}
	}

	c.notifier.Notify(notify.Notification{
		ID:       unauthorizedID,
		Level:    notify.LevelError,
		Message:  unauthorizedMessage,
		Duration: notify.DefaultDuration,
	})

	if c.navigator != nil {
		c.navigator(ctx, LoginRoute)
	} else {
		c.logger.Warn("Navigator не задан, переход на /login пропущен")
	}
}

func (c *Client) currentRoute() string {
	if c.route == nil {
		return ""
	}
	return c.route()
}

// Raw выполняет GET без JSON-декодирования и без обработки 401
// (выгрузка файлов). Возвращает тело ответа целиком.
func (c *Client) Raw(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса GET %s: %w", endpoint, err)
	}
	c.setCommonHeaders(req, endpoint)

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ExportError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа %s: %w", endpoint, err)
	}
	return data, nil
}

// Do выполняет запрос и возвращает декодированный ответ типа T.
func Do[T any](ctx context.Context, c *Client, endpoint string, r Request) (T, error) {
	var out T
	err := c.Do(ctx, endpoint, r, &out)
	return out, err
}

func methodOf(r Request) string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// decodeBody декодирует JSON в out. Пустое тело допустимо.
func decodeBody(body io.Reader, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}
	err := json.NewDecoder(body).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("декодирование ответа: %w", err)
	}
	return nil
}
