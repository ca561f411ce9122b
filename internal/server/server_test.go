package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bambang-ap/kmm-mro-shared/internal/api/handlers"
	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/config"
	"github.com/bambang-ap/kmm-mro-shared/internal/hooks"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
	"github.com/bambang-ap/kmm-mro-shared/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type okChecker struct{}

func (okChecker) CheckReady() (string, string) { return "ok", "" }

func newHandlers(t *testing.T) (*handlers.HealthHandler, *handlers.PortalHandler) {
	t.Helper()
	store := session.Open(context.Background(), session.NewMemoryStorage(nil), testLogger())
	hc := httpclient.New(httpclient.Config{BaseURL: "http://127.0.0.1:1/api/v1", Session: store}, testLogger())
	h := hooks.New(hooks.Config{
		Cache:   querycache.New(querycache.Options{Size: 10, Retry: -1}, testLogger()),
		API:     backend.New(hc, testLogger()),
		Session: store,
	}, testLogger())
	return handlers.NewHealthHandler(okChecker{}, okChecker{}), handlers.NewPortalHandler(h, testLogger())
}

func TestRouter_Routes(t *testing.T) {
	health, portal := newHandlers(t)
	var seen []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
	router := Router(health, portal, mw)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/dashboard/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/tickets?page=0", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/cache/invalidate", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: ожидался статус %d, получен %d", tt.method, tt.path, tt.want, rec.Code)
		}
	}
	if len(seen) != len(tests) {
		t.Errorf("middleware вызван %d раз, ожидалось %d", len(seen), len(tests))
	}
}

func TestRouter_MetricsExposed(t *testing.T) {
	health, portal := newHandlers(t)
	rec := httptest.NewRecorder()
	Router(health, portal).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("в /metrics нет стандартных метрик Go")
	}
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	health, portal := newHandlers(t)
	cfg := &config.Config{Port: 0, ShutdownTimeout: time.Second}
	srv := New(cfg, testLogger(), health, portal)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run вернул ошибку: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}
