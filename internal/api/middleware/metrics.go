// metrics.go — Prometheus HTTP метрики портала.
// Регистрирует метрики: mro_portal_http_requests_total, mro_portal_http_request_duration_seconds.
// Нормализация путей предотвращает взрывной рост кардинальности.
package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
)

var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mro_portal_http_requests_total",
			Help: "Общее количество HTTP-запросов к порталу MRO",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mro_portal_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к порталу MRO в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			status := strconv.Itoa(wrapped.statusCode)
			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath заменяет номера тикетов на {ticketNumber}, неизвестные
// метрики дашборда на {metric} и прочие неизвестные пути на "other".
// /api/v1/tickets/TCK-2025-0001 → /api/v1/tickets/{ticketNumber}
func normalizePath(path string) string {
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/tickets", "/api/v1/tickets/status-count", "/api/v1/cache/invalidate":
		return path
	}

	const ticketPrefix = "/api/v1/tickets/"
	if rest, ok := strings.CutPrefix(path, ticketPrefix); ok && rest != "" && !strings.Contains(rest, "/") {
		return ticketPrefix + "{ticketNumber}"
	}

	const dashboardPrefix = "/api/v1/dashboard/"
	if metric, ok := strings.CutPrefix(path, dashboardPrefix); ok {
		if slices.Contains(backend.Metrics, metric) {
			return path
		}
		return dashboardPrefix + "{metric}"
	}

	return "other"
}
