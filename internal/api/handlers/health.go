// health.go — health endpoints портала.
// /health/live и /health/ready для kubelet, /metrics для Prometheus.
// Готовность портала = сессия сервисного аккаунта + доступность бэкенда MRO.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bambang-ap/kmm-mro-shared/internal/config"
)

const serviceName = "mro-portal"

// Статусы проверок готовности.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// ReadinessChecker — зависимость, от которой зависит готовность портала.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status, message string)
}

// namedCheck — проверка под именем, с которым она попадает в ответ.
type namedCheck struct {
	name    string
	checker ReadinessChecker
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	checks      []namedCheck
	startedAt   time.Time
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// Непереданная (nil) проверка в readiness считается проваленной.
func NewHealthHandler(sessionChecker, backendChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		checks: []namedCheck{
			{name: "session", checker: sessionChecker},
			{name: "mro_backend", checker: backendChecker},
		},
		startedAt:   time.Now(),
		promHandler: promhttp.Handler(),
	}
}

type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthInfo — общая часть ответов live и ready.
type healthInfo struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Version   string  `json:"version"`
	Service   string  `json:"service"`
	Uptime    float64 `json:"uptime_seconds"`
}

type healthLiveResponse struct {
	healthInfo
}

type healthReadyResponse struct {
	healthInfo
	Checks map[string]healthCheckResult `json:"checks"`
}

func (h *HealthHandler) info(status string) healthInfo {
	now := time.Now()
	return healthInfo{
		Status:    status,
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
		Uptime:    now.Sub(h.startedAt).Seconds(),
	}
}

// HealthLive — процесс жив, всегда 200.
// GET /health/live
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{healthInfo: h.info(statusOK)})
}

// HealthReady опрашивает все проверки. 503 только при статусе fail,
// degraded (бэкенд ещё не проверялся) остаётся 200.
// GET /health/ready
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	results := make(map[string]healthCheckResult, len(h.checks))
	statuses := make([]string, 0, len(h.checks))
	for _, c := range h.checks {
		res := runCheck(c.checker)
		results[c.name] = res
		statuses = append(statuses, res.Status)
	}

	resp := healthReadyResponse{
		healthInfo: h.info(overallStatus(statuses...)),
		Checks:     results,
	}
	code := http.StatusOK
	if resp.Status == statusFail {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// GetMetrics отдаёт метрики Prometheus.
// GET /metrics
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

func runCheck(c ReadinessChecker) healthCheckResult {
	if c == nil {
		return healthCheckResult{Status: statusFail, Message: "не инициализирован"}
	}
	status, msg := c.CheckReady()
	return healthCheckResult{Status: status, Message: msg}
}

// overallStatus — худший из статусов: fail > degraded > ok.
func overallStatus(statuses ...string) string {
	result := statusOK
	for _, s := range statuses {
		switch s {
		case statusFail:
			return statusFail
		case statusDegraded:
			result = statusDegraded
		}
	}
	return result
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
