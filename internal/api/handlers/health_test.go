package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubChecker — фиксированный результат проверки готовности.
type stubChecker struct {
	status  string
	message string
}

func (s stubChecker) CheckReady() (string, string) { return s.status, s.message }

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Ожидался статус 200, получен %d", rec.Code)
	}
	var resp healthLiveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Ошибка декодирования: %v", err)
	}
	if resp.Status != "ok" || resp.Service != serviceName {
		t.Errorf("ответ = %+v", resp)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		session    ReadinessChecker
		backend    ReadinessChecker
		wantStatus int
		want       string
	}{
		{"всё в порядке", stubChecker{status: "ok"}, stubChecker{status: "ok"}, http.StatusOK, "ok"},
		{"проверки бэкенда ещё не было", stubChecker{status: "ok"}, stubChecker{status: "degraded"}, http.StatusOK, "degraded"},
		{"нет сессии", stubChecker{status: "fail", message: "не авторизован"}, stubChecker{status: "ok"}, http.StatusServiceUnavailable, "fail"},
		{"бэкенд не подключён", stubChecker{status: "ok"}, nil, http.StatusServiceUnavailable, "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.session, tt.backend)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("Ожидался статус %d, получен %d", tt.wantStatus, rec.Code)
			}
			var resp healthReadyResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Ошибка декодирования: %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("status = %q, ожидалось %q", resp.Status, tt.want)
			}
			for _, name := range []string{"session", "mro_backend"} {
				if _, ok := resp.Checks[name]; !ok {
					t.Errorf("в ответе нет проверки %q", name)
				}
			}
		})
	}
}

func TestOverallStatus(t *testing.T) {
	if got := overallStatus("ok", "ok"); got != "ok" {
		t.Errorf("ok+ok = %q", got)
	}
	if got := overallStatus("degraded", "fail"); got != statusFail {
		t.Errorf("degraded+fail = %q", got)
	}
	if got := overallStatus("ok", "degraded", "ok"); got != statusDegraded {
		t.Errorf("ok+degraded+ok = %q", got)
	}
	if got := overallStatus(); got != "ok" {
		t.Errorf("пустой набор = %q", got)
	}
}
