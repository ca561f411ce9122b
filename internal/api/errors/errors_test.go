package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/forms"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"ошибки формы", forms.ValidationErrors{"first_name": "First name is required"}, http.StatusBadRequest, CodeValidationError, "first_name: First name is required"},
		{"некорректный UUID", fmt.Errorf("uuid %q: %w", "x", backend.ErrInvalidUUID), http.StatusBadRequest, CodeValidationError, ""},
		{"запрос отключён", querycache.ErrDisabled, http.StatusBadRequest, CodeValidationError, ""},
		{"сессия истекла", httpclient.ErrUnauthorized, http.StatusServiceUnavailable, CodeSessionExpired, ""},
		{"404 бэкенда", &httpclient.Error{StatusCode: 404, Message: "Ticket not found"}, http.StatusNotFound, CodeNotFound, "Ticket not found"},
		{"500 бэкенда", &httpclient.Error{StatusCode: 500, Message: "database down"}, http.StatusBadGateway, CodeBackendError, "database down"},
		{"400 бэкенда", fmt.Errorf("обёртка: %w", &httpclient.Error{StatusCode: 400, Message: "bad filter"}), http.StatusBadGateway, CodeBackendError, "bad filter"},
		{"circuit breaker", fmt.Errorf("бэкенд недоступен: %w", gobreaker.ErrOpenState), http.StatusServiceUnavailable, CodeBackendUnavailable, ""},
		{"таймаут", context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout, ""},
		{"прочее", fmt.Errorf("неизвестно"), http.StatusInternalServerError, CodeInternalError, "неизвестно"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, ожидался %d", rec.Code, tt.wantStatus)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("тело ответа: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, ожидался %q", body.Error.Code, tt.wantCode)
			}
			if tt.wantMsg != "" && body.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, ожидалось %q", body.Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestFromError_Fields(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, forms.ValidationErrors{"new_password": "New password must be at least 8 characters"})

	var body errorBody
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body.Error.Fields["new_password"] == "" {
		t.Errorf("fields = %v", body.Error.Fields)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}
