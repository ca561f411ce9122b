// Пакет errors — ответы портала с ошибками в едином формате
// {"error": {"code": "...", "message": "..."}} и отображение ошибок
// клиентского слоя на HTTP-статусы.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/forms"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
)

// Коды ошибок портала.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeBackendError       = "BACKEND_ERROR"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeTimeout            = "TIMEOUT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — детали ошибки.
type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteError записывает ответ ошибки в стандартном формате.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	write(w, statusCode, errorDetail{Code: code, Message: message})
}

func write(w http.ResponseWriter, statusCode int, detail errorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: detail})
}

// ValidationError — 400 некорректные параметры запроса.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// SessionExpired — 503 сессия сервисного аккаунта истекла, повторный вход запланирован.
func SessionExpired(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, CodeSessionExpired, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}

// FromError выбирает статус и код по ошибке клиентского слоя:
//   - forms.ValidationErrors, ошибки параметров backend, ErrDisabled — 400;
//   - httpclient.ErrUnauthorized — 503 SESSION_EXPIRED;
//   - *httpclient.Error 404 — 404, прочие — 502 BACKEND_ERROR с сообщением бэкенда;
//   - разомкнутый circuit breaker — 503 BACKEND_UNAVAILABLE;
//   - истёкший контекст — 504.
func FromError(w http.ResponseWriter, err error) {
	var ve forms.ValidationErrors
	var herr *httpclient.Error

	switch {
	case stderrors.As(err, &ve):
		write(w, http.StatusBadRequest, errorDetail{Code: CodeValidationError, Message: ve.Error(), Fields: ve})
	case stderrors.Is(err, backend.ErrInvalidUUID),
		stderrors.Is(err, backend.ErrEmptyParam),
		stderrors.Is(err, backend.ErrInvalidParam),
		stderrors.Is(err, querycache.ErrDisabled):
		ValidationError(w, err.Error())
	case stderrors.Is(err, httpclient.ErrUnauthorized):
		SessionExpired(w, err.Error())
	case stderrors.As(err, &herr):
		if herr.StatusCode == http.StatusNotFound {
			NotFound(w, herr.Message)
			return
		}
		WriteError(w, http.StatusBadGateway, CodeBackendError, herr.Message)
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		WriteError(w, http.StatusServiceUnavailable, CodeBackendUnavailable, err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusGatewayTimeout, CodeTimeout, err.Error())
	default:
		InternalError(w, err.Error())
	}
}
