// errors.go — ошибки HTTP-клиента бэкенда.
package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized — бэкенд вернул 401 вне публичных маршрутов:
// сессия сброшена, выполнен переход на /login.
var ErrUnauthorized = errors.New("Unauthorized - Redirecting to login") //nolint:staticcheck // текст совпадает с сообщением для пользователя

// Error — ответ бэкенда со статусом вне 2xx.
// Message — поле message из тела ответа или шаблонное сообщение.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// newError создаёт Error с сообщением бэкенда или шаблонным текстом.
func newError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &Error{StatusCode: status, Message: message}
}

// StatusCode возвращает HTTP-статус ошибки бэкенда или 0,
// если err не является *Error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound сообщает, что бэкенд ответил 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// ExportError — ошибка выгрузки файла (Raw).
type ExportError struct {
	StatusCode int
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("Export failed: %d", e.StatusCode)
}
