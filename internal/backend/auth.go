package backend

import (
	"context"
	"net/http"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// AuthService — вход и выход.
type AuthService struct {
	*base
}

// Login выполняет вход по email и паролю.
// POST /api/v1/auth/login
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.Envelope[model.LoginResult], error) {
	return httpclient.Do[model.Envelope[model.LoginResult]](ctx, s.hc, httpclient.LoginEndpoint, httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	})
}

// Logout завершает сессию на бэкенде.
// POST /api/v1/auth/logout
func (s *AuthService) Logout(ctx context.Context) (model.Ack, error) {
	return httpclient.Do[model.Ack](ctx, s.hc, "/auth/logout", httpclient.Request{Method: http.MethodPost})
}
