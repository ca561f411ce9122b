package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// UsersService — учётные записи и пароли.
type UsersService struct {
	*base
	list lister[model.User]
}

// List возвращает страницу активных пользователей (без Envelope).
// GET /api/v1/users/active?page=1&page_size=10&sort=employee_id&order=ASC&search=..
func (s *UsersService) List(ctx context.Context, p ListParams) (model.Page[model.User], error) {
	return s.list.List(ctx, p)
}

// Get возвращает пользователя.
// GET /api/v1/users/:uuid
func (s *UsersService) Get(ctx context.Context, id string) (model.Envelope[model.User], error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.Envelope[model.User]{}, err
	}
	return httpclient.Do[model.Envelope[model.User]](ctx, s.hc, "/users/"+id, httpclient.Request{})
}

// Create создаёт пользователя и возвращает ссылку для установки пароля.
// POST /api/v1/users
func (s *UsersService) Create(ctx context.Context, req model.UserRequest) (model.CreateUserResult, error) {
	return unwrap(httpclient.Do[model.Envelope[model.CreateUserResult]](ctx, s.hc, "/users", httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	}))
}

// Update обновляет пользователя (ответ без Envelope).
// PUT /api/v1/users/:uuid
func (s *UsersService) Update(ctx context.Context, id string, req model.UserRequest) (model.User, error) {
	if err := checkUUID("uuid", id); err != nil {
		return model.User{}, err
	}
	return httpclient.Do[model.User](ctx, s.hc, "/users/"+id, httpclient.Request{
		Method: http.MethodPut,
		JSON:   req,
	})
}

// Delete удаляет пользователя. actor обязателен.
// DELETE /api/v1/users/:uuid
func (s *UsersService) Delete(ctx context.Context, id, actor string) error {
	if err := checkUUID("uuid", id); err != nil {
		return err
	}
	if err := requireParam("last_action_by", actor); err != nil {
		return err
	}
	return s.hc.Do(ctx, "/users/"+id, httpclient.Request{
		Method: http.MethodDelete,
		JSON:   model.ActorRequest{LastActionBy: actor},
	}, nil)
}

// SetPassword устанавливает первый пароль по ссылке из приглашения.
// POST /api/v1/users/password/set
func (s *UsersService) SetPassword(ctx context.Context, req model.SetPasswordRequest) (model.Ack, error) {
	if err := requireParam("token", req.Token); err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, "/users/password/set", httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	})
}

// ResetPassword сбрасывает пароль по токену из письма.
// POST /api/v1/users/password/reset
func (s *UsersService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (model.Ack, error) {
	if err := requireParam("token", req.Token); err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, "/users/password/reset", httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	})
}

// ForgotPassword отправляет письмо для сброса пароля.
// Актором операции выступает сам email.
// POST /api/v1/users/password/forgot
func (s *UsersService) ForgotPassword(ctx context.Context, email string) (model.Ack, error) {
	email = strings.TrimSpace(email)
	if err := requireParam("email", email); err != nil {
		return model.Ack{}, fmt.Errorf("forgot password: %w", err)
	}
	return httpclient.Do[model.Ack](ctx, s.hc, "/users/password/forgot", httpclient.Request{
		Method: http.MethodPost,
		JSON:   model.ForgotPasswordRequest{Email: email, LastActionBy: email},
	})
}
