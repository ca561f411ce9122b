package backend

import (
	"context"
	"net/http"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
)

// ProfileService — профиль текущего пользователя.
type ProfileService struct {
	*base
}

// UpdateName меняет имя и фамилию текущего пользователя.
// PUT /api/v1/users/me/name
func (s *ProfileService) UpdateName(ctx context.Context, req model.UpdateNameRequest) (model.Envelope[model.User], error) {
	return httpclient.Do[model.Envelope[model.User]](ctx, s.hc, "/users/me/name", httpclient.Request{
		Method: http.MethodPut,
		JSON:   req,
	})
}

// ChangePassword меняет пароль пользователя.
// POST /api/v1/users/:uuid/password/change
func (s *ProfileService) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) (model.Ack, error) {
	if err := checkUUID("uuid", userID); err != nil {
		return model.Ack{}, err
	}
	return httpclient.Do[model.Ack](ctx, s.hc, "/users/"+userID+"/password/change", httpclient.Request{
		Method: http.MethodPost,
		JSON:   req,
	})
}
