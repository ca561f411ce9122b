package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/forms"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
)

// Запасные тексты уведомлений, если бэкенд не прислал сообщение.
const (
	msgNameUpdated      = "Name updated successfully"
	msgNameFailed       = "Failed to update name"
	msgPasswordChanged  = "Password changed successfully"
	msgPasswordFailed   = "Failed to change password"
	msgResetEmailSent   = "Reset password email sent successfully"
	msgResetEmailFailed = "Failed to send reset password email. Please try again."
)

// resetPasswordRoute — фрагмент маршрута экрана сброса пароля.
const resetPasswordRoute = "/reset-password"

// Login выполняет вход и сохраняет учётные данные в сессии.
func (h *Hooks) Login(ctx context.Context, email, password string) (model.User, error) {
	env, err := h.api.Auth.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return model.User{}, err
	}
	res := env.Data
	if err := h.session.SetCredentials(ctx, res.User, res.AccessToken, res.RefreshToken); err != nil {
		return model.User{}, fmt.Errorf("сохранение сессии: %w", err)
	}
	h.invalidate(querycache.Auth)
	h.logger.Info("Вход выполнен", slog.String("user_uuid", res.User.UUID))
	return res.User, nil
}

// Logout завершает сессию на бэкенде, очищает сессию и кэш
// и переходит на экран входа. При ошибке бэкенда локальное состояние сохраняется.
func (h *Hooks) Logout(ctx context.Context) error {
	if _, err := h.api.Auth.Logout(ctx); err != nil {
		return err
	}
	if err := h.session.Logout(ctx); err != nil {
		h.logger.Warn("Не удалось очистить хранилище сессии", slog.String("error", err.Error()))
	}
	n := h.cache.Remove(nil)
	h.logger.Info("Выход выполнен", slog.Int("cache_entries_removed", n))
	h.goTo(ctx, LoginRoute)
	return nil
}

// UpdateName меняет имя текущего пользователя. Форма проверяется до запроса;
// ошибки формы возвращаются как forms.ValidationErrors без уведомления.
// PUT /api/v1/users/me/name
func (h *Hooks) UpdateName(ctx context.Context, req model.UpdateNameRequest) error {
	if err := forms.UpdateName(req); err != nil {
		return err
	}

	env, err := h.api.Profile.UpdateName(ctx, req)
	h.toast(err, env.Message, msgNameUpdated, msgNameFailed)
	if err != nil {
		return err
	}

	patch := model.UserPatch{FirstName: &req.FirstName, LastName: &req.LastName}
	if err := h.session.UpdateUser(ctx, patch); err != nil {
		h.logger.Warn("Не удалось обновить пользователя в сессии", slog.String("error", err.Error()))
	}
	h.invalidate(querycache.Users)
	return nil
}

// ChangePassword меняет пароль текущего пользователя.
// POST /api/v1/users/:uuid/password/change
func (h *Hooks) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	if err := forms.ChangePassword(req); err != nil {
		return err
	}
	user, err := h.session.User()
	if err != nil {
		return err
	}

	ack, err := h.api.Profile.ChangePassword(ctx, user.UUID, req)
	h.toast(err, ack.Message, msgPasswordChanged, msgPasswordFailed)
	return err
}

// ForgotPassword отправляет письмо для сброса пароля и через секунду
// переходит на экран входа.
// POST /api/v1/users/password/forgot
func (h *Hooks) ForgotPassword(ctx context.Context, email string) error {
	ack, err := h.api.Users.ForgotPassword(ctx, email)
	h.toast(err, ack.Message, msgResetEmailSent, msgResetEmailFailed)
	if err != nil {
		return err
	}
	h.after(redirectDelay, func() {
		h.goTo(context.WithoutCancel(ctx), LoginRoute)
	})
	return nil
}

// PasswordForm — форма установки пароля по ссылке.
type PasswordForm struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// SetPassword устанавливает пароль по ссылке. На экране сброса пароля
// (маршрут содержит /reset-password) вызывается сброс, иначе первичная установка.
func (h *Hooks) SetPassword(ctx context.Context, f PasswordForm) (model.Ack, error) {
	if strings.Contains(h.currentRoute(), resetPasswordRoute) {
		return h.api.Users.ResetPassword(ctx, model.ResetPasswordRequest{
			Token:           f.Token,
			NewPassword:     f.Password,
			ConfirmPassword: f.ConfirmPassword,
		})
	}
	return h.api.Users.SetPassword(ctx, model.SetPasswordRequest{
		Token:           f.Token,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	})
}
