// Пакет forms — схемы валидации форм (профиль, пароль, файлы, диапазон дат)
// с текстами ошибок для пользователя. Валидация выполняется до обращения к бэкенду.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages — тексты ошибок по ключу "поле.тег".
var messages = map[string]string{
	"first_name.required":           "First name is required",
	"last_name.required":            "Last name is required",
	"old_password.required":         "Old password is required",
	"new_password.min":              "New password must be at least 8 characters",
	"confirm_new_password.required": "Please confirm your password",
}

// ValidationErrors — ошибки формы: JSON-имя поля → сообщение.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + v[f]
	}
	return strings.Join(parts, "; ")
}

// Struct проверяет структуру по тегам validate и возвращает ValidationErrors
// (nil, если ошибок нет). Для каждого поля сообщается первая нарушенная проверка.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("валидация формы: %w", err)
	}

	out := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("Field '%s' is invalid: %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", fe.Field(), fe.Tag())
}

// UpdateName проверяет форму изменения имени.
func UpdateName(req model.UpdateNameRequest) error {
	return Struct(req)
}

// ChangePassword проверяет форму смены пароля. Несовпадение паролей
// сообщается для confirm_new_password, только когда остальные поля корректны.
func ChangePassword(req model.ChangePasswordRequest) error {
	if err := Struct(req); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmNewPassword {
		return ValidationErrors{"confirm_new_password": "Passwords do not match"}
	}
	return nil
}

// Field возвращает сообщение об ошибке поля, если err — ValidationErrors.
func Field(err error, field string) string {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve[field]
	}
	return ""
}
