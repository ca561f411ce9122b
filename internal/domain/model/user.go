package model

// RoleCode — код роли пользователя.
type RoleCode string

const (
	RoleSuper      RoleCode = "SUPER"
	RoleAdmin      RoleCode = "ADMIN"
	RoleMaintainer RoleCode = "MAINTENER"
	RoleUser       RoleCode = "USER"
)

// User — учётная запись (UserResponse).
type User struct {
	UUID              string   `json:"uuid"`
	EmployeeID        string   `json:"employee_id"`
	Email             string   `json:"email"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	PhoneNumber       string   `json:"phone_number"`
	ProfilePictureURL string   `json:"profile_picture_url"`
	RoleUUID          string   `json:"role_uuid"`
	RoleName          string   `json:"role_name"`
	RoleCode          RoleCode `json:"role_code"`
	StoreUUID         string   `json:"store_uuid"`
	StoreName         string   `json:"store_name"`
	StoreCode         string   `json:"store_code"`
}

// FullName возвращает «Имя Фамилия» без лишних пробелов.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserPatch — частичное обновление пользователя в сессии.
// nil-поля не изменяются (shallow merge).
type UserPatch struct {
	EmployeeID        *string
	Email             *string
	FirstName         *string
	LastName          *string
	PhoneNumber       *string
	ProfilePictureURL *string
	RoleUUID          *string
	RoleName          *string
	RoleCode          *RoleCode
	StoreUUID         *string
	StoreName         *string
	StoreCode         *string
}

// Apply возвращает копию u с применёнными полями патча.
func (p UserPatch) Apply(u User) User {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.EmployeeID, p.EmployeeID)
	set(&u.Email, p.Email)
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.PhoneNumber, p.PhoneNumber)
	set(&u.ProfilePictureURL, p.ProfilePictureURL)
	set(&u.RoleUUID, p.RoleUUID)
	set(&u.RoleName, p.RoleName)
	if p.RoleCode != nil {
		u.RoleCode = *p.RoleCode
	}
	set(&u.StoreUUID, p.StoreUUID)
	set(&u.StoreName, p.StoreName)
	set(&u.StoreCode, p.StoreCode)
	return u
}

// --- Аутентификация ---

// LoginRequest — тело POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult — data ответа /auth/login.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// --- Пользователи ---

// UserRequest — тело создания и обновления пользователя.
type UserRequest struct {
	EmployeeID        string `json:"employee_id"`
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	PhoneNumber       string `json:"phone_number"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	RoleUUID          string `json:"role_uuid"`
	StoreUUID         string `json:"store_uuid"`
	LastActionBy      string `json:"last_action_by"`
}

// CreateUserResult — data ответа создания пользователя.
type CreateUserResult struct {
	SetupLink string `json:"setup_link"`
}

// SetPasswordRequest — первичная установка пароля по ссылке.
type SetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPasswordRequest — сброс пароля по токену из письма.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPasswordRequest — запрос письма для сброса пароля.
type ForgotPasswordRequest struct {
	Email        string `json:"email"`
	LastActionBy string `json:"last_action_by"`
}

// --- Профиль ---

// UpdateNameRequest — PUT /users/me/name.
type UpdateNameRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// ChangePasswordRequest — POST /users/:uuid/password/change.
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"min=8"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}
