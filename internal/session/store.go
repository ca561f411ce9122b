// Пакет session — состояние аутентификации: пользователь, токены и язык,
// с сохранением в долговременном хранилище и подпиской на изменения.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
)

var (
	// ErrNoUser — в сессии нет пользователя.
	ErrNoUser = errors.New("пользователь не авторизован")
	// ErrNoExpiry — access-токен отсутствует или не содержит exp.
	ErrNoExpiry = errors.New("срок действия access-токена неизвестен")
)

// State — снимок сессии.
type State struct {
	User            *model.User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
	Language        string
	// Version увеличивается при каждом изменении
	Version uint64
}

// Roles — роль текущего пользователя.
type Roles struct {
	IsUser        bool
	IsAdmin       bool
	IsMaintenance bool
	IsSuperAdmin  bool
}

// Store — хранилище сессии. Безопасно для конкурентного использования.
type Store struct {
	storage Storage
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// Open создаёт Store и синхронно загружает сессию из storage.
// Сессия считается авторизованной, только если сохранены оба токена и пользователь.
// Ошибка загрузки даёт неавторизованную сессию и записывается в лог.
func Open(ctx context.Context, storage Storage, logger *slog.Logger) *Store {
	s := &Store{
		storage: storage,
		logger:  logger.With(slog.String("component", "session")),
		subs:    make(map[int]func(State)),
	}

	values, err := storage.Load(ctx)
	if err != nil {
		s.logger.Error("Не удалось загрузить сессию",
			slog.String("error", err.Error()),
		)
		return s
	}

	s.state.Language = values[KeyLanguage]

	access, refresh, userJSON := values[KeyAccessToken], values[KeyRefreshToken], values[KeyUser]
	if access == "" || refresh == "" || userJSON == "" {
		return s
	}

	var user model.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		s.logger.Error("Не удалось загрузить сессию: повреждены данные пользователя",
			slog.String("error", err.Error()),
		)
		return s
	}

	s.state.User = &user
	s.state.AccessToken = access
	s.state.RefreshToken = refresh
	s.state.IsAuthenticated = true
	s.logger.Debug("Сессия загружена",
		slog.String("user", user.Email),
	)
	return s
}

// SetCredentials сохраняет пользователя и токены после успешного входа.
func (s *Store) SetCredentials(ctx context.Context, user model.User, accessToken, refreshToken string) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("сериализация пользователя: %w", err)
	}

	return s.update(func(st *State) error {
		if err := s.storage.Save(ctx, map[string]string{
			KeyAccessToken:  accessToken,
			KeyRefreshToken: refreshToken,
			KeyUser:         string(userJSON),
		}); err != nil {
			return err
		}
		st.User = &user
		st.AccessToken = accessToken
		st.RefreshToken = refreshToken
		st.IsAuthenticated = true
		return nil
	})
}

// Logout сбрасывает сессию и удаляет токены и пользователя из storage.
// Повторный вызов не меняет результат. При ошибке storage состояние
// в памяти не меняется: память и хранилище остаются согласованными.
func (s *Store) Logout(ctx context.Context) error {
	return s.update(func(st *State) error {
		if err := s.storage.Delete(ctx, authKeys...); err != nil {
			return fmt.Errorf("очистка хранилища сессии: %w", err)
		}
		st.User = nil
		st.AccessToken = ""
		st.RefreshToken = ""
		st.IsAuthenticated = false
		return nil
	})
}

// Expire — сброс сессии после 401 от бэкенда. Действует как Logout.
func (s *Store) Expire() error {
	s.logger.Info("Сессия истекла")
	return s.Logout(context.Background())
}

// UpdateUser применяет patch к текущему пользователю (nil-поля не изменяются).
// Без пользователя в сессии ничего не делает.
func (s *Store) UpdateUser(ctx context.Context, patch model.UserPatch) error {
	return s.update(func(st *State) error {
		if st.User == nil {
			return errSkip
		}
		updated := patch.Apply(*st.User)
		userJSON, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("сериализация пользователя: %w", err)
		}
		if err := s.storage.Save(ctx, map[string]string{KeyUser: string(userJSON)}); err != nil {
			return err
		}
		st.User = &updated
		return nil
	})
}

// SetLanguage сохраняет язык интерфейса (заголовок User-Language).
func (s *Store) SetLanguage(ctx context.Context, lang string) error {
	return s.update(func(st *State) error {
		if err := s.storage.Save(ctx, map[string]string{KeyLanguage: lang}); err != nil {
			return err
		}
		st.Language = lang
		return nil
	})
}

// errSkip — изменение не требуется, подписчики не уведомляются.
var errSkip = errors.New("skip")

// update применяет fn к состоянию под блокировкой. При успехе увеличивает
// Version и уведомляет подписчиков снимком нового состояния.
func (s *Store) update(fn func(*State) error) error {
	s.mu.Lock()
	next := s.state
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errSkip) {
			return nil
		}
		return err
	}
	next.Version++
	s.state = next
	snapshot := s.snapshotLocked()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return nil
}

// Subscribe регистрирует fn, вызываемую после каждого изменения сессии.
// Возвращает функцию отписки.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// --- Селекторы ---

// Snapshot возвращает копию текущего состояния.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// User возвращает текущего пользователя или ErrNoUser.
func (s *Store) User() (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return model.User{}, ErrNoUser
	}
	return *s.state.User, nil
}

// AccessToken возвращает access-токен или пустую строку.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// Language возвращает сохранённый язык или пустую строку.
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Language
}

// IsAuthenticated сообщает, авторизована ли сессия.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

// Roles возвращает признаки роли текущего пользователя (все false без пользователя).
func (s *Store) Roles() Roles {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return Roles{}
	}
	code := s.state.User.RoleCode
	return Roles{
		IsUser:        code == model.RoleUser,
		IsAdmin:       code == model.RoleAdmin,
		IsMaintenance: code == model.RoleMaintainer,
		IsSuperAdmin:  code == model.RoleSuper,
	}
}

// AccessTokenExpiry возвращает exp access-токена. Подпись не проверяется:
// значение используется только для планирования повторного входа.
func (s *Store) AccessTokenExpiry() (time.Time, error) {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}, ErrNoExpiry
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("разбор access-токена: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
