package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bambang-ap/kmm-mro-shared/internal/backend"
	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
	"github.com/bambang-ap/kmm-mro-shared/internal/forms"
	"github.com/bambang-ap/kmm-mro-shared/internal/httpclient"
	"github.com/bambang-ap/kmm-mro-shared/internal/notify"
	"github.com/bambang-ap/kmm-mro-shared/internal/querycache"
	"github.com/bambang-ap/kmm-mro-shared/internal/session"
)

const testUUID = "7f1c2a4e-9b3d-4c8e-a1f0-2d5b6c7e8f90"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder запоминает показанные уведомления.
type recorder struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (r *recorder) Notify(n notify.Notification) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return true
}

func (r *recorder) last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return notify.Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

type testEnv struct {
	hooks   *Hooks
	session *session.Store
	toasts  *recorder
	routes  chan string
	route   string
}

// setupHooks поднимает mock-бэкенд на chi и собирает Hooks поверх него.
func setupHooks(t *testing.T, register func(r chi.Router)) *testEnv {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/api/v1", register)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	env := &testEnv{toasts: &recorder{}, routes: make(chan string, 4)}
	env.session = session.Open(context.Background(), session.NewMemoryStorage(nil), testLogger())

	navigate := func(_ context.Context, route string) { env.routes <- route }
	currentRoute := func() string { return env.route }

	hc := httpclient.New(httpclient.Config{
		BaseURL:   server.URL + "/api/v1",
		Session:   env.session,
		Navigator: navigate,
		Route:     currentRoute,
	}, testLogger())

	env.hooks = New(Config{
		Cache:     querycache.New(querycache.Options{Size: 100, Retry: -1}, testLogger()),
		API:       backend.New(hc, testLogger()),
		Session:   env.session,
		Notifier:  env.toasts,
		Navigator: navigate,
		Route:     currentRoute,
	}, testLogger())
	env.hooks.after = func(_ time.Duration, fn func()) { fn() }
	return env
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

func TestStores_CachedUntilMutation(t *testing.T) {
	var lists atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/stores/active", func(w http.ResponseWriter, r *http.Request) {
			lists.Add(1)
			writeJSON(w, model.Page[model.Store]{CurrentPage: 1, TotalPages: 1, Data: []model.Store{{UUID: testUUID}}})
		})
		r.Post("/stores", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Envelope[model.Store]{Success: true, Data: model.Store{UUID: testUUID}})
		})
	})
	ctx := context.Background()
	p := backend.ListParams{Page: 1, PageSize: 10}

	for range 2 {
		if _, err := env.hooks.Stores.List(ctx, p); err != nil {
			t.Fatalf("List: %v", err)
		}
	}
	if lists.Load() != 1 {
		t.Fatalf("повторное чтение должно идти из кэша, запросов: %d", lists.Load())
	}

	if _, err := env.hooks.Stores.List(ctx, backend.ListParams{Page: 1, PageSize: 10, Search: "Jakarta"}); err != nil {
		t.Fatal(err)
	}
	if lists.Load() != 2 {
		t.Errorf("другой search должен давать другой ключ, запросов: %d", lists.Load())
	}

	if _, err := env.hooks.Stores.Create(ctx, model.StoreRequest{}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.hooks.Stores.List(ctx, p); err != nil {
		t.Fatal(err)
	}
	if lists.Load() != 3 {
		t.Errorf("после Create список должен перечитываться, запросов: %d", lists.Load())
	}
}

func TestStores_FailedMutationKeepsCache(t *testing.T) {
	var lists atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/stores/active", func(w http.ResponseWriter, r *http.Request) {
			lists.Add(1)
			writeJSON(w, model.Page[model.Store]{})
		})
		r.Post("/stores", func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusBadRequest, "store_code already exists")
		})
	})
	ctx := context.Background()

	_, _ = env.hooks.Stores.List(ctx, backend.ListParams{})
	if _, err := env.hooks.Stores.Create(ctx, model.StoreRequest{}); httpclient.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("ожидалась ошибка 400, получено %v", err)
	}
	_, _ = env.hooks.Stores.List(ctx, backend.ListParams{})
	if lists.Load() != 1 {
		t.Errorf("неуспешное изменение не должно инвалидировать кэш, запросов: %d", lists.Load())
	}
}

func TestResource_EmptyIDDisabled(t *testing.T) {
	env := setupHooks(t, func(r chi.Router) {})
	ctx := context.Background()

	if _, err := env.hooks.Stores.Get(ctx, ""); !errors.Is(err, querycache.ErrDisabled) {
		t.Errorf("Stores.Get(\"\") = %v, ожидался ErrDisabled", err)
	}
	if _, err := env.hooks.Tickets(backend.ScopeDefault).Detail(ctx, ""); !errors.Is(err, querycache.ErrDisabled) {
		t.Errorf("Detail(\"\") = %v, ожидался ErrDisabled", err)
	}
	if _, err := env.hooks.SubLocations(ctx, ""); !errors.Is(err, querycache.ErrDisabled) {
		t.Errorf("SubLocations(\"\") = %v, ожидался ErrDisabled", err)
	}
}

func TestTickets_RejectInvalidatesTicketFamilies(t *testing.T) {
	var details, counts atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/admin/tickets/status-count", func(w http.ResponseWriter, r *http.Request) {
			counts.Add(1)
			writeJSON(w, model.Envelope[model.StatusCount]{Success: true, Data: model.StatusCount{All: 3}})
		})
		r.Get("/admin/tickets/{number}", func(w http.ResponseWriter, r *http.Request) {
			details.Add(1)
			writeJSON(w, model.Envelope[model.TicketDetail]{Success: true})
		})
		r.Put("/admin/tickets/{number}/reject", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Ack{Success: true})
		})
	})
	ctx := context.Background()
	tickets := env.hooks.Tickets(backend.ScopeDefault)

	read := func() {
		t.Helper()
		if _, err := tickets.Detail(ctx, "TCK-001"); err != nil {
			t.Fatalf("Detail: %v", err)
		}
		if _, err := tickets.StatusCount(ctx, ""); err != nil {
			t.Fatalf("StatusCount: %v", err)
		}
	}

	read()
	read()
	if details.Load() != 1 || counts.Load() != 1 {
		t.Fatalf("до изменения: detail %d, status-count %d", details.Load(), counts.Load())
	}

	if _, err := tickets.Reject(ctx, "TCK-001", model.Decision{Remarks: "duplicate", ReasonID: testUUID}); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	read()
	if details.Load() != 2 || counts.Load() != 2 {
		t.Errorf("после Reject: detail %d, status-count %d", details.Load(), counts.Load())
	}
}

func TestTickets_ActivityMutationScopedToTicket(t *testing.T) {
	calls := map[string]*atomic.Int32{"TCK-001": {}, "TCK-002": {}}
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/admin/tickets/{number}/activities", func(w http.ResponseWriter, r *http.Request) {
			calls[chi.URLParam(r, "number")].Add(1)
			writeJSON(w, model.Envelope[model.Page[model.TicketActivity]]{Success: true})
		})
		r.Post("/admin/tickets/{number}/activities", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Envelope[model.TicketActivity]{Success: true})
		})
	})
	ctx := context.Background()
	tickets := env.hooks.Tickets(backend.ScopeDefault)

	for _, n := range []string{"TCK-001", "TCK-002"} {
		if _, err := tickets.Activities(ctx, n, 1, 10); err != nil {
			t.Fatalf("Activities(%s): %v", n, err)
		}
	}
	if _, err := tickets.CreateActivity(ctx, "TCK-001", model.ActivityRequest{Category: model.ActivityFixing}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	for _, n := range []string{"TCK-001", "TCK-002"} {
		_, _ = tickets.Activities(ctx, n, 1, 10)
	}

	if got := calls["TCK-001"].Load(); got != 2 {
		t.Errorf("активности TCK-001 должны перечитываться: %d запросов", got)
	}
	if got := calls["TCK-002"].Load(); got != 1 {
		t.Errorf("активности TCK-002 не должны инвалидироваться: %d запросов", got)
	}
}

func TestTickets_ListKeyIncludesScope(t *testing.T) {
	var admin, user atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/admin/tickets", func(w http.ResponseWriter, r *http.Request) {
			admin.Add(1)
			writeJSON(w, model.Envelope[model.Page[model.TicketListItem]]{Success: true})
		})
		r.Get("/tickets", func(w http.ResponseWriter, r *http.Request) {
			user.Add(1)
			writeJSON(w, model.Envelope[model.Page[model.TicketListItem]]{Success: true})
		})
	})
	ctx := context.Background()
	p := backend.TicketListParams{Page: 1, PageSize: 10, Status: "open"}

	_, _ = env.hooks.Tickets(backend.ScopeAdmin).List(ctx, p)
	_, _ = env.hooks.Tickets(backend.ScopeUser).List(ctx, p)
	_, _ = env.hooks.Tickets(backend.ScopeAdmin).List(ctx, p)

	if admin.Load() != 1 || user.Load() != 1 {
		t.Errorf("admin %d, user %d: пространства должны кэшироваться отдельно", admin.Load(), user.Load())
	}
}

func TestTickets_DetailAndStatusCountKeysIncludeScope(t *testing.T) {
	var adminDetail, userDetail, adminCount, userCount atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/admin/tickets/status-count", func(w http.ResponseWriter, r *http.Request) {
			adminCount.Add(1)
			writeJSON(w, model.Envelope[model.StatusCount]{Success: true, Data: model.StatusCount{All: 10}})
		})
		r.Get("/tickets/status-count", func(w http.ResponseWriter, r *http.Request) {
			userCount.Add(1)
			writeJSON(w, model.Envelope[model.StatusCount]{Success: true, Data: model.StatusCount{All: 2}})
		})
		r.Get("/admin/tickets/{number}", func(w http.ResponseWriter, r *http.Request) {
			adminDetail.Add(1)
			writeJSON(w, model.Envelope[model.TicketDetail]{Success: true, Message: "admin"})
		})
		r.Get("/tickets/{number}", func(w http.ResponseWriter, r *http.Request) {
			userDetail.Add(1)
			writeJSON(w, model.Envelope[model.TicketDetail]{Success: true, Message: "user"})
		})
	})
	ctx := context.Background()
	admin := env.hooks.Tickets(backend.ScopeAdmin)
	user := env.hooks.Tickets(backend.ScopeUser)

	if _, err := admin.Detail(ctx, "TCK-1"); err != nil {
		t.Fatalf("Detail(admin): %v", err)
	}
	got, err := user.Detail(ctx, "TCK-1")
	if err != nil {
		t.Fatalf("Detail(user): %v", err)
	}
	if got.Message != "user" {
		t.Errorf("Detail(user).Message = %q, ожидался user", got.Message)
	}
	if adminDetail.Load() != 1 || userDetail.Load() != 1 {
		t.Errorf("detail: admin %d, user %d: пространства должны кэшироваться отдельно", adminDetail.Load(), userDetail.Load())
	}

	if _, err := admin.StatusCount(ctx, ""); err != nil {
		t.Fatalf("StatusCount(admin): %v", err)
	}
	count, err := user.StatusCount(ctx, "")
	if err != nil {
		t.Fatalf("StatusCount(user): %v", err)
	}
	if count.All != 2 {
		t.Errorf("StatusCount(user).All = %d, ожидалось 2", count.All)
	}
	if adminCount.Load() != 1 || userCount.Load() != 1 {
		t.Errorf("status-count: admin %d, user %d: пространства должны кэшироваться отдельно", adminCount.Load(), userCount.Load())
	}
}

func TestTickets_ActivityMutationInvalidatesAllScopes(t *testing.T) {
	var admin, user atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/admin/tickets/{number}/activities", func(w http.ResponseWriter, r *http.Request) {
			admin.Add(1)
			writeJSON(w, model.Envelope[model.Page[model.TicketActivity]]{Success: true})
		})
		r.Get("/tickets/{number}/activities", func(w http.ResponseWriter, r *http.Request) {
			user.Add(1)
			writeJSON(w, model.Envelope[model.Page[model.TicketActivity]]{Success: true})
		})
		r.Post("/admin/tickets/{number}/activities", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Envelope[model.TicketActivity]{Success: true})
		})
	})
	ctx := context.Background()
	adminTickets := env.hooks.Tickets(backend.ScopeAdmin)
	userTickets := env.hooks.Tickets(backend.ScopeUser)

	_, _ = adminTickets.Activities(ctx, "TCK-1", 1, 10)
	_, _ = userTickets.Activities(ctx, "TCK-1", 1, 10)
	if _, err := adminTickets.CreateActivity(ctx, "TCK-1", model.ActivityRequest{Category: model.ActivityFixing}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	_, _ = adminTickets.Activities(ctx, "TCK-1", 1, 10)
	_, _ = userTickets.Activities(ctx, "TCK-1", 1, 10)

	if admin.Load() != 2 || user.Load() != 2 {
		t.Errorf("admin %d, user %d: активности должны перечитываться в обоих пространствах", admin.Load(), user.Load())
	}
}

func TestUpdateName_Toasts(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		message   string
		wantLevel notify.Level
		wantText  string
	}{
		{"сообщение бэкенда", http.StatusOK, "Nama berhasil diperbarui", notify.LevelSuccess, "Nama berhasil diperbarui"},
		{"запасной текст успеха", http.StatusOK, "", notify.LevelSuccess, "Name updated successfully"},
		{"ошибка бэкенда", http.StatusUnprocessableEntity, "first_name too long", notify.LevelError, "first_name too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupHooks(t, func(r chi.Router) {
				r.Put("/users/me/name", func(w http.ResponseWriter, r *http.Request) {
					if tt.status != http.StatusOK {
						writeError(w, tt.status, tt.message)
						return
					}
					writeJSON(w, model.Envelope[model.User]{Success: true, Message: tt.message})
				})
			})

			_ = env.hooks.UpdateName(context.Background(), model.UpdateNameRequest{FirstName: "Budi", LastName: "Santoso"})
			got, ok := env.toasts.last()
			if !ok {
				t.Fatal("уведомление не показано")
			}
			if got.Level != tt.wantLevel || got.Message != tt.wantText {
				t.Errorf("уведомление = %+v, ожидалось %s %q", got, tt.wantLevel, tt.wantText)
			}
		})
	}
}

func TestUpdateName_ValidatedBeforeRequest(t *testing.T) {
	var calls atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Put("/users/me/name", func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(w, model.Envelope[model.User]{Success: true})
		})
	})

	err := env.hooks.UpdateName(context.Background(), model.UpdateNameRequest{LastName: "Santoso"})
	if forms.Field(err, "first_name") != "First name is required" {
		t.Errorf("ошибка = %v", err)
	}
	if calls.Load() != 0 {
		t.Error("некорректная форма не должна отправляться")
	}
	if _, ok := env.toasts.last(); ok {
		t.Error("ошибки формы не показываются уведомлением")
	}
}

func TestUpdateName_UpdatesSessionUser(t *testing.T) {
	env := setupHooks(t, func(r chi.Router) {
		r.Put("/users/me/name", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Envelope[model.User]{Success: true})
		})
	})
	ctx := context.Background()
	if err := env.session.SetCredentials(ctx, model.User{UUID: testUUID, FirstName: "Old", Email: "budi@kmm.co.id"}, "a", "r"); err != nil {
		t.Fatal(err)
	}

	if err := env.hooks.UpdateName(ctx, model.UpdateNameRequest{FirstName: "Budi", LastName: "Santoso"}); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	u, err := env.session.User()
	if err != nil {
		t.Fatal(err)
	}
	if u.FullName() != "Budi Santoso" || u.Email != "budi@kmm.co.id" {
		t.Errorf("пользователь = %+v", u)
	}
}

func TestChangePassword_UsesSessionUser(t *testing.T) {
	var path string
	env := setupHooks(t, func(r chi.Router) {
		r.Post("/users/{uuid}/password/change", func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			writeJSON(w, model.Ack{Success: true})
		})
	})
	ctx := context.Background()
	req := model.ChangePasswordRequest{OldPassword: "old", NewPassword: "12345678", ConfirmNewPassword: "12345678"}

	if err := env.hooks.ChangePassword(ctx, req); !errors.Is(err, session.ErrNoUser) {
		t.Errorf("без пользователя: %v, ожидался ErrNoUser", err)
	}

	_ = env.session.SetCredentials(ctx, model.User{UUID: testUUID}, "a", "r")
	if err := env.hooks.ChangePassword(ctx, req); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if path != "/api/v1/users/"+testUUID+"/password/change" {
		t.Errorf("путь = %q", path)
	}
	if got, _ := env.toasts.last(); got.Message != "Password changed successfully" {
		t.Errorf("уведомление = %+v", got)
	}
}

func TestLoginLogout(t *testing.T) {
	var logouts atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var req model.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "secret" {
				writeError(w, http.StatusBadRequest, "Invalid email or password")
				return
			}
			writeJSON(w, model.Envelope[model.LoginResult]{Success: true, Data: model.LoginResult{
				AccessToken:  "access",
				RefreshToken: "refresh",
				User:         model.User{UUID: testUUID, RoleCode: model.RoleAdmin},
			}})
		})
		r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			logouts.Add(1)
			if r.Header.Get("Authorization") != "Bearer access" {
				t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
			}
			writeJSON(w, model.Ack{Success: true})
		})
		r.Get("/stores/active", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, model.Page[model.Store]{})
		})
	})
	ctx := context.Background()

	if _, err := env.hooks.Login(ctx, "admin@kmm.co.id", "wrong"); httpclient.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("неверный пароль: %v", err)
	}
	if env.session.IsAuthenticated() {
		t.Fatal("после неудачного входа сессия не должна появляться")
	}

	user, err := env.hooks.Login(ctx, "admin@kmm.co.id", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.UUID != testUUID || !env.session.IsAuthenticated() || !env.session.Roles().IsAdmin {
		t.Fatalf("сессия после входа: %+v", env.session.Snapshot())
	}

	_, _ = env.hooks.Stores.List(ctx, backend.ListParams{})
	if env.hooks.Cache().Len() == 0 {
		t.Fatal("список должен попасть в кэш")
	}

	if err := env.hooks.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if env.session.IsAuthenticated() || env.session.AccessToken() != "" {
		t.Error("после выхода сессия должна быть очищена")
	}
	if env.hooks.Cache().Len() != 0 {
		t.Errorf("после выхода кэш должен быть пуст: %d", env.hooks.Cache().Len())
	}
	if got := <-env.routes; got != LoginRoute {
		t.Errorf("переход на %q", got)
	}
}

func TestForgotPassword(t *testing.T) {
	env := setupHooks(t, func(r chi.Router) {
		r.Post("/users/password/forgot", func(w http.ResponseWriter, r *http.Request) {
			var req model.ForgotPasswordRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Email == "unknown@kmm.co.id" {
				writeError(w, http.StatusNotFound, "")
				return
			}
			writeJSON(w, model.Ack{Success: true})
		})
	})
	ctx := context.Background()

	if err := env.hooks.ForgotPassword(ctx, "budi@kmm.co.id"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if got, _ := env.toasts.last(); got.Level != notify.LevelSuccess || got.Message != "Reset password email sent successfully" {
		t.Errorf("уведомление = %+v", got)
	}
	select {
	case route := <-env.routes:
		if route != LoginRoute {
			t.Errorf("переход на %q", route)
		}
	default:
		t.Error("ожидался переход на экран входа")
	}

	if err := env.hooks.ForgotPassword(ctx, "unknown@kmm.co.id"); !httpclient.IsNotFound(err) {
		t.Fatalf("ожидалась 404, получено %v", err)
	}
	if got, _ := env.toasts.last(); got.Level != notify.LevelError || got.Message != "HTTP error! status: 404" {
		t.Errorf("уведомление = %+v", got)
	}
	if len(env.routes) != 0 {
		t.Error("при ошибке переход не выполняется")
	}
}

func TestSetPassword_ChoosesEndpointByRoute(t *testing.T) {
	var hits []string
	var mu sync.Mutex
	record := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			hits = append(hits, name)
			mu.Unlock()
			writeJSON(w, model.Ack{Success: true})
		}
	}
	env := setupHooks(t, func(r chi.Router) {
		r.Post("/users/password/set", record("set"))
		r.Post("/users/password/reset", record("reset"))
	})
	ctx := context.Background()
	form := PasswordForm{Token: "tok", Password: "12345678", ConfirmPassword: "12345678"}

	env.route = "/set-password"
	if _, err := env.hooks.SetPassword(ctx, form); err != nil {
		t.Fatal(err)
	}
	env.route = "/reset-password?token=tok"
	if _, err := env.hooks.SetPassword(ctx, form); err != nil {
		t.Fatal(err)
	}

	if len(hits) != 2 || hits[0] != "set" || hits[1] != "reset" {
		t.Errorf("вызовы = %v", hits)
	}
}

func TestTicketPriorities(t *testing.T) {
	var rawQuery string
	sla := 4.0
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/ticket-priorities/active", func(w http.ResponseWriter, r *http.Request) {
			rawQuery = r.URL.RawQuery
			writeJSON(w, model.Envelope[model.Page[model.TicketPriority]]{Success: true, Data: model.Page[model.TicketPriority]{
				CurrentPage: 1, TotalPages: 1, TotalRecords: 1,
				Data: []model.TicketPriority{{UUID: testUUID, PriorityCode: "P1", SLAResponseTime: &sla}},
			}})
		})
	})

	page, err := env.hooks.TicketPriorities(context.Background(), backend.ListParams{})
	if err != nil {
		t.Fatalf("TicketPriorities: %v", err)
	}
	if rawQuery != "page=1&page_size=1000" {
		t.Errorf("query = %q", rawQuery)
	}
	if len(page.Data) != 1 || page.Data[0].ID != testUUID || page.Data[0].SLAResponseTime != 4 || page.Data[0].SLAResolutionTime != 0 {
		t.Errorf("приоритеты = %+v", page.Data)
	}
}

func TestTicketPriorities_MissingData(t *testing.T) {
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/ticket-priorities/active", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"success": true, "data": map[string]any{"data": nil}})
		})
	})

	if _, err := env.hooks.TicketPriorities(context.Background(), backend.ListParams{}); !errors.Is(err, ErrInvalidData) {
		t.Errorf("ожидалась ErrInvalidData, получено %v", err)
	}
}

func TestAssignees_Options(t *testing.T) {
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/assignees", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("type") != "vendor" {
				writeJSON(w, map[string]any{"total": 0, "data": nil})
				return
			}
			writeJSON(w, model.Collection[model.Assignee]{Total: 1, Data: []model.Assignee{{UUID: testUUID, Name: "PT Sejuk"}}})
		})
	})
	ctx := context.Background()

	opts, err := env.hooks.Assignees(ctx, model.AssignVendor)
	if err != nil {
		t.Fatalf("Assignees: %v", err)
	}
	if len(opts) != 1 || opts[0] != (model.Option{Label: "PT Sejuk", Value: testUUID}) {
		t.Errorf("варианты = %+v", opts)
	}

	internal, err := env.hooks.Assignees(ctx, model.AssignInternal)
	if err != nil || internal == nil || len(internal) != 0 {
		t.Errorf("null data должна давать пустой список: %v, %v", internal, err)
	}
}

func TestDashboard_NormalizedAndKeyedByFilter(t *testing.T) {
	var calls atomic.Int32
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/dashboard/ticket-status-priority", func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(w, model.StatusPriorityResponse{Success: true, Data: model.RowsPayload[model.StatusPriorityRow]{
				Data: []model.StatusPriorityRow{{Status: "Open", TotalRequest: 5, Priorities: []model.LabelValue{{Label: "P1", Value: 5}}}},
			}})
		})
	})
	ctx := context.Background()
	f := model.DashboardFilter{StartDate: "2025-01-01", EndDate: "2025-01-31"}

	got, err := env.hooks.TicketStatusPriority(ctx, f)
	if err != nil {
		t.Fatalf("TicketStatusPriority: %v", err)
	}
	if len(got.Data) != 1 || got.Data[0].Total != 5 || got.Data[0].PriorityBreakdown[0].Priority != "P1" {
		t.Errorf("данные = %+v", got.Data)
	}

	_, _ = env.hooks.TicketStatusPriority(ctx, f)
	_, _ = env.hooks.TicketStatusPriority(ctx, model.DashboardFilter{StoreUUID: testUUID})
	if calls.Load() != 2 {
		t.Errorf("запросов %d, ожидалось 2 (по одному на фильтр)", calls.Load())
	}
}

func TestExport_Filename(t *testing.T) {
	env := setupHooks(t, func(r chi.Router) {
		r.Get("/admin/tickets/export", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("xlsx"))
		})
	})
	env.hooks.now = func() time.Time { return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC) }

	file, err := env.hooks.Export(context.Background(), backend.ExportParams{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if file.Filename != "tickets-export-2025-03-09.xlsx" || string(file.Data) != "xlsx" {
		t.Errorf("файл = %q, %q", file.Filename, file.Data)
	}
}
