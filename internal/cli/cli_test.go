package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
)

const testUUID = "7f1c2a4e-9b3d-4c8e-a1f0-2d5b6c7e8f90"

// testCLI — mock-бэкенд и файл сессии, общие для нескольких запусков mroctl.
type testCLI struct {
	t           *testing.T
	url         string
	sessionFile string
	now         time.Time
}

func setupCLI(t *testing.T, register func(r chi.Router)) *testCLI {
	t.Helper()
	t.Setenv("MRO_LOGIN_EMAIL", "")
	t.Setenv("MRO_LOGIN_PASSWORD", "")
	t.Setenv("MRO_API_BASE_PATH", "/api/v1")

	r := chi.NewRouter()
	r.Route("/api/v1", register)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testCLI{
		t:           t,
		url:         srv.URL,
		sessionFile: filepath.Join(t.TempDir(), "session.json"),
		now:         time.Date(2025, 3, 9, 9, 0, 0, 0, time.Local),
	}
}

// run выполняет mroctl с аргументами и возвращает stdout и ошибку.
func (c *testCLI) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd(func() time.Time { return c.now })
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api-url", c.url, "--session-file", c.sessionFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func authRoutes(r chi.Router) {
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		writeJSON(w, model.Envelope[model.LoginResult]{Success: true, Data: model.LoginResult{
			AccessToken:  "access",
			RefreshToken: "refresh",
			User:         model.User{UUID: testUUID, Email: req.Email, FirstName: "Sari", LastName: "Dewi", RoleName: "Admin"},
		}})
	})
	r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.Ack{Success: true, Message: "Logged out"})
	})
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good Night"},
		{4, "Good Night"},
		{5, "Good Morning"},
		{11, "Good Morning"},
		{12, "Good Afternoon"},
		{14, "Good Afternoon"},
		{15, "Good Evening"},
		{17, "Good Evening"},
		{18, "Good Night"},
		{23, "Good Night"},
	}
	for _, tt := range tests {
		at := time.Date(2025, 1, 1, tt.hour, 30, 0, 0, time.UTC)
		if got := greeting(at); got != tt.want {
			t.Errorf("greeting(%02d:30) = %q, ожидалось %q", tt.hour, got, tt.want)
		}
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	c := setupCLI(t, authRoutes)

	out, err := c.run("secret\n", "login", "--email", "sari@kmm.id")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Sari Dewi (sari@kmm.id)") {
		t.Errorf("login вывод = %q", out)
	}
	if _, err := os.Stat(c.sessionFile); err != nil {
		t.Fatalf("файл сессии не создан: %v", err)
	}

	out, err = c.run("", "--json", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var me whoami
	if err := json.Unmarshal([]byte(out), &me); err != nil {
		t.Fatalf("whoami JSON: %v (%q)", err, out)
	}
	if me.Greeting != "Good Morning" || me.User.UUID != testUUID {
		t.Errorf("whoami = %+v", me)
	}

	out, err = c.run("", "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if strings.TrimSpace(out) != "Logged out" {
		t.Errorf("logout вывод = %q", out)
	}

	if _, err := c.run("", "whoami"); err == nil {
		t.Error("whoami после logout должен завершиться ошибкой")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c := setupCLI(t, authRoutes)

	_, err := c.run("", "login", "--email", "sari@kmm.id", "--password", "wrong")
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("ожидалась ошибка бэкенда, получено %v", err)
	}
}

func TestTicketsList_Table(t *testing.T) {
	var status string
	c := setupCLI(t, func(r chi.Router) {
		r.Get("/admin/tickets", func(w http.ResponseWriter, r *http.Request) {
			status = r.URL.Query().Get("ticket_status")
			writeJSON(w, model.Envelope[model.Page[model.TicketListItem]]{Success: true, Data: model.Page[model.TicketListItem]{
				CurrentPage: 1, TotalPages: 1, TotalRecords: 1,
				Data: []model.TicketListItem{{TicketNumber: "TCK-0001", TicketStatus: "Open", PriorityName: "P1"}},
			}})
		})
	})

	out, err := c.run("", "tickets", "list", "--status", "open")
	if err != nil {
		t.Fatalf("tickets list: %v", err)
	}
	if status != "Open" {
		t.Errorf("ticket_status = %q", status)
	}
	for _, want := range []string{"NUMBER", "TCK-0001", "P1", "Page 1 of 1 (1 records)"} {
		if !strings.Contains(out, want) {
			t.Errorf("в выводе нет %q:\n%s", want, out)
		}
	}
}

func TestTicketsList_InvalidScope(t *testing.T) {
	c := setupCLI(t, func(chi.Router) {})
	if _, err := c.run("", "tickets", "list", "--scope", "vendor"); err == nil {
		t.Fatal("ожидалась ошибка для неизвестного scope")
	}
}

func TestTicketsExport_WritesFile(t *testing.T) {
	c := setupCLI(t, func(r chi.Router) {
		r.Get("/admin/tickets/export", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("xlsx-bytes"))
		})
	})
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := c.run("", "tickets", "export", "-o", path)
	if err != nil {
		t.Fatalf("tickets export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("файл выгрузки не записан: %v", err)
	}
	if string(data) != "xlsx-bytes" {
		t.Errorf("содержимое = %q", data)
	}
	if !strings.Contains(out, "Saved 10 bytes") {
		t.Errorf("вывод = %q", out)
	}
}

func TestDashboardSLA_WeightedAverage(t *testing.T) {
	sla := model.SLAResponse{Success: true, Data: model.SLAPayload{Data: []model.HoursByPriority{
		{Label: "P1", AverageHours: 2, TicketCount: 1},
		{Label: "P2", AverageHours: 4, TicketCount: 3},
	}}}
	c := setupCLI(t, func(r chi.Router) {
		r.Get("/dashboard/preparation-sla-average", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, sla) })
		r.Get("/dashboard/fixing-sla-average", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, sla) })
	})

	out, err := c.run("", "--json", "dashboard", "sla", "--start", "2025-01-01", "--end", "2025-01-31")
	if err != nil {
		t.Fatalf("dashboard sla: %v", err)
	}
	var res slaResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("JSON: %v (%q)", err, out)
	}
	if res.Preparation.Average != 3.5 || res.Fixing.Unit != "hours" {
		t.Errorf("sla = %+v", res)
	}

	if _, err := c.run("", "dashboard", "sla", "--maintenance-type", "contractor"); err == nil {
		t.Error("ожидалась ошибка для неизвестного maintenance-type")
	}
}
