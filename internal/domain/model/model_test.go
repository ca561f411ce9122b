package model

import (
	"encoding/json"
	"testing"
)

func TestPageConsistent(t *testing.T) {
	tests := []struct {
		name string
		page Page[Store]
		want bool
	}{
		{"первая из трёх", Page[Store]{CurrentPage: 1, TotalPages: 3, HasNext: true}, true},
		{"середина", Page[Store]{CurrentPage: 2, TotalPages: 3, HasNext: true, HasPrev: true}, true},
		{"последняя", Page[Store]{CurrentPage: 3, TotalPages: 3, HasPrev: true}, true},
		{"пустая", Page[Store]{CurrentPage: 1, TotalPages: 0}, true},
		{"лишний has_next", Page[Store]{CurrentPage: 3, TotalPages: 3, HasNext: true, HasPrev: true}, false},
		{"пропущен has_prev", Page[Store]{CurrentPage: 2, TotalPages: 3, HasNext: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Consistent(); got != tt.want {
				t.Errorf("Consistent() = %v, ожидалось %v", got, tt.want)
			}
		})
	}
}

func TestEnvelopeDecodeBothCases(t *testing.T) {
	for _, body := range []string{
		`{"Success":true,"message":"ok","data":{"uuid":"a"}}`,
		`{"success":true,"message":"ok","data":{"uuid":"a"}}`,
	} {
		var env Envelope[Store]
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !env.Success || env.Data.UUID != "a" {
			t.Errorf("для %s получено %+v", body, env)
		}
	}
}

func TestFlagsOf(t *testing.T) {
	f := FlagsOf("In Progress", "HIGH")
	if !f.IsInProgress || !f.IsHigh {
		t.Errorf("ожидались IsInProgress и IsHigh, получено %+v", f)
	}
	if f.IsOpen || f.IsLow {
		t.Errorf("лишние признаки: %+v", f)
	}

	f = FlagsOf("request_to_transfer", "")
	if !f.IsRequestToTransfer {
		t.Error("request_to_transfer должен давать IsRequestToTransfer")
	}

	f = FlagsOf("completed", "low")
	if !f.IsResolved || !f.IsLow {
		t.Errorf("completed/low: %+v", f)
	}

	if (FlagsOf("unknown", "urgent") != TicketFlags{}) {
		t.Error("неизвестные значения должны давать нулевые признаки")
	}
}

func TestAssignType(t *testing.T) {
	if at, ok := ParseAssignType("vendor"); !ok || !at.IsVendor() {
		t.Errorf("ParseAssignType(vendor) = %q, %v", at, ok)
	}
	if _, ok := ParseAssignType("Vendor"); ok {
		t.Error("разбор должен быть чувствителен к регистру")
	}
	if got := AssignInternal.Label(); got != "Internal" {
		t.Errorf("Label = %q, ожидался Internal", got)
	}
	if got := AssignType("").Label(); got != "-" {
		t.Errorf("Label пустого = %q, ожидался -", got)
	}
}

func TestUserPatchApply(t *testing.T) {
	u := User{UUID: "u1", FirstName: "Budi", LastName: "Santoso", Email: "b@kmm.id"}
	first := "Andi"
	got := UserPatch{FirstName: &first}.Apply(u)

	if got.FirstName != "Andi" {
		t.Errorf("FirstName = %q, ожидался Andi", got.FirstName)
	}
	if got.LastName != "Santoso" || got.Email != "b@kmm.id" || got.UUID != "u1" {
		t.Errorf("остальные поля не должны меняться: %+v", got)
	}
	if u.FirstName != "Budi" {
		t.Error("исходное значение не должно изменяться")
	}
}

func TestTicketPriorityView(t *testing.T) {
	resp := 4.0
	p := TicketPriority{UUID: "p1", PriorityName: "High", SLAResponseTime: &resp}
	v := p.View()

	if v.ID != "p1" || v.UUID != "p1" {
		t.Errorf("ID/UUID = %q/%q", v.ID, v.UUID)
	}
	if v.SLAResponseTime != 4 {
		t.Errorf("SLAResponseTime = %v, ожидалось 4", v.SLAResponseTime)
	}
	if v.SLAResolutionTime != 0 {
		t.Errorf("null SLAResolutionTime должен стать 0, получено %v", v.SLAResolutionTime)
	}
	if v.Description != "" {
		t.Errorf("Description = %q, ожидалась пустая строка", v.Description)
	}
}

func TestUserFullName(t *testing.T) {
	if got := (User{FirstName: "Budi", LastName: "Santoso"}).FullName(); got != "Budi Santoso" {
		t.Errorf("FullName = %q", got)
	}
	if got := (User{LastName: "Santoso"}).FullName(); got != "Santoso" {
		t.Errorf("FullName = %q", got)
	}
}
