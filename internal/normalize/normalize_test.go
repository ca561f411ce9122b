package normalize

import (
	"encoding/json"
	"testing"

	"github.com/bambang-ap/kmm-mro-shared/internal/domain/model"
)

func TestAverageMaintenanceDuration_Weighted(t *testing.T) {
	resp := model.MaintenanceDurationResponse{
		Success: true,
		Data: model.RowsPayload[model.MaintenanceDurationRow]{Data: []model.MaintenanceDurationRow{
			{
				WorkCategoryName: "Electrical",
				Priorities: []model.DurationByPriority{
					{Label: "High", AverageDays: 2, TicketCount: 3},
					{Label: "Low", AverageDays: 5, TicketCount: 1},
				},
			},
			{
				WorkCategoryName: "Plumbing",
				Priorities: []model.DurationByPriority{
					{Label: "High", AverageDays: 4, TicketCount: 0},
				},
			},
			{
				WorkCategoryName: "HVAC",
				Priorities: []model.DurationByPriority{
					{Label: "High", AverageDays: 1, TicketCount: 1},
					{Label: "Medium", AverageDays: 2, TicketCount: 2},
				},
			},
		}},
	}

	got := dataOf(t, AverageMaintenanceDuration(resp))
	want := []CategoryDuration{
		{CategoryName: "Electrical", AverageDuration: 2.75, Unit: UnitDays},
		{CategoryName: "Plumbing", AverageDuration: 0, Unit: UnitDays},
		{CategoryName: "HVAC", AverageDuration: 1.67, Unit: UnitDays},
	}
	if len(got) != len(want) {
		t.Fatalf("получено %d категорий, ожидалось %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, ожидалось %+v", i, got[i], want[i])
		}
	}
}

// dataOf проверяет success и возвращает data.
func dataOf[T any](t *testing.T, env model.Envelope[T]) T {
	t.Helper()
	if !env.Success {
		t.Error("success должен сохраняться")
	}
	return env.Data
}

func TestSLAAverage(t *testing.T) {
	tests := []struct {
		name string
		data []model.HoursByPriority
		want float64
	}{
		{"взвешенное среднее", []model.HoursByPriority{
			{Label: "High", AverageHours: 2, TicketCount: 3},
			{Label: "Low", AverageHours: 5, TicketCount: 1},
		}, 2.75},
		{"пустой список", nil, 0},
		{"нулевое количество", []model.HoursByPriority{{Label: "High", AverageHours: 9, TicketCount: 0}}, 0},
		{"округление вверх", []model.HoursByPriority{{AverageHours: 1.005 + 1e-9, TicketCount: 1}}, 1.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := model.SLAResponse{Success: true, Data: model.SLAPayload{Data: tt.data}}
			for _, fn := range []func(model.SLAResponse) model.Envelope[Average]{PreparationSLAAverage, FixingSLAAverage} {
				got := dataOf(t, fn(resp))
				if got.Average != tt.want || got.Unit != UnitHours {
					t.Errorf("получено %+v, ожидалось %v hours", got, tt.want)
				}
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := map[float64]float64{
		2.75:    2.75,
		1.23456: 1.23,
		1.666:   1.67,
		-1.234:  -1.23,
		0:       0,
	}
	for in, want := range tests {
		if got := Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, ожидалось %v", in, got, want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.49999999999999994, 0},
		{0.5, 1},
		{2.5, 3},
		{-2.5, -2},
		{-0.5, 0},
		{4503599627370497, 4503599627370497},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %v, ожидалось %v", tt.in, got, tt.want)
		}
	}
}

func TestTicketStatusPriority(t *testing.T) {
	var resp model.StatusPriorityResponse
	body := `{"success":true,"message":"ok","data":{"data":[{"status":"Open","total_request":5,"priorities":[{"label":"High","value":2},{"label":"Low","value":3}]}]}}`
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got := TicketStatusPriority(resp)
	if got.Message != "ok" || len(got.Data) != 1 {
		t.Fatalf("результат = %+v", got)
	}
	row := got.Data[0]
	if row.Status != "Open" || row.Total != 5 || len(row.PriorityBreakdown) != 2 ||
		row.PriorityBreakdown[1] != (PriorityCount{Priority: "Low", Count: 3}) {
		t.Errorf("строка = %+v", row)
	}

	out, _ := json.Marshal(row)
	want := `{"status":"Open","total":5,"priority_breakdown":[{"priority":"High","count":2},{"priority":"Low","count":3}]}`
	if string(out) != want {
		t.Errorf("JSON = %s", out)
	}
}

func TestRenamingNormalizers(t *testing.T) {
	wc := WorkCategoryContribution(model.WorkCategoryShareResponse{Data: model.RowsPayload[model.WorkCategoryShareRow]{
		Data: []model.WorkCategoryShareRow{{WorkCategoryName: "Electrical", Count: 4, Percentage: 40}},
	}})
	if wc.Data[0] != (CategoryShare{CategoryName: "Electrical", Count: 4, Percentage: 40}) {
		t.Errorf("work category = %+v", wc.Data[0])
	}

	ts := TopStores(model.TopStoresResponse{Data: model.RowsPayload[model.StoreTotalRow]{
		Data: []model.StoreTotalRow{{StoreName: "KMM Bali", TotalRequest: 12}},
	}})
	if ts.Data[0] != (StoreTotal{StoreName: "KMM Bali", TotalTickets: 12}) {
		t.Errorf("top stores = %+v", ts.Data[0])
	}

	tr := TrendTotalRequest(model.TrendResponse{Data: model.RowsPayload[model.TrendRow]{
		Data: []model.TrendRow{{Date: "2025-01-05", TotalRequest: 7}},
	}})
	if tr.Data[0] != (TrendPoint{Period: "2025-01-05", Total: 7}) {
		t.Errorf("trend = %+v", tr.Data[0])
	}

	fa := FloorAreaDistribution(model.FloorAreaShareResponse{})
	if fa.Data == nil || len(fa.Data) != 0 {
		t.Errorf("пустой ответ должен давать пустой срез, получено %#v", fa.Data)
	}
}

func TestStoreWorkCategoryDistribution(t *testing.T) {
	var resp model.StoreCategoryResponse
	body := `{"success":true,"data":{"data":[{"store_name":"KMM Bali","total_request":3,"work_categories":[{"label":"Electrical","value":2},{"label":"HVAC","value":1}]}],"pagination":{"page":2,"limit":5,"total_items":11,"total_pages":3}}}`
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got := StoreWorkCategoryDistribution(resp)
	if got.Pagination != (Pagination{Page: 2, Limit: 5, Total: 11, TotalPages: 3}) {
		t.Errorf("pagination = %+v", got.Pagination)
	}
	if len(got.Data) != 1 || got.Data[0].StoreName != "KMM Bali" ||
		got.Data[0].Categories[0] != (CategoryCount{CategoryName: "Electrical", Count: 2}) {
		t.Errorf("data = %+v", got.Data)
	}
}

func TestTicketPriorities(t *testing.T) {
	hours := 4.0
	page := model.Page[model.TicketPriority]{
		CurrentPage: 1, TotalPages: 1, TotalRecords: 2,
		Data: []model.TicketPriority{
			{UUID: "a", PriorityName: "High", SLAResponseTime: &hours},
			{UUID: "b", PriorityName: "Low"},
		},
	}

	got := TicketPriorities(page)
	if got.Pagination.TotalRecords != 2 || len(got.Data) != 2 {
		t.Fatalf("результат = %+v", got)
	}
	if got.Data[0].ID != "a" || got.Data[0].SLAResponseTime != 4 {
		t.Errorf("[0] = %+v", got.Data[0])
	}
	if got.Data[1].SLAResponseTime != 0 || got.Data[1].SLAResolutionTime != 0 {
		t.Errorf("null SLA должен давать 0: %+v", got.Data[1])
	}
}
