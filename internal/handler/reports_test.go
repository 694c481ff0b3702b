package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/VishSinh/vsc-be/internal/handler"
	"github.com/VishSinh/vsc-be/internal/middleware"
	"github.com/VishSinh/vsc-be/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Mock AnalyticsServicer ---

type mockAnalyticsService struct {
	profitFn    func(ctx context.Context, start, end time.Time) (*service.ProfitResult, error)
	monthlyFn   func(ctx context.Context) (*service.ProfitResult, error)
	yearlyFn    func(ctx context.Context) ([]service.MonthlyProfit, error)
	dashboardFn func(ctx context.Context) (*service.Dashboard, error)
	detailFn    func(ctx context.Context, kind string) (*service.DashboardDetail, error)
}

func (m *mockAnalyticsService) CalculateProfitForPeriod(ctx context.Context, start, end time.Time) (*service.ProfitResult, error) {
	return m.profitFn(ctx, start, end)
}

func (m *mockAnalyticsService) GetMonthlyProfit(ctx context.Context) (*service.ProfitResult, error) {
	return m.monthlyFn(ctx)
}

func (m *mockAnalyticsService) GetYearlyProfit(ctx context.Context) ([]service.MonthlyProfit, error) {
	return m.yearlyFn(ctx)
}

func (m *mockAnalyticsService) GetDashboard(ctx context.Context) (*service.Dashboard, error) {
	return m.dashboardFn(ctx)
}

func (m *mockAnalyticsService) GetDashboardDetail(ctx context.Context, kind string) (*service.DashboardDetail, error) {
	return m.detailFn(ctx, kind)
}

func setupReportsRouter(svc *mockAnalyticsService) *chi.Mux {
	h := handler.NewReportsHandler(svc)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/analytics", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestProfit_DateRange(t *testing.T) {
	claims := testClaims(enum.StaffRoleAdmin)
	svc := &mockAnalyticsService{
		profitFn: func(ctx context.Context, start, end time.Time) (*service.ProfitResult, error) {
			wantStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			wantEnd := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
			if !start.Equal(wantStart) || !end.Equal(wantEnd) {
				t.Errorf("range: got [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
			}
			return &service.ProfitResult{
				Profit:                      decimal.RequireFromString("1234.567"),
				OrdersIncluded:              7,
				OrdersPendingExpenseLogging: 2,
			}, nil
		},
	}

	rr := doAuthRequest(t, setupReportsRouter(svc), "GET", "/analytics/profit?start_date=2025-01-01&end_date=2025-01-31", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["profit"] != "1234.57" {
		t.Errorf("profit: got %v, want 1234.57", resp["profit"])
	}
	if resp["orders_included"] != float64(7) || resp["orders_pending_expense_logging"] != float64(2) {
		t.Errorf("counts: got %v / %v", resp["orders_included"], resp["orders_pending_expense_logging"])
	}
	if resp["start_date"] != "2025-01-01" || resp["end_date"] != "2025-01-31" {
		t.Errorf("echoed range: got %v..%v", resp["start_date"], resp["end_date"])
	}
}

func TestProfit_BadRange(t *testing.T) {
	claims := testClaims(enum.StaffRoleAdmin)
	svc := &mockAnalyticsService{
		profitFn: func(ctx context.Context, start, end time.Time) (*service.ProfitResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	router := setupReportsRouter(svc)

	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"missing both", "", "start_date and end_date are required"},
		{"missing end", "?start_date=2025-01-01", "start_date and end_date are required"},
		{"reversed", "?start_date=2025-02-01&end_date=2025-01-01", "start_date must not be after end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doAuthRequest(t, router, "GET", "/analytics/profit"+tt.query, nil, claims)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if resp := decodeResponse(t, rr); resp["error"] != tt.wantErr {
				t.Errorf("error: got %v, want %q", resp["error"], tt.wantErr)
			}
		})
	}

	rr := doAuthRequest(t, router, "GET", "/analytics/profit?start_date=01-01-2025&end_date=2025-01-31", nil, claims)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad format status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestMonthlyProfit(t *testing.T) {
	claims := testClaims(enum.StaffRoleManager)
	svc := &mockAnalyticsService{
		monthlyFn: func(ctx context.Context) (*service.ProfitResult, error) {
			return &service.ProfitResult{Profit: decimal.NewFromInt(-40), OrdersIncluded: 1}, nil
		},
	}

	rr := doAuthRequest(t, setupReportsRouter(svc), "GET", "/analytics/profit/monthly", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	if resp["profit"] != "-40.00" {
		t.Errorf("profit: got %v, want -40.00", resp["profit"])
	}
	if _, ok := resp["start_date"]; ok {
		t.Error("monthly profit should not echo a date range")
	}
}

func TestYearlyProfit(t *testing.T) {
	claims := testClaims(enum.StaffRoleManager)
	svc := &mockAnalyticsService{
		yearlyFn: func(ctx context.Context) ([]service.MonthlyProfit, error) {
			return []service.MonthlyProfit{
				{Month: "2024-11", Profit: decimal.Zero},
				{Month: "2024-12", Profit: decimal.RequireFromString("310.5")},
			}, nil
		},
	}

	rr := doAuthRequest(t, setupReportsRouter(svc), "GET", "/analytics/profit/yearly", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	series := decodeList(t, rr)
	if len(series) != 2 {
		t.Fatalf("points: got %d, want 2", len(series))
	}
	if series[0]["month"] != "2024-11" || series[0]["profit"] != "0.00" {
		t.Errorf("first point: got %v", series[0])
	}
	if series[1]["profit"] != "310.50" {
		t.Errorf("second point: got %v", series[1])
	}
}

func TestDashboard(t *testing.T) {
	claims := testClaims(enum.StaffRoleAdmin)
	svc := &mockAnalyticsService{
		dashboardFn: func(ctx context.Context) (*service.Dashboard, error) {
			return &service.Dashboard{
				LowStockCards:       3,
				OutOfStockCards:     1,
				PendingOrders:       5,
				PendingBills:        4,
				PendingPrintingJobs: 2,
				PendingBoxOrders:    1,
				TodaysOrders:        2,
				MonthOrders:         12,
				MonthlyOrderChange:  50,
			}, nil
		},
	}

	rr := doAuthRequest(t, setupReportsRouter(svc), "GET", "/analytics/dashboard", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	if resp["low_stock_cards"] != float64(3) || resp["pending_bills"] != float64(4) {
		t.Errorf("counters: got %v", resp)
	}
	if resp["monthly_order_change"] != float64(50) {
		t.Errorf("monthly_order_change: got %v, want 50", resp["monthly_order_change"])
	}
}

func TestDashboard_InternalError(t *testing.T) {
	claims := testClaims(enum.StaffRoleAdmin)
	svc := &mockAnalyticsService{
		dashboardFn: func(ctx context.Context) (*service.Dashboard, error) {
			return nil, errors.New("count low stock: timeout")
		},
	}

	rr := doAuthRequest(t, setupReportsRouter(svc), "GET", "/analytics/dashboard", nil, claims)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if resp := decodeResponse(t, rr); resp["error"] != "internal server error" {
		t.Errorf("error: got %v", resp["error"])
	}
}

func TestDashboardDetail(t *testing.T) {
	claims := testClaims(enum.StaffRoleManager)
	card := testCard(12)
	bill := database.Bill{ID: uuid.New(), OrderID: uuid.New(), TaxPercentage: testNumeric("18"), PaymentStatus: enum.PaymentStatusPartial}

	svc := &mockAnalyticsService{
		detailFn: func(ctx context.Context, kind string) (*service.DashboardDetail, error) {
			switch kind {
			case service.DetailOutOfStockCards:
				return &service.DashboardDetail{Type: kind, Cards: []database.Card{card}}, nil
			case service.DetailPendingBills:
				return &service.DashboardDetail{Type: kind, Bills: []database.Bill{bill}}, nil
			case service.DetailPendingBoxOrders:
				return &service.DashboardDetail{Type: kind}, nil
			}
			return nil, service.ErrInvalidDetailType
		},
	}
	router := setupReportsRouter(svc)

	rr := doAuthRequest(t, router, "GET", "/analytics/detail?type=out_of_stock_cards", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	cards, _ := resp["cards"].([]interface{})
	if resp["type"] != "out_of_stock_cards" || resp["count"] != float64(1) || len(cards) != 1 {
		t.Fatalf("response: got %v", resp)
	}
	if got := cards[0].(map[string]interface{})["id"]; got != card.ID.String() {
		t.Errorf("card id: got %v, want %s", got, card.ID)
	}

	rr = doAuthRequest(t, router, "GET", "/analytics/detail?type=pending_bills", nil, claims)
	resp = decodeResponse(t, rr)
	bills, _ := resp["bills"].([]interface{})
	if rr.Code != http.StatusOK || len(bills) != 1 {
		t.Fatalf("bills: got %d %v", rr.Code, resp)
	}
	if b := bills[0].(map[string]interface{}); b["payment_status"] != "PARTIAL" || b["tax_percentage"] != "18.00" {
		t.Errorf("bill: got %v", b)
	}
	if _, ok := resp["cards"]; ok {
		t.Error("only the requested list should be present")
	}

	rr = doAuthRequest(t, router, "GET", "/analytics/detail?type=pending_box_orders", nil, claims)
	if resp := decodeResponse(t, rr); rr.Code != http.StatusOK || resp["count"] != float64(0) {
		t.Errorf("empty list: got %d %v", rr.Code, resp)
	}

	rr = doAuthRequest(t, router, "GET", "/analytics/detail?type=overdue", nil, claims)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown type status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	rr = doAuthRequest(t, router, "GET", "/analytics/detail", nil, claims)
	if resp := decodeResponse(t, rr); rr.Code != http.StatusBadRequest || resp["error"] != "type is required" {
		t.Errorf("missing type: got %d %v", rr.Code, resp)
	}
}
