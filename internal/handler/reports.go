package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// AnalyticsServicer defines the service methods needed by analytics handlers.
// Satisfied by *service.AnalyticsService; narrow interface for testability.
type AnalyticsServicer interface {
	CalculateProfitForPeriod(ctx context.Context, start, end time.Time) (*service.ProfitResult, error)
	GetMonthlyProfit(ctx context.Context) (*service.ProfitResult, error)
	GetYearlyProfit(ctx context.Context) ([]service.MonthlyProfit, error)
	GetDashboard(ctx context.Context) (*service.Dashboard, error)
	GetDashboardDetail(ctx context.Context, kind string) (*service.DashboardDetail, error)
}

// ReportsHandler handles profit and dashboard endpoints.
type ReportsHandler struct {
	svc AnalyticsServicer
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(svc AnalyticsServicer) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// RegisterRoutes registers analytics endpoints on the given Chi router.
// Expected to be mounted at /analytics.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/profit", h.Profit)
	r.Get("/profit/monthly", h.MonthlyProfit)
	r.Get("/profit/yearly", h.YearlyProfit)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/detail", h.Detail)
}

// --- Response types ---

type profitResponse struct {
	StartDate                   string `json:"start_date,omitempty"`
	EndDate                     string `json:"end_date,omitempty"`
	Profit                      string `json:"profit"`
	OrdersIncluded              int    `json:"orders_included"`
	OrdersPendingExpenseLogging int    `json:"orders_pending_expense_logging"`
}

type monthlyProfitResponse struct {
	Month  string `json:"month"`
	Profit string `json:"profit"`
}

type pendingBillResponse struct {
	ID            uuid.UUID `json:"id"`
	OrderID       uuid.UUID `json:"order_id"`
	TaxPercentage string    `json:"tax_percentage"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// detailResponse carries the one list matching Type. An empty list is
// omitted and Count is 0.
type detailResponse struct {
	Type         string                `json:"type"`
	Cards        []cardResponse        `json:"cards,omitempty"`
	Orders       []orderResponse       `json:"orders,omitempty"`
	Bills        []pendingBillResponse `json:"bills,omitempty"`
	PrintingJobs []printingJobResponse `json:"printing_jobs,omitempty"`
	BoxOrders    []boxOrderResponse    `json:"box_orders,omitempty"`
	Count        int                   `json:"count"`
}

func toDetailResponse(d *service.DashboardDetail) detailResponse {
	resp := detailResponse{Type: d.Type}
	switch d.Type {
	case service.DetailLowStockCards, service.DetailOutOfStockCards:
		resp.Cards = make([]cardResponse, len(d.Cards))
		for i, c := range d.Cards {
			resp.Cards[i] = toCardResponse(c)
		}
		resp.Count = len(d.Cards)
	case service.DetailPendingOrders, service.DetailTodaysOrders:
		resp.Orders = make([]orderResponse, len(d.Orders))
		for i, o := range d.Orders {
			resp.Orders[i] = toOrderResponse(o)
		}
		resp.Count = len(d.Orders)
	case service.DetailPendingBills:
		resp.Bills = make([]pendingBillResponse, len(d.Bills))
		for i, b := range d.Bills {
			resp.Bills[i] = toPendingBillResponse(b)
		}
		resp.Count = len(d.Bills)
	case service.DetailPendingPrintingJobs:
		resp.PrintingJobs = make([]printingJobResponse, len(d.PrintingJobs))
		for i, j := range d.PrintingJobs {
			resp.PrintingJobs[i] = toPrintingJobResponse(j)
		}
		resp.Count = len(d.PrintingJobs)
	case service.DetailPendingBoxOrders:
		resp.BoxOrders = make([]boxOrderResponse, len(d.BoxOrders))
		for i, b := range d.BoxOrders {
			resp.BoxOrders[i] = toBoxOrderResponse(b)
		}
		resp.Count = len(d.BoxOrders)
	}
	return resp
}

func toPendingBillResponse(b database.Bill) pendingBillResponse {
	return pendingBillResponse{
		ID:            b.ID,
		OrderID:       b.OrderID,
		TaxPercentage: numericToString(b.TaxPercentage),
		PaymentStatus: b.PaymentStatus,
		CreatedAt:     b.CreatedAt,
	}
}

func toProfitResponse(res *service.ProfitResult) profitResponse {
	return profitResponse{
		Profit:                      res.Profit.StringFixed(2),
		OrdersIncluded:              res.OrdersIncluded,
		OrdersPendingExpenseLogging: res.OrdersPendingExpenseLogging,
	}
}

// --- Handlers ---

// Profit reports accrual profit for orders dated between start_date and
// end_date (YYYY-MM-DD, both inclusive).
func (h *ReportsHandler) Profit(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := h.svc.CalculateProfitForPeriod(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err, "calculate profit")
		return
	}

	resp := toProfitResponse(res)
	resp.StartDate = start.Format(dateLayout)
	resp.EndDate = end.AddDate(0, 0, -1).Format(dateLayout)
	writeJSON(w, http.StatusOK, resp)
}

// MonthlyProfit reports profit for the current calendar month.
func (h *ReportsHandler) MonthlyProfit(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetMonthlyProfit(r.Context())
	if err != nil {
		writeServiceError(w, err, "monthly profit")
		return
	}
	writeJSON(w, http.StatusOK, toProfitResponse(res))
}

// YearlyProfit reports the last twelve months, oldest first.
func (h *ReportsHandler) YearlyProfit(w http.ResponseWriter, r *http.Request) {
	series, err := h.svc.GetYearlyProfit(r.Context())
	if err != nil {
		writeServiceError(w, err, "yearly profit")
		return
	}

	resp := make([]monthlyProfitResponse, len(series))
	for i, m := range series {
		resp[i] = monthlyProfitResponse{Month: m.Month, Profit: m.Profit.StringFixed(2)}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Dashboard returns the landing-page counters.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeServiceError(w, err, "dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Detail lists the rows behind one dashboard counter, picked by ?type=.
func (h *ReportsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if kind == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type is required"})
		return
	}

	d, err := h.svc.GetDashboardDetail(r.Context(), kind)
	if err != nil {
		writeServiceError(w, err, "dashboard detail")
		return
	}
	writeJSON(w, http.StatusOK, toDetailResponse(d))
}

// --- Helpers ---

// parseDateRange parses the required start_date and end_date query params.
// The returned end is exclusive (midnight after end_date).
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	s, e := r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date")
	if s == "" || e == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date are required")
	}

	start, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format: %w", err)
	}
	end, err := time.Parse(dateLayout, e)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format: %w", err)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must not be after end_date")
	}
	return start, end.AddDate(0, 0, 1), nil
}
