package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/middleware"
	"github.com/VishSinh/vsc-be/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingServicer defines the service methods needed by bill handlers.
// Satisfied by *service.BillingService; narrow interface for testability.
type BillingServicer interface {
	GetBill(ctx context.Context, id uuid.UUID) (*service.BillDetail, error)
	GetBillByOrder(ctx context.Context, orderID uuid.UUID) (*service.BillDetail, error)
	ListBills(ctx context.Context, f service.ListBillsFilter) ([]service.BillDetail, error)
	RecordPayment(ctx context.Context, req service.RecordPaymentRequest) (*database.Payment, error)
	RecordAdjustment(ctx context.Context, req service.RecordAdjustmentRequest) (*database.BillAdjustment, error)
	ListPayments(ctx context.Context, billID uuid.UUID) ([]database.Payment, error)
	ListAdjustments(ctx context.Context, billID uuid.UUID) ([]database.BillAdjustment, error)
}

// BillHandler handles bill reads, payments and adjustments.
type BillHandler struct {
	svc BillingServicer
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(svc BillingServicer) *BillHandler {
	return &BillHandler{svc: svc}
}

// RegisterRoutes registers bill endpoints on the given Chi router.
// Expected to be mounted at /bills.
func (h *BillHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/order/{orderID}", h.GetByOrder)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Get("/payments", h.ListPayments)
		r.Post("/payments", h.RecordPayment)
		r.Get("/adjustments", h.ListAdjustments)
		r.Post("/adjustments", h.RecordAdjustment)
	})
}

// --- Request / Response types ---

type recordPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	PaymentMode    string          `json:"payment_mode" validate:"required,oneof=CASH CARD UPI"`
	TransactionRef string          `json:"transaction_ref"`
	Notes          string          `json:"notes"`
}

type recordAdjustmentRequest struct {
	AdjustmentType string          `json:"adjustment_type" validate:"required,oneof=NEGOTIATION COMPLAINT GOODWILL OTHER"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
}

type billSummaryResponse struct {
	OrderItemsSubtotal   string `json:"order_items_subtotal"`
	ServiceItemsSubtotal string `json:"service_items_subtotal"`
	ItemsSubtotal        string `json:"items_subtotal"`
	TotalBoxCost         string `json:"total_box_cost"`
	TotalPrintingCost    string `json:"total_printing_cost"`
	GrandTotal           string `json:"grand_total"`
	TaxPercentage        string `json:"tax_percentage"`
	TaxAmount            string `json:"tax_amount"`
	TotalWithTax         string `json:"total_with_tax"`
	TotalPaid            string `json:"total_paid"`
	TotalAdjusted        string `json:"total_adjusted"`
	PendingAmount        string `json:"pending_amount"`
}

type billResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderID       uuid.UUID           `json:"order_id"`
	OrderName     string              `json:"order_name"`
	OrderStatus   string              `json:"order_status"`
	PaymentStatus string              `json:"payment_status"`
	Summary       billSummaryResponse `json:"summary"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type paymentResponse struct {
	ID             uuid.UUID `json:"id"`
	BillID         uuid.UUID `json:"bill_id"`
	StaffID        uuid.UUID `json:"staff_id"`
	Amount         string    `json:"amount"`
	PaymentMode    string    `json:"payment_mode"`
	TransactionRef string    `json:"transaction_ref"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

type adjustmentResponse struct {
	ID             uuid.UUID `json:"id"`
	BillID         uuid.UUID `json:"bill_id"`
	StaffID        uuid.UUID `json:"staff_id"`
	AdjustmentType string    `json:"adjustment_type"`
	Amount         string    `json:"amount"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

func toBillResponse(d service.BillDetail) billResponse {
	s := d.Summary.Rounded()
	fixed := func(v decimal.Decimal) string { return v.StringFixed(2) }
	return billResponse{
		ID:            d.Bill.ID,
		OrderID:       d.Bill.OrderID,
		OrderName:     d.Order.Name,
		OrderStatus:   d.Order.OrderStatus,
		PaymentStatus: d.Bill.PaymentStatus,
		Summary: billSummaryResponse{
			OrderItemsSubtotal:   fixed(s.OrderItemsSubtotal),
			ServiceItemsSubtotal: fixed(s.ServiceItemsSubtotal),
			ItemsSubtotal:        fixed(s.ItemsSubtotal),
			TotalBoxCost:         fixed(s.TotalBoxCost),
			TotalPrintingCost:    fixed(s.TotalPrintingCost),
			GrandTotal:           fixed(s.GrandTotal),
			TaxPercentage:        fixed(s.TaxPercentage),
			TaxAmount:            fixed(s.TaxAmount),
			TotalWithTax:         fixed(s.TotalWithTax),
			TotalPaid:            fixed(s.TotalPaid),
			TotalAdjusted:        fixed(s.TotalAdjusted),
			PendingAmount:        fixed(s.PendingAmount),
		},
		CreatedAt: d.Bill.CreatedAt,
		UpdatedAt: d.Bill.UpdatedAt,
	}
}

func toPaymentResponse(p database.Payment) paymentResponse {
	return paymentResponse{
		ID:             p.ID,
		BillID:         p.BillID,
		StaffID:        p.StaffID,
		Amount:         numericToString(p.Amount),
		PaymentMode:    p.PaymentMode,
		TransactionRef: p.TransactionRef,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
	}
}

func toAdjustmentResponse(a database.BillAdjustment) adjustmentResponse {
	return adjustmentResponse{
		ID:             a.ID,
		BillID:         a.BillID,
		StaffID:        a.StaffID,
		AdjustmentType: a.AdjustmentType,
		Amount:         numericToString(a.Amount),
		Reason:         a.Reason,
		CreatedAt:      a.CreatedAt,
	}
}

// --- Handlers ---

// List returns bills, optionally filtered by payment_status and customer phone.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	f := service.ListBillsFilter{Limit: limit, Offset: offset}
	if s := r.URL.Query().Get("payment_status"); s != "" {
		f.PaymentStatus = &s
	}
	if s := r.URL.Query().Get("phone"); s != "" {
		f.CustomerPhone = &s
	}

	bills, err := h.svc.ListBills(r.Context(), f)
	if err != nil {
		writeServiceError(w, err, "list bills")
		return
	}

	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toBillResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a bill with amounts recomputed from the current order.
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "bill ID")
	if !ok {
		return
	}
	bill, err := h.svc.GetBill(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get bill")
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(*bill))
}

// GetByOrder returns the bill of an order.
func (h *BillHandler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := urlID(w, r, "orderID", "order ID")
	if !ok {
		return
	}
	bill, err := h.svc.GetBillByOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, "get bill by order")
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(*bill))
}

// RecordPayment stores a payment; the bill's payment status follows.
func (h *BillHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "bill ID")
	if !ok {
		return
	}
	var req recordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payment, err := h.svc.RecordPayment(r.Context(), service.RecordPaymentRequest{
		StaffID:        middleware.StaffIDFromContext(r.Context()),
		BillID:         id,
		Amount:         req.Amount,
		PaymentMode:    req.PaymentMode,
		TransactionRef: req.TransactionRef,
		Notes:          req.Notes,
	})
	if err != nil {
		writeServiceError(w, err, "record payment")
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(*payment))
}

// RecordAdjustment stores a non-cash credit against the bill.
func (h *BillHandler) RecordAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "bill ID")
	if !ok {
		return
	}
	var req recordAdjustmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	adj, err := h.svc.RecordAdjustment(r.Context(), service.RecordAdjustmentRequest{
		StaffID:        middleware.StaffIDFromContext(r.Context()),
		BillID:         id,
		AdjustmentType: req.AdjustmentType,
		Amount:         req.Amount,
		Reason:         req.Reason,
	})
	if err != nil {
		writeServiceError(w, err, "record adjustment")
		return
	}
	writeJSON(w, http.StatusCreated, toAdjustmentResponse(*adj))
}

// ListPayments returns the bill's payments, oldest first.
func (h *BillHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "bill ID")
	if !ok {
		return
	}
	payments, err := h.svc.ListPayments(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "list payments")
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAdjustments returns the bill's adjustments, oldest first.
func (h *BillHandler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "bill ID")
	if !ok {
		return
	}
	adjustments, err := h.svc.ListAdjustments(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "list adjustments")
		return
	}

	resp := make([]adjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		resp[i] = toAdjustmentResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}
