package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/middleware"
	"github.com/VishSinh/vsc-be/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	UpdateOrder(ctx context.Context, req service.UpdateOrderRequest) (*database.Order, error)
	DeleteOrder(ctx context.Context, orderID, staffID uuid.UUID) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (*service.OrderDetail, error)
	ListOrders(ctx context.Context, f service.ListOrdersFilter) ([]database.Order, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc OrderServicer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createOrderRequest struct {
	CustomerID         uuid.UUID            `json:"customer_id" validate:"required"`
	Name               string               `json:"name"`
	OrderDate          *time.Time           `json:"order_date"`
	DeliveryDate       time.Time            `json:"delivery_date" validate:"required"`
	SpecialInstruction string               `json:"special_instruction"`
	Items              []orderItemRequest   `json:"order_items" validate:"dive"`
	ServiceItems       []serviceItemRequest `json:"service_items" validate:"dive"`
}

type orderItemRequest struct {
	CardID            uuid.UUID       `json:"card_id" validate:"required"`
	Quantity          int32           `json:"quantity" validate:"gt=0"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	RequiresBox       bool            `json:"requires_box"`
	RequiresPrinting  bool            `json:"requires_printing"`
	BoxType           string          `json:"box_type" validate:"omitempty,oneof=FOLDING COMPLETE"`
	TotalBoxCost      decimal.Decimal `json:"total_box_cost"`
	TotalPrintingCost decimal.Decimal `json:"total_printing_cost"`
}

func (i orderItemRequest) toInput() service.OrderItemInput {
	return service.OrderItemInput{
		CardID:            i.CardID,
		Quantity:          i.Quantity,
		DiscountAmount:    i.DiscountAmount,
		RequiresBox:       i.RequiresBox,
		RequiresPrinting:  i.RequiresPrinting,
		BoxType:           i.BoxType,
		TotalBoxCost:      i.TotalBoxCost,
		TotalPrintingCost: i.TotalPrintingCost,
	}
}

type serviceItemRequest struct {
	ServiceType  string           `json:"service_type" validate:"required"`
	Quantity     int32            `json:"quantity" validate:"gt=0"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
	TotalExpense *decimal.Decimal `json:"total_expense"`
	Description  string           `json:"description"`
}

func (s serviceItemRequest) toInput() service.ServiceItemInput {
	return service.ServiceItemInput{
		ServiceType:  s.ServiceType,
		Quantity:     s.Quantity,
		TotalCost:    s.TotalCost,
		TotalExpense: s.TotalExpense,
		Description:  s.Description,
	}
}

// orderEditRequest is the wire form of one batch edit. Type selects which
// of the optional fields apply.
type orderEditRequest struct {
	Type              string           `json:"type" validate:"required,oneof=add_item update_item remove_item add_service_item update_service_item remove_service_item"`
	ItemID            *uuid.UUID       `json:"item_id"`
	ServiceItemID     *uuid.UUID       `json:"service_item_id"`
	CardID            *uuid.UUID       `json:"card_id"`
	Quantity          *int32           `json:"quantity"`
	DiscountAmount    *decimal.Decimal `json:"discount_amount"`
	RequiresBox       *bool            `json:"requires_box"`
	RequiresPrinting  *bool            `json:"requires_printing"`
	BoxType           *string          `json:"box_type"`
	TotalBoxCost      *decimal.Decimal `json:"total_box_cost"`
	TotalPrintingCost *decimal.Decimal `json:"total_printing_cost"`
	ServiceType       *string          `json:"service_type"`
	ProcurementStatus *string          `json:"procurement_status"`
	TotalCost         *decimal.Decimal `json:"total_cost"`
	TotalExpense      *decimal.Decimal `json:"total_expense"`
	Description       *string          `json:"description"`
}

type updateOrderRequest struct {
	Edits              []orderEditRequest `json:"edits" validate:"dive"`
	Name               *string            `json:"name"`
	DeliveryDate       *time.Time         `json:"delivery_date"`
	SpecialInstruction *string            `json:"special_instruction"`
	OrderStatus        *string            `json:"order_status"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (e orderEditRequest) toEdit() (service.OrderEdit, error) {
	switch e.Type {
	case "add_item":
		if e.CardID == nil || e.Quantity == nil {
			return nil, fmt.Errorf("card_id and quantity are required")
		}
		return service.AddItem{OrderItemInput: service.OrderItemInput{
			CardID:            *e.CardID,
			Quantity:          *e.Quantity,
			DiscountAmount:    deref(e.DiscountAmount),
			RequiresBox:       deref(e.RequiresBox),
			RequiresPrinting:  deref(e.RequiresPrinting),
			BoxType:           deref(e.BoxType),
			TotalBoxCost:      deref(e.TotalBoxCost),
			TotalPrintingCost: deref(e.TotalPrintingCost),
		}}, nil
	case "update_item":
		if e.ItemID == nil {
			return nil, fmt.Errorf("item_id is required")
		}
		return service.UpdateItem{
			ItemID:            *e.ItemID,
			Quantity:          e.Quantity,
			DiscountAmount:    e.DiscountAmount,
			RequiresBox:       e.RequiresBox,
			RequiresPrinting:  e.RequiresPrinting,
			BoxType:           e.BoxType,
			TotalBoxCost:      e.TotalBoxCost,
			TotalPrintingCost: e.TotalPrintingCost,
		}, nil
	case "remove_item":
		if e.ItemID == nil {
			return nil, fmt.Errorf("item_id is required")
		}
		return service.RemoveItem{ItemID: *e.ItemID}, nil
	case "add_service_item":
		if e.ServiceType == nil || e.Quantity == nil {
			return nil, fmt.Errorf("service_type and quantity are required")
		}
		return service.AddServiceItem{ServiceItemInput: service.ServiceItemInput{
			ServiceType:  *e.ServiceType,
			Quantity:     *e.Quantity,
			TotalCost:    deref(e.TotalCost),
			TotalExpense: e.TotalExpense,
			Description:  deref(e.Description),
		}}, nil
	case "update_service_item":
		if e.ServiceItemID == nil {
			return nil, fmt.Errorf("service_item_id is required")
		}
		return service.UpdateServiceItem{
			ServiceItemID:     *e.ServiceItemID,
			Quantity:          e.Quantity,
			ProcurementStatus: e.ProcurementStatus,
			TotalCost:         e.TotalCost,
			TotalExpense:      e.TotalExpense,
			Description:       e.Description,
		}, nil
	case "remove_service_item":
		if e.ServiceItemID == nil {
			return nil, fmt.Errorf("service_item_id is required")
		}
		return service.RemoveServiceItem{ServiceItemID: *e.ServiceItemID}, nil
	}
	return nil, fmt.Errorf("unknown edit type %q", e.Type)
}

type orderResponse struct {
	ID                 uuid.UUID `json:"id"`
	CustomerID         uuid.UUID `json:"customer_id"`
	StaffID            uuid.UUID `json:"staff_id"`
	Name               string    `json:"name"`
	OrderDate          time.Time `json:"order_date"`
	DeliveryDate       time.Time `json:"delivery_date"`
	OrderStatus        string    `json:"order_status"`
	SpecialInstruction string    `json:"special_instruction"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type createOrderResponse struct {
	orderResponse
	BillID uuid.UUID `json:"bill_id"`
}

type orderItemResponse struct {
	ID               uuid.UUID             `json:"id"`
	CardID           uuid.UUID             `json:"card_id"`
	Quantity         int32                 `json:"quantity"`
	PricePerItem     string                `json:"price_per_item"`
	DiscountAmount   string                `json:"discount_amount"`
	RequiresBox      bool                  `json:"requires_box"`
	RequiresPrinting bool                  `json:"requires_printing"`
	PrintingJobs     []printingJobResponse `json:"printing_jobs"`
	BoxOrders        []boxOrderResponse    `json:"box_orders"`
}

type serviceItemResponse struct {
	ID                uuid.UUID `json:"id"`
	ServiceType       string    `json:"service_type"`
	Quantity          int32     `json:"quantity"`
	ProcurementStatus string    `json:"procurement_status"`
	TotalCost         string    `json:"total_cost"`
	TotalExpense      *string   `json:"total_expense"`
	Description       string    `json:"description"`
}

// orderDetailResponse extends orderResponse with lines, production runs and the bill id.
type orderDetailResponse struct {
	orderResponse
	Items        []orderItemResponse   `json:"order_items"`
	ServiceItems []serviceItemResponse `json:"service_items"`
	BillID       *uuid.UUID            `json:"bill_id"`
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:                 o.ID,
		CustomerID:         o.CustomerID,
		StaffID:            o.StaffID,
		Name:               o.Name,
		OrderDate:          o.OrderDate,
		DeliveryDate:       o.DeliveryDate,
		OrderStatus:        o.OrderStatus,
		SpecialInstruction: o.SpecialInstruction,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func toOrderDetailResponse(d *service.OrderDetail) orderDetailResponse {
	resp := orderDetailResponse{
		orderResponse: toOrderResponse(d.Order),
		Items:         make([]orderItemResponse, len(d.Items)),
		ServiceItems:  make([]serviceItemResponse, len(d.ServiceItems)),
		BillID:        d.BillID,
	}
	for i, it := range d.Items {
		item := orderItemResponse{
			ID:               it.Item.ID,
			CardID:           it.Item.CardID,
			Quantity:         it.Item.Quantity,
			PricePerItem:     numericToString(it.Item.PricePerItem),
			DiscountAmount:   numericToString(it.Item.DiscountAmount),
			RequiresBox:      it.Item.RequiresBox,
			RequiresPrinting: it.Item.RequiresPrinting,
			PrintingJobs:     make([]printingJobResponse, len(it.PrintingJobs)),
			BoxOrders:        make([]boxOrderResponse, len(it.BoxOrders)),
		}
		for j, job := range it.PrintingJobs {
			item.PrintingJobs[j] = toPrintingJobResponse(job)
		}
		for j, box := range it.BoxOrders {
			item.BoxOrders[j] = toBoxOrderResponse(box)
		}
		resp.Items[i] = item
	}
	for i, s := range d.ServiceItems {
		resp.ServiceItems[i] = serviceItemResponse{
			ID:                s.ID,
			ServiceType:       s.ServiceType,
			Quantity:          s.Quantity,
			ProcurementStatus: s.ProcurementStatus,
			TotalCost:         numericToString(s.TotalCost),
			TotalExpense:      numericToStringPtr(s.TotalExpense),
			Description:       s.Description,
		}
	}
	return resp
}

// --- Handlers ---

// Create handles POST /orders. The authenticated staff member is recorded
// as the order's owner.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := service.CreateOrderRequest{
		CustomerID:         req.CustomerID,
		StaffID:            claims.StaffID,
		Name:               req.Name,
		OrderDate:          req.OrderDate,
		DeliveryDate:       req.DeliveryDate,
		SpecialInstruction: req.SpecialInstruction,
		Items:              make([]service.OrderItemInput, len(req.Items)),
		ServiceItems:       make([]service.ServiceItemInput, len(req.ServiceItems)),
	}
	for i, it := range req.Items {
		in.Items[i] = it.toInput()
	}
	for i, s := range req.ServiceItems {
		in.ServiceItems[i] = s.toInput()
	}

	result, err := h.svc.CreateOrder(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "create order")
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		orderResponse: toOrderResponse(result.Order),
		BillID:        result.Bill.ID,
	})
}

// List handles GET /orders with optional customer_id, start_date and
// end_date (YYYY-MM-DD, end inclusive) filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	f := service.ListOrdersFilter{Limit: limit, Offset: offset}

	q := r.URL.Query()
	if s := q.Get("customer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_id"})
			return
		}
		f.CustomerID = &id
	}
	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format"})
			return
		}
		f.Start = &t
	}
	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format"})
			return
		}
		end := t.AddDate(0, 0, 1)
		f.End = &end
	}

	orders, err := h.svc.ListOrders(r.Context(), f)
	if err != nil {
		writeServiceError(w, err, "list orders")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "order ID")
	if !ok {
		return
	}

	detail, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get order")
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// Update handles PATCH /orders/{id}: a batch of line edits plus order
// fields, applied all-or-nothing.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "order ID")
	if !ok {
		return
	}
	var req updateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in := service.UpdateOrderRequest{
		OrderID: id,
		StaffID: middleware.StaffIDFromContext(r.Context()),
		Edits:   make([]service.OrderEdit, len(req.Edits)),
		Fields: service.OrderFields{
			Name:               req.Name,
			DeliveryDate:       req.DeliveryDate,
			SpecialInstruction: req.SpecialInstruction,
			OrderStatus:        req.OrderStatus,
		},
	}
	for i, e := range req.Edits {
		edit, err := e.toEdit()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("edits[%d]: %v", i, err)})
			return
		}
		in.Edits[i] = edit
	}

	order, err := h.svc.UpdateOrder(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "update order")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// Delete handles DELETE /orders/{id}. Refused once money has been received.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "order ID")
	if !ok {
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id, middleware.StaffIDFromContext(r.Context())); err != nil {
		writeServiceError(w, err, "delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
