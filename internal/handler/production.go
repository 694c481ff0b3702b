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

// ProductionServicer defines the service methods needed by production handlers.
// Satisfied by *service.ProductionService; narrow interface for testability.
type ProductionServicer interface {
	CreatePrintingJob(ctx context.Context, req service.CreatePrintingJobRequest) (*database.PrintingJob, error)
	UpdatePrintingJob(ctx context.Context, req service.UpdatePrintingJobRequest) (*database.PrintingJob, error)
	GetPrintingJob(ctx context.Context, id uuid.UUID) (*database.PrintingJob, error)
	CreateBoxOrder(ctx context.Context, req service.CreateBoxOrderRequest) (*database.BoxOrder, error)
	UpdateBoxOrder(ctx context.Context, req service.UpdateBoxOrderRequest) (*database.BoxOrder, error)
	GetBoxOrder(ctx context.Context, id uuid.UUID) (*database.BoxOrder, error)
}

// ProductionHandler handles printing job and box order endpoints.
type ProductionHandler struct {
	svc ProductionServicer
}

// NewProductionHandler creates a new ProductionHandler.
func NewProductionHandler(svc ProductionServicer) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// RegisterRoutes registers production endpoints on the given Chi router.
func (h *ProductionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/printing-jobs", func(r chi.Router) {
		r.Post("/", h.CreatePrintingJob)
		r.Get("/{id}", h.GetPrintingJob)
		r.Patch("/{id}", h.UpdatePrintingJob)
	})
	r.Route("/box-orders", func(r chi.Router) {
		r.Post("/", h.CreateBoxOrder)
		r.Get("/{id}", h.GetBoxOrder)
		r.Patch("/{id}", h.UpdateBoxOrder)
	})
}

// --- Request / Response types ---

type createPrintingJobRequest struct {
	OrderItemID         uuid.UUID       `json:"order_item_id" validate:"required"`
	PrintQuantity       int32           `json:"print_quantity" validate:"gt=0"`
	TotalPrintingCost   decimal.Decimal `json:"total_printing_cost"`
	PrinterID           *uuid.UUID      `json:"printer_id"`
	TracingStudioID     *uuid.UUID      `json:"tracing_studio_id"`
	EstimatedCompletion *time.Time      `json:"estimated_completion"`
}

type updatePrintingJobRequest struct {
	PrinterID            *uuid.UUID       `json:"printer_id"`
	TracingStudioID      *uuid.UUID       `json:"tracing_studio_id"`
	PrintQuantity        *int32           `json:"print_quantity" validate:"omitempty,gt=0"`
	TotalPrintingCost    *decimal.Decimal `json:"total_printing_cost"`
	TotalPrintingExpense *decimal.Decimal `json:"total_printing_expense"`
	TotalTracingExpense  *decimal.Decimal `json:"total_tracing_expense"`
	PrintingStatus       *string          `json:"printing_status" validate:"omitempty,oneof=PENDING IN_TRACING IN_PRINTING COMPLETED"`
	EstimatedCompletion  *time.Time       `json:"estimated_completion"`
}

type createBoxOrderRequest struct {
	OrderItemID         uuid.UUID       `json:"order_item_id" validate:"required"`
	BoxType             string          `json:"box_type" validate:"required,oneof=FOLDING COMPLETE"`
	BoxQuantity         int32           `json:"box_quantity" validate:"gt=0"`
	TotalBoxCost        decimal.Decimal `json:"total_box_cost"`
	BoxMakerID          *uuid.UUID      `json:"box_maker_id"`
	EstimatedCompletion *time.Time      `json:"estimated_completion"`
}

type updateBoxOrderRequest struct {
	BoxMakerID          *uuid.UUID       `json:"box_maker_id"`
	BoxType             *string          `json:"box_type" validate:"omitempty,oneof=FOLDING COMPLETE"`
	BoxQuantity         *int32           `json:"box_quantity" validate:"omitempty,gt=0"`
	TotalBoxCost        *decimal.Decimal `json:"total_box_cost"`
	TotalBoxExpense     *decimal.Decimal `json:"total_box_expense"`
	BoxStatus           *string          `json:"box_status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	EstimatedCompletion *time.Time       `json:"estimated_completion"`
}

type printingJobResponse struct {
	ID                   uuid.UUID  `json:"id"`
	OrderItemID          uuid.UUID  `json:"order_item_id"`
	PrinterID            *uuid.UUID `json:"printer_id"`
	TracingStudioID      *uuid.UUID `json:"tracing_studio_id"`
	PrintQuantity        int32      `json:"print_quantity"`
	TotalPrintingCost    string     `json:"total_printing_cost"`
	TotalPrintingExpense *string    `json:"total_printing_expense"`
	TotalTracingExpense  *string    `json:"total_tracing_expense"`
	PrintingStatus       string     `json:"printing_status"`
	EstimatedCompletion  *time.Time `json:"estimated_completion"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type boxOrderResponse struct {
	ID                  uuid.UUID  `json:"id"`
	OrderItemID         uuid.UUID  `json:"order_item_id"`
	BoxMakerID          *uuid.UUID `json:"box_maker_id"`
	BoxType             string     `json:"box_type"`
	BoxQuantity         int32      `json:"box_quantity"`
	TotalBoxCost        string     `json:"total_box_cost"`
	TotalBoxExpense     *string    `json:"total_box_expense"`
	BoxStatus           string     `json:"box_status"`
	EstimatedCompletion *time.Time `json:"estimated_completion"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func toPrintingJobResponse(j database.PrintingJob) printingJobResponse {
	return printingJobResponse{
		ID:                   j.ID,
		OrderItemID:          j.OrderItemID,
		PrinterID:            uuidPtr(j.PrinterID),
		TracingStudioID:      uuidPtr(j.TracingStudioID),
		PrintQuantity:        j.PrintQuantity,
		TotalPrintingCost:    numericToString(j.TotalPrintingCost),
		TotalPrintingExpense: numericToStringPtr(j.TotalPrintingExpense),
		TotalTracingExpense:  numericToStringPtr(j.TotalTracingExpense),
		PrintingStatus:       j.PrintingStatus,
		EstimatedCompletion:  timePtr(j.EstimatedCompletion),
		UpdatedAt:            j.UpdatedAt,
	}
}

func toBoxOrderResponse(b database.BoxOrder) boxOrderResponse {
	return boxOrderResponse{
		ID:                  b.ID,
		OrderItemID:         b.OrderItemID,
		BoxMakerID:          uuidPtr(b.BoxMakerID),
		BoxType:             b.BoxType,
		BoxQuantity:         b.BoxQuantity,
		TotalBoxCost:        numericToString(b.TotalBoxCost),
		TotalBoxExpense:     numericToStringPtr(b.TotalBoxExpense),
		BoxStatus:           b.BoxStatus,
		EstimatedCompletion: timePtr(b.EstimatedCompletion),
		UpdatedAt:           b.UpdatedAt,
	}
}

// --- Printing jobs ---

// CreatePrintingJob opens an additional printing run for an order item.
func (h *ProductionHandler) CreatePrintingJob(w http.ResponseWriter, r *http.Request) {
	var req createPrintingJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	job, err := h.svc.CreatePrintingJob(r.Context(), service.CreatePrintingJobRequest{
		StaffID:             middleware.StaffIDFromContext(r.Context()),
		OrderItemID:         req.OrderItemID,
		PrintQuantity:       req.PrintQuantity,
		TotalPrintingCost:   req.TotalPrintingCost,
		PrinterID:           req.PrinterID,
		TracingStudioID:     req.TracingStudioID,
		EstimatedCompletion: req.EstimatedCompletion,
	})
	if err != nil {
		writeServiceError(w, err, "create printing job")
		return
	}
	writeJSON(w, http.StatusCreated, toPrintingJobResponse(*job))
}

// GetPrintingJob returns one printing run.
func (h *ProductionHandler) GetPrintingJob(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "printing job ID")
	if !ok {
		return
	}
	job, err := h.svc.GetPrintingJob(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get printing job")
		return
	}
	writeJSON(w, http.StatusOK, toPrintingJobResponse(*job))
}

// UpdatePrintingJob assigns providers, logs expenses or moves the status.
// The order's status is recomputed in the same transaction.
func (h *ProductionHandler) UpdatePrintingJob(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "printing job ID")
	if !ok {
		return
	}
	var req updatePrintingJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	job, err := h.svc.UpdatePrintingJob(r.Context(), service.UpdatePrintingJobRequest{
		StaffID:              middleware.StaffIDFromContext(r.Context()),
		JobID:                id,
		PrinterID:            req.PrinterID,
		TracingStudioID:      req.TracingStudioID,
		PrintQuantity:        req.PrintQuantity,
		TotalPrintingCost:    req.TotalPrintingCost,
		TotalPrintingExpense: req.TotalPrintingExpense,
		TotalTracingExpense:  req.TotalTracingExpense,
		PrintingStatus:       req.PrintingStatus,
		EstimatedCompletion:  req.EstimatedCompletion,
	})
	if err != nil {
		writeServiceError(w, err, "update printing job")
		return
	}
	writeJSON(w, http.StatusOK, toPrintingJobResponse(*job))
}

// --- Box orders ---

// CreateBoxOrder opens an additional box-making run for an order item.
func (h *ProductionHandler) CreateBoxOrder(w http.ResponseWriter, r *http.Request) {
	var req createBoxOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	box, err := h.svc.CreateBoxOrder(r.Context(), service.CreateBoxOrderRequest{
		StaffID:             middleware.StaffIDFromContext(r.Context()),
		OrderItemID:         req.OrderItemID,
		BoxType:             req.BoxType,
		BoxQuantity:         req.BoxQuantity,
		TotalBoxCost:        req.TotalBoxCost,
		BoxMakerID:          req.BoxMakerID,
		EstimatedCompletion: req.EstimatedCompletion,
	})
	if err != nil {
		writeServiceError(w, err, "create box order")
		return
	}
	writeJSON(w, http.StatusCreated, toBoxOrderResponse(*box))
}

// GetBoxOrder returns one box-making run.
func (h *ProductionHandler) GetBoxOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "box order ID")
	if !ok {
		return
	}
	box, err := h.svc.GetBoxOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get box order")
		return
	}
	writeJSON(w, http.StatusOK, toBoxOrderResponse(*box))
}

// UpdateBoxOrder mirrors UpdatePrintingJob for box runs.
func (h *ProductionHandler) UpdateBoxOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "box order ID")
	if !ok {
		return
	}
	var req updateBoxOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	box, err := h.svc.UpdateBoxOrder(r.Context(), service.UpdateBoxOrderRequest{
		StaffID:             middleware.StaffIDFromContext(r.Context()),
		BoxOrderID:          id,
		BoxMakerID:          req.BoxMakerID,
		BoxType:             req.BoxType,
		BoxQuantity:         req.BoxQuantity,
		TotalBoxCost:        req.TotalBoxCost,
		TotalBoxExpense:     req.TotalBoxExpense,
		BoxStatus:           req.BoxStatus,
		EstimatedCompletion: req.EstimatedCompletion,
	})
	if err != nil {
		writeServiceError(w, err, "update box order")
		return
	}
	writeJSON(w, http.StatusOK, toBoxOrderResponse(*box))
}
