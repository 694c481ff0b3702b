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

// InventoryServicer defines the service methods needed by card handlers.
// Satisfied by *service.InventoryService; narrow interface for testability.
type InventoryServicer interface {
	CreateCard(ctx context.Context, req service.CreateCardRequest) (*database.Card, error)
	GetCard(ctx context.Context, id uuid.UUID) (*database.Card, error)
	UpdateCard(ctx context.Context, req service.UpdateCardRequest) (*database.Card, error)
	DeactivateCard(ctx context.Context, staffID, cardID uuid.UUID) error
	ListCards(ctx context.Context, limit, offset int32) ([]database.Card, error)
	PurchaseStock(ctx context.Context, req service.StockRequest) (*database.Card, error)
	RecordDamage(ctx context.Context, req service.StockRequest) (*database.Card, error)
	ListTransactions(ctx context.Context, cardID uuid.UUID) ([]database.InventoryTransaction, error)
}

// CardHandler handles the card catalog and its stock ledger.
type CardHandler struct {
	svc InventoryServicer
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc InventoryServicer) *CardHandler {
	return &CardHandler{svc: svc}
}

// RegisterRoutes registers read endpoints, open to every role.
// Expected to be mounted at /cards.
func (h *CardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/transactions", h.Transactions)
}

// RegisterManageRoutes registers catalog and stock mutations.
func (h *CardHandler) RegisterManageRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Deactivate)
	r.Post("/{id}/purchases", h.Purchase)
	r.Post("/{id}/damages", h.Damage)
}

// --- Request / Response types ---

type createCardRequest struct {
	VendorID    uuid.UUID       `json:"vendor_id" validate:"required"`
	Barcode     string          `json:"barcode" validate:"required"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	MaxDiscount decimal.Decimal `json:"max_discount"`
	Quantity    int32           `json:"quantity" validate:"gte=0"`
}

type updateCardRequest struct {
	VendorID    *uuid.UUID       `json:"vendor_id"`
	SellPrice   *decimal.Decimal `json:"sell_price"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	MaxDiscount *decimal.Decimal `json:"max_discount"`
}

type stockRequest struct {
	Quantity int32  `json:"quantity" validate:"gt=0"`
	Notes    string `json:"notes"`
}

type cardResponse struct {
	ID          uuid.UUID `json:"id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	Barcode     string    `json:"barcode"`
	SellPrice   string    `json:"sell_price"`
	CostPrice   string    `json:"cost_price"`
	MaxDiscount string    `json:"max_discount"`
	Quantity    int32     `json:"quantity"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type inventoryTransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	CardID          uuid.UUID  `json:"card_id"`
	TransactionType string     `json:"transaction_type"`
	QuantityChanged int32      `json:"quantity_changed"`
	CostPrice       string     `json:"cost_price"`
	OrderItemID     *uuid.UUID `json:"order_item_id"`
	PerformedBy     *uuid.UUID `json:"performed_by"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toCardResponse(c database.Card) cardResponse {
	return cardResponse{
		ID:          c.ID,
		VendorID:    c.VendorID,
		Barcode:     c.Barcode,
		SellPrice:   numericToString(c.SellPrice),
		CostPrice:   numericToString(c.CostPrice),
		MaxDiscount: numericToString(c.MaxDiscount),
		Quantity:    c.Quantity,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toInventoryTransactionResponse(t database.InventoryTransaction) inventoryTransactionResponse {
	return inventoryTransactionResponse{
		ID:              t.ID,
		CardID:          t.CardID,
		TransactionType: t.TransactionType,
		QuantityChanged: t.QuantityChanged,
		CostPrice:       numericToString(t.CostPrice),
		OrderItemID:     uuidPtr(t.OrderItemID),
		PerformedBy:     uuidPtr(t.PerformedBy),
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}

// --- Handlers ---

// Create adds a card; any opening quantity is booked as a purchase.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	card, err := h.svc.CreateCard(r.Context(), service.CreateCardRequest{
		StaffID:     middleware.StaffIDFromContext(r.Context()),
		VendorID:    req.VendorID,
		Barcode:     req.Barcode,
		SellPrice:   req.SellPrice,
		CostPrice:   req.CostPrice,
		MaxDiscount: req.MaxDiscount,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeServiceError(w, err, "create card")
		return
	}
	writeJSON(w, http.StatusCreated, toCardResponse(*card))
}

// Update changes a card's vendor or prices. Quantity is not editable here.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "card ID")
	if !ok {
		return
	}
	var req updateCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	card, err := h.svc.UpdateCard(r.Context(), service.UpdateCardRequest{
		StaffID:     middleware.StaffIDFromContext(r.Context()),
		CardID:      id,
		VendorID:    req.VendorID,
		SellPrice:   req.SellPrice,
		CostPrice:   req.CostPrice,
		MaxDiscount: req.MaxDiscount,
	})
	if err != nil {
		writeServiceError(w, err, "update card")
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(*card))
}

// Deactivate retires a card. It drops out of reads and can no longer be sold.
func (h *CardHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "card ID")
	if !ok {
		return
	}
	if err := h.svc.DeactivateCard(r.Context(), middleware.StaffIDFromContext(r.Context()), id); err != nil {
		writeServiceError(w, err, "deactivate card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List returns active cards.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	cards, err := h.svc.ListCards(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, "list cards")
		return
	}

	resp := make([]cardResponse, len(cards))
	for i, c := range cards {
		resp[i] = toCardResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single card.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "card ID")
	if !ok {
		return
	}
	card, err := h.svc.GetCard(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get card")
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(*card))
}

// Purchase books stock received from the vendor.
func (h *CardHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	h.moveStock(w, r, h.svc.PurchaseStock, "purchase stock")
}

// Damage writes off damaged stock.
func (h *CardHandler) Damage(w http.ResponseWriter, r *http.Request) {
	h.moveStock(w, r, h.svc.RecordDamage, "record damage")
}

func (h *CardHandler) moveStock(w http.ResponseWriter, r *http.Request, move func(context.Context, service.StockRequest) (*database.Card, error), op string) {
	id, ok := urlID(w, r, "id", "card ID")
	if !ok {
		return
	}
	var req stockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	card, err := move(r.Context(), service.StockRequest{
		StaffID:  middleware.StaffIDFromContext(r.Context()),
		CardID:   id,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		writeServiceError(w, err, op)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(*card))
}

// Transactions returns the card's inventory ledger, oldest first.
func (h *CardHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "card ID")
	if !ok {
		return
	}
	txs, err := h.svc.ListTransactions(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "list inventory transactions")
		return
	}

	resp := make([]inventoryTransactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = toInventoryTransactionResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}
