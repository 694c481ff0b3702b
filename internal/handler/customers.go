package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// CustomerStore defines the database methods needed by customer handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CustomerStore interface {
	ListCustomers(ctx context.Context, arg database.ListCustomersParams) ([]database.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetCustomerByPhone(ctx context.Context, phone string) (database.Customer, error)
	CreateCustomer(ctx context.Context, arg database.CreateCustomerParams) (database.Customer, error)
}

// CustomerOrderLister lists a customer's orders. Satisfied by *service.OrderService.
type CustomerOrderLister interface {
	ListOrders(ctx context.Context, f service.ListOrdersFilter) ([]database.Order, error)
}

// CustomerHandler handles customer endpoints.
type CustomerHandler struct {
	store  CustomerStore
	orders CustomerOrderLister
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(store CustomerStore, orders CustomerOrderLister) *CustomerHandler {
	return &CustomerHandler{store: store, orders: orders}
}

// RegisterRoutes registers customer endpoints on the given Chi router.
// Expected to be mounted at /customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/phone/{phone}", h.GetByPhone)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Get("/orders", h.Orders)
	})
}

// --- Request / Response types ---

type createCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,min=7,max=15"`
}

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerResponse(c database.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// --- Handlers ---

// List returns active customers, optionally filtered by a name or phone prefix.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	var search *string
	if s := r.URL.Query().Get("search"); s != "" {
		search = &s
	}

	customers, err := h.store.ListCustomers(r.Context(), database.ListCustomersParams{
		Search: search,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		log.Error().Err(err).Msg("list customers")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, c := range customers {
		resp[i] = toCustomerResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single customer by ID.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "customer ID")
	if !ok {
		return
	}
	h.respondCustomer(r.Context(), w, func(ctx context.Context) (database.Customer, error) {
		return h.store.GetCustomer(ctx, id)
	})
}

// GetByPhone looks a customer up by exact phone number.
func (h *CustomerHandler) GetByPhone(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	h.respondCustomer(r.Context(), w, func(ctx context.Context) (database.Customer, error) {
		return h.store.GetCustomerByPhone(ctx, phone)
	})
}

func (h *CustomerHandler) respondCustomer(ctx context.Context, w http.ResponseWriter, get func(context.Context) (database.Customer, error)) {
	customer, err := get(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Error().Err(err).Msg("get customer")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(customer))
}

// Create registers a new customer. Phone numbers are unique.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.store.CreateCustomer(r.Context(), database.CreateCustomerParams{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "phone already registered"})
			return
		}
		log.Error().Err(err).Msg("create customer")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

// Orders returns the customer's orders, newest first.
func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "customer ID")
	if !ok {
		return
	}
	limit, offset := pagination(r)

	orders, err := h.orders.ListOrders(r.Context(), service.ListOrdersFilter{
		CustomerID: &id,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeServiceError(w, err, "list customer orders")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}
