package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProviderStore defines the database methods needed by provider handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProviderStore interface {
	CreateVendor(ctx context.Context, arg database.CreateProviderParams) (database.Provider, error)
	ListVendors(ctx context.Context) ([]database.Provider, error)
	CreatePrinter(ctx context.Context, arg database.CreateProviderParams) (database.Provider, error)
	ListPrinters(ctx context.Context) ([]database.Provider, error)
	CreateTracingStudio(ctx context.Context, arg database.CreateProviderParams) (database.Provider, error)
	ListTracingStudios(ctx context.Context) ([]database.Provider, error)
	CreateBoxMaker(ctx context.Context, arg database.CreateProviderParams) (database.Provider, error)
	ListBoxMakers(ctx context.Context) ([]database.Provider, error)
}

// ProviderHandler handles vendor and production provider endpoints. All four
// kinds share one row shape.
type ProviderHandler struct {
	store ProviderStore
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(store ProviderStore) *ProviderHandler {
	return &ProviderHandler{store: store}
}

type providerKind struct {
	label  string
	create func(context.Context, database.CreateProviderParams) (database.Provider, error)
	list   func(context.Context) ([]database.Provider, error)
}

// RegisterRoutes registers provider endpoints on the given Chi router.
func (h *ProviderHandler) RegisterRoutes(r chi.Router) {
	kinds := map[string]providerKind{
		"/vendors":         {"vendor", h.store.CreateVendor, h.store.ListVendors},
		"/printers":        {"printer", h.store.CreatePrinter, h.store.ListPrinters},
		"/tracing-studios": {"tracing studio", h.store.CreateTracingStudio, h.store.ListTracingStudios},
		"/box-makers":      {"box maker", h.store.CreateBoxMaker, h.store.ListBoxMakers},
	}
	for path, kind := range kinds {
		r.Route(path, func(r chi.Router) {
			r.Get("/", h.list(kind))
			r.Post("/", h.create(kind))
		})
	}
}

// --- Request / Response types ---

type createProviderRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"omitempty,min=7,max=15"`
}

type providerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toProviderResponse(p database.Provider) providerResponse {
	return providerResponse{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

// --- Handlers ---

func (h *ProviderHandler) list(kind providerKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providers, err := kind.list(r.Context())
		if err != nil {
			log.Error().Err(err).Str("kind", kind.label).Msg("list providers")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}

		resp := make([]providerResponse, len(providers))
		for i, p := range providers {
			resp[i] = toProviderResponse(p)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *ProviderHandler) create(kind providerKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProviderRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p, err := kind.create(r.Context(), database.CreateProviderParams{Name: req.Name, Phone: req.Phone})
		if err != nil {
			log.Error().Err(err).Str("kind", kind.label).Msg("create provider")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		writeJSON(w, http.StatusCreated, toProviderResponse(p))
	}
}
