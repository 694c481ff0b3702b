package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
)

// AuditStore defines the database methods needed by the audit log reader.
// Satisfied by *database.Queries.
type AuditStore interface {
	ListAuditLogs(ctx context.Context, arg database.ListAuditLogsParams) ([]database.AuditLog, error)
}

// AuditHandler serves the audit trail written by the services.
type AuditHandler struct {
	store AuditStore
}

func NewAuditHandler(store AuditStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// RegisterRoutes registers the read endpoint.
// Expected to be mounted at /audit-logs behind the ADMIN role gate.
func (h *AuditHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

type auditLogResponse struct {
	ID         uuid.UUID       `json:"id"`
	StaffID    *uuid.UUID      `json:"staff_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toAuditLogResponse(l database.AuditLog) auditLogResponse {
	details := json.RawMessage(l.Details)
	if len(details) == 0 {
		details = json.RawMessage("{}")
	}
	return auditLogResponse{
		ID:         l.ID,
		StaffID:    uuidPtr(l.StaffID),
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    details,
		CreatedAt:  l.CreatedAt,
	}
}

// List returns audit rows newest first, optionally filtered by entity_type,
// entity_id and staff_id.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagination(r)
	params := database.ListAuditLogsParams{Limit: limit, Offset: offset}

	if s := q.Get("entity_type"); s != "" {
		params.EntityType = &s
	}
	for name, dst := range map[string]*pgtype.UUID{"entity_id": &params.EntityID, "staff_id": &params.StaffID} {
		s := q.Get(name)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
			return
		}
		*dst = pgtype.UUID{Bytes: id, Valid: true}
	}

	logs, err := h.store.ListAuditLogs(r.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("list audit logs")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]auditLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = toAuditLogResponse(l)
	}
	writeJSON(w, http.StatusOK, resp)
}
