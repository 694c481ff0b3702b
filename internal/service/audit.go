package service

import (
	"context"
	"encoding/json"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuditEntry describes one mutation, emitted after its transaction commits.
type AuditEntry struct {
	StaffID    uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Details    map[string]interface{}
}

// AuditLogger records committed mutations. Implementations must not fail the
// caller; the mutation has already happened.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditStore is satisfied by *database.Queries.
type AuditStore interface {
	CreateAuditLog(ctx context.Context, arg database.CreateAuditLogParams) (database.AuditLog, error)
}

// DBAuditLogger writes audit entries to the audit_logs table.
type DBAuditLogger struct {
	store AuditStore
}

func NewAuditLogger(store AuditStore) *DBAuditLogger {
	return &DBAuditLogger{store: store}
}

func (a *DBAuditLogger) Record(ctx context.Context, e AuditEntry) {
	details := []byte("{}")
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			log.Error().Err(err).Str("entity_type", e.EntityType).Msg("marshal audit details")
		} else {
			details = b
		}
	}

	staffID := pgUUID(e.StaffID)
	if e.StaffID == uuid.Nil {
		staffID.Valid = false
	}

	_, err := a.store.CreateAuditLog(ctx, database.CreateAuditLogParams{
		StaffID:    staffID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    details,
	})
	if err != nil {
		log.Error().Err(err).
			Str("action", e.Action).
			Str("entity_type", e.EntityType).
			Str("entity_id", e.EntityID.String()).
			Msg("write audit log")
	}
}

type nopAuditLogger struct{}

func (nopAuditLogger) Record(context.Context, AuditEntry) {}

func auditOrNop(a AuditLogger) AuditLogger {
	if a == nil {
		return nopAuditLogger{}
	}
	return a
}
