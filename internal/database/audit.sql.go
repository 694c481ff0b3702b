package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const auditLogColumns = `id, staff_id, action, entity_type, entity_id, details, created_at`

func scanAuditLog(row interface{ Scan(...interface{}) error }) (AuditLog, error) {
	var i AuditLog
	err := row.Scan(
		&i.ID,
		&i.StaffID,
		&i.Action,
		&i.EntityType,
		&i.EntityID,
		&i.Details,
		&i.CreatedAt,
	)
	return i, err
}

const createAuditLog = `-- name: CreateAuditLog :one
INSERT INTO audit_logs (staff_id, action, entity_type, entity_id, details)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + auditLogColumns

type CreateAuditLogParams struct {
	StaffID    pgtype.UUID `json:"staff_id"`
	Action     string      `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   uuid.UUID   `json:"entity_id"`
	Details    []byte      `json:"details"`
}

func (q *Queries) CreateAuditLog(ctx context.Context, arg CreateAuditLogParams) (AuditLog, error) {
	row := q.db.QueryRow(ctx, createAuditLog,
		arg.StaffID,
		arg.Action,
		arg.EntityType,
		arg.EntityID,
		arg.Details,
	)
	return scanAuditLog(row)
}

const listAuditLogs = `-- name: ListAuditLogs :many
SELECT ` + auditLogColumns + ` FROM audit_logs
WHERE ($1::text IS NULL OR entity_type = $1)
  AND ($2::uuid IS NULL OR entity_id = $2)
  AND ($3::uuid IS NULL OR staff_id = $3)
ORDER BY created_at DESC, id
LIMIT $4 OFFSET $5`

type ListAuditLogsParams struct {
	EntityType *string     `json:"entity_type"`
	EntityID   pgtype.UUID `json:"entity_id"`
	StaffID    pgtype.UUID `json:"staff_id"`
	Limit      int32       `json:"limit"`
	Offset     int32       `json:"offset"`
}

// ListAuditLogs returns audit rows newest first. Nil filters match everything.
func (q *Queries) ListAuditLogs(ctx context.Context, arg ListAuditLogsParams) ([]AuditLog, error) {
	rows, err := q.db.Query(ctx, listAuditLogs, arg.EntityType, arg.EntityID, arg.StaffID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []AuditLog{}
	for rows.Next() {
		i, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
