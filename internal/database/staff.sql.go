package database

import (
	"context"

	"github.com/google/uuid"
)

const staffColumns = `id, name, phone, password_hash, role, is_active, created_at, updated_at`

func scanStaff(row interface{ Scan(...interface{}) error }) (Staff, error) {
	var i Staff
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Phone,
		&i.PasswordHash,
		&i.Role,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createStaff = `-- name: CreateStaff :one
INSERT INTO staff (name, phone, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING ` + staffColumns

type CreateStaffParams struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
}

func (q *Queries) CreateStaff(ctx context.Context, arg CreateStaffParams) (Staff, error) {
	row := q.db.QueryRow(ctx, createStaff, arg.Name, arg.Phone, arg.PasswordHash, arg.Role)
	return scanStaff(row)
}

const getStaffByID = `-- name: GetStaffByID :one
SELECT ` + staffColumns + ` FROM staff
WHERE id = $1 AND is_active = true`

func (q *Queries) GetStaffByID(ctx context.Context, id uuid.UUID) (Staff, error) {
	return scanStaff(q.db.QueryRow(ctx, getStaffByID, id))
}

const getStaffByPhone = `-- name: GetStaffByPhone :one
SELECT ` + staffColumns + ` FROM staff
WHERE phone = $1 AND is_active = true`

func (q *Queries) GetStaffByPhone(ctx context.Context, phone string) (Staff, error) {
	return scanStaff(q.db.QueryRow(ctx, getStaffByPhone, phone))
}

const listStaff = `-- name: ListStaff :many
SELECT ` + staffColumns + ` FROM staff
WHERE is_active = true
ORDER BY name`

func (q *Queries) ListStaff(ctx context.Context) ([]Staff, error) {
	rows, err := q.db.Query(ctx, listStaff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Staff{}
	for rows.Next() {
		i, err := scanStaff(rows)
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

const deactivateStaff = `-- name: DeactivateStaff :one
UPDATE staff SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING ` + staffColumns

func (q *Queries) DeactivateStaff(ctx context.Context, id uuid.UUID) (Staff, error) {
	return scanStaff(q.db.QueryRow(ctx, deactivateStaff, id))
}
