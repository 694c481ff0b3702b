package database

import (
	"context"

	"github.com/google/uuid"
)

const customerColumns = `id, name, phone, is_active, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (Customer, error) {
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Phone,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createCustomer = `-- name: CreateCustomer :one
INSERT INTO customers (name, phone)
VALUES ($1, $2)
RETURNING ` + customerColumns

type CreateCustomerParams struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, createCustomer, arg.Name, arg.Phone))
}

const getCustomer = `-- name: GetCustomer :one
SELECT ` + customerColumns + ` FROM customers
WHERE id = $1 AND is_active = true`

func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomer, id))
}

const getCustomerByPhone = `-- name: GetCustomerByPhone :one
SELECT ` + customerColumns + ` FROM customers
WHERE phone = $1 AND is_active = true`

func (q *Queries) GetCustomerByPhone(ctx context.Context, phone string) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomerByPhone, phone))
}

const listCustomers = `-- name: ListCustomers :many
SELECT ` + customerColumns + ` FROM customers
WHERE is_active = true
  AND ($1::text IS NULL OR name ILIKE '%' || $1 || '%' OR phone LIKE $1 || '%')
ORDER BY name
LIMIT $2 OFFSET $3`

type ListCustomersParams struct {
	Search *string `json:"search"`
	Limit  int32   `json:"limit"`
	Offset int32   `json:"offset"`
}

func (q *Queries) ListCustomers(ctx context.Context, arg ListCustomersParams) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomers, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Customer{}
	for rows.Next() {
		i, err := scanCustomer(rows)
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
