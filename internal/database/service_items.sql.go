package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const serviceOrderItemColumns = `id, order_id, service_type, quantity, procurement_status, total_cost, total_expense, description, created_at, updated_at`

func scanServiceOrderItem(row interface{ Scan(...interface{}) error }) (ServiceOrderItem, error) {
	var i ServiceOrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ServiceType,
		&i.Quantity,
		&i.ProcurementStatus,
		&i.TotalCost,
		&i.TotalExpense,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createServiceOrderItem = `-- name: CreateServiceOrderItem :one
INSERT INTO service_order_items (order_id, service_type, quantity, procurement_status, total_cost, total_expense, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + serviceOrderItemColumns

type CreateServiceOrderItemParams struct {
	OrderID           uuid.UUID      `json:"order_id"`
	ServiceType       string         `json:"service_type"`
	Quantity          int32          `json:"quantity"`
	ProcurementStatus string         `json:"procurement_status"`
	TotalCost         pgtype.Numeric `json:"total_cost"`
	TotalExpense      pgtype.Numeric `json:"total_expense"`
	Description       string         `json:"description"`
}

func (q *Queries) CreateServiceOrderItem(ctx context.Context, arg CreateServiceOrderItemParams) (ServiceOrderItem, error) {
	row := q.db.QueryRow(ctx, createServiceOrderItem,
		arg.OrderID,
		arg.ServiceType,
		arg.Quantity,
		arg.ProcurementStatus,
		arg.TotalCost,
		arg.TotalExpense,
		arg.Description,
	)
	return scanServiceOrderItem(row)
}

const getServiceOrderItem = `-- name: GetServiceOrderItem :one
SELECT ` + serviceOrderItemColumns + ` FROM service_order_items
WHERE id = $1`

func (q *Queries) GetServiceOrderItem(ctx context.Context, id uuid.UUID) (ServiceOrderItem, error) {
	return scanServiceOrderItem(q.db.QueryRow(ctx, getServiceOrderItem, id))
}

const listServiceOrderItemsByOrder = `-- name: ListServiceOrderItemsByOrder :many
SELECT ` + serviceOrderItemColumns + ` FROM service_order_items
WHERE order_id = $1
ORDER BY created_at, id`

func (q *Queries) ListServiceOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]ServiceOrderItem, error) {
	rows, err := q.db.Query(ctx, listServiceOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ServiceOrderItem{}
	for rows.Next() {
		i, err := scanServiceOrderItem(rows)
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

const updateServiceOrderItem = `-- name: UpdateServiceOrderItem :one
UPDATE service_order_items
SET quantity = $2,
    procurement_status = $3,
    total_cost = $4,
    total_expense = $5,
    description = $6,
    updated_at = now()
WHERE id = $1
RETURNING ` + serviceOrderItemColumns

type UpdateServiceOrderItemParams struct {
	ID                uuid.UUID      `json:"id"`
	Quantity          int32          `json:"quantity"`
	ProcurementStatus string         `json:"procurement_status"`
	TotalCost         pgtype.Numeric `json:"total_cost"`
	TotalExpense      pgtype.Numeric `json:"total_expense"`
	Description       string         `json:"description"`
}

func (q *Queries) UpdateServiceOrderItem(ctx context.Context, arg UpdateServiceOrderItemParams) (ServiceOrderItem, error) {
	row := q.db.QueryRow(ctx, updateServiceOrderItem,
		arg.ID,
		arg.Quantity,
		arg.ProcurementStatus,
		arg.TotalCost,
		arg.TotalExpense,
		arg.Description,
	)
	return scanServiceOrderItem(row)
}

const deleteServiceOrderItem = `-- name: DeleteServiceOrderItem :exec
DELETE FROM service_order_items WHERE id = $1`

func (q *Queries) DeleteServiceOrderItem(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteServiceOrderItem, id)
	return err
}
