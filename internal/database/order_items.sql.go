package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderItemColumns = `id, order_id, card_id, quantity, price_per_item, discount_amount, requires_box, requires_printing, created_at, updated_at`

func scanOrderItem(row interface{ Scan(...interface{}) error }) (OrderItem, error) {
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.CardID,
		&i.Quantity,
		&i.PricePerItem,
		&i.DiscountAmount,
		&i.RequiresBox,
		&i.RequiresPrinting,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createOrderItem = `-- name: CreateOrderItem :one
INSERT INTO order_items (order_id, card_id, quantity, price_per_item, discount_amount, requires_box, requires_printing)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + orderItemColumns

type CreateOrderItemParams struct {
	OrderID          uuid.UUID      `json:"order_id"`
	CardID           uuid.UUID      `json:"card_id"`
	Quantity         int32          `json:"quantity"`
	PricePerItem     pgtype.Numeric `json:"price_per_item"`
	DiscountAmount   pgtype.Numeric `json:"discount_amount"`
	RequiresBox      bool           `json:"requires_box"`
	RequiresPrinting bool           `json:"requires_printing"`
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.CardID,
		arg.Quantity,
		arg.PricePerItem,
		arg.DiscountAmount,
		arg.RequiresBox,
		arg.RequiresPrinting,
	)
	return scanOrderItem(row)
}

const getOrderItem = `-- name: GetOrderItem :one
SELECT ` + orderItemColumns + ` FROM order_items
WHERE id = $1`

func (q *Queries) GetOrderItem(ctx context.Context, id uuid.UUID) (OrderItem, error) {
	return scanOrderItem(q.db.QueryRow(ctx, getOrderItem, id))
}

const listOrderItemsByOrder = `-- name: ListOrderItemsByOrder :many
SELECT ` + orderItemColumns + ` FROM order_items
WHERE order_id = $1
ORDER BY created_at, id`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		i, err := scanOrderItem(rows)
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

const updateOrderItem = `-- name: UpdateOrderItem :one
UPDATE order_items
SET quantity = $2, discount_amount = $3, requires_box = $4, requires_printing = $5, updated_at = now()
WHERE id = $1
RETURNING ` + orderItemColumns

type UpdateOrderItemParams struct {
	ID               uuid.UUID      `json:"id"`
	Quantity         int32          `json:"quantity"`
	DiscountAmount   pgtype.Numeric `json:"discount_amount"`
	RequiresBox      bool           `json:"requires_box"`
	RequiresPrinting bool           `json:"requires_printing"`
}

func (q *Queries) UpdateOrderItem(ctx context.Context, arg UpdateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, updateOrderItem,
		arg.ID,
		arg.Quantity,
		arg.DiscountAmount,
		arg.RequiresBox,
		arg.RequiresPrinting,
	)
	return scanOrderItem(row)
}

const deleteOrderItem = `-- name: DeleteOrderItem :exec
DELETE FROM order_items WHERE id = $1`

// DeleteOrderItem cascades to the item's printing jobs and box orders.
func (q *Queries) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteOrderItem, id)
	return err
}
