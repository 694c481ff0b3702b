package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, customer_id, staff_id, name, order_date, delivery_date, order_status, special_instruction, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.StaffID,
		&i.Name,
		&i.OrderDate,
		&i.DeliveryDate,
		&i.OrderStatus,
		&i.SpecialInstruction,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryOrders(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
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

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (customer_id, staff_id, name, order_date, delivery_date, order_status, special_instruction)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	CustomerID         uuid.UUID `json:"customer_id"`
	StaffID            uuid.UUID `json:"staff_id"`
	Name               string    `json:"name"`
	OrderDate          time.Time `json:"order_date"`
	DeliveryDate       time.Time `json:"delivery_date"`
	OrderStatus        string    `json:"order_status"`
	SpecialInstruction string    `json:"special_instruction"`
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.CustomerID,
		arg.StaffID,
		arg.Name,
		arg.OrderDate,
		arg.DeliveryDate,
		arg.OrderStatus,
		arg.SpecialInstruction,
	)
	return scanOrder(row)
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + ` FROM orders
WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getOrderForUpdate = `-- name: GetOrderForUpdate :one
SELECT ` + orderColumns + ` FROM orders
WHERE id = $1
FOR NO KEY UPDATE`

// GetOrderForUpdate locks the order row. Edits, production updates and
// payments on the same order serialize on this lock.
func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUpdate, id))
}

const updateOrderDetails = `-- name: UpdateOrderDetails :one
UPDATE orders
SET name = $2, delivery_date = $3, special_instruction = $4, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderDetailsParams struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	DeliveryDate       time.Time `json:"delivery_date"`
	SpecialInstruction string    `json:"special_instruction"`
}

func (q *Queries) UpdateOrderDetails(ctx context.Context, arg UpdateOrderDetailsParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderDetails, arg.ID, arg.Name, arg.DeliveryDate, arg.SpecialInstruction))
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET order_status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID          uuid.UUID `json:"id"`
	OrderStatus string    `json:"order_status"`
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.OrderStatus))
}

const deleteOrder = `-- name: DeleteOrder :exec
DELETE FROM orders WHERE id = $1`

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteOrder, id)
	return err
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + ` FROM orders
WHERE ($1::uuid IS NULL OR customer_id = $1)
  AND ($2::timestamptz IS NULL OR order_date >= $2)
  AND ($3::timestamptz IS NULL OR order_date < $3)
ORDER BY order_date DESC, id
LIMIT $4 OFFSET $5`

type ListOrdersParams struct {
	CustomerID pgtype.UUID        `json:"customer_id"`
	StartDate  pgtype.Timestamptz `json:"start_date"`
	EndDate    pgtype.Timestamptz `json:"end_date"`
	Limit      int32              `json:"limit"`
	Offset     int32              `json:"offset"`
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	return q.queryOrders(ctx, listOrders, arg.CustomerID, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
}

const listOrdersByDateRange = `-- name: ListOrdersByDateRange :many
SELECT ` + orderColumns + ` FROM orders
WHERE order_date >= $1 AND order_date < $2
ORDER BY order_date, id`

type DateRangeParams struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ListOrdersByDateRange returns orders with order_date in [Start, End).
func (q *Queries) ListOrdersByDateRange(ctx context.Context, arg DateRangeParams) ([]Order, error) {
	return q.queryOrders(ctx, listOrdersByDateRange, arg.Start, arg.End)
}

const countOrdersByDateRange = `-- name: CountOrdersByDateRange :one
SELECT count(*) FROM orders
WHERE order_date >= $1 AND order_date < $2`

func (q *Queries) CountOrdersByDateRange(ctx context.Context, arg DateRangeParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countOrdersByDateRange, arg.Start, arg.End).Scan(&count)
	return count, err
}

const countPendingOrders = `-- name: CountPendingOrders :one
SELECT count(*) FROM orders
WHERE order_status NOT IN ('DELIVERED', 'FULLY_PAID')`

func (q *Queries) CountPendingOrders(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPendingOrders).Scan(&count)
	return count, err
}

const listPendingOrders = `-- name: ListPendingOrders :many
SELECT ` + orderColumns + ` FROM orders
WHERE order_status NOT IN ('DELIVERED', 'FULLY_PAID')
ORDER BY delivery_date, id`

// ListPendingOrders returns open orders, soonest delivery first.
func (q *Queries) ListPendingOrders(ctx context.Context) ([]Order, error) {
	return q.queryOrders(ctx, listPendingOrders)
}
