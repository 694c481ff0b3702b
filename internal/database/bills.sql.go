package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const billColumns = `id, order_id, tax_percentage, payment_status, created_at, updated_at`

func scanBill(row interface{ Scan(...interface{}) error }) (Bill, error) {
	var i Bill
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.TaxPercentage,
		&i.PaymentStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBill = `-- name: CreateBill :one
INSERT INTO bills (order_id, tax_percentage, payment_status)
VALUES ($1, $2, 'PENDING')
RETURNING ` + billColumns

type CreateBillParams struct {
	OrderID       uuid.UUID      `json:"order_id"`
	TaxPercentage pgtype.Numeric `json:"tax_percentage"`
}

// CreateBill fails with a unique violation on bills_order_id_key when the
// order already has a bill.
func (q *Queries) CreateBill(ctx context.Context, arg CreateBillParams) (Bill, error) {
	return scanBill(q.db.QueryRow(ctx, createBill, arg.OrderID, arg.TaxPercentage))
}

const getBill = `-- name: GetBill :one
SELECT ` + billColumns + ` FROM bills
WHERE id = $1`

func (q *Queries) GetBill(ctx context.Context, id uuid.UUID) (Bill, error) {
	return scanBill(q.db.QueryRow(ctx, getBill, id))
}

const getBillByOrderID = `-- name: GetBillByOrderID :one
SELECT ` + billColumns + ` FROM bills
WHERE order_id = $1`

func (q *Queries) GetBillByOrderID(ctx context.Context, orderID uuid.UUID) (Bill, error) {
	return scanBill(q.db.QueryRow(ctx, getBillByOrderID, orderID))
}

const getBillForUpdate = `-- name: GetBillForUpdate :one
SELECT ` + billColumns + ` FROM bills
WHERE id = $1
FOR NO KEY UPDATE`

func (q *Queries) GetBillForUpdate(ctx context.Context, id uuid.UUID) (Bill, error) {
	return scanBill(q.db.QueryRow(ctx, getBillForUpdate, id))
}

const updateBillPaymentStatus = `-- name: UpdateBillPaymentStatus :one
UPDATE bills SET payment_status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + billColumns

type UpdateBillPaymentStatusParams struct {
	ID            uuid.UUID `json:"id"`
	PaymentStatus string    `json:"payment_status"`
}

func (q *Queries) UpdateBillPaymentStatus(ctx context.Context, arg UpdateBillPaymentStatusParams) (Bill, error) {
	return scanBill(q.db.QueryRow(ctx, updateBillPaymentStatus, arg.ID, arg.PaymentStatus))
}

const listBills = `-- name: ListBills :many
SELECT b.id, b.order_id, b.tax_percentage, b.payment_status, b.created_at, b.updated_at
FROM bills b
JOIN orders o ON o.id = b.order_id
JOIN customers c ON c.id = o.customer_id
WHERE ($1::text IS NULL OR c.phone = $1)
  AND ($2::text IS NULL OR b.payment_status = $2)
ORDER BY b.created_at DESC, b.id
LIMIT $3 OFFSET $4`

type ListBillsParams struct {
	CustomerPhone *string `json:"customer_phone"`
	PaymentStatus *string `json:"payment_status"`
	Limit         int32   `json:"limit"`
	Offset        int32   `json:"offset"`
}

func (q *Queries) ListBills(ctx context.Context, arg ListBillsParams) ([]Bill, error) {
	return q.queryBills(ctx, listBills, arg.CustomerPhone, arg.PaymentStatus, arg.Limit, arg.Offset)
}

func (q *Queries) queryBills(ctx context.Context, query string, args ...interface{}) ([]Bill, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Bill{}
	for rows.Next() {
		i, err := scanBill(rows)
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

const countPendingBills = `-- name: CountPendingBills :one
SELECT count(*) FROM bills
WHERE payment_status IN ('PENDING', 'PARTIAL')`

func (q *Queries) CountPendingBills(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPendingBills).Scan(&count)
	return count, err
}

const listPendingBills = `-- name: ListPendingBills :many
SELECT ` + billColumns + ` FROM bills
WHERE payment_status IN ('PENDING', 'PARTIAL')
ORDER BY created_at, id`

func (q *Queries) ListPendingBills(ctx context.Context) ([]Bill, error) {
	return q.queryBills(ctx, listPendingBills)
}
