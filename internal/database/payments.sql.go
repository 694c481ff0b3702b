package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ── Payments ──

const paymentColumns = `id, bill_id, staff_id, amount, payment_mode, transaction_ref, notes, created_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (Payment, error) {
	var i Payment
	err := row.Scan(
		&i.ID,
		&i.BillID,
		&i.StaffID,
		&i.Amount,
		&i.PaymentMode,
		&i.TransactionRef,
		&i.Notes,
		&i.CreatedAt,
	)
	return i, err
}

const createPayment = `-- name: CreatePayment :one
INSERT INTO payments (bill_id, staff_id, amount, payment_mode, transaction_ref, notes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + paymentColumns

type CreatePaymentParams struct {
	BillID         uuid.UUID      `json:"bill_id"`
	StaffID        uuid.UUID      `json:"staff_id"`
	Amount         pgtype.Numeric `json:"amount"`
	PaymentMode    string         `json:"payment_mode"`
	TransactionRef string         `json:"transaction_ref"`
	Notes          string         `json:"notes"`
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPayment,
		arg.BillID,
		arg.StaffID,
		arg.Amount,
		arg.PaymentMode,
		arg.TransactionRef,
		arg.Notes,
	)
	return scanPayment(row)
}

const listPaymentsByBill = `-- name: ListPaymentsByBill :many
SELECT ` + paymentColumns + ` FROM payments
WHERE bill_id = $1
ORDER BY created_at, id`

func (q *Queries) ListPaymentsByBill(ctx context.Context, billID uuid.UUID) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPaymentsByBill, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Payment{}
	for rows.Next() {
		i, err := scanPayment(rows)
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

const sumPaymentsByBill = `-- name: SumPaymentsByBill :one
SELECT COALESCE(SUM(amount), 0)::numeric FROM payments
WHERE bill_id = $1`

func (q *Queries) SumPaymentsByBill(ctx context.Context, billID uuid.UUID) (pgtype.Numeric, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, sumPaymentsByBill, billID).Scan(&total)
	return total, err
}

const countPaymentsByBill = `-- name: CountPaymentsByBill :one
SELECT count(*) FROM payments
WHERE bill_id = $1`

func (q *Queries) CountPaymentsByBill(ctx context.Context, billID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPaymentsByBill, billID).Scan(&count)
	return count, err
}

// ── Adjustments ──

const billAdjustmentColumns = `id, bill_id, staff_id, adjustment_type, amount, reason, created_at`

func scanBillAdjustment(row interface{ Scan(...interface{}) error }) (BillAdjustment, error) {
	var i BillAdjustment
	err := row.Scan(
		&i.ID,
		&i.BillID,
		&i.StaffID,
		&i.AdjustmentType,
		&i.Amount,
		&i.Reason,
		&i.CreatedAt,
	)
	return i, err
}

const createBillAdjustment = `-- name: CreateBillAdjustment :one
INSERT INTO bill_adjustments (bill_id, staff_id, adjustment_type, amount, reason)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + billAdjustmentColumns

type CreateBillAdjustmentParams struct {
	BillID         uuid.UUID      `json:"bill_id"`
	StaffID        uuid.UUID      `json:"staff_id"`
	AdjustmentType string         `json:"adjustment_type"`
	Amount         pgtype.Numeric `json:"amount"`
	Reason         string         `json:"reason"`
}

func (q *Queries) CreateBillAdjustment(ctx context.Context, arg CreateBillAdjustmentParams) (BillAdjustment, error) {
	row := q.db.QueryRow(ctx, createBillAdjustment,
		arg.BillID,
		arg.StaffID,
		arg.AdjustmentType,
		arg.Amount,
		arg.Reason,
	)
	return scanBillAdjustment(row)
}

const listBillAdjustmentsByBill = `-- name: ListBillAdjustmentsByBill :many
SELECT ` + billAdjustmentColumns + ` FROM bill_adjustments
WHERE bill_id = $1
ORDER BY created_at, id`

func (q *Queries) ListBillAdjustmentsByBill(ctx context.Context, billID uuid.UUID) ([]BillAdjustment, error) {
	rows, err := q.db.Query(ctx, listBillAdjustmentsByBill, billID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BillAdjustment{}
	for rows.Next() {
		i, err := scanBillAdjustment(rows)
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

const sumAdjustmentsByBill = `-- name: SumAdjustmentsByBill :one
SELECT COALESCE(SUM(amount), 0)::numeric FROM bill_adjustments
WHERE bill_id = $1`

func (q *Queries) SumAdjustmentsByBill(ctx context.Context, billID uuid.UUID) (pgtype.Numeric, error) {
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, sumAdjustmentsByBill, billID).Scan(&total)
	return total, err
}

const countAdjustmentsByBill = `-- name: CountAdjustmentsByBill :one
SELECT count(*) FROM bill_adjustments
WHERE bill_id = $1`

func (q *Queries) CountAdjustmentsByBill(ctx context.Context, billID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countAdjustmentsByBill, billID).Scan(&count)
	return count, err
}
