package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ── Printing jobs ──

const printingJobColumns = `id, order_item_id, printer_id, tracing_studio_id, print_quantity, total_printing_cost, total_printing_expense, total_tracing_expense, printing_status, estimated_completion, created_at, updated_at`

func scanPrintingJob(row interface{ Scan(...interface{}) error }) (PrintingJob, error) {
	var i PrintingJob
	err := row.Scan(
		&i.ID,
		&i.OrderItemID,
		&i.PrinterID,
		&i.TracingStudioID,
		&i.PrintQuantity,
		&i.TotalPrintingCost,
		&i.TotalPrintingExpense,
		&i.TotalTracingExpense,
		&i.PrintingStatus,
		&i.EstimatedCompletion,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryPrintingJobs(ctx context.Context, query string, args ...interface{}) ([]PrintingJob, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PrintingJob{}
	for rows.Next() {
		i, err := scanPrintingJob(rows)
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

const createPrintingJob = `-- name: CreatePrintingJob :one
INSERT INTO printing_jobs (order_item_id, printer_id, tracing_studio_id, print_quantity, total_printing_cost, printing_status, estimated_completion)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + printingJobColumns

type CreatePrintingJobParams struct {
	OrderItemID         uuid.UUID          `json:"order_item_id"`
	PrinterID           pgtype.UUID        `json:"printer_id"`
	TracingStudioID     pgtype.UUID        `json:"tracing_studio_id"`
	PrintQuantity       int32              `json:"print_quantity"`
	TotalPrintingCost   pgtype.Numeric     `json:"total_printing_cost"`
	PrintingStatus      string             `json:"printing_status"`
	EstimatedCompletion pgtype.Timestamptz `json:"estimated_completion"`
}

func (q *Queries) CreatePrintingJob(ctx context.Context, arg CreatePrintingJobParams) (PrintingJob, error) {
	row := q.db.QueryRow(ctx, createPrintingJob,
		arg.OrderItemID,
		arg.PrinterID,
		arg.TracingStudioID,
		arg.PrintQuantity,
		arg.TotalPrintingCost,
		arg.PrintingStatus,
		arg.EstimatedCompletion,
	)
	return scanPrintingJob(row)
}

const getPrintingJob = `-- name: GetPrintingJob :one
SELECT ` + printingJobColumns + ` FROM printing_jobs
WHERE id = $1`

func (q *Queries) GetPrintingJob(ctx context.Context, id uuid.UUID) (PrintingJob, error) {
	return scanPrintingJob(q.db.QueryRow(ctx, getPrintingJob, id))
}

const getPrintingJobForUpdate = `-- name: GetPrintingJobForUpdate :one
SELECT ` + printingJobColumns + ` FROM printing_jobs
WHERE id = $1
FOR UPDATE`

func (q *Queries) GetPrintingJobForUpdate(ctx context.Context, id uuid.UUID) (PrintingJob, error) {
	return scanPrintingJob(q.db.QueryRow(ctx, getPrintingJobForUpdate, id))
}

const listPrintingJobsByOrderItem = `-- name: ListPrintingJobsByOrderItem :many
SELECT ` + printingJobColumns + ` FROM printing_jobs
WHERE order_item_id = $1
ORDER BY created_at, id`

func (q *Queries) ListPrintingJobsByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]PrintingJob, error) {
	return q.queryPrintingJobs(ctx, listPrintingJobsByOrderItem, orderItemID)
}

const listPrintingJobsByOrder = `-- name: ListPrintingJobsByOrder :many
SELECT pj.id, pj.order_item_id, pj.printer_id, pj.tracing_studio_id, pj.print_quantity,
       pj.total_printing_cost, pj.total_printing_expense, pj.total_tracing_expense,
       pj.printing_status, pj.estimated_completion, pj.created_at, pj.updated_at
FROM printing_jobs pj
JOIN order_items oi ON oi.id = pj.order_item_id
WHERE oi.order_id = $1
ORDER BY pj.created_at, pj.id`

func (q *Queries) ListPrintingJobsByOrder(ctx context.Context, orderID uuid.UUID) ([]PrintingJob, error) {
	return q.queryPrintingJobs(ctx, listPrintingJobsByOrder, orderID)
}

const updatePrintingJob = `-- name: UpdatePrintingJob :one
UPDATE printing_jobs
SET printer_id = $2,
    tracing_studio_id = $3,
    print_quantity = $4,
    total_printing_cost = $5,
    total_printing_expense = $6,
    total_tracing_expense = $7,
    printing_status = $8,
    estimated_completion = $9,
    updated_at = now()
WHERE id = $1
RETURNING ` + printingJobColumns

type UpdatePrintingJobParams struct {
	ID                   uuid.UUID          `json:"id"`
	PrinterID            pgtype.UUID        `json:"printer_id"`
	TracingStudioID      pgtype.UUID        `json:"tracing_studio_id"`
	PrintQuantity        int32              `json:"print_quantity"`
	TotalPrintingCost    pgtype.Numeric     `json:"total_printing_cost"`
	TotalPrintingExpense pgtype.Numeric     `json:"total_printing_expense"`
	TotalTracingExpense  pgtype.Numeric     `json:"total_tracing_expense"`
	PrintingStatus       string             `json:"printing_status"`
	EstimatedCompletion  pgtype.Timestamptz `json:"estimated_completion"`
}

func (q *Queries) UpdatePrintingJob(ctx context.Context, arg UpdatePrintingJobParams) (PrintingJob, error) {
	row := q.db.QueryRow(ctx, updatePrintingJob,
		arg.ID,
		arg.PrinterID,
		arg.TracingStudioID,
		arg.PrintQuantity,
		arg.TotalPrintingCost,
		arg.TotalPrintingExpense,
		arg.TotalTracingExpense,
		arg.PrintingStatus,
		arg.EstimatedCompletion,
	)
	return scanPrintingJob(row)
}

const deletePrintingJobsByOrderItem = `-- name: DeletePrintingJobsByOrderItem :exec
DELETE FROM printing_jobs WHERE order_item_id = $1`

func (q *Queries) DeletePrintingJobsByOrderItem(ctx context.Context, orderItemID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deletePrintingJobsByOrderItem, orderItemID)
	return err
}

const countPendingPrintingJobs = `-- name: CountPendingPrintingJobs :one
SELECT count(*) FROM printing_jobs
WHERE printing_status <> 'COMPLETED'`

func (q *Queries) CountPendingPrintingJobs(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPendingPrintingJobs).Scan(&count)
	return count, err
}

const listPendingPrintingJobs = `-- name: ListPendingPrintingJobs :many
SELECT ` + printingJobColumns + ` FROM printing_jobs
WHERE printing_status <> 'COMPLETED'
ORDER BY estimated_completion NULLS LAST, created_at, id`

func (q *Queries) ListPendingPrintingJobs(ctx context.Context) ([]PrintingJob, error) {
	return q.queryPrintingJobs(ctx, listPendingPrintingJobs)
}

// ── Box orders ──

const boxOrderColumns = `id, order_item_id, box_maker_id, box_type, box_quantity, total_box_cost, total_box_expense, box_status, estimated_completion, created_at, updated_at`

func scanBoxOrder(row interface{ Scan(...interface{}) error }) (BoxOrder, error) {
	var i BoxOrder
	err := row.Scan(
		&i.ID,
		&i.OrderItemID,
		&i.BoxMakerID,
		&i.BoxType,
		&i.BoxQuantity,
		&i.TotalBoxCost,
		&i.TotalBoxExpense,
		&i.BoxStatus,
		&i.EstimatedCompletion,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryBoxOrders(ctx context.Context, query string, args ...interface{}) ([]BoxOrder, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BoxOrder{}
	for rows.Next() {
		i, err := scanBoxOrder(rows)
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

const createBoxOrder = `-- name: CreateBoxOrder :one
INSERT INTO box_orders (order_item_id, box_maker_id, box_type, box_quantity, total_box_cost, box_status, estimated_completion)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + boxOrderColumns

type CreateBoxOrderParams struct {
	OrderItemID         uuid.UUID          `json:"order_item_id"`
	BoxMakerID          pgtype.UUID        `json:"box_maker_id"`
	BoxType             string             `json:"box_type"`
	BoxQuantity         int32              `json:"box_quantity"`
	TotalBoxCost        pgtype.Numeric     `json:"total_box_cost"`
	BoxStatus           string             `json:"box_status"`
	EstimatedCompletion pgtype.Timestamptz `json:"estimated_completion"`
}

func (q *Queries) CreateBoxOrder(ctx context.Context, arg CreateBoxOrderParams) (BoxOrder, error) {
	row := q.db.QueryRow(ctx, createBoxOrder,
		arg.OrderItemID,
		arg.BoxMakerID,
		arg.BoxType,
		arg.BoxQuantity,
		arg.TotalBoxCost,
		arg.BoxStatus,
		arg.EstimatedCompletion,
	)
	return scanBoxOrder(row)
}

const getBoxOrder = `-- name: GetBoxOrder :one
SELECT ` + boxOrderColumns + ` FROM box_orders
WHERE id = $1`

func (q *Queries) GetBoxOrder(ctx context.Context, id uuid.UUID) (BoxOrder, error) {
	return scanBoxOrder(q.db.QueryRow(ctx, getBoxOrder, id))
}

const getBoxOrderForUpdate = `-- name: GetBoxOrderForUpdate :one
SELECT ` + boxOrderColumns + ` FROM box_orders
WHERE id = $1
FOR UPDATE`

func (q *Queries) GetBoxOrderForUpdate(ctx context.Context, id uuid.UUID) (BoxOrder, error) {
	return scanBoxOrder(q.db.QueryRow(ctx, getBoxOrderForUpdate, id))
}

const listBoxOrdersByOrderItem = `-- name: ListBoxOrdersByOrderItem :many
SELECT ` + boxOrderColumns + ` FROM box_orders
WHERE order_item_id = $1
ORDER BY created_at, id`

func (q *Queries) ListBoxOrdersByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]BoxOrder, error) {
	return q.queryBoxOrders(ctx, listBoxOrdersByOrderItem, orderItemID)
}

const listBoxOrdersByOrder = `-- name: ListBoxOrdersByOrder :many
SELECT bo.id, bo.order_item_id, bo.box_maker_id, bo.box_type, bo.box_quantity,
       bo.total_box_cost, bo.total_box_expense, bo.box_status, bo.estimated_completion,
       bo.created_at, bo.updated_at
FROM box_orders bo
JOIN order_items oi ON oi.id = bo.order_item_id
WHERE oi.order_id = $1
ORDER BY bo.created_at, bo.id`

func (q *Queries) ListBoxOrdersByOrder(ctx context.Context, orderID uuid.UUID) ([]BoxOrder, error) {
	return q.queryBoxOrders(ctx, listBoxOrdersByOrder, orderID)
}

const updateBoxOrder = `-- name: UpdateBoxOrder :one
UPDATE box_orders
SET box_maker_id = $2,
    box_type = $3,
    box_quantity = $4,
    total_box_cost = $5,
    total_box_expense = $6,
    box_status = $7,
    estimated_completion = $8,
    updated_at = now()
WHERE id = $1
RETURNING ` + boxOrderColumns

type UpdateBoxOrderParams struct {
	ID                  uuid.UUID          `json:"id"`
	BoxMakerID          pgtype.UUID        `json:"box_maker_id"`
	BoxType             string             `json:"box_type"`
	BoxQuantity         int32              `json:"box_quantity"`
	TotalBoxCost        pgtype.Numeric     `json:"total_box_cost"`
	TotalBoxExpense     pgtype.Numeric     `json:"total_box_expense"`
	BoxStatus           string             `json:"box_status"`
	EstimatedCompletion pgtype.Timestamptz `json:"estimated_completion"`
}

func (q *Queries) UpdateBoxOrder(ctx context.Context, arg UpdateBoxOrderParams) (BoxOrder, error) {
	row := q.db.QueryRow(ctx, updateBoxOrder,
		arg.ID,
		arg.BoxMakerID,
		arg.BoxType,
		arg.BoxQuantity,
		arg.TotalBoxCost,
		arg.TotalBoxExpense,
		arg.BoxStatus,
		arg.EstimatedCompletion,
	)
	return scanBoxOrder(row)
}

const deleteBoxOrdersByOrderItem = `-- name: DeleteBoxOrdersByOrderItem :exec
DELETE FROM box_orders WHERE order_item_id = $1`

func (q *Queries) DeleteBoxOrdersByOrderItem(ctx context.Context, orderItemID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteBoxOrdersByOrderItem, orderItemID)
	return err
}

const countPendingBoxOrders = `-- name: CountPendingBoxOrders :one
SELECT count(*) FROM box_orders
WHERE box_status <> 'COMPLETED'`

func (q *Queries) CountPendingBoxOrders(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countPendingBoxOrders).Scan(&count)
	return count, err
}

const listPendingBoxOrders = `-- name: ListPendingBoxOrders :many
SELECT ` + boxOrderColumns + ` FROM box_orders
WHERE box_status <> 'COMPLETED'
ORDER BY estimated_completion NULLS LAST, created_at, id`

func (q *Queries) ListPendingBoxOrders(ctx context.Context) ([]BoxOrder, error) {
	return q.queryBoxOrders(ctx, listPendingBoxOrders)
}
