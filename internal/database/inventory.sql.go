package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const inventoryTransactionColumns = `id, card_id, transaction_type, quantity_changed, cost_price, order_item_id, performed_by, notes, created_at`

func scanInventoryTransaction(row interface{ Scan(...interface{}) error }) (InventoryTransaction, error) {
	var i InventoryTransaction
	err := row.Scan(
		&i.ID,
		&i.CardID,
		&i.TransactionType,
		&i.QuantityChanged,
		&i.CostPrice,
		&i.OrderItemID,
		&i.PerformedBy,
		&i.Notes,
		&i.CreatedAt,
	)
	return i, err
}

const createInventoryTransaction = `-- name: CreateInventoryTransaction :one
INSERT INTO inventory_transactions (card_id, transaction_type, quantity_changed, cost_price, order_item_id, performed_by, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + inventoryTransactionColumns

type CreateInventoryTransactionParams struct {
	CardID          uuid.UUID      `json:"card_id"`
	TransactionType string         `json:"transaction_type"`
	QuantityChanged int32          `json:"quantity_changed"`
	CostPrice       pgtype.Numeric `json:"cost_price"`
	OrderItemID     pgtype.UUID    `json:"order_item_id"`
	PerformedBy     pgtype.UUID    `json:"performed_by"`
	Notes           string         `json:"notes"`
}

func (q *Queries) CreateInventoryTransaction(ctx context.Context, arg CreateInventoryTransactionParams) (InventoryTransaction, error) {
	row := q.db.QueryRow(ctx, createInventoryTransaction,
		arg.CardID,
		arg.TransactionType,
		arg.QuantityChanged,
		arg.CostPrice,
		arg.OrderItemID,
		arg.PerformedBy,
		arg.Notes,
	)
	return scanInventoryTransaction(row)
}

const listInventoryTransactionsByCard = `-- name: ListInventoryTransactionsByCard :many
SELECT ` + inventoryTransactionColumns + ` FROM inventory_transactions
WHERE card_id = $1
ORDER BY created_at, id`

func (q *Queries) ListInventoryTransactionsByCard(ctx context.Context, cardID uuid.UUID) ([]InventoryTransaction, error) {
	rows, err := q.db.Query(ctx, listInventoryTransactionsByCard, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []InventoryTransaction{}
	for rows.Next() {
		i, err := scanInventoryTransaction(rows)
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

const getSaleCostForOrderItem = `-- name: GetSaleCostForOrderItem :one
SELECT cost_price FROM inventory_transactions
WHERE order_item_id = $1 AND transaction_type = 'SALE'
ORDER BY created_at, id
LIMIT 1`

// GetSaleCostForOrderItem returns the cost captured by the first SALE of the
// line. pgx.ErrNoRows when the line has no linked sale.
func (q *Queries) GetSaleCostForOrderItem(ctx context.Context, orderItemID uuid.UUID) (pgtype.Numeric, error) {
	var cost pgtype.Numeric
	err := q.db.QueryRow(ctx, getSaleCostForOrderItem, orderItemID).Scan(&cost)
	return cost, err
}
