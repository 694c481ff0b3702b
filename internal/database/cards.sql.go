package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const cardColumns = `id, vendor_id, barcode, sell_price, cost_price, max_discount, quantity, is_active, created_at, updated_at`

func scanCard(row interface{ Scan(...interface{}) error }) (Card, error) {
	var i Card
	err := row.Scan(
		&i.ID,
		&i.VendorID,
		&i.Barcode,
		&i.SellPrice,
		&i.CostPrice,
		&i.MaxDiscount,
		&i.Quantity,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createCard = `-- name: CreateCard :one
INSERT INTO cards (vendor_id, barcode, sell_price, cost_price, max_discount, quantity)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + cardColumns

type CreateCardParams struct {
	VendorID    uuid.UUID      `json:"vendor_id"`
	Barcode     string         `json:"barcode"`
	SellPrice   pgtype.Numeric `json:"sell_price"`
	CostPrice   pgtype.Numeric `json:"cost_price"`
	MaxDiscount pgtype.Numeric `json:"max_discount"`
	Quantity    int32          `json:"quantity"`
}

func (q *Queries) CreateCard(ctx context.Context, arg CreateCardParams) (Card, error) {
	row := q.db.QueryRow(ctx, createCard,
		arg.VendorID,
		arg.Barcode,
		arg.SellPrice,
		arg.CostPrice,
		arg.MaxDiscount,
		arg.Quantity,
	)
	return scanCard(row)
}

const getCard = `-- name: GetCard :one
SELECT ` + cardColumns + ` FROM cards
WHERE id = $1 AND is_active = true`

func (q *Queries) GetCard(ctx context.Context, id uuid.UUID) (Card, error) {
	return scanCard(q.db.QueryRow(ctx, getCard, id))
}

const getCardForUpdate = `-- name: GetCardForUpdate :one
SELECT ` + cardColumns + ` FROM cards
WHERE id = $1 AND is_active = true
FOR UPDATE`

// GetCardForUpdate locks the card row until the enclosing transaction ends.
func (q *Queries) GetCardForUpdate(ctx context.Context, id uuid.UUID) (Card, error) {
	return scanCard(q.db.QueryRow(ctx, getCardForUpdate, id))
}

const getCardAnyStatus = `-- name: GetCardAnyStatus :one
SELECT ` + cardColumns + ` FROM cards
WHERE id = $1`

func (q *Queries) GetCardAnyStatus(ctx context.Context, id uuid.UUID) (Card, error) {
	return scanCard(q.db.QueryRow(ctx, getCardAnyStatus, id))
}

const lockCard = `-- name: LockCard :one
SELECT ` + cardColumns + ` FROM cards
WHERE id = $1
FOR UPDATE`

// LockCard is GetCardForUpdate without the is_active filter. Stock returned
// from an order goes back to the card even after it was retired.
func (q *Queries) LockCard(ctx context.Context, id uuid.UUID) (Card, error) {
	return scanCard(q.db.QueryRow(ctx, lockCard, id))
}

const updateCard = `-- name: UpdateCard :one
UPDATE cards
SET vendor_id = $2, sell_price = $3, cost_price = $4, max_discount = $5, updated_at = now()
WHERE id = $1
RETURNING ` + cardColumns

type UpdateCardParams struct {
	ID          uuid.UUID      `json:"id"`
	VendorID    uuid.UUID      `json:"vendor_id"`
	SellPrice   pgtype.Numeric `json:"sell_price"`
	CostPrice   pgtype.Numeric `json:"cost_price"`
	MaxDiscount pgtype.Numeric `json:"max_discount"`
}

func (q *Queries) UpdateCard(ctx context.Context, arg UpdateCardParams) (Card, error) {
	row := q.db.QueryRow(ctx, updateCard,
		arg.ID,
		arg.VendorID,
		arg.SellPrice,
		arg.CostPrice,
		arg.MaxDiscount,
	)
	return scanCard(row)
}

const deactivateCard = `-- name: DeactivateCard :one
UPDATE cards SET is_active = false, updated_at = now()
WHERE id = $1
RETURNING ` + cardColumns

func (q *Queries) DeactivateCard(ctx context.Context, id uuid.UUID) (Card, error) {
	return scanCard(q.db.QueryRow(ctx, deactivateCard, id))
}

const updateCardQuantity = `-- name: UpdateCardQuantity :one
UPDATE cards SET quantity = $2, updated_at = now()
WHERE id = $1
RETURNING ` + cardColumns

type UpdateCardQuantityParams struct {
	ID       uuid.UUID `json:"id"`
	Quantity int32     `json:"quantity"`
}

func (q *Queries) UpdateCardQuantity(ctx context.Context, arg UpdateCardQuantityParams) (Card, error) {
	return scanCard(q.db.QueryRow(ctx, updateCardQuantity, arg.ID, arg.Quantity))
}

const listCards = `-- name: ListCards :many
SELECT ` + cardColumns + ` FROM cards
WHERE is_active = true
ORDER BY barcode
LIMIT $1 OFFSET $2`

type ListCardsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListCards(ctx context.Context, arg ListCardsParams) ([]Card, error) {
	return q.queryCards(ctx, listCards, arg.Limit, arg.Offset)
}

func (q *Queries) queryCards(ctx context.Context, query string, args ...interface{}) ([]Card, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Card{}
	for rows.Next() {
		i, err := scanCard(rows)
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

const countLowStockCards = `-- name: CountLowStockCards :one
SELECT count(*) FROM cards
WHERE is_active = true AND quantity > $2 AND quantity <= $1`

type CountLowStockCardsParams struct {
	LowThreshold        int32 `json:"low_threshold"`
	OutOfStockThreshold int32 `json:"out_of_stock_threshold"`
}

func (q *Queries) CountLowStockCards(ctx context.Context, arg CountLowStockCardsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countLowStockCards, arg.LowThreshold, arg.OutOfStockThreshold).Scan(&count)
	return count, err
}

const countOutOfStockCards = `-- name: CountOutOfStockCards :one
SELECT count(*) FROM cards
WHERE is_active = true AND quantity <= $1`

func (q *Queries) CountOutOfStockCards(ctx context.Context, threshold int32) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countOutOfStockCards, threshold).Scan(&count)
	return count, err
}

const listLowStockCards = `-- name: ListLowStockCards :many
SELECT ` + cardColumns + ` FROM cards
WHERE is_active = true AND quantity > $2 AND quantity <= $1
ORDER BY quantity, barcode`

type ListLowStockCardsParams struct {
	LowThreshold        int32 `json:"low_threshold"`
	OutOfStockThreshold int32 `json:"out_of_stock_threshold"`
}

func (q *Queries) ListLowStockCards(ctx context.Context, arg ListLowStockCardsParams) ([]Card, error) {
	return q.queryCards(ctx, listLowStockCards, arg.LowThreshold, arg.OutOfStockThreshold)
}

const listOutOfStockCards = `-- name: ListOutOfStockCards :many
SELECT ` + cardColumns + ` FROM cards
WHERE is_active = true AND quantity <= $1
ORDER BY quantity, barcode`

func (q *Queries) ListOutOfStockCards(ctx context.Context, threshold int32) ([]Card, error) {
	return q.queryCards(ctx, listOutOfStockCards, threshold)
}
