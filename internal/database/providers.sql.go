package database

import (
	"context"

	"github.com/google/uuid"
)

// Vendors, printers, tracing studios and box makers share one row shape; the
// queries differ only by table.

func scanProvider(row interface{ Scan(...interface{}) error }) (Provider, error) {
	var i Provider
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Phone,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) listProviders(ctx context.Context, query string) ([]Provider, error) {
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Provider{}
	for rows.Next() {
		i, err := scanProvider(rows)
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

type CreateProviderParams struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

const createVendor = `-- name: CreateVendor :one
INSERT INTO vendors (name, phone) VALUES ($1, $2)
RETURNING id, name, phone, is_active, created_at`

func (q *Queries) CreateVendor(ctx context.Context, arg CreateProviderParams) (Provider, error) {
	return scanProvider(q.db.QueryRow(ctx, createVendor, arg.Name, arg.Phone))
}

const getVendor = `-- name: GetVendor :one
SELECT id, name, phone, is_active, created_at FROM vendors
WHERE id = $1 AND is_active = true`

func (q *Queries) GetVendor(ctx context.Context, id uuid.UUID) (Provider, error) {
	return scanProvider(q.db.QueryRow(ctx, getVendor, id))
}

const listVendors = `-- name: ListVendors :many
SELECT id, name, phone, is_active, created_at FROM vendors
WHERE is_active = true ORDER BY name`

func (q *Queries) ListVendors(ctx context.Context) ([]Provider, error) {
	return q.listProviders(ctx, listVendors)
}

const createPrinter = `-- name: CreatePrinter :one
INSERT INTO printers (name, phone) VALUES ($1, $2)
RETURNING id, name, phone, is_active, created_at`

func (q *Queries) CreatePrinter(ctx context.Context, arg CreateProviderParams) (Provider, error) {
	return scanProvider(q.db.QueryRow(ctx, createPrinter, arg.Name, arg.Phone))
}

const getPrinter = `-- name: GetPrinter :one
SELECT id, name, phone, is_active, created_at FROM printers
WHERE id = $1 AND is_active = true`

func (q *Queries) GetPrinter(ctx context.Context, id uuid.UUID) (Provider, error) {
	return scanProvider(q.db.QueryRow(ctx, getPrinter, id))
}

const listPrinters = `-- name: ListPrinters :many
SELECT id, name, phone, is_active, created_at FROM printers
WHERE is_active = true ORDER BY name`

func (q *Queries) ListPrinters(ctx context.Context) ([]Provider, error) {
	return q.listProviders(ctx, listPrinters)
}

const createTracingStudio = `-- name: CreateTracingStudio :one
INSERT INTO tracing_studios (name, phone) VALUES ($1, $2)
RETURNING id, name, phone, is_active, created_at`

func (q *Queries) CreateTracingStudio(ctx context.Context, arg CreateProviderParams) (Provider, error) {
	return scanProvider(q.db.QueryRow(ctx, createTracingStudio, arg.Name, arg.Phone))
}

const getTracingStudio = `-- name: GetTracingStudio :one
SELECT id, name, phone, is_active, created_at FROM tracing_studios
WHERE id = $1 AND is_active = true`

func (q *Queries) GetTracingStudio(ctx context.Context, id uuid.UUID) (Provider, error) {
	return scanProvider(q.db.QueryRow(ctx, getTracingStudio, id))
}

const listTracingStudios = `-- name: ListTracingStudios :many
SELECT id, name, phone, is_active, created_at FROM tracing_studios
WHERE is_active = true ORDER BY name`

func (q *Queries) ListTracingStudios(ctx context.Context) ([]Provider, error) {
	return q.listProviders(ctx, listTracingStudios)
}

const createBoxMaker = `-- name: CreateBoxMaker :one
INSERT INTO box_makers (name, phone) VALUES ($1, $2)
RETURNING id, name, phone, is_active, created_at`

func (q *Queries) CreateBoxMaker(ctx context.Context, arg CreateProviderParams) (Provider, error) {
	return scanProvider(q.db.QueryRow(ctx, createBoxMaker, arg.Name, arg.Phone))
}

const getBoxMaker = `-- name: GetBoxMaker :one
SELECT id, name, phone, is_active, created_at FROM box_makers
WHERE id = $1 AND is_active = true`

func (q *Queries) GetBoxMaker(ctx context.Context, id uuid.UUID) (Provider, error) {
	return scanProvider(q.db.QueryRow(ctx, getBoxMaker, id))
}

const listBoxMakers = `-- name: ListBoxMakers :many
SELECT id, name, phone, is_active, created_at FROM box_makers
WHERE is_active = true ORDER BY name`

func (q *Queries) ListBoxMakers(ctx context.Context) ([]Provider, error) {
	return q.listProviders(ctx, listBoxMakers)
}
