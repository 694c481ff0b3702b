package service

import (
	"context"
	"fmt"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// InventoryStore is the ledger's view of the database.
// Satisfied by *database.Queries (and its WithTx variant).
type InventoryStore interface {
	GetCardForUpdate(ctx context.Context, id uuid.UUID) (database.Card, error)
	LockCard(ctx context.Context, id uuid.UUID) (database.Card, error)
	UpdateCardQuantity(ctx context.Context, arg database.UpdateCardQuantityParams) (database.Card, error)
	CreateInventoryTransaction(ctx context.Context, arg database.CreateInventoryTransactionParams) (database.InventoryTransaction, error)
}

// StockChange is one signed movement of a card's stock. Purchases and returns
// are positive, sales and damage negative.
type StockChange struct {
	CardID      uuid.UUID
	Delta       int32
	Type        string
	OrderItemID *uuid.UUID
	StaffID     uuid.UUID
	Notes       string
}

// adjustQuantity locks the card row, applies the delta and appends the
// matching ledger entry with the cost price in effect right now. Decreases
// that would take stock below zero fail with ErrInsufficientStock. Only
// returns reach a deactivated card.
func adjustQuantity(ctx context.Context, store InventoryStore, ch StockChange) (database.Card, error) {
	if ch.Delta == 0 {
		return database.Card{}, ErrInvalidQuantity
	}

	lock := store.GetCardForUpdate
	if ch.Type == enum.InventoryTxReturn {
		lock = store.LockCard
	}
	card, err := lock(ctx, ch.CardID)
	if err != nil {
		return database.Card{}, notFound(err, ErrCardNotFound)
	}

	next := card.Quantity + ch.Delta
	if next < 0 {
		return database.Card{}, ErrInsufficientStock
	}

	updated, err := store.UpdateCardQuantity(ctx, database.UpdateCardQuantityParams{
		ID:       card.ID,
		Quantity: next,
	})
	if err != nil {
		return database.Card{}, fmt.Errorf("update card quantity: %w", err)
	}

	performedBy := pgUUID(ch.StaffID)
	if ch.StaffID == uuid.Nil {
		performedBy.Valid = false
	}
	_, err = store.CreateInventoryTransaction(ctx, database.CreateInventoryTransactionParams{
		CardID:          card.ID,
		TransactionType: ch.Type,
		QuantityChanged: ch.Delta,
		CostPrice:       card.CostPrice,
		OrderItemID:     pgUUIDPtr(ch.OrderItemID),
		PerformedBy:     performedBy,
		Notes:           ch.Notes,
	})
	if err != nil {
		return database.Card{}, fmt.Errorf("create inventory transaction: %w", err)
	}

	return updated, nil
}

// CatalogStore defines the DB methods needed by the card catalog.
type CatalogStore interface {
	InventoryStore
	GetCard(ctx context.Context, id uuid.UUID) (database.Card, error)
	CreateCard(ctx context.Context, arg database.CreateCardParams) (database.Card, error)
	UpdateCard(ctx context.Context, arg database.UpdateCardParams) (database.Card, error)
	DeactivateCard(ctx context.Context, id uuid.UUID) (database.Card, error)
	ListCards(ctx context.Context, arg database.ListCardsParams) ([]database.Card, error)
	GetVendor(ctx context.Context, id uuid.UUID) (database.Provider, error)
	ListInventoryTransactionsByCard(ctx context.Context, cardID uuid.UUID) ([]database.InventoryTransaction, error)
}

// NewCatalogStore creates a CatalogStore from a DBTX (pool or tx).
type NewCatalogStore func(db database.DBTX) CatalogStore

// InventoryService manages cards and their stock ledger.
type InventoryService struct {
	pool     TxBeginner
	newStore NewCatalogStore
	audit    AuditLogger
}

// NewInventoryService creates a new InventoryService. audit may be nil.
func NewInventoryService(pool TxBeginner, newStore NewCatalogStore, audit AuditLogger) *InventoryService {
	return &InventoryService{pool: pool, newStore: newStore, audit: auditOrNop(audit)}
}

// CreateCardRequest is the validated input for adding a card to the catalog.
type CreateCardRequest struct {
	StaffID     uuid.UUID
	VendorID    uuid.UUID
	Barcode     string
	SellPrice   decimal.Decimal
	CostPrice   decimal.Decimal
	MaxDiscount decimal.Decimal
	Quantity    int32
}

// UpdateCardRequest changes a card's vendor or prices. Nil fields keep their
// current value. Stock only moves through the ledger.
type UpdateCardRequest struct {
	StaffID     uuid.UUID
	CardID      uuid.UUID
	VendorID    *uuid.UUID
	SellPrice   *decimal.Decimal
	CostPrice   *decimal.Decimal
	MaxDiscount *decimal.Decimal
}

// StockRequest adds or removes stock outside of an order.
type StockRequest struct {
	StaffID  uuid.UUID
	CardID   uuid.UUID
	Quantity int32
	Notes    string
}

// CreateCard inserts the card with zero stock, then books any opening stock
// as a PURCHASE so the ledger reconciles from the first row.
func (s *InventoryService) CreateCard(ctx context.Context, req CreateCardRequest) (*database.Card, error) {
	if req.SellPrice.IsNegative() || req.CostPrice.IsNegative() || req.MaxDiscount.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if req.MaxDiscount.GreaterThan(req.SellPrice) {
		return nil, ErrInvalidDiscount
	}
	if req.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	var card database.Card
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		if _, err := store.GetVendor(ctx, req.VendorID); err != nil {
			return notFound(err, ErrVendorNotFound)
		}

		created, err := store.CreateCard(ctx, database.CreateCardParams{
			VendorID:    req.VendorID,
			Barcode:     req.Barcode,
			SellPrice:   decimalToNumeric(req.SellPrice),
			CostPrice:   decimalToNumeric(req.CostPrice),
			MaxDiscount: decimalToNumeric(req.MaxDiscount),
			Quantity:    0,
		})
		if err != nil {
			if isUniqueViolation(err, "cards_barcode_key") {
				return ErrDuplicateBarcode
			}
			return fmt.Errorf("create card: %w", err)
		}
		card = created

		if req.Quantity > 0 {
			card, err = adjustQuantity(ctx, store, StockChange{
				CardID:  created.ID,
				Delta:   req.Quantity,
				Type:    enum.InventoryTxPurchase,
				StaffID: req.StaffID,
				Notes:   "opening stock",
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionCreate,
		EntityType: enum.EntityCard,
		EntityID:   card.ID,
		Details:    map[string]interface{}{"barcode": card.Barcode, "quantity": card.Quantity},
	})
	return &card, nil
}

// UpdateCard applies req to an active card. The merged prices must still
// satisfy max_discount <= sell_price. Ledger rows keep the cost they were
// written with, so sales already booked are not repriced.
func (s *InventoryService) UpdateCard(ctx context.Context, req UpdateCardRequest) (*database.Card, error) {
	if !nonNegative(req.SellPrice, req.CostPrice, req.MaxDiscount) {
		return nil, ErrInvalidPrice
	}

	var card database.Card
	changes := map[string]interface{}{}
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		current, err := store.GetCardForUpdate(ctx, req.CardID)
		if err != nil {
			return notFound(err, ErrCardNotFound)
		}

		params := database.UpdateCardParams{
			ID:          current.ID,
			VendorID:    current.VendorID,
			SellPrice:   current.SellPrice,
			CostPrice:   current.CostPrice,
			MaxDiscount: current.MaxDiscount,
		}
		if req.VendorID != nil && *req.VendorID != current.VendorID {
			if _, err := store.GetVendor(ctx, *req.VendorID); err != nil {
				return notFound(err, ErrVendorNotFound)
			}
			params.VendorID = *req.VendorID
			changes["vendor_id"] = req.VendorID.String()
		}
		if req.SellPrice != nil {
			params.SellPrice = decimalToNumeric(*req.SellPrice)
			changes["sell_price"] = req.SellPrice.StringFixed(2)
		}
		if req.CostPrice != nil {
			params.CostPrice = decimalToNumeric(*req.CostPrice)
			changes["cost_price"] = req.CostPrice.StringFixed(2)
		}
		if req.MaxDiscount != nil {
			params.MaxDiscount = decimalToNumeric(*req.MaxDiscount)
			changes["max_discount"] = req.MaxDiscount.StringFixed(2)
		}
		if numericToDecimal(params.MaxDiscount).GreaterThan(numericToDecimal(params.SellPrice)) {
			return ErrInvalidDiscount
		}

		card, err = store.UpdateCard(ctx, params)
		if err != nil {
			return fmt.Errorf("update card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionUpdate,
		EntityType: enum.EntityCard,
		EntityID:   card.ID,
		Details:    changes,
	})
	return &card, nil
}

// DeactivateCard retires a card from the catalog. Its ledger and the order
// lines that reference it stay, and returned stock is still booked to it.
func (s *InventoryService) DeactivateCard(ctx context.Context, staffID, cardID uuid.UUID) error {
	var card database.Card
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		if _, err := store.GetCardForUpdate(ctx, cardID); err != nil {
			return notFound(err, ErrCardNotFound)
		}
		var err error
		card, err = store.DeactivateCard(ctx, cardID)
		if err != nil {
			return fmt.Errorf("deactivate card: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    staffID,
		Action:     enum.AuditActionDelete,
		EntityType: enum.EntityCard,
		EntityID:   card.ID,
		Details:    map[string]interface{}{"barcode": card.Barcode, "quantity": card.Quantity},
	})
	return nil
}

// GetCard returns an active card.
func (s *InventoryService) GetCard(ctx context.Context, id uuid.UUID) (*database.Card, error) {
	var card database.Card
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		card, err = s.newStore(tx).GetCard(ctx, id)
		return notFound(err, ErrCardNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// ListCards returns active cards ordered by barcode.
func (s *InventoryService) ListCards(ctx context.Context, limit, offset int32) ([]database.Card, error) {
	var cards []database.Card
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		cards, err = s.newStore(tx).ListCards(ctx, database.ListCardsParams{Limit: limit, Offset: offset})
		return err
	})
	return cards, err
}

// PurchaseStock records new stock received from the vendor.
func (s *InventoryService) PurchaseStock(ctx context.Context, req StockRequest) (*database.Card, error) {
	return s.moveStock(ctx, req, req.Quantity, enum.InventoryTxPurchase)
}

// RecordDamage writes off damaged stock. Fails with ErrInsufficientStock when
// more is written off than is on hand.
func (s *InventoryService) RecordDamage(ctx context.Context, req StockRequest) (*database.Card, error) {
	return s.moveStock(ctx, req, -req.Quantity, enum.InventoryTxDamage)
}

func (s *InventoryService) moveStock(ctx context.Context, req StockRequest, delta int32, txType string) (*database.Card, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var card database.Card
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		card, err = adjustQuantity(ctx, s.newStore(tx), StockChange{
			CardID:  req.CardID,
			Delta:   delta,
			Type:    txType,
			StaffID: req.StaffID,
			Notes:   req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionUpdate,
		EntityType: enum.EntityCard,
		EntityID:   card.ID,
		Details:    map[string]interface{}{"transaction_type": txType, "quantity_changed": delta},
	})
	return &card, nil
}

// ListTransactions returns a card's ledger, oldest first.
func (s *InventoryService) ListTransactions(ctx context.Context, cardID uuid.UUID) ([]database.InventoryTransaction, error) {
	var txs []database.InventoryTransaction
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		if _, err := store.GetCard(ctx, cardID); err != nil {
			return notFound(err, ErrCardNotFound)
		}
		var err error
		txs, err = store.ListInventoryTransactionsByCard(ctx, cardID)
		return err
	})
	return txs, err
}
