package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OrderEdit is one change in an UpdateOrder batch. The implementations below
// are the complete set.
type OrderEdit interface {
	validate() error
}

// AddItem adds a card line, taking stock as CreateOrder does.
type AddItem struct {
	OrderItemInput
}

// UpdateItem changes an existing card line. Nil fields are left alone.
// BoxType and the cost fields open the run when a Requires flag turns on;
// on a line that already needs production they reprice its latest run.
type UpdateItem struct {
	ItemID            uuid.UUID
	Quantity          *int32
	DiscountAmount    *decimal.Decimal
	RequiresBox       *bool
	RequiresPrinting  *bool
	BoxType           *string
	TotalBoxCost      *decimal.Decimal
	TotalPrintingCost *decimal.Decimal
}

func (e UpdateItem) validate() error {
	if e.Quantity != nil && *e.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if e.DiscountAmount != nil && e.DiscountAmount.IsNegative() {
		return ErrInvalidDiscount
	}
	if e.BoxType != nil && !enum.IsValid(*e.BoxType, enum.BoxTypeFolding, enum.BoxTypeComplete) {
		return ErrInvalidBoxType
	}
	if !nonNegative(e.TotalBoxCost, e.TotalPrintingCost) {
		return ErrInvalidPrice
	}
	return nil
}

// RemoveItem deletes a card line and returns its stock.
type RemoveItem struct {
	ItemID uuid.UUID
}

func (RemoveItem) validate() error { return nil }

// AddServiceItem adds a service line in REQUESTED state.
type AddServiceItem struct {
	ServiceItemInput
}

// UpdateServiceItem changes an existing service line. Nil fields are left alone.
type UpdateServiceItem struct {
	ServiceItemID     uuid.UUID
	Quantity          *int32
	ProcurementStatus *string
	TotalCost         *decimal.Decimal
	TotalExpense      *decimal.Decimal
	Description       *string
}

func (e UpdateServiceItem) validate() error {
	if e.Quantity != nil && *e.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if e.ProcurementStatus != nil && !enum.IsValid(*e.ProcurementStatus,
		enum.ProcurementStatusRequested, enum.ProcurementStatusOrdered, enum.ProcurementStatusReceived,
		enum.ProcurementStatusDelivered, enum.ProcurementStatusCancelled) {
		return ErrInvalidStatus
	}
	if !nonNegative(e.TotalCost, e.TotalExpense) {
		return ErrInvalidPrice
	}
	return nil
}

// RemoveServiceItem deletes a service line.
type RemoveServiceItem struct {
	ServiceItemID uuid.UUID
}

func (RemoveServiceItem) validate() error { return nil }

// OrderFields are the order's own columns. They apply after all edits.
type OrderFields struct {
	Name               *string
	DeliveryDate       *time.Time
	SpecialInstruction *string
	OrderStatus        *string
}

func (f OrderFields) empty() bool {
	return f.Name == nil && f.DeliveryDate == nil && f.SpecialInstruction == nil && f.OrderStatus == nil
}

// UpdateOrderRequest is the input for UpdateOrder.
type UpdateOrderRequest struct {
	OrderID uuid.UUID
	StaffID uuid.UUID
	Edits   []OrderEdit
	Fields  OrderFields
}

// UpdateOrder applies a batch of edits atomically. Every edit is validated
// before the order is touched; a failure in any edit discards the stock moves
// of the ones before it.
func (s *OrderService) UpdateOrder(ctx context.Context, req UpdateOrderRequest) (*database.Order, error) {
	if len(req.Edits) == 0 && req.Fields.empty() {
		return nil, ErrNoEdits
	}
	for i, e := range req.Edits {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("edit[%d]: %w", i, err)
		}
	}
	if st := req.Fields.OrderStatus; st != nil && !enum.IsValid(*st,
		enum.OrderStatusConfirmed, enum.OrderStatusInProgress, enum.OrderStatusReady,
		enum.OrderStatusDelivered, enum.OrderStatusFullyPaid) {
		return nil, ErrInvalidStatus
	}

	var order database.Order
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		var err error
		order, err = store.GetOrderForUpdate(ctx, req.OrderID)
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}

		for i, e := range req.Edits {
			if err := s.applyEdit(ctx, store, order, req.StaffID, e); err != nil {
				return fmt.Errorf("edit[%d]: %w", i, err)
			}
		}

		if err := applyOrderFields(ctx, store, order, req.Fields); err != nil {
			return err
		}

		if _, err := recalculateOrderStatus(ctx, store, order.ID); err != nil {
			return err
		}
		bill, err := store.GetBillByOrderID(ctx, order.ID)
		switch {
		case err == nil:
			if _, err := refreshPaymentStatus(ctx, store, bill.ID); err != nil {
				return err
			}
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("get bill: %w", err)
		}

		order, err = store.GetOrder(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionUpdate,
		EntityType: enum.EntityOrder,
		EntityID:   order.ID,
		Details:    map[string]interface{}{"edits": len(req.Edits), "order_status": order.OrderStatus},
	})
	return &order, nil
}

func (s *OrderService) applyEdit(ctx context.Context, store OrderStore, order database.Order, staffID uuid.UUID, edit OrderEdit) error {
	switch e := edit.(type) {
	case AddItem:
		_, err := addOrderItem(ctx, store, order.ID, staffID, e.OrderItemInput)
		return err
	case UpdateItem:
		return updateOrderItem(ctx, store, order, staffID, e)
	case RemoveItem:
		return removeOrderItem(ctx, store, order, staffID, e.ItemID)
	case AddServiceItem:
		_, err := addServiceItem(ctx, store, order.ID, e.ServiceItemInput)
		return err
	case UpdateServiceItem:
		return updateServiceItem(ctx, store, order, e)
	case RemoveServiceItem:
		si, err := orderServiceItem(ctx, store, order, e.ServiceItemID)
		if err != nil {
			return err
		}
		if err := store.DeleteServiceOrderItem(ctx, si.ID); err != nil {
			return fmt.Errorf("delete service item: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported edit %T: %w", edit, ErrInvalidInput)
	}
}

// orderItem loads an item and checks it belongs to the order.
func orderItem(ctx context.Context, store OrderStore, order database.Order, id uuid.UUID) (database.OrderItem, error) {
	item, err := store.GetOrderItem(ctx, id)
	if err != nil {
		return database.OrderItem{}, notFound(err, ErrOrderItemNotFound)
	}
	if item.OrderID != order.ID {
		return database.OrderItem{}, ErrOrderItemNotFound
	}
	return item, nil
}

func orderServiceItem(ctx context.Context, store OrderStore, order database.Order, id uuid.UUID) (database.ServiceOrderItem, error) {
	si, err := store.GetServiceOrderItem(ctx, id)
	if err != nil {
		return database.ServiceOrderItem{}, notFound(err, ErrServiceItemNotFound)
	}
	if si.OrderID != order.ID {
		return database.ServiceOrderItem{}, ErrServiceItemNotFound
	}
	return si, nil
}

// updateOrderItem drops production runs for flags turned off, moves stock by
// the quantity delta only, then opens full-quantity runs for flags turned on.
func updateOrderItem(ctx context.Context, store OrderStore, order database.Order, staffID uuid.UUID, e UpdateItem) error {
	item, err := orderItem(ctx, store, order, e.ItemID)
	if err != nil {
		return err
	}

	params := database.UpdateOrderItemParams{
		ID:               item.ID,
		Quantity:         item.Quantity,
		DiscountAmount:   item.DiscountAmount,
		RequiresBox:      item.RequiresBox,
		RequiresPrinting: item.RequiresPrinting,
	}
	if e.RequiresBox != nil {
		params.RequiresBox = *e.RequiresBox
	}
	if e.RequiresPrinting != nil {
		params.RequiresPrinting = *e.RequiresPrinting
	}

	if item.RequiresBox && !params.RequiresBox {
		if err := store.DeleteBoxOrdersByOrderItem(ctx, item.ID); err != nil {
			return fmt.Errorf("delete box orders: %w", err)
		}
	}
	if item.RequiresPrinting && !params.RequiresPrinting {
		if err := store.DeletePrintingJobsByOrderItem(ctx, item.ID); err != nil {
			return fmt.Errorf("delete printing jobs: %w", err)
		}
	}

	if e.DiscountAmount != nil {
		card, err := store.GetCardForUpdate(ctx, item.CardID)
		if err != nil {
			return notFound(err, ErrCardNotFound)
		}
		if err := checkDiscount(*e.DiscountAmount, card); err != nil {
			return err
		}
		params.DiscountAmount = decimalToNumeric(*e.DiscountAmount)
	}

	if e.Quantity != nil && *e.Quantity != item.Quantity {
		if err := checkReducedAllocation(ctx, store, item.ID, *e.Quantity); err != nil {
			return err
		}
		diff := *e.Quantity - item.Quantity
		txType := enum.InventoryTxSale
		if diff < 0 {
			txType = enum.InventoryTxReturn
		}
		_, err := adjustQuantity(ctx, store, StockChange{
			CardID:      item.CardID,
			Delta:       -diff,
			Type:        txType,
			OrderItemID: &item.ID,
			StaffID:     staffID,
		})
		if err != nil {
			return err
		}
		params.Quantity = *e.Quantity
	}

	updated, err := store.UpdateOrderItem(ctx, params)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}

	switch {
	case !item.RequiresBox && updated.RequiresBox:
		if e.BoxType == nil {
			return ErrInvalidBoxType
		}
		if err := openBoxOrder(ctx, store, updated, *e.BoxType, zeroIfNil(e.TotalBoxCost)); err != nil {
			return err
		}
	case updated.RequiresBox && (e.BoxType != nil || e.TotalBoxCost != nil):
		if err := repriceLatestBoxOrder(ctx, store, item.ID, e.BoxType, e.TotalBoxCost); err != nil {
			return err
		}
	}
	switch {
	case !item.RequiresPrinting && updated.RequiresPrinting:
		if err := openPrintingJob(ctx, store, updated, zeroIfNil(e.TotalPrintingCost)); err != nil {
			return err
		}
	case updated.RequiresPrinting && e.TotalPrintingCost != nil:
		if err := repriceLatestPrintingJob(ctx, store, item.ID, *e.TotalPrintingCost); err != nil {
			return err
		}
	}
	return nil
}

func zeroIfNil(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// repriceLatestBoxOrder sets the type and cost of the item's newest box run.
// Older split runs keep theirs.
func repriceLatestBoxOrder(ctx context.Context, store OrderStore, itemID uuid.UUID, boxType *string, cost *decimal.Decimal) error {
	runs, err := store.ListBoxOrdersByOrderItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list box orders: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}
	b := runs[len(runs)-1]
	params := database.UpdateBoxOrderParams{
		ID:                  b.ID,
		BoxMakerID:          b.BoxMakerID,
		BoxType:             b.BoxType,
		BoxQuantity:         b.BoxQuantity,
		TotalBoxCost:        b.TotalBoxCost,
		TotalBoxExpense:     b.TotalBoxExpense,
		BoxStatus:           b.BoxStatus,
		EstimatedCompletion: b.EstimatedCompletion,
	}
	if boxType != nil {
		params.BoxType = *boxType
	}
	if cost != nil {
		params.TotalBoxCost = decimalToNumeric(*cost)
	}
	if _, err := store.UpdateBoxOrder(ctx, params); err != nil {
		return fmt.Errorf("update box order: %w", err)
	}
	return nil
}

// repriceLatestPrintingJob sets the cost of the item's newest printing run.
func repriceLatestPrintingJob(ctx context.Context, store OrderStore, itemID uuid.UUID, cost decimal.Decimal) error {
	jobs, err := store.ListPrintingJobsByOrderItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list printing jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil
	}
	j := jobs[len(jobs)-1]
	if _, err := store.UpdatePrintingJob(ctx, database.UpdatePrintingJobParams{
		ID:                   j.ID,
		PrinterID:            j.PrinterID,
		TracingStudioID:      j.TracingStudioID,
		PrintQuantity:        j.PrintQuantity,
		TotalPrintingCost:    decimalToNumeric(cost),
		TotalPrintingExpense: j.TotalPrintingExpense,
		TotalTracingExpense:  j.TotalTracingExpense,
		PrintingStatus:       j.PrintingStatus,
		EstimatedCompletion:  j.EstimatedCompletion,
	}); err != nil {
		return fmt.Errorf("update printing job: %w", err)
	}
	return nil
}

// checkReducedAllocation rejects a quantity below what production runs
// already cover.
func checkReducedAllocation(ctx context.Context, store OrderStore, itemID uuid.UUID, quantity int32) error {
	jobs, err := store.ListPrintingJobsByOrderItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list printing jobs: %w", err)
	}
	runs, err := store.ListBoxOrdersByOrderItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list box orders: %w", err)
	}
	if allocatedPrintQuantity(jobs, uuid.Nil) > quantity || allocatedBoxQuantity(runs, uuid.Nil) > quantity {
		return ErrOverAllocated
	}
	return nil
}

func removeOrderItem(ctx context.Context, store OrderStore, order database.Order, staffID, itemID uuid.UUID) error {
	item, err := orderItem(ctx, store, order, itemID)
	if err != nil {
		return err
	}
	if err := returnOrderItem(ctx, store, item, staffID); err != nil {
		return err
	}
	if err := store.DeletePrintingJobsByOrderItem(ctx, item.ID); err != nil {
		return fmt.Errorf("delete printing jobs: %w", err)
	}
	if err := store.DeleteBoxOrdersByOrderItem(ctx, item.ID); err != nil {
		return fmt.Errorf("delete box orders: %w", err)
	}
	if err := store.DeleteOrderItem(ctx, item.ID); err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return nil
}

func updateServiceItem(ctx context.Context, store OrderStore, order database.Order, e UpdateServiceItem) error {
	si, err := orderServiceItem(ctx, store, order, e.ServiceItemID)
	if err != nil {
		return err
	}

	params := database.UpdateServiceOrderItemParams{
		ID:                si.ID,
		Quantity:          si.Quantity,
		ProcurementStatus: si.ProcurementStatus,
		TotalCost:         si.TotalCost,
		TotalExpense:      si.TotalExpense,
		Description:       si.Description,
	}
	if e.ProcurementStatus != nil {
		if !canTransition(procurementTransitions, si.ProcurementStatus, *e.ProcurementStatus) {
			return fmt.Errorf("procurement %s -> %s: %w", si.ProcurementStatus, *e.ProcurementStatus, ErrIllegalTransition)
		}
		params.ProcurementStatus = *e.ProcurementStatus
	}
	if e.Quantity != nil {
		params.Quantity = *e.Quantity
	}
	if e.TotalCost != nil {
		params.TotalCost = decimalToNumeric(*e.TotalCost)
	}
	if e.TotalExpense != nil {
		params.TotalExpense = decimalToNumeric(*e.TotalExpense)
	}
	if e.Description != nil {
		params.Description = *e.Description
	}

	if _, err := store.UpdateServiceOrderItem(ctx, params); err != nil {
		return fmt.Errorf("update service item: %w", err)
	}
	return nil
}

// applyOrderFields writes the order's own columns. An explicit status may
// only move forward and never to FULLY_PAID.
func applyOrderFields(ctx context.Context, store OrderStore, order database.Order, f OrderFields) error {
	if f.Name != nil || f.DeliveryDate != nil || f.SpecialInstruction != nil {
		params := database.UpdateOrderDetailsParams{
			ID:                 order.ID,
			Name:               order.Name,
			DeliveryDate:       order.DeliveryDate,
			SpecialInstruction: order.SpecialInstruction,
		}
		if f.Name != nil {
			params.Name = *f.Name
		}
		if f.DeliveryDate != nil {
			if order.OrderDate.After(*f.DeliveryDate) {
				return ErrInvalidDateRange
			}
			if err := checkEstimatesBefore(ctx, store, order.ID, *f.DeliveryDate); err != nil {
				return err
			}
			params.DeliveryDate = *f.DeliveryDate
		}
		if f.SpecialInstruction != nil {
			params.SpecialInstruction = *f.SpecialInstruction
		}
		if _, err := store.UpdateOrderDetails(ctx, params); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
	}

	if f.OrderStatus == nil || *f.OrderStatus == order.OrderStatus {
		return nil
	}
	// Edits earlier in the batch may already have moved the status.
	current, err := recalculateOrderStatus(ctx, store, order.ID)
	if err != nil {
		return err
	}
	if !canSetOrderStatus(current.OrderStatus, *f.OrderStatus) {
		return fmt.Errorf("order %s -> %s: %w", current.OrderStatus, *f.OrderStatus, ErrIllegalTransition)
	}
	if current.OrderStatus == *f.OrderStatus {
		return nil
	}
	if _, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:          order.ID,
		OrderStatus: *f.OrderStatus,
	}); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}
