package service

import (
	"context"
	"fmt"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/google/uuid"
)

// StatusStore is what the order status engine reads and writes.
// Satisfied by *database.Queries.
type StatusStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListPrintingJobsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.PrintingJob, error)
	ListBoxOrdersByOrder(ctx context.Context, orderID uuid.UUID) ([]database.BoxOrder, error)
	ListServiceOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ServiceOrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

// orderStatusRank orders the forward progression. Both terminal states share
// the top rank; neither can reach the other.
var orderStatusRank = map[string]int{
	enum.OrderStatusConfirmed:  0,
	enum.OrderStatusInProgress: 1,
	enum.OrderStatusReady:      2,
	enum.OrderStatusDelivered:  3,
	enum.OrderStatusFullyPaid:  3,
}

func isTerminalOrderStatus(s string) bool {
	return s == enum.OrderStatusDelivered || s == enum.OrderStatusFullyPaid
}

// canSetOrderStatus reports whether staff may move an order from one status
// to another by hand. FULLY_PAID belongs to billing and is never accepted here.
func canSetOrderStatus(from, to string) bool {
	if from == to {
		return true
	}
	if isTerminalOrderStatus(from) || to == enum.OrderStatusFullyPaid {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	return toRank > orderStatusRank[from]
}

// orderSnapshot is the production and service state an order's status is
// derived from.
type orderSnapshot struct {
	items        []database.OrderItem
	printingJobs []database.PrintingJob
	boxOrders    []database.BoxOrder
	serviceItems []database.ServiceOrderItem
}

func loadOrderSnapshot(ctx context.Context, store StatusStore, orderID uuid.UUID) (orderSnapshot, error) {
	var snap orderSnapshot
	var err error
	if snap.items, err = store.ListOrderItemsByOrder(ctx, orderID); err != nil {
		return snap, fmt.Errorf("list order items: %w", err)
	}
	if snap.printingJobs, err = store.ListPrintingJobsByOrder(ctx, orderID); err != nil {
		return snap, fmt.Errorf("list printing jobs: %w", err)
	}
	if snap.boxOrders, err = store.ListBoxOrdersByOrder(ctx, orderID); err != nil {
		return snap, fmt.Errorf("list box orders: %w", err)
	}
	if snap.serviceItems, err = store.ListServiceOrderItemsByOrder(ctx, orderID); err != nil {
		return snap, fmt.Errorf("list service items: %w", err)
	}
	return snap, nil
}

// productionStarted is true once any job has a provider or has left PENDING,
// or any service item has left REQUESTED.
func (s orderSnapshot) productionStarted() bool {
	for _, j := range s.printingJobs {
		if j.PrinterID.Valid || j.TracingStudioID.Valid || j.PrintingStatus != enum.PrintingStatusPending {
			return true
		}
	}
	for _, b := range s.boxOrders {
		if b.BoxMakerID.Valid || b.BoxStatus != enum.BoxStatusPending {
			return true
		}
	}
	for _, si := range s.serviceItems {
		if si.ProcurementStatus != enum.ProcurementStatusRequested {
			return true
		}
	}
	return false
}

// readyForDelivery is true when every required production run is COMPLETED
// and every service item is DELIVERED. An item that needs production but has
// no jobs is not ready.
func (s orderSnapshot) readyForDelivery() bool {
	printing := make(map[uuid.UUID][]database.PrintingJob)
	for _, j := range s.printingJobs {
		printing[j.OrderItemID] = append(printing[j.OrderItemID], j)
	}
	boxes := make(map[uuid.UUID][]database.BoxOrder)
	for _, b := range s.boxOrders {
		boxes[b.OrderItemID] = append(boxes[b.OrderItemID], b)
	}

	for _, item := range s.items {
		if item.RequiresPrinting {
			jobs := printing[item.ID]
			if len(jobs) == 0 {
				return false
			}
			for _, j := range jobs {
				if j.PrintingStatus != enum.PrintingStatusCompleted {
					return false
				}
			}
		}
		if item.RequiresBox {
			runs := boxes[item.ID]
			if len(runs) == 0 {
				return false
			}
			for _, b := range runs {
				if b.BoxStatus != enum.BoxStatusCompleted {
					return false
				}
			}
		}
	}
	for _, si := range s.serviceItems {
		if si.ProcurementStatus != enum.ProcurementStatusDelivered {
			return false
		}
	}
	return true
}

// deriveOrderStatus returns the status current should move to. It never
// returns a status ranked below current.
func deriveOrderStatus(current string, snap orderSnapshot) string {
	if isTerminalOrderStatus(current) {
		return current
	}
	if current != enum.OrderStatusReady && snap.readyForDelivery() {
		return enum.OrderStatusReady
	}
	if current == enum.OrderStatusConfirmed && snap.productionStarted() {
		return enum.OrderStatusInProgress
	}
	return current
}

// recalculateOrderStatus re-derives the order's status from its current state
// and persists it when it moved. Safe to call repeatedly in one transaction.
func recalculateOrderStatus(ctx context.Context, store StatusStore, orderID uuid.UUID) (database.Order, error) {
	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		return database.Order{}, notFound(err, ErrOrderNotFound)
	}
	if isTerminalOrderStatus(order.OrderStatus) {
		return order, nil
	}

	snap, err := loadOrderSnapshot(ctx, store, orderID)
	if err != nil {
		return database.Order{}, err
	}

	next := deriveOrderStatus(order.OrderStatus, snap)
	if next == order.OrderStatus {
		return order, nil
	}
	order, err = store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:          orderID,
		OrderStatus: next,
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}
