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
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries.
type OrderStore interface {
	InventoryStore
	ProductionStore
	BillStore

	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetStaffByID(ctx context.Context, id uuid.UUID) (database.Staff, error)

	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	UpdateOrderDetails(ctx context.Context, arg database.UpdateOrderDetailsParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	UpdateOrderItem(ctx context.Context, arg database.UpdateOrderItemParams) (database.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id uuid.UUID) error
	DeletePrintingJobsByOrderItem(ctx context.Context, orderItemID uuid.UUID) error
	DeleteBoxOrdersByOrderItem(ctx context.Context, orderItemID uuid.UUID) error

	CreateServiceOrderItem(ctx context.Context, arg database.CreateServiceOrderItemParams) (database.ServiceOrderItem, error)
	GetServiceOrderItem(ctx context.Context, id uuid.UUID) (database.ServiceOrderItem, error)
	UpdateServiceOrderItem(ctx context.Context, arg database.UpdateServiceOrderItemParams) (database.ServiceOrderItem, error)
	DeleteServiceOrderItem(ctx context.Context, id uuid.UUID) error

	CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService manages orders, their items and service items.
type OrderService struct {
	pool          TxBeginner
	newStore      NewOrderStore
	clock         clockwork.Clock
	taxPercentage decimal.Decimal
	audit         AuditLogger
}

// NewOrderService creates a new OrderService. taxPercentage is frozen onto
// every bill created from now on. audit may be nil.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, clock clockwork.Clock, taxPercentage decimal.Decimal, audit AuditLogger) *OrderService {
	return &OrderService{
		pool:          pool,
		newStore:      newStore,
		clock:         clock,
		taxPercentage: taxPercentage,
		audit:         auditOrNop(audit),
	}
}

// OrderItemInput is one card line. Box and printing fields matter only when
// the matching Requires flag is set; each flag creates one run covering the
// full quantity.
type OrderItemInput struct {
	CardID            uuid.UUID
	Quantity          int32
	DiscountAmount    decimal.Decimal
	RequiresBox       bool
	RequiresPrinting  bool
	BoxType           string
	TotalBoxCost      decimal.Decimal
	TotalPrintingCost decimal.Decimal
}

func (in OrderItemInput) validate() error {
	if in.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if in.DiscountAmount.IsNegative() {
		return ErrInvalidDiscount
	}
	if in.RequiresBox && !enum.IsValid(in.BoxType, enum.BoxTypeFolding, enum.BoxTypeComplete) {
		return ErrInvalidBoxType
	}
	if in.TotalBoxCost.IsNegative() || in.TotalPrintingCost.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// ServiceItemInput is one outsourced service line.
type ServiceItemInput struct {
	ServiceType  string
	Quantity     int32
	TotalCost    decimal.Decimal
	TotalExpense *decimal.Decimal
	Description  string
}

func (in ServiceItemInput) validate() error {
	if !enum.IsValid(in.ServiceType,
		enum.ServiceTypeDigitalCard, enum.ServiceTypeAbhinandanPatr, enum.ServiceTypeCarPoster,
		enum.ServiceTypeDigitalVisitingCard, enum.ServiceTypePrintingService, enum.ServiceTypeBoxService) {
		return ErrInvalidServiceType
	}
	if in.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !nonNegative(&in.TotalCost, in.TotalExpense) {
		return ErrInvalidPrice
	}
	return nil
}

// CreateOrderRequest is the input for CreateOrder. OrderDate defaults to now.
type CreateOrderRequest struct {
	CustomerID         uuid.UUID
	StaffID            uuid.UUID
	Name               string
	OrderDate          *time.Time
	DeliveryDate       time.Time
	SpecialInstruction string
	Items              []OrderItemInput
	ServiceItems       []ServiceItemInput
}

// CreateOrderResult is the created order and its bill.
type CreateOrderResult struct {
	Order database.Order
	Bill  database.Bill
}

// CreateOrder books the order, takes stock for every card line, opens the
// production runs, and creates the bill. All of it commits or none of it does.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 && len(req.ServiceItems) == 0 {
		return nil, ErrEmptyOrder
	}
	for i, item := range req.Items {
		if err := item.validate(); err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
	}
	for i, si := range req.ServiceItems {
		if err := si.validate(); err != nil {
			return nil, fmt.Errorf("service_item[%d]: %w", i, err)
		}
	}

	orderDate := s.clock.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	if orderDate.After(req.DeliveryDate) {
		return nil, ErrInvalidDateRange
	}

	var result CreateOrderResult
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		if _, err := store.GetCustomer(ctx, req.CustomerID); err != nil {
			return notFound(err, ErrCustomerNotFound)
		}
		if _, err := store.GetStaffByID(ctx, req.StaffID); err != nil {
			return notFound(err, ErrStaffNotFound)
		}

		order, err := store.CreateOrder(ctx, database.CreateOrderParams{
			CustomerID:         req.CustomerID,
			StaffID:            req.StaffID,
			Name:               req.Name,
			OrderDate:          orderDate,
			DeliveryDate:       req.DeliveryDate,
			OrderStatus:        enum.OrderStatusConfirmed,
			SpecialInstruction: req.SpecialInstruction,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i, in := range req.Items {
			if _, err := addOrderItem(ctx, store, order.ID, req.StaffID, in); err != nil {
				return fmt.Errorf("item[%d]: %w", i, err)
			}
		}
		for i, in := range req.ServiceItems {
			if _, err := addServiceItem(ctx, store, order.ID, in); err != nil {
				return fmt.Errorf("service_item[%d]: %w", i, err)
			}
		}

		result.Bill, err = store.CreateBill(ctx, database.CreateBillParams{
			OrderID:       order.ID,
			TaxPercentage: decimalToNumeric(s.taxPercentage),
		})
		if err != nil {
			if isUniqueViolation(err, "bills_order_id_key") {
				return ErrBillExists
			}
			return fmt.Errorf("create bill: %w", err)
		}

		result.Order, err = recalculateOrderStatus(ctx, store, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionCreate,
		EntityType: enum.EntityOrder,
		EntityID:   result.Order.ID,
		Details: map[string]interface{}{
			"customer_id":   result.Order.CustomerID,
			"items":         len(req.Items),
			"service_items": len(req.ServiceItems),
		},
	})
	return &result, nil
}

// addOrderItem locks the card, checks the discount, snapshots the sell price
// and books the SALE against the new line.
func addOrderItem(ctx context.Context, store OrderStore, orderID, staffID uuid.UUID, in OrderItemInput) (database.OrderItem, error) {
	card, err := store.GetCardForUpdate(ctx, in.CardID)
	if err != nil {
		return database.OrderItem{}, notFound(err, ErrCardNotFound)
	}
	if err := checkDiscount(in.DiscountAmount, card); err != nil {
		return database.OrderItem{}, err
	}

	item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
		OrderID:          orderID,
		CardID:           card.ID,
		Quantity:         in.Quantity,
		PricePerItem:     card.SellPrice,
		DiscountAmount:   decimalToNumeric(in.DiscountAmount),
		RequiresBox:      in.RequiresBox,
		RequiresPrinting: in.RequiresPrinting,
	})
	if err != nil {
		return database.OrderItem{}, fmt.Errorf("create order item: %w", err)
	}

	_, err = adjustQuantity(ctx, store, StockChange{
		CardID:      card.ID,
		Delta:       -in.Quantity,
		Type:        enum.InventoryTxSale,
		OrderItemID: &item.ID,
		StaffID:     staffID,
	})
	if err != nil {
		return database.OrderItem{}, err
	}

	if in.RequiresBox {
		if err := openBoxOrder(ctx, store, item, in.BoxType, in.TotalBoxCost); err != nil {
			return database.OrderItem{}, err
		}
	}
	if in.RequiresPrinting {
		if err := openPrintingJob(ctx, store, item, in.TotalPrintingCost); err != nil {
			return database.OrderItem{}, err
		}
	}
	return item, nil
}

func checkDiscount(discount decimal.Decimal, card database.Card) error {
	if discount.IsNegative() || discount.GreaterThan(numericToDecimal(card.MaxDiscount)) {
		return ErrInvalidDiscount
	}
	return nil
}

func openBoxOrder(ctx context.Context, store OrderStore, item database.OrderItem, boxType string, cost decimal.Decimal) error {
	_, err := store.CreateBoxOrder(ctx, database.CreateBoxOrderParams{
		OrderItemID:  item.ID,
		BoxType:      boxType,
		BoxQuantity:  item.Quantity,
		TotalBoxCost: decimalToNumeric(cost),
		BoxStatus:    enum.BoxStatusPending,
	})
	if err != nil {
		return fmt.Errorf("create box order: %w", err)
	}
	return nil
}

func openPrintingJob(ctx context.Context, store OrderStore, item database.OrderItem, cost decimal.Decimal) error {
	_, err := store.CreatePrintingJob(ctx, database.CreatePrintingJobParams{
		OrderItemID:       item.ID,
		PrintQuantity:     item.Quantity,
		TotalPrintingCost: decimalToNumeric(cost),
		PrintingStatus:    enum.PrintingStatusPending,
	})
	if err != nil {
		return fmt.Errorf("create printing job: %w", err)
	}
	return nil
}

func addServiceItem(ctx context.Context, store OrderStore, orderID uuid.UUID, in ServiceItemInput) (database.ServiceOrderItem, error) {
	si, err := store.CreateServiceOrderItem(ctx, database.CreateServiceOrderItemParams{
		OrderID:           orderID,
		ServiceType:       in.ServiceType,
		Quantity:          in.Quantity,
		ProcurementStatus: enum.ProcurementStatusRequested,
		TotalCost:         decimalToNumeric(in.TotalCost),
		TotalExpense:      decimalPtrToNumeric(in.TotalExpense),
		Description:       in.Description,
	})
	if err != nil {
		return database.ServiceOrderItem{}, fmt.Errorf("create service item: %w", err)
	}
	return si, nil
}

// DeleteOrder returns every card line to stock and removes the order with its
// lines, production runs and bill. Orders with any payment or adjustment
// are kept.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, staffID uuid.UUID) error {
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		if _, err := store.GetOrderForUpdate(ctx, orderID); err != nil {
			return notFound(err, ErrOrderNotFound)
		}

		bill, err := store.GetBillByOrderID(ctx, orderID)
		switch {
		case err == nil:
			payments, err := store.CountPaymentsByBill(ctx, bill.ID)
			if err != nil {
				return fmt.Errorf("count payments: %w", err)
			}
			adjustments, err := store.CountAdjustmentsByBill(ctx, bill.ID)
			if err != nil {
				return fmt.Errorf("count adjustments: %w", err)
			}
			if payments > 0 || adjustments > 0 {
				return ErrOrderHasPayments
			}
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("get bill: %w", err)
		}

		items, err := store.ListOrderItemsByOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("list order items: %w", err)
		}
		for i, item := range items {
			if err := returnOrderItem(ctx, store, item, staffID); err != nil {
				return fmt.Errorf("item[%d]: %w", i, err)
			}
		}

		if err := store.DeleteOrder(ctx, orderID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    staffID,
		Action:     enum.AuditActionDelete,
		EntityType: enum.EntityOrder,
		EntityID:   orderID,
	})
	return nil
}

// returnOrderItem books a RETURN for the whole line.
func returnOrderItem(ctx context.Context, store OrderStore, item database.OrderItem, staffID uuid.UUID) error {
	_, err := adjustQuantity(ctx, store, StockChange{
		CardID:      item.CardID,
		Delta:       item.Quantity,
		Type:        enum.InventoryTxReturn,
		OrderItemID: &item.ID,
		StaffID:     staffID,
	})
	return err
}

// OrderItemDetail is an order line with its production runs.
type OrderItemDetail struct {
	Item         database.OrderItem
	PrintingJobs []database.PrintingJob
	BoxOrders    []database.BoxOrder
}

// OrderDetail is an order with everything hanging off it.
type OrderDetail struct {
	Order        database.Order
	Items        []OrderItemDetail
	ServiceItems []database.ServiceOrderItem
	BillID       *uuid.UUID
}

// GetOrder returns the order with its lines, production runs and bill id.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	var detail OrderDetail
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		order, err := store.GetOrder(ctx, orderID)
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		snap, err := loadOrderSnapshot(ctx, store, orderID)
		if err != nil {
			return err
		}

		detail.Order = order
		detail.ServiceItems = snap.serviceItems
		detail.Items = make([]OrderItemDetail, 0, len(snap.items))
		for _, item := range snap.items {
			d := OrderItemDetail{
				Item:         item,
				PrintingJobs: []database.PrintingJob{},
				BoxOrders:    []database.BoxOrder{},
			}
			for _, j := range snap.printingJobs {
				if j.OrderItemID == item.ID {
					d.PrintingJobs = append(d.PrintingJobs, j)
				}
			}
			for _, b := range snap.boxOrders {
				if b.OrderItemID == item.ID {
					d.BoxOrders = append(d.BoxOrders, b)
				}
			}
			detail.Items = append(detail.Items, d)
		}

		bill, err := store.GetBillByOrderID(ctx, orderID)
		if err == nil {
			detail.BillID = &bill.ID
			return nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("get bill: %w", err)
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListOrdersFilter narrows ListOrders. Start and End bound order_date as a
// half-open range.
type ListOrdersFilter struct {
	CustomerID *uuid.UUID
	Start      *time.Time
	End        *time.Time
	Limit      int32
	Offset     int32
}

// ListOrders returns orders newest first.
func (s *OrderService) ListOrders(ctx context.Context, f ListOrdersFilter) ([]database.Order, error) {
	var orders []database.Order
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		orders, err = s.newStore(tx).ListOrders(ctx, database.ListOrdersParams{
			CustomerID: pgUUIDPtr(f.CustomerID),
			StartDate:  pgTime(f.Start),
			EndDate:    pgTime(f.End),
			Limit:      f.Limit,
			Offset:     f.Offset,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
