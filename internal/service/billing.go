package service

import (
	"context"
	"fmt"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BillStore is the billing engine's view of the database.
// Satisfied by *database.Queries.
type BillStore interface {
	StatusStore
	GetBill(ctx context.Context, id uuid.UUID) (database.Bill, error)
	GetBillByOrderID(ctx context.Context, orderID uuid.UUID) (database.Bill, error)
	GetBillForUpdate(ctx context.Context, id uuid.UUID) (database.Bill, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	UpdateBillPaymentStatus(ctx context.Context, arg database.UpdateBillPaymentStatusParams) (database.Bill, error)
	ListBills(ctx context.Context, arg database.ListBillsParams) ([]database.Bill, error)

	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	ListPaymentsByBill(ctx context.Context, billID uuid.UUID) ([]database.Payment, error)
	SumPaymentsByBill(ctx context.Context, billID uuid.UUID) (pgtype.Numeric, error)
	CountPaymentsByBill(ctx context.Context, billID uuid.UUID) (int64, error)

	CreateBillAdjustment(ctx context.Context, arg database.CreateBillAdjustmentParams) (database.BillAdjustment, error)
	ListBillAdjustmentsByBill(ctx context.Context, billID uuid.UUID) ([]database.BillAdjustment, error)
	SumAdjustmentsByBill(ctx context.Context, billID uuid.UUID) (pgtype.Numeric, error)
	CountAdjustmentsByBill(ctx context.Context, billID uuid.UUID) (int64, error)
}

// NewBillStore creates a BillStore from a DBTX (pool or tx).
type NewBillStore func(db database.DBTX) BillStore

// BillSummary holds exact amounts. Call Rounded before presenting them.
type BillSummary struct {
	OrderItemsSubtotal   decimal.Decimal `json:"order_items_subtotal"`
	ServiceItemsSubtotal decimal.Decimal `json:"service_items_subtotal"`
	ItemsSubtotal        decimal.Decimal `json:"items_subtotal"`
	TotalBoxCost         decimal.Decimal `json:"total_box_cost"`
	TotalPrintingCost    decimal.Decimal `json:"total_printing_cost"`
	GrandTotal           decimal.Decimal `json:"grand_total"`
	TaxPercentage        decimal.Decimal `json:"tax_percentage"`
	TaxAmount            decimal.Decimal `json:"tax_amount"`
	TotalWithTax         decimal.Decimal `json:"total_with_tax"`
	TotalPaid            decimal.Decimal `json:"total_paid"`
	TotalAdjusted        decimal.Decimal `json:"total_adjusted"`
	PendingAmount        decimal.Decimal `json:"pending_amount"`
}

// Rounded returns a copy with every amount rounded to 2 places.
func (s BillSummary) Rounded() BillSummary {
	r := func(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
	return BillSummary{
		OrderItemsSubtotal:   r(s.OrderItemsSubtotal),
		ServiceItemsSubtotal: r(s.ServiceItemsSubtotal),
		ItemsSubtotal:        r(s.ItemsSubtotal),
		TotalBoxCost:         r(s.TotalBoxCost),
		TotalPrintingCost:    r(s.TotalPrintingCost),
		GrandTotal:           r(s.GrandTotal),
		TaxPercentage:        r(s.TaxPercentage),
		TaxAmount:            r(s.TaxAmount),
		TotalWithTax:         r(s.TotalWithTax),
		TotalPaid:            r(s.TotalPaid),
		TotalAdjusted:        r(s.TotalAdjusted),
		PendingAmount:        r(s.PendingAmount),
	}
}

// itemLineTotal is (price - discount) * quantity for one order item.
func itemLineTotal(item database.OrderItem) decimal.Decimal {
	unit := numericToDecimal(item.PricePerItem).Sub(numericToDecimal(item.DiscountAmount))
	return unit.Mul(decimal.NewFromInt32(item.Quantity))
}

// CalculateBillDetails totals an order's lines against the bill's frozen tax
// rate. Credits are the sums of payments and adjustments already recorded.
func CalculateBillDetails(taxPercentage decimal.Decimal, snap orderSnapshot, paid, adjusted decimal.Decimal) BillSummary {
	var s BillSummary
	for _, item := range snap.items {
		s.OrderItemsSubtotal = s.OrderItemsSubtotal.Add(itemLineTotal(item))
	}
	for _, b := range snap.boxOrders {
		s.TotalBoxCost = s.TotalBoxCost.Add(numericToDecimal(b.TotalBoxCost))
	}
	for _, j := range snap.printingJobs {
		s.TotalPrintingCost = s.TotalPrintingCost.Add(numericToDecimal(j.TotalPrintingCost))
	}
	for _, si := range snap.serviceItems {
		s.ServiceItemsSubtotal = s.ServiceItemsSubtotal.Add(numericToDecimal(si.TotalCost))
	}

	s.ItemsSubtotal = s.OrderItemsSubtotal.Add(s.ServiceItemsSubtotal)
	s.GrandTotal = s.ItemsSubtotal.Add(s.TotalBoxCost).Add(s.TotalPrintingCost)
	s.TaxPercentage = taxPercentage
	s.TaxAmount = s.GrandTotal.Mul(taxPercentage).Div(hundred)
	s.TotalWithTax = s.GrandTotal.Add(s.TaxAmount)

	s.TotalPaid = paid
	s.TotalAdjusted = adjusted
	s.PendingAmount = decimal.Max(decimal.Zero, s.TotalWithTax.Sub(paid).Sub(adjusted))
	return s
}

// derivePaymentStatus compares credits (payments plus adjustments) with the
// amount due. A bill nothing was credited to stays PENDING even when its
// total is zero.
func derivePaymentStatus(credited, due decimal.Decimal) string {
	switch {
	case !credited.IsPositive():
		return enum.PaymentStatusPending
	case credited.GreaterThanOrEqual(due):
		return enum.PaymentStatusPaid
	default:
		return enum.PaymentStatusPartial
	}
}

// BillDetail is a bill with its amounts recomputed from the current order.
type BillDetail struct {
	Bill    database.Bill
	Order   database.Order
	Summary BillSummary
}

func loadBillDetail(ctx context.Context, store BillStore, bill database.Bill) (BillDetail, error) {
	order, err := store.GetOrder(ctx, bill.OrderID)
	if err != nil {
		return BillDetail{}, notFound(err, ErrOrderNotFound)
	}
	snap, err := loadOrderSnapshot(ctx, store, bill.OrderID)
	if err != nil {
		return BillDetail{}, err
	}
	paid, err := store.SumPaymentsByBill(ctx, bill.ID)
	if err != nil {
		return BillDetail{}, fmt.Errorf("sum payments: %w", err)
	}
	adjusted, err := store.SumAdjustmentsByBill(ctx, bill.ID)
	if err != nil {
		return BillDetail{}, fmt.Errorf("sum adjustments: %w", err)
	}

	return BillDetail{
		Bill:    bill,
		Order:   order,
		Summary: CalculateBillDetails(numericToDecimal(bill.TaxPercentage), snap, numericToDecimal(paid), numericToDecimal(adjusted)),
	}, nil
}

// refreshPaymentStatus re-derives the bill's payment status. A move to PAID
// closes the order as FULLY_PAID unless it was already delivered. Lower
// statuses never touch the order.
func refreshPaymentStatus(ctx context.Context, store BillStore, billID uuid.UUID) (database.Bill, error) {
	bill, err := store.GetBill(ctx, billID)
	if err != nil {
		return database.Bill{}, notFound(err, ErrBillNotFound)
	}
	detail, err := loadBillDetail(ctx, store, bill)
	if err != nil {
		return database.Bill{}, err
	}

	credited := detail.Summary.TotalPaid.Add(detail.Summary.TotalAdjusted)
	next := derivePaymentStatus(credited, detail.Summary.TotalWithTax)
	if next == bill.PaymentStatus {
		return bill, nil
	}

	bill, err = store.UpdateBillPaymentStatus(ctx, database.UpdateBillPaymentStatusParams{
		ID:            bill.ID,
		PaymentStatus: next,
	})
	if err != nil {
		return database.Bill{}, fmt.Errorf("update payment status: %w", err)
	}

	if next == enum.PaymentStatusPaid && !isTerminalOrderStatus(detail.Order.OrderStatus) {
		_, err = store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
			ID:          detail.Order.ID,
			OrderStatus: enum.OrderStatusFullyPaid,
		})
		if err != nil {
			return database.Bill{}, fmt.Errorf("update order status: %w", err)
		}
	}
	return bill, nil
}

// lockBill locks the bill's order and then the bill. Order edits and
// production updates take the order lock first too, so every writer on one
// order queues on the same row.
func lockBill(ctx context.Context, store BillStore, billID uuid.UUID) (database.Bill, error) {
	bill, err := store.GetBill(ctx, billID)
	if err != nil {
		return database.Bill{}, notFound(err, ErrBillNotFound)
	}
	if _, err := store.GetOrderForUpdate(ctx, bill.OrderID); err != nil {
		return database.Bill{}, notFound(err, ErrOrderNotFound)
	}
	bill, err = store.GetBillForUpdate(ctx, bill.ID)
	if err != nil {
		return database.Bill{}, notFound(err, ErrBillNotFound)
	}
	return bill, nil
}

// BillingService records payments and adjustments and serves bill reads.
type BillingService struct {
	pool     TxBeginner
	newStore NewBillStore
	audit    AuditLogger
}

// NewBillingService creates a new BillingService. audit may be nil.
func NewBillingService(pool TxBeginner, newStore NewBillStore, audit AuditLogger) *BillingService {
	return &BillingService{pool: pool, newStore: newStore, audit: auditOrNop(audit)}
}

// RecordPaymentRequest is one customer payment against a bill.
type RecordPaymentRequest struct {
	StaffID        uuid.UUID
	BillID         uuid.UUID
	Amount         decimal.Decimal
	PaymentMode    string
	TransactionRef string
	Notes          string
}

// RecordAdjustmentRequest is a non-cash credit against a bill.
type RecordAdjustmentRequest struct {
	StaffID        uuid.UUID
	BillID         uuid.UUID
	AdjustmentType string
	Amount         decimal.Decimal
	Reason         string
}

// ListBillsFilter narrows ListBills. Nil fields match everything.
type ListBillsFilter struct {
	CustomerPhone *string
	PaymentStatus *string
	Limit         int32
	Offset        int32
}

// GetBill recomputes the bill's amounts on every read.
func (s *BillingService) GetBill(ctx context.Context, id uuid.UUID) (*BillDetail, error) {
	return s.readBill(ctx, func(store BillStore) (database.Bill, error) {
		return store.GetBill(ctx, id)
	})
}

// GetBillByOrder is GetBill keyed by the order.
func (s *BillingService) GetBillByOrder(ctx context.Context, orderID uuid.UUID) (*BillDetail, error) {
	return s.readBill(ctx, func(store BillStore) (database.Bill, error) {
		return store.GetBillByOrderID(ctx, orderID)
	})
}

func (s *BillingService) readBill(ctx context.Context, get func(BillStore) (database.Bill, error)) (*BillDetail, error) {
	var detail BillDetail
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		bill, err := get(store)
		if err != nil {
			return notFound(err, ErrBillNotFound)
		}
		detail, err = loadBillDetail(ctx, store, bill)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListBills returns bill details, newest first.
func (s *BillingService) ListBills(ctx context.Context, f ListBillsFilter) ([]BillDetail, error) {
	if f.PaymentStatus != nil && !enum.IsValid(*f.PaymentStatus,
		enum.PaymentStatusPending, enum.PaymentStatusPartial, enum.PaymentStatusPaid) {
		return nil, ErrInvalidStatus
	}

	var details []BillDetail
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		bills, err := store.ListBills(ctx, database.ListBillsParams{
			CustomerPhone: f.CustomerPhone,
			PaymentStatus: f.PaymentStatus,
			Limit:         f.Limit,
			Offset:        f.Offset,
		})
		if err != nil {
			return fmt.Errorf("list bills: %w", err)
		}
		details = make([]BillDetail, 0, len(bills))
		for _, b := range bills {
			d, err := loadBillDetail(ctx, store, b)
			if err != nil {
				return fmt.Errorf("bill %s: %w", b.ID, err)
			}
			details = append(details, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// RecordPayment stores the payment and refreshes the bill's payment status
// in the same transaction. Overpayment is accepted.
func (s *BillingService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*database.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !enum.IsValid(req.PaymentMode, enum.PaymentModeCash, enum.PaymentModeCard, enum.PaymentModeUPI) {
		return nil, ErrInvalidPaymentMode
	}

	var payment database.Payment
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		bill, err := lockBill(ctx, store, req.BillID)
		if err != nil {
			return err
		}

		payment, err = store.CreatePayment(ctx, database.CreatePaymentParams{
			BillID:         bill.ID,
			StaffID:        req.StaffID,
			Amount:         decimalToNumeric(req.Amount),
			PaymentMode:    req.PaymentMode,
			TransactionRef: req.TransactionRef,
			Notes:          req.Notes,
		})
		if err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		_, err = refreshPaymentStatus(ctx, store, bill.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionCreate,
		EntityType: enum.EntityPayment,
		EntityID:   payment.ID,
		Details:    map[string]interface{}{"bill_id": payment.BillID, "amount": req.Amount.String(), "payment_mode": payment.PaymentMode},
	})
	return &payment, nil
}

// RecordAdjustment stores a credit that counts towards the bill like a payment.
func (s *BillingService) RecordAdjustment(ctx context.Context, req RecordAdjustmentRequest) (*database.BillAdjustment, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !enum.IsValid(req.AdjustmentType,
		enum.AdjustmentTypeNegotiation, enum.AdjustmentTypeComplaint,
		enum.AdjustmentTypeGoodwill, enum.AdjustmentTypeOther) {
		return nil, ErrInvalidAdjustmentType
	}

	var adj database.BillAdjustment
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		bill, err := lockBill(ctx, store, req.BillID)
		if err != nil {
			return err
		}

		adj, err = store.CreateBillAdjustment(ctx, database.CreateBillAdjustmentParams{
			BillID:         bill.ID,
			StaffID:        req.StaffID,
			AdjustmentType: req.AdjustmentType,
			Amount:         decimalToNumeric(req.Amount),
			Reason:         req.Reason,
		})
		if err != nil {
			return fmt.Errorf("create bill adjustment: %w", err)
		}

		_, err = refreshPaymentStatus(ctx, store, bill.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionCreate,
		EntityType: enum.EntityBillAdjustment,
		EntityID:   adj.ID,
		Details:    map[string]interface{}{"bill_id": adj.BillID, "amount": req.Amount.String(), "adjustment_type": adj.AdjustmentType},
	})
	return &adj, nil
}

// ListPayments returns a bill's payments, oldest first.
func (s *BillingService) ListPayments(ctx context.Context, billID uuid.UUID) ([]database.Payment, error) {
	var payments []database.Payment
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		if _, err := store.GetBill(ctx, billID); err != nil {
			return notFound(err, ErrBillNotFound)
		}
		var err error
		payments, err = store.ListPaymentsByBill(ctx, billID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListAdjustments returns a bill's adjustments, oldest first.
func (s *BillingService) ListAdjustments(ctx context.Context, billID uuid.UUID) ([]database.BillAdjustment, error) {
	var adjustments []database.BillAdjustment
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		if _, err := store.GetBill(ctx, billID); err != nil {
			return notFound(err, ErrBillNotFound)
		}
		var err error
		adjustments, err = store.ListBillAdjustmentsByBill(ctx, billID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}
