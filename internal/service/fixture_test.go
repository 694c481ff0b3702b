package service

import (
	"context"
	"testing"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	return numericToDecimal(n).Equal(decimal.RequireFromString(expected))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func ptr[T any](v T) *T { return &v }

// fixture wires every service to one in-memory database.
type fixture struct {
	db         *memDB
	clock      *clockwork.FakeClock
	orders     *OrderService
	production *ProductionService
	billing    *BillingService
	inventory  *InventoryService
	analytics  *AnalyticsService
	staffID    uuid.UUID
	customerID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newMemDB()
	clock := clockwork.NewFakeClockAt(testNow)
	return &fixture{
		db:         db,
		clock:      clock,
		orders:     NewOrderService(db, db.orderStore, clock, dec("18"), nil),
		production: NewProductionService(db, db.productionStore, clock, nil),
		billing:    NewBillingService(db, db.billStore, nil),
		inventory:  NewInventoryService(db, db.catalogStore, nil),
		analytics:  NewAnalyticsService(db, db.analyticsStore, clock, 250, 50),
		staffID:    db.seedStaff(),
		customerID: db.seedCustomer(),
	}
}

func (f *fixture) orderRequest(items ...OrderItemInput) CreateOrderRequest {
	return CreateOrderRequest{
		CustomerID:   f.customerID,
		StaffID:      f.staffID,
		Name:         "Wedding cards",
		DeliveryDate: testNow.AddDate(0, 0, 7),
		Items:        items,
	}
}

func (f *fixture) mustCreateOrder(t *testing.T, req CreateOrderRequest) *CreateOrderResult {
	t.Helper()
	res, err := f.orders.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return res
}

func (f *fixture) mustGetOrder(t *testing.T, id uuid.UUID) *OrderDetail {
	t.Helper()
	d, err := f.orders.GetOrder(context.Background(), id)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	return d
}

func (f *fixture) orderStatus(id uuid.UUID) string {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.orders[id].OrderStatus
}

func (f *fixture) item(id uuid.UUID) database.OrderItem {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.items[id]
}

func (f *fixture) tableSizes() (orders, items, inventory int) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return len(f.db.orders), len(f.db.items), len(f.db.inventory)
}
