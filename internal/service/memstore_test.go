package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// memDB is an in-memory stand-in for PostgreSQL. Writes land immediately and
// are undone on rollback; FOR UPDATE reads take a row lock held until the
// transaction ends. That is enough isolation for the service's locking rules.
type memDB struct {
	mu    sync.Mutex
	cond  *sync.Cond
	locks map[uuid.UUID]*memTx
	seq   int64

	// lockLog lists row ids in the order their locks were first taken.
	lockLog []uuid.UUID

	staff        map[uuid.UUID]database.Staff
	customers    map[uuid.UUID]database.Customer
	vendors      map[uuid.UUID]database.Provider
	printers     map[uuid.UUID]database.Provider
	studios      map[uuid.UUID]database.Provider
	boxMakers    map[uuid.UUID]database.Provider
	cards        map[uuid.UUID]database.Card
	inventory    map[uuid.UUID]database.InventoryTransaction
	orders       map[uuid.UUID]database.Order
	items        map[uuid.UUID]database.OrderItem
	printingJobs map[uuid.UUID]database.PrintingJob
	boxOrders    map[uuid.UUID]database.BoxOrder
	serviceItems map[uuid.UUID]database.ServiceOrderItem
	bills        map[uuid.UUID]database.Bill
	payments     map[uuid.UUID]database.Payment
	adjustments  map[uuid.UUID]database.BillAdjustment
	auditLogs    map[uuid.UUID]database.AuditLog
	createdAt    map[uuid.UUID]int64
}

func newMemDB() *memDB {
	db := &memDB{
		locks:        map[uuid.UUID]*memTx{},
		staff:        map[uuid.UUID]database.Staff{},
		customers:    map[uuid.UUID]database.Customer{},
		vendors:      map[uuid.UUID]database.Provider{},
		printers:     map[uuid.UUID]database.Provider{},
		studios:      map[uuid.UUID]database.Provider{},
		boxMakers:    map[uuid.UUID]database.Provider{},
		cards:        map[uuid.UUID]database.Card{},
		inventory:    map[uuid.UUID]database.InventoryTransaction{},
		orders:       map[uuid.UUID]database.Order{},
		items:        map[uuid.UUID]database.OrderItem{},
		printingJobs: map[uuid.UUID]database.PrintingJob{},
		boxOrders:    map[uuid.UUID]database.BoxOrder{},
		serviceItems: map[uuid.UUID]database.ServiceOrderItem{},
		bills:        map[uuid.UUID]database.Bill{},
		payments:     map[uuid.UUID]database.Payment{},
		adjustments:  map[uuid.UUID]database.BillAdjustment{},
		auditLogs:    map[uuid.UUID]database.AuditLog{},
		createdAt:    map[uuid.UUID]int64{},
	}
	db.cond = sync.NewCond(&db.mu)
	return db
}

func (db *memDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{db: db}, nil
}

// newID registers a fresh id with an increasing creation sequence so list
// queries come back in insertion order.
func (db *memDB) newID() uuid.UUID {
	db.seq++
	id := uuid.New()
	db.createdAt[id] = db.seq
	return id
}

func (db *memDB) store(d database.DBTX) *memStore {
	return &memStore{tx: d.(*memTx)}
}

func (db *memDB) orderStore(d database.DBTX) OrderStore           { return db.store(d) }
func (db *memDB) productionStore(d database.DBTX) ProductionStore { return db.store(d) }
func (db *memDB) billStore(d database.DBTX) BillStore             { return db.store(d) }
func (db *memDB) catalogStore(d database.DBTX) CatalogStore       { return db.store(d) }
func (db *memDB) analyticsStore(d database.DBTX) AnalyticsStore   { return db.store(d) }

// --- seeding, outside any transaction ---

func (db *memDB) seedStaff() uuid.UUID {
	id := db.newID()
	db.staff[id] = database.Staff{ID: id, Name: "Asha", Phone: "9000000001", Role: enum.StaffRoleAdmin, IsActive: true}
	return id
}

func (db *memDB) seedCustomer() uuid.UUID {
	id := db.newID()
	db.customers[id] = database.Customer{ID: id, Name: "Ravi", Phone: "9000000002", IsActive: true}
	return id
}

func (db *memDB) seedProvider(m map[uuid.UUID]database.Provider, name string) uuid.UUID {
	id := db.newID()
	m[id] = database.Provider{ID: id, Name: name, IsActive: true}
	return id
}

func (db *memDB) seedCard(quantity int32, sell, cost, maxDiscount string) uuid.UUID {
	id := db.newID()
	db.cards[id] = database.Card{
		ID:          id,
		VendorID:    uuid.New(),
		Barcode:     id.String()[:8],
		SellPrice:   makeNumeric(sell),
		CostPrice:   makeNumeric(cost),
		MaxDiscount: makeNumeric(maxDiscount),
		Quantity:    quantity,
		IsActive:    true,
	}
	return id
}

// cardQuantity reads a card's committed-or-pending quantity.
func (db *memDB) cardQuantity(id uuid.UUID) int32 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.cards[id].Quantity
}

func (db *memDB) inventoryFor(cardID uuid.UUID) []database.InventoryTransaction {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []database.InventoryTransaction
	for _, t := range db.inventory {
		if t.CardID == cardID {
			out = append(out, t)
		}
	}
	db.sortByCreation(len(out), func(i int) uuid.UUID { return out[i].ID }, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (db *memDB) sortByCreation(n int, id func(int) uuid.UUID, swap func(i, j int)) {
	sort.Sort(bySeq{n: n, id: id, swap: swap, seq: db.createdAt})
}

type bySeq struct {
	n    int
	id   func(int) uuid.UUID
	swap func(i, j int)
	seq  map[uuid.UUID]int64
}

func (s bySeq) Len() int           { return s.n }
func (s bySeq) Less(i, j int) bool { return s.seq[s.id(i)] < s.seq[s.id(j)] }
func (s bySeq) Swap(i, j int)      { s.swap(i, j) }

// --- transaction ---

type memTx struct {
	db   *memDB
	undo []func()
	held []uuid.UUID
	done bool
}

func (t *memTx) finish(rollback bool) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	if rollback {
		for i := len(t.undo) - 1; i >= 0; i-- {
			t.undo[i]()
		}
	}
	for _, id := range t.held {
		delete(t.db.locks, id)
	}
	t.db.cond.Broadcast()
}

// lockRow blocks until no other transaction holds id. Caller holds db.mu.
func (t *memTx) lockRow(id uuid.UUID) {
	for {
		owner, ok := t.db.locks[id]
		if !ok || owner == t {
			break
		}
		t.db.cond.Wait()
	}
	if _, ok := t.db.locks[id]; !ok {
		t.db.locks[id] = t
		t.held = append(t.held, id)
		t.db.lockLog = append(t.db.lockLog, id)
	}
}

func put[V any](t *memTx, m map[uuid.UUID]V, id uuid.UUID, v V) {
	old, existed := m[id]
	m[id] = v
	t.undo = append(t.undo, func() {
		if existed {
			m[id] = old
		} else {
			delete(m, id)
		}
	})
}

func del[V any](t *memTx, m map[uuid.UUID]V, id uuid.UUID) {
	old, existed := m[id]
	if !existed {
		return
	}
	delete(m, id)
	t.undo = append(t.undo, func() { m[id] = old })
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (t *memTx) Commit(ctx context.Context) error          { t.finish(false); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.finish(true); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (t *memTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (t *memTx) Conn() *pgx.Conn { panic("not implemented") }

// --- store ---

// memStore implements every store interface of the service package.
type memStore struct {
	tx *memTx
}

func (s *memStore) lock() *memDB {
	s.tx.db.mu.Lock()
	return s.tx.db
}

func (s *memStore) unlock() { s.tx.db.mu.Unlock() }

func get[V any](m map[uuid.UUID]V, id uuid.UUID) (V, error) {
	v, ok := m[id]
	if !ok {
		return v, pgx.ErrNoRows
	}
	return v, nil
}

func collect[V any](db *memDB, m map[uuid.UUID]V, keep func(V) bool, id func(V) uuid.UUID) []V {
	out := []V{}
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	db.sortByCreation(len(out), func(i int) uuid.UUID { return id(out[i]) }, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func sumNumeric[V any](vs []V, amount func(V) pgtype.Numeric) pgtype.Numeric {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(numericToDecimal(amount(v)))
	}
	return decimalToNumeric(total)
}

func (s *memStore) GetStaffByID(ctx context.Context, id uuid.UUID) (database.Staff, error) {
	db := s.lock()
	defer s.unlock()
	st, err := get(db.staff, id)
	if err == nil && !st.IsActive {
		return database.Staff{}, pgx.ErrNoRows
	}
	return st, err
}

func (s *memStore) GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error) {
	db := s.lock()
	defer s.unlock()
	c, err := get(db.customers, id)
	if err == nil && !c.IsActive {
		return database.Customer{}, pgx.ErrNoRows
	}
	return c, err
}

func (s *memStore) GetVendor(ctx context.Context, id uuid.UUID) (database.Provider, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.vendors, id)
}

func (s *memStore) GetPrinter(ctx context.Context, id uuid.UUID) (database.Provider, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.printers, id)
}

func (s *memStore) GetTracingStudio(ctx context.Context, id uuid.UUID) (database.Provider, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.studios, id)
}

func (s *memStore) GetBoxMaker(ctx context.Context, id uuid.UUID) (database.Provider, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.boxMakers, id)
}

// cards and ledger

func (s *memStore) CreateCard(ctx context.Context, arg database.CreateCardParams) (database.Card, error) {
	db := s.lock()
	defer s.unlock()
	for _, c := range db.cards {
		if c.Barcode == arg.Barcode {
			return database.Card{}, &pgconn.PgError{Code: "23505", ConstraintName: "cards_barcode_key"}
		}
	}
	c := database.Card{
		ID:          db.newID(),
		VendorID:    arg.VendorID,
		Barcode:     arg.Barcode,
		SellPrice:   arg.SellPrice,
		CostPrice:   arg.CostPrice,
		MaxDiscount: arg.MaxDiscount,
		Quantity:    arg.Quantity,
		IsActive:    true,
	}
	put(s.tx, db.cards, c.ID, c)
	return c, nil
}

func (s *memStore) GetCard(ctx context.Context, id uuid.UUID) (database.Card, error) {
	db := s.lock()
	defer s.unlock()
	c, ok := db.cards[id]
	if !ok || !c.IsActive {
		return database.Card{}, pgx.ErrNoRows
	}
	return c, nil
}

func (s *memStore) GetCardAnyStatus(ctx context.Context, id uuid.UUID) (database.Card, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.cards, id)
}

func (s *memStore) GetCardForUpdate(ctx context.Context, id uuid.UUID) (database.Card, error) {
	db := s.lock()
	defer s.unlock()
	c, ok := db.cards[id]
	if !ok || !c.IsActive {
		return database.Card{}, pgx.ErrNoRows
	}
	s.tx.lockRow(id)
	return c, nil
}

func (s *memStore) LockCard(ctx context.Context, id uuid.UUID) (database.Card, error) {
	db := s.lock()
	defer s.unlock()
	c, ok := db.cards[id]
	if !ok {
		return database.Card{}, pgx.ErrNoRows
	}
	s.tx.lockRow(id)
	return c, nil
}

func (s *memStore) UpdateCard(ctx context.Context, arg database.UpdateCardParams) (database.Card, error) {
	db := s.lock()
	defer s.unlock()
	c, err := get(db.cards, arg.ID)
	if err != nil {
		return c, err
	}
	c.VendorID = arg.VendorID
	c.SellPrice = arg.SellPrice
	c.CostPrice = arg.CostPrice
	c.MaxDiscount = arg.MaxDiscount
	put(s.tx, db.cards, c.ID, c)
	return c, nil
}

func (s *memStore) DeactivateCard(ctx context.Context, id uuid.UUID) (database.Card, error) {
	db := s.lock()
	defer s.unlock()
	c, err := get(db.cards, id)
	if err != nil {
		return c, err
	}
	c.IsActive = false
	put(s.tx, db.cards, c.ID, c)
	return c, nil
}

func (s *memStore) UpdateCardQuantity(ctx context.Context, arg database.UpdateCardQuantityParams) (database.Card, error) {
	db := s.lock()
	defer s.unlock()
	c, err := get(db.cards, arg.ID)
	if err != nil {
		return c, err
	}
	if arg.Quantity < 0 {
		return database.Card{}, &pgconn.PgError{Code: "23514", ConstraintName: "cards_quantity_check"}
	}
	c.Quantity = arg.Quantity
	put(s.tx, db.cards, c.ID, c)
	return c, nil
}

func (s *memStore) ListCards(ctx context.Context, arg database.ListCardsParams) ([]database.Card, error) {
	db := s.lock()
	defer s.unlock()
	out := collect(db, db.cards, func(c database.Card) bool { return c.IsActive }, func(c database.Card) uuid.UUID { return c.ID })
	return page(out, arg.Limit, arg.Offset), nil
}

func page[V any](vs []V, limit, offset int32) []V {
	if int(offset) >= len(vs) {
		return []V{}
	}
	vs = vs[offset:]
	if limit > 0 && int(limit) < len(vs) {
		vs = vs[:limit]
	}
	return vs
}

func (s *memStore) CreateInventoryTransaction(ctx context.Context, arg database.CreateInventoryTransactionParams) (database.InventoryTransaction, error) {
	db := s.lock()
	defer s.unlock()
	t := database.InventoryTransaction{
		ID:              db.newID(),
		CardID:          arg.CardID,
		TransactionType: arg.TransactionType,
		QuantityChanged: arg.QuantityChanged,
		CostPrice:       arg.CostPrice,
		OrderItemID:     arg.OrderItemID,
		PerformedBy:     arg.PerformedBy,
		Notes:           arg.Notes,
	}
	put(s.tx, db.inventory, t.ID, t)
	return t, nil
}

func (s *memStore) ListInventoryTransactionsByCard(ctx context.Context, cardID uuid.UUID) ([]database.InventoryTransaction, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.inventory,
		func(t database.InventoryTransaction) bool { return t.CardID == cardID },
		func(t database.InventoryTransaction) uuid.UUID { return t.ID }), nil
}

func (s *memStore) GetSaleCostForOrderItem(ctx context.Context, orderItemID uuid.UUID) (pgtype.Numeric, error) {
	db := s.lock()
	defer s.unlock()
	sales := collect(db, db.inventory,
		func(t database.InventoryTransaction) bool {
			return t.TransactionType == enum.InventoryTxSale && t.OrderItemID.Valid && uuid.UUID(t.OrderItemID.Bytes) == orderItemID
		},
		func(t database.InventoryTransaction) uuid.UUID { return t.ID })
	if len(sales) == 0 {
		return pgtype.Numeric{}, pgx.ErrNoRows
	}
	return sales[0].CostPrice, nil
}

// orders

func (s *memStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	db := s.lock()
	defer s.unlock()
	o := database.Order{
		ID:                 db.newID(),
		CustomerID:         arg.CustomerID,
		StaffID:            arg.StaffID,
		Name:               arg.Name,
		OrderDate:          arg.OrderDate,
		DeliveryDate:       arg.DeliveryDate,
		OrderStatus:        arg.OrderStatus,
		SpecialInstruction: arg.SpecialInstruction,
	}
	put(s.tx, db.orders, o.ID, o)
	return o, nil
}

func (s *memStore) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.orders, id)
}

func (s *memStore) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error) {
	db := s.lock()
	defer s.unlock()
	if _, ok := db.orders[id]; !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	s.tx.lockRow(id)
	return db.orders[id], nil
}

func (s *memStore) UpdateOrderDetails(ctx context.Context, arg database.UpdateOrderDetailsParams) (database.Order, error) {
	db := s.lock()
	defer s.unlock()
	o, err := get(db.orders, arg.ID)
	if err != nil {
		return o, err
	}
	o.Name, o.DeliveryDate, o.SpecialInstruction = arg.Name, arg.DeliveryDate, arg.SpecialInstruction
	put(s.tx, db.orders, o.ID, o)
	return o, nil
}

func (s *memStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	db := s.lock()
	defer s.unlock()
	o, err := get(db.orders, arg.ID)
	if err != nil {
		return o, err
	}
	o.OrderStatus = arg.OrderStatus
	put(s.tx, db.orders, o.ID, o)
	return o, nil
}

// DeleteOrder mirrors the ON DELETE rules of the schema.
func (s *memStore) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	db := s.lock()
	defer s.unlock()
	for _, it := range db.items {
		if it.OrderID == id {
			s.deleteItemLocked(db, it.ID)
		}
	}
	for _, si := range db.serviceItems {
		if si.OrderID == id {
			del(s.tx, db.serviceItems, si.ID)
		}
	}
	for _, b := range db.bills {
		if b.OrderID == id {
			for _, p := range db.payments {
				if p.BillID == b.ID {
					del(s.tx, db.payments, p.ID)
				}
			}
			for _, a := range db.adjustments {
				if a.BillID == b.ID {
					del(s.tx, db.adjustments, a.ID)
				}
			}
			del(s.tx, db.bills, b.ID)
		}
	}
	del(s.tx, db.orders, id)
	return nil
}

func (s *memStore) ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	db := s.lock()
	defer s.unlock()
	out := collect(db, db.orders, func(o database.Order) bool {
		if arg.CustomerID.Valid && o.CustomerID != uuid.UUID(arg.CustomerID.Bytes) {
			return false
		}
		if arg.StartDate.Valid && o.OrderDate.Before(arg.StartDate.Time) {
			return false
		}
		if arg.EndDate.Valid && !o.OrderDate.Before(arg.EndDate.Time) {
			return false
		}
		return true
	}, func(o database.Order) uuid.UUID { return o.ID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return page(out, arg.Limit, arg.Offset), nil
}

func inRange(t time.Time, r database.DateRangeParams) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (s *memStore) ListOrdersByDateRange(ctx context.Context, arg database.DateRangeParams) ([]database.Order, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.orders, func(o database.Order) bool { return inRange(o.OrderDate, arg) },
		func(o database.Order) uuid.UUID { return o.ID }), nil
}

func (s *memStore) CountOrdersByDateRange(ctx context.Context, arg database.DateRangeParams) (int64, error) {
	orders, _ := s.ListOrdersByDateRange(ctx, arg)
	return int64(len(orders)), nil
}

func (s *memStore) CountPendingOrders(ctx context.Context) (int64, error) {
	db := s.lock()
	defer s.unlock()
	var n int64
	for _, o := range db.orders {
		if !isTerminalOrderStatus(o.OrderStatus) {
			n++
		}
	}
	return n, nil
}

// order items

func (s *memStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	db := s.lock()
	defer s.unlock()
	it := database.OrderItem{
		ID:               db.newID(),
		OrderID:          arg.OrderID,
		CardID:           arg.CardID,
		Quantity:         arg.Quantity,
		PricePerItem:     arg.PricePerItem,
		DiscountAmount:   arg.DiscountAmount,
		RequiresBox:      arg.RequiresBox,
		RequiresPrinting: arg.RequiresPrinting,
	}
	put(s.tx, db.items, it.ID, it)
	return it, nil
}

func (s *memStore) GetOrderItem(ctx context.Context, id uuid.UUID) (database.OrderItem, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.items, id)
}

func (s *memStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.items, func(it database.OrderItem) bool { return it.OrderID == orderID },
		func(it database.OrderItem) uuid.UUID { return it.ID }), nil
}

func (s *memStore) UpdateOrderItem(ctx context.Context, arg database.UpdateOrderItemParams) (database.OrderItem, error) {
	db := s.lock()
	defer s.unlock()
	it, err := get(db.items, arg.ID)
	if err != nil {
		return it, err
	}
	it.Quantity, it.DiscountAmount = arg.Quantity, arg.DiscountAmount
	it.RequiresBox, it.RequiresPrinting = arg.RequiresBox, arg.RequiresPrinting
	put(s.tx, db.items, it.ID, it)
	return it, nil
}

func (s *memStore) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	db := s.lock()
	defer s.unlock()
	s.deleteItemLocked(db, id)
	return nil
}

// deleteItemLocked cascades to production runs and clears ledger links.
func (s *memStore) deleteItemLocked(db *memDB, id uuid.UUID) {
	for _, j := range db.printingJobs {
		if j.OrderItemID == id {
			del(s.tx, db.printingJobs, j.ID)
		}
	}
	for _, b := range db.boxOrders {
		if b.OrderItemID == id {
			del(s.tx, db.boxOrders, b.ID)
		}
	}
	for _, t := range db.inventory {
		if t.OrderItemID.Valid && uuid.UUID(t.OrderItemID.Bytes) == id {
			t.OrderItemID = pgtype.UUID{}
			put(s.tx, db.inventory, t.ID, t)
		}
	}
	del(s.tx, db.items, id)
}

// printing jobs

func (s *memStore) CreatePrintingJob(ctx context.Context, arg database.CreatePrintingJobParams) (database.PrintingJob, error) {
	db := s.lock()
	defer s.unlock()
	j := database.PrintingJob{
		ID:                  db.newID(),
		OrderItemID:         arg.OrderItemID,
		PrinterID:           arg.PrinterID,
		TracingStudioID:     arg.TracingStudioID,
		PrintQuantity:       arg.PrintQuantity,
		TotalPrintingCost:   arg.TotalPrintingCost,
		PrintingStatus:      arg.PrintingStatus,
		EstimatedCompletion: arg.EstimatedCompletion,
	}
	put(s.tx, db.printingJobs, j.ID, j)
	return j, nil
}

func (s *memStore) GetPrintingJob(ctx context.Context, id uuid.UUID) (database.PrintingJob, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.printingJobs, id)
}

func (s *memStore) GetPrintingJobForUpdate(ctx context.Context, id uuid.UUID) (database.PrintingJob, error) {
	db := s.lock()
	defer s.unlock()
	if _, ok := db.printingJobs[id]; !ok {
		return database.PrintingJob{}, pgx.ErrNoRows
	}
	s.tx.lockRow(id)
	return db.printingJobs[id], nil
}

func (s *memStore) ListPrintingJobsByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.PrintingJob, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.printingJobs, func(j database.PrintingJob) bool { return j.OrderItemID == orderItemID },
		func(j database.PrintingJob) uuid.UUID { return j.ID }), nil
}

func (s *memStore) ListPrintingJobsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.PrintingJob, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.printingJobs, func(j database.PrintingJob) bool { return db.items[j.OrderItemID].OrderID == orderID },
		func(j database.PrintingJob) uuid.UUID { return j.ID }), nil
}

func (s *memStore) UpdatePrintingJob(ctx context.Context, arg database.UpdatePrintingJobParams) (database.PrintingJob, error) {
	db := s.lock()
	defer s.unlock()
	j, err := get(db.printingJobs, arg.ID)
	if err != nil {
		return j, err
	}
	j.PrinterID, j.TracingStudioID = arg.PrinterID, arg.TracingStudioID
	j.PrintQuantity = arg.PrintQuantity
	j.TotalPrintingCost = arg.TotalPrintingCost
	j.TotalPrintingExpense, j.TotalTracingExpense = arg.TotalPrintingExpense, arg.TotalTracingExpense
	j.PrintingStatus, j.EstimatedCompletion = arg.PrintingStatus, arg.EstimatedCompletion
	put(s.tx, db.printingJobs, j.ID, j)
	return j, nil
}

func (s *memStore) DeletePrintingJobsByOrderItem(ctx context.Context, orderItemID uuid.UUID) error {
	db := s.lock()
	defer s.unlock()
	for _, j := range db.printingJobs {
		if j.OrderItemID == orderItemID {
			del(s.tx, db.printingJobs, j.ID)
		}
	}
	return nil
}

func (s *memStore) CountPendingPrintingJobs(ctx context.Context) (int64, error) {
	db := s.lock()
	defer s.unlock()
	var n int64
	for _, j := range db.printingJobs {
		if j.PrintingStatus != enum.PrintingStatusCompleted {
			n++
		}
	}
	return n, nil
}

// box orders

func (s *memStore) CreateBoxOrder(ctx context.Context, arg database.CreateBoxOrderParams) (database.BoxOrder, error) {
	db := s.lock()
	defer s.unlock()
	b := database.BoxOrder{
		ID:                  db.newID(),
		OrderItemID:         arg.OrderItemID,
		BoxMakerID:          arg.BoxMakerID,
		BoxType:             arg.BoxType,
		BoxQuantity:         arg.BoxQuantity,
		TotalBoxCost:        arg.TotalBoxCost,
		BoxStatus:           arg.BoxStatus,
		EstimatedCompletion: arg.EstimatedCompletion,
	}
	put(s.tx, db.boxOrders, b.ID, b)
	return b, nil
}

func (s *memStore) GetBoxOrder(ctx context.Context, id uuid.UUID) (database.BoxOrder, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.boxOrders, id)
}

func (s *memStore) GetBoxOrderForUpdate(ctx context.Context, id uuid.UUID) (database.BoxOrder, error) {
	db := s.lock()
	defer s.unlock()
	if _, ok := db.boxOrders[id]; !ok {
		return database.BoxOrder{}, pgx.ErrNoRows
	}
	s.tx.lockRow(id)
	return db.boxOrders[id], nil
}

func (s *memStore) ListBoxOrdersByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.BoxOrder, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.boxOrders, func(b database.BoxOrder) bool { return b.OrderItemID == orderItemID },
		func(b database.BoxOrder) uuid.UUID { return b.ID }), nil
}

func (s *memStore) ListBoxOrdersByOrder(ctx context.Context, orderID uuid.UUID) ([]database.BoxOrder, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.boxOrders, func(b database.BoxOrder) bool { return db.items[b.OrderItemID].OrderID == orderID },
		func(b database.BoxOrder) uuid.UUID { return b.ID }), nil
}

func (s *memStore) UpdateBoxOrder(ctx context.Context, arg database.UpdateBoxOrderParams) (database.BoxOrder, error) {
	db := s.lock()
	defer s.unlock()
	b, err := get(db.boxOrders, arg.ID)
	if err != nil {
		return b, err
	}
	b.BoxMakerID, b.BoxType, b.BoxQuantity = arg.BoxMakerID, arg.BoxType, arg.BoxQuantity
	b.TotalBoxCost, b.TotalBoxExpense = arg.TotalBoxCost, arg.TotalBoxExpense
	b.BoxStatus, b.EstimatedCompletion = arg.BoxStatus, arg.EstimatedCompletion
	put(s.tx, db.boxOrders, b.ID, b)
	return b, nil
}

func (s *memStore) DeleteBoxOrdersByOrderItem(ctx context.Context, orderItemID uuid.UUID) error {
	db := s.lock()
	defer s.unlock()
	for _, b := range db.boxOrders {
		if b.OrderItemID == orderItemID {
			del(s.tx, db.boxOrders, b.ID)
		}
	}
	return nil
}

func (s *memStore) CountPendingBoxOrders(ctx context.Context) (int64, error) {
	db := s.lock()
	defer s.unlock()
	var n int64
	for _, b := range db.boxOrders {
		if b.BoxStatus != enum.BoxStatusCompleted {
			n++
		}
	}
	return n, nil
}

// service items

func (s *memStore) CreateServiceOrderItem(ctx context.Context, arg database.CreateServiceOrderItemParams) (database.ServiceOrderItem, error) {
	db := s.lock()
	defer s.unlock()
	si := database.ServiceOrderItem{
		ID:                db.newID(),
		OrderID:           arg.OrderID,
		ServiceType:       arg.ServiceType,
		Quantity:          arg.Quantity,
		ProcurementStatus: arg.ProcurementStatus,
		TotalCost:         arg.TotalCost,
		TotalExpense:      arg.TotalExpense,
		Description:       arg.Description,
	}
	put(s.tx, db.serviceItems, si.ID, si)
	return si, nil
}

func (s *memStore) GetServiceOrderItem(ctx context.Context, id uuid.UUID) (database.ServiceOrderItem, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.serviceItems, id)
}

func (s *memStore) ListServiceOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ServiceOrderItem, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.serviceItems, func(si database.ServiceOrderItem) bool { return si.OrderID == orderID },
		func(si database.ServiceOrderItem) uuid.UUID { return si.ID }), nil
}

func (s *memStore) UpdateServiceOrderItem(ctx context.Context, arg database.UpdateServiceOrderItemParams) (database.ServiceOrderItem, error) {
	db := s.lock()
	defer s.unlock()
	si, err := get(db.serviceItems, arg.ID)
	if err != nil {
		return si, err
	}
	si.Quantity, si.ProcurementStatus = arg.Quantity, arg.ProcurementStatus
	si.TotalCost, si.TotalExpense, si.Description = arg.TotalCost, arg.TotalExpense, arg.Description
	put(s.tx, db.serviceItems, si.ID, si)
	return si, nil
}

func (s *memStore) DeleteServiceOrderItem(ctx context.Context, id uuid.UUID) error {
	db := s.lock()
	defer s.unlock()
	del(s.tx, db.serviceItems, id)
	return nil
}

// bills

func (s *memStore) CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error) {
	db := s.lock()
	defer s.unlock()
	for _, b := range db.bills {
		if b.OrderID == arg.OrderID {
			return database.Bill{}, &pgconn.PgError{Code: "23505", ConstraintName: "bills_order_id_key"}
		}
	}
	b := database.Bill{
		ID:            db.newID(),
		OrderID:       arg.OrderID,
		TaxPercentage: arg.TaxPercentage,
		PaymentStatus: enum.PaymentStatusPending,
	}
	put(s.tx, db.bills, b.ID, b)
	return b, nil
}

func (s *memStore) GetBill(ctx context.Context, id uuid.UUID) (database.Bill, error) {
	db := s.lock()
	defer s.unlock()
	return get(db.bills, id)
}

func (s *memStore) GetBillByOrderID(ctx context.Context, orderID uuid.UUID) (database.Bill, error) {
	db := s.lock()
	defer s.unlock()
	for _, b := range db.bills {
		if b.OrderID == orderID {
			return b, nil
		}
	}
	return database.Bill{}, pgx.ErrNoRows
}

func (s *memStore) GetBillForUpdate(ctx context.Context, id uuid.UUID) (database.Bill, error) {
	db := s.lock()
	defer s.unlock()
	if _, ok := db.bills[id]; !ok {
		return database.Bill{}, pgx.ErrNoRows
	}
	s.tx.lockRow(id)
	return db.bills[id], nil
}

func (s *memStore) UpdateBillPaymentStatus(ctx context.Context, arg database.UpdateBillPaymentStatusParams) (database.Bill, error) {
	db := s.lock()
	defer s.unlock()
	b, err := get(db.bills, arg.ID)
	if err != nil {
		return b, err
	}
	b.PaymentStatus = arg.PaymentStatus
	put(s.tx, db.bills, b.ID, b)
	return b, nil
}

func (s *memStore) ListBills(ctx context.Context, arg database.ListBillsParams) ([]database.Bill, error) {
	db := s.lock()
	defer s.unlock()
	out := collect(db, db.bills, func(b database.Bill) bool {
		if arg.PaymentStatus != nil && b.PaymentStatus != *arg.PaymentStatus {
			return false
		}
		if arg.CustomerPhone != nil && db.customers[db.orders[b.OrderID].CustomerID].Phone != *arg.CustomerPhone {
			return false
		}
		return true
	}, func(b database.Bill) uuid.UUID { return b.ID })
	return page(out, arg.Limit, arg.Offset), nil
}

func (s *memStore) CountPendingBills(ctx context.Context) (int64, error) {
	db := s.lock()
	defer s.unlock()
	var n int64
	for _, b := range db.bills {
		if b.PaymentStatus != enum.PaymentStatusPaid {
			n++
		}
	}
	return n, nil
}

// payments and adjustments

func (s *memStore) CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
	db := s.lock()
	defer s.unlock()
	p := database.Payment{
		ID:             db.newID(),
		BillID:         arg.BillID,
		StaffID:        arg.StaffID,
		Amount:         arg.Amount,
		PaymentMode:    arg.PaymentMode,
		TransactionRef: arg.TransactionRef,
		Notes:          arg.Notes,
	}
	put(s.tx, db.payments, p.ID, p)
	return p, nil
}

func (s *memStore) ListPaymentsByBill(ctx context.Context, billID uuid.UUID) ([]database.Payment, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.payments, func(p database.Payment) bool { return p.BillID == billID },
		func(p database.Payment) uuid.UUID { return p.ID }), nil
}

func (s *memStore) SumPaymentsByBill(ctx context.Context, billID uuid.UUID) (pgtype.Numeric, error) {
	ps, _ := s.ListPaymentsByBill(ctx, billID)
	return sumNumeric(ps, func(p database.Payment) pgtype.Numeric { return p.Amount }), nil
}

func (s *memStore) CountPaymentsByBill(ctx context.Context, billID uuid.UUID) (int64, error) {
	ps, _ := s.ListPaymentsByBill(ctx, billID)
	return int64(len(ps)), nil
}

func (s *memStore) CreateBillAdjustment(ctx context.Context, arg database.CreateBillAdjustmentParams) (database.BillAdjustment, error) {
	db := s.lock()
	defer s.unlock()
	a := database.BillAdjustment{
		ID:             db.newID(),
		BillID:         arg.BillID,
		StaffID:        arg.StaffID,
		AdjustmentType: arg.AdjustmentType,
		Amount:         arg.Amount,
		Reason:         arg.Reason,
	}
	put(s.tx, db.adjustments, a.ID, a)
	return a, nil
}

func (s *memStore) ListBillAdjustmentsByBill(ctx context.Context, billID uuid.UUID) ([]database.BillAdjustment, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.adjustments, func(a database.BillAdjustment) bool { return a.BillID == billID },
		func(a database.BillAdjustment) uuid.UUID { return a.ID }), nil
}

func (s *memStore) SumAdjustmentsByBill(ctx context.Context, billID uuid.UUID) (pgtype.Numeric, error) {
	as, _ := s.ListBillAdjustmentsByBill(ctx, billID)
	return sumNumeric(as, func(a database.BillAdjustment) pgtype.Numeric { return a.Amount }), nil
}

func (s *memStore) CountAdjustmentsByBill(ctx context.Context, billID uuid.UUID) (int64, error) {
	as, _ := s.ListBillAdjustmentsByBill(ctx, billID)
	return int64(len(as)), nil
}

// dashboard counters

func (s *memStore) CountLowStockCards(ctx context.Context, arg database.CountLowStockCardsParams) (int64, error) {
	db := s.lock()
	defer s.unlock()
	var n int64
	for _, c := range db.cards {
		if c.IsActive && c.Quantity > arg.OutOfStockThreshold && c.Quantity <= arg.LowThreshold {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CountOutOfStockCards(ctx context.Context, threshold int32) (int64, error) {
	db := s.lock()
	defer s.unlock()
	var n int64
	for _, c := range db.cards {
		if c.IsActive && c.Quantity <= threshold {
			n++
		}
	}
	return n, nil
}

func byStock(cards []database.Card) []database.Card {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Quantity != cards[j].Quantity {
			return cards[i].Quantity < cards[j].Quantity
		}
		return cards[i].Barcode < cards[j].Barcode
	})
	return cards
}

func (s *memStore) ListLowStockCards(ctx context.Context, arg database.ListLowStockCardsParams) ([]database.Card, error) {
	db := s.lock()
	defer s.unlock()
	return byStock(collect(db, db.cards, func(c database.Card) bool {
		return c.IsActive && c.Quantity > arg.OutOfStockThreshold && c.Quantity <= arg.LowThreshold
	}, func(c database.Card) uuid.UUID { return c.ID })), nil
}

func (s *memStore) ListOutOfStockCards(ctx context.Context, threshold int32) ([]database.Card, error) {
	db := s.lock()
	defer s.unlock()
	return byStock(collect(db, db.cards, func(c database.Card) bool {
		return c.IsActive && c.Quantity <= threshold
	}, func(c database.Card) uuid.UUID { return c.ID })), nil
}

func (s *memStore) ListPendingOrders(ctx context.Context) ([]database.Order, error) {
	db := s.lock()
	defer s.unlock()
	out := collect(db, db.orders, func(o database.Order) bool { return !isTerminalOrderStatus(o.OrderStatus) },
		func(o database.Order) uuid.UUID { return o.ID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].DeliveryDate.Before(out[j].DeliveryDate) })
	return out, nil
}

func (s *memStore) ListPendingBills(ctx context.Context) ([]database.Bill, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.bills, func(b database.Bill) bool { return b.PaymentStatus != enum.PaymentStatusPaid },
		func(b database.Bill) uuid.UUID { return b.ID }), nil
}

func (s *memStore) ListPendingPrintingJobs(ctx context.Context) ([]database.PrintingJob, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.printingJobs, func(j database.PrintingJob) bool { return j.PrintingStatus != enum.PrintingStatusCompleted },
		func(j database.PrintingJob) uuid.UUID { return j.ID }), nil
}

func (s *memStore) ListPendingBoxOrders(ctx context.Context) ([]database.BoxOrder, error) {
	db := s.lock()
	defer s.unlock()
	return collect(db, db.boxOrders, func(b database.BoxOrder) bool { return b.BoxStatus != enum.BoxStatusCompleted },
		func(b database.BoxOrder) uuid.UUID { return b.ID }), nil
}

func (s *memStore) CreateAuditLog(ctx context.Context, arg database.CreateAuditLogParams) (database.AuditLog, error) {
	db := s.lock()
	defer s.unlock()
	l := database.AuditLog{
		ID:         db.newID(),
		StaffID:    arg.StaffID,
		Action:     arg.Action,
		EntityType: arg.EntityType,
		EntityID:   arg.EntityID,
		Details:    arg.Details,
	}
	put(s.tx, db.auditLogs, l.ID, l)
	return l, nil
}
