package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// AnalyticsStore defines the DB methods needed by profit and dashboard reports.
// Satisfied by *database.Queries.
type AnalyticsStore interface {
	StatusStore
	ListOrdersByDateRange(ctx context.Context, arg database.DateRangeParams) ([]database.Order, error)
	CountOrdersByDateRange(ctx context.Context, arg database.DateRangeParams) (int64, error)
	GetSaleCostForOrderItem(ctx context.Context, orderItemID uuid.UUID) (pgtype.Numeric, error)
	GetCardAnyStatus(ctx context.Context, id uuid.UUID) (database.Card, error)

	CountLowStockCards(ctx context.Context, arg database.CountLowStockCardsParams) (int64, error)
	CountOutOfStockCards(ctx context.Context, threshold int32) (int64, error)
	CountPendingOrders(ctx context.Context) (int64, error)
	CountPendingBills(ctx context.Context) (int64, error)
	CountPendingPrintingJobs(ctx context.Context) (int64, error)
	CountPendingBoxOrders(ctx context.Context) (int64, error)

	ListLowStockCards(ctx context.Context, arg database.ListLowStockCardsParams) ([]database.Card, error)
	ListOutOfStockCards(ctx context.Context, threshold int32) ([]database.Card, error)
	ListPendingOrders(ctx context.Context) ([]database.Order, error)
	ListPendingBills(ctx context.Context) ([]database.Bill, error)
	ListPendingPrintingJobs(ctx context.Context) ([]database.PrintingJob, error)
	ListPendingBoxOrders(ctx context.Context) ([]database.BoxOrder, error)
}

// NewAnalyticsStore creates an AnalyticsStore from a DBTX (pool or tx).
type NewAnalyticsStore func(db database.DBTX) AnalyticsStore

// AnalyticsService reports accrual profit and operational counters.
type AnalyticsService struct {
	pool       TxBeginner
	newStore   NewAnalyticsStore
	clock      clockwork.Clock
	lowStock   int32
	outOfStock int32
}

// NewAnalyticsService creates a new AnalyticsService. Cards at or below
// outOfStock count as out of stock; above it and at or below lowStock as low.
func NewAnalyticsService(pool TxBeginner, newStore NewAnalyticsStore, clock clockwork.Clock, lowStock, outOfStock int32) *AnalyticsService {
	return &AnalyticsService{
		pool:       pool,
		newStore:   newStore,
		clock:      clock,
		lowStock:   lowStock,
		outOfStock: outOfStock,
	}
}

// ProfitResult is the profit of every order whose expenses are fully logged.
// Orders still missing an expense are counted, not summed.
type ProfitResult struct {
	Profit                      decimal.Decimal `json:"profit"`
	OrdersIncluded              int             `json:"orders_included"`
	OrdersPendingExpenseLogging int             `json:"orders_pending_expense_logging"`
}

// MonthlyProfit is one point of the yearly series.
type MonthlyProfit struct {
	Month  string          `json:"month"`
	Profit decimal.Decimal `json:"profit"`
}

// Dashboard holds the counters shown on the landing page.
type Dashboard struct {
	LowStockCards       int64   `json:"low_stock_cards"`
	OutOfStockCards     int64   `json:"out_of_stock_cards"`
	PendingOrders       int64   `json:"pending_orders"`
	PendingBills        int64   `json:"pending_bills"`
	PendingPrintingJobs int64   `json:"pending_printing_jobs"`
	PendingBoxOrders    int64   `json:"pending_box_orders"`
	TodaysOrders        int64   `json:"todays_orders"`
	MonthOrders         int64   `json:"month_orders"`
	MonthlyOrderChange  float64 `json:"monthly_order_change"`
}

// Detail types, one per dashboard counter that has a drill-down list.
const (
	DetailLowStockCards       = "low_stock_cards"
	DetailOutOfStockCards     = "out_of_stock_cards"
	DetailPendingOrders       = "pending_orders"
	DetailPendingBills        = "pending_bills"
	DetailPendingPrintingJobs = "pending_printing_jobs"
	DetailPendingBoxOrders    = "pending_box_orders"
	DetailTodaysOrders        = "todays_orders"
)

// DashboardDetail lists the rows behind one dashboard counter. Only the
// slice matching Type is filled.
type DashboardDetail struct {
	Type         string
	Cards        []database.Card
	Orders       []database.Order
	Bills        []database.Bill
	PrintingJobs []database.PrintingJob
	BoxOrders    []database.BoxOrder
}

// expensesLogged reports whether every production run and service line of
// the order has its expense recorded.
func expensesLogged(snap orderSnapshot) bool {
	for _, j := range snap.printingJobs {
		if !j.TotalPrintingExpense.Valid || !j.TotalTracingExpense.Valid {
			return false
		}
	}
	for _, b := range snap.boxOrders {
		if !b.TotalBoxExpense.Valid {
			return false
		}
	}
	for _, si := range snap.serviceItems {
		if !si.TotalExpense.Valid {
			return false
		}
	}
	return true
}

// orderMargin sums production and service margins. Card sale profit is added
// separately because it needs the captured cost per line.
func orderMargin(snap orderSnapshot) decimal.Decimal {
	total := decimal.Zero
	for _, j := range snap.printingJobs {
		expense := numericToDecimal(j.TotalPrintingExpense).Add(numericToDecimal(j.TotalTracingExpense))
		total = total.Add(numericToDecimal(j.TotalPrintingCost).Sub(expense))
	}
	for _, b := range snap.boxOrders {
		total = total.Add(numericToDecimal(b.TotalBoxCost).Sub(numericToDecimal(b.TotalBoxExpense)))
	}
	for _, si := range snap.serviceItems {
		total = total.Add(numericToDecimal(si.TotalCost).Sub(numericToDecimal(si.TotalExpense)))
	}
	return total
}

// saleProfit is (price - discount - cost) * quantity, using the cost captured
// by the line's SALE and the card's current cost when no sale was linked.
func saleProfit(ctx context.Context, store AnalyticsStore, item database.OrderItem) (decimal.Decimal, error) {
	cost, err := store.GetSaleCostForOrderItem(ctx, item.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		card, cerr := store.GetCardAnyStatus(ctx, item.CardID)
		if cerr != nil {
			return decimal.Zero, notFound(cerr, ErrCardNotFound)
		}
		cost, err = card.CostPrice, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("sale cost: %w", err)
	}
	unit := numericToDecimal(item.PricePerItem).
		Sub(numericToDecimal(item.DiscountAmount)).
		Sub(numericToDecimal(cost))
	return unit.Mul(decimal.NewFromInt32(item.Quantity)), nil
}

func calculateProfitForPeriod(ctx context.Context, store AnalyticsStore, start, end time.Time) (ProfitResult, error) {
	res := ProfitResult{Profit: decimal.Zero}

	orders, err := store.ListOrdersByDateRange(ctx, database.DateRangeParams{Start: start, End: end})
	if err != nil {
		return res, fmt.Errorf("list orders: %w", err)
	}

	for _, order := range orders {
		snap, err := loadOrderSnapshot(ctx, store, order.ID)
		if err != nil {
			return res, fmt.Errorf("order %s: %w", order.ID, err)
		}
		if !expensesLogged(snap) {
			res.OrdersPendingExpenseLogging++
			continue
		}

		profit := orderMargin(snap)
		for _, item := range snap.items {
			p, err := saleProfit(ctx, store, item)
			if err != nil {
				return res, fmt.Errorf("order %s: %w", order.ID, err)
			}
			profit = profit.Add(p)
		}
		res.Profit = res.Profit.Add(profit)
		res.OrdersIncluded++
	}
	return res, nil
}

// CalculateProfitForPeriod reports accrual profit for orders dated in [start, end).
func (s *AnalyticsService) CalculateProfitForPeriod(ctx context.Context, start, end time.Time) (*ProfitResult, error) {
	if !start.Before(end) {
		return nil, ErrInvalidPeriod
	}
	var res ProfitResult
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		res, err = calculateProfitForPeriod(ctx, s.newStore(tx), start, end)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GetMonthlyProfit reports profit for the current calendar month.
func (s *AnalyticsService) GetMonthlyProfit(ctx context.Context) (*ProfitResult, error) {
	start := monthStart(s.clock.Now())
	return s.CalculateProfitForPeriod(ctx, start, start.AddDate(0, 1, 0))
}

// GetYearlyProfit reports profit for the last 12 calendar months including
// the current one, oldest first.
func (s *AnalyticsService) GetYearlyProfit(ctx context.Context) ([]MonthlyProfit, error) {
	current := monthStart(s.clock.Now())
	series := make([]MonthlyProfit, 0, 12)
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		for i := 11; i >= 0; i-- {
			start := current.AddDate(0, -i, 0)
			res, err := calculateProfitForPeriod(ctx, store, start, start.AddDate(0, 1, 0))
			if err != nil {
				return fmt.Errorf("month %s: %w", start.Format("2006-01"), err)
			}
			series = append(series, MonthlyProfit{Month: start.Format("2006-01"), Profit: res.Profit})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// GetDashboard collects the landing-page counters.
func (s *AnalyticsService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	now := s.clock.Now()
	today := dayStart(now)
	thisMonth := monthStart(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	var d Dashboard
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		var err error

		if d.LowStockCards, err = store.CountLowStockCards(ctx, database.CountLowStockCardsParams{
			LowThreshold:        s.lowStock,
			OutOfStockThreshold: s.outOfStock,
		}); err != nil {
			return fmt.Errorf("count low stock: %w", err)
		}
		if d.OutOfStockCards, err = store.CountOutOfStockCards(ctx, s.outOfStock); err != nil {
			return fmt.Errorf("count out of stock: %w", err)
		}
		if d.PendingOrders, err = store.CountPendingOrders(ctx); err != nil {
			return fmt.Errorf("count pending orders: %w", err)
		}
		if d.PendingBills, err = store.CountPendingBills(ctx); err != nil {
			return fmt.Errorf("count pending bills: %w", err)
		}
		if d.PendingPrintingJobs, err = store.CountPendingPrintingJobs(ctx); err != nil {
			return fmt.Errorf("count pending printing jobs: %w", err)
		}
		if d.PendingBoxOrders, err = store.CountPendingBoxOrders(ctx); err != nil {
			return fmt.Errorf("count pending box orders: %w", err)
		}
		if d.TodaysOrders, err = store.CountOrdersByDateRange(ctx, database.DateRangeParams{
			Start: today, End: today.AddDate(0, 0, 1),
		}); err != nil {
			return fmt.Errorf("count todays orders: %w", err)
		}
		if d.MonthOrders, err = store.CountOrdersByDateRange(ctx, database.DateRangeParams{
			Start: thisMonth, End: thisMonth.AddDate(0, 1, 0),
		}); err != nil {
			return fmt.Errorf("count month orders: %w", err)
		}
		prev, err := store.CountOrdersByDateRange(ctx, database.DateRangeParams{Start: lastMonth, End: thisMonth})
		if err != nil {
			return fmt.Errorf("count previous month orders: %w", err)
		}
		d.MonthlyOrderChange = percentChange(prev, d.MonthOrders)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDashboardDetail returns the rows counted by the dashboard counter named
// by kind, using the same filters and thresholds as GetDashboard.
func (s *AnalyticsService) GetDashboardDetail(ctx context.Context, kind string) (*DashboardDetail, error) {
	d := DashboardDetail{Type: kind}
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)
		var err error
		switch kind {
		case DetailLowStockCards:
			d.Cards, err = store.ListLowStockCards(ctx, database.ListLowStockCardsParams{
				LowThreshold:        s.lowStock,
				OutOfStockThreshold: s.outOfStock,
			})
		case DetailOutOfStockCards:
			d.Cards, err = store.ListOutOfStockCards(ctx, s.outOfStock)
		case DetailPendingOrders:
			d.Orders, err = store.ListPendingOrders(ctx)
		case DetailPendingBills:
			d.Bills, err = store.ListPendingBills(ctx)
		case DetailPendingPrintingJobs:
			d.PrintingJobs, err = store.ListPendingPrintingJobs(ctx)
		case DetailPendingBoxOrders:
			d.BoxOrders, err = store.ListPendingBoxOrders(ctx)
		case DetailTodaysOrders:
			today := dayStart(s.clock.Now())
			d.Orders, err = store.ListOrdersByDateRange(ctx, database.DateRangeParams{
				Start: today, End: today.AddDate(0, 0, 1),
			})
		default:
			return ErrInvalidDetailType
		}
		if err != nil {
			return fmt.Errorf("list %s: %w", kind, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// percentChange is the month-over-month change rounded to 2 places. Growth
// from zero reports 100.
func percentChange(prev, cur int64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	change := decimal.NewFromInt(cur - prev).Mul(hundred).Div(decimal.NewFromInt(prev)).Round(2)
	f, _ := change.Float64()
	return f
}
