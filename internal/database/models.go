package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Staff struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Card struct {
	ID          uuid.UUID      `json:"id"`
	VendorID    uuid.UUID      `json:"vendor_id"`
	Barcode     string         `json:"barcode"`
	SellPrice   pgtype.Numeric `json:"sell_price"`
	CostPrice   pgtype.Numeric `json:"cost_price"`
	MaxDiscount pgtype.Numeric `json:"max_discount"`
	Quantity    int32          `json:"quantity"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type InventoryTransaction struct {
	ID              uuid.UUID      `json:"id"`
	CardID          uuid.UUID      `json:"card_id"`
	TransactionType string         `json:"transaction_type"`
	QuantityChanged int32          `json:"quantity_changed"`
	CostPrice       pgtype.Numeric `json:"cost_price"`
	OrderItemID     pgtype.UUID    `json:"order_item_id"`
	PerformedBy     pgtype.UUID    `json:"performed_by"`
	Notes           string         `json:"notes"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Provider is the shared shape of printers, tracing studios and box makers.
type Provider struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID                 uuid.UUID `json:"id"`
	CustomerID         uuid.UUID `json:"customer_id"`
	StaffID            uuid.UUID `json:"staff_id"`
	Name               string    `json:"name"`
	OrderDate          time.Time `json:"order_date"`
	DeliveryDate       time.Time `json:"delivery_date"`
	OrderStatus        string    `json:"order_status"`
	SpecialInstruction string    `json:"special_instruction"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID               uuid.UUID      `json:"id"`
	OrderID          uuid.UUID      `json:"order_id"`
	CardID           uuid.UUID      `json:"card_id"`
	Quantity         int32          `json:"quantity"`
	PricePerItem     pgtype.Numeric `json:"price_per_item"`
	DiscountAmount   pgtype.Numeric `json:"discount_amount"`
	RequiresBox      bool           `json:"requires_box"`
	RequiresPrinting bool           `json:"requires_printing"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type PrintingJob struct {
	ID                   uuid.UUID          `json:"id"`
	OrderItemID          uuid.UUID          `json:"order_item_id"`
	PrinterID            pgtype.UUID        `json:"printer_id"`
	TracingStudioID      pgtype.UUID        `json:"tracing_studio_id"`
	PrintQuantity        int32              `json:"print_quantity"`
	TotalPrintingCost    pgtype.Numeric     `json:"total_printing_cost"`
	TotalPrintingExpense pgtype.Numeric     `json:"total_printing_expense"`
	TotalTracingExpense  pgtype.Numeric     `json:"total_tracing_expense"`
	PrintingStatus       string             `json:"printing_status"`
	EstimatedCompletion  pgtype.Timestamptz `json:"estimated_completion"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

type BoxOrder struct {
	ID                  uuid.UUID          `json:"id"`
	OrderItemID         uuid.UUID          `json:"order_item_id"`
	BoxMakerID          pgtype.UUID        `json:"box_maker_id"`
	BoxType             string             `json:"box_type"`
	BoxQuantity         int32              `json:"box_quantity"`
	TotalBoxCost        pgtype.Numeric     `json:"total_box_cost"`
	TotalBoxExpense     pgtype.Numeric     `json:"total_box_expense"`
	BoxStatus           string             `json:"box_status"`
	EstimatedCompletion pgtype.Timestamptz `json:"estimated_completion"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

type ServiceOrderItem struct {
	ID                uuid.UUID      `json:"id"`
	OrderID           uuid.UUID      `json:"order_id"`
	ServiceType       string         `json:"service_type"`
	Quantity          int32          `json:"quantity"`
	ProcurementStatus string         `json:"procurement_status"`
	TotalCost         pgtype.Numeric `json:"total_cost"`
	TotalExpense      pgtype.Numeric `json:"total_expense"`
	Description       string         `json:"description"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type Bill struct {
	ID            uuid.UUID      `json:"id"`
	OrderID       uuid.UUID      `json:"order_id"`
	TaxPercentage pgtype.Numeric `json:"tax_percentage"`
	PaymentStatus string         `json:"payment_status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type Payment struct {
	ID             uuid.UUID      `json:"id"`
	BillID         uuid.UUID      `json:"bill_id"`
	StaffID        uuid.UUID      `json:"staff_id"`
	Amount         pgtype.Numeric `json:"amount"`
	PaymentMode    string         `json:"payment_mode"`
	TransactionRef string         `json:"transaction_ref"`
	Notes          string         `json:"notes"`
	CreatedAt      time.Time      `json:"created_at"`
}

type BillAdjustment struct {
	ID             uuid.UUID      `json:"id"`
	BillID         uuid.UUID      `json:"bill_id"`
	StaffID        uuid.UUID      `json:"staff_id"`
	AdjustmentType string         `json:"adjustment_type"`
	Amount         pgtype.Numeric `json:"amount"`
	Reason         string         `json:"reason"`
	CreatedAt      time.Time      `json:"created_at"`
}

type AuditLog struct {
	ID         uuid.UUID   `json:"id"`
	StaffID    pgtype.UUID `json:"staff_id"`
	Action     string      `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   uuid.UUID   `json:"entity_id"`
	Details    []byte      `json:"details"`
	CreatedAt  time.Time   `json:"created_at"`
}
