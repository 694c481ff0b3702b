package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusReady      = "READY"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusFullyPaid  = "FULLY_PAID"
)

const (
	PrintingStatusPending    = "PENDING"
	PrintingStatusInTracing  = "IN_TRACING"
	PrintingStatusInPrinting = "IN_PRINTING"
	PrintingStatusCompleted  = "COMPLETED"
)

const (
	BoxStatusPending    = "PENDING"
	BoxStatusInProgress = "IN_PROGRESS"
	BoxStatusCompleted  = "COMPLETED"
)

const (
	ProcurementStatusRequested = "REQUESTED"
	ProcurementStatusOrdered   = "ORDERED"
	ProcurementStatusReceived  = "RECEIVED"
	ProcurementStatusDelivered = "DELIVERED"
	ProcurementStatusCancelled = "CANCELLED"
)

// Derived from payments and adjustments; never written from request input.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusPaid    = "PAID"
)

// ── Group B: Ledger and choice fields (CHECK constrained in DB) ──

const (
	InventoryTxPurchase = "PURCHASE"
	InventoryTxSale     = "SALE"
	InventoryTxDamage   = "DAMAGE"
	InventoryTxReturn   = "RETURN"
)

const (
	StaffRoleAdmin   = "ADMIN"
	StaffRoleManager = "MANAGER"
	StaffRoleSales   = "SALES"
)

const (
	BoxTypeFolding  = "FOLDING"
	BoxTypeComplete = "COMPLETE"
)

const (
	PaymentModeCash = "CASH"
	PaymentModeCard = "CARD"
	PaymentModeUPI  = "UPI"
)

const (
	AdjustmentTypeNegotiation = "NEGOTIATION"
	AdjustmentTypeComplaint   = "COMPLAINT"
	AdjustmentTypeGoodwill    = "GOODWILL"
	AdjustmentTypeOther       = "OTHER"
)

const (
	ServiceTypeDigitalCard         = "DIGITAL_CARD"
	ServiceTypeAbhinandanPatr      = "ABHINANDAN_PATR"
	ServiceTypeCarPoster           = "CAR_POSTER"
	ServiceTypeDigitalVisitingCard = "DIGITAL_VISITING_CARD"
	ServiceTypePrintingService     = "PRINTING_SERVICE"
	ServiceTypeBoxService          = "BOX_SERVICE"
)

// ── Group C: Audit vocabulary (no DB constraint) ──

const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

const (
	EntityCard           = "card"
	EntityOrder          = "order"
	EntityPrintingJob    = "printing_job"
	EntityBoxOrder       = "box_order"
	EntityPayment        = "payment"
	EntityBillAdjustment = "bill_adjustment"
)

// IsValid reports whether v is one of allowed.
func IsValid(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
