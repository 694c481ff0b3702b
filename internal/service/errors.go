package service

import "errors"

// Error categories. Every error returned by the service wraps exactly one of
// these so callers can classify with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

type serviceError struct {
	msg  string
	kind error
}

func (e *serviceError) Error() string { return e.msg }
func (e *serviceError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &serviceError{msg: msg, kind: kind}
}

// Resource not found (missing or inactive).
var (
	ErrCardNotFound          = newError(ErrNotFound, "card not found")
	ErrVendorNotFound        = newError(ErrNotFound, "vendor not found")
	ErrCustomerNotFound      = newError(ErrNotFound, "customer not found")
	ErrStaffNotFound         = newError(ErrNotFound, "staff not found")
	ErrOrderNotFound         = newError(ErrNotFound, "order not found")
	ErrOrderItemNotFound     = newError(ErrNotFound, "order item not found")
	ErrServiceItemNotFound   = newError(ErrNotFound, "service item not found")
	ErrPrintingJobNotFound   = newError(ErrNotFound, "printing job not found")
	ErrBoxOrderNotFound      = newError(ErrNotFound, "box order not found")
	ErrBillNotFound          = newError(ErrNotFound, "bill not found")
	ErrPrinterNotFound       = newError(ErrNotFound, "printer not found")
	ErrTracingStudioNotFound = newError(ErrNotFound, "tracing studio not found")
	ErrBoxMakerNotFound      = newError(ErrNotFound, "box maker not found")
)

// Business rule violations.
var (
	ErrInsufficientStock          = newError(ErrConflict, "insufficient stock")
	ErrInvalidDiscount            = newError(ErrConflict, "discount must be between 0 and the card's max discount")
	ErrOverAllocated              = newError(ErrConflict, "allocated production quantity exceeds item quantity")
	ErrIllegalTransition          = newError(ErrConflict, "illegal status transition")
	ErrBillExists                 = newError(ErrConflict, "bill already exists for order")
	ErrOrderHasPayments           = newError(ErrConflict, "order has payments or adjustments")
	ErrInvalidEstimatedCompletion = newError(ErrConflict, "estimated completion must be between now and the delivery date")
	ErrInvalidDateRange           = newError(ErrConflict, "order date must not be after delivery date")
	ErrProductionNotRequired      = newError(ErrConflict, "order item does not require this production step")
	ErrDuplicateBarcode           = newError(ErrConflict, "barcode already exists")
	ErrDuplicatePhone             = newError(ErrConflict, "phone already registered")
)

// Malformed input, rejected before any mutation begins.
var (
	ErrEmptyOrder            = newError(ErrInvalidInput, "order must contain at least one item or service item")
	ErrNoEdits               = newError(ErrInvalidInput, "no edits supplied")
	ErrInvalidQuantity       = newError(ErrInvalidInput, "quantity must be > 0")
	ErrInvalidAmount         = newError(ErrInvalidInput, "amount must be > 0")
	ErrInvalidPrice          = newError(ErrInvalidInput, "prices must be >= 0")
	ErrInvalidBoxType        = newError(ErrInvalidInput, "invalid box_type")
	ErrInvalidServiceType    = newError(ErrInvalidInput, "invalid service_type")
	ErrInvalidPaymentMode    = newError(ErrInvalidInput, "invalid payment_mode")
	ErrInvalidAdjustmentType = newError(ErrInvalidInput, "invalid adjustment_type")
	ErrInvalidStatus         = newError(ErrInvalidInput, "invalid status")
	ErrInvalidPeriod         = newError(ErrInvalidInput, "period start must be before end")
	ErrInvalidRole           = newError(ErrInvalidInput, "invalid role")
	ErrInvalidDetailType     = newError(ErrInvalidInput, "invalid detail type")
)
