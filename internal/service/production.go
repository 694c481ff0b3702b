package service

import (
	"context"
	"fmt"
	"time"

	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// Forward-only status machines. A status absent from the map is terminal.
var (
	printingTransitions = map[string][]string{
		enum.PrintingStatusPending:    {enum.PrintingStatusInTracing, enum.PrintingStatusInPrinting, enum.PrintingStatusCompleted},
		enum.PrintingStatusInTracing:  {enum.PrintingStatusInPrinting, enum.PrintingStatusCompleted},
		enum.PrintingStatusInPrinting: {enum.PrintingStatusCompleted},
	}
	boxTransitions = map[string][]string{
		enum.BoxStatusPending:    {enum.BoxStatusInProgress},
		enum.BoxStatusInProgress: {enum.BoxStatusCompleted},
	}
	procurementTransitions = map[string][]string{
		enum.ProcurementStatusRequested: {enum.ProcurementStatusOrdered, enum.ProcurementStatusReceived, enum.ProcurementStatusDelivered, enum.ProcurementStatusCancelled},
		enum.ProcurementStatusOrdered:   {enum.ProcurementStatusReceived, enum.ProcurementStatusDelivered, enum.ProcurementStatusCancelled},
		enum.ProcurementStatusReceived:  {enum.ProcurementStatusDelivered, enum.ProcurementStatusCancelled},
	}
)

// canTransition treats staying in place as legal.
func canTransition(table map[string][]string, from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// autoAdvancePrinting applies provider-assignment side effects. Moves the
// table forbids are skipped so providers can be assigned in any order.
func autoAdvancePrinting(status string, tracingAssigned, printerAssigned bool) string {
	if tracingAssigned && canTransition(printingTransitions, status, enum.PrintingStatusInTracing) {
		status = enum.PrintingStatusInTracing
	}
	if printerAssigned && canTransition(printingTransitions, status, enum.PrintingStatusInPrinting) {
		status = enum.PrintingStatusInPrinting
	}
	return status
}

func autoAdvanceBox(status string, makerAssigned bool) string {
	if makerAssigned && canTransition(boxTransitions, status, enum.BoxStatusInProgress) {
		return enum.BoxStatusInProgress
	}
	return status
}

// checkAllocation fails when the runs for one item would exceed its quantity.
func checkAllocation(itemQuantity, alreadyAllocated, requested int32) error {
	if requested <= 0 {
		return ErrInvalidQuantity
	}
	if alreadyAllocated+requested > itemQuantity {
		return ErrOverAllocated
	}
	return nil
}

func allocatedPrintQuantity(jobs []database.PrintingJob, exclude uuid.UUID) int32 {
	var total int32
	for _, j := range jobs {
		if j.ID != exclude {
			total += j.PrintQuantity
		}
	}
	return total
}

func allocatedBoxQuantity(runs []database.BoxOrder, exclude uuid.UUID) int32 {
	var total int32
	for _, b := range runs {
		if b.ID != exclude {
			total += b.BoxQuantity
		}
	}
	return total
}

// validateEstimatedCompletion accepts any instant from the start of today up
// to the order's delivery date.
func validateEstimatedCompletion(est, now, delivery time.Time) error {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if est.Before(startOfDay) || est.After(delivery) {
		return ErrInvalidEstimatedCompletion
	}
	return nil
}

// checkEstimate validates the estimate a run carries after an update. A
// supplied estimate is always checked; a stored one only while the run is
// still open.
func (s *ProductionService) checkEstimate(est pgtype.Timestamptz, supplied, completed bool, delivery time.Time) error {
	if !est.Valid || (completed && !supplied) {
		return nil
	}
	return validateEstimatedCompletion(est.Time, s.clock.Now(), delivery)
}

// checkEstimatesBefore rejects a delivery date earlier than the estimate of
// any open production run on the order.
func checkEstimatesBefore(ctx context.Context, store StatusStore, orderID uuid.UUID, delivery time.Time) error {
	jobs, err := store.ListPrintingJobsByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("list printing jobs: %w", err)
	}
	for _, j := range jobs {
		if j.PrintingStatus != enum.PrintingStatusCompleted && j.EstimatedCompletion.Valid && j.EstimatedCompletion.Time.After(delivery) {
			return ErrInvalidEstimatedCompletion
		}
	}
	runs, err := store.ListBoxOrdersByOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("list box orders: %w", err)
	}
	for _, b := range runs {
		if b.BoxStatus != enum.BoxStatusCompleted && b.EstimatedCompletion.Valid && b.EstimatedCompletion.Time.After(delivery) {
			return ErrInvalidEstimatedCompletion
		}
	}
	return nil
}

// ProductionStore defines the DB methods needed by the production tracker.
// Satisfied by *database.Queries.
type ProductionStore interface {
	StatusStore
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderItem(ctx context.Context, id uuid.UUID) (database.OrderItem, error)

	CreatePrintingJob(ctx context.Context, arg database.CreatePrintingJobParams) (database.PrintingJob, error)
	GetPrintingJob(ctx context.Context, id uuid.UUID) (database.PrintingJob, error)
	GetPrintingJobForUpdate(ctx context.Context, id uuid.UUID) (database.PrintingJob, error)
	ListPrintingJobsByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.PrintingJob, error)
	UpdatePrintingJob(ctx context.Context, arg database.UpdatePrintingJobParams) (database.PrintingJob, error)

	CreateBoxOrder(ctx context.Context, arg database.CreateBoxOrderParams) (database.BoxOrder, error)
	GetBoxOrder(ctx context.Context, id uuid.UUID) (database.BoxOrder, error)
	GetBoxOrderForUpdate(ctx context.Context, id uuid.UUID) (database.BoxOrder, error)
	ListBoxOrdersByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.BoxOrder, error)
	UpdateBoxOrder(ctx context.Context, arg database.UpdateBoxOrderParams) (database.BoxOrder, error)

	GetPrinter(ctx context.Context, id uuid.UUID) (database.Provider, error)
	GetTracingStudio(ctx context.Context, id uuid.UUID) (database.Provider, error)
	GetBoxMaker(ctx context.Context, id uuid.UUID) (database.Provider, error)
}

// NewProductionStore creates a ProductionStore from a DBTX (pool or tx).
type NewProductionStore func(db database.DBTX) ProductionStore

// ProductionService tracks outsourced printing and box-making runs.
type ProductionService struct {
	pool     TxBeginner
	newStore NewProductionStore
	clock    clockwork.Clock
	audit    AuditLogger
}

// NewProductionService creates a new ProductionService. audit may be nil.
func NewProductionService(pool TxBeginner, newStore NewProductionStore, clock clockwork.Clock, audit AuditLogger) *ProductionService {
	return &ProductionService{pool: pool, newStore: newStore, clock: clock, audit: auditOrNop(audit)}
}

// CreatePrintingJobRequest adds a split printing run for an order item.
type CreatePrintingJobRequest struct {
	StaffID             uuid.UUID
	OrderItemID         uuid.UUID
	PrintQuantity       int32
	TotalPrintingCost   decimal.Decimal
	PrinterID           *uuid.UUID
	TracingStudioID     *uuid.UUID
	EstimatedCompletion *time.Time
}

// UpdatePrintingJobRequest carries the fields to change; nil leaves a field as is.
type UpdatePrintingJobRequest struct {
	StaffID              uuid.UUID
	JobID                uuid.UUID
	PrinterID            *uuid.UUID
	TracingStudioID      *uuid.UUID
	PrintQuantity        *int32
	TotalPrintingCost    *decimal.Decimal
	TotalPrintingExpense *decimal.Decimal
	TotalTracingExpense  *decimal.Decimal
	PrintingStatus       *string
	EstimatedCompletion  *time.Time
}

// CreateBoxOrderRequest adds a split box-making run for an order item.
type CreateBoxOrderRequest struct {
	StaffID             uuid.UUID
	OrderItemID         uuid.UUID
	BoxType             string
	BoxQuantity         int32
	TotalBoxCost        decimal.Decimal
	BoxMakerID          *uuid.UUID
	EstimatedCompletion *time.Time
}

// UpdateBoxOrderRequest carries the fields to change; nil leaves a field as is.
type UpdateBoxOrderRequest struct {
	StaffID             uuid.UUID
	BoxOrderID          uuid.UUID
	BoxMakerID          *uuid.UUID
	BoxType             *string
	BoxQuantity         *int32
	TotalBoxCost        *decimal.Decimal
	TotalBoxExpense     *decimal.Decimal
	BoxStatus           *string
	EstimatedCompletion *time.Time
}

func nonNegative(ds ...*decimal.Decimal) bool {
	for _, d := range ds {
		if d != nil && d.IsNegative() {
			return false
		}
	}
	return true
}

// CreatePrintingJob allocates part of an item's quantity to a new printing run.
func (s *ProductionService) CreatePrintingJob(ctx context.Context, req CreatePrintingJobRequest) (*database.PrintingJob, error) {
	if !nonNegative(&req.TotalPrintingCost) {
		return nil, ErrInvalidPrice
	}

	var job database.PrintingJob
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		item, order, err := s.lockItem(ctx, store, req.OrderItemID)
		if err != nil {
			return err
		}
		if !item.RequiresPrinting {
			return ErrProductionNotRequired
		}
		if err := s.checkProviders(ctx, store, req.PrinterID, req.TracingStudioID, nil); err != nil {
			return err
		}
		if req.EstimatedCompletion != nil {
			if err := validateEstimatedCompletion(*req.EstimatedCompletion, s.clock.Now(), order.DeliveryDate); err != nil {
				return err
			}
		}

		existing, err := store.ListPrintingJobsByOrderItem(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("list printing jobs: %w", err)
		}
		if err := checkAllocation(item.Quantity, allocatedPrintQuantity(existing, uuid.Nil), req.PrintQuantity); err != nil {
			return err
		}

		job, err = store.CreatePrintingJob(ctx, database.CreatePrintingJobParams{
			OrderItemID:         item.ID,
			PrinterID:           pgUUIDPtr(req.PrinterID),
			TracingStudioID:     pgUUIDPtr(req.TracingStudioID),
			PrintQuantity:       req.PrintQuantity,
			TotalPrintingCost:   decimalToNumeric(req.TotalPrintingCost),
			PrintingStatus:      autoAdvancePrinting(enum.PrintingStatusPending, req.TracingStudioID != nil, req.PrinterID != nil),
			EstimatedCompletion: pgTime(req.EstimatedCompletion),
		})
		if err != nil {
			return fmt.Errorf("create printing job: %w", err)
		}

		_, err = recalculateOrderStatus(ctx, store, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionCreate,
		EntityType: enum.EntityPrintingJob,
		EntityID:   job.ID,
		Details:    map[string]interface{}{"order_item_id": job.OrderItemID, "print_quantity": job.PrintQuantity},
	})
	return &job, nil
}

// UpdatePrintingJob validates every requested change before writing, applies
// provider auto-advance after any explicit status, then re-derives the order status.
func (s *ProductionService) UpdatePrintingJob(ctx context.Context, req UpdatePrintingJobRequest) (*database.PrintingJob, error) {
	if req.PrintingStatus != nil && !enum.IsValid(*req.PrintingStatus,
		enum.PrintingStatusPending, enum.PrintingStatusInTracing,
		enum.PrintingStatusInPrinting, enum.PrintingStatusCompleted) {
		return nil, ErrInvalidStatus
	}
	if !nonNegative(req.TotalPrintingCost, req.TotalPrintingExpense, req.TotalTracingExpense) {
		return nil, ErrInvalidPrice
	}

	var job database.PrintingJob
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		// Parent order before the run, as UpdateOrder does.
		unlocked, err := store.GetPrintingJob(ctx, req.JobID)
		if err != nil {
			return notFound(err, ErrPrintingJobNotFound)
		}
		item, order, err := s.lockItem(ctx, store, unlocked.OrderItemID)
		if err != nil {
			return err
		}
		current, err := store.GetPrintingJobForUpdate(ctx, unlocked.ID)
		if err != nil {
			return notFound(err, ErrPrintingJobNotFound)
		}
		if err := s.checkProviders(ctx, store, req.PrinterID, req.TracingStudioID, nil); err != nil {
			return err
		}

		params := database.UpdatePrintingJobParams{
			ID:                   current.ID,
			PrinterID:            current.PrinterID,
			TracingStudioID:      current.TracingStudioID,
			PrintQuantity:        current.PrintQuantity,
			TotalPrintingCost:    current.TotalPrintingCost,
			TotalPrintingExpense: current.TotalPrintingExpense,
			TotalTracingExpense:  current.TotalTracingExpense,
			PrintingStatus:       current.PrintingStatus,
			EstimatedCompletion:  current.EstimatedCompletion,
		}

		if req.PrintQuantity != nil {
			siblings, err := store.ListPrintingJobsByOrderItem(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("list printing jobs: %w", err)
			}
			if err := checkAllocation(item.Quantity, allocatedPrintQuantity(siblings, current.ID), *req.PrintQuantity); err != nil {
				return err
			}
			params.PrintQuantity = *req.PrintQuantity
		}
		if req.PrintingStatus != nil {
			if !canTransition(printingTransitions, current.PrintingStatus, *req.PrintingStatus) {
				return fmt.Errorf("printing %s -> %s: %w", current.PrintingStatus, *req.PrintingStatus, ErrIllegalTransition)
			}
			params.PrintingStatus = *req.PrintingStatus
		}
		if req.EstimatedCompletion != nil {
			params.EstimatedCompletion = pgTime(req.EstimatedCompletion)
		}
		if req.PrinterID != nil {
			params.PrinterID = pgUUIDPtr(req.PrinterID)
		}
		if req.TracingStudioID != nil {
			params.TracingStudioID = pgUUIDPtr(req.TracingStudioID)
		}
		if req.TotalPrintingCost != nil {
			params.TotalPrintingCost = decimalToNumeric(*req.TotalPrintingCost)
		}
		if req.TotalPrintingExpense != nil {
			params.TotalPrintingExpense = decimalToNumeric(*req.TotalPrintingExpense)
		}
		if req.TotalTracingExpense != nil {
			params.TotalTracingExpense = decimalToNumeric(*req.TotalTracingExpense)
		}
		params.PrintingStatus = autoAdvancePrinting(params.PrintingStatus, req.TracingStudioID != nil, req.PrinterID != nil)
		if err := s.checkEstimate(params.EstimatedCompletion, req.EstimatedCompletion != nil,
			params.PrintingStatus == enum.PrintingStatusCompleted, order.DeliveryDate); err != nil {
			return err
		}

		job, err = store.UpdatePrintingJob(ctx, params)
		if err != nil {
			return fmt.Errorf("update printing job: %w", err)
		}

		_, err = recalculateOrderStatus(ctx, store, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionUpdate,
		EntityType: enum.EntityPrintingJob,
		EntityID:   job.ID,
		Details:    map[string]interface{}{"printing_status": job.PrintingStatus},
	})
	return &job, nil
}

// GetPrintingJob returns one printing run.
func (s *ProductionService) GetPrintingJob(ctx context.Context, id uuid.UUID) (*database.PrintingJob, error) {
	var job database.PrintingJob
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		job, err = s.newStore(tx).GetPrintingJob(ctx, id)
		return notFound(err, ErrPrintingJobNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateBoxOrder allocates part of an item's quantity to a new box-making run.
func (s *ProductionService) CreateBoxOrder(ctx context.Context, req CreateBoxOrderRequest) (*database.BoxOrder, error) {
	if !enum.IsValid(req.BoxType, enum.BoxTypeFolding, enum.BoxTypeComplete) {
		return nil, ErrInvalidBoxType
	}
	if !nonNegative(&req.TotalBoxCost) {
		return nil, ErrInvalidPrice
	}

	var run database.BoxOrder
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		item, order, err := s.lockItem(ctx, store, req.OrderItemID)
		if err != nil {
			return err
		}
		if !item.RequiresBox {
			return ErrProductionNotRequired
		}
		if err := s.checkProviders(ctx, store, nil, nil, req.BoxMakerID); err != nil {
			return err
		}
		if req.EstimatedCompletion != nil {
			if err := validateEstimatedCompletion(*req.EstimatedCompletion, s.clock.Now(), order.DeliveryDate); err != nil {
				return err
			}
		}

		existing, err := store.ListBoxOrdersByOrderItem(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("list box orders: %w", err)
		}
		if err := checkAllocation(item.Quantity, allocatedBoxQuantity(existing, uuid.Nil), req.BoxQuantity); err != nil {
			return err
		}

		run, err = store.CreateBoxOrder(ctx, database.CreateBoxOrderParams{
			OrderItemID:         item.ID,
			BoxMakerID:          pgUUIDPtr(req.BoxMakerID),
			BoxType:             req.BoxType,
			BoxQuantity:         req.BoxQuantity,
			TotalBoxCost:        decimalToNumeric(req.TotalBoxCost),
			BoxStatus:           autoAdvanceBox(enum.BoxStatusPending, req.BoxMakerID != nil),
			EstimatedCompletion: pgTime(req.EstimatedCompletion),
		})
		if err != nil {
			return fmt.Errorf("create box order: %w", err)
		}

		_, err = recalculateOrderStatus(ctx, store, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionCreate,
		EntityType: enum.EntityBoxOrder,
		EntityID:   run.ID,
		Details:    map[string]interface{}{"order_item_id": run.OrderItemID, "box_quantity": run.BoxQuantity},
	})
	return &run, nil
}

// UpdateBoxOrder is the box-making counterpart of UpdatePrintingJob.
func (s *ProductionService) UpdateBoxOrder(ctx context.Context, req UpdateBoxOrderRequest) (*database.BoxOrder, error) {
	if req.BoxStatus != nil && !enum.IsValid(*req.BoxStatus,
		enum.BoxStatusPending, enum.BoxStatusInProgress, enum.BoxStatusCompleted) {
		return nil, ErrInvalidStatus
	}
	if req.BoxType != nil && !enum.IsValid(*req.BoxType, enum.BoxTypeFolding, enum.BoxTypeComplete) {
		return nil, ErrInvalidBoxType
	}
	if !nonNegative(req.TotalBoxCost, req.TotalBoxExpense) {
		return nil, ErrInvalidPrice
	}

	var run database.BoxOrder
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		store := s.newStore(tx)

		// Parent order before the run, as UpdateOrder does.
		unlocked, err := store.GetBoxOrder(ctx, req.BoxOrderID)
		if err != nil {
			return notFound(err, ErrBoxOrderNotFound)
		}
		item, order, err := s.lockItem(ctx, store, unlocked.OrderItemID)
		if err != nil {
			return err
		}
		current, err := store.GetBoxOrderForUpdate(ctx, unlocked.ID)
		if err != nil {
			return notFound(err, ErrBoxOrderNotFound)
		}
		if err := s.checkProviders(ctx, store, nil, nil, req.BoxMakerID); err != nil {
			return err
		}

		params := database.UpdateBoxOrderParams{
			ID:                  current.ID,
			BoxMakerID:          current.BoxMakerID,
			BoxType:             current.BoxType,
			BoxQuantity:         current.BoxQuantity,
			TotalBoxCost:        current.TotalBoxCost,
			TotalBoxExpense:     current.TotalBoxExpense,
			BoxStatus:           current.BoxStatus,
			EstimatedCompletion: current.EstimatedCompletion,
		}

		if req.BoxQuantity != nil {
			siblings, err := store.ListBoxOrdersByOrderItem(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("list box orders: %w", err)
			}
			if err := checkAllocation(item.Quantity, allocatedBoxQuantity(siblings, current.ID), *req.BoxQuantity); err != nil {
				return err
			}
			params.BoxQuantity = *req.BoxQuantity
		}
		if req.BoxStatus != nil {
			if !canTransition(boxTransitions, current.BoxStatus, *req.BoxStatus) {
				return fmt.Errorf("box %s -> %s: %w", current.BoxStatus, *req.BoxStatus, ErrIllegalTransition)
			}
			params.BoxStatus = *req.BoxStatus
		}
		if req.EstimatedCompletion != nil {
			params.EstimatedCompletion = pgTime(req.EstimatedCompletion)
		}
		if req.BoxMakerID != nil {
			params.BoxMakerID = pgUUIDPtr(req.BoxMakerID)
		}
		if req.BoxType != nil {
			params.BoxType = *req.BoxType
		}
		if req.TotalBoxCost != nil {
			params.TotalBoxCost = decimalToNumeric(*req.TotalBoxCost)
		}
		if req.TotalBoxExpense != nil {
			params.TotalBoxExpense = decimalToNumeric(*req.TotalBoxExpense)
		}
		params.BoxStatus = autoAdvanceBox(params.BoxStatus, req.BoxMakerID != nil)
		if err := s.checkEstimate(params.EstimatedCompletion, req.EstimatedCompletion != nil,
			params.BoxStatus == enum.BoxStatusCompleted, order.DeliveryDate); err != nil {
			return err
		}

		run, err = store.UpdateBoxOrder(ctx, params)
		if err != nil {
			return fmt.Errorf("update box order: %w", err)
		}

		_, err = recalculateOrderStatus(ctx, store, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		StaffID:    req.StaffID,
		Action:     enum.AuditActionUpdate,
		EntityType: enum.EntityBoxOrder,
		EntityID:   run.ID,
		Details:    map[string]interface{}{"box_status": run.BoxStatus},
	})
	return &run, nil
}

// GetBoxOrder returns one box-making run.
func (s *ProductionService) GetBoxOrder(ctx context.Context, id uuid.UUID) (*database.BoxOrder, error) {
	var run database.BoxOrder
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		run, err = s.newStore(tx).GetBoxOrder(ctx, id)
		return notFound(err, ErrBoxOrderNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// lockItem loads the item and locks its parent order, so production writes
// serialize with order edits and payments on the same order.
func (s *ProductionService) lockItem(ctx context.Context, store ProductionStore, itemID uuid.UUID) (database.OrderItem, database.Order, error) {
	item, err := store.GetOrderItem(ctx, itemID)
	if err != nil {
		return database.OrderItem{}, database.Order{}, notFound(err, ErrOrderItemNotFound)
	}
	order, err := store.GetOrderForUpdate(ctx, item.OrderID)
	if err != nil {
		return database.OrderItem{}, database.Order{}, notFound(err, ErrOrderNotFound)
	}
	return item, order, nil
}

func (s *ProductionService) checkProviders(ctx context.Context, store ProductionStore, printerID, tracingStudioID, boxMakerID *uuid.UUID) error {
	if printerID != nil {
		if _, err := store.GetPrinter(ctx, *printerID); err != nil {
			return notFound(err, ErrPrinterNotFound)
		}
	}
	if tracingStudioID != nil {
		if _, err := store.GetTracingStudio(ctx, *tracingStudioID); err != nil {
			return notFound(err, ErrTracingStudioNotFound)
		}
	}
	if boxMakerID != nil {
		if _, err := store.GetBoxMaker(ctx, *boxMakerID); err != nil {
			return notFound(err, ErrBoxMakerNotFound)
		}
	}
	return nil
}
