package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/alert"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type InventoryService struct {
	medicines medicine.Repository
	alerts    Alerter
	metrics   *metrics.Collector
	log       *zap.Logger
	tracer    trace.Tracer
	opts      options
}

func NewInventoryService(
	medicines medicine.Repository,
	alerts Alerter,
	m *metrics.Collector,
	log *zap.Logger,
	opts ...Option,
) *InventoryService {
	return &InventoryService{
		medicines: medicines,
		alerts:    alerts,
		metrics:   m,
		log:       log,
		tracer:    newTracer(),
		opts:      buildOptions(opts),
	}
}

type InventoryView struct {
	Items   []view.MedicineRow   `json:"items"`
	Summary view.MedicineSummary `json:"summary"`
}

// View loads the inventory and runs the medicine view as of now.
func (s *InventoryService) View(ctx context.Context, p view.MedicineParams) (*InventoryView, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.View")
	defer span.End()

	records, err := s.medicines.List(ctx)
	if err != nil {
		recordErr(span, err)
		return nil, fmt.Errorf("loading inventory: %w", err)
	}

	rows, summary, err := view.Medicines(records, p, s.opts.now())
	if err != nil {
		return nil, err
	}

	s.metrics.ViewComputations.WithLabelValues("medicines").Inc()
	s.metrics.LowStockGauge.Set(float64(summary.LowStock))
	s.metrics.OutOfStockGauge.Set(float64(summary.OutOfStock))
	s.metrics.NearExpiryGauge.Set(float64(summary.NearExpiry))
	span.SetAttributes(attribute.Int("view.rows", len(rows)), attribute.Int("view.total", summary.Total))

	return &InventoryView{Items: rows, Summary: summary}, nil
}

func (s *InventoryService) Get(ctx context.Context, id uuid.UUID) (*view.MedicineRow, error) {
	m, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.row(m), nil
}

// AddMedicine validates the raw form, stores the new medicine under a fresh
// id and logs its opening stock.
func (s *InventoryService) AddMedicine(ctx context.Context, actor *domain.Claims, draft medicine.Draft) (*medicine.Medicine, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.AddMedicine")
	defer span.End()

	if err := requireInventoryRole(actor); err != nil {
		return nil, err
	}

	cmd, err := draft.Parse(s.opts.loc)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	m := &medicine.Medicine{
		ID:            uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Name:          cmd.Name,
		Category:      cmd.Category,
		Quantity:      cmd.Quantity,
		MinStockLevel: cmd.MinStockLevel,
		ExpiryDate:    cmd.ExpiryDate,
		Price:         cmd.Price,
		Supplier:      cmd.Supplier,
		BatchNumber:   cmd.BatchNumber,
	}

	entry := s.newEntry(m, stocklog.Change{
		Action:        stocklog.ActionMedicineAdded,
		PreviousStock: 0,
		NewStock:      m.Quantity,
		PerformedBy:   actor.Name,
		Reason:        "New medicine added to inventory",
	}, now)

	if err := s.medicines.Create(ctx, m, entry); err != nil {
		recordErr(span, err)
		s.log.Error("failed to create medicine", zap.Error(err))
		return nil, fmt.Errorf("creating medicine: %w", err)
	}
	s.metrics.StockMutations.WithLabelValues(string(entry.Action)).Inc()

	s.log.Info("medicine added",
		zap.String("medicine_id", m.ID.String()),
		zap.String("name", m.Name),
		zap.String("performed_by", actor.Name),
	)
	s.raiseAlert(ctx, m, now)

	return m, nil
}

// StockChange is the outcome of a stock mutation.
type StockChange struct {
	Medicine *view.MedicineRow `json:"medicine"`
	Entry    *stocklog.Entry   `json:"log_entry"`
}

// UpdateStock replaces the stock level.
func (s *InventoryService) UpdateStock(ctx context.Context, actor *domain.Claims, id uuid.UUID, quantity int, reason string) (*StockChange, error) {
	if err := requireInventoryRole(actor); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, &ValidationError{Fields: []string{"quantity cannot be negative"}}
	}

	return s.mutate(ctx, "InventoryService.UpdateStock", actor, id, stocklog.ActionStockUpdated,
		func(m *medicine.Medicine) (stocklog.Change, error) {
			prev, err := m.SetQuantity(quantity)
			if err != nil {
				return stocklog.Change{}, err
			}
			if reason == "" {
				reason = "Manual stock update"
			}
			return stocklog.Change{PreviousStock: prev, NewStock: m.Quantity, Reason: reason}, nil
		})
}

type MovementCommand struct {
	Action          stocklog.Action
	Quantity        int
	Reason          string
	PrescriptionRef string
}

func (c *MovementCommand) validate() error {
	verr := &ValidationError{}
	c.Reason = strings.TrimSpace(c.Reason)
	c.PrescriptionRef = strings.TrimSpace(c.PrescriptionRef)

	switch c.Action {
	case stocklog.ActionStockAdded:
		if c.Quantity <= 0 {
			verr.Add("quantity must be positive")
		}
	case stocklog.ActionPrescriptionDispensed:
		if c.Quantity <= 0 {
			verr.Add("quantity must be positive")
		}
		if c.PrescriptionRef == "" {
			verr.Add("prescription_ref is required")
		}
	case stocklog.ActionStockAdjustment:
		if c.Quantity == 0 {
			verr.Add("quantity must not be zero")
		}
		if c.Reason == "" {
			verr.Add("reason is required")
		}
	case stocklog.ActionExpiredRemoved:
	default:
		verr.Add("action must be one of stock_added, prescription_dispensed, stock_adjustment, expired_removed")
	}
	return verr.OrNil()
}

// RecordMovement applies a restock, dispense, adjustment or expiry removal.
func (s *InventoryService) RecordMovement(ctx context.Context, actor *domain.Claims, id uuid.UUID, cmd MovementCommand) (*StockChange, error) {
	if err := requireInventoryRole(actor); err != nil {
		return nil, err
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, "InventoryService.RecordMovement", actor, id, cmd.Action,
		func(m *medicine.Medicine) (stocklog.Change, error) {
			ch := stocklog.Change{Reason: cmd.Reason, PrescriptionRef: cmd.PrescriptionRef}
			var (
				prev int
				err  error
			)
			switch cmd.Action {
			case stocklog.ActionStockAdded, stocklog.ActionStockAdjustment:
				prev, err = m.Apply(cmd.Quantity)
			case stocklog.ActionPrescriptionDispensed:
				prev, err = m.Apply(-cmd.Quantity)
			case stocklog.ActionExpiredRemoved:
				if !m.IsExpired(s.opts.now()) {
					return ch, medicine.ErrNotExpired
				}
				if ch.Reason == "" {
					ch.Reason = "Expired batch removed"
				}
				prev, err = m.SetQuantity(0)
			}
			if err != nil {
				return ch, err
			}
			ch.PreviousStock = prev
			ch.NewStock = m.Quantity
			return ch, nil
		})
}

// DeleteMedicine removes a medicine. The stock log keeps its history.
func (s *InventoryService) DeleteMedicine(ctx context.Context, actor *domain.Claims, id uuid.UUID, confirmed bool) error {
	ctx, span := s.tracer.Start(ctx, "InventoryService.DeleteMedicine")
	defer span.End()

	if err := requireInventoryRole(actor); err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.medicines.Delete(ctx, id); err != nil {
		recordErr(span, err)
		return err
	}

	s.log.Info("medicine deleted",
		zap.String("medicine_id", id.String()),
		zap.String("performed_by", actor.Name),
	)
	return nil
}

// mutate runs fn under the repository's row lock. The log entry describing
// the transition is written in the same atomic step, then an alert is raised
// if the new status calls for one.
func (s *InventoryService) mutate(
	ctx context.Context,
	spanName string,
	actor *domain.Claims,
	id uuid.UUID,
	action stocklog.Action,
	fn func(m *medicine.Medicine) (stocklog.Change, error),
) (*StockChange, error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("medicine.id", id.String()),
		attribute.String("stock.action", string(action)),
	))
	defer span.End()

	now := s.opts.now()
	var entry *stocklog.Entry
	m, err := s.medicines.Mutate(ctx, id, func(m *medicine.Medicine) (*stocklog.Entry, error) {
		c, err := fn(m)
		if err != nil {
			return nil, err
		}
		m.UpdatedAt = now
		c.Action = action
		c.PerformedBy = actor.Name
		entry = s.newEntry(m, c, now)
		return entry, nil
	})
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	s.metrics.StockMutations.WithLabelValues(string(action)).Inc()

	s.log.Info("stock updated",
		zap.String("medicine_id", m.ID.String()),
		zap.String("action", string(action)),
		zap.Int("previous_stock", entry.PreviousStock),
		zap.Int("new_stock", entry.NewStock),
		zap.String("performed_by", actor.Name),
	)
	s.raiseAlert(ctx, m, now)

	return &StockChange{Medicine: s.row(m), Entry: entry}, nil
}

func (s *InventoryService) newEntry(m *medicine.Medicine, c stocklog.Change, now time.Time) *stocklog.Entry {
	c.MedicineName = m.Name
	c.BatchNumber = m.BatchNumber
	return stocklog.NewEntry(c, now)
}

func (s *InventoryService) raiseAlert(ctx context.Context, m *medicine.Medicine, now time.Time) {
	status := m.Status(now)
	if !alert.ShouldAlert(status) {
		return
	}
	s.alerts.Notify(ctx, alert.StockAlert{
		MedicineID:    m.ID,
		Medicine:      m.Name,
		Status:        status,
		Quantity:      m.Quantity,
		MinStockLevel: m.MinStockLevel,
		RaisedAt:      now,
	})
}

func (s *InventoryService) row(m *medicine.Medicine) *view.MedicineRow {
	rows, _, _ := view.Medicines([]*medicine.Medicine{m}, view.MedicineParams{}, s.opts.now())
	return &rows[0]
}
