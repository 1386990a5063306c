package stocklog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionStockAdded            Action = "stock_added"
	ActionStockUpdated          Action = "stock_updated"
	ActionPrescriptionDispensed Action = "prescription_dispensed"
	ActionMedicineAdded         Action = "medicine_added"
	ActionExpiredRemoved        Action = "expired_removed"
	ActionStockAdjustment       Action = "stock_adjustment"
)

var actionLabels = map[Action]string{
	ActionStockAdded:            "Stock Added",
	ActionStockUpdated:          "Stock Updated",
	ActionPrescriptionDispensed: "Prescription Dispensed",
	ActionMedicineAdded:         "Medicine Added",
	ActionExpiredRemoved:        "Expired Removed",
	ActionStockAdjustment:       "Stock Adjustment",
}

func (a Action) IsValid() bool {
	_, ok := actionLabels[a]
	return ok
}

// Label is the human readable form used in reports.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

// Actions returns the closed action set.
func Actions() []Action {
	return []Action{
		ActionStockAdded,
		ActionStockUpdated,
		ActionPrescriptionDispensed,
		ActionMedicineAdded,
		ActionExpiredRemoved,
		ActionStockAdjustment,
	}
}

// Entry records a single stock-affecting action. Entries are immutable once
// appended.
type Entry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"column:timestamp;not null;index"`
	Action    Action    `json:"action" gorm:"column:action;type:varchar(40);not null;index"`

	// MedicineName is a plain name, not a foreign key: history outlives the
	// inventory row.
	MedicineName  string `json:"medicine_name" gorm:"column:medicine_name;type:varchar(255);not null;index"`
	Quantity      int    `json:"quantity" gorm:"column:quantity;not null"`
	PreviousStock int    `json:"previous_stock" gorm:"column:previous_stock;not null"`
	NewStock      int    `json:"new_stock" gorm:"column:new_stock;not null"`

	PerformedBy     string `json:"performed_by" gorm:"column:performed_by;type:varchar(255);not null"`
	BatchNumber     string `json:"batch_number" gorm:"column:batch_number;type:varchar(100)"`
	Reason          string `json:"reason" gorm:"column:reason;type:text"`
	PrescriptionRef string `json:"prescription_ref,omitempty" gorm:"column:prescription_ref;type:varchar(100)"`

	// Seq is assigned by the database and fixes append order for entries
	// that share a timestamp.
	Seq int64 `json:"-" gorm:"column:seq;autoIncrement;not null;uniqueIndex"`
}

func (Entry) TableName() string {
	return "pharmacy.stock_logs"
}

// Validate checks the entry's invariants, including the stock arithmetic.
func (e *Entry) Validate() error {
	if !e.Action.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, e.Action)
	}
	if strings.TrimSpace(e.MedicineName) == "" {
		return ErrMissingMedicine
	}
	if strings.TrimSpace(e.PerformedBy) == "" {
		return ErrMissingActor
	}
	if e.NewStock != e.PreviousStock+e.Quantity {
		return fmt.Errorf("%w: %d + %d != %d", ErrStockMismatch, e.PreviousStock, e.Quantity, e.NewStock)
	}
	return nil
}

func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}

// Change describes a stock transition about to be logged.
type Change struct {
	Action          Action
	MedicineName    string
	BatchNumber     string
	PreviousStock   int
	NewStock        int
	PerformedBy     string
	Reason          string
	PrescriptionRef string
}

// NewEntry builds an entry whose quantity is derived from the transition, so
// the stock arithmetic holds by construction.
func NewEntry(c Change, at time.Time) *Entry {
	return &Entry{
		ID:              uuid.New(),
		Timestamp:       at,
		Action:          c.Action,
		MedicineName:    c.MedicineName,
		Quantity:        c.NewStock - c.PreviousStock,
		PreviousStock:   c.PreviousStock,
		NewStock:        c.NewStock,
		PerformedBy:     c.PerformedBy,
		BatchNumber:     c.BatchNumber,
		Reason:          c.Reason,
		PrescriptionRef: c.PrescriptionRef,
	}
}
