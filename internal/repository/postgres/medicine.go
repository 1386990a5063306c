package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const medicinesTable = "medicines"

type MedicineRepository struct {
	db *gorm.DB
	timer
}

func NewMedicineRepository(db *gorm.DB, m *metrics.Collector) *MedicineRepository {
	return &MedicineRepository{db: db, timer: timer{m: m}}
}

// Create inserts m and its opening log entry in one transaction.
func (r *MedicineRepository) Create(ctx context.Context, m *medicine.Medicine, opening *stocklog.Entry) error {
	defer r.observe("create", medicinesTable, time.Now())

	if opening != nil {
		if err := opening.Validate(); err != nil {
			return fmt.Errorf("appending stock log entry: %w", err)
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return medicine.ErrDuplicateID
			}
			return fmt.Errorf("inserting medicine: %w", err)
		}
		if opening == nil {
			return nil
		}
		return insertEntry(tx, opening)
	})
}

func (r *MedicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	defer r.observe("get", medicinesTable, time.Now())

	var m medicine.Medicine
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, medicine.ErrMedicineNotFound
		}
		return nil, fmt.Errorf("loading medicine %s: %w", id, err)
	}
	return &m, nil
}

func (r *MedicineRepository) List(ctx context.Context) ([]*medicine.Medicine, error) {
	defer r.observe("list", medicinesTable, time.Now())

	var out []*medicine.Medicine
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing medicines: %w", err)
	}
	return out, nil
}

// Mutate locks the row with SELECT ... FOR UPDATE for the duration of fn and
// inserts the resulting log entry in the same transaction.
func (r *MedicineRepository) Mutate(ctx context.Context, id uuid.UUID, fn medicine.Mutation) (*medicine.Medicine, error) {
	defer r.observe("mutate", medicinesTable, time.Now())

	var m medicine.Medicine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return medicine.ErrMedicineNotFound
			}
			return fmt.Errorf("locking medicine %s: %w", id, err)
		}
		entry, err := fn(&m)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("mutating medicine %s: %w", id, stocklog.ErrMissingEntry)
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("appending stock log entry: %w", err)
		}
		if err := tx.Save(&m).Error; err != nil {
			return fmt.Errorf("saving medicine %s: %w", id, err)
		}
		return insertEntry(tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MedicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.observe("delete", medicinesTable, time.Now())

	res := r.db.WithContext(ctx).Delete(&medicine.Medicine{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting medicine %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return medicine.ErrMedicineNotFound
	}
	return nil
}
