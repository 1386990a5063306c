// Package memory holds the process-local stores used when no database is
// configured. Records are cloned on the way in and out, so callers never
// share memory with the store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/google/uuid"
)

// MedicineRepository journals every write to logs while holding its own
// write lock. The log append happens before the medicine is committed, and
// a failed append leaves the inventory untouched.
type MedicineRepository struct {
	logs stocklog.Repository

	mu    sync.RWMutex
	byID  map[uuid.UUID]*medicine.Medicine
	order []uuid.UUID
}

func NewMedicineRepository(logs stocklog.Repository) *MedicineRepository {
	return &MedicineRepository{
		logs: logs,
		byID: make(map[uuid.UUID]*medicine.Medicine),
	}
}

func (r *MedicineRepository) Create(ctx context.Context, m *medicine.Medicine, opening *stocklog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; ok {
		return medicine.ErrDuplicateID
	}
	if opening != nil {
		if err := r.logs.Append(ctx, opening); err != nil {
			return err
		}
	}
	r.byID[m.ID] = m.Clone()
	r.order = append(r.order, m.ID)
	return nil
}

func (r *MedicineRepository) GetByID(_ context.Context, id uuid.UUID) (*medicine.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, medicine.ErrMedicineNotFound
	}
	return m.Clone(), nil
}

func (r *MedicineRepository) List(_ context.Context) ([]*medicine.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*medicine.Medicine, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

// Mutate runs fn on a copy under the write lock and stores the copy only
// once its log entry has been appended.
func (r *MedicineRepository) Mutate(ctx context.Context, id uuid.UUID, fn medicine.Mutation) (*medicine.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return nil, medicine.ErrMedicineNotFound
	}
	next := cur.Clone()
	entry, err := fn(next)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("mutating medicine %s: %w", id, stocklog.ErrMissingEntry)
	}
	if err := r.logs.Append(ctx, entry); err != nil {
		return nil, err
	}
	r.byID[id] = next
	return next.Clone(), nil
}

func (r *MedicineRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return medicine.ErrMedicineNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
