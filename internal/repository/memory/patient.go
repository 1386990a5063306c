package memory

import (
	"context"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
	"github.com/google/uuid"
)

type PatientRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*patient.Patient
	order []uuid.UUID
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{byID: make(map[uuid.UUID]*patient.Patient)}
}

func (r *PatientRepository) Create(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return patient.ErrPatientAlreadyExists
	}
	r.byID[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return nil
}

func (r *PatientRepository) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p.Clone(), nil
}

func (r *PatientRepository) List(_ context.Context) ([]*patient.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*patient.Patient, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}
