package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const patientsTable = "patients"

type PatientRepository struct {
	db *gorm.DB
	timer
}

func NewPatientRepository(db *gorm.DB, m *metrics.Collector) *PatientRepository {
	return &PatientRepository{db: db, timer: timer{m: m}}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	defer r.observe("create", patientsTable, time.Now())

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return patient.ErrPatientAlreadyExists
		}
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	defer r.observe("get", patientsTable, time.Now())

	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, fmt.Errorf("loading patient %s: %w", id, err)
	}
	return &p, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]*patient.Patient, error) {
	defer r.observe("list", patientsTable, time.Now())

	var out []*patient.Patient
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return out, nil
}
