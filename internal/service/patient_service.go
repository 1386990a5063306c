package service

import (
	"context"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type PatientService struct {
	repo    patient.Repository
	metrics *metrics.Collector
	log     *zap.Logger
	tracer  trace.Tracer
	opts    options
}

func NewPatientService(repo patient.Repository, m *metrics.Collector, log *zap.Logger, opts ...Option) *PatientService {
	return &PatientService{
		repo:    repo,
		metrics: m,
		log:     log,
		tracer:  newTracer(),
		opts:    buildOptions(opts),
	}
}

type PatientList struct {
	Items   []view.PatientRow   `json:"items"`
	Summary view.PatientSummary `json:"summary"`
}

// Browse runs the patient list view.
func (s *PatientService) Browse(ctx context.Context, p view.PatientParams) (*PatientList, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Browse")
	defer span.End()

	records, err := s.repo.List(ctx)
	if err != nil {
		recordErr(span, err)
		return nil, fmt.Errorf("loading patients: %w", err)
	}

	rows, summary, err := view.Patients(records, p, s.opts.now())
	if err != nil {
		return nil, err
	}

	s.metrics.ViewComputations.WithLabelValues("patients").Inc()
	span.SetAttributes(attribute.Int("view.rows", len(rows)))

	return &PatientList{Items: rows, Summary: summary}, nil
}

// PatientDetail is one patient with the prescriptions running today split out.
type PatientDetail struct {
	*patient.Patient
	CurrentPrescriptions []patient.Prescription `json:"current_prescriptions"`
}

func (s *PatientService) Get(ctx context.Context, actor *domain.Claims, id uuid.UUID) (*PatientDetail, error) {
	ctx, span := s.tracer.Start(ctx, "PatientService.Get", trace.WithAttributes(attribute.String("patient.id", id.String())))
	defer span.End()

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}

	if actor != nil {
		s.log.Debug("patient record viewed",
			zap.String("patient_id", id.String()),
			zap.String("viewed_by", actor.Name),
			zap.String("role", string(actor.Role)),
		)
	}

	return &PatientDetail{Patient: p, CurrentPrescriptions: p.CurrentPrescriptions(s.opts.now())}, nil
}
