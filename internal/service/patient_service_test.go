package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPatientService(t *testing.T) (*PatientService, *memory.PatientRepository) {
	t.Helper()
	repo := memory.NewPatientRepository()
	svc := NewPatientService(repo, metrics.NewCollector("test", prometheus.NewRegistry()), zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }))
	return svc, repo
}

func TestPatientService_Browse(t *testing.T) {
	svc, repo := newPatientService(t)
	ctx := context.Background()
	for _, p := range []*patient.Patient{
		{ID: uuid.New(), Name: "Sarah Johnson", Status: patient.StatusActive, ContactInfo: patient.ContactInfo{Email: "sarah.johnson@email.com"}},
		{ID: uuid.New(), Name: "Michael Chen", Status: patient.StatusActive, ContactInfo: patient.ContactInfo{Email: "michael.chen@email.com"}},
		{ID: uuid.New(), Name: "Emily Rodriguez", Status: patient.StatusInactive},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	list, err := svc.Browse(ctx, view.PatientParams{Search: "chen"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Michael Chen", list.Items[0].Name)
	assert.Equal(t, view.PatientSummary{Total: 3, Active: 2, Inactive: 1}, list.Summary)

	_, err = svc.Browse(ctx, view.PatientParams{Sort: "height"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPatientService_Get(t *testing.T) {
	svc, repo := newPatientService(t)
	ctx := context.Background()
	ended := fixedNow.AddDate(0, 0, -30)
	p := &patient.Patient{
		ID:     uuid.New(),
		Name:   "Michael Chen",
		Status: patient.StatusActive,
		Prescriptions: []patient.Prescription{
			{Medication: "Lisinopril 10mg", StartDate: fixedNow.AddDate(0, -2, 0)},
			{Medication: "Amoxicillin 500mg", StartDate: fixedNow.AddDate(0, 0, -40), EndDate: &ended},
		},
	}
	require.NoError(t, repo.Create(ctx, p))

	detail, err := svc.Get(ctx, nurse, p.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Prescriptions, 2)
	require.Len(t, detail.CurrentPrescriptions, 1)
	assert.Equal(t, "Lisinopril 10mg", detail.CurrentPrescriptions[0].Medication)

	_, err = svc.Get(ctx, nurse, uuid.New())
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}
