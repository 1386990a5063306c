package patient

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_CopiesPointedToDates(t *testing.T) {
	next := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	p := &Patient{
		ID:              uuid.New(),
		Name:            "Michael Chen",
		NextAppointment: &next,
		Prescriptions: []Prescription{
			{Medication: "Amoxicillin 500mg", StartDate: end.AddDate(0, 0, -10), EndDate: &end},
		},
	}

	c := p.Clone()
	require.NotNil(t, c.NextAppointment)
	require.NotNil(t, c.Prescriptions[0].EndDate)
	assert.NotSame(t, p.NextAppointment, c.NextAppointment)
	assert.NotSame(t, p.Prescriptions[0].EndDate, c.Prescriptions[0].EndDate)

	*c.NextAppointment = c.NextAppointment.AddDate(0, 1, 0)
	*c.Prescriptions[0].EndDate = c.Prescriptions[0].EndDate.AddDate(1, 0, 0)
	c.Prescriptions[0].Medication = "changed"

	assert.Equal(t, next, *p.NextAppointment)
	assert.Equal(t, end, *p.Prescriptions[0].EndDate)
	assert.Equal(t, "Amoxicillin 500mg", p.Prescriptions[0].Medication)
}

func TestClone_KeepsNilDates(t *testing.T) {
	p := &Patient{Prescriptions: []Prescription{{Medication: "Metformin 850mg"}}}
	c := p.Clone()
	assert.Nil(t, c.NextAppointment)
	assert.Nil(t, c.Prescriptions[0].EndDate)
}

func TestPrescription_IsCurrent(t *testing.T) {
	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rx := Prescription{StartDate: end.AddDate(0, 0, -10), EndDate: &end}

	assert.True(t, rx.IsCurrent(end.Add(12*time.Hour)))
	assert.False(t, rx.IsCurrent(end.AddDate(0, 0, 3)))
	assert.False(t, rx.IsCurrent(end.AddDate(0, 0, -11)))
}
