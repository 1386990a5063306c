package view

import (
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
)

const (
	PatientSortName      = "name"
	PatientSortLastVisit = "last_visit"
	PatientSortAge       = "age"
)

var patientSorts = []string{PatientSortName, PatientSortLastVisit, PatientSortAge}

type PatientParams struct {
	Search  string `form:"search"`
	Status  string `form:"status"`
	Sort    string `form:"sort"`
	Reverse bool   `form:"reverse"`
}

func (p PatientParams) Validate() error {
	verr := &domain.ValidationError{}
	if !isAll(p.Status) && !patient.Status(p.Status).IsValid() {
		verr.Add(fmt.Sprintf("status %q is not one of all, Active, Inactive", p.Status))
	}
	if p.Sort != "" {
		checkSort(verr, p.Sort, patientSorts)
	}
	return verr.OrNil()
}

// PatientRow is the list projection of a patient; the child collections are
// only served by the detail endpoint.
type PatientRow struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Age             int            `json:"age"`
	Gender          patient.Gender `json:"gender"`
	Status          patient.Status `json:"status"`
	LastVisit       time.Time      `json:"last_visit"`
	NextAppointment *time.Time     `json:"next_appointment,omitempty"`
	ActiveRx        int            `json:"active_prescriptions"`
}

type PatientSummary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Patients filters, orders and summarises the patient list.
func Patients(records []*patient.Patient, p PatientParams, now time.Time) ([]PatientRow, PatientSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, PatientSummary{}, err
	}

	m := newMatcher(p.Search)
	rows := make([]PatientRow, 0, len(records))
	for _, rec := range records {
		if !m.match(rec.Name, rec.Email, rec.Phone) {
			continue
		}
		if !isAll(p.Status) && string(rec.Status) != p.Status {
			continue
		}
		rows = append(rows, PatientRow{
			ID:              rec.ID.String(),
			Name:            rec.Name,
			Email:           rec.Email,
			Phone:           rec.Phone,
			Age:             rec.Age,
			Gender:          rec.Gender,
			Status:          rec.Status,
			LastVisit:       rec.LastVisit,
			NextAppointment: rec.NextAppointment,
			ActiveRx:        len(rec.CurrentPrescriptions(now)),
		})
	}

	stableSort(rows, patientLess(p.Sort), p.Reverse)
	return rows, SummarizePatients(records), nil
}

func patientLess(key string) func(a, b PatientRow) bool {
	switch key {
	case PatientSortLastVisit:
		return func(a, b PatientRow) bool { return a.LastVisit.After(b.LastVisit) }
	case PatientSortAge:
		return func(a, b PatientRow) bool { return a.Age < b.Age }
	default:
		cmp := nameOrder()
		return func(a, b PatientRow) bool { return cmp(a.Name, b.Name) < 0 }
	}
}

func SummarizePatients(records []*patient.Patient) PatientSummary {
	s := PatientSummary{Total: len(records)}
	for _, p := range records {
		if p.IsActive() {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s
}
