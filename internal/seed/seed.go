// Package seed loads the sample clinic dataset into the repositories.
//
// Dates in the dataset are plain strings and are validated at ingestion, so a
// malformed value is reported with its path instead of reaching a comparator.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sample []byte

type document struct {
	Patients  []patientDoc  `yaml:"patients"`
	Medicines []medicineDoc `yaml:"medicines"`
	Logs      []logDoc      `yaml:"logs"`
}

type patientDoc struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	Email            string         `yaml:"email"`
	Phone            string         `yaml:"phone"`
	Address          string         `yaml:"address"`
	Age              int            `yaml:"age"`
	Gender           string         `yaml:"gender"`
	BloodType        string         `yaml:"blood_type"`
	LastVisit        string         `yaml:"last_visit"`
	NextAppointment  string         `yaml:"next_appointment"`
	Status           string         `yaml:"status"`
	TreatmentHistory []treatmentDoc `yaml:"treatment_history"`
	Prescriptions    []rxDoc        `yaml:"prescriptions"`
	Notes            []noteDoc      `yaml:"notes"`
}

type treatmentDoc struct {
	Date      string `yaml:"date"`
	Diagnosis string `yaml:"diagnosis"`
	Treatment string `yaml:"treatment"`
	Doctor    string `yaml:"doctor"`
	Notes     string `yaml:"notes"`
}

type rxDoc struct {
	Medication   string `yaml:"medication"`
	Dosage       string `yaml:"dosage"`
	Frequency    string `yaml:"frequency"`
	StartDate    string `yaml:"start_date"`
	EndDate      string `yaml:"end_date"`
	PrescribedBy string `yaml:"prescribed_by"`
}

type noteDoc struct {
	Date   string `yaml:"date"`
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

type medicineDoc struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Category      string  `yaml:"category"`
	Quantity      int     `yaml:"quantity"`
	MinStockLevel int     `yaml:"min_stock_level"`
	ExpiryDate    string  `yaml:"expiry_date"`
	Price         float64 `yaml:"price"`
	Supplier      string  `yaml:"supplier"`
	BatchNumber   string  `yaml:"batch_number"`
}

type logDoc struct {
	ID              string `yaml:"id"`
	Timestamp       string `yaml:"timestamp"`
	Action          string `yaml:"action"`
	MedicineName    string `yaml:"medicine_name"`
	Quantity        int    `yaml:"quantity"`
	PreviousStock   int    `yaml:"previous_stock"`
	NewStock        int    `yaml:"new_stock"`
	PerformedBy     string `yaml:"performed_by"`
	BatchNumber     string `yaml:"batch_number"`
	Reason          string `yaml:"reason"`
	PrescriptionRef string `yaml:"prescription_ref"`
}

// Dataset is a validated set of records ready to be stored.
type Dataset struct {
	Patients  []*patient.Patient
	Medicines []*medicine.Medicine
	Logs      []*stocklog.Entry
}

// Sample parses the embedded dataset.
func Sample(loc *time.Location) (*Dataset, error) {
	return Parse(bytes.NewReader(sample), loc)
}

// Parse decodes a YAML dataset. Calendar dates are read in loc. Every invalid
// field is reported in a single *domain.ValidationError.
func Parse(r io.Reader, loc *time.Location) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding seed data: %w", err)
	}

	p := &parser{loc: loc, verr: &domain.ValidationError{}, seen: make(map[uuid.UUID]string)}
	ds := &Dataset{}
	for i, d := range doc.Patients {
		ds.Patients = append(ds.Patients, p.patient(fmt.Sprintf("patients[%d]", i), d))
	}
	for i, d := range doc.Medicines {
		ds.Medicines = append(ds.Medicines, p.medicine(fmt.Sprintf("medicines[%d]", i), d))
	}
	for i, d := range doc.Logs {
		ds.Logs = append(ds.Logs, p.entry(fmt.Sprintf("logs[%d]", i), d))
	}

	if err := p.verr.OrNil(); err != nil {
		return nil, err
	}
	return ds, nil
}

type parser struct {
	loc  *time.Location
	verr *domain.ValidationError
	seen map[uuid.UUID]string
}

func (p *parser) fail(path, format string, args ...any) {
	p.verr.Add(path + ": " + fmt.Sprintf(format, args...))
}

func (p *parser) id(path, raw string) uuid.UUID {
	if strings.TrimSpace(raw) == "" {
		return uuid.New()
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		p.fail(path+".id", "%q is not a uuid", raw)
		return id
	}
	if first, ok := p.seen[id]; ok {
		p.fail(path+".id", "duplicates %s", first)
	}
	p.seen[id] = path
	return id
}

func (p *parser) date(path, raw string) time.Time {
	t, err := domain.ParseDate(raw, p.loc)
	if err != nil {
		p.fail(path, "%v", err)
	}
	return t
}

func (p *parser) optionalDate(path, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t := p.date(path, raw)
	return &t
}

func (p *parser) required(path, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		p.fail(path, "is required")
	}
	return v
}

func (p *parser) patient(path string, d patientDoc) *patient.Patient {
	out := &patient.Patient{
		ID:   p.id(path, d.ID),
		Name: p.required(path+".name", d.Name),
		Age:  d.Age,
		ContactInfo: patient.ContactInfo{
			Email:   strings.TrimSpace(d.Email),
			Phone:   strings.TrimSpace(d.Phone),
			Address: strings.TrimSpace(d.Address),
		},
		Gender:          patient.Gender(d.Gender),
		BloodType:       patient.BloodType(d.BloodType),
		Status:          patient.Status(d.Status),
		LastVisit:       p.date(path+".last_visit", d.LastVisit),
		NextAppointment: p.optionalDate(path+".next_appointment", d.NextAppointment),
	}

	if d.Age < 0 {
		p.fail(path+".age", "cannot be negative")
	}
	if !out.Gender.IsValid() {
		p.fail(path+".gender", "%v", patient.ErrInvalidGender)
	}
	if out.BloodType == "" {
		out.BloodType = patient.BloodTypeUnknown
	} else if !out.BloodType.IsValid() {
		p.fail(path+".blood_type", "%q is not a blood type", d.BloodType)
	}
	if out.Status == "" {
		out.Status = patient.StatusActive
	} else if !out.Status.IsValid() {
		p.fail(path+".status", "%v", patient.ErrInvalidStatus)
	}

	for i, t := range d.TreatmentHistory {
		tp := fmt.Sprintf("%s.treatment_history[%d]", path, i)
		out.TreatmentHistory = append(out.TreatmentHistory, patient.Treatment{
			Date:      p.date(tp+".date", t.Date),
			Diagnosis: p.required(tp+".diagnosis", t.Diagnosis),
			Treatment: t.Treatment,
			Doctor:    t.Doctor,
			Notes:     t.Notes,
		})
	}
	for i, rx := range d.Prescriptions {
		rp := fmt.Sprintf("%s.prescriptions[%d]", path, i)
		out.Prescriptions = append(out.Prescriptions, patient.Prescription{
			Medication:   p.required(rp+".medication", rx.Medication),
			Dosage:       rx.Dosage,
			Frequency:    rx.Frequency,
			StartDate:    p.date(rp+".start_date", rx.StartDate),
			EndDate:      p.optionalDate(rp+".end_date", rx.EndDate),
			PrescribedBy: rx.PrescribedBy,
		})
	}
	for i, n := range d.Notes {
		np := fmt.Sprintf("%s.notes[%d]", path, i)
		out.Notes = append(out.Notes, patient.Note{
			Date:   p.date(np+".date", n.Date),
			Author: n.Author,
			Text:   p.required(np+".text", n.Text),
		})
	}
	return out
}

func (p *parser) medicine(path string, d medicineDoc) *medicine.Medicine {
	out := &medicine.Medicine{
		ID:            p.id(path, d.ID),
		Name:          p.required(path+".name", d.Name),
		Category:      medicine.Category(d.Category),
		Quantity:      d.Quantity,
		MinStockLevel: d.MinStockLevel,
		ExpiryDate:    p.date(path+".expiry_date", d.ExpiryDate),
		Price:         d.Price,
		Supplier:      strings.TrimSpace(d.Supplier),
		BatchNumber:   strings.TrimSpace(d.BatchNumber),
	}
	if !out.Category.IsValid() {
		p.fail(path+".category", "%q is not a known category", d.Category)
	}
	if d.Quantity < 0 {
		p.fail(path+".quantity", "cannot be negative")
	}
	if d.MinStockLevel < 0 {
		p.fail(path+".min_stock_level", "cannot be negative")
	}
	if d.Price < 0 {
		p.fail(path+".price", "cannot be negative")
	}
	return out
}

func (p *parser) entry(path string, d logDoc) *stocklog.Entry {
	ts, err := domain.ParseTimestamp(d.Timestamp, p.loc)
	if err != nil {
		p.fail(path+".timestamp", "%v", err)
	}
	e := &stocklog.Entry{
		ID:              p.id(path, d.ID),
		Timestamp:       ts,
		Action:          stocklog.Action(d.Action),
		MedicineName:    strings.TrimSpace(d.MedicineName),
		Quantity:        d.Quantity,
		PreviousStock:   d.PreviousStock,
		NewStock:        d.NewStock,
		PerformedBy:     strings.TrimSpace(d.PerformedBy),
		BatchNumber:     strings.TrimSpace(d.BatchNumber),
		Reason:          strings.TrimSpace(d.Reason),
		PrescriptionRef: strings.TrimSpace(d.PrescriptionRef),
	}
	if err == nil {
		if err := e.Validate(); err != nil {
			p.fail(path, "%v", err)
		}
	}
	return e
}

// Store is the set of repositories a dataset is written to.
type Store struct {
	Medicines medicine.Repository
	Logs      stocklog.Repository
	Patients  patient.Repository

	// Atomic, when set, runs fn in a single transaction with a Store bound
	// to it. Without it the writes go straight to the repositories above.
	Atomic func(ctx context.Context, fn func(Store) error) error
}

// ErrAlreadySeeded is returned by Apply when the inventory already has rows.
var ErrAlreadySeeded = errors.New("store already holds inventory; skipping seed")

// Apply writes ds into s. A store that already holds medicines is left alone
// so that restarting against Postgres does not duplicate the sample. Record
// creation times are spaced a microsecond apart so that stores ordering by
// creation time return the dataset's own order.
func (ds *Dataset) Apply(ctx context.Context, s Store, now time.Time) error {
	existing, err := s.Medicines.List(ctx)
	if err != nil {
		return fmt.Errorf("checking inventory: %w", err)
	}
	if len(existing) > 0 {
		return ErrAlreadySeeded
	}

	if s.Atomic != nil {
		return s.Atomic(ctx, func(tx Store) error { return ds.write(ctx, tx, now) })
	}
	return ds.write(ctx, s, now)
}

func (ds *Dataset) write(ctx context.Context, s Store, now time.Time) error {
	for i, p := range ds.Patients {
		c := p.Clone()
		c.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		if err := s.Patients.Create(ctx, c); err != nil {
			return fmt.Errorf("seeding patient %s: %w", p.Name, err)
		}
	}
	for i, m := range ds.Medicines {
		c := m.Clone()
		c.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		c.UpdatedAt = now
		if err := s.Medicines.Create(ctx, c, nil); err != nil {
			return fmt.Errorf("seeding medicine %s: %w", m.Name, err)
		}
	}
	for _, e := range ds.Logs {
		if err := s.Logs.Append(ctx, e.Clone()); err != nil {
			return fmt.Errorf("seeding log entry %s: %w", e.ID, err)
		}
	}
	return nil
}
