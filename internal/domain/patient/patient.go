package patient

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type BloodType string

const (
	BloodTypeAPos    BloodType = "A+"
	BloodTypeANeg    BloodType = "A-"
	BloodTypeBPos    BloodType = "B+"
	BloodTypeBNeg    BloodType = "B-"
	BloodTypeABPos   BloodType = "AB+"
	BloodTypeABNeg   BloodType = "AB-"
	BloodTypeOPos    BloodType = "O+"
	BloodTypeONeg    BloodType = "O-"
	BloodTypeUnknown BloodType = "unknown"
)

func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg, BloodTypeUnknown:
		return true
	}
	return false
}

// Status represents the lifecycle state of a patient record.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

type ContactInfo struct {
	Phone   string `json:"phone" gorm:"column:phone;type:varchar(30)"`
	Email   string `json:"email" gorm:"column:email;type:varchar(255)"`
	Address string `json:"address" gorm:"column:address;type:text"`
}

// Treatment is one entry of a patient's treatment history.
type Treatment struct {
	Date      time.Time `json:"date"`
	Diagnosis string    `json:"diagnosis"`
	Treatment string    `json:"treatment"`
	Doctor    string    `json:"doctor"`
	Notes     string    `json:"notes,omitempty"`
}

type Prescription struct {
	Medication   string     `json:"medication"`
	Dosage       string     `json:"dosage"`    // e.g. "500mg"
	Frequency    string     `json:"frequency"` // e.g. "twice daily"
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	PrescribedBy string     `json:"prescribed_by"`
}

// IsCurrent reports whether the prescription is still running on the day of now.
func (p Prescription) IsCurrent(now time.Time) bool {
	if now.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || !now.After(p.EndDate.Add(24*time.Hour))
}

type Note struct {
	Date   time.Time `json:"date"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
}

// Patient owns its child collections; they are loaded with the record and
// never edited independently.
type Patient struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime;index"`

	Name      string    `json:"name" gorm:"column:name;type:varchar(200);not null;index"`
	Age       int       `json:"age" gorm:"column:age;not null"`
	Gender    Gender    `json:"gender" gorm:"column:gender;type:varchar(20);not null"`
	BloodType BloodType `json:"blood_type,omitempty" gorm:"column:blood_type;type:varchar(10)"`

	ContactInfo

	LastVisit       time.Time  `json:"last_visit" gorm:"column:last_visit;index"`
	NextAppointment *time.Time `json:"next_appointment,omitempty" gorm:"column:next_appointment"`
	Status          Status     `json:"status" gorm:"column:status;type:varchar(20);default:'Active';index"`

	TreatmentHistory []Treatment    `json:"treatment_history" gorm:"column:treatment_history;serializer:json"`
	Prescriptions    []Prescription `json:"prescriptions" gorm:"column:prescriptions;serializer:json"`
	Notes            []Note         `json:"notes" gorm:"column:notes;serializer:json"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

// CurrentPrescriptions returns the prescriptions running on the day of now.
func (p *Patient) CurrentPrescriptions(now time.Time) []Prescription {
	var out []Prescription
	for _, rx := range p.Prescriptions {
		if rx.IsCurrent(now) {
			out = append(out, rx)
		}
	}
	return out
}

// Clone copies the record including its child slices.
func (p *Patient) Clone() *Patient {
	c := *p
	c.NextAppointment = cloneTime(p.NextAppointment)
	c.TreatmentHistory = append([]Treatment(nil), p.TreatmentHistory...)
	c.Prescriptions = append([]Prescription(nil), p.Prescriptions...)
	for i := range c.Prescriptions {
		c.Prescriptions[i].EndDate = cloneTime(c.Prescriptions[i].EndDate)
	}
	c.Notes = append([]Note(nil), p.Notes...)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
