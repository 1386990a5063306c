package medicine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/google/uuid"
)

type Category string

const (
	CategoryAntibiotics      Category = "Antibiotics"
	CategoryPainRelief       Category = "Pain Relief"
	CategoryCardiovascular   Category = "Cardiovascular"
	CategoryDiabetes         Category = "Diabetes"
	CategoryRespiratory      Category = "Respiratory"
	CategoryVitamins         Category = "Vitamins"
	CategoryGastrointestinal Category = "Gastrointestinal"
	CategoryDermatology      Category = "Dermatology"
)

var categories = []Category{
	CategoryAntibiotics,
	CategoryPainRelief,
	CategoryCardiovascular,
	CategoryDiabetes,
	CategoryRespiratory,
	CategoryVitamins,
	CategoryGastrointestinal,
	CategoryDermatology,
}

func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

type Medicine struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Name     string   `json:"name" gorm:"column:name;type:varchar(255);not null;index"`
	Category Category `json:"category" gorm:"column:category;type:varchar(50);not null;index"`

	Quantity      int       `json:"quantity" gorm:"column:quantity;not null;default:0"`
	MinStockLevel int       `json:"min_stock_level" gorm:"column:min_stock_level;not null;default:0"`
	ExpiryDate    time.Time `json:"expiry_date" gorm:"column:expiry_date;type:date;not null;index"`

	Price       float64 `json:"price" gorm:"column:price;type:numeric(12,2);not null"`
	Supplier    string  `json:"supplier" gorm:"column:supplier;type:varchar(255)"`
	BatchNumber string  `json:"batch_number" gorm:"column:batch_number;type:varchar(100)"`
}

func (Medicine) TableName() string {
	return "pharmacy.medicines"
}

// Status is the only way to read a medicine's stock status.
func (m *Medicine) Status(now time.Time) Status {
	return ComputeStatus(m.Quantity, m.ExpiryDate, m.MinStockLevel, now)
}

func (m *Medicine) DaysToExpiry(now time.Time) int {
	return DaysToExpiry(m.ExpiryDate, now)
}

func (m *Medicine) IsExpired(now time.Time) bool {
	return m.DaysToExpiry(now) <= 0
}

// Value is the stock value at the current price.
func (m *Medicine) Value() float64 {
	return float64(m.Quantity) * m.Price
}

// SetQuantity replaces the stock level and returns the previous one.
func (m *Medicine) SetQuantity(q int) (int, error) {
	if q < 0 {
		return m.Quantity, ErrNegativeQuantity
	}
	prev := m.Quantity
	m.Quantity = q
	return prev, nil
}

// Apply adds a signed delta to the stock level and returns the previous one.
func (m *Medicine) Apply(delta int) (int, error) {
	if m.Quantity+delta < 0 {
		return m.Quantity, ErrInsufficientStock
	}
	return m.SetQuantity(m.Quantity + delta)
}

func (m *Medicine) Clone() *Medicine {
	c := *m
	return &c
}

type CreateMedicineCommand struct {
	Name          string
	Category      Category
	Quantity      int
	ExpiryDate    time.Time
	Price         float64
	Supplier      string
	BatchNumber   string
	MinStockLevel int
}

// Draft is a medicine as typed into the add form: every field is raw text.
type Draft struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Quantity      string `json:"quantity"`
	ExpiryDate    string `json:"expiry_date"`
	Price         string `json:"price"`
	Supplier      string `json:"supplier"`
	BatchNumber   string `json:"batch_number"`
	MinStockLevel string `json:"min_stock_level"`
}

// Parse validates every field and reports all failures at once.
func (d Draft) Parse(loc *time.Location) (*CreateMedicineCommand, error) {
	verr := &domain.ValidationError{}
	cmd := &CreateMedicineCommand{
		Name:        strings.TrimSpace(d.Name),
		Category:    Category(strings.TrimSpace(d.Category)),
		Supplier:    strings.TrimSpace(d.Supplier),
		BatchNumber: strings.TrimSpace(d.BatchNumber),
	}

	if cmd.Name == "" {
		verr.Add("name is required")
	}
	switch {
	case cmd.Category == "":
		verr.Add("category is required")
	case !cmd.Category.IsValid():
		verr.Add("category is not a known category")
	}

	cmd.Quantity = parseCount(verr, "quantity", d.Quantity)
	cmd.MinStockLevel = parseCount(verr, "min_stock_level", d.MinStockLevel)

	if strings.TrimSpace(d.Price) == "" {
		verr.Add("price is required")
	} else if p, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64); err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		verr.Add("price must be a number")
	} else if p < 0 {
		verr.Add("price cannot be negative")
	} else {
		cmd.Price = p
	}

	if strings.TrimSpace(d.ExpiryDate) == "" {
		verr.Add("expiry_date is required")
	} else if t, err := domain.ParseDate(d.ExpiryDate, loc); err != nil {
		verr.Add("expiry_date " + err.Error())
	} else {
		cmd.ExpiryDate = t
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func parseCount(verr *domain.ValidationError, field, raw string) int {
	v := strings.TrimSpace(raw)
	if v == "" {
		verr.Add(field + " is required")
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		verr.Add(field + " must be a whole number")
		return 0
	}
	if n < 0 {
		verr.Add(field + " cannot be negative")
		return 0
	}
	return n
}
