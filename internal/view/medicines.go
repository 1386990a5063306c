package view

import (
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
)

const (
	MedicineSortName   = "name"
	MedicineSortStock  = "stock"
	MedicineSortExpiry = "expiry"
	MedicineSortPrice  = "price"
)

var medicineSorts = []string{MedicineSortName, MedicineSortStock, MedicineSortExpiry, MedicineSortPrice}

type MedicineParams struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
	Sort     string `form:"sort"`
	Reverse  bool   `form:"reverse"`
}

// Validate rejects unknown sort keys and filter values. An empty sort key
// means name order.
func (p MedicineParams) Validate() error {
	verr := &domain.ValidationError{}
	if !isAll(p.Category) && !medicine.Category(p.Category).IsValid() {
		verr.Add(fmt.Sprintf("category %q is not a known category", p.Category))
	}
	if !isAll(p.Status) && !medicine.Status(p.Status).IsValid() {
		verr.Add(fmt.Sprintf("status %q is not a known stock status", p.Status))
	}
	if p.Sort != "" {
		checkSort(verr, p.Sort, medicineSorts)
	}
	return verr.OrNil()
}

// MedicineRow is a medicine with the values derived at view time.
type MedicineRow struct {
	medicine.Medicine
	Status       medicine.Status `json:"status"`
	DaysToExpiry int             `json:"days_to_expiry"`
	Expired      bool            `json:"expired"`
	Value        float64         `json:"value"`
}

type MedicineSummary struct {
	Total          int                       `json:"total"`
	LowStock       int                       `json:"low_stock"`
	OutOfStock     int                       `json:"out_of_stock"`
	NearExpiry     int                       `json:"near_expiry"`
	InventoryValue float64                   `json:"inventory_value"`
	ByCategory     map[medicine.Category]int `json:"by_category"`
}

// Medicines filters, orders and summarises the inventory as of now.
func Medicines(records []*medicine.Medicine, p MedicineParams, now time.Time) ([]MedicineRow, MedicineSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, MedicineSummary{}, err
	}

	m := newMatcher(p.Search)
	rows := make([]MedicineRow, 0, len(records))
	for _, rec := range records {
		row := medicineRow(rec, now)
		if !m.match(rec.Name, string(rec.Category), rec.Supplier) {
			continue
		}
		if !isAll(p.Category) && string(rec.Category) != p.Category {
			continue
		}
		if !isAll(p.Status) && string(row.Status) != p.Status {
			continue
		}
		rows = append(rows, row)
	}

	stableSort(rows, medicineLess(p.Sort), p.Reverse)
	return rows, SummarizeMedicines(records, now), nil
}

func medicineRow(m *medicine.Medicine, now time.Time) MedicineRow {
	days := m.DaysToExpiry(now)
	return MedicineRow{
		Medicine:     *m,
		Status:       m.Status(now),
		DaysToExpiry: days,
		Expired:      days <= 0,
		Value:        m.Value(),
	}
}

func medicineLess(key string) func(a, b MedicineRow) bool {
	switch key {
	case MedicineSortStock:
		return func(a, b MedicineRow) bool { return a.Quantity > b.Quantity }
	case MedicineSortExpiry:
		return func(a, b MedicineRow) bool { return a.ExpiryDate.Before(b.ExpiryDate) }
	case MedicineSortPrice:
		return func(a, b MedicineRow) bool { return a.Price > b.Price }
	default:
		cmp := nameOrder()
		return func(a, b MedicineRow) bool { return cmp(a.Name, b.Name) < 0 }
	}
}

// SummarizeMedicines counts over the whole collection. Near expiry here means
// strictly between 0 and 30 days out, independent of the row status.
func SummarizeMedicines(records []*medicine.Medicine, now time.Time) MedicineSummary {
	s := MedicineSummary{
		Total:      len(records),
		ByCategory: make(map[medicine.Category]int, len(medicine.Categories())),
	}
	for _, c := range medicine.Categories() {
		s.ByCategory[c] = 0
	}
	for _, m := range records {
		switch {
		case m.Quantity == 0:
			s.OutOfStock++
		case m.Quantity < m.MinStockLevel:
			s.LowStock++
		}
		if d := m.DaysToExpiry(now); d > 0 && d < medicine.NearExpiryDays {
			s.NearExpiry++
		}
		s.InventoryValue += m.Value()
		s.ByCategory[m.Category]++
	}
	return s
}
