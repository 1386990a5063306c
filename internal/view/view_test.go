package view

import (
	"errors"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func day(n int) time.Time { return now.AddDate(0, 0, n) }

func fixtureMedicines() []*medicine.Medicine {
	return []*medicine.Medicine{
		{ID: uuid.New(), Name: "Amoxicillin 500mg", Category: medicine.CategoryAntibiotics, Quantity: 0, MinStockLevel: 30, ExpiryDate: day(200), Price: 12.5, Supplier: "MedSupply Co."},
		{ID: uuid.New(), Name: "metformin 850mg", Category: medicine.CategoryDiabetes, Quantity: 8, MinStockLevel: 15, ExpiryDate: day(400), Price: 4, Supplier: "PharmaCorp"},
		{ID: uuid.New(), Name: "Ibuprofen 400mg", Category: medicine.CategoryPainRelief, Quantity: 45, MinStockLevel: 10, ExpiryDate: day(20), Price: 2, Supplier: "MedSupply Co."},
		{ID: uuid.New(), Name: "Vitamin D3", Category: medicine.CategoryVitamins, Quantity: 120, MinStockLevel: 20, ExpiryDate: day(500), Price: 8, Supplier: "HealthPlus"},
		{ID: uuid.New(), Name: "Salbutamol Inhaler", Category: medicine.CategoryRespiratory, Quantity: 45, MinStockLevel: 10, ExpiryDate: day(-3), Price: 15, Supplier: "PharmaCorp"},
	}
}

func medicineNames(rows []MedicineRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestMedicines_StatusDerivation(t *testing.T) {
	rows, _, err := Medicines(fixtureMedicines(), MedicineParams{}, now)
	require.NoError(t, err)

	byName := map[string]MedicineRow{}
	for _, r := range rows {
		byName[r.Name] = r
	}
	assert.Equal(t, medicine.StatusOutOfStock, byName["Amoxicillin 500mg"].Status)
	assert.Equal(t, medicine.StatusLowStock, byName["metformin 850mg"].Status)
	assert.Equal(t, medicine.StatusNearExpiry, byName["Ibuprofen 400mg"].Status)
	assert.Equal(t, medicine.StatusInStock, byName["Vitamin D3"].Status)

	expired := byName["Salbutamol Inhaler"]
	assert.Equal(t, medicine.StatusNearExpiry, expired.Status)
	assert.True(t, expired.Expired)
	assert.Equal(t, -3, expired.DaysToExpiry)
	assert.Equal(t, 20, byName["Ibuprofen 400mg"].DaysToExpiry)
}

func TestMedicines_Sorting(t *testing.T) {
	tests := []struct {
		name   string
		params MedicineParams
		want   []string
	}{
		{"default is collated name", MedicineParams{}, []string{"Amoxicillin 500mg", "Ibuprofen 400mg", "metformin 850mg", "Salbutamol Inhaler", "Vitamin D3"}},
		{"stock descending keeps ties in input order", MedicineParams{Sort: MedicineSortStock}, []string{"Vitamin D3", "Ibuprofen 400mg", "Salbutamol Inhaler", "metformin 850mg", "Amoxicillin 500mg"}},
		{"stock reversed keeps ties in input order", MedicineParams{Sort: MedicineSortStock, Reverse: true}, []string{"Amoxicillin 500mg", "metformin 850mg", "Ibuprofen 400mg", "Salbutamol Inhaler", "Vitamin D3"}},
		{"expiry ascending", MedicineParams{Sort: MedicineSortExpiry}, []string{"Salbutamol Inhaler", "Ibuprofen 400mg", "Amoxicillin 500mg", "metformin 850mg", "Vitamin D3"}},
		{"price descending", MedicineParams{Sort: MedicineSortPrice}, []string{"Salbutamol Inhaler", "Amoxicillin 500mg", "Vitamin D3", "metformin 850mg", "Ibuprofen 400mg"}},
		{"name reversed", MedicineParams{Sort: MedicineSortName, Reverse: true}, []string{"Vitamin D3", "Salbutamol Inhaler", "metformin 850mg", "Ibuprofen 400mg", "Amoxicillin 500mg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, _, err := Medicines(fixtureMedicines(), tt.params, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, medicineNames(rows))
		})
	}
}

func TestMedicines_Filtering(t *testing.T) {
	tests := []struct {
		name   string
		params MedicineParams
		want   []string
	}{
		{"search matches supplier case-insensitively", MedicineParams{Search: "medsupply"}, []string{"Amoxicillin 500mg", "Ibuprofen 400mg"}},
		{"search matches category", MedicineParams{Search: "DIABETES"}, []string{"metformin 850mg"}},
		{"status filter", MedicineParams{Status: string(medicine.StatusNearExpiry)}, []string{"Ibuprofen 400mg", "Salbutamol Inhaler"}},
		{"category filter", MedicineParams{Category: "Vitamins"}, []string{"Vitamin D3"}},
		{"all sentinel", MedicineParams{Category: All, Status: All}, []string{"Amoxicillin 500mg", "Ibuprofen 400mg", "metformin 850mg", "Salbutamol Inhaler", "Vitamin D3"}},
		{"no match", MedicineParams{Search: "paracetamol"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, _, err := Medicines(fixtureMedicines(), tt.params, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, medicineNames(rows))
		})
	}
}

func TestMedicines_FilterIsIdempotent(t *testing.T) {
	params := MedicineParams{Search: "pharmacorp", Status: string(medicine.StatusLowStock)}
	first, _, err := Medicines(fixtureMedicines(), params, now)
	require.NoError(t, err)

	again := make([]*medicine.Medicine, len(first))
	for i := range first {
		again[i] = &first[i].Medicine
	}
	second, _, err := Medicines(again, params, now)
	require.NoError(t, err)
	assert.Equal(t, medicineNames(first), medicineNames(second))
}

func TestMedicines_SummaryIgnoresFilters(t *testing.T) {
	_, unfiltered, err := Medicines(fixtureMedicines(), MedicineParams{}, now)
	require.NoError(t, err)
	_, filtered, err := Medicines(fixtureMedicines(), MedicineParams{Search: "vitamin", Status: string(medicine.StatusInStock)}, now)
	require.NoError(t, err)
	assert.Equal(t, unfiltered, filtered)

	assert.Equal(t, 5, unfiltered.Total)
	assert.Equal(t, 1, unfiltered.OutOfStock)
	assert.Equal(t, 1, unfiltered.LowStock)
	// The expired inhaler is not counted: only 0 < days < 30.
	assert.Equal(t, 1, unfiltered.NearExpiry)
	assert.InDelta(t, 1757.0, unfiltered.InventoryValue, 1e-9)
	assert.Equal(t, 1, unfiltered.ByCategory[medicine.CategoryDiabetes])
	assert.Equal(t, 0, unfiltered.ByCategory[medicine.CategoryDermatology])
}

func TestMedicines_RejectsUnknownParams(t *testing.T) {
	_, _, err := Medicines(fixtureMedicines(), MedicineParams{Sort: "popularity", Status: "Expired"}, now)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
}

func TestStableSort_AllTies(t *testing.T) {
	var recs []*medicine.Medicine
	for _, n := range []string{"c", "a", "b", "d"} {
		recs = append(recs, &medicine.Medicine{Name: n, Quantity: 10, ExpiryDate: day(100)})
	}

	rows, _, err := Medicines(recs, MedicineParams{Sort: MedicineSortStock}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "d"}, medicineNames(rows))

	rows, _, err = Medicines(recs, MedicineParams{Sort: MedicineSortStock, Reverse: true}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "d"}, medicineNames(rows))
}

func fixtureLogs() []*stocklog.Entry {
	at := func(y int, m time.Month, d, h int) time.Time { return time.Date(y, m, d, h, 0, 0, 0, time.UTC) }
	return []*stocklog.Entry{
		{Timestamp: at(2026, 3, 10, 8), Action: stocklog.ActionStockAdded, MedicineName: "Ibuprofen 400mg", Quantity: 100, PreviousStock: 20, NewStock: 120, PerformedBy: "John Smith", Reason: "Monthly restock"},
		{Timestamp: at(2026, 3, 9, 15), Action: stocklog.ActionPrescriptionDispensed, MedicineName: "Metformin 850mg", Quantity: -30, PreviousStock: 38, NewStock: 8, PerformedBy: "Dr. Sarah Wilson", PrescriptionRef: "RX-2026-0142"},
		{Timestamp: at(2026, 3, 5, 10), Action: stocklog.ActionStockAdjustment, MedicineName: "Vitamin D3", Quantity: -5, PreviousStock: 125, NewStock: 120, PerformedBy: "John Smith", Reason: "Damaged packaging"},
		{Timestamp: at(2026, 2, 20, 10), Action: stocklog.ActionExpiredRemoved, MedicineName: "Aspirin 81mg", Quantity: -40, PreviousStock: 40, NewStock: 0, PerformedBy: "Jane Doe"},
		{Timestamp: at(2026, 1, 15, 10), Action: stocklog.ActionMedicineAdded, MedicineName: "Vitamin D3", Quantity: 125, PreviousStock: 0, NewStock: 125, PerformedBy: "Admin"},
	}
}

func logInventory() []*medicine.Medicine {
	return []*medicine.Medicine{{Name: "Ibuprofen 400mg"}, {Name: "Metformin 850mg"}, {Name: "Vitamin D3"}}
}

func logKeys(rows []LogRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Timestamp.Format("01-02") + " " + r.MedicineName
	}
	return out
}

func TestLogs_DateWindows(t *testing.T) {
	tests := []struct {
		rng  Range
		want int
	}{
		{RangeToday, 1},
		{RangeYesterday, 1},
		{RangeWeek, 3},
		{RangeMonth, 4},
		{RangeAll, 5},
	}

	for _, tt := range tests {
		t.Run(string(tt.rng), func(t *testing.T) {
			rows, _, err := Logs(fixtureLogs(), logInventory(), LogParams{Range: string(tt.rng)}, now)
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestLogs_YesterdayIsTheCalendarDay(t *testing.T) {
	rows, _, err := Logs(fixtureLogs(), logInventory(), LogParams{Range: string(RangeYesterday)}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"03-09 Metformin 850mg"}, logKeys(rows))
}

func TestLogs_SearchAndAction(t *testing.T) {
	rows, _, err := Logs(fixtureLogs(), logInventory(), LogParams{Search: "rx-2026"}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"03-09 Metformin 850mg"}, logKeys(rows))

	rows, _, err = Logs(fixtureLogs(), logInventory(), LogParams{Search: "john"}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"03-10 Ibuprofen 400mg", "03-05 Vitamin D3"}, logKeys(rows))

	rows, _, err = Logs(fixtureLogs(), logInventory(), LogParams{Action: string(stocklog.ActionStockAdjustment)}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"03-05 Vitamin D3"}, logKeys(rows))
}

func TestLogs_Sorting(t *testing.T) {
	rows, _, err := Logs(fixtureLogs(), logInventory(), LogParams{Sort: LogSortOldest}, now)
	require.NoError(t, err)
	assert.Equal(t, "01-15 Vitamin D3", logKeys(rows)[0])
	assert.Equal(t, "03-10 Ibuprofen 400mg", logKeys(rows)[4])

	rows, _, err = Logs(fixtureLogs(), logInventory(), LogParams{Sort: LogSortMedicine}, now)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"02-20 Aspirin 81mg",
		"03-10 Ibuprofen 400mg",
		"03-09 Metformin 850mg",
		"03-05 Vitamin D3",
		"01-15 Vitamin D3",
	}, logKeys(rows))
}

func TestLogs_OrphanedEntries(t *testing.T) {
	rows, _, err := Logs(fixtureLogs(), logInventory(), LogParams{}, now)
	require.NoError(t, err)

	for _, r := range rows {
		assert.Equal(t, r.MedicineName == "Aspirin 81mg", r.Orphaned, r.MedicineName)
	}
}

func TestLogs_Summary(t *testing.T) {
	_, s, err := Logs(fixtureLogs(), logInventory(), LogParams{Range: string(RangeToday), Search: "zzz"}, now)
	require.NoError(t, err)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Today)
	assert.Equal(t, 1, s.ByAction[stocklog.ActionPrescriptionDispensed])
	assert.Equal(t, 0, s.ByAction[stocklog.ActionStockUpdated])
}

func TestLogs_RejectsUnknownParams(t *testing.T) {
	_, _, err := Logs(nil, nil, LogParams{Range: "fortnight", Action: "restocked", Sort: "size"}, now)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestRange_TodayUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2026, 3, 10, 2, 0, 0, 0, loc)
	// 2026-03-09 22:00 UTC is already the 10th in UTC+5.
	assert.True(t, RangeToday.Contains(time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC), local))
	assert.False(t, RangeToday.Contains(time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC), local))
}

func fixturePatients() []*patient.Patient {
	return []*patient.Patient{
		{ID: uuid.New(), Name: "Sarah Johnson", Age: 32, Gender: patient.GenderFemale, Status: patient.StatusActive, LastVisit: day(-3),
			ContactInfo: patient.ContactInfo{Email: "sarah.johnson@email.com", Phone: "+1 (555) 123-4567"}},
		{ID: uuid.New(), Name: "Michael Chen", Age: 45, Gender: patient.GenderMale, Status: patient.StatusActive, LastVisit: day(-10),
			ContactInfo: patient.ContactInfo{Email: "michael.chen@email.com", Phone: "+1 (555) 234-5678"},
			Prescriptions: []patient.Prescription{
				{Medication: "Lisinopril", StartDate: day(-60)},
				{Medication: "Amoxicillin", StartDate: day(-40), EndDate: ptr(day(-30))},
			}},
		{ID: uuid.New(), Name: "Emily Rodriguez", Age: 28, Gender: patient.GenderFemale, Status: patient.StatusInactive, LastVisit: day(-90),
			ContactInfo: patient.ContactInfo{Email: "emily.r@email.com", Phone: "+1 (555) 345-6789"}},
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestPatients_SearchChen(t *testing.T) {
	rows, summary, err := Patients(fixturePatients(), PatientParams{Search: "chen"}, now)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Michael Chen", rows[0].Name)
	assert.Equal(t, 1, rows[0].ActiveRx)
	assert.Equal(t, PatientSummary{Total: 3, Active: 2, Inactive: 1}, summary)
}

func TestPatients_FilterAndSort(t *testing.T) {
	rows, _, err := Patients(fixturePatients(), PatientParams{Status: string(patient.StatusInactive)}, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Emily Rodriguez", rows[0].Name)

	rows, _, err = Patients(fixturePatients(), PatientParams{Sort: PatientSortAge}, now)
	require.NoError(t, err)
	assert.Equal(t, []int{28, 32, 45}, []int{rows[0].Age, rows[1].Age, rows[2].Age})

	rows, _, err = Patients(fixturePatients(), PatientParams{Sort: PatientSortLastVisit}, now)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", rows[0].Name)

	_, _, err = Patients(fixturePatients(), PatientParams{Status: "archived"}, now)
	assert.Error(t, err)
}
