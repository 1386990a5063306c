package export

import (
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
)

// Kind names the view a report was built from.
type Kind string

const (
	KindMedicines Kind = "medicines"
	KindLogs      Kind = "logs"
	KindPatients  Kind = "patients"
)

// ParseKind accepts the view names used by the CLI and the metrics labels.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindMedicines, KindLogs, KindPatients:
		return k, nil
	case "inventory":
		return KindMedicines, nil
	}
	return "", fmt.Errorf("unknown report %q", s)
}

func (k Kind) filePrefix() string {
	switch k {
	case KindLogs:
		return "medicine-logs"
	case KindPatients:
		return "patients"
	default:
		return "inventory"
	}
}

func (k Kind) sheetName() string {
	switch k {
	case KindLogs:
		return "Medicine Logs"
	case KindPatients:
		return "Patients"
	default:
		return "Inventory"
	}
}

func (k Kind) columnWidths() []float64 {
	switch k {
	case KindLogs:
		return []float64{12, 8, 22, 28, 10, 14, 10, 20, 16, 36, 16}
	case KindPatients:
		return []float64{24, 30, 18, 6, 8, 10, 12}
	default:
		return []float64{28, 18, 10, 16, 14, 12, 10, 22, 16}
	}
}

var (
	medicineHeader = []string{
		"Name", "Category", "Quantity", "Min Stock Level", "Status",
		"Expiry Date", "Price", "Supplier", "Batch Number",
	}
	logHeader = []string{
		"Date", "Time", "Action", "Medicine", "Quantity", "Previous Stock",
		"New Stock", "Performed By", "Batch Number", "Reason", "Prescription",
	}
	patientHeader = []string{
		"Name", "Email", "Phone", "Age", "Gender", "Status", "Last Visit",
	}
)

func Medicines(rows []view.MedicineRow) Table {
	t := Table{Kind: KindMedicines, Header: medicineHeader, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Name,
			string(r.Category),
			r.Quantity,
			r.MinStockLevel,
			string(r.Status),
			r.ExpiryDate.Format(time.DateOnly),
			r.Price,
			r.Supplier,
			r.BatchNumber,
		})
	}
	return t
}

// Logs renders timestamps in loc so the Date column matches the viewer's
// "today" window.
func Logs(rows []view.LogRow, loc *time.Location) Table {
	t := Table{Kind: KindLogs, Header: logHeader, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		ts := r.Timestamp.In(loc)
		t.Rows = append(t.Rows, []any{
			ts.Format(time.DateOnly),
			ts.Format("15:04"),
			r.ActionLabel,
			r.MedicineName,
			r.Quantity,
			r.PreviousStock,
			r.NewStock,
			r.PerformedBy,
			r.BatchNumber,
			r.Reason,
			r.PrescriptionRef,
		})
	}
	return t
}

func Patients(rows []view.PatientRow) Table {
	t := Table{Kind: KindPatients, Header: patientHeader, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		lastVisit := ""
		if !r.LastVisit.IsZero() {
			lastVisit = r.LastVisit.Format(time.DateOnly)
		}
		t.Rows = append(t.Rows, []any{
			r.Name,
			r.Email,
			r.Phone,
			r.Age,
			string(r.Gender),
			string(r.Status),
			lastVisit,
		})
	}
	return t
}
