// Package alert carries low and out-of-stock notifications out of the
// service.
package alert

import (
	"context"
	"strconv"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StockAlert struct {
	MedicineID    uuid.UUID
	Medicine      string
	Status        medicine.Status
	Quantity      int
	MinStockLevel int
	RaisedAt      time.Time
}

// ShouldAlert reports whether a status warrants an alert.
func ShouldAlert(s medicine.Status) bool {
	return s == medicine.StatusLowStock || s == medicine.StatusOutOfStock
}

// Fields is the flat string map written to the stream.
func (a StockAlert) Fields() map[string]any {
	return map[string]any{
		"medicine_id":     a.MedicineID.String(),
		"medicine":        a.Medicine,
		"status":          string(a.Status),
		"quantity":        strconv.Itoa(a.Quantity),
		"min_stock_level": strconv.Itoa(a.MinStockLevel),
		"raised_at":       a.RaisedAt.UTC().Format(time.RFC3339),
	}
}

type Publisher interface {
	Publish(ctx context.Context, a StockAlert) error
}

// LogPublisher writes alerts to the log; used when no stream is configured.
type LogPublisher struct {
	Log *zap.Logger
}

func (p LogPublisher) Publish(_ context.Context, a StockAlert) error {
	p.Log.Warn("stock alert",
		zap.String("medicine_id", a.MedicineID.String()),
		zap.String("medicine", a.Medicine),
		zap.String("status", string(a.Status)),
		zap.Int("quantity", a.Quantity),
		zap.Int("min_stock_level", a.MinStockLevel),
	)
	return nil
}
