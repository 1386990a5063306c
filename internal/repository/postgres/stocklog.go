package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"gorm.io/gorm"
)

const stockLogsTable = "stock_logs"

// StockLogRepository only ever inserts and reads.
type StockLogRepository struct {
	db *gorm.DB
	timer
}

func NewStockLogRepository(db *gorm.DB, m *metrics.Collector) *StockLogRepository {
	return &StockLogRepository{db: db, timer: timer{m: m}}
}

func (r *StockLogRepository) Append(ctx context.Context, e *stocklog.Entry) error {
	defer r.observe("append", stockLogsTable, time.Now())
	return insertEntry(r.db.WithContext(ctx), e)
}

// List returns entries in append order.
func (r *StockLogRepository) List(ctx context.Context) ([]*stocklog.Entry, error) {
	defer r.observe("list", stockLogsTable, time.Now())

	var out []*stocklog.Entry
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing stock log: %w", err)
	}
	return out, nil
}

// insertEntry validates e and inserts it through db, which may be a
// transaction owned by the caller.
func insertEntry(db *gorm.DB, e *stocklog.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("appending stock log entry: %w", err)
	}
	if err := db.Create(e).Error; err != nil {
		return fmt.Errorf("inserting stock log entry: %w", err)
	}
	return nil
}
