package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
)

// StockLogRepository is append-only; entries are kept in append order.
type StockLogRepository struct {
	mu      sync.RWMutex
	entries []*stocklog.Entry
}

func NewStockLogRepository() *StockLogRepository {
	return &StockLogRepository{}
}

func (r *StockLogRepository) Append(_ context.Context, e *stocklog.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("appending stock log entry: %w", err)
	}

	r.mu.Lock()
	r.entries = append(r.entries, e.Clone())
	r.mu.Unlock()
	return nil
}

func (r *StockLogRepository) List(_ context.Context) ([]*stocklog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*stocklog.Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Clone()
	}
	return out, nil
}
