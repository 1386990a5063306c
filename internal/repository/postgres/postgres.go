// Package postgres implements the domain repositories on gorm.
package postgres

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
)

// timer records query latency when a collector is configured.
type timer struct {
	m *metrics.Collector
}

func (t timer) observe(op, table string, start time.Time) {
	if t.m == nil {
		return
	}
	t.m.DBQueryDuration.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
}
