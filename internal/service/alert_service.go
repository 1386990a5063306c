package service

import (
	"context"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medstock/config"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/alert"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"go.uber.org/zap"
)

// Alerter receives stock alerts raised by mutations. Notify must not block.
type Alerter interface {
	Notify(ctx context.Context, a alert.StockAlert)
}

// AlertService publishes stock alerts from a single background worker so
// that a slow or failing stream never delays a stock mutation.
type AlertService struct {
	pub     alert.Publisher
	log     *zap.Logger
	metrics *metrics.Collector
	cfg     config.AlertConfig

	mu     sync.RWMutex
	closed bool
	alerts chan alert.StockAlert
	done   chan struct{}
}

func NewAlertService(pub alert.Publisher, cfg config.AlertConfig, m *metrics.Collector, log *zap.Logger) *AlertService {
	svc := &AlertService{
		pub:     pub,
		log:     log,
		metrics: m,
		cfg:     cfg,
		alerts:  make(chan alert.StockAlert, cfg.BufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// Notify enqueues an alert. If the buffer is full or the service is shut
// down, the alert is dropped and a warning is emitted.
func (s *AlertService) Notify(_ context.Context, a alert.StockAlert) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.log.Warn("alert service stopped, dropping alert", zap.String("medicine", a.Medicine))
		return
	}

	select {
	case s.alerts <- a:
	default:
		s.metrics.AlertBufferDropped.Inc()
		s.log.Warn("alert buffer full, dropping alert",
			zap.String("medicine", a.Medicine),
			zap.String("status", string(a.Status)),
		)
	}
}

// Shutdown stops intake and waits for queued alerts to drain.
func (s *AlertService) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.alerts)
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-time.After(s.cfg.ShutdownTimeout):
		s.log.Warn("alert service shutdown timed out; some alerts may be lost")
	}
}

func (s *AlertService) worker() {
	defer close(s.done)
	for a := range s.alerts {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PublishTimeout)
		if err := s.pub.Publish(ctx, a); err != nil {
			s.metrics.AlertsFailed.Inc()
			s.log.Error("failed to publish stock alert",
				zap.String("medicine", a.Medicine),
				zap.Error(err),
			)
		} else {
			s.metrics.AlertsPublished.Inc()
		}
		cancel()
	}
}
