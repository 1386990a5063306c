package service

import (
	"context"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/medicine"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/dmehra2102/prod-golang-projects/medstock/internal/view"
	"github.com/dmehra2102/prod-golang-projects/medstock/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ActivityService serves the medicine activity log.
type ActivityService struct {
	logs      stocklog.Repository
	medicines medicine.Repository
	metrics   *metrics.Collector
	log       *zap.Logger
	tracer    trace.Tracer
	opts      options
}

func NewActivityService(logs stocklog.Repository, medicines medicine.Repository, m *metrics.Collector, log *zap.Logger, opts ...Option) *ActivityService {
	return &ActivityService{
		logs:      logs,
		medicines: medicines,
		metrics:   m,
		log:       log,
		tracer:    newTracer(),
		opts:      buildOptions(opts),
	}
}

type ActivityView struct {
	Items   []view.LogRow   `json:"items"`
	Summary view.LogSummary `json:"summary"`
}

func (s *ActivityService) View(ctx context.Context, p view.LogParams) (*ActivityView, error) {
	ctx, span := s.tracer.Start(ctx, "ActivityService.View")
	defer span.End()

	entries, err := s.logs.List(ctx)
	if err != nil {
		recordErr(span, err)
		return nil, fmt.Errorf("loading stock log: %w", err)
	}
	inventory, err := s.medicines.List(ctx)
	if err != nil {
		recordErr(span, err)
		return nil, fmt.Errorf("loading inventory: %w", err)
	}

	rows, summary, err := view.Logs(entries, inventory, p, s.opts.now())
	if err != nil {
		return nil, err
	}

	s.metrics.ViewComputations.WithLabelValues("logs").Inc()
	span.SetAttributes(attribute.Int("view.rows", len(rows)), attribute.Int("view.total", summary.Total))

	return &ActivityView{Items: rows, Summary: summary}, nil
}
