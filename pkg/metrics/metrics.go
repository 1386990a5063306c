package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	ViewComputations *prometheus.CounterVec
	StockMutations   *prometheus.CounterVec

	LowStockGauge   prometheus.Gauge
	OutOfStockGauge prometheus.Gauge
	NearExpiryGauge prometheus.Gauge

	DBQueryDuration *prometheus.HistogramVec

	AlertsPublished     prometheus.Counter
	AlertsFailed        prometheus.Counter
	AlertBufferDropped  prometheus.Counter
	ExportsTotal        *prometheus.CounterVec
	RateLimitedRequests prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewCollector registers every metric on reg. Pass prometheus.NewRegistry()
// in tests so collectors can be built more than once per process.
func NewCollector(serviceName string, reg *prometheus.Registry) *Collector {
	f := promauto.With(reg)
	return &Collector{
		gatherer: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		ViewComputations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "view",
			Name:      "computations_total",
			Help:      "Derived view computations by view kind.",
		}, []string{"view"}),

		StockMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "inventory",
			Name:      "stock_mutations_total",
			Help:      "Stock mutations by log action.",
		}, []string{"action"}),

		LowStockGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "inventory",
			Name:      "low_stock",
			Help:      "Medicines below their minimum stock level at the last inventory view.",
		}),

		OutOfStockGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "inventory",
			Name:      "out_of_stock",
			Help:      "Medicines with zero stock at the last inventory view.",
		}),

		NearExpiryGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "inventory",
			Name:      "near_expiry",
			Help:      "Medicines expiring within 30 days at the last inventory view.",
		}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency distribution.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"operation", "table"}),

		AlertsPublished: f.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "alerts",
			Name:      "published_total",
			Help:      "Stock alerts published to the alert stream.",
		}),

		AlertsFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "alerts",
			Name:      "failed_total",
			Help:      "Stock alerts that could not be published.",
		}),

		AlertBufferDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "alerts",
			Name:      "buffer_dropped_total",
			Help:      "Stock alerts dropped due to full buffer. Alert if non-zero.",
		}),

		ExportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "export",
			Name:      "reports_total",
			Help:      "Generated reports by view and format.",
		}, []string{"view", "format"}),

		RateLimitedRequests: f.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
