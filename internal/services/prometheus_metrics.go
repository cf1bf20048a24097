package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	transactionsImported  *prometheus.CounterVec
	importDuration        prometheus.Histogram
	groupsClassified      *prometheus.CounterVec
	subscriptionsDetected prometheus.Counter
	notificationsCreated  *prometheus.CounterVec
	eventsPublished       *prometheus.CounterVec
	circuitBreakerState   *prometheus.GaugeVec
	activeSubscriptions   prometheus.Gauge
	monthlySpend          prometheus.Gauge
}

// NewPrometheusMetrics registers the collectors on the default registry
func NewPrometheusMetrics() MetricsRecorderInterface {
	return NewPrometheusMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func NewPrometheusMetricsWithRegistry(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		transactionsImported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_imported_total",
				Help: "Total number of imported transaction rows",
			},
			[]string{"status"},
		),
		importDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "import_duration_milliseconds",
				Help:    "Import batch duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		groupsClassified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "merchant_groups_classified_total",
				Help: "Merchant groups seen by the classifier, by outcome",
			},
			[]string{"outcome"},
		),
		subscriptionsDetected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "subscriptions_detected_total",
				Help: "Total number of subscriptions created by detection",
			},
		),
		notificationsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_created_total",
				Help: "Total number of notifications created",
			},
			[]string{"type"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Domain events published, by status",
			},
			[]string{"event", "status"},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		activeSubscriptions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_subscriptions",
				Help: "Active subscriptions at the last dashboard read",
			},
		),
		monthlySpend: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "monthly_spend",
				Help: "Current month spend at the last dashboard read",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "import.rows.imported":
		m.transactionsImported.WithLabelValues("imported").Inc()
	case "import.rows.skipped":
		m.transactionsImported.WithLabelValues("skipped").Inc()
	case "detection.group.linked":
		m.groupsClassified.WithLabelValues("linked").Inc()
	case "detection.group.created":
		m.groupsClassified.WithLabelValues("created").Inc()
		m.subscriptionsDetected.Inc()
	case "detection.group.rejected":
		m.groupsClassified.WithLabelValues("rejected_" + tags["reason"]).Inc()
	case "notification.created":
		m.notificationsCreated.WithLabelValues(tags["type"]).Inc()
	case "event.published":
		m.eventsPublished.WithLabelValues(tags["event"], "success").Inc()
	case "event.failed":
		m.eventsPublished.WithLabelValues(tags["event"], "failed").Inc()
	case "circuit_breaker.open":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(float64(StateOpen))
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "import.duration":
		m.importDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "subscriptions.active":
		m.activeSubscriptions.Set(value)
	case "spend.monthly":
		m.monthlySpend.Set(value)
	case "circuit_breaker.state":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	}
}

// NoopMetrics discards all measurements
type NoopMetrics struct{}

func (NoopMetrics) IncrementCounter(string, map[string]string)      {}
func (NoopMetrics) RecordProcessingTime(string, time.Duration)      {}
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}
