package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	m := NewPrometheusMetricsWithRegistry(prometheus.NewRegistry())

	m.IncrementCounter("import.rows.imported", nil)
	m.IncrementCounter("import.rows.imported", nil)
	m.IncrementCounter("import.rows.skipped", nil)
	m.IncrementCounter("detection.group.created", nil)
	m.IncrementCounter("detection.group.rejected", map[string]string{"reason": string(RejectInsufficientSample)})
	m.IncrementCounter("notification.created", map[string]string{"type": "warning"})
	m.IncrementCounter("event.failed", map[string]string{"event": eventSubscriptionDetected})
	m.IncrementCounter("unknown.metric", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transactionsImported.WithLabelValues("imported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactionsImported.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.groupsClassified.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriptionsDetected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.groupsClassified.WithLabelValues("rejected_"+string(RejectInsufficientSample))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsCreated.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues(eventSubscriptionDetected, "failed")))
}

func TestPrometheusMetrics_GaugesAndDurations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetricsWithRegistry(reg)

	m.RecordGauge("subscriptions.active", 4, nil)
	m.RecordGauge("spend.monthly", 45.5, nil)
	m.RecordGauge("circuit_breaker.state", float64(StateHalfOpen), map[string]string{"service": "events"})
	m.RecordProcessingTime("import.duration", 120*time.Millisecond)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeSubscriptions))
	assert.Equal(t, 45.5, testutil.ToFloat64(m.monthlySpend))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.circuitBreakerState.WithLabelValues("events")))

	count, err := testutil.GatherAndCount(reg, "import_duration_milliseconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
