package metrics_test

import (
	"testing"

	"github.com/SscSPs/currency_rates_bot/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.RecordJobRun("notify-subscribers", "ok", 0.2)
	m.RecordJobRun("notify-subscribers", "ok", 0.1)
	m.RecordTickSkipped("notify-subscribers", "in_flight")
	m.RecordRateFetch("EUR/USD", "ok")
	m.RecordNotification("delivered")
	m.RecordNotifySkipped()
	m.SetJobRunning("notify-subscribers", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("notify-subscribers", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobTicksSkipped.WithLabelValues("notify-subscribers", "in_flight")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateFetchTotal.WithLabelValues("EUR/USD", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotifyRunSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsRunning.WithLabelValues("notify-subscribers")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordJobRun("job", "ok", 1)
		m.RecordTickSkipped("job", "in_flight")
		m.SetJobRunning("job", false)
		m.RecordRateFetch("EUR/USD", "ok")
		m.RecordNotification("delivered")
		m.RecordNotifySkipped()
		m.RecordSubscriptionChange("subscribe", "created")
	})
}
