package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for jobs, fetches and notifications.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	JobRunsTotal        *prometheus.CounterVec
	JobRunDuration      *prometheus.HistogramVec
	JobTicksSkipped     *prometheus.CounterVec
	JobsRunning         *prometheus.GaugeVec
	RateFetchTotal      *prometheus.CounterVec
	NotificationsTotal  *prometheus.CounterVec
	NotifyRunSkipped    prometheus.Counter
	SubscriptionChanges *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		JobRunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_job_runs_total",
				Help: "Completed job runs by outcome (ok, error, panic).",
			},
			[]string{"job", "outcome"},
		),
		JobRunDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scheduler_job_run_duration_seconds",
				Help:    "Wall time of job runs in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms .. ~80s
			},
			[]string{"job"},
		),
		JobTicksSkipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_ticks_skipped_total",
				Help: "Triggers dropped because the job was already running.",
			},
			[]string{"job", "reason"},
		),
		JobsRunning: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scheduler_jobs_running",
				Help: "1 while the job is running, 0 otherwise.",
			},
			[]string{"job"},
		),
		RateFetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_fetch_total",
				Help: "Rate fetch attempts by pair and result.",
			},
			[]string{"pair", "result"},
		),
		NotificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notification attempts by status.",
			},
			[]string{"status"},
		),
		NotifyRunSkipped: f.NewCounter(
			prometheus.CounterOpts{
				Name: "notifications_skipped_no_rate_total",
				Help: "Subscriptions skipped because their pair had no stored rate.",
			},
		),
		SubscriptionChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_changes_total",
				Help: "Subscribe and unsubscribe calls by result.",
			},
			[]string{"op", "result"},
		),
	}
}

// RecordJobRun records a finished run.
func (m *Metrics) RecordJobRun(job, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.JobRunsTotal.WithLabelValues(job, outcome).Inc()
	m.JobRunDuration.WithLabelValues(job).Observe(seconds)
}

// RecordTickSkipped records a trigger dropped by the single-flight guard.
func (m *Metrics) RecordTickSkipped(job, reason string) {
	if m == nil {
		return
	}
	m.JobTicksSkipped.WithLabelValues(job, reason).Inc()
}

// SetJobRunning flips the running gauge of a job.
func (m *Metrics) SetJobRunning(job string, running bool) {
	if m == nil {
		return
	}
	v := 0.0
	if running {
		v = 1
	}
	m.JobsRunning.WithLabelValues(job).Set(v)
}

// RecordRateFetch records one fetch attempt; result is "ok" or a FetchError kind.
func (m *Metrics) RecordRateFetch(pair, result string) {
	if m == nil {
		return
	}
	m.RateFetchTotal.WithLabelValues(pair, result).Inc()
}

// RecordNotification records one send attempt.
func (m *Metrics) RecordNotification(status string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(status).Inc()
}

// RecordNotifySkipped records a subscription skipped for lack of a rate.
func (m *Metrics) RecordNotifySkipped() {
	if m == nil {
		return
	}
	m.NotifyRunSkipped.Inc()
}

// RecordSubscriptionChange records a subscribe/unsubscribe outcome.
func (m *Metrics) RecordSubscriptionChange(op, result string) {
	if m == nil {
		return
	}
	m.SubscriptionChanges.WithLabelValues(op, result).Inc()
}
