package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the retention sweeper.
type Metrics struct {
	Runs          *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	Purged        *prometheus.CounterVec
	PurgeFailures *prometheus.CounterVec
	LastSuccess   prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_retention_runs_total",
			Help: "Retention sweeps by outcome (ok, partial, skipped)",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "consentvault_retention_run_duration_seconds",
			Help:    "Time taken for one retention sweep",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Purged: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_retention_purged_total",
			Help: "Records permanently removed by the sweeper, by ledger",
		}, []string{"ledger"}),
		PurgeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_retention_purge_failures_total",
			Help: "Failed purge steps, by ledger",
		}, []string{"ledger"}),
		LastSuccess: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "consentvault_retention_last_success_timestamp_seconds",
			Help: "Unix time of the last sweep that completed without errors",
		}),
	}
}

func (m *Metrics) IncrementRuns(status string) {
	m.Runs.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRunDuration(d time.Duration) {
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) AddPurged(ledger string, n int) {
	if n > 0 {
		m.Purged.WithLabelValues(ledger).Add(float64(n))
	}
}

func (m *Metrics) IncrementPurgeFailures(ledger string) {
	m.PurgeFailures.WithLabelValues(ledger).Inc()
}

func (m *Metrics) SetLastSuccess(at time.Time) {
	m.LastSuccess.Set(float64(at.Unix()))
}
