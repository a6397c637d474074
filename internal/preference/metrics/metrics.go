package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Updates     *prometheus.CounterVec
	SoftDeletes prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Updates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_preference_updates_total",
			Help: "Preference upserts, labelled by whether a qualifying purpose was accepted",
		}, []string{"qualifying"}),
		SoftDeletes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentvault_preference_soft_deletes_total",
			Help: "Preference records transitioned to soft-deleted",
		}),
	}
}

func (m *Metrics) IncrementUpdate(qualifying bool) {
	label := "false"
	if qualifying {
		label = "true"
	}
	m.Updates.WithLabelValues(label).Inc()
}

func (m *Metrics) IncrementSoftDelete() {
	m.SoftDeletes.Inc()
}
