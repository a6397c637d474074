package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide identity and admin counters.
type Metrics struct {
	IdentitiesRegistered prometheus.Counter
	Authentications      *prometheus.CounterVec
	AdminLogins          *prometheus.CounterVec
	AuditWrites          *prometheus.CounterVec
	SecurityEventsLost   prometheus.Counter
	GeolocationLookups   *prometheus.CounterVec
	DeletionCodes        *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		IdentitiesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentvault_identities_registered_total",
			Help: "Total number of identities registered",
		}),
		Authentications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_authentications_total",
			Help: "User authentication attempts by outcome",
		}, []string{"outcome"}),
		AdminLogins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_admin_logins_total",
			Help: "Administrator login attempts by outcome",
		}, []string{"outcome"}),
		AuditWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_audit_writes_total",
			Help: "Audit record writes by action and outcome",
		}, []string{"action", "outcome"}),
		SecurityEventsLost: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentvault_security_events_dropped_total",
			Help: "Security events that could not be persisted",
		}),
		GeolocationLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_geolocation_lookups_total",
			Help: "Geolocation lookups by outcome (ok, degraded, circuit_open)",
		}, []string{"outcome"}),
		DeletionCodes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentvault_deletion_codes_total",
			Help: "Deletion workflow events by stage and outcome",
		}, []string{"stage", "outcome"}),
	}
}

func (m *Metrics) IncrementIdentitiesRegistered() {
	m.IdentitiesRegistered.Inc()
}

func (m *Metrics) IncrementAuthentication(outcome string) {
	m.Authentications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementAdminLogin(outcome string) {
	m.AdminLogins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementAuditWrite(action, outcome string) {
	m.AuditWrites.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) IncrementSecurityEventsDropped() {
	m.SecurityEventsLost.Inc()
}

func (m *Metrics) IncrementGeolocationLookup(outcome string) {
	m.GeolocationLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementDeletionCode(stage, outcome string) {
	m.DeletionCodes.WithLabelValues(stage, outcome).Inc()
}
