package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"role", "result"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of token pairs issued or refreshed.",
		},
		[]string{"flow", "result"},
	)

	LeaseAssignmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lease_assignments_total",
			Help: "Total number of lease tenant assignments and removals.",
		},
		[]string{"action"},
	)

	TicketEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_ticket_events_total",
			Help: "Maintenance tickets raised and responded to.",
		},
		[]string{"event"},
	)

	DocumentUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_uploads_total",
			Help: "Total number of file uploads.",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// MustRegister registers every collector with the default registry. Safe to
// call more than once.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			AuthRegistrationsTotal,
			AuthLoginsTotal,
			TokensIssuedTotal,
			LeaseAssignmentsTotal,
			TicketEventsTotal,
			DocumentUploadsTotal,
		)
	})
}

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
