package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collaborator labels for external calls.
const (
	CollaboratorSpeech    = "speech_to_text"
	CollaboratorSynthesis = "text_to_speech"
	CollaboratorLLM       = "llm"
	CollaboratorCalendar  = "calendar"
	CollaboratorSMS       = "sms"
)

// RelayMetrics exposes counters/histograms for the external collaborators the
// receptionist delegates to.
type RelayMetrics struct {
	callsTotal        *prometheus.CounterVec
	callLatency       *prometheus.HistogramVec
	appointmentsTotal *prometheus.CounterVec
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "relay",
			Name:      "external_calls_total",
			Help:      "Total calls to external collaborators",
		}, []string{"collaborator", "outcome"}),
		callLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "receptionist",
			Subsystem: "relay",
			Name:      "external_call_latency_seconds",
			Help:      "Latency of external collaborator calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collaborator"}),
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "receptionist",
			Subsystem: "appointments",
			Name:      "scheduled_total",
			Help:      "Appointment requests by final confirmation status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.callsTotal, m.callLatency, m.appointmentsTotal)
	return m
}

// ObserveCall records one external call. A nil error counts as "ok".
func (m *RelayMetrics) ObserveCall(collaborator string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.callsTotal.WithLabelValues(collaborator, outcome).Inc()
	m.callLatency.WithLabelValues(collaborator).Observe(time.Since(started).Seconds())
}

func (m *RelayMetrics) ObserveAppointment(status string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(status).Inc()
}
