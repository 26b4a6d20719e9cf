package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRelayMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRelayMetrics(reg)
	m.ObserveCall(CollaboratorCalendar, time.Now(), nil)
	m.ObserveCall(CollaboratorSMS, time.Now(), errors.New("boom"))
	m.ObserveAppointment("sent")

	if got := testutil.ToFloat64(m.callsTotal.WithLabelValues(CollaboratorCalendar, "ok")); got != 1 {
		t.Fatalf("expected one ok calendar call, got %v", got)
	}
	if got := testutil.ToFloat64(m.callsTotal.WithLabelValues(CollaboratorSMS, "error")); got != 1 {
		t.Fatalf("expected one failed sms call, got %v", got)
	}
	if got := testutil.ToFloat64(m.appointmentsTotal.WithLabelValues("sent")); got != 1 {
		t.Fatalf("expected one sent appointment, got %v", got)
	}
}

func TestRelayMetricsNilSafe(t *testing.T) {
	var m *RelayMetrics
	m.ObserveCall(CollaboratorLLM, time.Now(), nil)
	m.ObserveAppointment("failed")
}
