package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/voice-receptionist/internal/observability/metrics"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// callLog records the order in which collaborators were invoked.
type callLog struct {
	calls []string
}

type stubCalendar struct {
	log    *callLog
	err    error
	events []Event
}

func (s *stubCalendar) CreateEvent(_ context.Context, event Event) (*CreatedEvent, error) {
	s.log.calls = append(s.log.calls, "calendar")
	s.events = append(s.events, event)
	if s.err != nil {
		return nil, s.err
	}
	return &CreatedEvent{ID: "evt-123", Status: "confirmed", Summary: event.Summary, Start: event.Start, End: event.End}, nil
}

type stubMessenger struct {
	log  *callLog
	err  error
	to   []string
	body []string
}

func (s *stubMessenger) SendSMS(_ context.Context, to, body string) (string, error) {
	s.log.calls = append(s.log.calls, "sms")
	s.to = append(s.to, to)
	s.body = append(s.body, body)
	if s.err != nil {
		return "", s.err
	}
	return "SM123", nil
}

type stubLedger struct {
	entries []LedgerEntry
	err     error
}

func (s *stubLedger) Record(_ context.Context, entry LedgerEntry) error {
	s.entries = append(s.entries, entry)
	return s.err
}

func newTestScheduler(cal *stubCalendar, sms *stubMessenger, ledger Ledger) *Scheduler {
	s := NewScheduler(cal, sms, ledger, metrics.NewRelayMetrics(prometheus.NewRegistry()), "", logging.New("error"))
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func validRequest() Request {
	return Request{
		PatientName:     "Jane Doe",
		PatientPhone:    "+15551234567",
		AppointmentTime: "2024-01-01T12:00:00",
	}
}

func TestSchedule_CreatesEventThenSendsSMS(t *testing.T) {
	log := &callLog{}
	cal := &stubCalendar{log: log}
	sms := &stubMessenger{log: log}
	ledger := &stubLedger{}
	s := newTestScheduler(cal, sms, ledger)

	req := validRequest()
	req.Timezone = "America/New_York"
	res, err := s.Schedule(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"calendar", "sms"}, log.calls)
	assert.Equal(t, "evt-123", res.EventID)
	assert.Equal(t, ConfirmationSent, res.ConfirmationStatus)
	assert.Equal(t, "SM123", res.MessageID)
	assert.Equal(t, "2024-01-01T07:00:00-05:00", res.LocalizedTime)

	require.Len(t, cal.events, 1)
	ev := cal.events[0]
	assert.Equal(t, "Appointment with Jane Doe", ev.Summary)
	assert.Equal(t, ev.Start, ev.End, "start and end must be identical")
	assert.Equal(t, "UTC", ev.Start.TimeZone)
	assert.Equal(t, "2024-01-01T07:00:00-05:00", ev.Start.DateTime)

	require.Len(t, sms.body, 1)
	assert.Equal(t, "+15551234567", sms.to[0])
	assert.Equal(t, "Your appointment is scheduled for 2024-01-01T12:00:00.", sms.body[0])

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, ConfirmationSent, ledger.entries[0].ConfirmationStatus)
	assert.Empty(t, ledger.entries[0].NotificationError)
}

func TestSchedule_MissingFieldsMakeNoExternalCalls(t *testing.T) {
	cases := map[string]func(*Request){
		"name":  func(r *Request) { r.PatientName = "" },
		"phone": func(r *Request) { r.PatientPhone = "" },
		"time":  func(r *Request) { r.AppointmentTime = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			log := &callLog{}
			s := newTestScheduler(&stubCalendar{log: log}, &stubMessenger{log: log}, nil)
			req := validRequest()
			mutate(&req)

			res, err := s.Schedule(context.Background(), req)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrMissingField)
			assert.Empty(t, log.calls)
		})
	}
}

func TestSchedule_MissingFieldWinsOverInvalidPhone(t *testing.T) {
	log := &callLog{}
	s := newTestScheduler(&stubCalendar{log: log}, &stubMessenger{log: log}, nil)
	_, err := s.Schedule(context.Background(), Request{PatientPhone: "abc"})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "patient_name")
	assert.Contains(t, err.Error(), "appointment_time")
}

func TestSchedule_InvalidInputsMakeNoExternalCalls(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
		want   error
	}{
		{"phone", func(r *Request) { r.PatientPhone = "555-1234" }, ErrInvalidPhone},
		{"timestamp", func(r *Request) { r.AppointmentTime = "next tuesday" }, ErrInvalidTimestamp},
		{"timezone", func(r *Request) { r.Timezone = "Nowhere/Special" }, ErrUnknownTimezone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log := &callLog{}
			s := newTestScheduler(&stubCalendar{log: log}, &stubMessenger{log: log}, nil)
			req := validRequest()
			tc.mutate(&req)

			_, err := s.Schedule(context.Background(), req)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, log.calls)
		})
	}
}

func TestSchedule_CalendarFailureSkipsSMS(t *testing.T) {
	log := &callLog{}
	ledger := &stubLedger{}
	s := newTestScheduler(&stubCalendar{log: log, err: errors.New("quota exceeded")}, &stubMessenger{log: log}, ledger)

	res, err := s.Schedule(context.Background(), validRequest())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCalendarUnavailable)
	assert.Equal(t, []string{"calendar"}, log.calls)
	assert.Empty(t, ledger.entries)
}

func TestSchedule_SMSFailureKeepsEvent(t *testing.T) {
	log := &callLog{}
	ledger := &stubLedger{}
	s := newTestScheduler(&stubCalendar{log: log}, &stubMessenger{log: log, err: errors.New("carrier rejected")}, ledger)

	res, err := s.Schedule(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNotificationFailed)
	require.NotNil(t, res)
	assert.Equal(t, "evt-123", res.EventID)
	require.NotNil(t, res.Event)
	assert.Equal(t, ConfirmationFailed, res.ConfirmationStatus)
	assert.Equal(t, []string{"calendar", "sms"}, log.calls)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, ConfirmationFailed, ledger.entries[0].ConfirmationStatus)
	assert.Equal(t, "carrier rejected", ledger.entries[0].NotificationError)
}

func TestSchedule_LedgerFailureDoesNotChangeResult(t *testing.T) {
	log := &callLog{}
	s := newTestScheduler(&stubCalendar{log: log}, &stubMessenger{log: log}, &stubLedger{err: errors.New("db down")})

	res, err := s.Schedule(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, ConfirmationSent, res.ConfirmationStatus)
}

func TestSchedule_DefaultZoneApplies(t *testing.T) {
	log := &callLog{}
	cal := &stubCalendar{log: log}
	s := NewScheduler(cal, &stubMessenger{log: log}, nil, nil, "Europe/London", logging.New("error"))

	res, err := s.Schedule(context.Background(), Request{
		PatientName:     "Sam",
		PatientPhone:    "447700900123",
		AppointmentTime: "2024-07-01T12:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01T13:00:00+01:00", res.LocalizedTime)
	assert.Equal(t, "UTC", cal.events[0].Start.TimeZone)
}
