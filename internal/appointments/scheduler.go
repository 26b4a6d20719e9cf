package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/voice-receptionist/internal/observability/metrics"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

var schedulerTracer = otel.Tracer("receptionist.internal.appointments")

// Confirmation statuses reported on a Result.
const (
	ConfirmationSent   = "sent"
	ConfirmationFailed = "failed"
)

// eventTimeZone is the zone recorded on every calendar event, whatever zone
// the caller asked to localize into.
const eventTimeZone = "UTC"

// Request is an inbound appointment request.
type Request struct {
	PatientName     string `json:"patient_name"`
	PatientPhone    string `json:"patient_phone"`
	AppointmentTime string `json:"appointment_time"`
	Timezone        string `json:"timezone,omitempty"`
}

// EventTime is a calendar timestamp plus the zone it is recorded in.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Event is the calendar entry created for an appointment. Start and End are
// identical; no duration is computed.
type Event struct {
	Summary string    `json:"summary"`
	Start   EventTime `json:"start"`
	End     EventTime `json:"end"`
}

// CreatedEvent is what the calendar returned for an inserted Event.
type CreatedEvent struct {
	ID       string    `json:"id"`
	Status   string    `json:"status,omitempty"`
	HTMLLink string    `json:"htmlLink,omitempty"`
	Summary  string    `json:"summary"`
	Start    EventTime `json:"start"`
	End      EventTime `json:"end"`
}

// Result reports the outcome of Schedule. Event is set whenever the calendar
// call succeeded, including when the confirmation SMS failed afterwards.
type Result struct {
	EventID            string        `json:"event_id"`
	Event              *CreatedEvent `json:"event"`
	LocalizedTime      string        `json:"localized_time"`
	ConfirmationStatus string        `json:"confirmation_status"`
	MessageID          string        `json:"message_id,omitempty"`
}

// Calendar creates events in the external calendar.
type Calendar interface {
	CreateEvent(ctx context.Context, event Event) (*CreatedEvent, error)
}

// Messenger delivers SMS messages and returns the provider message id.
type Messenger interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// Scheduler sequences validation, calendar creation and the confirmation SMS.
type Scheduler struct {
	calendar  Calendar
	messenger Messenger
	ledger    Ledger
	metrics   *metrics.RelayMetrics
	zone      string
	logger    *logging.Logger
	now       func() time.Time
}

// NewScheduler wires the scheduler. ledger may be nil; zone applies when
// a request carries no timezone and may be blank (UTC).
func NewScheduler(calendar Calendar, messenger Messenger, ledger Ledger, m *metrics.RelayMetrics, zone string, logger *logging.Logger) *Scheduler {
	if calendar == nil {
		panic("appointments: calendar required")
	}
	if messenger == nil {
		panic("appointments: messenger required")
	}
	if ledger == nil {
		ledger = NopLedger{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		calendar:  calendar,
		messenger: messenger,
		ledger:    ledger,
		metrics:   m,
		zone:      zone,
		logger:    logger,
		now:       time.Now,
	}
}

// Schedule books the appointment. There is no rollback: when the SMS fails the
// returned Result still carries the created event alongside ErrNotificationFailed.
func (s *Scheduler) Schedule(ctx context.Context, req Request) (*Result, error) {
	ctx, span := schedulerTracer.Start(ctx, "appointments.schedule")
	defer span.End()

	if err := checkRequired(req); err != nil {
		return nil, err
	}
	if !ValidatePhone(req.PatientPhone) {
		return nil, fmt.Errorf("%w: use E.164 format", ErrInvalidPhone)
	}

	zone := req.Timezone
	if strings.TrimSpace(zone) == "" {
		zone = s.zone
	}
	localized, err := Localize(req.AppointmentTime, zone)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("receptionist.timezone", zone))

	event := Event{
		Summary: "Appointment with " + req.PatientName,
		Start:   EventTime{DateTime: localized, TimeZone: eventTimeZone},
		End:     EventTime{DateTime: localized, TimeZone: eventTimeZone},
	}

	started := time.Now()
	created, err := s.calendar.CreateEvent(ctx, event)
	s.metrics.ObserveCall(metrics.CollaboratorCalendar, started, err)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("calendar event creation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCalendarUnavailable, err)
	}
	span.SetAttributes(attribute.String("receptionist.event_id", created.ID))
	s.logger.Info("calendar event created",
		"event_id", created.ID,
		"localized_time", localized,
		"patient_phone", logging.MaskPhone(req.PatientPhone),
	)

	result := &Result{
		EventID:            created.ID,
		Event:              created,
		LocalizedTime:      localized,
		ConfirmationStatus: ConfirmationSent,
	}

	started = time.Now()
	messageID, sendErr := s.messenger.SendSMS(ctx, req.PatientPhone, ReminderBody(req.AppointmentTime))
	s.metrics.ObserveCall(metrics.CollaboratorSMS, started, sendErr)
	if sendErr != nil {
		span.RecordError(sendErr)
		result.ConfirmationStatus = ConfirmationFailed
		s.logger.Error("confirmation sms failed; calendar event kept",
			"event_id", created.ID,
			"error", sendErr,
		)
	} else {
		result.MessageID = messageID
	}

	s.record(ctx, req, result, sendErr)
	s.metrics.ObserveAppointment(result.ConfirmationStatus)

	if sendErr != nil {
		return result, fmt.Errorf("%w: %w", ErrNotificationFailed, sendErr)
	}
	return result, nil
}

// ReminderBody is the confirmation text. It quotes the time exactly as the
// caller supplied it, not the localized value.
func ReminderBody(appointmentTime string) string {
	return fmt.Sprintf("Your appointment is scheduled for %s.", appointmentTime)
}

func (s *Scheduler) record(ctx context.Context, req Request, result *Result, sendErr error) {
	entry := LedgerEntry{
		EventID:            result.EventID,
		PatientName:        req.PatientName,
		PatientPhone:       req.PatientPhone,
		AppointmentTime:    req.AppointmentTime,
		LocalizedTime:      result.LocalizedTime,
		ConfirmationStatus: result.ConfirmationStatus,
		MessageID:          result.MessageID,
		RecordedAt:         s.now().UTC(),
	}
	if sendErr != nil {
		entry.NotificationError = sendErr.Error()
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record appointment in ledger", "event_id", result.EventID, "error", err)
	}
}

func checkRequired(req Request) error {
	fields := []struct {
		name  string
		value string
	}{
		{"patient_name", req.PatientName},
		{"patient_phone", req.PatientPhone},
		{"appointment_time", req.AppointmentTime},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}
