package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wolfman30/voice-receptionist/internal/appointments"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

const (
	// AuthModeServiceAccount authenticates with a service-account key file.
	AuthModeServiceAccount = "service_account"
	// AuthModeOAuth authenticates as a user through the cached OAuth token.
	AuthModeOAuth = "oauth"
)

// Scope is the OAuth scope the calendar client needs.
const Scope = gcal.CalendarScope

var calendarTracer = otel.Tracer("receptionist.internal.calendar")

// GoogleCalendar inserts appointment events through the Google Calendar v3 API.
type GoogleCalendar struct {
	events     *gcal.EventsService
	calendarID string
	logger     *logging.Logger
}

// ServiceAccountOptions authenticates with a service-account JSON key.
func ServiceAccountOptions(path string) []option.ClientOption {
	return []option.ClientOption{
		option.WithCredentialsFile(path),
		option.WithScopes(Scope),
	}
}

// TokenSourceOptions authenticates with an OAuth token source.
func TokenSourceOptions(ts oauth2.TokenSource) []option.ClientOption {
	return []option.ClientOption{option.WithTokenSource(ts)}
}

// NewGoogleCalendar builds the client. calendarID defaults to "primary".
func NewGoogleCalendar(ctx context.Context, calendarID string, logger *logging.Logger, opts ...option.ClientOption) (*GoogleCalendar, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(calendarID) == "" {
		calendarID = "primary"
	}
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}
	return &GoogleCalendar{
		events:     gcal.NewEventsService(svc),
		calendarID: calendarID,
		logger:     logger,
	}, nil
}

var _ appointments.Calendar = (*GoogleCalendar)(nil)

func (g *GoogleCalendar) CreateEvent(ctx context.Context, event appointments.Event) (*appointments.CreatedEvent, error) {
	ctx, span := calendarTracer.Start(ctx, "calendar.events.insert")
	defer span.End()
	span.SetAttributes(attribute.String("receptionist.calendar_id", g.calendarID))

	out, err := g.events.Insert(g.calendarID, &gcal.Event{
		Summary: event.Summary,
		Start:   &gcal.EventDateTime{DateTime: event.Start.DateTime, TimeZone: event.Start.TimeZone},
		End:     &gcal.EventDateTime{DateTime: event.End.DateTime, TimeZone: event.End.TimeZone},
	}).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("calendar: insert event: %w", err)
	}
	if out.Id == "" {
		return nil, errors.New("calendar: insert returned no event id")
	}
	g.logger.Debug("calendar event inserted", "event_id", out.Id, "status", out.Status)

	created := &appointments.CreatedEvent{
		ID:       out.Id,
		Status:   out.Status,
		HTMLLink: out.HtmlLink,
		Summary:  out.Summary,
		Start:    event.Start,
		End:      event.End,
	}
	if out.Start != nil && out.Start.DateTime != "" {
		created.Start = appointments.EventTime{DateTime: out.Start.DateTime, TimeZone: out.Start.TimeZone}
	}
	if out.End != nil && out.End.DateTime != "" {
		created.End = appointments.EventTime{DateTime: out.End.DateTime, TimeZone: out.End.TimeZone}
	}
	return created, nil
}
