package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/wolfman30/voice-receptionist/internal/appointments"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

func newTestCalendar(t *testing.T, handler http.HandlerFunc) *GoogleCalendar {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cal, err := NewGoogleCalendar(context.Background(), "", logging.New("error"),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL+"/"),
	)
	require.NoError(t, err)
	return cal
}

func TestGoogleCalendarCreateEvent(t *testing.T) {
	var got map[string]any
	var gotPath string
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "evt-42",
			"status": "confirmed",
			"htmlLink": "https://calendar.example/evt-42",
			"summary": "Appointment with Jane",
			"start": {"dateTime": "2024-01-01T12:00:00Z", "timeZone": "UTC"},
			"end": {"dateTime": "2024-01-01T12:00:00Z", "timeZone": "UTC"}
		}`))
	})

	created, err := cal.CreateEvent(context.Background(), appointments.Event{
		Summary: "Appointment with Jane",
		Start:   appointments.EventTime{DateTime: "2024-01-01T12:00:00Z", TimeZone: "UTC"},
		End:     appointments.EventTime{DateTime: "2024-01-01T12:00:00Z", TimeZone: "UTC"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/calendars/primary/events", gotPath)
	assert.Equal(t, "Appointment with Jane", got["summary"])
	start, _ := got["start"].(map[string]any)
	assert.Equal(t, "UTC", start["timeZone"])

	assert.Equal(t, "evt-42", created.ID)
	assert.Equal(t, "confirmed", created.Status)
	assert.Equal(t, "https://calendar.example/evt-42", created.HTMLLink)
	assert.Equal(t, created.Start, created.End)
}

func TestGoogleCalendarCreateEventError(t *testing.T) {
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	})

	_, err := cal.CreateEvent(context.Background(), appointments.Event{Summary: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar: insert event")
}
