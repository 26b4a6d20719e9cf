package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/voice-receptionist/internal/appointments"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// Scheduler books appointments.
type Scheduler interface {
	Schedule(ctx context.Context, req appointments.Request) (*appointments.Result, error)
}

// AppointmentHandler serves POST /schedule_appointment.
type AppointmentHandler struct {
	scheduler Scheduler
	logger    *logging.Logger
}

func NewAppointmentHandler(scheduler Scheduler, logger *logging.Logger) *AppointmentHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentHandler{scheduler: scheduler, logger: logger}
}

type scheduleResponse struct {
	Message            string                     `json:"message"`
	Event              *appointments.CreatedEvent `json:"event"`
	ConfirmationStatus string                     `json:"confirmation_status"`
}

type scheduleFailure struct {
	Error string                     `json:"error"`
	Event *appointments.CreatedEvent `json:"event,omitempty"`
}

func (h *AppointmentHandler) ScheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointments.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.scheduler.Schedule(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, scheduleResponse{
			Message:            "Appointment scheduled successfully",
			Event:              result.Event,
			ConfirmationStatus: result.ConfirmationStatus,
		})
	case errors.Is(err, appointments.ErrMissingField):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, appointments.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, "Invalid phone number format. Use E.164 format.")
	case errors.Is(err, appointments.ErrInvalidTimestamp):
		writeError(w, http.StatusBadRequest, "Invalid appointment time. Use ISO 8601 format.")
	case errors.Is(err, appointments.ErrUnknownTimezone):
		writeError(w, http.StatusBadRequest, "Unknown timezone.")
	case errors.Is(err, appointments.ErrNotificationFailed):
		h.logger.Error("appointment booked but confirmation sms failed", "error", err)
		failure := scheduleFailure{Error: "Appointment scheduled but the confirmation SMS could not be sent."}
		if result != nil {
			failure.Event = result.Event
		}
		writeJSON(w, http.StatusBadGateway, failure)
	default:
		h.logger.Error("scheduling appointment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to schedule appointment.")
	}
}
