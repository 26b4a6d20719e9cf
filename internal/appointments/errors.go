package appointments

import "errors"

var (
	// ErrMissingField means a required request field was blank.
	ErrMissingField = errors.New("appointments: missing required field")
	// ErrInvalidPhone means the phone number is not E.164 shaped.
	ErrInvalidPhone = errors.New("appointments: invalid phone number")
	// ErrInvalidTimestamp means appointment_time could not be parsed.
	ErrInvalidTimestamp = errors.New("appointments: invalid timestamp")
	// ErrUnknownTimezone means the IANA zone name was not recognized.
	ErrUnknownTimezone = errors.New("appointments: unknown timezone")
	// ErrCalendarUnavailable means the calendar create call failed. Nothing was created.
	ErrCalendarUnavailable = errors.New("appointments: calendar unavailable")
	// ErrNotificationFailed means the event was created but the SMS was not sent.
	ErrNotificationFailed = errors.New("appointments: notification failed")
)
