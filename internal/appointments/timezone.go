package appointments

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const defaultZone = "UTC"

// layouts accepted for timestamps without an explicit offset. These are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// layouts that carry their own offset. The instant is preserved.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// ParseTimestamp reads an ISO-8601 timestamp, treating offset-less input as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// LoadZone resolves an IANA zone name; blank means UTC.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return loc, nil
}

// Output layouts. UTC renders as +00:00, and sub-second precision is
// microseconds, written only when non-zero.
const (
	localizedLayout      = "2006-01-02T15:04:05-07:00"
	localizedMicroLayout = "2006-01-02T15:04:05.000000-07:00"
)

// Localize converts appointmentTime into timezone and returns it as RFC 3339.
// The zone is resolved before the timestamp is parsed, so a bad zone wins when
// both inputs are wrong.
func Localize(appointmentTime, timezone string) (string, error) {
	loc, err := LoadZone(timezone)
	if err != nil {
		return "", err
	}
	t, err := ParseTimestamp(appointmentTime)
	if err != nil {
		return "", err
	}
	return formatLocalized(t.In(loc)), nil
}

func formatLocalized(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(localizedMicroLayout)
	}
	return t.Format(localizedLayout)
}
