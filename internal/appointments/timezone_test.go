package appointments

import (
	"errors"
	"testing"
)

func TestLocalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		zone     string
		expected string
	}{
		{"winter new york", "2024-01-01T12:00:00", "America/New_York", "2024-01-01T07:00:00-05:00"},
		{"summer new york", "2024-07-01T12:00:00", "America/New_York", "2024-07-01T08:00:00-04:00"},
		{"default utc", "2024-01-01T12:00:00", "", "2024-01-01T12:00:00+00:00"},
		{"explicit utc", "2024-01-01T12:00:00", "UTC", "2024-01-01T12:00:00+00:00"},
		{"fractional seconds", "2024-01-01T12:00:00.250", "UTC", "2024-01-01T12:00:00.250000+00:00"},
		{"sub-microsecond dropped", "2024-01-01T12:00:00.0000004", "UTC", "2024-01-01T12:00:00+00:00"},
		{"fractional seconds localized", "2024-01-01T12:00:00.123456789Z", "America/New_York", "2024-01-01T07:00:00.123456-05:00"},
		{"minutes only", "2024-01-01T12:30", "Asia/Kolkata", "2024-01-01T18:00:00+05:30"},
		{"date only", "2024-03-15", "UTC", "2024-03-15T00:00:00+00:00"},
		{"offset preserved", "2024-01-01T12:00:00-05:00", "UTC", "2024-01-01T17:00:00+00:00"},
		{"zulu", "2024-01-01T12:00:00Z", "Europe/Paris", "2024-01-01T13:00:00+01:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Localize(tt.input, tt.zone)
			if err != nil {
				t.Fatalf("Localize returned error: %v", err)
			}
			if got != tt.expected {
				t.Fatalf("Localize(%q, %q) = %s, want %s", tt.input, tt.zone, got, tt.expected)
			}
		})
	}
}

func TestLocalizeErrors(t *testing.T) {
	if _, err := Localize("tomorrow at noon", "UTC"); !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
	if _, err := Localize("", "UTC"); !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp for empty input, got %v", err)
	}
	if _, err := Localize("2024-01-01T12:00:00", "Mars/Olympus_Mons"); !errors.Is(err, ErrUnknownTimezone) {
		t.Fatalf("expected ErrUnknownTimezone, got %v", err)
	}
}
