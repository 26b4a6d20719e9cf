package appointments

import "testing"

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+15551234567", true},
		{"15551234567", true},
		{"+12", true},
		{"+123456789012345", true},
		{"", false},
		{"+", false},
		{"+1", false},
		{"+0123456789", false},
		{"0123456789", false},
		{"+1234567890123456", false},
		{"+1 555 123 4567", false},
		{"+1-555-123-4567", false},
		{"555-abc-1234", false},
		{"++15551234567", false},
		{" +15551234567", false},
		{"+15551234567\n", false},
	}
	for _, tt := range tests {
		if got := ValidatePhone(tt.phone); got != tt.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}
