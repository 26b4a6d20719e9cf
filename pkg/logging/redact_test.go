package logging

import "testing"

func TestMaskPhone(t *testing.T) {
	cases := map[string]string{
		"+15551234567":   "*******4567",
		"(555) 123-4567": "******4567",
		"123":            "***",
		"":               "",
	}
	for in, want := range cases {
		if got := MaskPhone(in); got != want {
			t.Errorf("MaskPhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScrubPII(t *testing.T) {
	got := ScrubPII("call me at +1 555 123 4567 or mail jane@example.com on Tuesday")
	want := "call me at [PHONE] or mail [EMAIL] on Tuesday"
	if got != want {
		t.Fatalf("ScrubPII = %q, want %q", got, want)
	}
	if got := ScrubPII("see you at 10:30 on the 5th"); got != "see you at 10:30 on the 5th" {
		t.Fatalf("times should survive scrubbing, got %q", got)
	}
}
