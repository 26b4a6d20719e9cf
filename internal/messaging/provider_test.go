package messaging

import (
	"context"
	"strings"
	"testing"

	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

func TestBuildSender(t *testing.T) {
	logger := logging.New("error")

	sender, name, err := BuildSender(ProviderSelectionConfig{
		TwilioAccountSID: "AC1", TwilioAuthToken: "tok", TwilioFromNumber: "+1555",
	}, logger)
	if err != nil || name != SMSProviderTwilio {
		t.Fatalf("expected twilio default, got %q %v", name, err)
	}
	if _, ok := sender.(*TwilioSender); !ok {
		t.Fatalf("expected *TwilioSender, got %T", sender)
	}

	sender, name, err = BuildSender(ProviderSelectionConfig{
		Preference: "Telnyx", TelnyxAPIKey: "key", TelnyxFromNumber: "+1555",
	}, logger)
	if err != nil || name != SMSProviderTelnyx {
		t.Fatalf("expected telnyx, got %q %v", name, err)
	}
	if _, ok := sender.(*TelnyxSender); !ok {
		t.Fatalf("expected *TelnyxSender, got %T", sender)
	}

	_, _, err = BuildSender(ProviderSelectionConfig{Preference: "twilio"}, logger)
	if err == nil || !strings.Contains(err.Error(), "TWILIO_AUTH_TOKEN missing") {
		t.Fatalf("expected missing credentials reason, got %v", err)
	}

	if _, _, err = BuildSender(ProviderSelectionConfig{Preference: "pigeon"}, logger); err == nil {
		t.Fatal("expected unknown provider error")
	}
}

type recordingSender struct {
	got Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) (string, error) {
	r.got = msg
	return "id-1", nil
}

func TestSMSNotifierNormalizesRecipient(t *testing.T) {
	rec := &recordingSender{}
	notifier := NewSMSNotifier(rec, "+15550000000")
	id, err := notifier.SendSMS(context.Background(), "15551234567", "body")
	if err != nil || id != "id-1" {
		t.Fatalf("unexpected result %q %v", id, err)
	}
	if rec.got.To != "+15551234567" || rec.got.From != "+15550000000" || rec.got.Body != "body" {
		t.Fatalf("unexpected message %#v", rec.got)
	}
}

func TestNormalizeE164(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"  ":              "",
		"+1 (555) 123-45": "+155512345",
		"15551234567":     "+15551234567",
		"abc":             "",
	}
	for in, want := range cases {
		if got := NormalizeE164(in); got != want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", in, got, want)
		}
	}
}
