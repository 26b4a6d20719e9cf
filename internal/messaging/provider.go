package messaging

import (
	"fmt"
	"strings"

	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

const (
	// SMSProviderTwilio selects the Twilio sender.
	SMSProviderTwilio = "twilio"
	// SMSProviderTelnyx selects the Telnyx sender.
	SMSProviderTelnyx = "telnyx"
)

// ProviderSelectionConfig captures the credentials required to build a sender.
type ProviderSelectionConfig struct {
	Preference       string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	TelnyxAPIKey     string
	TelnyxProfileID  string
	TelnyxFromNumber string
}

// BuildSender instantiates the preferred provider. It returns the sender and
// its name, or an error naming the missing settings.
func BuildSender(cfg ProviderSelectionConfig, logger *logging.Logger) (Sender, string, error) {
	if logger == nil {
		logger = logging.Default()
	}
	preference := strings.ToLower(strings.TrimSpace(cfg.Preference))
	if preference == "" {
		preference = SMSProviderTwilio
	}

	var missing []string
	switch preference {
	case SMSProviderTwilio:
		if cfg.TwilioAccountSID == "" {
			missing = append(missing, "TWILIO_ACCOUNT_SID missing")
		}
		if cfg.TwilioAuthToken == "" {
			missing = append(missing, "TWILIO_AUTH_TOKEN missing")
		}
		if cfg.TwilioFromNumber == "" {
			missing = append(missing, "TWILIO_PHONE_NUMBER missing")
		}
		if len(missing) == 0 {
			return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger), SMSProviderTwilio, nil
		}
	case SMSProviderTelnyx:
		if cfg.TelnyxAPIKey == "" {
			missing = append(missing, "TELNYX_API_KEY missing")
		}
		if cfg.TelnyxFromNumber == "" {
			missing = append(missing, "TELNYX_FROM_NUMBER missing")
		}
		if len(missing) == 0 {
			return NewTelnyxSender(cfg.TelnyxAPIKey, cfg.TelnyxProfileID, cfg.TelnyxFromNumber, logger), SMSProviderTelnyx, nil
		}
	default:
		return nil, "", fmt.Errorf("messaging: unknown sms provider %q", preference)
	}
	return nil, "", fmt.Errorf("messaging: %s not configured: %s", preference, strings.Join(missing, ", "))
}
