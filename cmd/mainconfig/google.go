package mainconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"

	"github.com/wolfman30/voice-receptionist/internal/calendar"
	appconfig "github.com/wolfman30/voice-receptionist/internal/config"
	"github.com/wolfman30/voice-receptionist/internal/credentials"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// GoogleCredentialOptions authenticates the speech clients with the service
// account file, falling back to GOOGLE_APPLICATION_CREDENTIALS.
func GoogleCredentialOptions(cfg *appconfig.Config) ([]option.ClientOption, error) {
	path := strings.TrimSpace(cfg.ServiceAccountFile)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return []option.ClientOption{option.WithCredentialsFile(path)}, nil
		}
	}
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		return nil, nil
	}
	return nil, fmt.Errorf("mainconfig: service account file %q not found and GOOGLE_APPLICATION_CREDENTIALS is unset", path)
}

// BuildCalendar authenticates the calendar client per CALENDAR_AUTH_MODE.
func BuildCalendar(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*calendar.GoogleCalendar, error) {
	switch cfg.CalendarAuthMode {
	case "", calendar.AuthModeServiceAccount:
		if _, err := os.Stat(cfg.ServiceAccountFile); err != nil {
			return nil, fmt.Errorf("mainconfig: service account file: %w", err)
		}
		return calendar.NewGoogleCalendar(ctx, cfg.CalendarID, logger, calendar.ServiceAccountOptions(cfg.ServiceAccountFile)...)
	case calendar.AuthModeOAuth:
		oauthCfg, err := credentials.LoadOAuthConfig(cfg.ClientSecretFile, calendar.Scope)
		if err != nil {
			return nil, err
		}
		authorizer := &credentials.LoopbackAuthorizer{Logger: logger}
		ts, err := credentials.TokenSource(ctx, oauthCfg, credentials.NewFileStore(cfg.TokenCacheFile), authorizer.Authorize, logger)
		if err != nil {
			return nil, err
		}
		return calendar.NewGoogleCalendar(ctx, cfg.CalendarID, logger, calendar.TokenSourceOptions(ts)...)
	default:
		return nil, errors.New("mainconfig: CALENDAR_AUTH_MODE must be service_account or oauth")
	}
}
