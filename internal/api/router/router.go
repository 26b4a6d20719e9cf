package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/voice-receptionist/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/voice-receptionist/internal/http/middleware"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	VoiceHandler       *handlers.VoiceHandler
	ChatHandler        *handlers.ChatHandler
	AppointmentHandler *handlers.AppointmentHandler
	AudioHandler       *handlers.AudioHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Relay endpoints call paid cloud APIs, so they sit behind the limiter.
	r.Group(func(relay chi.Router) {
		if cfg.RateLimitRPS > 0 {
			relay.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		if cfg.VoiceHandler != nil {
			relay.Post("/voice_to_text", cfg.VoiceHandler.VoiceToText)
		}
		if cfg.ChatHandler != nil {
			relay.Post("/chat_with_receptionist", cfg.ChatHandler.ChatWithReceptionist)
		}
		if cfg.AppointmentHandler != nil {
			relay.Post("/schedule_appointment", cfg.AppointmentHandler.ScheduleAppointment)
		}
	})
	if cfg.AudioHandler != nil {
		r.Get("/audio/{id}", cfg.AudioHandler.Serve)
	}

	return r
}
