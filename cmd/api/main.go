package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gspeech "cloud.google.com/go/speech/apiv1"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/voice-receptionist/cmd/mainconfig"
	"github.com/wolfman30/voice-receptionist/internal/api/router"
	"github.com/wolfman30/voice-receptionist/internal/appointments"
	appconfig "github.com/wolfman30/voice-receptionist/internal/config"
	"github.com/wolfman30/voice-receptionist/internal/conversation"
	"github.com/wolfman30/voice-receptionist/internal/http/handlers"
	"github.com/wolfman30/voice-receptionist/internal/messaging"
	"github.com/wolfman30/voice-receptionist/internal/observability/metrics"
	"github.com/wolfman30/voice-receptionist/internal/speech"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voice receptionist API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx := context.Background()
	fail := func(msg string, err error) {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}

	if _, err := appointments.LoadZone(cfg.AppointmentZone); err != nil {
		fail("invalid APPOINTMENT_TIMEZONE", err)
	}

	metricsHandler, relayMetrics := setupMetrics()

	googleOpts, err := mainconfig.GoogleCredentialOptions(cfg)
	if err != nil {
		fail("google credentials unavailable", err)
	}
	sttClient, err := gspeech.NewClient(ctx, googleOpts...)
	if err != nil {
		fail("failed to create speech-to-text client", err)
	}
	defer sttClient.Close()
	ttsClient, err := texttospeech.NewClient(ctx, googleOpts...)
	if err != nil {
		fail("failed to create text-to-speech client", err)
	}
	defer ttsClient.Close()

	artifacts, err := mainconfig.BuildArtifactStore(ctx, cfg, logger)
	if err != nil {
		fail("failed to initialize audio store", err)
	}
	transcriber := speech.NewTranscriber(sttClient, speech.TranscriberConfig{
		LanguageCode: cfg.SpeechLanguageCode,
		SampleRateHz: cfg.SpeechSampleRateHz,
	}, relayMetrics, logger)
	synthesizer := speech.NewSynthesizer(ttsClient, artifacts, speech.SynthesizerConfig{
		LanguageCode: cfg.SpeechLanguageCode,
		VoiceName:    cfg.TTSVoiceName,
	}, relayMetrics, logger)

	llm, err := mainconfig.BuildLLMClient(ctx, cfg, "")
	if err != nil {
		fail("failed to initialize llm client", err)
	}
	sessions, closeSessions, err := mainconfig.BuildSessionStore(ctx, cfg)
	if err != nil {
		fail("failed to initialize session store", err)
	}
	defer closeSessions()
	relay := conversation.NewRelay(llm, sessions, conversation.RelayConfig{
		MaxTokens:    cfg.LLMMaxTokens,
		SystemPrompt: cfg.SystemPrompt,
	}, relayMetrics, logger)

	cal, err := mainconfig.BuildCalendar(ctx, cfg, logger)
	if err != nil {
		fail("failed to initialize calendar client", err)
	}
	sender, provider, err := messaging.BuildSender(messaging.ProviderSelectionConfig{
		Preference:       cfg.SMSProvider,
		TwilioAccountSID: cfg.TwilioAccountSID,
		TwilioAuthToken:  cfg.TwilioAuthToken,
		TwilioFromNumber: cfg.TwilioFromNumber,
		TelnyxAPIKey:     cfg.TelnyxAPIKey,
		TelnyxProfileID:  cfg.TelnyxMessagingProfileID,
		TelnyxFromNumber: cfg.TelnyxFromNumber,
	}, logger)
	if err != nil {
		fail("failed to initialize sms sender", err)
	}
	logger.Info("sms provider selected", "provider", provider)

	ledger, pool, err := mainconfig.BuildLedger(ctx, cfg, logger)
	if err != nil {
		fail("failed to initialize appointment ledger", err)
	}
	if pool != nil {
		defer pool.Close()
	}
	scheduler := appointments.NewScheduler(cal, messaging.NewSMSNotifier(sender, ""), ledger, relayMetrics, cfg.AppointmentZone, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		VoiceHandler:       handlers.NewVoiceHandler(transcriber, logger),
		ChatHandler:        handlers.NewChatHandler(relay, synthesizer, logger),
		AppointmentHandler: handlers.NewAppointmentHandler(scheduler, logger),
		AudioHandler:       handlers.NewAudioHandler(artifacts, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers relay metrics on a private registry alongside the
// Go runtime and process collectors.
func setupMetrics() (http.Handler, *metrics.RelayMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	relayMetrics := metrics.NewRelayMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), relayMetrics
}
