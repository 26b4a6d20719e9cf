package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	gspeech "cloud.google.com/go/speech/apiv1"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/joho/godotenv"

	"github.com/wolfman30/voice-receptionist/cmd/mainconfig"
	appconfig "github.com/wolfman30/voice-receptionist/internal/config"
	"github.com/wolfman30/voice-receptionist/internal/conversation"
	"github.com/wolfman30/voice-receptionist/internal/speech"
	"github.com/wolfman30/voice-receptionist/internal/voiceloop"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fail := func(msg string, err error) {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}

	// The loop talks to Gemini unless LLM_PROVIDER names another provider explicitly.
	provider := conversation.ProviderGemini
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		provider = v
	}
	llm, err := mainconfig.BuildLLMClient(ctx, cfg, provider)
	if err != nil {
		fail("failed to initialize llm client", err)
	}

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

	// Played replies are deleted after playback, so a scratch dir is enough.
	artifacts, err := speech.NewLocalStore(filepath.Join(os.TempDir(), "voice-loop"))
	if err != nil {
		fail("failed to create audio dir", err)
	}

	loop := voiceloop.New(
		voiceloop.NewMicListener(voiceloop.CaptureConfig{
			Command:         cfg.CaptureCommand,
			SampleRateHz:    cfg.SpeechSampleRateHz,
			ListenTimeout:   cfg.ListenTimeout,
			PhraseLimit:     cfg.PhraseLimit,
			EnergyThreshold: cfg.EnergyThreshold,
		}),
		speech.NewTranscriber(sttClient, speech.TranscriberConfig{
			LanguageCode: cfg.SpeechLanguageCode,
			SampleRateHz: cfg.SpeechSampleRateHz,
		}, nil, logger),
		conversation.NewRelay(llm, conversation.NewMemoryStore(), conversation.RelayConfig{
			MaxTokens:    cfg.LLMMaxTokens,
			SystemPrompt: cfg.SystemPrompt,
		}, nil, logger),
		speech.NewSynthesizer(ttsClient, artifacts, speech.SynthesizerConfig{
			LanguageCode: cfg.SpeechLanguageCode,
			VoiceName:    cfg.TTSVoiceName,
		}, nil, logger),
		voiceloop.NewCommandPlayer(cfg.PlayerCommand),
		logger,
	)

	logger.Info("listening; press Ctrl+C to stop", "llm_provider", provider)
	if err := loop.Run(ctx); err != nil {
		fail("voice loop failed", err)
	}
}
