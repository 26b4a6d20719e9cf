package speech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/google/uuid"
	"github.com/googleapis/gax-go/v2"

	"github.com/wolfman30/voice-receptionist/internal/observability/metrics"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// SpeechClient is the subset of *texttospeech.Client used for synthesis.
type SpeechClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

// SynthesizerConfig selects the voice.
type SynthesizerConfig struct {
	LanguageCode string
	VoiceName    string
}

// Synthesizer renders text to MP3 and stores each result as its own artifact.
type Synthesizer struct {
	client  SpeechClient
	store   ArtifactStore
	cfg     SynthesizerConfig
	metrics *metrics.RelayMetrics
	logger  *logging.Logger
	newID   func() string
}

func NewSynthesizer(client SpeechClient, store ArtifactStore, cfg SynthesizerConfig, m *metrics.RelayMetrics, logger *logging.Logger) *Synthesizer {
	if client == nil {
		panic("speech: tts client required")
	}
	if store == nil {
		panic("speech: artifact store required")
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.VoiceName == "" {
		cfg.VoiceName = "en-US-Wavenet-D"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Synthesizer{
		client:  client,
		store:   store,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		newID:   func() string { return uuid.NewString() },
	}
}

// Synthesize returns nil and ErrSynthesisUnavailable when no audio was stored.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*Artifact, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrSynthesisUnavailable)
	}

	ctx, span := speechTracer.Start(ctx, "speech.synthesize")
	defer span.End()

	started := time.Now()
	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.cfg.LanguageCode,
			Name:         s.cfg.VoiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	s.metrics.ObserveCall(metrics.CollaboratorSynthesis, started, err)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("speech synthesis failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSynthesisUnavailable, err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("%w: empty audio content", ErrSynthesisUnavailable)
	}

	artifact, err := s.store.Put(ctx, s.newID(), resp.GetAudioContent(), ContentTypeMP3)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("storing synthesized audio failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSynthesisUnavailable, err)
	}
	s.logger.Info("speech synthesized", "artifact_id", artifact.ID, "bytes", artifact.Size)
	return artifact, nil
}
