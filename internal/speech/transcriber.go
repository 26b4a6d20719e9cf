package speech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/voice-receptionist/internal/observability/metrics"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

var speechTracer = otel.Tracer("receptionist.internal.speech")

// Recognizer is the subset of *speech.Client used for transcription.
type Recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
}

// TranscriberConfig describes the audio the recognizer should expect.
type TranscriberConfig struct {
	LanguageCode string
	SampleRateHz int
}

// Transcriber turns raw LINEAR16 audio into text.
type Transcriber struct {
	client  Recognizer
	cfg     TranscriberConfig
	metrics *metrics.RelayMetrics
	logger  *logging.Logger
}

func NewTranscriber(client Recognizer, cfg TranscriberConfig, m *metrics.RelayMetrics, logger *logging.Logger) *Transcriber {
	if client == nil {
		panic("speech: recognizer required")
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.SampleRateHz <= 0 {
		cfg.SampleRateHz = 16000
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Transcriber{client: client, cfg: cfg, metrics: m, logger: logger}
}

// Transcribe returns the top alternative of the first recognition result.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoAudioProvided
	}

	ctx, span := speechTracer.Start(ctx, "speech.recognize")
	defer span.End()
	span.SetAttributes(attribute.Int("receptionist.audio_bytes", len(audio)))

	started := time.Now()
	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   int32(t.cfg.SampleRateHz),
			LanguageCode:      t.cfg.LanguageCode,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	t.metrics.ObserveCall(metrics.CollaboratorSpeech, started, err)
	if err != nil {
		span.RecordError(err)
		t.logger.Error("speech recognition failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrTranscriptionUnavailable, err)
	}
	if len(resp.GetResults()) == 0 {
		return "", fmt.Errorf("%w: no results", ErrTranscriptionUnavailable)
	}

	alts := resp.GetResults()[0].GetAlternatives()
	if len(alts) == 0 {
		return "", ErrUnintelligible
	}
	text := strings.TrimSpace(alts[0].GetTranscript())
	if text == "" {
		return "", ErrUnintelligible
	}
	t.logger.Info("audio transcribed", "chars", len(text))
	return text, nil
}
