package speech

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

type stubRecognizer struct {
	resp  *speechpb.RecognizeResponse
	err   error
	calls int
	last  *speechpb.RecognizeRequest
}

func (s *stubRecognizer) Recognize(_ context.Context, req *speechpb.RecognizeRequest, _ ...gax.CallOption) (*speechpb.RecognizeResponse, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

func result(transcripts ...string) *speechpb.SpeechRecognitionResult {
	r := &speechpb.SpeechRecognitionResult{}
	for _, t := range transcripts {
		r.Alternatives = append(r.Alternatives, &speechpb.SpeechRecognitionAlternative{Transcript: t})
	}
	return r
}

func newTestTranscriber(rec *stubRecognizer) *Transcriber {
	return NewTranscriber(rec, TranscriberConfig{}, nil, logging.New("error"))
}

func TestTranscribeReturnsFirstAlternative(t *testing.T) {
	rec := &stubRecognizer{resp: &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{result("book me for tuesday", "look me for tuesday"), result("ignored")},
	}}

	text, err := newTestTranscriber(rec).Transcribe(context.Background(), []byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, "book me for tuesday", text)

	cfg := rec.last.GetConfig()
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, cfg.GetEncoding())
	assert.EqualValues(t, 16000, cfg.GetSampleRateHertz())
	assert.Equal(t, "en-US", cfg.GetLanguageCode())
	assert.Equal(t, []byte{1, 2, 3, 4}, rec.last.GetAudio().GetContent())
}

func TestTranscribeEmptyAudio(t *testing.T) {
	rec := &stubRecognizer{}
	_, err := newTestTranscriber(rec).Transcribe(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoAudioProvided)
	assert.Zero(t, rec.calls)
}

func TestTranscribeErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  *stubRecognizer
		want error
	}{
		{"collaborator error", &stubRecognizer{err: errors.New("deadline exceeded")}, ErrTranscriptionUnavailable},
		{"no results", &stubRecognizer{resp: &speechpb.RecognizeResponse{}}, ErrTranscriptionUnavailable},
		{"no alternatives", &stubRecognizer{resp: &speechpb.RecognizeResponse{
			Results: []*speechpb.SpeechRecognitionResult{result()},
		}}, ErrUnintelligible},
		{"blank transcript", &stubRecognizer{resp: &speechpb.RecognizeResponse{
			Results: []*speechpb.SpeechRecognitionResult{result("   ")},
		}}, ErrUnintelligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestTranscriber(tt.rec).Transcribe(context.Background(), []byte{0, 1})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
