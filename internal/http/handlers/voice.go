package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/voice-receptionist/internal/speech"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

const maxAudioUploadBytes = 10 << 20

// Transcriber converts LINEAR16 audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// VoiceHandler serves POST /voice_to_text.
type VoiceHandler struct {
	transcriber Transcriber
	logger      *logging.Logger
}

func NewVoiceHandler(transcriber Transcriber, logger *logging.Logger) *VoiceHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &VoiceHandler{transcriber: transcriber, logger: logger}
}

type voiceResponse struct {
	Text string `json:"text"`
}

func (h *VoiceHandler) VoiceToText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUploadBytes)
	file, _, err := r.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Audio file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded audio", "error", err)
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}

	text, err := h.transcriber.Transcribe(r.Context(), audio)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, voiceResponse{Text: text})
	case errors.Is(err, speech.ErrNoAudioProvided):
		writeError(w, http.StatusBadRequest, "No audio file provided")
	case errors.Is(err, speech.ErrUnintelligible):
		writeError(w, http.StatusUnprocessableEntity, "Could not understand the audio. Please try again.")
	default:
		h.logger.Error("voice-to-text conversion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process the audio. Please try again.")
	}
}
