package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/voice-receptionist/internal/speech"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// ArtifactOpener reads stored audio by id.
type ArtifactOpener interface {
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// AudioPath is the URL path clients fetch an artifact from.
func AudioPath(id string) string {
	return "/audio/" + id
}

// AudioHandler serves GET /audio/{id}.
type AudioHandler struct {
	store  ArtifactOpener
	logger *logging.Logger
}

func NewAudioHandler(store ArtifactOpener, logger *logging.Logger) *AudioHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AudioHandler{store: store, logger: logger}
}

func (h *AudioHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rc, err := h.store.Open(r.Context(), id)
	if errors.Is(err, speech.ErrArtifactNotFound) {
		writeError(w, http.StatusNotFound, "Audio not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to open audio artifact", "artifact_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load audio")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", speech.ContentTypeMP3)
	w.Header().Set("Content-Disposition", `inline; filename="`+speech.ArtifactName(id)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("audio stream interrupted", "artifact_id", id, "error", err)
	}
}
