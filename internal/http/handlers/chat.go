package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wolfman30/voice-receptionist/internal/conversation"
	"github.com/wolfman30/voice-receptionist/internal/speech"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

// Replier produces the assistant's next turn for a session.
type Replier interface {
	Reply(ctx context.Context, sessionID, message string) (string, error)
}

// Synthesizer renders a reply to a stored audio artifact.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*speech.Artifact, error)
}

// ChatHandler serves POST /chat_with_receptionist.
type ChatHandler struct {
	replier     Replier
	synthesizer Synthesizer
	logger      *logging.Logger
}

func NewChatHandler(replier Replier, synthesizer Synthesizer, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{replier: replier, synthesizer: synthesizer, logger: logger}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string  `json:"response"`
	AudioFile *string `json:"audio_file"`
	SessionID string  `json:"session_id"`
}

func (h *ChatHandler) ChatWithReceptionist(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := h.replier.Reply(r.Context(), sessionID, req.Message)
	if errors.Is(err, conversation.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}
	if err != nil {
		h.logger.Error("ai conversation failed", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred during the conversation.")
		return
	}

	resp := chatResponse{Response: reply, SessionID: sessionID}
	if h.synthesizer != nil {
		artifact, err := h.synthesizer.Synthesize(r.Context(), reply)
		if err != nil {
			h.logger.Warn("reply sent without audio", "session_id", sessionID, "error", err)
		} else {
			file := AudioPath(artifact.ID)
			resp.AudioFile = &file
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
