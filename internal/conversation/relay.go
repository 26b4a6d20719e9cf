package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/voice-receptionist/internal/observability/metrics"
	"github.com/wolfman30/voice-receptionist/pkg/logging"
)

var (
	// ErrEmptyMessage means the caller sent no text.
	ErrEmptyMessage = errors.New("conversation: message is required")
	// ErrGenerationUnavailable means the language model failed or returned nothing.
	ErrGenerationUnavailable = errors.New("conversation: generation unavailable")
	// ErrSessionUnavailable means the session history could not be read or written.
	ErrSessionUnavailable = errors.New("conversation: session store unavailable")
)

var relayTracer = otel.Tracer("receptionist.internal.conversation")

// RelayConfig tunes the requests sent to the model.
type RelayConfig struct {
	Model        string
	MaxTokens    int
	SystemPrompt string
}

// Relay appends turns to a session history and asks the model for the next reply.
type Relay struct {
	llm       LLMClient
	store     SessionStore
	model     string
	maxTokens int32
	system    string
	metrics   *metrics.RelayMetrics
	logger    *logging.Logger

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock is dropped from Relay.locks once no reply holds or waits on it.
type sessionLock struct {
	mu      sync.Mutex
	holders int
}

func NewRelay(llm LLMClient, store SessionStore, cfg RelayConfig, m *metrics.RelayMetrics, logger *logging.Logger) *Relay {
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Relay{
		llm:       llm,
		store:     store,
		model:     cfg.Model,
		maxTokens: int32(cfg.MaxTokens),
		system:    SystemPrompt(cfg.SystemPrompt),
		metrics:   m,
		logger:    logger,
		locks:     make(map[string]*sessionLock),
	}
}

// Reply records the user turn and the model's answer in the session. Nothing
// is written when generation fails, so a retried message is not duplicated.
func (r *Relay) Reply(ctx context.Context, sessionID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}

	ctx, span := relayTracer.Start(ctx, "conversation.reply")
	defer span.End()
	span.SetAttributes(attribute.String("receptionist.session_id", sessionID))

	unlock := r.lock(sessionID)
	defer unlock()

	history, err := r.store.Load(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}
	history = append(history, ChatMessage{Role: ChatRoleUser, Content: message})

	started := time.Now()
	resp, err := r.llm.Complete(ctx, LLMRequest{
		Model:       r.model,
		System:      []string{r.system},
		Messages:    history,
		MaxTokens:   r.maxTokens,
		Temperature: -1,
	})
	if err == nil && resp.Text == "" {
		err = errors.New("empty completion")
	}
	r.metrics.ObserveCall(metrics.CollaboratorLLM, started, err)
	if err != nil {
		span.RecordError(err)
		r.logger.Error("llm completion failed", "session_id", sessionID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}

	history = append(history, ChatMessage{Role: ChatRoleAssistant, Content: resp.Text})
	if err := r.store.Save(ctx, sessionID, history); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}

	r.logger.Info("assistant replied",
		"session_id", sessionID,
		"turns", len(history),
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp.Text, nil
}

// lock serializes replies within one session.
func (r *Relay) lock(sessionID string) func() {
	r.locksMu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		r.locks[sessionID] = l
	}
	l.holders++
	r.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		r.locksMu.Lock()
		l.holders--
		if l.holders == 0 {
			delete(r.locks, sessionID)
		}
		r.locksMu.Unlock()
	}
}
